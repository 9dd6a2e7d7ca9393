package main

import "golang.org/x/crypto/bcrypt"

type Role string

const (
	roleNone    Role = ""
	roleStudent Role = "student"
	roleTeacher Role = "teacher"
)

func (r Role) valid() bool {
	return r == roleStudent || r == roleTeacher
}

func parseRole(s string) (Role, error) {
	r := Role(s)
	if !r.valid() {
		return roleNone, errInvalidRole
	}
	return r, nil
}

// User is a record retrieved for one role. Identifiers are unique per role,
// so a student and a teacher may carry the same one.
type User interface {
	ID() string
	Name() string
	Role() Role
	comparePassword(password string) bool
}

type person struct {
	Identifier string `db:"id"`
	FullName   string `db:"name"`
	Password   []byte `db:"password"`
	CreatedAt  int64  `db:"created_at"`
}

func (p person) ID() string   { return p.Identifier }
func (p person) Name() string { return p.FullName }

func (p person) comparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword(p.Password, []byte(password)) == nil
}

type Student struct {
	person
}

func (Student) Role() Role { return roleStudent }

type Teacher struct {
	person
}

func (Teacher) Role() Role { return roleTeacher }

type course struct {
	ID            string `db:"id"`
	TeacherID     string `db:"teacher_id"`
	Name          string `db:"name"`
	NumberOfSeats int    `db:"number_of_seats"`
}

type exam struct {
	ID        string `db:"id"`
	CourseID  string `db:"course_id"`
	StudentID string `db:"student_id"`
	Points    int    `db:"points"`
}

type studentExam struct {
	CourseName string `db:"course_name"`
	Points     int    `db:"points"`
}

// bcrypt rejects longer input.
const maxPasswordBytes = 72

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
