package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Flags are INTEGER 0/1 and timestamps are unix seconds so the same schema
// works on PostgreSQL and SQLite.
const schema = `
CREATE TABLE IF NOT EXISTS student (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    password TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS teacher (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    password TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    created_at BIGINT NOT NULL
);

-- Given subject of study e.g. math
CREATE TABLE IF NOT EXISTS course (
    id TEXT PRIMARY KEY,
    teacher_id TEXT NOT NULL REFERENCES teacher(id),
    name TEXT NOT NULL UNIQUE,
    number_of_seats INTEGER NOT NULL DEFAULT 50 CHECK (number_of_seats > 0),
    deleted INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS exam (
    id TEXT PRIMARY KEY,
    course_id TEXT NOT NULL REFERENCES course(id),
    student_id TEXT NOT NULL REFERENCES student(id),
    points INTEGER CHECK (points > 0),
    created_at BIGINT NOT NULL,
    deleted INTEGER NOT NULL DEFAULT 0
)`

const dropSchema = `
DROP TABLE IF EXISTS exam;
DROP TABLE IF EXISTS course;
DROP TABLE IF EXISTS teacher;
DROP TABLE IF EXISTS student`

type exampleUser struct {
	id       string
	name     string
	password string
}

var (
	exampleStudents = []exampleUser{
		{"s1001", "ivan", "test_pas_123"},
		{"s1002", "maria", "test_pas_123"},
	}
	exampleTeachers = []exampleUser{
		{"t2001", "petrov", "test_pas_123"},
	}
	exampleCourses = []course{
		{TeacherID: "t2001", Name: "Math", NumberOfSeats: 30},
		{TeacherID: "t2001", Name: "Programming Basics", NumberOfSeats: 50},
	}
)

// migrate creates the tables, statement by statement since lib/pq and
// modernc sqlite disagree on multi-statement Exec.
func (conn dbConnection) migrate(ctx context.Context, reset bool) error {
	stmts := splitStatements(schema)
	if reset {
		stmts = append(splitStatements(dropSchema), stmts...)
	}

	for _, stmt := range stmts {
		if _, err := conn.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	conn.log.Info("DB schema created", zap.Bool("reset", reset))
	return nil
}

// seed inserts example users, courses and exams. Users that already exist
// are left alone so seeding twice is harmless.
func (conn dbConnection) seed(ctx context.Context) error {
	insertAll := func(users []exampleUser, insert func(ctx context.Context, id, name string, hash []byte) error) error {
		for _, u := range users {
			hash, err := hashPassword(u.password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err = insert(ctx, u.id, u.name, hash); err != nil && !errors.Is(err, errUserAlreadyExists) {
				return fmt.Errorf("insert %s: %w", u.id, err)
			}
		}
		return nil
	}

	if err := insertAll(exampleStudents, conn.insertStudent); err != nil {
		return err
	}
	if err := insertAll(exampleTeachers, conn.insertTeacher); err != nil {
		return err
	}

	existing, err := conn.getTeacherCourses(ctx, exampleTeachers[0].id)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		conn.log.Info("DB already populated with example data")
		return nil
	}

	courseIDs := make([]string, 0, len(exampleCourses))
	for _, c := range exampleCourses {
		id, err := conn.insertCourse(ctx, c)
		if err != nil {
			return err
		}
		courseIDs = append(courseIDs, id)
	}

	exams := []exam{
		{CourseID: courseIDs[0], StudentID: "s1001", Points: 56},
		{CourseID: courseIDs[1], StudentID: "s1001", Points: 81},
		{CourseID: courseIDs[0], StudentID: "s1002", Points: 92},
	}
	for _, e := range exams {
		if err := conn.insertExam(ctx, e); err != nil {
			return err
		}
	}

	conn.log.Info("DB populated with example data")
	return nil
}

func splitStatements(script string) []string {
	var stmts []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
