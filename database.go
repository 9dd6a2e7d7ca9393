package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	errUserNotFound      = errors.New("user not found")
	errUserAlreadyExists = errors.New("user already exists")
)

type dbConnection struct {
	db      *sqlx.DB
	timeout time.Duration
	log     *zap.Logger
}

func createDatabaseConnection(ctx context.Context, cfg config, log *zap.Logger) (dbConnection, error) {
	driver, dsn := cfg.dataSource()

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return dbConnection{}, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == driverSQLite {
		// modernc sqlite does not support concurrent writers
		db.SetMaxOpenConns(1)
	}
	log.Info("DB connection established", zap.String("driver", driver))

	return dbConnection{
		db:      db,
		timeout: cfg.DBTimeout,
		log:     log,
	}, nil
}

// dbop runs op against a single connection taken from the pool and releases
// it afterwards. The operation is bounded by the connection's timeout.
func dbop[T any](ctx context.Context, conn dbConnection, op func(ctx context.Context, c *sqlx.Conn) (T, error)) (T, error) {
	var zero T

	if conn.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conn.timeout)
		defer cancel()
	}

	c, err := conn.db.Connx(ctx)
	if err != nil {
		return zero, fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		_ = c.Close()
	}()

	return op(ctx, c)
}

func (conn dbConnection) Close() error {
	return conn.db.Close()
}

func (conn dbConnection) retrieveStudent(ctx context.Context, id string) (User, error) {
	q := conn.db.Rebind("SELECT id, name, password, created_at FROM student WHERE id=?")
	return dbop(ctx, conn, func(ctx context.Context, c *sqlx.Conn) (User, error) {
		var s Student
		if err := c.GetContext(ctx, &s, q, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errUserNotFound
			}
			return nil, fmt.Errorf("query student: %w", err)
		}
		return s, nil
	})
}

func (conn dbConnection) retrieveTeacher(ctx context.Context, id string) (User, error) {
	q := conn.db.Rebind("SELECT id, name, password, created_at FROM teacher WHERE id=? AND active=1")
	return dbop(ctx, conn, func(ctx context.Context, c *sqlx.Conn) (User, error) {
		var t Teacher
		if err := c.GetContext(ctx, &t, q, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errUserNotFound
			}
			return nil, fmt.Errorf("query teacher: %w", err)
		}
		return t, nil
	})
}

func (conn dbConnection) insertStudent(ctx context.Context, id, name string, passwordHash []byte) error {
	return conn.insertPerson(ctx, "student", id, name, passwordHash)
}

func (conn dbConnection) insertTeacher(ctx context.Context, id, name string, passwordHash []byte) error {
	return conn.insertPerson(ctx, "teacher", id, name, passwordHash)
}

// insertPerson checks for an existing identifier inside the same transaction
// so a duplicate is reported the same way on every driver.
func (conn dbConnection) insertPerson(ctx context.Context, table, id, name string, passwordHash []byte) error {
	exists := conn.db.Rebind("SELECT COUNT(*) FROM " + table + " WHERE id=?")
	insert := conn.db.Rebind("INSERT INTO " + table + "(id, name, password, created_at) VALUES (?, ?, ?, ?)")

	_, err := dbop(ctx, conn, func(ctx context.Context, c *sqlx.Conn) (struct{}, error) {
		tx, err := c.BeginTxx(ctx, nil)
		if err != nil {
			return struct{}{}, fmt.Errorf("begin: %w", err)
		}
		defer func(tx *sqlx.Tx) {
			_ = tx.Rollback()
		}(tx)

		var n int
		if err = tx.GetContext(ctx, &n, exists, id); err != nil {
			return struct{}{}, fmt.Errorf("count %s: %w", table, err)
		}
		if n > 0 {
			return struct{}{}, errUserAlreadyExists
		}

		if _, err = tx.ExecContext(ctx, insert, id, name, string(passwordHash), time.Now().Unix()); err != nil {
			if isUniqueViolation(err) {
				return struct{}{}, errors.Join(errUserAlreadyExists, err)
			}
			return struct{}{}, fmt.Errorf("insert %s: %w", table, err)
		}

		if err = tx.Commit(); err != nil {
			return struct{}{}, fmt.Errorf("commit: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func (conn dbConnection) insertCourse(ctx context.Context, c course) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	q := conn.db.Rebind("INSERT INTO course(id, teacher_id, name, number_of_seats) VALUES (?, ?, ?, ?)")
	return dbop(ctx, conn, func(ctx context.Context, cn *sqlx.Conn) (string, error) {
		if _, err := cn.ExecContext(ctx, q, c.ID, c.TeacherID, c.Name, c.NumberOfSeats); err != nil {
			return "", fmt.Errorf("insert course: %w", err)
		}
		return c.ID, nil
	})
}

func (conn dbConnection) insertExam(ctx context.Context, e exam) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	q := conn.db.Rebind("INSERT INTO exam(id, course_id, student_id, points, created_at) VALUES (?, ?, ?, ?, ?)")
	_, err := dbop(ctx, conn, func(ctx context.Context, c *sqlx.Conn) (struct{}, error) {
		if _, err := c.ExecContext(ctx, q, e.ID, e.CourseID, e.StudentID, e.Points, time.Now().Unix()); err != nil {
			return struct{}{}, fmt.Errorf("insert exam: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func (conn dbConnection) getStudentExams(ctx context.Context, studentID string) ([]studentExam, error) {
	q := conn.db.Rebind(`SELECT c.name AS course_name, e.points FROM exam e
JOIN course c ON c.id = e.course_id
WHERE e.student_id=? AND e.deleted=0 AND c.deleted=0
ORDER BY c.name`)
	return dbop(ctx, conn, func(ctx context.Context, c *sqlx.Conn) ([]studentExam, error) {
		var exams []studentExam
		if err := c.SelectContext(ctx, &exams, q, studentID); err != nil {
			return nil, fmt.Errorf("query exams: %w", err)
		}
		return exams, nil
	})
}

func (conn dbConnection) getTeacherCourses(ctx context.Context, teacherID string) ([]course, error) {
	q := conn.db.Rebind(`SELECT id, teacher_id, name, number_of_seats FROM course
WHERE teacher_id=? AND deleted=0
ORDER BY name`)
	return dbop(ctx, conn, func(ctx context.Context, c *sqlx.Conn) ([]course, error) {
		var courses []course
		if err := c.SelectContext(ctx, &courses, q, teacherID); err != nil {
			return nil, fmt.Errorf("query courses: %w", err)
		}
		return courses, nil
	})
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
