package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	errEmptyID          = errors.New("identifier is empty")
	errEmptyPassword    = errors.New("password is empty")
	errEmptyName        = errors.New("name is empty")
	errInvalidRole      = errors.New("no role selected")
	errWrongPassword    = errors.New("wrong password")
	errPasswordMismatch = errors.New("passwords do not match")
	errPasswordTooLong  = errors.New("password is longer than 72 bytes")
)

type userStore interface {
	retrieveStudent(ctx context.Context, id string) (User, error)
	retrieveTeacher(ctx context.Context, id string) (User, error)
	insertStudent(ctx context.Context, id, name string, passwordHash []byte) error
	insertTeacher(ctx context.Context, id, name string, passwordHash []byte) error
	getStudentExams(ctx context.Context, studentID string) ([]studentExam, error)
	getTeacherCourses(ctx context.Context, teacherID string) ([]course, error)
}

type handler struct {
	db       userStore
	sessions sessionIssuer
	log      *zap.Logger
}

// retrieve dispatches the lookup to the table of the selected role.
func (h handler) retrieve(ctx context.Context, role Role, id string) (User, error) {
	switch role {
	case roleStudent:
		return h.db.retrieveStudent(ctx, id)
	case roleTeacher:
		return h.db.retrieveTeacher(ctx, id)
	default:
		return nil, errInvalidRole
	}
}

// login checks the form input in order: identifier, password, role, record,
// credential. The first failing check decides the returned error and no
// later step runs. Surrounding spaces in the identifier are ignored, the same
// way register stores it.
func (h handler) login(ctx context.Context, role Role, id, password string) (session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session{}, errEmptyID
	}
	if password == "" {
		return session{}, errEmptyPassword
	}

	log := h.log.With(zap.String("role", string(role)), zap.String("id", id))

	u, err := h.retrieve(ctx, role, id)
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errInvalidRole) {
			log.Info("login failed", zap.Error(err))
			return session{}, err
		}
		log.Error("login lookup failed", zap.Error(err))
		return session{}, fmt.Errorf("retrieve %s: %w", role, err)
	}

	if !u.comparePassword(password) {
		log.Info("login failed", zap.Error(errWrongPassword))
		return session{}, errWrongPassword
	}

	s, err := h.sessions.issue(u)
	if err != nil {
		log.Error("failed generating session token", zap.Error(err))
		return session{}, err
	}

	log.Info("login successful")
	return s, nil
}

type registration struct {
	role     Role
	id       string
	name     string
	password string
	confirm  string
}

func (r registration) validate() error {
	switch {
	case !r.role.valid():
		return errInvalidRole
	case strings.TrimSpace(r.id) == "":
		return errEmptyID
	case strings.TrimSpace(r.name) == "":
		return errEmptyName
	case r.password == "":
		return errEmptyPassword
	case len(r.password) > maxPasswordBytes:
		return errPasswordTooLong
	case r.password != r.confirm:
		return errPasswordMismatch
	}
	return nil
}

func (h handler) register(ctx context.Context, r registration) error {
	if err := r.validate(); err != nil {
		return err
	}

	hash, err := hashPassword(r.password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	id := strings.TrimSpace(r.id)
	name := strings.TrimSpace(r.name)
	log := h.log.With(zap.String("role", string(r.role)), zap.String("id", id))

	if r.role == roleStudent {
		err = h.db.insertStudent(ctx, id, name, hash)
	} else {
		err = h.db.insertTeacher(ctx, id, name, hash)
	}
	if err != nil {
		log.Warn("register user failed", zap.Error(err))
		return err
	}

	log.Info("user registered")
	return nil
}
