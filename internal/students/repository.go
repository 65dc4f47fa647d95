package students

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no student has the requested id.
var ErrNotFound = errors.New("student not found")

// Student is one row of the student directory.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	City   string `json:"city"`
	Method string `json:"method"`
}

// Repository reads students.
type Repository interface {
	// FindByID returns the student with id, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*Student, error)
	// FindAll returns every student ordered by id.
	FindAll(ctx context.Context) ([]Student, error)
}
