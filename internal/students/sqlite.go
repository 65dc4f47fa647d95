package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/bkscholar/scholar/internal/toolerrors"
)

const schema = `
CREATE TABLE IF NOT EXISTS student (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             VARCHAR(100) NOT NULL,
	email            VARCHAR(150) NOT NULL UNIQUE,
	gender           VARCHAR(10)  NOT NULL,
	city             VARCHAR(500) NOT NULL,
	insertion_method VARCHAR(50)  NOT NULL
)`

const selectColumns = `SELECT id, name, email, gender, city, insertion_method FROM student`

// SQLiteRepository is a Repository backed by a SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the student table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path == "" {
		return nil, toolerrors.NewValidationError("databasePathname", path, nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open student database %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create student table: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// FindByID implements Repository.
func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*Student, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	var s Student
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Gender, &s.City, &s.Method)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load student %d: %w", id, err)
	}
	return &s, nil
}

// FindAll implements Repository. An empty table yields an empty, non-nil slice.
func (r *SQLiteRepository) FindAll(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []Student{}
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Gender, &s.City, &s.Method); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}
