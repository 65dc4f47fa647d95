// Package studentstest provides a seeded SQLite student directory for tests.
package studentstest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/bkscholar/scholar/internal/students"
)

const insertStudent = `INSERT INTO student (name, email, gender, city, insertion_method) VALUES (?, ?, ?, ?, ?)`

// NewRepository opens a fresh directory in a temporary file and inserts
// seed in order, so the n-th student gets id n. The repository is closed
// when the test ends.
func NewRepository(t testing.TB, seed ...students.Student) *students.SQLiteRepository {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "students.db")

	repo, err := students.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, s := range seed {
		_, err := db.ExecContext(ctx, insertStudent, s.Name, s.Email, s.Gender, s.City, s.Method)
		require.NoError(t, err, "seeding %s", s.Email)
	}
	return repo
}
