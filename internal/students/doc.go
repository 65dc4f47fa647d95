// Package students provides read access to the student directory backing
// the find_a_student and retrieve_students tools.
//
// The directory lives in a SQLite database (modernc.org/sqlite, no cgo).
// The schema is created on open if missing.
package students
