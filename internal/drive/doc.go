// Package drive exposes the file-store tool operations against the Google
// Drive API.
//
// Files and folders share one shape, FileItem, and are told apart only by
// MimeType. Folders carry FolderMimeType; files created here are always
// plain text.
//
// DeleteByName resolves a name to an id with an exact-name query scoped to
// a parent folder. Drive allows sibling items with identical names, so when
// several match, the one with the lexicographically smallest id is deleted.
// The choice is stable across calls regardless of the service's ordering.
package drive
