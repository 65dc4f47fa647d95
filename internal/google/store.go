package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bkscholar/scholar/internal/toolerrors"
)

// CredentialFileName is the file, inside the token directory, that holds the
// serialized credential.
const CredentialFileName = "StoredCredential"

// CredentialStore persists the delegated-access credential.
type CredentialStore interface {
	// Load returns the stored credential, or nil when none has been saved yet.
	Load() (*Credential, error)

	// Save persists cred, replacing any previous credential.
	Save(cred *Credential) error
}

// ResolveStorageDirectory returns home/relPath, creating it when absent.
// The mapping must stay stable across restarts so a granted credential is
// found again without re-authorization.
func ResolveStorageDirectory(home, relPath string) (string, error) {
	if home == "" {
		return "", toolerrors.NewStorageError(relPath, errors.New("home directory is not set"))
	}
	if relPath == "" {
		return "", toolerrors.NewStorageError(home, errors.New("token path is empty"))
	}

	dir := relPath
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(home, relPath)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", toolerrors.NewStorageError(dir, err)
	}
	return dir, nil
}

// FileCredentialStore stores the credential as JSON in a directory.
type FileCredentialStore struct {
	dir string
}

// NewFileCredentialStore resolves the token directory relative to the user's
// home directory and returns a store backed by it.
func NewFileCredentialStore(tokenPathname string) (*FileCredentialStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, toolerrors.NewStorageError(tokenPathname, err)
	}
	dir, err := ResolveStorageDirectory(home, tokenPathname)
	if err != nil {
		return nil, err
	}
	return &FileCredentialStore{dir: dir}, nil
}

// Dir returns the directory holding the credential file.
func (s *FileCredentialStore) Dir() string {
	return s.dir
}

func (s *FileCredentialStore) path() string {
	return filepath.Join(s.dir, CredentialFileName)
}

// Load reads the stored credential. A missing file is not an error.
func (s *FileCredentialStore) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, toolerrors.NewStorageError(s.path(), err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, toolerrors.NewStorageError(s.path(), fmt.Errorf("corrupt credential file: %w", err))
	}
	return &cred, nil
}

// Save writes cred atomically with owner-only permissions. Offline access is
// always requested, so a credential without a refresh token is rejected.
func (s *FileCredentialStore) Save(cred *Credential) error {
	if cred == nil || cred.AccessToken == "" {
		return toolerrors.NewStorageError(s.path(), errors.New("refusing to persist credential without access token"))
	}
	if cred.RefreshToken == "" {
		return toolerrors.NewStorageError(s.path(), errors.New("refusing to persist credential without refresh token"))
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, CredentialFileName+".*.tmp")
	if err != nil {
		return toolerrors.NewStorageError(s.dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return toolerrors.NewStorageError(tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return toolerrors.NewStorageError(tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return toolerrors.NewStorageError(tmpName, err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		return toolerrors.NewStorageError(s.path(), err)
	}
	return nil
}
