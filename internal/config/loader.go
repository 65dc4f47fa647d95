package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ResourceLoader opens packaged resources by relative path.
type ResourceLoader interface {
	Load(path string) (io.ReadCloser, error)
}

// FSLoader loads resources from an fs.FS.
type FSLoader struct {
	FS fs.FS
}

// NewDirLoader returns a loader rooted at the given directory.
func NewDirLoader(root string) *FSLoader {
	return &FSLoader{FS: os.DirFS(root)}
}

// Load opens path. A leading "classpath:" prefix or slash is ignored so
// values written for the packaged layout keep working.
func (l *FSLoader) Load(path string) (io.ReadCloser, error) {
	name := strings.TrimPrefix(path, "classpath:")
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid resource path %q", path)
	}
	f, err := l.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource %s: %w", name, err)
	}
	return f, nil
}

// ReadAll loads path from loader and returns its full contents.
func ReadAll(loader ResourceLoader, path string) ([]byte, error) {
	rc, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource %s: %w", path, err)
	}
	return data, nil
}
