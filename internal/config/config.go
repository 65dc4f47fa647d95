// Package config loads the tool adapter configuration from the packaged
// properties file.
//
// The file uses Java properties syntax:
//
//	credentialsPathname=credentials.json
//	tokenPathname=.scholar/tokens
//	databasePathname=scholar.db
//
// credentialsPathname is resolved through the ResourceLoader, tokenPathname is
// resolved relative to the user's home directory.
package config

import (
	"fmt"

	"github.com/magiconair/properties"
)

// DefaultFile is the name of the packaged properties file.
const DefaultFile = "googletools.txt"

// Property keys.
const (
	KeyCredentialsPathname = "credentialsPathname"
	KeyTokenPathname       = "tokenPathname"
	KeyDatabasePathname    = "databasePathname"
)

// Config holds the values read from the properties file.
type Config struct {
	// CredentialsPathname locates the OAuth client secret JSON among the
	// packaged resources.
	CredentialsPathname string

	// TokenPathname is the directory, relative to $HOME, where the obtained
	// credential is persisted.
	TokenPathname string

	// DatabasePathname is the SQLite file backing the student repository.
	// Empty disables the student tools.
	DatabasePathname string
}

// Load reads and validates the properties file at path.
func Load(loader ResourceLoader, path string) (*Config, error) {
	data, err := ReadAll(loader, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses properties file contents.
func Parse(data []byte) (*Config, error) {
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties: %w", err)
	}

	cfg := &Config{
		CredentialsPathname: props.GetString(KeyCredentialsPathname, ""),
		TokenPathname:       props.GetString(KeyTokenPathname, ""),
		DatabasePathname:    props.GetString(KeyDatabasePathname, ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the required keys are present.
func (c *Config) Validate() error {
	if c.CredentialsPathname == "" {
		return fmt.Errorf("%s is required", KeyCredentialsPathname)
	}
	if c.TokenPathname == "" {
		return fmt.Errorf("%s is required", KeyTokenPathname)
	}
	return nil
}
