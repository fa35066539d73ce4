// Package fixtures loads externally supplied test data.
package fixtures

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SuccessMarker is the expect value of the one record that should sign in
const SuccessMarker = "My account"

// Login is one credential record and the text the storefront should show
type Login struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	UseCase  string `yaml:"use_case"`
	Expect   string `yaml:"expect"`
}

// ExpectsSuccess reports whether the record should land on the account page
func (l Login) ExpectsSuccess() bool {
	return l.Expect == SuccessMarker
}

type loginFile struct {
	Logins []Login `yaml:"logins"`
}

//go:embed logins.yaml
var defaultLogins []byte

// ParseLogins decodes a fixture document with a top-level logins sequence
func ParseLogins(r io.Reader) ([]Login, error) {
	var f loginFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode login fixtures: %w", err)
	}
	return f.Logins, nil
}

// LoadLogins reads a fixture file from disk
func LoadLogins(path string) ([]Login, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open login fixtures: %w", err)
	}
	defer f.Close()
	return ParseLogins(f)
}

// Default returns the fixtures shipped with the suite
func Default() ([]Login, error) {
	return ParseLogins(bytes.NewReader(defaultLogins))
}
