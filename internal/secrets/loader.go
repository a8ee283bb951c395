// Package secrets resolves credential material such as the Gemini API key
// from inline configuration values or secret files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from.
type Source struct {
	// Name appears in error messages, e.g. "gemini api key".
	Name string
	// Value is an inline secret from the configuration or the environment.
	Value string
	// File points to a file holding the secret. When set it takes
	// precedence over Value.
	File string
}

// Load resolves the secret, preferring File over Value, and trims it. An
// error names the source when neither carries a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
