// Package secrets resolves secret values from inline configuration or files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source names a secret and provides it inline or via a file path.
// A non-empty File wins over Value.
type Source struct {
	// Name labels the secret in error messages.
	Name string
	// Value is the secret given directly in configuration.
	Value string
	// File is a path to a file holding the secret.
	File string
}

// Load resolves the source to a trimmed secret value. It fails when the file
// cannot be read or when neither File nor Value yield a non-blank secret.
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

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}

		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
