// Package feedback keeps an append-only text memory of user preference
// corrections. The content has no structure: downstream analysis treats it as
// opaque prompt context.
package feedback

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Store is the feedback memory contract. It is injected rather than read from
// a process-wide location so different configs keep separate memories.
type Store interface {
	// Load returns the accumulated feedback, empty if never written.
	Load() (string, error)
	// Append adds an entry. Empty or whitespace-only input is a no-op.
	Append(text string) error
	// Clear destroys the memory in full.
	Clear() error
}

// FileStore keeps the feedback memory in a single flat file with
// newline-separated entries.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("feedback file path is required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading feedback file %q: %w", s.path, err)
	}
	return string(data), nil
}

func (s *FileStore) Append(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening feedback file %q: %w", s.path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() > 0 {
		text = "\n" + text
	}

	if _, err := file.WriteString(text); err != nil {
		return fmt.Errorf("appending feedback: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
