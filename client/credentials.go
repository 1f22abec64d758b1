package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/work-note/domain/user"
	"gopkg.in/yaml.v3"
)

// CredentialStore persists the signed-in identity between runs.
type CredentialStore interface {
	// Load returns nil, nil when nothing is stored.
	Load() (*user.Identity, error)
	Save(id *user.Identity) error
	Clear() error
}

// FileCredentials stores the identity as YAML readable only by the owner.
type FileCredentials struct {
	path string
}

var _ CredentialStore = (*FileCredentials)(nil)

// NewFileCredentials creates a FileCredentials at path.
func NewFileCredentials(path string) *FileCredentials {
	return &FileCredentials{path: path}
}

// DefaultCredentialsPath returns ~/.worknote/credentials.yaml.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".worknote", "credentials.yaml"), nil
}

func (f *FileCredentials) Load() (*user.Identity, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var id user.Identity
	if err := yaml.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", f.path, err)
	}
	if id.Tokens.RefreshToken == "" {
		return nil, nil
	}
	return &id, nil
}

func (f *FileCredentials) Save(id *user.Identity) error {
	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(f.path, 0o600)
}

func (f *FileCredentials) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// MemoryCredentials keeps the identity in memory.
type MemoryCredentials struct {
	mu sync.Mutex
	id *user.Identity
}

var _ CredentialStore = (*MemoryCredentials)(nil)

func (m *MemoryCredentials) Load() (*user.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == nil {
		return nil, nil
	}
	id := *m.id
	return &id, nil
}

func (m *MemoryCredentials) Save(id *user.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == nil {
		m.id = nil
		return nil
	}
	cp := *id
	m.id = &cp
	return nil
}

func (m *MemoryCredentials) Clear() error {
	return m.Save(nil)
}
