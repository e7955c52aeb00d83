package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	dirPermissions  = 0o700
	filePermissions = 0o600

	// AddressKey names the single value the store persists.
	AddressKey = "server-address"
)

// Store keeps the workout server address for the lifetime of a session.
// Absence of an address is what triggers the first-run prompt.
type Store interface {
	Get() (string, bool)
	Set(address string) error
	Clear() error
}

// MemoryStore holds the address for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	address string
	ok      bool
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address, s.ok
}

func (s *MemoryStore) Set(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address, s.ok = address, true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address, s.ok = "", false
	return nil
}

// FileStore persists the address in a small JSON file named after the
// session key, so the TUI and CLI commands run from one terminal agree.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore constructs a FileStore under dir for the given session key.
// Empty arguments fall back to ResolveSessionDir and Key.
func NewFileStore(dir, key string) (*FileStore, error) {
	var err error
	if dir == "" {
		dir, err = ResolveSessionDir()
		if err != nil {
			return nil, err
		}
	}
	if key == "" {
		key = Key()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(abs, sanitizeKey(key)+".json")}, nil
}

// Path returns the file backing this session.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored address. A missing or unreadable file reads as absent.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false
	}
	address, ok := values[AddressKey]
	return address, ok
}

// Set stores address, replacing any previous value.
func (s *FileStore) Set(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(map[string]string{AddressKey: address})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirPermissions); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return writeFile(s.path, data)
}

// Clear forgets the address. Clearing an empty session is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return values, nil
}

func writeFile(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), "angkat-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(temp.Name(), filePermissions); err != nil {
		return err
	}
	return os.Rename(temp.Name(), path)
}
