package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"blog/internal/models"
)

// ErrStorage marks an unreadable or corrupt backing file. A missing file is
// not an error: it reads as an empty collection.
var ErrStorage = errors.New("storage failure")

// Store keeps each collection as one JSON array file under Dir and rewrites
// the whole file on every mutation. The mutex serializes file access within
// this process only; concurrent read-modify-write cycles by callers can still
// lose updates, which is an accepted limitation of the flat-file design.
type Store struct {
	dir string
	mu  sync.Mutex
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", ErrStorage, dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Admins() ([]models.Admin, error) {
	return readCollection[models.Admin](s, "admins")
}

func (s *Store) PutAdmins(admins []models.Admin) error {
	return writeCollection(s, "admins", admins)
}

func (s *Store) Users() ([]models.User, error) {
	return readCollection[models.User](s, "users")
}

func (s *Store) PutUsers(users []models.User) error {
	return writeCollection(s, "users", users)
}

func (s *Store) Posts() ([]models.Post, error) {
	return readCollection[models.Post](s, "posts")
}

func (s *Store) PutPosts(posts []models.Post) error {
	return writeCollection(s, "posts", posts)
}

func readCollection[T any](s *Store, name string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, name, err)
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrStorage, name, err)
	}
	return out, nil
}

func writeCollection[T any](s *Store, name string, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorage, name, err)
	}
	if err := os.WriteFile(s.path(name), b, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
