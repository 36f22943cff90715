package mystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all entities of one kind in a single JSON file, the way a
// browser keeps a value per local-storage key. Every mutation rewrites the
// file synchronously so that state survives a restart.
type FileStore[T any] struct {
	sync.Mutex
	filename string
	items    map[string]T
}

func NewFileStore[T any](c context.Context, dir string, kind string) (*FileStore[T], func(), error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating data-dir %s: %s", dir, err)
	}

	s := &FileStore[T]{
		filename: filepath.Join(dir, kind+".json"),
		items:    map[string]T{},
	}
	s.load()

	return s, func() {}, nil
}

// load rehydrates state from disk. A missing file means a fresh session and
// malformed content is treated as absent: we warn and start empty rather
// than refuse to come up.
func (s *FileStore[T]) load() {
	data, err := os.ReadFile(s.filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Error reading %s, starting empty: %s", s.filename, err)
		}
		return
	}

	err = json.Unmarshal(data, &s.items)
	if err != nil {
		log.Printf("Malformed content in %s, starting empty: %s", s.filename, err)
		s.items = map[string]T{}
	}
}

func (s *FileStore[T]) flush() error {
	data, err := json.MarshalIndent(s.items, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshalling %s: %s", s.filename, err)
	}

	err = os.WriteFile(s.filename, data, 0o644)
	if err != nil {
		return fmt.Errorf("error writing %s: %s", s.filename, err)
	}

	return nil
}

func (s *FileStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	// Start transaction
	s.Lock()

	ctx := context.WithValue(c, ctxTransactionKey{}, true)

	err := f(ctx)
	if err != nil {
		// Rollback
		s.Unlock()

		return err
	}

	// Commit
	err = s.flush()
	s.Unlock()

	return err
}

func (s *FileStore[T]) Put(c context.Context, uid string, value T) error {
	nonTransactional := c.Value(ctxTransactionKey{}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	s.items[uid] = value

	if nonTransactional {
		return s.flush()
	}

	return nil
}

func (s *FileStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	nonTransactional := c.Value(ctxTransactionKey{}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result, exists := s.items[uid]

	return result, exists, nil
}

func (s *FileStore[T]) Remove(c context.Context, uid string) error {
	nonTransactional := c.Value(ctxTransactionKey{}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	delete(s.items, uid)

	if nonTransactional {
		return s.flush()
	}

	return nil
}

func (s *FileStore[T]) List(c context.Context) ([]T, error) {
	nonTransactional := c.Value(ctxTransactionKey{}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result := make([]T, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}

	return result, nil
}

func (s *FileStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	return s.List(c)
}
