package projector

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ReadState сохраняемое состояние ленты
type ReadState struct {
	Read      []string `json:"read"`
	Dismissed []string `json:"dismissed"`
}

// ReadStateStore хранилище состояния прочтения, переживает переподключения и перезапуски
type ReadStateStore interface {
	Load() (ReadState, error)
	Save(state ReadState) error
}

// FileStore хранит состояние в JSON-файле
type FileStore struct {
	path string
}

// NewFileStore создает файловое хранилище
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load читает состояние, отсутствующий файл означает пустое состояние
func (s *FileStore) Load() (ReadState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return ReadState{}, nil
	}
	if err != nil {
		return ReadState{}, fmt.Errorf("projector: read state %s: %w", s.path, err)
	}

	var state ReadState
	if err := json.Unmarshal(data, &state); err != nil {
		return ReadState{}, fmt.Errorf("projector: decode state %s: %w", s.path, err)
	}
	return state, nil
}

// Save записывает состояние через временный файл
func (s *FileStore) Save(state ReadState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("projector: encode state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("projector: create state dir %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("projector: write state %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("projector: replace state %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore хранилище в памяти
type MemoryStore struct {
	mu    sync.Mutex
	state ReadState
}

func (s *MemoryStore) Load() (ReadState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadState{
		Read:      append([]string(nil), s.state.Read...),
		Dismissed: append([]string(nil), s.state.Dismissed...),
	}, nil
}

func (s *MemoryStore) Save(state ReadState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ReadState{
		Read:      append([]string(nil), state.Read...),
		Dismissed: append([]string(nil), state.Dismissed...),
	}
	return nil
}

type idSet map[string]struct{}

func newIDSet(ids []string) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// retain удаляет id, которых нет в live, и сообщает, изменилось ли множество
func (s idSet) retain(live func(id string) bool) bool {
	changed := false
	for id := range s {
		if !live(id) {
			delete(s, id)
			changed = true
		}
	}
	return changed
}
