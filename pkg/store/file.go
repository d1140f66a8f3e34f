package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
)

// File implements Store on the local filesystem. Documents live under
// <BasePath>/automata/<id>.json; the active id and comparison selection
// live in <BasePath>/session.json.
type File struct {
	BasePath string

	mu sync.Mutex // serialises session.json read-modify-write
}

type fileSession struct {
	Active     *int  `json:"active"`
	Comparison []int `json:"comparison"`
}

// NewFile creates a file store rooted at basePath. If basePath is empty,
// it defaults to ".fsmcanvas".
func NewFile(basePath string) *File {
	if basePath == "" {
		basePath = ".fsmcanvas"
	}
	return &File{BasePath: basePath}
}

func (s *File) docDir() string {
	return filepath.Join(s.BasePath, "automata")
}

func (s *File) docPath(id int) string {
	return filepath.Join(s.docDir(), strconv.Itoa(id)+".json")
}

func (s *File) Put(ctx context.Context, id int, doc codec.Document) error {
	data, err := codec.ToJSON(doc, true)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return writeAtomic(s.docDir(), strconv.Itoa(id)+".json", data)
}

func (s *File) Get(ctx context.Context, id int) (codec.Document, error) {
	data, err := os.ReadFile(s.docPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return codec.Document{}, ErrNotFound
		}
		return codec.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	doc, _, err := codec.ParseJSON(data)
	if err != nil {
		return codec.Document{}, fmt.Errorf("failed to parse stored document %d: %w", id, err)
	}
	return doc, nil
}

func (s *File) Delete(ctx context.Context, id int) error {
	if err := os.Remove(s.docPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (s *File) IDs(ctx context.Context) ([]int, error) {
	entries, err := os.ReadDir(s.docDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "tmp-") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *File) readSession() (fileSession, error) {
	var sess fileSession
	data, err := os.ReadFile(filepath.Join(s.BasePath, "session.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return sess, nil
		}
		return sess, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return sess, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return sess, nil
}

func (s *File) updateSession(fn func(*fileSession)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.readSession()
	if err != nil {
		return err
	}
	fn(&sess)
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return writeAtomic(s.BasePath, "session.json", data)
}

func (s *File) SetActive(ctx context.Context, id int) error {
	return s.updateSession(func(sess *fileSession) { sess.Active = &id })
}

func (s *File) Active(ctx context.Context) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.readSession()
	if err != nil || sess.Active == nil {
		return 0, false, err
	}
	return *sess.Active, true, nil
}

func (s *File) SetComparison(ctx context.Context, ids []int) error {
	if err := checkComparison(ids); err != nil {
		return err
	}
	return s.updateSession(func(sess *fileSession) { sess.Comparison = append([]int{}, ids...) })
}

func (s *File) Comparison(ctx context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.readSession()
	if err != nil {
		return nil, err
	}
	return append([]int{}, sess.Comparison...), nil
}

// writeAtomic writes data to dir/name through a synced temp file in the
// same directory and a rename.
func writeAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := filepath.Join(dir, name)
	// Windows refuses to rename over an existing file
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to replace %s: %w", name, err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
