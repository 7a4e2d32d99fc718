package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/spf13/afero"
)

var _ suggester.Store = (*FileStore)(nil)

// learnedFile is the on-disk layout of the JSON store.
type learnedFile struct {
	Associations suggester.Associations `json:"associations"`
	Seen         int                    `json:"seen"`
}

// FileStore keeps learned associations in a single JSON document.
type FileStore struct {
	fs     afero.Fs
	data   *learnedFile
	path   string
	mu     sync.Mutex
	loaded bool
}

// NewFileStore creates a store backed by path on fsys. The file is read lazily.
func NewFileStore(fsys afero.Fs, path string) (*FileStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	return &FileStore{fs: fsys, path: path}, nil
}

func (f *FileStore) load() {
	if f.loaded {
		return
	}
	f.loaded = true
	f.data = &learnedFile{Associations: suggester.Associations{}}

	raw, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to read learned associations, starting empty", "path", f.path, "error", err)
		}
		return
	}

	var doc learnedFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Warn("Corrupt learned associations file, starting empty", "path", f.path, "error", err)
		return
	}
	if doc.Associations == nil {
		doc.Associations = suggester.Associations{}
	}
	f.data = &doc
}

// clone deep-copies the loaded document so changes can be discarded when the
// write fails.
func (f *FileStore) clone() *learnedFile {
	doc := &learnedFile{
		Associations: make(suggester.Associations, len(f.data.Associations)),
		Seen:         f.data.Seen,
	}
	for tok, tasks := range f.data.Associations {
		copied := make(map[string]float64, len(tasks))
		for task, w := range tasks {
			copied[task] = w
		}
		doc.Associations[tok] = copied
	}
	return doc
}

// commit writes doc and makes it the current state only once it is on disk.
func (f *FileStore) commit(doc *learnedFile) error {
	if err := f.save(doc); err != nil {
		return err
	}
	f.data = doc
	return nil
}

func (f *FileStore) save(doc *learnedFile) error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode learned associations: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write learned associations: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace learned associations: %w", err)
	}
	return nil
}

// Associations returns learned weights for the given tokens.
func (f *FileStore) Associations(ctx context.Context, tokens []string) (suggester.Associations, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()

	out := suggester.Associations{}
	for _, t := range tokens {
		tasks, ok := f.data.Associations[t]
		if !ok {
			continue
		}
		copied := make(map[string]float64, len(tasks))
		for task, w := range tasks {
			copied[task] = w
		}
		out[t] = copied
	}
	return out, nil
}

// ApplyFeedback adjusts weights, bumps the seen counter and rewrites the file.
func (f *FileStore) ApplyFeedback(ctx context.Context, tokens []string, event model.FeedbackEvent) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateFeedback(event); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()

	next := f.clone()
	for _, t := range tokens {
		tasks := next.Associations[t]
		if tasks == nil {
			tasks = make(map[string]float64)
			next.Associations[t] = tasks
		}
		tasks[event.Task] += float64(event.Rating)
	}
	next.Seen++

	if err := f.commit(next); err != nil {
		return 0, err
	}
	return next.Seen, nil
}

// Prune drops edges at or below threshold and tokens left without edges.
func (f *FileStore) Prune(ctx context.Context, threshold float64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()

	next := f.clone()
	removed := 0
	for tok, tasks := range next.Associations {
		for task, w := range tasks {
			if w <= threshold {
				delete(tasks, task)
				removed++
			}
		}
		if len(tasks) == 0 {
			delete(next.Associations, tok)
		}
	}

	if err := f.commit(next); err != nil {
		return 0, err
	}
	return removed, nil
}

// Stats reports store totals.
func (f *FileStore) Stats(ctx context.Context) (suggester.Stats, error) {
	if err := validateContext(ctx); err != nil {
		return suggester.Stats{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()

	stats := suggester.Stats{Tokens: len(f.data.Associations), Seen: f.data.Seen}
	for _, tasks := range f.data.Associations {
		stats.Edges += len(tasks)
	}
	return stats, nil
}

// Close is a no-op; every change is written immediately.
func (f *FileStore) Close() error {
	return nil
}
