// Package progress persists the single durable record that lets a learning
// workflow resume after a restart: the learning type and the current plan.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/store"
)

// State is the durable progress record.
type State struct {
	LearningType learning.Type `json:"LearningType"`
	LearningPlan learning.Plan `json:"LearningPlan"`
}

// Store saves, loads and deletes the progress record. Writes are last-write
// wins; one workflow instance per record location is assumed.
type Store interface {
	// Save overwrites the record.
	Save(ctx context.Context, s State) error

	// Load returns the record, or nil if none exists.
	Load(ctx context.Context) (*State, error)

	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context) error
}

// FileStore keeps the record as indented JSON in one file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the record lives in.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Save(_ context.Context, s State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	if err := store.EnsureDir(f.path); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".progress-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close progress: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace progress: %w", err)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context) (*State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode progress %s: %w", f.path, err)
	}
	return &s, nil
}

func (f *FileStore) Delete(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// DefaultPath resolves the progress file path in priority order:
// 1. STUDYFLOW_PROGRESS environment variable
// 2. $XDG_DATA_HOME/studyflow/progress.json
// 3. ~/.local/share/studyflow/progress.json
func DefaultPath() (string, error) {
	if p := os.Getenv("STUDYFLOW_PROGRESS"); p != "" {
		return p, nil
	}
	dataHome, err := store.DataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataHome, "studyflow", "progress.json"), nil
}
