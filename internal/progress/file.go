package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the correct-set as a JSON array of ids in a single file.
//
// There is no cross-process locking: two processes saving to the same file
// race and the last rename wins.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the file at path. The file is not
// touched until the first Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (IDSet, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return IDSet{}, nil
		}
		return IDSet{}, fmt.Errorf("%w: %s: %w", ErrStorageCorruption, s.path, err)
	}

	ids, err := decodeIDs(raw)
	if err != nil {
		return IDSet{}, fmt.Errorf("%w: %s: %w", ErrStorageCorruption, s.path, err)
	}
	return NewIDSet(ids...), nil
}

// Save writes the full set to a temp file in the same directory and renames
// it over the old one, so readers never observe a partial write.
func (s *FileStore) Save(_ context.Context, ids IDSet) error {
	data, err := json.MarshalIndent(ids.Sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close progress: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// Reset removes the progress file. A missing file is not an error.
func (s *FileStore) Reset(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove progress file: %w", err)
	}
	return nil
}

// legacyRecord is the shape of files that stored whole question records
// instead of ids. Only the id is kept.
type legacyRecord struct {
	QuestionNumber *string `json:"question_number"`
}

// decodeIDs accepts an id array, a legacy array of question records, or an
// empty file.
func decodeIDs(raw []byte) ([]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var ids []string
	idErr := json.Unmarshal(raw, &ids)
	if idErr == nil {
		return ids, nil
	}

	var legacy []legacyRecord
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, idErr
	}
	ids = make([]string, 0, len(legacy))
	for i, rec := range legacy {
		if rec.QuestionNumber == nil {
			return nil, fmt.Errorf("entry %d has no question_number", i)
		}
		ids = append(ids, *rec.QuestionNumber)
	}
	return ids, nil
}
