package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNoQuestionSet means the question file does not exist. Run the
	// parse command first.
	ErrNoQuestionSet = errors.New("question set not found")

	// ErrEmptyQuestionSet means the question file exists but holds no
	// questions.
	ErrEmptyQuestionSet = errors.New("question set is empty")
)

// InvalidSetError reports a question file that exists but cannot be used.
type InvalidSetError struct {
	Path string
	Err  error
}

func (e *InvalidSetError) Error() string {
	return fmt.Sprintf("invalid question set %s: %v", e.Path, e.Err)
}

func (e *InvalidSetError) Unwrap() error { return e.Err }

// LoadFile reads, validates and decodes the question set at path.
func LoadFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoQuestionSet, path)
		}
		return nil, fmt.Errorf("read question set: %w", err)
	}
	return Decode(path, raw)
}

// Decode validates and decodes question-file JSON. name is used in errors.
func Decode(name string, raw []byte) ([]Record, error) {
	if err := validateSet(raw); err != nil {
		return nil, &InvalidSetError{Path: name, Err: err}
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &InvalidSetError{Path: name, Err: err}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyQuestionSet, name)
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, &InvalidSetError{Path: name, Err: err}
		}
		if seen[r.ID] {
			return nil, &InvalidSetError{Path: name, Err: fmt.Errorf("duplicate question id %s", r.ID)}
		}
		seen[r.ID] = true
	}
	return records, nil
}

// WriteFile writes records to path as indented JSON, replacing any existing
// file.
func WriteFile(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshal question set: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write question set: %w", err)
	}
	return nil
}
