package question

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Option is a single labeled answer choice.
type Option struct {
	Label string
	Text  string
}

// Options is an ordered label -> text mapping. It marshals to a JSON object
// whose keys keep their parse order.
type Options []Option

// Get returns the text for label.
func (o Options) Get(label string) (string, bool) {
	for _, opt := range o {
		if opt.Label == label {
			return opt.Text, true
		}
	}
	return "", false
}

// Has reports whether label is one of the option labels.
func (o Options) Has(label string) bool {
	_, ok := o.Get(label)
	return ok
}

// Labels returns the option labels in order.
func (o Options) Labels() []string {
	labels := make([]string, len(o))
	for i, opt := range o {
		labels[i] = opt.Label
	}
	return labels
}

// IndexOf returns the position of label, or -1.
func (o Options) IndexOf(label string) int {
	for i, opt := range o {
		if opt.Label == label {
			return i
		}
	}
	return -1
}

func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(opt.Label)
		if err != nil {
			return nil, err
		}
		v, err := marshalNoEscape(opt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}

	var opts Options
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("options: expected string key, got %v", keyTok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("options[%s]: %w", label, err)
		}
		opts = append(opts, Option{Label: label, Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = opts
	return nil
}

// Record is one parsed question. Field names on the wire match the question
// files produced by earlier versions of the parser.
type Record struct {
	ID           string  `json:"question_number"`
	Prompt       string  `json:"question"`
	Options      Options `json:"options"`
	CorrectLabel string  `json:"correct_answer"`
}

// Validate checks that the record can be served: it has an id, options and a
// correct label that names one of them.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("question has no id")
	}
	if len(r.Options) == 0 {
		return fmt.Errorf("question %s: no options", r.ID)
	}
	if !r.Options.Has(r.CorrectLabel) {
		return fmt.Errorf("question %s: correct answer %q is not one of %v", r.ID, r.CorrectLabel, r.Options.Labels())
	}
	return nil
}

// IsCorrect reports whether label is the correct answer.
func (r Record) IsCorrect(label string) bool {
	return label == r.CorrectLabel
}

// marshalNoEscape encodes v as JSON without HTML escaping, so option text
// like "a < b" stays readable in the question file.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
