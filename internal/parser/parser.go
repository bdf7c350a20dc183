package parser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/flashquiz/internal/question"
)

// space matches any Unicode whitespace, including the no-break and
// information separator characters PDF extractors emit between words.
const space = `[\s\x0B\x1C-\x1F\x{85}\p{Z}]`

// blockPattern matches one question block. Spans are non-greedy and may cross
// line breaks, since PDF extraction wraps long prompts and options. The answer
// marker accepts any letter or digit so that bad letters surface as errors
// instead of silently failing to match.
var blockPattern = regexp.MustCompile(strings.NewReplacer(`\s`, space).Replace(
	`(?s)Question\s*(\p{Nd}+):\s*(.*?)\s*A\)(.*?)\s*B\)(.*?)\s*C\)(.*?)\s*D\)(.*?)\s*Correct\s*answer:\s*([\p{L}\p{N}_])`,
))

// optionLabels are the fixed labels of the four captured option groups.
var optionLabels = [...]string{"A", "B", "C", "D"}

// ParseError reports a block that matched the question grammar but cannot be
// served.
type ParseError struct {
	Number string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("question %s: %s", e.Number, e.Reason)
}

// Parse extracts question records from text in document order.
//
// Text with no matching blocks yields an empty result and no error. Blocks
// missing an option or the answer marker never match and are skipped. A block
// whose answer letter is not A-D, or whose number repeats an earlier block,
// is left out of the result and reported as a *ParseError; the returned error
// joins all of them while the valid records are still returned.
func Parse(text string) ([]question.Record, error) {
	matches := blockPattern.FindAllStringSubmatch(text, -1)
	records := make([]question.Record, 0, len(matches))
	seen := make(map[string]bool, len(matches))

	var errs []error
	for _, m := range matches {
		rec := question.Record{
			ID:           strings.TrimSpace(m[1]),
			Prompt:       clean(m[2]),
			Options:      make(question.Options, 0, len(optionLabels)),
			CorrectLabel: strings.ToUpper(strings.TrimSpace(m[7])),
		}
		for i, label := range optionLabels {
			rec.Options = append(rec.Options, question.Option{Label: label, Text: clean(m[3+i])})
		}

		if !rec.Options.Has(rec.CorrectLabel) {
			errs = append(errs, &ParseError{
				Number: rec.ID,
				Reason: fmt.Sprintf("correct answer %q is not one of A-D", rec.CorrectLabel),
			})
			continue
		}
		if seen[rec.ID] {
			errs = append(errs, &ParseError{Number: rec.ID, Reason: "duplicate question number"})
			continue
		}
		seen[rec.ID] = true
		records = append(records, rec)
	}

	return records, errors.Join(errs...)
}

// ParseFile extracts the pages of the PDF at path and parses them.
func ParseFile(ctx context.Context, ex Extractor, path string) ([]question.Record, error) {
	pages, err := ex.ExtractPages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from PDF: %w", err)
	}
	return Parse(JoinPages(pages))
}

// JoinPages concatenates page texts, each followed by a newline.
func JoinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

func clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\t", " ")
}
