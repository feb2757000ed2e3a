// Package bank reads and writes question banks as CSV files.
//
// The column layout mirrors the questions table: list-valued cells
// (options, correct_answer) are joined with store.FieldSep.
package bank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/transform"

	"github.com/abhisek/drillbook/internal/store"
)

// Column names, in export order.
const (
	ColID            = "id"
	ColQuestion      = "question"
	ColOptions       = "options"
	ColCorrectAnswer = "correct_answer"
	ColExplanation   = "explanation"
	ColNote          = "note"
	ColFlagged       = "flagged"
)

// Header is the export header row.
var Header = []string{ColID, ColQuestion, ColOptions, ColCorrectAnswer, ColExplanation, ColNote, ColFlagged}

var requiredColumns = []string{ColQuestion, ColOptions, ColCorrectAnswer}

// Options controls CSV decoding and encoding.
type Options struct {
	// Encoding names the file's code page. Empty means DefaultEncoding.
	Encoding string

	// Normalize strips every whitespace run from text cells on import.
	Normalize bool
}

// Read parses a question bank. The first record is a header naming the
// columns; question, options and correct_answer are required. Any invalid
// record fails the whole read with a *RowError.
func Read(r io.Reader, opts Options) ([]store.NewQuestion, error) {
	enc, err := Lookup(opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, recordError(err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, &RowError{Line: 1, Err: err}
	}

	var out []store.NewQuestion
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, recordError(err)
		}
		line, _ := cr.FieldPos(0)

		q, err := parseRecord(rec, cols, opts.Normalize)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		out = append(out, q)
	}
	return out, nil
}

// Write serializes qs with the export header. A cell the target encoding
// cannot represent fails the write before any of that record is emitted.
func Write(w io.Writer, qs []store.Question, opts Options) error {
	enc, err := Lookup(opts.Encoding)
	if err != nil {
		return err
	}

	tw := transform.NewWriter(w, enc.NewEncoder())
	cw := csv.NewWriter(tw)
	check := enc.NewEncoder()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, q := range qs {
		rec := []string{
			strconv.FormatInt(q.ID, 10),
			q.Text,
			store.JoinField(q.Options),
			store.JoinField(q.Correct),
			q.Explanation,
			q.Note,
			flagCell(q.Flagged),
		}
		for i, cell := range rec {
			if _, err := check.String(cell); err != nil {
				return fmt.Errorf("question %d: column %s: %w", q.ID, Header[i], err)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write question %d: %w", q.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return tw.Close()
}

// mapHeader returns the record index of each known column.
func mapHeader(header []string) (map[string]int, error) {
	known := make(map[string]bool, len(Header))
	for _, c := range Header {
		known[c] = true
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if !known[name] {
			return nil, fmt.Errorf("%w %q", ErrUnknownColumn, h)
		}
		if _, dup := cols[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		cols[name] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	return cols, nil
}

func parseRecord(rec []string, cols map[string]int, normalize bool) (store.NewQuestion, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok {
			return ""
		}
		v := rec[i]
		if normalize {
			v = stripSpace(v)
		}
		return v
	}

	for _, v := range rec {
		if strings.ContainsRune(v, '\uFFFD') {
			return store.NewQuestion{}, ErrInvalidText
		}
	}

	q := store.NewQuestion{
		Text:        cell(ColQuestion),
		Explanation: cell(ColExplanation),
		Note:        cell(ColNote),
	}
	if q.Text == "" {
		return q, errors.New("question is empty")
	}

	if v := cell(ColID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return q, fmt.Errorf("invalid id %q", v)
		}
		q.ID = id
	}

	if v := cell(ColFlagged); v != "" {
		flagged, err := strconv.ParseBool(v)
		if err != nil {
			return q, fmt.Errorf("invalid flagged value %q", v)
		}
		q.Flagged = flagged
	}

	options, correct := cell(ColOptions), cell(ColCorrectAnswer)
	if options == "" {
		return q, errors.New("options is empty")
	}
	if correct == "" {
		return q, errors.New("correct_answer is empty")
	}
	q.Options = store.SplitField(options)
	q.Correct = store.SplitField(correct)

	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o] {
			return q, fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = true
	}
	for _, c := range q.Correct {
		if !seen[c] {
			return q, fmt.Errorf("correct answer %q is not one of the options", c)
		}
	}
	return q, nil
}

// recordError converts csv parse errors into row errors.
func recordError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &RowError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}

// stripSpace removes every run of whitespace from s.
func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func flagCell(flagged bool) string {
	if flagged {
		return "1"
	}
	return "0"
}
