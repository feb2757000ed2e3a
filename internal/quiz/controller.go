// Package quiz implements the question-serving state machine: fetching,
// answering, grading and flagging, plus bank import and export. Handlers
// take the Session they act on and never touch a UI.
package quiz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/abhisek/drillbook/internal/bank"
	"github.com/abhisek/drillbook/internal/store"
)

// DefaultExportFile is where Export writes when no file is configured.
const DefaultExportFile = "output.csv"

var (
	// ErrWrongMode is returned when a handler does not apply to the session's mode.
	ErrWrongMode = errors.New("not available in this mode")

	// ErrNoQuestion is returned when a handler needs a question on screen.
	ErrNoQuestion = errors.New("no question on screen")

	// ErrNotGraded is returned when a handler needs a graded answer.
	ErrNotGraded = errors.New("answer has not been graded")

	// ErrExplainUnavailable is returned when no Explainer is configured.
	ErrExplainUnavailable = errors.New("AI explanations are not configured")
)

// Explainer produces an explanation for a graded question.
type Explainer interface {
	Explain(ctx context.Context, q *store.Question) (string, error)
}

// Options configures a Controller.
type Options struct {
	// CSV controls import and export encoding.
	CSV bank.Options

	// ExportFile is the file Export writes. Empty means DefaultExportFile.
	ExportFile string

	// Explainer is optional.
	Explainer Explainer
}

// Controller holds the transition handlers. It is stateless apart from its
// dependencies, so one Controller can serve any number of sessions.
type Controller struct {
	questions  store.QuestionRepo
	results    store.ResultRepo
	explainer  Explainer
	csv        bank.Options
	exportFile string
}

// NewController creates a Controller over the given repositories.
func NewController(questions store.QuestionRepo, results store.ResultRepo, opts Options) *Controller {
	exportFile := opts.ExportFile
	if exportFile == "" {
		exportFile = DefaultExportFile
	}
	return &Controller{
		questions:  questions,
		results:    results,
		explainer:  opts.Explainer,
		csv:        opts.CSV,
		exportFile: exportFile,
	}
}

// ExportFile returns the path Export writes to.
func (c *Controller) ExportFile() string {
	return c.exportFile
}

// CanExplain reports whether an Explainer is configured.
func (c *Controller) CanExplain() bool {
	return c.explainer != nil
}

// Enter switches the session to mode m and resets it.
func (c *Controller) Enter(s *Session, m Mode) {
	s.Mode = m
	s.Reset()
}

// Fetch resets the session and draws a random question. Review sessions
// apply s.Filter. Finding nothing moves the session to PhaseEmpty and is
// not an error.
func (c *Controller) Fetch(ctx context.Context, s *Session) error {
	if !s.Mode.Asks() {
		return fmt.Errorf("fetch: %w", ErrWrongMode)
	}
	s.Reset()

	var f store.Filter
	if s.Mode == ModeReview {
		f = s.Filter
	}
	q, err := c.questions.Random(ctx, f)
	if err != nil {
		return c.fail(s, fmt.Errorf("fetch question: %w", err))
	}
	if q == nil {
		s.Phase = PhaseEmpty
		s.Message = emptyMessage(s.Mode)
		return nil
	}

	s.Question = q
	s.Selected = make([]bool, len(q.Options))
	if !q.MultiAnswer() && len(q.Options) > 0 {
		s.Selected[0] = true
	}
	s.FlagChecked = q.Flagged
	s.Phase = PhaseAnswering
	s.Message = ""
	return nil
}

// Choose selects option i of a single-answer question, clearing any other.
func (c *Controller) Choose(s *Session, i int) error {
	if err := checkOption(s, i); err != nil {
		return err
	}
	if s.MultiAnswer() {
		return fmt.Errorf("choose: question takes several answers")
	}
	for j := range s.Selected {
		s.Selected[j] = j == i
	}
	return nil
}

// Toggle flips option i of a multi-answer question.
func (c *Controller) Toggle(s *Session, i int) error {
	if err := checkOption(s, i); err != nil {
		return err
	}
	if !s.MultiAnswer() {
		return fmt.Errorf("toggle: question takes one answer")
	}
	s.Selected[i] = !s.Selected[i]
	return nil
}

// Submit grades the current selection and records the outcome in the
// missed-results ledger. Submitting again re-grades and rewrites the row.
func (c *Controller) Submit(ctx context.Context, s *Session) error {
	if s.Question == nil {
		return fmt.Errorf("submit: %w", ErrNoQuestion)
	}

	correct := Grade(s.Question.Correct, s.Answers())
	if err := c.results.Record(ctx, s.Question.ID, correct); err != nil {
		return c.fail(s, fmt.Errorf("save result: %w", err))
	}

	s.Err = nil
	s.Correct = correct
	s.ShowExplanation = true
	s.Phase = PhaseGraded
	s.Message = resultMessage(s.Mode, correct, s.Question.Correct)
	log.Printf("session %s: question %d graded correct=%t", s.ID, s.Question.ID, correct)
	return nil
}

// CheckFlag updates the flag-for-review checkbox. Checking it stores the
// flag at once; unchecking only changes the checkbox.
func (c *Controller) CheckFlag(ctx context.Context, s *Session, checked bool) error {
	if s.Phase != PhaseGraded {
		return fmt.Errorf("flag: %w", ErrNotGraded)
	}
	s.FlagChecked = checked
	if !checked {
		return nil
	}

	if err := c.questions.SetFlag(ctx, s.Question.ID, true); err != nil {
		return c.fail(s, fmt.Errorf("flag question: %w", err))
	}
	s.Question.Flagged = true
	return nil
}

// SetFilter replaces the Review filters. The question on screen stays.
func (c *Controller) SetFilter(s *Session, f store.Filter) {
	s.Filter = f
}

// Explain asks the Explainer about the graded question.
func (c *Controller) Explain(ctx context.Context, s *Session) error {
	if s.Phase != PhaseGraded {
		return fmt.Errorf("explain: %w", ErrNotGraded)
	}
	if c.explainer == nil {
		s.Message = msgNoExplainer
		return ErrExplainUnavailable
	}

	text, err := c.explainer.Explain(ctx, s.Question)
	if err != nil {
		return c.fail(s, fmt.Errorf("explain question: %w", err))
	}
	s.AIExplanation = text
	return nil
}

// Import reads the CSV file at path and inserts every row in one
// transaction. Any bad row or insert failure leaves the bank unchanged.
func (c *Controller) Import(ctx context.Context, s *Session, path string) (int, error) {
	if s.Mode != ModeImport {
		return 0, fmt.Errorf("import: %w", ErrWrongMode)
	}
	s.Err = nil

	f, err := os.Open(path)
	if err != nil {
		return 0, c.fail(s, fmt.Errorf("open csv: %w", err))
	}
	defer f.Close()

	n, err := c.ImportFrom(ctx, f)
	if err != nil {
		return 0, c.fail(s, err)
	}
	s.Message = fmt.Sprintf("Imported %d questions from %s.", n, path)
	return n, nil
}

// ImportFrom reads a CSV bank from r and inserts it.
func (c *Controller) ImportFrom(ctx context.Context, r io.Reader) (int, error) {
	rows, err := bank.Read(r, c.csv)
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}
	n, err := c.questions.Insert(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}
	log.Printf("imported %d questions", n)
	return n, nil
}

// Export writes the whole bank to the export file and returns its path.
// The file is only written once the bank has been fully encoded.
func (c *Controller) Export(ctx context.Context, s *Session) (string, error) {
	if s.Mode != ModeExport {
		return "", fmt.Errorf("export: %w", ErrWrongMode)
	}
	s.Err = nil

	var buf bytes.Buffer
	n, err := c.ExportTo(ctx, &buf)
	if err != nil {
		return "", c.fail(s, err)
	}
	if err := os.WriteFile(c.exportFile, buf.Bytes(), 0o644); err != nil {
		return "", c.fail(s, fmt.Errorf("write %s: %w", c.exportFile, err))
	}
	s.Message = fmt.Sprintf("Exported %d questions to %s.", n, c.exportFile)
	return c.exportFile, nil
}

// ExportTo writes the whole bank to w and returns how many questions it wrote.
func (c *Controller) ExportTo(ctx context.Context, w io.Writer) (int, error) {
	qs, err := c.questions.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load questions: %w", err)
	}
	if err := bank.Write(w, qs, c.csv); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(qs), nil
}

// Stats summarizes the bank and the missed-results ledger.
type Stats struct {
	Total   int `yaml:"total"`
	Flagged int `yaml:"flagged"`
	Missed  int `yaml:"missed"`
}

// Cleared returns the share of questions not in the ledger, 0 for an
// empty bank.
func (st Stats) Cleared() float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Total-st.Missed) / float64(st.Total)
}

// Stats counts questions, flags and ledger rows.
func (c *Controller) Stats(ctx context.Context) (Stats, error) {
	total, flagged, err := c.questions.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count questions: %w", err)
	}
	missed, err := c.results.Missed(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load missed: %w", err)
	}
	return Stats{Total: total, Flagged: flagged, Missed: len(missed)}, nil
}

// fail records err on the session and returns it.
func (c *Controller) fail(s *Session, err error) error {
	s.Err = err
	s.Message = "Error: " + err.Error()
	log.Printf("session %s: %v", s.ID, err)
	return err
}

func checkOption(s *Session, i int) error {
	if s.Question == nil {
		return ErrNoQuestion
	}
	if s.Phase != PhaseAnswering && s.Phase != PhaseGraded {
		return fmt.Errorf("select option: question is %s", s.Phase)
	}
	if i < 0 || i >= len(s.Selected) {
		return fmt.Errorf("option %d out of range", i)
	}
	return nil
}
