package quiz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drillbook/internal/bank"
	"github.com/abhisek/drillbook/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestController(t *testing.T, opts Options) (*Controller, *store.Store) {
	t.Helper()
	st := openTestStore(t)
	return NewController(st.Questions(), st.Results(), opts), st
}

func seed(t *testing.T, st *store.Store, rows ...store.NewQuestion) {
	t.Helper()
	_, err := st.Questions().Insert(context.Background(), rows)
	require.NoError(t, err)
}

var capital = store.NewQuestion{
	Text:        "Capital of France?",
	Options:     []string{"Paris", "London", "Berlin"},
	Correct:     []string{"Paris"},
	Explanation: "Paris.",
	Note:        "Easy one.",
}

var primes = store.NewQuestion{
	Text:    "Pick the primes",
	Options: []string{"2", "4", "5"},
	Correct: []string{"2", "5"},
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name      string
		correct   []string
		submitted []string
		want      bool
	}{
		{"exact", []string{"A"}, []string{"A"}, true},
		{"order ignored", []string{"A", "B"}, []string{"B", "A"}, true},
		{"duplicates ignored", []string{"A", "B"}, []string{"A", "B", "A"}, true},
		{"missing one", []string{"A", "B"}, []string{"A"}, false},
		{"extra one", []string{"A"}, []string{"A", "B"}, false},
		{"wrong", []string{"Paris"}, []string{"London"}, false},
		{"empty submission", []string{"A"}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(tt.correct, tt.submitted))
		})
	}
}

func TestNewSessionIsIdle(t *testing.T) {
	s := NewSession()
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, ModeSolve, s.Mode)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, "Press n to fetch the next question.", s.Message)
}

func TestEnterResets(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, capital)
	ctx := context.Background()

	s := NewSession()
	require.NoError(t, c.Fetch(ctx, s))
	require.NoError(t, c.Submit(ctx, s))
	c.SetFilter(s, store.Filter{FlaggedOnly: true})

	c.Enter(s, ModeReview)
	assert.Equal(t, ModeReview, s.Mode)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Nil(t, s.Question)
	assert.Nil(t, s.Selected)
	assert.False(t, s.ShowExplanation)
	assert.True(t, s.Filter.FlaggedOnly, "filters survive reset")
	assert.Equal(t, "No questions match the current filters.", s.Message)
}

func TestFetchSingleAnswerDefaultsToFirstOption(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, capital)

	s := NewSession()
	require.NoError(t, c.Fetch(context.Background(), s))
	require.NotNil(t, s.Question)
	assert.Equal(t, PhaseAnswering, s.Phase)
	assert.False(t, s.MultiAnswer())
	assert.Equal(t, []string{"Paris"}, s.Answers())
}

func TestFetchEmptyBank(t *testing.T) {
	c, _ := newTestController(t, Options{})

	s := NewSession()
	require.NoError(t, c.Fetch(context.Background(), s))
	assert.Equal(t, PhaseEmpty, s.Phase)
	assert.Nil(t, s.Question)
	assert.Equal(t, msgSolveEmpty, s.Message)
}

func TestFetchWrongMode(t *testing.T) {
	c, _ := newTestController(t, Options{})
	s := NewSession()
	c.Enter(s, ModeExport)

	err := c.Fetch(context.Background(), s)
	assert.ErrorIs(t, err, ErrWrongMode)
}

func TestReviewIncorrectOnlyWithEmptyLedger(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, capital, primes)
	ctx := context.Background()

	s := NewSession()
	c.Enter(s, ModeReview)
	c.SetFilter(s, store.Filter{IncorrectOnly: true})

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Fetch(ctx, s))
		assert.Equal(t, PhaseEmpty, s.Phase)
		assert.Equal(t, "No questions match the current filters.", s.Message)
	}
}

func TestSolveIgnoresReviewFilter(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, capital)

	s := NewSession()
	c.SetFilter(s, store.Filter{FlaggedOnly: true})
	require.NoError(t, c.Fetch(context.Background(), s))
	assert.Equal(t, PhaseAnswering, s.Phase)
}

func TestParisLondonScenario(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, capital)
	ctx := context.Background()

	s := NewSession()
	require.NoError(t, c.Fetch(ctx, s))
	require.Equal(t, int64(1), s.Question.ID)

	require.NoError(t, c.Choose(s, 1)) // London
	require.NoError(t, c.Submit(ctx, s))
	assert.False(t, s.Correct)
	assert.True(t, s.ShowExplanation)
	assert.Equal(t, PhaseGraded, s.Phase)
	assert.Equal(t, "Incorrect.", s.Message)

	missed, err := st.Results().Missed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, missed)

	require.NoError(t, c.Choose(s, 0)) // Paris
	require.NoError(t, c.Submit(ctx, s))
	assert.True(t, s.Correct)
	assert.Equal(t, "Correct!", s.Message)

	missed, err = st.Results().Missed(ctx)
	require.NoError(t, err)
	assert.Empty(t, missed)
}

func TestReviewIncorrectMessageShowsAnswer(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, primes)
	ctx := context.Background()

	s := NewSession()
	c.Enter(s, ModeReview)
	require.NoError(t, c.Fetch(ctx, s))
	require.True(t, s.MultiAnswer())
	assert.Empty(t, s.Answers(), "toggles start cleared")

	require.NoError(t, c.Toggle(s, 0))
	require.NoError(t, c.Submit(ctx, s))
	assert.Equal(t, "Incorrect. The answer is [2 5].", s.Message)

	require.NoError(t, c.Toggle(s, 2))
	require.NoError(t, c.Submit(ctx, s))
	assert.True(t, s.Correct)
}

func TestChooseAndToggleMatchControlType(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, capital)
	ctx := context.Background()

	s := NewSession()
	require.NoError(t, c.Fetch(ctx, s))

	assert.Error(t, c.Toggle(s, 0))
	assert.Error(t, c.Choose(s, 3))
	require.NoError(t, c.Choose(s, 2))
	assert.Equal(t, []string{"Berlin"}, s.Answers())
}

func TestSubmitWithoutQuestion(t *testing.T) {
	c, _ := newTestController(t, Options{})
	err := c.Submit(context.Background(), NewSession())
	assert.ErrorIs(t, err, ErrNoQuestion)
}

func TestCheckFlagIsSetOnly(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, capital)
	ctx := context.Background()

	s := NewSession()
	require.NoError(t, c.Fetch(ctx, s))
	assert.ErrorIs(t, c.CheckFlag(ctx, s, true), ErrNotGraded)

	require.NoError(t, c.Submit(ctx, s))
	require.NoError(t, c.CheckFlag(ctx, s, true))
	assert.True(t, s.FlagChecked)

	q, err := st.Questions().Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, q.Flagged)

	require.NoError(t, c.CheckFlag(ctx, s, false))
	assert.False(t, s.FlagChecked)

	q, err = st.Questions().Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, q.Flagged, "unchecking keeps the stored flag")
}

type stubExplainer struct {
	text string
	err  error
}

func (e stubExplainer) Explain(context.Context, *store.Question) (string, error) {
	return e.text, e.err
}

func TestExplain(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		c, st := newTestController(t, Options{})
		seed(t, st, capital)
		s := NewSession()
		require.NoError(t, c.Fetch(ctx, s))
		require.NoError(t, c.Submit(ctx, s))

		assert.ErrorIs(t, c.Explain(ctx, s), ErrExplainUnavailable)
		assert.Equal(t, "AI explanations are not configured.", s.Message)
		assert.Equal(t, PhaseGraded, s.Phase)
	})

	t.Run("configured", func(t *testing.T) {
		c, st := newTestController(t, Options{Explainer: stubExplainer{text: "Because."}})
		seed(t, st, capital)
		s := NewSession()
		require.NoError(t, c.Fetch(ctx, s))
		assert.ErrorIs(t, c.Explain(ctx, s), ErrNotGraded)

		require.NoError(t, c.Submit(ctx, s))
		require.NoError(t, c.Explain(ctx, s))
		assert.Equal(t, "Because.", s.AIExplanation)
	})

	t.Run("provider error", func(t *testing.T) {
		c, st := newTestController(t, Options{Explainer: stubExplainer{err: errors.New("boom")}})
		seed(t, st, capital)
		s := NewSession()
		require.NoError(t, c.Fetch(ctx, s))
		require.NoError(t, c.Submit(ctx, s))

		assert.Error(t, c.Explain(ctx, s))
		assert.Contains(t, s.Message, "boom")
	})
}

func TestImportExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CSV:        bank.Options{Encoding: "cp932"},
		ExportFile: filepath.Join(dir, "output.csv"),
	}
	ctx := context.Background()

	src, st := newTestController(t, opts)
	seed(t, st, capital, primes, store.NewQuestion{
		Text: "日本の首都は?", Options: []string{"東京", "大阪"}, Correct: []string{"東京"}, Flagged: true,
	})

	s := NewSession()
	src.Enter(s, ModeExport)
	path, err := src.Export(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, opts.ExportFile, path)
	assert.Equal(t, "Exported 3 questions to "+path+".", s.Message)

	dst, dstStore := newTestController(t, opts)
	dst.Enter(s, ModeImport)
	n, err := dst.Import(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want, err := st.Questions().All(ctx)
	require.NoError(t, err)
	got, err := dstStore.Questions().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImportBadRowInsertsNothing(t *testing.T) {
	c, st := newTestController(t, Options{CSV: bank.Options{Encoding: "utf-8"}})
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "question,options,correct_answer\nQ,a;b,a\nR,a;b,z\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewSession()
	c.Enter(s, ModeImport)
	_, err := c.Import(context.Background(), s, path)
	require.Error(t, err)

	var rowErr *bank.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)
	assert.True(t, strings.HasPrefix(s.Message, "Error: "))

	total, _, err := st.Questions().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestImportCollidingIDInsertsNothing(t *testing.T) {
	c, st := newTestController(t, Options{CSV: bank.Options{Encoding: "utf-8"}})
	seed(t, st, capital)

	path := filepath.Join(t.TempDir(), "dup.csv")
	content := "id,question,options,correct_answer\n2,Q,a,a\n1,R,a,a\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewSession()
	c.Enter(s, ModeImport)
	_, err := c.Import(context.Background(), s, path)
	require.Error(t, err)

	total, _, err := st.Questions().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestImportMissingFile(t *testing.T) {
	c, _ := newTestController(t, Options{})
	s := NewSession()
	c.Enter(s, ModeImport)

	_, err := c.Import(context.Background(), s, filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, err, s.Err)
}

func TestExportUnencodableLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	c, st := newTestController(t, Options{ExportFile: path})
	seed(t, st, store.NewQuestion{Text: "emoji 😀", Options: []string{"a"}, Correct: []string{"a"}})

	s := NewSession()
	c.Enter(s, ModeExport)
	_, err := c.Export(context.Background(), s)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSessionCloneIsIndependent(t *testing.T) {
	c, st := newTestController(t, Options{})
	seed(t, st, primes)

	s := NewSession()
	require.NoError(t, c.Fetch(context.Background(), s))
	cp := s.Clone()
	require.NoError(t, c.Toggle(cp, 0))
	cp.Question.Flagged = true

	assert.Empty(t, s.Answers())
	assert.False(t, s.Question.Flagged)
}

func TestStats(t *testing.T) {
	ctrl, st := newTestController(t, Options{})
	ctx := context.Background()

	stats, err := ctrl.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Zero(t, stats.Cleared())

	flagged := primes
	flagged.Flagged = true
	seed(t, st, capital, flagged, store.NewQuestion{Text: "1+1?", Options: []string{"1", "2"}, Correct: []string{"2"}})

	all, err := st.Questions().All(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Results().Record(ctx, all[0].ID, false))

	stats, err = ctrl.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Flagged: 1, Missed: 1}, stats)
	assert.InDelta(t, 2.0/3.0, stats.Cleared(), 1e-9)
}
