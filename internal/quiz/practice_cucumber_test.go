//go:build cucumber

package quiz

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/drillbook/internal/store"
)

// TestPracticeScenarios runs the practice feature scenarios.
func TestPracticeScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name: "practice",
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			initializePracticeScenario(ctx, t)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("testdata", "features", "practice.feature")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

type practiceState struct {
	t       *testing.T
	store   *store.Store
	ctrl    *Controller
	session *Session
	flagged int64
}

func initializePracticeScenario(ctx *godog.ScenarioContext, t *testing.T) {
	state := &practiceState{t: t}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, state.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if state.store == nil {
			return ctx, nil
		}
		return ctx, state.store.Close()
	})

	ctx.Step(`^a question (\d+) "([^"]*)" with options "([^"]*)" and answer "([^"]*)"$`, state.givenQuestion)
	ctx.Step(`^I fetch a question in "(\w+)" mode$`, state.whenFetch)
	ctx.Step(`^I fetch a question in "(\w+)" mode with incorrect only$`, state.whenFetchIncorrectOnly)
	ctx.Step(`^I answer "([^"]*)"$`, state.whenAnswer)
	ctx.Step(`^I answer the question correctly$`, state.whenAnswerCorrectly)
	ctx.Step(`^I flag the question for review$`, state.whenFlag)
	ctx.Step(`^the answer is graded (correct|incorrect)$`, state.thenGraded)
	ctx.Step(`^question (\d+) is in the missed list$`, state.thenMissed)
	ctx.Step(`^the missed list is empty$`, state.thenMissedEmpty)
	ctx.Step(`^there is no question$`, state.thenNoQuestion)
	ctx.Step(`^the message is "([^"]*)"$`, state.thenMessage)
	ctx.Step(`^every draw in "(\w+)" mode with flagged only is that question$`, state.thenFlaggedDraws)
}

// reset opens a fresh store for the scenario.
func (s *practiceState) reset() error {
	s.store = nil
	st, err := store.Open(filepath.Join(s.t.TempDir(), "scenario.db"))
	if err != nil {
		return err
	}
	s.store = st
	s.ctrl = NewController(st.Questions(), st.Results(), Options{})
	s.session = NewSession()
	s.flagged = 0
	return nil
}

func parseMode(name string) (Mode, error) {
	for _, m := range Modes {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", name)
}

// givenQuestion inserts a question with a fixed id.
func (s *practiceState) givenQuestion(id int, text, options, answer string) error {
	_, err := s.store.Questions().Insert(context.Background(), []store.NewQuestion{{
		ID:      int64(id),
		Text:    text,
		Options: store.SplitField(options),
		Correct: store.SplitField(answer),
	}})
	return err
}

// whenFetch enters the mode and draws a question.
func (s *practiceState) whenFetch(mode string) error {
	m, err := parseMode(mode)
	if err != nil {
		return err
	}
	s.ctrl.Enter(s.session, m)
	return s.ctrl.Fetch(context.Background(), s.session)
}

// whenFetchIncorrectOnly draws with the incorrect-only filter.
func (s *practiceState) whenFetchIncorrectOnly(mode string) error {
	m, err := parseMode(mode)
	if err != nil {
		return err
	}
	s.ctrl.Enter(s.session, m)
	s.ctrl.SetFilter(s.session, store.Filter{IncorrectOnly: true})
	return s.ctrl.Fetch(context.Background(), s.session)
}

// whenAnswer selects exactly the given options and submits.
func (s *practiceState) whenAnswer(answer string) error {
	return s.answer(store.SplitField(answer))
}

// whenAnswerCorrectly submits the answer key.
func (s *practiceState) whenAnswerCorrectly() error {
	if s.session.Question == nil {
		return ErrNoQuestion
	}
	return s.answer(s.session.Question.Correct)
}

func (s *practiceState) answer(labels []string) error {
	q := s.session.Question
	if q == nil {
		return ErrNoQuestion
	}
	want := toSet(labels)
	for i, opt := range q.Options {
		if s.session.MultiAnswer() {
			if s.session.Selected[i] != want[opt] {
				if err := s.ctrl.Toggle(s.session, i); err != nil {
					return err
				}
			}
		} else if want[opt] {
			if err := s.ctrl.Choose(s.session, i); err != nil {
				return err
			}
		}
	}
	return s.ctrl.Submit(context.Background(), s.session)
}

// whenFlag checks the flag-for-review box.
func (s *practiceState) whenFlag() error {
	if err := s.ctrl.CheckFlag(context.Background(), s.session, true); err != nil {
		return err
	}
	s.flagged = s.session.Question.ID
	return nil
}

// thenGraded asserts the grading outcome.
func (s *practiceState) thenGraded(outcome string) error {
	if s.session.Phase != PhaseGraded {
		return fmt.Errorf("phase = %s, want graded", s.session.Phase)
	}
	if want := outcome == "correct"; s.session.Correct != want {
		return fmt.Errorf("correct = %t, want %t", s.session.Correct, want)
	}
	return nil
}

// thenMissed asserts the ledger holds exactly the given id.
func (s *practiceState) thenMissed(id int) error {
	missed, err := s.store.Results().Missed(context.Background())
	if err != nil {
		return err
	}
	if len(missed) != 1 || missed[0] != int64(id) {
		return fmt.Errorf("missed = %v, want [%d]", missed, id)
	}
	return nil
}

// thenMissedEmpty asserts the ledger is empty.
func (s *practiceState) thenMissedEmpty() error {
	missed, err := s.store.Results().Missed(context.Background())
	if err != nil {
		return err
	}
	if len(missed) != 0 {
		return fmt.Errorf("missed = %v, want empty", missed)
	}
	return nil
}

// thenNoQuestion asserts the empty state.
func (s *practiceState) thenNoQuestion() error {
	if s.session.Phase != PhaseEmpty || s.session.Question != nil {
		return fmt.Errorf("phase = %s, want empty", s.session.Phase)
	}
	return nil
}

// thenMessage asserts the status line.
func (s *practiceState) thenMessage(msg string) error {
	if s.session.Message != msg {
		return fmt.Errorf("message = %q, want %q", s.session.Message, msg)
	}
	return nil
}

// thenFlaggedDraws asserts flagged-only draws never leave the flagged set.
func (s *practiceState) thenFlaggedDraws(mode string) error {
	m, err := parseMode(mode)
	if err != nil {
		return err
	}
	s.ctrl.Enter(s.session, m)
	s.ctrl.SetFilter(s.session, store.Filter{FlaggedOnly: true})
	for i := 0; i < 20; i++ {
		if err := s.ctrl.Fetch(context.Background(), s.session); err != nil {
			return err
		}
		if s.session.Question == nil || s.session.Question.ID != s.flagged {
			return fmt.Errorf("draw %d: got %+v, want question %d", i, s.session.Question, s.flagged)
		}
	}
	return nil
}
