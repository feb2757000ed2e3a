package store

import (
	"context"
	"time"
)

// Question is a stored multiple-choice question.
type Question struct {
	ID          int64
	Text        string
	Options     []string // display order
	Correct     []string // subset of Options
	Explanation string
	Note        string
	Flagged     bool
}

// MultiAnswer reports whether the question takes more than one answer.
func (q *Question) MultiAnswer() bool {
	return len(q.Correct) > 1
}

// NewQuestion is a row to insert. A zero ID lets SQLite assign one.
type NewQuestion struct {
	ID          int64
	Text        string
	Options     []string
	Correct     []string
	Explanation string
	Note        string
	Flagged     bool
}

// Filter narrows random question selection. Set fields are ANDed.
type Filter struct {
	FlaggedOnly   bool
	IncorrectOnly bool
}

// QuestionRepo reads and writes the question bank.
type QuestionRepo interface {
	// Insert adds all rows in a single transaction and returns how many were written.
	Insert(ctx context.Context, rows []NewQuestion) (int, error)

	// All returns every question ordered by id.
	All(ctx context.Context) ([]Question, error)

	// Get returns the question with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Question, error)

	// Random returns one question drawn uniformly from those matching f,
	// or nil when nothing matches.
	Random(ctx context.Context, f Filter) (*Question, error)

	// SetFlag sets or clears the review flag.
	SetFlag(ctx context.Context, id int64, flagged bool) error

	// ClearFlags clears every review flag and returns how many were cleared.
	ClearFlags(ctx context.Context) (int64, error)

	// Count returns the total and flagged question counts.
	Count(ctx context.Context) (total, flagged int, err error)
}

// ResultRepo manages the missed-results ledger.
type ResultRepo interface {
	// Record stores a grading outcome: a correct answer removes the question
	// from the ledger, an incorrect one inserts or overwrites its row.
	Record(ctx context.Context, questionID int64, correct bool) error

	// Missed returns the ids currently in the ledger.
	Missed(ctx context.Context) ([]int64, error)

	// Clear empties the ledger and returns how many rows were removed.
	Clear(ctx context.Context) (int64, error)
}

// LLMRequest is a logged LLM call.
type LLMRequest struct {
	ID           int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventRepo records and queries LLM calls.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call.
	AppendLLMRequest(ctx context.Context, e LLMRequest) error

	// LLMRequests returns the most recent calls first; limit 0 means all.
	LLMRequests(ctx context.Context, limit int) ([]LLMRequest, error)

	// LLMRequest returns a single call by id, or ErrNotFound.
	LLMRequest(ctx context.Context, id int64) (*LLMRequest, error)
}

// Explanation is a cached generated explanation.
type Explanation struct {
	QuestionID int64
	Content    string
	Model      string
	CreatedAt  time.Time
}

// ExplanationRepo caches generated explanations per question.
type ExplanationRepo interface {
	// Get returns the cached explanation, or nil when none exists.
	Get(ctx context.Context, questionID int64) (*Explanation, error)

	// Put stores or replaces the explanation for a question.
	Put(ctx context.Context, e Explanation) error
}
