package practice

import (
	"github.com/abhisek/drillbook/internal/quiz"
)

// sessionMsg carries a session back from a background handler. gen ties it
// to the activation that started it; older generations are dropped.
type sessionMsg struct {
	mode    quiz.Mode
	gen     int
	session *quiz.Session
	stats   *quiz.Stats
}

// statsMsg refreshes the progress bar.
type statsMsg struct {
	mode  quiz.Mode
	stats quiz.Stats
}
