package quiz

import "fmt"

// Status lines. Solve and Review differ only in the empty and incorrect
// wording.
const (
	msgSolveIdle   = "Press n to fetch the next question."
	msgSolveEmpty  = "The question bank is empty. Import a CSV file first."
	msgReviewEmpty = "No questions match the current filters."
	msgImportIdle  = "Enter the path of a CSV file to import."
	msgExportIdle  = "Press enter to export the question bank."
	msgCorrect     = "Correct!"
	msgIncorrect   = "Incorrect."
	msgNoExplainer = "AI explanations are not configured."
)

func idleMessage(m Mode) string {
	switch m {
	case ModeSolve:
		return msgSolveIdle
	case ModeReview:
		return msgReviewEmpty
	case ModeImport:
		return msgImportIdle
	case ModeExport:
		return msgExportIdle
	}
	return ""
}

func emptyMessage(m Mode) string {
	if m == ModeReview {
		return msgReviewEmpty
	}
	return msgSolveEmpty
}

func resultMessage(m Mode, correct bool, answer []string) string {
	switch {
	case correct:
		return msgCorrect
	case m == ModeReview:
		return fmt.Sprintf("Incorrect. The answer is %v.", answer)
	default:
		return msgIncorrect
	}
}
