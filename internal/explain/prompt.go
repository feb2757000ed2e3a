package explain

import (
	"bytes"
	"text/template"

	"github.com/abhisek/drillbook/internal/store"
)

const systemPrompt = `You are a study tutor. The learner is practicing multiple-choice questions and wants to understand why the correct answers are correct.

Instructions:
- Explain the correct answers, and briefly why the other options are wrong.
- Answer in the language the question is written in.
- Do not restate the question.
- Keep the explanation under 120 words.`

var userTemplate = template.Must(template.New("explain").Parse(`Question: {{.Text}}
Options:
{{range .Options}}- {{.}}
{{end}}Correct answers:
{{range .Correct}}- {{.}}
{{end}}{{with .Explanation}}Reference explanation: {{.}}
{{end}}{{with .Note}}Learner's note: {{.}}
{{end}}`))

func buildPrompt(q *store.Question) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, q); err != nil {
		return "", err
	}
	return buf.String(), nil
}
