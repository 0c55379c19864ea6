package assessment

import "strings"

// Answer is one question the candidate was asked and what they replied.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CleanAnswers trims both sides and drops pairs without a question.
// An empty reply is kept so the oracle can score it as unanswered.
func CleanAnswers(in []Answer) []Answer {
	out := make([]Answer, 0, len(in))
	for _, a := range in {
		q := strings.TrimSpace(a.Question)
		if q == "" {
			continue
		}
		out = append(out, Answer{Question: q, Answer: strings.TrimSpace(a.Answer)})
	}
	return out
}
