package question

import "strings"

// Submission is a learner's raw response. Which fields are meaningful
// depends on the question kind.
type Submission struct {
	// Chosen is set when the learner picked an option rather than typing.
	Chosen bool

	// Choice is the 0-based position of the picked option. Meaningful only
	// when Chosen is set.
	Choice int

	// Text is a typed answer. For single choice it is used when Chosen is false.
	Text string

	// Blanks holds per-blank values for multi blank questions.
	Blanks []string

	// Numerator and Denominator hold a fraction answer. An empty
	// denominator means a bare integer.
	Numerator   string
	Denominator string
}

// ChoiceAt builds a submission for the option at 0-based index i.
func ChoiceAt(i int) Submission {
	return Submission{Chosen: true, Choice: i}
}

// TextAnswer builds a typed submission.
func TextAnswer(s string) Submission {
	return Submission{Text: s}
}

// BlankAnswers builds a multi blank submission.
func BlankAnswers(values ...string) Submission {
	return Submission{Blanks: values}
}

// FractionAnswer builds a fraction submission.
func FractionAnswer(numerator, denominator string) Submission {
	return Submission{Numerator: numerator, Denominator: denominator}
}

// Render returns the canonical string form of s for q, as stored on an
// attempt.
func (s Submission) Render(q *Question) string {
	switch q.Kind {
	case KindSingleChoice:
		if s.Chosen && s.Choice >= 0 && s.Choice < len(q.Options) {
			return q.Options[s.Choice]
		}
		return s.Text
	case KindMultiBlank:
		if len(s.Blanks) > 0 {
			return strings.Join(s.Blanks, BlankSeparator)
		}
		return s.Text
	case KindFraction:
		num := strings.TrimSpace(s.Numerator)
		if num == "" {
			return s.Text
		}
		if den := strings.TrimSpace(s.Denominator); den != "" {
			return num + "/" + den
		}
		return num
	}
	return s.Text
}
