package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathdrill/internal/question"
)

const systemPrompt = `You are a math tutor creating practice problems for children in grades 3-5.

Rules:
- Generate exactly the requested number of problems for the given skill and difficulty.
- Use plain ASCII text for all math. No LaTeX, no Unicode symbols. Use / for fractions, * for multiplication, and standard operators.
- The question text should be clear, self-contained, and age-appropriate.
- The answer must be correct. Fractions go in simplest form as n/d.
- The solution should show the work step by step, suitable for a child.
- Use "single_choice" for conceptual, comparison or identification problems, with exactly 4 options where exactly one is correct. Distractors should reflect common mistakes, not random values.
- Use "multi_blank" when the learner fills several values in order, writing the answer as the values joined by |.
- Use "fraction" when the answer is a fraction, and "free_text" for whole numbers, decimals and short words.
- Do not repeat any question from the "already asked" list.`

var difficultyGuide = map[question.Difficulty]string{
	question.Easy:   "easy (one step, small numbers, no regrouping)",
	question.Medium: "medium (two steps or regrouping)",
	question.Hard:   "hard (multi-step, larger numbers, word problems welcome)",
}

// buildUserMessage constructs the user message for one batch request.
func buildUserMessage(skillID string, skill Skill, count int, d question.Difficulty, questionType string, prior []string, cfg Config) string {
	var b strings.Builder

	name := skill.Name
	if name == "" {
		name = skillID
	}
	fmt.Fprintf(&b, "Skill: %s\n", name)
	if skill.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", skill.Description)
	}
	if questionType != "" {
		fmt.Fprintf(&b, "Question type: %s\n", questionType)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", difficultyGuide[d])
	fmt.Fprintf(&b, "Number of questions: %d\n", count)

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorQuestions))

	return b.String()
}

// buildDedup formats prior questions for the prompt, keeping the most
// recent max. Returns "None" if there are no prior questions.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
