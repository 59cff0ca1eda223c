package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/question"
)

func TestParseAnswer(t *testing.T) {
	choice := &question.Question{Kind: question.KindSingleChoice, Options: []string{"1/2", "1/4"}}
	blanks := &question.Question{Kind: question.KindMultiBlank, CorrectAnswer: "2|3"}
	frac := &question.Question{Kind: question.KindFraction}
	text := &question.Question{Kind: question.KindFreeText}

	tests := []struct {
		name string
		q    *question.Question
		line string
		want question.Submission
	}{
		{"letter picks option", choice, "B", question.ChoiceAt(1)},
		{"number picks option", choice, "1", question.ChoiceAt(0)},
		{"option text stays typed", choice, "1/4", question.TextAnswer("1/4")},
		{"blanks with pipe", blanks, "2|3", question.BlankAnswers("2", "3")},
		{"blanks with comma", blanks, "2, 3", question.BlankAnswers("2", "3")},
		{"fraction", frac, " 3 / 4 ", question.FractionAnswer("3", "4")},
		{"integer fraction", frac, "2", question.FractionAnswer("2", "")},
		{"free text", text, "  42 ", question.TextAnswer("42")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAnswer(tt.q, tt.line))
		})
	}
}

// newPreviewCmd builds a standalone preview command reading answers from in.
func newPreviewCmd(t *testing.T, in string, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	t.Setenv("MATHDRILL_DB", t.TempDir()+"/test.db")
	t.Setenv("MATHDRILL_LLM_PROVIDER", "")

	c := &cobra.Command{Use: "preview", RunE: runPreview}
	addSessionFlags(c)
	c.Flags().Int("count", 5, "")
	c.Flags().String("env-file", t.TempDir()+"/missing.env", "")
	c.Flags().String("db", "", "")
	c.SetArgs(args)
	c.SetIn(strings.NewReader(in))

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetContext(context.Background())
	return c, &out
}

func TestPreview_AnswersFromStdin(t *testing.T) {
	c, out := newPreviewCmd(t, "1/2\na\n2|3\n",
		"--skill", "fractions", "--bank", "testdata/bank.yaml", "--count", "3")

	require.NoError(t, c.Execute())

	got := out.String()
	assert.Contains(t, got, "What is 1/4 + 1/4?")
	assert.Contains(t, got, "A) 1/2")
	assert.Equal(t, 3, strings.Count(got, "Correct!"))
	assert.Contains(t, got, "Summary: 3/3 correct (100%)")
}

func TestPreview_UnknownSkill(t *testing.T) {
	c, _ := newPreviewCmd(t, "", "--skill", "nope", "--bank", "testdata/bank.yaml")

	err := c.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no questions available for skill "nope"`)
}

func TestPreview_NeedsSource(t *testing.T) {
	t.Setenv("MATHDRILL_BANK", "")
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(k, "")
	}
	c, _ := newPreviewCmd(t, "", "--skill", "fractions")

	err := c.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no question source")
}
