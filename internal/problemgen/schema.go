package problemgen

import "github.com/abhisek/mathdrill/internal/llm"

// BatchSchema defines the JSON schema for LLM question batch responses.
var BatchSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A batch of math practice questions with answer keys and worked solutions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the learner, in plain ASCII text",
						},
						"kind": map[string]any{
							"type":        "string",
							"enum":        []any{"single_choice", "multi_blank", "fraction", "free_text"},
							"description": "How the learner answers the question",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for single_choice. Empty array otherwise.",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The answer key. single_choice: the text of the correct option. multi_blank: blank values in order joined by |. fraction: n/d in simplest form, or n for whole numbers. free_text: the expected answer.",
						},
						"solution": map[string]any{
							"type":        "string",
							"description": "Step-by-step worked solution, age-appropriate for a child",
						},
					},
					"required":             []any{"text", "kind", "options", "answer", "solution"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// batchOutput is the raw LLM response before conversion.
type batchOutput struct {
	Questions []itemOutput `json:"questions"`
}

type itemOutput struct {
	Text     string   `json:"text"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Solution string   `json:"solution"`
}
