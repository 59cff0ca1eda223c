package problemgen

// Skill describes a skill to the model. Skills without an entry in
// Config.Skills are described by their id alone.
type Skill struct {
	Name        string
	Description string

	// Types lists the question types the skill offers, e.g. "computation"
	// or "word-problems". With more than one, a fetch that names no type
	// asks the caller to choose.
	Types []string
}

// Config controls the behavior of the Source.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated question. The first failure drops the question.
	Validators []Validator

	// MaxTokensPerQuestion is the token budget per requested question.
	MaxTokensPerQuestion int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of prior questions
	// to include in the prompt for deduplication.
	MaxPriorQuestions int

	Skills map[string]Skill
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerKeyValidator{},
			&MathCheckValidator{},
		},
		MaxTokensPerQuestion: 400,
		Temperature:          0.7,
		MaxPriorQuestions:    8,
	}
}
