// Package bank serves practice questions from a YAML question bank.
package bank

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathdrill/internal/question"
)

// File is the on-disk layout of a question bank.
//
//	skills:
//	  - id: add-2d
//	    name: Two-digit addition
//	    types:
//	      - name: drill
//	        questions:
//	          - id: add-2d-001
//	            text: What is 23 + 45?
//	            kind: free_text
//	            answer: "68"
//	            difficulty: easy
type File struct {
	Skills []SkillEntry `yaml:"skills"`
}

// SkillEntry groups the question types of one skill.
type SkillEntry struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name"`
	Types []TypeEntry `yaml:"types"`
}

// TypeEntry is a named set of questions, e.g. "drill" or "word-problems".
type TypeEntry struct {
	Name      string          `yaml:"name"`
	Questions []QuestionEntry `yaml:"questions"`
}

// QuestionEntry is one question as written in the bank.
type QuestionEntry struct {
	ID         string   `yaml:"id"`
	Text       string   `yaml:"text"`
	Kind       string   `yaml:"kind"`
	Options    []string `yaml:"options,omitempty"`
	Answer     string   `yaml:"answer"`
	Solution   string   `yaml:"solution,omitempty"`
	Difficulty string   `yaml:"difficulty"`
}

// LoadFile reads and parses a bank file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates bank YAML. Every question is checked so a
// broken bank fails at load time rather than mid-session.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	ids := make(map[string]bool)
	for _, s := range f.Skills {
		if s.ID == "" {
			return nil, fmt.Errorf("question bank: skill without id")
		}
		for _, t := range s.Types {
			if t.Name == "" {
				return nil, fmt.Errorf("question bank: skill %s has a type without name", s.ID)
			}
			for _, qe := range t.Questions {
				q, err := qe.Question()
				if err != nil {
					return nil, fmt.Errorf("question bank: skill %s: %w", s.ID, err)
				}
				if ids[q.ID] {
					return nil, fmt.Errorf("question bank: duplicate question id %s", q.ID)
				}
				ids[q.ID] = true
			}
		}
	}
	return &f, nil
}

// Question converts the entry to a validated question.
func (e QuestionEntry) Question() (*question.Question, error) {
	d, err := question.ParseDifficulty(strings.ToLower(strings.TrimSpace(e.Difficulty)))
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", e.ID, err)
	}
	q := &question.Question{
		ID:            e.ID,
		Text:          e.Text,
		Kind:          question.Kind(e.Kind),
		Options:       e.Options,
		CorrectAnswer: e.Answer,
		Solution:      e.Solution,
		Difficulty:    d,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
