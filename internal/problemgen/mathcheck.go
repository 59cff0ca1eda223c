package problemgen

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/abhisek/mathdrill/internal/question"
)

// MathCheckValidator independently recomputes simple arithmetic from the
// question text and compares it to the answer key. Questions it cannot
// compute pass through silently.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(q *question.Question) *ValidationError {
	if q.Kind != question.KindFraction && q.Kind != question.KindFreeText {
		return nil
	}
	want, ok := new(big.Rat).SetString(strings.TrimSpace(q.CorrectAnswer))
	if !ok {
		return nil
	}
	computed, ok := computeAnswer(q.Text)
	if !ok {
		return nil
	}
	if computed.Cmp(want) != 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %s but the answer key says %q", computed.RatString(), q.CorrectAnswer),
		}
	}
	return nil
}

var (
	// Fraction arithmetic: "a/b + c/d", "a/b - c/d", "a/b * c/d", "a/b ÷ c/d"
	fractionArithRe = regexp.MustCompile(`(-?\d+)\s*/\s*(\d+)\s*([+\-*×÷])\s*(-?\d+)\s*/\s*(\d+)`)

	// Integer/decimal arithmetic with +, -, *, ×
	numberArithRe = regexp.MustCompile(`(?:^|[^\d/.])(-?\d+(?:\.\d+)?)\s*([+\-*×])\s*(-?\d+(?:\.\d+)?)(?:[^\d/]|$)`)

	// Division needs spaces around the operator to tell it from a fraction
	// (3/4 vs 144 / 12).
	numberDivRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s+[/÷]\s+(-?\d+(?:\.\d+)?)`)
)

// computeAnswer extracts the first arithmetic expression from text and
// evaluates it exactly.
func computeAnswer(text string) (*big.Rat, bool) {
	if m := fractionArithRe.FindStringSubmatch(text); m != nil {
		return apply(m[1]+"/"+m[2], m[3], m[4]+"/"+m[5])
	}
	if m := numberArithRe.FindStringSubmatch(text); m != nil {
		return apply(m[1], m[2], m[3])
	}
	if m := numberDivRe.FindStringSubmatch(text); m != nil {
		return apply(m[1], "/", m[2])
	}
	return nil, false
}

func apply(aStr, op, bStr string) (*big.Rat, bool) {
	a, ok := new(big.Rat).SetString(aStr)
	if !ok {
		return nil, false
	}
	b, ok := new(big.Rat).SetString(bStr)
	if !ok {
		return nil, false
	}

	r := new(big.Rat)
	switch op {
	case "+":
		return r.Add(a, b), true
	case "-":
		return r.Sub(a, b), true
	case "*", "×":
		return r.Mul(a, b), true
	case "/", "÷":
		if b.Sign() == 0 {
			return nil, false
		}
		return r.Quo(a, b), true
	}
	return nil, false
}
