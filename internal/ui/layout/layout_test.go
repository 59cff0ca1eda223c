package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var practiceHints = []KeyHint{
	{Key: "Enter", Description: "Submit"},
	{Key: "Tab", Description: "Next blank"},
	{Key: "Esc", Description: "End session"},
	{Key: "Ctrl+C", Description: "Quit"},
}

func TestRenderFooterFitsWidth(t *testing.T) {
	wide := RenderFooter(practiceHints, 120)
	for _, h := range practiceHints {
		assert.Contains(t, wide, h.Description)
	}

	narrow := RenderFooter(practiceHints, 40)
	assert.Contains(t, narrow, "Submit")
	assert.NotContains(t, narrow, "Next blank")
	assert.NotContains(t, narrow, "End session")
	assert.Contains(t, narrow, "Quit", "last hint is always kept")
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Practice: fractions", "Easy  streak 2", 100)
	assert.Contains(t, h, "Mathdrill")
	assert.Contains(t, h, "Practice: fractions")
	assert.Contains(t, h, "streak 2")
}

func TestRenderFrameHeight(t *testing.T) {
	frame := RenderFrame("head", "body", "foot", 20, 10)
	assert.Equal(t, 10, strings.Count(frame, "\n")+1)
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}
