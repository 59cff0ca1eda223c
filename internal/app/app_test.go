package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

type stubScreen struct {
	interrupted bool
}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "stub body" }
func (s *stubScreen) Title() string                           { return "Stub" }
func (s *stubScreen) Status() string                          { return "EASY" }
func (s *stubScreen) Interrupt()                              { s.interrupted = true }

func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Z", Description: "Zap"}}
}

func TestCtrlCInterruptsActiveScreen(t *testing.T) {
	stub := &stubScreen{}
	m := newAppModel(stub)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if !stub.interrupted {
		t.Fatal("expected active screen to be interrupted")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestViewFramesActiveScreen(t *testing.T) {
	m := newAppModel(&stubScreen{})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	am := model.(AppModel)
	if v := am.View(); !v.AltScreen || !v.ReportFocus {
		t.Error("expected alt screen with focus reporting")
	}

	content := am.render()
	for _, want := range []string{"Stub", "EASY", "stub body", "Zap", "Quit"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newAppModel(&stubScreen{})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})

	if strings.Contains(model.(AppModel).render(), "stub body") {
		t.Error("small terminal should not render the screen")
	}
}
