package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chriscorrea/nearest/internal/app"
)

const documents = `El perro ladra en el parque.
El gato maúlla en la noche.
El perro y el gato juegan en el jardín.`

func newTestModel(question string) Model {
	return New(Options{
		Documents:   documents,
		Question:    question,
		Suggestions: []string{"¿Dónde juegan el perro y el gato?", "¿Qué animal maúlla?"},
		Analysis:    app.DefaultOptions(),
		Precision:   3,
	})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model
}

func TestSuggestionCycling(t *testing.T) {
	m := newTestModel("")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "¿Dónde juegan el perro y el gato?" {
		t.Errorf("after tab question = %q", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "¿Qué animal maúlla?" {
		t.Errorf("after second tab question = %q", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "¿Dónde juegan el perro y el gato?" {
		t.Errorf("tab did not wrap around, question = %q", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.input.Value(); got != "¿Qué animal maúlla?" {
		t.Errorf("after shift+tab question = %q", got)
	}
}

func TestShiftTabFirst(t *testing.T) {
	m := update(t, newTestModel(""), tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.input.Value(); got != "¿Qué animal maúlla?" {
		t.Errorf("shift+tab first question = %q, want last suggestion", got)
	}
}

func TestNoSuggestions(t *testing.T) {
	m := New(Options{Documents: documents, Analysis: app.DefaultOptions()})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.input.Value() != "" {
		t.Errorf("question = %q, want empty", m.input.Value())
	}
	if !strings.Contains(m.status, "No suggested questions") {
		t.Errorf("status = %q", m.status)
	}
}

func TestEnterAnalyzes(t *testing.T) {
	tests := []struct {
		name         string
		question     string
		wantPosition int
		wantStatus   string
	}{
		{"best match", "¿Dónde juegan el perro y el gato?", 3, "Most similar document: Doc 3"},
		{"low confidence", "astronomía", 1, "Answer (low confidence): Doc 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := update(t, newTestModel(tt.question), tea.KeyMsg{Type: tea.KeyEnter})

			result := m.result
			if result == nil {
				t.Fatalf("result = nil, status %q", m.status)
			}
			if result.Best.Position != tt.wantPosition {
				t.Errorf("best position = %d, want %d", result.Best.Position, tt.wantPosition)
			}
			if !strings.HasPrefix(m.status, tt.wantStatus) {
				t.Errorf("status = %q, want prefix %q", m.status, tt.wantStatus)
			}
		})
	}
}

func TestEnterWithEmptyQuestion(t *testing.T) {
	m := update(t, newTestModel("   "), tea.KeyMsg{Type: tea.KeyEnter})
	if m.result != nil {
		t.Errorf("result should stay nil for an empty question")
	}
	if got, want := m.status, "Error: "+app.ErrEmptyQuestion.Error(); got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}

func TestTokenizerReused(t *testing.T) {
	m := newTestModel("¿Qué animal maúlla?")
	tok := m.opts.Analysis.Tokenizer
	if tok == nil {
		t.Fatal("New() did not build a tokenizer")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.opts.Analysis.Tokenizer != tok {
		t.Errorf("tokenizer was rebuilt between questions")
	}
	if m.result == nil || m.result.Best.Position != 2 {
		t.Errorf("result = %+v, want document 2", m.result)
	}
}

func TestInvalidRulesReportedOnEnter(t *testing.T) {
	opts := app.DefaultOptions()
	opts.Rules.MinLength = 0
	m := New(Options{Documents: documents, Question: "perro", Analysis: opts})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.result != nil {
		t.Errorf("result should stay nil with invalid rules")
	}
	if !strings.HasPrefix(m.status, "Error: invalid language rules") {
		t.Errorf("status = %q", m.status)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := newTestModel("").Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("Update(%v) returned nil command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Update(%v) did not quit", key)
		}
	}
}

func TestView(t *testing.T) {
	m := newTestModel("")
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before resize = %q", got)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	if !strings.Contains(view, "3 documents loaded") {
		t.Errorf("View() missing document count:\n%s", view)
	}
	if !strings.Contains(view, "No results yet.") {
		t.Errorf("View() missing placeholder:\n%s", view)
	}
}
