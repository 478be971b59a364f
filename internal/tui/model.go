// Package tui is the interactive mode: type or pick a question and see which
// document answers it best.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chriscorrea/nearest/internal/app"
	"github.com/chriscorrea/nearest/internal/fetch"
	"github.com/chriscorrea/nearest/internal/tokenize"
)

// Options configures an interactive session.
type Options struct {
	Documents   string   // newline separated documents
	Question    string   // initial question, may be empty
	Suggestions []string // cycled with tab and shift+tab
	Analysis    app.Options
	Precision   int
}

// Model is the Bubble Tea model for the interactive mode.
type Model struct {
	opts       Options
	documents  int
	input      textinput.Model
	viewport   viewport.Model
	result     *app.Result
	output     string
	status     string
	suggestion int // index into Suggestions, -1 before the first tab
	ready      bool
}

// New creates a model with the question input focused. The tokenizer is built
// once here and reused for every question.
func New(opts Options) Model {
	if opts.Analysis.Tokenizer == nil {
		// on error Analyze reports the invalid rules at the first Enter
		if tok, err := tokenize.New(opts.Analysis.Rules); err == nil {
			opts.Analysis.Tokenizer = tok
		}
	}

	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Write a question and press Enter (tab for suggestions)"
	ti.SetValue(opts.Question)
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		opts:       opts,
		documents:  len(app.SplitDocuments(opts.Documents)),
		input:      ti,
		viewport:   viewport.New(0, 0),
		status:     "Ready.",
		suggestion: -1,
	}
}

// Run starts the interactive program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if !fetch.StdinIsTerminal() {
		// documents were piped in; keys come from the terminal
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	p := tea.NewProgram(New(opts), programOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive mode failed: %w", err)
	}
	return nil
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles keys and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header lines, status, input box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.content())
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.cycleSuggestion(1)
			return m, nil
		case tea.KeyShiftTab:
			m.cycleSuggestion(-1)
			return m, nil
		case tea.KeyEnter:
			m.analyze()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("nearest")
	summary := mutedStyle.Render(fmt.Sprintf("%d documents loaded", m.documents))
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := m.statusStyle().Render(m.status)
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m *Model) cycleSuggestion(step int) {
	n := len(m.opts.Suggestions)
	if n == 0 {
		m.status = "No suggested questions."
		return
	}
	if m.suggestion < 0 && step < 0 {
		m.suggestion = n - 1
	} else {
		m.suggestion = ((m.suggestion+step)%n + n) % n
	}
	m.input.SetValue(m.opts.Suggestions[m.suggestion])
	m.input.CursorEnd()
	m.status = fmt.Sprintf("Suggestion %d/%d", m.suggestion+1, n)
}

func (m *Model) analyze() {
	result, err := app.Analyze(m.opts.Analysis, app.Request{
		Documents: m.opts.Documents,
		Question:  m.input.Value(),
	})
	if err != nil {
		m.status = "Error: " + err.Error()
		m.viewport.SetContent(m.content())
		return
	}

	output, err := app.Render(result, app.Text, m.opts.Precision)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}

	m.result = result
	m.output = output
	m.status = fmt.Sprintf("%s: %s (%.*f)", app.Verdict(result), result.Best.Label, m.opts.Precision, result.Best.Score)
	m.viewport.SetContent(m.content())
	m.viewport.GotoTop()
}

func (m Model) content() string {
	if m.output == "" {
		return "No results yet."
	}
	return m.output
}

func (m Model) statusStyle() lipgloss.Style {
	switch {
	case strings.HasPrefix(m.status, "Error"):
		return errorStyle
	case m.result != nil && !m.result.Confident:
		return warningStyle
	default:
		return okStyle
	}
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
