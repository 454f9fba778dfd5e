// Package shell is the full-screen terminal UI for iterating on
// queries: edit SQL in place, compile it, and inspect the structured
// form or the compilation error without leaving the terminal.
package shell

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kbastani/pinot/compiler"
	"github.com/kbastani/pinot/output"
	"github.com/kbastani/pinot/rewriter"
)

// Model is the shell's application state.
type Model struct {
	editor     textarea.Model
	resultView viewport.Model
	help       help.Model
	keys       keyMap

	// compile with the default passes; compileRaw with none. Toggling
	// rewrites switches between the two.
	compile    *compiler.Compiler
	compileRaw *compiler.Compiler

	width        int
	height       int
	rewrites     bool
	showHelp     bool
	lastError    error
	lastCompiled bool
}

// NewModel builds the shell in its initial state: empty editor,
// rewrites enabled.
func NewModel() Model {
	ta := textarea.New()
	ta.Placeholder = "SELECT city, COUNT(*) FROM events GROUP BY city"
	ta.CharLimit = 5000
	ta.ShowLineNumbers = true
	ta.SetHeight(6)
	ta.Focus()

	vp := viewport.New(80, 16)
	vp.Style = resultStyle

	return Model{
		editor:     ta,
		resultView: vp,
		help:       help.New(),
		keys:       keys,
		compile:    compiler.New(compiler.Config{}),
		compileRaw: compiler.New(compiler.Config{Rewriters: []rewriter.Rewriter{}}),
		rewrites:   true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Compile):
			m.compileCurrent()
			return m, nil

		case key.Matches(msg, m.keys.ToggleRewrites):
			m.rewrites = !m.rewrites
			if m.lastCompiled {
				m.compileCurrent()
			}
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.editor.SetValue("")
			m.resultView.SetContent("")
			m.lastError = nil
			m.lastCompiled = false
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)

	m.resultView, cmd = m.resultView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// compileCurrent compiles the editor contents into the result view.
func (m *Model) compileCurrent() {
	sql := strings.TrimSpace(m.editor.Value())
	if sql == "" {
		return
	}
	m.lastCompiled = true

	c := m.compile
	if !m.rewrites {
		c = m.compileRaw
	}
	query, err := c.Compile(sql)
	if err != nil {
		m.lastError = err
		m.resultView.SetContent(err.Error())
		return
	}
	m.lastError = nil

	var buf bytes.Buffer
	formatter := output.NewJSONFormatter(&buf)
	formatter.SetIndent("  ")
	if err := formatter.Format(query); err != nil {
		m.lastError = err
		m.resultView.SetContent(err.Error())
		return
	}
	m.resultView.SetContent(buf.String())
	m.resultView.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("pinotql"))
	sections = append(sections, editorStyle.Render(m.editor.View()))

	if m.lastError != nil {
		sections = append(sections, errorStyle.Render(" ERROR ")+" "+m.lastError.Error())
	}
	sections = append(sections, m.resultView.View())
	sections = append(sections, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, m.help.FullHelpView([][]key.Binding{
			{m.keys.Compile, m.keys.ToggleRewrites, m.keys.Clear, m.keys.Help, m.keys.Quit},
		}))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusBar() string {
	rewrites := "rewrites on"
	if !m.rewrites {
		rewrites = "rewrites off"
	}
	return statusOkStyle.Render(rewrites) +
		statusMutedStyle.Render(" | ctrl+r compile | ctrl+h help")
}

func (m *Model) updateLayout() {
	editorHeight := 6
	resultHeight := m.height - editorHeight - 8
	if resultHeight < 4 {
		resultHeight = 4
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	m.editor.SetWidth(width)
	m.resultView.Width = width
	m.resultView.Height = resultHeight
}

// Run starts the shell and blocks until it exits.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("shell failed: %w", err)
	}
	return nil
}
