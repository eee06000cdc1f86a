package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.spiff.io/ctok"
)

func exploreCommand(args []string) error {
	if len(args) != 0 {
		return usageError()
	}
	return runExplore()
}

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	keywordStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	literalStyle = lipgloss.NewStyle().
			Foreground(successColor)

	operatorStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

func categoryStyle(cat ctok.Category) lipgloss.Style {
	switch cat {
	case ctok.TKeyword:
		return keywordStyle
	case ctok.TInteger, ctok.TFloat, ctok.TChar, ctok.TString:
		return literalStyle
	case ctok.TOperator, ctok.TPunct:
		return operatorStyle
	case ctok.TComment, ctok.TPreproc, ctok.TWhitespace:
		return mutedStyle
	case ctok.TUnknown:
		return errorStyle
	}
	return lipgloss.NewStyle()
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type exploreModel struct {
	textInput   textinput.Model
	table       *ctok.Table
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showTable   bool
	showWS      bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	CtrlT key.Binding
	CtrlW key.Binding
	CtrlK key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous input"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next input"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "tokenize"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	CtrlT: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "toggle table"),
	),
	CtrlW: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "toggle whitespace"),
	),
	CtrlK: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newExploreModel() exploreModel {
	ti := textinput.New()
	ti.Placeholder = "type a line of C..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "ctok> "

	return exploreModel{
		textInput:  ti,
		table:      ctok.NewTable(),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
		showHelp:   false,
		showTable:  false,
		showWS:     false,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlT):
			m.showTable = !m.showTable
			return m, nil

		case key.Matches(msg, keys.CtrlW):
			m.showWS = !m.showWS
			return m, nil

		case key.Matches(msg, keys.CtrlK):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := m.textInput.Value()
			if strings.TrimSpace(input) == "" {
				return m, nil
			}

			if strings.HasPrefix(strings.TrimSpace(input), ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(strings.TrimSpace(input))
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.tokenize(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m exploreModel) handleCommand(input string) (exploreModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":table", ":t":
		m.showTable = !m.showTable
	case ":ws", ":w":
		m.showWS = !m.showWS
	case ":reset", ":r":
		m.table = ctok.NewTable()
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Table reset",
			isErr:  false,
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

// tokenize scans one line of input, interning every token into the session
// table, and renders the tokens with one color per category.
func (m exploreModel) tokenize(input string) (string, bool) {
	lex := ctok.NewLexer(strings.NewReader(input))

	var parts []string
	count := 0
	for {
		tok, err := lex.ReadToken()
		if err != nil {
			return err.Error(), true
		}
		if tok.Category == ctok.TEOF {
			break
		}
		if tok.Category == ctok.TWhitespace {
			if m.showWS {
				parts = append(parts, mutedStyle.Render(fmt.Sprintf("%q", tok.Raw)))
			}
			continue
		}
		count++
		id := m.table.Intern(tok.Category, tok.Raw)
		label := mutedStyle.Render(fmt.Sprintf("%v#%d", tok.Category, id))
		parts = append(parts, categoryStyle(tok.Category).Render(string(tok.Raw))+label)
	}

	if count == 0 && len(parts) == 0 {
		return mutedStyle.Render("no tokens"), false
	}
	return strings.Join(parts, " "), false
}

func (m exploreModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("ctok explorer")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8 // header, input, footer, etc.
	if m.showHelp {
		reservedLines += 10
	}
	if m.showTable {
		reservedLines += len(m.table.Categories()) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + entry.output + "\n")
		}
		b.WriteString("\n")
	}

	if m.showTable {
		b.WriteString(renderTablePanel(m.table))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+t") + helpDescStyle.Render(" table  ") +
		helpKeyStyle.Render("ctrl+w") + helpDescStyle.Render(" whitespace  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderTablePanel(tab *ctok.Table) string {
	cats := tab.Categories()
	if len(cats) == 0 {
		return borderStyle.Render(mutedStyle.Render("Nothing interned yet"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Interned"))
	for _, cat := range cats {
		line := fmt.Sprintf("  %s %d distinct",
			categoryStyle(cat).Render(fmt.Sprintf("%-12v", cat)), tab.Len(cat))
		lines = append(lines, line)
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate input history"},
		{"Enter", "Tokenize a line"},
		{":help", "Toggle this help"},
		{":table", "Toggle interned-text panel"},
		{":ws", "Toggle whitespace tokens"},
		{":reset", "Reset the intern table"},
		{":clear", "Clear history"},
		{":quit", "Exit"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runExplore() error {
	p := tea.NewProgram(newExploreModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
