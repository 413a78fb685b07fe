// Package tui renders the interactive menu and the dry-run summary.
package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rigforge/rigctl/internal/reconcile"
)

// Action is what a menu choice does when selected.
type Action int

const (
	ActionRunDomain Action = iota
	ActionRunAll
	ActionDryRunSummary
	ActionQuit
)

// Choice is one numbered menu entry.
type Choice struct {
	Key    string
	Label  string
	Action Action
	Domain reconcile.Domain
}

// Choices builds the standard menu: one entry per domain, then run-all,
// dry-run summary, and quit.
func Choices(domains []reconcile.Domain) []Choice {
	var out []Choice
	for i, d := range domains {
		out = append(out, Choice{
			Key:    fmt.Sprintf("%d", i+1),
			Label:  fmt.Sprintf("Reconcile %s", d),
			Action: ActionRunDomain,
			Domain: d,
		})
	}
	out = append(out,
		Choice{Key: fmt.Sprintf("%d", len(domains)+1), Label: "Run all domains", Action: ActionRunAll},
		Choice{Key: fmt.Sprintf("%d", len(domains)+2), Label: "Dry-run summary", Action: ActionDryRunSummary},
		Choice{Key: "q", Label: "Quit", Action: ActionQuit},
	)
	return out
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type menuKeymap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func newMenuKeymap() menuKeymap {
	return menuKeymap{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Select: key.NewBinding(key.WithKeys("enter")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// menuModel is the bubbletea model for the main menu.
type menuModel struct {
	choices  []Choice
	cursor   int
	keymap   menuKeymap
	selected *Choice
}

func newMenuModel(choices []Choice) menuModel {
	return menuModel{choices: choices, keymap: newMenuKeymap()}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keymap.Quit):
		for i := range m.choices {
			if m.choices[i].Action == ActionQuit {
				m.selected = &m.choices[i]
			}
		}
		return m, tea.Quit
	case key.Matches(keyMsg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keymap.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keymap.Select):
		m.selected = &m.choices[m.cursor]
		return m, tea.Quit
	default:
		// Number keys select directly.
		for i := range m.choices {
			if m.choices[i].Key == keyMsg.String() {
				m.cursor = i
				m.selected = &m.choices[i]
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("rigctl") + "\n\n")
	for i, choice := range m.choices {
		line := fmt.Sprintf("%s) %s", choice.Key, choice.Label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓ move · enter select · q quit") + "\n")
	return b.String()
}

// Menu runs the interactive menu and returns the selected choice.
func Menu(choices []Choice) (Choice, error) {
	program := tea.NewProgram(newMenuModel(choices))
	final, err := program.Run()
	if err != nil {
		return Choice{}, fmt.Errorf("menu failed: %w", err)
	}

	model := final.(menuModel)
	if model.selected == nil {
		return Choice{Action: ActionQuit}, nil
	}
	return *model.selected, nil
}

// SimpleMenu is the non-TTY fallback: print the entries, read one line.
// Unknown input re-prompts; EOF quits.
func SimpleMenu(in io.Reader, out io.Writer, choices []Choice) (Choice, error) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintln(out)
		for _, choice := range choices {
			fmt.Fprintf(out, "%s) %s\n", choice.Key, choice.Label)
		}
		fmt.Fprint(out, "choice: ")

		line, err := reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && answer == "" {
			return Choice{Action: ActionQuit}, nil
		}

		for _, choice := range choices {
			if strings.EqualFold(choice.Key, answer) {
				return choice, nil
			}
		}
		fmt.Fprintf(out, "unknown choice: %s\n", answer)
	}
}
