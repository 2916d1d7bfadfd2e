package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitle = lipgloss.NewStyle().Bold(true).Foreground(colorViolet).MarginBottom(1)
	promptFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// ideaPrompt is a small bubbletea program asking for one idea.
type ideaPrompt struct {
	area      textarea.Model
	submitted bool
	cancelled bool
}

func newIdeaPrompt() ideaPrompt {
	ta := textarea.New()
	ta.Placeholder = "What's on your mind?"
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(5)
	ta.CharLimit = 4000
	ta.Focus()
	return ideaPrompt{area: ta}
}

func (p ideaPrompt) Init() tea.Cmd {
	return textarea.Blink
}

func (p ideaPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlS, tea.KeyCtrlD:
			if strings.TrimSpace(p.area.Value()) == "" {
				return p, nil
			}
			p.submitted = true
			return p, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.area, cmd = p.area.Update(msg)
	return p, cmd
}

func (p ideaPrompt) View() string {
	if p.submitted || p.cancelled {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n",
		promptTitle.Render("Quick Capture"),
		promptFrame.Render(p.area.View()),
		styleHint.Render("ctrl+s submit • esc cancel"),
	)
}

// Value returns the entered idea.
func (p ideaPrompt) Value() string {
	return p.area.Value()
}

// promptIdea runs the prompt and returns the idea, or "" if cancelled.
func promptIdea() (string, error) {
	final, err := tea.NewProgram(newIdeaPrompt()).Run()
	if err != nil {
		return "", err
	}
	p := final.(ideaPrompt)
	if !p.submitted {
		return "", nil
	}
	return p.Value(), nil
}
