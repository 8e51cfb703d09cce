// Package tui implements the interactive chat interface: a transcript view
// with a single input line that talks to the supervisor or any delegate
// agent, with in-chat commands for switching agents and checking status.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/norasys/nora/internal/client"
)

// Sender is the client capability the chat needs.
type Sender interface {
	Send(ctx context.Context, target client.Target, message string) (string, error)
	CheckAll(ctx context.Context, targets []client.Target) []client.Status
}

// ReplyMsg delivers an agent reply to the chat model.
type ReplyMsg struct {
	Speaker string
	Text    string
	Err     error
}

// StatusMsg delivers probe results to the chat model.
type StatusMsg struct {
	Statuses []client.Status
}

type entryKind int

const (
	entryUser entryKind = iota
	entryAgent
	entrySystem
	entryError
)

type entry struct {
	kind    entryKind
	speaker string
	text    string
}

// Chat is the interactive chat model.
type Chat struct {
	sender  Sender
	targets []client.Target
	current int

	input      textinput.Model
	transcript []entry
	width      int
	height     int
	waiting    bool
	quitting   bool
}

// NewChat creates the chat model. The first target is selected initially.
func NewChat(sender Sender, targets []client.Target) *Chat {
	ti := textinput.New()
	ti.Placeholder = "Type a message and press Enter..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	c := &Chat{
		sender:  sender,
		targets: targets,
		input:   ti,
		width:   80,
		height:  24,
	}
	c.transcript = append(c.transcript, entry{
		kind: entrySystem,
		text: "Type 'exit' to quit, 'switch' to change agents, 'help' for commands",
	})
	return c
}

// Current returns the selected target.
func (c *Chat) Current() client.Target {
	return c.targets[c.current]
}

// Init implements tea.Model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			c.quitting = true
			return c, tea.Quit

		case "enter":
			if c.waiting {
				return c, nil
			}
			text := strings.TrimSpace(c.input.Value())
			if text == "" {
				return c, nil
			}
			c.input.Reset()
			return c, c.handleInput(text)
		}

	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.input.Width = msg.Width - 4

	case ReplyMsg:
		c.waiting = false
		if msg.Err != nil {
			c.transcript = append(c.transcript, entry{kind: entryError, text: msg.Err.Error()})
		} else {
			c.transcript = append(c.transcript, entry{kind: entryAgent, speaker: msg.Speaker, text: msg.Text})
		}
		return c, nil

	case StatusMsg:
		c.waiting = false
		for _, status := range msg.Statuses {
			c.transcript = append(c.transcript, entry{
				kind: entrySystem,
				text: fmt.Sprintf("%s  %s  %s", status.Target.DisplayName, status.Target.URL, describeStatus(status)),
			})
		}
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// handleInput interprets one submitted line: a chat command or a message for
// the current agent.
func (c *Chat) handleInput(text string) tea.Cmd {
	switch strings.ToLower(text) {
	case "exit", "quit", "bye":
		c.quitting = true
		return tea.Quit

	case "help":
		c.transcript = append(c.transcript, entry{kind: entrySystem, text: helpText})
		return nil

	case "status":
		c.waiting = true
		sender, targets := c.sender, c.targets
		return func() tea.Msg {
			return StatusMsg{Statuses: sender.CheckAll(context.Background(), targets)}
		}

	case "switch":
		c.current = (c.current + 1) % len(c.targets)
		c.transcript = append(c.transcript, entry{
			kind: entrySystem,
			text: "Switched to " + c.Current().DisplayName,
		})
		return nil
	}

	if name, ok := strings.CutPrefix(strings.ToLower(text), "switch "); ok {
		return c.switchTo(strings.TrimSpace(name))
	}

	c.transcript = append(c.transcript, entry{kind: entryUser, text: text})
	c.waiting = true

	sender, target := c.sender, c.Current()
	return func() tea.Msg {
		reply, err := sender.Send(context.Background(), target, text)
		return ReplyMsg{Speaker: target.DisplayName, Text: reply, Err: err}
	}
}

func (c *Chat) switchTo(name string) tea.Cmd {
	for i, target := range c.targets {
		if strings.EqualFold(target.Name, name) {
			c.current = i
			c.transcript = append(c.transcript, entry{
				kind: entrySystem,
				text: "Switched to " + target.DisplayName,
			})
			return nil
		}
	}

	names := make([]string, len(c.targets))
	for i, target := range c.targets {
		names[i] = target.Name
	}
	c.transcript = append(c.transcript, entry{
		kind: entryError,
		text: fmt.Sprintf("Unknown agent %q. Available: %s", name, strings.Join(names, ", ")),
	})
	return nil
}

const helpText = `Available commands:
  exit / quit / bye   Exit the chat
  switch              Cycle to the next agent
  switch <name>       Switch to a specific agent
  status              Show agent status
  help                Show this help message
Anything else is sent to the current agent.`

func describeStatus(status client.Status) string {
	switch status.State {
	case client.StateOnline:
		return "Online"
	case client.StateDegraded:
		return fmt.Sprintf("HTTP %d", status.HTTPStatus)
	default:
		return "Offline"
	}
}

// View implements tea.Model.
func (c *Chat) View() string {
	if c.quitting {
		return "Goodbye!\n"
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)
	agentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	systemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	var lines []string
	for _, e := range c.transcript {
		switch e.kind {
		case entryUser:
			lines = append(lines, userStyle.Render("You: ")+e.text)
		case entryAgent:
			lines = append(lines, agentStyle.Render(e.speaker+": ")+e.text)
		case entryError:
			lines = append(lines, errorStyle.Render("Error: ")+e.text)
		default:
			lines = append(lines, systemStyle.Render(e.text))
		}
	}
	if c.waiting {
		lines = append(lines, systemStyle.Render("..."))
	}

	header := headerStyle.Render("Interactive Chat") +
		systemStyle.Render("  (talking to "+c.Current().DisplayName+")")

	// Keep the transcript tail that fits above the input line.
	visible := c.height - 4
	if visible > 0 && len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(c.width - 2)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(lines, "\n"),
		boxStyle.Render(c.input.View()),
	)
}

// NewChatProgram creates a bubbletea program for the chat.
func NewChatProgram(sender Sender, targets []client.Target) (*tea.Program, *Chat) {
	app := NewChat(sender, targets)
	p := tea.NewProgram(app)
	return p, app
}
