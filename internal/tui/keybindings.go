package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// KeyMap
// ---------------------------------------------------------------------------

// KeyMap defines the keybindings of the survey screen. Option keys move the
// cursor and change answers; page keys drive the session.
type KeyMap struct {
	// Option keys
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Other  key.Binding
	Follow key.Binding

	// Page keys
	Next  key.Binding
	Back  key.Binding
	Skip  key.Binding
	Help  key.Binding
	Close key.Binding
}

// DefaultKeyMap returns the default keybinding configuration. Key names
// follow the Bubble Tea format ("ctrl+c", "left", etc.).
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous option"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next option"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "select/check"),
		),
		Other: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "edit other"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "edit comment"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", "right", "n"),
			key.WithHelp("enter", "next/finish"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "b"),
			key.WithHelp("←/b", "back"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip survey"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "q"),
			key.WithHelp("esc/q", "close"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Back, k.Skip, k.Help}
}

// ---------------------------------------------------------------------------
// HelpOverlay
// ---------------------------------------------------------------------------

// HelpOverlay displays the keybinding reference in place of the current
// page. It is hidden until toggled.
type HelpOverlay struct {
	theme   Theme
	keyMap  KeyMap
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a hidden HelpOverlay.
func NewHelpOverlay(theme Theme, keyMap KeyMap) HelpOverlay {
	return HelpOverlay{
		theme:  theme,
		keyMap: keyMap,
	}
}

// SetDimensions updates the terminal dimensions used to center the overlay.
func (h *HelpOverlay) SetDimensions(width, height int) {
	h.width = width
	h.height = height
}

// Toggle flips the visibility of the help overlay.
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// IsVisible reports whether the overlay is currently shown.
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// Update dismisses the overlay on '?' or Esc. Every other key is consumed.
func (h HelpOverlay) Update(msg tea.Msg) (HelpOverlay, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, h.keyMap.Help):
			h.visible = false
		case keyMsg.Type == tea.KeyEsc:
			h.visible = false
		}
	}
	return h, nil
}

// View renders the overlay in a bordered box, centered when the terminal
// size is known. Returns an empty string when hidden.
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	boxed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Render(h.buildContent())

	if h.width == 0 || h.height == 0 {
		return boxed
	}
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, boxed)
}

func (h HelpOverlay) buildContent() string {
	var sb strings.Builder

	sb.WriteString(h.theme.Title.UnsetMarginTop().Render("Survey keyboard shortcuts"))
	sb.WriteString("\n\n")

	section := lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	sb.WriteString(section.Render("Answering"))
	sb.WriteString("\n")
	sb.WriteString(h.bindingLine(h.keyMap.Up))
	sb.WriteString(h.bindingLine(h.keyMap.Down))
	sb.WriteString(h.bindingLine(h.keyMap.Toggle))
	sb.WriteString(h.bindingLine(h.keyMap.Other))
	sb.WriteString(h.bindingLine(h.keyMap.Follow))
	sb.WriteString("\n")

	sb.WriteString(section.Render("Pages"))
	sb.WriteString("\n")
	sb.WriteString(h.bindingLine(h.keyMap.Next))
	sb.WriteString(h.bindingLine(h.keyMap.Back))
	sb.WriteString(h.bindingLine(h.keyMap.Skip))
	sb.WriteString(h.bindingLine(h.keyMap.Close))
	sb.WriteString("\n")

	sb.WriteString(h.theme.Muted.Italic(true).Render("Press ? or Esc to close"))
	return sb.String()
}

// bindingLine formats a single key.Binding as "  KEY  description\n".
func (h HelpOverlay) bindingLine(b key.Binding) string {
	k := h.theme.HelpKey.Render(b.Help().Key)
	d := h.theme.HelpDesc.Render(b.Help().Desc)
	return "  " + k + "  " + d + "\n"
}

// footer renders the short help as a single line.
func footer(theme Theme, bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, theme.HelpKey.Render(b.Help().Key)+" "+theme.HelpDesc.Render(b.Help().Desc))
	}
	return strings.Join(parts, theme.Muted.Render(" • "))
}
