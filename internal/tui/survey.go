package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/AbdelazizMoustafa10m/bacc/internal/survey"
)

// defaultWidth is used until the first tea.WindowSizeMsg arrives.
const defaultWidth = 72

// textLimit bounds free-text answers.
const textLimit = 500

// submittedMsg is sent when the submission started from the last page
// returns.
type submittedMsg struct{}

// SurveyModel is the Bubble Tea model of the survey screen. It renders the
// session's current View and routes key presses to the session. The
// program quits once the session is closed.
type SurveyModel struct {
	ctx     context.Context
	session *survey.Session
	theme   Theme
	keys    KeyMap
	help    HelpOverlay
	bar     progress.Model
	input   textinput.Model

	// cursor is the highlighted option of cursorQuestion.
	cursor         int
	cursorQuestion string

	// editing is true while input edits the answer stored under editKey.
	editing bool
	editKey survey.AnswerKey

	// confirm is the skip confirmation, non-nil while shown.
	confirm     *huh.Form
	confirmSkip *bool

	submitting bool
	width      int
	height     int
}

// NewSurveyModel creates a model for an already started session. ctx is
// passed to the submission made when the last page is finished.
func NewSurveyModel(ctx context.Context, session *survey.Session, theme Theme) SurveyModel {
	keys := DefaultKeyMap()

	input := textinput.New()
	input.CharLimit = textLimit
	input.Prompt = "> "
	input.PromptStyle = theme.Cursor
	input.TextStyle = theme.FieldValue

	bar := progress.New(
		progress.WithSolidFill(string(ColorPrimary.Dark)),
		progress.WithoutPercentage(),
	)

	m := SurveyModel{
		ctx:     ctx,
		session: session,
		theme:   theme,
		keys:    keys,
		help:    NewHelpOverlay(theme, keys),
		bar:     bar,
		input:   input,
		width:   defaultWidth,
	}
	m.resize(defaultWidth, 0)
	return m
}

// RunSurvey runs the survey screen until the session closes. The session
// must be started. Returns the error of the Bubble Tea program, if any.
func RunSurvey(ctx context.Context, session *survey.Session, theme Theme, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewSurveyModel(ctx, session, theme), opts...)
	_, err := p.Run()
	// The program may stop early on an interrupt; the session must not
	// outlive the screen.
	session.Close()
	if err != nil {
		return fmt.Errorf("survey screen: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m SurveyModel) Init() tea.Cmd {
	if m.session.State() == survey.StateClosed {
		return tea.Quit
	}
	return nil
}

// Update implements tea.Model.
func (m SurveyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case submittedMsg:
		m.submitting = false
		return m, m.quitIfClosed()
	}

	if m.submitting {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
			m.session.Close()
			return m, tea.Quit
		}
		return m, nil
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.help.IsVisible() {
		m.help, _ = m.help.Update(keyMsg)
		return m, nil
	}

	if m.editing {
		return m.updateEditing(keyMsg)
	}

	if key.Matches(keyMsg, m.keys.Close) {
		m.session.Close()
		return m, tea.Quit
	}

	view, ok := m.session.Current()
	if !ok {
		return m, m.quitIfClosed()
	}
	m.syncCursor(view)

	switch {
	case key.Matches(keyMsg, m.keys.Help):
		m.help.Toggle()

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(view.Question.Options)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggle(view.Question)

	case key.Matches(keyMsg, m.keys.Other):
		if view.Question.AllowOther {
			cmd := m.startEditing(survey.OtherKey(view.Question.ID), view.Question.OtherText, "Other")
			return m, cmd
		}

	case key.Matches(keyMsg, m.keys.Follow):
		if view.Question.HasFollowUp {
			cmd := m.startEditing(survey.FollowUpKey(view.Question.ID), view.Question.FollowUpText, "Comment")
			return m, cmd
		}

	case key.Matches(keyMsg, m.keys.Next):
		if view.IsLast() {
			m.submitting = true
			return m, m.submit()
		}
		m.session.Advance(m.ctx)

	case key.Matches(keyMsg, m.keys.Back):
		m.session.Retreat()

	case key.Matches(keyMsg, m.keys.Skip):
		if view.SkipVisible {
			cmd := m.startConfirm()
			return m, cmd
		}
	}

	return m, m.quitIfClosed()
}

// toggle applies the option under the cursor: single-choice questions
// select it, multi-choice questions flip its checked state.
func (m *SurveyModel) toggle(q survey.QuestionView) {
	if m.cursor < 0 || m.cursor >= len(q.Options) {
		return
	}
	opt := q.Options[m.cursor]
	switch q.Kind {
	case survey.KindSingleChoice:
		m.session.OnOptionSelected(q.ID, opt.Value)
	case survey.KindMultiChoice:
		m.session.OnOptionToggled(q.ID, opt.Value, !opt.Checked)
	}
}

func (m *SurveyModel) startEditing(k survey.AnswerKey, current, placeholder string) tea.Cmd {
	m.editing = true
	m.editKey = k
	m.input.Placeholder = placeholder
	m.input.SetValue(current)
	m.input.CursorEnd()
	return m.input.Focus()
}

// updateEditing forwards keys to the text input and records every change.
// Enter and Esc leave the field; the answer is already recorded.
func (m SurveyModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.session.Close()
		return m, tea.Quit
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.OnFreeTextChanged(m.editKey, after)
	}
	return m, cmd
}

func (m *SurveyModel) startConfirm() tea.Cmd {
	skip := false
	m.confirmSkip = &skip
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(survey.SkipPrompt).
				Affirmative("Skip").
				Negative("Keep going").
				Value(m.confirmSkip),
		),
	).
		WithTheme(buildHuhTheme(m.theme)).
		WithWidth(m.contentWidth()).
		WithShowHelp(false)
	return m.confirm.Init()
}

// updateConfirm drives the skip confirmation. Esc keeps the survey open.
func (m SurveyModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.confirm = nil
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		confirmed := *m.confirmSkip
		m.confirm = nil
		if confirmed {
			m.session.Skip(survey.ConfirmFunc(func(string) bool { return true }))
		}
		return m, m.quitIfClosed()
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	default:
	}
	return m, cmd
}

// submit finishes the last page off the UI goroutine. Advance blocks for
// the submission call.
func (m SurveyModel) submit() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		session.Advance(ctx)
		return submittedMsg{}
	}
}

func (m SurveyModel) quitIfClosed() tea.Cmd {
	if m.session.State() == survey.StateClosed {
		return tea.Quit
	}
	return nil
}

// syncCursor resets the cursor when the page shows a different question and
// clamps it to the option count.
func (m *SurveyModel) syncCursor(view survey.View) {
	if view.Question.ID != m.cursorQuestion {
		m.cursorQuestion = view.Question.ID
		m.cursor = 0
	}
	if n := len(view.Question.Options); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *SurveyModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.SetDimensions(width, height)
	m.bar.Width = max(m.contentWidth()-2, 10)
	m.input.Width = max(m.contentWidth()-4, 10)
}

func (m SurveyModel) contentWidth() int {
	if m.width <= 0 || m.width > defaultWidth+8 {
		return defaultWidth
	}
	return m.width
}

// View implements tea.Model.
func (m SurveyModel) View() string {
	if m.help.IsVisible() {
		return m.help.View()
	}

	view, ok := m.session.Current()
	if !ok {
		if m.submitting {
			return m.theme.Muted.Render("Sending your answers...") + "\n"
		}
		return ""
	}
	m.syncCursor(view)

	width := m.contentWidth()
	var sb strings.Builder

	sb.WriteString(m.theme.Header.Render("Survey"))
	sb.WriteString(" ")
	sb.WriteString(m.theme.Progress.Render(view.ProgressLabel))
	sb.WriteString("\n")
	sb.WriteString(m.bar.ViewAs(view.ProgressPercent / 100))
	sb.WriteString("\n")

	sb.WriteString(m.renderQuestion(view.Question, width))
	sb.WriteString("\n\n")

	if m.confirm != nil {
		sb.WriteString(m.confirm.View())
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(m.renderButtons(view))
	sb.WriteString("\n\n")
	sb.WriteString(footer(m.theme, m.footerBindings(view)))
	sb.WriteString("\n")
	return sb.String()
}

func (m SurveyModel) renderQuestion(q survey.QuestionView, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var sb strings.Builder

	sb.WriteString(m.theme.Title.Render(wrap.Render(q.Title)))
	sb.WriteString("\n")

	if q.Kind == survey.KindInfo {
		sb.WriteString("\n")
		sb.WriteString(m.theme.Content.Render(wrap.Render(q.Content)))
		return sb.String()
	}

	if q.Description != "" {
		sb.WriteString(m.theme.Description.Render(wrap.Render(q.Description)))
		sb.WriteString("\n")
	}
	if q.Statement != "" {
		sb.WriteString("\n")
		sb.WriteString(m.theme.Statement.Width(width - 2).Render(q.Statement))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for i, opt := range q.Options {
		sb.WriteString(m.renderOption(q.Kind, opt, i == m.cursor))
		sb.WriteString("\n")
	}

	if q.AllowOther {
		sb.WriteString(m.renderField("Other", survey.OtherKey(q.ID), q.OtherText))
	}
	if q.HasFollowUp {
		sb.WriteString(m.renderField("Comment", survey.FollowUpKey(q.ID), q.FollowUpText))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m SurveyModel) renderOption(kind survey.Kind, opt survey.OptionView, active bool) string {
	cursor := "  "
	if active {
		cursor = m.theme.Cursor.Render("> ")
	}

	var mark string
	on := opt.Selected || opt.Checked
	switch kind {
	case survey.KindMultiChoice:
		mark = "[ ] "
		if on {
			mark = "[x] "
		}
	default:
		mark = "( ) "
		if on {
			mark = "(•) "
		}
	}

	style := m.theme.Option
	switch {
	case on:
		style = m.theme.OptionSelected
	case active:
		style = m.theme.OptionActive
	}
	return cursor + style.Render(mark+opt.Value)
}

func (m SurveyModel) renderField(label string, k survey.AnswerKey, value string) string {
	line := "\n" + m.theme.FieldLabel.Render(label+": ")
	if m.editing && m.editKey == k {
		return line + "\n" + m.input.View() + "\n"
	}
	if value == "" {
		return line + m.theme.FieldEmpty.Render("(empty)") + "\n"
	}
	return line + m.theme.FieldValue.Render(value) + "\n"
}

func (m SurveyModel) renderButtons(view survey.View) string {
	var parts []string
	if view.BackVisible {
		parts = append(parts, m.theme.Button.Render("Back"))
	}
	if view.SkipVisible {
		parts = append(parts, m.theme.Button.Render("Skip"))
	}
	parts = append(parts, m.theme.ButtonActive.Render(view.NextLabel))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// footerBindings returns the short help with keys that do not apply to the
// current page disabled.
func (m SurveyModel) footerBindings(view survey.View) []key.Binding {
	keys := m.keys
	keys.Toggle.SetEnabled(view.Question.Kind.IsChoice())
	keys.Back.SetEnabled(view.BackVisible)
	keys.Skip.SetEnabled(view.SkipVisible)
	keys.Next.SetHelp("enter", strings.ToLower(view.NextLabel))

	bindings := keys.ShortHelp()
	if m.editing {
		done := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/esc", "done editing"))
		return []key.Binding{done}
	}
	if view.Question.AllowOther {
		bindings = append(bindings, keys.Other)
	}
	if view.Question.HasFollowUp {
		bindings = append(bindings, keys.Follow)
	}
	return bindings
}
