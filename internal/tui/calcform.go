package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/AbdelazizMoustafa10m/bacc/internal/bacc"
)

// ErrFormCancelled is returned when the user aborts the calculator form.
var ErrFormCancelled = errors.New("calculator form cancelled by user")

// formWidth is the fixed width of the calculator form pages.
const formWidth = 72

// maxChildren bounds the child count prompt.
const maxChildren = 10

// ChangeFunc is called once for every form field the user changes, with the
// field name and its new value.
type ChangeFunc func(action, field, value string)

// calcAnswers collects the raw values of the calculator form pages.
type calcAnswers struct {
	Rank      string
	Location  string
	CostShare string
	Count     string
	Ages      []string
}

// RunCalcForm prompts for rank, location, cost share and each child's age,
// then applies the answers to form. Existing values pre-fill the prompts.
// onChange may be nil. Returns ErrFormCancelled if the user aborts.
func RunCalcForm(form *bacc.Form, theme Theme, onChange ChangeFunc) error {
	huhTheme := buildHuhTheme(theme)
	ans := answersFromForm(form)

	// Page 1: service member
	if err := runFormPage(huhTheme, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Rank (pay grade)").
			Options(stringOptions(bacc.Ranks())...).
			Value(&ans.Rank),
		huh.NewSelect[string]().
			Title("Location").
			Description("Cost of living at the duty station.").
			Options(stringOptions(bacc.Locations())...).
			Value(&ans.Location),
		huh.NewInput().
			Title("Family cost share (%)").
			Value(&ans.CostShare).
			Validate(costShareValidator),
	)); err != nil {
		return mapFormErr(err)
	}

	// Page 2: number of children
	if err := runFormPage(huhTheme, huh.NewGroup(
		huh.NewInput().
			Title("How many children need care?").
			Value(&ans.Count).
			Validate(childCountValidator),
	)); err != nil {
		return mapFormErr(err)
	}

	// Page 3: one age select per child
	n, _ := strconv.Atoi(strings.TrimSpace(ans.Count))
	ans.Ages = resizeAges(ans.Ages, n)
	fields := make([]huh.Field, n)
	for i := range ans.Ages {
		fields[i] = huh.NewSelect[string]().
			Title(fmt.Sprintf("Child %d age", i+1)).
			Options(stringOptions(bacc.AgeCategories())...).
			Value(&ans.Ages[i])
	}
	if err := runFormPage(huhTheme, huh.NewGroup(fields...)); err != nil {
		return mapFormErr(err)
	}

	return applyCalcAnswers(form, ans, onChange)
}

func runFormPage(theme *huh.Theme, group *huh.Group) error {
	return huh.NewForm(group).
		WithTheme(theme).
		WithWidth(formWidth).
		Run()
}

// answersFromForm pre-fills the prompts from the current form state. Empty
// selects default to the first table entry.
func answersFromForm(form *bacc.Form) calcAnswers {
	ans := calcAnswers{
		Rank:      form.Rank(),
		Location:  form.Location(),
		CostShare: strconv.FormatFloat(form.CostShare(), 'f', -1, 64),
	}
	if ans.Rank == "" {
		ans.Rank = bacc.Ranks()[0]
	}
	if ans.Location == "" {
		ans.Location = bacc.Locations()[0]
	}
	children := form.Children()
	for _, c := range children {
		ans.Ages = append(ans.Ages, c.Age)
	}
	count := len(children)
	if count == 0 {
		count = 1
	}
	ans.Count = strconv.Itoa(count)
	return ans
}

// resizeAges trims or extends ages to n entries. New entries default to the
// first age category.
func resizeAges(ages []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(ages) && ages[i] != "" {
			out[i] = ages[i]
			continue
		}
		out[i] = bacc.AgeCategories()[0]
	}
	return out
}

// applyCalcAnswers writes ans to form and reports every change through
// onChange. Children beyond len(ans.Ages) are removed; missing ones are
// added.
func applyCalcAnswers(form *bacc.Form, ans calcAnswers, onChange ChangeFunc) error {
	notify := func(action, field, value string) {
		if onChange != nil {
			onChange(action, field, value)
		}
	}

	if ans.Rank != form.Rank() {
		if err := form.SetRank(ans.Rank); err != nil {
			return err
		}
		notify("change", "rank", ans.Rank)
	}
	if ans.Location != form.Location() {
		if err := form.SetLocation(ans.Location); err != nil {
			return err
		}
		notify("change", "location", ans.Location)
	}
	before := form.CostShare()
	if after := form.SetCostShare(ans.CostShare); after != before {
		notify("change", "costShare", strconv.FormatFloat(after, 'f', -1, 64))
	}

	children := form.Children()
	for i := len(ans.Ages); i < len(children); i++ {
		form.RemoveChild(children[i].ID)
		notify("remove_child", children[i].ID, "")
	}
	for i, age := range ans.Ages {
		var id string
		if i < len(children) {
			id = children[i].ID
			if children[i].Age == age {
				continue
			}
		} else {
			id = form.AddChild()
			notify("add_child", id, "")
		}
		if err := form.SetChildAge(id, age); err != nil {
			return err
		}
		notify("change", id, age)
	}
	return nil
}

func stringOptions(values []string) []huh.Option[string] {
	options := make([]huh.Option[string], len(values))
	for i, v := range values {
		options[i] = huh.NewOption(v, v)
	}
	return options
}

// costShareValidator accepts blank input (the default applies) and any
// number in [0, 100], optionally followed by "%".
func costShareValidator(s string) error {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

func childCountValidator(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < 1 || n > maxChildren {
		return fmt.Errorf("must be between 1 and %d", maxChildren)
	}
	return nil
}

// mapFormErr maps huh.ErrUserAborted to ErrFormCancelled.
func mapFormErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrFormCancelled
	}
	return err
}

// buildHuhTheme creates a huh theme from the bacc palette so forms match the
// survey screen.
func buildHuhTheme(theme Theme) *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = theme.Title.UnsetMarginTop().Foreground(ColorPrimary)
	t.Focused.NoteTitle = t.Focused.Title.MarginBottom(1)
	t.Focused.Description = theme.Description
	t.Focused.ErrorMessage = theme.ErrorText
	t.Focused.ErrorIndicator = theme.ErrorText.SetString(" *")
	t.Focused.SelectSelector = theme.Cursor.SetString("> ")
	t.Focused.SelectedOption = theme.OptionSelected
	t.Focused.UnselectedOption = theme.Muted
	t.Focused.FocusedButton = theme.ButtonActive
	t.Focused.BlurredButton = theme.Button
	t.Focused.TextInput.Text = theme.FieldValue
	t.Focused.TextInput.Placeholder = theme.FieldEmpty
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorAccent)
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(ColorPrimary)

	t.Blurred.Title = theme.Muted
	t.Blurred.NoteTitle = theme.Muted.MarginBottom(1)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)
	t.Blurred.SelectSelector = lipgloss.NewStyle().SetString("  ")
	t.Blurred.SelectedOption = theme.Muted
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(ColorSubtle)
	t.Blurred.FocusedButton = theme.ButtonActive
	t.Blurred.BlurredButton = theme.Button
	t.Blurred.TextInput.Text = theme.Muted
	t.Blurred.TextInput.Placeholder = theme.FieldEmpty
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)

	t.Group.Title = t.Focused.Title
	t.Group.Description = t.Focused.Description
	return t
}

// Confirm asks a yes/no question, defaulting to yes. Returns
// ErrFormCancelled if the user aborts.
func Confirm(title, description string) (bool, error) {
	yes := true
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No thanks").
				Value(&yes),
		),
	).
		WithTheme(buildHuhTheme(DefaultTheme())).
		WithWidth(formWidth).
		Run()
	if err != nil {
		return false, mapFormErr(err)
	}
	return yes, nil
}
