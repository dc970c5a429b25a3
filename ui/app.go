package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"cmdpad/clipboard"
	"cmdpad/model"
	"cmdpad/rank"
	"cmdpad/snippet"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Store is the command persistence the UI edits and searches.
type Store interface {
	List() ([]model.Command, error)
	Get(id int64) (model.Command, error)
	Add(tags, description, cmd string) (int64, error)
	Update(id int64, tags, description, cmd string) error
	Delete(id int64) error
}

// ToggleMsg asks the app to flip between shown and hidden. It is sent from
// outside the program when another launch signals this instance.
type ToggleMsg struct{}

type mode int

const (
	modeSearch mode = iota
	modeAdd
	modeEdit
	modeDelete
	modeParam
)

const (
	fieldTags = iota
	fieldDesc
	fieldCmd
	fieldCount
)

type App struct {
	store    Store
	copier   clipboard.Copier
	logger   *slog.Logger
	commands []model.Command
	results  []rank.Result

	// UI state
	mode   mode
	hidden bool
	cursor int
	width  int
	height int
	err    string
	status string
	keys   keyMap
	help   help.Model

	// Search
	searchInput textinput.Model

	// Form (add/edit)
	formInputs []textinput.Model
	cmdArea    textarea.Model
	formFocus  int
	editingID  int64

	// Param input
	paramNames  []string
	paramValues map[string]string
	paramIndex  int
	paramInput  textinput.Model
	pendingCmd  *model.Command
}

func NewApp(store Store, copier clipboard.Copier, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	commands, err := store.List()
	if err != nil {
		return nil, err
	}

	search := textinput.New()
	search.Placeholder = "Search command..."
	search.Focus()

	app := &App{
		store:       store,
		copier:      copier,
		logger:      logger.With("component", "ui"),
		commands:    commands,
		searchInput: search,
		cmdArea:     textarea.New(),
		keys:        newKeyMap(),
		help:        help.New(),
		paramValues: make(map[string]string),
	}

	return app, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width - 4  // account for app padding
		a.height = msg.Height - 2 // account for app padding
		a.help.Width = a.width
		a.cmdArea.SetWidth(max(a.width-24, 20))
		return a, nil

	case ToggleMsg:
		return a, a.toggle()

	case tea.KeyMsg:
		a.err = ""
		a.status = ""

		if a.hidden {
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
			return a, nil
		}

		switch a.mode {
		case modeSearch:
			return a.updateSearch(msg)
		case modeAdd, modeEdit:
			return a.updateForm(msg)
		case modeDelete:
			return a.updateDelete(msg)
		case modeParam:
			return a.updateParam(msg)
		}
	}

	return a, nil
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hasResults := len(a.results) > 0

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.results)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Copy):
		if hasResults {
			return a.copySelected()
		}

	case key.Matches(msg, a.keys.Hide):
		return a, a.hide()

	case key.Matches(msg, a.keys.Add):
		a.mode = modeAdd
		a.editingID = 0
		return a, a.initForm(nil)

	case key.Matches(msg, a.keys.Edit) && hasResults:
		c, err := a.store.Get(a.results[a.cursor].Command.ID)
		if err != nil {
			a.fail("load command", err)
			return a, nil
		}
		a.mode = modeEdit
		a.editingID = c.ID
		return a, a.initForm(&c)

	case key.Matches(msg, a.keys.Delete) && hasResults:
		a.mode = modeDelete
		return a, nil

	default:
		var cmd tea.Cmd
		before := a.searchInput.Value()
		a.searchInput, cmd = a.searchInput.Update(msg)
		if a.searchInput.Value() != before {
			a.search()
		}
		return a, cmd
	}

	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = modeSearch
		return a, a.searchInput.Focus()

	case "tab":
		a.formFocus = (a.formFocus + 1) % fieldCount
		return a, a.focusFormInput()

	case "shift+tab":
		a.formFocus--
		if a.formFocus < 0 {
			a.formFocus = fieldCount - 1
		}
		return a, a.focusFormInput()

	case "ctrl+s":
		return a.submitForm()

	case "enter":
		if a.formFocus != fieldCmd {
			return a.submitForm()
		}
	}

	var cmd tea.Cmd
	if a.formFocus == fieldCmd {
		a.cmdArea, cmd = a.cmdArea.Update(msg)
	} else {
		a.formInputs[a.formFocus], cmd = a.formInputs[a.formFocus].Update(msg)
	}
	return a, cmd
}

func (a *App) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if len(a.results) > 0 {
			c := a.results[a.cursor].Command
			if err := a.store.Delete(c.ID); err != nil {
				a.fail("delete command", err)
			} else {
				a.logger.Info("command deleted", "id", c.ID)
				a.status = "Deleted!"
				a.refreshCommands()
			}
		}
		a.mode = modeSearch
		return a, nil

	case "n", "N", "esc":
		a.mode = modeSearch
		return a, nil

	case "ctrl+c":
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) updateParam(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = modeSearch
		a.pendingCmd = nil
		return a, a.searchInput.Focus()

	case "enter":
		a.paramValues[a.paramNames[a.paramIndex]] = a.paramInput.Value()
		a.paramIndex++

		if a.paramIndex >= len(a.paramNames) {
			text := snippet.SubstituteParams(a.pendingCmd.Cmd, a.paramValues)
			a.mode = modeSearch
			a.pendingCmd = nil
			a.searchInput.Focus()
			return a.copyText(text)
		}

		a.paramInput.SetValue("")
		a.paramInput.Placeholder = a.paramNames[a.paramIndex]
		return a, nil

	default:
		var cmd tea.Cmd
		a.paramInput, cmd = a.paramInput.Update(msg)
		return a, cmd
	}
}

func (a *App) copySelected() (tea.Model, tea.Cmd) {
	c := a.results[a.cursor].Command
	params := snippet.ExtractParams(c.Cmd)

	if len(params) > 0 {
		a.mode = modeParam
		a.paramNames = params
		a.paramValues = make(map[string]string)
		a.paramIndex = 0
		a.pendingCmd = &c
		a.paramInput = textinput.New()
		a.paramInput.Placeholder = params[0]
		return a, a.paramInput.Focus()
	}

	return a.copyText(c.Cmd)
}

func (a *App) copyText(text string) (tea.Model, tea.Cmd) {
	if err := a.copier.Copy(text); err != nil {
		a.fail("copy to clipboard", err)
		return a, nil
	}
	a.logger.Debug("copied command", "bytes", len(text))
	a.status = "Copied!"
	return a, a.hide()
}

func (a *App) toggle() tea.Cmd {
	if a.hidden {
		return a.show()
	}
	return a.hide()
}

func (a *App) hide() tea.Cmd {
	if a.hidden {
		return nil
	}
	a.logger.Debug("hiding")
	a.hidden = true
	a.mode = modeSearch
	a.pendingCmd = nil
	return tea.ExitAltScreen
}

func (a *App) show() tea.Cmd {
	a.logger.Debug("showing")
	a.hidden = false
	a.refreshCommands()
	return tea.Batch(tea.EnterAltScreen, a.searchInput.Focus())
}

func (a *App) initForm(c *model.Command) tea.Cmd {
	a.formInputs = make([]textinput.Model, 2)

	tagsInput := textinput.New()
	tagsInput.Placeholder = "Tags (e.g., git docker)"

	descInput := textinput.New()
	descInput.Placeholder = "Description (optional)"

	cmdArea := textarea.New()
	cmdArea.Placeholder = "Command (use {{param}} for values asked on copy)"
	cmdArea.ShowLineNumbers = false
	cmdArea.CharLimit = 0
	cmdArea.SetHeight(4)
	cmdArea.SetWidth(max(a.width-24, 20))

	if c != nil {
		tagsInput.SetValue(c.Tags)
		descInput.SetValue(c.Description)
		cmdArea.SetValue(c.Cmd)
	}

	a.formInputs[fieldTags] = tagsInput
	a.formInputs[fieldDesc] = descInput
	a.cmdArea = cmdArea
	a.formFocus = fieldTags
	a.searchInput.Blur()
	return a.focusFormInput()
}

func (a *App) focusFormInput() tea.Cmd {
	for i := range a.formInputs {
		a.formInputs[i].Blur()
	}
	a.cmdArea.Blur()
	if a.formFocus == fieldCmd {
		return a.cmdArea.Focus()
	}
	return a.formInputs[a.formFocus].Focus()
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	tags := strings.TrimSpace(a.formInputs[fieldTags].Value())
	desc := strings.TrimSpace(a.formInputs[fieldDesc].Value())
	cmd := strings.TrimSpace(a.cmdArea.Value())

	if cmd == "" {
		a.err = "Command is required"
		return a, nil
	}

	if a.mode == modeAdd {
		id, err := a.store.Add(tags, desc, cmd)
		if err != nil {
			a.fail("add command", err)
			return a, nil
		}
		a.logger.Info("command added", "id", id)
		a.status = "Added!"
	} else {
		if err := a.store.Update(a.editingID, tags, desc, cmd); err != nil {
			a.fail("update command", err)
			return a, nil
		}
		a.logger.Info("command updated", "id", a.editingID)
		a.status = "Updated!"
	}

	a.refreshCommands()
	a.mode = modeSearch
	return a, a.searchInput.Focus()
}

func (a *App) fail(action string, err error) {
	a.logger.Error(action, "error", err)
	a.err = err.Error()
}

func (a *App) refreshCommands() {
	commands, err := a.store.List()
	if err != nil {
		a.fail("list commands", err)
		return
	}
	a.commands = commands
	a.search()
}

func (a *App) search() {
	a.results = rank.Rank(a.searchInput.Value(), a.commands)
	a.cursor = 0
}

func (a *App) View() string {
	if a.hidden {
		return mutedStyle.Render("cmdpad is hidden. Launch cmdpad again to show it, ctrl+c to quit.") + "\n"
	}
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("cmdPAD"))
	b.WriteString("\n\n")

	switch a.mode {
	case modeAdd, modeEdit:
		b.WriteString(a.renderForm())
	default:
		b.WriteString(a.searchInput.View())
		b.WriteString("\n\n")
		b.WriteString(a.renderResults())
	}

	if a.mode == modeDelete && len(a.results) > 0 {
		c := a.results[a.cursor].Command
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("Delete '%s'? (y/n)", truncate(c.Cmd, 40))))
		b.WriteString("\n")
	}

	if a.mode == modeParam {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("Enter value for {{%s}}: ", a.paramNames[a.paramIndex])))
		b.WriteString(a.paramInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.err != "" {
		b.WriteString(errorStyle.Render("Error: " + a.err))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(successStyle.Render(a.status))
		b.WriteString("\n")
	}

	if a.mode == modeSearch {
		b.WriteString(a.help.View(a.keys))
	}

	return appStyle.Render(b.String())
}

func (a *App) renderResults() string {
	if strings.TrimSpace(a.searchInput.Value()) == "" {
		if len(a.commands) == 0 {
			return mutedStyle.Render("No commands yet. Press ctrl+n to add one.") + "\n"
		}
		return ""
	}
	if len(a.results) == 0 {
		return mutedStyle.Render("No match.") + "\n"
	}

	query := strings.TrimSpace(a.searchInput.Value())
	width := max(a.width-4, 20)

	var cards []string
	for i, r := range a.results {
		c := r.Command
		top := highlight(c.Tags, query, tagStyle)
		if c.Description != "" {
			top += "  " + highlight(c.Description, query, descStyle)
		}
		body := top + "\n" + highlight(c.Cmd, query, cmdStyle)

		style := cardStyle
		if i == a.cursor {
			style = selectedCardStyle
		}
		cards = append(cards, style.Width(width).Render(body))
	}

	return strings.Join(cards, "\n") + "\n"
}

func (a *App) renderForm() string {
	var b strings.Builder

	title := "Add Command"
	if a.mode == modeEdit {
		title = "Edit Command"
	}
	b.WriteString(labelStyle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"Tags", "Description", "Command"}
	views := []string{a.formInputs[fieldTags].View(), a.formInputs[fieldDesc].View(), a.cmdArea.View()}
	for i, view := range views {
		b.WriteString(labelStyle.Render(labels[i] + ": "))
		b.WriteString("\n")
		style := inputStyle
		if i == a.formFocus {
			style = focusedInputStyle
		}
		b.WriteString(style.Width(max(a.width-20, 20)).Render(view))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab: next field • ctrl+s: save • esc: cancel"))
	b.WriteString("\n")

	return b.String()
}

// highlight renders s with the runes matched by query emphasized.
func highlight(s, query string, base lipgloss.Style) string {
	if s == "" {
		return ""
	}
	matches := fuzzy.Find(query, []string{s})
	if len(matches) == 0 {
		return base.Render(s)
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		matched[i] = true
	}

	emphasized := matchStyle.Inherit(base)
	var b strings.Builder
	for i, r := range s {
		if matched[i] {
			b.WriteString(emphasized.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
