// Package tui is the terminal front end for PantryChef. It drives the same
// InteractionController as the web server and redraws on redisplay events.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/types"
)

const (
	minContentHeight = 3
	chromeHeight     = 13
	defaultMDStyle   = "dark"
)

type focusField int

const (
	focusIngredients focusField = iota
	focusQuestion
)

// Options configures a Model.
type Options struct {
	Interactor service.Interactor
	// Events delivers redisplay signals for SessionID. May be nil.
	Events    <-chan service.RedisplayEvent
	SessionID string
	// ExportDir is where ctrl+s writes recipe.md. Defaults to the working directory.
	ExportDir string
	// MarkdownStyle is a glamour standard style name. Defaults to "dark".
	MarkdownStyle string
}

// Model is the bubbletea model for the PantryChef terminal UI.
type Model struct {
	ctx        context.Context
	interactor service.Interactor
	events     <-chan service.RedisplayEvent
	sessionID  string
	exportDir  string

	keys   KeyMap
	styles *Styles

	mdStyle string
	md      *glamour.TermRenderer

	ingredients textinput.Model
	question    textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model

	state   types.ConversationState
	noFlame bool
	focus   focusField
	busy    bool
	notice  *service.Notice

	width  int
	height int
}

// New creates the terminal UI model.
func New(ctx context.Context, opts Options) Model {
	ingredients := textinput.New()
	ingredients.Placeholder = "e.g. chicken, rice, onions"
	ingredients.Prompt = "> "
	ingredients.CharLimit = 1000
	ingredients.Width = 60
	ingredients.Focus()

	question := textinput.New()
	question.Placeholder = "e.g. Can I make it vegetarian?"
	question.Prompt = "? "
	question.CharLimit = 500
	question.Width = 60

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	mdStyle := opts.MarkdownStyle
	if mdStyle == "" {
		mdStyle = defaultMDStyle
	}

	m := Model{
		ctx:         ctx,
		mdStyle:     mdStyle,
		interactor:  opts.Interactor,
		events:      opts.Events,
		sessionID:   opts.SessionID,
		exportDir:   exportDir,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		ingredients: ingredients,
		question:    question,
		viewport:    viewport.New(80, minContentHeight),
		spinner:     sp,
	}
	m.md = newMarkdownRenderer(m.mdStyle, m.viewport.Width)
	m.refreshContent()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load(), waitForEvent(m.events))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case operationDone:
		return m.handleDone(msg), nil

	case redisplay:
		m.state = msg.event.State
		m.syncFocus()
		m.refreshContent()
		return m, waitForEvent(m.events)

	case exportDone:
		if msg.err != nil {
			n := service.NoticeFor(msg.err)
			m.notice = &n
		} else {
			m.notice = &service.Notice{Kind: service.NoticeInfo, Text: "Saved recipe to " + msg.path}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.NoFlame):
		m.noFlame = !m.noFlame
		return m, nil

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.state.HasRecipe() && m.focus == focusIngredients {
			m.setFocus(focusQuestion)
		} else {
			m.setFocus(focusIngredients)
		}
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.export()

	case key.Matches(msg, m.keys.Submit):
		if m.focus == focusQuestion {
			return m.start(opAsk)
		}
		return m.start(opGenerate)

	case key.Matches(msg, m.keys.ClearChat):
		return m.start(opClearChat)

	case key.Matches(msg, m.keys.ClearRecipe):
		return m.start(opClearRecipe)
	}

	return m.updateFocused(msg)
}

// start launches op unless another one is still running.
func (m Model) start(op operation) (tea.Model, tea.Cmd) {
	if m.busy {
		n := service.NoticeFor(service.ErrSessionBusy)
		m.notice = &n
		return m, nil
	}
	m.busy = true
	m.notice = nil
	return m, tea.Batch(m.run(op), m.spinner.Tick)
}

func (m Model) run(op operation) tea.Cmd {
	ctx := m.ctx
	interactor := m.interactor
	id := m.sessionID
	ingredients := m.ingredients.Value()
	question := m.question.Value()
	noFlame := m.noFlame

	return func() tea.Msg {
		var (
			s   *types.Session
			err error
		)
		switch op {
		case opGenerate:
			s, err = interactor.GenerateRecipe(ctx, id, ingredients, noFlame)
		case opAsk:
			s, err = interactor.AskQuestion(ctx, id, question)
		case opClearChat:
			s, err = interactor.ClearChat(ctx, id)
		case opClearRecipe:
			s, err = interactor.ClearRecipe(ctx, id)
		}
		return operationDone{op: op, session: s, err: err}
	}
}

func (m Model) handleDone(msg operationDone) Model {
	m.busy = false
	if msg.err != nil {
		n := service.NoticeFor(msg.err)
		m.notice = &n
		return m
	}
	if msg.session != nil {
		m.state = msg.session.State
	}
	if msg.op == opAsk {
		m.question.SetValue("")
	}
	if msg.op == opGenerate {
		m.viewport.GotoTop()
		m.setFocus(focusQuestion)
	}
	m.syncFocus()
	m.refreshContent()
	if msg.op == opAsk {
		m.viewport.GotoBottom()
	}
	return m
}

func (m Model) load() tea.Cmd {
	ctx := m.ctx
	interactor := m.interactor
	id := m.sessionID
	return func() tea.Msg {
		s, err := interactor.Session(ctx, id)
		if err != nil {
			return operationDone{op: -1, err: err}
		}
		return redisplay{event: service.RedisplayEvent{SessionID: id, State: s.State}}
	}
}

func (m Model) export() tea.Cmd {
	ctx := m.ctx
	interactor := m.interactor
	id := m.sessionID
	dir := m.exportDir
	return func() tea.Msg {
		out, err := interactor.ExportRecipe(ctx, id)
		if err != nil {
			return exportDone{err: err}
		}
		path := filepath.Join(dir, out.Filename)
		if err := os.WriteFile(path, out.Data, 0o644); err != nil {
			return exportDone{err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return exportDone{path: path}
	}
}

func waitForEvent(events <-chan service.RedisplayEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return redisplay{event: ev}
	}
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusQuestion {
		m.question, cmd = m.question.Update(msg)
	} else {
		m.ingredients, cmd = m.ingredients.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focusField) {
	m.focus = f
	if f == focusQuestion {
		m.ingredients.Blur()
		m.question.Focus()
		return
	}
	m.question.Blur()
	m.ingredients.Focus()
}

// syncFocus keeps the cursor off the question field while there is no recipe.
func (m *Model) syncFocus() {
	if m.focus == focusQuestion && !m.state.HasRecipe() {
		m.setFocus(focusIngredients)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ingredients.Width = max(width-6, 10)
	m.question.Width = max(width-6, 10)
	m.viewport.Width = max(width-4, 10)
	m.viewport.Height = max(height-chromeHeight, minContentHeight)
	m.md = newMarkdownRenderer(m.mdStyle, m.viewport.Width)
	m.refreshContent()
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m Model) renderContent() string {
	if !m.state.HasRecipe() {
		return m.styles.Muted.Render("No recipe yet. Enter ingredients and press enter.")
	}

	var b strings.Builder
	b.WriteString(m.renderMarkdown(m.state.Recipe))
	if len(m.state.ChatHistory) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Label.Render("Ask about this recipe"))
		for _, turn := range m.state.ChatHistory {
			b.WriteString("\n\n")
			b.WriteString(m.styles.Question.Render("You: " + turn.Question))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(turn.Answer))
		}
	}
	return b.String()
}

// newMarkdownRenderer returns nil when style is unknown; renderMarkdown then
// falls back to plain wrapped text.
func newMarkdownRenderer(style string, width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) renderMarkdown(text string) string {
	if m.md != nil {
		if out, err := m.md.Render(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(text)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("PantryChef"))
	b.WriteString("  ")
	b.WriteString(m.styles.Muted.Render("Enter the ingredients you have and get a recipe."))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Ingredients"))
	b.WriteString("\n")
	b.WriteString(m.ingredients.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Tip: Include quantities (e.g., '2 eggs, 1 cup rice') for more precise results."))
	b.WriteString("\n")
	check := "[ ]"
	if m.noFlame {
		check = "[x]"
	}
	b.WriteString(m.styles.Muted.Render(check + " No cooking with fire/gas"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Content.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.state.HasRecipe() {
		b.WriteString(m.question.View())
		b.WriteString("\n")
	}

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " Working...")
	case m.notice != nil:
		b.WriteString(m.styles.Notice(*m.notice))
	}
	b.WriteString("\n")

	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) helpView() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}

// SessionID returns the session this model drives.
func (m Model) SessionID() string {
	return m.sessionID
}
