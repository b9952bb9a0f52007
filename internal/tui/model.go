package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"foodrec/internal/domain"
	"foodrec/internal/service"
)

// RecommendPort is the TUI-facing subset of the recommendation service.
type RecommendPort interface {
	RecommendForQuery(ctx context.Context, query string) (service.QueryRecommendation, error)
	RecommendForDocument(ctx context.Context, path string) (service.DocumentRecommendation, error)
}

type mode int

const (
	modeQuery mode = iota
	modeRecipe
)

func (m mode) placeholder() string {
	if m == modeRecipe {
		return "Path to a recipe PDF or text file, then Enter"
	}
	return "Describe what you feel like eating, then Enter"
}

func (m mode) String() string {
	if m == modeRecipe {
		return "recipe"
	}
	return "query"
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx      context.Context
	service  RecommendPort
	input    textinput.Model
	viewport viewport.Model
	mode     mode
	results  []domain.RankedResult
	summary  string
	status   string
	cursor   int
	ready    bool
	// busy is set while a service call is in flight.
	busy bool
	// highlight holds the words matched against result descriptions.
	highlight string
}

// New creates a new TUI model instance. summary is shown under the header.
func New(ctx context.Context, svc RecommendPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = modeQuery.placeholder()
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		service:  svc,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Ready. Tab switches between query and recipe mode.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+summary, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case queryDoneMsg:
		m.applyQuery(msg)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case recipeDoneMsg:
		m.applyRecipe(msg)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			if m.mode == modeQuery {
				m.mode = modeRecipe
			} else {
				m.mode = modeQuery
			}
			m.input.Placeholder = m.mode.placeholder()
			m.input.SetValue("")
			m.status = fmt.Sprintf("Switched to %s mode.", m.mode)
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text != "" && !m.busy {
				m.busy = true
				m.status = "Searching..."
				return m, m.submit(text)
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// queryDoneMsg and recipeDoneMsg carry service results back into Update.
type queryDoneMsg struct {
	rec service.QueryRecommendation
	err error
}

type recipeDoneMsg struct {
	rec service.DocumentRecommendation
	err error
}

// submit starts the service call for text off the update loop.
func (m Model) submit(text string) tea.Cmd {
	ctx, svc := m.ctx, m.service
	if m.mode == modeRecipe {
		return func() tea.Msg {
			rec, err := svc.RecommendForDocument(ctx, text)
			return recipeDoneMsg{rec: rec, err: err}
		}
	}
	return func() tea.Msg {
		rec, err := svc.RecommendForQuery(ctx, text)
		return queryDoneMsg{rec: rec, err: err}
	}
}

func (m *Model) applyQuery(msg queryDoneMsg) {
	m.busy = false
	m.cursor = 0
	if msg.err != nil {
		m.status = "Error: " + msg.err.Error()
		m.results = nil
		return
	}
	m.results = msg.rec.Results
	m.highlight = msg.rec.Query
	m.status = fmt.Sprintf("Results for %q%s", msg.rec.Query, describeCriteria(msg.rec.Criteria))
}

func (m *Model) applyRecipe(msg recipeDoneMsg) {
	m.busy = false
	m.cursor = 0
	if msg.err != nil {
		m.status = "Error: " + msg.err.Error()
		m.results = nil
		return
	}
	m.results = msg.rec.Results
	m.highlight = strings.Join(msg.rec.Ingredients, " ")
	if msg.rec.NoIngredients() {
		m.status = "No ingredients found in the recipe."
		return
	}
	m.status = "Ingredients: " + strings.Join(msg.rec.Ingredients, ", ")
}

func describeCriteria(c domain.FilterCriteria) string {
	switch {
	case c.Diet != "":
		return " (diet: " + c.Diet + ")"
	case c.Cuisine != "":
		return " (cuisine: " + c.Cuisine + ")"
	}
	return ""
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Food Recommendations  [" + m.mode.String() + "]")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No recommendations yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Top %d/%d  %s  distance=%.3f", m.cursor+1, len(m.results), r.Name, r.Score)
	body := highlightWords(r.Description, m.highlight)
	return title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// highlightWords renders every word of text that also occurs in query.
func highlightWords(text, query string) string {
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 || strings.TrimSpace(text) == "" {
		return text
	}
	return unicodeWordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := qTokens[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
