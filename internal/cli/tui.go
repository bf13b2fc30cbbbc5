package cli

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/raphaelgruber/kondo-go/internal/naming"
	"github.com/raphaelgruber/kondo-go/internal/service"
)

const (
	maxLogLines  = 200
	logPaneLines = 6
	pageSize     = 10
	eventBuffer  = 256
	maxListed    = 5
)

// reviewState is the phase of the interactive review.
type reviewState int

const (
	stateReady reviewState = iota
	stateAnalyzing
	stateReview
	stateOrganizing
	stateComplete
)

func (s reviewState) String() string {
	switch s {
	case stateReady:
		return "Ready"
	case stateAnalyzing:
		return "Analyzing"
	case stateReview:
		return "Review"
	case stateOrganizing:
		return "Organizing"
	case stateComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// analyzedMsg carries the clustering result.
type analyzedMsg struct {
	groups []models.FileGroup
	err    error
}

// logMsg carries one engine log line.
type logMsg string

// progressMsg reports how many groups have been placed.
type progressMsg struct {
	done, total int
}

// organizedMsg carries the final organize result.
type organizedMsg struct {
	result *models.OrganizeResult
	err    error
}

// reviewModel is the bubbletea model for the similarity review screen.
type reviewModel struct {
	svc  *service.OrganizeService
	dir  string
	opts service.OrganizeOptions

	state       reviewState
	moveSkipped bool
	groups      []models.FileGroup
	multi       int
	singles     int
	result      *models.OrganizeResult
	scroll      int
	logs        []string
	events      chan tea.Msg
	progress    progress.Model
	pct         float64
	theme       Theme
	err         error
	quitting    bool
}

// newReviewModel creates the review model for dir.
func newReviewModel(svc *service.OrganizeService, dir string, opts service.OrganizeOptions) reviewModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return reviewModel{
		svc:         svc,
		dir:         dir,
		opts:        opts,
		state:       stateReady,
		moveSkipped: opts.MoveSkipped,
		logs:        []string{},
		events:      make(chan tea.Msg, eventBuffer),
		progress:    prog,
		theme:       defaultTheme,
	}
}

// Init returns the initial command.
func (m reviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg.String())

	case analyzedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.groups = msg.groups
		m.multi, m.singles = 0, 0
		for _, g := range m.groups {
			if g.IsSingle() {
				m.singles++
			} else {
				m.multi++
			}
		}
		m.scroll = 0
		m.state = stateReview
		m.appendLog(fmt.Sprintf("Found %d groups of similar files", m.multi))
		return m, nil

	case logMsg:
		m.appendLog(string(msg))
		return m, m.waitForEvent()

	case progressMsg:
		if msg.total > 0 {
			m.pct = float64(msg.done) / float64(msg.total)
		}
		return m, m.waitForEvent()

	case organizedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.result = msg.result
		m.pct = 1
		m.scroll = 0
		m.state = stateComplete
		return m, nil
	}

	return m, nil
}

func (m reviewModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q", "esc":
		// Moves in flight must finish before exiting
		if m.state == stateOrganizing {
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "a":
		if m.state == stateReady {
			m.state = stateAnalyzing
			m.appendLog("Analyzing files...")
			return m, m.analyze()
		}

	case "s":
		if m.state == stateReview {
			m.state = stateOrganizing
			m.pct = 0
			return m, tea.Batch(m.organize(), m.waitForEvent())
		}

	case "k":
		if m.state == stateReview {
			m.moveSkipped = !m.moveSkipped
			state := "off"
			if m.moveSkipped {
				state = "on"
			}
			m.appendLog(fmt.Sprintf("Move skipped files to %s/: %s", service.SkipFolderName, state))
		}

	case "r":
		if m.state == stateComplete {
			m.state = stateReady
			m.groups = nil
			m.result = nil
			m.scroll = 0
			m.pct = 0
		}

	case "up":
		m.scrollBy(-1)
	case "down":
		m.scrollBy(1)
	case "pgup":
		m.scrollBy(-pageSize)
	case "pgdown":
		m.scrollBy(pageSize)
	}
	return m, nil
}

func (m *reviewModel) scrollBy(delta int) {
	m.scroll += delta
	if limit := len(m.reviewLines()) - 1; m.scroll > limit {
		m.scroll = limit
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *reviewModel) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

// analyze clusters the directory in a command goroutine.
func (m reviewModel) analyze() tea.Cmd {
	svc, dir, opts := m.svc, m.dir, m.opts
	return func() tea.Msg {
		groups, err := svc.Analyze(dir, opts)
		return analyzedMsg{groups: groups, err: err}
	}
}

// organize runs the move phase in a command goroutine. Log lines and
// progress are streamed through the events channel, followed by the result.
func (m reviewModel) organize() tea.Cmd {
	svc, dir, events := m.svc, m.dir, m.events
	opts := m.opts
	opts.MoveSkipped = m.moveSkipped
	opts.Log = logSink(func(line string) { events <- logMsg(line) })
	opts.OnProgress = func(done, total int) { events <- progressMsg{done: done, total: total} }

	return func() tea.Msg {
		result, err := svc.Organize(dir, opts)
		events <- organizedMsg{result: result, err: err}
		return nil
	}
}

// waitForEvent delivers the next streamed organize event.
func (m reviewModel) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// View renders the review screen.
func (m reviewModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m reviewModel) renderContent() string {
	if m.quitting {
		return m.theme.hintStyle().Render("Bye.") + "\n"
	}

	var b strings.Builder
	title := m.theme.titleStyle().Render("Kondo") + " " +
		m.theme.hintStyle().Render(m.dir) + "  " +
		m.theme.statusStyle().Render("["+m.state.String()+"]")
	b.WriteString(title + "\n\n")

	switch m.state {
	case stateReady:
		b.WriteString("Press a to analyze this directory.\n")
	case stateAnalyzing:
		b.WriteString(m.theme.statusStyle().Render("Analyzing files...") + "\n")
	case stateReview:
		b.WriteString(m.renderReview())
	case stateOrganizing:
		b.WriteString(m.theme.statusStyle().Render("Organizing...") + " " + m.progress.ViewAs(m.pct) + "\n")
	case stateComplete:
		b.WriteString(m.renderComplete())
	}

	b.WriteString("\n" + m.renderLogs())
	b.WriteString("\n" + m.theme.hintStyle().Render(m.controls()) + "\n")
	return b.String()
}

// reviewLines returns the scrollable group listing.
func (m reviewModel) reviewLines() []string {
	var lines []string
	for _, g := range m.groups {
		if g.IsSingle() {
			continue
		}
		lines = append(lines, m.theme.statusStyle().Render("📁 "+naming.SuggestFolderName(g))+
			m.theme.hintStyle().Render(fmt.Sprintf(" (%d files, %.0f%% similar)", g.Len(), g.AvgSimilarity*100)))
		for _, f := range g.Files {
			lines = append(lines, "   "+f)
		}
	}
	if m.singles > 0 {
		lines = append(lines, m.theme.warningStyle().Render(fmt.Sprintf("%d files without similar matches", m.singles)))
	}
	return lines
}

func (m reviewModel) renderReview() string {
	if m.multi == 0 {
		return m.theme.hintStyle().Render("No similar files found.") + "\n"
	}
	lines := m.reviewLines()
	start := min(m.scroll, len(lines))
	end := min(start+pageSize*2, len(lines))

	skip := "off"
	if m.moveSkipped {
		skip = "on"
	}
	header := fmt.Sprintf("%d groups found, move skipped files: %s\n", m.multi, skip)
	return header + m.theme.boxStyle().Render(strings.Join(lines[start:end], "\n")) + "\n"
}

func (m reviewModel) renderComplete() string {
	r := m.result
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.theme.completedStyle().Render("✓ Organization complete") + "\n")
	b.WriteString(fmt.Sprintf("  Files moved:      %s\n", count(r.FilesMoved)))
	b.WriteString(fmt.Sprintf("  Folders created:  %s\n", count(r.FoldersCreated)))
	b.WriteString(fmt.Sprintf("  Files skipped:    %s\n", count(r.FilesSkipped)))
	for i, sf := range r.SkippedDetails {
		if i == maxListed {
			b.WriteString(m.theme.hintStyle().Render(fmt.Sprintf("    ... and %d more", len(r.SkippedDetails)-maxListed)) + "\n")
			break
		}
		b.WriteString(m.theme.hintStyle().Render(fmt.Sprintf("    %s - %s", sf.Filename, sf.Reason.Description())) + "\n")
	}
	if len(r.Errors) > 0 {
		b.WriteString(m.theme.errorStyle().Render(fmt.Sprintf("  Errors (%d):", len(r.Errors))) + "\n")
		for _, e := range r.Errors[:min(len(r.Errors), maxListed)] {
			b.WriteString("    • " + e + "\n")
		}
	}
	return b.String()
}

func (m reviewModel) renderLogs() string {
	start := max(0, len(m.logs)-logPaneLines)
	tail := m.logs[start:]
	if len(tail) == 0 {
		tail = []string{"No activity yet."}
	}
	return m.theme.boxStyle().Render(m.theme.hintStyle().Render(strings.Join(tail, "\n")))
}

func (m reviewModel) controls() string {
	switch m.state {
	case stateReady:
		return "a analyze • q quit"
	case stateReview:
		return "s start • k toggle skip folder • ↑/↓ PgUp/PgDn scroll • q quit"
	case stateOrganizing:
		return "organizing, please wait"
	case stateComplete:
		return "r restart • q quit"
	default:
		return "q quit"
	}
}

// runReviewUI runs the interactive review for dir and returns the organize
// result, or nil when the user quit before organizing.
func runReviewUI(svc *service.OrganizeService, dir string, opts service.OrganizeOptions) (*models.OrganizeResult, error) {
	model := newReviewModel(svc, dir, opts)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("review UI error: %w", err)
	}

	if m, ok := finalModel.(reviewModel); ok {
		if m.err != nil {
			return nil, m.err
		}
		return m.result, nil
	}
	return nil, nil
}
