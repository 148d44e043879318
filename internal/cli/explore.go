package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/session"
)

const toastTTL = 3 * time.Second

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts engineOpts
	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse and search a JSON graph in the terminal",
		Long: `Explore shows the node tree of a JSON document and lets you search it.

Keys:
  /        search by dotted path (enter to run, esc to cancel)
  n        repeat the last search
  c        clear the graph
  s        load the sample document
  r        reload the file
  ↑/↓ j/k  scroll
  q        quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.runExplore(cmd.Context(), name, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, name string, opts engineOpts) error {
	text := ""
	if name != "" {
		var err error
		if text, err = readFile(name); err != nil {
			return err
		}
	}
	d, err := c.directives(opts)
	if err != nil {
		return err
	}
	engine, closeEngine, err := c.newEngine(ctx, opts)
	if err != nil {
		return err
	}
	defer closeEngine()

	sess := c.newSession(engine, d, true)
	m := newExploreModel(ctx, sess, name, text)
	m.generate = func(ctx context.Context, text string) (session.GenerateResult, error) {
		ctx, cancel := c.layoutContext(ctx)
		defer cancel()
		return sess.Generate(ctx, text)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// exploreModel - bubbletea model
// =============================================================================

type generatedMsg struct {
	res session.GenerateResult
	err error
}

type searchedMsg struct {
	res session.SearchResult
	err error
}

type toastExpiredMsg struct{ id int }

type toast struct {
	level session.Level
	text  string
}

type exploreModel struct {
	ctx      context.Context
	sess     *session.Session
	file     string
	initial  string
	generate func(context.Context, string) (session.GenerateResult, error)
	read     func(string) (string, error)
	toastTTL time.Duration

	lines     []treeLine
	stats     jsongraph.Stats
	offset    int
	width     int
	height    int
	busy      bool
	searching bool
	query     []rune
	lastQuery string
	toast     *toast
	toastID   int
}

func newExploreModel(ctx context.Context, sess *session.Session, file, initial string) *exploreModel {
	return &exploreModel{
		ctx:     ctx,
		sess:    sess,
		file:    file,
		initial: initial,
		generate: func(ctx context.Context, text string) (session.GenerateResult, error) {
			return sess.Generate(ctx, text)
		},
		read:     readFile,
		toastTTL: toastTTL,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	if m.initial == "" {
		return nil
	}
	return m.generateCmd(m.initial)
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m, m.updateSearch(msg)
		}
		return m, m.updateKeys(msg)

	case generatedMsg:
		m.busy = false
		m.refresh()
		switch {
		case msg.err != nil:
			return m, m.showError(msg.res.Notices, msg.err)
		case msg.res.Stale:
			return m, nil
		case msg.res.LayoutErr != nil:
			return m, m.show(session.LevelWarning, errors.UserMessage(msg.res.LayoutErr))
		}
		m.offset = 0
		return m, m.show(session.LevelInfo, fmt.Sprintf("Generated %d nodes and %d edges in %s",
			msg.res.Stats.Nodes, msg.res.Stats.Edges, msg.res.Elapsed.Round(time.Millisecond)))

	case searchedMsg:
		m.refresh()
		if msg.err != nil {
			return m, m.showError(msg.res.Notices, msg.err)
		}
		if !msg.res.Found {
			if len(msg.res.Notices) > 0 {
				n := msg.res.Notices[0]
				return m, m.show(n.Level, n.Message)
			}
			return m, nil
		}
		m.scrollTo(msg.res.Node.ID)
		return m, m.show(session.LevelInfo, "Found "+strings.Join(msg.res.Path, "."))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil
	}
	return m, nil
}

func (m *exploreModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "/":
		m.searching = true
		m.query = m.query[:0]
	case "n":
		if m.lastQuery == "" {
			return m.show(session.LevelInfo, "No previous search")
		}
		return m.searchCmd(m.lastQuery)
	case "c":
		m.sess.Clear()
		m.refresh()
		return m.show(session.LevelInfo, "Cleared")
	case "s":
		return m.generateCmd(session.Sample())
	case "r":
		if m.file == "" {
			return m.show(session.LevelWarning, "No file to reload")
		}
		text, err := m.read(m.file)
		if err != nil {
			return m.show(session.LevelError, errors.Detail(err))
		}
		return m.generateCmd(text)
	case "up", "k":
		m.offset--
	case "down", "j":
		m.offset++
	case "pgup":
		m.offset -= m.bodyHeight()
	case "pgdown", " ":
		m.offset += m.bodyHeight()
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.offset = len(m.lines)
	}
	m.clampOffset()
	return nil
}

func (m *exploreModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.searching = false
	case tea.KeyEnter:
		m.searching = false
		q := string(m.query)
		if strings.TrimSpace(q) == "" {
			return nil
		}
		m.lastQuery = q
		return m.searchCmd(q)
	case tea.KeyBackspace:
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
		}
	case tea.KeySpace:
		m.query = append(m.query, ' ')
	case tea.KeyRunes:
		m.query = append(m.query, msg.Runes...)
	}
	return nil
}

func (m *exploreModel) generateCmd(text string) tea.Cmd {
	m.busy = true
	ctx, gen := m.ctx, m.generate
	return func() tea.Msg {
		res, err := gen(ctx, text)
		return generatedMsg{res: res, err: err}
	}
}

func (m *exploreModel) searchCmd(query string) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		res, err := sess.Search(ctx, query)
		return searchedMsg{res: res, err: err}
	}
}

// show replaces the toast and schedules its expiry.
func (m *exploreModel) show(level session.Level, text string) tea.Cmd {
	m.toastID++
	m.toast = &toast{level: level, text: text}
	id := m.toastID
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m *exploreModel) showError(notices []session.Notice, err error) tea.Cmd {
	if len(notices) > 0 {
		return m.show(notices[0].Level, notices[0].Message)
	}
	return m.show(session.LevelError, errors.UserMessage(err))
}

// refresh redraws the outline from the session.
func (m *exploreModel) refresh() {
	snap := m.sess.Snapshot()
	m.lines = treeLines(snap.Graph)
	m.stats = jsongraph.Stats{}
	if snap.Graph != nil {
		m.stats = jsongraph.ComputeStats(snap.Graph)
	}
	m.clampOffset()
}

// scrollTo brings the line showing id into the middle of the view.
func (m *exploreModel) scrollTo(id string) {
	for i, l := range m.lines {
		if slices.Contains(l.ids, id) {
			m.offset = i - m.bodyHeight()/2
			m.clampOffset()
			return
		}
	}
}

func (m *exploreModel) bodyHeight() int {
	if m.height <= 0 {
		return len(m.lines)
	}
	return max(m.height-4, 1)
}

func (m *exploreModel) clampOffset() {
	m.offset = min(m.offset, len(m.lines)-m.bodyHeight())
	m.offset = max(m.offset, 0)
}

func (m *exploreModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render("jsongraph")
	if m.file != "" {
		title += " " + StyleDim.Render(filepath.Base(m.file))
	}
	if m.stats.Nodes > 0 {
		title += StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges · depth %d", m.stats.Nodes, m.stats.Edges, m.stats.MaxDepth))
	}
	if m.busy {
		title += " " + StyleWarning.Render("laying out…")
	}
	b.WriteString(title + "\n")

	body := m.bodyHeight()
	if len(m.lines) == 0 {
		b.WriteString(StyleDim.Render("No graph. Press s to load the sample or r to reload the file.") + "\n")
		body--
	}
	end := min(m.offset+body, len(m.lines))
	for _, l := range m.lines[m.offset:end] {
		b.WriteString(l.text + "\n")
	}
	for i := end - m.offset; i < body && m.height > 0; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine() + "\n")
	b.WriteString(StyleDim.Render("/ search  n next  c clear  s sample  r reload  ↑/↓ scroll  q quit"))
	return b.String()
}

func (m *exploreModel) statusLine() string {
	if m.searching {
		return StyleHighlight.Render("/") + string(m.query) + StyleDim.Render("█")
	}
	if m.toast == nil {
		return ""
	}
	var (
		style lipgloss.Style
		icon  string
	)
	switch m.toast.level {
	case session.LevelError:
		style, icon = StyleError, iconError
	case session.LevelWarning:
		style, icon = StyleWarning, iconWarning
	default:
		style, icon = StyleSuccess, iconSuccess
	}
	return style.Render(icon + " " + m.toast.text)
}
