package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/deck"
	"github.com/npratt/flick/internal/events"
	"github.com/npratt/flick/internal/swipe"
)

const (
	minWidth  = 40
	minHeight = 16

	// visibleEvents is the number of ticker lines under the stage.
	visibleEvents = 3
	// maxCardWidth caps the deck card and feed detail width in cells.
	maxCardWidth = 44
	// stampThreshold hides overlays too faint to read.
	stampThreshold = 0.05
)

// View implements tea.Model. This renders the full TUI display.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	innerWidth := safeWidth(m.width - 4)
	footer := m.renderFooter(innerWidth)

	// Height minus: border (2), header (1), dividers (2), notice (1),
	// event ticker and footer.
	stageRows := max(1, m.height-6-visibleEvents-lipgloss.Height(footer))

	var sections []string
	sections = append(sections, m.renderHeader(innerWidth))
	sections = append(sections, m.renderDivider(innerWidth))
	sections = append(sections, m.renderStage(innerWidth, stageRows))
	sections = append(sections, m.renderDivider(innerWidth))
	sections = append(sections, styles.Notice.Render(ansi.Truncate(m.ctrl.Notice(), innerWidth, "…")))
	sections = append(sections, m.renderEvents(innerWidth))
	sections = append(sections, footer)

	return styles.Container.
		Width(safeWidth(m.width - 2)).
		Padding(0, 1).
		Render(strings.Join(sections, "\n"))
}

func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small (%dx%d)\nNeed at least %dx%d", m.width, m.height, minWidth, minHeight)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m model) renderDivider(width int) string {
	return styles.Divider.Render(strings.Repeat("─", width))
}

// renderHeader shows the screen tabs on the left and session counts on the right.
func (m model) renderHeader(width int) string {
	active := m.ctrl.Active()
	var tabs []string
	for i, name := range m.ctrl.Names() {
		style := styles.Tab
		if name == active.Name {
			style = styles.TabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, name)))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	right := styles.Stats.Render(m.statsText())

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, width, "")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m model) statsText() string {
	active := m.ctrl.Active()
	commits, undos := m.ctrl.Commits(), m.ctrl.Undos()
	var parts []string
	if m.tally != nil {
		t := m.tally.Tally()
		commits, undos = t.Commits, t.Undos
		if active.Stack != nil {
			parts = append(parts, fmt.Sprintf("%d kept", t.Net(active.Name)))
		}
	}
	parts = append(parts, fmt.Sprintf("%d commits", commits), fmt.Sprintf("%d undos", undos))
	if active.Stack != nil {
		parts = append(parts, fmt.Sprintf("%d left", active.Stack.Remaining()))
	}
	return strings.Join(parts, " · ")
}

func (m model) renderStage(width, rows int) string {
	switch m.ctrl.Active().Name {
	case config.ScreenEdge:
		return m.renderEdge(width, rows)
	case config.ScreenFeed:
		return m.renderFeed(width, rows)
	default:
		return m.renderDeck(width, rows)
	}
}

// renderDeck draws the top card at its dragged offset over a peek of the
// cards beneath it.
func (m model) renderDeck(width, rows int) string {
	s := m.ctrl.Screen(config.ScreenDeck)
	item, ok := s.Stack.Current()
	if !ok {
		return center(width, rows, styles.Empty.Render("No more cards. Press u to undo."))
	}

	f := s.Host.Frame()
	cardW := min(maxCardWidth, width-4)
	card := strings.Split(m.renderCard(item, s.Stack.SubIndex(item.ID), f, s.Host.Config(), cardW), "\n")
	under := s.Stack.Upcoming(m.cfg.UI.StackDepth)

	canvas := make([]string, rows)
	left := (width - cardW) / 2
	top := max(0, (rows-len(card)-len(under))/2)

	for i, it := range under {
		inset := 2 * (i + 1)
		row := top + len(card) + i
		if row < rows {
			peek := styles.Peek.Render(events.Truncate("▔▔ "+it.Title, max(1, cardW-2*inset)))
			canvas[row] = place(peek, left+inset, width)
		}
	}

	dx, dy := m.toCells(f.X, f.Y)
	for i, line := range card {
		row := top + dy + i
		if row < 0 || row >= rows {
			continue
		}
		canvas[row] = place(line, left+dx+m.shear(f.Rotation, i, len(card)), width)
	}
	return strings.Join(canvas, "\n")
}

// shear approximates rotation in a character grid: rows above the middle
// of the card lean with the drag, rows below lean against it.
func (m model) shear(degrees float64, row, height int) int {
	if degrees == 0 {
		return 0
	}
	slope := math.Tan(degrees * math.Pi / 180)
	aspect := m.cfg.Pointer.CellHeight / m.cfg.Pointer.CellWidth
	return roundInt(slope * float64(height/2-row) * aspect)
}

func (m model) renderCard(item deck.Item, sub int, f swipe.Frame, hc swipe.Config, width int) string {
	var lines []string
	lines = append(lines, m.stampRow(f, hc, width-4))
	lines = append(lines, styles.CardTitle.Render(events.Truncate(item.Title, width-4)))
	if item.Subtitle != "" {
		lines = append(lines, styles.CardSubtitle.Render(events.Truncate(item.Subtitle, width-4)))
	}
	lines = append(lines, "")

	if len(item.Images) > 0 {
		lines = append(lines, styles.Image.Render(events.Truncate("▣ "+item.Images[sub], width-4)))
		lines = append(lines, carouselDots(sub, len(item.Images)))
	} else {
		lines = append(lines, styles.Empty.Render("no photos"))
	}

	keys := make([]string, 0, len(item.Meta))
	for k := range item.Meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		lines = append(lines, styles.CardSubtitle.Render(events.Truncate(k+": "+item.Meta[k], width-4)))
	}

	return styles.Card.Width(width).Render(strings.Join(lines, "\n"))
}

// stampRow renders the decision overlays for the current frame. The stamp
// for a rightward drag sits on the left and vice versa. The row is always
// three lines tall so the card does not jump when a stamp appears.
func (m model) stampRow(f swipe.Frame, hc swipe.Config, width int) string {
	var left, right string
	if d := hc.ActionFor(swipe.Right); d != swipe.None && f.RightOpacity > stampThreshold {
		left = stampStyle(d, f.RightOpacity).Render(stampLabels[d])
	}
	if d := hc.ActionFor(swipe.Left); d != swipe.None && f.LeftOpacity > stampThreshold {
		right = stampStyle(d, f.LeftOpacity).Render(stampLabels[d])
	}
	if left == "" && right == "" {
		return "\n\n"
	}
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
}

func carouselDots(index, count int) string {
	dots := make([]string, count)
	for i := range dots {
		if i == index {
			dots[i] = styles.DotActive.Render("●")
		} else {
			dots[i] = styles.Dot.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

// renderEdge draws the reveal panel following the pull from the left edge,
// or the capture surface once it is open.
func (m model) renderEdge(width, rows int) string {
	s := m.ctrl.Screen(config.ScreenEdge)
	if s.Revealed {
		box := styles.Capture.Width(min(maxCardWidth, width-4)).Render(
			"Capture\n\nJot it down before it is gone.\n\n" + styles.Muted.Render("esc or click to close"))
		return center(width, rows, box)
	}

	f := s.Host.Frame()
	vw, _ := m.ctrl.Viewport()
	pct := 0.0
	if vw > 0 {
		pct = math.Max(0, math.Min(1, f.X/vw))
	}
	cols, _ := m.toCells(math.Max(0, f.X), 0)
	cols = min(cols, width)
	zone, _ := m.toCells(s.Host.Config().EdgeZone, 0)

	canvas := make([]string, rows)
	canvas[0] = styles.Muted.Render(events.Truncate(
		fmt.Sprintf("Drag right from the first %d columns to open capture", zone), width))
	if rows > 1 {
		canvas[1] = m.reveal.ViewAs(pct)
	}
	for i := 2; i < rows; i++ {
		if cols > 0 {
			canvas[i] = styles.Panel.Render(strings.Repeat(" ", cols))
		}
	}
	return strings.Join(canvas, "\n")
}

// renderFeed draws the rows with the current one at its dragged offset and
// the action it would take revealed in the gap.
func (m model) renderFeed(width, rows int) string {
	s := m.ctrl.Screen(config.ScreenFeed)
	if s.Detail != nil {
		return center(width, rows, m.renderDetail(*s.Detail, min(maxCardWidth, width-4)))
	}
	item, ok := s.Stack.Current()
	if !ok {
		return center(width, rows, styles.Empty.Render("Feed is empty. Press u to undo."))
	}

	canvas := make([]string, rows)
	f := s.Host.Frame()
	dx, _ := m.toCells(f.X, 0)

	row := styles.RowActive.Width(width).Render(events.Truncate(item.Title+" · "+item.Subtitle, width))
	line := place(row, dx, width)
	hc := s.Host.Config()
	switch {
	case dx > 0:
		if d := hc.ActionFor(swipe.Right); d != swipe.None {
			label := stampLabels[d] + " ▶"
			if dx > lipgloss.Width(label) {
				styled := lipgloss.NewStyle().Bold(true).Foreground(stampColor(d, f.RightOpacity)).Render(label)
				line = styled + ansi.TruncateLeft(line, lipgloss.Width(label), "")
			}
		}
	case dx < 0:
		if d := hc.ActionFor(swipe.Left); d != swipe.None {
			label := "◀ " + stampLabels[d]
			if -dx > lipgloss.Width(label) {
				styled := lipgloss.NewStyle().Bold(true).Foreground(stampColor(d, f.LeftOpacity)).Render(label)
				line = ansi.Truncate(line, width-lipgloss.Width(label), "")
				line += strings.Repeat(" ", max(0, width-lipgloss.Width(line)-lipgloss.Width(label))) + styled
			}
		}
	}
	canvas[0] = line

	for i, it := range s.Stack.Upcoming(rows - 2) {
		canvas[i+1] = styles.Row.Render(events.Truncate(it.Title+" · "+it.Subtitle, width))
	}
	if len(s.Shared) > 0 {
		canvas[rows-1] = styles.Muted.Render(fmt.Sprintf("%d shared", len(s.Shared)))
	}
	return strings.Join(canvas, "\n")
}

func (m model) renderDetail(item deck.Item, width int) string {
	lines := []string{styles.CardTitle.Render(item.Title)}
	if item.Subtitle != "" {
		lines = append(lines, styles.CardSubtitle.Render(item.Subtitle))
	}
	keys := make([]string, 0, len(item.Meta))
	for k := range item.Meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		lines = append(lines, styles.CardSubtitle.Render(k+": "+item.Meta[k]))
	}
	lines = append(lines, "", styles.Muted.Render("esc or click to close"))
	return styles.Detail.Width(width).Render(strings.Join(lines, "\n"))
}

func (m model) renderEvents(width int) string {
	start := max(0, len(m.eventLines)-visibleEvents)
	lines := make([]string, visibleEvents)
	for i, l := range m.eventLines[start:] {
		ts := styles.Time.Render(l.Time.Format("15:04:05"))
		lines[i] = ts + " " + l.Style.Render(events.Truncate(l.Text, max(1, width-9)))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderFooter(width int) string {
	m.help.Width = width
	return styles.Footer.Render(m.help.View(m.keys))
}

// place positions a rendered line at column col within width, clipping
// whatever falls outside.
func place(line string, col, width int) string {
	if col < 0 {
		line = ansi.TruncateLeft(line, -col, "")
		col = 0
	}
	if col >= width {
		return ""
	}
	return ansi.Truncate(strings.Repeat(" ", col)+line, width, "")
}

// center places a block in the middle of a width x rows area.
func center(width, rows int, block string) string {
	return lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, block)
}

// safeWidth ensures width is never negative.
func safeWidth(w int) int {
	return max(0, w)
}
