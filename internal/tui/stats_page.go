package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/model"
)

// StatsPageID identifies the stats page.
const StatsPageID = "stats"

const statsRecentLimit = 10

// SnapshotSource provides the latest published deck state.
type SnapshotSource interface {
	Snapshot() (deck.Snapshot, bool)
}

type statsLoadedMsg struct {
	deck   string
	tally  model.Tally
	recent []model.Decision
	decks  []model.DeckCount
	err    error
}

// StatsPage shows left/right tallies and recent decisions for the deck on
// screen.
type StatsPage struct {
	reader  model.DecisionReader
	source  SnapshotSource
	keys    KeyMap
	loading bool
	data    statsLoadedMsg
	loaded  bool
}

// NewStatsPage creates a stats page reading from reader. source names the
// current deck.
func NewStatsPage(reader model.DecisionReader, source SnapshotSource) *StatsPage {
	return &StatsPage{
		reader: reader,
		source: source,
		keys:   DefaultKeyMap(),
	}
}

func (s *StatsPage) ID() string { return StatsPageID }

// Init refreshes the page each time it becomes active.
func (s *StatsPage) Init() tea.Cmd {
	return s.refresh()
}

func (s *StatsPage) refresh() tea.Cmd {
	if s.reader == nil || s.loading {
		return nil
	}
	s.loading = true
	var name string
	if s.source != nil {
		if snap, ok := s.source.Snapshot(); ok {
			name = snap.Deck
		}
	}
	reader := s.reader
	return func() tea.Msg {
		msg := statsLoadedMsg{deck: name}
		if msg.tally, msg.err = reader.Tally(name); msg.err != nil {
			return msg
		}
		if msg.recent, msg.err = reader.RecentDecisions(name, statsRecentLimit); msg.err != nil {
			return msg
		}
		msg.decks, msg.err = reader.Decks()
		return msg
	}
}

func (s *StatsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.loading = false
		s.data = msg
		s.loaded = true
		return nil, nil

	case ItemsMsg:
		// A new deck invalidates the numbers on screen.
		s.loaded = false
		return s.refresh(), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Quit):
			return tea.Quit, nil
		case key.Matches(msg, s.keys.NextPage):
			return nil, &PageNav{PageID: NextPageID}
		case key.Matches(msg, s.keys.Escape):
			return nil, &PageNav{PageID: DeckPageID}
		case key.Matches(msg, s.keys.Reload):
			return s.refresh(), nil
		}
	}
	return nil, nil
}

func (s *StatsPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render("Stats")
	status := lipgloss.NewStyle().Foreground(ColorGray).Render("r: Refresh | tab: Deck | ESC: Back | q: Quit")

	var body string
	switch {
	case s.reader == nil:
		body = lipgloss.NewStyle().Foreground(ColorGray).Render("Decision history is disabled.")
	case !s.loaded:
		body = lipgloss.NewStyle().Foreground(ColorGray).Render("Loading...")
	case s.data.err != nil:
		body = lipgloss.NewStyle().Foreground(ColorRed).Render(fmt.Sprintf("Failed to load stats: %v", s.data.err))
	default:
		body = s.renderBody(width)
	}

	bodyHeight := max(height-2, 1)
	body = lipgloss.NewStyle().Width(width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, title, body, status)
}

func (s *StatsPage) renderBody(width int) string {
	name := s.data.deck
	if name == "" {
		name = "all decks"
	}
	t := s.data.tally

	summary := fmt.Sprintf("%s: %s left, %s right, %d total",
		name,
		lipgloss.NewStyle().Foreground(ColorRed).Render(fmt.Sprint(t.Left)),
		lipgloss.NewStyle().Foreground(ColorGreen).Render(fmt.Sprint(t.Right)),
		t.Total(),
	)

	chart := renderTallyChart(t, min(width, 40), 8)
	left := lipgloss.JoinVertical(lipgloss.Left, summary, "", chart)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Recent decisions"))
	b.WriteString("\n")
	if len(s.data.recent) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorGray).Render("none yet"))
		b.WriteString("\n")
	}
	for _, d := range s.data.recent {
		arrow := lipgloss.NewStyle().Foreground(ColorRed).Render("◀")
		if d.Direction == model.DirectionRight {
			arrow = lipgloss.NewStyle().Foreground(ColorGreen).Render("▶")
		}
		label := d.CardTitle
		if label == "" {
			label = d.CardID
		}
		fmt.Fprintf(&b, "%s %s %s\n", d.SwipedAt.Format("15:04:05"), arrow, label)
	}

	if len(s.data.decks) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Decks"))
		b.WriteString("\n")
		for _, dc := range s.data.decks {
			fmt.Fprintf(&b, "%-20s %d\n", dc.Deck, dc.Count)
		}
	}

	right := strings.TrimRight(b.String(), "\n")
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, left, "", right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
}

// renderTallyChart draws the left and right counts as two bars.
func renderTallyChart(t model.Tally, width, height int) string {
	width = max(width, 12)

	bc := barchart.New(width, height,
		barchart.WithBarGap(2),
		barchart.WithBarWidth(max((width-2)/2, 1)),
		barchart.WithNoAxis(),
	)

	leftStyle := lipgloss.NewStyle().Foreground(ColorRed).Background(ColorRed)
	rightStyle := lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen)

	bc.Push(barchart.BarData{
		Label:  "left",
		Values: []barchart.BarValue{{Name: "left", Value: float64(t.Left), Style: leftStyle}},
	})
	bc.Push(barchart.BarData{
		Label:  "right",
		Values: []barchart.BarValue{{Name: "right", Value: float64(t.Right), Style: rightStyle}},
	})

	bc.Draw()
	return bc.View()
}
