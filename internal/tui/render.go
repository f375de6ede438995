package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tinytelemetry/swipedeck/internal/cards"
	"github.com/tinytelemetry/swipedeck/internal/deck"
)

// CardView describes how a card is being shown.
type CardView struct {
	Width int
	Front bool

	// Lean is the outcome a release would have right now. Cancel while the
	// card is inside the threshold.
	Lean deck.Kind

	// Tilt is the card's rotation in degrees.
	Tilt float64
}

// Renderer turns cards into terminal blocks. The deck page owns placement;
// a Renderer only draws one card at a time.
type Renderer interface {
	RenderCard(c cards.Card, v CardView) string
	RenderEmpty(width, height int, deckName string) string
}

// DefaultRenderer draws cards as bordered lipgloss boxes.
type DefaultRenderer struct{}

var _ Renderer = DefaultRenderer{}

func (DefaultRenderer) RenderCard(c cards.Card, v CardView) string {
	border := ColorGray
	if v.Front {
		border = ColorBlue
		switch v.Lean {
		case deck.DismissLeft:
			border = ColorRed
		case deck.DismissRight:
			border = ColorGreen
		}
	}

	inner := max(v.Width-4, 1)
	var lines []string

	title := c.Title
	if title == "" {
		title = c.Key()
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).Render(ansi.Truncate(title, inner, "…")))

	if !v.Front {
		// Background cards only show their title strip.
		return lipgloss.NewStyle().
			Width(v.Width - 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Render(strings.Join(lines, "\n"))
	}

	if c.Subtitle != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGray).Render(ansi.Truncate(c.Subtitle, inner, "…")))
	}
	if c.Body != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(inner).Render(c.Body))
	}
	if len(c.Tags) > 0 {
		tags := make([]string, len(c.Tags))
		for i, t := range c.Tags {
			tags[i] = "#" + t
		}
		lines = append(lines, "", lipgloss.NewStyle().Foreground(ColorOrange).Width(inner).Render(strings.Join(tags, " ")))
	}

	badge := renderLeanBadge(v)
	if badge != "" {
		lines = append(lines, "", badge)
	}

	return lipgloss.NewStyle().
		Width(v.Width - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func renderLeanBadge(v CardView) string {
	tilt := math.Round(v.Tilt)
	switch v.Lean {
	case deck.DismissLeft:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed).Render(fmt.Sprintf("◀ NOPE  %+.0f°", tilt))
	case deck.DismissRight:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorGreen).Render(fmt.Sprintf("LIKE ▶  %+.0f°", tilt))
	}
	if tilt != 0 {
		return lipgloss.NewStyle().Foreground(ColorGray).Render(fmt.Sprintf("%+.0f°", tilt))
	}
	return ""
}

func (DefaultRenderer) RenderEmpty(width, height int, deckName string) string {
	title := "No more cards"
	if deckName != "" {
		title = fmt.Sprintf("No more cards in %s", deckName)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).Render(title),
			lipgloss.NewStyle().Foreground(ColorGray).Render("r: reload | tab: stats"),
		))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// canvas is a fixed-size grid of terminal lines that blocks are painted on.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, lines: make([]string, height)}
	blank := strings.Repeat(" ", width)
	for i := range c.lines {
		c.lines[i] = blank
	}
	return c
}

// paint draws block with its top-left corner at (x, y). Parts outside the
// canvas are cropped.
func (c *canvas) paint(block string, x, y int) {
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(c.lines) {
			continue
		}
		col := x
		if col < 0 {
			line = ansi.TruncateLeft(line, -col, "")
			col = 0
		}
		if col >= c.width {
			continue
		}
		line = ansi.Truncate(line, c.width-col, "")
		w := ansi.StringWidth(line)
		if w == 0 {
			continue
		}
		base := c.lines[row]
		c.lines[row] = ansi.Truncate(base, col, "") + line + ansi.TruncateLeft(base, col+w, "")
	}
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}
