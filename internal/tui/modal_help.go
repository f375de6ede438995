package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpModal is the scrollable help overlay on the deck page.
type helpModal struct {
	visible  bool
	viewport viewport.Model
}

func newHelpModal() *helpModal {
	return &helpModal{viewport: viewport.New(80, 20)}
}

func (h *helpModal) update(msg tea.Msg, keys KeyMap) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Help), key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
			h.visible = false
		case key.Matches(msg, keys.Up):
			h.viewport.ScrollUp(1)
		case key.Matches(msg, keys.Down):
			h.viewport.ScrollDown(1)
		case key.Matches(msg, keys.PageUp):
			h.viewport.HalfPageUp()
		case key.Matches(msg, keys.PageDown):
			h.viewport.HalfPageDown()
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			h.viewport.ScrollUp(1)
		case tea.MouseButtonWheelDown:
			h.viewport.ScrollDown(1)
		}
	}
}

// view renders the help modal centered on a width x height screen.
func (h *helpModal) view(width, height int) string {
	modalWidth := max(width-8, 20)
	modalHeight := max(height-4, 8)

	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	h.viewport.Width = contentWidth
	h.viewport.Height = contentHeight
	h.viewport.SetContent(lipgloss.NewStyle().Width(contentWidth).Render(helpContent))

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(h.viewport.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render("Help")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, renderModalStatusBar())

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

func renderModalStatusBar() string {
	statusItems := []string{"up/down/Wheel: Scroll", "PgUp/PgDn: Page", "?/ESC: Close"}
	return lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(strings.Join(statusItems, " | "))
}

const helpContent = `Swipe Deck Help

SWIPING:
  Mouse drag     - Drag the front card left or right
  Release        - Past a quarter of the surface width the card is
                   dismissed in that direction; otherwise it springs back
  Left/h         - Swipe the front card left
  Right/l        - Swipe the front card right

Only the horizontal distance decides the outcome. Vertical movement
just moves the card.

DECK:
  r              - Reload the deck file
  Tab            - Switch between the deck and stats pages
  ? / Esc        - Toggle this help
  q / Ctrl+C     - Quit

STATS:
  Left/right tallies for the current deck and the most recent
  decisions. r refreshes.
`
