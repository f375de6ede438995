package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	keys       KeyMap
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	a := &App{
		pages: pageMap,
		order: order,
		keys:  DefaultKeyMap(),
	}
	if len(order) > 0 {
		a.activePage = order[0]
	}
	return a
}

// ActivePage returns the ID of the page currently shown.
func (a *App) ActivePage() string { return a.activePage }

func (a *App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.order))
	for _, id := range a.order {
		cmds = append(cmds, a.pages[id].Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	// Sizes, deck replacements, frame ticks and async loads reach every
	// page so that hidden pages stay current.
	switch msg.(type) {
	case tea.WindowSizeMsg, ItemsMsg, frameMsg, statsLoadedMsg:
		if wsm, ok := msg.(tea.WindowSizeMsg); ok {
			a.width = wsm.Width
			a.height = wsm.Height
		}
		var cmds []tea.Cmd
		for _, id := range a.order {
			cmd, _ := a.pages[id].Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)

	if nav != nil {
		target := nav.PageID
		if target == NextPageID {
			target = a.nextPageID()
		}
		if _, exists := a.pages[target]; exists && target != a.activePage {
			a.activePage = target
			return a, tea.Batch(cmd, a.pages[target].Init())
		}
	}

	return a, cmd
}

func (a *App) nextPageID() string {
	for i, id := range a.order {
		if id == a.activePage {
			return a.order[(i+1)%len(a.order)]
		}
	}
	return a.activePage
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}
