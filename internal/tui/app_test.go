package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/model"
)

type fakeReader struct {
	tally  model.Tally
	recent []model.Decision
	decks  []model.DeckCount
	err    error
	asked  []string
}

func (f *fakeReader) Tally(name string) (model.Tally, error) {
	f.asked = append(f.asked, name)
	t := f.tally
	t.Deck = name
	return t, f.err
}

func (f *fakeReader) RecentDecisions(string, int) ([]model.Decision, error) {
	return f.recent, f.err
}

func (f *fakeReader) CardHistory(string) ([]model.Decision, error) { return nil, f.err }

func (f *fakeReader) Decks() ([]model.DeckCount, error) { return f.decks, f.err }

// runCmd executes cmd and feeds every resulting message back into app,
// expanding batches. Frame ticks are skipped.
func runCmd(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, frameMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(app, c)
		}
	default:
		_, next := app.Update(msg)
		runCmd(app, next)
	}
}

func newTestApp(t *testing.T, reader model.DecisionReader) (*App, *DeckPage, *deck.Publisher) {
	t.Helper()
	pub := &deck.Publisher{}
	dp := NewDeckPage(DeckPageConfig{Deck: testDeck("trips", "A", "B"), Snapshots: pub})
	app := NewApp(dp, NewStatsPage(reader, pub))
	runCmd(app, app.Init())
	app.Update(tea.WindowSizeMsg{Width: testWidth, Height: 30})
	return app, dp, pub
}

func TestApp_TabCyclesPages(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeReader{})

	if app.ActivePage() != DeckPageID {
		t.Fatalf("initial page = %s, want deck", app.ActivePage())
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	runCmd(app, cmd)
	if app.ActivePage() != StatsPageID {
		t.Fatalf("after tab page = %s, want stats", app.ActivePage())
	}
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if app.ActivePage() != DeckPageID {
		t.Fatalf("after second tab page = %s, want deck", app.ActivePage())
	}
}

func TestApp_ItemsReachHiddenDeckPage(t *testing.T) {
	app, dp, _ := newTestApp(t, &fakeReader{})

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app.Update(ItemsMsg{Deck: testDeck("food", "X")})

	if dp.DeckName() != "food" || dp.Controller().Len() != 1 {
		t.Fatalf("hidden deck page not updated: %s/%d", dp.DeckName(), dp.Controller().Len())
	}
}

func TestApp_ForceQuit(t *testing.T) {
	app, _, _ := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c did not quit")
	}
}

func TestStatsPage_ShowsTallyForCurrentDeck(t *testing.T) {
	reader := &fakeReader{
		tally: model.Tally{Left: 3, Right: 5},
		recent: []model.Decision{
			{CardID: "a", CardTitle: "Lisbon", Direction: model.DirectionRight, SwipedAt: time.Now()},
		},
		decks: []model.DeckCount{{Deck: "trips", Count: 8}},
	}
	app, _, _ := newTestApp(t, reader)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	runCmd(app, cmd)

	view := app.View()
	for _, want := range []string{"trips", "8 total", "Lisbon", "Recent decisions"} {
		if !strings.Contains(view, want) {
			t.Errorf("stats view missing %q:\n%s", want, view)
		}
	}
	if len(reader.asked) == 0 || reader.asked[len(reader.asked)-1] != "trips" {
		t.Fatalf("tally asked for %v, want trips", reader.asked)
	}
}

func TestStatsPage_Errors(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeReader{err: errors.New("db locked")})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	runCmd(app, cmd)
	if view := app.View(); !strings.Contains(view, "db locked") {
		t.Fatalf("stats view missing error:\n%s", view)
	}
}

func TestStatsPage_NoReader(t *testing.T) {
	app, _, _ := newTestApp(t, nil)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if view := app.View(); !strings.Contains(view, "disabled") {
		t.Fatalf("stats view without reader:\n%s", view)
	}
}

func TestInitializeSkin(t *testing.T) {
	t.Cleanup(func() { _ = InitializeSkin("default", "") })

	if err := InitializeSkin("mono", ""); err != nil {
		t.Fatalf("InitializeSkin(mono): %v", err)
	}
	if ColorRed != lipgloss.Color("250") {
		t.Fatalf("mono left color = %v", ColorRed)
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "skins"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "skins", "sunset.yml"), []byte("accent: \"202\"\nright: \"#00ff00\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitializeSkin("sunset", dir); err != nil {
		t.Fatalf("InitializeSkin(sunset): %v", err)
	}
	if ColorBlue != lipgloss.Color("202") || ColorGreen != lipgloss.Color("#00ff00") {
		t.Fatalf("custom skin colors = %v, %v", ColorBlue, ColorGreen)
	}
	if ColorRed != lipgloss.Color("196") {
		t.Fatalf("unset skin field = %v, want default", ColorRed)
	}

	if err := InitializeSkin("nope", dir); err == nil {
		t.Fatal("unknown skin accepted")
	}
}

func TestCanvasPaintCrops(t *testing.T) {
	c := newCanvas(10, 3)
	c.paint("abcd\nefgh", -2, 1)
	c.paint("XYZ", 8, 2)

	lines := strings.Split(c.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != strings.Repeat(" ", 10) {
		t.Errorf("row 0 = %q", lines[0])
	}
	if lines[1] != "cd        " {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "gh      XY" {
		t.Errorf("row 2 = %q", lines[2])
	}
}
