package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/swipedeck/internal/cards"
	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/model"
	"github.com/tinytelemetry/swipedeck/internal/motion"
)

// DeckPageID identifies the deck page.
const DeckPageID = "deck"

// SurfaceUnits is the logical width of the swipe surface. Mouse deltas are
// scaled into these units so thresholds and animations do not depend on the
// terminal size.
const SurfaceUnits = 400.0

const (
	maxCardCols     = 48
	defaultStack    = 3
	maxFrameStep    = 100 * time.Millisecond
	cellAspectRatio = 2.0
)

// DecisionRecorder receives every dismissal.
type DecisionRecorder interface {
	Record(d model.Decision) bool
}

// SnapshotSink receives the deck state after every change.
type SnapshotSink interface {
	Publish(s deck.Snapshot)
}

// DeckOptions tunes the deck page.
type DeckOptions struct {
	ThresholdRatio   float64
	SwipeOutDuration time.Duration
	ExitMultiplier   float64
	StackStep        float64
	StackDepth       int
	FPS              int
	Session          string
}

func (o DeckOptions) withDefaults() DeckOptions {
	if o.ThresholdRatio <= 0 {
		o.ThresholdRatio = model.DefaultThresholdRatio
	}
	if o.SwipeOutDuration <= 0 {
		o.SwipeOutDuration = model.DefaultSwipeOutDuration
	}
	if o.ExitMultiplier <= 0 {
		o.ExitMultiplier = model.DefaultExitMultiplier
	}
	if o.StackStep <= 0 {
		o.StackStep = model.DefaultStackStep
	}
	if o.StackDepth <= 0 {
		o.StackDepth = defaultStack
	}
	if o.FPS <= 0 {
		o.FPS = model.DefaultFPS
	}
	return o
}

// DeckPageConfig wires a deck page to the rest of the program. Every field
// except Deck is optional.
type DeckPageConfig struct {
	Deck      cards.Deck
	Options   DeckOptions
	Renderer  Renderer
	Recorder  DecisionRecorder
	Snapshots SnapshotSink
	Loader    DeckLoader
}

// DeckPage hosts the swipe gesture: it turns mouse drags and arrow keys into
// controller calls, plays the spring and swipe-out animations and renders
// the card stack.
type DeckPage struct {
	opts      DeckOptions
	keys      KeyMap
	ctrl      *deck.Controller[cards.Card]
	deckName  string
	renderer  Renderer
	recorder  DecisionRecorder
	snapshots SnapshotSink
	loader    DeckLoader
	help      help.Model
	helpModal *helpModal
	now       func() time.Time

	width  int
	height int

	// Drag state. base is the card position when the press landed, so a
	// card caught mid-spring keeps its place.
	pressed        bool
	pressX, pressY int
	base           deck.Offset
	pos            deck.Offset

	anim      motion.Animation
	exiting   bool
	exitKind  deck.Kind
	release   deck.Offset
	ticking   bool
	lastFrame time.Time

	status string
}

// NewDeckPage creates the deck page showing cfg.Deck.
func NewDeckPage(cfg DeckPageConfig) *DeckPage {
	p := &DeckPage{
		opts:      cfg.Options.withDefaults(),
		keys:      DefaultKeyMap(),
		deckName:  cfg.Deck.Name,
		renderer:  cfg.Renderer,
		recorder:  cfg.Recorder,
		snapshots: cfg.Snapshots,
		loader:    cfg.Loader,
		help:      help.New(),
		helpModal: newHelpModal(),
		now:       time.Now,
	}
	if p.renderer == nil {
		p.renderer = DefaultRenderer{}
	}
	p.ctrl = deck.New(deck.Config[cards.Card]{
		Threshold:      SurfaceUnits * p.opts.ThresholdRatio,
		OnDismissLeft:  func(c cards.Card) { p.recordDismissal(c, model.DirectionLeft) },
		OnDismissRight: func(c cards.Card) { p.recordDismissal(c, model.DirectionRight) },
		Key:            cards.Card.Key,
	}, cfg.Deck.Cards)
	p.publish()
	return p
}

func (p *DeckPage) ID() string { return DeckPageID }

func (p *DeckPage) Init() tea.Cmd { return nil }

// Controller exposes the underlying deck state machine.
func (p *DeckPage) Controller() *deck.Controller[cards.Card] { return p.ctrl }

// DeckName returns the name of the deck being shown.
func (p *DeckPage) DeckName() string { return p.deckName }

// Position returns the on-screen offset of the front card in surface units.
func (p *DeckPage) Position() deck.Offset { return p.pos }

// Animating reports whether a spring or swipe-out is playing.
func (p *DeckPage) Animating() bool { return p.anim != nil }

func (p *DeckPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		return nil, nil

	case ItemsMsg:
		p.replaceDeck(msg)
		return nil, nil

	case loadFailedMsg:
		p.status = fmt.Sprintf("reload failed: %v", msg.err)
		return nil, nil

	case frameMsg:
		return p.stepAnimation(time.Time(msg)), nil

	case tea.KeyMsg:
		if p.helpModal.visible {
			p.helpModal.update(msg, p.keys)
			return nil, nil
		}
		return p.handleKey(msg)

	case tea.MouseMsg:
		if p.helpModal.visible {
			p.helpModal.update(msg, p.keys)
			return nil, nil
		}
		return p.handleMouse(msg), nil
	}
	return nil, nil
}

func (p *DeckPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch {
	case key.Matches(msg, p.keys.Quit):
		return tea.Quit, nil
	case key.Matches(msg, p.keys.Help):
		p.helpModal.visible = true
		return nil, nil
	case key.Matches(msg, p.keys.NextPage):
		return nil, &PageNav{PageID: NextPageID}
	case key.Matches(msg, p.keys.Reload):
		if p.loader == nil {
			p.status = "no deck file to reload"
			return nil, nil
		}
		return reloadCmd(p.loader), nil
	case key.Matches(msg, p.keys.SwipeLeft):
		return p.swipe(-1), nil
	case key.Matches(msg, p.keys.SwipeRight):
		return p.swipe(1), nil
	}
	return nil, nil
}

// swipe dismisses the front card as if it had been dragged just past the
// threshold on the given side.
func (p *DeckPage) swipe(sign float64) tea.Cmd {
	if p.busy() || p.ctrl.Exhausted() {
		return nil
	}
	dx := sign * (p.ctrl.Threshold() + 1)
	p.ctrl.DragMove(dx, 0)
	p.pos = deck.Offset{X: dx}
	return p.finishDrag(dx, 0)
}

func (p *DeckPage) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || p.exiting || !p.hitsFrontCard(msg.X, msg.Y) {
			return nil
		}
		// Catching a card mid-spring stops the spring where it is.
		p.anim = nil
		p.pressed = true
		p.pressX, p.pressY = msg.X, msg.Y
		p.base = p.pos
		return nil

	case tea.MouseActionMotion:
		if !p.pressed {
			return nil
		}
		dx, dy := p.dragDelta(msg.X, msg.Y)
		p.ctrl.DragMove(dx, dy)
		p.pos = deck.Offset{X: dx, Y: dy}
		p.publish()
		return nil

	case tea.MouseActionRelease:
		if !p.pressed {
			// Stray release with no drag. The controller ignores it on
			// an exhausted deck.
			if p.ctrl.Exhausted() {
				p.ctrl.DragRelease(0, 0)
			}
			return nil
		}
		p.pressed = false
		dx, dy := p.dragDelta(msg.X, msg.Y)
		p.pos = deck.Offset{X: dx, Y: dy}
		return p.finishDrag(dx, dy)
	}
	return nil
}

func (p *DeckPage) dragDelta(x, y int) (float64, float64) {
	return p.base.X + p.colsToUnits(x-p.pressX), p.base.Y + p.rowsToUnits(y-p.pressY)
}

// finishDrag resolves a release. A cancel goes to the controller at once and
// springs back. A dismissal plays the swipe-out first and hands the release
// to the controller when the card has left, so the callback and the index
// advance happen at the end of the animation.
func (p *DeckPage) finishDrag(dx, dy float64) tea.Cmd {
	kind := deck.Classify(p.ctrl.Threshold(), dx)
	if !kind.Dismissed() {
		p.ctrl.DragRelease(dx, dy)
		p.anim = motion.NewSpring(deck.Offset{X: dx, Y: dy}, motion.SpringConfig{FPS: p.opts.FPS})
		p.publish()
		return p.startTicking()
	}

	p.exiting = true
	p.exitKind = kind
	p.release = deck.Offset{X: dx, Y: dy}
	p.anim = motion.NewExit(
		p.release,
		motion.ExitTarget(kind, SurfaceUnits, p.opts.ExitMultiplier),
		p.opts.SwipeOutDuration,
		motion.EaseInOut,
	)
	p.publish()
	return p.startTicking()
}

func (p *DeckPage) completeExit() {
	p.exiting = false
	p.anim = nil
	p.pos = deck.Offset{}
	out := p.ctrl.DragRelease(p.release.X, p.release.Y)
	if out.Kind != p.exitKind {
		p.status = fmt.Sprintf("release resolved as %s", out.Kind)
	}
	p.publish()
}

func (p *DeckPage) startTicking() tea.Cmd {
	if p.ticking || p.anim == nil {
		return nil
	}
	p.ticking = true
	p.lastFrame = time.Time{}
	return frameCmd(motion.FrameInterval(p.opts.FPS))
}

func (p *DeckPage) stepAnimation(at time.Time) tea.Cmd {
	if p.anim == nil {
		p.ticking = false
		return nil
	}

	dt := motion.FrameInterval(p.opts.FPS)
	if !p.lastFrame.IsZero() {
		dt = min(max(at.Sub(p.lastFrame), 0), maxFrameStep)
	}
	p.lastFrame = at

	pos, done := p.anim.Step(dt)
	p.pos = pos
	if done {
		if p.exiting {
			p.completeExit()
		} else {
			p.anim = nil
			p.pos = deck.Offset{}
		}
		p.ticking = false
		return nil
	}
	return frameCmd(motion.FrameInterval(p.opts.FPS))
}

func (p *DeckPage) busy() bool {
	return p.pressed || p.exiting
}

// replaceDeck swaps in a new deck. A pending swipe-out is dropped without
// dismissing anything.
func (p *DeckPage) replaceDeck(msg ItemsMsg) {
	p.anim = nil
	p.exiting = false
	p.pressed = false
	p.pos = deck.Offset{}
	p.base = deck.Offset{}
	p.deckName = msg.Deck.Name
	p.ctrl.SetItems(msg.Deck.Cards)
	src := msg.Source
	if src == "" {
		src = "update"
	}
	p.status = fmt.Sprintf("%s: %d cards", src, len(msg.Deck.Cards))
	p.publish()
}

func (p *DeckPage) recordDismissal(c cards.Card, direction string) {
	if p.recorder == nil {
		return
	}
	p.recorder.Record(model.Decision{
		Session:   p.opts.Session,
		Deck:      p.deckName,
		CardID:    c.Key(),
		CardTitle: c.Title,
		Direction: direction,
		Position:  p.ctrl.FrontIndex() - 1,
		DX:        p.release.X,
		DY:        p.release.Y,
		SwipedAt:  p.now(),
	})
}

func (p *DeckPage) publish() {
	if p.snapshots == nil {
		return
	}
	p.snapshots.Publish(deck.TakeSnapshot(p.ctrl, p.deckName))
}

func (p *DeckPage) colsToUnits(cols int) float64 {
	if p.width <= 0 {
		return float64(cols)
	}
	return float64(cols) * SurfaceUnits / float64(p.width)
}

func (p *DeckPage) rowsToUnits(rows int) float64 {
	return p.colsToUnits(rows) * cellAspectRatio
}

func (p *DeckPage) unitsToCols(u float64) int {
	if p.width <= 0 {
		return int(math.Round(u))
	}
	return int(math.Round(u * float64(p.width) / SurfaceUnits))
}

func (p *DeckPage) unitsToRows(u float64) int {
	if p.width <= 0 {
		return int(math.Round(u / cellAspectRatio))
	}
	return int(math.Round(u * float64(p.width) / SurfaceUnits / cellAspectRatio))
}

// hitsFrontCard reports whether the cell (x, y) lies on the front card as
// last laid out for the current size and offset.
func (p *DeckPage) hitsFrontCard(x, y int) bool {
	front, ok := p.ctrl.Front()
	if !ok || p.width <= 0 || p.height <= 0 {
		return false
	}
	cardCols, restX := cardLayout(p.width)
	block := p.renderer.RenderCard(front, p.frontView(cardCols))

	surfaceTop := lipgloss.Height(p.renderHeader(p.width))
	surfaceBottom := p.height - lipgloss.Height(p.renderStatus(p.width))
	left := restX + p.unitsToCols(p.pos.X)
	top := surfaceTop + p.unitsToRows(p.pos.Y)

	return x >= max(left, 0) && x < min(left+lipgloss.Width(block), p.width) &&
		y >= max(top, surfaceTop) && y < min(top+lipgloss.Height(block), surfaceBottom)
}

func (p *DeckPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if p.helpModal.visible {
		return p.helpModal.view(width, height)
	}

	header := p.renderHeader(width)
	status := p.renderStatus(width)
	surfaceHeight := max(height-lipgloss.Height(header)-lipgloss.Height(status), 1)

	var surface string
	if p.ctrl.Exhausted() {
		surface = p.renderer.RenderEmpty(width, surfaceHeight, p.deckName)
	} else {
		surface = p.renderStack(width, surfaceHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, surface, status)
}

func (p *DeckPage) renderHeader(width int) string {
	name := p.deckName
	if name == "" {
		name = "deck"
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render(name)

	var progress string
	if p.ctrl.Exhausted() {
		progress = fmt.Sprintf("%d/%d done", p.ctrl.Len(), p.ctrl.Len())
	} else {
		progress = fmt.Sprintf("card %d/%d", p.ctrl.FrontIndex()+1, p.ctrl.Len())
	}
	right := lipgloss.NewStyle().Foreground(ColorGray).Render(progress)

	gap := max(width-lipgloss.Width(title)-lipgloss.Width(right), 1)
	return title + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (p *DeckPage) renderStatus(width int) string {
	p.help.Width = width
	line := p.help.View(p.keys)
	if p.status != "" {
		line = lipgloss.NewStyle().Foreground(ColorOrange).Render(p.status) + "  " + line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// cardLayout returns the card width and its resting column on a surface
// width columns wide.
func cardLayout(width int) (cardCols, restX int) {
	cardCols = min(width-4, maxCardCols)
	if cardCols < 8 {
		cardCols = width
	}
	return cardCols, (width - cardCols) / 2
}

func (p *DeckPage) frontView(cardCols int) CardView {
	view := CardView{
		Width: cardCols,
		Front: true,
		Lean:  deck.Classify(p.ctrl.Threshold(), p.pos.X),
		Tilt:  motion.Tilt(p.pos.X, SurfaceUnits),
	}
	if p.exiting {
		view.Lean = p.exitKind
	}
	return view
}

func (p *DeckPage) renderStack(width, height int) string {
	c := newCanvas(width, height)
	cardCols, restX := cardLayout(width)

	remaining := p.ctrl.Remaining()
	depth := min(len(remaining), p.opts.StackDepth)
	front := p.ctrl.FrontIndex()

	// Paint back to front so the front card ends up on top.
	for i := depth - 1; i >= 1; i-- {
		stackY := p.unitsToRows(motion.StackOffset(front+i, front, p.opts.StackStep))
		block := p.renderer.RenderCard(remaining[i], CardView{Width: cardCols})
		c.paint(block, restX, stackY)
	}

	block := p.renderer.RenderCard(remaining[0], p.frontView(cardCols))
	c.paint(block, restX+p.unitsToCols(p.pos.X), p.unitsToRows(p.pos.Y))
	return c.String()
}
