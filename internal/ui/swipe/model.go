// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package swipe

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/pager"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
)

// DefaultFPS is the animation frame rate when none is configured.
const DefaultFPS = 60

// maxFrameStep caps the time a single frame may advance the spring, so a
// stalled terminal does not make the strip jump.
const maxFrameStep = 0.1

// ErrPageCount is returned when the page list is empty.
var ErrPageCount = errors.New("swipe: at least one page is required")

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used by the model and its navigator.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFPS sets the animation frame rate.
func WithFPS(fps int) Option {
	return func(m *Model) {
		if fps > 0 {
			m.fps = fps
		}
	}
}

// WithClock replaces time.Now for gesture timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithViewport shares an existing width tracker with the navigator.
func WithViewport(v *pager.ViewportTracker) Option {
	return func(m *Model) {
		if v != nil {
			m.viewport = v
		}
	}
}

// =============================================================================
// MODEL
// =============================================================================

// eventQueue collects navigator callbacks until the current Update returns.
type eventQueue struct {
	msgs []tea.Msg
}

func (q *eventQueue) drain() []tea.Msg {
	out := q.msgs
	q.msgs = nil
	return out
}

// drag is the live mouse drag, if any.
type drag struct {
	active  bool
	pointer int
	startX  int
	startY  int
}

// Model is the swipe view.
type Model struct {
	pages     []Page
	nav       *pager.Navigator
	viewport  *pager.ViewportTracker
	indicator *components.Indicator
	keys      KeyMap
	events    *eventQueue
	logger    *zap.Logger
	now       func() time.Time

	fps       int
	loop      int
	ticking   bool
	lastFrame time.Time

	drag    drag
	focused bool
	width   int
	height  int
}

// New creates a swipe view over pages. The navigator starts on
// cfg.InitialIndex after sanitizing.
func New(pages []Page, cfg pager.Config, theme *styles.Theme, opts ...Option) (Model, error) {
	if len(pages) == 0 {
		return Model{}, ErrPageCount
	}

	m := Model{
		pages:  pages,
		keys:   DefaultKeyMap(),
		events: &eventQueue{},
		logger: zap.NewNop(),
		now:    time.Now,
		fps:    DefaultFPS,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.viewport == nil {
		m.viewport = pager.NewFixedViewport(0)
	}

	q := m.events
	nav, err := pager.New(len(pages), m.viewport, cfg,
		pager.WithLogger(m.logger),
		pager.WithObserver(pager.ObserverFuncs{
			OnIndexChanged: func(from, to int) {
				q.msgs = append(q.msgs, PageChangedMsg{From: from, To: to})
			},
			OnAnimationStarted: func(from, to int) {
				q.msgs = append(q.msgs, AnimationStartedMsg{From: from, To: to})
			},
			OnSettled: func(index int) {
				q.msgs = append(q.msgs, SettledMsg{Index: index})
			},
		}))
	if err != nil {
		return Model{}, err
	}
	m.nav = nav

	names := make([]string, len(pages))
	for i := range names {
		names[i] = nav.PageName(i)
	}
	m.indicator = components.NewIndicator(theme, names)
	m.indicator.Active = nav.CurrentIndex()
	return m, nil
}

// Init starts every page.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.pages))
	for _, p := range m.pages {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Navigator exposes the underlying navigator.
func (m Model) Navigator() *pager.Navigator { return m.nav }

// CurrentIndex returns the current page index.
func (m Model) CurrentIndex() int { return m.nav.CurrentIndex() }

// CurrentName returns the current page's display name.
func (m Model) CurrentName() string { return m.nav.PageName(m.nav.CurrentIndex()) }

// Page returns page i, or nil when out of range.
func (m Model) Page(i int) Page {
	if i < 0 || i >= len(m.pages) {
		return nil
	}
	return m.pages[i]
}

// Focused reports whether the active page owns the keyboard.
func (m Model) Focused() bool { return m.focused }

// Dragging reports whether a mouse drag is in progress.
func (m Model) Dragging() bool { return m.drag.active }

// Animating reports whether the frame loop is running.
func (m Model) Animating() bool { return m.ticking }

// KeyMap returns the active bindings.
func (m Model) KeyMap() KeyMap { return m.keys }

// ContentHeight is the height given to pages.
func (m Model) ContentHeight() int {
	h := m.height - components.IndicatorHeight
	if h < 0 {
		return 0
	}
	return h
}

// SetSize resizes the view. Pages get the full width and the height above
// the indicator row.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Resize(width)
	m.indicator.Width = width
	for _, p := range m.pages {
		p.SetSize(width, m.ContentHeight())
	}
}

// Reconfigure applies new pager tuning without moving off the current page.
func (m *Model) Reconfigure(cfg pager.Config, fps int) {
	m.nav.Reconfigure(cfg)
	if fps > 0 {
		m.fps = fps
	}
	for i := range m.indicator.Names {
		m.indicator.Names[i] = m.nav.PageName(i)
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes msg to the navigator or the pages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case FrameMsg:
		cmds = append(cmds, m.handleFrame(msg))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case NavigateMsg:
		m.drag = drag{}
		m.nav.NavigateTo(msg.Index)

	case PageChangedMsg:
		if m.focused {
			m.focused = false
			if f, ok := m.pages[msg.From].(Focusable); ok {
				f.Blur()
			}
		}
		cmds = append(cmds, m.broadcast(msg))

	default:
		cmds = append(cmds, m.broadcast(msg))
	}

	cmds = append(cmds, m.flush()...)
	return m, tea.Batch(cmds...)
}

// broadcast sends msg to every page.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.pages))
	for i, p := range m.pages {
		var cmd tea.Cmd
		m.pages[i], cmd = p.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// forward sends msg to the active page only.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	i := m.nav.CurrentIndex()
	var cmd tea.Cmd
	m.pages[i], cmd = m.pages[i].Update(msg)
	return cmd
}

// flush turns queued navigator events into commands and keeps the frame
// loop running while the navigator animates.
func (m *Model) flush() []tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range m.events.drain() {
		if pc, ok := ev.(PageChangedMsg); ok {
			pc.Name = m.nav.PageName(pc.To)
			ev = pc
		}
		cmds = append(cmds, emit(ev))
	}
	m.indicator.Active = m.nav.CurrentIndex()

	animating := m.nav.Phase() == pager.PhaseAnimating
	switch {
	case animating && !m.ticking:
		m.ticking = true
		m.loop++
		m.lastFrame = m.now()
		cmds = append(cmds, m.tick())
	case !animating && m.ticking:
		// A drag took over; the frame already in flight is dropped.
		m.ticking = false
		m.loop++
	}
	return cmds
}

func (m Model) tick() tea.Cmd {
	loop := m.loop
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return FrameMsg{Time: t, loop: loop}
	})
}

func (m *Model) handleFrame(msg FrameMsg) tea.Cmd {
	if !m.ticking || msg.loop != m.loop {
		return nil
	}
	dt := msg.Time.Sub(m.lastFrame).Seconds()
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameStep {
		dt = maxFrameStep
	}
	m.lastFrame = msg.Time

	if m.nav.Step(dt) {
		return m.tick()
	}
	m.ticking = false
	return nil
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.drag.active && key.Matches(msg, m.keys.Release) {
		m.drag = drag{}
		m.nav.DragCancel()
		return nil
	}

	if m.focused {
		if key.Matches(msg, m.keys.Release) {
			return m.blur()
		}
		return m.forward(msg)
	}

	// Paging by key ends any drag in progress; the navigator has already
	// dropped its sample, so the release that follows must not count.
	switch {
	case key.Matches(msg, m.keys.Previous):
		m.drag = drag{}
		m.nav.Previous()
	case key.Matches(msg, m.keys.Next):
		m.drag = drag{}
		m.nav.Next()
	case key.Matches(msg, m.keys.Jump):
		if n := digit(msg.String()); n > 0 && n <= len(m.pages) {
			m.drag = drag{}
			m.nav.NavigateTo(n - 1)
		}
	case key.Matches(msg, m.keys.Focus):
		if cmd, ok := m.focus(); ok {
			return cmd
		}
		return m.forward(msg)
	default:
		return m.forward(msg)
	}
	return nil
}

// focus hands the keyboard to the active page if it accepts focus.
func (m *Model) focus() (tea.Cmd, bool) {
	i := m.nav.CurrentIndex()
	f, ok := m.pages[i].(Focusable)
	if !ok {
		return nil, false
	}
	m.focused = true
	m.logger.Debug("page focused", zap.Int("page", i))
	return tea.Batch(f.Focus(), emit(FocusChangedMsg{Page: i, Focused: true})), true
}

func (m *Model) blur() tea.Cmd {
	i := m.nav.CurrentIndex()
	if f, ok := m.pages[i].(Focusable); ok {
		f.Blur()
	}
	m.focused = false
	return emit(FocusChangedMsg{Page: i, Focused: false})
}

// Blur returns the keyboard to the pager.
func (m *Model) Blur() tea.Cmd {
	if !m.focused {
		return nil
	}
	return m.blur()
}

// =============================================================================
// MOUSE
// =============================================================================

func (m *Model) point(x, y, pointer int) pager.Point {
	return pager.Point{PointerID: pointer, X: float64(x), Y: float64(y), Time: m.now()}
}

// handleMouse expects coordinates relative to the top left of the view.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.drag.active {
		switch msg.Action {
		case tea.MouseActionMotion:
			m.nav.DragMove(m.point(msg.X, msg.Y, m.drag.pointer))
		case tea.MouseActionRelease:
			return m.endDrag(msg)
		}
		// Other buttons are ignored until the drag ends.
		return nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp, msg.Button == tea.MouseButtonWheelDown,
		msg.Button == tea.MouseButtonWheelLeft, msg.Button == tea.MouseButtonWheelRight:
		return m.forward(msg)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y == m.ContentHeight() {
			if i := m.indicator.HitTest(msg.X); i >= 0 {
				m.nav.NavigateTo(i)
			}
			return nil
		}
		if msg.Y < 0 || msg.Y > m.ContentHeight() {
			return nil
		}
		pointer := int(msg.Button)
		if m.nav.DragStart(m.point(msg.X, msg.Y, pointer)) {
			m.drag = drag{active: true, pointer: pointer, startX: msg.X, startY: msg.Y}
		}
	}
	return nil
}

// endDrag finishes the drag. A release where the press happened is a tap,
// which focuses a focusable page.
func (m *Model) endDrag(msg tea.MouseMsg) tea.Cmd {
	d := m.drag
	m.drag = drag{}
	decision, ok := m.nav.DragEnd(m.point(msg.X, msg.Y, d.pointer))
	if !ok {
		return nil
	}
	if decision == pager.DecisionCancel && msg.X == d.startX && msg.Y == d.startY && !m.focused {
		if cmd, ok := m.focus(); ok {
			return cmd
		}
	}
	return nil
}
