// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/commands"
	"github.com/jeranaias/psy-tui/internal/config"
	"github.com/jeranaias/psy-tui/internal/pager"
	"github.com/jeranaias/psy-tui/internal/storage"
	"github.com/jeranaias/psy-tui/internal/ui/chat"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/journal"
	"github.com/jeranaias/psy-tui/internal/ui/resources"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
	"github.com/jeranaias/psy-tui/internal/ui/swipe"
)

// Page order on the strip.
const (
	PageJournal = iota
	PageChat
	PageResources
)

// =============================================================================
// MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a config file that changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// waitForConfig blocks on the next reload. It returns nil when the
// channel closes.
func waitForConfig(updates <-chan *config.Config) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return ConfigReloadedMsg{Config: cfg}
	}
}

// PagerConfig converts the file configuration into navigator tuning.
func PagerConfig(p config.PagerConfig) pager.Config {
	names := make([]string, len(p.PageNames))
	copy(names, p.PageNames)
	return pager.Config{
		ThresholdFraction:      p.ThresholdFraction,
		VelocityThreshold:      p.VelocityThreshold,
		ElasticOverscrollLimit: p.ElasticOverscrollLimit,
		Spring: pager.SpringConfig{
			Stiffness: p.Spring.Stiffness,
			Damping:   p.Spring.Damping,
			Mass:      p.Spring.Mass,
		},
		PageNames:     names,
		InitialIndex:  p.InitialPage,
		DirectionLock: p.DirectionLock,
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Deps are the collaborators of the app model.
type Deps struct {
	Config    *config.Config
	Theme     *styles.Theme
	Responder chat.Responder
	// Store may be nil; the journal page then shows as unavailable.
	Store  journal.Store
	Logger *zap.Logger
	// ConfigUpdates delivers reloaded config files. Optional.
	ConfigUpdates <-chan *config.Config
	// Markdown renders chat replies and resources. Defaults to glamour.
	Markdown components.MarkdownRenderer
	// SwipeOptions are passed to the swipe view, mainly for tests.
	SwipeOptions []swipe.Option
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	theme   *styles.Theme
	logger  *zap.Logger
	updates <-chan *config.Config

	header    *components.Header
	swipe     swipe.Model
	chat      *chat.Model
	journal   *journal.Model
	resources *resources.Model
	toasts    *components.ToastManager
	help      help.Model
	keys      KeyMap

	toastTicking bool
	width        int
	height       int
}

// New builds the app with its three pages.
func New(deps Deps) (*Model, error) {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	markdown := deps.Markdown
	if markdown == nil {
		markdown = components.NewGlamourRenderer(theme)
	}

	chatPage := chat.New(theme, deps.Responder,
		chat.WithLogger(logger.Named("chat")),
		chat.WithMarkdown(markdown))
	journalPage := journal.New(theme, deps.Store,
		journal.WithLimit(cfg.Journal.MaxEntries),
		journal.WithLogger(logger.Named("journal")))
	resourcesPage := resources.New(theme, markdown)

	pages := make([]swipe.Page, 3)
	pages[PageJournal] = journalPage
	pages[PageChat] = chatPage
	pages[PageResources] = resourcesPage

	opts := append([]swipe.Option{
		swipe.WithLogger(logger.Named("pager")),
		swipe.WithFPS(cfg.Pager.FPS),
	}, deps.SwipeOptions...)
	sw, err := swipe.New(pages, PagerConfig(cfg.Pager), theme, opts...)
	if err != nil {
		return nil, err
	}

	header := components.NewHeader(theme)
	header.SetPage(sw.CurrentName())

	h := help.New()
	h.ShortSeparator = " · "

	return &Model{
		cfg:       cfg,
		theme:     theme,
		logger:    logger,
		updates:   deps.ConfigUpdates,
		header:    header,
		swipe:     sw,
		chat:      chatPage,
		journal:   journalPage,
		resources: resourcesPage,
		toasts:    components.NewToastManager(),
		help:      h,
		keys:      DefaultKeyMap(),
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.swipe.Init(), waitForConfig(m.updates))
}

// Swipe returns the swipe view.
func (m *Model) Swipe() swipe.Model { return m.swipe }

// Chat returns the chat page.
func (m *Model) Chat() *chat.Model { return m.chat }

// Journal returns the journal page.
func (m *Model) Journal() *journal.Model { return m.journal }

// Toasts returns the toast manager.
func (m *Model) Toasts() *components.ToastManager { return m.toasts }

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case chat.SaveToJournalMsg:
		return m, m.journal.Save(msg.Content, storage.SourceChat)

	case commands.NoteMsg:
		return m, m.journal.Save(msg.Content, storage.SourceNote)

	case commands.NavigateMsg:
		return m, m.forward(swipe.NavigateMsg{Index: commandPage(msg)})

	case commands.ToggleThemeMsg:
		return m, m.toggleTheme()

	case components.ToastMsg:
		m.toasts.Add(msg.Kind, msg.Message)
		return m, m.startToastTick()

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil

	case swipe.PageChangedMsg:
		m.header.SetPage(msg.Name)
		m.header.SetFocus("")

	case swipe.FocusChangedMsg:
		if msg.Focused {
			m.header.SetFocus("typing")
		} else {
			m.header.SetFocus("")
		}
		return m, nil

	case ConfigReloadedMsg:
		return m, m.applyConfig(msg.Config)
	}

	return m, m.forward(msg)
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.swipe, cmd = m.swipe.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}
	if !m.swipe.Focused() && !m.swipe.Dragging() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		case key.Matches(msg, m.keys.Theme):
			return m.toggleTheme()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
			return nil
		}
	}
	return m.forward(msg)
}

// handleMouse routes the header row to the theme toggle and shifts the
// rest into swipe coordinates. A drag keeps receiving events wherever the
// pointer goes.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.swipe.Dragging() && msg.Y < components.HeaderHeight {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.header.ToggleHit(msg.X) {
			return m.toggleTheme()
		}
		return nil
	}
	msg.Y -= components.HeaderHeight
	return m.forward(msg)
}

// commandPage maps a slash command target to a page index.
func commandPage(msg commands.NavigateMsg) int {
	switch msg.Target {
	case commands.TargetJournal:
		return PageJournal
	case commands.TargetChat:
		return PageChat
	case commands.TargetResources:
		return PageResources
	}
	return msg.Index
}

func (m *Model) toggleTheme() tea.Cmd {
	m.theme.Toggle()
	m.logger.Debug("theme toggled", zap.String("mode", m.theme.ModeName()))
	dark := m.theme.IsDark
	return func() tea.Msg { return styles.ThemeChangedMsg{Dark: dark} }
}

func (m *Model) startToastTick() tea.Cmd {
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// applyConfig retunes the pager from a reloaded file and waits for the next.
func (m *Model) applyConfig(cfg *config.Config) tea.Cmd {
	if cfg == nil {
		return waitForConfig(m.updates)
	}
	m.cfg = cfg
	m.swipe.Reconfigure(PagerConfig(cfg.Pager), cfg.Pager.FPS)
	m.header.SetPage(m.swipe.CurrentName())
	m.logger.Info("config reloaded")
	if warnings := cfg.Warnings(); len(warnings) > 0 {
		for _, w := range warnings {
			m.logger.Warn("config adjusted", zap.String("detail", w))
		}
		m.toasts.AddWarning(fmt.Sprintf("Config reloaded, %d value(s) adjusted (see log)", len(warnings)))
	} else {
		m.toasts.Add(components.ToastKindStatus, "Config reloaded")
	}
	return tea.Batch(m.startToastTick(), waitForConfig(m.updates))
}

// =============================================================================
// VIEW
// =============================================================================

func (m *Model) helpKeys() helpKeys {
	return helpKeys{
		app:     m.keys,
		pager:   m.swipe.KeyMap(),
		chat:    m.chat.KeyMap(),
		focused: m.swipe.Focused(),
		onChat:  m.swipe.CurrentIndex() == PageChat,
	}
}

func (m *Model) footerHeight() int {
	if m.help.ShowAll {
		return lipgloss.Height(m.help.View(m.helpKeys()))
	}
	return 1
}

// layout sizes the children: header, swipe view, footer.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.help.Width = m.width

	h := m.height - components.HeaderHeight - m.footerHeight()
	if h < 0 {
		h = 0
	}
	m.swipe.SetSize(m.width, h)
}

func (m *Model) renderFooter() string {
	if t, ok := m.toasts.Latest(); ok {
		return components.RenderToast(t, m.width)
	}
	return m.theme.Help.MaxWidth(m.width).Render(m.help.View(m.helpKeys()))
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.swipe.View(),
		m.renderFooter(),
	)
}
