package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/prefs"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/state"
)

// DefaultDebounce is how long the name input must be idle before it queries.
const DefaultDebounce = 300 * time.Millisecond

// Catalog is the data source the UI reads characters from.
type Catalog interface {
	Characters(ctx context.Context, f filter.State) (rickmorty.Page, error)
	Character(ctx context.Context, id int) (rickmorty.Character, error)
	// Invalidate drops the cached page for f so the next load hits the API.
	Invalidate(ctx context.Context, f filter.State)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Catalog   Catalog
	Store     *state.Store
	Logger    *slog.Logger
	LogPath   string
	ThemeName string
	PrefsPath string
	Debounce  time.Duration
	Clipboard func(string) error // defaults to the system clipboard
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   Catalog
	store     *state.Store
	logger    *slog.Logger
	logPath   string
	prefsPath string
	debounce  time.Duration
	copyText  func(string) error

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	cancelFetch context.CancelFunc
	spinner     spinner.Model
	spinning    bool

	// Grid state
	cursor  int
	gridTop int

	// Name search
	nameInput   textinput.Model
	editingName bool
	nameSeq     int

	// Overlays
	modal       Modal
	activitySeq int
	showHelp    bool

	// One-line feedback shown in the header until the next key press
	flash    string
	flashErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore(filter.New())
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "any"
	input.CharLimit = 64
	input.Width = 20
	input.SetValue(store.Filter().Name)

	return Model{
		ctx:       ctx,
		catalog:   opts.Catalog,
		store:     store,
		logger:    logger,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		debounce:  debounce,
		copyText:  copyText,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		snapshot:  store.Snapshot(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		nameInput: input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return refreshCmd
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampCursor()
		return m.updateModal(msg)

	case refreshMsg:
		return m, m.startFetch(false)

	case pageMsg:
		return m.handlePage(msg)

	case characterMsg:
		if msg.err != nil {
			m.logger.Warn("character fetch failed", slog.Int("id", msg.id), slog.Any("error", msg.err))
		}
		return m.updateModal(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case activityMsg, activityTickMsg:
		if _, ok := m.modal.(activityModal); !ok {
			return m, nil
		}
		return m.updateModal(msg)

	case shareMsg:
		if msg.err != nil {
			m.setFlash("Share "+msg.text+" (clipboard unavailable)", true)
			m.logger.Warn("clipboard write failed", slog.Any("error", msg.err))
		} else {
			m.setFlash("Copied "+msg.text, false)
			m.logger.Info("share query copied", slog.String("query", msg.text))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editingName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(m.renderGrid(m.width, m.gridHeight()))
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// gridHeight is the space left for cards under the header and filter bar
// and above the command bar.
func (m Model) gridHeight() int {
	return maxInt(m.height-3, 1)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.modal != nil {
		if dm, ok := m.modal.(detailModal); ok && key.Matches(msg, m.keys.Detail) {
			m.store.Select(dm.id)
			m.modal = nil
			m.snapshot = m.store.Snapshot()
			return m, nil
		}
		return m.updateModal(msg)
	}
	if m.editingName {
		return m.handleNameKey(msg)
	}

	count := len(m.snapshot.Page.Results)
	cols := gridColumns(m.width)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.editingName = true
		return m, m.nameInput.Focus()

	case key.Matches(msg, m.keys.NextStatus), key.Matches(msg, m.keys.PrevStatus):
		step := 1
		if key.Matches(msg, m.keys.PrevStatus) {
			step = -1
		}
		m.store.SetStatus(filter.Cycle(filter.StatusOptions, m.store.Filter().Status, step))
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.NextGender), key.Matches(msg, m.keys.PrevGender):
		step := 1
		if key.Matches(msg, m.keys.PrevGender) {
			step = -1
		}
		m.store.SetGender(filter.Cycle(filter.GenderOptions, m.store.Filter().Gender, step))
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.NextSpecies), key.Matches(msg, m.keys.PrevSpecies):
		step := 1
		if key.Matches(msg, m.keys.PrevSpecies) {
			step = -1
		}
		m.store.SetSpecies(filter.Cycle(filter.SpeciesOptions, m.store.Filter().Species, step))
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.Reset):
		m.store.ResetFilters()
		m.nameSeq++
		m.nameInput.SetValue("")
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.NextPage):
		if _, ok := m.store.NextPage(); !ok {
			return m, nil
		}
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.PrevPage):
		if _, ok := m.store.PrevPage(); !ok {
			return m, nil
		}
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startFetch(true)

	case key.Matches(msg, m.keys.Share):
		text := shareQuery(m.store.Filter())
		if text == "" {
			m.setFlash("No filters to share", false)
			return m, nil
		}
		return m, shareCmd(text, m.copyText)

	case key.Matches(msg, m.keys.Activity):
		m.activitySeq++
		m.modal = newActivityModal(m.logPath, m.activitySeq, m.theme, m.width, m.height)
		return m, tea.Batch(
			readActivityCmd(m.logPath, activityLines),
			activityTickCmd(activityRefresh, m.activitySeq),
		)

	case key.Matches(msg, m.keys.Detail):
		return m.toggleDetail()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1, count, cols)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1, count, cols)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0, count, cols)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0, count, cols)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.clampCursor()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = count - 1
		m.clampCursor()
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editingName = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.editingName = false
		m.nameInput.Blur()
		m.nameSeq++
		return m.applyName(m.nameInput.Value())
	}

	before := m.nameInput.Value()
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	if m.nameInput.Value() == before {
		return m, cmd
	}
	m.nameSeq++
	return m, tea.Batch(cmd, debounceCmd(m.debounce, m.nameSeq, m.nameInput.Value()))
}

func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.nameSeq {
		return m, nil
	}
	return m.applyName(msg.value)
}

func (m Model) applyName(name string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(name) == m.store.Filter().Name {
		return m, nil
	}
	m.store.SetName(name)
	return m, m.filterChanged()
}

func (m Model) toggleDetail() (tea.Model, tea.Cmd) {
	results := m.snapshot.Page.Results
	if len(results) == 0 {
		return m, nil
	}
	m.clampCursor()
	m.store.Select(results[m.cursor].ID)
	m.snapshot = m.store.Snapshot()
	preview, ok := m.snapshot.Selected()
	if !ok || !m.snapshot.DetailOpen {
		m.modal = nil
		return m, nil
	}
	m.modal = newDetailModal(preview.ID, &preview, m.theme, m.width, m.height)
	if m.catalog == nil {
		return m, nil
	}
	return m, fetchCharacterCmd(m.ctx, m.catalog, preview.ID)
}

// updateModal forwards msg to the open modal and closes it when asked.
func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal == nil {
		return m, nil
	}
	modal, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		if _, ok := m.modal.(detailModal); ok {
			m.store.CloseDetail()
			m.snapshot = m.store.Snapshot()
		}
		m.modal = nil
		return m, cmd
	}
	m.modal = modal
	return m, cmd
}

// filterChanged resets the grid position and fetches the new page.
func (m *Model) filterChanged() tea.Cmd {
	m.cursor = 0
	m.gridTop = 0
	m.modal = nil
	m.savePrefs()
	return m.startFetch(false)
}

// startFetch cancels any request in flight and fetches the page for the
// current filter under a new generation. reload bypasses the cache.
func (m *Model) startFetch(reload bool) tea.Cmd {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
	gen, f := m.store.BeginFetch()
	m.snapshot = m.store.Snapshot()
	if m.catalog == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel

	cmds := []tea.Cmd{fetchPageCmd(ctx, m.catalog, gen, f, reload)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.snapshot.Generation {
		return m, nil
	}
	// A superseded request can share an in-flight load with this one and
	// hand back its cancellation. Fetch again rather than show it.
	if errors.Is(msg.err, context.Canceled) && m.ctx.Err() == nil {
		return m, m.startFetch(false)
	}
	if !m.store.ApplyResult(msg.gen, msg.page, msg.err) {
		return m, nil
	}
	f := m.store.Filter()
	if msg.err != nil {
		m.logger.Warn("characters fetch failed",
			slog.String("query", f.Key()),
			slog.Any("error", msg.err))
	} else {
		m.logger.Info("characters loaded",
			slog.String("query", f.Key()),
			slog.Int("count", len(msg.page.Results)),
			slog.Int("total", msg.page.Info.Count))
	}
	m.snapshot = m.store.Snapshot()
	m.clampCursor()
	return m, nil
}

func (m *Model) moveCursor(dx, dy, count, cols int) {
	m.cursor = moveCursor(m.cursor, count, cols, dx, dy)
	m.gridTop = scrollTop(m.cursor, cols, gridRows(m.gridHeight()), m.gridTop)
}

func (m *Model) clampCursor() {
	count := len(m.snapshot.Page.Results)
	m.cursor = clamp(m.cursor, 0, count-1)
	cols := gridColumns(m.width)
	m.gridTop = scrollTop(m.cursor, cols, gridRows(m.gridHeight()), m.gridTop)
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// savePrefs stores the theme and current filters.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Filters: m.store.Filter()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", slog.String("path", m.prefsPath), slog.Any("error", err))
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	return m, tea.Quit
}

// shareQuery renders the filter as a query string, or "" when no criterion
// is set.
func shareQuery(f filter.State) string {
	if !f.Active() {
		return ""
	}
	return "?" + f.Encode()
}

// Run starts the Bubble Tea program and returns the final theme name.
func Run(opts Options) (string, error) {
	if opts.Store == nil {
		return "", fmt.Errorf("ui requires a state store")
	}
	if opts.Catalog == nil {
		return "", fmt.Errorf("ui requires a catalog")
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		err = nil
	}
	if fm, ok := final.(Model); ok {
		return fm.theme.Name, err
	}
	return m.theme.Name, err
}
