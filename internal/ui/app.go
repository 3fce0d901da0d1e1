package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/qkart/internal/catalog"
	"github.com/abelbrown/qkart/internal/logging"
	"github.com/abelbrown/qkart/internal/notify"
	"github.com/abelbrown/qkart/internal/otel"
	"github.com/abelbrown/qkart/internal/search"
	"github.com/abelbrown/qkart/internal/state"
)

// DefaultErrorMessage is shown when a search fails for a reason other than
// "no matches".
const DefaultErrorMessage = "Could not fetch results from backend"

const (
	heroText    = "India's FASTEST DELIVERY to your door step"
	placeholder = "Search for items/categories"
)

// AppConfig wires the App to its IO. FetchAll and Search return commands
// that perform the call and deliver CatalogLoaded / SearchResolved carrying
// the same seq.
type AppConfig struct {
	FetchAll func(seq uint64) tea.Cmd
	Search   func(seq uint64, query string) tea.Cmd

	Debounce     time.Duration // quiet period before a search fires
	ErrorMessage string        // notice text for failed searches
	NoticeTTL    time.Duration
	MaxNotices   int

	Events *otel.Logger
	Ring   *otel.RingBuffer // feeds the debug overlay
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the catalog client. It receives items via messages.
type App struct {
	fetchAll     func(seq uint64) tea.Cmd
	searchFn     func(seq uint64, query string) tea.Cmd
	errorMessage string
	events       *otel.Logger
	ring         *otel.RingBuffer

	input    textinput.Model
	spinner  spinner.Model
	spinning bool

	search  search.Debouncer
	result  state.Result
	tray    notify.Tray
	initial search.Lookup

	cursor       int
	width        int
	height       int
	ready        bool
	debugVisible bool
}

// NewApp creates the App. The initial catalog lookup is numbered here so
// that Init, which cannot mutate the model, only has to issue it.
func NewApp(cfg AppConfig) App {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.PromptStyle = SearchPrompt
	ti.CharLimit = 100
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorHighlight)),
	)

	msg := cfg.ErrorMessage
	if msg == "" {
		msg = DefaultErrorMessage
	}

	a := App{
		fetchAll:     cfg.FetchAll,
		searchFn:     cfg.Search,
		errorMessage: msg,
		events:       cfg.Events,
		ring:         cfg.Ring,
		input:        ti,
		spinner:      sp,
		search:       search.NewDebouncer(cfg.Debounce),
		result:       state.Initial(),
		tray:         notify.NewTray(cfg.NoticeTTL, cfg.MaxNotices),
	}
	if a.fetchAll != nil {
		a.initial = a.search.Dispatch("")
		a.spinning = true
	} else {
		a.result = state.Empty()
	}
	return a
}

// Init issues the one catalog fetch of the session.
func (a App) Init() tea.Cmd {
	if a.fetchAll == nil {
		return textinput.Blink
	}
	a.events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindFetchStart,
		Comp:  "ui",
		Seq:   a.initial.Seq,
	})
	return tea.Batch(textinput.Blink, a.spinner.Tick, a.fetchAll(a.initial.Seq))
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.events.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindMsgReceived,
			Comp:  "ui",
			Msg:   fmt.Sprintf("%T", msg),
		})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.input.Width = max(msg.Width-10, 10)
		return a, nil

	case search.TimerFired:
		return a.handleTimerFired(msg)

	case CatalogLoaded:
		return a.handleCatalogLoaded(msg)

	case SearchResolved:
		return a.handleSearchResolved(msg)

	case notify.Show:
		a.events.Emit(otel.Event{
			Level: otel.LevelInfo,
			Kind:  otel.KindNotify,
			Comp:  "ui",
			Msg:   msg.Message,
			Extra: map[string]any{"severity": string(msg.Severity)},
		})
		return a, a.tray.Push(msg.Message, msg.Severity)

	case notify.Expired:
		a.tray.Expire(msg)
		return a, nil

	case spinner.TickMsg:
		// The tick chain ends once nothing is loading; startSpinner restarts it.
		if !a.result.IsLoading() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Cursor blink and anything else the input understands.
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input. Keys without a binding edit the query.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Debug):
		a.debugVisible = !a.debugVisible
		return a, nil
	}

	if a.debugVisible {
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Clear):
		if a.input.Value() == "" {
			return a, nil
		}
		a.input.SetValue("")
		return a, a.queryChanged()

	case key.Matches(msg, keys.Up):
		a.moveCursor(-columns(a.width))
		return a, nil

	case key.Matches(msg, keys.Down):
		a.moveCursor(columns(a.width))
		return a, nil

	case key.Matches(msg, keys.Next):
		a.moveCursor(1)
		return a, nil

	case key.Matches(msg, keys.Prev):
		a.moveCursor(-1)
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.queryChanged())
}

// queryChanged re-arms the debounce timer for the current input value.
func (a *App) queryChanged() tea.Cmd {
	if prev, armed := a.search.Pending(); armed {
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchCancel, Comp: "ui", Query: prev})
	}
	q := a.input.Value()
	cmd := a.search.QueryChanged(q)
	a.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindSearchArm,
		Comp:  "ui",
		Query: q,
		Dur:   a.search.Delay(),
	})
	return cmd
}

func (a App) handleTimerFired(msg search.TimerFired) (tea.Model, tea.Cmd) {
	lk, ok := a.search.Fire(msg)
	if !ok {
		return a, nil
	}
	a.result = a.result.Begin()
	a.events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindSearchStart,
		Comp:  "ui",
		Seq:   lk.Seq,
		Query: lk.Query,
	})

	cmds := []tea.Cmd{a.startSpinner()}
	if a.searchFn != nil {
		cmds = append(cmds, a.searchFn(lk.Seq, lk.Query))
	}
	return a, tea.Batch(cmds...)
}

func (a App) handleCatalogLoaded(msg CatalogLoaded) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		reason := msg.Err.Error()
		var fe *catalog.FetchError
		if errors.As(msg.Err, &fe) {
			reason = fe.Reason()
		}
		a.events.Emit(otel.Event{
			Level: otel.LevelError,
			Kind:  otel.KindFetchError,
			Comp:  "ui",
			Seq:   msg.Seq,
			Err:   msg.Err.Error(),
		})
		logging.Error("catalog fetch failed", "error", msg.Err)

		// The failure is reported even when a search has since taken over
		// the display; there is no retry.
		if a.search.Accept(msg.Seq) {
			a.result = a.result.Fail()
		}
		return a, notify.Cmd(reason, notify.SeverityError)
	}

	if !a.search.Accept(msg.Seq) {
		a.discardStale(msg.Seq, "")
		return a, nil
	}
	a.result = a.result.Resolve(msg.Items)
	a.clampCursor()
	a.events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindFetchComplete,
		Comp:  "ui",
		Seq:   msg.Seq,
		Count: len(msg.Items),
	})
	return a, nil
}

func (a App) handleSearchResolved(msg SearchResolved) (tea.Model, tea.Cmd) {
	if !a.search.Accept(msg.Seq) {
		a.discardStale(msg.Seq, msg.Query)
		return a, nil
	}

	ev := otel.Event{Comp: "ui", Seq: msg.Seq, Query: msg.Query}
	var cmd tea.Cmd
	switch {
	case msg.Err == nil:
		a.result = a.result.Resolve(msg.Items)
		ev.Level, ev.Kind, ev.Count = otel.LevelInfo, otel.KindSearchComplete, len(msg.Items)

	case errors.Is(msg.Err, catalog.ErrNotFound):
		a.result = a.result.NotFound()
		ev.Level, ev.Kind = otel.LevelInfo, otel.KindSearchNotFound

	default:
		a.result = a.result.Fail()
		ev.Level, ev.Kind, ev.Err = otel.LevelError, otel.KindSearchError, msg.Err.Error()
		logging.Warn("search failed", "query", msg.Query, "error", msg.Err)
		cmd = notify.Cmd(a.errorMessage, notify.SeverityError)
	}
	a.clampCursor()
	a.events.Emit(ev)
	return a, cmd
}

// discardStale drops a response that a newer lookup has superseded.
func (a *App) discardStale(seq uint64, query string) {
	a.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindSearchStale,
		Comp:  "ui",
		Seq:   seq,
		Query: query,
		Extra: map[string]any{"latest": a.search.Latest()},
	})
}

func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) moveCursor(delta int) {
	n := a.result.Len()
	if n == 0 {
		return
	}
	a.cursor = min(max(a.cursor+delta, 0), n-1)
}

func (a *App) clampCursor() {
	a.cursor = min(a.cursor, max(a.result.Len()-1, 0))
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugVisible {
		overlay := debugOverlay(a.ring, a.search.Latest(), a.width, a.height-1)
		return lipgloss.JoinVertical(lipgloss.Left, overlay, debugStatusBar(a.width))
	}

	header := a.renderHeader()
	notices := a.renderNotices()
	status := a.renderStatusBar()

	used := lipgloss.Height(header) + lipgloss.Height(status)
	if notices != "" {
		used += lipgloss.Height(notices)
	}

	parts := []string{header, a.renderBody(max(a.height-used, 1))}
	if notices != "" {
		parts = append(parts, notices)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderHeader() string {
	title := HeaderTitle.Render("QKart")
	hero := HeroText.Render(heroText)
	bar := SearchBar.Width(max(a.width-2, 10)).Render(a.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, title+" "+hero, bar)
}

func (a App) renderBody(height int) string {
	switch a.result.Kind() {
	case state.KindLoading:
		return LoadingStyle.Render(a.spinner.View() + " Loading Data...")
	case state.KindPopulated:
		return renderGrid(a.result.Items(), a.cursor, a.width, height)
	default:
		return EmptyState.Render("No products found")
	}
}

func (a App) renderNotices() string {
	notices := a.tray.Notices()
	if len(notices) == 0 {
		return ""
	}
	lines := make([]string, len(notices))
	for i, n := range notices {
		lines[i] = noticeStyle(n.Severity).Render(truncateRunes(n.Message, max(a.width-2, 1)))
	}
	return strings.Join(lines, "\n")
}

func noticeStyle(sev notify.Severity) lipgloss.Style {
	switch sev {
	case notify.SeverityError:
		return NoticeError
	case notify.SeverityWarning:
		return NoticeWarning
	case notify.SeveritySuccess:
		return NoticeSuccess
	default:
		return NoticeInfo
	}
}

// renderStatusBar shows the result summary and key hints.
func (a App) renderStatusBar() string {
	var summary string
	switch a.result.Kind() {
	case state.KindLoading:
		summary = "loading"
	case state.KindPopulated:
		summary = fmt.Sprintf("%d/%d", a.cursor+1, a.result.Len())
	default:
		summary = "0 products"
	}

	hints := make([]string, 0, 4)
	for _, b := range keys.statusHints() {
		h := b.Help()
		hints = append(hints, StatusBarKey.Render(h.Key)+StatusBarText.Render(":"+h.Desc))
	}
	return StatusBar.Width(a.width).Render(summary + "  " + strings.Join(hints, " "))
}

// Result returns the current result state (for testing).
func (a App) Result() state.Result {
	return a.result
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Notices returns the visible notifications (for testing).
func (a App) Notices() []notify.Notice {
	return a.tray.Notices()
}
