// Package tui is the terminal front end: a public list for browsing shared
// bookmarks, login, the authenticated list with tag filters and paging,
// and the detail pane that waits for summaries.
package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nikbrunner/skim/internal/api"
	"github.com/nikbrunner/skim/internal/cache"
	"github.com/nikbrunner/skim/internal/detail"
	"github.com/nikbrunner/skim/internal/logger"
	"github.com/nikbrunner/skim/internal/query"
	"github.com/nikbrunner/skim/internal/session"
	"github.com/nikbrunner/skim/internal/telemetry"
)

// view identifies the active screen.
type view int

const (
	viewList view = iota
	viewLogin
	viewDetail
	viewForm // add or edit, distinguished by form.Editing
	viewShare
	viewTagPicker
	viewConfirmDelete
	viewHelp
)

// App is the main bubbletea model.
type App struct {
	client  *api.Client
	session *session.Store
	bmCache *cache.Cache // optional
	sink    *telemetry.Sink
	log     logger.Logger

	keys   KeyMap
	styles Styles

	view       view
	publicMode bool // browsing without a session

	list      *query.Controller
	pageSize  int
	cursor    int
	scroll    int // detail pane scroll offset

	detail      *detail.Controller
	detailMount int // stamps poll ticks; bumping it orphans old ones
	pollEvery   time.Duration

	login  loginForm
	form   bookmarkForm
	shareTarget api.Bookmark
	picker tagPicker

	confirmTarget api.Bookmark

	status    string
	statusSeq int
	notice    string // dedicated duplicate-URL notice
	stats     *api.LogStats

	lastKeyWasG bool

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Client       *api.Client
	Session      *session.Store
	Cache        *cache.Cache // optional
	Sink         *telemetry.Sink
	Log          logger.Logger
	PageSize     int
	PollInterval time.Duration
	Keys         *KeyMap // optional, uses default if nil
	Styles       *Styles // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	pollEvery := params.PollInterval
	if pollEvery <= 0 {
		pollEvery = 2 * time.Second
	}
	log := params.Log
	if log == nil {
		log = logger.Nop()
	}

	return App{
		client:     params.Client,
		session:    params.Session,
		bmCache:    params.Cache,
		sink:       params.Sink,
		log:        log,
		keys:       keys,
		styles:     styles,
		view:       viewList,
		publicMode: true,
		list:       query.New(pageSize),
		pageSize:   pageSize,
		detail:     detail.New(),
		pollEvery:  pollEvery,
		login:      newLoginForm(),
		form:       newBookmarkForm(),
		picker:     newTagPicker(),
		width:      80,
		height:     24,
	}
}

// Init implements tea.Model: resolve the persisted session, then fetch.
func (a App) Init() tea.Cmd {
	return a.checkAuthCmd()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case authCheckedMsg:
		if msg.ok {
			a.publicMode = false
			a.log.Info("session resolved", zap.String("user", a.username()))
			return a, tea.Batch(a.fetchListCmd(), a.loadModelsCmd(), a.loadStatsCmd())
		}
		a.publicMode = true
		return a, a.fetchListCmd()

	case loginDoneMsg:
		a.login.Busy = false
		if msg.err != nil {
			a.login.Err = errorMessage(msg.err)
			return a, nil
		}
		a.publicMode = false
		a.view = viewList
		a.list = query.New(a.pageSize)
		a.cursor = 0
		a.setStatus("Logged in as " + a.username())
		a.emit("login", nil)
		return a, tea.Batch(a.fetchListCmd(), a.loadModelsCmd(), a.loadStatsCmd(), a.flashStatusCmd())

	case logoutDoneMsg:
		return a.enterPublicMode("Logged out")

	case listFetchedMsg:
		if msg.err != nil && errors.Is(msg.err, api.ErrUnauthorized) {
			// The gateway already cleared the session; the list's own
			// error state is never shown for this case.
			return a.enterPublicMode("Session expired — logged out")
		}
		if !a.list.Apply(msg.gen, msg.list, msg.err) {
			return a, nil // superseded fetch
		}
		if msg.err != nil {
			a.log.Warn("list fetch failed", zap.Error(msg.err))
			return a, nil
		}
		if a.cursor >= len(a.list.Items()) {
			a.cursor = 0
		}
		return a, a.cacheItemsCmd(a.list.Items())

	case detailPollTickMsg:
		if msg.mount != a.detailMount {
			return a, nil // torn down; do not reschedule
		}
		seq, id, ok := a.detail.NextTick()
		if !ok {
			return a, nil
		}
		return a, tea.Batch(a.pollFetchCmd(seq, id), a.schedulePollCmd())

	case detailPolledMsg:
		if msg.mount != a.detailMount {
			return a, nil
		}
		if msg.err != nil && errors.Is(msg.err, api.ErrUnauthorized) {
			return a.enterPublicMode("Session expired — logged out")
		}
		wasPolling := a.detail.Polling()
		a.detail.ApplyPoll(msg.seq, msg.bm, msg.err)
		if wasPolling && !a.detail.Polling() {
			// Summary just arrived.
			bm := a.detail.Bookmark()
			return a, a.cacheItemsCmd([]api.Bookmark{bm})
		}
		return a, nil

	case incrementDoneMsg:
		a.detail.IncrementDone(msg.id, msg.err)
		if msg.err != nil {
			a.log.Warn("read count increment failed", zap.String("id", msg.id), zap.Error(msg.err))
		}
		return a, nil

	case bookmarkSavedMsg:
		return a.handleSaved(msg)

	case bookmarkDeletedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return a.enterPublicMode("Session expired — logged out")
			}
			a.setStatus("Delete failed: " + errorMessage(msg.err))
			return a, a.flashStatusCmd()
		}
		a.list.NoteDeleted()
		a.view = viewList
		a.unmountDetail()
		a.setStatus("Bookmark deleted")
		a.emit("bookmark deleted", map[string]any{"id": msg.id})
		cmds := []tea.Cmd{a.fetchListCmd(), a.flashStatusCmd()}
		if a.bmCache != nil {
			id := msg.id
			bmCache := a.bmCache
			cmds = append(cmds, func() tea.Msg {
				_ = bmCache.Delete(id)
				return nil
			})
		}
		return a, tea.Batch(cmds...)

	case sharedMsg:
		return a.handleShared(msg)

	case modelsLoadedMsg:
		a.form.Models = msg.models
		return a, nil

	case statsLoadedMsg:
		a.stats = msg.stats
		return a, nil

	case statusExpiredMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// handleKey dispatches key input to the active view.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.view {
	case viewLogin:
		return a.updateLogin(msg)
	case viewForm:
		return a.updateForm(msg)
	case viewShare:
		return a.updateShare(msg)
	case viewTagPicker:
		return a.updateTagPicker(msg)
	case viewConfirmDelete:
		return a.updateConfirmDelete(msg)
	case viewDetail:
		return a.updateDetail(msg)
	case viewHelp:
		a.view = viewList
		return a, nil
	default:
		return a.updateList(msg)
	}
}

// updateList handles keys on the list view (public and authenticated).
func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.list.Items()

	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(items) > 0 && a.cursor < len(items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(items) > 0 {
			a.cursor = len(items) - 1
		}

	case key.Matches(msg, a.keys.Open):
		if len(items) > 0 && a.cursor < len(items) {
			return a.openDetail(items[a.cursor])
		}

	case key.Matches(msg, a.keys.NextPage):
		if a.list.SetPage(a.list.Page() + 1) {
			a.cursor = 0
			return a, a.fetchListCmd()
		}

	case key.Matches(msg, a.keys.PrevPage):
		if a.list.SetPage(a.list.Page() - 1) {
			a.cursor = 0
			return a, a.fetchListCmd()
		}

	case key.Matches(msg, a.keys.Refresh):
		return a, a.fetchListCmd()

	case key.Matches(msg, a.keys.YankURL):
		if len(items) > 0 && a.cursor < len(items) {
			if url := items[a.cursor].URL; url != "" {
				_ = clipboard.WriteAll(url)
				a.setStatus("URL copied")
				return a, a.flashStatusCmd()
			}
		}

	case key.Matches(msg, a.keys.Help):
		a.view = viewHelp

	case key.Matches(msg, a.keys.Login):
		if a.publicMode {
			a.login.Reset()
			a.view = viewLogin
		}

	case key.Matches(msg, a.keys.Logout):
		if !a.publicMode {
			return a, a.logoutCmd()
		}
	}

	if a.publicMode {
		return a, nil
	}

	// Authenticated-only actions.
	switch {
	case key.Matches(msg, a.keys.Add):
		a.notice = ""
		a.form.Reset()
		a.view = viewForm

	case key.Matches(msg, a.keys.Edit):
		if len(items) > 0 && a.cursor < len(items) {
			a.notice = ""
			a.form.Populate(items[a.cursor])
			a.view = viewForm
		}

	case key.Matches(msg, a.keys.Delete):
		if len(items) > 0 && a.cursor < len(items) {
			a.confirmTarget = items[a.cursor]
			a.view = viewConfirmDelete
		}

	case key.Matches(msg, a.keys.Share):
		if len(items) > 0 && a.cursor < len(items) {
			a.shareTarget = items[a.cursor]
			a.view = viewShare
		}

	case key.Matches(msg, a.keys.TagFilter):
		a.openTagPicker()

	case key.Matches(msg, a.keys.ClearTags):
		if len(a.list.Tags()) > 0 {
			a.list.ClearFilters()
			a.cursor = 0
			return a, a.fetchListCmd()
		}
	}

	return a, nil
}

// updateDetail handles keys on the detail view.
func (a App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Back):
		a.view = viewList
		a.unmountDetail()
		return a, nil

	case key.Matches(msg, a.keys.Down):
		a.scroll++

	case key.Matches(msg, a.keys.Up):
		if a.scroll > 0 {
			a.scroll--
		}

	case key.Matches(msg, a.keys.ToggleView):
		a.detail.ToggleView()
		a.scroll = 0

	case key.Matches(msg, a.keys.NextPage):
		// Paging away from the detail tears the polling loop down and
		// returns to the list on the new page.
		if a.list.SetPage(a.list.Page() + 1) {
			a.view = viewList
			a.unmountDetail()
			a.cursor = 0
			return a, a.fetchListCmd()
		}

	case key.Matches(msg, a.keys.PrevPage):
		if a.list.SetPage(a.list.Page() - 1) {
			a.view = viewList
			a.unmountDetail()
			a.cursor = 0
			return a, a.fetchListCmd()
		}

	case key.Matches(msg, a.keys.YankURL):
		if url := a.detail.Bookmark().URL; url != "" {
			_ = clipboard.WriteAll(url)
			a.setStatus("URL copied")
			return a, a.flashStatusCmd()
		}

	case key.Matches(msg, a.keys.Edit):
		if !a.publicMode {
			a.notice = ""
			a.form.Populate(a.detail.Bookmark())
			a.view = viewForm
		}

	case key.Matches(msg, a.keys.Delete):
		if !a.publicMode {
			a.confirmTarget = a.detail.Bookmark()
			a.view = viewConfirmDelete
		}

	case key.Matches(msg, a.keys.Share):
		if !a.publicMode {
			a.shareTarget = a.detail.Bookmark()
			a.view = viewShare
		}
	}

	return a, nil
}

// openDetail mounts the detail view for bm.
func (a App) openDetail(bm api.Bookmark) (tea.Model, tea.Cmd) {
	// Prefer a cached snapshot when it is strictly ahead of the list row
	// (summary already seen, or content the list response omitted).
	if a.bmCache != nil {
		if snap, err := a.bmCache.Get(bm.ID); err == nil && snap != nil {
			if !bm.SummaryReady() && snap.SummaryReady() {
				bm = *snap
			} else if bm.Content == "" && snap.Content != "" {
				bm.Content = snap.Content
			}
		}
	}

	a.view = viewDetail
	a.scroll = 0
	a.detailMount++

	_, issueIncrement := a.detail.Load(bm, a.publicMode)
	a.emit("bookmark opened", map[string]any{"id": bm.ID})

	// The mount bump above orphaned any armed tick, so the timer must be
	// re-armed whenever the loop is live — including a same-id reload,
	// where Load keeps the existing loop instead of starting a new one.
	var cmds []tea.Cmd
	if a.detail.Polling() {
		// First check fires immediately, then on the fixed period.
		if seq, id, ok := a.detail.NextTick(); ok {
			cmds = append(cmds, a.pollFetchCmd(seq, id))
		}
		cmds = append(cmds, a.schedulePollCmd())
	}
	if issueIncrement {
		cmds = append(cmds, a.incrementCmd(bm.ID))
	}
	return a, tea.Batch(cmds...)
}

// unmountDetail tears down the polling loop deterministically.
func (a *App) unmountDetail() {
	a.detail.Unmount()
	a.detailMount++
	a.scroll = 0
}

// enterPublicMode drops to the unauthenticated entry view.
func (a App) enterPublicMode(status string) (tea.Model, tea.Cmd) {
	a.publicMode = true
	a.view = viewList
	a.unmountDetail()
	a.list = query.New(a.pageSize)
	a.cursor = 0
	a.stats = nil
	a.setStatus(status)
	return a, tea.Batch(a.fetchListCmd(), a.flashStatusCmd())
}

func (a *App) openTagPicker() {
	candidates := append([]string{}, a.list.Tags()...)
	for _, bm := range a.list.Items() {
		candidates = append(candidates, bm.Tags...)
	}
	a.picker.SetCandidates(candidates)
	a.view = viewTagPicker
}

// handleSaved applies a create/update result.
func (a App) handleSaved(msg bookmarkSavedMsg) (tea.Model, tea.Cmd) {
	a.form.Busy = false
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, api.ErrUnauthorized):
			return a.enterPublicMode("Session expired — logged out")
		case errors.Is(msg.err, api.ErrConflict):
			// Duplicate URL gets its own notice, not the generic error.
			a.notice = "Already bookmarked: this URL exists in your list."
			return a, nil
		default:
			a.form.Err = errorMessage(msg.err)
			return a, nil
		}
	}

	cmds := []tea.Cmd{a.flashStatusCmd()}
	if msg.created {
		a.list.NoteCreated()
		a.cursor = 0
		a.setStatus("Bookmark added — summary on its way")
		a.emit("bookmark created", map[string]any{"id": msg.bm.ID})
	} else {
		a.setStatus("Bookmark updated")
		a.emit("bookmark updated", map[string]any{"id": msg.bm.ID})
	}
	cmds = append(cmds, a.fetchListCmd(), a.cacheItemsCmd([]api.Bookmark{*msg.bm}))

	if !msg.created && a.detail.State() != detail.StateInitialLoad &&
		a.detail.Bookmark().ID == msg.bm.ID {
		// Editing from the detail view: refresh the open snapshot. Same
		// id, so the increment guard does not fire again.
		model, cmd := a.openDetail(*msg.bm)
		updated := model.(App)
		updated.status = a.status
		return updated, tea.Batch(append(cmds, cmd)...)
	}

	a.view = viewList
	return a, tea.Batch(cmds...)
}

// handleShared applies a share result and branches the confirmation.
func (a App) handleShared(msg sharedMsg) (tea.Model, tea.Cmd) {
	a.view = viewDetailOrList(a)
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return a.enterPublicMode("Session expired — logged out")
		}
		a.setStatus("Share failed: " + errorMessage(msg.err))
		return a, a.flashStatusCmd()
	}

	switch {
	case msg.madePrivate:
		a.setStatus("Bookmark is private again")
	case msg.target == api.ShareTargetUsers:
		a.setStatus("Shared with all users")
	case msg.target == api.ShareTargetSlack:
		a.setStatus("Summary sent to Slack")
	default:
		a.setStatus("Summary sent to Notion")
	}
	a.emit("bookmark shared", map[string]any{"target": msg.target})

	// Visibility may have changed; refresh the list.
	return a, tea.Batch(a.fetchListCmd(), a.flashStatusCmd())
}

func viewDetailOrList(a App) view {
	if a.detail.State() != detail.StateInitialLoad {
		return viewDetail
	}
	return viewList
}

// cacheItemsCmd writes snapshots through to the local cache off the update
// loop. Cache failures are invisible.
func (a *App) cacheItemsCmd(items []api.Bookmark) tea.Cmd {
	if a.bmCache == nil || len(items) == 0 {
		return nil
	}
	bmCache := a.bmCache
	snapshot := make([]api.Bookmark, len(items))
	copy(snapshot, items)
	return func() tea.Msg {
		_ = bmCache.PutAll(snapshot)
		return nil
	}
}

func (a *App) username() string {
	if u := a.session.User(); u != nil {
		return u.Username
	}
	return ""
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusSeq++
}

// emit sends a telemetry event when a sink is wired, tagged with the
// screen the user was on.
func (a *App) emit(message string, meta map[string]any) {
	if a.sink == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["view"] = a.viewName()
	a.sink.Info(message, meta)
}

func (a *App) viewName() string {
	switch a.view {
	case viewLogin:
		return "login"
	case viewDetail:
		return "detail"
	case viewForm:
		return "form"
	case viewShare:
		return "share"
	case viewTagPicker:
		return "tags"
	case viewConfirmDelete:
		return "confirm"
	case viewHelp:
		return "help"
	default:
		return "list"
	}
}

// errorMessage maps the error taxonomy onto the message shown to the user,
// preferring the server's detail text when present.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrUnreachable):
		return "Cannot reach the server. Check your connection."
	case errors.Is(err, api.ErrUnauthorized):
		return "Invalid credentials."
	case errors.Is(err, api.ErrNotFound):
		return "Not found."
	case errors.Is(err, api.ErrInvalidURL):
		return "That doesn't look like a valid URL."
	case errors.Is(err, api.ErrMissingOrigin):
		return "Enter a URL or some content to summarize."
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Request failed. Please try again."
}

// trimmed is strings.TrimSpace shorthand for form reads.
func trimmed(s string) string { return strings.TrimSpace(s) }
