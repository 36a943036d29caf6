package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/skim/internal/api"
)

// Messages produced by asynchronous commands. Fetch-style messages carry
// the generation or mount/sequence they were issued under so stale results
// are discarded instead of applied.

type authCheckedMsg struct {
	ok bool
}

type loginDoneMsg struct {
	err error
}

type logoutDoneMsg struct{}

type listFetchedMsg struct {
	gen  int
	list *api.BookmarkList
	err  error
}

type detailPollTickMsg struct {
	mount int
}

type detailPolledMsg struct {
	mount int
	seq   int
	bm    *api.Bookmark
	err   error
}

type incrementDoneMsg struct {
	id  string
	err error
}

type bookmarkSavedMsg struct {
	bm      *api.Bookmark
	created bool
	err     error
}

type bookmarkDeletedMsg struct {
	id  string
	err error
}

type sharedMsg struct {
	target   string
	madePrivate bool
	resp     *api.ShareResponse
	err      error
}

type modelsLoadedMsg struct {
	models []string
}

type statsLoadedMsg struct {
	stats *api.LogStats
}

type statusExpiredMsg struct {
	seq int
}

func (a *App) checkAuthCmd() tea.Cmd {
	store := a.session
	return func() tea.Msg {
		return authCheckedMsg{ok: store.CheckAuth()}
	}
}

func (a *App) loginCmd(username, password string) tea.Cmd {
	store := a.session
	return func() tea.Msg {
		return loginDoneMsg{err: store.Login(username, password)}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	store := a.session
	return func() tea.Msg {
		store.Logout()
		return logoutDoneMsg{}
	}
}

// fetchListCmd begins a fetch on the list controller and runs it.
func (a *App) fetchListCmd() tea.Cmd {
	gen, params := a.list.BeginFetch()
	client := a.client
	public := a.publicMode
	return func() tea.Msg {
		if public {
			list, err := client.ListPublicBookmarks(params.Page, params.PerPage)
			return listFetchedMsg{gen: gen, list: list, err: err}
		}
		list, err := client.ListBookmarks(params)
		return listFetchedMsg{gen: gen, list: list, err: err}
	}
}

// schedulePollCmd arms the fixed-period polling timer for the current
// detail mount. The mount stamp invalidates the tick after teardown.
func (a *App) schedulePollCmd() tea.Cmd {
	mount := a.detailMount
	return tea.Tick(a.pollEvery, func(time.Time) tea.Msg {
		return detailPollTickMsg{mount: mount}
	})
}

// pollFetchCmd re-fetches the mounted bookmark for one tick.
func (a *App) pollFetchCmd(seq int, id string) tea.Cmd {
	mount := a.detailMount
	client := a.client
	public := a.publicMode
	return func() tea.Msg {
		var bm *api.Bookmark
		var err error
		if public {
			bm, err = client.GetPublicBookmark(id)
		} else {
			bm, err = client.GetBookmark(id)
		}
		return detailPolledMsg{mount: mount, seq: seq, bm: bm, err: err}
	}
}

func (a *App) incrementCmd(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		return incrementDoneMsg{id: id, err: client.IncreaseReadCount(id)}
	}
}

func (a *App) createCmd(params api.CreateBookmarkParams) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		bm, err := client.CreateBookmark(params)
		return bookmarkSavedMsg{bm: bm, created: true, err: err}
	}
}

func (a *App) updateCmd(id string, params api.UpdateBookmarkParams) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		bm, err := client.UpdateBookmark(id, params)
		return bookmarkSavedMsg{bm: bm, err: err}
	}
}

func (a *App) deleteCmd(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		return bookmarkDeletedMsg{id: id, err: client.DeleteBookmark(id)}
	}
}

func (a *App) shareCmd(id, target string, public *bool) tea.Cmd {
	client := a.client
	madePrivate := target == api.ShareTargetUsers && public != nil && !*public
	return func() tea.Msg {
		resp, err := client.ShareBookmark(id, target, public)
		return sharedMsg{target: target, madePrivate: madePrivate, resp: resp, err: err}
	}
}

// loadModelsCmd fetches the summary model choices. Failure just leaves the
// choice list empty; the server default is always available.
func (a *App) loadModelsCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		models, err := client.GetSummaryModels()
		if err != nil {
			return modelsLoadedMsg{}
		}
		return modelsLoadedMsg{models: models.Models}
	}
}

// loadStatsCmd fetches log stats for the footer. Best-effort.
func (a *App) loadStatsCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		stats, err := client.GetLogStats()
		if err != nil {
			return statsLoadedMsg{}
		}
		return statsLoadedMsg{stats: stats}
	}
}

// flashStatusCmd expires a transient status message.
func (a *App) flashStatusCmd() tea.Cmd {
	seq := a.statusSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}
