// Package detail owns the detail-view state machine: load one bookmark,
// poll until its derived summary is ready, and bump the view counter
// exactly once per displayed bookmark. The controller is pure state; the
// caller runs the timer and the network calls it asks for.
package detail

import "github.com/nikbrunner/skim/internal/api"

// State is the controller's phase for the currently mounted bookmark.
type State int

const (
	// StateInitialLoad means no bookmark is mounted yet.
	StateInitialLoad State = iota
	// StateAwaitingSummary means the summary is absent or still the
	// server placeholder; the polling loop is running.
	StateAwaitingSummary
	// StateSummaryReady means a real summary has arrived and the summary
	// pane is available.
	StateSummaryReady
	// StateIdleContent means the user toggled back to the original
	// content after the summary arrived. Terminal until a new id loads.
	StateIdleContent
)

// incrPhase is the read-count increment guard for one bookmark id. The
// legal transitions are notStarted→inFlight (issue), inFlight→completed
// (success) and inFlight→notStarted (failure, retry allowed on re-entry).
type incrPhase int

const (
	incrNotStarted incrPhase = iota
	incrInFlight
	incrCompleted
)

// Controller drives one mounted detail view.
type Controller struct {
	bookmark api.Bookmark
	state    State
	readOnly bool

	showContent bool
	loading     bool
	polling     bool

	// Poll results are ordered by the sequence the tick was issued under,
	// not by arrival: a slow stale response can never clobber a newer one.
	issuedSeq  int
	appliedSeq int

	incrID          string
	incrState       incrPhase
	lastCompletedID string
}

// New creates an unmounted controller.
func New() *Controller {
	return &Controller{state: StateInitialLoad}
}

// Bookmark returns the current snapshot.
func (c *Controller) Bookmark() api.Bookmark { return c.bookmark }

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// ShowContent reports whether the visible pane is the original content
// rather than the derived summary. Read-only mode always shows the summary.
func (c *Controller) ShowContent() bool {
	if c.readOnly {
		return false
	}
	return c.showContent
}

// Loading reports whether a poll fetch is outstanding for the current tick.
func (c *Controller) Loading() bool { return c.loading }

// Polling reports whether the summary polling loop is alive.
func (c *Controller) Polling() bool { return c.polling }

// ReadOnly reports whether the view is the public shared mode.
func (c *Controller) ReadOnly() bool { return c.readOnly }

// Load mounts a bookmark. startPolling tells the caller to begin the fixed
// period timer; issueIncrement tells it to fire the read-count call, which
// the guard has already marked in flight. Re-loading the same id (a
// re-render) never re-issues a completed or in-flight increment.
func (c *Controller) Load(bm api.Bookmark, readOnly bool) (startPolling, issueIncrement bool) {
	sameID := c.bookmark.ID == bm.ID && c.state != StateInitialLoad

	c.bookmark = bm
	c.readOnly = readOnly
	c.loading = false

	if !sameID {
		// New id: any previous polling loop is torn down and the poll
		// sequence restarts so responses for the old id are stale.
		c.issuedSeq++
		c.appliedSeq = c.issuedSeq
		c.polling = false

		if readOnly || bm.SummaryReady() {
			c.state = StateSummaryReady
			c.showContent = false
		} else {
			c.state = StateAwaitingSummary
			c.showContent = true
			c.polling = true
			startPolling = true
		}
	}

	if !readOnly && c.shouldIncrement(bm.ID) {
		c.incrID = bm.ID
		c.incrState = incrInFlight
		issueIncrement = true
	}
	return startPolling, issueIncrement
}

// shouldIncrement checks the guard synchronously before the asynchronous
// call starts, so two events in the same tick cannot double-issue.
func (c *Controller) shouldIncrement(id string) bool {
	if id == "" || id == c.lastCompletedID {
		return false
	}
	if c.incrState == incrInFlight && c.incrID == id {
		return false
	}
	return true
}

// IncrementDone records the outcome of the read-count call. Success pins
// the id so it is never re-issued this mount lifetime; failure clears the
// in-flight mark so a later re-entry with the same id may retry.
func (c *Controller) IncrementDone(id string, err error) {
	if c.incrID != id {
		return
	}
	if err != nil {
		c.incrState = incrNotStarted
		return
	}
	c.incrState = incrCompleted
	c.lastCompletedID = id
}

// NextTick hands out the fetch the polling loop should run for this tick:
// the mounted id and the sequence to report back. ok is false once the
// loop is torn down, in which case no fetch is issued.
func (c *Controller) NextTick() (seq int, id string, ok bool) {
	if !c.polling {
		return 0, "", false
	}
	c.issuedSeq++
	c.loading = true
	return c.issuedSeq, c.bookmark.ID, true
}

// ApplyPoll feeds one poll result back. Results whose sequence is not
// newer than the last applied one are dropped. A transient failure clears
// the loading flag but keeps the loop alive. When the summary has arrived
// the loop stops, the snapshot updates, and the visible pane switches to
// the summary exactly once; the user's toggles are respected afterwards.
func (c *Controller) ApplyPoll(seq int, bm *api.Bookmark, err error) {
	if seq <= c.appliedSeq || !c.polling {
		return
	}
	c.loading = false

	if err != nil {
		return
	}
	c.appliedSeq = seq
	if bm == nil || bm.ID != c.bookmark.ID {
		return
	}

	c.bookmark = *bm
	if bm.SummaryReady() {
		c.polling = false
		c.state = StateSummaryReady
		c.showContent = false
	}
}

// ToggleView switches between the original content and the derived
// summary. Pure local toggle; no network effect. Ignored in read-only
// mode, which always shows the summary.
func (c *Controller) ToggleView() {
	if c.readOnly {
		return
	}
	c.showContent = !c.showContent

	switch c.state {
	case StateSummaryReady:
		if c.showContent {
			c.state = StateIdleContent
		}
	case StateIdleContent:
		if !c.showContent {
			c.state = StateSummaryReady
		}
	}
}

// Unmount tears the view down: the polling loop dies and any in-flight
// poll response becomes stale. The per-mount increment history resets so
// re-opening the same bookmark later counts as a fresh view.
func (c *Controller) Unmount() {
	c.polling = false
	c.loading = false
	c.issuedSeq++
	c.appliedSeq = c.issuedSeq
	c.state = StateInitialLoad
	c.bookmark = api.Bookmark{}
	c.incrID = ""
	c.incrState = incrNotStarted
	c.lastCompletedID = ""
}

// ViewText returns the text for the visible pane plus whether it should be
// rendered as the summary. Read-only mode falls back to a fixed
// empty-state message when no summary exists yet.
func (c *Controller) ViewText() (text string, isSummary bool) {
	if c.ReadOnly() {
		if !c.bookmark.SummaryReady() {
			return "", true
		}
		return c.bookmark.Summary, true
	}
	if c.ShowContent() {
		return c.bookmark.Content, false
	}
	return c.bookmark.Summary, true
}
