package detail_test

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/skim/internal/api"
	"github.com/nikbrunner/skim/internal/detail"
)

func pending(id string) api.Bookmark {
	return api.Bookmark{ID: id, Title: "t", Content: "body", Summary: api.SummaryPending}
}

func ready(id string) api.Bookmark {
	return api.Bookmark{ID: id, Title: "t", Content: "body", Summary: "Done."}
}

func TestLoad_PendingSummaryStartsPolling(t *testing.T) {
	c := detail.New()
	startPolling, issueIncrement := c.Load(pending("b1"), false)

	assert.Assert(t, startPolling)
	assert.Assert(t, issueIncrement)
	assert.Equal(t, c.State(), detail.StateAwaitingSummary)
	assert.Assert(t, c.ShowContent(), "content pane shown while summary pends")
}

func TestLoad_ReadySummarySkipsPolling(t *testing.T) {
	c := detail.New()
	startPolling, _ := c.Load(ready("b1"), false)

	assert.Assert(t, !startPolling)
	assert.Equal(t, c.State(), detail.StateSummaryReady)
	assert.Assert(t, !c.ShowContent())
}

func TestIncrement_AtMostOncePerID(t *testing.T) {
	c := detail.New()
	_, issue := c.Load(pending("b1"), false)
	assert.Assert(t, issue)

	// Re-renders with the same id while the call is in flight must not
	// re-issue.
	for i := 0; i < 5; i++ {
		_, again := c.Load(pending("b1"), false)
		assert.Assert(t, !again, "re-render %d re-issued the increment", i)
	}

	c.IncrementDone("b1", nil)

	// Completed: further re-renders with the same id never re-issue.
	_, again := c.Load(pending("b1"), false)
	assert.Assert(t, !again)

	// A different id is a fresh view and increments once.
	_, issueOther := c.Load(pending("b2"), false)
	assert.Assert(t, issueOther)
}

func TestIncrement_FailureAllowsRetry(t *testing.T) {
	c := detail.New()
	_, issue := c.Load(pending("b1"), false)
	assert.Assert(t, issue)

	c.IncrementDone("b1", errors.New("network"))

	// Navigating away and back with the same id may retry.
	c.Unmount()
	_, retry := c.Load(pending("b1"), false)
	assert.Assert(t, retry)
}

func TestPolling_SummaryArrivalStopsLoopAndSwitchesPane(t *testing.T) {
	c := detail.New()
	c.Load(pending("b1"), false)

	seq, id, ok := c.NextTick()
	assert.Assert(t, ok)
	assert.Equal(t, id, "b1")

	bm := ready("b1")
	c.ApplyPoll(seq, &bm, nil)

	assert.Equal(t, c.State(), detail.StateSummaryReady)
	assert.Assert(t, !c.Polling())
	assert.Assert(t, !c.ShowContent(), "completion forces the summary pane")

	// Loop never restarts for this id within the mount.
	_, _, ok = c.NextTick()
	assert.Assert(t, !ok)
}

func TestPolling_TransientFailureKeepsLoopAlive(t *testing.T) {
	c := detail.New()
	c.Load(pending("b1"), false)

	seq, _, ok := c.NextTick()
	assert.Assert(t, ok)
	c.ApplyPoll(seq, nil, errors.New("timeout"))

	assert.Assert(t, c.Polling(), "one failed tick must not abandon polling")
	assert.Assert(t, !c.Loading())
	assert.Equal(t, c.State(), detail.StateAwaitingSummary)
}

func TestPolling_StaleResponseDroppedBySequence(t *testing.T) {
	c := detail.New()
	c.Load(pending("b1"), false)

	slowSeq, _, _ := c.NextTick()
	fastSeq, _, _ := c.NextTick()

	// The newer tick's response arrives first and declares completion.
	done := ready("b1")
	c.ApplyPoll(fastSeq, &done, nil)
	assert.Equal(t, c.State(), detail.StateSummaryReady)

	// The slower, older response must not revert the completed state.
	stale := pending("b1")
	c.ApplyPoll(slowSeq, &stale, nil)
	assert.Equal(t, c.State(), detail.StateSummaryReady)
	assert.Equal(t, c.Bookmark().Summary, "Done.")
}

func TestToggle_RespectedAfterForcedSwitch(t *testing.T) {
	c := detail.New()
	c.Load(pending("b1"), false)

	seq, _, _ := c.NextTick()
	bm := ready("b1")
	c.ApplyPoll(seq, &bm, nil)
	assert.Assert(t, !c.ShowContent())

	c.ToggleView()
	assert.Assert(t, c.ShowContent())
	assert.Equal(t, c.State(), detail.StateIdleContent)

	c.ToggleView()
	assert.Assert(t, !c.ShowContent())
	assert.Equal(t, c.State(), detail.StateSummaryReady)
}

func TestUnmount_TearsDownPolling(t *testing.T) {
	c := detail.New()
	c.Load(pending("b1"), false)
	seq, _, _ := c.NextTick()

	c.Unmount()
	assert.Assert(t, !c.Polling())

	// A response from before teardown is stale.
	bm := ready("b1")
	c.ApplyPoll(seq, &bm, nil)
	assert.Equal(t, c.State(), detail.StateInitialLoad)

	_, _, ok := c.NextTick()
	assert.Assert(t, !ok, "no tick may fire after teardown")
}

func TestLoad_NewIDRestartsCleanly(t *testing.T) {
	c := detail.New()
	c.Load(pending("b1"), false)
	oldSeq, _, _ := c.NextTick()

	startPolling, _ := c.Load(pending("b2"), false)
	assert.Assert(t, startPolling)

	// A late response for the previous id is stale by sequence.
	bm := ready("b1")
	c.ApplyPoll(oldSeq, &bm, nil)
	assert.Equal(t, c.State(), detail.StateAwaitingSummary)
	assert.Equal(t, c.Bookmark().ID, "b2")
}

func TestReadOnly_NoPollingNoIncrementAlwaysSummary(t *testing.T) {
	c := detail.New()
	startPolling, issueIncrement := c.Load(pending("b1"), true)

	assert.Assert(t, !startPolling)
	assert.Assert(t, !issueIncrement)
	assert.Assert(t, !c.ShowContent())

	// The toggle is inert in read-only mode.
	c.ToggleView()
	assert.Assert(t, !c.ShowContent())

	// No summary yet: the view text falls back to the empty state.
	text, isSummary := c.ViewText()
	assert.Equal(t, text, "")
	assert.Assert(t, isSummary)
}
