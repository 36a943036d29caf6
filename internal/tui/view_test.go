package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"

	"github.com/nikbrunner/skim/internal/api"
)

func TestDetailShowsContentWhileSummarizing(t *testing.T) {
	a := newTestApp(t)
	a.publicMode = false
	bm := api.Bookmark{
		ID:      "b1",
		Title:   "one",
		Content: "the scraped article body",
		Summary: api.SummaryPending,
	}
	fill(&a, []api.Bookmark{bm}, 1, 1)

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	opened := model.(App)
	assert.Assert(t, opened.detail.Polling())

	body := opened.renderDetailBody()
	assert.Assert(t, strings.Contains(body, "Summary is being generated"))
	// The pending indicator sits on top of the content, not in its place.
	assert.Assert(t, strings.Contains(body, "the scraped article body"))
}

func TestTruncatePreservesMultibyteRunes(t *testing.T) {
	korean := strings.Repeat("요약 생성 중", 10)
	out := truncate(korean, 12)

	assert.Assert(t, utf8.ValidString(out))
	assert.Assert(t, strings.HasSuffix(out, "…"))
	assert.Equal(t, len([]rune(out)), 12)

	short := "plain"
	assert.Equal(t, truncate(short, 12), "plain")
}
