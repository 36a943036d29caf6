package tui

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/skim/internal/api"
)

func TestEditFormFocusSkipsHiddenFields(t *testing.T) {
	f := newBookmarkForm()
	f.Models = []string{"fast", "thorough"}
	f.Populate(api.Bookmark{ID: "b1", Title: "one", URL: "https://example.com"})

	// Edit mode hides the model row and the content textarea; a full lap
	// of tab presses must only ever land on the visible inputs.
	for i := 0; i < fieldCount*2; i++ {
		f.CycleFocus()
		assert.Assert(t, f.Focus != fieldModel,
			"focus landed on the hidden model row after %d tabs", i+1)
		assert.Assert(t, f.Focus != fieldContent,
			"focus landed on the hidden content area after %d tabs", i+1)
	}
}

func TestAddFormFocusReachesContent(t *testing.T) {
	f := newBookmarkForm()
	f.Reset()

	seen := map[int]bool{}
	for i := 0; i < fieldCount; i++ {
		f.CycleFocus()
		seen[f.Focus] = true
	}
	assert.Assert(t, seen[fieldContent], "add mode must still reach the content area")
	// No models loaded, so the model row is skipped in add mode too.
	assert.Assert(t, !seen[fieldModel])
}

func TestSelectedModelCycles(t *testing.T) {
	f := newBookmarkForm()
	f.Models = []string{"fast", "thorough"}

	assert.Equal(t, f.SelectedModel(), "")
	f.CycleModel()
	assert.Equal(t, f.SelectedModel(), "fast")
	f.CycleModel()
	assert.Equal(t, f.SelectedModel(), "thorough")
	f.CycleModel()
	assert.Equal(t, f.SelectedModel(), "")
}
