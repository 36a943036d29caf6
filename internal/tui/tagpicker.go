package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"
)

// tagPicker lets the user pick a tag filter from the tags visible on the
// current page plus the already-active filters. Typing narrows the
// candidates with fuzzy matching; enter toggles the selected tag.
type tagPicker struct {
	Input      textinput.Model
	Candidates []string // all known tags, sorted
	Filtered   []string // candidates matching the current query
	Cursor     int
}

func newTagPicker() tagPicker {
	input := textinput.New()
	input.Placeholder = "Filter tags..."
	input.CharLimit = 64
	input.Width = 32
	return tagPicker{Input: input}
}

// SetCandidates deduplicates and sorts the candidate tags and resets the
// filter state.
func (p *tagPicker) SetCandidates(tags []string) {
	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		unique = append(unique, tag)
	}
	sort.Strings(unique)

	p.Candidates = unique
	p.Filtered = unique
	p.Cursor = 0
	p.Input.Reset()
}

// Refilter recomputes Filtered from the current query.
func (p *tagPicker) Refilter() {
	query := p.Input.Value()
	if query == "" {
		p.Filtered = p.Candidates
	} else {
		matches := fuzzy.Find(query, p.Candidates)
		filtered := make([]string, len(matches))
		for i, m := range matches {
			filtered[i] = p.Candidates[m.Index]
		}
		p.Filtered = filtered
	}
	if p.Cursor >= len(p.Filtered) {
		p.Cursor = 0
	}
}

// Selected returns the tag under the cursor, or "" when nothing matches.
func (p *tagPicker) Selected() string {
	if len(p.Filtered) == 0 || p.Cursor >= len(p.Filtered) {
		return ""
	}
	return p.Filtered[p.Cursor]
}

func (p *tagPicker) MoveUp() {
	if p.Cursor > 0 {
		p.Cursor--
	}
}

func (p *tagPicker) MoveDown() {
	if p.Cursor < len(p.Filtered)-1 {
		p.Cursor++
	}
}
