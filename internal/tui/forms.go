package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/skim/internal/api"
)

// loginForm holds the login view's inputs.
type loginForm struct {
	Username textinput.Model
	Password textinput.Model
	Focus    int // 0 = username, 1 = password
	Busy     bool
	Err      string
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 32
	password.EchoMode = textinput.EchoPassword

	return loginForm{Username: username, Password: password}
}

// Reset clears the form for a new attempt.
func (f *loginForm) Reset() {
	f.Username.Reset()
	f.Password.Reset()
	f.Focus = 0
	f.Busy = false
	f.Err = ""
	f.Username.Focus()
	f.Password.Blur()
}

// CycleFocus moves focus between the two inputs.
func (f *loginForm) CycleFocus() {
	f.Focus = (f.Focus + 1) % 2
	if f.Focus == 0 {
		f.Username.Focus()
		f.Password.Blur()
	} else {
		f.Password.Focus()
		f.Username.Blur()
	}
}

// Form field indexes for the bookmark form.
const (
	fieldURL = iota
	fieldTitle
	fieldTags
	fieldSource
	fieldModel
	fieldContent
	fieldCount
)

// bookmarkForm backs both the add and the edit view.
type bookmarkForm struct {
	URL     textinput.Model
	Title   textinput.Model
	Tags    textinput.Model
	Source  textinput.Model
	Content textarea.Model

	Models   []string // summary model choices offered by the server
	ModelIdx int      // 0 = server default, 1..n = Models[ModelIdx-1]

	Focus   int
	Editing string // bookmark id when editing, "" when adding
	Summary string // carried through on edit, not editable here
	Busy    bool
	Err     string
}

func newBookmarkForm() bookmarkForm {
	newInput := func(placeholder string, limit int) textinput.Model {
		input := textinput.New()
		input.Placeholder = placeholder
		input.CharLimit = limit
		input.Width = 48
		return input
	}

	content := textarea.New()
	content.Placeholder = "Raw text to summarize (instead of a URL)"
	content.SetWidth(48)
	content.SetHeight(5)
	content.CharLimit = 0

	form := bookmarkForm{
		URL:     newInput("https://...", 2048),
		Title:   newInput("Title (optional)", 256),
		Tags:    newInput("tags, comma, separated", 256),
		Source:  newInput("Source (optional)", 128),
		Content: content,
	}
	form.URL.Focus()
	return form
}

// Reset prepares the form for adding a new bookmark.
func (f *bookmarkForm) Reset() {
	f.URL.Reset()
	f.Title.Reset()
	f.Tags.Reset()
	f.Source.Reset()
	f.Content.Reset()
	f.ModelIdx = 0
	f.Focus = fieldURL
	f.Editing = ""
	f.Summary = ""
	f.Busy = false
	f.Err = ""
	f.applyFocus()
}

// Populate fills the form from a bookmark for editing.
func (f *bookmarkForm) Populate(bm api.Bookmark) {
	f.Reset()
	f.Editing = bm.ID
	f.Summary = bm.Summary
	f.URL.SetValue(bm.URL)
	f.Title.SetValue(bm.Title)
	f.Tags.SetValue(joinTags(bm.Tags))
	f.Source.SetValue(bm.SourceName)
	f.Content.SetValue(bm.Content)
}

// CycleFocus moves focus to the next field. The model field is a choice,
// not an input, and is skipped while no models are loaded. In edit mode
// the model row and the content textarea are not shown, so focus cycles
// over the visible inputs only.
func (f *bookmarkForm) CycleFocus() {
	f.Focus = (f.Focus + 1) % fieldCount
	if f.Editing != "" && f.Focus >= fieldModel {
		f.Focus = fieldURL
	}
	if f.Focus == fieldModel && len(f.Models) == 0 {
		f.Focus = fieldContent
	}
	f.applyFocus()
}

// CycleModel steps through the summary model choices.
func (f *bookmarkForm) CycleModel() {
	if len(f.Models) == 0 {
		return
	}
	f.ModelIdx = (f.ModelIdx + 1) % (len(f.Models) + 1)
}

// SelectedModel returns the chosen model name, or "" for the server
// default.
func (f *bookmarkForm) SelectedModel() string {
	if f.ModelIdx == 0 || f.ModelIdx > len(f.Models) {
		return ""
	}
	return f.Models[f.ModelIdx-1]
}

func (f *bookmarkForm) applyFocus() {
	f.URL.Blur()
	f.Title.Blur()
	f.Tags.Blur()
	f.Source.Blur()
	f.Content.Blur()

	switch f.Focus {
	case fieldURL:
		f.URL.Focus()
	case fieldTitle:
		f.Title.Focus()
	case fieldTags:
		f.Tags.Focus()
	case fieldSource:
		f.Source.Focus()
	case fieldContent:
		f.Content.Focus()
	}
}

func joinTags(tags []string) string {
	out := ""
	for i, tag := range tags {
		if i > 0 {
			out += ", "
		}
		out += tag
	}
	return out
}
