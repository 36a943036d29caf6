package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/skim/internal/api"
)

// updateLogin handles keys on the login form.
func (a App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.view = viewList
		return a, nil

	case "tab", "shift+tab", "up", "down":
		a.login.CycleFocus()
		return a, nil

	case "enter":
		if a.login.Busy {
			return a, nil
		}
		username := trimmed(a.login.Username.Value())
		password := a.login.Password.Value()
		if username == "" || password == "" {
			a.login.Err = "Username and password are required."
			return a, nil
		}
		a.login.Err = ""
		a.login.Busy = true
		return a, a.loginCmd(username, password)
	}

	var cmd tea.Cmd
	if a.login.Focus == 0 {
		a.login.Username, cmd = a.login.Username.Update(msg)
	} else {
		a.login.Password, cmd = a.login.Password.Update(msg)
	}
	return a, cmd
}

// updateForm handles keys on the add/edit form.
func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.notice = ""
		a.view = viewDetailOrList(a)
		return a, nil

	case "tab", "shift+tab":
		a.form.CycleFocus()
		return a, nil

	case "enter":
		// The content textarea keeps enter for newlines; everywhere else
		// it submits, and on the model row it cycles the choice.
		switch a.form.Focus {
		case fieldModel:
			a.form.CycleModel()
			return a, nil
		case fieldContent:
			break
		default:
			return a.submitForm()
		}

	case "ctrl+s":
		return a.submitForm()
	}

	var cmd tea.Cmd
	switch a.form.Focus {
	case fieldURL:
		a.form.URL, cmd = a.form.URL.Update(msg)
	case fieldTitle:
		a.form.Title, cmd = a.form.Title.Update(msg)
	case fieldTags:
		a.form.Tags, cmd = a.form.Tags.Update(msg)
	case fieldSource:
		a.form.Source, cmd = a.form.Source.Update(msg)
	case fieldContent:
		a.form.Content, cmd = a.form.Content.Update(msg)
	}
	return a, cmd
}

// submitForm validates the form and issues the create or update call.
func (a App) submitForm() (tea.Model, tea.Cmd) {
	if a.form.Busy {
		return a, nil
	}
	a.form.Err = ""
	a.notice = ""

	rawURL := trimmed(a.form.URL.Value())
	content := trimmed(a.form.Content.Value())
	tags := api.ParseTags(a.form.Tags.Value())

	if a.form.Editing != "" {
		url := rawURL
		if url != "" {
			normalized, err := api.NormalizeURL(url)
			if err != nil {
				a.form.Err = errorMessage(err)
				return a, nil
			}
			url = normalized
		}
		a.form.Busy = true
		return a, a.updateCmd(a.form.Editing, api.UpdateBookmarkParams{
			Title:      trimmed(a.form.Title.Value()),
			URL:        url,
			SourceName: trimmed(a.form.Source.Value()),
			Summary:    a.form.Summary,
			Tags:       tags,
		})
	}

	if rawURL == "" && content == "" {
		a.form.Err = errorMessage(api.ErrMissingOrigin)
		return a, nil
	}
	url := ""
	if rawURL != "" {
		normalized, err := api.NormalizeURL(rawURL)
		if err != nil {
			a.form.Err = errorMessage(err)
			return a, nil
		}
		url = normalized
	}
	a.form.Busy = true
	return a, a.createCmd(api.CreateBookmarkParams{
		URL:          url,
		Content:      content,
		Title:        trimmed(a.form.Title.Value()),
		Tags:         tags,
		SourceName:   trimmed(a.form.Source.Value()),
		SummaryModel: a.form.SelectedModel(),
	})
}

// updateShare handles the share target menu.
func (a App) updateShare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bm := a.shareTarget
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc", "q":
		a.view = viewDetailOrList(a)
		return a, nil

	case "u":
		// Toggle user-wide visibility.
		public := !bm.IsPublic
		return a, a.shareCmd(bm.ID, api.ShareTargetUsers, &public)

	case "s":
		return a, a.shareCmd(bm.ID, api.ShareTargetSlack, nil)

	case "n":
		return a, a.shareCmd(bm.ID, api.ShareTargetNotion, nil)
	}
	return a, nil
}

// updateTagPicker handles the fuzzy tag filter picker.
func (a App) updateTagPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.view = viewList
		return a, nil

	case "up", "ctrl+p":
		a.picker.MoveUp()
		return a, nil

	case "down", "ctrl+n":
		a.picker.MoveDown()
		return a, nil

	case "enter":
		tag := a.picker.Selected()
		if tag == "" {
			tag = trimmed(a.picker.Input.Value())
		}
		if tag == "" {
			return a, nil
		}
		a.list.ToggleTag(tag)
		a.cursor = 0
		a.view = viewList
		return a, a.fetchListCmd()
	}

	var cmd tea.Cmd
	a.picker.Input, cmd = a.picker.Input.Update(msg)
	a.picker.Refilter()
	return a, cmd
}

// updateConfirmDelete handles the delete confirmation prompt.
func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return a, a.deleteCmd(a.confirmTarget.ID)
	case "ctrl+c":
		return a, tea.Quit
	default:
		a.view = viewDetailOrList(a)
		return a, nil
	}
}
