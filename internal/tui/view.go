package tui

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/skim/internal/api"
)

// View implements tea.Model.
func (a App) View() string {
	var body string
	switch a.view {
	case viewLogin:
		body = a.renderLogin()
	case viewDetail:
		body = a.renderDetail()
	case viewForm:
		body = a.renderForm()
	case viewShare:
		body = a.renderShare()
	case viewTagPicker:
		body = a.renderTagPicker()
	case viewConfirmDelete:
		body = a.renderConfirmDelete()
	case viewHelp:
		body = a.renderHelp()
	default:
		body = a.renderList()
	}
	return a.styles.App.Render(body)
}

func (a App) renderList() string {
	var b strings.Builder

	title := "skim"
	if a.publicMode {
		title += " · public bookmarks"
	} else if u := a.session.User(); u != nil {
		title += " · " + u.Username
	}
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")

	if tags := a.list.Tags(); len(tags) > 0 {
		b.WriteString(a.styles.Label.Render("filters: "))
		for i, tag := range tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(a.styles.TagActive.Render("#" + tag))
		}
		b.WriteString("\n\n")
	}

	items := a.list.Items()
	switch {
	case a.list.Loading() && len(items) == 0:
		b.WriteString(a.styles.Empty.Render("loading…"))
		b.WriteString("\n")
	case a.list.Err() != nil:
		b.WriteString(a.styles.Error.Render(errorMessage(a.list.Err())))
		b.WriteString("\n")
	case len(items) == 0:
		b.WriteString(a.styles.Empty.Render(a.emptyText()))
		b.WriteString("\n")
	default:
		for i, bm := range items {
			b.WriteString(a.renderItem(bm, i == a.cursor))
		}
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a App) emptyText() string {
	if len(a.list.Tags()) > 0 {
		return "No bookmarks match these tags."
	}
	if a.publicMode {
		return "No public bookmarks yet."
	}
	return "No bookmarks yet. Press a to add one."
}

func (a App) renderItem(bm api.Bookmark, selected bool) string {
	style := a.styles.Item
	marker := "  "
	if selected {
		style = a.styles.ItemSelected
		marker = "> "
	}

	title := bm.Title
	if title == "" {
		title = bm.URL
	}
	if title == "" {
		title = "(untitled)"
	}

	line := marker + style.Render(title)
	if !bm.SummaryReady() {
		line += " " + a.styles.Pending.Render("…summarizing")
	}
	if bm.IsPublic {
		line += " " + a.styles.Tag.Render("[public]")
	}
	line += "\n"

	meta := "  "
	if bm.URL != "" {
		meta += a.styles.URL.Render(truncate(bm.URL, a.width-20)) + " "
	}
	for _, tag := range bm.Tags {
		if a.list.HasTag(tag) {
			meta += a.styles.TagActive.Render("#"+tag) + " "
		} else {
			meta += a.styles.Tag.Render("#"+tag) + " "
		}
	}
	meta += a.styles.Date.Render(bm.CreatedAt.Format("2006-01-02"))
	if bm.ReadCount > 0 {
		meta += a.styles.Date.Render(fmt.Sprintf(" · read %d", bm.ReadCount))
	}
	return line + meta + "\n"
}

func (a App) renderFooter() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("page %d/%d · %d bookmarks",
		a.list.Page(), a.list.TotalPages(), a.list.Total()))
	if a.stats != nil && a.stats.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d events logged", a.stats.Total))
	}
	footer := a.styles.Footer.Render(strings.Join(parts, " · "))

	if a.notice != "" {
		footer += "\n" + a.styles.Notice.Render(a.notice)
	}
	if a.status != "" {
		footer += "\n" + a.styles.Notice.Render(a.status)
	}

	hint := "j/k move · enter open · [ ] page · r refresh · ? help · q quit"
	if a.publicMode {
		hint = "L login · " + hint
	} else {
		hint = "a add · t tags · " + hint
	}
	return footer + "\n" + a.styles.Help.Render(hint)
}

func (a App) renderLogin() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("skim · login"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Label.Render("username") + "\n")
	b.WriteString(a.login.Username.View() + "\n\n")
	b.WriteString(a.styles.Label.Render("password") + "\n")
	b.WriteString(a.login.Password.View() + "\n\n")
	if a.login.Busy {
		b.WriteString(a.styles.Pending.Render("signing in…") + "\n")
	}
	if a.login.Err != "" {
		b.WriteString(a.styles.Error.Render(a.login.Err) + "\n")
	}
	b.WriteString("\n" + a.styles.Help.Render("tab switch · enter submit · esc cancel"))
	return b.String()
}

func (a App) renderDetail() string {
	bm := a.detail.Bookmark()
	var b strings.Builder

	title := bm.Title
	if title == "" {
		title = bm.URL
	}
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n")
	if bm.URL != "" {
		b.WriteString(a.styles.URL.Render(bm.URL) + "\n")
	}

	var meta []string
	for _, tag := range bm.Tags {
		meta = append(meta, a.styles.Tag.Render("#"+tag))
	}
	meta = append(meta, a.styles.Date.Render(bm.CreatedAt.Format("2006-01-02")))
	if bm.SourceName != "" {
		meta = append(meta, a.styles.Date.Render(bm.SourceName))
	}
	if bm.ReadCount > 0 {
		meta = append(meta, a.styles.Date.Render(fmt.Sprintf("read %d", bm.ReadCount)))
	}
	b.WriteString(strings.Join(meta, " ") + "\n\n")

	b.WriteString(a.renderDetailBody())
	b.WriteString("\n")

	hint := "o toggle view · j/k scroll · Y yank url · esc back"
	if !a.publicMode {
		hint = "e edit · d delete · s share · " + hint
	}
	if a.status != "" {
		b.WriteString(a.styles.Notice.Render(a.status) + "\n")
	}
	b.WriteString(a.styles.Help.Render(hint))
	return b.String()
}

func (a App) renderDetailBody() string {
	// While the summary is pending the content pane stays readable; only
	// an indicator line is added on top.
	pending := ""
	if a.detail.Polling() {
		pending = a.styles.Pending.Render("Summary is being generated…") + "\n\n"
	}

	text, isSummary := a.detail.ViewText()
	if text == "" {
		if pending != "" {
			return pending + a.styles.Empty.Render("This pane will update on its own.")
		}
		return a.styles.Empty.Render("Nothing to show.")
	}

	var rendered string
	if isSummary {
		rendered = renderMarkdown(text, a.width-4)
	} else if looksLikeHTML(text) {
		rendered = htmlToText(text)
	} else {
		rendered = text
	}

	label := a.styles.Label.Render("content")
	if isSummary {
		label = a.styles.Label.Render("summary")
	}
	return pending + label + "\n" + a.scrolled(rendered)
}

// scrolled drops a.scroll lines from the top of the pane and clips it to
// the visible height.
func (a App) scrolled(text string) string {
	lines := strings.Split(text, "\n")
	offset := a.scroll
	if offset >= len(lines) {
		offset = len(lines) - 1
	}
	if offset < 0 {
		offset = 0
	}
	lines = lines[offset:]

	visible := a.height - 10
	if visible < 5 {
		visible = 5
	}
	if len(lines) > visible {
		lines = lines[:visible]
	}
	return strings.Join(lines, "\n")
}

func (a App) renderForm() string {
	var b strings.Builder
	if a.form.Editing != "" {
		b.WriteString(a.styles.Title.Render("skim · edit bookmark"))
	} else {
		b.WriteString(a.styles.Title.Render("skim · add bookmark"))
	}
	b.WriteString("\n\n")

	b.WriteString(a.styles.Label.Render("url") + "\n" + a.form.URL.View() + "\n")
	b.WriteString(a.styles.Label.Render("title") + "\n" + a.form.Title.View() + "\n")
	b.WriteString(a.styles.Label.Render("tags (comma separated)") + "\n" + a.form.Tags.View() + "\n")
	b.WriteString(a.styles.Label.Render("source") + "\n" + a.form.Source.View() + "\n")

	if a.form.Editing == "" && len(a.form.Models) > 0 {
		model := a.form.SelectedModel()
		if model == "" {
			model = "server default"
		}
		label := a.styles.Label.Render("summary model")
		if a.form.Focus == fieldModel {
			model = "< " + model + " >"
		}
		b.WriteString(label + "\n" + model + "\n")
	}

	if a.form.Editing == "" {
		b.WriteString(a.styles.Label.Render("content (instead of a url)") + "\n")
		b.WriteString(a.form.Content.View() + "\n")
	}

	b.WriteString("\n")
	if a.form.Busy {
		b.WriteString(a.styles.Pending.Render("saving…") + "\n")
	}
	if a.notice != "" {
		b.WriteString(a.styles.Notice.Render(a.notice) + "\n")
	}
	if a.form.Err != "" {
		b.WriteString(a.styles.Error.Render(a.form.Err) + "\n")
	}
	b.WriteString(a.styles.Help.Render("tab next field · enter save · ctrl+s save from content · esc cancel"))
	return b.String()
}

func (a App) renderShare() string {
	bm := a.shareTarget
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("share bookmark"))
	b.WriteString("\n\n")
	title := bm.Title
	if title == "" {
		title = bm.URL
	}
	b.WriteString(a.styles.Item.Render(title) + "\n\n")

	if bm.IsPublic {
		b.WriteString("u  make private again\n")
	} else {
		b.WriteString("u  share with all users\n")
	}
	b.WriteString("s  send summary to Slack\n")
	b.WriteString("n  send summary to Notion\n\n")
	b.WriteString(a.styles.Help.Render("esc cancel"))
	return b.String()
}

func (a App) renderTagPicker() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("filter by tag"))
	b.WriteString("\n\n")
	b.WriteString(a.picker.Input.View() + "\n\n")

	if len(a.picker.Filtered) == 0 {
		b.WriteString(a.styles.Empty.Render("no matching tags") + "\n")
	}
	for i, tag := range a.picker.Filtered {
		marker := "  "
		style := a.styles.Tag
		if i == a.picker.Cursor {
			marker = "> "
			style = a.styles.TagActive
		}
		if a.list.HasTag(tag) {
			tag += " ✓"
		}
		b.WriteString(marker + style.Render("#"+tag) + "\n")
	}

	b.WriteString("\n" + a.styles.Help.Render("enter toggle filter · esc close"))
	return b.String()
}

func (a App) renderConfirmDelete() string {
	title := a.confirmTarget.Title
	if title == "" {
		title = a.confirmTarget.URL
	}
	return a.styles.Title.Render("delete bookmark?") + "\n\n" +
		a.styles.Item.Render(title) + "\n\n" +
		a.styles.Help.Render("y delete · any other key cancel")
}

func (a App) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"j / k", "move down / up"},
		{"gg / G", "jump to top / bottom"},
		{"enter / l", "open bookmark"},
		{"esc / h", "back to list"},
		{"[ / ]", "previous / next page"},
		{"a", "add a bookmark"},
		{"e", "edit the bookmark"},
		{"d", "delete the bookmark"},
		{"s", "share the bookmark"},
		{"t", "filter by tag"},
		{"c", "clear tag filters"},
		{"o", "toggle summary / content"},
		{"r", "refresh the list"},
		{"Y", "copy the URL"},
		{"L", "log in"},
		{"X", "log out"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("skim · keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-12s %s\n",
			a.styles.Label.Render(row.key), row.desc))
	}
	b.WriteString("\n" + a.styles.Help.Render("any key to close"))
	return b.String()
}

// truncate shortens s to at most max runes. Titles and URLs are routinely
// multibyte, so byte slicing would split characters.
func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
