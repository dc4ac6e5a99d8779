// Package tui is a terminal client over a single mailbox session.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"lilmail/mailbox"
	"lilmail/models"
	"lilmail/utils"
)

const (
	listWidth     = 44
	previewLength = 36
)

// Model is the Bubble Tea model for the mailbox screen.
type Model struct {
	session   *mailbox.Session
	localizer *i18n.Localizer
	keys      *KeyMap
	help      help.Model
	form      composeForm
	cursor    int
	notice    string
	failed    bool
	width     int
	height    int
}

// New creates a model driving the given session.
func New(session *mailbox.Session, localizer *i18n.Localizer) Model {
	return Model{
		session:   session,
		localizer: localizer,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		form:      newComposeForm(localizer, 40),
		width:     100,
		height:    30,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Cursor returns the index of the highlighted row in the current folder.
func (m Model) Cursor() int {
	return m.cursor
}

// Notice returns the last status line message.
func (m Model) Notice() string {
	return m.notice
}

// Update handles messages for the mailbox screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.form.setWidth(m.detailWidth() - 4)
		return m, nil

	case tea.KeyMsg:
		if m.session.State().Composing() {
			return m.handleComposeKey(msg)
		}
		return m.handleBrowseKey(msg)
	}

	if m.session.State().Composing() {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.session.View()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(v.Messages)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Open):
		if id, ok := m.current(v); ok {
			m.session.SelectMessage(id)
			m.notice = ""
		}

	case key.Matches(msg, m.keys.Star):
		if id, ok := m.current(v); ok {
			m.session.ToggleStar(id)
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.current(v); ok {
			if ev := m.session.DeleteMessage(id); ev.Kind == mailbox.EventMessageDeleted {
				m.setNotice(utils.T(m.localizer, "message_deleted"), false)
			}
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Reply):
		id, ok := m.current(v)
		if v.Selected != nil {
			id, ok = v.Selected.ID, true
		}
		if ok {
			if ev := m.session.ReplyTo(id); ev.Kind == mailbox.EventReplyRequested {
				m.setNotice(utils.T(m.localizer, "message_reply_notice"), false)
			}
		}

	case key.Matches(msg, m.keys.Compose):
		m.session.BeginCompose()
		m.notice = ""
		return m, m.form.load(m.session.State().Draft())

	case key.Matches(msg, m.keys.Inbox):
		m.switchFolder(models.FolderInbox)
	case key.Matches(msg, m.keys.Starred):
		m.switchFolder(models.FolderStarred)
	case key.Matches(msg, m.keys.Sent):
		m.switchFolder(models.FolderSent)
	}

	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.session.CancelCompose()
		m.form.blurAll()
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.focusField(m.form.focus + 1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.focusField(m.form.focus - 1)

	case key.Matches(msg, m.keys.Send):
		return m.send()
	}

	field := m.form.field()
	cmd := m.form.update(msg)
	if value := m.form.value(field); value != m.session.State().Draft().Get(field) {
		if _, err := m.session.UpdateDraft(field, value); err != nil {
			utils.Log.Error("Failed to update draft: %v", err)
		}
	}
	return m, cmd
}

func (m Model) send() (tea.Model, tea.Cmd) {
	ev, err := m.session.SendDraft()
	if err != nil {
		var verr *mailbox.ValidationError
		if errors.As(err, &verr) {
			labels := make([]string, len(verr.Missing))
			for i, f := range verr.Missing {
				labels[i] = strings.TrimSuffix(utils.T(m.localizer, "compose_"+string(f)), ":")
			}
			m.setNotice(utils.T(m.localizer, "message_incomplete_draft")+" · "+
				utils.TWithData(m.localizer, "message_missing_fields", map[string]interface{}{
					"Fields": strings.Join(labels, ", "),
				}), true)
			for i, f := range formFields {
				if f == verr.Missing[0] {
					return m, m.form.focusField(i)
				}
			}
			return m, nil
		}
		m.setNotice(utils.T(m.localizer, "message_error"), true)
		return m, nil
	}

	utils.Log.Debug("Sent message %d from terminal client", ev.MessageID)
	m.form.reset()
	m.cursor = 0
	m.setNotice(utils.T(m.localizer, "message_sent_success"), false)
	return m, nil
}

func (m *Model) switchFolder(f models.Folder) {
	m.session.SetFolder(f)
	m.cursor = 0
	m.notice = ""
}

func (m *Model) setNotice(text string, failed bool) {
	m.notice = text
	m.failed = failed
}

// current returns the id under the cursor.
func (m Model) current(v mailbox.View) (int64, bool) {
	if m.cursor < 0 || m.cursor >= len(v.Messages) {
		return 0, false
	}
	return v.Messages[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := len(m.session.View().Messages)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) detailWidth() int {
	w := m.width - listWidth - 4
	if w < 24 {
		w = 24
	}
	return w
}

// View renders the mailbox screen.
func (m Model) View() string {
	v := m.session.View()

	header := m.renderHeader(v)
	bodyHeight := m.height - 3
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	list := panelStyle.
		Width(listWidth).
		Height(bodyHeight).
		Render(m.renderList(v))

	detail := panelStyle.
		Width(m.detailWidth()).
		Height(bodyHeight).
		Render(m.renderDetail(v))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, list, detail),
		m.renderStatusBar(v),
	)
}

func (m Model) renderHeader(v mailbox.View) string {
	var tabs []string
	for i, f := range models.Folders {
		label := fmt.Sprintf("%d %s", i+1, utils.T(m.localizer, f.LabelKey()))
		if f == models.FolderInbox && v.UnreadCount > 0 {
			label += fmt.Sprintf(" (%d)", v.UnreadCount)
		}
		if f == v.Folder {
			label = "[" + label + "]"
		}
		tabs = append(tabs, label)
	}
	return headerStyle.Width(m.width).Render(
		"📧 " + utils.T(m.localizer, "app_name") + "  " + strings.Join(tabs, "  "),
	)
}

func (m Model) renderList(v mailbox.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(utils.T(m.localizer, v.Folder.LabelKey()) +
		" · " + utils.TPlural(m.localizer, "message_count", len(v.Messages))))
	b.WriteString("\n")

	if len(v.Messages) == 0 {
		b.WriteString(previewStyle.Render(utils.T(m.localizer, "email_empty_folder")))
		return b.String()
	}

	for i, msg := range v.Messages {
		star := "☆"
		if msg.Starred {
			star = starStyle.Render("★")
		}
		from := msg.From
		if !msg.Read {
			from = unreadStyle.Render("● " + from)
		}
		preview := []rune(utils.PlainText(msg.Preview))
		if len(preview) > previewLength {
			preview = append(preview[:previewLength], '…')
		}

		row := fmt.Sprintf("%s %s  %s\n  %s\n  %s", star, from, previewStyle.Render(msg.Date),
			msg.Subject, previewStyle.Render(string(preview)))

		if i == m.cursor {
			b.WriteString(cursorStyle.Render(row))
		} else {
			b.WriteString(itemStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetail(v mailbox.View) string {
	if v.Composing {
		return m.form.view(m.localizer)
	}
	if v.Selected == nil {
		return previewStyle.Render("📧 " + utils.T(m.localizer, "email_select_prompt"))
	}

	msg := v.Selected
	star := "☆"
	if msg.Starred {
		star = starStyle.Render("★")
	}
	meta := labelStyle.Render(utils.T(m.localizer, "email_from")) + " " + msg.From + "  " +
		previewStyle.Render(msg.Date) + "  " + star

	body := lipgloss.NewStyle().Width(m.detailWidth() - 4).Render(strings.Join(msg.Paragraphs(), "\n"))
	return titleStyle.Render(msg.Subject) + "\n" + meta + "\n\n" + body
}

func (m Model) renderStatusBar(v mailbox.View) string {
	hints := m.help.View(m.keys)
	if v.Composing {
		hints = m.help.View(composeHelp{m.keys})
	}
	if m.notice != "" {
		style := noticeStyle
		if m.failed {
			style = errorStyle
		}
		hints = style.Render(m.notice) + "  " + hints
	}
	return statusBarStyle.Width(m.width).Render(hints)
}
