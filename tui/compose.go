package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"lilmail/models"
	"lilmail/utils"
)

// composeForm holds the three draft inputs in form order.
type composeForm struct {
	to      textinput.Model
	subject textinput.Model
	body    textarea.Model
	focus   int
}

var formFields = []models.DraftField{models.FieldTo, models.FieldSubject, models.FieldBody}

func newComposeForm(localizer *i18n.Localizer, width int) composeForm {
	to := textinput.New()
	to.Placeholder = utils.T(localizer, "compose_to_placeholder")
	to.Prompt = ""
	to.CharLimit = 320

	subject := textinput.New()
	subject.Placeholder = utils.T(localizer, "compose_subject_placeholder")
	subject.Prompt = ""
	subject.CharLimit = 200

	body := textarea.New()
	body.Placeholder = utils.T(localizer, "compose_body_placeholder")
	body.ShowLineNumbers = false
	body.CharLimit = 10000
	body.SetHeight(8)

	f := composeForm{to: to, subject: subject, body: body}
	f.setWidth(width)
	return f
}

func (f *composeForm) setWidth(width int) {
	if width < 20 {
		width = 20
	}
	f.to.Width = width
	f.subject.Width = width
	f.body.SetWidth(width)
}

// load copies a draft into the inputs and focuses the first field.
func (f *composeForm) load(d models.Draft) tea.Cmd {
	f.to.SetValue(d.To)
	f.subject.SetValue(d.Subject)
	f.body.SetValue(d.Body)
	return f.focusField(0)
}

func (f *composeForm) reset() {
	f.to.Reset()
	f.subject.Reset()
	f.body.Reset()
	f.blurAll()
	f.focus = 0
}

func (f *composeForm) blurAll() {
	f.to.Blur()
	f.subject.Blur()
	f.body.Blur()
}

func (f *composeForm) focusField(i int) tea.Cmd {
	n := len(formFields)
	f.focus = ((i % n) + n) % n
	f.blurAll()
	switch formFields[f.focus] {
	case models.FieldTo:
		return f.to.Focus()
	case models.FieldSubject:
		return f.subject.Focus()
	default:
		return f.body.Focus()
	}
}

// field returns the focused draft field.
func (f *composeForm) field() models.DraftField {
	return formFields[f.focus]
}

func (f *composeForm) value(field models.DraftField) string {
	switch field {
	case models.FieldTo:
		return f.to.Value()
	case models.FieldSubject:
		return f.subject.Value()
	default:
		return f.body.Value()
	}
}

// update routes a message to the focused input.
func (f *composeForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.field() {
	case models.FieldTo:
		f.to, cmd = f.to.Update(msg)
	case models.FieldSubject:
		f.subject, cmd = f.subject.Update(msg)
	default:
		f.body, cmd = f.body.Update(msg)
	}
	return cmd
}

func (f composeForm) view(localizer *i18n.Localizer) string {
	return titleStyle.Render(utils.T(localizer, "compose_title")) + "\n" +
		labelStyle.Render(utils.T(localizer, "compose_to")) + "\n" + f.to.View() + "\n\n" +
		labelStyle.Render(utils.T(localizer, "compose_subject")) + "\n" + f.subject.View() + "\n\n" +
		labelStyle.Render(utils.T(localizer, "compose_body")) + "\n" + f.body.View()
}
