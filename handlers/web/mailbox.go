// handlers/web/mailbox.go
package web

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"lilmail/mailbox"
	"lilmail/middleware"
	"lilmail/models"
	"lilmail/utils"
)

// Notice kinds shown once after a redirect
const (
	noticeSent    = "sent"
	noticeReply   = "reply"
	noticeDeleted = "deleted"
	noticeError   = "error"
)

const noticeTTL = time.Minute

type MailboxHandler struct {
	notices *utils.MemoryCache
}

func NewMailboxHandler() *MailboxHandler {
	notices := utils.NewMemoryCache()
	notices.StartCleanup(noticeTTL)
	return &MailboxHandler{
		notices: notices,
	}
}

// Stop ends the notice sweeper
func (h *MailboxHandler) Stop() {
	h.notices.Stop()
}

// Done is closed once Stop has been called
func (h *MailboxHandler) Done() <-chan struct{} {
	return h.notices.Done()
}

// HandleIndex renders the three-pane page for the current mailbox state
func (h *MailboxHandler) HandleIndex(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, h.popNotice(c))
}

// HandleFolder switches the folder view and renders the page
func (h *MailboxHandler) HandleFolder(c *fiber.Ctx) error {
	folder, err := models.ParseFolder(c.Params("name"))
	if err != nil {
		return utils.BadRequestError("Unknown folder", err)
	}
	middleware.Mailbox(c).SetFolder(folder)
	return h.render(c, fiber.StatusOK, h.popNotice(c))
}

// HandleSelect opens a message for reading
func (h *MailboxHandler) HandleSelect(c *fiber.Ctx) error {
	id, err := messageID(c)
	if err != nil {
		return err
	}
	middleware.Mailbox(c).SelectMessage(id)
	return h.done(c)
}

// HandleStar toggles the star of a message without opening it
func (h *MailboxHandler) HandleStar(c *fiber.Ctx) error {
	id, err := messageID(c)
	if err != nil {
		return err
	}
	middleware.Mailbox(c).ToggleStar(id)
	return h.done(c)
}

// HandleDelete removes a message
func (h *MailboxHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := messageID(c)
	if err != nil {
		return err
	}
	if ev := middleware.Mailbox(c).DeleteMessage(id); ev.Kind == mailbox.EventMessageDeleted {
		h.setNotice(c, noticeDeleted)
	}
	return h.done(c)
}

// HandleReply surfaces the reply placeholder notice
func (h *MailboxHandler) HandleReply(c *fiber.Ctx) error {
	id, err := messageID(c)
	if err != nil {
		return err
	}
	if ev := middleware.Mailbox(c).ReplyTo(id); ev.Kind == mailbox.EventReplyRequested {
		h.setNotice(c, noticeReply)
	}
	return h.done(c)
}

// HandleCompose opens the compose pane
func (h *MailboxHandler) HandleCompose(c *fiber.Ctx) error {
	middleware.Mailbox(c).BeginCompose()
	return h.done(c)
}

// HandleCancel closes the compose pane
func (h *MailboxHandler) HandleCancel(c *fiber.Ctx) error {
	middleware.Mailbox(c).CancelCompose()
	return h.done(c)
}

// HandleSend copies the form into the draft and sends it.
// An incomplete draft re-renders the form with 422 and keeps what was typed.
func (h *MailboxHandler) HandleSend(c *fiber.Ctx) error {
	m := middleware.Mailbox(c)

	fields := []models.DraftField{models.FieldTo, models.FieldSubject, models.FieldBody}
	for _, field := range fields {
		if _, err := m.UpdateDraft(field, c.FormValue(string(field))); err != nil {
			return utils.BadRequestError("Invalid draft", err)
		}
	}

	if _, err := m.SendDraft(); err != nil {
		if errors.Is(err, mailbox.ErrIncompleteDraft) {
			return h.render(c, fiber.StatusUnprocessableEntity, noticeError)
		}
		return utils.InternalServerError("Failed to send message", err)
	}

	h.setNotice(c, noticeSent)
	return h.done(c)
}

// done finishes a state change: HTMX callers get the refreshed panes, browsers a redirect
func (h *MailboxHandler) done(c *fiber.Ctx) error {
	if c.Get("HX-Request") != "" {
		return h.render(c, fiber.StatusOK, h.popNotice(c))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *MailboxHandler) render(c *fiber.Ctx, status int, notice string) error {
	localizer := middleware.Localizer(c)

	data := fiber.Map{
		"View":       middleware.Mailbox(c).View(),
		"Folders":    models.Folders,
		"Localizer":  localizer,
		"Lang":       middleware.Lang(c),
		"CSRFToken":  c.Locals("csrf"),
		"NoticeKind": notice,
	}
	switch notice {
	case noticeSent:
		data["Notice"] = utils.T(localizer, "message_sent_success")
	case noticeReply:
		data["Notice"] = utils.T(localizer, "message_reply_notice")
	case noticeDeleted:
		data["Notice"] = utils.T(localizer, "message_deleted")
	case noticeError:
		data["Notice"] = utils.T(localizer, "message_incomplete_draft")
	}

	c.Status(status)
	if c.Get("HX-Request") != "" {
		// content pane swapped in place, list and sidebar out of band
		data["OOB"] = true
		return c.Render("partials/update", data, "")
	}
	return c.Render("mailbox", data)
}

func (h *MailboxHandler) setNotice(c *fiber.Ctx, kind string) {
	h.notices.Set(middleware.Mailbox(c).ID(), kind, noticeTTL)
}

func (h *MailboxHandler) popNotice(c *fiber.Ctx) string {
	key := middleware.Mailbox(c).ID()
	v, ok := h.notices.Get(key)
	if !ok {
		return ""
	}
	h.notices.Delete(key)
	kind, _ := v.(string)
	return kind
}

func messageID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.BadRequestError("Invalid message id", err)
	}
	return id, nil
}
