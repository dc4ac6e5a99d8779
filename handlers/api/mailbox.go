package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lilmail/mailbox"
	"lilmail/middleware"
	"lilmail/models"
	"lilmail/utils"
)

// MailboxHandler exposes the mailbox operations as JSON
type MailboxHandler struct{}

// NewMailboxHandler creates a new mailbox API handler
func NewMailboxHandler() *MailboxHandler {
	return &MailboxHandler{}
}

// DraftRequest represents a single draft field update
type DraftRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// OperationResponse is returned by every mutating endpoint
type OperationResponse struct {
	Event mailbox.Event `json:"event"`
	View  mailbox.View  `json:"view"`
}

// GetView returns the projection for the current folder
func (h *MailboxHandler) GetView(c *fiber.Ctx) error {
	return c.JSON(middleware.Mailbox(c).View())
}

// SelectMessage opens a message and marks it read
func (h *MailboxHandler) SelectMessage(c *fiber.Ctx) error {
	id, err := parseMessageID(c)
	if err != nil {
		return err
	}
	return respond(c, middleware.Mailbox(c).SelectMessage(id))
}

// ToggleStar flips the starred flag
func (h *MailboxHandler) ToggleStar(c *fiber.Ctx) error {
	id, err := parseMessageID(c)
	if err != nil {
		return err
	}
	return respond(c, middleware.Mailbox(c).ToggleStar(id))
}

// DeleteMessage removes a message
func (h *MailboxHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseMessageID(c)
	if err != nil {
		return err
	}
	return respond(c, middleware.Mailbox(c).DeleteMessage(id))
}

// ReplyTo requests a reply without changing state
func (h *MailboxHandler) ReplyTo(c *fiber.Ctx) error {
	id, err := parseMessageID(c)
	if err != nil {
		return err
	}
	return respond(c, middleware.Mailbox(c).ReplyTo(id))
}

// BeginCompose enters compose mode
func (h *MailboxHandler) BeginCompose(c *fiber.Ctx) error {
	return respond(c, middleware.Mailbox(c).BeginCompose())
}

// CancelCompose leaves compose mode
func (h *MailboxHandler) CancelCompose(c *fiber.Ctx) error {
	return respond(c, middleware.Mailbox(c).CancelCompose())
}

// UpdateDraft sets one draft field
func (h *MailboxHandler) UpdateDraft(c *fiber.Ctx) error {
	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request", err)
	}

	field, err := models.ParseDraftField(req.Field)
	if err != nil {
		return utils.BadRequestError("Invalid draft field", err)
	}

	ev, err := middleware.Mailbox(c).UpdateDraft(field, req.Value)
	if err != nil {
		return utils.BadRequestError("Invalid draft field", err)
	}
	return respond(c, ev)
}

// SendDraft sends the draft; an incomplete draft answers 422 with the missing fields
func (h *MailboxHandler) SendDraft(c *fiber.Ctx) error {
	ev, err := middleware.Mailbox(c).SendDraft()
	if err != nil {
		var verr *mailbox.ValidationError
		if errors.As(err, &verr) {
			return utils.UnprocessableError(verr.Kind, nil).
				WithContext("kind", "incomplete_draft").
				WithContext("missing", verr.Missing)
		}
		return utils.InternalServerError("Failed to send message", err)
	}
	return respond(c, ev)
}

// SetFolder switches the folder view
func (h *MailboxHandler) SetFolder(c *fiber.Ctx) error {
	folder, err := models.ParseFolder(c.Params("name"))
	if err != nil {
		return utils.BadRequestError("Unknown folder", err)
	}
	return respond(c, middleware.Mailbox(c).SetFolder(folder))
}

func respond(c *fiber.Ctx, ev mailbox.Event) error {
	return c.JSON(OperationResponse{
		Event: ev,
		View:  middleware.Mailbox(c).View(),
	})
}

func parseMessageID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.BadRequestError("Invalid message id", err)
	}
	return id, nil
}
