package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"lilmail/mailbox"
	"lilmail/storage"
	"lilmail/utils"
)

const (
	LocalsMailbox = "mailbox"
	sessionKeyID  = "mailbox_id"
)

// MailboxMiddleware binds the browser session to its mailbox session,
// creating both on the first visit
func MailboxMiddleware(store *session.Store, mailboxes *storage.MailboxStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return utils.InternalServerError("Session error", err)
		}

		id, _ := sess.Get(sessionKeyID).(string)
		if id == "" {
			id = storage.NewMailboxID()
			sess.Set(sessionKeyID, id)
			if err := sess.Save(); err != nil {
				return utils.InternalServerError("Failed to save session", err)
			}
		}

		c.Locals(LocalsMailbox, mailboxes.GetOrCreate(id))
		return c.Next()
	}
}

// Mailbox returns the mailbox session bound by MailboxMiddleware
func Mailbox(c *fiber.Ctx) *mailbox.Session {
	m, _ := c.Locals(LocalsMailbox).(*mailbox.Session)
	return m
}
