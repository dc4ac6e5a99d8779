package api

import (
	"lilmail/utils"

	"github.com/gofiber/fiber/v2"
)

// clientMessageIDs are the strings client-side scripts need
var clientMessageIDs = []string{
	"message_sent_success",
	"message_reply_notice",
	"message_deleted",
	"message_incomplete_draft",
	"message_error",
	"email_empty_folder",
	"email_select_prompt",
	"folder_inbox",
	"folder_starred",
	"folder_sent",
	"error_404",
	"error_500",
}

// I18nHandler handles i18n-related requests
type I18nHandler struct {
	supported []string
	fallback  string
}

// NewI18nHandler creates a handler serving the given languages
func NewI18nHandler(supported []string, fallback string) *I18nHandler {
	return &I18nHandler{supported: supported, fallback: fallback}
}

// GetTranslations returns translations for client-side JavaScript
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")

	ok := false
	for _, s := range h.supported {
		if s == lang {
			ok = true
			break
		}
	}
	if !ok {
		lang = h.fallback
	}

	localizer := utils.GetLocalizer(lang)

	translations := make(map[string]string, len(clientMessageIDs))
	for _, id := range clientMessageIDs {
		translations[id] = utils.T(localizer, id)
	}

	return c.JSON(fiber.Map{
		"lang":         lang,
		"translations": translations,
	})
}
