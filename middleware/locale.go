package middleware

import (
	"lilmail/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const (
	LocalsLocalizer = "localizer"
	LocalsLang      = "lang"
)

// LocaleMiddleware detects the user's language from the lang query parameter,
// the lang cookie or Accept-Language, in that order, falling back to fallback
func LocaleMiddleware(supported []string, fallback string) fiber.Handler {
	tags := make([]language.Tag, 0, len(supported)+1)
	tags = append(tags, language.Make(fallback))
	for _, s := range supported {
		if s != fallback {
			tags = append(tags, language.Make(s))
		}
	}
	matcher := language.NewMatcher(tags)

	isSupported := func(lang string) bool {
		if lang == fallback {
			return true
		}
		for _, s := range supported {
			if s == lang {
				return true
			}
		}
		return false
	}

	return func(c *fiber.Ctx) error {
		lang := ""

		if q := c.Query("lang"); q != "" && isSupported(q) {
			lang = q
			c.Cookie(&fiber.Cookie{
				Name:     "lang",
				Value:    lang,
				MaxAge:   365 * 24 * 3600,
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}

		if lang == "" {
			if ck := c.Cookies("lang"); isSupported(ck) {
				lang = ck
			}
		}

		if lang == "" {
			if accept := c.Get(fiber.HeaderAcceptLanguage); accept != "" {
				if prefs, _, err := language.ParseAcceptLanguage(accept); err == nil && len(prefs) > 0 {
					_, idx, conf := matcher.Match(prefs...)
					if conf != language.No {
						base, _ := tags[idx].Base()
						lang = base.String()
					}
				}
			}
		}

		if lang == "" {
			lang = fallback
		}

		c.Locals(LocalsLocalizer, utils.GetLocalizer(lang))
		c.Locals(LocalsLang, lang)

		utils.Log.Debug("Locale detected: %s for path: %s", lang, c.Path())

		return c.Next()
	}
}

// Localizer returns the request localizer set by LocaleMiddleware
func Localizer(c *fiber.Ctx) *i18n.Localizer {
	if l, ok := c.Locals(LocalsLocalizer).(*i18n.Localizer); ok {
		return l
	}
	return utils.Localizer
}

// Lang returns the request language set by LocaleMiddleware
func Lang(c *fiber.Ctx) string {
	if l, ok := c.Locals(LocalsLang).(string); ok {
		return l
	}
	return utils.DefaultLanguage
}
