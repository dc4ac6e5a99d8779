package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"lilmail/config"
	"lilmail/handlers/api"
	"lilmail/handlers/web"
	"lilmail/middleware"
	"lilmail/models"
	"lilmail/storage"
	"lilmail/utils"
	"lilmail/views"
)

// Server bundles the Fiber app with the mailbox sessions it serves
type Server struct {
	App       *fiber.App
	Mailboxes *storage.MailboxStore
	web       *web.MailboxHandler
	config    *config.Config
}

// isAPIRequest reports whether errors should be answered with JSON
func isAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}
	if c.Get("HX-Request") != "" {
		return true
	}
	return strings.HasPrefix(c.Path(), "/api")
}

// newEngine builds the template engine over the embedded views
func newEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")

	engine.AddFunc("t", func(localizer *i18n.Localizer, messageID string) string {
		return utils.T(localizer, messageID)
	})
	engine.AddFunc("tPlural", func(localizer *i18n.Localizer, messageID string, count int) string {
		return utils.TPlural(localizer, messageID, count)
	})
	engine.AddFunc("plain", utils.PlainText)
	engine.AddFunc("folderIcon", func(f models.Folder) string {
		switch f {
		case models.FolderStarred:
			return "⭐"
		case models.FolderSent:
			return "📤"
		default:
			return "📥"
		}
	})

	return engine
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	var extra map[string]interface{}

	if appErr, ok := utils.AsAppError(err); ok {
		code = appErr.Code
		message = appErr.Message
		extra = appErr.Context
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		utils.Log.Error("Application error on %s %s: %v", c.Method(), c.Path(), err)
		message = utils.T(middleware.Localizer(c), "error_500")
	} else {
		utils.Log.Debug("Request rejected on %s %s: %v", c.Method(), c.Path(), err)
	}

	if isAPIRequest(c) {
		body := fiber.Map{"error": message}
		for k, v := range extra {
			body[k] = v
		}
		return c.Status(code).JSON(body)
	}

	return c.Status(code).Render("error", fiber.Map{
		"Error":     message,
		"Code":      code,
		"Localizer": middleware.Localizer(c),
		"Lang":      middleware.Lang(c),
	})
}

// New assembles the application from configuration
func New(cfg *config.Config) (*Server, error) {
	if err := utils.InitI18n(cfg.Locale.Default); err != nil {
		return nil, fmt.Errorf("failed to initialize i18n: %w", err)
	}

	store := session.New(session.Config{
		Expiration:     cfg.Session.TTL,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	mailboxes := storage.NewMailboxStore(cfg.Session.TTL, cfg.MailboxOptions())
	mailboxes.Start(5 * time.Minute)

	app := fiber.New(fiber.Config{
		Views:        newEngine(),
		ViewsLayout:  "layouts/main",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:;",
	}))
	app.Use(middleware.LocaleMiddleware(cfg.Locale.Supported, cfg.Locale.Default))
	if cfg.Server.RateLimit > 0 {
		app.Use(middleware.RateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"time":      time.Now().Format(time.RFC3339),
			"mailboxes": mailboxes.Len(),
		})
	})

	app.Static("/assets", cfg.Server.Assets, fiber.Static{
		Compress:      true,
		CacheDuration: 24 * time.Hour,
	})

	csrfConfig := middleware.DefaultCSRFConfig()
	csrfConfig.CookieSecure = cfg.Session.CookieSecure
	csrf := middleware.CSRFProtection(csrfConfig)
	bind := middleware.MailboxMiddleware(store, mailboxes)

	webHandler := web.NewMailboxHandler()
	apiHandler := api.NewMailboxHandler()
	notifyHandler := api.NewNotificationHandler()
	i18nHandler := api.NewI18nHandler(cfg.Locale.Supported, cfg.Locale.Default)

	// Web routes
	app.Get("/", csrf, bind, webHandler.HandleIndex)
	app.Get("/folder/:name", csrf, bind, webHandler.HandleFolder)
	app.Post("/folder/:name", csrf, bind, webHandler.HandleFolder)
	app.Post("/messages/:id/select", csrf, bind, webHandler.HandleSelect)
	app.Post("/messages/:id/star", csrf, bind, webHandler.HandleStar)
	app.Post("/messages/:id/delete", csrf, bind, webHandler.HandleDelete)
	app.Post("/messages/:id/reply", csrf, bind, webHandler.HandleReply)
	app.Post("/compose", csrf, bind, webHandler.HandleCompose)
	app.Post("/compose/cancel", csrf, bind, webHandler.HandleCancel)
	app.Post("/compose/send", csrf, bind, webHandler.HandleSend)

	// API routes
	apiRoutes := app.Group("/api")
	{
		apiRoutes.Get("/i18n/:lang", i18nHandler.GetTranslations)

		mb := apiRoutes.Group("", csrf, bind)
		mb.Get("/view", apiHandler.GetView)
		mb.Post("/messages/:id/select", apiHandler.SelectMessage)
		mb.Post("/messages/:id/star", apiHandler.ToggleStar)
		mb.Post("/messages/:id/reply", apiHandler.ReplyTo)
		mb.Delete("/messages/:id", apiHandler.DeleteMessage)
		mb.Post("/compose", apiHandler.BeginCompose)
		mb.Delete("/compose", apiHandler.CancelCompose)
		mb.Put("/draft", apiHandler.UpdateDraft)
		mb.Post("/draft/send", apiHandler.SendDraft)
		mb.Put("/folder/:name", apiHandler.SetFolder)
		mb.Get("/events", notifyHandler.HandleSSE)
	}

	// WebSocket route
	app.Get("/ws/events", bind, notifyHandler.UpgradeWebSocket, websocket.New(notifyHandler.HandleWebSocket))

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundError(utils.T(middleware.Localizer(c), "error_404"), nil)
	})

	return &Server{
		App:       app,
		Mailboxes: mailboxes,
		web:       webHandler,
		config:    cfg,
	}, nil
}

// Listen serves on the configured port until Shutdown
func (s *Server) Listen() error {
	utils.Log.Info("Starting server on port %d...", s.config.Server.Port)
	return s.App.Listen(fmt.Sprintf(":%d", s.config.Server.Port))
}

// Close stops the background sweepers of the session store and the notice cache
func (s *Server) Close() {
	s.Mailboxes.Stop()
	s.web.Stop()
}

// Shutdown stops accepting connections and the background sweepers
func (s *Server) Shutdown() error {
	s.Close()
	return s.App.Shutdown()
}
