package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lilmail/config"
	"lilmail/mailbox"
	"lilmail/storage"
	"lilmail/tui"
	"lilmail/utils"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	logPath := flag.String("log", "lilmail-tui.log", "file receiving log output")
	lang := flag.String("lang", "", "interface language (defaults to locale.default)")
	flag.Parse()

	if err := run(*configPath, *logPath, *lang); err != nil {
		fmt.Fprintf(os.Stderr, "lilmail-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logPath, lang string) error {
	cfg, err := config.LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := utils.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		level = utils.INFO
	}

	// The terminal belongs to the UI, so logs go to a file
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	utils.Log = utils.NewLoggerTo(logFile, level)

	if err := utils.InitI18n(cfg.Locale.Default); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}
	if lang == "" || !cfg.SupportsLocale(lang) {
		lang = cfg.Locale.Default
	}

	session := mailbox.NewSession(storage.NewMailboxID(), cfg.MailboxOptions())
	utils.Log.Info("Terminal session %s started", session.ID())

	model := tui.New(session, utils.GetLocalizer(lang))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal client failed: %w", err)
	}
	return nil
}
