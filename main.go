package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"lilmail/config"
	"lilmail/server"
	"lilmail/utils"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	utils.Log.Info("Initializing LilMail...")

	cfg, err := config.LoadConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		utils.Log.Warn("Config file %s not found, using defaults", *configPath)
		cfg = config.Default()
	} else if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	level, err := utils.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		utils.Log.Warn("%v, keeping %s", err, utils.Log.Level())
	} else {
		utils.Log.SetLevel(level)
	}

	srv, err := server.New(cfg)
	if err != nil {
		utils.Log.Error("Failed to initialize server: %v", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		utils.Log.Info("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			utils.Log.Error("Error during shutdown: %v", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		utils.Log.Error("Error starting server: %v", err)
		os.Exit(1)
	}
}
