package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/SanderWeide/sneaker-engine/internal/client"
	"github.com/SanderWeide/sneaker-engine/internal/kv"
	"github.com/SanderWeide/sneaker-engine/internal/session"
)

func main() {
	setupLogging()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging configures colored structured logging at the level given by
// LOG_LEVEL (default: warn, this is a CLI).
func setupLogging() {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// newSession reads the config file and builds a session over the persisted
// state file.
func newSession() (*client.Client, *session.Store, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	c := client.New(cfg.APIURL)
	s := session.NewStore(c, kv.NewFile(cfg.StatePath))
	return c, s, nil
}

// requireSession is newSession plus a login check.
func requireSession() (*client.Client, *session.Store, error) {
	c, s, err := newSession()
	if err != nil {
		return nil, nil, err
	}
	if !s.IsAuthenticated() {
		return nil, nil, fmt.Errorf("not logged in, run `sneakerctl login` first")
	}
	return c, s, nil
}

var rootCmd = &cobra.Command{
	Use:   "sneakerctl",
	Short: "Manage your sneaker collection from the command line",
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
}
