package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/todos/internal/app"
	"github.com/five82/todos/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default "+config.DefaultPath()+")")
	apiURL := flag.String("api", "", "to-do API base URL, overrides api_url")
	refreshSeconds := flag.Int("refresh", -1, "auto-refresh interval in seconds, 0 disables (default from config)")
	logPath := flag.String("log", "", "log file path, overrides log_file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:   *configPath,
		APIURL:       *apiURL,
		LogPath:      *logPath,
		RefreshEvery: *refreshSeconds,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "todos: %v\n", err)
		return 1
	}
	return 0
}
