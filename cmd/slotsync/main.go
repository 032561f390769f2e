package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/katsuo-ito/slotsync/internal/app"
	"github.com/katsuo-ito/slotsync/internal/config"
	"github.com/katsuo-ito/slotsync/internal/logger"
	"github.com/katsuo-ito/slotsync/pkg/schedule"
	"github.com/katsuo-ito/slotsync/web"
)

var (
	version = "dev"
)

func main() {
	configPath := flag.String("config", "slotsync.yaml", "Configuration file path")
	listen := flag.String("listen", "", "HTTP listen address (overrides config)")
	apiBase := flag.String("api", "", "Scheduling service base URL (overrides config)")
	logLevel := flag.String("loglevel", "", "Log level (debug, info, warn, error; overrides config)")
	httpLog := flag.Bool("httplog", false, "Log every HTTP request")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `slotsync - local console for a slot-scheduling service

Usage:
  slotsync [options]

Options:
  -config string   Configuration file path (default "slotsync.yaml")
  -listen string   HTTP listen address (overrides config)
  -api string      Scheduling service base URL (overrides config)
  -loglevel string Log level: debug, info, warn, error (overrides config)
  -httplog         Log every HTTP request
  -version         Show version and exit
  -help            Show this help message

Configuration is read from the YAML file, then overlaid with SLOTSYNC_*
environment variables (a .env file is honored), then with flags.

Examples:
  slotsync                                  # Use ./slotsync.yaml
  slotsync -api http://sched.example.com    # Point at a different service
  slotsync -listen 127.0.0.1:9000           # Serve the console elsewhere

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("slotsync %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *apiBase != "" {
		cfg.APIBase = *apiBase
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))
	appLog.SetHTTPLogging(*httpLog)

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}
	client := schedule.NewHTTPClientWithHTTPClient(cfg.APIBase, httpClient, appLog)

	a, err := app.New(appLog, client, web.GetTemplatesFS(), web.GetStaticFS())
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	appLog.Info("Using scheduling service", "url", cfg.APIBase)
	if err := a.Run(cfg.Listen); err != nil {
		log.Fatal(err)
	}
}
