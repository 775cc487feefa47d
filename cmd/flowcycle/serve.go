package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ecoviz/flowcycle/pkg/site"
)

const serveUsage = `Usage: flowcycle serve --data <input.json> [options]

Options:
  --data <file>       Flow document to serve (required)
  --content <file>    Tooltip content TOML
  --templates <dir>   Page template directory (default ./templates)
  --static <dir>      Extra assets served under /static/
  --addr <addr>       Listen address (default $FLOWCYCLE_PORT or :8080)
  --watch             Reload data files on change and push live reloads
`

func cmdServe(args []string) {
	cfg := site.Config{Addr: defaultAddr()}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--data", "-d":
			if i+1 < len(args) {
				cfg.DataPath = args[i+1]
				i++
			}
		case "--content", "-c":
			if i+1 < len(args) {
				cfg.ContentPath = args[i+1]
				i++
			}
		case "--templates":
			if i+1 < len(args) {
				cfg.TemplatesDir = args[i+1]
				i++
			}
		case "--static":
			if i+1 < len(args) {
				cfg.StaticDir = args[i+1]
				i++
			}
		case "--addr", "-a":
			if i+1 < len(args) {
				cfg.Addr = args[i+1]
				i++
			}
		case "--watch", "-w":
			cfg.Watch = true
		case "-h", "--help":
			fmt.Print(serveUsage)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
			fmt.Print(serveUsage)
			os.Exit(1)
		}
	}

	if cfg.DataPath == "" {
		fmt.Fprintln(os.Stderr, "Missing required option: --data")
		fmt.Print(serveUsage)
		os.Exit(1)
	}

	setupLogging()

	srv, err := site.NewServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("serving", "addr", cfg.Addr, "data", cfg.DataPath, "watch", cfg.Watch)
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultAddr() string {
	if addr := os.Getenv("FLOWCYCLE_PORT"); addr != "" {
		return addr
	}
	return ":8080"
}

// setupLogging installs the default logger: colourized pretty output when
// FLOWCYCLE_ENV=dev, JSON otherwise. The env file matching the mode is
// loaded when present; flags and the environment cover everything else.
func setupLogging() {
	envfile := ".env"
	if os.Getenv("FLOWCYCLE_ENV") == "dev" {
		envfile = ".env.dev"
		logger := slog.New(NewPrettyHandler(os.Stdout, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		}))
		slog.SetDefault(logger)
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	if err := godotenv.Load(envfile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", envfile, err)
		os.Exit(1)
	}
}
