package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/yaat-go/app"
	"github.com/soocke/yaat-go/config"
)

func main() {
	cfgPath := flag.String("config", "", "path to the JSON config file (default: per-user config dir)")
	debugFlag := flag.Bool("debug", false, "enable debug logging and runtime metrics")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [image]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	path := *cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			logger.Warn("config path unavailable", "error", err)
		}
		path = p
	}
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logger.Warn("config load failed, using defaults", "path", path, "error", err)
		}
		cfg = loaded
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if cfg.Debug {
		logger = NewLogger(slog.LevelDebug)
	}

	application := app.NewApp("Yet Another Annotation Tool", cfg, path, logger)
	application.Start(flag.Arg(0))
}
