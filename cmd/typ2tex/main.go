package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/peoxin/math-typst2latex/internal/app"
	"github.com/peoxin/math-typst2latex/internal/config"
)

func main() {
	cfg, err := config.Parse("typ2tex", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger, closer, err := cfg.SetupLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	if cfg.HasExpr {
		if err := app.Once(context.Background(), cfg, logger, os.Stdout); err != nil {
			closer.Close()
			os.Exit(1)
		}
		return
	}

	logger.Info("starting", "converter", cfg.Converter, "theme", cfg.Theme, "input", cfg.InputFile)
	if err := app.Run(cfg, logger); err != nil {
		closer.Close()
		log.Fatal(err)
	}
}
