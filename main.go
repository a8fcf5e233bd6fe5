// Package main implements the main entry point for a Profi-5E disassembler
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/profidisasm/internal/catalog"
	"github.com/retroenv/profidisasm/internal/cli"
	"github.com/retroenv/profidisasm/internal/config"
	"github.com/retroenv/profidisasm/internal/fileprocessor"
	"github.com/retroenv/profidisasm/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, disasmOptions, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	if opts.Schema {
		schema, err := catalog.Schema()
		if err != nil {
			logger.Fatal(fmt.Errorf("generating schema: %w", err).Error())
		}
		fmt.Println(string(schema))
		return
	}

	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	cat, err := pipeline.LoadCatalog(logger, opts.Catalog)
	if err != nil {
		logger.Fatal(err.Error())
	}

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	for _, file := range files {
		opts.Input = file
		if len(files) > 1 || opts.Output == "" {
			opts.Output = fileprocessor.GenerateOutputFilename(file)
		}

		if err := fileprocessor.ProcessFile(ctx, logger, cat, opts, disasmOptions); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return
			}
			logger.Error("Disassembling failed", log.String("file", file), log.Err(err))
		}
	}
}
