// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/profidisasm/internal/catalog"
	"github.com/retroenv/profidisasm/internal/options"
	"github.com/retroenv/profidisasm/internal/pipeline"
	"github.com/retroenv/profidisasm/internal/program"
	"github.com/retroenv/profidisasm/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, cat *catalog.Catalog,
	opts options.Program, disasmOptions options.Disassembler) error {

	return processFile(ctx, logger, cat, opts, disasmOptions, os.Stdout)
}

func processFile(ctx context.Context, logger *log.Logger, cat *catalog.Catalog,
	opts options.Program, disasmOptions options.Disassembler, console io.Writer) error {

	output, err := createWriter(opts.Output, console)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := output.(io.Closer); ok && output != console {
			_ = closer.Close()
		}
	}()

	pipe := pipeline.New(logger, cat)
	app, err := pipe.Execute(ctx, opts, disasmOptions, output)
	if err != nil {
		return err
	}
	logger.Debug("Wrote listing", log.String("file", opts.Output))

	if opts.Detailed && opts.Output != "" {
		if err := writeDump(app, opts); err != nil {
			return err
		}
		logger.Debug("Wrote detailed listing", log.String("file", DumpFilename(opts.Output)))
	}

	if opts.Verbose && opts.Output != "" {
		w := writer.New(app, console, writer.Options{
			NoHexPrefix: opts.NoHexPrefix,
			Color:       opts.Color,
		})
		if err := w.WriteListing(); err != nil {
			return fmt.Errorf("printing listing: %w", err)
		}
	}

	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	return replaceExtension(inputFile, ".asm")
}

// DumpFilename returns the detailed listing filename for a given output file
func DumpFilename(outputFile string) string {
	return replaceExtension(outputFile, ".dump")
}

func replaceExtension(fileName, ext string) string {
	current := filepath.Ext(fileName)
	return fileName[:len(fileName)-len(current)] + ext
}

func createWriter(fileName string, console io.Writer) (io.Writer, error) {
	if fileName == "" {
		return console, nil
	}

	file, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", fileName, err)
	}
	return file, nil
}

func writeDump(app *program.Program, opts options.Program) error {
	fileName := DumpFilename(opts.Output)
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating dump file %s: %w", fileName, err)
	}
	defer func() { _ = file.Close() }()

	w := writer.New(app, file, writer.Options{NoHexPrefix: opts.NoHexPrefix})
	if err := w.WriteDump(); err != nil {
		return fmt.Errorf("writing dump file %s: %w", fileName, err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("profidisasm - Profi-5E disassembler",
		log.String("version", buildinfo.Version(version, commit, date)))
}
