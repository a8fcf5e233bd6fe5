// Package pipeline orchestrates the disassembly workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/profidisasm/internal/catalog"
	"github.com/retroenv/profidisasm/internal/detector"
	"github.com/retroenv/profidisasm/internal/disasm"
	"github.com/retroenv/profidisasm/internal/loader"
	"github.com/retroenv/profidisasm/internal/options"
	"github.com/retroenv/profidisasm/internal/program"
	"github.com/retroenv/profidisasm/internal/verification"
	"github.com/retroenv/profidisasm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete disassembly workflow.
type Pipeline struct {
	logger   *log.Logger
	catalog  *catalog.Catalog
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new disassembly pipeline that decodes instructions using the given catalog.
func New(logger *log.Logger, cat *catalog.Catalog) *Pipeline {
	return &Pipeline{
		logger:   logger,
		catalog:  cat,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// LoadCatalog loads the instruction table from the given file or the embedded Profi-5E
// table if no file name is given. Skipped malformed entries are logged.
func LoadCatalog(logger *log.Logger, fileName string) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if fileName == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.LoadFile(fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("loading instruction table: %w", err)
	}

	for _, entry := range cat.Skipped() {
		logger.Warn("Skipped instruction table entry",
			log.String("opcode", entry.Key),
			log.String("reason", entry.Reason))
	}
	logger.Debug("Loaded instruction table",
		log.String("file", fileName),
		log.Int("definitions", cat.Loaded()),
		log.Int("opcodes", cat.Len()),
		log.Int("skipped", len(cat.Skipped())))
	return cat, nil
}

// Execute runs the complete disassembly pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, disasmOpts options.Disassembler,
	output io.Writer) (*program.Program, error) {

	// Detect input format
	opts.Text = p.detector.Detect(opts) == detector.Text

	data, err := p.loader.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}

	return p.ExecuteWithData(ctx, data, opts, disasmOpts, output)
}

// ExecuteWithData runs the disassembly pipeline with already loaded input data.
// This is useful for testing and programmatic usage where the data is already in memory.
func (p *Pipeline) ExecuteWithData(ctx context.Context, data []byte, opts options.Program,
	disasmOpts options.Disassembler, output io.Writer) (*program.Program, error) {

	p.printInfo(opts, disasmOpts, len(data))

	dis := disasm.New(p.logger, p.catalog, disasmOpts)
	app, err := dis.Process(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("disassembling: %w", err)
	}

	w := writer.New(app, output, writer.Options{NoHexPrefix: opts.NoHexPrefix})
	if err := w.WriteListing(); err != nil {
		return nil, fmt.Errorf("writing listing: %w", err)
	}

	if opts.AssembleTest {
		if err := verification.VerifyOutput(p.logger, p.catalog, disasmOpts, data, app); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	if !opts.Quiet {
		p.logger.Info("Finished disassembly",
			log.String("file", opts.Input),
			log.Int("instructions", app.Instructions),
			log.Hex("bytes", app.Size),
			log.Hex("end", opts.BinaryOffset+app.Size))
	}
	return app, nil
}

// printInfo prints information about the input being processed.
func (p *Pipeline) printInfo(opts options.Program, disasmOpts options.Disassembler, size int) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing Profi-5E program",
		log.String("file", opts.Input),
		log.Hex("start", opts.BinaryOffset),
		log.Hex("bytes", size),
		log.Hex("base", disasmOpts.BaseAddress),
	)
}
