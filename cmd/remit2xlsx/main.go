package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garyjia/remit2xlsx/internal/application/service"
	"github.com/garyjia/remit2xlsx/internal/config"
	"github.com/garyjia/remit2xlsx/internal/infrastructure/pdf"
	"github.com/garyjia/remit2xlsx/internal/infrastructure/storage"
	"github.com/garyjia/remit2xlsx/internal/report"
	"github.com/garyjia/remit2xlsx/pkg/utils"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	appTitle   = "PDF invoices - CashApp"
	appVersion = "v.1.0"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// app is the state of one command line invocation
type app struct {
	pdfPath    string
	outputPath string
	cfg        *config.Config
	logger     *zap.Logger
	service    service.RemittanceService
	stdout     io.Writer
	stderr     io.Writer
	now        func() time.Time
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("remit2xlsx", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.StringP("config", "c", "", "path to a YAML config file")
	output := flags.StringP("output", "o", "", "output .xlsx path (default: <pdf name>_<timestamp>.xlsx)")
	flags.String("output-dir", "", "directory for the suggested output file")
	flags.String("engine", "", "PDF text engine: fitz or pure")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")
	flags.Bool("debug-text", false, "log the extracted text of every page")
	showVersion := flags.BoolP("version", "v", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "%s %s\n\nUsage: remit2xlsx [flags] <remittance.pdf>\n\n", appTitle, appVersion)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", appTitle, appVersion)
		return exitOK
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "Please select a PDF file first.")
		flags.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitError
	}

	logger, cleanup, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitError
	}
	defer cleanup()

	a, err := newApp(cfg, logger, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "An error occurred during processing:\n%v\n", err)
		return exitError
	}
	a.pdfPath = flags.Arg(0)
	a.outputPath = *output

	return a.process(ctx)
}

func newApp(cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) (*app, error) {
	reader, err := pdf.NewReader(pdf.Engine(cfg.PDF.Engine), cfg.PDF.DebugText, logger)
	if err != nil {
		return nil, err
	}
	fileStorage := storage.NewLocalFileStorage(cfg.Report.BaseDir, logger)
	writer := report.NewExcelWriter(fileStorage, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		service: service.NewRemittanceService(reader, writer, nil, logger),
		stdout:  stdout,
		stderr:  stderr,
		now:     time.Now,
	}, nil
}

func (a *app) process(ctx context.Context) int {
	outputPath := a.outputPath
	if outputPath == "" {
		outputPath = service.SuggestOutputPath(a.pdfPath, a.cfg.Report.OutputDir, a.cfg.Report.TimestampFormat, a.now())
	}

	result, err := a.service.Process(ctx, service.Request{PDFPath: a.pdfPath, OutputPath: outputPath})
	switch {
	case service.IsNoData(err):
		fmt.Fprintln(a.stdout, "No invoice data found in the PDF.")
		return exitOK
	case err != nil:
		fmt.Fprintf(a.stderr, "An error occurred during processing:\n%v\n", err)
		return exitError
	}

	fmt.Fprintf(a.stdout, "Data extracted successfully.\nFile saved at:\n%s\n\n%s\n",
		result.OutputPath, result.Verification.Message)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(a.stdout, "\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(a.stdout, "  - %s\n", w)
		}
	}

	return exitOK
}
