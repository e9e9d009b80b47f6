// Command titlegrab extracts one document from the command line and
// prints the structured result as JSON or writes an XLSX report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/extract"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/jobs"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/llm"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/llm/openai"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/ocr"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/pipeline"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/progress"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/report"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		in       = flag.String("in", "", "document to extract (required)")
		out      = flag.String("out", "", "output XLSX path; empty prints JSON to stdout")
		accurate = flag.Bool("accurate", false, "use the accurate model tier directly")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *in == "" {
		printError("Error: --in is required\n")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		printError("Warning: dotenv load failed: %v\n", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		printError("Error: LLM_API_KEY is required\n")
		os.Exit(1)
	}

	runner := ocr.ExecRunner{}
	engine := ocr.NewTesseractEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.TesseractLang,
		TessdataDir: cfg.OCR.TessdataDir,
	}, runner, logger)
	textExtractor := extract.NewExtractor(extract.Config{
		Pdftotext:    cfg.OCR.Pdftotext,
		Pdftoppm:     cfg.OCR.Pdftoppm,
		Pdfinfo:      cfg.OCR.Pdfinfo,
		DocConverter: cfg.OCR.DocConverter,
		DPI:          cfg.OCR.DPI,
		PageWidth:    cfg.OCR.PageWidth,
		PageHeight:   cfg.OCR.PageHeight,
		MaxPages:     cfg.OCR.MaxPages,
		TempDir:      cfg.OCR.TempDir,
		OCRTimeout:   cfg.OCR.Timeout,
	}, runner, engine, logger)

	completer := openai.NewClient(openai.Config{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	}, logger)
	ai := llm.NewExtractor(llm.Config{
		FastModel:     cfg.LLM.FastModel,
		AccurateModel: cfg.LLM.AccurateModel,
		MaxChars:      cfg.LLM.MaxChars,
	}, completer, logger)

	registry := jobs.NewRegistry(jobs.NewMemoryStore(0), logger)
	broadcast := progress.NewBroadcaster()
	orch := pipeline.NewOrchestrator(registry, broadcast, textExtractor, ai, logger)

	// Mirror pipeline progress onto stderr so long OCR runs show life.
	sub := broadcast.Subscribe("cli")
	go func() {
		for event := range sub.C {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s %s\n", event.Progress, event.Stage, event.Message)
		}
	}()

	tier := llm.TierFast
	if *accurate {
		tier = llm.TierAccurate
	}

	doc, err := orch.Process(context.Background(), pipeline.Request{
		JobID:    "cli",
		Path:     *in,
		Filename: filepath.Base(*in),
		Tier:     tier,
	})
	broadcast.Unsubscribe(sub)
	if err != nil {
		printError("Extraction failed: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			printError("Error: encode result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	outPath := *out
	if !strings.HasSuffix(strings.ToLower(outPath), ".xlsx") {
		outPath += ".xlsx"
	}
	b, err := report.NewService(logger).BuildXLSX(doc, filepath.Base(*in))
	if err != nil {
		printError("Error: build report: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		printError("Error: write report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report written to %s (%d records)\n", outPath, doc.RecordCount())
}
