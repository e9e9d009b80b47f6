package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"github.com/jjones1stptllc/titlegrab-desktop/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Job store
	var store jobs.Store
	switch cfg.Jobs.Store {
	case "sqlite":
		s, err := jobs.NewSqliteStore(cfg.Jobs.SqlitePath)
		if err != nil {
			logger.Error("open job store", "path", cfg.Jobs.SqlitePath, "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = s.Close()
		}()
		store = s
	default:
		store = jobs.NewMemoryStore(cfg.Jobs.MaxEntries)
	}
	registry := jobs.NewRegistry(store, logger)

	// Extraction stack
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

	// AI structuring
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

	broadcast := progress.NewBroadcaster()
	orch := pipeline.NewOrchestrator(registry, broadcast, textExtractor, ai, logger)
	reports := report.NewService(logger)

	srv := server.New(server.Config{
		MaxUploadSize: cfg.Server.MaxUploadSize,
		UploadDir:     cfg.Server.UploadDir,
		Mode:          "release",
	}, orch, registry, broadcast, reports, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
