package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"ocena/internal/config"
	"ocena/internal/db"
	"ocena/internal/grading"
	"ocena/internal/ingest"
	"ocena/internal/llm"
	"ocena/internal/logging"
	"ocena/internal/server"
	"ocena/internal/workspace"
)

func loadConfig(c *cli.Context) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(cfg.Log.Level), nil
}

func newGrader(ctx context.Context, cfg config.Config, logger *slog.Logger) (*grading.Grader, error) {
	remote, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("configure remote grader: %w", err)
	}
	if remote == nil {
		logger.Warn("no remote grader configured, using heuristic assessment", "provider", cfg.Grader.Provider)
	} else {
		logger.Info("remote grader ready", "grader", remote.Name())
	}

	opts := []grading.Option{
		grading.WithTimeout(cfg.Grader.Timeout),
		grading.WithWordsPerQuestion(cfg.Grader.WordsPerQuestion),
		grading.WithWorkers(cfg.Grader.Workers),
		grading.WithLogger(logger),
	}
	return grading.New(remote, opts...), nil
}

func ServeAction(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	grader, err := newGrader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	store, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	archive, err := workspace.NewArchive(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to prepare upload archive: %w", err)
	}

	srv := server.New(grader, store, server.Limits{
		MaxFileSize:       cfg.Storage.MaxFileSize,
		AllowedExtensions: cfg.Storage.AllowedExtensions,
	}, server.WithArchive(archive), server.WithLogger(logger))

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.Server.Addr, "database", store.Driver(), "archive", cfg.Storage.Archive)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

type gradedFile struct {
	File   string          `json:"file"`
	Size   int64           `json:"size"`
	Result *grading.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func GradeAction(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("no files given")
	}
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	grader, err := newGrader(c.Context, cfg, logger)
	if err != nil {
		return err
	}

	files := make([]gradedFile, len(paths))
	var (
		texts   []string
		pending []int
	)
	for i, path := range paths {
		files[i].File = path
		if info, statErr := os.Stat(path); statErr == nil {
			files[i].Size = info.Size()
		}
		parsed, err := ingest.ParseFile(path)
		if err != nil {
			files[i].Error = err.Error()
			continue
		}
		texts = append(texts, parsed.Text)
		pending = append(pending, i)
	}

	results := grader.GradeBatch(c.Context, texts)
	for j := range results {
		files[pending[j]].Result = &results[j]
	}

	if c.Bool("save") {
		if err := saveGraded(c.Context, cfg, files); err != nil {
			return err
		}
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	fmt.Fprintf(out, "%-32s %-10s %-7s %-6s %-11s %-12s\n", "File", "Size", "Words", "Score", "Confidence", "Source")
	fmt.Fprintln(out, strings.Repeat("-", 82))
	for _, f := range files {
		name := filepath.Base(f.File)
		if f.Result == nil {
			fmt.Fprintf(out, "%-32s %-10s error: %s\n", name, humanize.IBytes(uint64(f.Size)), f.Error)
			continue
		}
		r := f.Result
		fmt.Fprintf(out, "%-32s %-10s %-7d %-6d %-11d %-12s\n",
			name, humanize.IBytes(uint64(f.Size)), r.WordCount, r.Score, r.Confidence, r.Source)
		if r.Error != "" {
			fmt.Fprintf(out, "  note: %s\n", r.Error)
		}
	}
	return nil
}

func saveGraded(ctx context.Context, cfg config.Config, files []gradedFile) error {
	store, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	for _, f := range files {
		if f.Result == nil {
			continue
		}
		_, err := store.SaveSubmission(ctx, db.Submission{
			FileName:   filepath.Base(f.File),
			WordCount:  f.Result.WordCount,
			Score:      f.Result.Score,
			Confidence: float64(f.Result.Confidence),
			Feedback:   f.Result.FeedbackHTML,
			Source:     string(f.Result.Source),
			Diagnostic: f.Result.Error,
		})
		if err != nil {
			return fmt.Errorf("save %s: %w", f.File, err)
		}
	}
	return nil
}

func SetupAction(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}

	dirs := []string{cfg.Storage.UploadsDir}
	if cfg.Database.Driver == db.DriverSQLite {
		dirs = append(dirs, filepath.Dir(cfg.Database.DSN))
	}

	out := c.App.Writer
	fmt.Fprintln(out, "OCENA Document Assessment System - Setup")
	fmt.Fprintln(out, strings.Repeat("=", 40))
	created, err := workspace.Ensure(dirs...)
	for _, d := range created {
		if d.Created {
			fmt.Fprintf(out, "✓ Created directory: %s\n", d.Path)
		} else {
			fmt.Fprintf(out, "✓ Directory already exists: %s\n", d.Path)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nSetup complete!")
	if cfg.OpenAI.APIKey == "" && cfg.Grader.Provider == "openai" {
		fmt.Fprintln(out, "Set OPENAI_API_KEY in .env to enable remote grading.")
	}
	return nil
}

func HistoryAction(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := db.Open(c.Context, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	subs, err := store.ListSubmissions(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	out := c.App.Writer
	if len(subs) == 0 {
		fmt.Fprintln(out, "No submissions found")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-32s %-7s %-6s %-11s %-16s\n", "ID", "File", "Words", "Score", "Confidence", "Submitted")
	fmt.Fprintln(out, strings.Repeat("-", 82))
	for _, s := range subs {
		fmt.Fprintf(out, "%-6d %-32s %-7d %-6d %-11.0f %-16s\n",
			s.ID, s.FileName, s.WordCount, s.Score, s.Confidence, humanize.Time(s.Timestamp))
	}
	fmt.Fprintf(out, "\nTotal: %d submissions\n", len(subs))
	return nil
}
