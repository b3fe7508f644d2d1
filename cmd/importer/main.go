package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/seanwirkus/Animal-Crossing-CE/migrations/catalog"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/app"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/migrator"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/telemetry"
	catalogsvcs "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/application/services"
	domainevents "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/events"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/repositories"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/emitter"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/reference"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/workbook"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			fmt.Println(strings.TrimPrefix(err.Error(), config.ErrHelpWanted.Error()+": "))
			return exitOK
		}
		slog.Error("failed to load config", "error", err)
		return exitInvalidUsage
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		return exitInvalidUsage
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		return exitFailure
	}
	defer tel.Shutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	start := time.Now()
	rep, err := importCatalog(ctx, cfg, log, os.Stdout)
	code := exitCode(err)

	report := telemetry.RunReport{Outcome: telemetry.OutcomeSuccess, Duration: time.Since(start)}
	if rep != nil {
		report.ByCategory = rep.byCategory
		report.ByWarning = rep.byWarning
	}
	if err != nil {
		report.Outcome = telemetry.OutcomeFailure
		log.ErrorContext(ctx, "catalog import failed", "error", err, "exit_code", code)
		telemetry.CaptureError(err, map[string]string{
			"exit_code": strconv.Itoa(code),
			"workbook":  cfg.WorkbookPath,
		})
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	tel.Metrics.Record(ctx, report)

	if cfg.MetricsTextfile != "" {
		if err := tel.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.WarnContext(ctx, "metrics textfile not written", "path", cfg.MetricsTextfile, "error", err)
		}
	}
	return code
}

// runSummary is what a finished run contributes to metrics.
type runSummary struct {
	byCategory map[string]int
	byWarning  map[string]int
}

// importCatalog runs the pipeline: read the workbook, build the catalog,
// write both documents, then feed the optional snapshot sinks. The operator
// report goes to out.
func importCatalog(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*runSummary, error) {
	importer, err := newImporter(cfg, log)
	if err != nil {
		return nil, err
	}

	wb, err := workbook.Open(cfg.WorkbookPath)
	if err != nil {
		return nil, err
	}
	defer wb.Close() //nolint:errcheck

	res, err := importer.Run(ctx, wb)
	if err != nil {
		return nil, err
	}
	summary := summarize(res)

	docs, err := emitter.Render(res.Catalog, !cfg.JSONOnly)
	if err != nil {
		return summary, fmt.Errorf("render documents: %w", err)
	}
	outputs := emitter.Outputs(docs, cfg.JSONOutput, cfg.LuauOutput)
	if err := emitter.WriteAll(outputs); err != nil {
		return summary, err
	}
	log.InfoContext(ctx, "documents written", "run_id", res.RunID, "outputs", len(outputs))

	if err := writeReport(out, res.Catalog.Len(), outputs, res.Warnings, cfg.WarningLimit); err != nil {
		log.WarnContext(ctx, "report not printed", "error", err)
	}

	snap := repositories.Snapshot{
		RunID:       res.RunID,
		ContentHash: contentHash(docs.JSON),
		Records:     res.Catalog.Records(),
	}
	if err := storeSnapshot(ctx, cfg, log, snap); err != nil {
		return summary, fmt.Errorf("%w: %w", errSink, err)
	}
	return summary, nil
}

func newImporter(cfg *config.Config, log logger.Logger) (*catalogsvcs.Importer, error) {
	var opts []catalogsvcs.Option
	if cfg.SheetPlanPath != "" {
		plan, err := catalogsvcs.LoadSheetPlan(cfg.SheetPlanPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		opts = append(opts, catalogsvcs.WithSheetPlan(plan))
	}
	if cfg.ReferenceDir != "" {
		idx, skipped, err := reference.LoadDir(cfg.ReferenceDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		opts = append(opts, catalogsvcs.WithReferences(idx, skipped...))
	}
	return catalogsvcs.NewImporter(log, opts...), nil
}

// storeSnapshot pushes snap to whichever sinks cfg enables.
func storeSnapshot(ctx context.Context, cfg *config.Config, log logger.Logger, snap repositories.Snapshot) error {
	if cfg.DatabaseURL == "" && cfg.RedisURL == "" {
		return nil
	}

	a, err := app.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	if a.Db != nil {
		if err := migrator.RunMigrations(ctx, a.Db, catalog.FS, log); err != nil {
			return err
		}
	}
	if a.EventBus != nil {
		if err := a.EventBus.Prepare(domainevents.TopicCatalogPublished); err != nil {
			return err
		}
	}

	return catalogsvcs.New(a).Snapshots.Store(ctx, snap)
}

func summarize(res *catalogsvcs.Result) *runSummary {
	s := &runSummary{
		byCategory: make(map[string]int),
		byWarning:  make(map[string]int),
	}
	for _, rec := range res.Catalog.Records() {
		s.byCategory[string(rec.Category)]++
	}
	for kind, n := range res.Warnings.CountByKind() {
		s.byWarning[string(kind)] = n
	}
	return s
}

// contentHash identifies a catalog by its interchange document.
func contentHash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}
