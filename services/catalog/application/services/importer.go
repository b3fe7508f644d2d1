package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	pkgvalidator "github.com/seanwirkus/Animal-Crossing-CE/pkg/validator"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
	domainsvcs "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/services"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/reference"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/workbook"
)

const tracerName = "github.com/seanwirkus/Animal-Crossing-CE/services/catalog"

// SheetStat summarizes what one sheet contributed to a run.
type SheetStat struct {
	Sheet    string
	Category models.Category
	Rows     int
	Records  int
	Skipped  int
}

// Result is the outcome of a successful import.
type Result struct {
	RunID    uuid.UUID
	Catalog  *models.Catalog
	Warnings *catalogdomain.Warnings
	Sheets   []SheetStat
}

// Importer turns workbook rows into catalog records. A single Importer may
// run many times; every Run gets its own allocator and catalog.
type Importer struct {
	log     logger.Logger
	plan    SheetPlan
	refs    *reference.Index
	skipped []*reference.FileError
	tracer  trace.Tracer

	// beforeRow runs ahead of each data row; tests use it to inject faults.
	beforeRow func(sheet string, row int)
}

// Option configures an Importer.
type Option func(*Importer)

// WithSheetPlan replaces the default sheet plan.
func WithSheetPlan(plan SheetPlan) Option {
	return func(imp *Importer) { imp.plan = plan }
}

// WithReferences enables filling gaps from reference payloads. Files that
// could not be loaded are reported as warnings on every run.
func WithReferences(idx *reference.Index, skipped ...*reference.FileError) Option {
	return func(imp *Importer) {
		imp.refs = idx
		imp.skipped = skipped
	}
}

// NewImporter returns an Importer using the default sheet plan.
func NewImporter(log logger.Logger, opts ...Option) *Importer {
	imp := &Importer{
		log:    log,
		plan:   DefaultSheetPlan(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// runState is the per-run mutable state. It never outlives Run.
type runState struct {
	alloc    *domainsvcs.Allocator
	catalog  *models.Catalog
	warnings *catalogdomain.Warnings
}

// Run imports every planned sheet of wb. Row-level problems become warnings;
// an error is returned only for workbook-level failures, a required sheet
// without records, or an empty catalog.
func (imp *Importer) Run(ctx context.Context, wb workbook.Workbook) (*Result, error) {
	ctx, span := imp.tracer.Start(ctx, "catalog.import")
	defer span.End()

	res := &Result{RunID: uuid.New()}
	st := &runState{
		alloc:    domainsvcs.NewAllocator(),
		catalog:  models.NewCatalog(),
		warnings: &catalogdomain.Warnings{},
	}

	for _, fe := range imp.skipped {
		st.warnings.Addf(catalogdomain.WarnReferencePayload, "", 0, "Reference payload %s skipped: %v", fe.Path, fe.Err)
	}

	present := make(map[string]bool)
	for _, name := range wb.Sheets() {
		present[name] = true
	}

	for _, spec := range imp.plan.Sheets {
		stat := SheetStat{Sheet: spec.Sheet, Category: spec.Category}
		if present[spec.Sheet] {
			var err error
			stat, err = imp.importSheet(ctx, wb, spec, st)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
		} else {
			st.warnings.Addf(catalogdomain.WarnMissingSheet, "", 0, "Sheet '%s' missing; skipping.", spec.Sheet)
		}
		res.Sheets = append(res.Sheets, stat)

		if spec.Required && stat.Records == 0 {
			err := fmt.Errorf("%w: %s", catalogdomain.ErrRequiredSheetEmpty, spec.Sheet)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	if st.catalog.Len() == 0 {
		span.SetStatus(codes.Error, catalogdomain.ErrNoRecords.Error())
		return nil, catalogdomain.ErrNoRecords
	}

	span.SetAttributes(
		attribute.Int("catalog.records", st.catalog.Len()),
		attribute.Int("catalog.warnings", st.warnings.Len()),
	)
	imp.log.InfoContext(ctx, "catalog imported",
		"run_id", res.RunID,
		"records", st.catalog.Len(),
		"warnings", st.warnings.Len(),
	)

	res.Catalog = st.catalog
	res.Warnings = st.warnings
	return res, nil
}

func (imp *Importer) importSheet(ctx context.Context, wb workbook.Workbook, spec SheetSpec, st *runState) (SheetStat, error) {
	ctx, span := imp.tracer.Start(ctx, "catalog.import.sheet",
		trace.WithAttributes(attribute.String("sheet", spec.Sheet)))
	defer span.End()

	stat := SheetStat{Sheet: spec.Sheet, Category: spec.Category}
	rows, err := wb.Rows(spec.Sheet)
	if err != nil {
		return stat, err
	}
	if len(rows) == 0 {
		st.warnings.Addf(catalogdomain.WarnMissingColumn, spec.Sheet, 0, "sheet has no header row.")
		return stat, nil
	}

	header := workbook.ResolveHeader(rows[0], workbook.ExpectedColumns())
	reportHeader(spec.Sheet, header, st.warnings)

	for i, row := range rows[1:] {
		rowNum := i + 2
		stat.Rows++
		rec, err := imp.importRow(spec, header, row, rowNum, st)
		if err != nil {
			stat.Skipped++
			st.warnings.Addf(catalogdomain.WarnRowPanic, spec.Sheet, rowNum, "row %d skipped: %v", rowNum, err)
			var stack string
			if pe, ok := err.(*rowPanicError); ok {
				stack = string(pe.stack)
			}
			imp.log.ErrorContext(ctx, "row panic recovered",
				"sheet", spec.Sheet,
				"row", rowNum,
				"error", err,
				"stack", stack,
			)
			continue
		}
		if rec == nil {
			stat.Skipped++
			continue
		}
		stat.Records++
	}

	span.SetAttributes(
		attribute.Int("sheet.rows", stat.Rows),
		attribute.Int("sheet.records", stat.Records),
	)
	imp.log.DebugContext(ctx, "sheet imported",
		"sheet", spec.Sheet,
		"rows", stat.Rows,
		"records", stat.Records,
		"skipped", stat.Skipped,
	)
	return stat, nil
}

func reportHeader(sheet string, h *workbook.Header, ws *catalogdomain.Warnings) {
	var months []string
	for _, col := range h.Missing {
		switch col {
		case workbook.ColumnName, workbook.ColumnSell, workbook.ColumnDescription, workbook.ColumnWhereHow:
			ws.Addf(catalogdomain.WarnMissingColumn, sheet, 1, "column '%s' missing.", col)
		default:
			months = append(months, col)
		}
	}
	if len(months) > 0 {
		ws.Addf(catalogdomain.WarnMissingColumn, sheet, 1, "missing month columns: %s", strings.Join(months, ", "))
	}
	for _, m := range h.Fuzzy {
		ws.Addf(catalogdomain.WarnFuzzyColumn, sheet, 1, "column '%s' matched header '%s'.", m.Expected, m.Found)
	}
}

// importRow builds and stores the record for one data row. It returns a nil
// record for rows that are skipped with a warning or have no name, and an
// error only when processing the row panicked.
func (imp *Importer) importRow(spec SheetSpec, h *workbook.Header, row []string, rowNum int, st *runState) (rec *models.ItemRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = &rowPanicError{value: r, stack: debug.Stack()}
		}
	}()
	if imp.beforeRow != nil {
		imp.beforeRow(spec.Sheet, rowNum)
	}

	name := domainsvcs.CellText(h.Cell(row, workbook.ColumnName))
	if name == "" {
		return nil, nil
	}
	ws := st.warnings

	baseValue := domainsvcs.ToInt(h.Cell(row, workbook.ColumnSell))
	description := domainsvcs.CellText(h.Cell(row, workbook.ColumnDescription))
	whereHow := domainsvcs.CellText(h.Cell(row, workbook.ColumnWhereHow))

	if ref, ok := imp.refs.Lookup(name); ok {
		if description == "" {
			description = ref.Description
		}
		if baseValue == 0 {
			baseValue = ref.SellValue
		}
		if whereHow == "" {
			whereHow = ref.Location
		}
	}

	if baseValue < 0 {
		ws.Addf(catalogdomain.WarnNegativeValue, spec.Sheet, rowNum, "'%s' has negative value %d; using 0.", name, baseValue)
		baseValue = 0
	}

	monthCells := make([]domainsvcs.MonthCell, 0, 12)
	monthValues := make([]any, 0, 12)
	for m := 1; m <= 12; m++ {
		v := h.Cell(row, workbook.MonthColumn(m))
		monthCells = append(monthCells, domainsvcs.MonthCell{Month: m, Value: v})
		monthValues = append(monthValues, v)
	}

	windows := domainsvcs.ExtractTimeWindows(monthValues)
	for _, seg := range windows.Dropped {
		ws.Addf(catalogdomain.WarnUnparsedSegment, spec.Sheet, rowNum, "'%s' has unparseable time segment %q.", name, seg)
	}

	rec = models.NewItemRecord(models.RecordInput{
		ID:           st.alloc.Slug(name, spec.Prefix),
		Name:         name,
		Category:     spec.Category,
		BaseValue:    baseValue,
		Rarity:       domainsvcs.ClassifyRarity(baseValue),
		Description:  description,
		SeasonTags:   domainsvcs.SeasonTags(monthCells),
		TimeWindows:  windows.Windows,
		Requirements: domainsvcs.LocationTags(whereHow),
	})

	if err := pkgvalidator.Validate(rec); err != nil {
		ws.Addf(catalogdomain.WarnInvalidRecord, spec.Sheet, rowNum, "'%s' skipped: %s", name, pkgvalidator.Summary(err))
		return nil, nil
	}

	origin := domainsvcs.Origin{Sheet: spec.Sheet, Row: rowNum, Name: name}
	if prev, collided := st.alloc.Claim(rec.ID, origin); collided {
		ws.Addf(catalogdomain.WarnDuplicateID, spec.Sheet, rowNum,
			"Duplicate item id '%s': %s replaces %s.", rec.ID, origin, prev)
	}
	st.catalog.Put(rec)

	if len(rec.TimeWindows) == 0 {
		ws.Addf(catalogdomain.WarnNoTimeWindows, spec.Sheet, rowNum, "'%s' has no time windows parsed.", name)
	}
	return rec, nil
}

// rowPanicError carries a recovered panic out of importRow.
type rowPanicError struct {
	value any
	stack []byte
}

func (e *rowPanicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
