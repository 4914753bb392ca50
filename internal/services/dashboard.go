// Package services runs the load, filter and aggregate pipeline behind the
// dashboard.
package services

import (
	"context"
	"fmt"
	"sync"

	"upidash/internal/aggregate"
	"upidash/internal/core"
	"upidash/internal/filter"
	"upidash/internal/log"
)

// TableLoader is the memoized dataset source the dashboard reads from.
type TableLoader interface {
	Load(ctx context.Context, path string) (*core.Table, error)
	Clear(path string)
}

// ReloadPublisher announces explicit reloads to other systems.
type ReloadPublisher interface {
	PublishDatasetReloaded(ctx context.Context, path string, rows int) error
}

// View is everything the presenter needs for one render.
type View struct {
	Options    filter.Options
	Criteria   filter.Criteria
	Warnings   []filter.Warning
	Summary    core.Summary
	Monthly    []core.Total
	Merchants  []core.Total
	Categories []core.Total
	Rows       []core.Transaction // filtered, newest first
}

// Dashboard recomputes a View whenever the filter selection changes.
type Dashboard struct {
	loader TableLoader
	path   string
	topK   int
	logger *log.Logger
	events *log.StructuredLogger

	publisher ReloadPublisher

	mu        sync.Mutex
	optsTable *core.Table
	opts      filter.Options
}

func NewDashboard(loader TableLoader, path string, topK int, logger *log.Logger) *Dashboard {
	if topK <= 0 {
		topK = aggregate.DefaultTopMerchants
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentDashboard)
	return &Dashboard{
		loader: loader,
		path:   path,
		topK:   topK,
		logger: logger,
		events: log.NewStructuredLogger(logger),
	}
}

// SetPublisher makes Reload announce each successful reload through p.
func (d *Dashboard) SetPublisher(p ReloadPublisher) {
	d.publisher = p
}

// Path returns the data path the dashboard serves.
func (d *Dashboard) Path() string {
	return d.path
}

// TopK returns how many merchants the top-merchants chart shows.
func (d *Dashboard) TopK() int {
	return d.topK
}

// Warmup loads the dataset so the first request does not pay for it.
func (d *Dashboard) Warmup(ctx context.Context) error {
	_, _, err := d.table(ctx)
	return err
}

// Options returns the control options of the unfiltered dataset.
func (d *Dashboard) Options(ctx context.Context) (filter.Options, error) {
	_, opts, err := d.table(ctx)
	return opts, err
}

// OnFilterChanged re-runs the pipeline for sel.
func (d *Dashboard) OnFilterChanged(ctx context.Context, sel filter.Selection) (*View, error) {
	table, opts, err := d.table(ctx)
	if err != nil {
		return nil, err
	}

	criteria, warnings := sel.Resolve(opts)
	view := BuildView(table, opts, criteria, d.topK)
	view.Warnings = warnings

	d.events.LogPipeline(ctx, table.Len(), view.Summary.RowCount, view.Summary.TotalAmount.String(), len(warnings))
	return view, nil
}

// Filtered returns the rows sel keeps, newest first.
func (d *Dashboard) Filtered(ctx context.Context, sel filter.Selection) ([]core.Transaction, []filter.Warning, error) {
	table, opts, err := d.table(ctx)
	if err != nil {
		return nil, nil, err
	}
	criteria, warnings := sel.Resolve(opts)
	return filter.Apply(table, criteria).SortedByDateTimeDesc(), warnings, nil
}

// Reload drops the cached dataset and reads it again.
func (d *Dashboard) Reload(ctx context.Context) (filter.Options, error) {
	d.loader.Clear(d.path)
	table, opts, err := d.table(ctx)
	if err != nil {
		d.events.LogError(ctx, "Dataset reload failed", err, log.OpReload, log.LogFields{log.FieldDataPath: d.path})
		return filter.Options{}, fmt.Errorf("reload %s: %w", d.path, err)
	}
	d.logger.InfoContext(ctx, "Dataset reloaded",
		log.NewFields().WithDataset(d.path, table.Len()).WithOperation(log.OpReload).ToSlice()...)

	if d.publisher != nil {
		// The reload already happened; a failed announcement is only logged.
		if err := d.publisher.PublishDatasetReloaded(ctx, d.path, table.Len()); err != nil {
			d.logger.WarnContext(ctx, "Reload event not published",
				log.NewFields().WithError(err).WithOperation(log.OpReload).ToSlice()...)
		}
	}
	return opts, nil
}

// table loads the dataset and the options derived from it. Options are
// recomputed only when the loader hands back a different table.
func (d *Dashboard) table(ctx context.Context) (*core.Table, filter.Options, error) {
	t, err := d.loader.Load(ctx, d.path)
	if err != nil {
		return nil, filter.Options{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.optsTable != t {
		d.opts = filter.OptionsFor(t)
		d.optsTable = t
	}
	return t, d.opts, nil
}

// BuildView runs filter and aggregation over table.
func BuildView(table *core.Table, opts filter.Options, criteria filter.Criteria, topK int) *View {
	filtered := filter.Apply(table, criteria)
	return &View{
		Options:    opts,
		Criteria:   criteria,
		Summary:    aggregate.Summarize(filtered),
		Monthly:    aggregate.MonthlySpend(filtered),
		Merchants:  aggregate.TopMerchants(filtered, topK),
		Categories: aggregate.CategorySpend(filtered),
		Rows:       filtered.SortedByDateTimeDesc(),
	}
}
