// Package services orchestrates ledger loading and the analysis pipeline.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/source"
)

// AlertPublisher pushes anomaly alerts to the message broker.
type AlertPublisher interface {
	PublishAnomalyAlert(ctx context.Context, msg *amqp.AnomalyAlertMessage) error
}

// Report is the outcome of one full analysis run over the ledger.
type Report struct {
	ID           string                             `json:"id"`
	GeneratedAt  time.Time                          `json:"generated_at"`
	Options      analytics.Options                  `json:"options"`
	Transactions int                                `json:"transactions"`
	Aggregates   []analytics.MonthlyAggregate       `json:"aggregates"`
	Growth       map[string][]analytics.GrowthRate  `json:"growth"`
	Anomalies    analytics.DetectResult             `json:"anomalies"`
	Projections  []analytics.ProjectionResult       `json:"projections"`
	Unprojected  map[string]string                  `json:"unprojected,omitempty"`
	Score        analytics.ScoreBreakdown           `json:"score"`
	Insights     analytics.MonthInsights            `json:"insights"`
}

// ReportService loads the ledger and runs the analysis pipeline over it.
// An optional AlertPublisher receives one alert per anomaly; a nil
// publisher disables alerting without affecting the report.
type ReportService struct {
	ledger   source.Ledger
	alerts   AlertPublisher
	logger   *log.Logger
	defaults analytics.Options
}

func NewReportService(lg source.Ledger, alerts AlertPublisher, logger *log.Logger, defaults analytics.Options) *ReportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReportService{
		ledger:   lg,
		alerts:   alerts,
		logger:   logger.WithComponent(log.ComponentReport),
		defaults: defaults,
	}
}

// Defaults returns the service's default analysis options.
func (s *ReportService) Defaults() analytics.Options {
	return s.defaults
}

// Categories lists the backend's categories.
func (s *ReportService) Categories(ctx context.Context) ([]core.Category, error) {
	cats, err := s.ledger.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Snapshot loads transactions and categories from the backend and builds a
// validated, ordered snapshot.
func (s *ReportService) Snapshot(ctx context.Context) (*ledger.Snapshot, error) {
	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.ledger.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	snap, err := ledger.NewSnapshot(txs, core.NewCategorySet(cats))
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	return snap, nil
}

// BuildReport runs every analysis over one snapshot of the ledger. The
// independent analyses run in parallel; the snapshot is immutable so they
// need no locking. Zero-valued options fall back to the service defaults.
func (s *ReportService) BuildReport(ctx context.Context, opts analytics.Options) (*Report, error) {
	opts = s.merge(opts)

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:           uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Options:      opts,
		Transactions: snap.Len(),
	}

	// The aggregate grid feeds both growth and projections, so it is
	// computed before the parallel phase.
	report.Aggregates = analytics.Aggregate(snap, opts.WindowMonths)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Anomalies = analytics.Detect(snap, opts)
		return gctx.Err()
	})
	g.Go(func() error {
		results, failures := analytics.ProjectAll(report.Aggregates, core.Expense, opts.HorizonMonths)
		report.Projections = results
		if len(failures) > 0 {
			report.Unprojected = make(map[string]string, len(failures))
			for cat, ferr := range failures {
				report.Unprojected[cat] = ferr.Error()
			}
		}
		return gctx.Err()
	})
	g.Go(func() error {
		report.Score = analytics.Score(snap, opts)
		return gctx.Err()
	})
	g.Go(func() error {
		report.Growth = growthByCategory(report.Aggregates)
		if m, ok := snap.LatestMonth(); ok {
			report.Insights = analytics.Insights(snap, m)
		}
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Report built",
		log.FieldRunID, report.ID,
		log.FieldTxCount, report.Transactions,
		log.FieldWindowMonths, opts.WindowMonths,
		log.FieldScore, report.Score.Total,
		"anomalies", len(report.Anomalies.Flags))

	s.publishAlerts(ctx, report)
	return report, nil
}

// merge overlays non-zero caller options on the service defaults.
func (s *ReportService) merge(opts analytics.Options) analytics.Options {
	if opts.WindowMonths <= 0 {
		opts.WindowMonths = s.defaults.WindowMonths
	}
	if opts.Threshold <= 0 {
		opts.Threshold = s.defaults.Threshold
	}
	if opts.HorizonMonths <= 0 {
		opts.HorizonMonths = s.defaults.HorizonMonths
	}
	if opts.Weights == (analytics.Weights{}) {
		opts.Weights = s.defaults.Weights
	}
	return opts
}

// publishAlerts sends one alert per flag. Alerting is best effort: broker
// failures are logged and never fail the report.
func (s *ReportService) publishAlerts(ctx context.Context, report *Report) {
	if s.alerts == nil {
		return
	}
	for _, flag := range report.Anomalies.Flags {
		tx := flag.Transaction
		msg := &amqp.AnomalyAlertMessage{
			RunID:       report.ID,
			Category:    tx.Category,
			Description: tx.Description,
			Date:        fmt.Sprintf("%04d-%02d-%02d", tx.Date.Year(), tx.Date.Month(), tx.Date.Day()),
			AmountCents: tx.Amount.Cents,
			ZScore:      flag.Z,
			Severity:    string(flag.Severity),
			Timestamp:   time.Now(),
		}
		if err := s.alerts.PublishAnomalyAlert(ctx, msg); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish anomaly alert",
				log.FieldRunID, report.ID,
				log.FieldCategory, tx.Category,
				log.FieldError, err)
		}
	}
}

func growthByCategory(aggs []analytics.MonthlyAggregate) map[string][]analytics.GrowthRate {
	seen := make(map[string]bool)
	out := make(map[string][]analytics.GrowthRate)
	for _, a := range aggs {
		if seen[a.Category] {
			continue
		}
		seen[a.Category] = true
		if rates := analytics.GrowthRates(aggs, a.Category, core.Expense); rates != nil {
			out[a.Category] = rates
		}
	}
	return out
}
