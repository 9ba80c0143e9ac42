// Package worker runs analysis passes in the background, either on demand
// via AMQP requests or on a cron schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/services"
)

// AnalysisWorker consumes analysis requests and runs the report pipeline.
// Anomaly alerts are published by the report service itself.
type AnalysisWorker struct {
	reports *services.ReportService
	client  *amqp.Client
	cron    *cron.Cron
}

func NewAnalysisWorker(reports *services.ReportService, client *amqp.Client) *AnalysisWorker {
	return &AnalysisWorker{
		reports: reports,
		client:  client,
	}
}

// HandleRequest processes a single analysis request message.
func (w *AnalysisWorker) HandleRequest(ctx context.Context, msg *amqp.AnalysisRequestMessage) error {
	slog.InfoContext(ctx, "Processing analysis request",
		"run_id", msg.RunID,
		"window_months", msg.WindowMonths,
		"threshold", msg.Threshold,
		"horizon_months", msg.HorizonMonths)

	opts := analytics.Options{
		WindowMonths:  msg.WindowMonths,
		Threshold:     msg.Threshold,
		HorizonMonths: msg.HorizonMonths,
	}
	report, err := w.reports.BuildReport(ctx, opts)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	slog.InfoContext(ctx, "Analysis run completed",
		"run_id", msg.RunID,
		"report_id", report.ID,
		"transactions", report.Transactions,
		"anomalies", len(report.Anomalies.Flags),
		"score", report.Score.Total)

	return nil
}

// Run consumes analysis requests until ctx is canceled. With no AMQP
// client configured it blocks until cancellation so the scheduled runs
// keep working.
func (w *AnalysisWorker) Run(ctx context.Context) error {
	if w.client == nil {
		slog.InfoContext(ctx, "No AMQP client configured, scheduled runs only")
		<-ctx.Done()
		return ctx.Err()
	}
	return w.client.ConsumeAnalysisRequests(ctx, func(msg *amqp.AnalysisRequestMessage) error {
		return w.HandleRequest(ctx, msg)
	})
}

// StartSchedule registers a cron-driven analysis pass with the service
// defaults. The returned stop function halts the scheduler and waits for a
// running job to finish.
func (w *AnalysisWorker) StartSchedule(ctx context.Context, spec string) (stop func(), err error) {
	w.cron = cron.New()
	_, err = w.cron.AddFunc(spec, func() {
		report, err := w.reports.BuildReport(ctx, w.reports.Defaults())
		if err != nil {
			slog.ErrorContext(ctx, "Scheduled analysis failed", "error", err)
			return
		}
		slog.InfoContext(ctx, "Scheduled analysis completed",
			"report_id", report.ID,
			"anomalies", len(report.Anomalies.Flags),
			"score", report.Score.Total)
	})
	if err != nil {
		return nil, fmt.Errorf("register schedule %q: %w", spec, err)
	}
	w.cron.Start()
	slog.InfoContext(ctx, "Analysis schedule started", "spec", spec)

	return func() {
		stopCtx := w.cron.Stop()
		<-stopCtx.Done()
	}, nil
}
