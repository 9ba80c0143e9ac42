package worker

import (
	"context"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/source/memory"
)

func testService(t *testing.T) *services.ReportService {
	t.Helper()
	store := memory.New([]core.Category{{Name: "Rent"}, {Name: "Salary"}})
	ctx := context.Background()
	seed := []core.Transaction{
		{Date: core.NewDate(2025, 1, 1), Description: "rent", Amount: core.Money{Cents: 90000}, Type: core.Expense, Category: "Rent"},
		{Date: core.NewDate(2025, 2, 1), Description: "rent", Amount: core.Money{Cents: 90000}, Type: core.Expense, Category: "Rent"},
		{Date: core.NewDate(2025, 3, 1), Description: "rent", Amount: core.Money{Cents: 90000}, Type: core.Expense, Category: "Rent"},
		{Date: core.NewDate(2025, 3, 27), Description: "salary", Amount: core.Money{Cents: 250000}, Type: core.Income, Category: "Salary"},
	}
	for _, tx := range seed {
		if _, err := store.Append(ctx, tx); err != nil {
			t.Fatalf("seed append: %v", err)
		}
	}
	return services.NewReportService(store, nil, nil, analytics.DefaultOptions())
}

func TestHandleRequest(t *testing.T) {
	w := NewAnalysisWorker(testService(t), nil)
	msg := amqp.NewAnalysisRequestMessage("run-1", 12, 2.0, 12)

	if err := w.HandleRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
}

func TestHandleRequestUsesDefaultsForZeroParams(t *testing.T) {
	w := NewAnalysisWorker(testService(t), nil)
	msg := amqp.NewAnalysisRequestMessage("run-2", 0, 0, 0)

	if err := w.HandleRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleRequest() with zero params error = %v", err)
	}
}

func TestRunWithoutClientStopsOnCancel(t *testing.T) {
	w := NewAnalysisWorker(testService(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx); err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestStartScheduleRejectsBadSpec(t *testing.T) {
	w := NewAnalysisWorker(testService(t), nil)
	if _, err := w.StartSchedule(context.Background(), "not a cron spec"); err == nil {
		t.Fatal("StartSchedule() accepted an invalid spec")
	}
}

func TestStartSchedule(t *testing.T) {
	w := NewAnalysisWorker(testService(t), nil)
	stop, err := w.StartSchedule(context.Background(), "0 6 * * *")
	if err != nil {
		t.Fatalf("StartSchedule() error = %v", err)
	}
	stop()
}
