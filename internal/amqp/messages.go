package amqp

import (
	"encoding/json"
	"time"
)

// AnalysisRequestMessage asks the worker to run a full analysis pass.
// It carries only the run parameters; the worker reads the ledger itself.
type AnalysisRequestMessage struct {
	RunID         string    `json:"run_id"`
	WindowMonths  int       `json:"window_months"`
	Threshold     float64   `json:"threshold"`
	HorizonMonths int       `json:"horizon_months"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewAnalysisRequestMessage creates a request with the given run parameters.
func NewAnalysisRequestMessage(runID string, windowMonths int, threshold float64, horizonMonths int) *AnalysisRequestMessage {
	return &AnalysisRequestMessage{
		RunID:         runID,
		WindowMonths:  windowMonths,
		Threshold:     threshold,
		HorizonMonths: horizonMonths,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AnalysisRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AnalysisRequestMessageFromJSON creates a message from JSON bytes
func AnalysisRequestMessageFromJSON(data []byte) (*AnalysisRequestMessage, error) {
	var msg AnalysisRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AnomalyAlertMessage notifies downstream consumers of one flagged
// transaction. Amounts travel as cents to keep the payload exact.
type AnomalyAlertMessage struct {
	RunID       string    `json:"run_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // YYYY-MM-DD
	AmountCents int64     `json:"amount_cents"`
	ZScore      float64   `json:"z_score"`
	Severity    string    `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *AnomalyAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AnomalyAlertMessageFromJSON creates a message from JSON bytes
func AnomalyAlertMessageFromJSON(data []byte) (*AnomalyAlertMessage, error) {
	var msg AnomalyAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
