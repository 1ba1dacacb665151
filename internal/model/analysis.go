package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Analysis is an AI-generated insight payload produced by the backend.
// The payload is kept raw so unknown sections survive a cache round trip.
type Analysis struct {
	Payload   json.RawMessage
	CreatedAt time.Time
}

// Empty reports whether there is no analysis to show.
func (a Analysis) Empty() bool {
	return len(a.Payload) == 0 || string(a.Payload) == "null"
}

// AnalysisSections is the structured view of an analysis payload. Every
// field is optional.
type AnalysisSections struct {
	Summary       string   `json:"resumo"`
	Strength      string   `json:"ponto_positivo"`
	Concern       string   `json:"ponto_de_atencao"`
	Patterns      []string `json:"analise_de_padroes"`
	Advice        []string `json:"conselhos"`
	EmergencyPlan []string `json:"plano_de_emergencia"`
}

// Known reports whether any recognized section is present.
func (s AnalysisSections) Known() bool {
	return s.Summary != "" || s.Strength != "" || s.Concern != "" ||
		len(s.Patterns)+len(s.Advice)+len(s.EmergencyPlan) > 0
}

// PatternsCaption describes how many behavior patterns were found.
func (s AnalysisSections) PatternsCaption() string {
	return fmt.Sprintf("%d padrões identificados", len(s.Patterns))
}

// Sections decodes the known sections. A payload that is a bare string is
// treated as the summary.
func (a Analysis) Sections() AnalysisSections {
	var s AnalysisSections
	if a.Empty() {
		return s
	}
	if err := json.Unmarshal(a.Payload, &s); err == nil {
		return s
	}
	var text string
	if err := json.Unmarshal(a.Payload, &text); err == nil {
		s.Summary = text
	}
	return s
}

// AnalysisStatus is the quota state returned by /analysis/status.
type AnalysisStatus struct {
	HasSubscription    bool `json:"hasSubscription"`
	AnalysisRemaining  int  `json:"analysisRemaining"`
	MaxAnalysisPerWeek int  `json:"maxAnalysisPerWeek"`
	DaysUntilReset     int  `json:"daysUntilReset"`
}

// CanGenerate reports whether a new analysis may be requested.
func (s AnalysisStatus) CanGenerate() bool {
	return s.HasSubscription || s.AnalysisRemaining > 0
}
