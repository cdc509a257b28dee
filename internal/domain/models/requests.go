package models

// Requests for API endpoints. Defined in domain for consistency and reuse.

// BacktestMetricsRequest carries one backtest run's raw results for analysis.
// InitialCash is used as the equity baseline when the curve is empty.
type BacktestMetricsRequest struct {
	RunID       string             `json:"run_id" validate:"required"`
	InitialCash float64            `json:"initial_cash" validate:"gte=0"`
	Trades      []Trade            `json:"trades"`
	EquityCurve []EquityCurvePoint `json:"equity_curve"`
	Persist     bool               `json:"persist" default:"false"`
}

type OpportunitiesRequest struct {
	Limit   int  `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
	Refresh bool `query:"refresh" json:"refresh" default:"false"`
}

type OpportunityRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
}

// SignalIngestRequest submits a batch of pre-mapped signals.
type SignalIngestRequest struct {
	Signals []Signal `json:"signals" validate:"required,min=1,dive"`
}
