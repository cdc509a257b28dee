package models

import "time"

// SignalType enumerates the supported market-event categories.
type SignalType string

const (
	SignalInsiderBuying     SignalType = "insider_buying"
	SignalInsiderSelling    SignalType = "insider_selling"
	SignalAnalystUpgrade    SignalType = "analyst_upgrade"
	SignalMergerAcquisition SignalType = "merger_acquisition"
	SignalTopGainer         SignalType = "top_gainer"
	SignalStockSplit        SignalType = "stock_split"
	SignalEarningsUpcoming  SignalType = "earnings_upcoming"
	SignalHighVolume        SignalType = "high_volume"
	SignalMomentum          SignalType = "momentum"
)

// Signal is one market event attributed to one symbol. Immutable; many
// signals may map to the same symbol. EventDate is kept as the feed's raw
// string so unparsable dates can degrade instead of failing ingestion.
type Signal struct {
	Symbol      string         `json:"symbol"`
	Type        SignalType     `json:"type"`
	Score       float64        `json:"score"` // signed base score, pre-decay
	Source      string         `json:"source"`
	Description string         `json:"description"`
	EventDate   string         `json:"event_date"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SymbolInfo enriches opportunity output. Never affects scoring.
type SymbolInfo struct {
	CompanyName string  `json:"company_name,omitempty"`
	LatestPrice float64 `json:"latest_price,omitempty"`
	Change      float64 `json:"change,omitempty"`
	Volume      int64   `json:"volume,omitempty"`
}

// InvestmentOpportunity is one symbol's aggregated, ranked view.
// Ranks across a result set are a dense permutation of 1..N by descending
// TotalScore, ties broken by stable input order.
type InvestmentOpportunity struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name,omitempty"`
	TotalScore  float64   `json:"total_score"`
	Signals     []Signal  `json:"signals"`
	LatestPrice float64   `json:"latest_price,omitempty"`
	Change      float64   `json:"change,omitempty"`
	Volume      int64     `json:"volume,omitempty"`
	Narrative   string    `json:"narrative,omitempty"`
	Rank        int       `json:"rank"`
	ComputedAt  time.Time `json:"computed_at"`
}
