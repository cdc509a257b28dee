package service

import (
	"context"

	"BotFolio/internal/domain/models"
)

// NarrativeGenerator produces a short human-readable summary for a ranked
// opportunity. Treated as an opaque text-generation call; failures must not
// abort the scoring pipeline.
type NarrativeGenerator interface {
	Summarize(ctx context.Context, opp models.InvestmentOpportunity) (string, error)
}

// MomentumScreener discovers symbols with unusual recent momentum and returns
// them as momentum signals. Optional enrichment source; failures contribute an
// empty list.
type MomentumScreener interface {
	Discover(ctx context.Context, limit int) ([]models.Signal, error)
}

// SymbolInfoProvider looks up display enrichment (company name, latest quote)
// for a symbol. Never consulted for scoring.
type SymbolInfoProvider interface {
	Info(ctx context.Context, symbol string) (models.SymbolInfo, error)
}
