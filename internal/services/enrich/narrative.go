package enrich

import (
    "context"
    "fmt"

    "BotFolio/internal/domain/models"
    domsvc "BotFolio/internal/domain/service"
    "BotFolio/pkg/config"
)

type HTTPNarrativeGenerator struct { base *HTTPServiceBase }

func NewHTTPNarrativeGenerator(cfg *config.Config) *HTTPNarrativeGenerator { return &HTTPNarrativeGenerator{base: NewHTTPServiceBase(cfg)} }

type narrativeRequest struct {
    Symbol     string          `json:"symbol"`
    TotalScore float64         `json:"total_score"`
    Signals    []models.Signal `json:"signals"`
}

type narrativeResponse struct {
    Summary string `json:"summary"`
}

func (g *HTTPNarrativeGenerator) Summarize(ctx context.Context, opp models.InvestmentOpportunity) (string, error) {
    var nr narrativeResponse
    req := narrativeRequest{Symbol: opp.Symbol, TotalScore: opp.TotalScore, Signals: opp.Signals}
    if err := g.base.PostJSONWithRetry(ctx, "/narrative/summarize", req, &nr, 3); err != nil {
        return "", fmt.Errorf("post narrative: %w", err)
    }
    return nr.Summary, nil
}

var _ domsvc.NarrativeGenerator = (*HTTPNarrativeGenerator)(nil)
