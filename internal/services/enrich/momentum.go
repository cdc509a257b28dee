package enrich

import (
    "context"
    "fmt"

    "BotFolio/internal/domain/models"
    domsvc "BotFolio/internal/domain/service"
    "BotFolio/pkg/config"
)

type HTTPMomentumScreener struct { base *HTTPServiceBase }

func NewHTTPMomentumScreener(cfg *config.Config) *HTTPMomentumScreener { return &HTTPMomentumScreener{base: NewHTTPServiceBase(cfg)} }

type screenerRequest struct {
    Limit int `json:"limit"`
}

type screenerResponse struct {
    Rows []struct {
        Symbol      string  `json:"symbol"`
        Score       float64 `json:"score"`
        Description string  `json:"description"`
        EventDate   string  `json:"event_date"`
    } `json:"rows"`
}

// Discover asks the screener service for symbols with unusual momentum and
// maps each row to a momentum signal.
func (s *HTTPMomentumScreener) Discover(ctx context.Context, limit int) ([]models.Signal, error) {
    if limit <= 0 {
        limit = 50
    }
    var sr screenerResponse
    if err := s.base.PostJSONWithRetry(ctx, "/screener/momentum", screenerRequest{Limit: limit}, &sr, 3); err != nil {
        return nil, fmt.Errorf("post screener: %w", err)
    }
    out := make([]models.Signal, 0, len(sr.Rows))
    for _, r := range sr.Rows {
        out = append(out, models.Signal{
            Symbol:      r.Symbol,
            Type:        models.SignalMomentum,
            Score:       r.Score,
            Source:      "screener",
            Description: r.Description,
            EventDate:   r.EventDate,
        })
    }
    return out, nil
}

var _ domsvc.MomentumScreener = (*HTTPMomentumScreener)(nil)
