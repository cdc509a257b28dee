package enrich

import (
    "context"
    "fmt"
    "time"

    "BotFolio/internal/domain/models"
    domsvc "BotFolio/internal/domain/service"
    "BotFolio/pkg/cache"
    "BotFolio/pkg/config"
)

// HTTPSymbolInfo looks up quote enrichment for a symbol, with a cache in
// front so repeated rankings don't hammer the quote service.
type HTTPSymbolInfo struct {
    base  *HTTPServiceBase
    cache cache.Service
    ttl   time.Duration
}

func NewHTTPSymbolInfo(cfg *config.Config, c cache.Service) *HTTPSymbolInfo {
    ttl := cfg.Enrich.InfoTTL
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    return &HTTPSymbolInfo{base: NewHTTPServiceBase(cfg), cache: c, ttl: ttl}
}

func (p *HTTPSymbolInfo) Info(ctx context.Context, symbol string) (models.SymbolInfo, error) {
    key := "symbol_info:" + symbol
    var info models.SymbolInfo
    if p.cache != nil {
        if err := p.cache.Get(ctx, key, &info); err == nil {
            return info, nil
        }
    }

    if err := p.base.GetJSON(ctx, "/symbols/"+symbol+"/info", &info); err != nil {
        return models.SymbolInfo{}, fmt.Errorf("symbol info: %w", err)
    }
    if p.cache != nil {
        _ = p.cache.Set(ctx, key, info, p.ttl)
    }
    return info, nil
}

var _ domsvc.SymbolInfoProvider = (*HTTPSymbolInfo)(nil)
