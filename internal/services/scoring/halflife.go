package scoring

import (
	"math"
	"time"

	"BotFolio/internal/domain/models"
	"BotFolio/pkg/util"
)

// Half-lives in days. A signal loses half its base score every half-life.
// Slow-burn events (insider activity) stay relevant for months; fast ones
// (volume spikes, momentum) are near-worthless after a couple of days.
var defaultHalfLives = map[models.SignalType]float64{
	models.SignalInsiderBuying:     60,
	models.SignalInsiderSelling:    60,
	models.SignalAnalystUpgrade:    30,
	models.SignalMergerAcquisition: 14,
	models.SignalTopGainer:         3,
	models.SignalStockSplit:        21,
	models.SignalEarningsUpcoming:  7,
	models.SignalHighVolume:        1,
	models.SignalMomentum:          3,
}

// unknownTypeHalfLife applies to signal types not in the table.
const unknownTypeHalfLife = 14.0

// unparsableDateDecay is the fixed factor applied when a signal's event date
// cannot be parsed. The signal still scores, just heavily discounted.
const unparsableDateDecay = 0.5

func (e *Engine) halfLifeFor(t models.SignalType) float64 {
	if hl, ok := e.halfLives[t]; ok && hl > 0 {
		return hl
	}
	return unknownTypeHalfLife
}

// decayFactor returns the multiplier in (0, 1] for a signal's age at now.
// Age 0 returns exactly 1. Future-dated events are clamped to age 0.
func (e *Engine) decayFactor(s models.Signal, now time.Time) float64 {
	t, ok := util.ParseTime(s.EventDate)
	if !ok {
		return unparsableDateDecay
	}
	ageDays := now.Sub(t).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	return math.Exp(-math.Ln2 * ageDays / e.halfLifeFor(s.Type))
}
