package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"BotFolio/internal/domain/models"
	"BotFolio/internal/domain/repository"
	"BotFolio/pkg/util"
)

// ClickHouseSignalStore implements SignalStore for ClickHouse.
//
// Each row keeps the feed's raw event_date string next to the parsed
// event_ts. Rows with an unparsable date store event_ts=0 and are always
// returned by RecentSignals so they can decay with the fallback factor.
type ClickHouseSignalStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSignalStore creates ClickHouse signal storage.
func NewClickHouseSignalStore(db *sql.DB, table string) repository.SignalStore {
	return &ClickHouseSignalStore{db: db, table: table}
}

func (s *ClickHouseSignalStore) Store(ctx context.Context, sig *models.Signal) error {
	q := fmt.Sprintf("INSERT INTO %s (ingested_at, symbol, type, score, source, description, event_date, event_ts, metadata) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	eventTS, meta := signalRowExtras(sig)
	_, err := s.db.ExecContext(ctx, q,
		time.Now().UTC(),
		sig.Symbol,
		string(sig.Type),
		sig.Score,
		sig.Source,
		sig.Description,
		sig.EventDate,
		eventTS,
		meta,
	)
	return err
}

func (s *ClickHouseSignalStore) StoreBatch(ctx context.Context, signals []*models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 2000
	now := time.Now().UTC()
	for start := 0; start < len(signals); start += chunkSize {
		end := start + chunkSize
		if end > len(signals) {
			end = len(signals)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, sig := range signals[start:end] {
			if sig == nil || sig.Symbol == "" || sig.Type == "" {
				continue
			}
			eventTS, meta := signalRowExtras(sig)
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				now,
				sig.Symbol,
				string(sig.Type),
				sig.Score,
				sig.Source,
				sig.Description,
				sig.EventDate,
				eventTS,
				meta,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ingested_at, symbol, type, score, source, description, event_date, event_ts, metadata) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// RecentSignals loads the aggregation window: every signal with an event time
// on or after cutoff, plus all rows whose event date never parsed.
func (s *ClickHouseSignalStore) RecentSignals(ctx context.Context, cutoff time.Time, limit int) ([]models.Signal, error) {
	if limit <= 0 {
		limit = 5000
	}
	q := fmt.Sprintf("SELECT symbol, type, score, source, description, event_date, metadata FROM %s WHERE event_ts >= ? OR event_ts = toDateTime(0) ORDER BY ingested_at DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Signal
	for rows.Next() {
		var sig models.Signal
		var typ, meta string
		if err := rows.Scan(&sig.Symbol, &typ, &sig.Score, &sig.Source, &sig.Description, &sig.EventDate, &meta); err != nil {
			return nil, err
		}
		sig.Type = models.SignalType(typ)
		if meta != "" {
			_ = json.Unmarshal([]byte(meta), &sig.Metadata)
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

func (s *ClickHouseSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSignalStore) Close() error {
	return nil // Managed by pkg
}

func signalRowExtras(sig *models.Signal) (time.Time, string) {
	eventTS := time.Unix(0, 0).UTC() // epoch marks an unparsable date
	if t, ok := util.ParseTime(sig.EventDate); ok {
		eventTS = t.UTC()
	}
	meta := ""
	if len(sig.Metadata) > 0 {
		if b, err := json.Marshal(sig.Metadata); err == nil {
			meta = string(b)
		}
	}
	return eventTS, meta
}
