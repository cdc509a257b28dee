package feedws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"BotFolio/internal/domain/models"
	drepo "BotFolio/internal/domain/repository"
	"BotFolio/internal/services/scoring"

	"github.com/gorilla/websocket"
)

// Client implements a MarketStream backed by a market-events WebSocket feed
// (analyst actions, insider transactions, volume spikes).
type Client struct {
	apiKey         string
	websocketURL   string
	channels       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new market-events MarketStream.
func New(apiKey, websocketURL string, channels []string, reconnectDelay, pingInterval time.Duration) drepo.MarketStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		channels:       channels,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("feed: connected")
	return nil
}

// Subscribe subscribes to configured event channels.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("feed not connected")
	}
	for _, ch := range c.channels {
		msg := map[string]string{"type": "subscribe", "channel": ch}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", ch, err)
		}
		log.Printf("feed: subscribed %s", ch)
	}
	return nil
}

type feedEvent struct {
	Symbol        string  `json:"symbol"`
	Event         string  `json:"event"`
	Score         float64 `json:"score"`
	Source        string  `json:"source"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	CurrentGrade  string  `json:"current_grade"`
	PreviousGrade string  `json:"previous_grade"`
}

type feedMessage struct {
	Type string      `json:"type"`
	Data []feedEvent `json:"data"`
}

// Read streams Signal events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Signal, <-chan error) {
	signals := make(chan *models.Signal, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(signals)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("feed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("feed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-event frames
					continue
				}
				if m.Type != "event" {
					continue
				}
				for _, d := range m.Data {
					s := mapEvent(d)
					if s == nil {
						continue
					}
					select {
					case signals <- s:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return signals, errs
}

// defaultScores fills in the base score for feed frames that carry none.
var defaultScores = map[models.SignalType]float64{
	models.SignalInsiderBuying:     7.5,
	models.SignalInsiderSelling:    -5.0,
	models.SignalAnalystUpgrade:    6.0,
	models.SignalMergerAcquisition: 8.0,
	models.SignalTopGainer:         4.0,
	models.SignalStockSplit:        3.0,
	models.SignalEarningsUpcoming:  2.0,
	models.SignalHighVolume:        1.5,
	models.SignalMomentum:          4.0,
}

// mapEvent converts a feed frame to a signal. Analyst actions that are not
// buy-grade or a genuine upgrade are dropped at the edge.
func mapEvent(d feedEvent) *models.Signal {
	if d.Symbol == "" || d.Event == "" {
		return nil
	}
	t := models.SignalType(d.Event)
	if t == models.SignalAnalystUpgrade && !scoring.IsBuySignal(d.CurrentGrade, d.PreviousGrade) {
		return nil
	}
	score := d.Score
	if score == 0 {
		score = defaultScores[t]
	}
	return &models.Signal{
		Symbol:      d.Symbol,
		Type:        t,
		Score:       score,
		Source:      d.Source,
		Description: d.Description,
		EventDate:   d.Date,
	}
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
