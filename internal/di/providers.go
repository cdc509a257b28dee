package di

import (
    "context"
    "fmt"
    "net"
    "strconv"
    "time"

    "BotFolio/internal/domain/models"
    "BotFolio/internal/domain/repository"
    "BotFolio/internal/handler/api"
    mid "BotFolio/internal/middleware"
    internalrepo "BotFolio/internal/repository"
    icache "BotFolio/internal/service/cache"
    "BotFolio/internal/service/feedws"
    "BotFolio/internal/services/enrich"
    "BotFolio/internal/services/perf"
    "BotFolio/internal/services/scoring"
    "BotFolio/internal/usecase"
    pkgcache "BotFolio/pkg/cache"
    pkgch "BotFolio/pkg/clickhouse"
    "BotFolio/pkg/config"
    xhttp "BotFolio/pkg/http"
    pkgkafka "BotFolio/pkg/kafka"
    applogger "BotFolio/pkg/logger"
    "BotFolio/pkg/metrics"
    "BotFolio/pkg/server"

    "github.com/labstack/echo/v4"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if db == "" {
		db = "botfolio"
	}
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
			(ingested_at DateTime, symbol String, type String, score Float64,
			 source String, description String, event_date String,
			 event_ts DateTime, metadata String)
			ENGINE=MergeTree ORDER BY (symbol, ingested_at)`, signalsTable(cfg)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
			(run_id String, computed_at DateTime, total_trades Int64,
			 winning_trades Int64, losing_trades Int64, win_rate Float64,
			 avg_win_pct Float64, avg_loss_pct Float64, profit_factor Float64,
			 expectancy Float64, initial_cash Float64, final_equity Float64,
			 total_return Float64, total_return_pct Float64,
			 sharpe_ratio Nullable(Float64), sortino_ratio Nullable(Float64),
			 var_95 Nullable(Float64), cvar_95 Nullable(Float64),
			 max_drawdown_pct Float64, max_drawdown_date DateTime,
			 avg_drawdown_pct Float64)
			ENGINE=MergeTree ORDER BY (run_id, computed_at)`, backtestsTable(cfg)),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

func signalsTable(cfg *config.Config) string {
	db := cfg.ClickHouse.Database
	if db == "" {
		db = "botfolio"
	}
	t := cfg.ClickHouse.SignalsTable
	if t == "" {
		t = "signals"
	}
	return db + "." + t
}

func backtestsTable(cfg *config.Config) string {
	db := cfg.ClickHouse.Database
	if db == "" {
		db = "botfolio"
	}
	t := cfg.ClickHouse.BacktestsTable
	if t == "" {
		t = "backtest_metrics"
	}
	return db + "." + t
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSignalStore creates ClickHouse signal storage.
func ProvideSignalStore(chClient *pkgch.Client, cfg *config.Config) repository.SignalStore {
	return internalrepo.NewClickHouseSignalStore(chClient.DB(), signalsTable(cfg))
}

// ProvideBacktestStore creates ClickHouse backtest metrics storage.
func ProvideBacktestStore(chClient *pkgch.Client, cfg *config.Config) repository.BacktestStore {
	return internalrepo.NewClickHouseBacktestStore(chClient.DB(), backtestsTable(cfg))
}

// ProvideOpportunityPublisher creates the Kafka publisher for ranked sets,
// or nil when Kafka is disabled.
func ProvideOpportunityPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil || cfg.Kafka.OpportunitiesTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.OpportunitiesTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML, or nil
// when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.EventsTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaEventsHandler registers the handler for the events topic.
func ProvideKafkaEventsHandler(ing *usecase.SignalIngestor, m repository.Metrics, cfg *config.Config) *usecase.KafkaEventsHandler {
	return usecase.NewKafkaEventsHandler(cfg.Kafka.EventsTopic, ing, m)
}

// ProvideFeedStream creates the market-events WebSocket stream, or nil when
// no feed is configured.
func ProvideFeedStream(cfg *config.Config) repository.MarketStream {
	if cfg.Feed.WebSocketURL == "" {
		return nil
	}
	return feedws.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Channels,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideAnalytics creates the backtest statistics battery.
func ProvideAnalytics(cfg *config.Config) *perf.Analytics {
	return perf.New(perf.Options{
		AnnualizationFactor: cfg.Analytics.AnnualizationFactor,
		RiskFreeRate:        cfg.Analytics.RiskFreeRate,
		ProfitFactorCap:     cfg.Analytics.ProfitFactorCap,
	})
}

// ProvideScoringEngine creates the signal aggregation engine with configured
// half-life overrides.
func ProvideScoringEngine(cfg *config.Config) *scoring.Engine {
	overrides := make(map[models.SignalType]float64, len(cfg.Scoring.HalfLives))
	for t, d := range cfg.Scoring.HalfLives {
		overrides[models.SignalType(t)] = d
	}
	return scoring.NewEngine(scoring.Options{HalfLives: overrides})
}

// ProvideResultCache creates the ranked-set cache.
func ProvideResultCache(cfg *config.Config) *scoring.ResultCache {
	return scoring.NewResultCache(cfg.Scoring.CacheTTL)
}

// ProvideCacheService creates the enrichment cache: Redis when configured,
// in-process memory otherwise.
func ProvideCacheService(cfg *config.Config) pkgcache.Service {
	r := cfg.Enrich.Redis
	if r.Enabled && r.Addr != "" {
		host, portStr, err := net.SplitHostPort(r.Addr)
		if err == nil {
			port, _ := strconv.Atoi(portStr)
			if rc, err := pkgcache.NewRedisCache(
				pkgcache.WithRedisHost(host),
				pkgcache.WithRedisPort(port),
				pkgcache.WithRedisPassword(r.Password),
				pkgcache.WithRedisDB(r.DB),
			); err == nil {
				return rc
			}
		}
	}
	return pkgcache.NewMemoryCache()
}

// ProvideSignalIngestor creates the signal ingest use case. The result cache
// doubles as the invalidation target.
func ProvideSignalIngestor(store repository.SignalStore, m repository.Metrics, rc *scoring.ResultCache) *usecase.SignalIngestor {
	return usecase.NewSignalIngestor(store, m, rc)
}

// ProvideSignalCollector creates the feed collector, or nil when no feed is
// configured.
func ProvideSignalCollector(
	stream repository.MarketStream,
	ing *usecase.SignalIngestor,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SignalCollector {
	if stream == nil {
		return nil
	}
	opts := []mid.PipelineOption{}
	if cfg.Pipeline.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Pipeline.MaxRPS))
	}
	if cfg.Pipeline.BufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Pipeline.BufferSize))
	}
	pipe := mid.NewIngestPipeline(ing, m, opts...)
	return usecase.NewSignalCollector(stream, ing, m, pipe)
}

// ProvideOpportunityRanker creates the ranking use case with the optional
// enrichment services wired from config.
func ProvideOpportunityRanker(
	store repository.SignalStore,
	engine *scoring.Engine,
	rc *scoring.ResultCache,
	pub repository.Publisher,
	cacheSvc pkgcache.Service,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.OpportunityRanker {
	opts := []usecase.RankerOption{}
	if cfg.Scoring.Window > 0 {
		opts = append(opts, usecase.WithWindow(cfg.Scoring.Window))
	}
	if cfg.Scoring.MaxSignals > 0 {
		opts = append(opts, usecase.WithMaxSignals(cfg.Scoring.MaxSignals))
	}
	if cfg.Scoring.EnrichTop > 0 {
		opts = append(opts, usecase.WithEnrichTop(cfg.Scoring.EnrichTop))
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	if cfg.Enrich.ServiceURL != "" {
		opts = append(opts, usecase.WithSymbolInfo(enrich.NewHTTPSymbolInfo(cfg, cacheSvc)))
		if cfg.Enrich.Narrative {
			opts = append(opts, usecase.WithNarrative(enrich.NewHTTPNarrativeGenerator(cfg)))
		}
		if cfg.Enrich.Screener {
			opts = append(opts, usecase.WithScreener(enrich.NewHTTPMomentumScreener(cfg)))
		}
	}
	return usecase.NewOpportunityRanker(store, engine, rc, m, opts...)
}

// ProvideBacktestAnalyzer creates the backtest analysis use case.
func ProvideBacktestAnalyzer(analytics *perf.Analytics, store repository.BacktestStore, m repository.Metrics) *usecase.BacktestAnalyzer {
	return usecase.NewBacktestAnalyzer(analytics, store, m)
}

// handlers bundles all route groups behind one xhttp.Handler.
type handlers struct {
	list []xhttp.Handler
}

func (h *handlers) RegisterRoutes(e *echo.Echo) {
	for _, hh := range h.list {
		hh.RegisterRoutes(e)
	}
}

// ProvideHTTPHandler composes the API route groups.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	ranker *usecase.OpportunityRanker,
	analyzer *usecase.BacktestAnalyzer,
	ing *usecase.SignalIngestor,
	collector *usecase.SignalCollector,
	signalStore repository.SignalStore,
	backtestStore repository.BacktestStore,
) xhttp.Handler {
	opps := api.NewOpportunitiesHandler(l, ranker)
	if r := cfg.Enrich.Redis; r.Enabled && r.Addr != "" {
		opps.SetCache(icache.NewRedisCache(icache.RedisConfig{Addr: r.Addr, Password: r.Password, DB: r.DB}))
	} else {
		opps.SetCache(icache.NewTTLCache())
	}

	health := api.NewHealthHandler(collector)
	health.AddCheck("signals", func(c echo.Context) error {
		return signalStore.Health(c.Request().Context())
	})
	health.AddCheck("backtests", func(c echo.Context) error {
		return backtestStore.Health(c.Request().Context())
	})

	return &handlers{list: []xhttp.Handler{
		opps,
		api.NewBacktestsHandler(l, analyzer),
		api.NewSignalsHandler(l, ing),
		health,
	}}
}

// ProvideApp creates the application server. When a logs topic is configured
// the logger's error aggregation is published through the Kafka producer.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
	collector *usecase.SignalCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaEventsHandler,
	ing *usecase.SignalIngestor,
	chClient *pkgch.Client,
	httpHandler xhttp.Handler,
) *server.App {
	var mh pkgkafka.MessageHandler
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
		mh = kh
	}
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      producer,
		})
	}
	app := server.New(cfg, collector, consumer, mh, chClient)
	app.SetHTTPHandler(httpHandler)
	app.Ingestor = ing
	app.Logger = l
	return app
}
