package di

import (
	"context"
	"fmt"
	"time"

	"SMCAlert/internal/domain/repository"
	"SMCAlert/internal/handler/api"
	mid "SMCAlert/internal/middleware"
	internalrepo "SMCAlert/internal/repository"
	"SMCAlert/internal/scheduler"
	"SMCAlert/internal/sentiment"
	icache "SMCAlert/internal/service/cache"
	"SMCAlert/internal/service/indicators"
	"SMCAlert/internal/service/notify"
	"SMCAlert/internal/service/quotes"
	"SMCAlert/internal/smc"
	"SMCAlert/internal/usecase"
	pkgcache "SMCAlert/pkg/cache"
	pkgch "SMCAlert/pkg/clickhouse"
	"SMCAlert/pkg/config"
	pkgkafka "SMCAlert/pkg/kafka"
	applogger "SMCAlert/pkg/logger"
	"SMCAlert/pkg/metrics"
	"SMCAlert/pkg/queue"
	"SMCAlert/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the
// tick and candle schema.
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if db == "" {
		db = "smcalert"
	}
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.rt_ticks_raw (
			ts DateTime64(3), symbol String, price Float64, volume Float64,
			source String, event_id String, seq UInt64
		) ENGINE=MergeTree ORDER BY (symbol, ts)`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.rt_candles_1s (
			bucket DateTime, symbol String,
			open Float64, high Float64, low Float64, close Float64, vol Float64
		) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.rt_candles_1m (
			bucket DateTime, symbol String,
			open Float64, high Float64, low Float64, close Float64, vol Float64
		) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)`, db),
		fmt.Sprintf(`CREATE MATERIALIZED VIEW IF NOT EXISTS %s.rt_candles_1s_mv TO %s.rt_candles_1s AS
			SELECT toStartOfSecond(ts) AS bucket, symbol,
				argMin(price, ts) AS open, max(price) AS high,
				min(price) AS low, argMax(price, ts) AS close, sum(volume) AS vol
			FROM %s.rt_ticks_raw GROUP BY bucket, symbol`, db, db, db),
		fmt.Sprintf(`CREATE MATERIALIZED VIEW IF NOT EXISTS %s.rt_candles_1m_mv TO %s.rt_candles_1m AS
			SELECT toStartOfMinute(ts) AS bucket, symbol,
				argMin(price, ts) AS open, max(price) AS high,
				min(price) AS low, argMax(price, ts) AS close, sum(volume) AS vol
			FROM %s.rt_ticks_raw GROUP BY bucket, symbol`, db, db, db),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
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

// ProvideTickStorage creates ClickHouse storage repository.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".rt_ticks_raw")
}

// ProvideTickPublisher creates Kafka publisher repository.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
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

// ProvideKafkaTicksHandler registers handler for ticks topic.
func ProvideKafkaTicksHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideQuotesStream creates the quotes WebSocket stream.
func ProvideQuotesStream(cfg *config.Config) repository.MarketStream {
	return quotes.New(
		cfg.Quotes.APIKey,
		cfg.Quotes.WebSocketURL,
		cfg.Quotes.Symbols,
		cfg.Quotes.ReconnectDelay,
		cfg.Quotes.PingInterval,
	)
}

// ProvideTickProcessor creates tick processor use case.
func ProvideTickProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTickCollector creates tick collector use case.
func ProvideTickCollector(
	stream repository.MarketStream,
	processor *usecase.TickProcessor,
	metrics repository.Metrics,
) *usecase.TickCollector {
	// Middleware pipeline between WebSocket and Kafka
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, metrics, pipe)
}

// ProvideCandleStore creates the ClickHouse candle reader.
func ProvideCandleStore(chClient *pkgch.Client, l *applogger.Logger) repository.CandleStore {
	store := internalrepo.NewCHCandleStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideRedisCache creates the shared Redis cache when enabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Analysis.Redis.Enabled {
		return nil, nil
	}
	return pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Analysis.Redis.Host),
		pkgcache.WithRedisPort(cfg.Analysis.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Analysis.Redis.Password),
		pkgcache.WithRedisDB(cfg.Analysis.Redis.DB),
	)
}

// ProvideCacheService layers an in-process cache in front of Redis when
// configured, in-process memory only otherwise.
func ProvideCacheService(rc *pkgcache.RedisCache) pkgcache.Service {
	if rc != nil {
		return pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(2000))
	}
	return pkgcache.NewMemoryCache()
}

// ProvideAnalyzer creates the structure analyzer.
func ProvideAnalyzer(cfg *config.Config) *smc.Analyzer {
	return smc.NewAnalyzer(smc.Config{NearBandPct: cfg.Analysis.NearBandPct})
}

// ProvideAnalysisUseCase wires the analysis use case with its cache.
func ProvideAnalysisUseCase(
	store repository.CandleStore,
	analyzer *smc.Analyzer,
	cache pkgcache.Service,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.AnalysisUseCase {
	opts := []usecase.AnalysisOption{usecase.WithLogger(l)}
	if cache != nil {
		ttl := cfg.Analysis.CacheTTL
		if ttl <= 0 {
			ttl = 15 * time.Minute
		}
		opts = append(opts, usecase.WithCache(cache, ttl))
	}
	if cfg.Analysis.Timeout > 0 {
		opts = append(opts, usecase.WithFetchTimeout(cfg.Analysis.Timeout))
	}
	return usecase.NewAnalysisUseCase(store, analyzer, opts...)
}

// ProvideCandlesUseCase creates the candles use case.
func ProvideCandlesUseCase(store repository.CandleStore) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(store)
}

// ProvideWatchlistUseCase creates the watchlist use case.
func ProvideWatchlistUseCase(analysis *usecase.AnalysisUseCase) *usecase.WatchlistUseCase {
	return usecase.NewWatchlistUseCase(analysis)
}

// ProvideSentimentUseCase wires the macro sentiment pipeline.
func ProvideSentimentUseCase(cfg *config.Config, cache pkgcache.Service) *usecase.SentimentUseCase {
	source := indicators.New(cfg)
	composer := sentiment.NewComposer()
	return usecase.NewSentimentUseCase(source, composer, cache, cfg.Sentiment.CacheTTL)
}

// ProvideNotifyQueue creates the Redis-backed notification queue. Returns
// nil components when notifications are disabled.
func ProvideNotifyQueue(cfg *config.Config, rc *pkgcache.RedisCache, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Notify.Enabled || rc == nil {
		return nil
	}
	sender := notify.NewSender(cfg, notify.WithSenderLogger(l))
	job := notify.NewAlertJob(sender, cfg.Notify.QueueTopic, l)
	q := queue.NewRedisQueue(l, &queue.QueueConfig{Workers: 2}, rc.Client(), queue.ModeProducerConsumer)
	q.RegisterJob(job)
	return q
}

// ProvideAlertNotifier creates the queue-backed alert notifier.
func ProvideAlertNotifier(cfg *config.Config, q *queue.RedisQueue, l *applogger.Logger) *notify.QueueNotifier {
	if q == nil {
		return nil
	}
	prefs := notify.PreferencesFromConfig(cfg)
	return notify.NewQueueNotifier(q, prefs, cfg.Notify.QueueTopic, l)
}

// ProvideScheduler creates the watchlist sweep scheduler. Without a
// notifier there is nowhere to deliver sweep results.
func ProvideScheduler(
	cfg *config.Config,
	watchlist *usecase.WatchlistUseCase,
	sent *usecase.SentimentUseCase,
	notifier *notify.QueueNotifier,
	l *applogger.Logger,
) *scheduler.Scheduler {
	if notifier == nil {
		return nil
	}
	return scheduler.New(cfg, watchlist, sent, notifier, l)
}

// ProvideHTTPHandler creates the Echo API handler. Response caching uses
// Redis when the shared client is configured, process memory otherwise.
func ProvideHTTPHandler(
	l *applogger.Logger,
	analysis *usecase.AnalysisUseCase,
	candles *usecase.CandlesUseCase,
	watchlist *usecase.WatchlistUseCase,
	sent *usecase.SentimentUseCase,
	rc *pkgcache.RedisCache,
) *api.AnalysisHandler {
	h := api.NewAnalysisHandler(l, analysis, candles, watchlist, sent)
	if rc != nil {
		h.SetCache(icache.NewRedisBytesCache(rc.Client(), "smcalert:resp"))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	handler *api.AnalysisHandler,
	notifyQueue *queue.RedisQueue,
	sched *scheduler.Scheduler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.SetNotifyQueue(notifyQueue)
	app.SetScheduler(sched)
	if collector != nil {
		app.TickProc = collector.Processor()
	}
	return app
}
