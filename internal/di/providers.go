package di

import (
	"context"
	"fmt"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/service/alphavantage"
	"StockPulse/internal/service/newsscrape"
	"StockPulse/internal/service/yahoo"
	"StockPulse/internal/services/features"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"

	"golang.org/x/time/rate"
)

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideClickHouseClient connects to the server's default database so that
// init-db works before the project database exists; queries are fully qualified.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	client, err := pkgch.NewClient(context.Background(),
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase("default"),
		pkgch.WithAuth(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithPool(4, 2, 0),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideBarStore creates the ClickHouse bar repository.
func ProvideBarStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.BarStore {
	store := internalrepo.NewCHBarStore(ch, cfg.ClickHouse.Database, cfg.ClickHouse.Table, cfg.ClickHouse.InsertChunkSize)
	store.SetLogger(l.With(applogger.String("component", "bar_store")))
	return store
}

// ProvideResponseCache layers Redis over the file cache when Redis is enabled and reachable.
func ProvideResponseCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func()) {
	file := cache.NewFileCache(cfg.AlphaVantage.CacheDir)
	if !cfg.Cache.Redis.Enabled {
		return file, func() {}
	}
	rc, err := cache.NewRedisCache(context.Background(),
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		l.Warn("redis cache unavailable, using file cache", applogger.Error(err))
		return file, func() {}
	}
	return cache.Chain{rc, file}, func() { _ = rc.Close() }
}

// ProvideAlphaVantage creates the daily bar vendor client.
func ProvideAlphaVantage(cfg *config.Config, c cache.Service, l *applogger.Logger) *alphavantage.Client {
	return alphavantage.New(cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithOutputSize(cfg.AlphaVantage.OutputSize),
		alphavantage.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.AlphaVantage.Timeout))),
		alphavantage.WithCache(c, cfg.Cache.Redis.TTL),
		alphavantage.WithLogger(l.With(applogger.String("component", "alphavantage"))),
	)
}

// ProvideMarketSource creates the index close client.
func ProvideMarketSource(cfg *config.Config, l *applogger.Logger) repository.MarketSource {
	return yahoo.New(cfg.Market.BaseURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Market.Timeout)),
		l.With(applogger.String("component", "yahoo")),
	)
}

// ProvideDateResolver creates the news page scraper.
func ProvideDateResolver(cfg *config.Config) usecase.DateResolver {
	return newsscrape.New(xhttp.NewClient(xhttp.WithTimeout(cfg.News.Timeout)))
}

// ProvideLoader creates the bar loader for the configured symbol.
func ProvideLoader(cfg *config.Config, store repository.BarStore, m repository.Metrics, l *applogger.Logger) *usecase.Loader {
	return usecase.NewLoader(usecase.LoaderConfig{Symbol: cfg.Symbol, StartDate: cfg.StartDate()}, store, m, l)
}

// ProvideBuilder creates the feature builder with the configured news categories.
func ProvideBuilder(cfg *config.Config) (*features.Builder, error) {
	return features.NewBuilder(features.DefaultParams(), features.NewCategorySet(cfg.Features.NewsCategories))
}

// ProvideAnalyzer creates the impact and event study use case.
func ProvideAnalyzer(cfg *config.Config, loader *usecase.Loader, market repository.MarketSource, m repository.Metrics, l *applogger.Logger) *usecase.Analyzer {
	return usecase.NewAnalyzer(loader, market, cfg.Market.Index, cfg.Analysis.EventWindow, m, l)
}

// ProvideIngestor creates the vendor-to-store use case.
func ProvideIngestor(cfg *config.Config, fetcher *alphavantage.Client, store repository.BarStore, m repository.Metrics, l *applogger.Logger) *usecase.Ingestor {
	return usecase.NewIngestor(cfg.Symbol, fetcher, store, m, l)
}

// ProvideEnricher creates the news labelling use case.
func ProvideEnricher(cfg *config.Config, resolver usecase.DateResolver, store repository.BarStore, m repository.Metrics, l *applogger.Logger) *usecase.Enricher {
	limiter := rate.NewLimiter(rate.Limit(cfg.News.RatePerSec), 1)
	return usecase.NewEnricher(cfg.Symbol, resolver, store, cfg.News.Concurrency, limiter, m, l)
}

// ProvideDatasetPublisher returns nil when Kafka export is disabled.
func ProvideDatasetPublisher(cfg *config.Config, l *applogger.Logger) (repository.DatasetPublisher, func(), error) {
	k := cfg.Export.Kafka
	if !k.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithDelivery(k.RequiredAcks, k.Compression),
		pkgkafka.WithBatching(k.BatchSize, 0),
		pkgkafka.WithWriteTimeout(k.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaDatasetPublisher(producer, k.Topic, l)
	return pub, func() { _ = pub.Close() }, nil
}

// ProvideExporter creates the dataset exporter.
func ProvideExporter(cfg *config.Config, pub repository.DatasetPublisher, l *applogger.Logger) *usecase.Exporter {
	return usecase.NewExporter(cfg.Export.Dir, pub, l)
}

// ProvideHTTPHandler creates the dataset and analysis routes.
func ProvideHTTPHandler(cfg *config.Config, l *applogger.Logger, preparer *usecase.Preparer, analyzer *usecase.Analyzer) xhttp.Handler {
	return api.NewPipelineEchoHandler(l, preparer, analyzer, api.Defaults{Start: cfg.StartDate(), Split: cfg.SplitDate()})
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	ingestor *usecase.Ingestor,
	enricher *usecase.Enricher,
	preparer *usecase.Preparer,
	analyzer *usecase.Analyzer,
	exporter *usecase.Exporter,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, server.Pipeline{
		Ingestor: ingestor,
		Enricher: enricher,
		Preparer: preparer,
		Analyzer: analyzer,
		Exporter: exporter,
	}, handler)
}
