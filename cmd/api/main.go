package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/storelens/sales-analytics-api/infrastructure/cache"
	"github.com/storelens/sales-analytics-api/infrastructure/database/postgres"
	"github.com/storelens/sales-analytics-api/infrastructure/repository"
	"github.com/storelens/sales-analytics-api/internal/api"
	"github.com/storelens/sales-analytics-api/internal/config"
	"github.com/storelens/sales-analytics-api/internal/scheduler"
	"github.com/storelens/sales-analytics-api/internal/usecases/aggregating"
	"github.com/storelens/sales-analytics-api/internal/usecases/analyzing"
	"github.com/storelens/sales-analytics-api/internal/usecases/caching"
	"github.com/storelens/sales-analytics-api/internal/usecases/validating"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	salesRepo := repository.NewSaleRepository(pgConn)

	validator := validating.NewService()
	engine := aggregating.NewService(salesRepo)
	queryCache := caching.NewService(cacheStore(ctx, cfg))

	analyticsService := analyzing.NewService(cfg, validator, engine, queryCache, salesRepo)

	// Agendador de pré-aquecimento do cache de análises
	warmupService := scheduler.NewAnalyticsWarmupService(analyticsService, cfg)
	if err := warmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de pré-aquecimento de análises")
	} else {
		logrus.Info("Agendador de pré-aquecimento de análises iniciado com sucesso")
	}

	server, err := api.New(cfg, analyticsService, warmupService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// cacheStore escolhe o backend do cache de consultas. Sem Redis habilitado,
// o cache em memória do próprio processo é usado.
func cacheStore(ctx context.Context, cfg *config.Config) cache.Store {
	if !cfg.Redis.Enabled {
		logrus.Info("Redis desabilitado, usando cache de consultas em memória")
		return cache.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Erro ao conectar ao Redis, usando cache de consultas em memória")
		return cache.NewMemoryStore()
	}

	logrus.Info("Conexão com Redis estabelecida com sucesso")
	return cache.NewRedisStore(client)
}
