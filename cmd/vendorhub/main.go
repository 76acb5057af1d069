package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/app"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfig формирует конфигурацию приложения из переменных окружения.
func readConfig() app.Config {
	cfg := app.DefaultConfig()
	if v := os.Getenv("VENDORHUB_API_ADDR"); v != "" {
		cfg.APIAddr = v
	}
	if v := os.Getenv("VENDORHUB_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("VENDORHUB_GATEWAY_DRIVER"); v != "" {
		cfg.GatewayDriver = app.GatewayDriver(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("VENDORHUB_BACKEND_URL"); v != "" {
		cfg.RemoteBaseURL = v
	}
	if v := os.Getenv("VENDORHUB_BACKEND_TOKEN"); v != "" {
		cfg.RemoteToken = v
	}
	if v := os.Getenv("VENDORHUB_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("VENDORHUB_POSTGRES_AUTOMIGRATE"); v == "1" || strings.EqualFold(v, "true") {
		cfg.PostgresAutoMigrate = true
	}
	if v := os.Getenv("VENDORHUB_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	return cfg
}

func main() {
	setupLogger()
	cfg := readConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"api_addr":     cfg.APIAddr,
		"metrics_addr": cfg.MetricsAddr,
		"driver":       cfg.GatewayDriver,
	}).Info("запускаем vendorhub")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("vendorhub остановлен")
}
