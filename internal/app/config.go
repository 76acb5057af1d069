package app

// GatewayDriver определяет, каким драйвером сервис ходит в бэкенд.
type GatewayDriver string

const (
	// DriverMemory — встроенный in-memory бэкенд для разработки и тестов.
	DriverMemory GatewayDriver = "memory"
	// DriverPostgres — сервис сам владеет таблицами в PostgreSQL.
	DriverPostgres GatewayDriver = "postgres"
	// DriverRemote — REST-клиент upstream-бэкенда маркетплейса.
	DriverRemote GatewayDriver = "remote"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// APIAddr — адрес JSON API.
	APIAddr string
	// MetricsAddr — адрес служебного HTTP (метрики, health).
	MetricsAddr string

	GatewayDriver GatewayDriver

	// RemoteBaseURL и RemoteToken используются драйвером remote.
	RemoteBaseURL string
	RemoteToken   string

	// PostgresDSN используется драйвером postgres.
	PostgresDSN string
	// PostgresAutoMigrate применяет миграции при старте.
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров; пустой список отключает публикацию событий.
	KafkaBrokers []string
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних систем.
func DefaultConfig() Config {
	return Config{
		APIAddr:       ":8080",
		MetricsAddr:   ":9090",
		GatewayDriver: DriverMemory,
	}
}
