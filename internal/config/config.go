package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	RunAddress        string        `yaml:"run_address" env:"RUN_ADDRESS" env-default:":8080"`                                      // Адрес и порт запуска сервиса
	DatabaseURI       string        `yaml:"database_uri" env:"DATABASE_URI"`                                                        // URI подключения к БД
	JWTSecret         string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"default-secret-key-change-in-production"`      // Секретный ключ для JWT
	JWTTokenTTL       time.Duration `yaml:"jwt_token_ttl" env:"JWT_TOKEN_TTL" env-default:"24h"`                                    // Время жизни JWT токена
	LogLevel          string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`                                            // Уровень логирования
	MinPasswordLength int           `yaml:"min_password_length" env:"MIN_PASSWORD_LENGTH" env-default:"6"`                          // Минимальная длина пароля
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`                              // Время на graceful shutdown
	MetricsEnabled    bool          `yaml:"metrics_enabled" env:"METRICS_ENABLED" env-default:"true"`                                // Публиковать /metrics

	Worker    WorkerConfig    `yaml:"worker"`
	Redis     RedisConfig     `yaml:"redis"`
	Billing   BillingConfig   `yaml:"billing"`
	DBConnect DBConnectConfig `yaml:"db_connect"`
	Admin     AdminConfig     `yaml:"admin"`
}

// WorkerConfig настройки фонового заполнения дат окончания курсов
type WorkerConfig struct {
	PoolSize     int           `yaml:"pool_size" env:"WORKER_POOL_SIZE" env-default:"3"`
	QueueSize    int           `yaml:"queue_size" env:"WORKER_QUEUE_SIZE" env-default:"100"`
	ScanInterval time.Duration `yaml:"scan_interval" env:"WORKER_SCAN_INTERVAL" env-default:"1m"`
	BatchSize    int           `yaml:"batch_size" env:"WORKER_BATCH_SIZE" env-default:"100"`
}

// RedisConfig настройки кэша сводок; пустой адрес отключает кэш
type RedisConfig struct {
	Addr            string        `yaml:"addr" env:"REDIS_ADDR"`
	Password        string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB              int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	SummaryCacheTTL time.Duration `yaml:"summary_cache_ttl" env:"SUMMARY_CACHE_TTL" env-default:"5m"`
}

// BillingConfig значения по умолчанию для расчетов прогресса и выгрузок
type BillingConfig struct {
	DefaultMeetingsTotal int    `yaml:"default_meetings_total" env:"DEFAULT_MEETINGS_TOTAL" env-default:"10"`
	EmptyScheduleCurrent int    `yaml:"empty_schedule_current" env:"EMPTY_SCHEDULE_CURRENT" env-default:"0"`
	ProgressTemplate     string `yaml:"progress_template" env:"PROGRESS_TEMPLATE" env-default:"{current} מתוך {total}"`
}

// DBConnectConfig настройки повторных попыток подключения к БД при старте
type DBConnectConfig struct {
	Attempts uint          `yaml:"attempts" env:"DB_CONNECT_ATTEMPTS" env-default:"5"`
	Delay    time.Duration `yaml:"delay" env:"DB_CONNECT_DELAY" env-default:"500ms"`
	MaxDelay time.Duration `yaml:"max_delay" env:"DB_CONNECT_MAX_DELAY" env-default:"5s"`
}

// AdminConfig учетная запись администратора, создаваемая при старте, если ее еще нет
type AdminConfig struct {
	Login    string `yaml:"login" env:"ADMIN_LOGIN"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// Load загружает конфигурацию из аргументов командной строки процесса
func Load() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse загружает конфигурацию.
// Приоритет: env переменные > флаги > YAML файл (CONFIG_PATH или -config) > дефолтные значения
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("billing", flag.ContinueOnError)
	runAddress := fs.String("a", "", "address and port to run server")
	databaseURI := fs.String("d", "", "database URI")
	configPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	path := *configPath
	if envPath, ok := os.LookupEnv("CONFIG_PATH"); ok {
		path = envPath
	}

	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	// Флаги перекрывают файл, но не переменные окружения
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			if _, ok := os.LookupEnv("RUN_ADDRESS"); !ok {
				cfg.RunAddress = *runAddress
			}
		case "d":
			if _, ok := os.LookupEnv("DATABASE_URI"); !ok {
				cfg.DatabaseURI = *databaseURI
			}
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры и диапазоны значений
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURI == "" {
		errs = append(errs, errors.New("database URI is required (use -d flag or DATABASE_URI env)"))
	}
	if c.Worker.PoolSize <= 0 {
		errs = append(errs, fmt.Errorf("worker pool size must be positive, got %d", c.Worker.PoolSize))
	}
	if c.Worker.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("worker queue size must be positive, got %d", c.Worker.QueueSize))
	}
	if c.Worker.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("worker batch size must be positive, got %d", c.Worker.BatchSize))
	}
	if c.Worker.ScanInterval <= 0 {
		errs = append(errs, fmt.Errorf("worker scan interval must be positive, got %s", c.Worker.ScanInterval))
	}
	if c.Billing.DefaultMeetingsTotal <= 0 {
		errs = append(errs, fmt.Errorf("default meetings total must be positive, got %d", c.Billing.DefaultMeetingsTotal))
	}
	if c.Billing.EmptyScheduleCurrent < 0 {
		errs = append(errs, fmt.Errorf("empty schedule current must not be negative, got %d", c.Billing.EmptyScheduleCurrent))
	}
	if (c.Admin.Login == "") != (c.Admin.Password == "") {
		errs = append(errs, errors.New("admin login and password must be set together"))
	}
	if c.DBConnect.Attempts == 0 {
		errs = append(errs, errors.New("db connect attempts must be positive"))
	}

	return errors.Join(errs...)
}
