package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Input datasets.
	TemperatureCSV string
	SeaLevelCSV    string

	// Analysis parameters.
	WarmThresholdF  float64
	CompareFromYear int
	CompareToYear   int

	ChartWidth  int
	ChartHeight int

	// Optional Kafka export of the comparison view.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaExportTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	threshold, err := parseFloat("WARM_THRESHOLD_F", 55)
	if err != nil {
		return nil, err
	}
	fromYear, err := parseInt("COMPARE_FROM_YEAR", 1995)
	if err != nil {
		return nil, err
	}
	toYear, err := parseInt("COMPARE_TO_YEAR", 2020)
	if err != nil {
		return nil, err
	}
	width, err := parsePositiveInt("CHART_WIDTH", 1024)
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveInt("CHART_HEIGHT", 480)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		TemperatureCSV: sharedcfg.EnvOrDefault("TEMPERATURE_CSV", "./weather - 286_40.75_t2m_1d.csv"),
		SeaLevelCSV:    sharedcfg.EnvOrDefault("SEA_LEVEL_CSV", "sealevel.csv"),

		WarmThresholdF:  threshold,
		CompareFromYear: fromYear,
		CompareToYear:   toYear,

		ChartWidth:  width,
		ChartHeight: height,

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaExportTopic: sharedcfg.EnvOrDefault("KAFKA_EXPORT_TOPIC", "climate-comparison"),
	}

	if strings.TrimSpace(cfg.TemperatureCSV) == "" {
		return nil, errors.New("TEMPERATURE_CSV is required")
	}
	if strings.TrimSpace(cfg.SeaLevelCSV) == "" {
		return nil, errors.New("SEA_LEVEL_CSV is required")
	}
	if cfg.CompareFromYear > cfg.CompareToYear {
		return nil, errors.New("COMPARE_FROM_YEAR must not exceed COMPARE_TO_YEAR")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaExportTopic == "" {
		return nil, errors.New("KAFKA_EXPORT_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	v, err := parseInt(key, def)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return v, nil
}
