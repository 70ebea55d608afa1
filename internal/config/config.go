package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"water_telemetry/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. WATER_KAFKA_GROUP_ID.
const EnvPrefix = "WATER"

// Config is passed explicitly into every loop and adapter.
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Port     string         `mapstructure:"port"`
	DB       DBConfig       `mapstructure:"db"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Producer ProducerConfig `mapstructure:"producer"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
	KSQL     KSQLConfig     `mapstructure:"ksql"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"`
	GroupID     string   `mapstructure:"group_id"`
	OffsetReset string   `mapstructure:"offset_reset"` // earliest | latest
	Topics      Topics   `mapstructure:"topics"`
}

// Topics names the three channels the harness touches.
type Topics struct {
	Sensor  string `mapstructure:"sensor"`
	Current string `mapstructure:"current"`
	Alert   string `mapstructure:"alert"`
}

type ProducerConfig struct {
	SensorID      string        `mapstructure:"sensor_id"`
	Interval      time.Duration `mapstructure:"interval"`
	WaterLevelMin int           `mapstructure:"water_level_min"`
	WaterLevelMax int           `mapstructure:"water_level_max"` // exclusive
	CurrentMin    int           `mapstructure:"current_min"`
	CurrentMax    int           `mapstructure:"current_max"` // exclusive
}

type ConsumerConfig struct {
	BackoffInitial time.Duration `mapstructure:"backoff_initial"`
	BackoffMax     time.Duration `mapstructure:"backoff_max"`
}

type KSQLConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RatePerSec   float64       `mapstructure:"rate_per_sec"`
	AlertStream  string        `mapstructure:"alert_stream"`
	SourceStream string        `mapstructure:"source_stream"`
	Threshold    int           `mapstructure:"threshold"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// defaults mirror the fixed values the harness has always run with.
var defaults = map[string]any{
	"log_level":                "info",
	"port":                     "8080",
	"db.path":                  "water.db",
	"kafka.brokers":            []string{"localhost:9092"},
	"kafka.group_id":           "integration-consumer-group",
	"kafka.offset_reset":       "earliest",
	"kafka.topics.sensor":      "INTEGRA_DADOS_NIVEL_AGUA_GUARAPIRANGA_PT1",
	"kafka.topics.current":     "INTEGRA_DADOS_CORRENTE_PT1",
	"kafka.topics.alert":       "ALERTA_PERIGO",
	"producer.sensor_id":       "sensor-01",
	"producer.interval":        time.Second,
	"producer.water_level_min": 1000,
	"producer.water_level_max": 9999,
	"producer.current_min":     0,
	"producer.current_max":     50,
	"consumer.backoff_initial": 100 * time.Millisecond,
	"consumer.backoff_max":     5 * time.Second,
	"ksql.base_url":            "http://localhost:8088",
	"ksql.timeout":             30 * time.Second,
	"ksql.rate_per_sec":        1.0,
	"ksql.alert_stream":        "ALERTA_PERIGO",
	"ksql.source_stream":       "monitoramento_agua",
	"ksql.threshold":           9000,
	"auth.signing_key":         "change-me",
	"auth.token_ttl":           time.Hour,
}

// Default returns the configuration used when no file or environment override is present.
func Default() Config {
	cfg, err := decode(newViper())
	if err != nil {
		// defaults are static; failing here is a programming error
		panic(err)
	}
	return cfg
}

// Load reads .env (if present), then <dir>/config.yml (if present), then WATER_* variables.
func Load(dir string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := newViper()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the loops cannot run with.
func (c Config) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required")
	}
	if c.Kafka.GroupID == "" {
		return errors.New("kafka.group_id is required")
	}
	switch c.Kafka.OffsetReset {
	case "earliest", "latest":
	default:
		return fmt.Errorf("kafka.offset_reset must be earliest or latest, got %q", c.Kafka.OffsetReset)
	}
	if c.Kafka.Topics.Sensor == "" || c.Kafka.Topics.Current == "" || c.Kafka.Topics.Alert == "" {
		return errors.New("kafka.topics.sensor, current and alert are required")
	}
	if c.Producer.SensorID == "" {
		return errors.New("producer.sensor_id is required")
	}
	if c.Producer.Interval <= 0 {
		return errors.New("producer.interval must be positive")
	}
	if c.Producer.WaterLevelMax <= c.Producer.WaterLevelMin {
		return fmt.Errorf("producer water level range [%d,%d) is empty", c.Producer.WaterLevelMin, c.Producer.WaterLevelMax)
	}
	if c.Producer.CurrentMax <= c.Producer.CurrentMin {
		return fmt.Errorf("producer current range [%d,%d) is empty", c.Producer.CurrentMin, c.Producer.CurrentMax)
	}
	if c.Consumer.BackoffInitial <= 0 || c.Consumer.BackoffMax < c.Consumer.BackoffInitial {
		return errors.New("consumer backoff must satisfy 0 < backoff_initial <= backoff_max")
	}
	if c.KSQL.BaseURL == "" {
		return errors.New("ksql.base_url is required")
	}
	if c.KSQL.AlertStream == "" || c.KSQL.SourceStream == "" {
		return errors.New("ksql.alert_stream and ksql.source_stream are required")
	}
	return nil
}

// Names returns the topics in subscription order.
func (t Topics) Names() []string {
	return []string{t.Sensor, t.Current, t.Alert}
}

// Classify maps a topic name onto its channel.
func (t Topics) Classify(topic string) models.Channel {
	switch topic {
	case t.Sensor:
		return models.ChannelSensor
	case t.Current:
		return models.ChannelCurrent
	case t.Alert:
		return models.ChannelAlert
	default:
		return models.ChannelUnknown
	}
}
