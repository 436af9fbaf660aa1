package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "4100"

	// Default duration of the simulated settlement delay applied to every
	// transfer before it completes.
	DefaultNetworkDelayMs = 1000
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"GUARDPAY_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"GUARDPAY_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"GUARDPAY_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"GUARDPAY_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"GUARDPAY_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"GUARDPAY_SERVER_PORT"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"GUARDPAY_REDIS_DNS"`
}

type LedgerConfig struct {
	NetworkDelayMs int `json:"network_delay_ms" envconfig:"GUARDPAY_LEDGER_NETWORK_DELAY_MS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"GUARDPAY_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"GUARDPAY_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"GUARDPAY_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"GUARDPAY_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url" envconfig:"GUARDPAY_WEBHOOK_URL"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName  string          `json:"project_name" envconfig:"GUARDPAY_PROJECT_NAME"`
	Server       ServerConfig    `json:"server"`
	Redis        RedisConfig     `json:"redis"`
	Ledger       LedgerConfig    `json:"ledger"`
	Notification Notification    `json:"notification"`
	RateLimit    RateLimitConfig `json:"rate_limit"`
}

// NetworkDelay returns the simulated settlement delay as a duration.
func (cnf *Configuration) NetworkDelay() time.Duration {
	return time.Duration(cnf.Ledger.NetworkDelayMs) * time.Millisecond
}

// QueueEnabled reports whether async webhook delivery through Redis is
// available.
func (cnf *Configuration) QueueEnabled() bool {
	return cnf.Redis.Dns != ""
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("guardpay", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called guardpay.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Guardpay Server"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Ledger.NetworkDelayMs < 0 {
		return errors.New("ledger network delay cannot be negative")
	}
	if cnf.Ledger.NetworkDelayMs == 0 {
		cnf.Ledger.NetworkDelayMs = DefaultNetworkDelayMs
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
