package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// TrackingConfig tunes the live-location engine
type TrackingConfig struct {
	// StaleAfterSec is how long a tracked subject may go without an accepted
	// sample before the watchdog treats the connection as lost.
	StaleAfterSec int `yaml:"staleAfterSec" validate:"gte=0"`
}

// EmergencyConfig tunes the escalation state machine
type EmergencyConfig struct {
	// CountdownSec is the window between raising an emergency and the
	// automatic family notification.
	CountdownSec int `yaml:"countdownSec" validate:"gte=0"`
}

// AlertConfig points at the family notification channel
type AlertConfig struct {
	WebhookURL string `yaml:"webhookURL" validate:"omitempty,url"`
}

// RoutingConfig points at the routing provider
type RoutingConfig struct {
	OSRMBaseURL string `yaml:"osrmBaseURL" validate:"omitempty,url"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Emergency EmergencyConfig `yaml:"emergency"`
	Alerts    AlertConfig     `yaml:"alerts"`
	Routing   RoutingConfig   `yaml:"routing"`
}

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from
// config.yml. A missing file is not an error; defaults apply.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		Config = defaults(AppConfig{})
		return nil
	}
	cfg, err := parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

func parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, err
	}
	return defaults(cfg), nil
}

// defaults fills unset fields. Zero means unset here: none of these
// tunables has a meaningful zero value (port 0, a countdown that fires
// immediately, a staleness window that marks everyone lost), so an
// explicit 0 in config.yml is treated the same as omitting the key.
func defaults(cfg AppConfig) AppConfig {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Tracking.StaleAfterSec == 0 {
		cfg.Tracking.StaleAfterSec = 120
	}
	if cfg.Emergency.CountdownSec == 0 {
		cfg.Emergency.CountdownSec = 900
	}
	if cfg.Alerts.WebhookURL == "" {
		cfg.Alerts.WebhookURL = os.Getenv("ALERT_WEBHOOK_URL")
	}
	return cfg
}
