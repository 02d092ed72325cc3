package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Listen  string  `yaml:"listen"`
	Admin   Admin   `yaml:"admin"`
	CORS    CORS    `yaml:"cors"`
	Logger  Logger  `yaml:"logger"`
	Storage Storage `yaml:"storage"`
	Auth    Auth    `yaml:"auth"`
	Batch   Batch   `yaml:"batch"`
}

type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Storage struct {
	Database string `yaml:"database"`
	Photos   string `yaml:"photos"`
}

type Auth struct {
	JWT     JWT     `yaml:"jwt"`
	Cognito Cognito `yaml:"cognito"`
	Local   Local   `yaml:"local"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// Cognito holds the OIDC settings for the hosted user pool.
type Cognito struct {
	Enabled      bool   `yaml:"enabled"`
	IssuerURL    string `yaml:"issuer_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

// Local defines configuration for username/password authentication.
type Local struct {
	Enabled bool `yaml:"enabled"`
}

type Admin struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Batch configures the periodic status-transition and result-calculation
// jobs. RefreshRanks chains the best-rank refresh after each successfully
// calculated contest.
type Batch struct {
	Enabled                    bool `yaml:"enabled"`
	StatusIntervalSeconds      int  `yaml:"status_interval_seconds"`
	CalculationIntervalSeconds int  `yaml:"calculation_interval_seconds"`
	RefreshRanks               bool `yaml:"refresh_ranks"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Batch.StatusIntervalSeconds <= 0 {
		cfg.Batch.StatusIntervalSeconds = 60
	}
	if cfg.Batch.CalculationIntervalSeconds <= 0 {
		cfg.Batch.CalculationIntervalSeconds = 300
	}

	return &cfg, nil
}
