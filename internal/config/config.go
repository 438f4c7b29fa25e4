package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"quiz-session-service/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Session struct {
		ShuffleQuestions bool   `yaml:"shuffle_questions"`
		ShuffleOptions   bool   `yaml:"shuffle_options"`
		TimePerQuestion  string `yaml:"time_per_question"`
		TotalTimeLimit   string `yaml:"total_time_limit"`
		ShowHints        bool   `yaml:"show_hints"`
		ShowExplanations bool   `yaml:"show_explanations"`
		TypeInContains   bool   `yaml:"type_in_contains"`
	} `yaml:"session"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// the demo mode (no Redis, no Postgres) works out of the box.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// DefaultSettings maps the session config section onto the settings applied
// when a client starts an attempt without its own.
func (c Config) DefaultSettings() domain.SessionSettings {
	perQuestion := int(TTLDuration(c.Session.TimePerQuestion, 0) / time.Second)
	total := int(TTLDuration(c.Session.TotalTimeLimit, 0) / time.Second)
	return domain.SessionSettings{
		ShuffleQuestions:       c.Session.ShuffleQuestions,
		ShuffleOptions:         c.Session.ShuffleOptions,
		TimerEnabled:           perQuestion > 0 || total > 0,
		TimePerQuestionSeconds: perQuestion,
		TotalTimeLimitSeconds:  total,
		ShowHints:              c.Session.ShowHints,
		ShowExplanations:       c.Session.ShowExplanations,
		TypeInContains:         c.Session.TypeInContains,
	}
}
