// Package config loads the bridge configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	// LangGraph
	LangGraphURL            string `env:"LANGGRAPH_URL"`
	LangGraphAPIKey         string `env:"LANGGRAPH_API_KEY"`
	AssistantID             string `env:"LANGGRAPH_ASSISTANT_ID"`
	LangGraphTimeoutSeconds int    `env:"LANGGRAPH_TIMEOUT_SECONDS" envDefault:"30"`

	// Slack
	SlackBotToken      string `env:"SLACK_BOT_TOKEN"`
	SlackSigningSecret string `env:"SLACK_SIGNING_SECRET"`
	SlackBotUserID     string `env:"SLACK_BOT_USER_ID"`
	SlackChannelID     string `env:"SLACK_CHANNEL_ID"` // fallback channel for callbacks without one

	// Server
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	DeploymentURL string `env:"DEPLOYMENT_URL"` // externally reachable base URL for callback webhooks
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DeploymentURL == "" {
		log.Printf("Warning: DEPLOYMENT_URL not set, runs will be created without a callback webhook")
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.LangGraphURL == "" {
		return fmt.Errorf("LANGGRAPH_URL is required")
	}
	if c.AssistantID == "" {
		return fmt.Errorf("LANGGRAPH_ASSISTANT_ID is required")
	}
	if c.SlackBotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if c.SlackSigningSecret == "" {
		return fmt.Errorf("SLACK_SIGNING_SECRET is required")
	}
	return nil
}

// LangGraphTimeout returns the per-request timeout for LangGraph calls.
func (c *Config) LangGraphTimeout() time.Duration {
	return time.Duration(c.LangGraphTimeoutSeconds) * time.Second
}
