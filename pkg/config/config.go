package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Extractor provider names accepted in EXTRACTOR_PROVIDER
const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	// AWS
	AWSRegion string

	// Slack
	SlackBotToken   string
	SlackAppToken   string
	SlackSigningKey string

	// Channels
	ArticlesChannel string // restrict PDF intake to this channel; empty = any channel
	LoggingChannel  string // audit messages; empty = disabled

	// DynamoDB
	ArticlesTable    string
	SubmissionsTable string

	// Extraction
	ExtractorProvider string
	BedrockModelID    string
	OpenAIAPIKey      string
	OpenAIModel       string

	// Step Functions (Lambda topology only)
	StateMachineArn string

	// Environment
	Environment string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first so local runs see the same settings as
// the deployed environment.
func Load() (*Config, error) {
	// Missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		SlackBotToken:     getEnv("SLACK_BOT_TOKEN", ""),
		SlackAppToken:     getEnv("SLACK_APP_TOKEN", ""),
		SlackSigningKey:   getEnv("SLACK_SIGNING_KEY", ""),
		ArticlesChannel:   getEnv("SLACK_ARTICLES_CHANNEL", ""),
		LoggingChannel:    getEnv("SLACK_LOGGING_CHANNEL", ""),
		ArticlesTable:     getEnv("ARTICLES_TABLE", "research-articles"),
		SubmissionsTable:  getEnv("SUBMISSIONS_TABLE", "research-submissions"),
		ExtractorProvider: getEnv("EXTRACTOR_PROVIDER", ProviderBedrock),
		BedrockModelID:    getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-5-sonnet-20241022-v2:0"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o"),
		StateMachineArn:   getEnv("STATE_MACHINE_ARN", ""),
		Environment:       getEnv("ENVIRONMENT", "dev"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration common to every topology
func (c *Config) Validate() error {
	if c.SlackBotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if c.ArticlesTable == "" {
		return fmt.Errorf("ARTICLES_TABLE is required")
	}
	if c.SubmissionsTable == "" {
		return fmt.Errorf("SUBMISSIONS_TABLE is required")
	}
	switch c.ExtractorProvider {
	case ProviderBedrock:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when EXTRACTOR_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown EXTRACTOR_PROVIDER: %s", c.ExtractorProvider)
	}
	return nil
}

// ValidateSocket checks Socket Mode specific configuration
func (c *Config) ValidateSocket() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SlackAppToken == "" {
		return fmt.Errorf("SLACK_APP_TOKEN is required for Socket Mode")
	}
	return nil
}

// ValidateLambda checks Lambda-specific configuration
func (c *Config) ValidateLambda() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SlackSigningKey == "" {
		return fmt.Errorf("SLACK_SIGNING_KEY is required for Lambda")
	}
	if c.StateMachineArn == "" {
		return fmt.Errorf("STATE_MACHINE_ARN is required for Lambda")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
