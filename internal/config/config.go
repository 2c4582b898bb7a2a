package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-intake/internal/logging"
	"github.com/goliatone/go-intake/pkg/contact"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/relay"
)

// EnvPrefix prefixes every environment override (INTAKE_SERVER_PORT, ...).
const EnvPrefix = "INTAKE"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
	Contact  ContactConfig  `mapstructure:"contact"`
	Form     FormConfig     `mapstructure:"form"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RelayConfig selects and configures the submission transport
type RelayConfig struct {
	Provider         string         `mapstructure:"provider"`
	Endpoint         string         `mapstructure:"endpoint"`
	DestinationEmail string         `mapstructure:"destination_email"`
	SubjectPrefix    string         `mapstructure:"subject_prefix"`
	Template         string         `mapstructure:"template"`
	Captcha          string         `mapstructure:"captcha"`
	NameField        string         `mapstructure:"name_field"`
	SendGrid         SendGridConfig `mapstructure:"sendgrid"`
}

// SendGridConfig holds SendGrid credentials
type SendGridConfig struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

// FeedbackConfig holds banner messages and labels
type FeedbackConfig struct {
	SuccessTimeout    time.Duration `mapstructure:"success_timeout"`
	FallbackEmail     string        `mapstructure:"fallback_email"`
	SubmitLabel       string        `mapstructure:"submit_label"`
	LoadingLabel      string        `mapstructure:"loading_label"`
	SuccessMessage    string        `mapstructure:"success_message"`
	ValidationMessage string        `mapstructure:"validation_message"`
	ErrorMessage      string        `mapstructure:"error_message"`
}

// ContactConfig holds the direct-contact shortcut
type ContactConfig struct {
	WhatsAppNumber  string `mapstructure:"whatsapp_number"`
	WhatsAppMessage string `mapstructure:"whatsapp_message"`
}

// FormConfig points at the form definition; empty Path uses the embedded form
type FormConfig struct {
	Path        string `mapstructure:"path"`
	OperationID string `mapstructure:"operation_id"`
	// Overlay is an optional YAML file rewording the loaded definition.
	Overlay string `mapstructure:"overlay"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Load loads configuration from an optional YAML file and environment
// variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	feedback := orchestrator.DefaultConfig()
	rel := relay.DefaultConfig()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("relay.provider", relay.ProviderHTTP)
	v.SetDefault("relay.endpoint", "")
	v.SetDefault("relay.destination_email", "")
	v.SetDefault("relay.subject_prefix", rel.SubjectPrefix)
	v.SetDefault("relay.template", rel.Template)
	v.SetDefault("relay.captcha", rel.Captcha)
	v.SetDefault("relay.name_field", rel.NameField)
	v.SetDefault("relay.sendgrid.api_key", "")
	v.SetDefault("relay.sendgrid.from_email", "")
	v.SetDefault("relay.sendgrid.from_name", "")

	v.SetDefault("feedback.success_timeout", feedback.SuccessTimeout)
	v.SetDefault("feedback.fallback_email", "")
	v.SetDefault("feedback.submit_label", feedback.SubmitLabel)
	v.SetDefault("feedback.loading_label", feedback.LoadingLabel)
	v.SetDefault("feedback.success_message", feedback.SuccessMessage)
	v.SetDefault("feedback.validation_message", feedback.ValidationMessage)
	v.SetDefault("feedback.error_message", feedback.ErrorMessage)

	v.SetDefault("contact.whatsapp_number", "")
	v.SetDefault("contact.whatsapp_message", contact.DefaultMessage)

	v.SetDefault("form.path", "")
	v.SetDefault("form.operation_id", "")
	v.SetDefault("form.overlay", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the secrets that also answer to their conventional names.
func bindEnvVars(v *viper.Viper) error {
	if err := v.BindEnv("relay.sendgrid.api_key", EnvPrefix+"_SENDGRID_API_KEY", "SENDGRID_API_KEY"); err != nil {
		return fmt.Errorf("config: bind env: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Feedback.FallbackEmail) == "" {
		return errors.New("feedback.fallback_email is required")
	}
	if c.Feedback.SuccessTimeout <= 0 {
		return errors.New("feedback.success_timeout must be positive")
	}

	switch strings.ToLower(strings.TrimSpace(c.Relay.Provider)) {
	case relay.ProviderHTTP:
		if c.Relay.Endpoint == "" && c.Relay.DestinationEmail == "" {
			return errors.New("relay.endpoint or relay.destination_email is required")
		}
	case relay.ProviderSendGrid:
		if c.Relay.SendGrid.APIKey == "" {
			return errors.New("relay.sendgrid.api_key is required")
		}
		if c.Relay.SendGrid.FromEmail == "" {
			return errors.New("relay.sendgrid.from_email is required")
		}
		if c.Relay.DestinationEmail == "" {
			return errors.New("relay.destination_email is required")
		}
	case relay.ProviderLog:
	default:
		return fmt.Errorf("relay.provider %q is not supported", c.Relay.Provider)
	}

	if c.Contact.WhatsAppNumber != "" {
		if _, err := contact.WhatsAppURL(c.Contact.WhatsAppNumber, c.Contact.WhatsAppMessage); err != nil {
			return fmt.Errorf("contact.whatsapp_number: %w", err)
		}
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// RelayConfig returns the relay settings.
func (c *Config) RelayConfig() relay.Config {
	return relay.Config{
		Endpoint:         c.Relay.Endpoint,
		DestinationEmail: c.Relay.DestinationEmail,
		SubjectPrefix:    c.Relay.SubjectPrefix,
		Template:         c.Relay.Template,
		Captcha:          c.Relay.Captcha,
		NameField:        c.Relay.NameField,
	}
}

// SendGridConfig returns the SendGrid credentials.
func (c *Config) SendGridConfig() relay.SendGridConfig {
	return relay.SendGridConfig{
		APIKey:    c.Relay.SendGrid.APIKey,
		FromEmail: c.Relay.SendGrid.FromEmail,
		FromName:  c.Relay.SendGrid.FromName,
	}
}

// WhatsAppURL returns the contact link, or "" when no number is configured.
func (c *Config) WhatsAppURL() string {
	if c.Contact.WhatsAppNumber == "" {
		return ""
	}
	link, err := contact.WhatsAppURL(c.Contact.WhatsAppNumber, c.Contact.WhatsAppMessage)
	if err != nil {
		return ""
	}
	return link
}

// OrchestratorConfig returns the pipeline labels, messages and relay settings.
func (c *Config) OrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		SubmitLabel:       c.Feedback.SubmitLabel,
		LoadingLabel:      c.Feedback.LoadingLabel,
		SuccessMessage:    c.Feedback.SuccessMessage,
		ValidationMessage: c.Feedback.ValidationMessage,
		ErrorMessage:      c.Feedback.ErrorMessage,
		FallbackEmail:     c.Feedback.FallbackEmail,
		WhatsAppURL:       c.WhatsAppURL(),
		SuccessTimeout:    c.Feedback.SuccessTimeout,
		Relay:             c.RelayConfig(),
	}
}

// LoggingConfig returns the logger settings.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}
