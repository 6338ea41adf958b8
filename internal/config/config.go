package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	Channels       []string `mapstructure:"channels" yaml:"channels"`
	DefaultChannel string   `mapstructure:"default_channel" yaml:"default_channel"`

	OwnerUsername    string `mapstructure:"owner_username" yaml:"owner_username"`
	OwnerDisplayName string `mapstructure:"owner_display_name" yaml:"owner_display_name"`
	OwnerPassword    string `mapstructure:"owner_password" yaml:"owner_password"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`
}

// Default returns configuration with reasonable starter defaults. The
// owner password has no default; the server refuses to start without
// one.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		Channels:          []string{"announcements", "general", "links"},
		DefaultChannel:    "general",
		OwnerUsername:     "sigmabread",
		OwnerDisplayName:  "Sigma Bread",
		JWTIssuer:         "breadchat",
		JWTAudience:       "breadchat-clients",
		JWTTTL:            24 * time.Hour,
	}
}
