package config

import "fmt"

// PostgresConfig holds the connection settings of the run ledger database
type PostgresConfig struct {
	User     string
	Password string
	Database string
	Host     string
	Port     int
	SSLMode  string
	// SearchPath selects a schema, used to isolate integration tests
	SearchPath string
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
		SSLMode:  valueOrDefault(getenv("POSTGRES_SSLMODE"), "disable"),
	}

	// Validate required fields
	if config.User == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}
	if config.Host == "" {
		return nil, fmt.Errorf("POSTGRES_HOSTNAME is required")
	}

	port, err := intOrDefault(getenv("POSTGRES_PORT"), 5432)
	if err != nil {
		return nil, fmt.Errorf("POSTGRES_PORT: %w", err)
	}
	config.Port = port

	return config, nil
}

// LedgerEnabled reports whether the run ledger should be used. The ledger is
// optional and only switched on when a database host is configured.
func LedgerEnabled(getenv func(string) string) bool {
	return getenv("POSTGRES_HOSTNAME") != ""
}

// WithSearchPath returns a copy of the config bound to schema
func (c PostgresConfig) WithSearchPath(schema string) *PostgresConfig {
	c.SearchPath = schema
	return &c
}

// ConnectionString returns a PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	conn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
	if c.SearchPath != "" {
		conn += " search_path=" + c.SearchPath
	}
	return conn
}
