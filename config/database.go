package config

import (
	"fmt"
	"sync"
)

var (
	databaseOnce   sync.Once
	databaseConfig *DatabaseConfig
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	URL      string // takes precedence over the individual fields when set
}

func GetDatabaseConfig() *DatabaseConfig {
	databaseOnce.Do(func() {
		loadEnv()
		databaseConfig = &DatabaseConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenvInt("DB_PORT", 5432),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", ""),
			Name:     getenv("DB_NAME", "invoices"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
			URL:      getenv("DATABASE_URL", ""),
		}
	})
	return databaseConfig
}

// DSN returns the postgres connection string gorm should open.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
