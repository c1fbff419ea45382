package config

import (
	"os"
	"sync"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

var (
	dbConfig *DBConfig
	dbOnce   sync.Once
)

func LoadDBConfig() *DBConfig {
	dbOnce.Do(func() {
		dbConfig = &DBConfig{
			Host:     envString("DB_HOST", "localhost"),
			Port:     envString("DB_PORT", "5432"),
			User:     envString("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     envString("DB_NAME", "cv_match"),
			SSLMode:  envString("DB_SSLMODE", "disable"),
		}
	})
	return dbConfig
}
