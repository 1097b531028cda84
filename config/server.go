package config

import (
	"sync"
)

var (
	serverOnce   sync.Once
	serverConfig *ServerConfig
)

type ServerConfig struct {
	Port        string
	StorageType string // "minio" or "s3"
	RedisAddr   string
	RedisDB     int
	Concurrency int
	// FileRetentionDays ages out stored invoice files; 0 keeps them
	// forever.
	FileRetentionDays int
}

func GetServerConfig() *ServerConfig {
	serverOnce.Do(func() {
		loadEnv()
		serverConfig = &ServerConfig{
			Port:        getenv("PORT", "8080"),
			StorageType: getenv("STORAGE_TYPE", "minio"),
			RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
			RedisDB:     getenvInt("REDIS_DB", 0),
			Concurrency: getenvInt("WORKER_CONCURRENCY", 10),

			FileRetentionDays: getenvInt("FILE_RETENTION_DAYS", 0),
		}
	})
	return serverConfig
}
