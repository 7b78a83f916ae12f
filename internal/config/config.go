package config

import (
	"net/http"
	"time"
)

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// StorageConfig selects and parameterizes the durable key-value backend the
// session is persisted to.
type StorageConfig struct {
	Backend    string // "sqlite" or "redis"
	SQLitePath string
	RedisAddr  string
}
