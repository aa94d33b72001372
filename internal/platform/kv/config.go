package kv

import "time"

// Driver names a kv backend
type Driver string

const (
	// DriverMemory is the in-process map backend
	DriverMemory Driver = "memory"

	// DriverPG is the postgres backend
	DriverPG Driver = "pg"
)

// Config aggregates driver selection and per-backend settings
type Config struct {
	AppName string
	Driver  Driver

	PG PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// Guard/boot knobs:
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}
