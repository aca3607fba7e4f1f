package db

import "time"

type Config struct {
	// Path is a SQLite file path or DSN such as "file::memory:?cache=shared".
	Path            string
	BusyTimeout     time.Duration
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
}

func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		BusyTimeout:     5 * time.Second,
		MaxOpenConn:     1,
		ConnMaxLifetime: 0,
	}
}
