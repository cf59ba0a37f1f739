// Package config reads typed settings by dotted key, e.g. "jwt.ttl_minutes".
// Missing keys yield zero values.
package config

import (
	"io"
	"time"
)

type Config interface {
	io.Closer

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint64(key string) uint64
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer as a count of that unit.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetBinary decodes a base64 string; invalid input yields nil.
	GetBinary(key string) []byte
	// GetArray accepts a list or a comma separated string and drops blanks.
	GetArray(key string) []string
	// GetMap parses "k:v,k:v".
	GetMap(key string) map[string]string
}
