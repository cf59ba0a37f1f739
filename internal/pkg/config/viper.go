package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: TWOSTEP_JWT_SECRET overrides
// jwt.secret.
const EnvPrefix = "TWOSTEP"

var ErrConfigTypeRequired = errors.New("config: type is required")

type Viper struct {
	v *viper.Viper
}

// NewViper reads the file at path and reloads it when it changes on disk.
func NewViper(path string) (*Viper, error) {
	v := newViper()
	v.SetConfigFile(filepath.Clean(path))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config reloaded", "path", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes is for tests and embedded defaults. configType is a
// viper format such as "yaml".
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (c *Viper) GetString(key string) string        { return c.v.GetString(key) }
func (c *Viper) GetBool(key string) bool            { return c.v.GetBool(key) }
func (c *Viper) GetInt(key string) int              { return c.v.GetInt(key) }
func (c *Viper) GetInt32(key string) int32          { return c.v.GetInt32(key) }
func (c *Viper) GetInt64(key string) int64          { return c.v.GetInt64(key) }
func (c *Viper) GetUint64(key string) uint64        { return c.v.GetUint64(key) }
func (c *Viper) GetFloat64(key string) float64      { return c.v.GetFloat64(key) }
func (c *Viper) GetSecond(key string) time.Duration { return c.units(key, time.Second) }
func (c *Viper) GetMinute(key string) time.Duration { return c.units(key, time.Minute) }

func (c *Viper) units(key string, unit time.Duration) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * unit
}

func (c *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(c.v.GetString(key))
	if err != nil {
		return nil
	}
	return data
}

func (c *Viper) GetArray(key string) []string {
	var raw []string
	if s, ok := c.v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = c.v.GetStringSlice(key)
	}

	return lo.FilterMap(raw, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}

func (c *Viper) GetMap(key string) map[string]string {
	out := make(map[string]string)
	for _, pair := range c.GetArray(key) {
		if k, v, ok := strings.Cut(pair, ":"); ok {
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return out
}

func (*Viper) Close() error { return nil }
