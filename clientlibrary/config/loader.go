/*
 * Copyright (c) 2020 VMware, Inc.
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of this software and
 * associated documentation files (the "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is furnished to do
 * so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all copies or substantial
 * portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT
 * NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
 * WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 */
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/metrics"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/metrics/cloudwatch"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/metrics/prometheus"
	"github.com/vmware/vmware-go-kcl-multilang/logger"
	"github.com/vmware/vmware-go-kcl-multilang/logger/zap"
	"github.com/vmware/vmware-go-kcl-multilang/logger/zerolog"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration file.
// Nested keys are separated by a double underscore, e.g. KCL_MULTILANG__LOG__LEVEL.
const EnvPrefix = "KCL_MULTILANG__"

const (
	LogBackendLogrus  = "logrus"
	LogBackendZap     = "zap"
	LogBackendZerolog = "zerolog"

	LogFormatText = "text"
	LogFormatJSON = "json"

	MetricsBackendNone       = "none"
	MetricsBackendPrometheus = "prometheus"
	MetricsBackendCloudWatch = "cloudwatch"
)

type LogCfg struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`  // text|json
	Backend    string `koanf:"backend"` // logrus|zap|zerolog
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxAgeDays int    `koanf:"max_age_days"`
	MaxBackups int    `koanf:"max_backups"`
}

type MetricsCfg struct {
	Backend       string `koanf:"backend"` // none|prometheus|cloudwatch
	ListenAddress string `koanf:"listen_address"`
	Region        string `koanf:"region"`
	ResolutionSec int    `koanf:"resolution_sec"`
}

type CheckpointCfg struct {
	Retries       int `koanf:"retries"`
	BackoffMillis int `koanf:"backoff_millis"`
}

// FileConfig is the configuration file of a record processor.
type FileConfig struct {
	ApplicationName string `koanf:"application_name"`
	StreamName      string `koanf:"stream_name"`
	WorkerID        string `koanf:"worker_id"`

	Log        LogCfg        `koanf:"log"`
	Metrics    MetricsCfg    `koanf:"metrics"`
	Checkpoint CheckpointCfg `koanf:"checkpoint"`
}

// Load merges the YAML file at path (if present) with the KCL_MULTILANG__ environment variables.
func Load(path string) (FileConfig, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, err
		}
	}

	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return FileConfig{}, err
	}

	var cfg FileConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(c *FileConfig) {
	if c.StreamName == "" {
		c.StreamName = DefaultStreamName
	}
	if c.Log.Level == "" {
		c.Log.Level = logger.Info
	}
	if c.Log.Format == "" {
		c.Log.Format = LogFormatText
	}
	if c.Log.Backend == "" {
		c.Log.Backend = LogBackendLogrus
	}
	if c.Metrics.Backend == "" {
		c.Metrics.Backend = MetricsBackendNone
	}
	if c.Metrics.ListenAddress == "" {
		c.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if c.Metrics.ResolutionSec <= 0 {
		c.Metrics.ResolutionSec = DefaultMetricsResolutionSec
	}
	if c.Checkpoint.Retries <= 0 {
		c.Checkpoint.Retries = DefaultCheckpointRetries
	}
	if c.Checkpoint.BackoffMillis <= 0 {
		c.Checkpoint.BackoffMillis = DefaultCheckpointBackoffMillis
	}
}

func (c *FileConfig) validate() error {
	if c.ApplicationName == "" {
		return errors.New("application_name is required")
	}
	switch c.Log.Backend {
	case LogBackendLogrus, LogBackendZap, LogBackendZerolog:
	default:
		return fmt.Errorf("log.backend %q not supported (want logrus, zap or zerolog)", c.Log.Backend)
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("log.format %q not supported (want text or json)", c.Log.Format)
	}
	switch c.Metrics.Backend {
	case MetricsBackendNone, MetricsBackendPrometheus:
	case MetricsBackendCloudWatch:
		if c.Metrics.Region == "" {
			return errors.New("metrics.region is required by the cloudwatch backend")
		}
	default:
		return fmt.Errorf("metrics.backend %q not supported (want none, prometheus or cloudwatch)", c.Metrics.Backend)
	}
	return nil
}

// LoggerConfiguration returns the logger configuration. Console output always goes to stderr.
func (c *FileConfig) LoggerConfiguration() logger.Configuration {
	config := logger.Configuration{
		EnableConsole:     true,
		ConsoleJSONFormat: c.Log.Format == LogFormatJSON,
		ConsoleLevel:      c.Log.Level,
		EnableFile:        c.Log.File != "",
		FileJSONFormat:    true,
		FileLevel:         c.Log.Level,
		Filename:          c.Log.File,
		MaxSizeMB:         c.Log.MaxSizeMB,
		MaxAgeDays:        c.Log.MaxAgeDays,
		MaxBackups:        c.Log.MaxBackups,
	}
	logger.NormalizeConfig(&config)
	return config
}

func (c *FileConfig) newLogger() logger.Logger {
	config := c.LoggerConfiguration()
	switch c.Log.Backend {
	case LogBackendZap:
		return zap.NewZapLoggerWithConfig(config)
	case LogBackendZerolog:
		return zerolog.NewZerologLoggerWithConfig(config)
	default:
		return logger.NewLogrusLoggerWithConfig(config)
	}
}

func (c *FileConfig) newMonitoringService(log logger.Logger) metrics.MonitoringService {
	switch c.Metrics.Backend {
	case MetricsBackendPrometheus:
		return prometheus.NewMonitoringService(c.Metrics.ListenAddress, c.Metrics.Region, log)
	case MetricsBackendCloudWatch:
		cw := cloudwatch.NewMonitoringService(c.Metrics.Region, nil, log)
		cw.ResolutionSec = c.Metrics.ResolutionSec
		return cw
	default:
		return metrics.NoopMonitoringService{}
	}
}

// Build creates the record processor configuration with the configured logger and metrics backends.
func (c *FileConfig) Build() *MultiLangConfiguration {
	log := c.newLogger()

	cfg := NewMultiLangConfig(c.ApplicationName).
		WithStreamName(c.StreamName).
		WithCheckpointRetries(c.Checkpoint.Retries).
		WithCheckpointBackoffMillis(c.Checkpoint.BackoffMillis).
		WithLogger(log).
		WithMonitoringService(c.newMonitoringService(log))
	if c.WorkerID != "" {
		cfg.WithWorkerID(c.WorkerID)
	}
	return cfg
}
