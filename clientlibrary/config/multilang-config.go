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
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/metrics"
	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

// NewMultiLangConfig creates a configuration with default values. A random WorkerID is generated.
func NewMultiLangConfig(applicationName string) *MultiLangConfiguration {
	checkIsValueNotEmpty("ApplicationName", applicationName)

	return &MultiLangConfiguration{
		ApplicationName:         applicationName,
		StreamName:              DefaultStreamName,
		WorkerID:                uuid.New().String(),
		CheckpointRetries:       DefaultCheckpointRetries,
		CheckpointBackoffMillis: DefaultCheckpointBackoffMillis,
		Logger:                  logger.GetDefaultLogger(),
		MonitoringService:       metrics.NoopMonitoringService{},
	}
}

func (c *MultiLangConfiguration) WithStreamName(streamName string) *MultiLangConfiguration {
	checkIsValueNotEmpty("StreamName", streamName)
	c.StreamName = streamName
	return c
}

func (c *MultiLangConfiguration) WithWorkerID(workerID string) *MultiLangConfiguration {
	checkIsValueNotEmpty("WorkerID", workerID)
	c.WorkerID = workerID
	return c
}

func (c *MultiLangConfiguration) WithCheckpointRetries(retries int) *MultiLangConfiguration {
	checkIsValuePositive("CheckpointRetries", retries)
	c.CheckpointRetries = retries
	return c
}

func (c *MultiLangConfiguration) WithCheckpointBackoffMillis(backoffMillis int) *MultiLangConfiguration {
	checkIsValuePositive("CheckpointBackoffMillis", backoffMillis)
	c.CheckpointBackoffMillis = backoffMillis
	return c
}

// WithLogger sets the logger. The console writer of the logger must not be stdout.
func (c *MultiLangConfiguration) WithLogger(logger logger.Logger) *MultiLangConfiguration {
	if logger == nil {
		log.Panic("Logger cannot be null")
	}
	c.Logger = logger
	return c
}

// WithMonitoringService sets the monitoring service to use to publish metrics.
func (c *MultiLangConfiguration) WithMonitoringService(mService metrics.MonitoringService) *MultiLangConfiguration {
	// Nil case is handled downward (at worker creation) so no need to do it here.
	// Plus the user might want to be explicit about passing a nil monitoring service here.
	c.MonitoringService = mService
	return c
}

// CheckpointBackoff returns CheckpointBackoffMillis as a duration.
func (c *MultiLangConfiguration) CheckpointBackoff() time.Duration {
	return time.Duration(c.CheckpointBackoffMillis) * time.Millisecond
}
