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
package prometheus

import (
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

func TestMonitoringService(t *testing.T) {
	registry := prom.NewRegistry()
	p := NewMonitoringService(":0", "us-west-2", logger.GetDefaultLogger()).WithRegistry(registry)
	require.Nil(t, p.Init("app", "stream", "worker-1"))

	p.IncrRecordsProcessed("shard1", 3)
	p.IncrRecordsProcessed("shard1", 2)
	p.IncrBytesProcessed("shard1", 1024)
	p.MillisBehindLatest("shard1", 1500)
	p.RecordProcessRecordsTime("shard1", 20)
	p.CheckpointSucceeded("shard1")
	p.CheckpointFailed("shard1", "ThrottlingException")
	p.CheckpointFailed("shard1", "ThrottlingException")
	p.LeaseLost("shard1")
	p.ShardEnded("shard1")

	assert.Equal(t, float64(5), testutil.ToFloat64(p.processedRecords.WithLabelValues("stream", "shard1")))
	assert.Equal(t, float64(1024), testutil.ToFloat64(p.processedBytes.WithLabelValues("stream", "shard1")))
	assert.Equal(t, 1.5, testutil.ToFloat64(p.behindLatestSeconds.WithLabelValues("stream", "shard1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.checkpoints.WithLabelValues("stream", "shard1", "worker-1")))
	assert.Equal(t, float64(2), testutil.ToFloat64(p.checkpointFailures.WithLabelValues("stream", "shard1", "worker-1", "ThrottlingException")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.leasesLost.WithLabelValues("stream", "shard1", "worker-1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.shardsEnded.WithLabelValues("stream", "shard1", "worker-1")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.processRecordsTime))
}

func TestMonitoringServiceDoubleInit(t *testing.T) {
	registry := prom.NewRegistry()
	require.Nil(t, NewMonitoringService(":0", "", logger.GetDefaultLogger()).WithRegistry(registry).Init("app", "stream", "w"))

	// same metric names on the same registry
	err := NewMonitoringService(":0", "", logger.GetDefaultLogger()).WithRegistry(registry).Init("app", "stream", "w")
	assert.NotNil(t, err)
}

func TestShutdownWithoutStart(t *testing.T) {
	p := NewMonitoringService(":0", "", logger.GetDefaultLogger())
	p.Shutdown()
}

func TestMetricPrefix(t *testing.T) {
	assert.Equal(t, "sample_consumer_v2", metricPrefix("sample-consumer.v2"))
	assert.Equal(t, "app", metricPrefix("app"))
}

func TestHandlerScrape(t *testing.T) {
	p := NewMonitoringService(":0", "", logger.GetDefaultLogger())
	require.Nil(t, p.Init("sample-consumer", "stream", "worker-1"))
	p.IncrRecordsProcessed("shard1", 7)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rec.Body)
	require.Nil(t, err)

	family, ok := families["sample_consumer_processed_records"]
	require.True(t, ok)
	require.Len(t, family.GetMetric(), 1)
	assert.Equal(t, float64(7), family.GetMetric()[0].GetCounter().GetValue())
}
