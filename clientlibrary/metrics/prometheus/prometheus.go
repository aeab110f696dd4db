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
// The implementation is derived from https://github.com/patrobinson/gokini
//
// Copyright 2018 Patrick robinson
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of this software and associated documentation files (the "Software"), to deal in the Software without restriction, including without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the Software, and to permit persons to whom the Software is furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
package prometheus

import (
	"context"
	"net/http"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

// MonitoringService publishes record processor metrics to Prometheus.
// The metrics are served on their own listener, stdout belongs to the MultiLangDaemon.
type MonitoringService struct {
	listenAddress string
	namespace     string
	streamName    string
	workerID      string
	region        string
	logger        logger.Logger

	registry *prom.Registry
	server   *http.Server

	processedRecords    *prom.CounterVec
	processedBytes      *prom.CounterVec
	behindLatestSeconds *prom.GaugeVec
	processRecordsTime  *prom.HistogramVec
	checkpoints         *prom.CounterVec
	checkpointFailures  *prom.CounterVec
	leasesLost          *prom.CounterVec
	shardsEnded         *prom.CounterVec
}

// NewMonitoringService returns a Monitoring service publishing metrics to Prometheus.
func NewMonitoringService(listenAddress, region string, logger logger.Logger) *MonitoringService {
	return &MonitoringService{
		listenAddress: listenAddress,
		region:        region,
		logger:        logger,
		registry:      prom.NewRegistry(),
	}
}

// WithRegistry registers the metrics on the given registry instead of a private one.
func (p *MonitoringService) WithRegistry(registry *prom.Registry) *MonitoringService {
	p.registry = registry
	return p
}

func (p *MonitoringService) Init(appName, streamName, workerID string) error {
	p.namespace = metricPrefix(appName)
	p.streamName = streamName
	p.workerID = workerID

	p.processedBytes = prom.NewCounterVec(prom.CounterOpts{
		Name: p.namespace + `_processed_bytes`,
		Help: "Number of bytes processed",
	}, []string{"kinesisStream", "shard"})
	p.processedRecords = prom.NewCounterVec(prom.CounterOpts{
		Name: p.namespace + `_processed_records`,
		Help: "Number of records processed",
	}, []string{"kinesisStream", "shard"})
	p.behindLatestSeconds = prom.NewGaugeVec(prom.GaugeOpts{
		Name: p.namespace + `_behind_latest_seconds`,
		Help: "Age of the last record of the latest batch when it was delivered",
	}, []string{"kinesisStream", "shard"})
	p.processRecordsTime = prom.NewHistogramVec(prom.HistogramOpts{
		Name: p.namespace + `_process_records_duration_seconds`,
		Help: "The time taken to process records, checkpoints included",
	}, []string{"kinesisStream", "shard"})
	p.checkpoints = prom.NewCounterVec(prom.CounterOpts{
		Name: p.namespace + `_checkpoints`,
		Help: "Number of successful checkpoints",
	}, []string{"kinesisStream", "shard", "workerID"})
	p.checkpointFailures = prom.NewCounterVec(prom.CounterOpts{
		Name: p.namespace + `_checkpoint_failures`,
		Help: "Number of checkpoints rejected by the daemon",
	}, []string{"kinesisStream", "shard", "workerID", "kind"})
	p.leasesLost = prom.NewCounterVec(prom.CounterOpts{
		Name: p.namespace + `_leases_lost`,
		Help: "Number of shard leases lost",
	}, []string{"kinesisStream", "shard", "workerID"})
	p.shardsEnded = prom.NewCounterVec(prom.CounterOpts{
		Name: p.namespace + `_shards_ended`,
		Help: "Number of shards processed until their end",
	}, []string{"kinesisStream", "shard", "workerID"})

	metrics := []prom.Collector{
		p.processedBytes,
		p.processedRecords,
		p.behindLatestSeconds,
		p.processRecordsTime,
		p.checkpoints,
		p.checkpointFailures,
		p.leasesLost,
		p.shardsEnded,
	}
	for _, metric := range metrics {
		if err := p.registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Handler serves the metrics of the registry in the Prometheus exposition format.
func (p *MonitoringService) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *MonitoringService) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	p.server = &http.Server{Addr: p.listenAddress, Handler: mux}

	go func() {
		p.logger.Infof("Starting Prometheus listener on %s", p.listenAddress)
		err := p.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			p.logger.Errorf("Error starting Prometheus metrics endpoint. %+v", err)
		}
		p.logger.Infof("Stopped metrics server")
	}()

	return nil
}

func (p *MonitoringService) Shutdown() {
	if p.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.server.Shutdown(ctx); err != nil {
		p.logger.Errorf("Error stopping Prometheus metrics endpoint. %+v", err)
	}
}

func (p *MonitoringService) IncrRecordsProcessed(shard string, count int) {
	p.processedRecords.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName}).Add(float64(count))
}

func (p *MonitoringService) IncrBytesProcessed(shard string, count int64) {
	p.processedBytes.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName}).Add(float64(count))
}

func (p *MonitoringService) MillisBehindLatest(shard string, millis float64) {
	p.behindLatestSeconds.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName}).Set(millis / 1000)
}

func (p *MonitoringService) RecordProcessRecordsTime(shard string, millis float64) {
	p.processRecordsTime.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName}).Observe(millis / 1000)
}

func (p *MonitoringService) CheckpointSucceeded(shard string) {
	p.checkpoints.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName, "workerID": p.workerID}).Inc()
}

func (p *MonitoringService) CheckpointFailed(shard string, kind string) {
	p.checkpointFailures.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName, "workerID": p.workerID, "kind": kind}).Inc()
}

func (p *MonitoringService) LeaseLost(shard string) {
	p.leasesLost.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName, "workerID": p.workerID}).Inc()
}

func (p *MonitoringService) ShardEnded(shard string) {
	p.shardsEnded.With(prom.Labels{"shard": shard, "kinesisStream": p.streamName, "workerID": p.workerID}).Inc()
}

// metricPrefix turns the application name into a valid metric name prefix.
func metricPrefix(appName string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, appName)
}
