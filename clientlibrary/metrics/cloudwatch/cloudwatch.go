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
package cloudwatch

import (
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	cwatch "github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

// DefaultResolutionSec is the default interval between two flushes to CloudWatch.
// Note setting this to 1 will cost quite a bit of money.
const DefaultResolutionSec = 60

// MonitoringService buffers record processor metrics and publishes them to CloudWatch periodically.
type MonitoringService struct {
	Namespace     string
	KinesisStream string
	WorkerID      string
	Region        string
	Credentials   *credentials.Credentials
	ResolutionSec int
	Logger        logger.Logger

	svc          cloudwatchiface.CloudWatchAPI
	shardMetrics *sync.Map
	stop         chan struct{}
	waitGroup    *sync.WaitGroup
}

type cloudWatchMetrics struct {
	sync.Mutex

	processedRecords   int64
	processedBytes     int64
	behindLatestMillis []float64
	processRecordsTime []float64
	checkpoints        int64
	checkpointFailures int64
	leasesLost         int64
	shardsEnded        int64
}

// NewMonitoringService returns a Monitoring service publishing metrics to CloudWatch.
func NewMonitoringService(region string, creds *credentials.Credentials, logger logger.Logger) *MonitoringService {
	return &MonitoringService{
		Region:        region,
		Credentials:   creds,
		ResolutionSec: DefaultResolutionSec,
		Logger:        logger,
	}
}

// WithCloudWatch is used to provide CloudWatch service for either custom implementation or unit testing.
func (cw *MonitoringService) WithCloudWatch(svc cloudwatchiface.CloudWatchAPI) *MonitoringService {
	cw.svc = svc
	return cw
}

func (cw *MonitoringService) Init(appName, streamName, workerID string) error {
	cw.Namespace = appName
	cw.KinesisStream = streamName
	cw.WorkerID = workerID

	if cw.ResolutionSec <= 0 {
		cw.ResolutionSec = DefaultResolutionSec
	}
	if cw.Logger == nil {
		cw.Logger = logger.GetDefaultLogger()
	}

	if cw.svc == nil {
		s, err := session.NewSessionWithOptions(session.Options{
			Config: aws.Config{
				Region:      aws.String(cw.Region),
				Credentials: cw.Credentials,
			},
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			cw.Logger.Errorf("Failed in getting CloudWatch session: %+v", err)
			return err
		}
		cw.svc = cwatch.New(s)
	}

	cw.shardMetrics = &sync.Map{}
	cw.stop = make(chan struct{})
	cw.waitGroup = &sync.WaitGroup{}
	return nil
}

func (cw *MonitoringService) Start() error {
	cw.waitGroup.Add(1)
	go func() {
		defer cw.waitGroup.Done()
		cw.eventLoop()
	}()
	return nil
}

// Shutdown stops the flush loop and publishes what is still buffered.
func (cw *MonitoringService) Shutdown() {
	if cw.stop == nil {
		return
	}
	close(cw.stop)
	cw.waitGroup.Wait()
	cw.flush()
}

func (cw *MonitoringService) eventLoop() {
	ticker := time.NewTicker(time.Duration(cw.ResolutionSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-cw.stop:
			return
		case <-ticker.C:
			cw.flush()
		}
	}
}

func (cw *MonitoringService) flush() {
	cw.shardMetrics.Range(func(k, v interface{}) bool {
		if err := cw.flushShard(k.(string), v.(*cloudWatchMetrics)); err != nil {
			cw.Logger.Errorf("Error sending metrics to CloudWatch. %+v", err)
		}
		return true
	})
}

func (cw *MonitoringService) flushShard(shard string, metric *cloudWatchMetrics) error {
	metric.Lock()
	defer metric.Unlock()

	defaultDimensions := []*cwatch.Dimension{
		{
			Name:  aws.String("Shard"),
			Value: aws.String(shard),
		},
		{
			Name:  aws.String("KinesisStreamName"),
			Value: aws.String(cw.KinesisStream),
		},
	}

	workerDimensions := append([]*cwatch.Dimension{
		{
			Name:  aws.String("WorkerID"),
			Value: aws.String(cw.WorkerID),
		},
	}, defaultDimensions...)

	metricTimestamp := time.Now()
	data := []*cwatch.MetricDatum{
		{
			Dimensions: defaultDimensions,
			MetricName: aws.String("RecordsProcessed"),
			Unit:       aws.String("Count"),
			Timestamp:  &metricTimestamp,
			Value:      aws.Float64(float64(metric.processedRecords)),
		},
		{
			Dimensions: defaultDimensions,
			MetricName: aws.String("DataBytesProcessed"),
			Unit:       aws.String("Bytes"),
			Timestamp:  &metricTimestamp,
			Value:      aws.Float64(float64(metric.processedBytes)),
		},
		{
			Dimensions: workerDimensions,
			MetricName: aws.String("Checkpoint.Success"),
			Unit:       aws.String("Count"),
			Timestamp:  &metricTimestamp,
			Value:      aws.Float64(float64(metric.checkpoints)),
		},
		{
			Dimensions: workerDimensions,
			MetricName: aws.String("Checkpoint.Failure"),
			Unit:       aws.String("Count"),
			Timestamp:  &metricTimestamp,
			Value:      aws.Float64(float64(metric.checkpointFailures)),
		},
		{
			Dimensions: workerDimensions,
			MetricName: aws.String("LeaseLost"),
			Unit:       aws.String("Count"),
			Timestamp:  &metricTimestamp,
			Value:      aws.Float64(float64(metric.leasesLost)),
		},
		{
			Dimensions: workerDimensions,
			MetricName: aws.String("ShardEnded"),
			Unit:       aws.String("Count"),
			Timestamp:  &metricTimestamp,
			Value:      aws.Float64(float64(metric.shardsEnded)),
		},
	}

	// StatisticSet requires at least one sample.
	if len(metric.behindLatestMillis) > 0 {
		data = append(data, &cwatch.MetricDatum{
			Dimensions:      defaultDimensions,
			MetricName:      aws.String("MillisBehindLatest"),
			Unit:            aws.String("Milliseconds"),
			Timestamp:       &metricTimestamp,
			StatisticValues: statisticSet(metric.behindLatestMillis),
		})
	}
	if len(metric.processRecordsTime) > 0 {
		data = append(data, &cwatch.MetricDatum{
			Dimensions:      defaultDimensions,
			MetricName:      aws.String("RecordProcessor.processRecords.Time"),
			Unit:            aws.String("Milliseconds"),
			Timestamp:       &metricTimestamp,
			StatisticValues: statisticSet(metric.processRecordsTime),
		})
	}

	_, err := cw.svc.PutMetricData(&cwatch.PutMetricDataInput{
		Namespace:  aws.String(cw.Namespace),
		MetricData: data,
	})
	if err != nil {
		return err
	}

	metric.processedRecords = 0
	metric.processedBytes = 0
	metric.behindLatestMillis = nil
	metric.processRecordsTime = nil
	metric.checkpoints = 0
	metric.checkpointFailures = 0
	metric.leasesLost = 0
	metric.shardsEnded = 0
	return nil
}

func (cw *MonitoringService) withShard(shard string, update func(*cloudWatchMetrics)) {
	v, _ := cw.shardMetrics.LoadOrStore(shard, &cloudWatchMetrics{})
	m := v.(*cloudWatchMetrics)
	m.Lock()
	defer m.Unlock()
	update(m)
}

func (cw *MonitoringService) IncrRecordsProcessed(shard string, count int) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.processedRecords += int64(count) })
}

func (cw *MonitoringService) IncrBytesProcessed(shard string, count int64) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.processedBytes += count })
}

func (cw *MonitoringService) MillisBehindLatest(shard string, millis float64) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.behindLatestMillis = append(m.behindLatestMillis, millis) })
}

func (cw *MonitoringService) RecordProcessRecordsTime(shard string, millis float64) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.processRecordsTime = append(m.processRecordsTime, millis) })
}

func (cw *MonitoringService) CheckpointSucceeded(shard string) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.checkpoints++ })
}

func (cw *MonitoringService) CheckpointFailed(shard string, kind string) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.checkpointFailures++ })
}

func (cw *MonitoringService) LeaseLost(shard string) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.leasesLost++ })
}

func (cw *MonitoringService) ShardEnded(shard string) {
	cw.withShard(shard, func(m *cloudWatchMetrics) { m.shardsEnded++ })
}

func statisticSet(samples []float64) *cwatch.StatisticSet {
	sum, min, max := 0.0, samples[0], samples[0]
	for _, s := range samples {
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return &cwatch.StatisticSet{
		SampleCount: aws.Float64(float64(len(samples))),
		Sum:         aws.Float64(sum),
		Minimum:     aws.Float64(min),
		Maximum:     aws.Float64(max),
	}
}
