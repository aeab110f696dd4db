/*
 * Copyright (c) 2018 VMware, Inc.
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
// The implementation is derived from https://github.com/awslabs/amazon-kinesis-client
/*
 * Copyright 2014-2015 Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Amazon Software License (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 * http://aws.amazon.com/asl/
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */
package config

import (
	"log"

	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/metrics"
	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

const (
	// The default number of attempts, including the first one, made by the record processor
	// when the daemon answers a checkpoint with a retryable error.
	DefaultCheckpointRetries = 5

	// The base backoff between two checkpoint attempts. It doubles on every attempt.
	DefaultCheckpointBackoffMillis = 100

	// The default prometheus listener.
	DefaultMetricsListenAddress = ":8080"

	// The default flush interval of the cloudwatch metrics.
	DefaultMetricsResolutionSec = 60

	// The stream is not known to a multilang record processor; metrics are labelled with this value
	// unless a stream name is configured.
	DefaultStreamName = "multilang"
)

type (
	// MultiLangConfiguration holds the settings of a record processor run by the MultiLangDaemon.
	// Leasing, polling and checkpoint storage are configured on the daemon side.
	MultiLangConfiguration struct {
		// ApplicationName is the name of the consumer application. It is used as metrics namespace.
		ApplicationName string

		// StreamName labels metrics. The daemon does not tell the record processor which stream it reads.
		StreamName string

		// WorkerID identifies this record processor session.
		WorkerID string

		// CheckpointRetries is the number of attempts made by CheckpointWithRetry.
		CheckpointRetries int

		// CheckpointBackoffMillis is the base backoff of CheckpointWithRetry.
		CheckpointBackoffMillis int

		// Logger used to log messages. Console output must not go to stdout.
		Logger logger.Logger

		// MonitoringService publishes per shard metrics.
		MonitoringService metrics.MonitoringService
	}
)

func empty(s string) bool {
	return len(s) == 0
}

func checkIsValueNotEmpty(key string, value string) {
	if empty(value) {
		// There is no point to continue for incorrect configuration. Fail fast!
		log.Panicf("Non-empty value expected for %v, actual: %v", key, value)
	}
}

func checkIsValuePositive(key string, value int) {
	if value <= 0 {
		// There is no point to continue for incorrect configuration. Fail fast!
		log.Panicf("Positive value expected for %v, actual: %v", key, value)
	}
}
