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
package interfaces

// Containers for the parameters to the IRecordProcessor
type (
	InitializationInput struct {
		// The shardId that the record processor is being initialized for.
		ShardId string
	}

	ProcessRecordsInput struct {
		// The records delivered by the MultiLangDaemon, ordered by (SequenceNumber, SubSequenceNumber).
		// Aggregated records have already been de-aggregated by the daemon.
		Records []*Record

		// A checkpointer that the RecordProcessor can use to checkpoint its progress.
		// It is only valid until ProcessRecords returns.
		Checkpointer IRecordProcessorCheckpointer
	}

	// LeaseLostInput carries no checkpointer: the lease is already gone and
	// another worker may be processing the shard.
	LeaseLostInput struct{}

	ShardEndedInput struct {
		// Checkpointer is used to checkpoint at the end of the shard.
		// It is only valid until ShardEnded returns.
		Checkpointer IRecordProcessorCheckpointer
	}

	ShutdownRequestedInput struct {
		// Checkpointer is used to record the current progress before shutdown.
		// It is only valid until ShutdownRequested returns.
		Checkpointer IRecordProcessorCheckpointer
	}
)
