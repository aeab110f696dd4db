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

type (
	// IRecordProcessor is the interface for the application to implement for processing records of one shard.
	// The MultiLangDaemon drives a single IRecordProcessor per process; every method is called synchronously,
	// one at a time, from the dispatch loop.
	IRecordProcessor interface {
		/**
		 * Invoked once at the start of the session with the shard this processor is responsible for.
		 *
		 * @param initializationInput Provides information related to initialization
		 */
		Initialize(initializationInput *InitializationInput)

		/**
		 * Process data records. The MultiLangDaemon will invoke this method to deliver data records to the
		 * application. Upon fail over, the new instance will get records with sequence number > checkpoint position.
		 *
		 * @param processRecordsInput Provides the records to be processed as well as the checkpointer.
		 */
		ProcessRecords(processRecordsInput *ProcessRecordsInput)

		// LeaseLost is invoked when the lease for the shard has been lost. Checkpointing is not possible.
		LeaseLost(leaseLostInput *LeaseLostInput)

		/**
		 * Invoked when the shard has been closed and all records have been delivered. The application MUST
		 * checkpoint before returning, otherwise processing of the child shards cannot begin.
		 */
		ShardEnded(shardEndedInput *ShardEndedInput)

		// ShutdownRequested is invoked on graceful shutdown of the daemon. The application should checkpoint
		// its current progress before returning.
		ShutdownRequested(shutdownRequestedInput *ShutdownRequestedInput)
	}

	/**
	 * Used by RecordProcessors when they want to checkpoint their progress.
	 * The MultiLangDaemon persists the checkpoint; the processor only asks for it and waits for the answer.
	 */
	IRecordProcessorCheckpointer interface {
		/**
		 * Checkpoint at the given sequence number and, for de-aggregated records, sub-sequence number.
		 * When both are nil the daemon checkpoints at the last record delivered in the current batch.
		 *
		 * Returns a *checkpoint.CheckpointError for failures reported by the daemon:
		 *   KinesisClientLibDependencyException and ThrottlingException are retryable,
		 *   InvalidStateException and ShutdownException are not.
		 */
		Checkpoint(sequenceNumber *string, subSequenceNumber *uint64) error
	}
)
