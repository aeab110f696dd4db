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
package main

import (
	chk "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/checkpoint"
	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/payload"
	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

const dynamoDBEventSource = "aws:dynamodb"

type eventPayload struct {
	EventField string `json:"event_field"`
}

// sampleConsumer logs the payload of every record and checkpoints after each batch.
type sampleConsumer struct {
	log   logger.Logger
	retry chk.RetryOptions

	shardID string
}

func newSampleConsumer(log logger.Logger, retry chk.RetryOptions) *sampleConsumer {
	return &sampleConsumer{log: log, retry: retry}
}

func (c *sampleConsumer) Initialize(input *kcl.InitializationInput) {
	c.shardID = input.ShardId
	c.log.Infof("Processing shard: %s", input.ShardId)
}

func (c *sampleConsumer) ProcessRecords(input *kcl.ProcessRecordsInput) {
	for _, r := range input.Records {
		c.logRecord(r)
	}
	c.checkpoint(input.Checkpointer, "batch")
}

func (c *sampleConsumer) logRecord(r *kcl.Record) {
	if change, err := payload.DecodeDynamoDB(r); err == nil && change.EventSource == dynamoDBEventSource {
		c.log.Infof("Record %s: %s on table %s", r.SequenceNumber, change.EventName, change.TableName)
		return
	}

	var p eventPayload
	if err := r.JSON(&p); err != nil {
		c.log.Warnf("Record %s is not JSON: %v", r.SequenceNumber, err)
		return
	}
	c.log.Infof("Record %s: %s", r.SequenceNumber, p.EventField)
}

func (c *sampleConsumer) LeaseLost(input *kcl.LeaseLostInput) {
	c.log.Infof("Lease lost for shard: %s", c.shardID)
}

func (c *sampleConsumer) ShardEnded(input *kcl.ShardEndedInput) {
	c.checkpoint(input.Checkpointer, "shard end")
}

func (c *sampleConsumer) ShutdownRequested(input *kcl.ShutdownRequestedInput) {
	c.checkpoint(input.Checkpointer, "shutdown")
}

// checkpoint at the last record delivered. A failed checkpoint is logged; the daemon delivers the
// records again after fail over.
func (c *sampleConsumer) checkpoint(checkpointer kcl.IRecordProcessorCheckpointer, reason string) {
	if err := chk.CheckpointWithRetry(checkpointer, nil, nil, c.retry); err != nil {
		c.log.Errorf("Checkpoint at %s failed for shard %s: %v", reason, c.shardID, err)
	}
}
