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
// The implementation is derived from https://github.com/patrobinson/gokini
//
// Copyright 2018 Patrick robinson
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of this software and associated documentation files (the "Software"), to deal in the Software without restriction, including without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the Software, and to permit persons to whom the Software is furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
package checkpoint

import (
	"errors"
	"fmt"

	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/channel"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/metrics"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/multilang"
	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

var (
	// ErrCheckpointerExpired is returned when a checkpointer is used after the processor call it was handed to returned.
	ErrCheckpointerExpired = errors.New("checkpointer used after the record processor call returned")

	// ErrCheckpointInProgress is returned when Checkpoint is called while another checkpoint is waiting for its reply.
	ErrCheckpointInProgress = errors.New("checkpoint already in progress")

	// ErrProtocolViolation is wrapped by the fatal error recorded when the daemon replies with another action.
	ErrProtocolViolation = errors.New("protocol violation")
)

// Checkpointer asks the MultiLangDaemon to checkpoint through the line channel shared with the dispatch loop.
// It is valid for a single record processor call.
type Checkpointer struct {
	reader   channel.InputReader
	writer   channel.OutputWriter
	shardID  string
	log      logger.Logger
	mService metrics.MonitoringService

	inProgress bool
	expired    bool
	// fatal is the first failure that desynchronized the channel. Once set, every call returns it.
	fatal error
}

// NewCheckpointer creates a checkpointer exchanging lines over reader and writer.
func NewCheckpointer(reader channel.InputReader, writer channel.OutputWriter) *Checkpointer {
	return &Checkpointer{
		reader:   reader,
		writer:   writer,
		log:      logger.GetDefaultLogger(),
		mService: metrics.NoopMonitoringService{},
	}
}

func (c *Checkpointer) WithShardID(shardID string) *Checkpointer {
	c.shardID = shardID
	return c
}

func (c *Checkpointer) WithLogger(log logger.Logger) *Checkpointer {
	if log != nil {
		c.log = log
	}
	return c
}

func (c *Checkpointer) WithMonitoringService(mService metrics.MonitoringService) *Checkpointer {
	if mService != nil {
		c.mService = mService
	}
	return c
}

// Checkpoint writes a checkpoint request and blocks until the daemon answers it.
//
// A refusal from the daemon is returned as a *CheckpointError. Channel failures and undecodable
// replies are returned as plain errors and are also reported by Err, since the session cannot
// continue after them.
func (c *Checkpointer) Checkpoint(sequenceNumber *string, subSequenceNumber *uint64) error {
	switch {
	case c.expired:
		return ErrCheckpointerExpired
	case c.inProgress:
		return ErrCheckpointInProgress
	case c.fatal != nil:
		return c.fatal
	}

	c.inProgress = true
	defer func() { c.inProgress = false }()

	request, err := multilang.Encode(&multilang.CheckpointRequest{
		SequenceNumber:    sequenceNumber,
		SubSequenceNumber: subSequenceNumber,
	})
	if err != nil {
		return c.fail(err)
	}

	if err := c.writer.Write(request); err != nil {
		return c.fail(fmt.Errorf("failed to write checkpoint request: %w", err))
	}

	line, err := c.reader.Next()
	if err != nil {
		return c.fail(fmt.Errorf("failed to read checkpoint response: %w", err))
	}

	message, err := multilang.Decode([]byte(line))
	if err != nil {
		return c.fail(err)
	}

	reply, ok := message.(*multilang.CheckpointMessage)
	if !ok {
		c.fail(fmt.Errorf("%w: expected %s response, got %s", ErrProtocolViolation, multilang.ActionCheckpoint, message.Action()))
		cpErr := &CheckpointError{Kind: UnexpectedResponse}
		c.mService.CheckpointFailed(c.shardID, cpErr.Kind.String())
		return cpErr
	}

	if reply.Error == nil {
		c.log.Debugf("Checkpoint succeeded for shard: %s", c.shardID)
		c.mService.CheckpointSucceeded(c.shardID)
		return nil
	}

	cpErr := ErrorFromString(*reply.Error)
	c.log.Warnf("Checkpoint failed for shard: %s, error: %v", c.shardID, cpErr)
	c.mService.CheckpointFailed(c.shardID, cpErr.Kind.String())
	return cpErr
}

// Invalidate ends the validity of the checkpointer. Later calls to Checkpoint return ErrCheckpointerExpired.
func (c *Checkpointer) Invalidate() {
	c.expired = true
}

// Err returns the fatal error that broke the channel during a checkpoint, if any.
func (c *Checkpointer) Err() error {
	return c.fatal
}

func (c *Checkpointer) fail(err error) error {
	c.log.Errorf("Checkpoint for shard %s failed: %+v", c.shardID, err)
	c.fatal = err
	return err
}
