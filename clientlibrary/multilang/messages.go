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
package multilang

import (
	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
)

// Action is the value of the "action" field discriminating the messages on the wire.
type Action string

const (
	ActionInitialize        Action = "initialize"
	ActionProcessRecords    Action = "processRecords"
	ActionCheckpoint        Action = "checkpoint"
	ActionLeaseLost         Action = "leaseLost"
	ActionShardEnded        Action = "shardEnded"
	ActionShutdownRequested Action = "shutdownRequested"
	ActionStatus            Action = "status"
)

func (a Action) String() string {
	return string(a)
}

// Message is a line sent by the MultiLangDaemon to the record processor.
type Message interface {
	Action() Action
	isMessage()
}

// Request is a line sent by the record processor to the MultiLangDaemon.
type Request interface {
	Action() Action
	isRequest()
}

type (
	InitializeMessage struct {
		ShardId string
	}

	ProcessRecordsMessage struct {
		Records []*kcl.Record
	}

	// CheckpointMessage is only ever received as the reply to a CheckpointRequest.
	CheckpointMessage struct {
		// Checkpoint is the sequence number the daemon checkpointed at, if any.
		Checkpoint *string
		// Error is the name of the exception raised by the daemon, nil on success.
		Error *string
	}

	LeaseLostMessage struct{}

	ShardEndedMessage struct {
		Checkpoint string
	}

	ShutdownRequestedMessage struct {
		Checkpoint string
	}
)

type (
	// CheckpointRequest asks the daemon to checkpoint. Both fields nil means the last record
	// delivered in the current batch.
	CheckpointRequest struct {
		SequenceNumber    *string
		SubSequenceNumber *uint64
	}

	// StatusResponse acknowledges that the record processor finished handling a message.
	StatusResponse struct {
		ResponseFor Action
	}
)

func (*InitializeMessage) Action() Action        { return ActionInitialize }
func (*ProcessRecordsMessage) Action() Action    { return ActionProcessRecords }
func (*CheckpointMessage) Action() Action        { return ActionCheckpoint }
func (*LeaseLostMessage) Action() Action         { return ActionLeaseLost }
func (*ShardEndedMessage) Action() Action        { return ActionShardEnded }
func (*ShutdownRequestedMessage) Action() Action { return ActionShutdownRequested }
func (*CheckpointRequest) Action() Action        { return ActionCheckpoint }
func (*StatusResponse) Action() Action           { return ActionStatus }

func (*InitializeMessage) isMessage()        {}
func (*ProcessRecordsMessage) isMessage()    {}
func (*CheckpointMessage) isMessage()        {}
func (*LeaseLostMessage) isMessage()         {}
func (*ShardEndedMessage) isMessage()        {}
func (*ShutdownRequestedMessage) isMessage() {}
func (*CheckpointRequest) isRequest()        {}
func (*StatusResponse) isRequest()           {}

// NewStatusResponse builds the acknowledgement for the given action.
func NewStatusResponse(action Action) *StatusResponse {
	return &StatusResponse{ResponseFor: action}
}

// StatusFor builds the acknowledgement for a handled message.
func StatusFor(message Message) *StatusResponse {
	return NewStatusResponse(message.Action())
}
