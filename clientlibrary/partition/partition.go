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
package partition

import (
	"fmt"
	"sync"

	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
)

// ShardState is the lifecycle stage of the shard handled by the record processor.
type ShardState int

const (
	ShardAwaitingInitialize ShardState = iota
	ShardProcessing
	ShardLeaseLost
	ShardEnded
	ShardShutdownRequested
)

func (s ShardState) String() string {
	switch s {
	case ShardAwaitingInitialize:
		return "AWAITING_INITIALIZE"
	case ShardProcessing:
		return "PROCESSING"
	case ShardLeaseLost:
		return "LEASE_LOST"
	case ShardEnded:
		return "SHARD_ENDED"
	case ShardShutdownRequested:
		return "SHUTDOWN_REQUESTED"
	default:
		return fmt.Sprintf("ShardState(%d)", int(s))
	}
}

// ShardStatus tracks the shard of a record processor session. It may be read from other goroutines,
// e.g. a metrics handler, while the worker updates it.
type ShardStatus struct {
	ID string
	// Checkpoint is the position reported by the daemon with shardEnded or shutdownRequested.
	Checkpoint string
	// LastSequenceNumber is the position of the last record delivered to the record processor.
	LastSequenceNumber *kcl.ExtendedSequenceNumber
	State              ShardState
	Mux                *sync.RWMutex
}

func NewShardStatus() *ShardStatus {
	return &ShardStatus{
		State: ShardAwaitingInitialize,
		Mux:   &sync.RWMutex{},
	}
}

func (ss *ShardStatus) GetID() string {
	ss.Mux.RLock()
	defer ss.Mux.RUnlock()
	return ss.ID
}

// Initialize records the shard the session was started for.
func (ss *ShardStatus) Initialize(shardID string) {
	ss.Mux.Lock()
	defer ss.Mux.Unlock()
	ss.ID = shardID
	ss.State = ShardProcessing
}

func (ss *ShardStatus) GetState() ShardState {
	ss.Mux.RLock()
	defer ss.Mux.RUnlock()
	return ss.State
}

func (ss *ShardStatus) SetState(state ShardState) {
	ss.Mux.Lock()
	defer ss.Mux.Unlock()
	ss.State = state
}

func (ss *ShardStatus) GetCheckpoint() string {
	ss.Mux.RLock()
	defer ss.Mux.RUnlock()
	return ss.Checkpoint
}

// End moves the shard to state and records the checkpoint reported by the daemon.
func (ss *ShardStatus) End(state ShardState, checkpoint string) {
	ss.Mux.Lock()
	defer ss.Mux.Unlock()
	ss.State = state
	ss.Checkpoint = checkpoint
}

func (ss *ShardStatus) GetLastSequenceNumber() *kcl.ExtendedSequenceNumber {
	ss.Mux.RLock()
	defer ss.Mux.RUnlock()
	return ss.LastSequenceNumber
}

// Advance moves LastSequenceNumber to the position of the last record of a batch. Older positions are ignored.
func (ss *ShardStatus) Advance(records []*kcl.Record) {
	if len(records) == 0 {
		return
	}
	last := records[len(records)-1].ExtendedSequenceNumber()

	ss.Mux.Lock()
	defer ss.Mux.Unlock()
	if ss.LastSequenceNumber == nil || ss.LastSequenceNumber.Compare(last) < 0 {
		ss.LastSequenceNumber = &last
	}
}
