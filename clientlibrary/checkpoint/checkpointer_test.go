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
package checkpoint

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/channel"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/multilang"
)

const processRecordsLine = `{"action":"processRecords","records":[{"data":"SGVsbG8sIHRoaXMgaXMgYSB0ZXN0Lg==","partitionKey":"1","sequenceNumber":"49590338271490256608559692538361571095921575989136588898","approximateArrivalTimestamp":1570887011763.01}]}`

func newTestCheckpointer(replies ...string) (*Checkpointer, *channel.MemoryReader, *channel.MemoryWriter) {
	reader := channel.NewMemoryReader(replies...)
	writer := &channel.MemoryWriter{}
	return NewCheckpointer(reader, writer).WithShardID("shard1"), reader, writer
}

func TestErrorKindStrings(t *testing.T) {
	assert.Equal(t, "InvalidStateException, retryable: false", (&CheckpointError{Kind: InvalidStateException}).Error())
	assert.Equal(t, "KinesisClientLibDependencyException, retryable: true", (&CheckpointError{Kind: DependencyException}).Error())
	assert.Equal(t, "ThrottlingException, retryable: true", (&CheckpointError{Kind: ThrottlingException}).Error())
	assert.Equal(t, "ShutdownException, retryable: false", (&CheckpointError{Kind: ShutdownException}).Error())
	assert.Equal(t, "UnexpectedResponse, retryable: false", (&CheckpointError{Kind: UnexpectedResponse}).Error())
	assert.Equal(t, `Exception: "check your point", retryable: false`, (&CheckpointError{Kind: Exception, Message: "check your point"}).Error())
}

func TestErrorFromString(t *testing.T) {
	tests := []struct {
		in        string
		kind      ErrorKind
		retryable bool
	}{
		{"KinesisClientLibDependencyException", DependencyException, true},
		{"ThrottlingException", ThrottlingException, true},
		{"InvalidStateException", InvalidStateException, false},
		{"ShutdownException", ShutdownException, false},
		{"SomethingElse", Exception, false},
		{"", Exception, false},
	}

	for _, tt := range tests {
		cpErr := ErrorFromString(tt.in)
		assert.Equal(t, tt.kind, cpErr.Kind, tt.in)
		assert.Equal(t, tt.retryable, cpErr.Retryable(), tt.in)
	}
	assert.Equal(t, "SomethingElse", ErrorFromString("SomethingElse").Message)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&CheckpointError{Kind: ThrottlingException}))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", &CheckpointError{Kind: DependencyException})))
	assert.False(t, IsRetryable(&CheckpointError{Kind: ShutdownException}))
	assert.False(t, IsRetryable(errors.New("boom")))
	assert.False(t, IsRetryable(nil))
}

func TestCheckpointSuccess(t *testing.T) {
	cp, reader, writer := newTestCheckpointer(`{"action":"checkpoint","checkpoint":"4567"}`)

	seq := "4567"
	err := cp.Checkpoint(&seq, nil)
	assert.Nil(t, err)
	assert.Nil(t, cp.Err())
	assert.Equal(t, 0, reader.Remaining())
	require.Len(t, writer.Outputs, 1)
	assert.Equal(t, `{"action":"checkpoint","sequenceNumber":"4567","subSequenceNumber":null}`+"\n", writer.Outputs[0])
}

func TestCheckpointNullPosition(t *testing.T) {
	cp, _, writer := newTestCheckpointer(`{"action":"checkpoint","checkpoint":null,"error":null}`)

	assert.Nil(t, cp.Checkpoint(nil, nil))
	require.Len(t, writer.Outputs, 1)
	assert.Equal(t, `{"action":"checkpoint","sequenceNumber":null,"subSequenceNumber":null}`+"\n", writer.Outputs[0])
}

func TestCheckpointDaemonErrors(t *testing.T) {
	tests := []struct {
		errorString string
		kind        ErrorKind
		retryable   bool
	}{
		{"InvalidStateException", InvalidStateException, false},
		{"ThrottlingException", ThrottlingException, true},
		{"KinesisClientLibDependencyException", DependencyException, true},
		{"ShutdownException", ShutdownException, false},
		{"check your point", Exception, false},
	}

	for _, tt := range tests {
		cp, _, _ := newTestCheckpointer(fmt.Sprintf(`{"action":"checkpoint","checkpoint":null,"error":%q}`, tt.errorString))

		err := cp.Checkpoint(nil, nil)
		var cpErr *CheckpointError
		require.True(t, errors.As(err, &cpErr), tt.errorString)
		assert.Equal(t, tt.kind, cpErr.Kind)
		assert.Equal(t, tt.retryable, cpErr.Retryable())
		// a refusal does not break the session
		assert.Nil(t, cp.Err())
	}
}

func TestCheckpointUnexpectedResponse(t *testing.T) {
	cp, _, _ := newTestCheckpointer(processRecordsLine)

	err := cp.Checkpoint(nil, nil)
	var cpErr *CheckpointError
	require.True(t, errors.As(err, &cpErr))
	assert.Equal(t, UnexpectedResponse, cpErr.Kind)
	assert.False(t, cpErr.Retryable())
	assert.True(t, errors.Is(cp.Err(), ErrProtocolViolation))

	// the channel is out of sync, nothing more is exchanged
	assert.Equal(t, cp.Err(), cp.Checkpoint(nil, nil))
}

func TestCheckpointChannelClosed(t *testing.T) {
	cp, _, writer := newTestCheckpointer()

	err := cp.Checkpoint(nil, nil)
	assert.True(t, errors.Is(err, channel.ErrChannelClosed))
	assert.Equal(t, err, cp.Err())
	assert.Len(t, writer.Outputs, 1)

	var cpErr *CheckpointError
	assert.False(t, errors.As(err, &cpErr))
}

func TestCheckpointMalformedReply(t *testing.T) {
	cp, _, _ := newTestCheckpointer(`{"action":"checkpoint"`)

	err := cp.Checkpoint(nil, nil)
	assert.True(t, errors.Is(err, multilang.ErrMalformedMessage))
	assert.Equal(t, err, cp.Err())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) error { return errors.New("broken pipe") }

func TestCheckpointWriteFailure(t *testing.T) {
	reader := channel.NewMemoryReader(`{"action":"checkpoint"}`)
	cp := NewCheckpointer(reader, failingWriter{})

	err := cp.Checkpoint(nil, nil)
	assert.NotNil(t, err)
	assert.Equal(t, err, cp.Err())
	assert.Equal(t, 1, reader.Remaining())
}

func TestCheckpointAfterInvalidate(t *testing.T) {
	cp, reader, writer := newTestCheckpointer(`{"action":"checkpoint"}`)
	cp.Invalidate()

	assert.Equal(t, ErrCheckpointerExpired, cp.Checkpoint(nil, nil))
	assert.Empty(t, writer.Outputs)
	assert.Equal(t, 1, reader.Remaining())
}

// reentrantReader calls back into the checkpointer while a reply is awaited.
type reentrantReader struct {
	cp  *Checkpointer
	err error
}

func (r *reentrantReader) Next() (string, error) {
	r.err = r.cp.Checkpoint(nil, nil)
	return `{"action":"checkpoint"}`, nil
}

func TestCheckpointReentrant(t *testing.T) {
	reader := &reentrantReader{}
	writer := &channel.MemoryWriter{}
	cp := NewCheckpointer(reader, writer)
	reader.cp = cp

	assert.Nil(t, cp.Checkpoint(nil, nil))
	assert.Equal(t, ErrCheckpointInProgress, reader.err)
	assert.Len(t, writer.Outputs, 1)
}
