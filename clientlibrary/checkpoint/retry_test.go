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
	"testing"

	"github.com/stretchr/testify/assert"
)

type scriptedCheckpointer struct {
	results []error
	calls   int
}

func (s *scriptedCheckpointer) Checkpoint(sequenceNumber *string, subSequenceNumber *uint64) error {
	err := s.results[s.calls]
	s.calls++
	return err
}

func TestCheckpointWithRetrySucceedsAfterThrottling(t *testing.T) {
	cp := &scriptedCheckpointer{results: []error{
		&CheckpointError{Kind: ThrottlingException},
		&CheckpointError{Kind: DependencyException},
		nil,
	}}

	err := CheckpointWithRetry(cp, nil, nil, RetryOptions{MaxAttempts: 5})
	assert.Nil(t, err)
	assert.Equal(t, 3, cp.calls)
}

func TestCheckpointWithRetryStopsOnNonRetryable(t *testing.T) {
	cp := &scriptedCheckpointer{results: []error{
		&CheckpointError{Kind: ThrottlingException},
		&CheckpointError{Kind: ShutdownException},
		nil,
	}}

	err := CheckpointWithRetry(cp, nil, nil, RetryOptions{MaxAttempts: 5})
	var cpErr *CheckpointError
	assert.True(t, errors.As(err, &cpErr))
	assert.Equal(t, ShutdownException, cpErr.Kind)
	assert.Equal(t, 2, cp.calls)
}

func TestCheckpointWithRetryGivesUp(t *testing.T) {
	throttled := &CheckpointError{Kind: ThrottlingException}
	cp := &scriptedCheckpointer{results: []error{throttled, throttled, throttled, throttled}}

	err := CheckpointWithRetry(cp, nil, nil, RetryOptions{MaxAttempts: 3})
	assert.Equal(t, throttled, err)
	assert.Equal(t, 3, cp.calls)
}

func TestCheckpointWithRetryFatalError(t *testing.T) {
	broken := errors.New("input channel closed")
	cp := &scriptedCheckpointer{results: []error{broken}}

	err := CheckpointWithRetry(cp, nil, nil, RetryOptions{})
	assert.Equal(t, broken, err)
	assert.Equal(t, 1, cp.calls)
}
