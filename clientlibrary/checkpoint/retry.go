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
	"math"
	"time"

	"github.com/matryer/try"

	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseBackoff = 100 * time.Millisecond
)

// RetryOptions bounds the retries done by CheckpointWithRetry.
type RetryOptions struct {
	// MaxAttempts counts the first attempt. It is capped by try.MaxRetries.
	MaxAttempts int
	// BaseBackoff is doubled after every failed attempt.
	BaseBackoff time.Duration
}

// CheckpointWithRetry checkpoints and retries the attempt while the daemon answers with a retryable error.
// Non-retryable errors are returned at once. The last error is returned when the attempts run out.
func CheckpointWithRetry(checkpointer kcl.IRecordProcessorCheckpointer, sequenceNumber *string, subSequenceNumber *uint64, opts RetryOptions) error {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if maxAttempts > try.MaxRetries {
		maxAttempts = try.MaxRetries
	}
	backoff := opts.BaseBackoff
	if backoff < 0 {
		backoff = 0
	}

	return try.Do(func(attempt int) (bool, error) {
		err := checkpointer.Checkpoint(sequenceNumber, subSequenceNumber)
		if err != nil && IsRetryable(err) && attempt < maxAttempts {
			time.Sleep(time.Duration(math.Exp2(float64(attempt-1))) * backoff)
			return true, err
		}
		return false, err
	})
}
