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
)

// ErrorKind classifies the error returned by the MultiLangDaemon in reply to a checkpoint request.
type ErrorKind int

const (
	// DependencyException is raised when the daemon cannot reach its lease table.
	DependencyException ErrorKind = iota + 1
	ThrottlingException
	// InvalidStateException means the checkpoint position is invalid for the shard.
	InvalidStateException
	// ShutdownException means the record processor no longer owns the shard.
	ShutdownException
	// UnexpectedResponse is a protocol violation: the daemon answered with something other than a checkpoint reply.
	UnexpectedResponse
	// Exception is any error string the daemon sent that has no dedicated kind.
	Exception
)

var kindNames = map[ErrorKind]string{
	DependencyException:   "KinesisClientLibDependencyException",
	ThrottlingException:   "ThrottlingException",
	InvalidStateException: "InvalidStateException",
	ShutdownException:     "ShutdownException",
	UnexpectedResponse:    "UnexpectedResponse",
	Exception:             "Exception",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Retryable reports whether a checkpoint that failed with this kind may succeed if attempted again.
func (k ErrorKind) Retryable() bool {
	return k == DependencyException || k == ThrottlingException
}

// CheckpointError is the recoverable result of a checkpoint request refused by the daemon.
type CheckpointError struct {
	Kind ErrorKind
	// Message holds the error string sent by the daemon when Kind is Exception.
	Message string
}

func (e *CheckpointError) Error() string {
	if e.Kind == Exception {
		return fmt.Sprintf("Exception: %q, retryable: %t", e.Message, e.Retryable())
	}
	return fmt.Sprintf("%s, retryable: %t", e.Kind, e.Retryable())
}

func (e *CheckpointError) Retryable() bool {
	return e.Kind.Retryable()
}

// ErrorFromString maps the error field of a checkpoint reply to a CheckpointError.
// Unknown strings become an Exception carrying the string.
func ErrorFromString(s string) *CheckpointError {
	switch s {
	case "KinesisClientLibDependencyException":
		return &CheckpointError{Kind: DependencyException}
	case "ThrottlingException":
		return &CheckpointError{Kind: ThrottlingException}
	case "InvalidStateException":
		return &CheckpointError{Kind: InvalidStateException}
	case "ShutdownException":
		return &CheckpointError{Kind: ShutdownException}
	default:
		return &CheckpointError{Kind: Exception, Message: s}
	}
}

// IsRetryable reports whether err is, or wraps, a retryable CheckpointError.
func IsRetryable(err error) bool {
	var cpErr *CheckpointError
	if errors.As(err, &cpErr) {
		return cpErr.Retryable()
	}
	return false
}
