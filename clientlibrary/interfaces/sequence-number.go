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
package interfaces

import (
	"strings"
)

// ExtendedSequenceNumber identifies a position within a shard: the sequence number plus the
// sub-sequence number of a de-aggregated record.
type ExtendedSequenceNumber struct {
	SequenceNumber    string
	SubSequenceNumber *uint64
}

// Compare orders two positions by sequence number, then sub-sequence number.
// A missing sub-sequence number sorts before any present one.
// Returns -1, 0 or +1.
func (e ExtendedSequenceNumber) Compare(other ExtendedSequenceNumber) int {
	if c := compareDecimal(e.SequenceNumber, other.SequenceNumber); c != 0 {
		return c
	}

	switch {
	case e.SubSequenceNumber == nil && other.SubSequenceNumber == nil:
		return 0
	case e.SubSequenceNumber == nil:
		return -1
	case other.SubSequenceNumber == nil:
		return 1
	case *e.SubSequenceNumber < *other.SubSequenceNumber:
		return -1
	case *e.SubSequenceNumber > *other.SubSequenceNumber:
		return 1
	}
	return 0
}

// compareDecimal compares unsigned decimal strings of arbitrary length.
func compareDecimal(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
