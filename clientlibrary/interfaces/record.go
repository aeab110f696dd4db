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
	"encoding/json"
	"math"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	ks "github.com/aws/aws-sdk-go/service/kinesis"
)

// Record is one stream record as delivered by the MultiLangDaemon.
type Record struct {
	// Data is the raw record payload.
	Data []byte

	PartitionKey string

	// SequenceNumber is a decimal string that does not fit in 64 bits.
	SequenceNumber string

	// SubSequenceNumber is only set for records de-aggregated from a KPL aggregated record.
	SubSequenceNumber *uint64

	// ApproximateArrivalTimestamp in epoch milliseconds.
	ApproximateArrivalTimestamp float64
}

// ApproximateArrivalTime converts ApproximateArrivalTimestamp to a time.Time.
func (r *Record) ApproximateArrivalTime() time.Time {
	sec, frac := math.Modf(r.ApproximateArrivalTimestamp / 1000)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// ExtendedSequenceNumber returns the position of the record in its shard.
func (r *Record) ExtendedSequenceNumber() ExtendedSequenceNumber {
	return ExtendedSequenceNumber{
		SequenceNumber:    r.SequenceNumber,
		SubSequenceNumber: r.SubSequenceNumber,
	}
}

// JSON unmarshals the record payload into v.
func (r *Record) JSON(v interface{}) error {
	return json.Unmarshal(r.Data, v)
}

// ToKinesisRecord converts the record to the aws-sdk-go Kinesis record type, for code written
// against the native KCL record processor.
func (r *Record) ToKinesisRecord() *ks.Record {
	return &ks.Record{
		Data:                        r.Data,
		PartitionKey:                aws.String(r.PartitionKey),
		SequenceNumber:              aws.String(r.SequenceNumber),
		ApproximateArrivalTimestamp: aws.Time(r.ApproximateArrivalTime()),
	}
}
