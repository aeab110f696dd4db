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
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
)

// ErrMalformedMessage is wrapped by every decoding failure.
var ErrMalformedMessage = errors.New("malformed message")

// Wire representations. Pointers tell absent fields apart from zero values; the action
// field always comes first in encoded output.
type (
	envelope struct {
		Action *Action `json:"action"`
	}

	initializeWire struct {
		Action  Action  `json:"action"`
		ShardId *string `json:"shardId"`
	}

	recordWire struct {
		Data                        *string  `json:"data"`
		PartitionKey                *string  `json:"partitionKey"`
		SequenceNumber              *string  `json:"sequenceNumber"`
		SubSequenceNumber           *uint64  `json:"subSequenceNumber,omitempty"`
		ApproximateArrivalTimestamp *float64 `json:"approximateArrivalTimestamp"`
	}

	processRecordsWire struct {
		Action  Action        `json:"action"`
		Records []*recordWire `json:"records"`
	}

	checkpointWire struct {
		Action     Action  `json:"action"`
		Checkpoint *string `json:"checkpoint"`
		Error      *string `json:"error"`
	}

	leaseLostWire struct {
		Action Action `json:"action"`
	}

	shardCheckpointWire struct {
		Action     Action  `json:"action"`
		Checkpoint *string `json:"checkpoint"`
	}

	checkpointRequestWire struct {
		Action            Action  `json:"action"`
		SequenceNumber    *string `json:"sequenceNumber"`
		SubSequenceNumber *uint64 `json:"subSequenceNumber"`
	}

	statusWire struct {
		Action      Action  `json:"action"`
		ResponseFor *Action `json:"responseFor"`
	}
)

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedMessage, fmt.Sprintf(format, args...))
}

func peekAction(line []byte) (Action, []byte, error) {
	line = bytes.TrimSpace(line)
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return "", nil, malformed("failed to parse message action: %v", err)
	}
	if env.Action == nil {
		return "", nil, malformed("missing action")
	}
	return *env.Action, line, nil
}

// Decode parses one line received from the MultiLangDaemon.
//
// An unknown action, a missing or mistyped required field, or a record whose data is not
// valid base64 fails the whole message with an error wrapping ErrMalformedMessage.
func Decode(line []byte) (Message, error) {
	action, line, err := peekAction(line)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionInitialize:
		var w initializeWire
		if err := unmarshal(action, line, &w); err != nil {
			return nil, err
		}
		if w.ShardId == nil {
			return nil, malformed("%s: missing shardId", action)
		}
		return &InitializeMessage{ShardId: *w.ShardId}, nil

	case ActionProcessRecords:
		var w processRecordsWire
		if err := unmarshal(action, line, &w); err != nil {
			return nil, err
		}
		if w.Records == nil {
			return nil, malformed("%s: missing records", action)
		}
		records := make([]*kcl.Record, 0, len(w.Records))
		for i, rw := range w.Records {
			r, err := rw.toRecord()
			if err != nil {
				return nil, malformed("%s: record %d: %v", action, i, err)
			}
			records = append(records, r)
		}
		return &ProcessRecordsMessage{Records: records}, nil

	case ActionCheckpoint:
		var w checkpointWire
		if err := unmarshal(action, line, &w); err != nil {
			return nil, err
		}
		return &CheckpointMessage{Checkpoint: w.Checkpoint, Error: w.Error}, nil

	case ActionLeaseLost:
		var w leaseLostWire
		if err := unmarshal(action, line, &w); err != nil {
			return nil, err
		}
		return &LeaseLostMessage{}, nil

	case ActionShardEnded, ActionShutdownRequested:
		var w shardCheckpointWire
		if err := unmarshal(action, line, &w); err != nil {
			return nil, err
		}
		if w.Checkpoint == nil {
			return nil, malformed("%s: missing checkpoint", action)
		}
		if action == ActionShardEnded {
			return &ShardEndedMessage{Checkpoint: *w.Checkpoint}, nil
		}
		return &ShutdownRequestedMessage{Checkpoint: *w.Checkpoint}, nil

	default:
		return nil, malformed("unknown action %q", action)
	}
}

// DecodeRequest parses one line written by a record processor. It is the daemon side of the
// protocol and is mostly useful to drive a record processor in tests.
func DecodeRequest(line []byte) (Request, error) {
	action, line, err := peekAction(line)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionCheckpoint:
		var w checkpointRequestWire
		if err := unmarshal(action, line, &w); err != nil {
			return nil, err
		}
		return &CheckpointRequest{SequenceNumber: w.SequenceNumber, SubSequenceNumber: w.SubSequenceNumber}, nil

	case ActionStatus:
		var w statusWire
		if err := unmarshal(action, line, &w); err != nil {
			return nil, err
		}
		if w.ResponseFor == nil {
			return nil, malformed("%s: missing responseFor", action)
		}
		return &StatusResponse{ResponseFor: *w.ResponseFor}, nil

	default:
		return nil, malformed("unknown request action %q", action)
	}
}

func unmarshal(action Action, line []byte, v interface{}) error {
	if err := json.Unmarshal(line, v); err != nil {
		return malformed("%s: %v", action, err)
	}
	return nil
}

func (rw *recordWire) toRecord() (*kcl.Record, error) {
	if rw == nil {
		return nil, errors.New("null record")
	}
	switch {
	case rw.Data == nil:
		return nil, errors.New("missing data")
	case rw.PartitionKey == nil:
		return nil, errors.New("missing partitionKey")
	case rw.SequenceNumber == nil:
		return nil, errors.New("missing sequenceNumber")
	case rw.ApproximateArrivalTimestamp == nil:
		return nil, errors.New("missing approximateArrivalTimestamp")
	}

	data, err := base64.StdEncoding.DecodeString(*rw.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %v", err)
	}

	return &kcl.Record{
		Data:                        data,
		PartitionKey:                *rw.PartitionKey,
		SequenceNumber:              *rw.SequenceNumber,
		SubSequenceNumber:           rw.SubSequenceNumber,
		ApproximateArrivalTimestamp: *rw.ApproximateArrivalTimestamp,
	}, nil
}

func fromRecord(r *kcl.Record) *recordWire {
	data := base64.StdEncoding.EncodeToString(r.Data)
	partitionKey := r.PartitionKey
	sequenceNumber := r.SequenceNumber
	timestamp := r.ApproximateArrivalTimestamp
	return &recordWire{
		Data:                        &data,
		PartitionKey:                &partitionKey,
		SequenceNumber:              &sequenceNumber,
		SubSequenceNumber:           r.SubSequenceNumber,
		ApproximateArrivalTimestamp: &timestamp,
	}
}

// Encode serializes a Message or a Request into a newline terminated line.
func Encode(v interface{}) ([]byte, error) {
	var wire interface{}

	switch m := v.(type) {
	case *InitializeMessage:
		wire = &initializeWire{Action: m.Action(), ShardId: &m.ShardId}
	case *ProcessRecordsMessage:
		records := make([]*recordWire, 0, len(m.Records))
		for _, r := range m.Records {
			records = append(records, fromRecord(r))
		}
		wire = &processRecordsWire{Action: m.Action(), Records: records}
	case *CheckpointMessage:
		wire = &checkpointWire{Action: m.Action(), Checkpoint: m.Checkpoint, Error: m.Error}
	case *LeaseLostMessage:
		wire = &leaseLostWire{Action: m.Action()}
	case *ShardEndedMessage:
		wire = &shardCheckpointWire{Action: m.Action(), Checkpoint: &m.Checkpoint}
	case *ShutdownRequestedMessage:
		wire = &shardCheckpointWire{Action: m.Action(), Checkpoint: &m.Checkpoint}
	case *CheckpointRequest:
		wire = &checkpointRequestWire{Action: m.Action(), SequenceNumber: m.SequenceNumber, SubSequenceNumber: m.SubSequenceNumber}
	case *StatusResponse:
		wire = &statusWire{Action: m.Action(), ResponseFor: &m.ResponseFor}
	default:
		return nil, fmt.Errorf("cannot encode %T", v)
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}
