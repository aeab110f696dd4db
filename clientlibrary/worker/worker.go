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
package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	chk "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/checkpoint"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/channel"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/config"
	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/metrics"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/multilang"
	par "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/partition"
	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

// DefaultApplicationName is used by Run and Tick, which take no configuration.
const DefaultApplicationName = "multilang-record-processor"

// ErrUnexpectedCheckpoint is returned when the daemon sends a checkpoint message that does not answer a
// checkpoint request.
var ErrUnexpectedCheckpoint = errors.New("received checkpoint message outside of a checkpoint request")

/**
 * Worker drives one IRecordProcessor on behalf of the MultiLangDaemon. It reads one message at a time
 * from the daemon, calls the matching record processor method and acknowledges the message with a status
 * line once the method returned. Checkpoint requests made by the record processor are exchanged on the
 * same channel before the status line.
 */
type Worker struct {
	processor kcl.IRecordProcessor
	config    *config.MultiLangConfiguration
	reader    channel.InputReader
	writer    channel.OutputWriter
	mService  metrics.MonitoringService

	sessionID   string
	shardStatus *par.ShardStatus
	log         logger.Logger

	initialized bool
}

// NewWorker constructs a Worker reading from stdin and writing to stdout.
func NewWorker(processor kcl.IRecordProcessor, cfg *config.MultiLangConfiguration) *Worker {
	mService := cfg.MonitoringService
	if mService == nil {
		// Replaces nil with noop monitor service (not emitting any metrics).
		mService = metrics.NoopMonitoringService{}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	sessionID := uuid.New().String()
	return &Worker{
		processor:   processor,
		config:      cfg,
		reader:      channel.NewStdinReader(),
		writer:      channel.NewStdoutWriter(),
		mService:    mService,
		sessionID:   sessionID,
		shardStatus: par.NewShardStatus(),
		log:         log.WithFields(logger.Fields{"sessionID": sessionID}),
	}
}

// WithReader is used to provide the daemon input for either custom implementation or unit testing.
func (w *Worker) WithReader(reader channel.InputReader) *Worker {
	w.reader = reader
	return w
}

// WithWriter is used to provide the daemon output for either custom implementation or unit testing.
func (w *Worker) WithWriter(writer channel.OutputWriter) *Worker {
	w.writer = writer
	return w
}

// SessionID identifies this record processor session in logs.
func (w *Worker) SessionID() string {
	return w.sessionID
}

// ShardStatus returns the status of the shard handled by this session.
func (w *Worker) ShardStatus() *par.ShardStatus {
	return w.shardStatus
}

// Run dispatches messages until a fatal error occurs and returns it. The error is never nil: a session
// ends when the daemon closes the channel, which is reported as channel.ErrChannelClosed.
func (w *Worker) Run() error {
	if err := w.initialize(); err != nil {
		w.log.Errorf("Failed to initialize Worker: %+v", err)
		return err
	}

	w.log.Infof("Starting monitoring service.")
	if err := w.mService.Start(); err != nil {
		w.log.Errorf("Failed to start monitoring service: %+v", err)
		return err
	}
	defer w.mService.Shutdown()

	w.log.Infof("Starting worker event loop.")
	for {
		if err := w.Tick(); err != nil {
			if errors.Is(err, channel.ErrChannelClosed) {
				w.log.Infof("MultiLangDaemon closed the channel. Exiting from worker.")
			} else {
				w.log.Errorf("Worker loop failed: %+v", err)
			}
			return err
		}
	}
}

// Tick consumes exactly one message from the daemon and writes exactly one status line for it.
// Any error is fatal for the session.
func (w *Worker) Tick() error {
	if err := w.initialize(); err != nil {
		return err
	}

	line, err := w.reader.Next()
	if err != nil {
		return fmt.Errorf("failed to read next message: %w", err)
	}

	message, err := multilang.Decode([]byte(line))
	if err != nil {
		w.log.Errorf("Failed to decode message: %+v", err)
		return err
	}

	w.log.Debugf("Received %s", message.Action())

	switch m := message.(type) {
	case *multilang.InitializeMessage:
		w.shardStatus.Initialize(m.ShardId)
		w.log = w.log.WithFields(logger.Fields{"shardID": m.ShardId})
		w.log.Infof("Initializing record processor")
		w.processor.Initialize(&kcl.InitializationInput{ShardId: m.ShardId})

	case *multilang.ProcessRecordsMessage:
		err = w.processRecords(m.Records)

	case *multilang.LeaseLostMessage:
		w.log.Infof("Lease lost")
		w.shardStatus.SetState(par.ShardLeaseLost)
		w.processor.LeaseLost(&kcl.LeaseLostInput{})
		w.mService.LeaseLost(w.shardStatus.GetID())

	case *multilang.ShardEndedMessage:
		w.log.Infof("Shard ended at %s", m.Checkpoint)
		w.shardStatus.End(par.ShardEnded, m.Checkpoint)
		err = w.withCheckpointer(func(checkpointer kcl.IRecordProcessorCheckpointer) {
			w.processor.ShardEnded(&kcl.ShardEndedInput{Checkpointer: checkpointer})
		})
		w.mService.ShardEnded(w.shardStatus.GetID())

	case *multilang.ShutdownRequestedMessage:
		w.log.Infof("Shutdown requested, last checkpoint %s", m.Checkpoint)
		w.shardStatus.End(par.ShardShutdownRequested, m.Checkpoint)
		err = w.withCheckpointer(func(checkpointer kcl.IRecordProcessorCheckpointer) {
			w.processor.ShutdownRequested(&kcl.ShutdownRequestedInput{Checkpointer: checkpointer})
		})

	case *multilang.CheckpointMessage:
		err = ErrUnexpectedCheckpoint

	default:
		err = fmt.Errorf("unsupported message %T", message)
	}

	if err != nil {
		w.log.Errorf("Failed to handle %s: %+v", message.Action(), err)
		return err
	}

	return w.acknowledge(message)
}

func (w *Worker) initialize() error {
	if w.initialized {
		return nil
	}

	err := w.mService.Init(w.config.ApplicationName, w.config.StreamName, w.config.WorkerID)
	if err != nil {
		w.log.Errorf("Failed to initialize monitoring service: %+v", err)
		return err
	}
	w.initialized = true
	return nil
}

func (w *Worker) processRecords(records []*kcl.Record) error {
	start := time.Now()
	err := w.withCheckpointer(func(checkpointer kcl.IRecordProcessorCheckpointer) {
		w.processor.ProcessRecords(&kcl.ProcessRecordsInput{
			Records:      records,
			Checkpointer: checkpointer,
		})
	})
	processedTime := time.Since(start)
	w.shardStatus.Advance(records)

	var bytes int64
	for _, r := range records {
		bytes += int64(len(r.Data))
	}
	shardID := w.shardStatus.GetID()
	w.mService.IncrRecordsProcessed(shardID, len(records))
	w.mService.IncrBytesProcessed(shardID, bytes)
	w.mService.RecordProcessRecordsTime(shardID, float64(processedTime.Milliseconds()))
	if len(records) > 0 {
		last := records[len(records)-1]
		w.mService.MillisBehindLatest(shardID, float64(time.Since(last.ApproximateArrivalTime()).Milliseconds()))
	}

	w.log.Debugf("Processed %d records in %v", len(records), processedTime)
	return err
}

// withCheckpointer hands a checkpointer to call and invalidates it once call returned.
// It returns the error that broke the channel during a checkpoint, if any.
func (w *Worker) withCheckpointer(call func(kcl.IRecordProcessorCheckpointer)) error {
	checkpointer := chk.NewCheckpointer(w.reader, w.writer).
		WithShardID(w.shardStatus.GetID()).
		WithLogger(w.log).
		WithMonitoringService(w.mService)

	call(checkpointer)
	checkpointer.Invalidate()
	return checkpointer.Err()
}

func (w *Worker) acknowledge(message multilang.Message) error {
	status, err := multilang.Encode(multilang.StatusFor(message))
	if err != nil {
		return err
	}
	if err := w.writer.Write(status); err != nil {
		return fmt.Errorf("failed to write status for %s: %w", message.Action(), err)
	}
	return nil
}
