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
// Note: The implementation comes from https://www.mountedthoughts.com/golang-logger-interface/

package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogrusLoggerWithConfig(t *testing.T) {
	config := Configuration{
		EnableConsole:     true,
		ConsoleLevel:      Debug,
		ConsoleJSONFormat: false,
		EnableFile:        true,
		FileLevel:         Info,
		FileJSONFormat:    true,
		Filename:          filepath.Join(t.TempDir(), "kcl-multilang.log"),
	}

	log := NewLogrusLoggerWithConfig(config)

	contextLogger := log.WithFields(Fields{"shardId": "shardId-000000000000"})
	contextLogger.Debugf("Starting with logrus")
	contextLogger.Infof("Logrus is awesome")
}

func TestLogrusLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	lLogger := logrus.New()
	lLogger.SetOutput(&buf)
	lLogger.SetFormatter(&logrus.JSONFormatter{})

	log := NewLogrusLogger(lLogger)
	log.WithFields(Fields{"shardId": "shard1"}).Infof("processed %d records", 3)

	assert.Contains(t, buf.String(), `"shardId":"shard1"`)
	assert.Contains(t, buf.String(), `"msg":"processed 3 records"`)
}

func TestLogrusLoggerWithFieldsAtInit(t *testing.T) {
	var buf bytes.Buffer
	lLogger := logrus.New()
	lLogger.SetOutput(&buf)

	// adapts to Logger interface from *logrus.Entry
	log := NewLogrusLogger(lLogger.WithField("key0", "value0"))

	contextLogger := log.WithFields(Fields{"key1": "value1"})
	contextLogger.Infof("Structured logging is awesome")

	assert.Contains(t, buf.String(), "key0=value0")
	assert.Contains(t, buf.String(), "key1=value1")
}

func TestLogrusOutputWithoutWriters(t *testing.T) {
	log := NewLogrusLoggerWithConfig(Configuration{FileLevel: Error})
	// nothing is enabled, must not panic nor write to stdout
	log.Infof("dropped")
}

func TestNormalizeConfig(t *testing.T) {
	config := Configuration{MaxBackups: -1}
	NormalizeConfig(&config)

	assert.Equal(t, 100, config.MaxSizeMB)
	assert.Equal(t, 7, config.MaxAgeDays)
	assert.Equal(t, 0, config.MaxBackups)
}
