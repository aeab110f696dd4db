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
package channel

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineReader(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	reader := NewLineReader(strings.NewReader("{\"action\":\"leaseLost\"}\n" + long + "\nlast"))

	line, err := reader.Next()
	assert.Nil(t, err)
	assert.Equal(t, "{\"action\":\"leaseLost\"}\n", line)

	line, err = reader.Next()
	assert.Nil(t, err)
	assert.Equal(t, long+"\n", line)

	line, err = reader.Next()
	assert.Nil(t, err)
	assert.Equal(t, "last", line)

	_, err = reader.Next()
	assert.Equal(t, ErrChannelClosed, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestLineReaderError(t *testing.T) {
	_, err := NewLineReader(failingReader{}).Next()
	assert.EqualError(t, err, "broken pipe")
}

func TestLineWriterFlushesEachWrite(t *testing.T) {
	var buf bytes.Buffer
	writer := NewLineWriter(&buf)

	assert.Nil(t, writer.Write([]byte("{\"action\":\"status\",\"responseFor\":\"leaseLost\"}\n")))
	assert.Equal(t, "{\"action\":\"status\",\"responseFor\":\"leaseLost\"}\n", buf.String())
}

func TestMemoryChannel(t *testing.T) {
	reader := NewMemoryReader("a")
	reader.AddInput("b")
	assert.Equal(t, 2, reader.Remaining())

	for _, want := range []string{"a", "b"} {
		line, err := reader.Next()
		assert.Nil(t, err)
		assert.Equal(t, want, line)
	}
	_, err := reader.Next()
	assert.Equal(t, ErrChannelClosed, err)

	writer := &MemoryWriter{}
	assert.Nil(t, writer.Write([]byte("x\n")))
	assert.Equal(t, []string{"x\n"}, writer.Outputs)
}
