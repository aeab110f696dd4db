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
	"bufio"
	"errors"
	"io"
	"os"
)

// ErrChannelClosed is returned by InputReader.Next once the daemon closed its end of the channel.
var ErrChannelClosed = errors.New("input channel closed")

// InputReader yields the lines sent by the MultiLangDaemon, one per call. Next blocks until a
// complete line is available.
type InputReader interface {
	Next() (string, error)
}

// OutputWriter delivers one encoded line to the MultiLangDaemon.
type OutputWriter interface {
	Write(payload []byte) error
}

// LineReader reads newline terminated lines of any length.
type LineReader struct {
	in *bufio.Reader
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{in: bufio.NewReader(r)}
}

// NewStdinReader reads the lines the MultiLangDaemon writes to the process stdin.
func NewStdinReader() *LineReader {
	return NewLineReader(os.Stdin)
}

// Next returns the next line including its terminator. A final line without terminator is
// returned as is; afterwards Next returns ErrChannelClosed.
func (l *LineReader) Next() (string, error) {
	line, err := l.in.ReadString('\n')
	if err == io.EOF {
		if len(line) > 0 {
			return line, nil
		}
		return "", ErrChannelClosed
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// LineWriter writes and flushes each payload immediately, the daemon waits for every line.
type LineWriter struct {
	out *bufio.Writer
}

// NewLineWriter wraps w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{out: bufio.NewWriter(w)}
}

// NewStdoutWriter writes to the process stdout, which the MultiLangDaemon reads.
func NewStdoutWriter() *LineWriter {
	return NewLineWriter(os.Stdout)
}

func (l *LineWriter) Write(payload []byte) error {
	if _, err := l.out.Write(payload); err != nil {
		return err
	}
	return l.out.Flush()
}
