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

// MemoryReader is an in-memory InputReader serving queued lines in order.
type MemoryReader struct {
	lines []string
}

// NewMemoryReader queues the given lines.
func NewMemoryReader(lines ...string) *MemoryReader {
	return &MemoryReader{lines: lines}
}

// AddInput queues one more line.
func (m *MemoryReader) AddInput(line string) {
	m.lines = append(m.lines, line)
}

// Remaining returns the number of lines not read yet.
func (m *MemoryReader) Remaining() int {
	return len(m.lines)
}

func (m *MemoryReader) Next() (string, error) {
	if len(m.lines) == 0 {
		return "", ErrChannelClosed
	}
	line := m.lines[0]
	m.lines = m.lines[1:]
	return line, nil
}

// MemoryWriter is an in-memory OutputWriter recording every payload.
type MemoryWriter struct {
	Outputs []string
}

func (m *MemoryWriter) Write(payload []byte) error {
	m.Outputs = append(m.Outputs, string(payload))
	return nil
}
