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
package worker

import (
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/channel"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/config"
	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
)

// Run drives processor over stdin and stdout until the session ends and returns the error that ended it.
func Run(processor kcl.IRecordProcessor) error {
	return NewWorker(processor, config.NewMultiLangConfig(DefaultApplicationName)).Run()
}

// Tick handles a single message read from reader, writing checkpoint requests and the status to writer.
func Tick(processor kcl.IRecordProcessor, reader channel.InputReader, writer channel.OutputWriter) error {
	return NewWorker(processor, config.NewMultiLangConfig(DefaultApplicationName)).
		WithReader(reader).
		WithWriter(writer).
		Tick()
}
