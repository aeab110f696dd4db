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
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/channel"
	chk "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/checkpoint"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/config"
	"github.com/vmware/vmware-go-kcl-multilang/clientlibrary/worker"
	"github.com/vmware/vmware-go-kcl-multilang/logger"
)

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sample-consumer",
		Short: "Sample record processor for the KCL MultiLangDaemon",
		Long: "sample-consumer is started by the MultiLangDaemon and talks to it over stdin and stdout.\n" +
			"Settings are read from --config and KCL_MULTILANG__ environment variables.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileConfig, err := config.Load(configPath)
			if err != nil {
				return err
			}

			cfg := fileConfig.Build()
			consumer := newSampleConsumer(cfg.Logger, chk.RetryOptions{
				MaxAttempts: cfg.CheckpointRetries,
				BaseBackoff: cfg.CheckpointBackoff(),
			})

			w := worker.NewWorker(consumer, cfg)
			cfg.Logger.Infof("Starting record processor session %s", w.SessionID())
			err = w.Run()
			if errors.Is(err, channel.ErrChannelClosed) {
				cfg.Logger.Infof("Record processor session %s ended", w.SessionID())
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sample-consumer.yaml", "path of the YAML configuration file")
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// stdout belongs to the daemon
		logger.GetDefaultLogger().Errorf("sample-consumer stopped: %v", err)
		os.Exit(1)
	}
}
