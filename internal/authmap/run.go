// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package authmap

import (
	"github.com/marmotedu/errors"
	"github.com/marmotedu/log"

	"github.com/marmotedu/authmap/internal/authmap/config"
	"github.com/marmotedu/authmap/internal/pkg/code"
)

// Run runs the specified exporter. Unlike the servers in this family this
// is a batch job: it performs exactly one extract-sanitize-publish cycle
// and returns.
func Run(cfg *config.Config) error {
	server, err := createExportServer(cfg)
	if err != nil {
		// In quiet mode an unreachable identity store is a silent no-op
		// run, so transient outages do not flap exit-code monitoring.
		if cfg.ExportOptions.Quiet && errors.IsCode(err, code.ErrConnect) {
			log.Debugf("identity store unreachable, skipping this run: %v", err)

			return nil
		}

		return err
	}
	defer server.Close()

	return server.PrepareRun().Run()
}
