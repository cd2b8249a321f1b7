// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package authmap does all the work necessary to run one export cycle of
// the sanitized identity snapshot.
package authmap

import (
	"github.com/marmotedu/log"

	"github.com/marmotedu/authmap/internal/authmap/config"
	"github.com/marmotedu/authmap/internal/authmap/options"
	"github.com/marmotedu/authmap/pkg/app"
)

const commandDesc = `The authmap exporter reads user identities and role grants from the
relational identity store, sanitizes them and publishes a deterministic
JSON snapshot consumed by the authentication frontends.

The exporter is meant to be run as a scheduled job. Keeping it out of the
serving path means a transient outage of the identity store can never
destabilize the consumers; they simply keep the previous snapshot and
re-read the file when it changes.`

// NewApp creates an App object with default parameters.
func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	application := app.NewApp("Authmap Exporter",
		basename,
		app.WithOptions(opts),
		app.WithDescription(commandDesc),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)

	return application
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		log.Init(opts.Log)
		defer log.Flush()

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}

		return Run(cfg)
	}
}
