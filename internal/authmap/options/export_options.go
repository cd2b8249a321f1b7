// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ExportOptions defines options specific to one export run.
type ExportOptions struct {
	Output  string        `json:"output"  mapstructure:"output"`
	Verbose bool          `json:"verbose" mapstructure:"verbose"`
	Quiet   bool          `json:"quiet"   mapstructure:"quiet"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewExportOptions creates an ExportOptions object with default
// parameters.
func NewExportOptions() *ExportOptions {
	return &ExportOptions{
		Output:  "",
		Verbose: false,
		Quiet:   false,
		Timeout: 60 * time.Second,
	}
}

// Validate verifies flags passed to ExportOptions.
func (o *ExportOptions) Validate() []error {
	errs := []error{}

	if o.Output == "" {
		errs = append(errs, fmt.Errorf("--export.output is required"))
	}
	if o.Timeout < 0 {
		errs = append(errs, fmt.Errorf("--export.timeout must not be negative"))
	}

	return errs
}

// AddFlags adds flags related to the export run to the specified FlagSet.
func (o *ExportOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Output, "export.output", o.Output, ""+
		"Path of the snapshot file to publish. The file is replaced atomically and only when its contents change.")

	fs.BoolVar(&o.Verbose, "export.verbose", o.Verbose, ""+
		"Report per-record sanitizer decisions and publish progress.")

	fs.BoolVar(&o.Quiet, "export.quiet", o.Quiet, ""+
		"Treat an unreachable identity store as a silent no-op run instead of a failure.")

	fs.DurationVar(&o.Timeout, "export.timeout", o.Timeout, ""+
		"Wall-clock watchdog for the whole run. A hung identity store query aborts the process. 0 disables the watchdog.")
}
