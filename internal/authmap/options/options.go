// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package options contains flags and options for initializing the authmap
// exporter.
package options

import (
	cliflag "github.com/marmotedu/component-base/pkg/cli/flag"
	"github.com/marmotedu/component-base/pkg/json"
	"github.com/marmotedu/log"

	genericoptions "github.com/marmotedu/authmap/internal/pkg/options"
)

// Options runs an authmap exporter.
type Options struct {
	MySQLOptions  *genericoptions.MySQLOptions `json:"mysql"  mapstructure:"mysql"`
	ExportOptions *ExportOptions               `json:"export" mapstructure:"export"`
	Log           *log.Options                 `json:"log"    mapstructure:"log"`
}

// NewOptions creates a new Options object with default parameters.
func NewOptions() *Options {
	o := Options{
		MySQLOptions:  genericoptions.NewMySQLOptions(),
		ExportOptions: NewExportOptions(),
		Log:           log.NewOptions(),
	}

	return &o
}

// Flags returns flags for the exporter grouped by section name.
func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.MySQLOptions.AddFlags(fss.FlagSet("mysql"))
	o.ExportOptions.AddFlags(fss.FlagSet("export"))
	o.Log.AddFlags(fss.FlagSet("logs"))

	return fss
}

// Validate checks Options and return a slice of found errs.
func (o *Options) Validate() []error {
	var errs []error

	errs = append(errs, o.MySQLOptions.Validate()...)
	errs = append(errs, o.ExportOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}
