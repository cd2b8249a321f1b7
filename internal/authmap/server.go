// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package authmap

import (
	"context"
	"time"

	"github.com/marmotedu/log"

	"github.com/marmotedu/authmap/internal/authmap/aggregate"
	"github.com/marmotedu/authmap/internal/authmap/config"
	"github.com/marmotedu/authmap/internal/authmap/sanitize"
	"github.com/marmotedu/authmap/internal/authmap/snapshot"
	"github.com/marmotedu/authmap/internal/authmap/store"
	"github.com/marmotedu/authmap/internal/authmap/store/mysql"
)

type exportServer struct {
	store    store.Factory
	output   string
	verbose  bool
	timeout  time.Duration
	settings snapshot.Settings
}

// preparedExportServer is a private wrapper that enforces a call of
// PrepareRun() before Run can be invoked.
type preparedExportServer struct {
	*exportServer
}

func createExportServer(cfg *config.Config) (*exportServer, error) {
	storeIns, err := mysql.GetMySQLFactoryOr(cfg.MySQLOptions)
	if err != nil {
		return nil, err
	}
	store.SetClient(storeIns)

	return &exportServer{
		store:    storeIns,
		output:   cfg.ExportOptions.Output,
		verbose:  cfg.ExportOptions.Verbose,
		timeout:  cfg.ExportOptions.Timeout,
		settings: snapshot.CurrentSettings(),
	}, nil
}

// PrepareRun arms the wall-clock watchdog. The identity store query can
// hang below the driver, so cooperative cancellation is not enough: the
// watchdog kills the whole process.
func (s *exportServer) PrepareRun() preparedExportServer {
	if s.timeout > 0 {
		timeout := s.timeout
		time.AfterFunc(timeout, func() {
			log.Fatalf("watchdog: export run exceeded %v, aborting", timeout)
		})
	}

	return preparedExportServer{s}
}

// Run executes one export cycle: fetch, sanitize, aggregate, serialize,
// publish.
func (s preparedExportServer) Run() error {
	ctx := context.Background()

	rows, err := s.store.Identities().List(ctx)
	if err != nil {
		return err
	}

	records := make([]*snapshot.Record, 0, len(rows))
	for _, row := range rows {
		record, reason := sanitize.Sanitize(row)
		if record == nil {
			if s.verbose {
				log.Infof("dropping %s identity id=%d login=%q dn=%q forename=%q surname=%q",
					reason, row.ID, row.Login, row.DN, row.Forename, row.Surname)
			}

			continue
		}
		if reason == sanitize.ReasonLocked && s.verbose {
			log.Infof("locking identity id=%d login=%q: empty credential", row.ID, row.Login)
		}
		records = append(records, record)
	}

	if err := s.aggregateGrants(ctx, records); err != nil {
		return err
	}

	content, err := snapshot.Marshal(records)
	if err != nil {
		return err
	}

	return snapshot.NewPublisher(s.output, s.settings, s.verbose).Publish(content)
}

func (s *exportServer) aggregateGrants(ctx context.Context, records []*snapshot.Record) error {
	siteGrants, err := s.store.Identities().ListSiteGrants(ctx)
	if err != nil {
		return err
	}

	groupGrants, err := s.store.Identities().ListGroupGrants(ctx)
	if err != nil {
		return err
	}

	agg := aggregate.New(records)
	for _, grant := range append(siteGrants, groupGrants...) {
		if !agg.Attach(grant) && s.verbose {
			log.Infof("dropping %s grant %q on %q: no retained identity id=%d",
				grant.Kind, grant.Role, grant.Entity, grant.IdentityID)
		}
	}

	return nil
}

// Close releases the store connection.
func (s *exportServer) Close() {
	if s.store == nil {
		return
	}

	if err := s.store.Close(); err != nil {
		log.Warnf("close identity store failed: %s", err.Error())
	}
}
