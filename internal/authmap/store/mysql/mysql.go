// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package mysql implements the identity store reads against mysql with
// gorm.
package mysql

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/marmotedu/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marmotedu/authmap/internal/authmap/store"
	"github.com/marmotedu/authmap/internal/pkg/code"
	genericoptions "github.com/marmotedu/authmap/internal/pkg/options"
)

type datastore struct {
	db *gorm.DB
}

func (ds *datastore) Identities() store.IdentityStore {
	return newIdentities(ds)
}

func (ds *datastore) Close() error {
	db, err := ds.db.DB()
	if err != nil {
		return errors.Wrap(err, "get gorm db instance failed")
	}

	return db.Close()
}

var (
	mysqlFactory store.Factory
	once         sync.Once
)

// GetMySQLFactoryOr create mysql factory with the given config.
func GetMySQLFactoryOr(opts *genericoptions.MySQLOptions) (store.Factory, error) {
	if opts == nil && mysqlFactory == nil {
		return nil, fmt.Errorf("failed to get mysql store factory")
	}

	var err error
	var dbIns *gorm.DB
	once.Do(func() {
		dsn := fmt.Sprintf(`%s:%s@tcp(%s)/%s?charset=utf8&parseTime=%t&loc=%s`,
			opts.Username,
			opts.Password,
			opts.Host,
			opts.Database,
			true,
			"Local")
		dbIns, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.LogLevel(opts.LogLevel)),
		})
		if err != nil {
			return
		}

		var sqlDB *sql.DB
		sqlDB, err = dbIns.DB()
		if err != nil {
			return
		}

		sqlDB.SetMaxOpenConns(opts.MaxOpenConnections)
		sqlDB.SetConnMaxLifetime(opts.MaxConnectionLifeTime)
		sqlDB.SetMaxIdleConns(opts.MaxIdleConnections)

		mysqlFactory = &datastore{dbIns}
	})

	if mysqlFactory == nil || err != nil {
		return nil, errors.WithCode(code.ErrConnect, "failed to get mysql store factory, error: %v", err)
	}

	return mysqlFactory, nil
}
