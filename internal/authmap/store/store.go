// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package store defines the read contract against the identity store and
// the typed row shapes delivered at the fetch boundary. Everything
// downstream of this package operates on typed data only.
package store

import "context"

// GrantKind tells which scope a role grant was issued in.
type GrantKind string

// The two grant kinds delivered by the identity store.
const (
	GrantSite  GrantKind = "site"
	GrantGroup GrantKind = "group"
)

// IdentityRow is one raw identity tuple as delivered by the store, before
// any sanitization. Absent columns arrive as empty strings.
type IdentityRow struct {
	ID       int64  `gorm:"column:id"`
	Login    string `gorm:"column:login"`
	Forename string `gorm:"column:forename"`
	Surname  string `gorm:"column:surname"`
	DN       string `gorm:"column:dn"`
	Passwd   string `gorm:"column:passwd"`
}

// GrantRow is one raw role grant tuple. Kind is fixed per query, not read
// from the store.
type GrantRow struct {
	Kind       GrantKind `gorm:"-"`
	IdentityID int64     `gorm:"column:identity_id"`
	Role       string    `gorm:"column:role"`
	Entity     string    `gorm:"column:entity"`
}

// IdentityStore defines the identity reads the exporter performs.
type IdentityStore interface {
	List(ctx context.Context) ([]IdentityRow, error)
	ListSiteGrants(ctx context.Context) ([]GrantRow, error)
	ListGroupGrants(ctx context.Context) ([]GrantRow, error)
}

// Factory defines the authmap storage interface.
type Factory interface {
	Identities() IdentityStore
	Close() error
}

var client Factory

// Client return the store client instance.
func Client() Factory {
	return client
}

// SetClient set the authmap store client.
func SetClient(factory Factory) {
	client = factory
}
