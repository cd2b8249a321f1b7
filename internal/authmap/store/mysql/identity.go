// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package mysql

import (
	"context"

	"github.com/marmotedu/errors"
	"gorm.io/gorm"

	"github.com/marmotedu/authmap/internal/authmap/store"
	"github.com/marmotedu/authmap/internal/pkg/code"
)

// The exporter issues two logical reads: one row per identity, and one
// role grant result set per grant kind. NULL columns are coalesced to
// empty strings at the boundary so no downstream code sees NULLs.
const (
	identityQuery = `
SELECT c.id,
       COALESCE(c.username, '') AS login,
       COALESCE(c.forename, '') AS forename,
       COALESCE(c.surname, '')  AS surname,
       COALESCE(c.dn, '')       AS dn,
       COALESCE(c.passwd, '')   AS passwd
FROM contact c`

	siteGrantQuery = `
SELECT sr.contact             AS identity_id,
       COALESCE(r.title, '')  AS role,
       COALESCE(s.name, '')   AS entity
FROM site_responsibility sr
JOIN role r ON r.id = sr.role
JOIN site s ON s.id = sr.site`

	groupGrantQuery = `
SELECT gr.contact             AS identity_id,
       COALESCE(r.title, '')  AS role,
       COALESCE(g.name, '')   AS entity
FROM group_responsibility gr
JOIN role r ON r.id = gr.role
JOIN user_group g ON g.id = gr.user_group`
)

type identities struct {
	db *gorm.DB
}

func newIdentities(ds *datastore) *identities {
	return &identities{ds.db}
}

// List returns one raw row per identity in the store.
func (i *identities) List(ctx context.Context) ([]store.IdentityRow, error) {
	var rows []store.IdentityRow
	if err := i.db.WithContext(ctx).Raw(identityQuery).Scan(&rows).Error; err != nil {
		return nil, errors.WithCode(code.ErrDatabase, "list identities: %s", err.Error())
	}

	return rows, nil
}

// ListSiteGrants returns the site-level role grants.
func (i *identities) ListSiteGrants(ctx context.Context) ([]store.GrantRow, error) {
	return i.listGrants(ctx, siteGrantQuery, store.GrantSite)
}

// ListGroupGrants returns the group-level role grants.
func (i *identities) ListGroupGrants(ctx context.Context) ([]store.GrantRow, error) {
	return i.listGrants(ctx, groupGrantQuery, store.GrantGroup)
}

func (i *identities) listGrants(ctx context.Context, query string, kind store.GrantKind) ([]store.GrantRow, error) {
	var rows []store.GrantRow
	if err := i.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, errors.WithCode(code.ErrDatabase, "list %s grants: %s", kind, err.Error())
	}

	for idx := range rows {
		rows[idx].Kind = kind
	}

	return rows, nil
}
