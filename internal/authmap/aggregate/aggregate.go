// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package aggregate attaches normalized role grants to retained identity
// records.
package aggregate

import (
	"regexp"
	"strings"

	"github.com/marmotedu/authmap/internal/authmap/snapshot"
	"github.com/marmotedu/authmap/internal/authmap/store"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases s and collapses every run of characters outside
// [a-z0-9] to a single hyphen.
func Slug(s string) string {
	return slugRegex.ReplaceAllString(strings.ToLower(s), "-")
}

// Aggregator groups role grants on identity records by internal id.
type Aggregator struct {
	byID map[int64]*snapshot.Record
}

// New builds an Aggregator over the retained records. The records are
// mutated in place as grants are attached.
func New(records []*snapshot.Record) *Aggregator {
	byID := make(map[int64]*snapshot.Record, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	return &Aggregator{byID: byID}
}

// Attach appends the grant string "<kind>:<entity>" under the normalized
// role title of the matching record. Grants whose identity was filtered
// out earlier, or never existed, are dropped; that is expected and not a
// failure. Duplicates are tolerated here, serialization deduplicates.
func (a *Aggregator) Attach(grant store.GrantRow) bool {
	record, ok := a.byID[grant.IdentityID]
	if !ok {
		return false
	}

	role := Slug(grant.Role)
	record.Roles[role] = append(record.Roles[role], string(grant.Kind)+":"+Slug(grant.Entity))

	return true
}
