// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmotedu/authmap/internal/authmap/snapshot"
	"github.com/marmotedu/authmap/internal/authmap/store"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Data Manager", "data-manager"},
		{"T1_US_FNAL", "t1-us-fnal"},
		{"Global Team", "global-team"},
		{"a  +  b", "a-b"},
		{"already-fine", "already-fine"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "in=%q", tt.in)
	}
}

func newRecord(id int64) *snapshot.Record {
	return &snapshot.Record{ID: id, Roles: map[string][]string{}}
}

func TestAttachGroupsByNormalizedTitle(t *testing.T) {
	record := newRecord(7)
	agg := New([]*snapshot.Record{record})

	require.True(t, agg.Attach(store.GrantRow{
		Kind: store.GrantSite, IdentityID: 7, Role: "Data Manager", Entity: "T1_US_FNAL",
	}))
	require.True(t, agg.Attach(store.GrantRow{
		Kind: store.GrantGroup, IdentityID: 7, Role: "data manager", Entity: "Global Team",
	}))

	require.Contains(t, record.Roles, "data-manager")
	assert.ElementsMatch(t,
		[]string{"site:t1-us-fnal", "group:global-team"},
		record.Roles["data-manager"])
}

func TestAttachDropsOrphanGrant(t *testing.T) {
	record := newRecord(1)
	agg := New([]*snapshot.Record{record})

	attached := agg.Attach(store.GrantRow{
		Kind: store.GrantSite, IdentityID: 42, Role: "Admin", Entity: "Somewhere",
	})

	assert.False(t, attached)
	assert.Empty(t, record.Roles)
}

func TestAttachKeepsDuplicates(t *testing.T) {
	// Duplicate grant strings are tolerated here; serialization is the
	// stage that deduplicates.
	record := newRecord(3)
	agg := New([]*snapshot.Record{record})

	grant := store.GrantRow{Kind: store.GrantSite, IdentityID: 3, Role: "Operator", Entity: "T0_CH_CERN"}
	require.True(t, agg.Attach(grant))
	require.True(t, agg.Attach(grant))

	assert.Equal(t, []string{"site:t0-ch-cern", "site:t0-ch-cern"}, record.Roles["operator"])
}
