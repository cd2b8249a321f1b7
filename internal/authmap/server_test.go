// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package authmap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmotedu/authmap/internal/authmap/snapshot"
	"github.com/marmotedu/authmap/internal/authmap/store"
)

type fakeIdentityStore struct {
	identities  []store.IdentityRow
	siteGrants  []store.GrantRow
	groupGrants []store.GrantRow
	err         error
}

func (f *fakeIdentityStore) List(ctx context.Context) ([]store.IdentityRow, error) {
	return f.identities, f.err
}

func (f *fakeIdentityStore) ListSiteGrants(ctx context.Context) ([]store.GrantRow, error) {
	return f.siteGrants, f.err
}

func (f *fakeIdentityStore) ListGroupGrants(ctx context.Context) ([]store.GrantRow, error) {
	return f.groupGrants, f.err
}

type fakeFactory struct {
	identities fakeIdentityStore
}

func (f *fakeFactory) Identities() store.IdentityStore { return &f.identities }
func (f *fakeFactory) Close() error                    { return nil }

func newTestServer(t *testing.T, factory store.Factory) (*exportServer, string) {
	t.Helper()
	output := filepath.Join(t.TempDir(), "users.json")

	return &exportServer{
		store:    factory,
		output:   output,
		settings: snapshot.CurrentSettings(),
	}, output
}

func TestRunPublishesSanitizedSnapshot(t *testing.T) {
	factory := &fakeFactory{identities: fakeIdentityStore{
		identities: []store.IdentityRow{
			{ID: 9, Login: " Nine ", Forename: "Nina", Surname: "Nine", Passwd: "hash"},
			{ID: 2, Login: "two", Passwd: ""},
			{ID: 5, Login: "five", Passwd: "*Removed account"},
		},
		siteGrants: []store.GrantRow{
			{Kind: store.GrantSite, IdentityID: 9, Role: "Data Manager", Entity: "T1_US_FNAL"},
			// orphan: identity 5 was deactivated
			{Kind: store.GrantSite, IdentityID: 5, Role: "Admin", Entity: "T2_XX"},
		},
		groupGrants: []store.GrantRow{
			{Kind: store.GrantGroup, IdentityID: 9, Role: "data manager", Entity: "Global Team"},
		},
	}}

	server, output := newTestServer(t, factory)
	require.NoError(t, server.PrepareRun().Run())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	text := string(data)

	// Deactivated identity 5 and its grant are gone entirely.
	assert.NotContains(t, text, `"five"`)
	assert.NotContains(t, text, "t2-xx")

	// Ascending id order: 2 before 9.
	assert.Less(t, indexOf(t, text, `"LOGIN":"two"`), indexOf(t, text, `"LOGIN":"nine"`))

	// Empty credential became the lock sentinel.
	assert.Contains(t, text, `"LOGIN":"two","NAME":"","PASSWD":"*"`)

	// Both grant kinds merged under one normalized title, sorted.
	assert.Contains(t, text, `"ROLES":{"data-manager":["group:global-team","site:t1-us-fnal"]}`)
}

func TestRunIsStableAcrossRuns(t *testing.T) {
	factory := &fakeFactory{identities: fakeIdentityStore{
		identities: []store.IdentityRow{{ID: 1, Login: "alice", Passwd: "hash"}},
	}}

	server, output := newTestServer(t, factory)
	require.NoError(t, server.PrepareRun().Run())
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	require.NoError(t, server.PrepareRun().Run())
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunPropagatesStoreErrors(t *testing.T) {
	factory := &fakeFactory{identities: fakeIdentityStore{err: assert.AnError}}

	server, _ := newTestServer(t, factory)
	assert.Error(t, server.PrepareRun().Run())
}

func indexOf(t *testing.T, text, sub string) int {
	t.Helper()
	idx := strings.Index(text, sub)
	require.NotEqual(t, -1, idx, "%q not in output", sub)

	return idx
}
