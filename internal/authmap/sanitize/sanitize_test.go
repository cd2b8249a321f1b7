// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmotedu/authmap/internal/authmap/store"
)

func TestNormalizeLogin(t *testing.T) {
	assert.Equal(t, "foo.bar", normalizeLogin(" Foo.Bar "))
	assert.Equal(t, "", normalizeLogin("   "))
}

func TestNormalizeDN(t *testing.T) {
	tests := []struct {
		name string
		dn   string
		want string
	}{
		{"digit only is cleared", "123456", ""},
		{"unknown placeholder is cleared", "UNKNOWN", ""},
		{"unknown placeholder with slash is cleared", "/unknown subject", ""},
		{"real subject is kept", "/O=Org/CN=Jane Doe", "/O=Org/CN=Jane Doe"},
		{"surrounding whitespace is trimmed", "  /O=Org/CN=Jane Doe ", "/O=Org/CN=Jane Doe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDN(tt.dn))
		})
	}
}

func TestIsWellFormedDN(t *testing.T) {
	tests := []struct {
		dn   string
		want bool
	}{
		{"/O=Org/CN=Jane Doe", true},
		{"/C=CH/O=Org/CN=Jane Doe", true},
		{"/DC=org/DC=example/CN=svc", true},
		{"/O=Org/CN=", false},
		{"/CN=Jane Doe", false},
		{"O=Org/CN=Jane", false},
		{"/O=Org/CN=a/b", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isWellFormedDN(tt.dn), "dn=%q", tt.dn)
	}
}

func TestIsValidLogin(t *testing.T) {
	tests := []struct {
		login string
		want  bool
	}{
		{"alice", true},
		{"a_1", true},
		{"alice.nocern", true},
		{"bob.notcms", true},
		{"svc@host.org", true},
		{"svc.robot@sub.host.org", true},
		// The empty alternative is deliberately accepted; known
		// permissive upstream behavior.
		{"", true},
		{"foo.bar", false},
		{"Alice", false},
		{"svc@host.toolong", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidLogin(tt.login), "login=%q", tt.login)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		row    store.IdentityRow
		reason Reason
	}{
		{
			name:   "plain account is kept",
			row:    store.IdentityRow{ID: 1, Login: "alice", Forename: "Alice", Surname: "Doe", Passwd: "x"},
			reason: ReasonKept,
		},
		{
			name:   "empty credential locks the account",
			row:    store.IdentityRow{ID: 2, Login: "bob", Passwd: ""},
			reason: ReasonLocked,
		},
		{
			name:   "lock sentinel deactivates a password account",
			row:    store.IdentityRow{ID: 3, Login: "alice", Passwd: "*"},
			reason: ReasonDeactivated,
		},
		{
			name:   "removed marker deactivates",
			row:    store.IdentityRow{ID: 4, Login: "carol", Passwd: "Removed_2019"},
			reason: ReasonDeactivated,
		},
		{
			name: "service account survives the lock sentinel",
			row: store.IdentityRow{
				ID: 5, Login: "svc@host.org", DN: "/O=Org/CN=svc robot", Passwd: "*",
			},
			reason: ReasonKept,
		},
		{
			name:   "control character anywhere is unsafe",
			row:    store.IdentityRow{ID: 6, Login: "da\x01ve", Passwd: "x"},
			reason: ReasonUnsafe,
		},
		{
			name:   "control character in surname is unsafe",
			row:    store.IdentityRow{ID: 7, Login: "dave", Surname: "Doe\x1f", Passwd: "x"},
			reason: ReasonUnsafe,
		},
		{
			name:   "malformed dn is unsafe",
			row:    store.IdentityRow{ID: 8, Login: "erin", DN: "/O=Org/CN=", Passwd: "x"},
			reason: ReasonUnsafe,
		},
		{
			name:   "malformed login is unsafe",
			row:    store.IdentityRow{ID: 9, Login: "Foo.Bar", Passwd: "x"},
			reason: ReasonUnsafe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, reason := Sanitize(tt.row)
			assert.Equal(t, tt.reason, reason)
			switch tt.reason {
			case ReasonKept, ReasonLocked:
				require.NotNil(t, record)
				assert.Equal(t, tt.row.ID, record.ID)
			default:
				assert.Nil(t, record)
			}
		})
	}
}

func TestSanitizeNormalizedFields(t *testing.T) {
	record, reason := Sanitize(store.IdentityRow{
		ID:       7,
		Login:    " Alice_1 ",
		Forename: "Alice",
		Surname:  "Doe",
		DN:       " /O=Org/CN=Alice Doe ",
		Passwd:   "",
	})
	require.Equal(t, ReasonLocked, reason)
	require.NotNil(t, record)

	assert.Equal(t, "alice_1", record.Login)
	assert.Equal(t, "Alice Doe", record.Name)
	assert.Equal(t, "/O=Org/CN=Alice Doe", record.DN)
	assert.Equal(t, LockSentinel, record.Passwd)
	assert.NotNil(t, record.Roles)
}

func TestSanitizeOmitsEmptyNameParts(t *testing.T) {
	record, reason := Sanitize(store.IdentityRow{ID: 8, Login: "bob", Surname: "Smith", Passwd: "x"})
	require.Equal(t, ReasonKept, reason)
	assert.Equal(t, "Smith", record.Name)

	record, _ = Sanitize(store.IdentityRow{ID: 9, Login: "bob", Passwd: "x"})
	assert.Equal(t, "", record.Name)
}

func TestSanitizeClearedDNSkipsShapeCheck(t *testing.T) {
	// A digit-only dn is cleared during normalization and must not be
	// rejected by the shape rule afterwards.
	record, reason := Sanitize(store.IdentityRow{ID: 10, Login: "carol", DN: "123456", Passwd: "x"})
	require.Equal(t, ReasonKept, reason)
	assert.Equal(t, "", record.DN)
}
