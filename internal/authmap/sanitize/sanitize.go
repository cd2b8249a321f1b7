// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package sanitize normalizes and validates raw identity rows. Rows that
// fail a rule are excluded from the snapshot entirely, never emitted as
// partial records. Exclusion is ordinary control flow here, not an error.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/marmotedu/authmap/internal/authmap/snapshot"
	"github.com/marmotedu/authmap/internal/authmap/store"
)

// LockSentinel is the credential value meaning "no usable credential /
// login disabled".
const LockSentinel = "*"

// removedMarker inside a credential marks an account removed upstream.
const removedMarker = "Removed"

// Reason classifies the sanitizer's decision about one row.
type Reason int

// Sanitizer decisions. ReasonLocked still retains the record; the other
// non-kept reasons exclude it.
const (
	ReasonKept Reason = iota
	ReasonLocked
	ReasonUnsafe
	ReasonDeactivated
)

func (r Reason) String() string {
	switch r {
	case ReasonKept:
		return "kept"
	case ReasonLocked:
		return "locked"
	case ReasonUnsafe:
		return "unsafe"
	case ReasonDeactivated:
		return "deactivated"
	}

	return "unknown"
}

var (
	// A well formed certificate subject starts with at least one
	// naming-authority component and ends with a non-empty CN.
	wellFormedDNRegex = regexp.MustCompile(`^/(C|O|DC)=.*/CN=[^/]+$`)

	digitsOnlyRegex = regexp.MustCompile(`^[0-9]+$`)

	// Placeholder subjects the upstream store uses when the real one is
	// not known yet.
	unknownDNRegex = regexp.MustCompile(`^/?(?i:unknown)`)

	// A handle is lower-case letters, digits or underscore, optionally
	// carrying a special-account marker. The whole alternative is
	// optional: an empty login is accepted. That is long-standing
	// upstream behavior and deliberately kept.
	handleLoginRegex = regexp.MustCompile(`^([a-z0-9_]+(\.(nocern|notcms))?)?$`)

	emailLoginRegex = regexp.MustCompile(`^[a-z0-9_.-]+@([a-z0-9_-]+\.)+[a-z]{2,5}$`)
)

// containsControlBytes reports whether any of the fields carries a byte
// in the 0x00-0x1F range.
func containsControlBytes(fields ...string) bool {
	for _, field := range fields {
		for i := 0; i < len(field); i++ {
			if field[i] < 0x20 {
				return true
			}
		}
	}

	return false
}

// isWellFormedDN reports whether dn has the expected certificate subject
// shape.
func isWellFormedDN(dn string) bool {
	return wellFormedDNRegex.MatchString(dn)
}

// isPlaceholderDN reports whether dn carries no real subject: digit-only
// strings and known "unknown" placeholders.
func isPlaceholderDN(dn string) bool {
	return digitsOnlyRegex.MatchString(dn) || unknownDNRegex.MatchString(dn)
}

// isValidLogin reports whether the normalized login is a bare handle, an
// email-shaped string, or empty.
func isValidLogin(login string) bool {
	return handleLoginRegex.MatchString(login) || emailLoginRegex.MatchString(login)
}

// isDeactivated reports whether the credential marks the account as
// disabled upstream.
func isDeactivated(passwd string) bool {
	return strings.Contains(passwd, LockSentinel) || strings.Contains(passwd, removedMarker)
}

// isServiceAccount reports whether the row describes a certificate-only
// service account: an email-shaped login, a real subject, and exactly the
// lock sentinel as credential.
func isServiceAccount(login, dn, passwd string) bool {
	return strings.Contains(login, "@") && dn != "" && passwd == LockSentinel
}

// normalizeLogin lower-cases the login and trims surrounding whitespace.
func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// normalizeDN trims the certificate subject and clears placeholders that
// carry no real subject.
func normalizeDN(dn string) string {
	dn = strings.TrimSpace(dn)
	if isPlaceholderDN(dn) {
		return ""
	}

	return dn
}

// displayName joins the non-empty name parts with a single space.
func displayName(forename, surname string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{forename, surname} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, " ")
}

// Sanitize normalizes and validates one raw identity row. It returns the
// validated record and ReasonKept or ReasonLocked, or a nil record with
// the reason the row was excluded.
func Sanitize(row store.IdentityRow) (*snapshot.Record, Reason) {
	login := normalizeLogin(row.Login)
	dn := normalizeDN(row.DN)

	if containsControlBytes(dn, login, row.Forename, row.Surname) {
		return nil, ReasonUnsafe
	}
	if dn != "" && !isWellFormedDN(dn) {
		return nil, ReasonUnsafe
	}
	if !isValidLogin(login) {
		return nil, ReasonUnsafe
	}

	passwd := row.Passwd
	if isDeactivated(passwd) && !isServiceAccount(login, dn, passwd) {
		return nil, ReasonDeactivated
	}

	reason := ReasonKept
	if passwd == "" {
		// The account stays in the snapshot but cannot authenticate by
		// credential.
		passwd = LockSentinel
		reason = ReasonLocked
	}

	return &snapshot.Record{
		ID:     row.ID,
		Login:  login,
		Name:   displayName(row.Forename, row.Surname),
		DN:     dn,
		Passwd: passwd,
		Roles:  map[string][]string{},
	}, reason
}
