// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package snapshot holds the published record shape, its canonical
// serialization and the atomic file publisher.
package snapshot

// Record is one user's sanitized identity, credential status and role
// grants as published in the snapshot file. Roles maps a role category to
// the "<kind>:<entity>" grant strings collected for it.
type Record struct {
	ID     int64
	Login  string
	Name   string
	DN     string
	Passwd string
	Roles  map[string][]string
}
