// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package code

//go:generate codegen -type=int

// Common: basic errors.
// Code must start with 1xxxxx.
const (
	// ErrSuccess - 200: OK.
	ErrSuccess int = iota + 100001

	// ErrUnknown - 500: Internal server error.
	ErrUnknown

	// ErrValidation - 400: Validation failed.
	ErrValidation
)

// common: database errors.
const (
	// ErrDatabase - 500: Database error.
	ErrDatabase int = iota + 100101

	// ErrConnect - 500: Failed to connect to the identity store.
	ErrConnect
)

//nolint: gochecknoinits
func init() {
	register(ErrSuccess, 200, "OK")
	register(ErrUnknown, 500, "Internal server error")
	register(ErrValidation, 400, "Validation failed")
	register(ErrDatabase, 500, "Database error")
	register(ErrConnect, 500, "Failed to connect to the identity store")
}
