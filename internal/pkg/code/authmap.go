// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package code

// authmap: snapshot errors.
const (
	// ErrSnapshotEncode - 500: Failed to encode the identity snapshot.
	ErrSnapshotEncode int = iota + 110001

	// ErrSnapshotPublish - 500: Failed to publish the identity snapshot.
	ErrSnapshotPublish
)

//nolint: gochecknoinits
func init() {
	register(ErrSnapshotEncode, 500, "Failed to encode the identity snapshot")
	register(ErrSnapshotPublish, 500, "Failed to publish the identity snapshot")
}
