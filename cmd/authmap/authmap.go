// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// authmap generates the sanitized identity snapshot consumed by the
// authentication frontends.
package main

import "github.com/marmotedu/authmap/internal/authmap"

func main() {
	authmap.NewApp("authmap").Run()
}
