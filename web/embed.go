// Package web carries the embedded browser assets.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
