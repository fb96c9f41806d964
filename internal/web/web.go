// Package web embeds the storefront assets served by the catalog module.
package web

import _ "embed"

//go:embed storefront.html
var StorefrontHTML []byte
