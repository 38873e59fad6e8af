// Package docs holds the OpenAPI description of the read-only JSON API served under /swagger.
package docs

import _ "embed"

//go:embed swagger.json
var SwaggerJSON []byte
