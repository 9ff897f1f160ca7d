// Package docs carries the OpenAPI description served under /swagger.
package docs

import _ "embed"

//go:embed swagger.yaml
var SwaggerYAML []byte
