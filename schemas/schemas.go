// Package schemas embeds the JSON Schemas shipped with pku-porter.
package schemas

import _ "embed"

// PKU is the JSON Schema of a canonical record.
//
//go:embed pku.schema.json
var PKU string

// PKUFile is the file name of the canonical record schema.
const PKUFile = "pku.schema.json"
