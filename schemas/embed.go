// Package schemas embeds the JSON Schemas for the generated document payloads.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS

// FileFor returns the schema filename for a document kind such as "quotation"
func FileFor(kind string) string {
	return kind + ".schema.json"
}
