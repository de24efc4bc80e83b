// Package fixtures embeds the default marketplace data set and the JSON
// schemas every fixture is validated against.
package fixtures

import (
	"embed"
	"fmt"
	"path"
)

// Kind identifies one of the fixture files that make up a data set
type Kind string

const (
	// KindProducts is the product catalog
	KindProducts Kind = "products"

	// KindUsers is the user directory (farmers and buyers)
	KindUsers Kind = "users"

	// KindTransactions is the order history
	KindTransactions Kind = "transactions"

	// KindSchemes is the government-schemes directory
	KindSchemes Kind = "schemes"

	// KindLearn is the educational content
	KindLearn Kind = "learn"
)

// AllKinds lists every fixture kind in load order
var AllKinds = []Kind{KindProducts, KindUsers, KindTransactions, KindSchemes, KindLearn}

//go:embed data/*.json
var dataFS embed.FS

//go:embed schema/*.schema.json
var schemaFS embed.FS

// IsValid reports whether k names a known fixture
func (k Kind) IsValid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// FileName returns the conventional file name of the fixture, e.g. products.json
func (k Kind) FileName() string {
	return string(k) + ".json"
}

// Data returns the embedded default fixture for k
func Data(k Kind) ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("unknown fixture kind: %s", k)
	}
	data, err := dataFS.ReadFile(path.Join("data", k.FileName()))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded fixture %s: %w", k, err)
	}
	return data, nil
}

// Schema returns the JSON schema for k
func Schema(k Kind) ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("unknown fixture kind: %s", k)
	}
	data, err := schemaFS.ReadFile(path.Join("schema", string(k)+".schema.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read schema for %s: %w", k, err)
	}
	return data, nil
}

// SchemaURL returns the identifier the schema for k is registered under
func SchemaURL(k Kind) string {
	return "https://milletmart.example/schema/" + string(k) + ".schema.json"
}
