package sources

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/milletmart/catalog-server/internal/fixtures"
)

// FixtureValidator checks raw fixture data before it is decoded
type FixtureValidator interface {
	// ValidateData validates data as a fixture of the given kind
	ValidateData(kind fixtures.Kind, data []byte) error
}

// SchemaValidator validates fixtures against their embedded JSON schemas
type SchemaValidator struct {
	once    sync.Once
	schemas map[fixtures.Kind]*jsonschema.Schema
	err     error
}

var _ FixtureValidator = (*SchemaValidator)(nil)

// NewSchemaValidator creates a new SchemaValidator. Schemas are compiled on first use.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// ValidateData validates data as a fixture of the given kind
func (v *SchemaValidator) ValidateData(kind fixtures.Kind, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("data cannot be empty")
	}

	v.once.Do(v.compile)
	if v.err != nil {
		return v.err
	}

	schema, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("unknown fixture kind: %s", kind)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON in %s fixture: %w", kind, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%s fixture does not match schema: %w", kind, err)
	}

	return nil
}

func (v *SchemaValidator) compile() {
	compiler := jsonschema.NewCompiler()
	v.schemas = make(map[fixtures.Kind]*jsonschema.Schema, len(fixtures.AllKinds))

	for _, kind := range fixtures.AllKinds {
		raw, err := fixtures.Schema(kind)
		if err != nil {
			v.err = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			v.err = fmt.Errorf("failed to parse %s schema: %w", kind, err)
			return
		}
		if err := compiler.AddResource(fixtures.SchemaURL(kind), doc); err != nil {
			v.err = fmt.Errorf("failed to add %s schema: %w", kind, err)
			return
		}
	}

	for _, kind := range fixtures.AllKinds {
		schema, err := compiler.Compile(fixtures.SchemaURL(kind))
		if err != nil {
			v.err = fmt.Errorf("failed to compile %s schema: %w", kind, err)
			return
		}
		v.schemas[kind] = schema
	}
}
