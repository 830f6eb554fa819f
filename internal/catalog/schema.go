package catalog

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compileRequiredFields builds and compiles a JSON Schema of the shape
// {"type":"object","required": requiredFields} for one catalogue entry.
// id is used only to give the in-memory schema resource a unique URL.
func compileRequiredFields(id string, requiredFields []string) (*jsonschema.Schema, error) {
	required := make([]any, len(requiredFields))
	for i, f := range requiredFields {
		required[i] = f
	}

	doc := map[string]any{
		"type":     "object",
		"required": required,
	}

	url := "mem://flowctl/" + id
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("compiling schema for %q: %w", id, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema for %q: %w", id, err)
	}
	return sch, nil
}

// validates reports whether instance (a decoded JSON value, typically a
// map[string]any) satisfies sch. A nil schema always validates.
func validates(sch *jsonschema.Schema, instance any) bool {
	if sch == nil {
		return true
	}
	return sch.Validate(instance) == nil
}
