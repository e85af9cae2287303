package defaults

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"gopkg.in/yaml.v3"
)

// verbBlock is the only block type allowed in an HCL defaults file:
//
//	verb "print.line" { times = 3 }
const verbBlock = "verb"

// loadHCL keeps values as cty.Value; coerce converts them per parameter.
// Top-level attributes are globals, verb blocks scope values to one verb.
func loadHCL(path string) (*MapStore, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse defaults file %s: %w", path, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("defaults file %s: unsupported HCL body %T", path, file.Body)
	}

	store := NewMapStore()
	globals, err := attributeValues(body.Attributes)
	if err != nil {
		return nil, fmt.Errorf("defaults file %s: %w", path, err)
	}
	for k, v := range globals {
		store.SetGlobal(k, v)
	}

	for _, block := range body.Blocks {
		if block.Type != verbBlock || len(block.Labels) != 1 {
			return nil, fmt.Errorf("defaults file %s:%d: unexpected block '%s': only verb \"<component>.<verb>\" blocks are allowed", path, block.TypeRange.Start.Line, block.Type)
		}
		label := block.Labels[0]
		component, verb, ok := strings.Cut(label, ".")
		if !ok || component == "" || verb == "" {
			return nil, fmt.Errorf("defaults file %s: verb block label '%s' must be <component>.<verb>", path, label)
		}
		if len(block.Body.Blocks) > 0 {
			return nil, fmt.Errorf("defaults file %s, verb '%s': nested blocks are not allowed", path, label)
		}
		vals, err := attributeValues(block.Body.Attributes)
		if err != nil {
			return nil, fmt.Errorf("defaults file %s, verb '%s': %w", path, label, err)
		}
		for k, v := range vals {
			store.SetVerb(component, verb, k, v)
		}
	}
	return store, nil
}

func attributeValues(attrs hclsyntax.Attributes) (map[string]any, error) {
	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		out[name] = val
	}
	return out, nil
}

func loadTOML(path string) (*MapStore, error) {
	var tree map[string]any
	if _, err := toml.DecodeFile(path, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode defaults file %s: %w", path, err)
	}
	return fromTree(path, tree)
}

func loadYAML(path string) (*MapStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file %s: %w", path, err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode defaults file %s: %w", path, err)
	}
	return fromTree(path, tree)
}
