package translation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Resource-table parsing errors.
var (
	ErrFailedToParseYAML = errors.New("translation: failed to parse YAML resources")
	ErrFailedToParseJSON = errors.New("translation: failed to parse JSON resources")
)

// ParseYAMLResources parses a flat YAML mapping of resource names to format
// strings into an ordered resource list. Document order is preserved so that
// SetTranslations sees in-batch duplicates in their original order
// (first occurrence wins). Format validity is not checked here; bad formats
// surface as Faults from SetTranslations.
func ParseYAMLResources(content []byte) ([]Resource, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at the document root, got %v", ErrFailedToParseYAML, root.Tag)
	}

	resources := make([]Resource, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: resource %q must be a scalar format string", ErrFailedToParseYAML, key.Value)
		}
		resources = append(resources, Resource{Name: key.Value, Format: value.Value})
	}

	return resources, nil
}

// ParseJSONResources parses a flat JSON object of resource names to format
// strings into an ordered resource list, preserving document order.
func ParseJSONResources(content []byte) ([]Resource, error) {
	dec := json.NewDecoder(bytes.NewReader(content))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected an object at the document root", ErrFailedToParseJSON)
	}

	var resources []Resource
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Join(ErrFailedToParseJSON, err)
		}
		key, _ := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: resource %q must be a string format", ErrFailedToParseJSON, key)
		}
		resources = append(resources, Resource{Name: key, Format: value})
	}

	return resources, nil
}
