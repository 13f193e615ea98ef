// Package jq applies jq expressions to in-memory JSON documents. It backs
// the --jq flag of the JSON outputter.
package jq

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// Apply runs expr over doc (any JSON-marshalable value) and returns the
// filter results. A filter producing no output yields an empty slice.
func Apply(expr string, doc any) ([]any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing jq expression: %w", err)
	}

	// Round-trip through JSON so struct inputs become the generic values
	// gojq operates on.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling jq input: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	var results []any
	iter := query.Run(generic)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			if halt, ok := err.(*gojq.HaltError); ok && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("running jq expression: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}
