package patch

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// GeneratePatchesFromInitial returns the operations that carry the non-zero values of initial onto current.
func GeneratePatchesFromInitial[T any](current, initial T) ([]Operation, error) {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal current state: %w", err)
	}

	initialJSON, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initial state: %w", err)
	}

	var currentMap map[string]any
	if err := json.Unmarshal(currentJSON, &currentMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal current state: %w", err)
	}

	var initialMap map[string]any
	if err := json.Unmarshal(initialJSON, &initialMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal initial state: %w", err)
	}

	patches := make([]Operation, 0)
	generatePatchesFromMap("", currentMap, initialMap, &patches)
	return patches, nil
}

func generatePatchesFromMap(prefix string, current, initial map[string]any, patches *[]Operation) {
	for key, initialValue := range initial {
		if isZeroValue(initialValue) {
			continue
		}

		path := prefix + "/" + escapeJSONPointer(key)
		currentValue, existsInCurrent := current[key]

		if initialMap, ok := initialValue.(map[string]any); ok {
			if currentMap, ok := currentValue.(map[string]any); ok {
				generatePatchesFromMap(path, currentMap, initialMap, patches)
			} else {
				*patches = append(*patches, Replace(path, initialValue))
			}
			continue
		}

		if !existsInCurrent {
			*patches = append(*patches, Operation{Op: OperationAdd, Path: path, Value: initialValue})
		} else if !reflect.DeepEqual(currentValue, initialValue) {
			*patches = append(*patches, Replace(path, initialValue))
		}
	}
}

func escapeJSONPointer(token string) string {
	result := ""
	for _, ch := range token {
		switch ch {
		case '~':
			result += "~0"
		case '/':
			result += "~1"
		default:
			result += string(ch)
		}
	}
	return result
}

func isZeroValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
