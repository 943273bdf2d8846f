package patch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyRFC6902 applies ops to current and decodes the result back into T.
// Every op path must be in allowed; an empty allowed set permits any path.
func ApplyRFC6902[T any](current T, ops []Operation, allowed map[string]bool) (T, error) {
	var zero T

	if len(ops) == 0 {
		return current, nil
	}
	if err := ValidatePatchOperations(ops, allowed); err != nil {
		return zero, err
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal current state: %w", err)
	}

	ops = FixOperation(currentJSON, ops)

	patchJSON, err := json.Marshal(ops)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal patch operations: %w", err)
	}

	p, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return zero, fmt.Errorf("failed to decode patch: %w", err)
	}

	modifiedJSON, err := p.Apply(currentJSON)
	if err != nil {
		return zero, fmt.Errorf("failed to apply patch: %w", err)
	}

	var result T
	if err := json.Unmarshal(modifiedJSON, &result); err != nil {
		return zero, fmt.Errorf("type mismatch: patch would result in invalid type: %w", err)
	}

	return result, nil
}

// SetField replaces the string at pointer. It is the patch form of a single input change event.
// Invalid UTF-8 is rejected rather than rewritten by the JSON round trip.
func SetField[T any](current T, pointer, value string, allowed map[string]bool) (T, error) {
	if !utf8.ValidString(value) {
		var zero T
		return zero, fmt.Errorf("%q: %w", pointer, ErrInvalidText)
	}
	return ApplyRFC6902(current, []Operation{Replace(pointer, value)}, allowed)
}

// FixOperation turns replaces of absent paths into adds and drops removes of absent paths.
func FixOperation(currentJSON []byte, ops []Operation) []Operation {
	var doc any
	if err := json.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case OperationReplace:
			if !pathExists(doc, op.Path) {
				op.Op = OperationAdd
			}
			fixed = append(fixed, op)
		case OperationRemove:
			if pathExists(doc, op.Path) {
				fixed = append(fixed, op)
			}
		default:
			fixed = append(fixed, op)
		}
	}

	return fixed
}

func pathExists(doc any, path string) bool {
	if path == "" {
		return true
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}

	cur := doc
	for _, token := range strings.Split(path[1:], "/") {
		token = unescapeJSONPointer(token)
		switch node := cur.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return false
			}
			cur = value
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return false
			}
			cur = node[index]
		default:
			return false
		}
	}

	return true
}

func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}
