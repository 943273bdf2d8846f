package patch

const (
	OperationAdd     = "add"
	OperationRemove  = "remove"
	OperationReplace = "replace"
)

// Operation is one RFC6902 operation against a form document.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Replace builds the operation a single field edit produces.
func Replace(path string, value any) Operation {
	return Operation{Op: OperationReplace, Path: path, Value: value}
}
