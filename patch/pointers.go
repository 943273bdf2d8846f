package patch

import (
	"reflect"
	"strings"
)

// AllowedPointers returns the top-level JSON pointers of struct T as a lookup set.
func AllowedPointers[T any]() map[string]bool {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	allowed := make(map[string]bool)
	if typ.Kind() != reflect.Struct {
		return allowed
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonFieldName(field)
		if name == "" || name == "-" {
			continue
		}
		allowed["/"+escapeJSONPointer(name)] = true
	}
	return allowed
}

func jsonFieldName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return field.Name
	}
	parts := strings.Split(jsonTag, ",")
	if parts[0] != "" {
		return parts[0]
	}
	return field.Name
}
