package entities

import (
	"fmt"
	"regexp"
)

// FieldKind selects which run value is written into a descriptor field.
type FieldKind string

const (
	FieldVersion  FieldKind = "version"
	FieldChecksum FieldKind = "checksum"
)

// DescriptorField is a recognised field of a descriptor file. Pattern has exactly one
// capture group, which spans the field value.
type DescriptorField struct {
	Name    string
	Kind    FieldKind
	Pattern *regexp.Regexp
}

// Descriptor is a package-build file inside the working copy.
type Descriptor struct {
	Path   string // relative to the working copy root, slash separated
	Fields []DescriptorField
}

// NewDescriptorField compiles a field pattern.
func NewDescriptorField(name string, kind FieldKind, pattern string) (DescriptorField, error) {
	if kind != FieldVersion && kind != FieldChecksum {
		return DescriptorField{}, fmt.Errorf("%w: field %q has unknown kind %q", ErrConfiguration, name, kind)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return DescriptorField{}, fmt.Errorf("%w: field %q: invalid pattern: %v", ErrConfiguration, name, err)
	}
	if re.NumSubexp() != 1 {
		return DescriptorField{}, fmt.Errorf(
			"%w: field %q: pattern must have exactly one capture group, got %d",
			ErrConfiguration, name, re.NumSubexp(),
		)
	}
	return DescriptorField{Name: name, Kind: kind, Pattern: re}, nil
}

// ReadFields returns the current value of every field, keyed by field name.
func ReadFields(content string, descriptor Descriptor) (map[string]string, error) {
	values := make(map[string]string, len(descriptor.Fields))
	for _, field := range descriptor.Fields {
		span, err := locateField(content, descriptor.Path, field)
		if err != nil {
			return nil, err
		}
		values[field.Name] = content[span[0]:span[1]]
	}
	return values, nil
}

// PatchDescriptor replaces the value of every field with the value for its kind.
// Bytes outside the field values are left untouched, and patching twice with the same
// values gives the same content as patching once.
func PatchDescriptor(content string, descriptor Descriptor, values map[FieldKind]string) (string, error) {
	for _, field := range descriptor.Fields {
		value, ok := values[field.Kind]
		if !ok {
			return "", fmt.Errorf("%w: %s: no %s value for field %q", ErrDescriptorUpdate, descriptor.Path, field.Kind, field.Name)
		}

		span, err := locateField(content, descriptor.Path, field)
		if err != nil {
			return "", err
		}
		content = content[:span[0]] + value + content[span[1]:]
	}
	return content, nil
}

// locateField returns the [start, end) offsets of the single value matched by field.
func locateField(content, path string, field DescriptorField) ([]int, error) {
	matches := field.Pattern.FindAllStringSubmatchIndex(content, -1)
	switch len(matches) {
	case 1:
		return matches[0][2:4], nil
	case 0:
		return nil, fmt.Errorf("%w: %s: field %q not found", ErrDescriptorUpdate, path, field.Name)
	default:
		return nil, fmt.Errorf(
			"%w: %s: field %q matched %d times, expected exactly once",
			ErrDescriptorUpdate, path, field.Name, len(matches),
		)
	}
}
