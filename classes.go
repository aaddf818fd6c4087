package voc2yolo

import (
	"fmt"
	"strings"
)

// ClassRegistry is the ordered list of known class names. The position of a name is its numeric
// YOLO class ID.
type ClassRegistry struct {
	names []string
	index map[string]int
}

// NewClassRegistry creates a registry from names. Names must be non-empty and unique.
func NewClassRegistry(names []string) (*ClassRegistry, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("the class list is empty")
	}

	r := &ClassRegistry{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("empty class name at position %d", i)
		}
		if j, dup := r.index[name]; dup {
			return nil, fmt.Errorf("duplicate class name %q at positions %d and %d", name, j, i)
		}
		r.names[i] = name
		r.index[name] = i
	}

	return r, nil
}

// LoadClassNames reads class names from the file at path, one per line. Surrounding whitespace is
// trimmed, and blank lines and lines starting with "#" are ignored.
func LoadClassNames(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}

	return names, nil
}

// Index returns the class ID for name.
func (r *ClassRegistry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Names returns a copy of the class names in ID order.
func (r *ClassRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len is the number of classes.
func (r *ClassRegistry) Len() int {
	return len(r.names)
}
