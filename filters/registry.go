package filters

import "fmt"

// Registry is used to lookup filter specifications by name.
type Registry map[string]Spec

// Register adds a filter specification to the registry, replacing any
// earlier one with the same name.
func (r Registry) Register(s Spec) {
	r[s.Name()] = s
}

// CreateFilter looks up the spec with the given name, and creates a new
// filter instance from the arguments.
func (r Registry) CreateFilter(name string, args []any) (Filter, error) {
	s, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}

	f, err := s.CreateFilter(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter %s: %w", name, err)
	}

	return f, nil
}
