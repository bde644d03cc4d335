package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoPipeline is returned when a pipeline is referenced but not defined.
var ErrNoPipeline = errors.New("no such pipeline")

// FilterDef is a filter of a pipeline, as it appears in the configuration
// file:
//
//	pipelines:
//	  default:
//	  - name: compress
//	    args: [6]
//	  - name: accessLog
type FilterDef struct {
	Name string `yaml:"name"`
	Args []any  `yaml:"args"`
}

func (d FilterDef) String() string {
	if len(d.Args) == 0 {
		return d.Name + "()"
	}

	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = fmt.Sprint(a)
	}

	return fmt.Sprintf("%s(%s)", d.Name, strings.Join(args, ", "))
}

// Pipelines are the named lists of filters that the chains are built from.
// The order of a list is the order of the chain, starting at the filter that
// receives the events of the transaction.
type Pipelines map[string][]FilterDef

// Get returns the named pipeline.
func (p Pipelines) Get(name string) ([]FilterDef, error) {
	defs, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPipeline, name)
	}

	return defs, nil
}

// Names returns the names of the pipelines in sorted order.
func (p Pipelines) Names() []string {
	var names []string
	for n := range p {
		names = append(names, n)
	}

	sort.Strings(names)
	return names
}

func (p Pipelines) validate() error {
	for _, n := range p.Names() {
		for i, d := range p[n] {
			if d.Name == "" {
				return fmt.Errorf("invalid pipeline %s: filter %d without name", n, i)
			}
		}
	}

	return nil
}
