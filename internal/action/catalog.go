package action

import (
	"errors"
	"fmt"
	"sort"
)

// Catalog is the read-only, statically built set of actions.
type Catalog struct {
	entries map[string]*Descriptor
	order   []*Descriptor
}

// NewCatalog validates and indexes descriptors. Registration order is kept
// so prompts and tool lists are stable.
func NewCatalog(descriptors ...*Descriptor) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[string]*Descriptor, len(descriptors)),
	}

	for _, d := range descriptors {
		if d == nil || d.Name == "" {
			return nil, errors.New("action name cannot be empty")
		}
		if d.run == nil {
			return nil, fmt.Errorf("action %s has no implementation", d.Name)
		}
		if _, dup := c.entries[d.Name]; dup {
			return nil, fmt.Errorf("action already registered: %s", d.Name)
		}
		c.entries[d.Name] = d
		c.order = append(c.order, d)
	}

	for _, d := range c.order {
		for _, x := range d.Excludes {
			if _, ok := c.entries[x]; !ok {
				return nil, fmt.Errorf("action %s excludes unknown action %s", d.Name, x)
			}
		}
	}

	return c, nil
}

func MustCatalog(descriptors ...*Descriptor) *Catalog {
	c, err := NewCatalog(descriptors...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(name string) (*Descriptor, bool) {
	d, ok := c.entries[name]
	return d, ok
}

// All returns descriptors in registration order.
func (c *Catalog) All() []*Descriptor {
	return append([]*Descriptor(nil), c.order...)
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, d := range c.order {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int { return len(c.order) }

// Bind checks raw resolver arguments against the descriptor schema and
// returns a ready invocation. Unknown keys are dropped, defaults filled.
func (c *Catalog) Bind(name string, raw map[string]any) (Invocation, error) {
	d, ok := c.entries[name]
	if !ok {
		return Invocation{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	args := make(Args, len(d.Params))
	for _, p := range d.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if !p.Optional {
				return Invocation{}, fmt.Errorf("%w: %s", ErrMissingArgument, p.Name)
			}
			args[p.Name] = p.Default
			continue
		}

		s, isString := v.(string)
		if !isString {
			return Invocation{}, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, p.Name, v)
		}
		if s == "" && p.Optional {
			s = p.Default
		}
		args[p.Name] = s
	}

	return Invocation{Action: d, Args: args}, nil
}
