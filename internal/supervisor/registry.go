package supervisor

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Delegate describes one remote agent the supervisor can route to.
type Delegate struct {
	// Name is the tool name the model uses to select this delegate.
	Name string `yaml:"name"`
	// DisplayName is the human-readable agent name used in replies and errors.
	DisplayName string `yaml:"display_name"`
	// URL is the base URL of the delegate service.
	URL string `yaml:"url"`
	// Description tells the model what this delegate handles.
	Description string `yaml:"description"`
	// RouteHint is an extra routing rule line included in the system prompt.
	RouteHint string `yaml:"route_hint"`
}

// Registry is the delegate roster. It is built once at process start and
// read-only afterwards, so lookups need no locking.
type Registry struct {
	order       []string
	delegates   map[string]Delegate
	defaultName string
}

// NewRegistry builds a registry from the given delegates. defaultName picks
// the delegate used when the model is unsure; empty means the first entry.
func NewRegistry(delegates []Delegate, defaultName string) (*Registry, error) {
	if len(delegates) == 0 {
		return nil, fmt.Errorf("registry needs at least one delegate")
	}

	r := &Registry{
		delegates: make(map[string]Delegate, len(delegates)),
	}
	for _, d := range delegates {
		if d.Name == "" {
			return nil, fmt.Errorf("delegate with empty name")
		}
		if d.URL == "" {
			return nil, fmt.Errorf("delegate %q has no URL", d.Name)
		}
		if _, exists := r.delegates[d.Name]; exists {
			return nil, fmt.Errorf("duplicate delegate name %q", d.Name)
		}
		if d.DisplayName == "" {
			d.DisplayName = d.Name
		}
		r.delegates[d.Name] = d
		r.order = append(r.order, d.Name)
	}

	if defaultName == "" {
		defaultName = r.order[0]
	}
	if _, ok := r.delegates[defaultName]; !ok {
		return nil, fmt.Errorf("default delegate %q is not registered", defaultName)
	}
	r.defaultName = defaultName

	return r, nil
}

// Lookup returns the delegate registered under name.
func (r *Registry) Lookup(name string) (Delegate, bool) {
	d, ok := r.delegates[name]
	return d, ok
}

// List returns the delegates in registration order.
func (r *Registry) List() []Delegate {
	out := make([]Delegate, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.delegates[name])
	}
	return out
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Default returns the delegate used when the model is unsure.
func (r *Registry) Default() Delegate {
	return r.delegates[r.defaultName]
}

// Len returns the number of registered delegates.
func (r *Registry) Len() int {
	return len(r.order)
}

// registryFile represents the agents.yaml roster file structure.
type registryFile struct {
	Default   string     `yaml:"default"`
	Delegates []Delegate `yaml:"delegates"`
}

// LoadRegistryFile reads a delegate roster from a YAML file. A "default" key
// in the file overrides defaultName.
func LoadRegistryFile(path, defaultName string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing registry file %s: %w", path, err)
	}

	if file.Default != "" {
		defaultName = file.Default
	}

	return NewRegistry(file.Delegates, defaultName)
}

// DefaultDelegates returns the built-in delegate roster: the Cisco Intersight
// greeting agent and the Service Catalog farewell agent.
func DefaultDelegates(intersightURL, catalogURL string) []Delegate {
	return []Delegate{
		{
			Name:        "cisco_intersight",
			DisplayName: "Cisco Intersight Agent",
			URL:         intersightURL,
			Description: "Specializes in greetings, welcomes, and Cisco Intersight products and services",
			RouteHint:   "If the message seems like a greeting, starting a conversation, or saying hello, call cisco_intersight",
		},
		{
			Name:        "service_catalog",
			DisplayName: "Service Catalog Agent",
			URL:         catalogURL,
			Description: "Specializes in farewells, goodbyes, and Service Catalog products and services",
			RouteHint:   "If the message seems like saying goodbye, ending a conversation, or a farewell, call service_catalog",
		},
	}
}
