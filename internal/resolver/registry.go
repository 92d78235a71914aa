package resolver

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// Descriptor identifies a registered function.
type Descriptor struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Sig     Signature `json:"signature"`
	Source  string    `json:"source,omitempty"`
	Summary string    `json:"summary,omitempty"`
}

type entry struct {
	desc  Descriptor
	build func() (any, error)
}

// Registry maps identifiers to constructors. Every Resolve call invokes the
// constructor again, so callers never share a callable instance.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// RegisterExtractor adds an extractor constructor under d.ID.
func (r *Registry) RegisterExtractor(d Descriptor, newFn func() (Extractor, error)) error {
	d.Role = RoleExtractor
	return r.register(d, func() (any, error) { return newFn() })
}

// RegisterAnnotator adds an annotator constructor under d.ID.
func (r *Registry) RegisterAnnotator(d Descriptor, newFn func() (Annotator, error)) error {
	d.Role = RoleAnnotator
	return r.register(d, func() (any, error) { return newFn() })
}

// RegisterPostProcessor adds a post-processor constructor under d.ID.
func (r *Registry) RegisterPostProcessor(d Descriptor, newFn func() (PostProcessor, error)) error {
	d.Role = RolePostProcessor
	return r.register(d, func() (any, error) { return newFn() })
}

func (r *Registry) register(d Descriptor, build func() (any, error)) error {
	if d.ID == "" {
		return errors.New("register: empty function identifier")
	}
	if d.Sig.In == "" {
		d.Sig.In = KindAny
	}
	if d.Sig.Out == "" {
		d.Sig.Out = KindAny
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[d.ID]; exists {
		return errors.Newf("register: function %q already registered", d.ID)
	}
	r.entries[d.ID] = entry{desc: d, build: build}
	return nil
}

// Describe returns the descriptor registered under id.
func (r *Registry) Describe(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.desc, ok
}

// List returns all descriptors sorted by role then identifier.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.desc)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) lookup(id string, role Role) (entry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return entry{}, errors.Wrapf(ErrUnknownFunction, "%s %q", role, id)
	}
	if e.desc.Role != role {
		return entry{}, errors.Wrapf(ErrWrongRole, "%s %q is a %s", role, id, e.desc.Role)
	}
	return e, nil
}

func (r *Registry) construct(id string, role Role) (any, error) {
	e, err := r.lookup(id, role)
	if err != nil {
		return nil, err
	}
	v, err := e.build()
	if err != nil {
		return nil, errors.Wrapf(err, "construct %s %q", role, id)
	}
	if v == nil {
		return nil, errors.Newf("construct %s %q: constructor returned nil", role, id)
	}
	return v, nil
}

// ResolveExtractor constructs a fresh extractor.
func (r *Registry) ResolveExtractor(id string) (Extractor, error) {
	v, err := r.construct(id, RoleExtractor)
	if err != nil {
		return nil, err
	}
	return v.(Extractor), nil
}

// ResolveAnnotator constructs a fresh annotator.
func (r *Registry) ResolveAnnotator(id string) (Annotator, error) {
	v, err := r.construct(id, RoleAnnotator)
	if err != nil {
		return nil, err
	}
	return v.(Annotator), nil
}

// ResolvePostProcessor constructs a fresh post-processor.
func (r *Registry) ResolvePostProcessor(id string) (PostProcessor, error) {
	v, err := r.construct(id, RolePostProcessor)
	if err != nil {
		return nil, err
	}
	return v.(PostProcessor), nil
}
