package verbosity

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	// DefaultVerbosity is the global default a registry starts with and
	// returns to on Reset. Only events requesting verbosity 0 or lower pass.
	DefaultVerbosity = 0

	// DefaultCacheLimit is the number of resolved names a snapshot caches.
	DefaultCacheLimit = 4096

	// GlobalLabel names the global default in Print output.
	GlobalLabel = "*"
)

// Override is an explicit verbosity configured at a component name.
type Override struct {
	Name      string `json:"name" toml:"name" yaml:"name"`
	Verbosity int    `json:"verbosity" toml:"verbosity" yaml:"verbosity"`
}

// snapshot is an immutable registry state together with its resolution cache.
type snapshot struct {
	root       *node
	generation uint64
	cache      sync.Map // string -> int
	cached     atomic.Int64
}

// Registry maps component names to verbosity overrides.
// It is safe for concurrent use; the zero value is not, use New.
type Registry struct {
	mu         sync.Mutex // serializes writers
	current    atomic.Pointer[snapshot]
	sentinel   atomic.Int64
	cacheLimit int64
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaultVerbosity sets the global default the registry starts with and
// restores on Reset.
func WithDefaultVerbosity(v int) Option {
	return func(r *Registry) {
		r.sentinel.Store(int64(v))
	}
}

// WithCacheLimit bounds the resolution cache. n <= 0 disables caching.
func WithCacheLimit(n int) Option {
	return func(r *Registry) {
		r.cacheLimit = int64(n)
	}
}

// New creates a registry holding only the global default.
func New(opts ...Option) *Registry {
	r := &Registry{cacheLimit: DefaultCacheLimit}
	r.sentinel.Store(DefaultVerbosity)
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(&snapshot{root: r.bareRoot()})
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

func (r *Registry) bareRoot() *node {
	return &node{verbosity: r.InitialVerbosity(), explicit: true}
}

// publish installs root as the new state. Must be called with mu held.
func (r *Registry) publish(root *node) {
	prev := r.current.Load()
	r.current.Store(&snapshot{root: root, generation: prev.generation + 1})
}

// Set configures an explicit verbosity at name, creating the path to it.
// The empty name sets the global default.
func (r *Registry) Set(name string, v int) {
	segs := SplitName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	root := r.current.Load().root
	if n := root.find(segs); n != nil && n.explicit && n.verbosity == v {
		return
	}
	r.publish(withOverride(root, segs, v))
}

// Clear removes the explicit verbosity at name so that it inherits again.
// Clearing the empty name restores the initial global default.
func (r *Registry) Clear(name string) {
	if name == "" {
		r.Set("", r.InitialVerbosity())
		return
	}
	segs := SplitName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if root, changed := withoutOverride(r.current.Load().root, segs); changed {
		r.publish(root)
	}
}

// Reset drops every override and restores the initial global default.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.publish(r.bareRoot())
}

// Replace installs def as the global default and overrides as the only
// explicit values, in one step. An override for the empty name wins over def.
func (r *Registry) Replace(def int, overrides []Override) {
	root := &node{verbosity: def, explicit: true}
	for _, o := range overrides {
		root = withOverride(root, SplitName(o.Name), o.Verbosity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.publish(root)
}

// Get returns the effective verbosity of name: the override of its deepest
// configured ancestor (itself included), or the global default.
func (r *Registry) Get(name string) int {
	s := r.current.Load()
	if r.cacheLimit <= 0 {
		v, _ := s.root.resolve(name)
		return v
	}

	if v, ok := s.cache.Load(name); ok {
		return v.(int)
	}
	v, _ := s.root.resolve(name)
	if s.cached.Load() < r.cacheLimit {
		if _, loaded := s.cache.LoadOrStore(name, v); !loaded {
			s.cached.Add(1)
		}
	}
	return v
}

// Lookup returns the effective verbosity of name and whether name itself
// carries an explicit override. The root always does.
func (r *Registry) Lookup(name string) (int, bool) {
	return r.current.Load().root.resolve(name)
}

// DefaultVerbosity returns the current global default.
func (r *Registry) DefaultVerbosity() int {
	return r.current.Load().root.verbosity
}

// InitialVerbosity returns the global default restored by Reset and by
// Clear("").
func (r *Registry) InitialVerbosity() int {
	return int(r.sentinel.Load())
}

// SetInitialVerbosity changes the global default restored by Reset and by
// Clear(""). The current state is left alone.
func (r *Registry) SetInitialVerbosity(v int) {
	r.sentinel.Store(int64(v))
}

// Overrides returns every explicit override below the root, sorted by name.
func (r *Registry) Overrides() []Override {
	return r.current.Load().overrides()
}

func (s *snapshot) overrides() []Override {
	out := s.root.collect("", true, nil)
	slices.SortFunc(out, func(a, b Override) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Generation counts the writes that changed the registry.
func (r *Registry) Generation() uint64 {
	return r.current.Load().generation
}

// CacheLen returns the number of names cached for the current state.
func (r *Registry) CacheLen() int {
	return int(r.current.Load().cached.Load())
}

// Print writes every explicit override as "name<TAB>verbosity", sorted by
// name, followed by the global default under GlobalLabel.
func (r *Registry) Print(w io.Writer) error {
	s := r.current.Load()

	var sb strings.Builder
	for _, o := range s.overrides() {
		fmt.Fprintf(&sb, "%s\t%d\n", o.Name, o.Verbosity)
	}
	fmt.Fprintf(&sb, "%s\t%d\n", GlobalLabel, s.root.verbosity)

	_, err := io.WriteString(w, sb.String())
	return err
}
