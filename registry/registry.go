// Package registry holds the named transformation passes the pipeline
// grammar can reference. Passes are registered up front (the builtins at
// init time, others by embedding applications) and looked up by name during
// pipeline parsing and execution.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/irtools/passpipe/ir"
)

// Pass is a named transformation applied to an operation subtree.
// Run mutates the target in place and returns an error to abort the
// pipeline.
type Pass interface {
	Name() string
	Run(op *ir.Operation) error
}

// Option is one key=value pass option, order preserved from source text.
type Option struct {
	Key   string
	Value string
}

// Options is the ordered option list of a single pipeline entry.
type Options []Option

// Get returns the value of the named option.
func (o Options) Get(key string) (string, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return "", false
}

// String renders options in the pipeline grammar's brace form, without
// the braces.
func (o Options) String() string {
	var b strings.Builder
	for i, opt := range o {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(opt.Key)
		b.WriteByte('=')
		b.WriteString(opt.Value)
	}
	return b.String()
}

// ParseOptions parses "key=value key2=value2" option text.
func ParseOptions(text string) (Options, error) {
	var opts Options
	for _, field := range strings.Fields(text) {
		key, value, found := strings.Cut(field, "=")
		if !found || key == "" || value == "" {
			return nil, fmt.Errorf("malformed option %q, want key=value", field)
		}
		opts = append(opts, Option{Key: key, Value: value})
	}
	return opts, nil
}

// Factory builds a pass instance from its options. A factory must reject
// options it does not recognize so that malformed pipelines fail at parse
// time, not mid-run.
type Factory func(opts Options) (Pass, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a pass factory under name. Registering a duplicate name
// panics; registration is an init-time affair.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: pass %q registered twice", name))
	}
	factories[name] = f
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// Names returns all registered pass names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rejectUnknown is the shared option validator for factories.
func rejectUnknown(passName string, opts Options, known ...string) error {
	for _, opt := range opts {
		recognized := false
		for _, k := range known {
			if opt.Key == k {
				recognized = true
				break
			}
		}
		if !recognized {
			return fmt.Errorf("pass %q does not recognize option %q", passName, opt.Key)
		}
	}
	return nil
}
