package importer

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/java"
)

// ImportedClasses owns every node of one import session. It hands out
// exactly one *java.Class per type name.
type ImportedClasses struct {
	resolver ClassResolver
	imported map[string]*java.Class
	classes  map[string]*java.Class
	// pending holds resolved classes whose hierarchy is not complete yet.
	pending []*java.Class
}

func NewImportedClasses(resolver ClassResolver) *ImportedClasses {
	if resolver == nil {
		resolver = NoOpResolver{}
	}
	return &ImportedClasses{
		resolver: resolver,
		imported: map[string]*java.Class{},
		classes:  map[string]*java.Class{},
	}
}

// add registers a directly imported class. It reports false when the name
// is already taken.
func (r *ImportedClasses) add(c *java.Class) bool {
	if _, ok := r.classes[c.Name()]; ok {
		return false
	}
	r.imported[c.Name()] = c
	r.classes[c.Name()] = c
	return true
}

// GetOrResolve returns the node for name, asking the resolver on first
// sight and stubbing the type when the resolver misses.
func (r *ImportedClasses) GetOrResolve(name string) *java.Class {
	if c, ok := r.classes[name]; ok {
		return c
	}
	var c *java.Class
	if rec, ok := r.tryResolve(name); ok {
		log.Debugf("resolved %s", name)
		c = java.NewClass(rec, java.OriginResolved)
		r.pending = append(r.pending, c)
	} else {
		log.Debugf("stubbing %s", name)
		c = java.NewStubClass(name, r)
	}
	r.classes[name] = c
	return c
}

func (r *ImportedClasses) tryResolve(name string) (*classfile.ClassRecord, bool) {
	if classfile.IsPrimitiveName(name) || strings.HasSuffix(name, "[]") {
		return nil, false
	}
	return r.resolver.TryResolve(name)
}

// EnsurePresent makes sure name has a node without returning it.
func (r *ImportedClasses) EnsurePresent(name string) {
	r.GetOrResolve(name)
}

// Contains reports whether name already has a node.
func (r *ImportedClasses) Contains(name string) bool {
	_, ok := r.classes[name]
	return ok
}

// DirectlyImported returns the imported classes in name order.
func (r *ImportedClasses) DirectlyImported() []*java.Class {
	return sortedClasses(r.imported)
}

// All returns every node, imported or not, in name order.
func (r *ImportedClasses) All() []*java.Class {
	return sortedClasses(r.classes)
}

// completeResolved finishes the hierarchy of resolved classes, including
// the ones that get resolved while doing so.
func (r *ImportedClasses) completeResolved(completer *java.Completer) {
	for len(r.pending) > 0 {
		c := r.pending[0]
		r.pending = r.pending[1:]
		completer.TypeParameters(c)
	}
}

func sortedClasses(classes map[string]*java.Class) []*java.Class {
	return slices.SortedFunc(maps.Values(classes), func(a, b *java.Class) int {
		return cmp.Compare(a.Name(), b.Name())
	})
}
