package importer

import (
	"context"
	"strings"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/classpath"
)

// ClassResolver finds the raw record of a type that was not imported. A
// miss is not an error; the registry stubs the type instead.
type ClassResolver interface {
	TryResolve(typeName string) (*classfile.ClassRecord, bool)
}

// NoOpResolver never finds anything.
type NoOpResolver struct{}

func (NoOpResolver) TryResolve(string) (*classfile.ClassRecord, bool) { return nil, false }
func (NoOpResolver) String() string                                   { return "none" }

// ClasspathResolver reads missing types from a class path. Hits that
// cannot be read are logged and count as misses.
type ClasspathResolver struct {
	ctx  context.Context
	path classpath.Path
}

func NewClasspathResolver(ctx context.Context, path classpath.Path) *ClasspathResolver {
	return &ClasspathResolver{ctx: ctx, path: path}
}

func (r *ClasspathResolver) TryResolve(typeName string) (*classfile.ClassRecord, bool) {
	entry, ok := r.path.Find(r.ctx, typeName)
	if !ok {
		return nil, false
	}
	rec, err := classpath.ReadEntry(r.ctx, entry)
	if err != nil {
		log.Warningf("resolve %s: %s", typeName, err)
		return nil, false
	}
	if rec.Name != typeName {
		log.Warningf("resolve %s: %s defines %s", typeName, entry.Source, rec.Name)
		return nil, false
	}
	return rec, true
}

func (r *ClasspathResolver) String() string {
	names := make([]string, len(r.path))
	for i, loc := range r.path {
		names[i] = loc.String()
	}
	return "classpath(" + strings.Join(names, ", ") + ")"
}

// ChainResolver asks each resolver in turn and returns the first hit.
type ChainResolver []ClassResolver

func (chain ChainResolver) TryResolve(typeName string) (*classfile.ClassRecord, bool) {
	for _, r := range chain {
		if rec, ok := r.TryResolve(typeName); ok {
			return rec, true
		}
	}
	return nil, false
}

// NewResolver selects the resolution strategy for one session: the class
// path followed by the built-in catalog when resolution is enabled, the
// catalog alone when only the fallback is enabled, nothing otherwise.
func NewResolver(ctx context.Context, opts Options, path classpath.Path) ClassResolver {
	switch {
	case opts.ResolveMissingDependenciesFromClassPath && opts.BuiltinFallback:
		return ChainResolver{NewClasspathResolver(ctx, path), BuiltinResolver{}}
	case opts.ResolveMissingDependenciesFromClassPath:
		return NewClasspathResolver(ctx, path)
	case opts.BuiltinFallback:
		return BuiltinResolver{}
	}
	return NoOpResolver{}
}
