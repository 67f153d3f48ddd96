package java

import (
	"cmp"
	"slices"
	"strings"
)

const packageInfoName = "package-info"

// Package is a node of the package tree. The root is the default package
// with the empty name.
type Package struct {
	name         string
	relativeName string
	parent       *Package
	subPackages  map[string]*Package
	classes      []*Class
	packageInfo  *Class
}

// NewPackageTree groups classes by package name and returns the default
// package. Every missing ancestor package is created, and each class is
// linked to its package.
func NewPackageTree(classes []*Class) *Package {
	root := newPackage("", "", nil)
	var rest []*Class
	for _, c := range classes {
		if c.IsPrimitive() || c.IsArray() {
			rest = append(rest, c)
			continue
		}
		pkg := root.getOrCreate(c.packageName)
		pkg.classes = append(pkg.classes, c)
		if c.simpleName == packageInfoName {
			pkg.packageInfo = c
		}
		c.pkg = pkg
	}
	for _, c := range rest {
		c.pkg = root
		if base := c.BaseComponentType(); base.pkg != nil {
			c.pkg = base.pkg
		}
	}
	root.sort()
	return root
}

func newPackage(name, relativeName string, parent *Package) *Package {
	return &Package{name: name, relativeName: relativeName, parent: parent, subPackages: map[string]*Package{}}
}

func (p *Package) getOrCreate(name string) *Package {
	if name == "" {
		return p
	}
	current := p
	for _, part := range strings.Split(name, ".") {
		next, ok := current.subPackages[part]
		if !ok {
			full := part
			if current.name != "" {
				full = current.name + "." + part
			}
			next = newPackage(full, part, current)
			current.subPackages[part] = next
		}
		current = next
	}
	return current
}

func (p *Package) sort() {
	slices.SortFunc(p.classes, func(a, b *Class) int { return cmp.Compare(a.name, b.name) })
	for _, sub := range p.subPackages {
		sub.sort()
	}
}

func (p *Package) Name() string         { return p.name }
func (p *Package) RelativeName() string { return p.relativeName }
func (p *Package) Description() string  { return "Package <" + p.name + ">" }
func (p *Package) String() string       { return p.Description() }

// Parent is nil for the default package.
func (p *Package) Parent() *Package { return p.parent }

// Package finds a descendant by its dotted name relative to p.
func (p *Package) Package(relativeName string) (*Package, error) {
	if relativeName == "" {
		return p, nil
	}
	current := p
	for _, part := range strings.Split(relativeName, ".") {
		next, ok := current.subPackages[part]
		if !ok {
			return nil, notFound(p.Description(), "package", relativeName)
		}
		current = next
	}
	return current, nil
}

func (p *Package) ContainsPackage(relativeName string) bool {
	_, err := p.Package(relativeName)
	return err == nil
}

// ContainsClass reports whether c lives directly in p.
func (p *Package) ContainsClass(c *Class) bool {
	return c.pkg == p && !c.IsPrimitive() && !c.IsArray()
}

// Class finds a class directly contained in p by its fully qualified name.
func (p *Package) Class(name string) (*Class, error) {
	for _, c := range p.classes {
		if c.name == name {
			return c, nil
		}
	}
	return nil, notFound(p.Description(), "class", name)
}

func (p *Package) ClassWithSimpleName(simpleName string) (*Class, error) {
	for _, c := range p.classes {
		if c.simpleName == simpleName {
			return c, nil
		}
	}
	return nil, notFound(p.Description(), "class with simple name", simpleName)
}

// Classes returns the classes directly in p, sorted by name.
func (p *Package) Classes() []*Class { return slices.Clone(p.classes) }

// AllClasses returns the classes of p and all its descendants.
func (p *Package) AllClasses() []*Class {
	out := slices.Clone(p.classes)
	for _, sub := range p.SubPackages() {
		out = append(out, sub.AllClasses()...)
	}
	return out
}

// SubPackages returns the direct children sorted by name.
func (p *Package) SubPackages() []*Package {
	subs := make([]*Package, 0, len(p.subPackages))
	for _, sub := range p.subPackages {
		subs = append(subs, sub)
	}
	slices.SortFunc(subs, func(a, b *Package) int { return cmp.Compare(a.name, b.name) })
	return subs
}

// AllSubPackages returns every descendant in depth-first order.
func (p *Package) AllSubPackages() []*Package {
	var out []*Package
	for _, sub := range p.SubPackages() {
		out = append(out, sub)
		out = append(out, sub.AllSubPackages()...)
	}
	return out
}

// AcceptClasses calls visit for every class of the subtree matching pred.
func (p *Package) AcceptClasses(pred Predicate[*Class], visit func(*Class)) {
	for _, c := range p.AllClasses() {
		if pred.Test(c) {
			visit(c)
		}
	}
}

// AcceptPackages calls visit for every descendant package matching pred.
func (p *Package) AcceptPackages(pred Predicate[*Package], visit func(*Package)) {
	for _, sub := range p.AllSubPackages() {
		if pred.Test(sub) {
			visit(sub)
		}
	}
}

func (p *Package) contains(c *Class) bool {
	for pkg := c.pkg; pkg != nil; pkg = pkg.parent {
		if pkg == p {
			return true
		}
	}
	return false
}

// PackageDependency aggregates the class dependencies from classes directly
// in Origin to classes directly in Target.
type PackageDependency struct {
	Origin       *Package
	Target       *Package
	Dependencies []Dependency
}

func (pd PackageDependency) Description() string {
	return pd.Origin.Description() + " depends on " + pd.Target.Description()
}

// DirectDependenciesFromSelf aggregates the dependencies of the classes
// directly in p by target package. Dependencies inside p itself are
// included.
func (p *Package) DirectDependenciesFromSelf() []PackageDependency {
	return aggregate(p.classes, func(d Dependency) (*Package, *Package) { return p, d.Target.pkg },
		(*Class).DependenciesFromSelf)
}

func (p *Package) DirectDependenciesToSelf() []PackageDependency {
	return aggregate(p.classes, func(d Dependency) (*Package, *Package) { return d.Origin.pkg, p },
		(*Class).DependenciesToSelf)
}

func aggregate(classes []*Class, ends func(Dependency) (*Package, *Package), deps func(*Class) []Dependency) []PackageDependency {
	index := map[[2]*Package]int{}
	var out []PackageDependency
	for _, c := range classes {
		for _, d := range deps(c) {
			origin, target := ends(d)
			if origin == nil || target == nil {
				continue
			}
			key := [2]*Package{origin, target}
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, PackageDependency{Origin: origin, Target: target})
			}
			out[i].Dependencies = append(out[i].Dependencies, d)
		}
	}
	slices.SortStableFunc(out, func(a, b PackageDependency) int {
		return cmp.Or(cmp.Compare(a.Origin.name, b.Origin.name), cmp.Compare(a.Target.name, b.Target.name))
	})
	return out
}

// ClassDependenciesFromSelf returns the dependencies of classes in the
// subtree of p on classes outside of it, one per origin and target class.
func (p *Package) ClassDependenciesFromSelf() []Dependency {
	return p.boundaryDependencies((*Class).DependenciesFromSelf, func(d Dependency) *Class { return d.Target })
}

// ClassDependenciesToSelf returns the dependencies of classes outside the
// subtree of p on classes inside it, one per origin and target class.
func (p *Package) ClassDependenciesToSelf() []Dependency {
	return p.boundaryDependencies((*Class).DependenciesToSelf, func(d Dependency) *Class { return d.Origin })
}

func (p *Package) boundaryDependencies(deps func(*Class) []Dependency, other func(Dependency) *Class) []Dependency {
	seen := map[[2]*Class]bool{}
	var out []Dependency
	for _, c := range p.AllClasses() {
		for _, d := range deps(c) {
			if p.contains(other(d)) {
				continue
			}
			key := [2]*Class{d.Origin, d.Target}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, d)
		}
	}
	return out
}

// PackageDependenciesFromSelf returns the packages directly containing the
// targets of ClassDependenciesFromSelf.
func (p *Package) PackageDependenciesFromSelf() []*Package {
	return packagesOf(p.ClassDependenciesFromSelf(), func(d Dependency) *Class { return d.Target })
}

// PackageDependenciesToSelf returns the packages directly containing the
// origins of ClassDependenciesToSelf.
func (p *Package) PackageDependenciesToSelf() []*Package {
	return packagesOf(p.ClassDependenciesToSelf(), func(d Dependency) *Class { return d.Origin })
}

func packagesOf(deps []Dependency, end func(Dependency) *Class) []*Package {
	seen := map[*Package]bool{}
	var out []*Package
	for _, d := range deps {
		pkg := end(d).pkg
		if pkg != nil && !seen[pkg] {
			seen[pkg] = true
			out = append(out, pkg)
		}
	}
	slices.SortFunc(out, func(a, b *Package) int { return cmp.Compare(a.name, b.name) })
	return out
}

// PackageInfo returns the package-info class of p.
func (p *Package) PackageInfo() (*Class, error) {
	if p.packageInfo == nil {
		return nil, notFound(p.Description(), "a", packageInfoName+".java")
	}
	return p.packageInfo, nil
}

// Annotations are the annotations of the package-info class, if any.
func (p *Package) Annotations() []*Annotation {
	if p.packageInfo == nil {
		return nil
	}
	return p.packageInfo.Annotations()
}

func (p *Package) AnnotationOfType(typeName string) (*Annotation, error) {
	return findAnnotation(p.Annotations(), p.Description(), typeName)
}

func (p *Package) IsAnnotatedWith(typeName string) bool {
	_, err := p.AnnotationOfType(typeName)
	return err == nil
}
