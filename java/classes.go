package java

import "slices"

// Classes is the result of an import: the directly imported classes plus
// every class they reach, and the package tree over all of them.
type Classes struct {
	imported []*Class
	all      []*Class
	byName   map[string]*Class
	root     *Package
}

// NewClasses builds the package tree over all. Both slices are expected in
// name order.
func NewClasses(imported, all []*Class) *Classes {
	cs := &Classes{
		imported: slices.Clone(imported),
		all:      slices.Clone(all),
		byName:   make(map[string]*Class, len(all)),
	}
	for _, c := range all {
		cs.byName[c.name] = c
	}
	cs.root = NewPackageTree(cs.all)
	return cs
}

// Get returns a directly imported class.
func (cs *Classes) Get(name string) (*Class, error) {
	for _, c := range cs.imported {
		if c.name == name {
			return c, nil
		}
	}
	return nil, notFound("Imported classes", "class", name)
}

// Find returns any node of the graph, including resolved classes and stubs.
func (cs *Classes) Find(name string) (*Class, bool) {
	c, ok := cs.byName[name]
	return c, ok
}

func (cs *Classes) Contain(name string) bool {
	_, err := cs.Get(name)
	return err == nil
}

// That keeps the imported classes matching pred. The package tree and the
// graph are shared with cs.
func (cs *Classes) That(pred Predicate[*Class]) *Classes {
	var kept []*Class
	for _, c := range cs.imported {
		if pred.Test(c) {
			kept = append(kept, c)
		}
	}
	return &Classes{imported: kept, all: cs.all, byName: cs.byName, root: cs.root}
}

func (cs *Classes) Each(fn func(*Class)) {
	for _, c := range cs.imported {
		fn(c)
	}
}

func (cs *Classes) Slice() []*Class { return slices.Clone(cs.imported) }
func (cs *Classes) Len() int        { return len(cs.imported) }

// All returns every node of the graph in name order.
func (cs *Classes) All() []*Class { return slices.Clone(cs.all) }

func (cs *Classes) DefaultPackage() *Package { return cs.root }

func (cs *Classes) Package(name string) (*Package, error) {
	return cs.root.Package(name)
}
