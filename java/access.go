package java

import (
	"slices"
	"strings"

	"github.com/dhamidi/classgraph/classfile"
)

type AccessKind = classfile.AccessKind

const (
	AccessMethodCall      = classfile.AccessMethodCall
	AccessConstructorCall = classfile.AccessConstructorCall
	AccessFieldGet        = classfile.AccessFieldGet
	AccessFieldSet        = classfile.AccessFieldSet
	AccessInstanceof      = classfile.AccessInstanceof
	AccessCheckcast       = classfile.AccessCheckcast
	AccessClassObject     = classfile.AccessClassObject
)

// Access is one instruction of a code unit that refers to another class or
// one of its members.
type Access struct {
	origin     *CodeUnit
	kind       AccessKind
	owner      *Class
	name       string
	descriptor string
	line       int

	field    *Field
	codeUnit *CodeUnit
}

func (a *Access) Origin() *CodeUnit { return a.origin }
func (a *Access) Kind() AccessKind  { return a.kind }

// TargetOwner is the class named by the instruction, which may be a
// subclass of the class declaring the member.
func (a *Access) TargetOwner() *Class { return a.owner }
func (a *Access) TargetName() string  { return a.name }
func (a *Access) Line() int           { return a.line }

// TargetField is the resolved field of a field access, or nil.
func (a *Access) TargetField() *Field { return a.field }

// TargetCodeUnit is the resolved method or constructor of a call, or nil.
func (a *Access) TargetCodeUnit() *CodeUnit { return a.codeUnit }

// TargetDescription renders the target the way dependency descriptions do.
func (a *Access) TargetDescription() string {
	switch a.kind {
	case AccessMethodCall, AccessConstructorCall:
		var params []string
		if md := classfile.ParseMethodDescriptor(a.descriptor); md != nil {
			params = md.ParameterTypeNames()
		}
		return a.owner.Name() + "." + a.name + "(" + strings.Join(params, ", ") + ")"
	case AccessFieldGet, AccessFieldSet:
		return a.owner.Name() + "." + a.name
	}
	return a.owner.Name()
}

func (a *Access) Description() string {
	var verb string
	switch a.kind {
	case AccessMethodCall:
		verb = "calls method"
	case AccessConstructorCall:
		verb = "calls constructor"
	case AccessFieldGet:
		verb = "gets field"
	case AccessFieldSet:
		verb = "sets field"
	case AccessInstanceof:
		verb = "checks instanceof"
	case AccessCheckcast:
		verb = "casts to"
	case AccessClassObject:
		verb = "references class object"
	}
	return a.origin.Description() + " " + verb + " <" + a.TargetDescription() + "> in " + a.origin.owner.sourceLocation(a.line)
}

func filterAccesses(accs []*Access, kinds ...AccessKind) []*Access {
	var out []*Access
	for _, a := range accs {
		if slices.Contains(kinds, a.kind) {
			out = append(out, a)
		}
	}
	return out
}

// resolveTarget looks for the accessed member on the named owner, then its
// superclasses, then its interfaces.
func (a *Access) resolveTarget() {
	switch a.kind {
	case AccessFieldGet, AccessFieldSet:
		for _, c := range a.candidates() {
			for _, f := range c.fields {
				if f.name == a.name {
					a.field = f
					return
				}
			}
		}
	case AccessMethodCall, AccessConstructorCall:
		for _, c := range a.candidates() {
			for _, u := range c.CodeUnits() {
				if u.name == a.name && u.descriptor == a.descriptor {
					a.codeUnit = u
					return
				}
			}
			if a.kind == AccessConstructorCall {
				return
			}
		}
	}
}

func (a *Access) candidates() []*Class {
	return slices.Concat([]*Class{a.owner}, a.owner.AllSuperclasses(), a.owner.AllInterfaces())
}
