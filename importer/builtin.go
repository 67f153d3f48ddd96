package importer

import (
	"github.com/dhamidi/classgraph/classfile"
)

const (
	publicClass      = classfile.AccPublic | classfile.AccSuper
	publicFinalClass = publicClass | classfile.AccFinal
	publicAbstract   = publicClass | classfile.AccAbstract
	publicInterface  = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	publicAnnotation = publicInterface | classfile.AccAnnotation
	publicEnum       = publicFinalClass | classfile.AccEnum
)

type builtinType struct {
	flags      classfile.AccessFlags
	super      string
	interfaces []string
}

// builtinTable describes well-known JDK types well enough to place them in
// the hierarchy when no class file for them is on the class path.
var builtinTable = map[string]builtinType{
	// java.lang
	"java.lang.Object":                        {flags: publicClass},
	"java.lang.String":                        {publicFinalClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable", "java.lang.CharSequence"}},
	"java.lang.Number":                        {publicAbstract, "java.lang.Object", []string{"java.io.Serializable"}},
	"java.lang.Integer":                       {publicFinalClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	"java.lang.Long":                          {publicFinalClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	"java.lang.Double":                        {publicFinalClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	"java.lang.Float":                         {publicFinalClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	"java.lang.Short":                         {publicFinalClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	"java.lang.Byte":                          {publicFinalClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	"java.lang.Boolean":                       {publicFinalClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable"}},
	"java.lang.Character":                     {publicFinalClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable"}},
	"java.lang.Void":                          {publicFinalClass, "java.lang.Object", nil},
	"java.lang.Math":                          {publicFinalClass, "java.lang.Object", nil},
	"java.lang.System":                        {publicFinalClass, "java.lang.Object", nil},
	"java.lang.Class":                         {publicFinalClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.reflect.Type"}},
	"java.lang.ClassLoader":                   {publicAbstract, "java.lang.Object", nil},
	"java.lang.Thread":                        {publicClass, "java.lang.Object", []string{"java.lang.Runnable"}},
	"java.lang.ThreadLocal":                   {publicClass, "java.lang.Object", nil},
	"java.lang.StringBuilder":                 {publicFinalClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable", "java.lang.CharSequence"}},
	"java.lang.StringBuffer":                  {publicFinalClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable", "java.lang.CharSequence"}},
	"java.lang.Enum":                          {publicAbstract, "java.lang.Object", []string{"java.lang.Comparable", "java.io.Serializable"}},
	"java.lang.Record":                        {publicAbstract, "java.lang.Object", nil},
	"java.lang.Throwable":                     {publicClass, "java.lang.Object", []string{"java.io.Serializable"}},
	"java.lang.Exception":                     {publicClass, "java.lang.Throwable", nil},
	"java.lang.RuntimeException":              {publicClass, "java.lang.Exception", nil},
	"java.lang.Error":                         {publicClass, "java.lang.Throwable", nil},
	"java.lang.NullPointerException":          {publicClass, "java.lang.RuntimeException", nil},
	"java.lang.IllegalArgumentException":      {publicClass, "java.lang.RuntimeException", nil},
	"java.lang.IllegalStateException":         {publicClass, "java.lang.RuntimeException", nil},
	"java.lang.IndexOutOfBoundsException":     {publicClass, "java.lang.RuntimeException", nil},
	"java.lang.UnsupportedOperationException": {publicClass, "java.lang.RuntimeException", nil},
	"java.lang.Iterable":                      {flags: publicInterface},
	"java.lang.AutoCloseable":                 {flags: publicInterface},
	"java.lang.Runnable":                      {flags: publicInterface},
	"java.lang.Comparable":                    {flags: publicInterface},
	"java.lang.CharSequence":                  {flags: publicInterface},
	"java.lang.Cloneable":                     {flags: publicInterface},
	"java.lang.Override":                      {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.Deprecated":                    {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.SuppressWarnings":              {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.FunctionalInterface":           {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.reflect.Type":                  {flags: publicInterface},

	// java.lang.annotation
	"java.lang.annotation.Annotation":      {flags: publicInterface},
	"java.lang.annotation.Retention":       {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.annotation.Target":          {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.annotation.Documented":      {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.annotation.Inherited":       {publicAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	"java.lang.annotation.RetentionPolicy": {publicEnum, "java.lang.Enum", nil},
	"java.lang.annotation.ElementType":     {publicEnum, "java.lang.Enum", nil},

	// java.io
	"java.io.Serializable":         {flags: publicInterface},
	"java.io.Closeable":            {publicInterface, "", []string{"java.lang.AutoCloseable"}},
	"java.io.InputStream":          {publicAbstract, "java.lang.Object", []string{"java.io.Closeable"}},
	"java.io.OutputStream":         {publicAbstract, "java.lang.Object", []string{"java.io.Closeable"}},
	"java.io.PrintStream":          {publicClass, "java.io.OutputStream", nil},
	"java.io.IOException":          {publicClass, "java.lang.Exception", nil},
	"java.io.UncheckedIOException": {publicClass, "java.lang.RuntimeException", nil},

	// java.util
	"java.util.Collection":          {publicInterface, "", []string{"java.lang.Iterable"}},
	"java.util.List":                {publicInterface, "", []string{"java.util.Collection"}},
	"java.util.Set":                 {publicInterface, "", []string{"java.util.Collection"}},
	"java.util.Queue":               {publicInterface, "", []string{"java.util.Collection"}},
	"java.util.Deque":               {publicInterface, "", []string{"java.util.Queue"}},
	"java.util.Map":                 {flags: publicInterface},
	"java.util.Iterator":            {flags: publicInterface},
	"java.util.Comparator":          {flags: publicInterface},
	"java.util.RandomAccess":        {flags: publicInterface},
	"java.util.AbstractCollection":  {publicAbstract, "java.lang.Object", []string{"java.util.Collection"}},
	"java.util.AbstractList":        {publicAbstract, "java.util.AbstractCollection", []string{"java.util.List"}},
	"java.util.AbstractSet":         {publicAbstract, "java.util.AbstractCollection", []string{"java.util.Set"}},
	"java.util.AbstractMap":         {publicAbstract, "java.lang.Object", []string{"java.util.Map"}},
	"java.util.ArrayList":           {publicClass, "java.util.AbstractList", []string{"java.util.List", "java.util.RandomAccess", "java.lang.Cloneable", "java.io.Serializable"}},
	"java.util.LinkedList":          {publicClass, "java.util.AbstractList", []string{"java.util.List", "java.util.Deque", "java.lang.Cloneable", "java.io.Serializable"}},
	"java.util.HashMap":             {publicClass, "java.util.AbstractMap", []string{"java.util.Map", "java.lang.Cloneable", "java.io.Serializable"}},
	"java.util.HashSet":             {publicClass, "java.util.AbstractSet", []string{"java.util.Set", "java.lang.Cloneable", "java.io.Serializable"}},
	"java.util.Optional":            {publicFinalClass, "java.lang.Object", nil},
	"java.util.Objects":             {publicFinalClass, "java.lang.Object", nil},
	"java.util.Collections":         {publicClass, "java.lang.Object", nil},
	"java.util.Arrays":              {publicClass, "java.lang.Object", nil},
	"java.util.function.Function":   {flags: publicInterface},
	"java.util.function.Supplier":   {flags: publicInterface},
	"java.util.function.Consumer":   {flags: publicInterface},
	"java.util.function.Predicate":  {flags: publicInterface},
	"java.util.function.BiFunction": {flags: publicInterface},
	"java.util.stream.Stream":       {publicInterface, "", []string{"java.util.stream.BaseStream"}},
	"java.util.stream.BaseStream":   {publicInterface, "", []string{"java.lang.AutoCloseable"}},
	"java.util.concurrent.Callable": {flags: publicInterface},
	"java.util.concurrent.Executor": {flags: publicInterface},
	"java.util.concurrent.Future":   {flags: publicInterface},
	"java.util.concurrent.TimeUnit": {publicEnum, "java.lang.Enum", nil},
}

// BuiltinResolver answers from a fixed catalog of JDK types. It stands in
// for runtime type information when a class is not on the class path.
type BuiltinResolver struct{}

func (BuiltinResolver) TryResolve(typeName string) (*classfile.ClassRecord, bool) {
	t, ok := builtinTable[typeName]
	if !ok {
		return nil, false
	}
	return &classfile.ClassRecord{
		Name:           typeName,
		AccessFlags:    t.flags,
		SuperName:      t.super,
		InterfaceNames: append([]string(nil), t.interfaces...),
	}, true
}

func (BuiltinResolver) String() string { return "builtin" }
