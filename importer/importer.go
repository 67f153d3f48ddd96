package importer

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/classpath"
	"github.com/dhamidi/classgraph/java"
)

var log = commonlog.GetLogger("classgraph.importer")

type Options struct {
	// ResolveMissingDependenciesFromClassPath looks up referenced types that
	// were not imported on Classpath.
	ResolveMissingDependenciesFromClassPath bool
	// BuiltinFallback answers from the catalog of JDK types.
	BuiltinFallback bool
	Classpath       []string
	// Exclude skips entries whose source matches any pattern.
	Exclude     []*regexp.Regexp
	Parallelism int
}

func DefaultOptions() Options {
	return Options{
		ResolveMissingDependenciesFromClassPath: true,
		BuiltinFallback:                         true,
		Parallelism:                             4,
	}
}

// Failure is a class file that could not be imported.
type Failure struct {
	Source string
	Err    error
}

func (f Failure) Error() string { return f.Err.Error() }

type Result struct {
	Classes  *java.Classes
	Failures []Failure
}

// Importer turns class files into a completed class graph. Each call is an
// independent session; an Importer can be reused and shared.
type Importer struct {
	opts Options
}

func New(opts Options) *Importer {
	return &Importer{opts: opts}
}

// Import reads every class file below the named directories, archives and
// files.
func (im *Importer) Import(ctx context.Context, locations ...string) (*Result, error) {
	path, err := classpath.OpenPath(locations...)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	defer path.Close()
	return im.ImportLocations(ctx, path...)
}

func (im *Importer) ImportLocations(ctx context.Context, locations ...classpath.Location) (*Result, error) {
	var entries []classpath.Entry
	for _, loc := range locations {
		found, err := loc.Entries(ctx)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", loc, err)
		}
		for _, e := range found {
			if im.excluded(e) {
				log.Debugf("excluding %s", e.Source)
				continue
			}
			entries = append(entries, e)
		}
	}
	results, err := classpath.ReadAll(ctx, entries, im.opts.Parallelism)
	if err != nil {
		return nil, err
	}
	return im.session(ctx, results)
}

// ImportRecords completes records that were read elsewhere.
func (im *Importer) ImportRecords(ctx context.Context, records ...*classfile.ClassRecord) (*Result, error) {
	results := make([]classpath.Result, len(records))
	for i, rec := range records {
		results[i] = classpath.Result{Entry: classpath.Entry{Source: rec.Name}, Record: rec}
	}
	return im.session(ctx, results)
}

func (im *Importer) excluded(e classpath.Entry) bool {
	for _, re := range im.opts.Exclude {
		if re.MatchString(e.Source) {
			return true
		}
	}
	return false
}

func (im *Importer) session(ctx context.Context, results []classpath.Result) (*Result, error) {
	resolvePath, err := classpath.OpenPath(im.opts.Classpath...)
	if err != nil {
		return nil, fmt.Errorf("open class path: %w", err)
	}
	defer resolvePath.Close()

	registry := NewImportedClasses(NewResolver(ctx, im.opts, resolvePath))
	res := &Result{}
	sources := map[string]string{}
	for _, r := range results {
		if r.Err != nil {
			log.Errorf("%s", r.Err)
			res.Failures = append(res.Failures, Failure{Source: r.Entry.Source, Err: r.Err})
			continue
		}
		c := java.NewClass(r.Record, java.OriginImported)
		if !registry.add(c) {
			first := registry.imported[c.Name()]
			if first.Record().Fingerprint != r.Record.Fingerprint {
				log.Warningf("%s: conflicting definition in %s ignored, using %s", c.Name(), r.Entry.Source, sources[c.Name()])
			}
			continue
		}
		sources[c.Name()] = r.Entry.Source
		for _, problem := range r.Record.Problems {
			log.Warningf("%s: %s", r.Entry.Source, problem)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	completer := java.NewCompleter(registry)
	imported := registry.DirectlyImported()
	for _, c := range imported {
		completer.Complete(c)
	}
	registry.completeResolved(completer)
	completer.LinkDependencies(imported)

	all := registry.All()
	log.Infof("imported %d classes, %d known in total, %d failures", len(imported), len(all), len(res.Failures))
	res.Classes = java.NewClasses(imported, all)
	return res, nil
}
