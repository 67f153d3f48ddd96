package classpath

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/classgraph/classfile"
)

// Path is an ordered search path. Earlier locations shadow later ones.
type Path []Location

// OpenPath opens every named location. Locations that were opened before
// a failure are closed again.
func OpenPath(names ...string) (Path, error) {
	var p Path
	for _, name := range names {
		loc, err := Open(name)
		if err != nil {
			p.Close()
			return nil, err
		}
		p = append(p, loc)
	}
	return p, nil
}

// RelativePath maps a binary type name to the class file path inside a
// location: "com.example.Outer$Inner" becomes "com/example/Outer$Inner.class".
func RelativePath(typeName string) string {
	return strings.ReplaceAll(typeName, ".", "/") + classSuffix
}

// Find returns the first entry defining typeName. Locations that fail to
// answer are logged and skipped.
func (p Path) Find(ctx context.Context, typeName string) (Entry, bool) {
	relative := RelativePath(typeName)
	for _, loc := range p {
		entry, ok, err := loc.Lookup(ctx, relative)
		if err != nil {
			log.Warningf("lookup %s in %s: %s", typeName, loc, err)
			continue
		}
		if ok {
			return entry, true
		}
	}
	return Entry{}, false
}

func (p Path) Close() error {
	var errs []error
	for _, loc := range p {
		errs = append(errs, loc.Close())
	}
	return errors.Join(errs...)
}

// Result is the outcome of reading one entry. Exactly one of Record and
// Err is set.
type Result struct {
	Entry  Entry
	Record *classfile.ClassRecord
	Err    error
}

// ReadAll parses entries with at most parallelism goroutines. Results are
// in the order of entries. A failing entry only fails its own result; the
// returned error is set when ctx is cancelled.
func ReadAll(ctx context.Context, entries []Entry, parallelism int) ([]Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	results := make([]Result, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = readEntry(ctx, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read class files: %w", err)
	}
	return results, nil
}

// ReadEntry parses a single entry.
func ReadEntry(ctx context.Context, entry Entry) (*classfile.ClassRecord, error) {
	r := readEntry(ctx, entry)
	return r.Record, r.Err
}

func readEntry(ctx context.Context, entry Entry) Result {
	data, err := entry.Read(ctx)
	if err != nil {
		return Result{Entry: entry, Err: fmt.Errorf("read %s: %w", entry.Source, err)}
	}
	rec, err := classfile.ReadBytes(data)
	if err != nil {
		return Result{Entry: entry, Err: classfile.WithSource(err, entry.Source)}
	}
	log.Debugf("read %s from %s", rec.Name, entry.Source)
	return Result{Entry: entry, Record: rec}
}
