package classpath

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

var log = commonlog.GetLogger("classgraph.classpath")

const classSuffix = ".class"

// Entry is one class file inside a location.
type Entry struct {
	// Path is slash separated and relative to the location root, for
	// example "com/example/Foo.class". It is empty for single files.
	Path string
	// Source names the entry in messages.
	Source string

	read func(ctx context.Context) ([]byte, error)
}

func (e Entry) Read(ctx context.Context) ([]byte, error) {
	return e.read(ctx)
}

// ClassName derives the binary type name from the entry path, or "" when
// the path does not say.
func (e Entry) ClassName() string {
	if e.Path == "" {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSuffix(e.Path, classSuffix), "/", ".")
}

// Location is one element of a class path.
type Location interface {
	String() string
	// Entries lists every class file of the location in path order.
	Entries(ctx context.Context) ([]Entry, error)
	// Lookup finds the class file with the given relative path.
	Lookup(ctx context.Context, relative string) (Entry, bool, error)
	Close() error
}

// Open picks the location kind from what is on disk: directories, jar or
// zip archives and single class files.
func Open(name string) (Location, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("open location %s: %w", name, err)
	}
	switch {
	case info.IsDir():
		return NewDirLocation(name), nil
	case isArchive(name):
		return NewArchiveLocation(name), nil
	case strings.HasSuffix(name, classSuffix):
		return NewFileLocation(name), nil
	}
	return nil, fmt.Errorf("open location %s: not a directory, archive or class file", name)
}

func isArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jar" || ext == ".zip"
}

// DirLocation is a directory tree of class files.
type DirLocation struct {
	root string
	fs   afs.Service
}

func NewDirLocation(root string) *DirLocation {
	return &DirLocation{root: root, fs: afs.New()}
}

func (d *DirLocation) String() string { return d.root }

func (d *DirLocation) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() || !strings.HasSuffix(info.Name(), classSuffix) {
			return true, nil
		}
		entries = append(entries, d.entry(path.Join(parent, info.Name())))
		return true, nil
	}
	if err := d.fs.Walk(ctx, d.root, visitor); err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ClassName() < entries[j].ClassName() })
	return entries, nil
}

func (d *DirLocation) Lookup(ctx context.Context, relative string) (Entry, bool, error) {
	ok, err := d.fs.Exists(ctx, url.Join(d.root, relative))
	if err != nil || !ok {
		return Entry{}, false, err
	}
	return d.entry(relative), true, nil
}

func (d *DirLocation) entry(relative string) Entry {
	location := url.Join(d.root, relative)
	return Entry{
		Path:   relative,
		Source: filepath.Join(d.root, filepath.FromSlash(relative)),
		read: func(ctx context.Context) ([]byte, error) {
			return d.fs.DownloadWithURL(ctx, location)
		},
	}
}

func (d *DirLocation) Close() error { return nil }

// ArchiveLocation is a jar or zip file. The archive is opened on first use
// and stays open until Close.
type ArchiveLocation struct {
	name string

	once   sync.Once
	reader *zip.ReadCloser
	files  map[string]*zip.File
	err    error
}

func NewArchiveLocation(name string) *ArchiveLocation {
	return &ArchiveLocation{name: name}
}

func (a *ArchiveLocation) String() string { return a.name }

func (a *ArchiveLocation) open() error {
	a.once.Do(func() {
		a.reader, a.err = zip.OpenReader(a.name)
		if a.err != nil {
			a.err = fmt.Errorf("open archive %s: %w", a.name, a.err)
			return
		}
		a.files = make(map[string]*zip.File, len(a.reader.File))
		for _, f := range a.reader.File {
			if _, dup := a.files[f.Name]; !dup {
				a.files[f.Name] = f
			}
		}
	})
	return a.err
}

func (a *ArchiveLocation) Entries(ctx context.Context) ([]Entry, error) {
	if err := a.open(); err != nil {
		return nil, err
	}
	var entries []Entry
	for name, f := range a.files {
		if f.FileInfo().IsDir() || !strings.HasSuffix(name, classSuffix) {
			continue
		}
		entries = append(entries, a.entry(f))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ClassName() < entries[j].ClassName() })
	return entries, nil
}

func (a *ArchiveLocation) Lookup(ctx context.Context, relative string) (Entry, bool, error) {
	if err := a.open(); err != nil {
		return Entry{}, false, err
	}
	f, ok := a.files[relative]
	if !ok {
		return Entry{}, false, nil
	}
	return a.entry(f), true, nil
}

func (a *ArchiveLocation) entry(f *zip.File) Entry {
	return Entry{
		Path:   f.Name,
		Source: a.name + "!" + f.Name,
		read: func(ctx context.Context) ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		},
	}
}

func (a *ArchiveLocation) Close() error {
	if a.reader == nil {
		return nil
	}
	return a.reader.Close()
}

// FileLocation is a single class file. Its type name is only known after
// parsing, so lookups never hit.
type FileLocation struct {
	name string
}

func NewFileLocation(name string) *FileLocation { return &FileLocation{name: name} }

func (f *FileLocation) String() string { return f.name }

func (f *FileLocation) Entries(ctx context.Context) ([]Entry, error) {
	return []Entry{{
		Source: f.name,
		read: func(ctx context.Context) ([]byte, error) {
			return os.ReadFile(f.name)
		},
	}}, nil
}

func (f *FileLocation) Lookup(ctx context.Context, relative string) (Entry, bool, error) {
	return Entry{}, false, nil
}

func (f *FileLocation) Close() error { return nil }
