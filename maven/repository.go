package maven

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

var log = commonlog.GetLogger("classgraph.maven")

// Repository is a local Maven repository: group/as/path/artifact/version/
// artifact-version[-classifier].{pom,jar}.
type Repository struct {
	root string
	fs   afs.Service
	poms map[Coordinate]*POM
}

// DefaultRepositoryRoot is ~/.m2/repository.
func DefaultRepositoryRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}

// NewRepository opens the repository rooted at root, or at
// DefaultRepositoryRoot when root is empty.
func NewRepository(root string) *Repository {
	if root == "" {
		root = DefaultRepositoryRoot()
	}
	return &Repository{root: root, fs: afs.New(), poms: make(map[Coordinate]*POM)}
}

func (r *Repository) Root() string { return r.root }

func artifactPath(key ArtifactKey) string {
	return path.Join(strings.ReplaceAll(key.GroupID, ".", "/"), key.ArtifactID)
}

func filePath(c Coordinate, ext string) string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return path.Join(artifactPath(c.Key()), c.Version, name+"."+ext)
}

func (r *Repository) artifactDir(key ArtifactKey) string {
	return url.Join(r.root, artifactPath(key))
}

func (r *Repository) file(c Coordinate, ext string) string {
	return url.Join(r.root, filePath(c, ext))
}

// JarPath is the filesystem path of the artifact's jar, whether or not it
// exists.
func (r *Repository) JarPath(c Coordinate) string {
	return filepath.Join(r.root, filepath.FromSlash(filePath(c, "jar")))
}

// HasJar reports whether the artifact's jar is present.
func (r *Repository) HasJar(ctx context.Context, c Coordinate) (bool, error) {
	return r.fs.Exists(ctx, r.file(c, "jar"))
}

// Versions lists the versions of key present in the repository.
func (r *Repository) Versions(ctx context.Context, key ArtifactKey) ([]*Version, error) {
	dir := r.artifactDir(key)
	ok, err := r.fs.Exists(ctx, dir)
	if err != nil || !ok {
		return nil, err
	}
	objects, err := r.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", key, err)
	}
	var versions []*Version
	for _, o := range objects {
		// the listing includes dir itself
		if !o.IsDir() || o.Name() == key.ArtifactID {
			continue
		}
		versions = append(versions, ParseVersion(o.Name()))
	}
	return versions, nil
}

// ReadPOM loads the effective project descriptor of c: its parent chain is
// applied and properties are interpolated. Results are cached.
func (r *Repository) ReadPOM(ctx context.Context, c Coordinate) (*POM, error) {
	c.Classifier = ""
	if pom, ok := r.poms[c]; ok {
		return pom, nil
	}
	data, err := r.fs.DownloadWithURL(ctx, r.file(c, "pom"))
	if err != nil {
		return nil, fmt.Errorf("read pom %s: %w", c, err)
	}
	pom, err := ParsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	if err := r.effective(ctx, pom, ""); err != nil {
		return nil, err
	}
	r.poms[c] = pom
	return pom, nil
}

// LoadPOM reads a project descriptor from the filesystem. A parent is looked
// up next to the file (relativePath, ../pom.xml by default) before the
// repository.
func (r *Repository) LoadPOM(ctx context.Context, file string) (*POM, error) {
	data, err := r.fs.DownloadWithURL(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("read pom %s: %w", file, err)
	}
	pom, err := ParsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if err := r.effective(ctx, pom, filepath.Dir(file)); err != nil {
		return nil, err
	}
	return pom, nil
}

func (r *Repository) effective(ctx context.Context, pom *POM, dir string) error {
	if pom.Parent != nil {
		parent, err := r.parent(ctx, pom.Parent, dir)
		if err != nil {
			return fmt.Errorf("parent of %s: %w", pom.ArtifactID, err)
		}
		pom.inherit(parent)
	}
	pom.interpolate()
	r.importBOMs(ctx, pom)
	return nil
}

func (r *Repository) parent(ctx context.Context, p *Parent, dir string) (*POM, error) {
	if dir != "" {
		rel := p.RelativePath
		if rel == "" {
			rel = "../pom.xml"
		}
		candidate := filepath.Join(dir, filepath.FromSlash(rel))
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			candidate = filepath.Join(candidate, "pom.xml")
		}
		if ok, _ := r.fs.Exists(ctx, candidate); ok {
			parent, err := r.LoadPOM(ctx, candidate)
			if err == nil && parent.ArtifactID == p.ArtifactID {
				return parent, nil
			}
		}
	}
	return r.ReadPOM(ctx, p.Coordinate())
}

// importBOMs merges the dependency management of scope=import entries.
func (r *Repository) importBOMs(ctx context.Context, pom *POM) {
	if pom.DependencyManagement == nil {
		return
	}
	var kept []Dependency
	var imported []Dependency
	for _, d := range pom.DependencyManagement.Dependencies {
		if d.Scope != "import" {
			kept = append(kept, d)
			continue
		}
		bom, err := r.ReadPOM(ctx, Coordinate{GroupID: d.GroupID, ArtifactID: d.ArtifactID, Version: d.Version})
		if err != nil {
			log.Warningf("skipping imported bom %s: %s", d.Key(), err)
			continue
		}
		if bom.DependencyManagement != nil {
			imported = append(imported, bom.DependencyManagement.Dependencies...)
		}
	}
	// declared entries win over imported ones
	pom.DependencyManagement.Dependencies = append(kept, imported...)
}
