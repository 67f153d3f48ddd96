package maven

import (
	"context"
	"fmt"
	"sort"
)

type Scope string

const (
	ScopeCompile  Scope = "compile"
	ScopeProvided Scope = "provided"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeSystem   Scope = "system"
)

// Artifact is a dependency selected for the classpath.
type Artifact struct {
	Coordinate
	Scope Scope
	Depth int
}

// effectiveScope combines a declared scope with the scope through which the
// declaring artifact was reached. An empty result drops the dependency.
func effectiveScope(declared string, via Scope) Scope {
	scope := Scope(declared)
	if scope == "" {
		scope = ScopeCompile
	}
	if via == "" {
		switch scope {
		case ScopeSystem, ScopeTest:
			return ""
		}
		return scope
	}
	switch scope {
	case ScopeCompile:
		return via
	case ScopeRuntime:
		return ScopeRuntime
	default:
		// provided, test and system scopes are not transitive
		return ""
	}
}

type exclusions map[ArtifactKey]bool

func (e exclusions) excludes(key ArtifactKey) bool {
	return e[key] ||
		e[ArtifactKey{GroupID: "*", ArtifactID: "*"}] ||
		e[ArtifactKey{GroupID: key.GroupID, ArtifactID: "*"}] ||
		e[ArtifactKey{GroupID: "*", ArtifactID: key.ArtifactID}]
}

func (e exclusions) with(more []Exclusion) exclusions {
	if len(more) == 0 {
		return e
	}
	out := make(exclusions, len(e)+len(more))
	for k := range e {
		out[k] = true
	}
	for _, x := range more {
		out[ArtifactKey{GroupID: x.GroupID, ArtifactID: x.ArtifactID}] = true
	}
	return out
}

type pending struct {
	pom        *POM
	scope      Scope
	depth      int
	exclusions exclusions
}

// Resolve computes the compile and runtime dependencies of project,
// transitively. Conflicts are mediated the Maven way: the declaration
// nearest to the project wins, and among equally near ones the first
// declared. Optional dependencies of dependencies are skipped. Artifacts
// whose descriptor cannot be read are kept without their dependencies.
func (r *Repository) Resolve(ctx context.Context, project *POM) ([]Artifact, error) {
	selected := make(map[ArtifactKey]*Artifact)
	var order []ArtifactKey
	// the project's own management overrides versions at every depth
	managed := project.managed()

	queue := []pending{{pom: project, exclusions: exclusions{}}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := queue[0]
		queue = queue[1:]
		local := cur.pom.managed()

		for _, dep := range cur.pom.Dependencies {
			key := dep.Key()
			if cur.exclusions.excludes(key) || (cur.depth > 0 && dep.IsOptional()) {
				continue
			}
			if _, ok := selected[key]; ok {
				continue
			}
			if dep.Type != "" && dep.Type != "jar" && dep.Type != "bundle" {
				continue
			}
			if m, ok := managed[key]; ok && cur.depth > 0 && m.Version != "" {
				dep.Version = m.Version
			}
			if m, ok := local[key]; ok {
				if dep.Version == "" {
					dep.Version = m.Version
				}
				if dep.Scope == "" {
					dep.Scope = m.Scope
				}
			}
			scope := effectiveScope(dep.Scope, cur.scope)
			if scope == "" {
				continue
			}
			version, err := r.selectVersion(ctx, key, dep.Version)
			if err != nil {
				log.Warningf("skipping %s: %s", key, err)
				continue
			}

			a := &Artifact{
				Coordinate: Coordinate{GroupID: dep.GroupID, ArtifactID: dep.ArtifactID, Version: version, Classifier: dep.Classifier},
				Scope:      scope,
				Depth:      cur.depth + 1,
			}
			selected[key] = a
			order = append(order, key)

			child, err := r.ReadPOM(ctx, a.Coordinate)
			if err != nil {
				log.Debugf("no descriptor for %s: %s", a.Coordinate, err)
				continue
			}
			queue = append(queue, pending{
				pom:        child,
				scope:      scope,
				depth:      cur.depth + 1,
				exclusions: cur.exclusions.with(dep.Exclusions),
			})
		}
	}

	out := make([]Artifact, 0, len(order))
	for _, key := range order {
		out = append(out, *selected[key])
	}
	return out, nil
}

// selectVersion turns a declared requirement into a concrete version. Ranges
// pick the highest version present in the repository.
func (r *Repository) selectVersion(ctx context.Context, key ArtifactKey, declared string) (string, error) {
	req, err := ParseRequirement(declared)
	if err != nil {
		return "", err
	}
	if !req.IsRange() {
		return req.Raw, nil
	}
	versions, err := r.Versions(ctx, key)
	if err != nil {
		return "", err
	}
	sort.Slice(versions, func(i, j int) bool { return CompareVersions(versions[i], versions[j]) > 0 })
	for _, v := range versions {
		if req.Allows(v) {
			return v.Raw, nil
		}
	}
	return "", fmt.Errorf("no local version of %s satisfies %s", key, req.Raw)
}

// Classpath loads the descriptor at pomFile, resolves its dependencies and
// returns the jars present in the repository, nearest first. Missing jars
// are logged and left out.
func (r *Repository) Classpath(ctx context.Context, pomFile string) ([]string, error) {
	project, err := r.LoadPOM(ctx, pomFile)
	if err != nil {
		return nil, err
	}
	artifacts, err := r.Resolve(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", pomFile, err)
	}
	var jars []string
	for _, a := range artifacts {
		ok, err := r.HasJar(ctx, a.Coordinate)
		if err != nil || !ok {
			log.Warningf("%s is not in %s", a.Coordinate, r.root)
			continue
		}
		jars = append(jars, r.JarPath(a.Coordinate))
	}
	log.Infof("%s: %d of %d dependencies on the classpath", pomFile, len(jars), len(artifacts))
	return jars, nil
}
