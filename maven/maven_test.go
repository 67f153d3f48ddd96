package maven

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.1", -1},
		{"1.1", "1.0", 1},
		{"1.0.0", "1.0", 0},
		{"1.0-alpha", "1.0-beta", -1},
		{"1.0-alpha", "1.0", -1},
		{"1.0-SNAPSHOT", "1.0", -1},
		{"1.0-rc1", "1.0-beta1", 1},
		{"1.0-sp1", "1.0", 1},
		{"1.0.0.Final", "1.0.0", 0},
		{"1.0.0.RELEASE", "1", 0},
		{"2.0", "10.0", -1},
		{"1.0-alpha", "1.0.1", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(ParseVersion(tt.a), ParseVersion(tt.b)))
			assert.Equal(t, -tt.want, CompareVersions(ParseVersion(tt.b), ParseVersion(tt.a)))
		})
	}
}

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		raw     string
		allowed []string
		denied  []string
	}{
		{"1.2", []string{"1.2", "1.2.0"}, []string{"1.3"}},
		{"[1.0,2.0)", []string{"1.0", "1.9.9"}, []string{"2.0", "0.9"}},
		{"(1.0,]", []string{"1.0.1", "99"}, []string{"1.0"}},
		{"[1.5]", []string{"1.5"}, []string{"1.5.1"}},
		{"(,1.0],[1.2,)", []string{"0.5", "1.0", "1.2", "3"}, []string{"1.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req, err := ParseRequirement(tt.raw)
			require.NoError(t, err)
			for _, v := range tt.allowed {
				assert.True(t, req.Allows(ParseVersion(v)), v)
			}
			for _, v := range tt.denied {
				assert.False(t, req.Allows(ParseVersion(v)), v)
			}
		})
	}

	for _, bad := range []string{"", "[1.0", "1.0,2.0", "(1.0)"} {
		_, err := ParseRequirement(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseCoordinate(t *testing.T) {
	c, err := ParseCoordinate("org.example:lib:tests:1.0")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{GroupID: "org.example", ArtifactID: "lib", Classifier: "tests", Version: "1.0"}, c)
	assert.Equal(t, "org.example:lib:tests:1.0", c.String())

	_, err = ParseCoordinate("org.example:lib")
	assert.ErrorContains(t, err, "invalid maven coordinate")
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

// publish puts a pom and, when withJar is set, an empty jar into repo.
func publish(t *testing.T, repo, group, artifact, version, deps string, withJar bool) {
	t.Helper()
	dir := filepath.Join(repo, filepath.FromSlash(strings.ReplaceAll(group, ".", "/")), artifact, version)
	writeFile(t, filepath.Join(dir, artifact+"-"+version+".pom"), `<project>
  <groupId>`+group+`</groupId><artifactId>`+artifact+`</artifactId><version>`+version+`</version>
  <dependencies>`+deps+`</dependencies>
</project>`)
	if withJar {
		writeFile(t, filepath.Join(dir, artifact+"-"+version+".jar"), "")
	}
}

func dep(group, artifact, version, extra string) string {
	return `<dependency><groupId>` + group + `</groupId><artifactId>` + artifact + `</artifactId>` +
		`<version>` + version + `</version>` + extra + `</dependency>`
}

func TestClasspath(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo := filepath.Join(root, "repo")

	publish(t, repo, "org.acme", "core", "1.0",
		dep("org.acme", "util", "2.0", "")+
			dep("org.acme", "extra", "1.0", "<optional>true</optional>")+
			dep("org.acme", "legacy", "1.0", "")+
			dep("org.acme", "shared", "0.9", ""), true)
	publish(t, repo, "org.acme", "util", "2.0", "", true)
	publish(t, repo, "org.acme", "extra", "1.0", "", true)
	publish(t, repo, "org.acme", "legacy", "1.0", "", true)
	publish(t, repo, "org.acme", "shared", "0.9", "", true)
	publish(t, repo, "org.acme", "shared", "1.1", "", true)
	publish(t, repo, "org.acme", "ranged", "1.5", "", true)
	publish(t, repo, "org.acme", "ranged", "2.0", "", true)
	publish(t, repo, "org.acme", "absent", "1.0", "", false)
	publish(t, repo, "org.acme", "junit", "4.0", "", true)

	writeFile(t, filepath.Join(root, "pom.xml"), `<project>
  <groupId>org.example</groupId><artifactId>parent</artifactId><version>3.0</version>
  <properties><core.version>1.0</core.version></properties>
  <dependencyManagement><dependencies>`+dep("org.acme", "shared", "1.1", "")+`</dependencies></dependencyManagement>
</project>`)
	pomFile := filepath.Join(root, "app", "pom.xml")
	writeFile(t, pomFile, `<project>
  <parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>3.0</version></parent>
  <artifactId>app</artifactId>
  <dependencies>`+
		dep("org.acme", "core", "${core.version}", `<exclusions><exclusion><groupId>org.acme</groupId><artifactId>legacy</artifactId></exclusion></exclusions>`)+
		`<dependency><groupId>org.acme</groupId><artifactId>shared</artifactId></dependency>`+
		dep("org.acme", "ranged", "[1.0,2.0)", "")+
		dep("org.acme", "absent", "1.0", "")+
		dep("org.acme", "junit", "4.0", "<scope>test</scope>")+
		`</dependencies>
</project>`)

	r := NewRepository(repo)
	project, err := r.LoadPOM(ctx, pomFile)
	require.NoError(t, err)
	assert.Equal(t, "org.example", project.GroupID)
	assert.Equal(t, "3.0", project.Version)

	artifacts, err := r.Resolve(ctx, project)
	require.NoError(t, err)
	var got []string
	for _, a := range artifacts {
		got = append(got, a.Coordinate.String())
	}
	assert.Equal(t, []string{
		"org.acme:core:1.0",
		"org.acme:shared:1.1",
		"org.acme:ranged:1.5",
		"org.acme:absent:1.0",
		"org.acme:util:2.0",
	}, got)
	assert.Equal(t, 2, artifacts[len(artifacts)-1].Depth)

	jars, err := r.Classpath(ctx, pomFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		r.JarPath(Coordinate{GroupID: "org.acme", ArtifactID: "core", Version: "1.0"}),
		r.JarPath(Coordinate{GroupID: "org.acme", ArtifactID: "shared", Version: "1.1"}),
		r.JarPath(Coordinate{GroupID: "org.acme", ArtifactID: "ranged", Version: "1.5"}),
		r.JarPath(Coordinate{GroupID: "org.acme", ArtifactID: "util", Version: "2.0"}),
	}, jars)
	for _, j := range jars {
		assert.FileExists(t, j)
	}
}

func TestClasspathMissingParent(t *testing.T) {
	root := t.TempDir()
	pomFile := filepath.Join(root, "pom.xml")
	writeFile(t, pomFile, `<project>
  <parent><groupId>org.example</groupId><artifactId>nowhere</artifactId><version>1</version></parent>
  <artifactId>app</artifactId>
</project>`)

	_, err := NewRepository(filepath.Join(root, "repo")).Classpath(context.Background(), pomFile)
	assert.ErrorContains(t, err, "parent of app")
}

func TestEffectiveScope(t *testing.T) {
	tests := []struct {
		declared string
		via      Scope
		want     Scope
	}{
		{"", "", ScopeCompile},
		{"provided", "", ScopeProvided},
		{"test", "", ""},
		{"compile", ScopeRuntime, ScopeRuntime},
		{"runtime", ScopeCompile, ScopeRuntime},
		{"provided", ScopeCompile, ""},
		{"compile", ScopeProvided, ScopeProvided},
	}
	for _, tt := range tests {
		t.Run(tt.declared+"/"+string(tt.via), func(t *testing.T) {
			assert.Equal(t, tt.want, effectiveScope(tt.declared, tt.via))
		})
	}
}
