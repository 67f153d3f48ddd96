package ui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/importer"
	"github.com/dhamidi/classgraph/internal/classgen"
	"github.com/dhamidi/classgraph/java"
)

func sampleGraph(t *testing.T) *java.Classes {
	t.Helper()
	shape := classgen.Interface("com.example.geo.Shape")
	shape.Method("area", "()D")
	circle := classgen.New("com.example.geo.Circle").Implements("com.example.geo.Shape").Source("Circle.java")
	circle.Field("radius", "double")
	circle.Method("area", "()D")
	app := classgen.New("com.example.app.Main")
	app.Method("run", "()V").Code(func(code *classgen.Code) {
		code.Line(12).InvokeInterface("com.example.geo.Shape", "area", "()D").Return()
	})

	var records []*classfile.ClassRecord
	for _, c := range []*classgen.Class{shape, circle, app} {
		rec, err := classfile.ReadBytes(c.Bytes())
		require.NoError(t, err)
		records = append(records, rec)
	}
	res, err := importer.New(importer.Options{}).ImportRecords(context.Background(), records...)
	require.NoError(t, err)
	return res.Classes
}

func get(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestEmbeddedTemplates(t *testing.T) {
	s, err := NewServer(sampleGraph(t))
	require.NoError(t, err)
	tmpl, err := s.parse()
	require.NoError(t, err)
	for _, name := range []string{"header", "footer", "dependencies", "package.html", "class.html", "_results.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestServer(t *testing.T) {
	s, err := NewServer(sampleGraph(t))
	require.NoError(t, err)

	t.Run("root redirects to the default package", func(t *testing.T) {
		code, _ := get(t, s, "/")
		assert.Equal(t, http.StatusSeeOther, code)
	})

	t.Run("default package lists top level packages", func(t *testing.T) {
		code, body := get(t, s, "/p/")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "</html>")
		assert.Contains(t, body, `<a href="/p/com">com</a>`)
	})

	t.Run("package page", func(t *testing.T) {
		code, body := get(t, s, "/p/com.example.geo")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Package &lt;com.example.geo&gt;")
		assert.Contains(t, body, `href="/c/com.example.geo.Circle"`)
		assert.Contains(t, body, `<a href="/p/com.example.app">com.example.app</a>`)
	})

	t.Run("class page", func(t *testing.T) {
		code, body := get(t, s, "/c/com.example.geo.Shape")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Implemented by")
		assert.Contains(t, body, `href="/c/com.example.geo.Circle"`)
		assert.Contains(t, body, "METHOD_CALL")
		assert.Contains(t, body, "<td>12</td>")
	})

	t.Run("stub classes are browsable", func(t *testing.T) {
		code, _ := get(t, s, "/c/java.lang.Object")
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("unknown class", func(t *testing.T) {
		code, body := get(t, s, "/c/com.example.Missing")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, body, "does not contain class com.example.Missing")
	})

	t.Run("unknown package", func(t *testing.T) {
		code, _ := get(t, s, "/p/org")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("search", func(t *testing.T) {
		code, body := get(t, s, "/search?q=CIRC")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "1 classes")
		assert.Contains(t, body, `href="/c/com.example.geo.Circle"`)
	})

	t.Run("static files", func(t *testing.T) {
		code, body := get(t, s, "/static/style.css")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "table.dependencies")
	})
}
