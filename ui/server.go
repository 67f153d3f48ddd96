// Package ui serves a read-only HTML browser over an imported class graph.
package ui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/classgraph/java"
)

var log = commonlog.GetLogger("classgraph.ui")

//go:embed static all:templates
var embeddedFS embed.FS

const maxResults = 20

type Server struct {
	classes    *java.Classes
	staticFS   fs.FS
	templateFS fs.FS
	funcMap    template.FuncMap
	router     chi.Router
}

// NewServer serves classes. Templates and static files under ui/ in the
// working directory take precedence over the embedded ones, so they can be
// edited without rebuilding.
func NewServer(classes *java.Classes) (*Server, error) {
	s := &Server{
		classes:    classes,
		staticFS:   overlayFS("ui/static", mustSub(embeddedFS, "static")),
		templateFS: overlayFS("ui/templates", mustSub(embeddedFS, "templates")),
		router:     chi.NewMux(),
	}
	s.funcMap = template.FuncMap{
		"classLink": s.classLink,
		"typeLink": func(t java.Type) template.HTML {
			if t == nil {
				return ""
			}
			if c, ok := t.(*java.Class); ok {
				return s.classLink(c)
			}
			return template.HTML(template.HTMLEscapeString(t.Name()))
		},
		"packageLink": packageLink,
		"modifiers": func(m java.Modifiers) string {
			return strings.Join(m.Names(), " ")
		},
		"parameters": func(u *java.CodeUnit) string {
			return strings.Join(u.ParameterTypeNames(), ", ")
		},
	}
	// parse once up front so broken templates fail at startup
	if _, err := s.parse(); err != nil {
		return nil, err
	}

	s.router.Use(middleware.Recoverer, middleware.Compress(5))
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/p/", http.StatusSeeOther)
	})
	s.router.Get("/p/*", s.handlePackage)
	s.router.Get("/c/*", s.handleClass)
	s.router.Get("/search", s.handleSearch)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
		BaseContext: func(net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Debugf("shutting down %s", addr)
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func (s *Server) parse() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := s.parse()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

func (s *Server) classLink(c *java.Class) template.HTML {
	if c == nil {
		return ""
	}
	name := template.HTMLEscapeString(c.Name())
	base := c.BaseComponentType()
	if base.IsPrimitive() {
		return template.HTML(name)
	}
	if _, ok := s.classes.Find(base.Name()); !ok {
		return template.HTML(name)
	}
	return template.HTML(fmt.Sprintf(`<a href="/c/%s" class="origin-%s">%s</a>`,
		template.URLQueryEscaper(base.Name()), c.Origin(), name))
}

func packageLink(p *java.Package) template.HTML {
	if p == nil {
		return ""
	}
	label := p.Name()
	if label == "" {
		label = "(default package)"
	}
	return template.HTML(fmt.Sprintf(`<a href="/p/%s">%s</a>`,
		template.URLQueryEscaper(p.Name()), template.HTMLEscapeString(label)))
}

type packageView struct {
	Package      *java.Package
	Ancestors    []*java.Package
	SubPackages  []*java.Package
	Classes      []*java.Class
	Dependencies []java.PackageDependency
	Dependents   []java.PackageDependency
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	pkg, err := s.classes.Package(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	view := packageView{
		Package:      pkg,
		SubPackages:  pkg.SubPackages(),
		Classes:      pkg.Classes(),
		Dependencies: pkg.DirectDependenciesFromSelf(),
		Dependents:   pkg.DirectDependenciesToSelf(),
	}
	for p := pkg.Parent(); p != nil; p = p.Parent() {
		view.Ancestors = append([]*java.Package{p}, view.Ancestors...)
	}
	s.render(w, "package.html", view)
}

type classView struct {
	Class        *java.Class
	Superclasses []*java.Class
	Implementers []*java.Class
	Dependencies []java.Dependency
	Dependents   []java.Dependency
}

func (s *Server) handleClass(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	c, ok := s.classes.Find(name)
	if !ok {
		http.Error(w, (&java.NotFoundError{Container: "Class graph", Kind: "class", Identifier: name}).Error(), http.StatusNotFound)
		return
	}
	view := classView{
		Class:        c,
		Superclasses: c.AllSuperclasses(),
		Dependencies: c.DependenciesFromSelf(),
		Dependents:   c.DependenciesToSelf(),
	}
	if c.IsInterface() {
		s.classes.Each(func(other *java.Class) {
			if other != c && other.IsAssignableTo(c.Name()) {
				view.Implementers = append(view.Implementers, other)
			}
		})
	}
	s.render(w, "class.html", view)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	var matches []*java.Class
	total := 0
	s.classes.Each(func(c *java.Class) {
		if query != "" && !strings.Contains(strings.ToLower(c.Name()), query) {
			return
		}
		total++
		if len(matches) < maxResults {
			matches = append(matches, c)
		}
	})
	s.render(w, "_results.html", struct {
		Query   string
		Classes []*java.Class
		Total   int
		HasMore bool
	}{query, matches, total, total > len(matches)})
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlay serves files from primary when present there, else from
// secondary. Glob merges both listings.
type overlay struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlay{primary: os.DirFS(primaryPath), secondary: secondary}
}

func (o *overlay) Open(name string) (fs.File, error) {
	if f, err := o.primary.Open(name); err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlay) Glob(pattern string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	return names, nil
}
