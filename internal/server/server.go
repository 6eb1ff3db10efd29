package server

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	gatepass "github.com/alnah/go-gatepass"
)

//go:embed templates/*.html
var templatesFS embed.FS

const indexTemplate = "index.html"

// maxFormBytes bounds the submitted form body.
const maxFormBytes = 64 << 10

// Generator runs the pipeline for one submission.
type Generator interface {
	Generate(ctx context.Context, sub gatepass.Submission) (*gatepass.Artifact, error)
}

// Resolver maps a (date, filename) pair from a view URL to a published file.
// It returns an error matching gatepass.ErrNotFound when there is none.
type Resolver interface {
	Resolve(date, filename string) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ Generator    = (*gatepass.Service)(nil)
	_ Resolver     = (*gatepass.Service)(nil)
	_ http.Handler = (*Server)(nil)
)

// Server is the HTTP front end of the gate pass service.
type Server struct {
	gen    Generator
	files  Resolver
	log    logrus.FieldLogger
	index  *pongo2.Template
	policy *bluemonday.Policy
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and handler errors.
// A nil logger is ignored.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds the router. It fails only if the embedded page template
// cannot be parsed.
func New(gen Generator, files Resolver, opts ...Option) (*Server, error) {
	s := &Server{
		gen:    gen,
		files:  files,
		log:    discardLogger(),
		policy: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}

	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("loading page templates: %w", err)
	}
	set := pongo2.NewSet("gatepass", pongo2.NewFSLoader(sub))
	s.index, err = set.FromFile(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", indexTemplate, err)
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/submit", s.handleSubmit)
	r.Get("/view/{date}/{filename}", s.handleView)
	r.Get("/healthz", s.handleHealth)

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
