package server

import (
	"encoding/json"
	"errors"
	"html"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"

	gatepass "github.com/alnah/go-gatepass"
)

// formField describes one input of the form page.
type formField struct {
	Name     string
	Label    string
	Type     string
	Required bool
}

var formFields = []formField{
	{gatepass.FieldName, "Name", "text", true},
	{gatepass.FieldRollNo, "Roll No.", "text", true},
	{gatepass.FieldDateFrom, "From", "date", true},
	{gatepass.FieldDateTo, "To", "date", true},
	{gatepass.FieldArrivalDate, "Arrival Date", "date", true},
	{gatepass.FieldArrivalTime, "Arrival Time", "time", true},
	{gatepass.FieldHomeAddress, "Home Address", "text", false},
	{gatepass.FieldStudentContactNo, "Student Contact No.", "tel", false},
	{gatepass.FieldParentName, "Parent Name", "text", false},
	{gatepass.FieldParentContactNo, "Parent Contact No.", "tel", false},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.index.ExecuteBytes(pongo2.Context{
		"flash":  popFlash(w, r),
		"fields": formFields,
	})
	if err != nil {
		s.log.WithField("request_id", gatepass.RequestIDFromContext(r.Context())).
			WithError(err).Error("rendering form page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.log.WithField("request_id", gatepass.RequestIDFromContext(r.Context())).
			WithError(err).Warn("parsing form")
		s.redirectWithFlash(w, r, msgUnexpected)
		return
	}

	sub := gatepass.SubmissionFromForm(func(field string) string {
		return s.clean(r.PostForm.Get(field))
	})

	art, err := s.gen.Generate(r.Context(), sub)
	if err != nil {
		// The pipeline logs the failure with its stage.
		if errors.Is(err, gatepass.ErrMissingFields) {
			s.redirectWithFlash(w, r, msgMissingFields)
			return
		}
		s.redirectWithFlash(w, r, msgGenerationError)
		return
	}

	http.Redirect(w, r, art.URL, http.StatusSeeOther)
}

// clean trims v and strips any markup from it. Entities produced by the
// sanitizer are decoded: values are written into a document, not HTML.
func (s *Server) clean(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, msg string) {
	setFlash(w, msg)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath != "" {
		// chi matched on the escaped path.
		if v, err := url.PathUnescape(name); err == nil {
			name = v
		}
	}

	path, err := s.files.Resolve(date, name)
	if err != nil {
		if errors.Is(err, gatepass.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		s.log.WithField("request_id", gatepass.RequestIDFromContext(r.Context())).
			WithError(err).Error("resolving gate pass")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	f, err := os.Open(path) // #nosec G304 -- path resolved inside the static directory
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(name))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// contentType returns the media type of a published pass.
func contentType(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
