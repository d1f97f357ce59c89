package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mchmarny/fraudcheck/pkg/check"
	"github.com/mchmarny/fraudcheck/pkg/record"
)

const (
	uploadFieldName     = "file"
	multipartMemoryBits = 20

	inputTypeNumber = "number"
	inputTypeText   = "text"
	inputTypeSelect = "select"
)

// field is one form input as rendered.
type field struct {
	Name    string
	Label   string
	Type    string
	Options []string
	Value   string
}

// page is the data behind the single home template.
type page struct {
	Version     string
	Fields      []field
	Verdict     string
	Error       string
	BatchError  string
	Table       *record.Table
	MaxUploadMB int
}

func faviconHandler(w http.ResponseWriter, r *http.Request) {
	file, err := embedFS.ReadFile("assets/img/favicon.svg")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err = w.Write(file); err != nil {
		slog.Error("failed to write favicon", "error", err)
	}
}

// makeFields lays out the form. Submitted values are echoed back so a
// failed check does not wipe the form.
func makeFields(values url.Values) []field {
	fields := make([]field, len(record.Inputs))
	for i, in := range record.Inputs {
		f := field{
			Name:    in.Name,
			Label:   in.Label,
			Options: in.Options,
			Value:   values.Get(in.Name),
		}
		switch {
		case len(in.Options) > 0:
			f.Type = inputTypeSelect
			if f.Value == "" {
				f.Value = in.Options[0]
			}
		case in.Kind == record.Numeric:
			f.Type = inputTypeNumber
			if f.Value == "" {
				f.Value = "0"
			}
		default:
			f.Type = inputTypeText
		}
		fields[i] = f
	}
	return fields
}

func newPage(cfg *serverConfig, values url.Values) *page {
	return &page{
		Version:     version,
		Fields:      makeFields(values),
		MaxUploadMB: cfg.maxUploadMB,
	}
}

func render(w http.ResponseWriter, tmpl *template.Template, status int, p *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "home", p); err != nil {
		slog.Error("template render failed", "error", err)
	}
}

// statusFor maps a classification error to a response code.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case check.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func homeViewHandler(tmpl *template.Template, cfg *serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, tmpl, http.StatusOK, newPage(cfg, nil))
	}
}

func checkViewHandler(tmpl *template.Template, cfg *serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p := newPage(cfg, nil)
			p.Error = fmt.Sprintf("invalid form: %v", err)
			render(w, tmpl, http.StatusBadRequest, p)
			return
		}

		p := newPage(cfg, r.PostForm)

		rec, err := record.FromForm(r.PostForm)
		if err != nil {
			p.Error = err.Error()
			render(w, tmpl, http.StatusBadRequest, p)
			return
		}

		v, err := cfg.service.Single(r.Context(), rec)
		if err != nil {
			slog.Error("single check failed", "error", err)
			p.Error = err.Error()
			render(w, tmpl, statusFor(err), p)
			return
		}

		p.Verdict = string(v)
		render(w, tmpl, http.StatusOK, p)
	}
}

func batchViewHandler(tmpl *template.Template, cfg *serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := newPage(cfg, nil)

		t, err := classifyUpload(w, r, cfg)
		if err != nil {
			slog.Error("batch check failed", "error", err)
			p.BatchError = err.Error()
			render(w, tmpl, statusFor(err), p)
			return
		}

		p.Table = t
		render(w, tmpl, http.StatusOK, p)
	}
}

// classifyUpload reads the multipart file and runs the batch path on it.
func classifyUpload(w http.ResponseWriter, r *http.Request, cfg *serverConfig) (*record.Table, error) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(cfg.maxUploadMB)*bytesPerMB)
	if err := r.ParseMultipartForm(1 << multipartMemoryBits); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("upload exceeds %d MB: %w", cfg.maxUploadMB, err)
		}
		return nil, fmt.Errorf("%w: invalid upload: %v", record.ErrInvalidValue, err)
	}

	file, _, err := r.FormFile(uploadFieldName)
	if err != nil {
		return nil, fmt.Errorf("%w: no file uploaded", record.ErrInvalidValue)
	}
	defer file.Close()

	t, err := record.ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", record.ErrInvalidValue, err)
	}

	return cfg.service.Batch(r.Context(), t)
}
