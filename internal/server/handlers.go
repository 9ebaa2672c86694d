package server

import (
	"archive/zip"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/buildinfo"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/errors"
	"github.com/matzehuels/spriteflow/pkg/flow"
	"github.com/matzehuels/spriteflow/pkg/style"
)

// FlowsHeader lists the flow keys of a build in first-seen order.
const FlowsHeader = "X-Spriteflow-Flows"

// =============================================================================
// Health & Engines
// =============================================================================

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Info: buildinfo.Current()})
}

// EngineInfo describes one registered engine.
type EngineInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// EnginesResponse is the body of GET /v1/engines.
type EnginesResponse struct {
	Engines      []EngineInfo `json:"engines"`
	StyleFormats []string     `json:"style_formats"`
}

func (s *Server) handleEngines(w http.ResponseWriter, _ *http.Request) {
	resp := EnginesResponse{StyleFormats: style.NewTemplates().Formats()}
	for _, name := range s.cfg.Registry.Names() {
		exts := s.cfg.Tables.Engines.ExtensionsFor(name)
		if exts == nil {
			exts = []string{}
		}
		resp.Engines = append(resp.Engines, EngineInfo{Name: name, Extensions: exts})
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Build
// =============================================================================

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput),
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), `no files in form field "files"`)
		return
	}

	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeBuildError(w, r, err)
		return
	}
	files, err := readUploads(uploads)
	if err != nil {
		s.writeBuildError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.BuildTimeout)
	defer cancel()

	o := flow.New(flow.Config{
		Registry: s.cfg.Registry,
		Tables:   s.cfg.Tables,
		Provider: engine.Static(opts),
		Logger:   s.cfg.Logger.With("request_id", requestIDFrom(r.Context())),
		Hooks:    s.cfg.Hooks,
	})

	var out asset.Collector
	if err := o.Process(ctx, files, &out); err != nil {
		s.writeBuildError(w, r, err)
		return
	}

	body, err := zipFiles(out.Files())
	if err != nil {
		s.writeBuildError(w, r, err)
		return
	}

	name := opts.Name
	if name == "" {
		name = engine.DefaultName
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(name)+".zip"))
	w.Header().Set(FlowsHeader, strings.Join(o.Flows(), ","))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// optionsFromQuery builds the static options layer of a build request.
func optionsFromQuery(q url.Values) (engine.Options, error) {
	opts := engine.Options{
		Name:           q.Get("name"),
		Engine:         q.Get("engine"),
		RelativePrefix: q.Get("rel"),
		Image: engine.ImageOptions{
			Name:      q.Get("image_name"),
			Format:    q.Get("image_format"),
			Algorithm: q.Get("algorithm"),
		},
		Style: engine.StyleOptions{
			Name:   q.Get("style_name"),
			Format: q.Get("style_format"),
			Prefix: q.Get("prefix"),
		},
	}

	var err error
	if opts.Image.Padding, err = intParam(q, "padding"); err != nil {
		return opts, err
	}
	if opts.Image.Quality, err = intParam(q, "quality"); err != nil {
		return opts, err
	}
	if opts.Name != "" {
		if err := errors.ValidateName(opts.Name); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func intParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", key, v)
	}
	return n, nil
}

// readUploads loads multipart files in form order.
func readUploads(uploads []*multipart.FileHeader) ([]*asset.File, error) {
	files := make([]*asset.File, 0, len(uploads))
	for _, fh := range uploads {
		if err := errors.ValidatePath(fh.Filename); err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		files = append(files, asset.NewFile(fh.Filename, data))
	}
	return files, nil
}

// zipFiles archives files in emission order.
func zipFiles(files []*asset.File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Path)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.Contents); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
