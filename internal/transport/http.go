package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/mcp"
)

const (
	maxImportBytes = 32 << 20
	maxUploadBytes = 64 << 20
)

// CommandHandler handles command dispatch.
type CommandHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// AttachmentService stores uploaded project files.
type AttachmentService interface {
	SaveAttachment(ctx context.Context, id, name string, r io.Reader) (*project.Record, error)
}

// AttachmentReader opens stored project files.
type AttachmentReader interface {
	Open(projectID, name string) (*os.File, error)
}

// DocsService manages documentation screenshots.
type DocsService interface {
	SaveEntry(ctx context.Context, req docs.SaveRequest) (*docs.Entry, error)
	List(ctx context.Context) []docs.Entry
	Open(ctx context.Context, file string) ([]byte, error)
}

// Options wires the HTTP server. Only Handler is required.
type Options struct {
	Handler     CommandHandler
	Projects    AttachmentService
	Attachments AttachmentReader
	Docs        DocsService
	MCP         http.Handler
	Metrics     http.Handler
	Observer    RequestObserver
	Logger      *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler     CommandHandler
	projects    AttachmentService
	attachments AttachmentReader
	docs        DocsService
	logger      *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger, opts.Observer))

	srv := &Server{
		handler:     opts.Handler,
		projects:    opts.Projects,
		attachments: opts.Attachments,
		docs:        opts.Docs,
		logger:      logger,
	}

	r.Post("/rpc", srv.handleRPC)
	r.Get("/health", srv.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	r.Get("/export/json", srv.handleExport("export_json"))
	r.Get("/export/csv", srv.handleExport("export_csv"))
	r.Post("/import", srv.handleImport)

	if srv.projects != nil {
		r.Post("/projects/{id}/attachments", srv.handleUploadAttachments)
	}
	if srv.attachments != nil {
		r.Get("/projects/{id}/attachments/{name}", srv.handleGetAttachment)
	}
	if srv.docs != nil {
		r.Post("/docs", srv.handleUploadDoc)
		r.Get("/docs", srv.handleListDocs)
		r.Get("/docs/{file}", srv.handleGetDoc)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		if errors.Is(err, ErrParse) {
			WriteError(w, nil, ErrParseCode, "parse error", nil)
			return
		}
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		code, message, data := rpcError(err)
		if code == ErrInternal {
			s.logger.Error("command failed", "method", req.Method, "error", err)
		}
		WriteError(w, req.ID, code, message, data)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) handleExport(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.handler.Handle(r.Context(), method, nil)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		export, ok := result.(mcp.ExportResponse)
		if !ok {
			writeServiceError(w, r, fmt.Errorf("unexpected %s result %T", method, result))
			return
		}
		w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.FileName}))
		_, _ = io.WriteString(w, export.Content)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		badRequest(w, r, fmt.Sprintf("reading upload: %v", err))
		return
	}
	params, err := json.Marshal(mcp.ImportProjectsParams{Content: string(raw)})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := s.handler.Handle(r.Context(), "import_projects", params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONBody(w, http.StatusOK, result)
}

func (s *Server) handleUploadAttachments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, r, fmt.Sprintf("reading upload: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeProblem(w, r, http.StatusBadRequest, "missing_file", "no file uploaded")
		return
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			badRequest(w, r, fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		_, err = s.projects.SaveAttachment(r.Context(), id, fh.Filename, f)
		_ = f.Close()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	params, _ := json.Marshal(mcp.ProjectIDParams{ID: id})
	result, err := s.handler.Handle(r.Context(), "get_project", params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONBody(w, http.StatusCreated, result)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	f, err := s.attachments.Open(chi.URLParam(r, "id"), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if info.IsDir() {
		notFound(w, r, "attachment not found")
		return
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name()}))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) handleUploadDoc(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, r, fmt.Sprintf("reading upload: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := docs.SaveRequest{
		Description: r.FormValue("desc"),
		ProjectID:   r.FormValue("project_id"),
	}
	if f, fh, err := r.FormFile("file"); err == nil {
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			badRequest(w, r, fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		req.FileName = fh.Filename
		req.Data = data
	}

	entry, err := s.docs.SaveEntry(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONBody(w, http.StatusCreated, entry)
}

func (s *Server) handleListDocs(w http.ResponseWriter, r *http.Request) {
	writeJSONBody(w, http.StatusOK, s.docs.List(r.Context()))
}

func (s *Server) handleGetDoc(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	data, err := s.docs.Open(r.Context(), file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(file))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, file, time.Time{}, bytes.NewReader(data))
}

func writeJSONBody(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
