// Package server exposes the fusion actions over HTTP. Images travel as
// request and response bodies; nothing is stored between requests.
package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/pngfuse/internal/fusion"
	"github.com/samcharles93/pngfuse/internal/logger"
	"github.com/samcharles93/pngfuse/pkg/png"
	"github.com/samcharles93/pngfuse/pkg/subfile"
	"github.com/samcharles93/pngfuse/pkg/zchunk"
)

const (
	HeaderRemoved   = "X-Pngfuse-Removed"
	HeaderRequestID = "X-Request-Id"

	mimePNG = "image/png"

	defaultMaxBody = 64 << 20
)

// Config controls request limits.
type Config struct {
	// MaxBodyBytes caps the size of an uploaded request body. Zero means
	// 64 MiB.
	MaxBodyBytes int64
	// Workers bounds parallel record encoding during fuse.
	Workers int
}

type Server struct {
	cfg Config
	log logger.Logger
}

func New(cfg Config, log logger.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBody
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{cfg: cfg, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/list", s.handleList)
	e.POST("/v1/extract", s.handleExtract)
	e.POST("/v1/fuse", s.handleFuse)
	e.POST("/v1/clean", s.handleClean)
}

type listResponse struct {
	Files []fusion.Entry `json:"files"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(c *echo.Context) error {
	data, err := s.readBody(c)
	if err != nil {
		return s.writeFailure(c, err)
	}
	entries, err := fusion.ListBytes(data)
	if err != nil {
		return s.writeFailure(c, err)
	}
	if entries == nil {
		entries = []fusion.Entry{}
	}
	return writeJSON(c, http.StatusOK, listResponse{Files: entries})
}

func (s *Server) handleExtract(c *echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "name query parameter is required")
	}
	data, err := s.readBody(c)
	if err != nil {
		return s.writeFailure(c, err)
	}
	f, err := fusion.ExtractBytes(data, name)
	if err != nil {
		return s.writeFailure(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, f.Content)
}

func (s *Server) handleFuse(c *echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, s.cfg.MaxBodyBytes)
	form, err := c.MultipartForm()
	if err != nil {
		return s.writeFailure(c, badRequest(err))
	}

	images := form.File["image"]
	if len(images) != 1 {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "exactly one image part is required")
	}
	image, err := readPart(images[0])
	if err != nil {
		return s.writeFailure(c, err)
	}

	parts := form.File["file"]
	if len(parts) == 0 {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "at least one file part is required")
	}
	files := make([]subfile.File, 0, len(parts))
	for _, fh := range parts {
		content, err := readPart(fh)
		if err != nil {
			return s.writeFailure(c, err)
		}
		files = append(files, subfile.File{Name: fh.Filename, Content: content})
	}

	out, err := fusion.FuseBytes(logger.WithContext(req.Context(), s.log), image, files, s.cfg.Workers)
	if err != nil {
		return s.writeFailure(c, err)
	}
	s.log.Info("fused upload", "request_id", requestID(c), "files", len(files), "size", len(out))
	return c.Blob(http.StatusOK, mimePNG, out)
}

func (s *Server) handleClean(c *echo.Context) error {
	data, err := s.readBody(c)
	if err != nil {
		return s.writeFailure(c, err)
	}
	out, n, err := fusion.CleanBytes(data)
	if err != nil {
		return s.writeFailure(c, err)
	}
	c.Response().Header().Set(HeaderRemoved, strconv.Itoa(n))
	return c.Blob(http.StatusOK, mimePNG, out)
}

func (s *Server) readBody(c *echo.Context) ([]byte, error) {
	req := c.Request()
	return io.ReadAll(http.MaxBytesReader(c.Response(), req.Body, s.cfg.MaxBodyBytes))
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

type badRequestError struct {
	err error
}

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return badRequestError{err: err}
}

// writeFailure maps the error taxonomy of the core packages onto HTTP
// status codes.
func (s *Server) writeFailure(c *echo.Context, err error) error {
	var (
		maxErr *http.MaxBytesError
		badReq badRequestError
	)
	switch {
	case errors.As(err, &maxErr):
		return writeError(c, http.StatusRequestEntityTooLarge, "request_too_large", err.Error())
	case errors.Is(err, fusion.ErrNotFound):
		return writeError(c, http.StatusNotFound, "not_found_error", err.Error())
	case errors.Is(err, png.ErrFormat):
		return writeError(c, http.StatusUnprocessableEntity, "format_error", err.Error())
	case errors.Is(err, zchunk.ErrCorruptChunk), errors.Is(err, subfile.ErrCorruptRecord):
		return writeError(c, http.StatusUnprocessableEntity, "corrupt_record_error", err.Error())
	case errors.Is(err, zchunk.ErrDecompression):
		return writeError(c, http.StatusUnprocessableEntity, "decompression_error", err.Error())
	case errors.Is(err, subfile.ErrInvalidName), errors.As(err, &badReq):
		return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error())
	default:
		s.log.Error("request failed", "request_id", requestID(c), "path", c.Request().URL.Path, "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, map[string]any{
		"error": errorBody{Message: msg, Type: errType},
	})
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func requestID(c *echo.Context) string {
	return c.Response().Header().Get(HeaderRequestID)
}

// RequestID tags every request with a fresh id, echoing a client-provided
// one when present.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, id)
			return next(c)
		}
	}
}
