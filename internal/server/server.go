package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"codeberg.org/snonux/lingohop/internal/graph"
	"codeberg.org/snonux/lingohop/internal/history"
	"codeberg.org/snonux/lingohop/internal/logging"
	"codeberg.org/snonux/lingohop/internal/translation"
)

// DefaultAddress is used when server.address is not configured
const DefaultAddress = "127.0.0.1:8080"

// Server serves translations over HTTP
type Server struct {
	pipeline *translation.Pipeline
	history  *history.Store
	backend  string
	logger   logging.Logger
}

// NewServer creates a server. store may be nil to disable history.
func NewServer(pipeline *translation.Pipeline, store *history.Store, backend string, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		pipeline: pipeline,
		history:  store,
		backend:  backend,
		logger:   logger,
	}
}

// Register adds the API routes to e
func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/translate", s.handleTranslate)
	e.GET("/v1/languages", s.handleLanguages)
	e.GET("/v1/route", s.handleRoute)
}

// Start serves on addr until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddress
	}

	e := echo.New()
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	s.Register(e)

	s.logger.Info("starting server", "address", addr, "packages", s.pipeline.PackagesDir())
	sc := echo.StartConfig{
		Address: addr,
		BeforeServeFunc: func(srv *http.Server) error {
			srv.ReadHeaderTimeout = 10 * time.Second
			return nil
		},
	}
	return sc.Start(ctx, e)
}

func (s *Server) handleTranslate(c *echo.Context) error {
	req, err := decodeJSON[TranslateRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, "invalid JSON body: "+err.Error())
	}

	ctx := c.Request().Context()
	result, err := s.pipeline.Translate(ctx, req.Text, req.Route)
	if err != nil {
		return s.writeTranslationError(c, err)
	}

	resp := TranslateResponse{
		ID:    uuid.NewString(),
		Text:  result.Text,
		Route: result.Route,
		Hops:  make([]HopResponse, 0, len(result.Hops)),
	}
	for _, hop := range result.Hops {
		resp.Hops = append(resp.Hops, HopResponse{
			From:      hop.From,
			To:        hop.To,
			Package:   hop.Package,
			Tokenizer: hop.Tokenizer.String(),
			Output:    hop.Output,
		})
	}

	if s.history != nil {
		entry := history.EntryFor(result, s.backend)
		entry.ID = resp.ID
		if _, err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("failed to record translation", "error", err)
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleLanguages(c *echo.Context) error {
	g, err := s.pipeline.Graph()
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	resp := LanguagesResponse{
		Languages: []Language{},
		Pairs:     []Pair{},
	}
	for _, code := range g.Languages() {
		resp.Languages = append(resp.Languages, Language{Code: code, Name: graph.DisplayName(code)})
	}
	for _, p := range g.Pairs() {
		resp.Pairs = append(resp.Pairs, Pair{From: p.From, To: p.To, Package: g.PackageFor(p.From, p.To)})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRoute(c *echo.Context) error {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		return writeBadRequest(c, "query parameters from and to are required")
	}

	route, err := s.pipeline.ResolveRoute([]string{from, to})
	if err != nil {
		return s.writeTranslationError(c, err)
	}

	return c.JSON(http.StatusOK, RouteResponse{Route: route, Hops: route.Hops()})
}

// writeTranslationError maps pipeline errors to status codes
func (s *Server) writeTranslationError(c *echo.Context, err error) error {
	var (
		noRoute *translation.NoRouteError
		missing *translation.MissingPackageError
		failed  *translation.TranslationFailedError
		loadErr *translation.ModelLoadError
		hopErr  *translation.HopError
	)

	switch {
	case errors.As(err, &noRoute):
		return writeError(c, http.StatusNotFound, "no_route_error", err.Error())
	case errors.As(err, &missing):
		return writeError(c, http.StatusNotFound, "missing_package_error", err.Error())
	case errors.Is(err, translation.ErrInvalidRoute), errors.Is(err, translation.ErrEmptyInput):
		return writeBadRequest(c, err.Error())
	case errors.As(err, &failed):
		return writeError(c, http.StatusUnprocessableEntity, "translation_failed_error", err.Error())
	case errors.As(err, &loadErr):
		s.logger.Error("model load failed", "package", loadErr.Package, "error", loadErr.Err)
		return writeError(c, http.StatusInternalServerError, "model_load_error", err.Error())
	case errors.As(err, &hopErr):
		s.logger.Error("translation hop failed", "hop", hopErr.Hop, "package", hopErr.Package, "error", hopErr.Err)
		return writeError(c, http.StatusInternalServerError, "hop_error", err.Error())
	default:
		s.logger.Error("translation failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Type: errType, Message: msg},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
