package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/moodmeter/config"
	"github.com/spacesedan/moodmeter/internal/models"
	"github.com/spacesedan/moodmeter/internal/uploads"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Analyzer is the scoring surface the handlers need.
type Analyzer interface {
	AnalyzeComment(ctx context.Context, comment string) (models.CommentResult, error)
	AnalyzeLines(ctx context.Context, r io.Reader) (models.Summary, error)
}

// UploadRecorder receives one record per successfully analysed upload.
type UploadRecorder interface {
	Record(rec models.UploadRecord)
}

type Options struct {
	Config   config.Config
	Analyzer Analyzer
	Store    *uploads.Store
	// Journal is optional.
	Journal UploadRecorder
	// CacheHealthy is nil when no cache is configured.
	CacheHealthy *atomic.Bool
}

type Server struct {
	echo      *echo.Echo
	config    config.Config
	analyzer  Analyzer
	store     *uploads.Store
	journal   UploadRecorder
	cacheOK   *atomic.Bool
	templates *template.Template
	startTime time.Time
}

func NewServer(opts Options) (*Server, error) {
	if opts.Analyzer == nil {
		return nil, fmt.Errorf("server requires an analyzer")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("server requires an upload store")
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	journal := opts.Journal
	if journal == nil {
		journal = noopRecorder{}
	}

	srv := &Server{
		echo:      e,
		config:    opts.Config,
		analyzer:  opts.Analyzer,
		store:     opts.Store,
		journal:   journal,
		cacheOK:   opts.CacheHealthy,
		templates: templates,
		startTime: time.Now(),
	}
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("port", s.config.Port))
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

type noopRecorder struct{}

func (noopRecorder) Record(models.UploadRecord) {}
