// Package web serves the household pages and the JSON API.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jgoulah/ecohome/internal/config"
	"github.com/jgoulah/ecohome/internal/database"
	"github.com/jgoulah/ecohome/internal/logger"
	"github.com/jgoulah/ecohome/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Store is the persistence the web surface needs
type Store interface {
	CreateHousehold(ctx context.Context, name, postcode string) (*models.Household, error)
	GetHousehold(ctx context.Context, id int64) (*models.Household, error)
	ListHouseholds(ctx context.Context) ([]models.Household, error)
	CreateUsageEntry(ctx context.Context, householdID int64, entryType models.EntryType, value float64, recordedAt time.Time) (*models.UsageEntry, error)
	ListEntries(ctx context.Context, householdID int64, opts database.ListOptions) ([]models.UsageEntry, error)
	ImportEntries(ctx context.Context, householdID int64, entries []models.UsageEntry) (int, error)
	Totals(ctx context.Context, householdID int64) (map[models.EntryType]float64, error)
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by every handler
type Server struct {
	store          Store
	log            *logger.Logger
	now            func() time.Time
	dashboardLimit int
}

// Option customises a Server
type Option func(*Server)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server over an open store
func New(store Store, cfg *config.Config, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		store:          store,
		log:            log,
		now:            time.Now,
		dashboardLimit: cfg.GetDashboardLimit(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin engine with every route registered
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(requestID(), s.requestLogger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"),
	))

	r.GET("/", s.index)
	r.GET("/register", s.registerForm)
	r.POST("/register", s.register)
	r.GET("/household/:id", s.dashboard)
	r.GET("/household/:id/add", s.addUsageForm)
	r.POST("/household/:id/add", s.addUsage)
	r.GET("/export/:id", s.exportCSV)
	r.GET("/import/:id", s.importForm)
	r.POST("/import/:id", s.importCSV)
	r.GET("/health", s.health)

	api := r.Group("/api")
	api.Use(cors())
	api.OPTIONS("/*path", func(*gin.Context) {})
	api.GET("/households", s.apiListHouseholds)
	api.POST("/households", s.apiCreateHousehold)
	api.GET("/households/:id", s.apiDashboard)
	api.POST("/household/:id/usage", s.apiAddUsage)

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found")
	})

	return r
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.log.Error("health check: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": s.now().UTC().Format(time.RFC3339)})
}

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an id, keeping one supplied by a proxy
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "%s %s %d %s [%s]"
		args := []any{c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Microsecond), c.GetString("request_id")}
		switch {
		case status >= 500:
			s.log.Error(line, args...)
		case status >= 400:
			s.log.Warning(line, args...)
		default:
			s.log.Info(line, args...)
		}
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

var templateFuncs = template.FuncMap{
	"ago": humanize.Time,
	"number": func(v float64) string {
		return humanize.CommafWithDigits(v, 2)
	},
	"formatTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"unit": models.EntryType.Unit,
	"scoreClass": func(score int) string {
		switch {
		case score >= 70:
			return "score-high"
		case score >= 40:
			return "score-mid"
		default:
			return "score-low"
		}
	},
}
