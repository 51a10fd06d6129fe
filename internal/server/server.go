// Package server exposes the tracker's live state over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/tracker"
)

const shutdownTimeout = 5 * time.Second

// Server serves status, rows and the installed schedule as JSON.
type Server struct {
	store      *tracker.Store
	timeFormat string
	router     *gin.Engine

	// now is replaceable in tests.
	now func() time.Time
}

// New builds the router. timeFormat is used for the one-line summary.
func New(store *tracker.Store, timeFormat string) *Server {
	s := &Server{store: store, timeFormat: timeFormat, now: time.Now}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	// Read-only API; dashboards on other origins may poll it.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Accept"},
		MaxAge:          12 * time.Hour,
	}))
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.GET("/status", s.status)
		api.GET("/rows", s.rows)
		api.GET("/schedule", s.schedule)
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}

func (s *Server) health(c *gin.Context) {
	snap := s.store.Load()
	stale := !snap.Day.Times.Covers(s.now())
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"date":   snap.Day.Gregorian,
		"stale":  stale,
	})
}

type statusResponse struct {
	prayer.Status
	Line string `json:"line"`
}

func (s *Server) status(c *gin.Context) {
	st, ok := s.evaluate(c)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", prayer.FormatFull)
	c.JSON(http.StatusOK, statusResponse{
		Status: st,
		Line:   prayer.FormatStatus(st, format, s.timeFormat),
	})
}

func (s *Server) rows(c *gin.Context) {
	st, ok := s.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": st.Rows})
}

type periodTime struct {
	Period    prayer.Period `json:"period"`
	Scheduled time.Time     `json:"scheduled"`
	Adjusted  time.Time     `json:"adjusted"`
}

func (s *Server) schedule(c *gin.Context) {
	snap := s.store.Load()
	times := make([]periodTime, 0, len(prayer.AllPeriods))
	for _, p := range prayer.AllPeriods {
		times = append(times, periodTime{
			Period:    p,
			Scheduled: snap.Engine.ScheduledTime(p),
			Adjusted:  snap.Engine.AdjustedTime(p),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"day":   snap.Day,
		"times": times,
	})
}

// evaluate writes a 503 when the installed schedule cannot answer for now.
func (s *Server) evaluate(c *gin.Context) (prayer.Status, bool) {
	st, err := s.store.Status(s.now())
	if err != nil {
		log.Error().Err(err).Msg("status unavailable")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return prayer.Status{}, false
	}
	return st, true
}
