package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/swipedeck/internal/cards"
	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/model"
)

// SnapshotSource provides the latest published deck state.
type SnapshotSource interface {
	Snapshot() (deck.Snapshot, bool)
}

// DeckSink hands a replacement deck to whoever owns the controller.
type DeckSink interface {
	ReplaceDeck(d cards.Deck) error
}

// DeckSinkFunc adapts a function to DeckSink.
type DeckSinkFunc func(d cards.Deck) error

// ReplaceDeck calls f(d).
func (f DeckSinkFunc) ReplaceDeck(d cards.Deck) error { return f(d) }

// Server exposes deck state and swipe history over HTTP and accepts
// replacement decks.
type Server struct {
	addr      string
	store     model.DecisionReader
	snapshots SnapshotSource
	sink      DeckSink
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store model.DecisionReader, snapshots SnapshotSource, sink DeckSink) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		store:     store,
		snapshots: snapshots,
		sink:      sink,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

func (s *Server) routes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/deck", s.handleGetDeck)
	api.PUT("/deck", s.handlePutDeck)
	api.GET("/tally", s.handleTally)
	api.GET("/decisions", s.handleDecisions)
	api.GET("/cards/:id/history", s.handleCardHistory)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.routes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	snap, ok := s.snapshots.Snapshot()
	body := gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
		"ready":  ok,
	}
	if ok {
		body["deck"] = snap.Deck
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleGetDeck(c *gin.Context) {
	snap, ok := s.snapshots.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "deck not ready"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handlePutDeck(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	// Same rules as a deck file, including unknown fields.
	d, err := cards.Decode(body, cards.FormatJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deck JSON: " + err.Error()})
		return
	}
	if err := d.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := s.sink.ReplaceDeck(d); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"deck":  d.Name,
		"cards": len(d.Cards),
	})
}

func (s *Server) handleTally(c *gin.Context) {
	name, ok := c.GetQuery("deck")
	if !ok {
		if snap, ready := s.snapshots.Snapshot(); ready {
			name = snap.Deck
		}
	}
	tally, err := s.store.Tally(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read tally"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deck":  tally.Deck,
		"left":  tally.Left,
		"right": tally.Right,
		"total": tally.Total(),
	})
}

func (s *Server) handleDecisions(c *gin.Context) {
	limit, err := queryLimit(c, model.DefaultRecentLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	decisions, err := s.store.RecentDecisions(c.Query("deck"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read decisions"})
		return
	}
	if decisions == nil {
		decisions = []model.Decision{}
	}
	c.JSON(http.StatusOK, gin.H{
		"decisions": decisions,
		"count":     len(decisions),
	})
}

func (s *Server) handleCardHistory(c *gin.Context) {
	history, err := s.store.CardHistory(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read card history"})
		return
	}
	if history == nil {
		history = []model.Decision{}
	}
	c.JSON(http.StatusOK, gin.H{
		"card_id":   c.Param("id"),
		"decisions": history,
	})
}

var errBadLimit = errors.New("limit must be a positive integer")

func queryLimit(c *gin.Context, def int) (int, error) {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errBadLimit
	}
	return min(n, 1000), nil
}
