package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/swipedeck/internal/cards"
	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/duckdb"
	"github.com/tinytelemetry/swipedeck/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sinkRecorder struct {
	decks []cards.Deck
	err   error
}

func (s *sinkRecorder) ReplaceDeck(d cards.Deck) error {
	if s.err != nil {
		return s.err
	}
	s.decks = append(s.decks, d)
	return nil
}

type testEnv struct {
	srv   *Server
	store *duckdb.Store
	pub   *deck.Publisher
	sink  *sinkRecorder
	r     *gin.Engine
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	pub := &deck.Publisher{}
	sink := &sinkRecorder{}
	srv := NewServer("", store, pub, sink)

	r := gin.New()
	r.Use(gin.Recovery())
	srv.routes(r)

	return &testEnv{srv: srv, store: store, pub: pub, sink: sink, r: r}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return body
}

func publishDeck(e *testEnv, name string, items ...string) {
	c := deck.New(deck.Config[string]{Threshold: 100, Key: func(s string) string { return s }}, items)
	e.pub.Publish(deck.TakeSnapshot(c, name))
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	w := e.do(t, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" || body["ready"] != false {
		t.Errorf("health body = %v, want status ok, ready false", body)
	}

	publishDeck(e, "trips", "a")
	body = decodeBody(t, e.do(t, http.MethodGet, "/api/health", ""))
	if body["ready"] != true || body["deck"] != "trips" {
		t.Errorf("health after publish = %v", body)
	}
}

func TestGetDeck(t *testing.T) {
	e := newTestServer(t)

	if w := e.do(t, http.MethodGet, "/api/deck", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("deck before publish status = %d, want 503", w.Code)
	}

	publishDeck(e, "trips", "a", "b")
	w := e.do(t, http.MethodGet, "/api/deck", "")
	if w.Code != http.StatusOK {
		t.Fatalf("deck status = %d; body: %s", w.Code, w.Body.String())
	}
	var snap deck.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.Deck != "trips" || snap.FrontKey != "a" || snap.Len != 2 || snap.Phase != "idle" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestPutDeck(t *testing.T) {
	e := newTestServer(t)

	w := e.do(t, http.MethodPut, "/api/deck", `{"name":"new","cards":[{"id":"1","title":"One"},{"id":"2","title":"Two"}]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("put status = %d; body: %s", w.Code, w.Body.String())
	}
	if len(e.sink.decks) != 1 || e.sink.decks[0].Name != "new" || len(e.sink.decks[0].Cards) != 2 {
		t.Fatalf("sink received %+v", e.sink.decks)
	}

	// An empty deck is a valid replacement.
	if w := e.do(t, http.MethodPut, "/api/deck", `{"name":"empty","cards":[]}`); w.Code != http.StatusAccepted {
		t.Fatalf("put empty status = %d", w.Code)
	}
}

func TestPutDeck_Rejects(t *testing.T) {
	e := newTestServer(t)

	if w := e.do(t, http.MethodPut, "/api/deck", `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", w.Code)
	}
	if w := e.do(t, http.MethodPut, "/api/deck", `{"name":"n","cards":[{"id":"x","colour":"red"}]}`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown card field status = %d, want 400", w.Code)
	}
	if w := e.do(t, http.MethodPut, "/api/deck", `{"name":"n","owner":"me","cards":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown deck field status = %d, want 400", w.Code)
	}
	if w := e.do(t, http.MethodPut, "/api/deck", `{"cards":[{"id":"x"},{"id":"x"}]}`); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate keys status = %d, want 422", w.Code)
	}
	if len(e.sink.decks) != 0 {
		t.Fatalf("sink received rejected decks: %+v", e.sink.decks)
	}

	e.sink.err = errors.New("ui not running")
	if w := e.do(t, http.MethodPut, "/api/deck", `{"cards":[{"id":"x"}]}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("sink failure status = %d, want 503", w.Code)
	}
}

func TestTallyAndDecisions(t *testing.T) {
	e := newTestServer(t)
	now := time.Now()
	err := e.store.InsertDecisions([]model.Decision{
		{Session: "s", Deck: "trips", CardID: "a", Direction: model.DirectionRight, SwipedAt: now.Add(-2 * time.Minute)},
		{Session: "s", Deck: "trips", CardID: "b", Direction: model.DirectionLeft, SwipedAt: now.Add(-time.Minute)},
		{Session: "s", Deck: "food", CardID: "a", Direction: model.DirectionLeft, SwipedAt: now},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	publishDeck(e, "trips", "c")
	body := decodeBody(t, e.do(t, http.MethodGet, "/api/tally", ""))
	if body["deck"] != "trips" || body["left"] != float64(1) || body["right"] != float64(1) {
		t.Errorf("tally (current deck) = %v", body)
	}

	body = decodeBody(t, e.do(t, http.MethodGet, "/api/tally?deck=", ""))
	if body["total"] != float64(3) {
		t.Errorf("tally (all decks) = %v, want total 3", body)
	}

	body = decodeBody(t, e.do(t, http.MethodGet, "/api/decisions?deck=trips&limit=1", ""))
	if body["count"] != float64(1) {
		t.Fatalf("decisions = %v, want 1", body)
	}
	first := body["decisions"].([]interface{})[0].(map[string]interface{})
	if first["card_id"] != "b" {
		t.Errorf("newest trips decision = %v, want b", first["card_id"])
	}

	if w := e.do(t, http.MethodGet, "/api/decisions?limit=zero", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}

	body = decodeBody(t, e.do(t, http.MethodGet, "/api/cards/a/history", ""))
	if got := body["decisions"].([]interface{}); len(got) != 2 {
		t.Errorf("history for a = %v, want 2 decisions", got)
	}
	body = decodeBody(t, e.do(t, http.MethodGet, "/api/cards/unknown/history", ""))
	if got := body["decisions"].([]interface{}); len(got) != 0 {
		t.Errorf("history for unknown = %v, want empty", got)
	}
}

func TestStartStop(t *testing.T) {
	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	srv := NewServer("127.0.0.1:0", store, &deck.Publisher{}, &sinkRecorder{})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := http.Get("http://" + srv.Addr() + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	gin.SetMode(gin.TestMode)
}
