package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// wsTimeout bounds each websocket read and write.
const wsTimeout = 30 * time.Second

type RouteRequest struct {
	Floor       string `json:"floor"`
	Pose        Pose   `json:"pose"`
	Destination string `json:"destination,omitempty"`
	Goal        *Point `json:"goal,omitempty"`
	Format      string `json:"format,omitempty"` // "geojson" adds the path as a feature
}

type RouteResponse struct {
	RequestID      string           `json:"requestId"`
	Path           []Point          `json:"path"`
	Directions     []string         `json:"directions"`
	Success        bool             `json:"success"`
	Message        string           `json:"message,omitempty"`
	Distance       float64          `json:"distance,omitempty"`
	DistanceMeters float64          `json:"distanceMeters,omitempty"`
	GeoJSON        *geojson.Feature `json:"geojson,omitempty"`
}

type server struct {
	cfg      *Config
	store    *MapStore
	limiter  *rate.Limiter
	serveMux http.ServeMux
}

// newServer wires the HTTP handlers around a map store
func newServer(cfg *Config, store *MapStore) *server {
	s := &server{
		cfg:     cfg,
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
	}
	s.serveMux.HandleFunc("/route", corsMiddleware(s.rateLimit(s.routeHandler)))
	s.serveMux.HandleFunc("/navigate", s.navigateHandler)
	s.serveMux.HandleFunc("/graphLines", corsMiddleware(s.graphLinesHandler))
	s.serveMux.HandleFunc("/destinations", corsMiddleware(s.destinationsHandler))
	s.serveMux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	return s
}

// ServeHTTP implements the required interface for an http server
func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.serveMux.ServeHTTP(w, r)
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// rateLimit rejects requests beyond the configured rate
func (s *server) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to write response: %v\n", err)
	}
}

// statusFor maps planning errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoPath):
		// The request was fine, there is just no way through
		return http.StatusOK
	case errors.Is(err, ErrUnknownFloor), errors.Is(err, ErrInvalidDestination):
		return http.StatusNotFound
	case errors.Is(err, ErrMalformedGeometry), errors.Is(err, ErrInvalidScale):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// plan answers one route request
func (s *server) plan(req RouteRequest) (RouteResponse, int) {
	resp := RouteResponse{RequestID: uuid.NewString()}
	log.Printf("[%s] Floor: %q\n", resp.RequestID, req.Floor)
	log.Printf("[%s] Pose:  (%.1f, %.1f) heading %.1f°\n", resp.RequestID, req.Pose.X, req.Pose.Y, req.Pose.Heading)

	var goal Goal
	switch {
	case req.Goal != nil:
		goal = GoalAt(*req.Goal)
	case req.Destination != "":
		goal = GoalNamed(req.Destination)
	default:
		resp.Message = "destination or goal is required"
		return resp, http.StatusBadRequest
	}
	log.Printf("[%s] Goal:  %s\n", resp.RequestID, goal)

	snapshot, err := s.store.Snapshot(req.Floor)
	if err != nil {
		log.Printf("[%s] ❌ %v\n", resp.RequestID, err)
		resp.Message = err.Error()
		return resp, statusFor(err)
	}

	scale := s.cfg.ScaleFor(req.Floor)
	route, err := Navigate(snapshot, req.Pose, goal, scale)
	if err != nil {
		log.Printf("[%s] ❌ %v\n", resp.RequestID, err)
		resp.Message = err.Error()
		return resp, statusFor(err)
	}

	resp.Success = true
	resp.Path = route.Path
	resp.Directions = route.Directions
	resp.Distance = route.Length
	resp.DistanceMeters = route.LengthMeters
	if req.Format == "geojson" {
		resp.GeoJSON = PathFeature(route.Path, scale)
	}

	log.Printf("[%s] ✅ %d waypoints, %.1f meters\n", resp.RequestID, len(route.Path), route.LengthMeters)
	for i, d := range route.Directions {
		log.Printf("[%s]    Step %d: %s\n", resp.RequestID, i+1, d)
	}
	return resp, http.StatusOK
}

// POST /route - Plan a route and narrate it
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")
	defer log.Println("========================================")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, status := s.plan(req)
	writeJSON(w, status, resp)
}

// GET /navigate - Websocket; every message is a route request carrying the
// latest pose, every reply the corresponding route response
func (s *server) navigateHandler(w http.ResponseWriter, r *http.Request) {
	options := &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	}

	c, err := websocket.Accept(w, r, options)
	if err != nil {
		log.Println(err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	err = s.navigate(r.Context(), c)
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		log.Println(err)
		return
	}
}

func (s *server) navigate(ctx context.Context, conn *websocket.Conn) error {
	log.Println("🔌 Navigation session opened")
	defer log.Println("🔌 Navigation session closed")

	for {
		req, err := readTimeout(ctx, wsTimeout, conn)
		if err != nil {
			return err
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		resp, _ := s.plan(*req)

		if err := writeTimeout(ctx, wsTimeout, conn, resp); err != nil {
			return err
		}
	}
}

// readTimeout reads a route request from a websocket with a timeout
func readTimeout(ctx context.Context, timeout time.Duration, conn *websocket.Conn) (*RouteRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var req RouteRequest
	err := wsjson.Read(ctx, conn, &req)
	return &req, err
}

// writeTimeout writes a response to a websocket with a timeout
func writeTimeout(ctx context.Context, timeout time.Duration, conn *websocket.Conn, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return wsjson.Write(ctx, conn, v)
}

// GET /graphLines?floor= - Waypoint visibility graph for visualization
func (s *server) graphLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	floor := r.URL.Query().Get("floor")
	snapshot, err := s.store.Snapshot(floor)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	graph := BuildWaypointGraph(snapshot.waypoints, snapshot)
	if r.URL.Query().Get("format") == "geojson" {
		writeJSON(w, http.StatusOK, GraphFeatureCollection(graph))
		return
	}

	lines := graph.Lines()
	log.Printf("   Returning %d line segments\n", len(lines))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"lines":    lines,
		"numNodes": len(graph.Nodes),
		"numEdges": len(lines),
	})
}

// GET /destinations?floor= - Destination names of a floor
func (s *server) destinationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	floor := r.URL.Query().Get("floor")
	snapshot, err := s.store.Snapshot(floor)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"floor":        floor,
		"destinations": snapshot.DestinationNames(),
	})
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	floors, err := ListFloors(s.cfg.DataDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := "ready"
	if len(floors) == 0 {
		status = "no maps found"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"floors":       floors,
		"loadedFloors": s.store.Loaded(),
	})
}
