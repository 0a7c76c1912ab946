package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/scanner"
	"github.com/liquidswap/yieldscan/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// SnapshotProvider is the read side of the scanner.
type SnapshotProvider interface {
	Latest() (scanner.Snapshot, error)
	Metadata() types.Metadata
}

// WebServer serves the latest pool snapshot over HTTP.
type WebServer struct {
	router   *mux.Router
	port     string
	provider SnapshotProvider
	metrics  http.Handler
	started  time.Time
}

// NewWebServer creates a new web server instance. metricsHandler may be nil.
func NewWebServer(port string, provider SnapshotProvider, metricsHandler http.Handler) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:   mux.NewRouter(),
		port:     port,
		provider: provider,
		metrics:  metricsHandler,
		started:  time.Now(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	if ws.metrics != nil {
		ws.router.Handle("/metrics", ws.metrics).Methods("GET")
	}

	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/pools", ws.handleGetPools).Methods("GET")
	api.HandleFunc("/pools/{chain}", ws.handleGetPools).Methods("GET")
	api.HandleFunc("/metadata", ws.handleGetMetadata).Methods("GET")
	api.HandleFunc("/failures", ws.handleGetFailures).Methods("GET")

	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Handler exposes the router, mainly for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Start serves until ctx is done, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		webLogger.Info().Msg("Shutting down web server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth reports OK once a snapshot exists. A snapshot with failures is DEGRADED.
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	overallStatus := "OK"
	statusCode := http.StatusOK
	cycleInfo := map[string]interface{}{
		"current_cycle":   0,
		"last_cycle_time": nil,
		"pools":           0,
		"failures":        0,
	}

	snapshot, err := ws.provider.Latest()
	switch {
	case err != nil:
		overallStatus = "STARTING"
		statusCode = http.StatusServiceUnavailable
	default:
		cycleInfo = map[string]interface{}{
			"current_cycle":   snapshot.CycleNumber,
			"cycle_id":        snapshot.CycleID,
			"last_cycle_time": snapshot.ComputedAt,
			"pools":           len(snapshot.Pools),
			"failures":        len(snapshot.Failures),
		}
		if len(snapshot.Failures) > 0 {
			overallStatus = "DEGRADED"
		}
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"sys_bytes":        memStats.Sys,
			"gc_cycles":        memStats.NumGC,
			"uptime_seconds":   int64(time.Since(ws.started).Seconds()),
		},
		"component": map[string]interface{}{
			"name":    "yieldscan",
			"version": "1.0.0",
		},
		"cycle_info": cycleInfo,
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleGetPools returns the latest pool records, optionally for one chain.
func (ws *WebServer) handleGetPools(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := ws.latestOrError(w)
	if !ok {
		return
	}

	pools := snapshot.Pools
	if chain, filtered := mux.Vars(r)["chain"]; filtered {
		pools = make([]types.PoolRecord, 0, len(snapshot.Pools))
		for _, pool := range snapshot.Pools {
			if strings.EqualFold(pool.Chain, chain) {
				pools = append(pools, pool)
			}
		}
	}

	response := map[string]interface{}{
		"status":      "success",
		"cycle_id":    snapshot.CycleID,
		"computed_at": snapshot.ComputedAt,
		"count":       len(pools),
		"data":        pools,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetMetadata returns the static adaptor description.
func (ws *WebServer) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	ws.writeJSONResponse(w, http.StatusOK, ws.provider.Metadata())
}

// handleGetFailures returns what the latest cycle could not compute.
func (ws *WebServer) handleGetFailures(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := ws.latestOrError(w)
	if !ok {
		return
	}

	response := map[string]interface{}{
		"cycle_id": snapshot.CycleID,
		"count":    len(snapshot.Failures),
		"failures": snapshot.Failures,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

func (ws *WebServer) latestOrError(w http.ResponseWriter) (scanner.Snapshot, bool) {
	snapshot, err := ws.provider.Latest()
	if err != nil {
		if errors.Is(err, scanner.ErrNoSnapshot) {
			ws.writeErrorResponse(w, http.StatusServiceUnavailable, "No snapshot computed yet")
			return scanner.Snapshot{}, false
		}
		webLogger.Error().Err(err).Msg("Failed to get latest snapshot")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve snapshot")
		return scanner.Snapshot{}, false
	}
	return snapshot, true
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		webLogger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
