// Package httpapi serves the remote scope API that devices sync against
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"rozadaar/internal/application"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

const maxRequestBody = 10 << 20

// Error messages returned to clients
const (
	msgUnauthorized = "Unauthorized: Wrong Admin Password"
	msgBadFormat    = "Invalid data format"
	msgFetchFailed  = "Failed to fetch data"
	msgSaveFailed   = "Failed to save data"
)

// Server holds the dependencies of the HTTP handlers
type Server struct {
	store     ports.RecordStore
	analytics ports.AnalyticsStore
	secret    string
	log       logger.Logger
	now       func() time.Time
}

// New creates a server. An empty secret rejects every write.
func New(store ports.RecordStore, secret string, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Server{store: store, secret: secret, log: log, now: time.Now}
}

// WithAnalytics enables the visit tracking routes
func (s *Server) WithAnalytics(store ports.AnalyticsStore) *Server {
	s.analytics = store
	return s
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodHead)

	api := r.PathPrefix("/api").Subrouter()
	if s.analytics != nil {
		a := api.PathPrefix("/analytics").Subrouter()
		a.HandleFunc("/track", s.handleTrack).Methods(http.MethodPost)
		a.HandleFunc("/stats", s.requireAdmin(s.handleStats)).Methods(http.MethodGet)
		a.HandleFunc("/users", s.requireAdmin(s.handleVisitors)).Methods(http.MethodGet)
		a.HandleFunc("/users/{visitorId}", s.requireAdmin(s.handleVisitor)).Methods(http.MethodGet)
	}
	api.HandleFunc("/{collection}", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/{collection}", s.handleReplace).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

var (
	corsMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Content-Type", AdminSecretHeader}
)

// Handler wraps the router with CORS and access logging
func (s *Server) Handler(access io.Writer) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods(corsMethods),
		handlers.AllowedHeaders(corsHeaders),
	)
	h := plainOptions(cors(s.Router()))
	if access != nil {
		h = handlers.LoggingHandler(access, h)
	}
	return h
}

// plainOptions answers OPTIONS requests that are not preflights with 200
// and permissive headers. handlers.CORS rejects them with 400 when Origin is
// set and sends no CORS headers when it is not.
func plainOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") != "" {
			next.ServeHTTP(w, r)
			return
		}
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", strings.Join(corsMethods, ","))
		h.Set("Access-Control-Allow-Headers", strings.Join(corsHeaders, ","))
		w.WriteHeader(http.StatusOK)
	})
}

// handleRoot answers connectivity and Date-header checks
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	body, err := commands.NewListCollectionCommand(s.store, collection).Execute(r.Context())
	if errors.Is(err, application.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Unknown collection")
		return
	}
	if err != nil {
		s.log.Error("list %s: %v", collection, err)
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// replaceRequest is the write body. password is accepted as an alias of secret.
type replaceRequest struct {
	Secret   string          `json:"secret"`
	Password string          `json:"password"`
	Data     json.RawMessage `json:"data"`
}

func (r replaceRequest) credential() string {
	if r.Secret != "" {
		return r.Secret
	}
	return r.Password
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	if !commands.KnownCollection(collection) {
		writeError(w, http.StatusNotFound, "Unknown collection")
		return
	}

	var req replaceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadFormat)
		return
	}
	if !s.authorized(req.credential()) {
		s.log.Warning("rejected %s write from %s", collection, r.RemoteAddr)
		writeError(w, http.StatusForbidden, msgUnauthorized)
		return
	}

	result, err := commands.NewReplaceCollectionCommand(s.store, collection, req.Data).Execute(r.Context())
	if err != nil {
		var payloadErr *application.PayloadError
		if errors.As(err, &payloadErr) {
			writeError(w, http.StatusBadRequest, msgBadFormat)
			return
		}
		s.log.Error("replace %s: %v", collection, err)
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}

	s.log.Info("%s: %d upserted, %d deleted", collection, result.Upserted, result.Deleted)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": result.Message,
	})
}

func (s *Server) authorized(credential string) bool {
	if s.secret == "" || credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(s.secret)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
