package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"rozadaar/internal/application"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

// AdminSecretHeader carries the admin secret on analytics reads
const AdminSecretHeader = "X-Admin-Secret"

const maxTrackBody = 16 << 10

// requireAdmin rejects requests without the admin secret header
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r.Header.Get(AdminSecretHeader)) {
			s.log.Warning("rejected %s from %s", r.URL.Path, r.RemoteAddr)
			writeError(w, http.StatusForbidden, msgUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var visit domain.Visit
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTrackBody)).Decode(&visit); err != nil {
		writeError(w, http.StatusBadRequest, msgBadFormat)
		return
	}
	if visit.IP == "" {
		visit.IP = clientIP(r)
	}
	if visit.UserAgent == "" {
		visit.UserAgent = r.UserAgent()
	}

	_, err := commands.NewRecordVisitCommand(s.analytics, visit, s.now()).Execute(r.Context())
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	if err != nil {
		s.log.Error("track visit: %v", err)
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := commands.NewStatsCommand(s.analytics, s.now()).Execute(r.Context())
	if err != nil {
		s.log.Error("stats: %v", err)
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleVisitors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := domain.ParsePeriod(q.Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := domain.VisitorQuery{
		Period:        period,
		InstalledOnly: q.Get("filter") == "installed",
		Page:          atoiOr(q.Get("page"), 1),
		Limit:         atoiOr(q.Get("limit"), domain.DefaultVisitorPageSize),
	}

	page, err := commands.NewListVisitorsCommand(s.analytics, query, s.now()).Execute(r.Context())
	if err != nil {
		s.log.Error("list visitors: %v", err)
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleVisitor(w http.ResponseWriter, r *http.Request) {
	v, err := s.analytics.Visitor(r.Context(), mux.Vars(r)["visitorId"])
	if errors.Is(err, application.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.log.Error("load visitor: %v", err)
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// clientIP prefers the first X-Forwarded-For hop over the socket address
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
