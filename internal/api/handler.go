package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

var (
	errFetchFailed   = errors.New("failed to load requests")
	errInvalidMode   = errors.New("mode must be minimal or full")
	errInvalidDir    = errors.New("dir must be asc or desc")
	errUnknownColumn = errors.New("unknown sort column")
)

// Server provides the read-only JSON API over the caller's view session
type Server struct {
	sessions *Sessions
	tableUC  *usecase.TableUsecase
	composer *usecase.Composer
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(sessions *Sessions, tableUC *usecase.TableUsecase, composer *usecase.Composer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		sessions: sessions,
		tableUC:  tableUC,
		composer: composer,
		logger:   logger,
	}
}

// Register mounts the API routes on mux
func (s *Server) Register(mux *http.ServeMux) {
	// Requests
	mux.HandleFunc("GET /api/requests", s.handleListRequests)
	mux.HandleFunc("GET /api/requests/{id}", s.handleGetRequest)
	mux.HandleFunc("GET /api/requests/{id}/whatsapp", s.handleWhatsAppLink)
	mux.HandleFunc("GET /api/requests/{id}/qr", s.handleQRCode)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// ============ Request Handlers ============

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.ResolveAPI(w, r)

	state, err := parseViewState(r, sess.State().Theme)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	view := s.tableUC.BuildState(sess, state)
	if view.Error != "" {
		s.writeError(w, http.StatusBadGateway, errFetchFailed)
		return
	}
	s.writeJSON(w, view)
}

// parseViewState reads q, sort, dir and mode. Unset parameters mean no search,
// no sort and the minimal column set.
func parseViewState(r *http.Request, theme domain.Theme) (domain.ViewState, error) {
	q := r.URL.Query()
	state := domain.ViewState{Query: q.Get("q"), Mode: domain.ModeMinimal, Theme: theme}

	switch domain.ViewMode(q.Get("mode")) {
	case "", domain.ModeMinimal:
	case domain.ModeFull:
		state.Mode = domain.ModeFull
	default:
		return state, errInvalidMode
	}

	if key := q.Get("sort"); key != "" {
		if _, ok := domain.LookupColumn(domain.ColumnKey(key)); !ok {
			return state, errUnknownColumn
		}
		state.Sort.Key = domain.ColumnKey(key)
	}

	switch q.Get("dir") {
	case "", "asc":
	case "desc":
		state.Sort.Desc = true
	default:
		return state, errInvalidDir
	}
	return state, nil
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	sess, row, ok := s.findRow(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, s.tableUC.FormatRow(&row, domain.ModeFull, sess.Status))
}

func (s *Server) handleWhatsAppLink(w http.ResponseWriter, r *http.Request) {
	_, row, ok := s.findRow(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, map[string]string{"url": s.composer.WhatsAppLink(row)})
}

func (s *Server) handleQRCode(w http.ResponseWriter, r *http.Request) {
	_, row, ok := s.findRow(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, map[string]string{"url": s.composer.QRCodeURL(row)})
}

// findRow resolves the session and the {id} row, writing the error response on failure
func (s *Server) findRow(w http.ResponseWriter, r *http.Request) (*domain.ViewSession, domain.Row, bool) {
	sess := s.sessions.ResolveAPI(w, r)
	if sess.FetchErr != nil {
		s.writeError(w, http.StatusBadGateway, errFetchFailed)
		return nil, domain.Row{}, false
	}

	row, err := sess.FindRow(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return nil, domain.Row{}, false
	}
	return sess, row, true
}

// ============ Helpers ============

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
