package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orderdesk/request-dashboard/internal/api"
	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").
	Funcs(template.FuncMap{"href": safeHref}).
	ParseFS(templateFS, "templates/dashboard.html"))

// safeHref marks cell links as trusted URLs. html/template only trusts http(s) and
// mailto, so tel: links need this; any other scheme is dropped.
func safeHref(raw string) template.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return template.URL(raw)
	}
	return "#"
}

// NoDataMessage fills the table body when no row matches
const NoDataMessage = "No data available"

// navItem is one sidebar entry
type navItem struct {
	Name   string
	Title  string
	Href   string
	Active bool
}

var sidebar = []navItem{
	{Name: "requests", Title: "Requests", Href: "/"},
	{Name: "analytics", Title: "Analytics", Href: "/views/analytics"},
	{Name: "finance", Title: "Finance", Href: "/views/finance"},
	{Name: "customers", Title: "Customers", Href: "/views/customers"},
}

type pageData struct {
	Nav    []navItem
	Active string
	Title  string
	View   usecase.View
	NoData string
}

// DashboardServer serves the HTML dashboard and mounts the JSON API
type DashboardServer struct {
	sessions  *api.Sessions
	sessionUC *usecase.SessionUsecase
	tableUC   *usecase.TableUsecase
	composer  *usecase.Composer
	apiServer *api.Server
	logger    *zap.Logger

	server *http.Server
	addr   string
}

// NewDashboardServer creates a new dashboard server
func NewDashboardServer(
	sessionUC *usecase.SessionUsecase,
	tableUC *usecase.TableUsecase,
	composer *usecase.Composer,
	addr string,
	logger *zap.Logger,
) *DashboardServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	sessions := api.NewSessions(sessionUC)
	return &DashboardServer{
		sessions:  sessions,
		sessionUC: sessionUC,
		tableUC:   tableUC,
		composer:  composer,
		apiServer: api.NewServer(sessions, tableUC, composer, logger.Named("api")),
		logger:    logger,
		addr:      addr,
	}
}

// Handler returns the routed handler with request logging
func (s *DashboardServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Dashboard
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /views/{view}", s.handleView)
	mux.HandleFunc("POST /sort/{key}", s.handleSort)
	mux.HandleFunc("POST /mode", s.handleMode)
	mux.HandleFunc("POST /theme", s.handleTheme)

	// Row actions
	mux.HandleFunc("GET /requests/{id}/invoice", s.handleInvoice)
	mux.HandleFunc("GET /requests/{id}/whatsapp", s.handleWhatsApp)

	// JSON API and health check
	s.apiServer.Register(mux)

	return s.logRequests(mux)
}

// Start starts the HTTP server and blocks until it stops
func (s *DashboardServer) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting HTTP server", zap.String("addr", s.addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *DashboardServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// ============ Dashboard Handlers ============

func (s *DashboardServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)
	if q := r.URL.Query(); q.Has("q") {
		sess.SetQuery(q.Get("q"))
	}
	s.render(w, pageData{Active: "requests", Title: "Requests", View: s.tableUC.Build(sess)})
}

func (s *DashboardServer) handleView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("view")
	if name == "requests" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var item *navItem
	for i := range sidebar {
		if sidebar[i].Name == name {
			item = &sidebar[i]
		}
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	sess := s.sessions.Resolve(w, r)
	state := sess.State()
	s.render(w, pageData{
		Active: item.Name,
		Title:  item.Title,
		View:   usecase.View{Mode: state.Mode, Theme: state.Theme},
	})
}

func (s *DashboardServer) handleSort(w http.ResponseWriter, r *http.Request) {
	key := domain.ColumnKey(r.PathValue("key"))
	if _, ok := domain.LookupColumn(key); !ok {
		http.Error(w, "unknown column", http.StatusBadRequest)
		return
	}

	sess := s.sessions.Resolve(w, r)
	st := sess.ToggleSort(key)
	s.logger.Debug("sort changed", zap.String("session", sess.ID), zap.String("key", string(st.Key)), zap.Bool("desc", st.Desc))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *DashboardServer) handleMode(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)
	sess.ToggleMode()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *DashboardServer) handleTheme(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)
	theme := sess.State().Theme.Toggle()
	sess.SetTheme(theme)
	api.RememberTheme(w, theme)

	// Back to the page the toggle was pressed on, same host only
	back := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		back = ref.Path
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// ============ Row Actions ============

func (s *DashboardServer) handleInvoice(w http.ResponseWriter, r *http.Request) {
	row, ok := s.recordStatus(w, r, domain.StatusInvoiceSent)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.composer.WriteInvoice(w, row); err != nil {
		s.logger.Error("failed to render invoice", zap.String("request", row.ID), zap.Error(err))
	}
}

func (s *DashboardServer) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	row, ok := s.recordStatus(w, r, domain.StatusWhatsAppSent)
	if !ok {
		return
	}
	http.Redirect(w, r, s.composer.WhatsAppLink(row), http.StatusFound)
}

// recordStatus looks up the {id} row in the caller's session and records label for it
func (s *DashboardServer) recordStatus(w http.ResponseWriter, r *http.Request, label string) (domain.Row, bool) {
	sess := s.sessions.Resolve(w, r)
	if sess.FetchErr != nil {
		http.Error(w, usecase.FetchErrorMessage, http.StatusBadGateway)
		return domain.Row{}, false
	}

	row, err := s.sessionUC.RecordStatus(r.Context(), sess, r.PathValue("id"), label)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return domain.Row{}, false
	}
	return row, true
}

// ============ Helpers ============

func (s *DashboardServer) render(w http.ResponseWriter, data pageData) {
	data.Nav = make([]navItem, len(sidebar))
	for i, item := range sidebar {
		item.Active = item.Name == data.Active
		data.Nav[i] = item
	}
	data.NoData = NoDataMessage

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render dashboard", zap.Error(err))
	}
}
