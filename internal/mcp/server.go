package mcp

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

// Server exposes the request view as MCP tools over one in-process view session
type Server struct {
	server    *mcp.Server
	sessionUC *usecase.SessionUsecase
	tableUC   *usecase.TableUsecase
	composer  *usecase.Composer
	logger    *zap.Logger

	mu     sync.Mutex
	sessID string
}

// NewServer creates a new MCP server and registers its tools
func NewServer(sessionUC *usecase.SessionUsecase, tableUC *usecase.TableUsecase, composer *usecase.Composer, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "request-dashboard",
			Version: version,
		}, nil),
		sessionUC: sessionUC,
		tableUC:   tableUC,
		composer:  composer,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Run serves the tools over stdio until ctx is done or the client disconnects
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server started")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// session returns the current view session, fetching a new batch when it has expired
func (s *Server) session(ctx context.Context) *domain.ViewSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, created := s.sessionUC.GetOrCreate(ctx, s.sessID, domain.ThemeLight)
	if created {
		s.sessID = sess.ID
		s.logger.Debug("view session started", zap.String("session", sess.ID))
	}
	return sess
}

// registerTools registers all request tools
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_requests",
		Description: "List customer order requests. Optionally filter by a case-insensitive search over name, email, phone, address and courier, sort by a text column, and choose the minimal or full column set.",
	}, s.handleListRequests)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_request",
		Description: "Get one order request by id with every column formatted for display.",
	}, s.handleGetRequest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compose_whatsapp_link",
		Description: "Build the wa.me link that opens WhatsApp with the order greeting prefilled for the request's customer.",
	}, s.handleComposeWhatsAppLink)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "invoice_qr_url",
		Description: "Get the image URL of the QR code printed on the request's invoice.",
	}, s.handleInvoiceQRURL)
}
