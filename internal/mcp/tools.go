package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

const errFetchFailed = "failed to load requests"

// ListRequestsInput selects the search, sort and column set
type ListRequestsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Case-insensitive text to search for; empty lists every request"`
	Sort  string `json:"sort,omitempty" jsonschema:"Column key to sort by, e.g. Customer-Name or Courier"`
	Desc  bool   `json:"desc,omitempty" jsonschema:"Sort descending"`
	Mode  string `json:"mode,omitempty" jsonschema:"Column set: minimal (default) or full"`
}

// ListRequestsOutput is the rendered table
type ListRequestsOutput struct {
	Columns []usecase.HeaderCell `json:"columns"`
	Rows    []usecase.ViewRow    `json:"rows"`
	Total   int                  `json:"total"`
	Error   string               `json:"error,omitempty"`
}

func (s *Server) handleListRequests(ctx context.Context, req *mcp.CallToolRequest, input ListRequestsInput) (*mcp.CallToolResult, ListRequestsOutput, error) {
	state := domain.ViewState{Query: input.Query, Mode: domain.ModeMinimal, Theme: domain.ThemeLight}

	switch domain.ViewMode(input.Mode) {
	case "", domain.ModeMinimal:
	case domain.ModeFull:
		state.Mode = domain.ModeFull
	default:
		return nil, listError("mode must be minimal or full"), nil
	}

	if input.Sort != "" {
		if _, ok := domain.LookupColumn(domain.ColumnKey(input.Sort)); !ok {
			return nil, listError("unknown sort column: " + input.Sort), nil
		}
		state.Sort = domain.SortState{Key: domain.ColumnKey(input.Sort), Desc: input.Desc}
	}

	view := s.tableUC.BuildState(s.session(ctx), state)
	if view.Error != "" {
		return nil, listError(errFetchFailed), nil
	}
	return nil, ListRequestsOutput{Columns: view.Columns, Rows: view.Rows, Total: view.Total}, nil
}

func listError(msg string) ListRequestsOutput {
	return ListRequestsOutput{Columns: []usecase.HeaderCell{}, Rows: []usecase.ViewRow{}, Error: msg}
}

// RequestIDInput names one request
type RequestIDInput struct {
	ID string `json:"id" jsonschema:"The request id"`
}

// GetRequestOutput contains one formatted request
type GetRequestOutput struct {
	Request *usecase.ViewRow `json:"request,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func (s *Server) handleGetRequest(ctx context.Context, req *mcp.CallToolRequest, input RequestIDInput) (*mcp.CallToolResult, GetRequestOutput, error) {
	sess, row, errText := s.findRow(ctx, input.ID)
	if errText != "" {
		return nil, GetRequestOutput{Error: errText}, nil
	}
	vr := s.tableUC.FormatRow(&row, domain.ModeFull, sess.Status)
	return nil, GetRequestOutput{Request: &vr}, nil
}

// URLOutput contains a composed link
type URLOutput struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleComposeWhatsAppLink(ctx context.Context, req *mcp.CallToolRequest, input RequestIDInput) (*mcp.CallToolResult, URLOutput, error) {
	_, row, errText := s.findRow(ctx, input.ID)
	if errText != "" {
		return nil, URLOutput{Error: errText}, nil
	}
	return nil, URLOutput{URL: s.composer.WhatsAppLink(row)}, nil
}

func (s *Server) handleInvoiceQRURL(ctx context.Context, req *mcp.CallToolRequest, input RequestIDInput) (*mcp.CallToolResult, URLOutput, error) {
	_, row, errText := s.findRow(ctx, input.ID)
	if errText != "" {
		return nil, URLOutput{Error: errText}, nil
	}
	return nil, URLOutput{URL: s.composer.QRCodeURL(row)}, nil
}

func (s *Server) findRow(ctx context.Context, id string) (*domain.ViewSession, domain.Row, string) {
	if id == "" {
		return nil, domain.Row{}, "id is required"
	}
	sess := s.session(ctx)
	if sess.FetchErr != nil {
		return nil, domain.Row{}, errFetchFailed
	}
	row, err := sess.FindRow(id)
	if err != nil {
		return nil, domain.Row{}, err.Error()
	}
	return sess, row, ""
}
