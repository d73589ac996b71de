package usecase

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
)

// FetchErrorMessage is shown instead of the table when the batch could not be loaded
const FetchErrorMessage = "Failed to load requests."

// TableConfig enumerates the columns of each mode and the searchable fields
type TableConfig struct {
	Minimal    []domain.Column
	Full       []domain.Column
	Searchable []domain.Column
}

// DefaultTableConfig returns the built-in column layout
func DefaultTableConfig() TableConfig {
	minimal, _ := domain.ResolveColumns([]domain.ColumnKey{
		domain.ColCustomerName, domain.ColEmail, domain.ColPhone, domain.ColCourier,
		domain.ColProductName, domain.ColQuantity, domain.ColTime, domain.ColStatus,
		domain.ColActions,
	}, nil)
	full, _ := domain.ResolveColumns([]domain.ColumnKey{
		domain.ColCustomerName, domain.ColEmail, domain.ColPhone, domain.ColAddress,
		domain.ColCourier, domain.ColProductName, domain.ColProductLinks, domain.ColQuantity,
		domain.ColDescription, domain.ColTime, domain.ColStatus, domain.ColActions,
	}, nil)
	searchable, _ := domain.ResolveColumns([]domain.ColumnKey{
		domain.ColCustomerName, domain.ColEmail, domain.ColPhone, domain.ColAddress,
		domain.ColCourier,
	}, nil)
	return TableConfig{Minimal: minimal, Full: full, Searchable: searchable}
}

// Filter keeps rows where at least one searchable field contains query,
// case-insensitively. Absent fields are skipped. An empty query returns rows as is.
func Filter(rows []domain.Row, query string, searchable []domain.Column) []domain.Row {
	if query == "" {
		return rows
	}
	q := strings.ToLower(query)

	out := make([]domain.Row, 0, len(rows))
	for i := range rows {
		for _, col := range searchable {
			txt, ok := col.Text(&rows[i])
			if !ok || !txt.Valid {
				continue
			}
			if strings.Contains(strings.ToLower(txt.Value), q) {
				out = append(out, rows[i])
				break
			}
		}
	}
	return out
}

// Sorter orders rows by a text column using a locale-aware collation
type Sorter struct {
	lang language.Tag
}

// NewSorter creates a sorter for the given collation language
func NewSorter(lang language.Tag) *Sorter {
	return &Sorter{lang: lang}
}

// Sort returns a sorted copy of rows. Only text columns order rows; for any other
// key, or no key, rows are returned unchanged. Absent values go last in both
// directions and ties keep their input order.
func (s *Sorter) Sort(rows []domain.Row, st domain.SortState) []domain.Row {
	if st.Key == "" {
		return rows
	}
	col, ok := domain.LookupColumn(st.Key)
	if !ok || !col.Sortable() {
		return rows
	}

	// Collator keeps internal buffers, one per call
	coll := collate.New(s.lang)
	sorted := slices.Clone(rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := col.Text(&sorted[i])
		b, _ := col.Text(&sorted[j])
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.Valid {
			return false
		}
		c := coll.CompareString(a.Value, b.Value)
		if st.Desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// HeaderCell describes a column header
type HeaderCell struct {
	Key      domain.ColumnKey `json:"key"`
	Title    string           `json:"title"`
	Align    domain.Align     `json:"align"`
	Sortable bool             `json:"sortable"`
	Sorted   bool             `json:"sorted,omitempty"`
	Desc     bool             `json:"desc,omitempty"`
}

// ViewRow is one rendered table row
type ViewRow struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// View is the render-ready table
type View struct {
	Columns []HeaderCell    `json:"columns"`
	Rows    []ViewRow       `json:"rows"`
	Query   string          `json:"query"`
	Mode    domain.ViewMode `json:"mode"`
	Theme   domain.Theme    `json:"theme"`
	Total   int             `json:"total"`
	Error   string          `json:"error,omitempty"`
}

// TableUsecase runs the filter, sort and format pipeline over a session's batch
type TableUsecase struct {
	cfg       TableConfig
	sorter    *Sorter
	formatter *Formatter
}

// NewTableUsecase creates a new table usecase
func NewTableUsecase(cfg TableConfig, sorter *Sorter, formatter *Formatter) *TableUsecase {
	return &TableUsecase{cfg: cfg, sorter: sorter, formatter: formatter}
}

// Columns returns the columns shown in mode
func (uc *TableUsecase) Columns(mode domain.ViewMode) []domain.Column {
	if mode == domain.ModeFull {
		return uc.cfg.Full
	}
	return uc.cfg.Minimal
}

// Rows filters then sorts rows for the given state
func (uc *TableUsecase) Rows(rows []domain.Row, state domain.ViewState) []domain.Row {
	return uc.sorter.Sort(Filter(rows, state.Query, uc.cfg.Searchable), state.Sort)
}

// Build renders the table for a session
func (uc *TableUsecase) Build(sess *domain.ViewSession) View {
	return uc.BuildState(sess, sess.State())
}

// BuildState renders the table for a session with an explicit view state
func (uc *TableUsecase) BuildState(sess *domain.ViewSession, state domain.ViewState) View {
	cols := uc.Columns(state.Mode)
	view := View{
		Query: state.Query,
		Mode:  state.Mode,
		Theme: state.Theme,
		Rows:  []ViewRow{},
	}
	for _, c := range cols {
		view.Columns = append(view.Columns, HeaderCell{
			Key:      c.Key,
			Title:    c.Title,
			Align:    c.Align(),
			Sortable: c.Sortable(),
			Sorted:   state.Sort.Key == c.Key,
			Desc:     state.Sort.Key == c.Key && state.Sort.Desc,
		})
	}

	if sess.FetchErr != nil {
		view.Error = FetchErrorMessage
		return view
	}

	view.Total = len(sess.Rows)
	for _, r := range uc.Rows(sess.Rows, state) {
		view.Rows = append(view.Rows, uc.FormatRow(&r, state.Mode, sess.Status))
	}
	return view
}

// FormatRow renders one row with the columns of mode. status may be nil.
func (uc *TableUsecase) FormatRow(r *domain.Row, mode domain.ViewMode, status *domain.StatusTracker) ViewRow {
	cols := uc.Columns(mode)
	vr := ViewRow{ID: r.ID, Cells: make([]Cell, 0, len(cols))}
	for _, c := range cols {
		vr.Cells = append(vr.Cells, uc.formatter.Cell(c, r, status))
	}
	return vr
}
