package cms

import (
	"fmt"
	"strconv"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

const (
	// DefaultPage is used when the page parameter is missing or invalid.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is missing or invalid.
	DefaultLimit = 10
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 100
)

// FilterCriteria turns one raw request parameter value into a select
// criteria. Each resource declares which parameters it accepts and how
// they bind to columns.
type FilterCriteria func(value string) repository.SelectCriteria

// ListSpec describes how a resource exposes the list pipeline: the
// filterable parameters, the searchable columns, the sortable columns and
// the fallback ordering.
type ListSpec struct {
	Filters      map[string]FilterCriteria
	SearchFields []string
	SortFields   map[string]string
	DefaultSort  string
}

// ListParams is an immutable snapshot of a list request after the filter,
// search, sort and paginate stages have been resolved against a ListSpec.
// Invalid numeric input is coerced into range, unknown parameters are
// dropped, never errored.
type ListParams struct {
	Page   int
	Limit  int
	Sort   string
	Order  string
	Search string

	spec    ListSpec
	filters map[string]string
}

// Parse resolves raw request query values against the spec.
func (s ListSpec) Parse(values map[string]string) ListParams {
	params := ListParams{
		Page:  parseBounded(values["page"], DefaultPage, 1, 0),
		Limit: parseBounded(values["limit"], DefaultLimit, 1, MaxLimit),
		Order: "DESC",
		spec:  s,
	}

	if strings.EqualFold(strings.TrimSpace(values["order"]), "asc") {
		params.Order = "ASC"
	}

	if column, ok := s.SortFields[strings.TrimSpace(values["sort"])]; ok {
		params.Sort = column
	}

	params.Search = strings.TrimSpace(values["q"])

	for param := range s.Filters {
		if value := strings.TrimSpace(values[param]); value != "" {
			if params.filters == nil {
				params.filters = map[string]string{}
			}
			params.filters[param] = value
		}
	}

	return params
}

// SelectCriteria compiles the filter and search stages only. Both the data
// query and the count query apply exactly this set so total and page stay
// consistent with each other.
func (p ListParams) SelectCriteria() []repository.SelectCriteria {
	criteria := make([]repository.SelectCriteria, 0, len(p.filters)+1)

	for param, value := range p.filters {
		if build, ok := p.spec.Filters[param]; ok {
			criteria = append(criteria, build(value))
		}
	}

	if p.Search != "" && len(p.spec.SearchFields) > 0 {
		criteria = append(criteria, searchCriteria(p.spec.SearchFields, p.Search))
	}

	return criteria
}

// ApplyOrderAndPage adds the sort and paginate stages to a data query.
func (p ListParams) ApplyOrderAndPage(q *bun.SelectQuery) *bun.SelectQuery {
	sort := p.Sort
	if sort == "" {
		sort = p.spec.DefaultSort
	}
	if sort == "" {
		sort = "created_at"
	}

	return q.
		OrderExpr(fmt.Sprintf("?TableAlias.%s %s", sort, p.Order)).
		Limit(p.Limit).
		Offset(p.Offset())
}

// Offset derives the row offset from page and limit.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes ceil(total/limit) with a floor of one page.
func (p ListParams) TotalPages(total int) int {
	pages := (total + p.Limit - 1) / p.Limit
	if pages < 1 {
		return 1
	}
	return pages
}

// ListResult is the uniform list response envelope.
type ListResult[T any] struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Results    int `json:"results"`
	Data       []T `json:"data"`
}

// NewListResult assembles the envelope from a page of records and the
// independently computed total.
func NewListResult[T any](params ListParams, total int, data []T) *ListResult[T] {
	if data == nil {
		data = []T{}
	}
	return &ListResult[T]{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: params.TotalPages(total),
		Results:    len(data),
		Data:       data,
	}
}

// FilterEquals binds a parameter to a column equality match.
func FilterEquals(column string) FilterCriteria {
	return func(value string) repository.SelectCriteria {
		return func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(fmt.Sprintf("?TableAlias.%s = ?", column), value)
		}
	}
}

// FilterTag binds a parameter to membership in a JSON encoded tag list.
func FilterTag(column string) FilterCriteria {
	return func(value string) repository.SelectCriteria {
		return func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(fmt.Sprintf(`?TableAlias.%s LIKE ? ESCAPE '\'`, column), `%"`+escapeLike(value)+`"%`)
		}
	}
}

func searchCriteria(fields []string, term string) repository.SelectCriteria {
	needle := "%" + escapeLike(strings.ToLower(term)) + "%"
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
			for _, field := range fields {
				g = g.WhereOr(fmt.Sprintf(`lower(?TableAlias.%s) LIKE ? ESCAPE '\'`, field), needle)
			}
			return g
		})
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in caller supplied terms so a
// stray % or _ matches itself instead of everything.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func parseBounded(raw string, fallback, min, max int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	if value < min {
		return min
	}
	if max > 0 && value > max {
		return max
	}
	return value
}
