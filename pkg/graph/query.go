package graph

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fedamerd/msgraph-go/internal/constants"
)

// QueryParams represents OData query options for Graph requests.
//
// Filter, Search, OrderBy, and Count are advanced query features: the
// directory only honors them when the request carries the eventual
// consistency header and a count directive, both of which the client
// attaches automatically from Headers and ToValues.
type QueryParams struct {
	Select  []string
	Filter  string
	Search  string
	OrderBy []string
	Expand  []string
	Top     int
	Count   bool
}

// NewQueryParams creates a new empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithSelect appends properties to the $select projection.
func (q *QueryParams) WithSelect(properties ...string) *QueryParams {
	q.Select = append(q.Select, properties...)

	return q
}

// WithFilter sets the $filter expression.
func (q *QueryParams) WithFilter(expression string) *QueryParams {
	q.Filter = expression

	return q
}

// WithSearch sets the $search phrase. The phrase is sent quoted; pass
// it without surrounding quotes.
func (q *QueryParams) WithSearch(phrase string) *QueryParams {
	q.Search = phrase

	return q
}

// WithOrderBy appends ordering clauses, e.g. "displayName desc".
func (q *QueryParams) WithOrderBy(clauses ...string) *QueryParams {
	q.OrderBy = append(q.OrderBy, clauses...)

	return q
}

// WithExpand appends navigation properties to $expand.
func (q *QueryParams) WithExpand(properties ...string) *QueryParams {
	q.Expand = append(q.Expand, properties...)

	return q
}

// WithTop sets the page size hint.
func (q *QueryParams) WithTop(top int) *QueryParams {
	q.Top = top

	return q
}

// WithCount requests the total collection count on the first page.
func (q *QueryParams) WithCount() *QueryParams {
	q.Count = true

	return q
}

// RequiresAdvancedQuery reports whether the query uses features that
// need the eventual consistency level.
func (q *QueryParams) RequiresAdvancedQuery() bool {
	if q == nil {
		return false
	}

	return q.Filter != "" || q.Search != "" || len(q.OrderBy) > 0 || q.Count
}

// Validate rejects query shapes the service would refuse, before any
// network traffic happens.
func (q *QueryParams) Validate() error {
	if q == nil {
		return nil
	}

	if q.Top < 0 || q.Top > constants.MaxPageSize {
		return invalidQuery(constants.ErrTopOutOfRange.Error())
	}

	if q.Filter != "" && strings.TrimSpace(q.Filter) == "" {
		return invalidQuery(constants.ErrEmptyFilterExpression.Error())
	}

	if strings.Contains(q.Search, `"`) {
		return invalidQuery(constants.ErrSearchContainsQuotes.Error())
	}

	return nil
}

// ToValues converts the query options to url.Values. The encoding is
// stable: url.Values sorts keys on Encode, and list options preserve
// caller order, so equal inputs produce byte-identical query strings.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if len(q.Select) > 0 {
		values.Set("$select", strings.Join(q.Select, ","))
	}

	if q.Filter != "" {
		values.Set("$filter", q.Filter)
	}

	if q.Search != "" {
		values.Set("$search", `"`+q.Search+`"`)
	}

	if len(q.OrderBy) > 0 {
		values.Set("$orderby", strings.Join(q.OrderBy, ","))
	}

	if len(q.Expand) > 0 {
		values.Set("$expand", strings.Join(q.Expand, ","))
	}

	if q.Top > 0 {
		values.Set("$top", strconv.Itoa(q.Top))
	}

	if q.RequiresAdvancedQuery() {
		values.Set("$count", "true")
	}

	return values
}

// Headers returns the protocol headers this query shape requires.
func (q *QueryParams) Headers() map[string]string {
	if !q.RequiresAdvancedQuery() {
		return nil
	}

	return map[string]string{
		constants.HeaderConsistencyLevel: constants.ConsistencyLevelEventual,
	}
}

// Encode returns the stable query-string form of the options.
func (q *QueryParams) Encode() string {
	return q.ToValues().Encode()
}

// clone returns a copy safe to adjust without touching the caller's
// options.
func (q *QueryParams) clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	dup := *q
	dup.Select = append([]string(nil), q.Select...)
	dup.OrderBy = append([]string(nil), q.OrderBy...)
	dup.Expand = append([]string(nil), q.Expand...)

	return &dup
}

// invalidQuery wraps a validation failure in the pre-dispatch error class.
func invalidQuery(message string) error {
	return &Error{
		Code:    "BadRequest",
		Message: message,
		Err:     ErrInvalidQuery,
	}
}
