package graph

import (
	"context"
	"fmt"

	"github.com/fedamerd/msgraph-go/internal/constants"
)

// PageLister fetches one page of a collection. The first call receives
// a relative path carrying encoded query options; every later call
// receives the service-issued @odata.nextLink verbatim. Resource
// clients implement this, so the helpers below work against any of
// them.
type PageLister[T any] interface {
	ListPage(ctx context.Context, pageURL string) (*ListResponse[T], error)
}

// PaginationOptions configures the pagination helpers.
type PaginationOptions struct {
	// PageSize is applied as $top when the query options carry none.
	PageSize int
	// MaxPages caps how many pages a run will fetch. 0 means the default.
	MaxPages int
}

// DefaultPaginationOptions returns options that fetch maximal pages up
// to the default page cap.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.MaxPageSize,
		MaxPages: constants.DefaultMaxPages,
	}
}

// PageResult is one streamed page batch.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// PaginationIterator walks a collection item by item, fetching pages
// lazily and strictly in cursor order.
type PaginationIterator[T any] struct {
	ctx      context.Context
	lister   PageLister[T]
	nextURL  string
	buffer   []T
	pos      int
	pages    int
	maxPages int
	done     bool
	err      error
}

// NewPaginationIterator creates an iterator over the collection at path
// with the given query options.
func NewPaginationIterator[T any](ctx context.Context, lister PageLister[T], path string, params *QueryParams) *PaginationIterator[T] {
	iterator := &PaginationIterator[T]{
		ctx:      ctx,
		lister:   lister,
		nextURL:  BuildPageURL(path, params),
		maxPages: constants.DefaultMaxPages,
	}

	if err := params.Validate(); err != nil {
		iterator.err = err
		iterator.done = true
	}

	return iterator
}

// HasNext reports whether another item is available, fetching the next
// page if the current one is exhausted.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.pos < len(it.buffer) {
		return true
	}

	if it.done {
		return false
	}

	it.fetchNextPage()

	return it.pos < len(it.buffer)
}

// Next returns the next item. After the last item it returns
// ErrNoMoreItems, or the error that stopped the run.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.buffer[it.pos]
	it.pos++

	return item, nil
}

// All drains the iterator. A failure on any page discards the items
// collected so far and returns the error; use ForEach or StreamPages
// for incremental consumption that keeps earlier pages.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if it.err != nil {
		return nil, it.err
	}

	return items, nil
}

// ForEach applies fn to every item in service order. Items delivered
// before a page failure have already been processed when the error is
// returned.
func (it *PaginationIterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return it.err
}

func (it *PaginationIterator[T]) fetchNextPage() {
	if it.pages >= it.maxPages {
		it.done = true

		return
	}

	page, err := it.lister.ListPage(it.ctx, it.nextURL)
	if err != nil {
		it.err = err
		it.done = true

		return
	}

	it.buffer = page.Value
	it.pos = 0
	it.pages++

	if page.HasNextPage() {
		it.nextURL = page.NextLink
	} else {
		it.done = true
	}
}

// FetchAllPages collects the full collection at path into one slice,
// following the next-page cursor until the service stops returning one.
// The result is all-or-nothing: a failed page discards everything
// fetched before it and returns the error carrying the page ordinal.
func FetchAllPages[T any](ctx context.Context, lister PageLister[T], path string, params *QueryParams, options *PaginationOptions) ([]T, error) {
	params, options, err := preparePagination(params, options)
	if err != nil {
		return nil, err
	}

	var items []T

	pageURL := BuildPageURL(path, params)

	for pageNum := 1; pageNum <= options.MaxPages; pageNum++ {
		page, err := lister.ListPage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNum, err)
		}

		items = append(items, page.Value...)

		if !page.HasNextPage() {
			break
		}

		pageURL = page.NextLink
	}

	return items, nil
}

// StreamPages fetches pages sequentially and delivers each batch on the
// returned channel as it arrives. The channel is closed after the final
// page, after a failed page (whose PageResult carries the error), or
// once ctx is done. Batches delivered before a failure remain valid.
func StreamPages[T any](ctx context.Context, lister PageLister[T], path string, params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	results := make(chan PageResult[T], constants.StreamBufferSize)

	params, options, err := preparePagination(params, options)
	if err != nil {
		results <- PageResult[T]{Err: err}
		close(results)

		return results
	}

	go func() {
		defer close(results)

		pageURL := BuildPageURL(path, params)

		for pageNum := 1; pageNum <= options.MaxPages; pageNum++ {
			page, err := lister.ListPage(ctx, pageURL)
			if err != nil {
				select {
				case results <- PageResult[T]{Err: fmt.Errorf("fetching page %d: %w", pageNum, err)}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: page.Value}:
			case <-ctx.Done():
				return
			}

			if !page.HasNextPage() {
				return
			}

			pageURL = page.NextLink
		}
	}()

	return results
}

// BuildPageURL joins a collection path with its encoded query options.
func BuildPageURL(path string, params *QueryParams) string {
	encoded := params.Encode()
	if encoded == "" {
		return path
	}

	return path + "?" + encoded
}

func preparePagination(params *QueryParams, options *PaginationOptions) (*QueryParams, *PaginationOptions, error) {
	if options == nil {
		options = DefaultPaginationOptions()
	} else {
		dup := *options
		options = &dup
	}

	if options.MaxPages <= 0 {
		options.MaxPages = constants.DefaultMaxPages
	}

	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	params = params.clone()
	if params.Top == 0 && options.PageSize > 0 {
		params.Top = options.PageSize
	}

	return params, options, nil
}
