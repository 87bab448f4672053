package graw

import (
	"context"

	"github.com/jamesprial/graw-reddit/internal"
	"github.com/jamesprial/graw-reddit/pkg/types"
)

// Listing is a decoded page of items, carrying the before/after cursors a
// caller threads back into types.FeedOption for the next page. Unlike the
// raw wire Listing[T], every item here keeps a back-reference to the client
// that produced it so mutating operations (reply, edit, remove, ...) don't
// require the caller to re-thread credentials.
type Listing[T any] struct {
	client client

	Before *types.Fullname
	After  *types.Fullname
	Items  []T
}

// NextPage returns the FeedOption a caller should pass to fetch the page
// following this one, preserving limit/period from opt.
func (l *Listing[T]) NextPage(opt types.FeedOption) types.FeedOption {
	next := opt
	if l.After != nil {
		next.After = l.After.Full()
	} else {
		next.After = ""
	}
	next.Before = ""
	return next
}

// wrapListing decodes one raw Thing[Raw] listing page and maps each child
// into a domain type via wrap, which receives the same client back-reference
// every item in the page shares.
func wrapListing[Raw any, Wrapped any](c client, raw types.Listing[types.Thing[Raw]], wrap func(client, Raw) Wrapped) *Listing[Wrapped] {
	items := make([]Wrapped, 0, len(raw.Children))
	for _, child := range raw.Children {
		items = append(items, wrap(c, child.Data))
	}
	return &Listing[Wrapped]{client: c, Before: raw.Before, After: raw.After, Items: items}
}

// fetchListing issues the GET, applies opt's pagination/sort parameters, and
// wraps the resulting BasicListing[Raw] page into a Listing[Wrapped].
func fetchListing[Raw any, Wrapped any](ctx context.Context, c client, ep *internal.Endpoint, opt types.FeedOption, wrap func(client, Raw) Wrapped) (*Listing[Wrapped], error) {
	for _, kv := range opt.Params() {
		ep.WithQuery(kv[0], kv[1])
	}
	var raw types.BasicListing[Raw]
	if err := getJSON(ctx, c, ep, &raw); err != nil {
		return nil, err
	}
	return wrapListing(c, raw.Data, wrap), nil
}
