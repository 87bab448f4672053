package graw

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/jamesprial/graw-reddit/internal"
	"github.com/jamesprial/graw-reddit/pkg/types"
	"github.com/jamesprial/graw-reddit/pkg/validation"
)

// Message wraps a decoded private-message inbox entry with a back-reference
// to the Authed client that fetched it.
type Message struct {
	types.Message
	client *AuthedClient
}

func newMessage(a *AuthedClient, d types.Message) *Message {
	if err := validation.ValidateMessage(&d); err != nil {
		a.logger().Warn("decoded message failed validation", slog.String("err", err.Error()))
	}
	return &Message{Message: d, client: a}
}

// Read marks this message as read.
func (m *Message) Read(ctx context.Context) error {
	form := url.Values{}
	form.Set("id", m.Name.Full())
	_, err := post(ctx, m.client, internal.NewEndpoint("api/read_message"), form)
	return err
}

// Unread marks this message as unread.
func (m *Message) Unread(ctx context.Context) error {
	form := url.Values{}
	form.Set("id", m.Name.Full())
	_, err := post(ctx, m.client, internal.NewEndpoint("api/unread_message"), form)
	return err
}

// Reply sends a reply to this message, threaded via its own fullname.
func (m *Message) Reply(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("text", text)
	form.Set("parent", m.Name.Full())
	_, err := post(ctx, m.client, internal.NewEndpoint("api/comment"), form)
	return err
}

// Inbox fetches one of the authenticated user's message boxes. kind selects
// "inbox", "unread", or "sent"; empty defaults to "inbox".
func (a *AuthedClient) Inbox(ctx context.Context, kind string, opt types.FeedOption) (*Listing[*Message], error) {
	if kind == "" {
		kind = "inbox"
	}
	return fetchListing(ctx, a, internal.NewEndpoint("message/"+kind), opt, func(c client, d types.Message) *Message {
		return newMessage(c.(*AuthedClient), d)
	})
}

// Compose sends a new private message.
func (a *AuthedClient) Compose(ctx context.Context, to, subject, text string) error {
	form := url.Values{}
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", text)
	_, err := post(ctx, a, internal.NewEndpoint("api/compose"), form)
	return err
}

// Saved fetches the authenticated user's saved submissions and comments.
func (a *AuthedClient) Saved(ctx context.Context, username string, opt types.FeedOption) (*Listing[*types.SavedItem], error) {
	return a.savedListKind(ctx, username, "saved", opt)
}

// Upvoted fetches the authenticated user's upvoted submissions and comments.
func (a *AuthedClient) Upvoted(ctx context.Context, username string, opt types.FeedOption) (*Listing[*types.SavedItem], error) {
	return a.savedListKind(ctx, username, "upvoted", opt)
}

// Downvoted fetches the authenticated user's downvoted submissions and
// comments.
func (a *AuthedClient) Downvoted(ctx context.Context, username string, opt types.FeedOption) (*Listing[*types.SavedItem], error) {
	return a.savedListKind(ctx, username, "downvoted", opt)
}

// savedListKind decodes the user/<username>/<kind> listing directly rather
// than through fetchListing: its children mix t1/t3 kinds, and SavedItem's
// own UnmarshalJSON already consumes the {kind, data} envelope per child, so
// wrapping it in another Thing[T] layer (as BasicListing does for every
// single-kind listing) would hand SavedItem only the inner data payload and
// lose the kind tag it needs to dispatch on.
func (a *AuthedClient) savedListKind(ctx context.Context, username, kind string, opt types.FeedOption) (*Listing[*types.SavedItem], error) {
	ep := internal.NewEndpoint("user/" + username + "/" + kind)
	for _, kv := range opt.Params() {
		ep.WithQuery(kv[0], kv[1])
	}
	var raw types.Thing[types.Listing[types.SavedItem]]
	if err := getJSON(ctx, a, ep, &raw); err != nil {
		return nil, err
	}
	items := make([]*types.SavedItem, 0, len(raw.Data.Children))
	for i := range raw.Data.Children {
		items = append(items, &raw.Data.Children[i])
	}
	return &Listing[*types.SavedItem]{client: a, Before: raw.Data.Before, After: raw.Data.After, Items: items}, nil
}

// Me fetches the authenticated user's own account record.
func (a *AuthedClient) Me(ctx context.Context) (*types.AccountData, error) {
	var account types.AccountData
	if err := getJSON(ctx, a, internal.NewEndpoint("api/v1/me"), &account); err != nil {
		return nil, err
	}
	if err := validation.ValidateAccountData(&account); err != nil {
		a.logger().Warn("decoded account failed validation", slog.String("err", err.Error()))
	}
	return &account, nil
}
