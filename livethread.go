package graw

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jamesprial/graw-reddit/internal"
	"github.com/jamesprial/graw-reddit/pkg/types"
)

// LiveThread wraps a decoded live-update thread with a back-reference to the
// Authed client that fetched or created it. Streaming WebsocketURL is out of
// scope; callers dial it themselves.
type LiveThread struct {
	types.LiveThread
	client *AuthedClient
}

func (l *LiveThread) path(tail string) string {
	return fmt.Sprintf("api/live/%s/%s", l.ID, tail)
}

// Update posts a new update to this live thread.
func (l *LiveThread) Update(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("body", text)
	_, err := post(ctx, l.client, internal.NewEndpoint(l.path("update")), form)
	return err
}

// Close ends this live thread; it will receive no further updates.
func (l *LiveThread) Close(ctx context.Context) error {
	_, err := post(ctx, l.client, internal.NewEndpoint(l.path("close_thread")), url.Values{})
	return err
}

// InviteContributor invites name to contribute to this live thread.
func (l *LiveThread) InviteContributor(ctx context.Context, name string) error {
	form := url.Values{}
	form.Set("name", name)
	form.Set("type", "liveupdate_contributor_invite")
	_, err := post(ctx, l.client, internal.NewEndpoint(l.path("invite_contributor")), form)
	return err
}

// About re-fetches this live thread's current state.
func (l *LiveThread) About(ctx context.Context) (*LiveThread, error) {
	return l.client.LiveThread(ctx, l.ID)
}

// CreateLiveThread creates a new live thread and returns a handle to it.
func (a *AuthedClient) CreateLiveThread(ctx context.Context, req types.LiveThreadCreateRequest) (*LiveThread, error) {
	form := url.Values{}
	form.Set("title", req.Title)
	form.Set("description", req.Description)
	form.Set("resources", req.Resources)
	if req.NSFW {
		form.Set("nsfw", "true")
	}
	created, err := postWithResponse[types.LiveThreadCreateData](ctx, a, internal.NewEndpoint("api/live/create"), form, "create live thread")
	if err != nil {
		return nil, err
	}
	return a.LiveThread(ctx, created.ID)
}

// LiveThread fetches the current state of the live thread with the given id.
func (a *AuthedClient) LiveThread(ctx context.Context, id string) (*LiveThread, error) {
	var thing types.Thing[types.LiveThread]
	if err := getJSON(ctx, a, internal.NewEndpoint("live/"+id+"/about"), &thing); err != nil {
		return nil, err
	}
	return &LiveThread{LiveThread: thing.Data, client: a}, nil
}
