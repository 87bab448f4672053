package types

// LiveThreadState is the lifecycle state of a live thread.
type LiveThreadState int

const (
	LiveThreadLive LiveThreadState = iota
	LiveThreadComplete
)

func (s *LiveThreadState) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"live"`:
		*s = LiveThreadLive
	case `"complete"`:
		*s = LiveThreadComplete
	default:
		*s = LiveThreadLive
	}
	return nil
}

func (s LiveThreadState) MarshalJSON() ([]byte, error) {
	if s == LiveThreadComplete {
		return []byte(`"complete"`), nil
	}
	return []byte(`"live"`), nil
}

// LiveThread is a Reddit live-update thread. WebsocketURL is populated only
// while State == LiveThreadLive; streaming it is out of scope for this
// client, so callers dial it themselves.
type LiveThread struct {
	ThingData
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"description_html"`
	State           LiveThreadState `json:"state"`
	WebsocketURL    *string         `json:"websocket_url"`
	NSFW            bool            `json:"nsfw"`
	TotalViews      *int            `json:"total_views"`
	ViewerCount     *int            `json:"viewer_count"`
	IsAnnouncement  bool            `json:"is_announcement"`
	Created
}

// LiveUpdate is a single posted update within a live thread.
type LiveUpdate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	BodyHTML   string  `json:"body_html"`
	Stricken   bool    `json:"stricken"`
	EmbedsJSON *string `json:"embeds,omitempty"`
	Created
}

// LiveThreadCreateData is returned by the live-thread creation endpoint.
type LiveThreadCreateData struct {
	ID string `json:"id"`
}

// LiveThreadCreateRequest is the form used to create a new live thread.
type LiveThreadCreateRequest struct {
	Title       string
	Description string
	Resources   string
	NSFW        bool
}
