package types

// Message is a private-message inbox entry.
type Message struct {
	ThingData
	Created
	Author           string    `json:"author"`
	Dest             string    `json:"dest"`
	Subject          string    `json:"subject"`
	Body             string    `json:"body"`
	BodyHTML         string    `json:"body_html"`
	ParentID         *Fullname `json:"parent_id"`
	FirstMessageName *Fullname `json:"first_message_name"`
	WasComment       bool      `json:"was_comment"`
	New              bool      `json:"new"`
	Context          string    `json:"context"`
	Subreddit        *string   `json:"subreddit"`
}
