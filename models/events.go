package models

// SlackEventEnvelope is the outer payload Slack delivers to the events
// endpoint. It is either a url_verification challenge or an event_callback
// wrapping a single workspace event.
type SlackEventEnvelope struct {
	Type      string      `json:"type"`
	Challenge string      `json:"challenge,omitempty"`
	TeamID    string      `json:"team_id,omitempty"`
	EventID   string      `json:"event_id,omitempty"`
	Event     *SlackEvent `json:"event,omitempty"`
}

// SlackEvent is the inner event of an event_callback envelope. The fields are
// a union across message, message_changed and reaction_added events; which
// ones are populated depends on Type and Subtype.
type SlackEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype,omitempty"`
	Channel  string `json:"channel,omitempty"`
	User     string `json:"user,omitempty"`
	BotID    string `json:"bot_id,omitempty"`
	Text     string `json:"text,omitempty"`
	TS       string `json:"ts,omitempty"`
	ThreadTS string `json:"thread_ts,omitempty"`
	EventTS  string `json:"event_ts,omitempty"`

	// reaction_added fields
	Reaction string     `json:"reaction,omitempty"`
	Item     *SlackItem `json:"item,omitempty"`

	// message_changed fields
	Message         *SlackEditedMessage `json:"message,omitempty"`
	PreviousMessage *SlackEditedMessage `json:"previous_message,omitempty"`
}

// SlackItem references the target of a reaction.
type SlackItem struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}

// SlackEditedMessage is the current (or previous) state of an edited message
// as embedded in a message_changed event. Reactions is nil when Slack omits
// the reaction state from the edit payload.
type SlackEditedMessage struct {
	Type      string               `json:"type"`
	User      string               `json:"user,omitempty"`
	BotID     string               `json:"bot_id,omitempty"`
	TS        string               `json:"ts"`
	ThreadTS  string               `json:"thread_ts,omitempty"`
	Text      string               `json:"text,omitempty"`
	Edited    *SlackEditInfo       `json:"edited,omitempty"`
	Reactions []SlackReactionState `json:"reactions,omitempty"`
}

// SlackEditInfo carries the timestamp of an individual edit.
type SlackEditInfo struct {
	User string `json:"user,omitempty"`
	TS   string `json:"ts"`
}

// SlackReactionState is one reaction entry embedded in an edit payload.
type SlackReactionState struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Users []string `json:"users,omitempty"`
}
