package models

import "fmt"

// DedupKey identifies one logical delivery. For ordinary messages EditTS is
// empty; for edits it carries the edit timestamp so that two edits of the same
// message are distinct keys. Keys are compared by value equality.
type DedupKey struct {
	Channel string
	TS      string
	EditTS  string
}

func (k DedupKey) String() string {
	if k.EditTS == "" {
		return fmt.Sprintf("%s/%s", k.Channel, k.TS)
	}
	return fmt.Sprintf("%s/%s@%s", k.Channel, k.TS, k.EditTS)
}

// ResolvedMessage is the authoritative state of a message fetched from the
// Slack Web API. ThreadTS is the thread root timestamp and equals TS when the
// message is itself the root.
type ResolvedMessage struct {
	Channel  string
	TS       string
	ThreadTS string
	Text     string
	IsBot    bool
}

// TriggerMode selects which inbound events qualify for translation.
type TriggerMode string

const (
	TriggerModeAll      TriggerMode = "all"
	TriggerModePrefix   TriggerMode = "prefix"
	TriggerModeMention  TriggerMode = "mention"
	TriggerModeReaction TriggerMode = "reaction"
)

// ParseTriggerMode validates a configured trigger mode string.
func ParseTriggerMode(s string) (TriggerMode, error) {
	switch TriggerMode(s) {
	case TriggerModeAll, TriggerModePrefix, TriggerModeMention, TriggerModeReaction:
		return TriggerMode(s), nil
	}
	return "", fmt.Errorf("unknown trigger mode: %q", s)
}

// TriggerDecision is the outcome of evaluating an event against the active
// trigger mode. Text carries the text to translate when Matched, except in
// reaction mode where the text lives on the reacted-to message and must be
// resolved separately.
type TriggerDecision struct {
	Matched bool
	Mode    TriggerMode
	Text    string
}
