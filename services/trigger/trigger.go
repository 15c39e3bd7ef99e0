// Package trigger decides, per configured mode, whether an inbound event
// should produce a translation.
package trigger

import (
	"fmt"
	"slices"
	"strings"

	"translatebot/models"
)

// Evaluator matches events against exactly one trigger mode. Adding a mode
// means adding a variant to models.TriggerMode and a new arm to the switch in
// EvaluateMessage.
type Evaluator struct {
	mode          models.TriggerMode
	prefix        string
	reactionEmoji string
	botUserID     string
	channelIDs    []string
}

// NewEvaluator creates an evaluator for the given mode. botUserID is required
// for mention mode, prefix for prefix mode, reactionEmoji for reaction mode.
func NewEvaluator(
	mode models.TriggerMode,
	prefix, reactionEmoji, botUserID string,
	channelIDs []string,
) (*Evaluator, error) {
	switch mode {
	case models.TriggerModePrefix:
		if prefix == "" {
			return nil, fmt.Errorf("prefix mode requires a non-empty prefix")
		}
	case models.TriggerModeMention:
		if botUserID == "" {
			return nil, fmt.Errorf("mention mode requires the bot user ID")
		}
	case models.TriggerModeReaction:
		if reactionEmoji == "" {
			return nil, fmt.Errorf("reaction mode requires a trigger emoji name")
		}
	case models.TriggerModeAll:
	default:
		return nil, fmt.Errorf("unknown trigger mode: %q", mode)
	}

	return &Evaluator{
		mode:          mode,
		prefix:        prefix,
		reactionEmoji: strings.Trim(reactionEmoji, ":"),
		botUserID:     botUserID,
		channelIDs:    channelIDs,
	}, nil
}

// Mode returns the active trigger mode
func (e *Evaluator) Mode() models.TriggerMode { return e.mode }

// ReactionEmoji returns the configured trigger emoji name (without colons)
func (e *Evaluator) ReactionEmoji() string { return e.reactionEmoji }

// ChannelAllowed applies the optional channel allow-list
func (e *Evaluator) ChannelAllowed(channelID string) bool {
	return len(e.channelIDs) == 0 || slices.Contains(e.channelIDs, channelID)
}

// EvaluateMessage decides whether a plain message event matches. Bot-authored
// messages never match (that would loop: the bot would translate its own
// replies), and neither do subtype messages like channel_join.
func (e *Evaluator) EvaluateMessage(event *models.SlackEvent) models.TriggerDecision {
	decision := models.TriggerDecision{Mode: e.mode}

	if event.BotID != "" || event.Subtype != "" {
		return decision
	}
	if !e.ChannelAllowed(event.Channel) {
		return decision
	}

	text := strings.TrimSpace(event.Text)

	switch e.mode {
	case models.TriggerModeAll:
		if text == "" {
			return decision
		}
		decision.Matched = true
		decision.Text = text

	case models.TriggerModePrefix:
		if !strings.HasPrefix(text, e.prefix) {
			return decision
		}
		stripped := strings.TrimSpace(strings.TrimPrefix(text, e.prefix))
		if stripped == "" {
			return decision
		}
		decision.Matched = true
		decision.Text = stripped

	case models.TriggerModeMention:
		mention := "<@" + e.botUserID + ">"
		if !strings.Contains(text, mention) {
			return decision
		}
		stripped := strings.TrimSpace(strings.ReplaceAll(text, mention, ""))
		if stripped == "" {
			return decision
		}
		decision.Matched = true
		decision.Text = stripped

	case models.TriggerModeReaction:
		// reaction mode matches reaction_added events, never plain messages
	}

	return decision
}

// EvaluateReaction decides whether a reaction_added event matches. The text
// to translate is not on the event; the caller resolves it via the channel
// and timestamp of the reacted-to item.
func (e *Evaluator) EvaluateReaction(event *models.SlackEvent) models.TriggerDecision {
	decision := models.TriggerDecision{Mode: e.mode}

	if e.mode != models.TriggerModeReaction {
		return decision
	}
	if event.Item == nil || event.Item.Type != "message" {
		return decision
	}
	if !e.ChannelAllowed(event.Item.Channel) {
		return decision
	}
	if strings.Trim(event.Reaction, ":") != e.reactionEmoji {
		return decision
	}

	decision.Matched = true
	return decision
}
