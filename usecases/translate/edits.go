package translate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"translatebot/clients"
	"translatebot/models"
)

// ProcessMessageChanged handles a message_changed event. Edits only matter in
// reaction mode: editing a message that carries the trigger reaction is a
// fresh trigger, keyed by (message ts, edit ts) so the same edit delivered
// twice is dropped but a later edit of the same message translates again.
//
// Each qualifying edit posts an additional reply; earlier replies for the
// same message are never located or replaced.
func (u *TranslateUseCase) ProcessMessageChanged(ctx context.Context, event *models.SlackEvent) error {
	log.Printf("📋 Starting to process message_changed event in %s", event.Channel)

	if u.trigger.Mode() != models.TriggerModeReaction {
		log.Printf("⏭️ Edits are only handled in reaction mode, current mode is %s", u.trigger.Mode())
		return nil
	}

	edited := event.Message
	if edited == nil || edited.TS == "" {
		log.Printf("⏭️ message_changed event carries no message payload")
		return nil
	}
	if edited.BotID != "" {
		log.Printf("⏭️ Edited message %s is bot-authored, skipping", edited.TS)
		return nil
	}
	if !u.trigger.ChannelAllowed(event.Channel) {
		log.Printf("⏭️ Channel %s is not on the allow-list, skipping edit", event.Channel)
		return nil
	}

	editTS := event.EventTS
	if edited.Edited != nil && edited.Edited.TS != "" {
		editTS = edited.Edited.TS
	}

	key := models.DedupKey{Channel: event.Channel, TS: edited.TS, EditTS: editTS}
	isNew, err := u.dedupStore.MarkIfNew(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check dedup store: %w", err)
	}
	if !isNew {
		log.Printf("⏭️ Edit %s already processed, skipping retry", key)
		return nil
	}

	hasTrigger, err := u.editHasTriggerReaction(ctx, event.Channel, edited)
	if err != nil {
		return err
	}
	if !hasTrigger {
		log.Printf("⏭️ Edited message %s has no :%s: reaction, ignoring edit",
			edited.TS, u.trigger.ReactionEmoji())
		return nil
	}

	text := strings.TrimSpace(edited.Text)
	if text == "" {
		log.Printf("⏭️ Edited message %s has no text, skipping", edited.TS)
		return nil
	}

	threadTS, err := u.editThreadRoot(ctx, event.Channel, edited)
	if err != nil {
		return err
	}

	return u.translateAndReply(ctx, event.Channel, threadTS, text)
}

// editHasTriggerReaction inspects the reaction state embedded in the edit
// payload when Slack includes one, and actively fetches the current reactions
// otherwise.
func (u *TranslateUseCase) editHasTriggerReaction(
	ctx context.Context,
	channelID string,
	edited *models.SlackEditedMessage,
) (bool, error) {
	emoji := u.trigger.ReactionEmoji()

	if edited.Reactions != nil {
		for _, reaction := range edited.Reactions {
			if reaction.Name == emoji {
				return true, nil
			}
		}
		return false, nil
	}

	log.Printf("📋 Edit payload for %s lacks reaction data, fetching current reactions", edited.TS)
	reactions, err := u.slackClient.GetReactions(ctx, clients.SlackItemRef{
		Channel:   channelID,
		Timestamp: edited.TS,
	})
	if err != nil {
		return false, fmt.Errorf("failed to fetch reactions for edited message: %w", err)
	}
	for _, reaction := range reactions {
		if reaction.Name == emoji {
			return true, nil
		}
	}
	return false, nil
}

// editThreadRoot finds the thread anchor for the edited message. An edited
// message may itself be a reply, in which case the reply must anchor at the
// enclosing thread's root, not at the edited message.
func (u *TranslateUseCase) editThreadRoot(
	ctx context.Context,
	channelID string,
	edited *models.SlackEditedMessage,
) (string, error) {
	if edited.ThreadTS != "" {
		return edited.ThreadTS, nil
	}

	maybeMessage, err := u.resolver.ResolveMessage(ctx, channelID, edited.TS)
	if err != nil {
		return "", fmt.Errorf("failed to resolve edited message: %w", err)
	}
	if maybeMessage.IsPresent() {
		return maybeMessage.MustGet().ThreadTS, nil
	}
	// Resolution exhausted; anchoring at the message itself still threads the
	// reply correctly for a top-level message.
	return edited.TS, nil
}
