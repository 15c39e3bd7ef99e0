package translate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"translatebot/clients"
	"translatebot/core"
	"translatebot/extract"
	"translatebot/models"
)

// ProcessMessageEvent handles a plain (non-edit) message event.
func (u *TranslateUseCase) ProcessMessageEvent(ctx context.Context, event *models.SlackEvent) error {
	log.Printf("📋 Starting to process message event in %s (ts %s)", event.Channel, event.TS)

	decision := u.trigger.EvaluateMessage(event)
	if !decision.Matched {
		log.Printf("⏭️ Message %s in %s did not match trigger mode %s", event.TS, event.Channel, decision.Mode)
		return nil
	}

	key := models.DedupKey{Channel: event.Channel, TS: event.TS}
	isNew, err := u.dedupStore.MarkIfNew(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check dedup store: %w", err)
	}
	if !isNew {
		log.Printf("⏭️ Event %s already processed, skipping retry", key)
		return nil
	}

	// Replies anchor at the thread root, never at the triggering message.
	threadTS := event.ThreadTS
	if threadTS == "" {
		threadTS = event.TS
	}

	return u.translateAndReply(ctx, event.Channel, threadTS, decision.Text)
}

// ProcessReactionAdded handles a reaction_added event. The reaction event
// carries no message text; the reacted-to message is resolved through the
// Web API first.
func (u *TranslateUseCase) ProcessReactionAdded(ctx context.Context, event *models.SlackEvent) error {
	log.Printf("📋 Starting to process reaction :%s: added by %s", event.Reaction, event.User)

	decision := u.trigger.EvaluateReaction(event)
	if !decision.Matched {
		log.Printf("⏭️ Reaction :%s: did not match trigger mode %s", event.Reaction, decision.Mode)
		return nil
	}

	key := models.DedupKey{Channel: event.Item.Channel, TS: event.Item.TS}
	isNew, err := u.dedupStore.MarkIfNew(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check dedup store: %w", err)
	}
	if !isNew {
		log.Printf("⏭️ Event %s already processed, skipping retry", key)
		return nil
	}

	maybeMessage, err := u.resolver.ResolveMessage(ctx, event.Item.Channel, event.Item.TS)
	if err != nil {
		return fmt.Errorf("failed to resolve reacted-to message: %w", err)
	}
	if !maybeMessage.IsPresent() {
		log.Printf("⏭️ Reacted-to message %s not found in %s, dropping event: %v",
			event.Item.TS, event.Item.Channel, core.ErrMessageNotFound)
		return nil
	}
	message := maybeMessage.MustGet()

	if message.IsBot {
		log.Printf("⏭️ Reacted-to message %s is bot-authored, skipping", message.TS)
		return nil
	}
	if strings.TrimSpace(message.Text) == "" {
		log.Printf("⏭️ Reacted-to message %s has no text, skipping", message.TS)
		return nil
	}

	return u.translateAndReply(ctx, message.Channel, message.ThreadTS, message.Text)
}

// translateAndReply runs extraction, translation and the thread reply for
// one qualifying event.
func (u *TranslateUseCase) translateAndReply(ctx context.Context, channelID, threadTS, text string) error {
	procID := core.NewID("evt")
	log.Printf("📋 [%s] Starting to translate for %s (thread %s)", procID, channelID, threadTS)

	content := extract.StripPreamble(text, u.extractPhrases)

	// Headline and body are translated separately so the line structure
	// survives whatever the backend does with newlines.
	headline, body := extract.SplitHeadlineBody(content)

	translatedHeadline, err := u.translateProtected(ctx, headline)
	if err != nil {
		return u.translationError(procID, err)
	}
	translatedBody, err := u.translateProtected(ctx, body)
	if err != nil {
		return u.translationError(procID, err)
	}

	reply := translatedHeadline
	if translatedBody != "" {
		if reply != "" {
			reply += "\n"
		}
		reply += translatedBody
	}
	if strings.TrimSpace(reply) == "" {
		log.Printf("⏭️ [%s] Nothing left to post after translation, skipping", procID)
		return nil
	}

	if _, err := u.slackClient.PostThreadReply(ctx, channelID, threadTS, reply); err != nil {
		log.Printf("❌ [%s] Failed to post reply to %s: %v", procID, channelID, err)
		return fmt.Errorf("%w: %v", core.ErrPostFailed, err)
	}

	log.Printf("✅ [%s] Posted translation to %s (thread %s)", procID, channelID, threadTS)
	return nil
}

// translateProtected translates one text unit with its shortcodes swapped
// for placeholders, then restores them in place. Text that is nothing but
// shortcodes and whitespace is passed through untranslated.
func (u *TranslateUseCase) translateProtected(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if !extract.HasTranslatableText(text) {
		return text, nil
	}

	prepared, shortcodes := extract.ForTranslation(text)
	translated, err := u.translator.TranslateToGerman(ctx, prepared)
	if err != nil {
		return "", err
	}
	return extract.RestoreShortcodes(translated, shortcodes), nil
}

func (u *TranslateUseCase) translationError(procID string, err error) error {
	if errors.Is(err, clients.ErrSourceNotEnglish) {
		log.Printf("⏭️ [%s] Source text is not English, skipping translation", procID)
		return nil
	}
	log.Printf("❌ [%s] Translation failed: %v", procID, err)
	return fmt.Errorf("%w: %v", core.ErrTranslationFailed, err)
}
