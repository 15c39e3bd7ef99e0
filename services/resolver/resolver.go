// Package resolver fetches the authoritative message body and thread root
// for a (channel, timestamp) reference. Slack has no single read path that
// covers both cases: conversations.history only surfaces top-level messages,
// thread replies are only visible through conversations.replies given the
// root timestamp, and which of the two works also depends on the token type.
// The chain below tries history first and falls back to the replies of every
// candidate thread root, stopping at the first hit.
package resolver

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"
	slackapi "github.com/slack-go/slack"

	"translatebot/clients"
	"translatebot/models"
)

const pageLimit = 15

type Resolver struct {
	slackClient clients.SlackClient
}

// NewResolver creates a message resolver backed by the given Slack client
func NewResolver(slackClient clients.SlackClient) *Resolver {
	return &Resolver{slackClient: slackClient}
}

// ResolveMessage resolves the canonical message for (channelID, ts). Returns
// None when both the history and replies lookups are exhausted without
// finding the timestamp; the caller drops the event silently.
func (r *Resolver) ResolveMessage(
	ctx context.Context,
	channelID, ts string,
) (mo.Option[*models.ResolvedMessage], error) {
	log.Printf("📋 Starting to resolve message %s in channel %s", ts, channelID)

	// Top-level messages are visible via history anchored exactly at ts.
	anchored, err := r.slackClient.GetConversationHistory(ctx, clients.SlackHistoryParameters{
		ChannelID: channelID,
		Oldest:    ts,
		Latest:    ts,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return mo.None[*models.ResolvedMessage](), fmt.Errorf("failed to fetch channel history: %w", err)
	}
	for _, msg := range anchored.Messages {
		if msg.Timestamp == ts {
			log.Printf("✅ Resolved %s as a top-level message in %s", ts, channelID)
			return mo.Some(resolved(channelID, ts, &msg)), nil
		}
	}

	// Not in plain history, so the target is a thread reply. Recent history
	// surfaces the enclosing threads' roots; walk their replies.
	recent, err := r.slackClient.GetConversationHistory(ctx, clients.SlackHistoryParameters{
		ChannelID: channelID,
		Limit:     pageLimit,
	})
	if err != nil {
		return mo.None[*models.ResolvedMessage](), fmt.Errorf("failed to fetch recent channel history: %w", err)
	}

	for _, parent := range recent.Messages {
		if parent.ReplyCount == 0 && parent.ThreadTimestamp == "" {
			continue
		}
		rootTS := parent.ThreadTimestamp
		if rootTS == "" {
			rootTS = parent.Timestamp
		}

		replies, err := r.slackClient.GetConversationReplies(ctx, clients.SlackRepliesParameters{
			ChannelID: channelID,
			ThreadTS:  rootTS,
			Inclusive: true,
			Limit:     pageLimit,
		})
		if err != nil {
			log.Printf("⚠️ Failed to fetch replies for thread %s in %s: %v", rootTS, channelID, err)
			continue
		}

		for _, msg := range replies.Messages {
			if msg.Timestamp == ts {
				log.Printf("✅ Resolved %s as a reply in thread %s of %s", ts, rootTS, channelID)
				result := resolved(channelID, ts, &msg)
				result.ThreadTS = rootTS
				return mo.Some(result), nil
			}
		}
	}

	log.Printf("⏭️ Message %s not found in channel %s history or replies", ts, channelID)
	return mo.None[*models.ResolvedMessage](), nil
}

func resolved(channelID, ts string, msg *slackapi.Message) *models.ResolvedMessage {
	rootTS := msg.ThreadTimestamp
	if rootTS == "" {
		rootTS = ts
	}
	return &models.ResolvedMessage{
		Channel:  channelID,
		TS:       ts,
		ThreadTS: rootTS,
		Text:     msg.Text,
		IsBot:    msg.BotID != "",
	}
}
