// Package translate orchestrates the translation pipeline: dedup, trigger
// evaluation, message resolution, content extraction, translation and the
// thread reply. Each inbound event is processed in isolation; every failure
// is terminal for that event only.
package translate

import (
	"translatebot/clients"
	"translatebot/services/dedup"
	"translatebot/services/resolver"
	"translatebot/services/trigger"
)

type TranslateUseCase struct {
	slackClient    clients.SlackClient
	translator     clients.Translator
	dedupStore     dedup.Store
	trigger        *trigger.Evaluator
	resolver       *resolver.Resolver
	extractPhrases []string
}

func NewTranslateUseCase(
	slackClient clients.SlackClient,
	translator clients.Translator,
	dedupStore dedup.Store,
	triggerEvaluator *trigger.Evaluator,
	messageResolver *resolver.Resolver,
	extractPhrases []string,
) *TranslateUseCase {
	return &TranslateUseCase{
		slackClient:    slackClient,
		translator:     translator,
		dedupStore:     dedupStore,
		trigger:        triggerEvaluator,
		resolver:       messageResolver,
		extractPhrases: extractPhrases,
	}
}
