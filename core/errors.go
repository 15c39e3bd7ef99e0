package core

import "errors"

// Sentinel errors for the terminal failure modes of event processing.
// None of these are fatal to the process; each inbound event is isolated.
var (
	// ErrMessageNotFound means both the history and replies lookups were
	// exhausted without finding the target timestamp.
	ErrMessageNotFound = errors.New("message not found")

	// ErrTranslationFailed means the translation backend returned a failure.
	// Translation is never retried; the event is dropped.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrPostFailed means the thread reply could not be posted (e.g. bot not
	// in channel).
	ErrPostFailed = errors.New("failed to post reply")
)
