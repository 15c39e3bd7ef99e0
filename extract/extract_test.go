package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPhrases = []string{
	"Can you please assist us with a translation of the following:",
	"Can you please assist with translating the following:",
	"Can you translate the following:",
	"Please translate the below:",
	"translation of the following:",
	"the following:",
}

func TestSplit(t *testing.T) {
	t.Run("PlainAndShortcodes", func(t *testing.T) {
		segments := Split("Good morning :sunny: team")

		require.Len(t, segments, 3)
		assert.Equal(t, Segment{Kind: SegmentPlain, Text: "Good morning "}, segments[0])
		assert.Equal(t, Segment{Kind: SegmentShortcode, Text: ":sunny:"}, segments[1])
		assert.Equal(t, Segment{Kind: SegmentPlain, Text: " team"}, segments[2])
	})

	t.Run("NoShortcodes", func(t *testing.T) {
		segments := Split("Gold +2.4%, Silver +6% rebound.")

		require.Len(t, segments, 1)
		assert.Equal(t, SegmentPlain, segments[0].Kind)
	})

	t.Run("AdjacentShortcodes", func(t *testing.T) {
		segments := Split(":rocket::fire:")

		require.Len(t, segments, 2)
		assert.Equal(t, ":rocket:", segments[0].Text)
		assert.Equal(t, ":fire:", segments[1].Text)
	})

	t.Run("LoneColonsAreNotShortcodes", func(t *testing.T) {
		segments := Split("ratio 3:1 and 5:2")

		require.Len(t, segments, 1)
		assert.Equal(t, SegmentPlain, segments[0].Kind)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		input := ":chart_with_downwards_trend: DBX tumbles\nDropbox drops 4.2% :newspaper: more"
		assert.Equal(t, input, Reassemble(Split(input)))
	})
}

func TestForTranslation(t *testing.T) {
	t.Run("ShortcodesReplacedWithPlaceholders", func(t *testing.T) {
		prepared, shortcodes := ForTranslation(":loudspeaker: Precious metals rally")

		assert.NotContains(t, prepared, ":loudspeaker:")
		assert.Contains(t, prepared, "EMOJISLACK0X")
		assert.Equal(t, []string{":loudspeaker:"}, shortcodes)
	})

	t.Run("RestoreRoundTrip", func(t *testing.T) {
		input := ":loudspeaker: Edelmetalle erholen sich"
		prepared, shortcodes := ForTranslation(input)

		assert.Equal(t, input, RestoreShortcodes(prepared, shortcodes))
	})

	t.Run("MultipleShortcodesKeepOrder", func(t *testing.T) {
		input := ":chart_with_downwards_trend: DBX stürzt ab. :newspaper: Mehr dazu."
		prepared, shortcodes := ForTranslation(input)

		require.Len(t, shortcodes, 2)
		assert.Equal(t, ":chart_with_downwards_trend:", shortcodes[0])
		assert.Equal(t, ":newspaper:", shortcodes[1])
		assert.Equal(t, input, RestoreShortcodes(prepared, shortcodes))
	})

	t.Run("NoShortcodesUnchanged", func(t *testing.T) {
		input := "Gold +2.4%, Silver +6% rebound."
		prepared, shortcodes := ForTranslation(input)

		assert.Equal(t, input, prepared)
		assert.Empty(t, shortcodes)
	})
}

func TestHasTranslatableText(t *testing.T) {
	assert.True(t, HasTranslatableText("Good morning :sunny: team"))
	assert.False(t, HasTranslatableText(":sunny:"))
	assert.False(t, HasTranslatableText(" :sunny: :fire: "))
	assert.False(t, HasTranslatableText("   "))
}

func TestStripPreamble(t *testing.T) {
	t.Run("RequestLineDiscarded", func(t *testing.T) {
		msg := "@here Can you please assist us with a translation of the following:\n" +
			":loudspeaker: Precious metals rally\n" +
			"Gold +2.4%, Silver +6% rebound from one-week lows on safe-haven demand."

		got := StripPreamble(msg, testPhrases)

		assert.NotContains(t, got, "@here")
		assert.NotContains(t, got, "Can you please assist")
		assert.True(t, len(got) > 0 && got[0] == ':')
		assert.Contains(t, got, "Precious metals rally")
		assert.Contains(t, got, "Gold +2.4%")
	})

	t.Run("AlternatePhrase", func(t *testing.T) {
		msg := "@here Can you please assist with translating the following:\n" +
			":chart_with_downwards_trend: DBX tumbles\n" +
			"Dropbox drops 4.2% as soft outlook overshadows modest earnings beat."

		got := StripPreamble(msg, testPhrases)

		assert.Contains(t, got, ":chart_with_downwards_trend:")
		assert.Contains(t, got, "Dropbox drops")
	})

	t.Run("NoPhraseKeepsFullText", func(t *testing.T) {
		msg := ":loudspeaker: Precious metals rally\nGold +2.4%, Silver +6% rebound."

		assert.Equal(t, msg, StripPreamble(msg, testPhrases))
	})

	t.Run("EmptyAfterPhraseKeepsFullText", func(t *testing.T) {
		msg := "@here Can you please assist us with a translation of the following:"

		got := StripPreamble(msg, testPhrases)

		assert.Equal(t, msg, got)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		msg := "CAN YOU PLEASE ASSIST US WITH A TRANSLATION OF THE FOLLOWING:\n" +
			":chocolate_bar: NESN advances\n" +
			"Nestle jumps 3.6%."

		got := StripPreamble(msg, testPhrases)

		assert.Contains(t, got, ":chocolate_bar:")
		assert.Contains(t, got, "NESN advances")
	})
}

func TestSplitHeadlineBody(t *testing.T) {
	t.Run("TwoLines", func(t *testing.T) {
		headline, body := SplitHeadlineBody(":loudspeaker: Crypto stocks jump\nStrategy +8%, Coinbase +14%.")

		assert.Equal(t, ":loudspeaker: Crypto stocks jump", headline)
		assert.Equal(t, "Strategy +8%, Coinbase +14%.", body)
	})

	t.Run("SingleLine", func(t *testing.T) {
		headline, body := SplitHeadlineBody(":loudspeaker: Crypto stocks jump")

		assert.Equal(t, ":loudspeaker: Crypto stocks jump", headline)
		assert.Empty(t, body)
	})

	t.Run("MultilineBody", func(t *testing.T) {
		headline, body := SplitHeadlineBody(":newspaper: Precious metals rush\nSilver +3%, Gold +1%.\n:rocket: OPEN reignited\nOpendoor jumps 19%.")

		assert.Equal(t, ":newspaper: Precious metals rush", headline)
		assert.Contains(t, body, "Silver +3%")
		assert.Contains(t, body, ":rocket: OPEN reignited")
	})
}
