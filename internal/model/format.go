package model

// Format identifies a supported output post format. The set is closed:
// request validation rejects anything else before it reaches the dispatcher.
type Format string

const (
	FormatMainPost       Format = "main-post"
	FormatStoryBased     Format = "story-based"
	FormatCarousel       Format = "carousel"
	FormatShortViralHook Format = "short-viral-hook"
)

// Formats lists every supported format.
var Formats = []Format{FormatMainPost, FormatStoryBased, FormatCarousel, FormatShortViralHook}

// Tone presets accepted in a generation context.
const (
	ToneProfessional   = "professional"
	ToneConversational = "conversational"
	ToneBold           = "bold"
)

// GenerateContext is the caller-supplied styling context. It is a pure value
// object passed through unchanged to the prompt builder.
type GenerateContext struct {
	ReaderContext string `json:"readerContext,omitempty"`
	Angle         string `json:"angle,omitempty"`
	EmojiOn       bool   `json:"emojiOn"`
	TonePreset    string `json:"tonePreset,omitempty"`
}
