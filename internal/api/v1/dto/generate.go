// Package dto defines the request and response shapes of the v1 API.
package dto

// GenerateContextDTO carries the optional styling context for a generation.
type GenerateContextDTO struct {
	ReaderContext string `json:"readerContext" validate:"omitempty,max=500"`
	Angle         string `json:"angle" validate:"omitempty,max=500"`
	EmojiOn       bool   `json:"emojiOn"`
	TonePreset    string `json:"tonePreset" validate:"omitempty,oneof=professional conversational bold"`
}

// GenerateRequestDTO is the body of POST /v1/generate.
type GenerateRequestDTO struct {
	InputKind  string             `json:"inputKind" validate:"required,oneof=text url"`
	InputText  string             `json:"inputText" validate:"omitempty"`
	URL        string             `json:"url" validate:"omitempty,url"`
	Context    GenerateContextDTO `json:"context"`
	Formats    []string           `json:"formats" validate:"required,min=1,max=4,dive,oneof=main-post story-based carousel short-viral-hook"`
	Regenerate bool               `json:"regenerate"`
	JobID      string             `json:"jobId" validate:"omitempty,uuid4"`
}

// GenerateResponseDTO is the success body of POST /v1/generate.
type GenerateResponseDTO struct {
	Outputs   map[string]string `json:"outputs"`
	FromCache bool              `json:"fromCache"`
	JobID     string            `json:"jobId"`
}
