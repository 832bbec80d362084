package dto

// SeriesRequestDTO is the body of POST /v1/series. A series is always four
// posts; each slot carries its own format.
type SeriesRequestDTO struct {
	InputKind   string             `json:"inputKind" validate:"required,oneof=text url"`
	InputText   string             `json:"inputText" validate:"omitempty"`
	URL         string             `json:"url" validate:"omitempty,url"`
	Context     GenerateContextDTO `json:"context"`
	PostFormats []string           `json:"postFormats" validate:"required,len=4,dive,oneof=main-post story-based carousel short-viral-hook"`
}

// SeriesResponseDTO is the success body of POST /v1/series.
type SeriesResponseDTO struct {
	Posts []string `json:"posts"`
}
