package models

type ContextPostResponse struct {
	Results []ContextChunk `json:"results"`
}

type ContextChunk struct {
	// Index of the chunk in the current index.
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}
