package gemini

// responseSchema is the JSON structure the model is instructed to return.
type responseSchema struct {
	// HindiText is the Hindi translation of the full story text.
	HindiText string `json:"hindi_text"`

	// Items are the extracted vocabulary pairs.
	Items []itemSchema `json:"items"`
}

// itemSchema is a single vocabulary pair in the model response.
type itemSchema struct {
	English string `json:"english"`
	Hindi   string `json:"hindi"`
}

// promptData is the input to the prompt template.
type promptData struct {
	Title       string
	EnglishText string
	HindiText   string
}
