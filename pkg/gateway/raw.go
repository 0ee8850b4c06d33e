package gateway

// RawResponse mirrors the backend's chat payload as it actually arrives:
// a mix of camelCase and snake_case, with some concepts carried under two
// names. The normalizer collapses it into domain.CanonicalResponse; nothing
// else should consume this type directly.
type RawResponse struct {
	CharacterID      string `json:"characterId"`
	CharacterIDAlt   string `json:"character_id"`
	CharacterName    string `json:"characterName"`
	CharacterNameAlt string `json:"character_name"`

	Response       string `json:"response"`
	AIResponseText string `json:"aiResponseText"`
	ResponseAlt    string `json:"ai_response_text"`
	Message        string `json:"message"`

	Emotion   string `json:"emotion"`
	Timestamp string `json:"timestamp"`

	AudioURL       string `json:"audioUrl"`
	AudioURLAlt    string `json:"audio_url"`
	AIAudioURL     string `json:"aiAudioUrl"`
	AudioBase64    string `json:"audioBase64"`
	AudioBase64Alt string `json:"audio_base64"`

	ImageURL            string `json:"imageUrl"`
	ImageURLAlt         string `json:"image_url"`
	ImageBase64         string `json:"imageBase64"`
	ImageBase64Alt      string `json:"image_base64"`
	ImageDescription    string `json:"imageDescription"`
	ImageDescriptionAlt string `json:"image_description"`
	EnhancedPrompt      string `json:"enhancedPrompt"`
	EnhancedPromptAlt   string `json:"enhanced_prompt"`

	WebSearchUsed            *bool  `json:"webSearchUsed"`
	WebSearchUsedAlt         *bool  `json:"web_search_used"`
	WebSearchQuery           string `json:"webSearchQuery"`
	WebSearchQueryAlt        string `json:"web_search_query"`
	WebSearchResultsCount    *int   `json:"webSearchResultsCount"`
	WebSearchResultsCountAlt *int   `json:"web_search_results_count"`
}
