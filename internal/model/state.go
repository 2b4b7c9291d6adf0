package model

// State is what the presentation layer renders: the profile and today's quest set.
type State struct {
	Profile UserProfile `json:"profile"`
	Quests  []Quest     `json:"quests"`
}

// ShareCard is the text and link offered to the platform share sheet.
type ShareCard struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}
