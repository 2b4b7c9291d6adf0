package gemini

import (
	"context"
	"fmt"
	"strings"

	"pp_quest/internal/i18n"
	"pp_quest/internal/model"

	"google.golang.org/genai"
)

// QuestsPerBatch is how many quests one generation asks for.
const QuestsPerBatch = 4

var questSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"difficulty": {
				Type:        genai.TypeString,
				Description: "Must be one of: Easy, Medium, Hard",
				Enum:        []string{"Easy", "Medium", "Hard"},
			},
			"type": {
				Type: genai.TypeString,
				Enum: []string{"TEXT", "IMAGE", "LOCATION", "CHOICE"},
			},
			"options": {
				Type:        genai.TypeArray,
				Description: "Only for CHOICE quests",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"points": {Type: genai.TypeNumber},
		},
		Required: []string{"title", "description", "difficulty", "type", "points"},
	},
}

func questPrompt(lang model.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d creative, doable and pleasant side quests for a mobile app.\n", QuestsPerBatch)
	fmt.Fprintf(&b, "Language: %s.\n\n", i18n.PromptName(lang))
	b.WriteString(`Rules:
- Quests must be achievable in one day and never socially awkward.
- They should be funny and positive and add a small bit of joy to the day.
- No academic chores, no bothering strangers.

Quest types:
- IMAGE: find or stage something photogenic, e.g. "Find a tree that looks like it is judging you".
- TEXT: a short piece of creative writing or a witty observation.
- CHOICE: a playful decision with 2 to 4 options listed in "options".
- Hard quests may be exaggerated but must stay lighthearted.

Tone: witty, playful, encouraging, like a supportive friend.
Points: Easy 50, Medium 100, Hard 200.
Return the quests in the given JSON schema and vary the types.`)
	return b.String()
}

// GenerateQuests asks the model for a fresh batch of quests in lang.
func (c *Client) GenerateQuests(ctx context.Context, lang model.Language) ([]model.QuestDraft, error) {
	text, err := c.generate(ctx, []*genai.Part{{Text: questPrompt(lang)}}, questSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quests: %w", err)
	}

	drafts, err := ParseQuests(text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quests: %w", err)
	}

	return drafts, nil
}
