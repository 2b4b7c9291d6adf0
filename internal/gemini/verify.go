package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"pp_quest/internal/i18n"
	"pp_quest/internal/model"

	"google.golang.org/genai"
)

// ErrInvalidImage is returned when the image evidence is not valid base64.
var ErrInvalidImage = errors.New("image evidence is not valid base64")

var verdictSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"success":  {Type: genai.TypeBoolean},
		"feedback": {Type: genai.TypeString},
	},
	Required: []string{"success", "feedback"},
}

func verifyPrompt(quest model.Quest, submission model.Submission, lang model.Language) string {
	evidence := submission.Text
	if evidence == "" {
		evidence = "An image proof"
	}

	var b strings.Builder
	b.WriteString("Act as a strict but fair Quest Guardian.\n")
	fmt.Fprintf(&b, "Quest: %s - %s\n", quest.Title, quest.Description)
	if quest.Type == model.QuestTypeChoice && len(quest.Options) > 0 {
		fmt.Fprintf(&b, "Options offered: %s\n", strings.Join(quest.Options, " | "))
	}
	fmt.Fprintf(&b, "User submitted evidence: %s\n", evidence)
	fmt.Fprintf(&b, "Language for response: %s.\n\n", i18n.PromptName(lang))
	b.WriteString(`Protocol:
1. Reject lazy or generic submissions and ones that ignore the quest.
2. When an image is attached, check that it really shows what the quest asks for.
3. On success give a witty compliment.
4. On failure be firm but funny about which Guild Standard was missed.

Return JSON with "success" (boolean) and "feedback" (string).`)
	return b.String()
}

// Verify asks the model to judge one submission.
func (c *Client) Verify(ctx context.Context, quest model.Quest, submission model.Submission, lang model.Language) (model.Verdict, error) {
	parts := []*genai.Part{{Text: verifyPrompt(quest, submission, lang)}}
	if submission.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(submission.ImageBase64)
		if err != nil {
			return model.Verdict{}, fmt.Errorf("failed to verify submission: %w: %w", ErrInvalidImage, err)
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: imageMimeType,
			Data:     data,
		}})
	}

	text, err := c.generate(ctx, parts, verdictSchema)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("failed to verify submission: %w", err)
	}

	verdict, err := ParseVerdict(text)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("failed to verify submission: %w", err)
	}

	return verdict, nil
}
