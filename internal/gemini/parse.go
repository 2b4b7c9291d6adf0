package gemini

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"pp_quest/internal/model"

	"github.com/goccy/go-json"
)

// ErrMalformedResponse marks model output that does not match the expected shape. The whole
// call is treated as failed; no partial data is extracted.
var ErrMalformedResponse = errors.New("malformed external response")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

type rawQuest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Difficulty  *string  `json:"difficulty"`
	Type        *string  `json:"type"`
	Options     []string `json:"options"`
	Points      *float64 `json:"points"`
}

// ParseQuests converts generator output into drafts. Every item must be valid.
func ParseQuests(text string) ([]model.QuestDraft, error) {
	var raw []rawQuest
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, malformed("quests: %v", err)
	}
	if len(raw) == 0 {
		return nil, malformed("quests: empty list")
	}

	drafts := make([]model.QuestDraft, 0, len(raw))
	for i, r := range raw {
		d, err := r.draft()
		if err != nil {
			return nil, malformed("quest %d: %v", i, err)
		}
		drafts = append(drafts, d)
	}

	return drafts, nil
}

func (r rawQuest) draft() (model.QuestDraft, error) {
	switch {
	case r.Title == nil || strings.TrimSpace(*r.Title) == "":
		return model.QuestDraft{}, errors.New("missing title")
	case r.Description == nil || strings.TrimSpace(*r.Description) == "":
		return model.QuestDraft{}, errors.New("missing description")
	case r.Difficulty == nil:
		return model.QuestDraft{}, errors.New("missing difficulty")
	case r.Type == nil:
		return model.QuestDraft{}, errors.New("missing type")
	case r.Points == nil:
		return model.QuestDraft{}, errors.New("missing points")
	}

	difficulty := model.QuestDifficulty(*r.Difficulty)
	if !difficulty.Valid() {
		return model.QuestDraft{}, fmt.Errorf("unknown difficulty %q", *r.Difficulty)
	}

	questType := model.QuestType(*r.Type)
	if !questType.Valid() {
		return model.QuestDraft{}, fmt.Errorf("unknown type %q", *r.Type)
	}

	points := *r.Points
	if points <= 0 || points != math.Trunc(points) || points > math.MaxInt32 {
		return model.QuestDraft{}, fmt.Errorf("points %v is not a positive integer", points)
	}

	if questType == model.QuestTypeChoice {
		if len(r.Options) == 0 {
			return model.QuestDraft{}, errors.New("choice quest without options")
		}
		for _, opt := range r.Options {
			if strings.TrimSpace(opt) == "" {
				return model.QuestDraft{}, errors.New("blank choice option")
			}
		}
	} else if len(r.Options) > 0 {
		return model.QuestDraft{}, fmt.Errorf("%s quest with options", questType)
	}

	return model.QuestDraft{
		Title:       strings.TrimSpace(*r.Title),
		Description: strings.TrimSpace(*r.Description),
		Difficulty:  difficulty,
		Type:        questType,
		Options:     r.Options,
		Points:      int(points),
	}, nil
}

type rawVerdict struct {
	Success  *bool   `json:"success"`
	Feedback *string `json:"feedback"`
}

func ParseVerdict(text string) (model.Verdict, error) {
	var raw rawVerdict
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return model.Verdict{}, malformed("verdict: %v", err)
	}
	if raw.Success == nil {
		return model.Verdict{}, malformed("verdict: missing success")
	}
	if raw.Feedback == nil || strings.TrimSpace(*raw.Feedback) == "" {
		return model.Verdict{}, malformed("verdict: missing feedback")
	}

	return model.Verdict{
		Success:  *raw.Success,
		Feedback: strings.TrimSpace(*raw.Feedback),
	}, nil
}
