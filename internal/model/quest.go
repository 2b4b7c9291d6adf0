package model

import (
	"encoding/base64"
	"strings"
	"time"
	"unicode/utf8"
)

type QuestDifficulty string

const (
	DifficultyEasy   QuestDifficulty = "Easy"
	DifficultyMedium QuestDifficulty = "Medium"
	DifficultyHard   QuestDifficulty = "Hard"
)

func (d QuestDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type QuestType string

const (
	QuestTypeText     QuestType = "TEXT"
	QuestTypeImage    QuestType = "IMAGE"
	QuestTypeLocation QuestType = "LOCATION"
	QuestTypeChoice   QuestType = "CHOICE"
)

func (t QuestType) Valid() bool {
	switch t {
	case QuestTypeText, QuestTypeImage, QuestTypeLocation, QuestTypeChoice:
		return true
	}
	return false
}

const (
	// ImageProofMarker is recorded as the user submission when the evidence was only an image.
	ImageProofMarker = "Image Proof Sent"
	// EmptyProofMarker is recorded when an accepted submission carried neither text nor image.
	EmptyProofMarker = "No text content available."
)

type LocationRange struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius"`
}

// QuestDraft is a quest as produced by the generator, before the engine gives it an identity.
type QuestDraft struct {
	Title       string
	Description string
	Difficulty  QuestDifficulty
	Type        QuestType
	Options     []string
	Points      int
	Location    *LocationRange
}

// Valid reports whether the draft can become a quest without breaking the stats invariants.
func (d QuestDraft) Valid() bool {
	return d.Difficulty.Valid() && d.Type.Valid() && d.Points > 0
}

type Quest struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  QuestDifficulty `json:"difficulty"`
	Type        QuestType       `json:"type"`
	Options     []string        `json:"options,omitempty"`
	Location    *LocationRange  `json:"locationRange,omitempty"`
	Points      int             `json:"points"`
	Completed   bool            `json:"completed"`
	Saved       bool            `json:"saved"`
	CreatedAt   time.Time       `json:"createdAt"`

	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	UserSubmission string     `json:"userSubmission,omitempty"`
	AIFeedback     string     `json:"aiFeedback,omitempty"`
}

func NewQuest(id string, draft QuestDraft, now time.Time) Quest {
	q := Quest{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Difficulty:  draft.Difficulty,
		Type:        draft.Type,
		Points:      draft.Points,
		CreatedAt:   now,
	}
	if len(draft.Options) > 0 {
		q.Options = append([]string(nil), draft.Options...)
	}
	if draft.Location != nil {
		loc := *draft.Location
		q.Location = &loc
	}
	return q
}

// Complete returns the completed form of q. The receiver is left untouched.
func (q Quest) Complete(submission Submission, feedback string, at time.Time) Quest {
	done := q.Clone()
	done.Completed = true
	done.CompletedAt = &at
	done.UserSubmission = submission.Marker()
	if done.UserSubmission == "" {
		done.UserSubmission = EmptyProofMarker
	}
	done.AIFeedback = feedback
	return done
}

func (q Quest) Clone() Quest {
	c := q
	if q.Options != nil {
		c.Options = append([]string(nil), q.Options...)
	}
	if q.Location != nil {
		loc := *q.Location
		c.Location = &loc
	}
	if q.CompletedAt != nil {
		at := *q.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

func CloneQuests(quests []Quest) []Quest {
	if quests == nil {
		return nil
	}
	out := make([]Quest, len(quests))
	for i, q := range quests {
		out[i] = q.Clone()
	}
	return out
}

// Submission is the evidence a user sends for a quest. ImageBase64 holds raw base64 without a
// data URL prefix.
type Submission struct {
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

func (s Submission) Marker() string {
	if s.Text != "" {
		return s.Text
	}
	if s.ImageBase64 != "" {
		return ImageProofMarker
	}
	return ""
}

const minTextSubmission = 5

// Validate reports whether the submission carries the evidence the quest type asks for.
func (s Submission) Validate(quest Quest) bool {
	switch quest.Type {
	case QuestTypeImage:
		if s.ImageBase64 == "" {
			return false
		}
		_, err := base64.StdEncoding.DecodeString(s.ImageBase64)
		return err == nil
	case QuestTypeText:
		return utf8.RuneCountInString(strings.TrimSpace(s.Text)) > minTextSubmission
	case QuestTypeChoice:
		for _, opt := range quest.Options {
			if opt == s.Text {
				return true
			}
		}
		return false
	default:
		return true
	}
}

type Verdict struct {
	Success  bool   `json:"success"`
	Feedback string `json:"feedback"`
}
