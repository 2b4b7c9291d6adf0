package service

import (
	"context"
	"errors"

	"pp_quest/internal/model"
)

var (
	ErrPremiumRequired     = errors.New("resets are for premium agents only")
	ErrNoResetsLeft        = errors.New("daily reset limit reached")
	ErrNoSkipsLeft         = errors.New("no skips left")
	ErrInvalidTarget       = errors.New("quest is not pending")
	ErrQuestNotFound       = errors.New("quest not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrStaleRefresh        = errors.New("refresh superseded by a newer request")
	ErrNoReplacement       = errors.New("generator returned no replacement quest")
	ErrInvalidResult       = errors.New("collaborator returned an invalid result")
)

// IsDenial reports whether err is a precondition refusal, as opposed to a failure.
func IsDenial(err error) bool {
	return errors.Is(err, ErrPremiumRequired) ||
		errors.Is(err, ErrNoResetsLeft) ||
		errors.Is(err, ErrNoSkipsLeft) ||
		errors.Is(err, ErrInvalidTarget)
}

type QuestServiceI interface {
	Snapshot() model.State
	RefreshSet(ctx context.Context, lang model.Language, manual bool) ([]model.Quest, error)
	SkipQuest(ctx context.Context, questID string) (model.Quest, error)
	SubmitEvidence(ctx context.Context, questID string, submission model.Submission) (model.Verdict, error)
	ToggleSaved(ctx context.Context, questID string) (bool, error)
	ChangeLanguage(ctx context.Context, lang model.Language) ([]model.Quest, error)
	SetPremium(ctx context.Context, premium bool) (model.UserProfile, error)
	History(savedOnly bool) []model.Quest
	ShareStats() model.ShareCard
	ShareQuest(questID string) (model.ShareCard, error)
}

type Generator interface {
	GenerateQuests(ctx context.Context, lang model.Language) ([]model.QuestDraft, error)
}

type Verifier interface {
	Verify(ctx context.Context, quest model.Quest, submission model.Submission, lang model.Language) (model.Verdict, error)
}

type StateRepository interface {
	LoadProfile(ctx context.Context) (*model.UserProfile, error)
	LoadQuests(ctx context.Context) ([]model.Quest, error)
	SaveState(ctx context.Context, profile *model.UserProfile, quests []model.Quest) error
}

// Notifier receives a snapshot after every committed mutation. Publish must not block.
type Notifier interface {
	Publish(state model.State)
}
