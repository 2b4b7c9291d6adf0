package mocks

import (
	"context"

	"pp_quest/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateQuests(ctx context.Context, lang model.Language) ([]model.QuestDraft, error) {
	args := m.Called(ctx, lang)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuestDraft), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, quest model.Quest, submission model.Submission, lang model.Language) (model.Verdict, error) {
	args := m.Called(ctx, quest, submission, lang)
	return args.Get(0).(model.Verdict), args.Error(1)
}

type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) LoadProfile(ctx context.Context) (*model.UserProfile, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockStateRepository) LoadQuests(ctx context.Context) ([]model.Quest, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quest), args.Error(1)
}

func (m *MockStateRepository) SaveState(ctx context.Context, profile *model.UserProfile, quests []model.Quest) error {
	args := m.Called(ctx, profile, quests)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(state model.State) {
	m.Called(state)
}

type MockQuestService struct {
	mock.Mock
}

func (m *MockQuestService) Snapshot() model.State {
	args := m.Called()
	return args.Get(0).(model.State)
}

func (m *MockQuestService) RefreshSet(ctx context.Context, lang model.Language, manual bool) ([]model.Quest, error) {
	args := m.Called(ctx, lang, manual)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quest), args.Error(1)
}

func (m *MockQuestService) SkipQuest(ctx context.Context, questID string) (model.Quest, error) {
	args := m.Called(ctx, questID)
	return args.Get(0).(model.Quest), args.Error(1)
}

func (m *MockQuestService) SubmitEvidence(ctx context.Context, questID string, submission model.Submission) (model.Verdict, error) {
	args := m.Called(ctx, questID, submission)
	return args.Get(0).(model.Verdict), args.Error(1)
}

func (m *MockQuestService) ToggleSaved(ctx context.Context, questID string) (bool, error) {
	args := m.Called(ctx, questID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestService) ChangeLanguage(ctx context.Context, lang model.Language) ([]model.Quest, error) {
	args := m.Called(ctx, lang)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quest), args.Error(1)
}

func (m *MockQuestService) SetPremium(ctx context.Context, premium bool) (model.UserProfile, error) {
	args := m.Called(ctx, premium)
	return args.Get(0).(model.UserProfile), args.Error(1)
}

func (m *MockQuestService) History(savedOnly bool) []model.Quest {
	args := m.Called(savedOnly)
	return args.Get(0).([]model.Quest)
}

func (m *MockQuestService) ShareStats() model.ShareCard {
	args := m.Called()
	return args.Get(0).(model.ShareCard)
}

func (m *MockQuestService) ShareQuest(questID string) (model.ShareCard, error) {
	args := m.Called(questID)
	return args.Get(0).(model.ShareCard), args.Error(1)
}
