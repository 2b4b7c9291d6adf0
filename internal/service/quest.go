package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pp_quest/internal/i18n"
	"pp_quest/internal/model"
	"pp_quest/internal/repository"
	"pp_quest/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuestService owns today's quest set and the profile. Remote calls run without the lock;
// every mutation re-checks its preconditions under the lock and is persisted before it becomes
// visible in memory.
type QuestService struct {
	repo      StateRepository
	generator Generator
	verifier  Verifier
	notifier  Notifier

	now          func() time.Time
	newID        func() string
	shareBaseURL string

	mu         sync.Mutex
	profile    model.UserProfile
	quests     []model.Quest
	refreshGen uint64
}

type Option func(*QuestService)

func WithNotifier(n Notifier) Option {
	return func(s *QuestService) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *QuestService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *QuestService) { s.newID = newID }
}

func WithShareBaseURL(url string) Option {
	return func(s *QuestService) { s.shareBaseURL = url }
}

func NewQuestService(repo StateRepository, generator Generator, verifier Verifier, opts ...Option) *QuestService {
	s := &QuestService{
		repo:      repo,
		generator: generator,
		verifier:  verifier,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		profile:   model.DefaultProfile(),
		quests:    []model.Quest{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the persisted state. Without a stored quest set it runs a non-manual refresh,
// and the refresh error, if any, is returned after the profile has been restored.
func (s *QuestService) Load(ctx context.Context) error {
	log := logger.Named("quest")

	profile, err := s.repo.LoadProfile(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		defaults := model.DefaultProfile()
		profile = &defaults
	case errors.Is(err, repository.ErrMalformedBlob):
		log.Warn("stored profile is unreadable, starting from defaults", zap.Error(err))
		defaults := model.DefaultProfile()
		profile = &defaults
	default:
		return fmt.Errorf("failed to load profile: %w", err)
	}

	quests, err := s.repo.LoadQuests(ctx)
	needRefresh := false
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		needRefresh = true
	case errors.Is(err, repository.ErrMalformedBlob):
		log.Warn("stored quest set is unreadable, refreshing", zap.Error(err))
		needRefresh = true
	default:
		return fmt.Errorf("failed to load quests: %w", err)
	}

	s.mu.Lock()
	s.profile = profile.Clone()
	s.quests = model.CloneQuests(quests)
	if s.quests == nil {
		s.quests = []model.Quest{}
	}
	s.mu.Unlock()

	log.Info("state restored",
		zap.Int("quests", len(quests)),
		zap.Int("history", len(profile.History)),
		zap.Bool("need_refresh", needRefresh))

	if needRefresh {
		if _, err := s.RefreshSet(ctx, profile.Language, false); err != nil {
			return fmt.Errorf("initial refresh: %w", err)
		}
	}

	return nil
}

func (s *QuestService) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *QuestService) snapshotLocked() model.State {
	return model.State{
		Profile: s.profile.Clone(),
		Quests:  model.CloneQuests(s.quests),
	}
}

// commitLocked persists the next state and then swaps it in. A failed save leaves memory and
// storage at the previous state.
func (s *QuestService) commitLocked(ctx context.Context, profile model.UserProfile, quests []model.Quest) error {
	if err := s.repo.SaveState(context.WithoutCancel(ctx), &profile, quests); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	s.profile = profile
	s.quests = quests

	if s.notifier != nil {
		s.notifier.Publish(s.snapshotLocked())
	}
	return nil
}

func (s *QuestService) indexLocked(questID string) int {
	for i, q := range s.quests {
		if q.ID == questID {
			return i
		}
	}
	return -1
}

func (s *QuestService) checkResetLocked() error {
	if !s.profile.IsPremium {
		return ErrPremiumRequired
	}
	if s.profile.DailySkips <= 0 {
		return ErrNoResetsLeft
	}
	return nil
}

// checkSkipLocked allows premium agents past an empty budget, but the decrement that follows
// must still not take the counter below zero.
func (s *QuestService) checkSkipLocked() error {
	if s.profile.DailySkips <= 0 && !s.profile.IsPremium {
		return ErrNoSkipsLeft
	}
	if s.profile.DailySkips-1 < 0 {
		return ErrNoSkipsLeft
	}
	return nil
}

func checkDrafts(drafts []model.QuestDraft) error {
	for i, d := range drafts {
		if !d.Valid() {
			return fmt.Errorf("%w: draft %d has difficulty %q, type %q, points %d",
				ErrInvalidResult, i, d.Difficulty, d.Type, d.Points)
		}
	}
	return nil
}

func (s *QuestService) draftsToQuests(drafts []model.QuestDraft, now time.Time) []model.Quest {
	quests := make([]model.Quest, 0, len(drafts))
	for _, d := range drafts {
		quests = append(quests, model.NewQuest(s.newID(), d, now))
	}
	return quests
}

func (s *QuestService) RefreshSet(ctx context.Context, lang model.Language, manual bool) ([]model.Quest, error) {
	log := logger.Named("quest")

	s.mu.Lock()
	if manual {
		if err := s.checkResetLocked(); err != nil {
			s.mu.Unlock()
			log.Info("refresh denied", zap.Error(err))
			recordEvent(eventDenied)
			return nil, err
		}
	}
	s.refreshGen++
	gen := s.refreshGen
	s.mu.Unlock()

	drafts, err := s.generator.GenerateQuests(ctx, lang)
	if err != nil {
		log.Error("quest generation failed", zap.Error(err), zap.String("language", string(lang)))
		recordEvent(eventGeneratorFailed)
		return nil, fmt.Errorf("failed to refresh quests: %w", err)
	}
	if err := checkDrafts(drafts); err != nil {
		log.Error("generator returned an invalid quest", zap.Error(err))
		recordEvent(eventGeneratorFailed)
		return nil, fmt.Errorf("failed to refresh quests: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.refreshGen {
		log.Info("discarding stale refresh", zap.Uint64("generation", gen), zap.Uint64("latest", s.refreshGen))
		return nil, ErrStaleRefresh
	}
	if manual {
		if err := s.checkResetLocked(); err != nil {
			recordEvent(eventDenied)
			return nil, err
		}
	}

	now := s.now()
	quests := s.draftsToQuests(drafts, now)

	profile := s.profile.Clone()
	profile.LastRefreshAt = now
	if manual {
		profile.DailySkips--
	}

	if err := s.commitLocked(ctx, profile, quests); err != nil {
		return nil, err
	}

	log.Info("quest set refreshed",
		zap.Int("quests", len(quests)),
		zap.Bool("manual", manual),
		zap.Int("daily_skips", profile.DailySkips))
	recordEvent(eventRefreshed)

	return model.CloneQuests(quests), nil
}

// SkipQuest replaces one pending quest with a freshly generated one appended to the set. The
// shared skip counter is decremented for every tier.
func (s *QuestService) SkipQuest(ctx context.Context, questID string) (model.Quest, error) {
	log := logger.Named("quest")

	s.mu.Lock()
	if err := s.checkSkipLocked(); err != nil {
		s.mu.Unlock()
		log.Info("skip denied", zap.Error(err), zap.String("quest_id", questID))
		recordEvent(eventDenied)
		return model.Quest{}, err
	}
	if err := s.skippableLocked(questID); err != nil {
		s.mu.Unlock()
		return model.Quest{}, err
	}
	lang := s.profile.Language
	s.mu.Unlock()

	drafts, err := s.generator.GenerateQuests(ctx, lang)
	if err != nil {
		log.Error("replacement generation failed", zap.Error(err), zap.String("quest_id", questID))
		recordEvent(eventGeneratorFailed)
		return model.Quest{}, fmt.Errorf("failed to generate replacement quest: %w", err)
	}
	if len(drafts) == 0 {
		recordEvent(eventGeneratorFailed)
		return model.Quest{}, ErrNoReplacement
	}
	if err := checkDrafts(drafts[:1]); err != nil {
		log.Error("generator returned an invalid quest", zap.Error(err), zap.String("quest_id", questID))
		recordEvent(eventGeneratorFailed)
		return model.Quest{}, fmt.Errorf("failed to generate replacement quest: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSkipLocked(); err != nil {
		recordEvent(eventDenied)
		return model.Quest{}, err
	}
	if err := s.skippableLocked(questID); err != nil {
		return model.Quest{}, err
	}

	replacement := model.NewQuest(s.newID(), drafts[0], s.now())

	quests := make([]model.Quest, 0, len(s.quests))
	for _, q := range s.quests {
		if q.ID != questID {
			quests = append(quests, q.Clone())
		}
	}
	quests = append(quests, replacement)

	profile := s.profile.Clone()
	profile.DailySkips--

	if err := s.commitLocked(ctx, profile, quests); err != nil {
		return model.Quest{}, err
	}

	log.Info("quest skipped",
		zap.String("quest_id", questID),
		zap.String("replacement_id", replacement.ID),
		zap.Int("daily_skips", profile.DailySkips))
	recordEvent(eventSkipped)

	return replacement.Clone(), nil
}

func (s *QuestService) skippableLocked(questID string) error {
	idx := s.indexLocked(questID)
	if idx < 0 {
		return ErrQuestNotFound
	}
	if s.quests[idx].Completed {
		return ErrInvalidTarget
	}
	return nil
}

// SubmitEvidence sends the evidence to the verifier. Only an accepted verdict mutates state;
// the verdict is returned either way.
func (s *QuestService) SubmitEvidence(ctx context.Context, questID string, submission model.Submission) (model.Verdict, error) {
	log := logger.Named("quest")

	s.mu.Lock()
	idx := s.indexLocked(questID)
	if idx < 0 || s.quests[idx].Completed {
		s.mu.Unlock()
		recordEvent(eventDenied)
		return model.Verdict{}, ErrInvalidTarget
	}
	quest := s.quests[idx].Clone()
	lang := s.profile.Language
	s.mu.Unlock()

	verdict, err := s.verifier.Verify(ctx, quest, submission, lang)
	if err != nil {
		log.Error("verification failed", zap.Error(err), zap.String("quest_id", questID))
		recordEvent(eventVerifierFailed)
		return model.Verdict{}, fmt.Errorf("failed to verify submission: %w", err)
	}

	if verdict.Success && strings.TrimSpace(verdict.Feedback) == "" {
		log.Error("accepted verdict without feedback", zap.String("quest_id", questID))
		recordEvent(eventVerifierFailed)
		return model.Verdict{}, fmt.Errorf("failed to verify submission: %w: accepted verdict has no feedback", ErrInvalidResult)
	}

	if !verdict.Success {
		log.Info("submission rejected", zap.String("quest_id", questID))
		recordEvent(eventRejected)
		return verdict, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx = s.indexLocked(questID)
	if idx < 0 || s.quests[idx].Completed {
		log.Info("accepted verdict arrived for a quest that is no longer pending", zap.String("quest_id", questID))
		return verdict, ErrInvalidTarget
	}

	done := s.quests[idx].Complete(submission, verdict.Feedback, s.now())

	quests := model.CloneQuests(s.quests)
	quests[idx] = done

	profile := s.profile.Clone()
	profile.History = append([]model.Quest{done.Clone()}, profile.History...)
	profile.Stats.Record(done)

	if err := s.commitLocked(ctx, profile, quests); err != nil {
		return verdict, err
	}

	log.Info("submission accepted",
		zap.String("quest_id", questID),
		zap.Int("points", done.Points),
		zap.Int("current_streak", profile.Stats.CurrentStreak))
	recordEvent(eventAccepted)

	return verdict, nil
}

// ToggleSaved flips the saved flag on every copy of the quest, in the active set and in history.
func (s *QuestService) ToggleSaved(ctx context.Context, questID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	saved := false

	quests := model.CloneQuests(s.quests)
	for i := range quests {
		if quests[i].ID == questID {
			quests[i].Saved = !quests[i].Saved
			saved = quests[i].Saved
			found = true
		}
	}

	profile := s.profile.Clone()
	inActive := found
	for i := range profile.History {
		if profile.History[i].ID == questID {
			profile.History[i].Saved = !profile.History[i].Saved
			if !inActive {
				saved = profile.History[i].Saved
			}
			found = true
		}
	}

	if !found {
		return false, ErrQuestNotFound
	}

	if err := s.commitLocked(ctx, profile, quests); err != nil {
		return false, err
	}

	recordEvent(eventSaved)
	return saved, nil
}

// ChangeLanguage stores the preference and refreshes the set without touching the skip budget.
func (s *QuestService) ChangeLanguage(ctx context.Context, lang model.Language) ([]model.Quest, error) {
	if !i18n.Supported(lang) {
		return nil, ErrUnsupportedLanguage
	}

	s.mu.Lock()
	profile := s.profile.Clone()
	profile.Language = lang
	err := s.commitLocked(ctx, profile, model.CloneQuests(s.quests))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	logger.Named("quest").Info("language changed", zap.String("language", string(lang)))

	return s.RefreshSet(ctx, lang, false)
}
