package service

import (
	"context"
	"fmt"

	"pp_quest/internal/model"
	"pp_quest/pkg/logger"

	"go.uber.org/zap"
)

const shareTitle = "PP Quest"

// SetPremium switches the tier and resets the skip budget to what the new tier grants.
func (s *QuestService) SetPremium(ctx context.Context, premium bool) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.profile.Clone()
	profile.IsPremium = premium
	profile.DailySkips = profile.SkipBudget()

	if err := s.commitLocked(ctx, profile, model.CloneQuests(s.quests)); err != nil {
		return model.UserProfile{}, err
	}

	logger.Named("quest").Info("premium changed",
		zap.Bool("premium", premium),
		zap.Int("daily_skips", profile.DailySkips))

	return profile.Clone(), nil
}

// History lists archived quests, most recent first.
func (s *QuestService) History(savedOnly bool) []model.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Quest, 0, len(s.profile.History))
	for _, q := range s.profile.History {
		if savedOnly && !q.Saved {
			continue
		}
		out = append(out, q.Clone())
	}
	return out
}

func (s *QuestService) ShareStats() model.ShareCard {
	s.mu.Lock()
	stats := s.profile.Stats
	s.mu.Unlock()

	return model.ShareCard{
		Title: shareTitle,
		Text: fmt.Sprintf("My PP Quest Stats: Cleared %d quests, reached %d XP. Join me!",
			stats.CompletedCount, stats.TotalPoints),
		URL: s.shareBaseURL,
	}
}

// ShareQuest looks the quest up in the active set first, then in history.
func (s *QuestService) ShareQuest(questID string) (model.ShareCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := ""
	if idx := s.indexLocked(questID); idx >= 0 {
		title = s.quests[idx].Title
	} else {
		for _, q := range s.profile.History {
			if q.ID == questID {
				title = q.Title
				break
			}
		}
	}
	if title == "" {
		return model.ShareCard{}, ErrQuestNotFound
	}

	return model.ShareCard{
		Title: shareTitle,
		Text:  fmt.Sprintf("Check out this quest: %q on PP Quest!", title),
		URL:   s.shareBaseURL,
	}, nil
}
