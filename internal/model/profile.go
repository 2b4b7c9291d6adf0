package model

import "time"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSerbian Language = "sr"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
)

const (
	DefaultUsername = "New Agent"
	FreeDailySkips  = 1
	PremiumResets   = 2
)

type UserStats struct {
	CompletedCount  int `json:"completedCount"`
	CompletedEasy   int `json:"completedEasy"`
	CompletedMedium int `json:"completedMedium"`
	CompletedHard   int `json:"completedHard"`
	CurrentStreak   int `json:"currentStreak"`
	BestStreak      int `json:"bestStreak"`
	TotalPoints     int `json:"totalPoints"`
	// LostCount is kept for stored profiles; no operation fails a quest, so it stays zero.
	LostCount int `json:"lostCount"`
}

// Record accounts one accepted quest.
func (s *UserStats) Record(q Quest) {
	s.CompletedCount++
	switch q.Difficulty {
	case DifficultyEasy:
		s.CompletedEasy++
	case DifficultyMedium:
		s.CompletedMedium++
	case DifficultyHard:
		s.CompletedHard++
	}
	s.TotalPoints += q.Points
	s.CurrentStreak++
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}
}

type UserProfile struct {
	Username      string    `json:"username"`
	Stats         UserStats `json:"stats"`
	IsPremium     bool      `json:"isPremium"`
	DailySkips    int       `json:"dailySkips"`
	Language      Language  `json:"language"`
	LastRefreshAt time.Time `json:"lastRefreshAt"`
	History       []Quest   `json:"history"`
}

func DefaultProfile() UserProfile {
	return UserProfile{
		Username:   DefaultUsername,
		DailySkips: FreeDailySkips,
		Language:   LanguageEnglish,
		History:    []Quest{},
	}
}

func (p UserProfile) Clone() UserProfile {
	c := p
	c.History = CloneQuests(p.History)
	if c.History == nil {
		c.History = []Quest{}
	}
	return c
}

// SkipBudget is the number of skips or resets the profile's tier grants per day.
func (p UserProfile) SkipBudget() int {
	if p.IsPremium {
		return PremiumResets
	}
	return FreeDailySkips
}
