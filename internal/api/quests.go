package api

import (
	"errors"
	"net/http"
	"strings"

	"pp_quest/internal/i18n"
	"pp_quest/internal/model"
	"pp_quest/internal/service"
	"pp_quest/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type questRoutes struct {
	qs service.QuestServiceI
}

func NewQuestRoutes(handler *gin.RouterGroup, qs service.QuestServiceI) {
	r := &questRoutes{qs: qs}
	h := handler.Group("/quests")
	{
		h.GET("", r.GetQuests)
		h.POST("/refresh", r.RefreshQuests)
		h.POST("/:id/skip", r.SkipQuest)
		h.POST("/:id/submit", r.SubmitEvidence)
		h.POST("/:id/save", r.ToggleSaved)
		h.GET("/:id/share", r.ShareQuest)
	}
}

type QuestsResponse struct {
	Quests     []model.Quest `json:"quests"`
	DailySkips int           `json:"dailySkips"`
	IsPremium  bool          `json:"isPremium"`
}

type SubmitRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"imageBase64"`
}

type SubmitResponse struct {
	Verdict model.Verdict `json:"verdict"`
	Quest   *model.Quest  `json:"quest,omitempty"`
}

func (r *questRoutes) language() model.Language {
	return r.qs.Snapshot().Profile.Language
}

func (r *questRoutes) respondQuests(c *gin.Context, quests []model.Quest) {
	state := r.qs.Snapshot()
	if quests == nil {
		quests = state.Quests
	}
	c.JSON(http.StatusOK, QuestsResponse{
		Quests:     quests,
		DailySkips: state.Profile.DailySkips,
		IsPremium:  state.Profile.IsPremium,
	})
}

func (r *questRoutes) GetQuests(c *gin.Context) {
	r.respondQuests(c, nil)
}

func (r *questRoutes) RefreshQuests(c *gin.Context) {
	lang := r.language()

	quests, err := r.qs.RefreshSet(c.Request.Context(), lang, true)
	if err != nil {
		respondError(c, lang, err)
		return
	}

	r.respondQuests(c, quests)
}

func (r *questRoutes) SkipQuest(c *gin.Context) {
	lang := r.language()

	replacement, err := r.qs.SkipQuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, lang, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quest": replacement})
}

// stripDataURL drops a "data:image/...;base64," prefix if the client sent one.
func stripDataURL(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	if i := strings.Index(image, ","); i >= 0 {
		return image[i+1:]
	}
	return image
}

func (r *questRoutes) SubmitEvidence(c *gin.Context) {
	log := logger.Logger()

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	questID := c.Param("id")
	state := r.qs.Snapshot()
	lang := state.Profile.Language

	var quest *model.Quest
	for i := range state.Quests {
		if state.Quests[i].ID == questID {
			quest = &state.Quests[i]
			break
		}
	}
	if quest == nil {
		respondError(c, lang, service.ErrQuestNotFound)
		return
	}

	submission := model.Submission{
		Text:        req.Text,
		ImageBase64: stripDataURL(req.ImageBase64),
	}
	if !submission.Validate(*quest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, i18n.DenyBadEvidence)})
		return
	}

	verdict, err := r.qs.SubmitEvidence(c.Request.Context(), questID, submission)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTarget) && verdict.Success {
			log.Info("accepted verdict discarded", zap.String("quest_id", questID))
		}
		respondError(c, lang, err)
		return
	}

	out := SubmitResponse{Verdict: verdict}
	if verdict.Success {
		for _, q := range r.qs.Snapshot().Quests {
			if q.ID == questID {
				out.Quest = &q
				break
			}
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *questRoutes) ToggleSaved(c *gin.Context) {
	lang := r.language()

	saved, err := r.qs.ToggleSaved(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, lang, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "saved": saved})
}

func (r *questRoutes) ShareQuest(c *gin.Context) {
	card, err := r.qs.ShareQuest(c.Param("id"))
	if err != nil {
		respondError(c, r.language(), err)
		return
	}

	c.JSON(http.StatusOK, card)
}
