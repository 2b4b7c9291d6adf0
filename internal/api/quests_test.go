package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pp_quest/internal/gemini"
	"pp_quest/internal/i18n"
	"pp_quest/internal/model"
	"pp_quest/internal/service"
	"pp_quest/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testState(lang model.Language) model.State {
	profile := model.DefaultProfile()
	profile.Language = lang
	return model.State{
		Profile: profile,
		Quests: []model.Quest{
			{ID: "q-text", Title: "Thank your shoes", Difficulty: model.DifficultyEasy, Type: model.QuestTypeText, Points: 50},
			{ID: "q-image", Title: "Photo a cloud", Difficulty: model.DifficultyMedium, Type: model.QuestTypeImage, Points: 100},
			{ID: "q-choice", Title: "Pick a door", Difficulty: model.DifficultyHard, Type: model.QuestTypeChoice, Options: []string{"Left", "Right"}, Points: 200},
		},
	}
}

func setupRouter(svc service.QuestServiceI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	NewQuestRoutes(group, svc)
	NewProfileRoutes(group, svc)
	NewI18nRoutes(group)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestQuestRoutes_GetQuests(t *testing.T) {
	svc := &mocks.MockQuestService{}
	svc.On("Snapshot").Return(testState(model.LanguageEnglish))
	router := setupRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/v1/quests", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp QuestsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Quests, 3)
	assert.Equal(t, 1, resp.DailySkips)
	assert.False(t, resp.IsPremium)
}

func TestQuestRoutes_RefreshQuests(t *testing.T) {
	tests := []struct {
		name         string
		lang         model.Language
		quests       []model.Quest
		err          error
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "Success",
			lang:         model.LanguageEnglish,
			quests:       []model.Quest{{ID: "n-1"}, {ID: "n-2"}, {ID: "n-3"}, {ID: "n-4"}},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Free agent",
			lang:         model.LanguageEnglish,
			err:          service.ErrPremiumRequired,
			expectedCode: http.StatusForbidden,
			expectedMsg:  i18n.T(model.LanguageEnglish, i18n.DenyPremiumOnly),
		},
		{
			name:         "Reset limit in Serbian",
			lang:         model.LanguageSerbian,
			err:          service.ErrNoResetsLeft,
			expectedCode: http.StatusForbidden,
			expectedMsg:  "Dnevni limit resetovanja je dostignut!",
		},
		{
			name:         "Malformed generator output",
			lang:         model.LanguageEnglish,
			err:          fmt.Errorf("failed to refresh quests: %w", gemini.ErrMalformedResponse),
			expectedCode: http.StatusBadGateway,
		},
		{
			name:         "Superseded refresh",
			lang:         model.LanguageEnglish,
			err:          service.ErrStaleRefresh,
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Storage failure",
			lang:         model.LanguageEnglish,
			err:          assert.AnError,
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockQuestService{}
			svc.On("Snapshot").Return(testState(tt.lang))
			svc.On("RefreshSet", mock.Anything, tt.lang, true).Return(tt.quests, tt.err)
			router := setupRouter(svc)

			w := doRequest(router, http.MethodPost, "/api/v1/quests/refresh", nil)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.err == nil {
				var resp QuestsResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Len(t, resp.Quests, 4)
			} else if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, errorMessage(t, w))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestQuestRoutes_SkipQuest(t *testing.T) {
	tests := []struct {
		name         string
		replacement  model.Quest
		err          error
		expectedCode int
	}{
		{name: "Success", replacement: model.Quest{ID: "n-1", Title: "New one"}, expectedCode: http.StatusOK},
		{name: "No skips left", err: service.ErrNoSkipsLeft, expectedCode: http.StatusForbidden},
		{name: "Unknown quest", err: service.ErrQuestNotFound, expectedCode: http.StatusNotFound},
		{name: "Completed quest", err: service.ErrInvalidTarget, expectedCode: http.StatusConflict},
		{name: "Empty generator output", err: service.ErrNoReplacement, expectedCode: http.StatusBadGateway},
		{name: "Invalid generator output", err: fmt.Errorf("failed to generate replacement quest: %w", service.ErrInvalidResult), expectedCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockQuestService{}
			svc.On("Snapshot").Return(testState(model.LanguageEnglish))
			svc.On("SkipQuest", mock.Anything, "q-text").Return(tt.replacement, tt.err)
			router := setupRouter(svc)

			w := doRequest(router, http.MethodPost, "/api/v1/quests/q-text/skip", nil)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.err == nil {
				var resp struct {
					Quest model.Quest `json:"quest"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "n-1", resp.Quest.ID)
			}
		})
	}
}

func TestQuestRoutes_SubmitEvidence(t *testing.T) {
	tests := []struct {
		name         string
		questID      string
		body         any
		setupMocks   func(svc *mocks.MockQuestService)
		expectedCode int
		expectedMsg  string
		check        func(t *testing.T, resp SubmitResponse)
	}{
		{
			name:         "Invalid body",
			questID:      "q-text",
			body:         "{not json",
			setupMocks:   func(svc *mocks.MockQuestService) {},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "invalid request",
		},
		{
			name:         "Unknown quest",
			questID:      "missing",
			body:         SubmitRequest{Text: "long enough text"},
			setupMocks:   func(svc *mocks.MockQuestService) {},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Text too short",
			questID:      "q-text",
			body:         SubmitRequest{Text: "hey"},
			setupMocks:   func(svc *mocks.MockQuestService) {},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  i18n.T(model.LanguageEnglish, i18n.DenyBadEvidence),
		},
		{
			name:         "Image missing",
			questID:      "q-image",
			body:         SubmitRequest{Text: "trust me, it was fluffy"},
			setupMocks:   func(svc *mocks.MockQuestService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Choice off the list",
			questID:      "q-choice",
			body:         SubmitRequest{Text: "Up"},
			setupMocks:   func(svc *mocks.MockQuestService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "Accepted image with data URL prefix",
			questID: "q-image",
			body:    SubmitRequest{ImageBase64: "data:image/jpeg;base64,aGVsbG8="},
			setupMocks: func(svc *mocks.MockQuestService) {
				svc.On("SubmitEvidence", mock.Anything, "q-image", model.Submission{ImageBase64: "aGVsbG8="}).
					Return(model.Verdict{Success: true, Feedback: "Fluffy"}, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp SubmitResponse) {
				assert.True(t, resp.Verdict.Success)
				assert.Equal(t, "Fluffy", resp.Verdict.Feedback)
				require.NotNil(t, resp.Quest)
				assert.Equal(t, "q-image", resp.Quest.ID)
			},
		},
		{
			name:    "Rejected text",
			questID: "q-text",
			body:    SubmitRequest{Text: "i looked at them"},
			setupMocks: func(svc *mocks.MockQuestService) {
				svc.On("SubmitEvidence", mock.Anything, "q-text", model.Submission{Text: "i looked at them"}).
					Return(model.Verdict{Success: false, Feedback: "Lazy"}, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp SubmitResponse) {
				assert.False(t, resp.Verdict.Success)
				assert.Equal(t, "Lazy", resp.Verdict.Feedback)
				assert.Nil(t, resp.Quest)
			},
		},
		{
			name:    "Quest completed meanwhile",
			questID: "q-choice",
			body:    SubmitRequest{Text: "Left"},
			setupMocks: func(svc *mocks.MockQuestService) {
				svc.On("SubmitEvidence", mock.Anything, "q-choice", mock.Anything).
					Return(model.Verdict{Success: true, Feedback: "ok"}, service.ErrInvalidTarget)
			},
			expectedCode: http.StatusConflict,
			expectedMsg:  i18n.T(model.LanguageEnglish, i18n.DenyInvalidTarget),
		},
		{
			name:    "Image that is not base64",
			questID: "q-image",
			body:    SubmitRequest{ImageBase64: "data:image/jpeg;base64,%%%"},
			setupMocks:   func(svc *mocks.MockQuestService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "Accepted verdict without feedback",
			questID: "q-text",
			body:    SubmitRequest{Text: "thanked them twice"},
			setupMocks: func(svc *mocks.MockQuestService) {
				svc.On("SubmitEvidence", mock.Anything, "q-text", mock.Anything).
					Return(model.Verdict{}, fmt.Errorf("failed to verify submission: %w", service.ErrInvalidResult))
			},
			expectedCode: http.StatusBadGateway,
			expectedMsg:  i18n.T(model.LanguageEnglish, i18n.DenyVerifyFailed),
		},
		{
			name:    "Verifier unreachable",
			questID: "q-text",
			body:    SubmitRequest{Text: "thanked them twice"},
			setupMocks: func(svc *mocks.MockQuestService) {
				svc.On("SubmitEvidence", mock.Anything, "q-text", mock.Anything).
					Return(model.Verdict{}, fmt.Errorf("failed to verify submission: %w", gemini.ErrUnavailable))
			},
			expectedCode: http.StatusBadGateway,
			expectedMsg:  i18n.T(model.LanguageEnglish, i18n.DenyVerifyFailed),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockQuestService{}
			svc.On("Snapshot").Return(testState(model.LanguageEnglish)).Maybe()
			tt.setupMocks(svc)
			router := setupRouter(svc)

			w := doRequest(router, http.MethodPost, "/api/v1/quests/"+tt.questID+"/submit", tt.body)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, errorMessage(t, w))
			}
			if tt.check != nil {
				var resp SubmitResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				tt.check(t, resp)
			}
			if tt.expectedCode == http.StatusBadRequest || tt.expectedCode == http.StatusNotFound {
				svc.AssertNotCalled(t, "SubmitEvidence", mock.Anything, mock.Anything, mock.Anything)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestQuestRoutes_ToggleSaved(t *testing.T) {
	svc := &mocks.MockQuestService{}
	svc.On("Snapshot").Return(testState(model.LanguageEnglish))
	svc.On("ToggleSaved", mock.Anything, "q-text").Return(true, nil)
	svc.On("ToggleSaved", mock.Anything, "missing").Return(false, service.ErrQuestNotFound)
	router := setupRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/v1/quests/q-text/save", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID    string `json:"id"`
		Saved bool   `json:"saved"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "q-text", resp.ID)
	assert.True(t, resp.Saved)

	w = doRequest(router, http.MethodPost, "/api/v1/quests/missing/save", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuestRoutes_ShareQuest(t *testing.T) {
	svc := &mocks.MockQuestService{}
	svc.On("Snapshot").Return(testState(model.LanguageEnglish))
	svc.On("ShareQuest", "q-text").Return(model.ShareCard{Title: "PP Quest", Text: "Check out this quest", URL: "https://pp.quest"}, nil)
	svc.On("ShareQuest", "missing").Return(model.ShareCard{}, service.ErrQuestNotFound)
	router := setupRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/v1/quests/q-text/share", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var card model.ShareCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "https://pp.quest", card.URL)

	w = doRequest(router, http.MethodGet, "/api/v1/quests/missing/share", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStripDataURL(t *testing.T) {
	assert.Equal(t, "aGk=", stripDataURL("data:image/png;base64,aGk="))
	assert.Equal(t, "aGk=", stripDataURL("aGk="))
	assert.Equal(t, "data:broken", stripDataURL("data:broken"))
}
