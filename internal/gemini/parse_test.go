package gemini

import (
	"testing"

	"pp_quest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuests(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		checkFunc func(t *testing.T, drafts []model.QuestDraft)
	}{
		{
			name: "Valid batch",
			input: `[
				{"title":"Paper hat","description":"Give a fruit a tiny hat","difficulty":"Easy","type":"IMAGE","points":50},
				{"title":"Pick one","description":"Choose your hero snack","difficulty":"Medium","type":"CHOICE","options":["Chips","Grapes"],"points":100}
			]`,
			checkFunc: func(t *testing.T, drafts []model.QuestDraft) {
				require.Len(t, drafts, 2)
				assert.Equal(t, "Paper hat", drafts[0].Title)
				assert.Equal(t, model.DifficultyEasy, drafts[0].Difficulty)
				assert.Equal(t, model.QuestTypeImage, drafts[0].Type)
				assert.Equal(t, 50, drafts[0].Points)
				assert.Empty(t, drafts[0].Options)
				assert.Equal(t, []string{"Chips", "Grapes"}, drafts[1].Options)
			},
		},
		{
			name:  "Empty options on text quest are fine",
			input: `[{"title":"Note","description":"Thank your shoes","difficulty":"Hard","type":"TEXT","options":[],"points":200}]`,
			checkFunc: func(t *testing.T, drafts []model.QuestDraft) {
				require.Len(t, drafts, 1)
				assert.Equal(t, 200, drafts[0].Points)
			},
		},
		{name: "Not JSON", input: `Sure! Here are your quests`, wantErr: true},
		{name: "Object instead of list", input: `{"title":"x"}`, wantErr: true},
		{name: "Empty list", input: `[]`, wantErr: true},
		{name: "Missing title", input: `[{"description":"d","difficulty":"Easy","type":"TEXT","points":50}]`, wantErr: true},
		{name: "Unknown difficulty", input: `[{"title":"t","description":"d","difficulty":"Legendary","type":"TEXT","points":50}]`, wantErr: true},
		{name: "Unknown type", input: `[{"title":"t","description":"d","difficulty":"Easy","type":"ACTION","points":50}]`, wantErr: true},
		{name: "Zero points", input: `[{"title":"t","description":"d","difficulty":"Easy","type":"TEXT","points":0}]`, wantErr: true},
		{name: "Fractional points", input: `[{"title":"t","description":"d","difficulty":"Easy","type":"TEXT","points":12.5}]`, wantErr: true},
		{name: "Choice without options", input: `[{"title":"t","description":"d","difficulty":"Easy","type":"CHOICE","points":50}]`, wantErr: true},
		{name: "Options on image quest", input: `[{"title":"t","description":"d","difficulty":"Easy","type":"IMAGE","options":["a"],"points":50}]`, wantErr: true},
		{
			name: "One bad item fails the batch",
			input: `[
				{"title":"ok","description":"d","difficulty":"Easy","type":"TEXT","points":50},
				{"title":"bad","description":"d","difficulty":"Easy","type":"TEXT","points":-1}
			]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := ParseQuests(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				assert.Nil(t, drafts)
				return
			}

			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, drafts)
			}
		})
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.Verdict
		wantErr bool
	}{
		{name: "Accepted", input: `{"success":true,"feedback":"Nice"}`, want: model.Verdict{Success: true, Feedback: "Nice"}},
		{name: "Rejected", input: `{"success":false,"feedback":" Lazy "}`, want: model.Verdict{Success: false, Feedback: "Lazy"}},
		{name: "Missing success", input: `{"feedback":"Nice"}`, wantErr: true},
		{name: "Missing feedback", input: `{"success":true}`, wantErr: true},
		{name: "Blank feedback", input: `{"success":true,"feedback":"  "}`, wantErr: true},
		{name: "Wrong type", input: `{"success":"yes","feedback":"Nice"}`, wantErr: true},
		{name: "Garbage", input: `nope`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
