package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-questpath-client/internal/utils"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/stretchr/testify/require"
)

func TestUserDecodesNaiveTimestamps(t *testing.T) {
	var u model.User
	err := json.Unmarshal([]byte(`{
		"id": 4, "email": "a@b.c", "total_exp": 250,
		"is_premium": true, "premium_expiry": "2030-01-02T03:04:05.123456"
	}`), &u)
	require.NoError(t, err)
	require.Equal(t, 250, u.TotalExp)
	require.NotNil(t, u.PremiumExpiry)
	require.Equal(t, 2030, u.PremiumExpiry.Year())
	require.Equal(t, time.UTC, u.PremiumExpiry.Location())
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts model.Timestamp
	require.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &ts))
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	require.True(t, ts.IsZero())
}

func TestPremiumActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		user model.User
		want bool
	}{
		{"not premium", model.User{}, false},
		{"premium without expiry", model.User{IsPremium: true}, true},
		{"expired", model.User{IsPremium: true, PremiumExpiry: &model.Timestamp{Time: now.Add(-time.Hour)}}, false},
		{"active", model.User{IsPremium: true, PremiumExpiry: &model.Timestamp{Time: now.Add(time.Hour)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.PremiumActive(now))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	u := &model.User{Email: "a@b.c", DisplayName: utils.Ptr("Ada")}
	c := u.Clone()
	*c.DisplayName = "Grace"
	require.Equal(t, "Ada", u.Name())
	require.Equal(t, "Grace", c.Name())

	var nilUser *model.User
	require.Nil(t, nilUser.Clone())
}

func TestGradeQuiz(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.QuizQuestion{
		{ID: 1, CorrectAnswer: "a"},
		{ID: 2, CorrectAnswer: "b"},
		{ID: 3, CorrectAnswer: "c"},
	}}

	sub, correct := model.GradeQuiz(quiz, map[int64]string{1: "a", 2: "b", 3: "x"})
	require.Equal(t, 2, correct)
	require.Equal(t, 67, sub.Score)
	require.False(t, sub.Passed)

	sub, _ = model.GradeQuiz(quiz, map[int64]string{1: "a", 2: "b", 3: "c"})
	require.Equal(t, 100, sub.Score)
	require.True(t, sub.Passed)

	sub, correct = model.GradeQuiz(&model.Quiz{}, nil)
	require.Zero(t, correct)
	require.Zero(t, sub.Score)
}

func TestGoalLevelLookup(t *testing.T) {
	g := model.Goal{Roadmap: model.Roadmap{Levels: []model.Level{
		{ID: 10, Topics: []model.Topic{{Completed: true}, {}}},
	}}}
	require.Nil(t, g.Level(11))
	lvl := g.Level(10)
	require.NotNil(t, lvl)
	require.Equal(t, 1, lvl.CompletedTopics())
}
