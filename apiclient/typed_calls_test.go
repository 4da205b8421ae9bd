package apiclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-questpath-client/apierror"
	"github.com/jrsteele09/go-questpath-client/internal/fakeapi"
	"github.com/jrsteele09/go-questpath-client/internal/utils"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/stretchr/testify/require"
)

func TestGoalLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	goal, err := f.c.CreateGoal(ctx, "Learn Go concurrency")
	require.NoError(t, err)
	require.NotEmpty(t, goal.Roadmap.Levels)

	goals, err := f.c.MyGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	require.Equal(t, goal.ID, goals[0].ID)
	require.False(t, goals[0].CreatedAt.IsZero())

	level := goal.Roadmap.Levels[0]
	require.NoError(t, f.c.ToggleTopic(ctx, level.ID, 1))
	got, err := f.c.Goal(ctx, goal.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Level(level.ID).CompletedTopics())
	require.True(t, got.Level(level.ID).Topics[1].Completed)

	err = f.c.ToggleTopic(ctx, level.ID, 99)
	require.True(t, apierror.IsStatus(err, http.StatusBadRequest))

	quiz, err := f.c.LevelQuiz(ctx, level.ID)
	require.NoError(t, err)
	answers := map[int64]string{}
	for _, q := range quiz.Questions {
		answers[q.ID] = q.CorrectAnswer
	}
	submission, correct := model.GradeQuiz(quiz, answers)
	require.Equal(t, len(quiz.Questions), correct)
	require.Equal(t, 100, submission.Score)
	require.True(t, submission.Passed)

	result, err := f.c.SubmitQuiz(ctx, level.ID, submission)
	require.NoError(t, err)
	require.Equal(t, level.XPReward, result.XPEarned)

	user, err := f.c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, 250+level.XPReward, user.TotalExp)

	stats, err := f.c.ProgressionStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.LevelsCompleted)
	require.Equal(t, user.TotalExp, stats.TotalExp)
}

func TestGetUnknownGoal(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, err := f.c.Goal(context.Background(), 42)
	require.True(t, apierror.IsStatus(err, http.StatusNotFound))
	require.Equal(t, []string{apierror.MsgNotFound}, f.notes.all())
}

func TestGoalLimitForFreeUsers(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	for i := 0; i < fakeapi.FreeGoalLimit; i++ {
		_, err := f.c.CreateGoal(ctx, "goal")
		require.NoError(t, err)
	}
	_, err := f.c.CreateGoal(ctx, "one too many")
	require.True(t, apierror.IsStatus(err, http.StatusForbidden))
	require.Equal(t, "GOAL_LIMIT_REACHED", apierror.DetailCode(err))

	f.srv.UpdateUser(testEmail, func(u *model.User) { u.IsPremium = true })
	_, err = f.c.CreateGoal(ctx, "premium goal")
	require.NoError(t, err)
}

func TestUpdateMe(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	user, err := f.c.UpdateMe(context.Background(), model.ProfileUpdate{DisplayName: "Ada"})
	require.NoError(t, err)
	require.Equal(t, "Ada", utils.Value(user.DisplayName))
	require.Equal(t, "Ada", user.Name())
}

func TestLeaderboardRanksCurrentUser(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("top@example.com", "password1", 900)
	f.srv.AddUser("low@example.com", "password1", 10)
	f.login(t)

	lb, err := f.c.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, lb.Entries, 3)
	require.Equal(t, "top@example.com", lb.Entries[0].Email)
	require.Equal(t, 2, lb.CurrentUser.Rank)
	require.Equal(t, testEmail, lb.CurrentUser.Email)
}

func TestBilling(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	session, err := f.c.Checkout(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, session.URL)

	_, err = f.c.CancelSubscription(ctx)
	require.True(t, apierror.IsStatus(err, http.StatusBadRequest))

	f.srv.UpdateUser(testEmail, func(u *model.User) { u.IsPremium = true })
	_, err = f.c.Checkout(ctx, "")
	require.Equal(t, "ALREADY_PREMIUM", apierror.DetailCode(err))

	cancellation, err := f.c.CancelSubscription(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cancellation.SubscriptionID)
	require.False(t, cancellation.AccessUntil.IsZero())
}

func TestAdminStatsRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	_, err := f.c.AdminStats(ctx)
	require.True(t, apierror.IsStatus(err, http.StatusForbidden))

	f.srv.UpdateUser(testEmail, func(u *model.User) { u.IsAdmin = true })
	stats, err := f.c.AdminStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Users.Total)
}
