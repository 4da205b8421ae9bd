package apiclient

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-questpath-client/model"
)

// CreateGoal asks the backend to generate a roadmap for description. Free-tier
// limits surface as a 403 whose apierror.DetailCode is GOAL_LIMIT_REACHED or
// PREMIUM_EXPIRED.
func (c *Client) CreateGoal(ctx context.Context, description string) (*model.Goal, error) {
	var goal model.Goal
	if err := c.Post(ctx, "/goals", model.CreateGoalRequest{Description: description}, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (c *Client) MyGoals(ctx context.Context) ([]model.GoalSummary, error) {
	var goals []model.GoalSummary
	if err := c.Get(ctx, "/goals/me", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) Goal(ctx context.Context, id int64) (*model.Goal, error) {
	var goal model.Goal
	if err := c.Get(ctx, fmt.Sprintf("/goals/%d", id), &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// ToggleTopic flips the completed flag of a topic. The server is the arbiter:
// refetch the goal to see the result.
func (c *Client) ToggleTopic(ctx context.Context, levelID int64, topicIndex int) error {
	return c.Patch(ctx, fmt.Sprintf("/goals/levels/%d/topics/%d", levelID, topicIndex), nil, nil)
}

func (c *Client) LevelQuiz(ctx context.Context, levelID int64) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := c.Get(ctx, fmt.Sprintf("/levels/%d/quiz", levelID), &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// SubmitQuiz records a graded attempt. XP changes only become visible after
// the session is refreshed.
func (c *Client) SubmitQuiz(ctx context.Context, levelID int64, submission model.QuizSubmission) (*model.QuizResult, error) {
	var result model.QuizResult
	if err := c.Post(ctx, fmt.Sprintf("/levels/%d/quiz/submit", levelID), submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
