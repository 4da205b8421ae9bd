package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-questpath-client/model"
)

const (
	levelsPerGoal  = 2
	topicsPerLevel = 3
	levelXPReward  = 100
	quizQuestions  = 5
	quizAnswer     = "a"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGoalRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Description) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("description", "Description is required"))
		return
	}
	email := callerEmail(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[email]
	count := 0
	for _, g := range s.goals {
		if g.owner == email {
			count++
		}
	}
	if count >= FreeGoalLimit && !a.user.PremiumActive(time.Now()) {
		writeDetail(w, http.StatusForbidden, map[string]any{
			"message":       fmt.Sprintf("You've reached the limit of %d goals for free users.", FreeGoalLimit),
			"code":          "GOAL_LIMIT_REACHED",
			"redirect":      "/pricing",
			"current_goals": count,
			"max_goals":     FreeGoalLimit,
		})
		return
	}

	s.nextGoalID++
	goal := model.Goal{
		ID:              s.nextGoalID,
		Title:           titleFor(req.Description),
		Description:     req.Description,
		Category:        "general",
		DifficultyLevel: "beginner",
		Status:          "active",
		Roadmap:         model.Roadmap{ID: s.nextGoalID, Name: "Roadmap: " + titleFor(req.Description)},
	}
	for i := 0; i < levelsPerGoal; i++ {
		s.nextLevel++
		level := model.Level{
			ID:       s.nextLevel,
			Order:    i + 1,
			Title:    fmt.Sprintf("Level %d", i+1),
			XPReward: levelXPReward,
			Status:   "locked",
		}
		if i == 0 {
			level.Status = "unlocked"
		}
		for j := 0; j < topicsPerLevel; j++ {
			level.Topics = append(level.Topics, model.Topic{Name: fmt.Sprintf("Topic %d.%d", i+1, j+1)})
		}
		goal.Roadmap.Levels = append(goal.Roadmap.Levels, level)
	}
	s.goals[goal.ID] = &ownedGoal{owner: email, goal: goal, at: time.Now()}
	writeJSON(w, http.StatusCreated, goal)
}

func titleFor(description string) string {
	title := strings.TrimSpace(description)
	if len(title) > 40 {
		title = title[:40]
	}
	return title
}

func (s *Server) handleMyGoals(w http.ResponseWriter, r *http.Request) {
	email := callerEmail(r)
	s.mu.Lock()
	summaries := make([]model.GoalSummary, 0)
	for _, g := range s.goals {
		if g.owner != email {
			continue
		}
		summaries = append(summaries, model.GoalSummary{
			ID:              g.goal.ID,
			Title:           g.goal.Title,
			Category:        g.goal.Category,
			DifficultyLevel: g.goal.DifficultyLevel,
			Status:          g.goal.Status,
			CreatedAt:       model.Timestamp{Time: g.at},
		})
	}
	s.mu.Unlock()
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "goalID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("goal_id", "Input should be a valid integer"))
		return
	}
	s.mu.Lock()
	g, ok := s.goals[id]
	var goal model.Goal
	if ok && g.owner == callerEmail(r) {
		goal = g.goal
	} else {
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// findLevelLocked returns the caller's level with the given id.
func (s *Server) findLevelLocked(email string, levelID int64) *model.Level {
	for _, g := range s.goals {
		if g.owner != email {
			continue
		}
		if lvl := g.goal.Level(levelID); lvl != nil {
			return lvl
		}
	}
	return nil
}

func levelIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "levelID"), 10, 64)
}

func (s *Server) handleToggleTopic(w http.ResponseWriter, r *http.Request) {
	levelID, err := levelIDParam(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("level_id", "Input should be a valid integer"))
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "topicIndex"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("topic_index", "Input should be a valid integer"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lvl := s.findLevelLocked(callerEmail(r), levelID)
	if lvl == nil {
		writeDetail(w, http.StatusNotFound, "Level not found")
		return
	}
	if idx < 0 || idx >= len(lvl.Topics) {
		writeDetail(w, http.StatusBadRequest, "Invalid topic index")
		return
	}
	lvl.Topics[idx].Completed = !lvl.Topics[idx].Completed
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Topic marked as completed"})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	levelID, err := levelIDParam(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("level_id", "Input should be a valid integer"))
		return
	}
	s.mu.Lock()
	lvl := s.findLevelLocked(callerEmail(r), levelID)
	var title string
	if lvl != nil {
		title = lvl.Title
	}
	s.mu.Unlock()
	if lvl == nil {
		writeDetail(w, http.StatusNotFound, "Level not found")
		return
	}

	quiz := model.Quiz{LevelID: levelID, LevelTitle: title, TimeLimit: 300}
	for i := 1; i <= quizQuestions; i++ {
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			ID:       int64(i),
			Question: fmt.Sprintf("Question %d about %s?", i, title),
			Options: []model.QuizOption{
				{Text: "Right", Value: quizAnswer},
				{Text: "Wrong", Value: "b"},
			},
			CorrectAnswer: quizAnswer,
		})
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	levelID, err := levelIDParam(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("level_id", "Input should be a valid integer"))
		return
	}
	var sub model.QuizSubmission
	if err := decodeBody(r, &sub); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("body", err.Error()))
		return
	}

	email := callerEmail(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	lvl := s.findLevelLocked(email, levelID)
	if lvl == nil {
		writeDetail(w, http.StatusNotFound, "Level not found")
		return
	}
	if !sub.Passed {
		writeJSON(w, http.StatusOK, model.QuizResult{Message: "Quiz not passed. Review the topics and try again."})
		return
	}
	if lvl.Status == "completed" {
		writeJSON(w, http.StatusOK, model.QuizResult{Message: "Level already completed."})
		return
	}
	lvl.Status = "completed"
	s.accounts[email].user.TotalExp += lvl.XPReward
	writeJSON(w, http.StatusOK, model.QuizResult{XPEarned: lvl.XPReward, Message: "Level completed!"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	email := callerEmail(r)
	s.mu.Lock()
	users := make([]model.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, *a.user.Clone())
	}
	s.mu.Unlock()
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalExp != users[j].TotalExp {
			return users[i].TotalExp > users[j].TotalExp
		}
		return users[i].ID < users[j].ID
	})

	var lb model.Leaderboard
	for i, u := range users {
		entry := model.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Email:       u.Email,
			TotalExp:    u.TotalExp,
			IsPremium:   u.IsPremium,
			DisplayName: u.DisplayName,
		}
		if i < 10 {
			lb.Entries = append(lb.Entries, entry)
		}
		if u.Email == email {
			lb.CurrentUser = entry
		}
	}
	writeJSON(w, http.StatusOK, lb)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	email := callerEmail(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.accounts[email].user
	total, completed := 0, 0
	for _, g := range s.goals {
		if g.owner != email {
			continue
		}
		for _, lvl := range g.goal.Roadmap.Levels {
			total++
			if lvl.Status == "completed" {
				completed++
			}
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	writeJSON(w, http.StatusOK, model.ProgressionStats{
		Email:                    u.Email,
		DisplayName:              u.DisplayName,
		ProfilePicture:           u.ProfilePicture,
		TotalExp:                 u.TotalExp,
		LevelsCompleted:          completed,
		GoalCompletionPercentage: pct,
	})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.accounts[callerEmail(r)].user
	s.mu.Unlock()
	if u.PremiumActive(time.Now()) {
		writeDetail(w, http.StatusBadRequest, map[string]any{
			"message": "You already have an active premium subscription!",
			"code":    "ALREADY_PREMIUM",
		})
		return
	}
	writeJSON(w, http.StatusOK, model.CheckoutSession{URL: "https://checkout.stripe.test/c/" + uuid.NewString()})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.accounts[callerEmail(r)].user
	s.mu.Unlock()
	if !u.PremiumActive(time.Now()) {
		writeDetail(w, http.StatusBadRequest, "No active subscription found")
		return
	}
	until := time.Now().Add(30 * 24 * time.Hour)
	if u.PremiumExpiry != nil && !u.PremiumExpiry.IsZero() {
		until = u.PremiumExpiry.Time
	}
	writeJSON(w, http.StatusOK, model.Cancellation{
		Message:        "Subscription cancelled successfully",
		AccessUntil:    model.Timestamp{Time: until},
		SubscriptionID: "sub_" + strconv.FormatInt(u.ID, 10),
	})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accounts[callerEmail(r)].user.IsAdmin {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	stats := model.AdminStats{
		Timestamp:   model.Timestamp{Time: time.Now()},
		Users:       model.AdminCounts{Total: len(s.accounts)},
		Goals:       model.AdminCounts{Total: len(s.goals)},
		EventsToday: model.AdminEventsToday{ByType: map[string]int{}},
	}
	for _, a := range s.accounts {
		if a.user.PremiumActive(time.Now()) {
			stats.Users.PremiumActive++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}
