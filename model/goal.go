package model

type Topic struct {
	Name        string `json:"name"`
	Completed   bool   `json:"completed"`
	Explanation string `json:"explanation,omitempty"`
}

type Level struct {
	ID          int64   `json:"id"`
	Order       int     `json:"order"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Topics      []Topic `json:"topics"`
	XPReward    int     `json:"xp_reward"`
	Status      string  `json:"status"`
}

// CompletedTopics counts topics marked understood.
func (l *Level) CompletedTopics() int {
	n := 0
	for _, t := range l.Topics {
		if t.Completed {
			n++
		}
	}
	return n
}

type Roadmap struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Levels []Level `json:"levels"`
}

type Goal struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	DifficultyLevel string  `json:"difficulty_level"`
	Status          string  `json:"status"`
	Roadmap         Roadmap `json:"roadmap"`
}

// Level returns the level with the given id, or nil.
func (g *Goal) Level(id int64) *Level {
	for i := range g.Roadmap.Levels {
		if g.Roadmap.Levels[i].ID == id {
			return &g.Roadmap.Levels[i]
		}
	}
	return nil
}

// GoalSummary is an entry of GET /goals/me.
type GoalSummary struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	DifficultyLevel string    `json:"difficulty_level"`
	Status          string    `json:"status"`
	CreatedAt       Timestamp `json:"created_at"`
}

type CreateGoalRequest struct {
	Description string `json:"description"`
}
