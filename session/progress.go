package session

// ExpPerLevel is the experience needed to advance one level.
const ExpPerLevel = 100

// Progress is the experience earned inside the current level.
type Progress struct {
	Current    int     `json:"current"`
	Needed     int     `json:"needed"`
	Percentage float64 `json:"percentage"`
}

// LevelFor returns the level reached with totalExp. Levels start at 1.
func LevelFor(totalExp int) int {
	if totalExp < 0 {
		totalExp = 0
	}
	return totalExp/ExpPerLevel + 1
}

// ProgressFor returns progress towards the next level.
func ProgressFor(totalExp int) Progress {
	if totalExp < 0 {
		totalExp = 0
	}
	current := totalExp % ExpPerLevel
	return Progress{
		Current:    current,
		Needed:     ExpPerLevel,
		Percentage: float64(current) / ExpPerLevel * 100,
	}
}
