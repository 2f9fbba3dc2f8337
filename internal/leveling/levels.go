package leveling

import "math"

// Threshold maps a minimum all-time point total to a level and title.
type Threshold struct {
	Level  int    `json:"level"`
	Points int    `json:"points"`
	Title  string `json:"title"`
}

// LevelThresholds is the fixed level table. Entries must be strictly
// increasing in Points and the first entry must sit at 0 so every
// non-negative total resolves to a level.
var LevelThresholds = []Threshold{
	{Level: 1, Points: 0, Title: "Soil Novice"},
	{Level: 2, Points: 50, Title: "Sprout Grower"},
	{Level: 3, Points: 150, Title: "Field Scout"},
	{Level: 4, Points: 300, Title: "Crop Specialist"},
	{Level: 5, Points: 500, Title: "Harvest Master"},
	{Level: 6, Points: 750, Title: "Soil Scientist"},
	{Level: 7, Points: 1000, Title: "Agriculture Guru"},
	{Level: 8, Points: 1500, Title: "Ecosystem Engineer"},
	{Level: 9, Points: 2000, Title: "Terrain Titan"},
	{Level: 10, Points: 3000, Title: "Smartsoil Legend"},
}

// Level is the resolved standing for a point total. Next is nil once the
// highest threshold is reached.
type Level struct {
	Level int        `json:"level"`
	Title string     `json:"title"`
	Next  *Threshold `json:"next_level,omitempty"`
}

// GetUserLevel returns the highest threshold whose requirement is met by
// points, scanning the table from the top so ties resolve upward.
func GetUserLevel(points int) Level {
	current := LevelThresholds[0]
	var next *Threshold

	for i := len(LevelThresholds) - 1; i >= 0; i-- {
		if points >= LevelThresholds[i].Points {
			current = LevelThresholds[i]
			if i+1 < len(LevelThresholds) {
				n := LevelThresholds[i+1]
				next = &n
			}
			break
		}
	}

	return Level{Level: current.Level, Title: current.Title, Next: next}
}

// GetLevelProgress returns the progress toward the next level as a
// percentage in [0,100]. Max level always reports 100.
func GetLevelProgress(points int) int {
	lvl := GetUserLevel(points)
	if lvl.Next == nil {
		return 100
	}

	var current int
	for _, t := range LevelThresholds {
		if t.Level == lvl.Level {
			current = t.Points
			break
		}
	}

	earned := float64(points - current)
	required := float64(lvl.Next.Points - current)

	progress := int(math.Round(earned / required * 100))
	if progress > 100 {
		progress = 100
	}
	return progress
}
