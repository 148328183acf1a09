package seeder

import (
	"fmt"
	"math/rand"
)

// routineTemplate describes one sample routine to create.
type routineTemplate struct {
	Title         string   `json:"title"`
	Description   []string `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CushionLimits []int    `json:"cushionLimits,omitempty"`
	Colours       []string `json:"colours,omitempty"`
	Balls         *balls   `json:"balls,omitempty"`
	CanLoop       bool     `json:"canLoop,omitempty"`
}

type balls struct {
	Options []int  `json:"options"`
	Unit    string `json:"unit"`
}

// sampleRoutines are cycled when more routines are requested than
// templates exist.
var sampleRoutines = []routineTemplate{
	{
		Title:       "The Line Up",
		Description: []string{"Pot a line of reds along the spots, taking a colour after each."},
		Tags:        []string{"break-building", "positional-play"},
		Colours:     []string{"all", "black", "pink", "blue"},
		Balls:       &balls{Options: []int{3, 5, 10, 15}, Unit: "reds"},
		CanLoop:     true,
	},
	{
		Title:         "The T Line Up",
		Description:   []string{"Reds placed in a T shape across the table."},
		Tags:          []string{"break-building"},
		CushionLimits: []int{0, 3, 5, 7},
		Colours:       []string{"all", "black"},
	},
	{
		Title:       "Clearing the Colours",
		Description: []string{"Clear yellow through black from their spots."},
		Tags:        []string{"positional-play", "safety"},
		CanLoop:     true,
	},
	{
		Title:         "Long Potting",
		Description:   []string{"Long pots from baulk into the corner pockets."},
		Tags:          []string{"potting"},
		CushionLimits: []int{0, 1, 2},
		Balls:         &balls{Options: []int{5, 10, 20}, Unit: "pots"},
	},
}

// sampleRoutine returns the i-th template, cycling past the end.
func sampleRoutine(i int) routineTemplate {
	t := sampleRoutines[i%len(sampleRoutines)]
	if i >= len(sampleRoutines) {
		t.Title = fmt.Sprintf("%s #%d", t.Title, i/len(sampleRoutines)+1)
	}
	return t
}

// scoreBody picks random optional fields consistent with the routine's
// allow-lists so the validation gate accepts the submission.
func scoreBody(rng *rand.Rand, routineID string, t routineTemplate) map[string]any {
	body := map[string]any{
		"value":     rng.Intn(140) + 1,
		"routineId": routineID,
	}
	if len(t.CushionLimits) > 0 && rng.Intn(2) == 0 {
		body["cushionLimit"] = t.CushionLimits[rng.Intn(len(t.CushionLimits))]
	}
	if len(t.Colours) > 0 && rng.Intn(2) == 0 {
		body["colours"] = t.Colours[rng.Intn(len(t.Colours))]
	}
	if t.Balls != nil && rng.Intn(2) == 0 {
		body["numBalls"] = t.Balls.Options[rng.Intn(len(t.Balls.Options))]
	}
	if t.CanLoop && rng.Intn(2) == 0 {
		body["loop"] = true
	}
	return body
}
