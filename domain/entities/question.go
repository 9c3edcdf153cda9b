package entities

// Question is one multiple-choice item in a game's question snapshot.
// All three supply variants (fixed pool, generated arithmetic, external
// trivia) normalize to this shape so the room state machine can score
// every kind the same way.
type Question struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Correct    int      `json:"correct"`
	Category   string   `json:"category,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	TimeLimit  int      `json:"timeLimit"` // seconds
}

// IsCorrect reports whether the selected option index matches the answer
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption == q.Correct
}
