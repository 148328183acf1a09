package model

// Score records a single attempt at a routine. The optional fields
// (CushionLimit, Colours, NumBalls, Loop) are only valid when permitted
// by the parent routine's allow-lists.
type Score struct {
	ID        string   `json:"id"`
	Value     int      `json:"value"`
	UserID    string   `json:"userId"`
	RoutineID string   `json:"routineId"`
	DateTime  DateTime `json:"dateTime,omitzero"`

	CushionLimit *int    `json:"cushionLimit,omitempty"`
	Colours      *string `json:"colours,omitempty"`
	NumBalls     *int    `json:"numBalls,omitempty"`
	Loop         bool    `json:"loop,omitempty"`
}
