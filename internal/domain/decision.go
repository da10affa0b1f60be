package domain

// Category identifies one of the content categories the analyzer scores.
type Category string

const (
	CategoryViolence      Category = "violence"
	CategorySexualContent Category = "sexual"
	CategoryLanguage      Category = "language"
)

// Action is the playback instruction returned to clients.
type Action string

const (
	ActionNone        Action = "none"
	ActionMute        Action = "mute"
	ActionSkip        Action = "skip"
	ActionFastForward Action = "fast_forward"
)

// Decision is the full analysis outcome returned by the event endpoint and
// pushed on the live feed. MatchedCategory is nil (JSON null) when nothing
// triggered; the JSON shape is exactly these four keys.
type Decision struct {
	Action          Action    `json:"action"`
	DurationSeconds int       `json:"duration_seconds"`
	MatchedCategory *Category `json:"matched_category"`
	Reason          string    `json:"reason"`
}

// NoMatchDecision is the canonical "nothing triggered" outcome.
func NoMatchDecision() Decision {
	return Decision{
		Action:          ActionNone,
		DurationSeconds: 0,
		MatchedCategory: nil,
		Reason:          "No match",
	}
}
