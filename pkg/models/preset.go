package models

// Preset is a quick-alarm template: "ring in N minutes from now".
type Preset struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Tone            string `json:"tone"`
	Vibration       bool   `json:"vibration"`
	IsCustom        bool   `json:"isCustom"`
}

// DefaultPresets seeds the preset list on first run.
func DefaultPresets() []Preset {
	return []Preset{
		{ID: "power-nap", Name: "Power Nap", DurationMinutes: 20, Tone: "gentle-chimes"},
		{ID: "coffee-break", Name: "Coffee Break", DurationMinutes: 15, Tone: "classic-bell"},
		{ID: "pomodoro", Name: "Pomodoro", DurationMinutes: 25, Tone: "classic-bell"},
		{ID: "quick-meeting", Name: "Quick Meeting", DurationMinutes: 30, Tone: "classic-bell", Vibration: true},
		{ID: "deep-sleep", Name: "Deep Sleep", DurationMinutes: 90, Tone: "ocean-waves", Vibration: true},
	}
}
