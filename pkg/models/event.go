package models

// AlarmEvent is one active ringing episode: a snapshot of the alarm at fire
// time plus the number of snoozes taken within this episode. At most one
// event exists per alarm id; it is created on trigger and destroyed on
// dismiss. Never persisted.
type AlarmEvent struct {
	Alarm       *Alarm
	SnoozeCount int
}
