package service

// Principle explains how recommendations are ranked.
const Principle = "Ranked by opportunity cost: high interview leverage topics where your coverage is still low."

// Diagnostic notes.
const (
	NoteLimitedVelocity = "Velocity is limited because you need at least 2 snapshots. Take one snapshot per day."
	NoteVelocityReady   = "Velocity computed from your snapshots."
)
