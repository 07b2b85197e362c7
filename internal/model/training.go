package model

import "time"

// Training represents a safety or equipment training course that a
// lab may declare as a prerequisite for booking.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – short unique code (e.g. "SAFE-01").
//  Name      – human readable training name.
//  CreatedAt – timestamp of creation.
type Training struct {
	ID        uint64    // trainings.id
	Code      string    // trainings.code
	Name      string    // trainings.name
	CreatedAt time.Time // trainings.created_at
}

// LabTrainingRequirement declares that a lab requires a training to
// be completed before a member may book it.  The pair (LabID,
// TrainingID) is unique.
//
// Fields:
//  LabID      – lab declaring the prerequisite.
//  TrainingID – required training.
type LabTrainingRequirement struct {
	LabID      uint64 // lab_training_requirements.lab_id
	TrainingID uint64 // lab_training_requirements.training_id
}

// UserTraining records that a user completed a training.  A
// completion satisfies a requirement only while ExpiresAt is nil or
// still in the future; an expired row is treated as if the training
// had never been taken.
//
// Fields:
//  UserID      – user who completed the training.
//  TrainingID  – training that was completed.
//  CompletedAt – when the training was completed.
//  ExpiresAt   – when the completion lapses (nil = never).
type UserTraining struct {
	UserID      uint64     // user_trainings.user_id
	TrainingID  uint64     // user_trainings.training_id
	CompletedAt time.Time  // user_trainings.completed_at
	ExpiresAt   *time.Time // user_trainings.expires_at (nullable)
}
