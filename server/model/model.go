package model

import (
	"github.com/cyclopcam/dbh"
	"github.com/fitvision/formcheck/pkg/form"
)

// BaseModel is our base class for a GORM model.
// The default GORM Model uses int, but we prefer int64
type BaseModel struct {
	ID int64 `gorm:"primaryKey" json:"id"`
}

// VideoAnalysis is one analyzed video: who uploaded it, where the blob
// lives, and what the analyzer said about it.
type VideoAnalysis struct {
	BaseModel
	UserID        string                              `json:"userID"`        // Caller-supplied user key. We do no authentication.
	ExerciseType  string                              `json:"exerciseType"`  // Label the caller gave us, eg "pushup"
	VideoFilename string                              `json:"videoFilename"` // Name of the video blob in storage
	CreatedAt     dbh.MilliTime                       `json:"createdAt"`
	Result        *dbh.JSONField[form.AnalysisResult] `json:"result"`
	Feedback      string                              `json:"feedback"` // Rendered report, as shown to the user
}
