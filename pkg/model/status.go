// pkg/model/status.go
package model

import "time"

// FileStatus is the audit-log tag recording how far an upload progressed.
type FileStatus string

const (
	StatusPending           FileStatus = "Pending"
	StatusReadingSuccess    FileStatus = "Reading_Success"
	StatusReadingFailed     FileStatus = "Reading_Failed"
	StatusCleaningSuccess   FileStatus = "Cleaning_Success"
	StatusCleaningFailed    FileStatus = "Cleaning_Failed"
	StatusProcessingSuccess FileStatus = "Processing_Success"
	StatusProcessingFailed  FileStatus = "Processing_Failed"
	StatusAnalysisFailed    FileStatus = "Analysis_Failed"
	StatusLayoutFailed      FileStatus = "Layout_Recommendation_Failed"
	StatusCompleted         FileStatus = "Completed"
	StatusFailed            FileStatus = "Failed"
)

// Terminal reports whether the status ends an upload's lifecycle.
func (s FileStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// FileHistory is one row of the upload audit log.
type FileHistory struct {
	ID           int        `db:"id"`
	Filename     string     `db:"filename"`
	Status       FileStatus `db:"status"`
	ErrorMessage *string    `db:"error_message"`
	CreatedAt    time.Time  `db:"created_at"`
}
