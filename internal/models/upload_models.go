package models

import "time"

// UploadRecord is the journal entry written for every analysed upload.
// It intentionally carries counts only, never the scored lines.
type UploadRecord struct {
	UploadID  string    `json:"upload_id" dynamodbav:"upload_id"`
	Filename  string    `json:"filename" dynamodbav:"filename"`
	SizeBytes int64     `json:"size_bytes" dynamodbav:"size_bytes"`
	Total     int       `json:"total" dynamodbav:"total"`
	Positive  int       `json:"positive" dynamodbav:"positive"`
	Negative  int       `json:"negative" dynamodbav:"negative"`
	Neutral   int       `json:"neutral" dynamodbav:"neutral"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"-"`
}

func NewUploadRecord(uploadID, filename string, size int64, s Summary, at time.Time) UploadRecord {
	return UploadRecord{
		UploadID:  uploadID,
		Filename:  filename,
		SizeBytes: size,
		Total:     s.Total,
		Positive:  s.Positive,
		Negative:  s.Negative,
		Neutral:   s.Neutral,
		CreatedAt: at,
	}
}
