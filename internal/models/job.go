package models

import "time"

// Job and FailedJob back the store's queue worker. Migrated only.
type Job struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Queue       string `json:"queue" gorm:"size:255;index;not null"`
	Payload     string `json:"payload" gorm:"type:longtext;not null"`
	Attempts    uint8  `json:"attempts" gorm:"not null"`
	ReservedAt  *uint  `json:"reserved_at"`
	AvailableAt uint   `json:"available_at" gorm:"not null"`
	CreatedAt   uint   `json:"created_at" gorm:"not null"`
}

// TableName specifies the table name for Job
func (Job) TableName() string {
	return "jobs"
}

type FailedJob struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UUID       string    `json:"uuid" gorm:"size:255;uniqueIndex;not null"`
	Connection string    `json:"connection" gorm:"type:text;not null"`
	Queue      string    `json:"queue" gorm:"type:text;not null"`
	Payload    string    `json:"payload" gorm:"type:longtext;not null"`
	Exception  string    `json:"exception" gorm:"type:longtext;not null"`
	FailedAt   time.Time `json:"failed_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for FailedJob
func (FailedJob) TableName() string {
	return "failed_jobs"
}
