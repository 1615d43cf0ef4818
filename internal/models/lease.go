package models

import "time"

// JobLease is a coarse distributed lock: a job runs only while it holds the
// lease row for its name. Expiry bounds how long a crashed holder can block
// the next run.
type JobLease struct {
	Name      string    `gorm:"primaryKey;size:50" json:"name"`
	Holder    string    `gorm:"size:64;not null" json:"holder"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (JobLease) TableName() string {
	return "job_leases"
}
