package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"worktally.com/worktally/core"
)

// ClockRecord is one user's attendance for one calendar day.
// Rated fields are a snapshot of the user profile taken at clock-in.
// Derived fields are written together with ClockOutTime and never recomputed.
type ClockRecord struct {
	ID     string    `gorm:"primaryKey;size:36" json:"id"`
	UserID string    `gorm:"size:36;not null;uniqueIndex:idx_clock_records_user_date" json:"userId"`
	User   core.User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Date   string    `gorm:"size:10;not null;uniqueIndex:idx_clock_records_user_date" json:"date"` // yyyy-MM-dd

	ClockInTime  time.Time  `gorm:"not null;<-:create" json:"clockInTime"`
	ClockOutTime *time.Time `json:"clockOutTime"`

	RatedWorkStartTime *string  `gorm:"size:5;<-:create" json:"ratedWorkStartTime"`
	RatedWorkEndTime   *string  `gorm:"size:5;<-:create" json:"ratedWorkEndTime"`
	RatedHourlyRate    *float64 `gorm:"type:decimal(13,4);<-:create" json:"ratedHourlyRate"`
	RatedWorkHours     *float64 `gorm:"type:decimal(13,4);<-:create" json:"ratedWorkHours"`
	RatedDailySalary   *float64 `gorm:"type:decimal(13,4);<-:create" json:"ratedDailySalary"`

	ActualWorkHours     *float64 `gorm:"type:decimal(13,2)" json:"actualWorkHours"`
	ExpectedDailySalary *float64 `gorm:"type:decimal(13,2)" json:"expectedDailySalary"`
	ActualHourlyRate    *float64 `gorm:"type:decimal(13,2)" json:"actualHourlyRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ClockRecord) TableName() string {
	return "clock_records"
}

func (r *ClockRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ClockedOut reports whether the record has been completed.
func (r *ClockRecord) ClockedOut() bool {
	return r.ClockOutTime != nil
}
