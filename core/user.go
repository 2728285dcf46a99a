package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProviderLocal  = "local"
	ProviderWechat = "wechat"
	ProviderOAuth  = "oauth"
)

// User is the account plus the rated (contracted) schedule and pay used by attendance.
// Rated fields are nullable; consumers fall back to zero values.
type User struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	Username     *string `gorm:"size:100;uniqueIndex" json:"username,omitempty"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	Provider     string  `gorm:"size:20;not null;default:local;uniqueIndex:idx_users_provider_external" json:"provider"`
	ExternalID   *string `gorm:"size:128;uniqueIndex:idx_users_provider_external" json:"-"`

	RatedWorkStartTime *string  `gorm:"size:5" json:"ratedWorkStartTime"`
	RatedWorkEndTime   *string  `gorm:"size:5" json:"ratedWorkEndTime"`
	RatedHourlyRate    *float64 `gorm:"type:decimal(13,4)" json:"ratedHourlyRate"`
	RatedWorkHours     *float64 `gorm:"type:decimal(13,4)" json:"ratedWorkHours"`
	RatedDailySalary   *float64 `gorm:"type:decimal(13,4)" json:"ratedDailySalary"`

	// claims returned by the social login provider
	Attributes datatypes.JSON `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Provider == "" {
		u.Provider = ProviderLocal
	}
	return nil
}

// RatedProfile is the subset of User that an employee may edit.
type RatedProfile struct {
	RatedWorkStartTime *string
	RatedWorkEndTime   *string
	RatedHourlyRate    *float64
	RatedWorkHours     *float64
	RatedDailySalary   *float64
}

func FindUserByID(db *gorm.DB, id string) (*User, error) {
	var user User
	result := db.Where("id = ?", id).Take(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	result := db.Where("username = ?", username).Take(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func FindUserByExternalID(db *gorm.DB, provider string, externalID string) (*User, error) {
	var user User
	result := db.Where("provider = ? AND external_id = ?", provider, externalID).Take(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *User) error {
	return db.Create(user).Error
}

// UpdateRatedProfile writes only the rated fields; existing clock records keep their snapshot.
func UpdateRatedProfile(db *gorm.DB, id string, profile RatedProfile) (*User, error) {
	user, err := FindUserByID(db, id)
	if err != nil || user == nil {
		return nil, err
	}

	if err := db.Model(user).Updates(map[string]any{
		"rated_work_start_time": profile.RatedWorkStartTime,
		"rated_work_end_time":   profile.RatedWorkEndTime,
		"rated_hourly_rate":     profile.RatedHourlyRate,
		"rated_work_hours":      profile.RatedWorkHours,
		"rated_daily_salary":    profile.RatedDailySalary,
	}).Error; err != nil {
		return nil, err
	}
	return FindUserByID(db, id)
}

// UserRepository exposes the user finders bound to a DatabaseManager.
type UserRepository struct {
	Dm *DatabaseManager
}

func NewUserRepository(dm *DatabaseManager) *UserRepository {
	return &UserRepository{Dm: dm}
}

func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*User, error) {
	var user *User
	err := r.Dm.Exec(ctx, func(db *gorm.DB) error {
		var err error
		user, err = FindUserByID(db, id)
		return err
	})
	return user, err
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	var user *User
	err := r.Dm.Exec(ctx, func(db *gorm.DB) error {
		var err error
		user, err = FindUserByUsername(db, username)
		return err
	})
	return user, err
}

func (r *UserRepository) FindUserByExternalID(ctx context.Context, provider string, externalID string) (*User, error) {
	var user *User
	err := r.Dm.Exec(ctx, func(db *gorm.DB) error {
		var err error
		user, err = FindUserByExternalID(db, provider, externalID)
		return err
	})
	return user, err
}

func (r *UserRepository) CreateUser(ctx context.Context, user *User) error {
	return r.Dm.Exec(ctx, func(db *gorm.DB) error {
		return CreateUser(db, user)
	})
}

func (r *UserRepository) UpdateRatedProfile(ctx context.Context, id string, profile RatedProfile) (*User, error) {
	var user *User
	err := r.Dm.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = UpdateRatedProfile(tx, id, profile)
		return err
	})
	return user, err
}
