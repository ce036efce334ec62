package entity

import "time"

// User holds credentials and profile data for both roles
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           string    `gorm:"type:varchar(10);not null;index" json:"role"`
	FirstName      string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(50);not null" json:"last_name"`
	AddressLine1   string    `gorm:"type:varchar(100)" json:"address_line1,omitempty"`
	City           string    `gorm:"type:varchar(50)" json:"city,omitempty"`
	State          string    `gorm:"type:varchar(50)" json:"state,omitempty"`
	Pincode        string    `gorm:"type:varchar(10)" json:"pincode,omitempty"`
	ProfilePicture string    `gorm:"type:varchar(100)" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Posts []BlogPost `gorm:"foreignKey:DoctorID" json:"posts,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)
