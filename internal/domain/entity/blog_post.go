package entity

import "time"

// BlogPost is authored by a doctor; drafts stay invisible to patients
type BlogPost struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"type:varchar(100);not null" json:"title"`
	Image      string    `gorm:"type:varchar(100)" json:"image,omitempty"`
	Summary    string    `gorm:"type:varchar(200);not null" json:"summary"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsDraft    *bool     `gorm:"not null;default:true" json:"is_draft"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	DoctorID   uint      `gorm:"not null;index" json:"doctor_id"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Doctor   User     `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}
