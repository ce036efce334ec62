package entity

// Category is a fixed blog topic, seeded at startup
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`

	// Relationships
	Posts []BlogPost `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// SeedCategoryNames are created once at startup if absent
var SeedCategoryNames = []string{"Mental Health", "Heart Disease", "Covid19", "Immunization"}
