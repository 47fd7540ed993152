package models

// Location is a delivery address owned by a user.
type Location struct {
	BaseModel
	UserID   string `gorm:"size:36;not null;index" json:"user_id"`
	User     *User  `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Area     string `gorm:"size:80;not null" json:"area"`
	Street   string `gorm:"size:150;not null" json:"street"`
	Building string `gorm:"size:50;not null" json:"building"`
}
