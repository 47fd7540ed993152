package models

// Category groups products. Image holds the public URL of the uploaded picture.
type Category struct {
	BaseModel
	Name  string `gorm:"size:50;not null;index" json:"name"`
	Image string `gorm:"size:512;not null" json:"image"`
}
