package models

// Brand is a product manufacturer. Names are unique among rows that are not soft deleted.
type Brand struct {
	BaseModel
	Name string `gorm:"size:50;not null;index" json:"name"`
}
