package models

// User is an administrator able to sign in and manage the catalogue.
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Tokens    []PersonalAccessToken `gorm:"foreignKey:UserID" json:"-"`
	Locations []Location            `gorm:"foreignKey:UserID" json:"-"`
}
