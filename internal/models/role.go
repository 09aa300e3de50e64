package models

type Role struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Name         string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Abbreviation string `gorm:"type:varchar(10)" json:"abbreviation"`
	Description  string `gorm:"type:text" json:"description"`
}
