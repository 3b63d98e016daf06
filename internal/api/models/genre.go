package models

type Genre struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
}

func (Genre) TableName() string {
	return "genres"
}
