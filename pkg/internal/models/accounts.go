package models

type Account struct {
	BaseModel

	Name     string `json:"name" gorm:"uniqueIndex"`
	Nick     string `json:"nick"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Language string `json:"language"`
}
