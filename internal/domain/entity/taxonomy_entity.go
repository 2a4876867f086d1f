package entity

import "time"

type Category struct {
	ID           string    `json:"_id"`
	CategoryName string    `json:"categoryname"`
	Description  string    `json:"description"`
	Status       bool      `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Language struct {
	ID           string    `json:"_id"`
	LanguageName string    `json:"languagename"`
	Description  string    `json:"description"`
	Status       bool      `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
