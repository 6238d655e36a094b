package models

// PostOffice представляет почтовое отделение (пункт отправления или получения).
type PostOffice struct {
	ID          int64  `json:"id" db:"id"`
	Address     string `json:"address" db:"address" validate:"required,max=150"`
	PostalIndex string `json:"postal_index" db:"postal_index" validate:"required,postal_index"`
}
