package models

type Team struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	LogoPath string `json:"logo_path,omitempty" db:"logo_path"`
}
