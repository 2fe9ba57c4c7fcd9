package models

type Category struct {
	BaseModel
	Name     string    `json:"name"`
	Slug     string    `gorm:"uniqueIndex" json:"slug"`
	HasSize  bool      `json:"has_size"`
	Image    string    `json:"image"`
	Products []Product `json:"products,omitempty"`
}

type Banner struct {
	BaseModel
	Title    string `json:"title"`
	Image    string `json:"image"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

type Announcement struct {
	BaseModel
	Text            string `json:"text"`
	Link            string `json:"link"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`
	BackgroundColor string `gorm:"default:#000000" json:"background_color"`
	TextColor       string `gorm:"default:#ffffff" json:"text_color"`
}
