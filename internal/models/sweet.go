package models

import "time"

// DefaultImageURL используется, если при создании товара не указана картинка.
const DefaultImageURL = "https://via.placeholder.com/300x200?text=Sweet+Image"

// Categories — фиксированный набор категорий сладостей.
var Categories = []string{
	"chocolate", "candy", "gummy", "lollipop",
	"hard candy", "sour", "mint", "other",
}

// IsValidCategory проверяет, входит ли категория в фиксированный набор.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Sweet представляет товар магазина.
type Sweet struct {
	UID             string     `json:"uid"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Price           float64    `json:"price"`
	Quantity        int        `json:"quantity"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url"`
	IsFeatured      bool       `json:"is_featured"`
	Rating          float64    `json:"rating"`
	IsAvailable     bool       `json:"is_available"`
	CreatedBy       *string    `json:"created_by,omitempty"`
	LastRestockedAt *time.Time `json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SweetUpdate — частичное обновление товара. Nil-поля не изменяются.
type SweetUpdate struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int
	Description *string
	ImageURL    *string
	IsFeatured  *bool
	Rating      *float64
	IsAvailable *bool
}

// SweetFilter — параметры поиска товаров. Все поля опциональны
// и комбинируются через логическое И.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}
