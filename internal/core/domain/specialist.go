package domain

// Specialist - профиль специалиста из CMS. Идентификаторы назначаются хранилищем.
type Specialist struct {
	ID              int      `json:"id"`
	UserID          int      `json:"userId"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Role            string   `json:"role"`
	Specializations []string `json:"specializations"`
	IsAvailable     bool     `json:"isAvailable"`
	Rating          float64  `json:"rating"`
}
