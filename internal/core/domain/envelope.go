package domain

// Envelope is the response wrapper used by every endpoint of the admin API.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
}

// Ville is a city record.
type Ville struct {
	ID        string `json:"id"      bson:"_id,omitempty"`
	Nom       string `json:"nom"     bson:"nom"`
	Code      string `json:"code,omitempty"    bson:"code,omitempty"`
	PaysID    string `json:"pays_id,omitempty" bson:"pays_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// CityPage is the data block of GET /villes.
type CityPage struct {
	Data       []Ville    `json:"data"`
	Pagination Pagination `json:"pagination"`
}
