package models

// APIResponse is the standard JSON envelope for all API responses.
type APIResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total int `json:"total,omitempty"`
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// DollPart is a collectible head or body. The five price fields are pointers
// so an absent value stays NULL in the database and the cost fallback chain
// (total_price -> actual_price -> original_price) can tell 0 from unset.
type DollPart struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Maker           string   `json:"maker"`
	Mold            string   `json:"mold"`
	SkinTone        string   `json:"skin_tone"`
	SizeCategory    string   `json:"size_category"`
	OriginalPrice   *float64 `json:"original_price"`
	ActualPrice     *float64 `json:"actual_price"`
	TotalPrice      *float64 `json:"total_price"`
	Deposit         *float64 `json:"deposit"`
	FinalPayment    *float64 `json:"final_payment"`
	OwnershipStatus string   `json:"ownership_status"`
	PaymentStatus   string   `json:"payment_status"`
	ReleaseDate     string   `json:"release_date"`
	ReceivedDate    string   `json:"received_date"`
	ImagePath       string   `json:"image_path"`
	ImagePosition   string   `json:"image_position"`
	SortOrder       int      `json:"sort_order"`
	Notes           string   `json:"notes"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type MakeupArtist struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Specialty  string `json:"specialty"`
	PriceRange string `json:"price_range"`
	IsFavorite bool   `json:"is_favorite"`
	SortOrder  int    `json:"sort_order"`
	Notes      string `json:"notes"`
	CreatedAt  string `json:"created_at"`
}

// MakeupRecord covers the three head-makeup variants (history, current,
// appointment). ArtistID is nullable; a record may name an artist that was
// never registered.
type MakeupRecord struct {
	ID         int      `json:"id"`
	HeadID     int      `json:"head_id"`
	ArtistID   *int     `json:"artist_id"`
	ArtistName string   `json:"artist_name"`
	Fee        *float64 `json:"fee"`
	MakeupDate string   `json:"makeup_date"`
	Notes      string   `json:"notes"`
	ImagePath  string   `json:"image_path"`
	CreatedAt  string   `json:"created_at"`
}

type BodyMakeup struct {
	ID         int      `json:"id"`
	BodyID     int      `json:"body_id"`
	ArtistID   *int     `json:"artist_id"`
	ArtistName string   `json:"artist_name"`
	Fee        *float64 `json:"fee"`
	MakeupDate string   `json:"makeup_date"`
	Notes      string   `json:"notes"`
	CreatedAt  string   `json:"created_at"`
}

type WardrobeItem struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	OwnershipStatus string   `json:"ownership_status"`
	TotalPrice      *float64 `json:"total_price"`
	Deposit         *float64 `json:"deposit"`
	FinalPayment    *float64 `json:"final_payment"`
	Sizes           []string `json:"sizes"`
	ImagePath       string   `json:"image_path"`
	SortOrder       int      `json:"sort_order"`
	Notes           string   `json:"notes"`
	CreatedAt       string   `json:"created_at"`
}

type Photo struct {
	ID         int    `json:"id"`
	EntityType string `json:"entity_type"`
	EntityID   int    `json:"entity_id"`
	PhotoType  string `json:"photo_type"`
	ImagePath  string `json:"image_path"`
	IsCover    bool   `json:"is_cover"`
	Caption    string `json:"caption"`
	SortOrder  int    `json:"sort_order"`
	CreatedAt  string `json:"created_at"`
}

// StatsBucket is one aggregate slice of the doll statistics report.
type StatsBucket struct {
	Count               int     `json:"count"`
	Owned               int     `json:"owned"`
	Preorder            int     `json:"preorder"`
	Wishlist            int     `json:"wishlist"`
	TotalAmount         float64 `json:"total_amount"`
	TotalAmountOwned    float64 `json:"total_amount_owned"`
	TotalAmountPreorder float64 `json:"total_amount_preorder"`
	TotalPaid           float64 `json:"total_paid"`
	TotalRemaining      float64 `json:"total_remaining"`
}

// MakeupTotals is the per-variant makeup fee summary.
type MakeupTotals struct {
	History     float64 `json:"history"`
	Current     float64 `json:"current"`
	Appointment float64 `json:"appointment"`
	Body        float64 `json:"body"`
	Total       float64 `json:"total"`
}

// DollStats is the full response of GET /api/dolls/stats.
type DollStats struct {
	Total  StatsBucket            `json:"total"`
	ByType map[string]StatsBucket `json:"byType"`
	BySize map[string]StatsBucket `json:"bySize"`
	Makeup MakeupTotals           `json:"makeup"`
}

// BreakdownItem is one presentation row of the expense breakdown.
type BreakdownItem struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Icon     string  `json:"icon"`
	Color    string  `json:"color"`
}

// DollExpenses splits doll spend by part type.
type DollExpenses struct {
	Heads  float64 `json:"heads"`
	Bodies float64 `json:"bodies"`
	Total  float64 `json:"total"`
}

// WardrobeExpenses currently carries only a total; wardrobe items have no
// acquisition month so they never contribute to the trend.
type WardrobeExpenses struct {
	Total float64 `json:"total"`
}

// TotalExpenses is the full response of GET /api/stats/total-expenses.
type TotalExpenses struct {
	Dolls        DollExpenses     `json:"dolls"`
	Makeup       MakeupTotals     `json:"makeup"`
	Wardrobe     WardrobeExpenses `json:"wardrobe"`
	GrandTotal   float64          `json:"grandTotal"`
	Breakdown    []BreakdownItem  `json:"breakdown"`
	MonthlyTrend []TrendPoint     `json:"monthlyTrend"`
}

// TrendPoint is one month of the 12-month spending trend.
type TrendPoint struct {
	Month    string  `json:"month"`
	Display  string  `json:"display"`
	Dolls    float64 `json:"dolls"`
	Makeup   float64 `json:"makeup"`
	Wardrobe float64 `json:"wardrobe"`
	Total    float64 `json:"total"`
}
