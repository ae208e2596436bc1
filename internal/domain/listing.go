package domain

import "time"

// TimeWindow is one allowed pickup/return sub-range of the day, HH:MM local.
type TimeWindow struct {
	Label string `json:"label"` // "morning", "afternoon", "evening"
	Start string `json:"start"`
	End   string `json:"end"`
}

// Listing is the advertised item. The rental core reads listings but never
// writes them; creation and editing belong to the surrounding application.
type Listing struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`

	PricePerDayCents     int64   `json:"price_per_day_cents"`
	DiscountWeekPercent  float64 `json:"discount_week_percent"`  // 0-100, spans of 7-29 days
	DiscountMonthPercent float64 `json:"discount_month_percent"` // 0-100, spans of 30+ days
	DepositAmountCents   int64   `json:"deposit_amount_cents"`

	// Availability window configuration. FlexibleHours means any time of
	// day; otherwise PickupWindows and AllowedWeekdays constrain handoffs.
	FlexibleHours   bool           `json:"flexible_hours"`
	PickupWindows   []TimeWindow   `json:"pickup_windows,omitempty"`
	AllowedWeekdays []time.Weekday `json:"allowed_weekdays,omitempty"`

	DeliveryAvailable bool    `json:"delivery_available"`
	DeliveryFree      bool    `json:"delivery_free"`
	DeliveryFeeCents  int64   `json:"delivery_fee_cents"`
	DeliveryMaxKm     float64 `json:"delivery_max_km"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`

	CreatedOn time.Time `json:"created_on"`
}
