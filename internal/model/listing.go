package model

import "time"

// Listing is a tracked property.  It corresponds to a row in the
// `listings` table.  Address is unique across the table; the numeric
// attributes are nullable because a scraped page may not carry them.
//
// Photos and Renovations are only populated on single-listing reads.
type Listing struct {
    ID          uint64    `gorm:"primaryKey;autoIncrement" json:"listing_id"`
    URL         *string   `gorm:"size:2048" json:"url"`
    Address     string    `gorm:"size:255;not null;uniqueIndex" json:"address"`
    Description string    `gorm:"type:text;not null" json:"description"`
    Price       *float64  `json:"price"`
    Bedrooms    *float64  `json:"bedrooms"`
    Bathrooms   *float64  `json:"bathrooms"`
    YearBuilt   *int      `json:"year_built"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`

    Renovations []Renovation `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"renovations,omitempty"`
    Photos      []Photo      `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

// TableName pins the table name used by migrations.
func (Listing) TableName() string { return "listings" }

// ListingPatch carries a partial listing update.  Only fields whose Set
// flag is true are written.
type ListingPatch struct {
    URL         Field[string]  `json:"url"`
    Address     Field[string]  `json:"address"`
    Description Field[string]  `json:"description"`
    Price       Field[float64] `json:"price"`
    Bedrooms    Field[float64] `json:"bedrooms"`
    Bathrooms   Field[float64] `json:"bathrooms"`
    YearBuilt   Field[int]     `json:"year_built"`
}

// Empty reports whether the patch carries no fields at all.
func (p ListingPatch) Empty() bool {
    return !p.URL.Set && !p.Address.Set && !p.Description.Set && !p.Price.Set &&
        !p.Bedrooms.Set && !p.Bathrooms.Set && !p.YearBuilt.Set
}
