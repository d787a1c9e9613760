package model

import "time"

// Renovation holds per-area renovation flags for a listing.  Rows live
// in the `renovations` table and are removed with their listing.
type Renovation struct {
    ID         uint64    `gorm:"primaryKey;autoIncrement" json:"renovation_id"`
    ListingID  uint64    `gorm:"not null;index" json:"listing_id"`
    Bedroom    bool      `gorm:"not null;default:false" json:"bedroom"`
    Kitchen    bool      `gorm:"not null;default:false" json:"kitchen"`
    LivingRoom bool      `gorm:"not null;default:false" json:"living_room"`
    Bathroom   bool      `gorm:"not null;default:false" json:"bathroom"`
    Basement   bool      `gorm:"not null;default:false" json:"basement"`
    CreatedAt  time.Time `json:"created_at"`
    UpdatedAt  time.Time `json:"updated_at"`
}

func (Renovation) TableName() string { return "renovations" }

// RenovationPatch is a partial renovation update.  Flags are not
// nullable so an explicit null is rejected by Validate.
type RenovationPatch struct {
    ListingID  Field[uint64] `json:"listing_id"`
    Bedroom    Field[bool]   `json:"bedroom"`
    Kitchen    Field[bool]   `json:"kitchen"`
    LivingRoom Field[bool]   `json:"living_room"`
    Bathroom   Field[bool]   `json:"bathroom"`
    Basement   Field[bool]   `json:"basement"`
}

func (p RenovationPatch) Empty() bool {
    return !p.ListingID.Set && !p.Bedroom.Set && !p.Kitchen.Set &&
        !p.LivingRoom.Set && !p.Bathroom.Set && !p.Basement.Set
}

// Validate rejects explicit nulls on non-nullable columns and returns
// the offending JSON field name.
func (p RenovationPatch) Validate() (string, bool) {
    switch {
    case p.ListingID.IsNull():
        return "listing_id", false
    case p.Bedroom.IsNull():
        return "bedroom", false
    case p.Kitchen.IsNull():
        return "kitchen", false
    case p.LivingRoom.IsNull():
        return "living_room", false
    case p.Bathroom.IsNull():
        return "bathroom", false
    case p.Basement.IsNull():
        return "basement", false
    }
    return "", true
}
