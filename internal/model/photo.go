package model

import (
    "strings"
    "time"
)

// RoomType is the room label assigned to a photo by the image classifier.
type RoomType string

const (
    RoomLivingRoom RoomType = "Livingroom"
    RoomDining     RoomType = "Dining"
    RoomBedroom    RoomType = "Bedroom"
    RoomBathroom   RoomType = "Bathroom"
    RoomKitchen    RoomType = "Kitchen"
)

// RoomTypes lists every accepted label.
var RoomTypes = []RoomType{RoomLivingRoom, RoomDining, RoomBedroom, RoomBathroom, RoomKitchen}

// ParseRoomType maps a free-form label onto a RoomType.  Matching is
// case-insensitive and ignores spaces, underscores and dashes, so
// "living_room" and "Living Room" both resolve to Livingroom.
func ParseRoomType(s string) (RoomType, bool) {
    key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(s)))
    switch key {
    case "livingroom", "living":
        return RoomLivingRoom, true
    case "dining", "diningroom":
        return RoomDining, true
    case "bedroom":
        return RoomBedroom, true
    case "bathroom", "bath":
        return RoomBathroom, true
    case "kitchen":
        return RoomKitchen, true
    }
    return "", false
}

// Photo is an image URL attached to a listing.  RoomType stays nil until
// inference runs once; after that it is never overwritten by inference.
type Photo struct {
    ID        uint64    `gorm:"primaryKey;autoIncrement" json:"photo_id"`
    ListingID uint64    `gorm:"not null;index" json:"listing_id"`
    URL       string    `gorm:"size:2048;not null" json:"url"`
    RoomType  *RoomType `gorm:"size:32" json:"room_type"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

func (Photo) TableName() string { return "photos" }

// PhotoPatch is a partial photo update.
type PhotoPatch struct {
    ListingID Field[uint64] `json:"listing_id"`
    URL       Field[string] `json:"url"`
    RoomType  Field[string] `json:"room_type"`
}

func (p PhotoPatch) Empty() bool {
    return !p.ListingID.Set && !p.URL.Set && !p.RoomType.Set
}
