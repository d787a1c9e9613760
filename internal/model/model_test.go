package model

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestListingPatchTracksPresence(t *testing.T) {
    var p ListingPatch
    require.NoError(t, json.Unmarshal([]byte(`{"description":"new roof","price":null}`), &p))

    assert.True(t, p.Description.Set)
    assert.True(t, p.Description.Valid)
    assert.Equal(t, "new roof", p.Description.Value)

    assert.True(t, p.Price.IsNull())
    assert.Nil(t, p.Price.Ptr())

    assert.False(t, p.Address.Set)
    assert.False(t, p.YearBuilt.Set)
    assert.False(t, p.Empty())
}

func TestEmptyPatch(t *testing.T) {
    var p ListingPatch
    require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
    assert.True(t, p.Empty())

    var r RenovationPatch
    require.NoError(t, json.Unmarshal([]byte(`{"unknown":true}`), &r))
    assert.True(t, r.Empty())
}

func TestRenovationPatchRejectsNullFlags(t *testing.T) {
    var p RenovationPatch
    require.NoError(t, json.Unmarshal([]byte(`{"kitchen":null}`), &p))
    field, ok := p.Validate()
    assert.False(t, ok)
    assert.Equal(t, "kitchen", field)

    p = RenovationPatch{Kitchen: Of(true)}
    _, ok = p.Validate()
    assert.True(t, ok)
}

func TestParseRoomType(t *testing.T) {
    tests := []struct {
        in   string
        want RoomType
        ok   bool
    }{
        {"Kitchen", RoomKitchen, true},
        {"kitchen", RoomKitchen, true},
        {"living_room", RoomLivingRoom, true},
        {"Living Room", RoomLivingRoom, true},
        {"Livingroom", RoomLivingRoom, true},
        {"dining-room", RoomDining, true},
        {" BATHROOM ", RoomBathroom, true},
        {"garage", "", false},
        {"", "", false},
    }
    for _, tt := range tests {
        got, ok := ParseRoomType(tt.in)
        assert.Equal(t, tt.ok, ok, tt.in)
        assert.Equal(t, tt.want, got, tt.in)
    }
}
