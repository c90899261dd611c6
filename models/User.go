package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name             string         `json:"name"`
	Email            string         `json:"email" gorm:"uniqueIndex"`
	Image            string         `json:"image"`
	BookedVisits     datatypes.JSON `json:"bookedVisits"`
	FavResidenciesID datatypes.JSON `json:"favResidenciesID"`
	OwnedResidencies []Residency    `json:"ownedResidencies" gorm:"foreignKey:OwnerID;references:ID"`
}

// BookedVisit is a single entry in a user's bookedVisits sequence.
type BookedVisit struct {
	ID   uint   `json:"id"`
	Date string `json:"date"`
}

// Custom JSON marshaling to convert the JSON columns to arrays
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		BookedVisits     []BookedVisit `json:"bookedVisits"`
		FavResidenciesID []uint        `json:"favResidenciesID"`
		OwnedResidencies []Residency   `json:"ownedResidencies,omitempty"`
		*Alias
	}{
		BookedVisits:     []BookedVisit{},
		FavResidenciesID: []uint{},
		Alias:            (*Alias)(u),
	}

	if u.BookedVisits != nil {
		var visits []BookedVisit
		if err := json.Unmarshal(u.BookedVisits, &visits); err == nil {
			aux.BookedVisits = visits
		}
	}

	if u.FavResidenciesID != nil {
		var favs []uint
		if err := json.Unmarshal(u.FavResidenciesID, &favs); err == nil {
			aux.FavResidenciesID = favs
		}
	}

	// OwnedResidencies is only serialized when preloaded
	if len(u.OwnedResidencies) > 0 {
		aux.OwnedResidencies = u.OwnedResidencies
	}

	return json.Marshal(aux)
}
