package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Residency struct {
	gorm.Model
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Address     string         `json:"address" gorm:"uniqueIndex"`
	Country     string         `json:"country"`
	City        string         `json:"city"`
	Facilities  datatypes.JSON `json:"facilities"`
	Image       string         `json:"image"`
	OwnerID     uint           `json:"ownerID"`
	Owner       User           `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to expose facilities as an object and drop an
// unloaded owner from the payload
func (r *Residency) MarshalJSON() ([]byte, error) {
	type Alias Residency
	aux := &struct {
		Facilities map[string]interface{} `json:"facilities"`
		Owner      *User                  `json:"owner,omitempty"`
		*Alias
	}{
		Facilities: map[string]interface{}{},
		Owner:      nil,
		Alias:      (*Alias)(r),
	}

	if r.Facilities != nil {
		var facilities map[string]interface{}
		if err := json.Unmarshal(r.Facilities, &facilities); err == nil {
			aux.Facilities = facilities
		}
	}

	if r.Owner.ID > 0 {
		ownerCopy := r.Owner
		ownerCopy.OwnedResidencies = nil // prevent circular reference
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}
