package model

// Item is a catalogue item as served by the backend. The backend identifies
// resources by a string "_id" field.
type Item struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Status   string  `json:"status,omitempty"`
}

// ItemPayload is the write-side representation of an item, sent on create
// and update.
type ItemPayload struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}
