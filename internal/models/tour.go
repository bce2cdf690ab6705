package models

// Tour is owned by exactly one client, referenced by phone number.
// Profit is derived at creation time: price − cost when both are supplied,
// otherwise 0. It is never recomputed afterwards.
type Tour struct {
	Base        `bson:",inline"`
	ClientPhone string  `bson:"client_phone" json:"clientPhone"`
	Type        string  `bson:"type" json:"type"`
	Price       float64 `bson:"price" json:"price"`
	Cost        float64 `bson:"cost" json:"cost"`
	PeopleCount int     `bson:"peopleCount" json:"peopleCount"`
	Days        int     `bson:"days" json:"days"`
	Date        string  `bson:"date" json:"date"`
	Currency    string  `bson:"currency" json:"currency"`
	Profit      float64 `bson:"profit" json:"profit"`
	Address     string  `bson:"address" json:"address"`
	City        string  `bson:"city" json:"city"`
	Country     string  `bson:"country" json:"country"`
	Destination string  `bson:"destination" json:"destination"`
	Description string  `bson:"description" json:"description"`
	CreatedAt   string  `bson:"createdAt" json:"createdAt"`
}

// TourWithClient is a tour annotated with its owner, as returned by the
// flattened all-tours listing.
type TourWithClient struct {
	Tour       `bson:",inline"`
	ClientName string `json:"clientName"`
}
