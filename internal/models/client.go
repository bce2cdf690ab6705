package models

// Client is a travel agency customer. The phone number is the primary
// identifier: it is the document _id, so the store itself rejects a second
// client with the same number.
//
// CreatedAt is kept as an ISO-8601 string rather than a native date; every
// historical document was written that way and the API echoes it verbatim.
type Client struct {
	Phone     string `bson:"_id" json:"phoneNumber"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	Country   string `bson:"country" json:"country"`
	CreatedAt string `bson:"createdAt" json:"createdAt"`
}
