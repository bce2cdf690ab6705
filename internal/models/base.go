package models

import (
	"github.com/AbdurRehmanbaig1/paktravel/internal/utils"
)

// Base is embedded by every store-keyed document (tours, ledger entries,
// client ledgers). Clients are keyed by phone number instead and do not use it.
type Base struct {
	ID utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
}

// GenID assigns a fresh random ID, replacing any previous one. Insert paths
// call it once per attempt so a duplicate-key retry never reuses the ID that
// collided.
func (m *Base) GenID() {
	m.ID = utils.NewSixID()
}

func NewBase() Base {
	return Base{
		ID: utils.NewSixID(),
	}
}
