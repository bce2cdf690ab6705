package models

import (
	"time"

	"github.com/AbdurRehmanbaig1/paktravel/internal/utils"
)

// Transaction types. Nothing else is accepted.
const (
	TxnDebit  = "debit"
	TxnCredit = "credit"
)

// LedgerEntry is a single debit or credit in a client's ledger.
// Unlike client and tour timestamps, ledger dates are native store dates.
type LedgerEntry struct {
	Base        `bson:",inline"`
	ClientPhone string    `bson:"client_phone" json:"-"`
	Type        string    `bson:"type" json:"type"`
	Amount      float64   `bson:"amount" json:"amount"`
	Description string    `bson:"description" json:"description"`
	Date        time.Time `bson:"date" json:"date"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// LedgerSummary is the cached aggregate for one client's ledger, keyed by
// phone number. It is only ever written in the same atomic commit as the
// entry that changes it, so balance == totalDebit − totalCredit holds at all
// times.
type LedgerSummary struct {
	Phone       string    `bson:"_id" json:"-"`
	TotalDebit  float64   `bson:"totalDebit" json:"totalDebit"`
	TotalCredit float64   `bson:"totalCredit" json:"totalCredit"`
	Balance     float64   `bson:"balance" json:"balance"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ClientLedger is the standalone ledger record auto-created by the tour
// creation workflow. It is linked to a client by the phone field, not by key,
// and lives apart from the per-client ledger above. The two representations
// are not synchronized.
type ClientLedger struct {
	Base        `bson:",inline"`
	Name        string    `bson:"name" json:"name"`
	Phone       string    `bson:"phone" json:"phone"`
	Notes       string    `bson:"notes" json:"notes"`
	TotalDebit  float64   `bson:"totalDebit" json:"totalDebit"`
	TotalCredit float64   `bson:"totalCredit" json:"totalCredit"`
	Balance     float64   `bson:"balance" json:"balance"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ClientLedgerTxn is a transaction under a ClientLedger, such as the opening
// balance staged when a client's first tour establishes their ledger.
type ClientLedgerTxn struct {
	Base          `bson:",inline"`
	LedgerID      utils.SixID `bson:"ledger_id" json:"ledgerId"`
	Type          string      `bson:"type" json:"type"`
	Amount        float64     `bson:"amount" json:"amount"`
	Description   string      `bson:"description" json:"description"`
	Date          time.Time   `bson:"date" json:"date"`
	CreatedAt     time.Time   `bson:"createdAt" json:"createdAt"`
	PaymentMethod string      `bson:"paymentMethod" json:"paymentMethod"`
	Reference     string      `bson:"reference" json:"reference"`
}
