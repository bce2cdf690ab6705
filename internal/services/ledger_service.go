package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AbdurRehmanbaig1/paktravel/internal/config"
	"github.com/AbdurRehmanbaig1/paktravel/internal/db"
	"github.com/AbdurRehmanbaig1/paktravel/internal/models"
)

// ILedgerService maintains a per-client ledger: a log of debit/credit entries
// and a summary document that is only ever written in the same atomic commit
// as the entry that changes it.
type ILedgerService interface {
	AddTransaction(ctx context.Context, phone string, in AddTransactionInput) (*models.LedgerEntry, error)
	Summary(ctx context.Context, phone string) (*models.LedgerSummary, error)
	Transactions(ctx context.Context, phone string) ([]models.LedgerEntry, error)
	Recompute(ctx context.Context, phone string) (*models.LedgerSummary, bool, error)
}

const (
	ledgerEntriesCollection   = "ledger_entries"
	ledgerSummariesCollection = "ledger_summaries"
)

// AddTransactionInput carries the fields accepted for a new ledger entry.
// Date is optional; the entry defaults to now.
type AddTransactionInput struct {
	Type        string
	Amount      float64
	Description string
	Date        *time.Time
}

// ledgerService implements ILedgerService.
// The Redis client is optional; when nil the summary cache is simply off.
type ledgerService struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.Config
	rdb    *redis.Client
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(client *mongo.Client, database *mongo.Database, cfg *config.Config, rdb *redis.Client) ILedgerService {
	return &ledgerService{client: client, db: database, cfg: cfg, rdb: rdb}
}

func summaryCacheKey(phone string) string {
	return "ledger:summary:" + phone
}

func (s *ledgerService) clientExists(ctx context.Context, phone string) error {
	count, err := s.db.Collection(clientsCollection).CountDocuments(ctx, bson.M{"_id": phone})
	if err != nil {
		return fmt.Errorf("error checking client %s: %w", phone, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: Client not found", ErrNotFound)
	}
	return nil
}

// readSummary fetches the stored summary, or a zeroed one when the client has
// no recorded transactions yet.
func (s *ledgerService) readSummary(ctx context.Context, phone string) (*models.LedgerSummary, error) {
	var summary models.LedgerSummary
	err := s.db.Collection(ledgerSummariesCollection).FindOne(ctx, bson.M{"_id": phone}).Decode(&summary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.LedgerSummary{Phone: phone}, nil
		}
		return nil, fmt.Errorf("error reading ledger summary for %s: %w", phone, err)
	}
	return &summary, nil
}

// AddTransaction validates and records a debit or credit, updating the summary
// in the same commit so the two can never diverge on a partial failure.
func (s *ledgerService) AddTransaction(ctx context.Context, phone string, in AddTransactionInput) (*models.LedgerEntry, error) {
	if in.Type == "" || in.Description == "" || in.Amount == 0 {
		return nil, fmt.Errorf("%w: Type, amount, and description are required", ErrValidation)
	}
	if in.Type != models.TxnDebit && in.Type != models.TxnCredit {
		return nil, fmt.Errorf("%w: Type must be either debit or credit", ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: Amount must be a positive number", ErrValidation)
	}

	if err := s.clientExists(ctx, phone); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}

	entry := &models.LedgerEntry{
		ClientPhone: phone,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
		CreatedAt:   now,
	}

	operation := func() error {
		entry.GenID() // ID regenerated on each attempt
		return db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
			summary, err := s.readSummary(ctx, phone)
			if err != nil {
				return err
			}

			if in.Type == models.TxnDebit {
				summary.TotalDebit += in.Amount
			} else {
				summary.TotalCredit += in.Amount
			}
			summary.Balance = summary.TotalDebit - summary.TotalCredit
			summary.UpdatedAt = now

			if _, err := s.db.Collection(ledgerEntriesCollection).InsertOne(ctx, entry); err != nil {
				return err
			}
			_, err = s.db.Collection(ledgerSummariesCollection).ReplaceOne(ctx,
				bson.M{"_id": phone}, summary, options.Replace().SetUpsert(true))
			return err
		})
	}

	err := db.Try(operation)
	if err != nil {
		return nil, fmt.Errorf("error adding transaction for %s after multiple retries (last attempted ID: %s): %w", phone, entry.ID, err)
	}

	s.invalidateSummaryCache(ctx, phone)
	return entry, nil
}

// Summary returns the cached aggregate for a client's ledger, zeroed when no
// transaction has been recorded yet. Reads go through Redis when available.
func (s *ledgerService) Summary(ctx context.Context, phone string) (*models.LedgerSummary, error) {
	if err := s.clientExists(ctx, phone); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, summaryCacheKey(phone)).Bytes(); err == nil {
			var cached models.LedgerSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.readSummary(ctx, phone)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.rdb.Set(ctx, summaryCacheKey(phone), data, s.cfg.SummaryCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache ledger summary for %s: %v", phone, err)
			}
		}
	}
	return summary, nil
}

// Transactions lists all ledger entries for a client, ordered by the synthetic
// document key and then by date descending.
func (s *ledgerService) Transactions(ctx context.Context, phone string) ([]models.LedgerEntry, error) {
	if err := s.clientExists(ctx, phone); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}, {Key: "date", Value: -1}})
	cursor, err := s.db.Collection(ledgerEntriesCollection).Find(ctx, bson.M{"client_phone": phone}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching ledger entries for %s: %w", phone, err)
	}
	entries := []models.LedgerEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding ledger entries for %s: %w", phone, err)
	}
	return entries, nil
}

// Recompute rebuilds the summary from the entry log and rewrites it when the
// stored aggregate has drifted. Returns the correct summary and whether a
// repair was needed. Used by the background audit task.
func (s *ledgerService) Recompute(ctx context.Context, phone string) (*models.LedgerSummary, bool, error) {
	cursor, err := s.db.Collection(ledgerEntriesCollection).Find(ctx, bson.M{"client_phone": phone})
	if err != nil {
		return nil, false, fmt.Errorf("error fetching ledger entries for %s: %w", phone, err)
	}
	entries := []models.LedgerEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, false, fmt.Errorf("error decoding ledger entries for %s: %w", phone, err)
	}

	computed := &models.LedgerSummary{Phone: phone}
	for _, e := range entries {
		switch e.Type {
		case models.TxnDebit:
			computed.TotalDebit += e.Amount
		case models.TxnCredit:
			computed.TotalCredit += e.Amount
		}
	}
	computed.Balance = computed.TotalDebit - computed.TotalCredit

	stored, err := s.readSummary(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	if stored.TotalDebit == computed.TotalDebit &&
		stored.TotalCredit == computed.TotalCredit &&
		stored.Balance == computed.Balance {
		return stored, false, nil
	}

	computed.UpdatedAt = time.Now().UTC()
	_, err = s.db.Collection(ledgerSummariesCollection).ReplaceOne(ctx,
		bson.M{"_id": phone}, computed, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("error repairing ledger summary for %s: %w", phone, err)
	}
	s.invalidateSummaryCache(ctx, phone)
	return computed, true, nil
}

func (s *ledgerService) invalidateSummaryCache(ctx context.Context, phone string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, summaryCacheKey(phone)).Err(); err != nil {
		log.Printf("Failed to invalidate ledger summary cache for %s: %v", phone, err)
	}
}
