package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbdurRehmanbaig1/paktravel/internal/config"
	"github.com/AbdurRehmanbaig1/paktravel/internal/db"
	"github.com/AbdurRehmanbaig1/paktravel/internal/models"
	"github.com/AbdurRehmanbaig1/paktravel/internal/utils"
)

// ITourService defines the interface for tour operations, including the
// creation workflow that may also create the client and their ledger.
type ITourService interface {
	Create(ctx context.Context, in CreateTourInput) (*TourCreated, error)
	All(ctx context.Context) ([]models.TourWithClient, error)
	FindByID(ctx context.Context, clientPhone string, tourID utils.SixID) (*models.TourWithClient, error)
	Delete(ctx context.Context, clientPhone string, tourID utils.SixID) error
}

const (
	clientLedgersCollection    = "client_ledgers"
	clientLedgerTxnsCollection = "client_ledger_transactions"
)

// CreateTourInput carries the fields accepted when booking a tour. Optional
// numerics are pointers so "absent" and "zero" stay distinguishable: profit and
// the opening ledger balance only consider values that were actually supplied.
type CreateTourInput struct {
	ClientPhone string
	ClientName  string
	ClientEmail string
	Type        string
	Price       *float64
	Cost        *float64
	PeopleCount *int
	Days        *int
	Date        string
	Currency    string
	Address     string
	City        string
	Country     string
	Destination string
	Description string
}

// TourCreated reports what the creation workflow produced. LedgerID is nil
// when the client already had a ledger and none was created.
type TourCreated struct {
	TourID   utils.SixID  `json:"tourId"`
	LedgerID *utils.SixID `json:"ledgerId"`
}

// tourService implements ITourService.
type tourService struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.Config
}

// NewTourService creates a new TourService.
func NewTourService(client *mongo.Client, database *mongo.Database, cfg *config.Config) ITourService {
	return &tourService{client: client, db: database, cfg: cfg}
}

// effectiveCurrency resolves the tour currency: an explicit value wins,
// otherwise local-market tour types get the local currency and everything else
// the international default.
func (s *tourService) effectiveCurrency(tourType, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if tourType == "local" || tourType == "honeymoon" {
		return s.cfg.LocalTourCurrency
	}
	return s.cfg.IntlTourCurrency
}

// Create books a tour. In one atomic commit it: creates the client if the
// phone number is unknown, inserts the tour, and — when no ClientLedger exists
// for the phone — creates one seeded with the tour price plus an opening debit
// transaction. A client who already has a ledger gets no ledger-side writes at
// all: the new tour's price is deliberately not folded into an existing ledger.
func (s *tourService) Create(ctx context.Context, in CreateTourInput) (*TourCreated, error) {
	if in.ClientPhone == "" || in.Type == "" || in.ClientName == "" || in.ClientEmail == "" {
		return nil, fmt.Errorf("%w: Client phone, name, email, and tour type are required", ErrValidation)
	}

	price := 0.0
	if in.Price != nil {
		price = *in.Price
	}
	cost := 0.0
	if in.Cost != nil {
		cost = *in.Cost
	}
	peopleCount := 0
	if in.PeopleCount != nil {
		peopleCount = *in.PeopleCount
	}
	days := 1
	if in.Days != nil {
		days = *in.Days
	}

	profit := 0.0
	if in.Price != nil && in.Cost != nil {
		profit = price - cost
	}

	now := time.Now().UTC()
	tour := &models.Tour{
		ClientPhone: in.ClientPhone,
		Type:        in.Type,
		Price:       price,
		Cost:        cost,
		PeopleCount: peopleCount,
		Days:        days,
		Date:        in.Date,
		Currency:    s.effectiveCurrency(in.Type, in.Currency),
		Profit:      profit,
		Address:     in.Address,
		City:        in.City,
		Country:     in.Country,
		Destination: in.Destination,
		Description: in.Description,
		CreatedAt:   now.Format(time.RFC3339),
	}

	var ledgerID *utils.SixID

	operation := func() error {
		tour.GenID() // ID regenerated on each attempt
		return db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
			ledgerID = nil

			count, err := s.db.Collection(clientsCollection).CountDocuments(ctx, bson.M{"_id": in.ClientPhone})
			if err != nil {
				return err
			}
			if count == 0 {
				newClient := &models.Client{
					Phone:     in.ClientPhone,
					Name:      in.ClientName,
					Email:     in.ClientEmail,
					Address:   in.Address,
					City:      in.City,
					Country:   in.Country,
					CreatedAt: now.Format(time.RFC3339),
				}
				if _, err := s.db.Collection(clientsCollection).InsertOne(ctx, newClient); err != nil {
					return err
				}
				log.Printf("New client created: %s", in.ClientPhone)
			}

			if _, err := s.db.Collection(toursCollection).InsertOne(ctx, tour); err != nil {
				return err
			}

			// The ledger is looked up by the phone field, not by key.
			err = s.db.Collection(clientLedgersCollection).
				FindOne(ctx, bson.M{"phone": in.ClientPhone}).Err()
			if err == nil {
				// Existing ledger: leave it untouched.
				log.Printf("Client ledger already exists for %s; tour price not added as a new opening balance", in.ClientPhone)
				return nil
			}
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return err
			}

			ledger := &models.ClientLedger{
				Base:        models.NewBase(),
				Name:        in.ClientName,
				Phone:       in.ClientPhone,
				Notes:       fmt.Sprintf("Auto-created when adding tour of type: %s", in.Type),
				TotalDebit:  price,
				TotalCredit: 0,
				Balance:     price,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if _, err := s.db.Collection(clientLedgersCollection).InsertOne(ctx, ledger); err != nil {
				return err
			}
			ledgerID = &ledger.ID

			if price > 0 {
				dest := in.Destination
				if dest == "" {
					dest = in.Country
				}
				if dest == "" {
					dest = "destination not specified"
				}
				txn := &models.ClientLedgerTxn{
					Base:          models.NewBase(),
					LedgerID:      ledger.ID,
					Type:          models.TxnDebit,
					Amount:        price,
					Description:   fmt.Sprintf("Opening balance from %s tour to %s", in.Type, dest),
					Date:          now,
					CreatedAt:     now,
					PaymentMethod: "Opening Balance",
					Reference:     fmt.Sprintf("Tour ID: %s", tour.ID.String()),
				}
				if _, err := s.db.Collection(clientLedgerTxnsCollection).InsertOne(ctx, txn); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("error creating tour for %s after multiple retries (last attempted ID: %s): %w", in.ClientPhone, tour.ID, err)
	}

	return &TourCreated{TourID: tour.ID, LedgerID: ledgerID}, nil
}

// All flattens every client's tours into one list annotated with the owning
// client's phone and name.
func (s *tourService) All(ctx context.Context) ([]models.TourWithClient, error) {
	cursor, err := s.db.Collection(clientsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching clients: %w", err)
	}
	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("error decoding clients: %w", err)
	}

	allTours := []models.TourWithClient{}
	for _, client := range clients {
		tourCursor, err := s.db.Collection(toursCollection).Find(ctx, bson.M{"client_phone": client.Phone})
		if err != nil {
			return nil, fmt.Errorf("error fetching tours for client %s: %w", client.Phone, err)
		}
		tours := []models.Tour{}
		if err := tourCursor.All(ctx, &tours); err != nil {
			return nil, fmt.Errorf("error decoding tours for client %s: %w", client.Phone, err)
		}
		for _, tour := range tours {
			allTours = append(allTours, models.TourWithClient{Tour: tour, ClientName: client.Name})
		}
	}
	return allTours, nil
}

// FindByID returns one tour, annotated with the owning client's name.
// Returns ErrNotFound when the client or the tour is absent.
func (s *tourService) FindByID(ctx context.Context, clientPhone string, tourID utils.SixID) (*models.TourWithClient, error) {
	var client models.Client
	err := s.db.Collection(clientsCollection).FindOne(ctx, bson.M{"_id": clientPhone}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: Client not found", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding client %s: %w", clientPhone, err)
	}

	var tour models.Tour
	err = s.db.Collection(toursCollection).
		FindOne(ctx, bson.M{"_id": tourID, "client_phone": clientPhone}).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: Tour not found", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding tour %s: %w", tourID.String(), err)
	}

	return &models.TourWithClient{Tour: tour, ClientName: client.Name}, nil
}

// Delete hard-deletes one tour document. The client record and any ledger
// documents are untouched.
func (s *tourService) Delete(ctx context.Context, clientPhone string, tourID utils.SixID) error {
	count, err := s.db.Collection(clientsCollection).CountDocuments(ctx, bson.M{"_id": clientPhone})
	if err != nil {
		return fmt.Errorf("error checking client %s: %w", clientPhone, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: Client not found", ErrNotFound)
	}

	res, err := s.db.Collection(toursCollection).
		DeleteOne(ctx, bson.M{"_id": tourID, "client_phone": clientPhone})
	if err != nil {
		return fmt.Errorf("error deleting tour %s: %w", tourID.String(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: Tour not found", ErrNotFound)
	}
	return nil
}
