package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbdurRehmanbaig1/paktravel/internal/config"
	"github.com/AbdurRehmanbaig1/paktravel/internal/db"
	"github.com/AbdurRehmanbaig1/paktravel/internal/models"
)

// IClientService defines the interface for client record operations.
// This allows for easier mocking in tests.
type IClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*models.Client, error)
	FindByPhone(ctx context.Context, phone string) (*models.Client, []models.Tour, error)
	List(ctx context.Context) ([]models.Client, error)
	Delete(ctx context.Context, phone string) error
}

const (
	clientsCollection = "clients"
	toursCollection   = "tours"
)

// CreateClientInput carries the fields accepted when registering a client.
type CreateClientInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	City    string
	Country string
}

// clientService implements IClientService.
type clientService struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.Config
}

// NewClientService creates a new ClientService.
func NewClientService(client *mongo.Client, database *mongo.Database, cfg *config.Config) IClientService {
	return &clientService{client: client, db: database, cfg: cfg}
}

// Create registers a new client keyed by phone number. The phone number is the
// document _id, so a duplicate insert fails at the store rather than racing a
// prior existence check.
func (s *clientService) Create(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	if in.Name == "" || in.Phone == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: Name, phone number, and email are required", ErrValidation)
	}

	newClient := &models.Client{
		Phone:     in.Phone,
		Name:      in.Name,
		Email:     in.Email,
		Address:   in.Address,
		City:      in.City,
		Country:   in.Country,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	_, err := s.db.Collection(clientsCollection).InsertOne(ctx, newClient)
	if err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: A client with this phone number already exists", ErrConflict)
		}
		return nil, fmt.Errorf("error inserting client %s: %w", in.Phone, err)
	}
	return newClient, nil
}

// FindByPhone returns the client and all of their tours.
// Returns ErrNotFound when no client has that phone number.
func (s *clientService) FindByPhone(ctx context.Context, phone string) (*models.Client, []models.Tour, error) {
	var client models.Client
	err := s.db.Collection(clientsCollection).FindOne(ctx, bson.M{"_id": phone}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, fmt.Errorf("%w: Client not found", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("error finding client %s: %w", phone, err)
	}

	cursor, err := s.db.Collection(toursCollection).Find(ctx, bson.M{"client_phone": phone})
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching tours for client %s: %w", phone, err)
	}
	tours := []models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, nil, fmt.Errorf("error decoding tours for client %s: %w", phone, err)
	}

	return &client, tours, nil
}

// List returns all clients. No ordering is guaranteed.
func (s *clientService) List(ctx context.Context) ([]models.Client, error) {
	cursor, err := s.db.Collection(clientsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching clients: %w", err)
	}
	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("error decoding clients: %w", err)
	}
	return clients, nil
}

// Delete removes a client document. By default the client's tours and ledger
// documents are left in place (the historical behaviour); when CASCADE_DELETE
// is set they are removed in the same commit.
func (s *clientService) Delete(ctx context.Context, phone string) error {
	count, err := s.db.Collection(clientsCollection).CountDocuments(ctx, bson.M{"_id": phone})
	if err != nil {
		return fmt.Errorf("error checking client %s: %w", phone, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: Client not found", ErrNotFound)
	}

	if !s.cfg.CascadeDelete {
		if _, err := s.db.Collection(clientsCollection).DeleteOne(ctx, bson.M{"_id": phone}); err != nil {
			return fmt.Errorf("error deleting client %s: %w", phone, err)
		}
		return nil
	}

	err = db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		if _, err := s.db.Collection(clientsCollection).DeleteOne(ctx, bson.M{"_id": phone}); err != nil {
			return err
		}
		if _, err := s.db.Collection(toursCollection).DeleteMany(ctx, bson.M{"client_phone": phone}); err != nil {
			return err
		}
		if _, err := s.db.Collection(ledgerEntriesCollection).DeleteMany(ctx, bson.M{"client_phone": phone}); err != nil {
			return err
		}
		if _, err := s.db.Collection(ledgerSummariesCollection).DeleteOne(ctx, bson.M{"_id": phone}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error cascade-deleting client %s: %w", phone, err)
	}
	return nil
}
