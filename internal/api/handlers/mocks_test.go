package handlers_test

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/AbdurRehmanbaig1/paktravel/internal/models"
	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
	"github.com/AbdurRehmanbaig1/paktravel/internal/utils"
)

// --- Mocks ---

// MockClientService
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) Create(ctx context.Context, in services.CreateClientInput) (*models.Client, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientService) FindByPhone(ctx context.Context, phone string) (*models.Client, []models.Tour, error) {
	args := m.Called(ctx, phone)
	var client *models.Client
	if args.Get(0) != nil {
		client = args.Get(0).(*models.Client)
	}
	var tours []models.Tour
	if args.Get(1) != nil {
		tours = args.Get(1).([]models.Tour)
	}
	return client, tours, args.Error(2)
}

func (m *MockClientService) List(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockClientService) Delete(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AddTransaction(ctx context.Context, phone string, in services.AddTransactionInput) (*models.LedgerEntry, error) {
	args := m.Called(ctx, phone, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) Summary(ctx context.Context, phone string) (*models.LedgerSummary, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerSummary), args.Error(1)
}

func (m *MockLedgerService) Transactions(ctx context.Context, phone string) ([]models.LedgerEntry, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) Recompute(ctx context.Context, phone string) (*models.LedgerSummary, bool, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.LedgerSummary), args.Bool(1), args.Error(2)
}

// MockTourService
type MockTourService struct {
	mock.Mock
}

func (m *MockTourService) Create(ctx context.Context, in services.CreateTourInput) (*services.TourCreated, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TourCreated), args.Error(1)
}

func (m *MockTourService) All(ctx context.Context) ([]models.TourWithClient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TourWithClient), args.Error(1)
}

func (m *MockTourService) FindByID(ctx context.Context, clientPhone string, tourID utils.SixID) (*models.TourWithClient, error) {
	args := m.Called(ctx, clientPhone, tourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourWithClient), args.Error(1)
}

func (m *MockTourService) Delete(ctx context.Context, clientPhone string, tourID utils.SixID) error {
	args := m.Called(ctx, clientPhone, tourID)
	return args.Error(0)
}

// MockStatementService
type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) Build(ctx context.Context, phone string) ([]byte, string, error) {
	args := m.Called(ctx, phone)
	var data []byte
	if args.Get(0) != nil {
		data = args.Get(0).([]byte)
	}
	return data, args.String(1), args.Error(2)
}

// MockAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}
