package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/AbdurRehmanbaig1/paktravel/internal/config"
	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
	"github.com/AbdurRehmanbaig1/paktravel/internal/storage"
)

// Task types.
const (
	TypeLedgerAudit      = "ledger:audit"
	TypeStatementArchive = "ledger:statement:archive"
)

const archiveQueue = "low"

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// StatementArchivePayload identifies whose statement to rebuild.
type StatementArchivePayload struct {
	Phone string `json:"phone"`
}

// NewStatementArchiveTask builds the task enqueued after each ledger write.
func NewStatementArchiveTask(phone string) (*asynq.Task, error) {
	payload, err := json.Marshal(StatementArchivePayload{Phone: phone})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStatementArchive, payload), nil
}

// NewLedgerAuditTask builds the periodic summary audit task.
func NewLedgerAuditTask() *asynq.Task {
	return asynq.NewTask(TypeLedgerAudit, nil)
}

// ArchiveQueue returns the enqueue option routing statement archives to the
// low-priority queue.
func ArchiveQueue() asynq.Option {
	return asynq.Queue(archiveQueue)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of background tasks.
// It holds the dependencies needed by task handlers.
type TaskProcessor struct {
	cfg              *config.Config
	clientService    services.IClientService
	ledgerService    services.ILedgerService
	statementService services.IStatementService
	storageService   storage.IStatementStorage // nil when no bucket is configured
}

func NewTaskProcessor(
	cfg *config.Config,
	clientService services.IClientService,
	ledgerService services.ILedgerService,
	statementService services.IStatementService,
	storageService storage.IStatementStorage,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:              cfg,
		clientService:    clientService,
		ledgerService:    ledgerService,
		statementService: statementService,
		storageService:   storageService,
	}
}

// SetupServer builds the asynq server with its handler mux registered.
// The caller runs and shuts it down.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"default":    5,
				archiveQueue: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v\n", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeLedgerAudit, processor.HandleLedgerAuditTask)
	mux.HandleFunc(TypeStatementArchive, processor.HandleStatementArchiveTask)

	return srv, mux
}

// --- Task Handlers ---

// HandleLedgerAuditTask recomputes every client's ledger summary from the
// entry log and repairs any that drifted. Drift should never happen while all
// writers use the atomic commit path; this task exists to catch writers that
// bypassed it.
func (p *TaskProcessor) HandleLedgerAuditTask(ctx context.Context, t *asynq.Task) error {
	clients, err := p.clientService.List(ctx)
	if err != nil {
		return fmt.Errorf("ledger audit: failed to list clients: %w", err)
	}

	repaired := 0
	for _, client := range clients {
		_, fixed, err := p.ledgerService.Recompute(ctx, client.Phone)
		if err != nil {
			log.Printf("Ledger audit: recompute failed for %s: %v", client.Phone, err)
			continue
		}
		if fixed {
			repaired++
			log.Printf("Ledger audit: repaired drifted summary for %s", client.Phone)
		}
	}
	log.Printf("Ledger audit complete: %d clients checked, %d summaries repaired", len(clients), repaired)
	return nil
}

// HandleStatementArchiveTask rebuilds a client's XLSX statement and uploads it
// to the archive bucket. A no-op when no bucket is configured.
func (p *TaskProcessor) HandleStatementArchiveTask(ctx context.Context, t *asynq.Task) error {
	if p.storageService == nil {
		return nil
	}

	var payload StatementArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("statement archive: invalid payload: %w", err)
	}

	data, filename, err := p.statementService.Build(ctx, payload.Phone)
	if err != nil {
		return fmt.Errorf("statement archive: failed to build statement for %s: %w", payload.Phone, err)
	}

	key, err := p.storageService.UploadStatement(ctx, payload.Phone, filename, data)
	if err != nil {
		return fmt.Errorf("statement archive: upload failed for %s: %w", payload.Phone, err)
	}
	log.Printf("Archived ledger statement for %s at %s", payload.Phone, key)
	return nil
}
