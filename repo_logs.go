package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionLogs is the credential store view of the session log collection.
// Logs are created at sign-in and closed at sign-out; they are never
// deleted.
type SessionLogs interface {
	repository.Repository[*SessionLog]

	Create(ctx context.Context, record *SessionLog, criteria ...repository.InsertCriteria) (*SessionLog, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *SessionLog, criteria ...repository.InsertCriteria) (*SessionLog, error)

	GetByLogID(ctx context.Context, id uuid.UUID) (*SessionLog, error)
	GetByLogIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*SessionLog, error)

	MarkLoggedOut(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkLoggedOutTx(ctx context.Context, tx bun.IDB, id uuid.UUID, at time.Time) error
}

type sessionLogs struct {
	repository.Repository[*SessionLog]
	db *bun.DB
}

var (
	_ SessionLogs                        = (*sessionLogs)(nil)
	_ repository.Repository[*SessionLog] = (*sessionLogs)(nil)
)

func NewSessionLogsRepository(db *bun.DB) SessionLogs {
	repo := repository.NewRepository[*SessionLog](db, repository.ModelHandlers[*SessionLog]{
		NewRecord: func() *SessionLog { return &SessionLog{} },
		GetID: func(l *SessionLog) uuid.UUID {
			if l == nil {
				return uuid.Nil
			}
			return l.ID
		},
		SetID: func(l *SessionLog, id uuid.UUID) {
			if l != nil {
				l.ID = id
			}
		},
	})

	return &sessionLogs{
		Repository: repo,
		db:         db,
	}
}

func (a *sessionLogs) Create(ctx context.Context, record *SessionLog, criteria ...repository.InsertCriteria) (*SessionLog, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *sessionLogs) CreateTx(ctx context.Context, tx bun.IDB, record *SessionLog, criteria ...repository.InsertCriteria) (*SessionLog, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.LoginAt.IsZero() {
		record.LoginAt = time.Now()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *sessionLogs) GetByLogID(ctx context.Context, id uuid.UUID) (*SessionLog, error) {
	return a.GetByLogIDTx(ctx, a.db, id)
}

func (a *sessionLogs) GetByLogIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*SessionLog, error) {
	record := &SessionLog{}
	err := tx.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"log_id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

// MarkLoggedOut stamps the logout timestamp. Re-stamping an already
// closed log is tolerated, which keeps sign-out idempotent.
func (a *sessionLogs) MarkLoggedOut(ctx context.Context, id uuid.UUID, at time.Time) error {
	return a.MarkLoggedOutTx(ctx, a.db, id, at)
}

func (a *sessionLogs) MarkLoggedOutTx(ctx context.Context, tx bun.IDB, id uuid.UUID, at time.Time) error {
	_, err := tx.NewUpdate().Model((*SessionLog)(nil)).
		Set("logout_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)

	return err
}
