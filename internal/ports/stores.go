package ports

import (
	"context"
	"time"

	"dawah-crm/internal/domain"
)

// Store contracts for entity persistence. Lookups return (nil, nil) when the
// record is absent; Update accepts a partial field set and must tolerate
// arbitrary keys, returning the updated record or (nil, nil) when missing.

// ContactStore persists contacts.
type ContactStore interface {
	List(ctx context.Context, limit, offset int64) ([]*domain.Contact, error)
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*domain.Contact, error)

	// SetSyncState writes the per-integration sync projection for a contact.
	SetSyncState(ctx context.Context, id, integration string, state domain.SyncState) error
}

// PledgeStore persists pledges and donations.
type PledgeStore interface {
	List(ctx context.Context, limit, offset int64) ([]*domain.Pledge, error)
	ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.Pledge, error)
	GetByID(ctx context.Context, id string) (*domain.Pledge, error)
	Create(ctx context.Context, pledge *domain.Pledge) error
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Pledge, error)
	Delete(ctx context.Context, id string) error

	SetSyncState(ctx context.Context, id, integration string, state domain.SyncState) error
}

// ActivityStore persists contact activities.
type ActivityStore interface {
	ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.Activity, error)
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	Create(ctx context.Context, activity *domain.Activity) error
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error

	SetSyncState(ctx context.Context, id, integration string, state domain.SyncState) error
}

// ProjectStore persists projects, their pipeline stages and deals.
type ProjectStore interface {
	List(ctx context.Context, limit, offset int64) ([]*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error)
	Delete(ctx context.Context, id string) error

	ListStages(ctx context.Context, projectID string) ([]*domain.PipelineStage, error)
	CreateStage(ctx context.Context, stage *domain.PipelineStage) error

	ListDeals(ctx context.Context, projectID string) ([]*domain.Deal, error)
	CreateDeal(ctx context.Context, deal *domain.Deal) error
	UpdateDeal(ctx context.Context, id string, fields map[string]any) (*domain.Deal, error)
	DeleteDeal(ctx context.Context, id string) error
}

// OrganizationStore persists organizations.
type OrganizationStore interface {
	List(ctx context.Context) ([]*domain.Organization, error)
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	Create(ctx context.Context, org *domain.Organization) error
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Organization, error)
	Delete(ctx context.Context, id string) error
}

// CallLogStore persists call logs.
type CallLogStore interface {
	ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.CallLog, error)
	Create(ctx context.Context, log *domain.CallLog) error
	Delete(ctx context.Context, id string) error
}

// ScheduleStore persists scheduled meetings and follow-ups.
type ScheduleStore interface {
	ListByContact(ctx context.Context, contactID string) ([]*domain.Schedule, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int64) ([]*domain.Schedule, error)
	Create(ctx context.Context, schedule *domain.Schedule) error
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Schedule, error)
	Delete(ctx context.Context, id string) error
}

// CommentStore persists contact comments.
type CommentStore interface {
	ListByContact(ctx context.Context, contactID string, limit, offset int64) ([]*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
}

// EmailStore persists email logs.
type EmailStore interface {
	ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.EmailLog, error)
	Create(ctx context.Context, log *domain.EmailLog) error
	MarkOpened(ctx context.Context, id string) (*domain.EmailLog, error)
	Stats(ctx context.Context) (*domain.EmailStats, error)
}

// UserStore persists users.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// TokenStore persists issued API tokens.
type TokenStore interface {
	Create(ctx context.Context, token *domain.APIToken) error
	GetByToken(ctx context.Context, token string) (*domain.APIToken, error)
	Delete(ctx context.Context, token string) error
}
