package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dawah-crm/internal/domain"
)

// mockEmailStore scripts the email log store.
type mockEmailStore struct {
	logs    []*domain.EmailLog
	created *domain.EmailLog
	stats   *domain.EmailStats
	err     error
}

func (m *mockEmailStore) ListByContact(_ context.Context, contactID string, _ int64) ([]*domain.EmailLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	var logs []*domain.EmailLog
	for _, log := range m.logs {
		if log.ContactID == contactID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

func (m *mockEmailStore) Create(_ context.Context, log *domain.EmailLog) error {
	if m.err != nil {
		return m.err
	}
	log.ID = "e1"
	log.CreatedAt = time.Now().UTC()
	m.created = log
	return nil
}

func (m *mockEmailStore) MarkOpened(_ context.Context, id string) (*domain.EmailLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, log := range m.logs {
		if log.ID == id {
			opened := *log
			now := time.Now().UTC()
			opened.Opened = true
			opened.OpenedAt = &now
			return &opened, nil
		}
	}
	return nil, nil
}

func (m *mockEmailStore) Stats(context.Context) (*domain.EmailStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

func newEmailTestRouter(store *mockEmailStore, user *domain.User) chi.Router {
	handlers := NewEmailHandlers(store, zerolog.Nop())

	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), userContextKey, user)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}
	r.Get("/emails/contact/{id}", handlers.ListByContact)
	r.Post("/emails/send/{id}", handlers.Send)
	r.Get("/emails/stats", handlers.Stats)
	r.Put("/emails/{id}/opened", handlers.MarkOpened)
	return r
}

func TestSendEmailLogsRecord(t *testing.T) {
	t.Parallel()

	store := &mockEmailStore{}
	router := newEmailTestRouter(store, &domain.User{ID: "u1"})

	payload := `{
		"to_email": "donor@example.org",
		"from_email": "team@example.org",
		"subject": "Ramadan appeal",
		"body": "Assalamu alaikum"
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/emails/send/c1", strings.NewReader(payload))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	require.True(t, body.Success)
	require.NotEmpty(t, body.Message)

	require.NotNil(t, store.created)
	require.Equal(t, "c1", store.created.ContactID)
	require.Equal(t, "u1", store.created.SentBy)
	require.Equal(t, domain.EmailStatusSent, store.created.Status)
	require.False(t, store.created.Opened)
}

func TestSendEmailRequiresFields(t *testing.T) {
	t.Parallel()

	store := &mockEmailStore{}
	router := newEmailTestRouter(store, &domain.User{ID: "u1"})

	// from_email missing
	payload := `{"to_email": "donor@example.org", "subject": "Hi", "body": "..."}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/emails/send/c1", strings.NewReader(payload))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, decodeEnvelope(t, rec).Success)
	require.Nil(t, store.created)
}

func TestListEmailsByContact(t *testing.T) {
	t.Parallel()

	store := &mockEmailStore{logs: []*domain.EmailLog{
		{ID: "e1", ContactID: "c1", Subject: "First"},
		{ID: "e2", ContactID: "c2", Subject: "Other contact"},
	}}
	router := newEmailTestRouter(store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails/contact/c1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	require.True(t, body.Success)

	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var logs []domain.EmailLog
	require.NoError(t, json.Unmarshal(raw, &logs))
	require.Len(t, logs, 1)
	require.Equal(t, "e1", logs[0].ID)
}

func TestEmailStats(t *testing.T) {
	t.Parallel()

	store := &mockEmailStore{stats: &domain.EmailStats{Total: 10, Sent: 8, Opened: 3, Failed: 2}}
	router := newEmailTestRouter(store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	require.True(t, body.Success)

	counts, ok := body.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(10), counts["total"])
	require.Equal(t, float64(3), counts["opened"])
}

func TestMarkEmailOpened(t *testing.T) {
	t.Parallel()

	store := &mockEmailStore{logs: []*domain.EmailLog{
		{ID: "e1", ContactID: "c1", Subject: "First"},
	}}
	router := newEmailTestRouter(store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/emails/e1/opened", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	require.True(t, body.Success)

	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var log domain.EmailLog
	require.NoError(t, json.Unmarshal(raw, &log))
	require.True(t, log.Opened)
	require.NotNil(t, log.OpenedAt)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/emails/missing/opened", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
