package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cryptosden/backend/internal/config"
	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/notify"
)

// MockDispatchRepo for testing
type MockDispatchRepo struct {
	mock.Mock
	mu      sync.Mutex
	records []model.DispatchRecord
}

func (m *MockDispatchRepo) Create(ctx context.Context, record *model.DispatchRecord) error {
	args := m.Called(ctx, record)
	m.mu.Lock()
	m.records = append(m.records, *record)
	m.mu.Unlock()
	return args.Error(0)
}

func (m *MockDispatchRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.DispatchRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DispatchRecord), args.Error(1)
}

func (m *MockDispatchRepo) SuccessRate(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDispatchRepo) byChannel(ch model.Channel) *model.DispatchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].Channel == ch {
			return &m.records[i]
		}
	}
	return nil
}

// fakeAdapter is a controllable channel adapter.
type fakeAdapter struct {
	channel model.Channel
	live    bool
	err     error

	mu   sync.Mutex
	sent []notify.Message
}

func (a *fakeAdapter) Channel() model.Channel { return a.channel }
func (a *fakeAdapter) Live() bool             { return a.live }

func (a *fakeAdapter) Send(ctx context.Context, msg notify.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.sent = append(a.sent, msg)
	return nil
}

func (a *fakeAdapter) sentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sent)
}

func testDispatchConfig() config.DispatchConfig {
	return config.DispatchConfig{
		Concurrency:  4,
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
	}
}

func TestDispatcher_SendsAndRecords(t *testing.T) {
	t.Parallel()

	repo := new(MockDispatchRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	email := &fakeAdapter{channel: model.ChannelEmail, live: true}
	d := NewDispatcher(repo, []notify.Adapter{email}, testDispatchConfig())

	userID := uuid.New()
	alertID := uuid.New()
	d.Dispatch(context.Background(), Delivery{
		UserID:  userID,
		AlertID: &alertID,
		EventID: uuid.New(),
		Subject: "Crypto alert: Bitcoin",
		Body:    "Bitcoin price is above $50,000.00",
	}, Resolution{Allowed: []model.Channel{model.ChannelEmail}})

	assert.Equal(t, 1, email.sentCount())

	rec := repo.byChannel(model.ChannelEmail)
	require.NotNil(t, rec)
	assert.Equal(t, model.DispatchSent, rec.Status)
	assert.Equal(t, 1, rec.Attempts)
	assert.False(t, rec.Simulated)
	assert.Equal(t, userID, rec.UserID)
	require.NotNil(t, rec.AlertID)
	assert.Equal(t, alertID, *rec.AlertID)
}

func TestDispatcher_SuppressedChannelsGetRecordsWithoutSends(t *testing.T) {
	t.Parallel()

	repo := new(MockDispatchRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	email := &fakeAdapter{channel: model.ChannelEmail, live: true}
	push := &fakeAdapter{channel: model.ChannelPush, live: true}
	d := NewDispatcher(repo, []notify.Adapter{email, push}, testDispatchConfig())

	d.Dispatch(context.Background(), Delivery{
		UserID:  uuid.New(),
		EventID: uuid.New(),
		Body:    "suppressed everywhere",
	}, Resolution{
		Suppressed: map[model.Channel]model.DispatchStatus{
			model.ChannelEmail: model.DispatchSuppressedQuiet,
			model.ChannelPush:  model.DispatchSuppressedPref,
		},
	})

	assert.Equal(t, 0, email.sentCount())
	assert.Equal(t, 0, push.sentCount())

	emailRec := repo.byChannel(model.ChannelEmail)
	require.NotNil(t, emailRec)
	assert.Equal(t, model.DispatchSuppressedQuiet, emailRec.Status)

	pushRec := repo.byChannel(model.ChannelPush)
	require.NotNil(t, pushRec)
	assert.Equal(t, model.DispatchSuppressedPref, pushRec.Status)
}

func TestDispatcher_RetriesThenRecordsFailure(t *testing.T) {
	t.Parallel()

	repo := new(MockDispatchRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	email := &fakeAdapter{channel: model.ChannelEmail, live: true, err: errors.New("smtp connection refused")}
	d := NewDispatcher(repo, []notify.Adapter{email}, testDispatchConfig())

	d.Dispatch(context.Background(), Delivery{
		UserID:  uuid.New(),
		EventID: uuid.New(),
		Body:    "never delivered",
	}, Resolution{Allowed: []model.Channel{model.ChannelEmail}})

	rec := repo.byChannel(model.ChannelEmail)
	require.NotNil(t, rec)
	assert.Equal(t, model.DispatchFailed, rec.Status)
	assert.Equal(t, 2, rec.Attempts)
	require.NotNil(t, rec.Error)
	assert.Contains(t, *rec.Error, "smtp connection refused")
}

func TestDispatcher_InertAdapterRecordsSimulated(t *testing.T) {
	t.Parallel()

	repo := new(MockDispatchRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	sms := &fakeAdapter{channel: model.ChannelSMS, live: false}
	d := NewDispatcher(repo, []notify.Adapter{sms}, testDispatchConfig())

	d.Dispatch(context.Background(), Delivery{
		UserID:  uuid.New(),
		EventID: uuid.New(),
		Body:    "pretend sms",
	}, Resolution{Allowed: []model.Channel{model.ChannelSMS}})

	rec := repo.byChannel(model.ChannelSMS)
	require.NotNil(t, rec)
	assert.Equal(t, model.DispatchSent, rec.Status)
	assert.True(t, rec.Simulated)
}

func TestDispatcher_MissingAdapterRecordsFailure(t *testing.T) {
	t.Parallel()

	repo := new(MockDispatchRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	d := NewDispatcher(repo, nil, testDispatchConfig())

	d.Dispatch(context.Background(), Delivery{
		UserID:  uuid.New(),
		EventID: uuid.New(),
		Body:    "nowhere to go",
	}, Resolution{Allowed: []model.Channel{model.ChannelPush}})

	rec := repo.byChannel(model.ChannelPush)
	require.NotNil(t, rec)
	assert.Equal(t, model.DispatchFailed, rec.Status)
	require.NotNil(t, rec.Error)
	assert.Contains(t, *rec.Error, "no adapter")
}
