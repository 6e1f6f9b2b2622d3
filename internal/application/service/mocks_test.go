package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/garyjia/claim-adjudication/internal/application/dispatcher"
	"github.com/garyjia/claim-adjudication/internal/application/port"
	"github.com/garyjia/claim-adjudication/internal/domain/claim"
	"github.com/garyjia/claim-adjudication/internal/domain/event"
)

// Mock repositories in the func-field style: zero-value mocks behave like an
// empty store, individual tests override only what they need.

type mockRegRepo struct {
	mu        sync.Mutex
	createFn  func(ctx context.Context, reg *claim.Registration) error
	getFn     func(ctx context.Context, id int64) (*claim.Registration, error)
	updateFn  func(ctx context.Context, reg *claim.Registration) error
	deleteFn  func(ctx context.Context, id int64) error
	listFn    func(ctx context.Context, filter port.ListFilter) ([]*claim.Registration, error)
	countFn   func(ctx context.Context, filter port.ListFilter) (int64, error)
	nextSeqFn func(ctx context.Context, caseID string) (int64, error)
	seqs      map[string]int64
}

func (m *mockRegRepo) Create(ctx context.Context, reg *claim.Registration) error {
	if m.createFn != nil {
		return m.createFn(ctx, reg)
	}
	reg.ID = 1
	reg.Version = 1
	return nil
}

func (m *mockRegRepo) GetByID(ctx context.Context, id int64) (*claim.Registration, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRegRepo) GetByClaimNo(ctx context.Context, claimNo string) (*claim.Registration, error) {
	return nil, nil
}

func (m *mockRegRepo) Update(ctx context.Context, reg *claim.Registration) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, reg)
	}
	reg.Version++
	return nil
}

func (m *mockRegRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRegRepo) List(ctx context.Context, filter port.ListFilter) ([]*claim.Registration, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockRegRepo) Count(ctx context.Context, filter port.ListFilter) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockRegRepo) NextClaimSeq(ctx context.Context, caseID string) (int64, error) {
	if m.nextSeqFn != nil {
		return m.nextSeqFn(ctx, caseID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	m.seqs[caseID]++
	return m.seqs[caseID], nil
}

type mockReviewRepo struct {
	mu        sync.Mutex
	createFn  func(ctx context.Context, rev *claim.Review) error
	getFn     func(ctx context.Context, id int64) (*claim.Review, error)
	updateFn  func(ctx context.Context, rev *claim.Review) error
	listFn    func(ctx context.Context, registrationID int64) ([]*claim.Review, error)
	latestFn  func(ctx context.Context, registrationID int64) (*claim.Review, error)
	maxFn     func(ctx context.Context, registrationID int64) (int, error)
	countFn   func(ctx context.Context, registrationID int64) (int64, error)
	nextID    int64
	byRound   map[int]bool
}

func (m *mockReviewRepo) Create(ctx context.Context, rev *claim.Review) error {
	if m.createFn != nil {
		return m.createFn(ctx, rev)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byRound == nil {
		m.byRound = make(map[int]bool)
	}
	if m.byRound[rev.ReviewRound] {
		return fmt.Errorf("round %d: %w", rev.ReviewRound, claim.ErrConflict)
	}
	m.byRound[rev.ReviewRound] = true
	m.nextID++
	rev.ID = m.nextID
	rev.Version = 1
	return nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id int64) (*claim.Review, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockReviewRepo) Update(ctx context.Context, rev *claim.Review) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, rev)
	}
	rev.Version++
	return nil
}

func (m *mockReviewRepo) ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Review, error) {
	if m.listFn != nil {
		return m.listFn(ctx, registrationID)
	}
	return nil, nil
}

func (m *mockReviewRepo) LatestCompleted(ctx context.Context, registrationID int64) (*claim.Review, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, registrationID)
	}
	return nil, nil
}

func (m *mockReviewRepo) MaxRound(ctx context.Context, registrationID int64) (int, error) {
	if m.maxFn != nil {
		return m.maxFn(ctx, registrationID)
	}
	return 0, nil
}

func (m *mockReviewRepo) CountByRegistration(ctx context.Context, registrationID int64) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, registrationID)
	}
	return 0, nil
}

type mockConfRepo struct {
	createFn func(ctx context.Context, conf *claim.Confirmation) error
	getFn    func(ctx context.Context, id int64) (*claim.Confirmation, error)
	updateFn func(ctx context.Context, conf *claim.Confirmation) error
	listFn   func(ctx context.Context, registrationID int64) ([]*claim.Confirmation, error)
	latestFn func(ctx context.Context, registrationID int64) (*claim.Confirmation, error)
	countFn  func(ctx context.Context, registrationID int64) (int64, error)
}

func (m *mockConfRepo) Create(ctx context.Context, conf *claim.Confirmation) error {
	if m.createFn != nil {
		return m.createFn(ctx, conf)
	}
	conf.ID = 1
	conf.Version = 1
	return nil
}

func (m *mockConfRepo) GetByID(ctx context.Context, id int64) (*claim.Confirmation, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockConfRepo) Update(ctx context.Context, conf *claim.Confirmation) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, conf)
	}
	conf.Version++
	return nil
}

func (m *mockConfRepo) ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Confirmation, error) {
	if m.listFn != nil {
		return m.listFn(ctx, registrationID)
	}
	return nil, nil
}

func (m *mockConfRepo) Latest(ctx context.Context, registrationID int64) (*claim.Confirmation, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, registrationID)
	}
	return nil, nil
}

func (m *mockConfRepo) CountByRegistration(ctx context.Context, registrationID int64) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, registrationID)
	}
	return 0, nil
}

type mockTxManager struct {
	withTransactionFn func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFn != nil {
		return m.withTransactionFn(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// captureDispatcher records dispatched events for assertions.
type captureDispatcher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (d *captureDispatcher) Subscribe(eventType event.Type, handler dispatcher.Handler) {}
func (d *captureDispatcher) SubscribeNamed(eventType event.Type, name string, handler dispatcher.Handler) {
}
func (d *captureDispatcher) Unsubscribe(eventType event.Type, name string) {}

func (d *captureDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	d.record(evt)
	return nil
}

func (d *captureDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	d.record(evt)
}

func (d *captureDispatcher) record(evt *event.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, evt)
}

func (d *captureDispatcher) Events() []*event.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*event.Event{}, d.events...)
}

func (d *captureDispatcher) ListHandlers(eventType event.Type) []dispatcher.HandlerInfo {
	return nil
}

func (d *captureDispatcher) Close() error { return nil }
