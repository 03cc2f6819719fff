package subscriber

import (
	"context"
	"errors"
	"testing"

	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
)

// --- 모의 객체 정의 ---

type mockSubscriberRepo struct {
	findByIDFn              func(ctx context.Context, id string) (*model.Subscriber, error)
	listByUserAndPropertyFn func(ctx context.Context, userID, propertyID string) ([]*model.Subscriber, error)
	createFn                func(ctx context.Context, subscriber *model.Subscriber) error
	updateFn                func(ctx context.Context, subscriber *model.Subscriber) error
	deleteFn                func(ctx context.Context, id string) error
	bulkInsertFn            func(ctx context.Context, subscribers []*model.Subscriber) (int, error)
}

func (m *mockSubscriberRepo) FindByID(ctx context.Context, id string) (*model.Subscriber, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriberRepo) ListByUserAndProperty(ctx context.Context, userID, propertyID string) ([]*model.Subscriber, error) {
	if m.listByUserAndPropertyFn != nil {
		return m.listByUserAndPropertyFn(ctx, userID, propertyID)
	}
	return []*model.Subscriber{}, nil
}

func (m *mockSubscriberRepo) Create(ctx context.Context, subscriber *model.Subscriber) error {
	if m.createFn != nil {
		return m.createFn(ctx, subscriber)
	}
	return nil
}

func (m *mockSubscriberRepo) Update(ctx context.Context, subscriber *model.Subscriber) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, subscriber)
	}
	return nil
}

func (m *mockSubscriberRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSubscriberRepo) BulkInsert(ctx context.Context, subscribers []*model.Subscriber) (int, error) {
	if m.bulkInsertFn != nil {
		return m.bulkInsertFn(ctx, subscribers)
	}
	return len(subscribers), nil
}

// mockPropertyRepo 는 숙소 소유 확인용 모의 리포지토리.
// findByIDFn이 없으면 user-1 소유의 숙소를 반환한다.
type mockPropertyRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Property, error)
}

func (m *mockPropertyRepo) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.Property{ID: id, UserID: "user-1", Name: "테스트 숙소"}, nil
}

func (m *mockPropertyRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (m *mockPropertyRepo) Create(ctx context.Context, property *model.Property) error { return nil }
func (m *mockPropertyRepo) Update(ctx context.Context, property *model.Property) error { return nil }
func (m *mockPropertyRepo) Delete(ctx context.Context, id string) error                { return nil }
func (m *mockPropertyRepo) SetDefault(ctx context.Context, userID, propertyID string) error {
	return nil
}

// passthroughSanitizer 는 입력을 그대로 반환하는 테스트용 정화기.
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string      { return raw }
func (passthroughSanitizer) SanitizePtr(raw *string) *string { return raw }

var _ repository.SubscriberRepository = (*mockSubscriberRepo)(nil)
var _ repository.PropertyRepository = (*mockPropertyRepo)(nil)

func newTestService(repo *mockSubscriberRepo) *Service {
	return NewService(repo, &mockPropertyRepo{}, passthroughSanitizer{})
}

// --- 테스트 ---

func TestList_NoProperty_ReturnsEmptyWithoutError(t *testing.T) {
	called := false
	repo := &mockSubscriberRepo{
		listByUserAndPropertyFn: func(ctx context.Context, userID, propertyID string) ([]*model.Subscriber, error) {
			called = true
			return nil, nil
		},
	}
	svc := newTestService(repo)

	subscribers, err := svc.List(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(subscribers) != 0 {
		t.Errorf("expected empty list, got %d", len(subscribers))
	}
	if called {
		t.Error("repository should not be called without a selected property")
	}
}

func TestCreate_NoProperty_ReturnsPropertyRequired(t *testing.T) {
	svc := newTestService(&mockSubscriberRepo{})

	_, err := svc.Create(context.Background(), "user-1", "", model.SubscriberInput{Phone: "010-1111-2222"})
	if err == nil {
		t.Fatal("expected error without a selected property")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePropertyRequired {
		t.Errorf("expected PROPERTY_REQUIRED error, got %v", err)
	}
}

func TestCreate_SetsActiveAndScope(t *testing.T) {
	var created *model.Subscriber
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.Subscriber) error {
			created = subscriber
			return nil
		},
	}
	svc := newTestService(repo)

	name := "이영희"
	subscriber, err := svc.Create(context.Background(), "user-1", "p1", model.SubscriberInput{
		Phone: "010-1111-2222",
		Name:  &name,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !subscriber.IsActive {
		t.Error("new subscriber should be active")
	}
	if subscriber.PropertyID != "p1" {
		t.Errorf("property ID = %q, want p1", subscriber.PropertyID)
	}
	if created == nil || created.Phone != "010-1111-2222" {
		t.Error("expected subscriber persisted with phone")
	}
}

func TestBulkCreate_ReturnsInsertedCount(t *testing.T) {
	var got []*model.Subscriber
	repo := &mockSubscriberRepo{
		bulkInsertFn: func(ctx context.Context, subscribers []*model.Subscriber) (int, error) {
			got = subscribers
			// 중복 1건은 건너뛴 것으로 가정
			return len(subscribers) - 1, nil
		},
	}
	svc := newTestService(repo)

	inserted, err := svc.BulkCreate(context.Background(), "user-1", "p1",
		[]string{"010-1111-2222", "010-3333-4444", "010-5555-6666"})
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}

	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}
	if len(got) != 3 {
		t.Fatalf("bulk insert rows = %d, want 3", len(got))
	}
	for _, s := range got {
		if !s.IsActive {
			t.Error("bulk created subscribers should be active")
		}
		if s.Name != nil {
			t.Error("bulk created subscribers should have nil name")
		}
		if s.PropertyID != "p1" {
			t.Errorf("property ID = %q, want p1", s.PropertyID)
		}
	}
}

func TestBulkCreate_EmptyPhones_ReturnsZero(t *testing.T) {
	called := false
	repo := &mockSubscriberRepo{
		bulkInsertFn: func(ctx context.Context, subscribers []*model.Subscriber) (int, error) {
			called = true
			return 0, nil
		},
	}
	svc := newTestService(repo)

	inserted, err := svc.BulkCreate(context.Background(), "user-1", "p1", nil)
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
	if called {
		t.Error("repository should not be called for empty input")
	}
}

func TestBulkCreate_NoProperty_ReturnsPropertyRequired(t *testing.T) {
	svc := newTestService(&mockSubscriberRepo{})

	_, err := svc.BulkCreate(context.Background(), "user-1", "", []string{"010-1111-2222"})
	if err == nil {
		t.Fatal("expected error without a selected property")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePropertyRequired {
		t.Errorf("expected PROPERTY_REQUIRED error, got %v", err)
	}
}

func TestUpdate_SubscriberOfOtherProperty_ReturnsNotFound(t *testing.T) {
	repo := &mockSubscriberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Subscriber, error) {
			return &model.Subscriber{ID: id, UserID: "user-1", PropertyID: "other-property", Phone: "010-1111-2222"}, nil
		},
	}
	svc := newTestService(repo)

	active := false
	_, err := svc.Update(context.Background(), "user-1", "p1", "s1", model.SubscriberPatch{IsActive: &active})
	if err == nil {
		t.Fatal("expected error for subscriber outside current property")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSubscriberNotFound {
		t.Errorf("expected SUBSCRIBER_NOT_FOUND error, got %v", err)
	}
}

func TestUpdate_TogglesActive(t *testing.T) {
	var updated *model.Subscriber
	repo := &mockSubscriberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Subscriber, error) {
			return &model.Subscriber{ID: id, UserID: "user-1", PropertyID: "p1", Phone: "010-1111-2222", IsActive: true}, nil
		},
		updateFn: func(ctx context.Context, subscriber *model.Subscriber) error {
			updated = subscriber
			return nil
		},
	}
	svc := newTestService(repo)

	active := false
	subscriber, err := svc.Update(context.Background(), "user-1", "p1", "s1", model.SubscriberPatch{IsActive: &active})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if subscriber.IsActive {
		t.Error("subscriber should be inactive after patch")
	}
	if updated == nil {
		t.Fatal("expected repository update to be called")
	}
}

func TestDelete_RemovesSubscriber(t *testing.T) {
	var deletedID string
	repo := &mockSubscriberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Subscriber, error) {
			return &model.Subscriber{ID: id, UserID: "user-1", PropertyID: "p1", Phone: "010-1111-2222"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), "user-1", "p1", "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deletedID != "s1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "s1")
	}
}

func TestCreate_ForeignProperty_ReturnsNotFound(t *testing.T) {
	created := false
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.Subscriber) error {
			created = true
			return nil
		},
	}
	propRepo := &mockPropertyRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return &model.Property{ID: id, UserID: "user-2", Name: "남의 숙소"}, nil
		},
	}
	svc := NewService(repo, propRepo, passthroughSanitizer{})

	_, err := svc.Create(context.Background(), "user-1", "p-other", model.SubscriberInput{Phone: "010-1234-5678"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePropertyNotFound {
		t.Fatalf("Create() error = %v, want %s", err, model.ErrCodePropertyNotFound)
	}
	if created {
		t.Error("subscriber must not be created under another user's property")
	}
}

func TestBulkCreate_ForeignProperty_ReturnsNotFound(t *testing.T) {
	repo := &mockSubscriberRepo{
		bulkInsertFn: func(ctx context.Context, subscribers []*model.Subscriber) (int, error) {
			t.Fatal("bulk insert must not run for another user's property")
			return 0, nil
		},
	}
	propRepo := &mockPropertyRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return &model.Property{ID: id, UserID: "user-2", Name: "남의 숙소"}, nil
		},
	}
	svc := NewService(repo, propRepo, passthroughSanitizer{})

	_, err := svc.BulkCreate(context.Background(), "user-1", "p-other", []string{"010-1234-5678"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePropertyNotFound {
		t.Fatalf("BulkCreate() error = %v, want %s", err, model.ErrCodePropertyNotFound)
	}
}

func TestCreate_MissingProperty_ReturnsNotFound(t *testing.T) {
	repo := &mockSubscriberRepo{}
	propRepo := &mockPropertyRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, propRepo, passthroughSanitizer{})

	_, err := svc.Create(context.Background(), "user-1", "p-gone", model.SubscriberInput{Phone: "010-1234-5678"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePropertyNotFound {
		t.Fatalf("Create() error = %v, want %s", err, model.ErrCodePropertyNotFound)
	}
}

func TestCreate_NormalizesPhone(t *testing.T) {
	var stored *model.Subscriber
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.Subscriber) error {
			stored = subscriber
			return nil
		},
	}
	svc := newTestService(repo)

	subscriber, err := svc.Create(context.Background(), "user-1", "p1", model.SubscriberInput{Phone: "01012345678"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if subscriber.Phone != "010-1234-5678" {
		t.Errorf("Phone = %q, want %q", subscriber.Phone, "010-1234-5678")
	}
	if stored == nil || stored.Phone != "010-1234-5678" {
		t.Errorf("stored phone = %+v, want normalized form", stored)
	}
}

func TestCreate_InvalidPhone_ReturnsError(t *testing.T) {
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.Subscriber) error {
			t.Fatal("invalid phone must not reach the repository")
			return nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "user-1", "p1", model.SubscriberInput{Phone: "1234"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidPhone {
		t.Fatalf("Create() error = %v, want %s", err, model.ErrCodeInvalidPhone)
	}
}

func TestBulkCreate_NormalizesAndSkipsInvalid(t *testing.T) {
	var inserted []*model.Subscriber
	repo := &mockSubscriberRepo{
		bulkInsertFn: func(ctx context.Context, subscribers []*model.Subscriber) (int, error) {
			inserted = subscribers
			return len(subscribers), nil
		},
	}
	svc := newTestService(repo)

	count, err := svc.BulkCreate(context.Background(), "user-1", "p1", []string{"01012345678", "0212345678", "없는번호"})
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	want := []string{"010-1234-5678", "021-234-5678"}
	if len(inserted) != len(want) {
		t.Fatalf("inserted %d subscribers, want %d", len(inserted), len(want))
	}
	for i, phone := range want {
		if inserted[i].Phone != phone {
			t.Errorf("inserted[%d].Phone = %q, want %q", i, inserted[i].Phone, phone)
		}
	}
}

func TestUpdate_NormalizesPhone(t *testing.T) {
	var updated *model.Subscriber
	repo := &mockSubscriberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Subscriber, error) {
			return &model.Subscriber{ID: id, UserID: "user-1", PropertyID: "p1", Phone: "010-1111-2222"}, nil
		},
		updateFn: func(ctx context.Context, subscriber *model.Subscriber) error {
			updated = subscriber
			return nil
		},
	}
	svc := newTestService(repo)

	phone := "01098765432"
	subscriber, err := svc.Update(context.Background(), "user-1", "p1", "s1", model.SubscriberPatch{Phone: &phone})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if subscriber.Phone != "010-9876-5432" {
		t.Errorf("Phone = %q, want %q", subscriber.Phone, "010-9876-5432")
	}
	if updated == nil || updated.Phone != "010-9876-5432" {
		t.Errorf("updated phone = %+v, want normalized form", updated)
	}
}
