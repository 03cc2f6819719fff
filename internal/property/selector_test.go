package property

import (
	"context"
	"errors"
	"testing"

	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
)

type mockSelectionStore struct {
	findByUserIDFn   func(ctx context.Context, userID string) (string, error)
	saveFn           func(ctx context.Context, userID, propertyID string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSelectionStore) FindByUserID(ctx context.Context, userID string) (string, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return "", nil
}

func (m *mockSelectionStore) Save(ctx context.Context, userID, propertyID string) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, userID, propertyID)
	}
	return nil
}

func (m *mockSelectionStore) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

var _ repository.PropertySelectionStore = (*mockSelectionStore)(nil)

func twoProperties() []*model.Property {
	return []*model.Property{
		{ID: "p-default", UserID: "user-1", Name: "연남 스테이", IsDefault: true},
		{ID: "p-second", UserID: "user-1", Name: "제주 바다뷰"},
	}
}

func TestResolve_NoUser_ReturnsNil(t *testing.T) {
	selector := NewSelector(&mockPropertyRepo{}, &mockSelectionStore{})

	property, err := selector.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if property != nil {
		t.Errorf("expected nil property, got %+v", property)
	}
}

func TestResolve_StoredSelectionValid_ReturnsStoredProperty(t *testing.T) {
	repo := &mockPropertyRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Property, error) {
			return twoProperties(), nil
		},
	}
	store := &mockSelectionStore{
		findByUserIDFn: func(ctx context.Context, userID string) (string, error) {
			return "p-second", nil
		},
	}
	selector := NewSelector(repo, store)

	property, err := selector.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if property == nil || property.ID != "p-second" {
		t.Errorf("resolved = %+v, want p-second", property)
	}
}

func TestResolve_StoredSelectionStale_FallsBackToDefaultAndPersists(t *testing.T) {
	var savedPropertyID string
	repo := &mockPropertyRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Property, error) {
			return twoProperties(), nil
		},
	}
	store := &mockSelectionStore{
		findByUserIDFn: func(ctx context.Context, userID string) (string, error) {
			// 삭제된 숙소를 가리키는 오래된 선택
			return "p-deleted", nil
		},
		saveFn: func(ctx context.Context, userID, propertyID string) error {
			savedPropertyID = propertyID
			return nil
		},
	}
	selector := NewSelector(repo, store)

	property, err := selector.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if property == nil || property.ID != "p-default" {
		t.Errorf("resolved = %+v, want p-default", property)
	}
	if savedPropertyID != "p-default" {
		t.Errorf("saved selection = %q, want %q", savedPropertyID, "p-default")
	}
}

func TestResolve_NoDefaultFlag_FallsBackToFirstProperty(t *testing.T) {
	repo := &mockPropertyRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Property, error) {
			return []*model.Property{
				{ID: "p-first", UserID: "user-1", Name: "첫 번째"},
				{ID: "p-second", UserID: "user-1", Name: "두 번째"},
			}, nil
		},
	}
	selector := NewSelector(repo, &mockSelectionStore{})

	property, err := selector.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if property == nil || property.ID != "p-first" {
		t.Errorf("resolved = %+v, want p-first", property)
	}
}

func TestResolve_NoProperties_ReturnsNilAndClearsSelection(t *testing.T) {
	var cleared bool
	repo := &mockPropertyRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Property, error) {
			return []*model.Property{}, nil
		},
	}
	store := &mockSelectionStore{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			cleared = true
			return nil
		},
	}
	selector := NewSelector(repo, store)

	property, err := selector.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if property != nil {
		t.Errorf("expected nil property, got %+v", property)
	}
	if !cleared {
		t.Error("expected stale selection to be cleared")
	}
}

func TestSetCurrent_OwnProperty_Saves(t *testing.T) {
	var savedPropertyID string
	repo := &mockPropertyRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return &model.Property{ID: id, UserID: "user-1", Name: "제주 바다뷰"}, nil
		},
	}
	store := &mockSelectionStore{
		saveFn: func(ctx context.Context, userID, propertyID string) error {
			savedPropertyID = propertyID
			return nil
		},
	}
	selector := NewSelector(repo, store)

	property, err := selector.SetCurrent(context.Background(), "user-1", "p-second")
	if err != nil {
		t.Fatalf("SetCurrent() error = %v", err)
	}
	if property.ID != "p-second" {
		t.Errorf("property ID = %q, want %q", property.ID, "p-second")
	}
	if savedPropertyID != "p-second" {
		t.Errorf("saved selection = %q, want %q", savedPropertyID, "p-second")
	}
}

func TestSetCurrent_OtherUsersProperty_ReturnsNotFound(t *testing.T) {
	repo := &mockPropertyRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return &model.Property{ID: id, UserID: "other-user", Name: "남의 숙소"}, nil
		},
	}
	selector := NewSelector(repo, &mockSelectionStore{})

	_, err := selector.SetCurrent(context.Background(), "user-1", "p9")
	if err == nil {
		t.Fatal("expected error for other user's property")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePropertyNotFound {
		t.Errorf("expected PROPERTY_NOT_FOUND error, got %v", err)
	}
}

func TestClearCurrent_DeletesSelection(t *testing.T) {
	var cleared bool
	store := &mockSelectionStore{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			cleared = true
			return nil
		},
	}
	selector := NewSelector(&mockPropertyRepo{}, store)

	if err := selector.ClearCurrent(context.Background(), "user-1"); err != nil {
		t.Fatalf("ClearCurrent() error = %v", err)
	}
	if !cleared {
		t.Error("expected selection to be cleared")
	}
}
