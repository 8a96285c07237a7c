package application

import (
	"context"
	"testing"
	"time"

	"usersvc/internal/users/domain"
	"usersvc/pkg/errors"
	"usersvc/pkg/logger"
)

// MockUserRepository is a map-backed mock implementation of UserRepository
type MockUserRepository struct {
	users  map[uint]*domain.User
	order  []uint
	nextID uint

	existsCalls int
	getCalls    int
	saveCalls   int
	deleteCalls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.existsCalls++
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	m.getCalls++
	user, ok := m.users[id]
	if !ok {
		return nil, domain.NewUserNotFound(id)
	}
	cp := *user
	return &cp, nil
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	m.saveCalls++
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
		m.order = append(m.order, user.ID)
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	m.deleteCalls++
	if _, ok := m.users[id]; !ok {
		return domain.NewUserNotFound(id)
	}
	delete(m.users, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.users[id]
		users = append(users, &cp)
	}
	return users, nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	created []string
	deleted []string
}

func (m *MockEventPublisher) PublishUserCreated(ctx context.Context, email string) {
	m.created = append(m.created, email)
}

func (m *MockEventPublisher) PublishUserDeleted(ctx context.Context, email string) {
	m.deleted = append(m.deleted, email)
}

func newTestUseCase() (*UserUseCase, *MockUserRepository, *MockEventPublisher) {
	repo := NewMockUserRepository()
	publisher := &MockEventPublisher{}
	log := logger.New("test", "debug")
	return NewUserUseCase(repo, publisher, log), repo, publisher
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateUser_Success(t *testing.T) {
	// Arrange
	useCase, _, publisher := newTestUseCase()
	before := time.Now()

	input := CreateUserInput{
		Name:  "John Doe",
		Email: "john@example.com",
		Age:   25,
	}

	// Act
	user, err := useCase.CreateUser(context.Background(), input)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != 1 {
		t.Errorf("expected ID 1, got %d", user.ID)
	}
	if user.Name != "John Doe" {
		t.Errorf("expected name 'John Doe', got '%s'", user.Name)
	}
	if user.Email != "john@example.com" {
		t.Errorf("expected email 'john@example.com', got '%s'", user.Email)
	}
	if user.Age != 25 {
		t.Errorf("expected age 25, got %d", user.Age)
	}
	if user.CreatedAt.Before(before) {
		t.Errorf("expected CreatedAt not before call time, got %v", user.CreatedAt)
	}

	if len(publisher.created) != 1 || publisher.created[0] != "john@example.com" {
		t.Errorf("expected one CREATE event for john@example.com, got %v", publisher.created)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	// Arrange
	useCase, repo, publisher := newTestUseCase()

	_, _ = useCase.CreateUser(context.Background(), CreateUserInput{
		Name:  "John Doe",
		Email: "john@example.com",
		Age:   25,
	})
	publisher.created = nil

	// Act: the uniqueness check is check-then-act against the store,
	// not atomic with the insert; sequential calls still always conflict
	_, err := useCase.CreateUser(context.Background(), CreateUserInput{
		Name:  "Jane Doe",
		Email: "john@example.com",
		Age:   30,
	})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("expected store unchanged, got %d users", len(repo.users))
	}
	if len(publisher.created) != 0 {
		t.Errorf("expected no event on conflict, got %v", publisher.created)
	}
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	// Arrange
	useCase, repo, _ := newTestUseCase()

	// Act
	_, err := useCase.CreateUser(context.Background(), CreateUserInput{
		Name:  "John Doe",
		Email: "invalid-email",
		Age:   25,
	})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Errorf("expected no store write, got %d", repo.saveCalls)
	}
}

func TestCreateUser_InvalidAge(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()

	// Act
	_, err := useCase.CreateUser(context.Background(), CreateUserInput{
		Name:  "John Doe",
		Email: "john@example.com",
		Age:   0,
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetUser_Success(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	created, _ := useCase.CreateUser(context.Background(), CreateUserInput{
		Name:  "John Doe",
		Email: "john@example.com",
		Age:   25,
	})

	// Act
	user, err := useCase.GetUser(context.Background(), created.ID)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("expected ID %d, got %d", created.ID, user.ID)
	}
	if user.Email != "john@example.com" {
		t.Errorf("expected email 'john@example.com', got '%s'", user.Email)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()

	// Act
	_, err := useCase.GetUser(context.Background(), 999)

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestListUsers_InsertionOrder(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, email := range emails {
		_, _ = useCase.CreateUser(context.Background(), CreateUserInput{
			Name:  "User",
			Email: email,
			Age:   30,
		})
	}

	// Act
	users, err := useCase.ListUsers(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i, email := range emails {
		if users[i].Email != email {
			t.Errorf("expected users[%d] email %s, got %s", i, email, users[i].Email)
		}
	}
}

func TestUpdateUser_EmptyPatch(t *testing.T) {
	// Arrange
	useCase, repo, _ := newTestUseCase()

	// Act
	_, err := useCase.UpdateUser(context.Background(), 1, UpdateUserInput{})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if repo.getCalls != 0 || repo.saveCalls != 0 {
		t.Errorf("expected store untouched, got %d gets and %d saves", repo.getCalls, repo.saveCalls)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()

	// Act
	_, err := useCase.UpdateUser(context.Background(), 999, UpdateUserInput{Name: strPtr("New Name")})

	// Assert
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUpdateUser_NonPositiveAgeIgnored(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	created, _ := useCase.CreateUser(context.Background(), CreateUserInput{
		Name:  "John Doe",
		Email: "john@example.com",
		Age:   25,
	})

	// Act: a non-positive age is silently ignored, not rejected
	updated, err := useCase.UpdateUser(context.Background(), created.ID, UpdateUserInput{Age: intPtr(-5)})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Age != 25 {
		t.Errorf("expected age unchanged at 25, got %d", updated.Age)
	}
}

func TestUpdateUser_EmailTakenByOther(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	_, _ = useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "John", Email: "john@example.com", Age: 25,
	})
	jane, _ := useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "Jane", Email: "jane@example.com", Age: 30,
	})

	// Act
	_, err := useCase.UpdateUser(context.Background(), jane.ID, UpdateUserInput{Email: strPtr("john@example.com")})

	// Assert
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestUpdateUser_OwnEmailNoConflict(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	created, _ := useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "John", Email: "john@example.com", Age: 25,
	})

	// Act: re-submitting the current email never trips uniqueness
	updated, err := useCase.UpdateUser(context.Background(), created.ID, UpdateUserInput{
		Email: strPtr("john@example.com"),
		Age:   intPtr(26),
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Email != "john@example.com" {
		t.Errorf("expected email unchanged, got %s", updated.Email)
	}
	if updated.Age != 26 {
		t.Errorf("expected age 26, got %d", updated.Age)
	}
}

func TestUpdateUser_TrimsAndIgnoresBlankName(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	created, _ := useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "John", Email: "john@example.com", Age: 25,
	})

	// Act
	updated, err := useCase.UpdateUser(context.Background(), created.ID, UpdateUserInput{Name: strPtr("  Johnny  ")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	blank, err := useCase.UpdateUser(context.Background(), created.ID, UpdateUserInput{Name: strPtr("   ")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if updated.Name != "Johnny" {
		t.Errorf("expected trimmed name 'Johnny', got '%s'", updated.Name)
	}
	if blank.Name != "Johnny" {
		t.Errorf("expected blank name ignored, got '%s'", blank.Name)
	}
}

func TestUpdateUser_NoEventEmitted(t *testing.T) {
	// Arrange
	useCase, _, publisher := newTestUseCase()
	created, _ := useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "John", Email: "john@example.com", Age: 25,
	})
	publisher.created = nil

	// Act
	_, err := useCase.UpdateUser(context.Background(), created.ID, UpdateUserInput{Name: strPtr("Johnny")})

	// Assert: only create and delete announce events
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(publisher.created) != 0 || len(publisher.deleted) != 0 {
		t.Errorf("expected no events on update, got %v / %v", publisher.created, publisher.deleted)
	}
}

func TestDeleteUser_Success(t *testing.T) {
	// Arrange
	useCase, repo, publisher := newTestUseCase()
	created, _ := useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "John", Email: "john@example.com", Age: 25,
	})

	// Act
	err := useCase.DeleteUser(context.Background(), created.ID)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Errorf("expected user removed, got %d users", len(repo.users))
	}
	if len(publisher.deleted) != 1 || publisher.deleted[0] != "john@example.com" {
		t.Errorf("expected one DELETE event for john@example.com, got %v", publisher.deleted)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	// Arrange
	useCase, repo, publisher := newTestUseCase()

	// Act
	err := useCase.DeleteUser(context.Background(), 999)

	// Assert
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
	if repo.deleteCalls != 0 {
		t.Errorf("expected delete not invoked, got %d calls", repo.deleteCalls)
	}
	if len(publisher.deleted) != 0 {
		t.Errorf("expected no event, got %v", publisher.deleted)
	}
}

func TestUserLifecycle(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()

	// Act + Assert
	ann, err := useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "Ann", Email: "ann@x.com", Age: 25,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ann.ID != 1 {
		t.Errorf("expected id 1, got %d", ann.ID)
	}

	_, err = useCase.CreateUser(context.Background(), CreateUserInput{
		Name: "Bob", Email: "ann@x.com", Age: 30,
	})
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict for taken email, got %v", err)
	}

	got, err := useCase.GetUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Name != "Ann" || got.Email != "ann@x.com" || got.Age != 25 {
		t.Errorf("expected Ann's record unchanged, got %+v", got)
	}
}
