package job

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/metrics"
)

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) CountByList(ctx context.Context, listID uuid.UUID) (int64, error) {
	args := m.Called(ctx, listID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) MoveToList(ctx context.Context, taskID, listID uuid.UUID) error {
	args := m.Called(ctx, taskID, listID)
	return args.Error(0)
}

func (m *MockTaskRepository) ReplaceTags(ctx context.Context, task *domain.Task, tags []domain.Tag) error {
	args := m.Called(ctx, task, tags)
	return args.Error(0)
}

func (m *MockTaskRepository) ReplaceAssignees(ctx context.Context, task *domain.Task, users []domain.User) error {
	args := m.Called(ctx, task, users)
	return args.Error(0)
}

func (m *MockTaskRepository) FindDueSoonUnnotified(ctx context.Context, now time.Time, window time.Duration) ([]*domain.Task, error) {
	args := m.Called(ctx, now, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOverdueUnnotified(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) StampDueSoonNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, taskID, at)
	return args.Error(0)
}

func (m *MockTaskRepository) StampOverdueNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, taskID, at)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*domain.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockMailer is a mock implementation of mailer.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func newDueDateJob(taskRepo *MockTaskRepository, userRepo *MockUserRepository, mail *MockMailer, now time.Time) *DueDateJob {
	j := NewDueDateJob(
		taskRepo,
		userRepo,
		mail,
		metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
		"https://boards.example.com",
		zap.NewNop(),
	)
	j.now = func() time.Time { return now }
	return j
}

func dueTask(due time.Time, assignees ...domain.User) *domain.Task {
	boardID := uuid.New()
	return &domain.Task{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		Title:      "Preparar informe",
		DueDate:    &due,
		AssignedTo: assignees,
		TaskList: domain.TaskList{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			BoardID:   boardID,
		},
	}
}

func TestDueDateJob_Run_DueSoonNotifiesAndStamps(t *testing.T) {
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	assignee := domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Username:  "asignado",
		Email:     "asignado@example.com",
	}
	task := dueTask(now.Add(6*time.Hour), assignee)

	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	mail := new(MockMailer)
	job := newDueDateJob(taskRepo, userRepo, mail, now)

	taskRepo.On("FindDueSoonUnnotified", mock.Anything, now, DueSoonWindow).Return([]*domain.Task{task}, nil)
	taskRepo.On("FindOverdueUnnotified", mock.Anything, now).Return([]*domain.Task{}, nil)
	userRepo.On("GetOrCreateProfile", mock.Anything, assignee.ID).Return(&domain.UserProfile{
		UserID:        assignee.ID,
		NotifyTaskDue: true,
	}, nil)
	mail.On("Send", "asignado@example.com", "La tarea \"Preparar informe\" vence pronto", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "Hola asignado") && strings.Contains(body, "https://boards.example.com/boards/")
	})).Return(nil)
	taskRepo.On("StampDueSoonNotified", mock.Anything, task.ID, now).Return(nil)

	job.Run()

	taskRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestDueDateJob_Run_OverdueUsesOverdueSubject(t *testing.T) {
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	assignee := domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Username:  "asignado",
		Email:     "asignado@example.com",
	}
	task := dueTask(now.Add(-48*time.Hour), assignee)

	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	mail := new(MockMailer)
	job := newDueDateJob(taskRepo, userRepo, mail, now)

	taskRepo.On("FindDueSoonUnnotified", mock.Anything, now, DueSoonWindow).Return([]*domain.Task{}, nil)
	taskRepo.On("FindOverdueUnnotified", mock.Anything, now).Return([]*domain.Task{task}, nil)
	userRepo.On("GetOrCreateProfile", mock.Anything, assignee.ID).Return(&domain.UserProfile{
		UserID:        assignee.ID,
		NotifyTaskDue: true,
	}, nil)
	mail.On("Send", "asignado@example.com", "La tarea \"Preparar informe\" está vencida", mock.Anything).Return(nil)
	taskRepo.On("StampOverdueNotified", mock.Anything, task.ID, now).Return(nil)

	job.Run()

	taskRepo.AssertExpectations(t)
	mail.AssertExpectations(t)
	taskRepo.AssertNotCalled(t, "StampDueSoonNotified")
}

func TestDueDateJob_Run_OptedOutRecipientSkipsStamp(t *testing.T) {
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	assignee := domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Username:  "asignado",
		Email:     "asignado@example.com",
	}
	task := dueTask(now.Add(6*time.Hour), assignee)

	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	mail := new(MockMailer)
	job := newDueDateJob(taskRepo, userRepo, mail, now)

	taskRepo.On("FindDueSoonUnnotified", mock.Anything, now, DueSoonWindow).Return([]*domain.Task{task}, nil)
	taskRepo.On("FindOverdueUnnotified", mock.Anything, now).Return([]*domain.Task{}, nil)
	userRepo.On("GetOrCreateProfile", mock.Anything, assignee.ID).Return(&domain.UserProfile{
		UserID:        assignee.ID,
		NotifyTaskDue: false,
	}, nil)

	job.Run()

	// No email went out, so the window keeps retrying on later sweeps
	mail.AssertNotCalled(t, "Send")
	taskRepo.AssertNotCalled(t, "StampDueSoonNotified")
}

func TestDueDateJob_Run_NoEmailAddressSkipsStamp(t *testing.T) {
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	assignee := domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Username:  "asignado",
		Email:     "",
	}
	task := dueTask(now.Add(6*time.Hour), assignee)

	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	mail := new(MockMailer)
	job := newDueDateJob(taskRepo, userRepo, mail, now)

	taskRepo.On("FindDueSoonUnnotified", mock.Anything, now, DueSoonWindow).Return([]*domain.Task{task}, nil)
	taskRepo.On("FindOverdueUnnotified", mock.Anything, now).Return([]*domain.Task{}, nil)

	job.Run()

	userRepo.AssertNotCalled(t, "GetOrCreateProfile")
	mail.AssertNotCalled(t, "Send")
	taskRepo.AssertNotCalled(t, "StampDueSoonNotified")
}

func TestDueDateJob_Run_SendFailureSkipsStamp(t *testing.T) {
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	assignee := domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Username:  "asignado",
		Email:     "asignado@example.com",
	}
	task := dueTask(now.Add(6*time.Hour), assignee)

	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	mail := new(MockMailer)
	job := newDueDateJob(taskRepo, userRepo, mail, now)

	taskRepo.On("FindDueSoonUnnotified", mock.Anything, now, DueSoonWindow).Return([]*domain.Task{task}, nil)
	taskRepo.On("FindOverdueUnnotified", mock.Anything, now).Return([]*domain.Task{}, nil)
	userRepo.On("GetOrCreateProfile", mock.Anything, assignee.ID).Return(&domain.UserProfile{
		UserID:        assignee.ID,
		NotifyTaskDue: true,
	}, nil)
	mail.On("Send", "asignado@example.com", mock.Anything, mock.Anything).Return(errors.New("smtp unreachable"))

	job.Run()

	mail.AssertExpectations(t)
	taskRepo.AssertNotCalled(t, "StampDueSoonNotified")
}

func TestDueDateJob_Run_PartialDeliveryStillStamps(t *testing.T) {
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	first := domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Username:  "primero",
		Email:     "primero@example.com",
	}
	second := domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Username:  "segundo",
		Email:     "segundo@example.com",
	}
	task := dueTask(now.Add(6*time.Hour), first, second)

	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	mail := new(MockMailer)
	job := newDueDateJob(taskRepo, userRepo, mail, now)

	taskRepo.On("FindDueSoonUnnotified", mock.Anything, now, DueSoonWindow).Return([]*domain.Task{task}, nil)
	taskRepo.On("FindOverdueUnnotified", mock.Anything, now).Return([]*domain.Task{}, nil)
	userRepo.On("GetOrCreateProfile", mock.Anything, first.ID).Return(&domain.UserProfile{
		UserID:        first.ID,
		NotifyTaskDue: true,
	}, nil)
	userRepo.On("GetOrCreateProfile", mock.Anything, second.ID).Return(&domain.UserProfile{
		UserID:        second.ID,
		NotifyTaskDue: true,
	}, nil)
	mail.On("Send", "primero@example.com", mock.Anything, mock.Anything).Return(errors.New("mailbox full"))
	mail.On("Send", "segundo@example.com", mock.Anything, mock.Anything).Return(nil)
	taskRepo.On("StampDueSoonNotified", mock.Anything, task.ID, now).Return(nil)

	job.Run()

	taskRepo.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestDueDateJob_Run_FindErrorAborts(t *testing.T) {
	now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)

	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	mail := new(MockMailer)
	job := newDueDateJob(taskRepo, userRepo, mail, now)

	taskRepo.On("FindDueSoonUnnotified", mock.Anything, now, DueSoonWindow).Return(nil, errors.New("db down"))

	job.Run()

	taskRepo.AssertNotCalled(t, "FindOverdueUnnotified")
	mail.AssertNotCalled(t, "Send")
}
