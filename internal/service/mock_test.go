package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/metrics"
)

// ctxWithUser returns a context carrying the authenticated user the way the
// auth middleware does
func ctxWithUser(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), "user_id", userID)
}

// newTestMetrics returns an isolated metrics instance so parallel tests do
// not fight over the default registry
func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc       func(ctx context.Context, board *domain.Board) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByMemberFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	UpdateFunc       func(ctx context.Context, board *domain.Board) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	if m.FindByMemberFunc != nil {
		return m.FindByMemberFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	CreateFunc             func(ctx context.Context, membership *domain.BoardMembership) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.BoardMembership, error)
	FindByBoardAndUserFunc func(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMembership, error)
	FindByBoardIDFunc      func(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMembership, error)
	FindMemberUserIDsFunc  func(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error)
	UpdateFunc             func(ctx context.Context, membership *domain.BoardMembership) error
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *domain.BoardMembership) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, membership)
	}
	return nil
}

func (m *MockMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.BoardMembership, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMembership, error) {
	if m.FindByBoardAndUserFunc != nil {
		return m.FindByBoardAndUserFunc(ctx, boardID, userID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMembership, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindMemberUserIDs(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error) {
	if m.FindMemberUserIDsFunc != nil {
		return m.FindMemberUserIDsFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) Update(ctx context.Context, membership *domain.BoardMembership) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, membership)
	}
	return nil
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc                 func(ctx context.Context, user *domain.User) error
	FindByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsernameFunc         func(ctx context.Context, username string) (*domain.User, error)
	FindByEmailFunc            func(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameAndEmailFunc func(ctx context.Context, username, email string) (*domain.User, error)
	UpdateFunc                 func(ctx context.Context, user *domain.User) error
	GetOrCreateProfileFunc     func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	UpdateProfileFunc          func(ctx context.Context, profile *domain.UserProfile) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*domain.User, error) {
	if m.FindByUsernameAndEmailFunc != nil {
		return m.FindByUsernameAndEmailFunc(ctx, username, email)
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	if m.GetOrCreateProfileFunc != nil {
		return m.GetOrCreateProfileFunc(ctx, userID)
	}
	return &domain.UserProfile{UserID: userID, NotifyTaskAssigned: true, NotifyTaskDue: true, NotifyTaskStatus: true}, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, profile)
	}
	return nil
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mu sync.Mutex

	CreateFunc            func(ctx context.Context, activity *domain.Activity) error
	FindRecentByBoardFunc func(ctx context.Context, boardID uuid.UUID, action string, limit int) ([]*domain.Activity, error)
	FindByBoardIDFunc     func(ctx context.Context, boardID uuid.UUID) ([]*domain.Activity, error)

	// Recorded collects every Create call for assertions
	Recorded []*domain.Activity
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	m.mu.Lock()
	m.Recorded = append(m.Recorded, activity)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, activity)
	}
	return nil
}

func (m *MockActivityRepository) FindRecentByBoard(ctx context.Context, boardID uuid.UUID, action string, limit int) ([]*domain.Activity, error) {
	if m.FindRecentByBoardFunc != nil {
		return m.FindRecentByBoardFunc(ctx, boardID, action, limit)
	}
	return nil, nil
}

func (m *MockActivityRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Activity, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

// MockTaskListRepository is a mock implementation of TaskListRepository
type MockTaskListRepository struct {
	CreateFunc        func(ctx context.Context, list *domain.TaskList) error
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.TaskList, error)
	FindByBoardIDFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.TaskList, error)
	CountByBoardFunc  func(ctx context.Context, boardID uuid.UUID) (int64, error)
	UpdateFunc        func(ctx context.Context, list *domain.TaskList) error
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error
}

func (m *MockTaskListRepository) Create(ctx context.Context, list *domain.TaskList) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, list)
	}
	return nil
}

func (m *MockTaskListRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskList, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskListRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.TaskList, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockTaskListRepository) CountByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	if m.CountByBoardFunc != nil {
		return m.CountByBoardFunc(ctx, boardID)
	}
	return 0, nil
}

func (m *MockTaskListRepository) Update(ctx context.Context, list *domain.TaskList) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, list)
	}
	return nil
}

func (m *MockTaskListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	CreateFunc                func(ctx context.Context, task *domain.Task) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByBoardIDFunc         func(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	CountByListFunc           func(ctx context.Context, listID uuid.UUID) (int64, error)
	UpdateFunc                func(ctx context.Context, task *domain.Task) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error
	MoveToListFunc            func(ctx context.Context, taskID, listID uuid.UUID) error
	ReplaceTagsFunc           func(ctx context.Context, task *domain.Task, tags []domain.Tag) error
	ReplaceAssigneesFunc      func(ctx context.Context, task *domain.Task, users []domain.User) error
	FindDueSoonUnnotifiedFunc func(ctx context.Context, now time.Time, window time.Duration) ([]*domain.Task, error)
	FindOverdueUnnotifiedFunc func(ctx context.Context, now time.Time) ([]*domain.Task, error)
	StampDueSoonNotifiedFunc  func(ctx context.Context, taskID uuid.UUID, at time.Time) error
	StampOverdueNotifiedFunc  func(ctx context.Context, taskID uuid.UUID, at time.Time) error
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockTaskRepository) CountByList(ctx context.Context, listID uuid.UUID) (int64, error) {
	if m.CountByListFunc != nil {
		return m.CountByListFunc(ctx, listID)
	}
	return 0, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) MoveToList(ctx context.Context, taskID, listID uuid.UUID) error {
	if m.MoveToListFunc != nil {
		return m.MoveToListFunc(ctx, taskID, listID)
	}
	return nil
}

func (m *MockTaskRepository) ReplaceTags(ctx context.Context, task *domain.Task, tags []domain.Tag) error {
	if m.ReplaceTagsFunc != nil {
		return m.ReplaceTagsFunc(ctx, task, tags)
	}
	return nil
}

func (m *MockTaskRepository) ReplaceAssignees(ctx context.Context, task *domain.Task, users []domain.User) error {
	if m.ReplaceAssigneesFunc != nil {
		return m.ReplaceAssigneesFunc(ctx, task, users)
	}
	return nil
}

func (m *MockTaskRepository) FindDueSoonUnnotified(ctx context.Context, now time.Time, window time.Duration) ([]*domain.Task, error) {
	if m.FindDueSoonUnnotifiedFunc != nil {
		return m.FindDueSoonUnnotifiedFunc(ctx, now, window)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindOverdueUnnotified(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	if m.FindOverdueUnnotifiedFunc != nil {
		return m.FindOverdueUnnotifiedFunc(ctx, now)
	}
	return nil, nil
}

func (m *MockTaskRepository) StampDueSoonNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	if m.StampDueSoonNotifiedFunc != nil {
		return m.StampDueSoonNotifiedFunc(ctx, taskID, at)
	}
	return nil
}

func (m *MockTaskRepository) StampOverdueNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	if m.StampOverdueNotifiedFunc != nil {
		return m.StampOverdueNotifiedFunc(ctx, taskID, at)
	}
	return nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	CreateFunc    func(ctx context.Context, tag *domain.Tag) error
	FindAllFunc   func(ctx context.Context) ([]*domain.Tag, error)
	FindByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]*domain.Tag, error)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tag)
	}
	return nil
}

func (m *MockTagRepository) FindAll(ctx context.Context) ([]*domain.Tag, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Tag, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

// MockInviteRepository is a mock implementation of InviteRepository
type MockInviteRepository struct {
	CreateFunc                   func(ctx context.Context, invite *domain.BoardInvite) error
	UpdateFunc                   func(ctx context.Context, invite *domain.BoardInvite) error
	FindByIDFunc                 func(ctx context.Context, id uuid.UUID) (*domain.BoardInvite, error)
	FindByBoardUsernameEmailFunc func(ctx context.Context, boardID uuid.UUID, username, email string) (*domain.BoardInvite, error)
	FindByBoardIDFunc            func(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardInvite, error)
	DeleteFunc                   func(ctx context.Context, id uuid.UUID) error
}

func (m *MockInviteRepository) Create(ctx context.Context, invite *domain.BoardInvite) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, invite)
	}
	return nil
}

func (m *MockInviteRepository) Update(ctx context.Context, invite *domain.BoardInvite) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, invite)
	}
	return nil
}

func (m *MockInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.BoardInvite, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockInviteRepository) FindByBoardUsernameEmail(ctx context.Context, boardID uuid.UUID, username, email string) (*domain.BoardInvite, error) {
	if m.FindByBoardUsernameEmailFunc != nil {
		return m.FindByBoardUsernameEmailFunc(ctx, boardID, username, email)
	}
	return nil, nil
}

func (m *MockInviteRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardInvite, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockInviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockMemberService is a mock implementation of MemberService
type MockMemberService struct {
	AuthorizeFunc    func(ctx context.Context, boardID uuid.UUID, required ...domain.Role) (*domain.BoardMembership, error)
	ListMembersFunc  func(ctx context.Context, boardID uuid.UUID) ([]dto.MemberResponse, error)
	AddMemberFunc    func(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	UpdateRoleFunc   func(ctx context.Context, boardID, membershipID uuid.UUID, req *dto.UpdateMemberRoleRequest) (*dto.MemberResponse, error)
	RemoveMemberFunc func(ctx context.Context, boardID, membershipID uuid.UUID) error
}

func (m *MockMemberService) Authorize(ctx context.Context, boardID uuid.UUID, required ...domain.Role) (*domain.BoardMembership, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, boardID, required...)
	}
	return &domain.BoardMembership{BoardID: boardID, Role: domain.RoleOwner}, nil
}

func (m *MockMemberService) ListMembers(ctx context.Context, boardID uuid.UUID) ([]dto.MemberResponse, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockMemberService) AddMember(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, boardID, req)
	}
	return nil, nil
}

func (m *MockMemberService) UpdateRole(ctx context.Context, boardID, membershipID uuid.UUID, req *dto.UpdateMemberRoleRequest) (*dto.MemberResponse, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, boardID, membershipID, req)
	}
	return nil, nil
}

func (m *MockMemberService) RemoveMember(ctx context.Context, boardID, membershipID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, boardID, membershipID)
	}
	return nil
}

// MockMailer records outgoing mail for assertions
type MockMailer struct {
	mu sync.Mutex

	SendFunc func(to, subject, body string) error
	Sent     []MockEmail
}

// MockEmail is one captured message
type MockEmail struct {
	To      string
	Subject string
	Body    string
}

func (m *MockMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, MockEmail{To: to, Subject: subject, Body: body})
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(to, subject, body)
	}
	return nil
}

// SentCount returns the number of captured messages
func (m *MockMailer) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// recordingProgressCache tracks invalidations for assertions
type recordingProgressCache struct {
	mu sync.Mutex

	entries     map[uuid.UUID]*dto.BoardProgressResponse
	Invalidated []uuid.UUID
}

func newRecordingProgressCache() *recordingProgressCache {
	return &recordingProgressCache{entries: make(map[uuid.UUID]*dto.BoardProgressResponse)}
}

func (c *recordingProgressCache) Get(ctx context.Context, boardID uuid.UUID) (*dto.BoardProgressResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	progress, ok := c.entries[boardID]
	return progress, ok
}

func (c *recordingProgressCache) Set(ctx context.Context, boardID uuid.UUID, progress *dto.BoardProgressResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[boardID] = progress
}

func (c *recordingProgressCache) Invalidate(ctx context.Context, boardID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, boardID)
	c.Invalidated = append(c.Invalidated, boardID)
}
