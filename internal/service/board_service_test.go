package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
)

func newBoardService(
	boardRepo *MockBoardRepository,
	membershipRepo *MockMembershipRepository,
	taskListRepo *MockTaskListRepository,
	taskRepo *MockTaskRepository,
	activityRepo *MockActivityRepository,
	memberSvc MemberService,
	cache ProgressCache,
) BoardService {
	return NewBoardService(boardRepo, membershipRepo, taskListRepo, taskRepo, activityRepo, memberSvc, cache, newTestMetrics(), zap.NewNop())
}

func TestBoardService_CreateBoard(t *testing.T) {
	userID := uuid.New()

	t.Run("creates board with owner membership", func(t *testing.T) {
		var createdMembership *domain.BoardMembership
		boardRepo := &MockBoardRepository{
			CreateFunc: func(ctx context.Context, board *domain.Board) error {
				board.ID = uuid.New()
				return nil
			},
		}
		membershipRepo := &MockMembershipRepository{
			CreateFunc: func(ctx context.Context, membership *domain.BoardMembership) error {
				createdMembership = membership
				return nil
			},
		}
		activityRepo := &MockActivityRepository{}
		svc := newBoardService(boardRepo, membershipRepo, &MockTaskListRepository{}, &MockTaskRepository{}, activityRepo, &MockMemberService{}, newRecordingProgressCache())

		got, err := svc.CreateBoard(ctxWithUser(userID), &dto.CreateBoardRequest{Title: "Proyecto web", Description: "Rediseño"})
		if err != nil {
			t.Fatalf("CreateBoard() unexpected error = %v", err)
		}
		if got.Title != "Proyecto web" {
			t.Errorf("CreateBoard() Title = %v, want Proyecto web", got.Title)
		}
		if got.Role != string(domain.RoleOwner) {
			t.Errorf("CreateBoard() Role = %v, want owner", got.Role)
		}
		if createdMembership == nil || createdMembership.UserID != userID || createdMembership.Role != domain.RoleOwner {
			t.Errorf("CreateBoard() membership = %+v, want owner membership for creator", createdMembership)
		}
		if len(activityRepo.Recorded) != 1 || activityRepo.Recorded[0].Action != domain.ActionBoardCreated {
			t.Errorf("CreateBoard() activity = %+v, want one %q record", activityRepo.Recorded, domain.ActionBoardCreated)
		}
	})

	t.Run("rolls the board back when the membership insert fails", func(t *testing.T) {
		boardID := uuid.New()
		deleted := false
		boardRepo := &MockBoardRepository{
			CreateFunc: func(ctx context.Context, board *domain.Board) error {
				board.ID = boardID
				return nil
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				if id == boardID {
					deleted = true
				}
				return nil
			},
		}
		membershipRepo := &MockMembershipRepository{
			CreateFunc: func(ctx context.Context, membership *domain.BoardMembership) error {
				return errors.New("constraint violation")
			},
		}
		svc := newBoardService(boardRepo, membershipRepo, &MockTaskListRepository{}, &MockTaskRepository{}, &MockActivityRepository{}, &MockMemberService{}, newRecordingProgressCache())

		_, err := svc.CreateBoard(ctxWithUser(userID), &dto.CreateBoardRequest{Title: "Proyecto web"})
		if err == nil {
			t.Fatal("CreateBoard() error = nil, want error")
		}
		if !deleted {
			t.Error("CreateBoard() did not delete the orphaned board")
		}
	})

	t.Run("rejects an unauthenticated context", func(t *testing.T) {
		svc := newBoardService(&MockBoardRepository{}, &MockMembershipRepository{}, &MockTaskListRepository{}, &MockTaskRepository{}, &MockActivityRepository{}, &MockMemberService{}, newRecordingProgressCache())

		_, err := svc.CreateBoard(context.Background(), &dto.CreateBoardRequest{Title: "Proyecto web"})
		if appErr, ok := err.(*response.AppError); !ok || appErr.Code != response.ErrCodeUnauthorized {
			t.Errorf("CreateBoard() error = %v, want code %v", err, response.ErrCodeUnauthorized)
		}
	})
}

func TestBoardService_GetBoard_Progress(t *testing.T) {
	boardID := uuid.New()
	userID := uuid.New()

	doneList := &domain.TaskList{BoardID: boardID, Title: "Completadas", Position: 2}
	doneList.ID = uuid.New()
	todoList := &domain.TaskList{BoardID: boardID, Title: "Por hacer", Position: 0}
	todoList.ID = uuid.New()

	newTask := func(listID uuid.UUID, tags ...domain.Tag) *domain.Task {
		task := &domain.Task{TaskListID: listID, Title: "t", Priority: domain.PriorityMedium, Tags: tags}
		task.ID = uuid.New()
		return task
	}
	tag := domain.Tag{Name: "urgente", Color: "#f8d7da"}
	tag.ID = uuid.New()

	tasks := []*domain.Task{
		newTask(todoList.ID, tag),
		newTask(todoList.ID),
		newTask(doneList.ID),
	}

	buildService := func(cache ProgressCache) BoardService {
		boardRepo := &MockBoardRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
				board := &domain.Board{Title: "Proyecto web", OwnerID: userID}
				board.ID = boardID
				return board, nil
			},
		}
		taskListRepo := &MockTaskListRepository{
			FindByBoardIDFunc: func(ctx context.Context, id uuid.UUID) ([]*domain.TaskList, error) {
				return []*domain.TaskList{todoList, doneList}, nil
			},
		}
		taskRepo := &MockTaskRepository{
			FindByBoardIDFunc: func(ctx context.Context, id uuid.UUID) ([]*domain.Task, error) {
				return tasks, nil
			},
		}
		return newBoardService(boardRepo, &MockMembershipRepository{}, taskListRepo, taskRepo, &MockActivityRepository{}, &MockMemberService{}, cache)
	}

	t.Run("computes and caches the completion summary", func(t *testing.T) {
		cache := newRecordingProgressCache()
		svc := buildService(cache)

		got, err := svc.GetBoard(ctxWithUser(userID), boardID, nil)
		if err != nil {
			t.Fatalf("GetBoard() unexpected error = %v", err)
		}
		if got.Progress.TotalTasks != 3 || got.Progress.DoneTasks != 1 || got.Progress.Percent != 33 {
			t.Errorf("GetBoard() progress = %+v, want 1/3 done at 33%%", got.Progress)
		}
		if cached, ok := cache.Get(context.Background(), boardID); !ok || cached.Percent != 33 {
			t.Errorf("GetBoard() cache entry = %+v, want 33%%", cached)
		}
	})

	t.Run("serves a cached summary without recomputing", func(t *testing.T) {
		cache := newRecordingProgressCache()
		cache.Set(context.Background(), boardID, &dto.BoardProgressResponse{TotalTasks: 10, DoneTasks: 5, Percent: 50})
		svc := buildService(cache)

		got, err := svc.GetBoard(ctxWithUser(userID), boardID, nil)
		if err != nil {
			t.Fatalf("GetBoard() unexpected error = %v", err)
		}
		if got.Progress.Percent != 50 {
			t.Errorf("GetBoard() progress = %+v, want the cached 50%%", got.Progress)
		}
	})

	t.Run("tag filter narrows tasks but not progress", func(t *testing.T) {
		svc := buildService(newRecordingProgressCache())

		got, err := svc.GetBoard(ctxWithUser(userID), boardID, &tag.ID)
		if err != nil {
			t.Fatalf("GetBoard() unexpected error = %v", err)
		}
		visible := 0
		for _, list := range got.Lists {
			visible += len(list.Tasks)
		}
		if visible != 1 {
			t.Errorf("GetBoard() visible tasks = %d, want 1 after the tag filter", visible)
		}
		if got.Progress.TotalTasks != 3 {
			t.Errorf("GetBoard() progress covers %d tasks, want all 3 regardless of the filter", got.Progress.TotalTasks)
		}
		if got.ActiveTagID == nil || *got.ActiveTagID != tag.ID {
			t.Errorf("GetBoard() ActiveTagID = %v, want %v", got.ActiveTagID, tag.ID)
		}
	})

	t.Run("lists carry status keys and empty task slices", func(t *testing.T) {
		svc := buildService(newRecordingProgressCache())

		got, err := svc.GetBoard(ctxWithUser(userID), boardID, nil)
		if err != nil {
			t.Fatalf("GetBoard() unexpected error = %v", err)
		}
		if len(got.Lists) != 2 {
			t.Fatalf("GetBoard() lists = %d, want 2", len(got.Lists))
		}
		if got.Lists[0].StatusKey != "todo" || got.Lists[1].StatusKey != "done" {
			t.Errorf("GetBoard() status keys = %v/%v, want todo/done", got.Lists[0].StatusKey, got.Lists[1].StatusKey)
		}
		for _, list := range got.Lists {
			if list.Tasks == nil {
				t.Errorf("GetBoard() list %q has a nil task slice", list.Title)
			}
		}
		if len(got.BoardTags) != 1 || got.BoardTags[0].Name != "urgente" {
			t.Errorf("GetBoard() board tags = %+v, want the single urgente tag", got.BoardTags)
		}
	})
}

func TestBoardService_DeleteBoard(t *testing.T) {
	boardID := uuid.New()
	userID := uuid.New()

	t.Run("owner deletes and the cache entry is dropped", func(t *testing.T) {
		cache := newRecordingProgressCache()
		svc := newBoardService(&MockBoardRepository{}, &MockMembershipRepository{}, &MockTaskListRepository{}, &MockTaskRepository{}, &MockActivityRepository{}, &MockMemberService{}, cache)

		if err := svc.DeleteBoard(ctxWithUser(userID), boardID); err != nil {
			t.Fatalf("DeleteBoard() unexpected error = %v", err)
		}
		if len(cache.Invalidated) != 1 || cache.Invalidated[0] != boardID {
			t.Errorf("DeleteBoard() invalidations = %v, want [%v]", cache.Invalidated, boardID)
		}
	})

	t.Run("non owner is refused", func(t *testing.T) {
		memberSvc := &MockMemberService{
			AuthorizeFunc: func(ctx context.Context, b uuid.UUID, required ...domain.Role) (*domain.BoardMembership, error) {
				return nil, response.NewAppError(response.ErrCodeForbidden, "Insufficient role for this operation", "")
			},
		}
		deleted := false
		boardRepo := &MockBoardRepository{
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		svc := newBoardService(boardRepo, &MockMembershipRepository{}, &MockTaskListRepository{}, &MockTaskRepository{}, &MockActivityRepository{}, memberSvc, newRecordingProgressCache())

		err := svc.DeleteBoard(ctxWithUser(userID), boardID)
		if appErr, ok := err.(*response.AppError); !ok || appErr.Code != response.ErrCodeForbidden {
			t.Errorf("DeleteBoard() error = %v, want code %v", err, response.ErrCodeForbidden)
		}
		if deleted {
			t.Error("DeleteBoard() deleted the board despite the failed authorization")
		}
	})
}
