package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
)

// taskExportHeader is the fixed column order of the tasks CSV. Consumers
// parse it by name, so it must never change.
var taskExportHeader = []string{
	"id", "title", "description", "priority", "due_date",
	"list", "list_id", "created_by", "created_by_id",
	"assigned_to", "assigned_to_ids", "tags", "tags_ids",
	"created_at", "position",
}

// ExportService defines the interface for board data exports
type ExportService interface {
	ExportTasksCSV(ctx context.Context, boardID uuid.UUID, w io.Writer) error
	BuildTasksExport(ctx context.Context, boardID uuid.UUID) (*dto.BoardExport, error)
	ExportActivityCSV(ctx context.Context, boardID uuid.UUID, w io.Writer) error
}

// exportServiceImpl is the implementation of ExportService
type exportServiceImpl struct {
	boardRepo    repository.BoardRepository
	taskRepo     repository.TaskRepository
	activityRepo repository.ActivityRepository
	memberSvc    MemberService
}

// NewExportService creates a new instance of ExportService
func NewExportService(
	boardRepo repository.BoardRepository,
	taskRepo repository.TaskRepository,
	activityRepo repository.ActivityRepository,
	memberSvc MemberService,
) ExportService {
	return &exportServiceImpl{
		boardRepo:    boardRepo,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		memberSvc:    memberSvc,
	}
}

// ExportTasksCSV streams the board's tasks as CSV. Any member may export.
func (s *exportServiceImpl) ExportTasksCSV(ctx context.Context, boardID uuid.UUID, w io.Writer) error {
	export, err := s.BuildTasksExport(ctx, boardID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(taskExportHeader); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to write export", err.Error())
	}

	for _, rec := range export.Tasks {
		row := []string{
			rec.ID.String(),
			rec.Title,
			rec.Description,
			rec.Priority,
			formatTime(rec.DueDate),
			rec.List,
			rec.ListID.String(),
			rec.CreatedBy,
			formatUUIDPtr(rec.CreatedByID),
			strings.Join(rec.AssignedTo, ","),
			joinUUIDs(rec.AssignedToIDs),
			strings.Join(rec.Tags, ","),
			joinUUIDs(rec.TagIDs),
			rec.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(rec.Position),
		}
		if err := cw.Write(row); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to write export", err.Error())
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to write export", err.Error())
	}
	return nil
}

// BuildTasksExport assembles the export records backing both formats.
// Tasks appear in board order: list position, then task position, then age.
func (s *exportServiceImpl) BuildTasksExport(ctx context.Context, boardID uuid.UUID) (*dto.BoardExport, error) {
	if _, err := s.memberSvc.Authorize(ctx, boardID, domain.MemberRoles()...); err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board", err.Error())
	}

	tasks, err := s.taskRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks", err.Error())
	}

	records := make([]dto.TaskExportRecord, 0, len(tasks))
	for _, task := range tasks {
		rec := dto.TaskExportRecord{
			ID:            task.ID,
			Title:         task.Title,
			Description:   task.Description,
			Priority:      string(task.Priority),
			DueDate:       task.DueDate,
			List:          task.TaskList.Title,
			ListID:        task.TaskListID,
			CreatedByID:   task.CreatedByID,
			AssignedTo:    []string{},
			AssignedToIDs: []uuid.UUID{},
			Tags:          []string{},
			TagIDs:        []uuid.UUID{},
			CreatedAt:     task.CreatedAt,
			Position:      task.Position,
		}
		if task.CreatedBy != nil {
			rec.CreatedBy = task.CreatedBy.Username
		}
		for _, u := range task.AssignedTo {
			rec.AssignedTo = append(rec.AssignedTo, u.Username)
			rec.AssignedToIDs = append(rec.AssignedToIDs, u.ID)
		}
		for _, t := range task.Tags {
			rec.Tags = append(rec.Tags, t.Name)
			rec.TagIDs = append(rec.TagIDs, t.ID)
		}
		records = append(records, rec)
	}

	return &dto.BoardExport{
		BoardID:    board.ID,
		BoardTitle: board.Title,
		ExportedAt: time.Now().UTC(),
		Tasks:      records,
	}, nil
}

// ExportActivityCSV streams the board's full activity trail as CSV
func (s *exportServiceImpl) ExportActivityCSV(ctx context.Context, boardID uuid.UUID, w io.Writer) error {
	if _, err := s.memberSvc.Authorize(ctx, boardID, domain.MemberRoles()...); err != nil {
		return err
	}

	activities, err := s.activityRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to load activity", err.Error())
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "action", "details", "user", "user_id", "created_at"}); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to write export", err.Error())
	}

	for _, a := range activities {
		username := ""
		if a.User != nil {
			username = a.User.Username
		}
		row := []string{
			a.ID.String(),
			a.Action,
			a.Details,
			username,
			formatUUIDPtr(a.UserID),
			a.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to write export", err.Error())
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to write export", err.Error())
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatUUIDPtr(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func joinUUIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}
