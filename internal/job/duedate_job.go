package job

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/mailer"
	"github.com/dclair/task-master/internal/metrics"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/util"
)

// DueSoonWindow is how far ahead the sweep looks for upcoming due dates
const DueSoonWindow = 24 * time.Hour

// DueDateJob sweeps tasks through two disjoint notification windows:
// due soon (now < due <= now+24h) and overdue (due < now). Each window
// fires at most once per task; the per-window timestamp is stamped only
// after at least one email actually went out, so a task with no reachable
// recipients is retried on the next sweep.
type DueDateJob struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	mail     mailer.Mailer
	metrics  *metrics.Metrics
	siteURL  string
	logger   *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewDueDateJob creates a new DueDateJob instance
func NewDueDateJob(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	mail mailer.Mailer,
	m *metrics.Metrics,
	siteURL string,
	logger *zap.Logger,
) *DueDateJob {
	return &DueDateJob{
		taskRepo: taskRepo,
		userRepo: userRepo,
		mail:     mail,
		metrics:  m,
		siteURL:  siteURL,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one sweep over both windows
func (j *DueDateJob) Run() {
	ctx := context.Background()
	now := j.now()

	j.logger.Info("Starting due-date sweep")

	dueSoon, err := j.taskRepo.FindDueSoonUnnotified(ctx, now, DueSoonWindow)
	if err != nil {
		j.logger.Error("Failed to find due-soon tasks", zap.Error(err))
		return
	}

	overdue, err := j.taskRepo.FindOverdueUnnotified(ctx, now)
	if err != nil {
		j.logger.Error("Failed to find overdue tasks", zap.Error(err))
		return
	}

	dueSoonNotified := 0
	for _, task := range dueSoon {
		if j.notifyTask(ctx, task, "due_soon") {
			if err := j.taskRepo.StampDueSoonNotified(ctx, task.ID, now); err != nil {
				j.logger.Error("Failed to stamp due-soon notification",
					zap.String("task_id", task.ID.String()),
					zap.Error(err),
				)
				continue
			}
			dueSoonNotified++
		}
	}

	overdueNotified := 0
	for _, task := range overdue {
		if j.notifyTask(ctx, task, "overdue") {
			if err := j.taskRepo.StampOverdueNotified(ctx, task.ID, now); err != nil {
				j.logger.Error("Failed to stamp overdue notification",
					zap.String("task_id", task.ID.String()),
					zap.Error(err),
				)
				continue
			}
			overdueNotified++
		}
	}

	j.logger.Info("Due-date sweep completed",
		zap.Int("due_soon_candidates", len(dueSoon)),
		zap.Int("due_soon_notified", dueSoonNotified),
		zap.Int("overdue_candidates", len(overdue)),
		zap.Int("overdue_notified", overdueNotified),
	)
}

// notifyTask emails the task's opted-in assignees for one window and
// reports whether at least one email was delivered
func (j *DueDateJob) notifyTask(ctx context.Context, task *domain.Task, kind string) bool {
	boardURL := util.BuildBoardURL(j.siteURL, task.TaskList.BoardID)

	sent := 0
	for _, user := range task.AssignedTo {
		if user.Email == "" {
			continue
		}
		profile, err := j.userRepo.GetOrCreateProfile(ctx, user.ID)
		if err != nil {
			j.logger.Warn("Failed to load profile for notification",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if !profile.NotifyTaskDue {
			continue
		}

		subject, body := j.composeEmail(task, user.Username, kind, boardURL)
		err = j.mail.Send(user.Email, subject, body)
		j.metrics.RecordNotificationEmail(kind, err)
		if err != nil {
			j.logger.Warn("Failed to send due-date email",
				zap.String("task_id", task.ID.String()),
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	return sent > 0
}

func (j *DueDateJob) composeEmail(task *domain.Task, username, kind, boardURL string) (string, string) {
	due := ""
	if task.DueDate != nil {
		due = task.DueDate.Format("2006-01-02 15:04")
	}

	if kind == "due_soon" {
		subject := fmt.Sprintf("La tarea \"%s\" vence pronto", task.Title)
		body := fmt.Sprintf("Hola %s,\n\nLa tarea \"%s\" vence el %s.\n\n%s\n", username, task.Title, due, boardURL)
		return subject, body
	}

	subject := fmt.Sprintf("La tarea \"%s\" está vencida", task.Title)
	body := fmt.Sprintf("Hola %s,\n\nLa tarea \"%s\" venció el %s.\n\n%s\n", username, task.Title, due, boardURL)
	return subject, body
}
