package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"vox-ai/pkg/models"
)

// fakeStaleRepo отдает заранее заданный список зависших заданий
// и записывает переводы в failed
type fakeStaleRepo struct {
	stale   []*models.Job
	err     error
	failed  map[string]string
	markErr map[string]error
}

func newFakeStaleRepo(stale ...*models.Job) *fakeStaleRepo {
	return &fakeStaleRepo{
		stale:   stale,
		failed:  make(map[string]string),
		markErr: make(map[string]error),
	}
}

func (f *fakeStaleRepo) GetStalePending(ctx context.Context, olderThan time.Duration) ([]*models.Job, error) {
	return f.stale, f.err
}

func (f *fakeStaleRepo) MarkFailed(ctx context.Context, id string, reason string) (bool, error) {
	if err := f.markErr[id]; err != nil {
		return false, err
	}
	f.failed[id] = reason
	return true, nil
}

func TestStaleJobsRun(t *testing.T) {
	repo := newFakeStaleRepo(
		&models.Job{ID: "job-1", Status: models.JobStatusPending},
		&models.Job{ID: "job-2", Status: models.JobStatusPending},
	)
	job := NewStaleJobsJob(repo, 30*time.Minute, zap.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(repo.failed) != 2 {
		t.Errorf("ожидалось 2 перевода в failed, выполнено %d", len(repo.failed))
	}

	// Причина объясняет, почему задание закрыто
	reason := repo.failed["job-1"]
	if reason == "" {
		t.Fatal("причина не записана")
	}
	if reason != "задание зависло в статусе pending дольше 30m0s" {
		t.Errorf("неверная причина: '%s'", reason)
	}
}

func TestStaleJobsRun_Empty(t *testing.T) {
	repo := newFakeStaleRepo()
	job := NewStaleJobsJob(repo, 30*time.Minute, zap.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(repo.failed) != 0 {
		t.Errorf("не должно быть переводов в failed, выполнено %d", len(repo.failed))
	}
}

func TestStaleJobsRun_RepoError(t *testing.T) {
	repo := newFakeStaleRepo()
	repo.err = errors.New("база недоступна")
	job := NewStaleJobsJob(repo, 30*time.Minute, zap.NewNop())

	if err := job.Run(context.Background()); err == nil {
		t.Error("ожидалась ошибка при недоступной базе")
	}
}

func TestStaleJobsRun_PartialFailure(t *testing.T) {
	repo := newFakeStaleRepo(
		&models.Job{ID: "job-1", Status: models.JobStatusPending},
		&models.Job{ID: "job-2", Status: models.JobStatusPending},
	)
	repo.markErr["job-1"] = errors.New("конфликт записи")
	job := NewStaleJobsJob(repo, 30*time.Minute, zap.NewNop())

	// Ошибка одного задания не прерывает уборку остальных
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if _, ok := repo.failed["job-2"]; !ok {
		t.Error("второе задание должно быть переведено в failed")
	}
}
