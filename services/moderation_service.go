package services

import (
	"context"

	"go.uber.org/zap"

	"tabor-blooms-api/models"
	"tabor-blooms-api/repository"
)

// deleteActor marks who performed a soft delete. There is only one
// kind of actor today.
const deleteActor = "admin"

// ModerationService is the admin-facing facade: dashboard stats plus
// the delete operations, with nothing cached between calls.
type ModerationService struct {
	repo   *repository.ForumRepository
	logger *zap.Logger
}

func NewModerationService(repo *repository.ForumRepository, logger *zap.Logger) *ModerationService {
	return &ModerationService{repo: repo, logger: logger}
}

func (ms *ModerationService) Stats(ctx context.Context) models.AdminStats {
	return ms.repo.Stats(ctx)
}

// DeletePost soft-deletes on behalf of the admin. The repository
// stamps who and when.
func (ms *ModerationService) DeletePost(ctx context.Context, id string) (bool, error) {
	ok, err := ms.repo.DeletePost(ctx, id, deleteActor)
	if err != nil {
		return false, err
	}
	if ok {
		ms.logger.Info("post soft-deleted", zap.String("post_id", id))
	}
	return ok, nil
}

func (ms *ModerationService) DeleteComment(ctx context.Context, id string) (bool, error) {
	ok, err := ms.repo.DeleteComment(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		ms.logger.Info("comment soft-deleted", zap.String("comment_id", id))
	}
	return ok, nil
}
