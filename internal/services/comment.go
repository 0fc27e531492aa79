package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"threadboard/internal/models"
	"threadboard/internal/validate"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateCommentInput is the create-comment request body.
type CreateCommentInput struct {
	Text     *string `json:"text"`
	UserID   *uint   `json:"user_id"`
	ParentID *uint   `json:"parent_id"`
}

// CommentService owns comment records and the comment tree.
type CommentService struct {
	db     *gorm.DB
	log    *logrus.Logger
	now    func() time.Time
	render func(string) string
}

func NewCommentService(gdb *gorm.DB, log *logrus.Logger, render func(string) string) *CommentService {
	return &CommentService{
		db:     gdb,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		render: render,
	}
}

// Create stores a comment on behalf of identity. The user_id in the body must
// name an existing user and match identity; parent_id, when set, must name an
// existing comment.
func (s *CommentService) Create(ctx context.Context, identity Identity, in CreateCommentInput) (*models.Comment, error) {
	var errs validate.Errors
	checkRequired(&errs, "text", in.Text, validate.CommentText)
	if in.UserID == nil {
		errs.Missing("user_id")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     *in.Text,
		UserID:   *in.UserID,
		ParentID: in.ParentID,
	}
	if !storableID(comment.UserID) {
		return nil, ErrUnknownUser
	}
	if comment.ParentID != nil && !storableID(*comment.ParentID) {
		return nil, ErrUnknownParent
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Where("id = ?", comment.UserID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return ErrUnknownUser
		}

		if comment.ParentID != nil {
			var parents int64
			if err := tx.Model(&models.Comment{}).Where("id = ?", *comment.ParentID).Count(&parents).Error; err != nil {
				return err
			}
			if parents == 0 {
				return ErrUnknownParent
			}
		}

		if Authorize(identity, comment.UserID) != nil {
			return ErrIdentityMismatch
		}

		comment.PostedAt = s.now()
		err := tx.Omit(clause.Associations).Create(comment).Error
		// The user or parent can vanish between the checks above and the insert.
		if isForeignKeyViolation(err) {
			if comment.ParentID != nil {
				return ErrUnknownParent
			}
			return ErrUnknownUser
		}
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"user_id":    comment.UserID,
		"parent_id":  comment.ParentID,
	}).Info("Comment created")
	return comment, nil
}

// Delete removes comment id if identity owns it. Direct replies move up to
// the deleted comment's parent, so replies to a root become roots.
func (s *CommentService) Delete(ctx context.Context, identity Identity, id uint) error {
	if !storableID(id) {
		return ErrCommentNotFound
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if Authorize(identity, comment.UserID) != nil {
			return ErrNotOwner
		}

		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ?", comment.ID).
			Update("parent_id", comment.ParentID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, comment.ID).Error
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{"comment_id": id, "user_id": identity.UserID}).Info("Comment deleted")
	return nil
}

// Tree loads every comment in one query and returns them as a forest ordered
// by posting time.
func (s *CommentService) Tree(ctx context.Context) ([]*TreeNode, error) {
	var rows []CommentRow
	err := s.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.user_id, users.username, comments.text, comments.posted_at, comments.parent_id").
		Joins("JOIN users ON users.id = comments.user_id").
		Order("comments.posted_at ASC, comments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	forest, skipped := BuildForest(rows, s.render)
	if skipped > 0 {
		s.log.WithField("skipped", skipped).Warn("Comments unreachable from any root were left out of the tree")
	}
	return forest, nil
}

// storableID reports whether id fits the signed 64-bit primary key columns.
func storableID(id uint) bool {
	return uint64(id) <= math.MaxInt64
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrUnknownParent) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrForbidden)
}
