package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "studentz/internal/common/models"
	"studentz/internal/features/feed"
	"studentz/pkg/ident"
	"studentz/pkg/imagenorm"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrPhotoTooLarge is returned when an oversized photo cannot be brought
// under the budget.
var ErrPhotoTooLarge = errors.New("photo is too large even after compression")

type MemberService interface {
	CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error)
	ListMembers(ctx context.Context, limit int64) ([]Member, error)
}

type MemberServiceImpl struct {
	MemberRepo MemberRepository
	IDs        *ident.Generator
	Feed       feed.Publisher
	PhotoOpts  imagenorm.Options
}

func NewMemberService(memberRepo MemberRepository, ids *ident.Generator, publisher feed.Publisher) MemberService {
	return &MemberServiceImpl{
		MemberRepo: memberRepo,
		IDs:        ids,
		Feed:       publisher,
		PhotoOpts:  imagenorm.DefaultOptions(),
	}
}

// CreateMember assigns the member ID, bounds the photo and stores the member.
func (s *MemberServiceImpl) CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	photo, err := s.boundPhoto(req.Photo)
	if err != nil {
		return nil, err
	}

	memberID, err := s.IDs.MemberID()
	if err != nil {
		return nil, fmt.Errorf("generate member id: %w", err)
	}

	now := time.Now().UTC()
	member := &Member{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		Name:      req.Name,
		College:   req.College,
		Email:     req.Email,
		WhatsApp:  req.WhatsApp,
		Photo:     photo,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.MemberRepo.Insert(ctx, member); err != nil {
		return nil, err
	}

	if s.Feed != nil {
		s.Feed.Publish(common_models.FeedEvent{
			Type:      common_models.FeedMemberCreated,
			ID:        member.MemberID,
			CreatedAt: member.CreatedAt,
		})
	}
	return member, nil
}

func (s *MemberServiceImpl) ListMembers(ctx context.Context, limit int64) ([]Member, error) {
	return s.MemberRepo.List(ctx, min(limit, MaxListLimit))
}

// boundPhoto passes photos within budget through untouched and re-normalizes
// larger ones.
func (s *MemberServiceImpl) boundPhoto(photo string) (string, error) {
	if photo == "" || imagenorm.EstimateDataURLBytes(photo) <= s.PhotoOpts.Budget {
		return photo, nil
	}
	res, err := imagenorm.NormalizeDataURL(photo, s.PhotoOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPhotoTooLarge, err)
	}
	return res.DataURL, nil
}
