package usecase

import (
	"context"
	"errors"

	"medportal/internal/converter"
	"medportal/internal/delivery/dto"
	"medportal/internal/domain/entity"
	"medportal/internal/domain/repository"
	"medportal/internal/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type BlogUsecase interface {
	CreatePost(ctx context.Context, doctorID uint, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	ListMyPosts(ctx context.Context, doctorID uint) ([]dto.PostResponse, error)
	ListPublishedByCategory(ctx context.Context) ([]dto.CategoryPostsResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
}

type blogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	postRepo     repository.BlogPostRepository
	categoryRepo repository.CategoryRepository
	uploads      *storage.Uploads
}

func NewBlogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	postRepo repository.BlogPostRepository,
	categoryRepo repository.CategoryRepository,
	uploads *storage.Uploads,
) BlogUsecase {
	return &blogUsecase{
		db:           db,
		log:          log,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		uploads:      uploads,
	}
}

// CreatePost persists a new post owned by doctorID. Role authorization is
// the route middleware's responsibility; this trusts its caller.
func (u *blogUsecase) CreatePost(ctx context.Context, doctorID uint, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if _, err := u.categoryRepo.FindByID(u.db, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		u.log.Warnf("Failed to find category: %+v", err)
		return nil, err
	}

	image := ""
	if req.Image != nil {
		var err error
		image, err = u.uploads.Save(req.Image, storage.BlogImages)
		if err != nil {
			return nil, err
		}
	}

	isDraft := req.IsDraft
	post := &entity.BlogPost{
		Title:      req.Title,
		Image:      image,
		Summary:    req.Summary,
		Content:    req.Content,
		IsDraft:    &isDraft,
		CategoryID: req.CategoryID,
		DoctorID:   doctorID,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.postRepo.Create(tx, post); err != nil {
		u.removeUpload(image)
		u.log.Warnf("Failed to create blog post: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.removeUpload(image)
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PostToResponse(post), nil
}

// ListMyPosts returns every post owned by the doctor, drafts included,
// in creation order.
func (u *blogUsecase) ListMyPosts(ctx context.Context, doctorID uint) ([]dto.PostResponse, error) {
	posts, err := u.postRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list posts by doctor: %+v", err)
		return nil, err
	}
	return converter.PostsToResponses(posts), nil
}

// ListPublishedByCategory returns every category paired with its published
// posts. Categories with no published posts are included with an empty set.
func (u *blogUsecase) ListPublishedByCategory(ctx context.Context) ([]dto.CategoryPostsResponse, error) {
	db := u.db.WithContext(ctx)

	categories, err := u.categoryRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to list categories: %+v", err)
		return nil, err
	}

	result := make([]dto.CategoryPostsResponse, 0, len(categories))
	for i := range categories {
		posts, err := u.postRepo.FindPublishedByCategoryID(db, categories[i].ID)
		if err != nil {
			u.log.Warnf("Failed to list published posts for category %d: %+v", categories[i].ID, err)
			return nil, err
		}
		result = append(result, dto.CategoryPostsResponse{
			Category: converter.CategoryToResponse(&categories[i]),
			Posts:    converter.PostsToResponses(posts),
		})
	}

	return result, nil
}

func (u *blogUsecase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := u.categoryRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list categories: %+v", err)
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, converter.CategoryToResponse(&categories[i]))
	}
	return responses, nil
}

func (u *blogUsecase) removeUpload(relPath string) {
	if relPath == "" {
		return
	}
	if err := u.uploads.Remove(relPath); err != nil {
		u.log.Warnf("Failed to remove uploaded file %s: %+v", relPath, err)
	}
}
