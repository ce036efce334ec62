package converter

import (
	"medportal/internal/delivery/dto"
	"medportal/internal/domain/entity"
)

// PostToResponse converts a BlogPost entity to PostResponse DTO.
// Category and Doctor names are included when the relations are loaded.
func PostToResponse(post *entity.BlogPost) *dto.PostResponse {
	if post == nil {
		return nil
	}

	response := &dto.PostResponse{
		ID:         post.ID,
		Title:      post.Title,
		Image:      post.Image,
		Summary:    post.Summary,
		Content:    post.Content,
		CreatedAt:  post.CreatedAt,
		CategoryID: post.CategoryID,
		DoctorID:   post.DoctorID,
	}

	if post.IsDraft != nil {
		response.IsDraft = *post.IsDraft
	}
	if post.Category.ID != 0 {
		response.CategoryName = post.Category.Name
	}
	if post.Doctor.ID != 0 {
		response.DoctorName = post.Doctor.FirstName + " " + post.Doctor.LastName
	}

	return response
}

func PostsToResponses(posts []entity.BlogPost) []dto.PostResponse {
	responses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, *PostToResponse(&posts[i]))
	}
	return responses
}

func CategoryToResponse(category *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
	}
}
