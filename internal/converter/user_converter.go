package converter

import (
	"medportal/internal/delivery/dto"
	"medportal/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		AddressLine1:   user.AddressLine1,
		City:           user.City,
		State:          user.State,
		Pincode:        user.Pincode,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
	}
}
