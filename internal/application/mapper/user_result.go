package mapper

import (
	"stocktalk-service/internal/application/common"
	"stocktalk-service/internal/domain/entities"
)

func NewUserResultFromEntity(user *entities.User) *common.UserResult {
	return &common.UserResult{
		Id:             user.Id,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func NewUserSummaryFromEntity(user *entities.User) *common.UserSummary {
	return &common.UserSummary{
		Id:       user.Id,
		Username: user.Username,
		Email:    user.Email,
	}
}

func NewProfileSummaryFromEntity(user *entities.User) *common.ProfileSummary {
	return &common.ProfileSummary{
		Id:             user.Id,
		Username:       user.Username,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
	}
}

// NewUserRef resolves id against users. An unknown user keeps its id with an
// empty username.
func NewUserRef(id string, users map[string]*entities.User) *common.UserRef {
	ref := &common.UserRef{Id: id}
	if u, ok := users[id]; ok {
		ref.Username = u.Username
	}
	return ref
}
