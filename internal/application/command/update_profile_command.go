package command

import "stocktalk-service/internal/application/common"

// UpdateProfileCommand always targets the authenticated caller. Nil fields are
// not part of the update.
type UpdateProfileCommand struct {
	RequesterId    string  `json:"-"`
	Username       *string `json:"username"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
	Password       *string `json:"password"`
}

type UpdateProfileCommandResult struct {
	User *common.ProfileSummary `json:"user"`
}
