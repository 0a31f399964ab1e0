package command

import "stocktalk-service/internal/application/common"

type LoginUserCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUserCommandResult struct {
	Token string              `json:"token"`
	User  *common.UserSummary `json:"user"`
}
