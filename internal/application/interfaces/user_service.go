package interfaces

import (
	"context"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/query"
)

type UserService interface {
	RegisterUser(ctx context.Context, registerCommand *command.RegisterUserCommand) (*command.RegisterUserCommandResult, error)
	LoginUser(ctx context.Context, loginCommand *command.LoginUserCommand) (*command.LoginUserCommandResult, error)
	GetProfile(ctx context.Context, userID string) (*query.UserQueryResult, error)
	UpdateProfile(ctx context.Context, updateCommand *command.UpdateProfileCommand) (*command.UpdateProfileCommandResult, error)
}
