package command

type RegisterUserCommand struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterUserCommandResult struct {
	Token  string `json:"token"`
	UserId string `json:"userId"`
}
