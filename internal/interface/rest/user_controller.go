package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/interfaces"
)

type UserController struct {
	service interfaces.UserService
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type updateProfileResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    interface{} `json:"user"`
}

func NewUserController(g *echo.Group, service interfaces.UserService, auth echo.MiddlewareFunc) *UserController {
	controller := &UserController{service: service}

	g.POST("/register", controller.RegisterUserController)
	g.POST("/login", controller.LoginUserController)
	g.GET("/profile/:userId", controller.GetProfileController, auth)
	g.PUT("/profile", controller.UpdateProfileController, auth)

	return controller
}

func (uc *UserController) RegisterUserController(c echo.Context) error {
	var registerCommand command.RegisterUserCommand
	if err := c.Bind(&registerCommand); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Failed to parse request body"})
	}

	result, err := uc.service.RegisterUser(c.Request().Context(), &registerCommand)
	if err != nil {
		return respondError(c, err, errorMessages{conflict: "User already exists"})
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   result.Token,
	})
}

func (uc *UserController) LoginUserController(c echo.Context) error {
	var loginCommand command.LoginUserCommand
	if err := c.Bind(&loginCommand); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Failed to parse request body"})
	}

	result, err := uc.service.LoginUser(c.Request().Context(), &loginCommand)
	if err != nil {
		return respondError(c, err, errorMessages{unauthorized: "Invalid email or password"})
	}

	return c.JSON(http.StatusOK, result)
}

func (uc *UserController) GetProfileController(c echo.Context) error {
	result, err := uc.service.GetProfile(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return respondError(c, err, errorMessages{notFound: "User not found"})
	}

	return c.JSON(http.StatusOK, result.Result)
}

func (uc *UserController) UpdateProfileController(c echo.Context) error {
	var updateCommand command.UpdateProfileCommand
	if err := c.Bind(&updateCommand); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Failed to parse request body"})
	}
	updateCommand.RequesterId = callerID(c)

	result, err := uc.service.UpdateProfile(c.Request().Context(), &updateCommand)
	if err != nil {
		return respondError(c, err, errorMessages{notFound: "User not found"})
	}

	return c.JSON(http.StatusOK, updateProfileResponse{
		Success: true,
		Message: "Profile updated",
		User:    result.User,
	})
}
