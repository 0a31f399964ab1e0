package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/application/query"
)

type PostController struct {
	service interfaces.PostService
}

type createPostResponse struct {
	Success bool   `json:"success"`
	PostId  string `json:"postId"`
	User    string `json:"user"`
	Message string `json:"message"`
}

var postErrors = errorMessages{
	notFound:     "Post not found",
	unauthorized: "Not authorized to delete this post",
}

func NewPostController(g *echo.Group, service interfaces.PostService, auth echo.MiddlewareFunc) *PostController {
	controller := &PostController{service: service}

	g.POST("", controller.CreatePostController, auth)
	g.GET("", controller.ListPostsController)
	g.GET("/:postId", controller.GetPostController)
	g.DELETE("/:postId", controller.DeletePostController, auth)
	g.POST("/:postId/like", controller.LikePostController, auth)
	g.DELETE("/:postId/like", controller.UnlikePostController, auth)

	return controller
}

func (pc *PostController) CreatePostController(c echo.Context) error {
	var createCommand command.CreatePostCommand
	if err := c.Bind(&createCommand); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Failed to parse request body"})
	}
	createCommand.CallerId = callerID(c)

	result, err := pc.service.CreatePost(c.Request().Context(), &createCommand)
	if err != nil {
		return respondError(c, err, postErrors)
	}

	return c.JSON(http.StatusCreated, createPostResponse{
		Success: true,
		PostId:  result.PostId,
		User:    result.UserId,
		Message: "Post created successfully",
	})
}

func (pc *PostController) ListPostsController(c echo.Context) error {
	listQuery := query.ListPostsQuery{
		StockSymbol: c.QueryParam("stockSymbol"),
		Tags:        query.ParseTags(c.QueryParam("tags")),
		SortBy:      c.QueryParam("sortBy"),
	}

	result, err := pc.service.ListPosts(c.Request().Context(), &listQuery)
	if err != nil {
		return respondError(c, err, postErrors)
	}

	return c.JSON(http.StatusOK, result.Result)
}

func (pc *PostController) GetPostController(c echo.Context) error {
	result, err := pc.service.GetPost(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return respondError(c, err, postErrors)
	}

	return c.JSON(http.StatusOK, result.Result)
}

func (pc *PostController) DeletePostController(c echo.Context) error {
	err := pc.service.DeletePost(c.Request().Context(), &command.DeletePostCommand{
		CallerId: callerID(c),
		PostId:   c.Param("postId"),
	})
	if err != nil {
		return respondError(c, err, postErrors)
	}

	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Post deleted successfully"})
}

func (pc *PostController) LikePostController(c echo.Context) error {
	err := pc.service.LikePost(c.Request().Context(), &command.LikePostCommand{
		CallerId: callerID(c),
		PostId:   c.Param("postId"),
	})
	if err != nil {
		return respondError(c, err, postErrors)
	}

	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Post liked"})
}

func (pc *PostController) UnlikePostController(c echo.Context) error {
	err := pc.service.UnlikePost(c.Request().Context(), &command.LikePostCommand{
		CallerId: callerID(c),
		PostId:   c.Param("postId"),
	})
	if err != nil {
		return respondError(c, err, postErrors)
	}

	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Post unliked"})
}
