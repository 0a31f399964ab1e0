package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/interfaces"
)

type CommentController struct {
	service interfaces.CommentService
}

type addCommentResponse struct {
	Success   bool   `json:"success"`
	CommentId string `json:"commentId"`
	User      string `json:"user"`
	Message   string `json:"message"`
}

func NewCommentController(g *echo.Group, service interfaces.CommentService) *CommentController {
	controller := &CommentController{service: service}

	g.POST("/:postId/comments", controller.AddCommentController)
	g.DELETE("/:postId/comments/:commentId", controller.DeleteCommentController)

	return controller
}

func (cc *CommentController) AddCommentController(c echo.Context) error {
	var addCommand command.AddCommentCommand
	if err := c.Bind(&addCommand); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Failed to parse request body"})
	}
	addCommand.CallerId = callerID(c)
	addCommand.PostId = c.Param("postId")

	result, err := cc.service.AddComment(c.Request().Context(), &addCommand)
	if err != nil {
		return respondError(c, err, errorMessages{
			notFound:     "Post not found",
			unauthorized: "Not authorized, user not found",
		})
	}

	return c.JSON(http.StatusCreated, addCommentResponse{
		Success:   true,
		CommentId: result.CommentId,
		User:      result.UserId,
		Message:   "Comment added successfully",
	})
}

func (cc *CommentController) DeleteCommentController(c echo.Context) error {
	err := cc.service.DeleteComment(c.Request().Context(), &command.DeleteCommentCommand{
		CallerId:  callerID(c),
		PostId:    c.Param("postId"),
		CommentId: c.Param("commentId"),
	})
	if err != nil {
		return respondError(c, err, errorMessages{
			notFound:     "Comment not found",
			unauthorized: "Not authorized to delete this comment",
		})
	}

	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Comment deleted successfully"})
}
