package controller

import (
	"errors"
	"strconv"

	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService *service.ResultService
}

func NewResultController(resultService *service.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// swagger:model SubmitResultRequest
type SubmitResultRequest struct {
	GuestID     string                    `json:"guestId"`
	UserAnswers []service.UserAnswerInput `json:"userAnswers" binding:"required,min=1,dive"`
}

// identityFrom resolves who is submitting: an authenticated user when a valid
// token was attached, the supplied guest token otherwise.
func identityFrom(ctx *gin.Context, guestID string) service.Identity {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID := claims.UserID
		return service.Identity{UserID: &userID}
	}
	return service.Identity{GuestID: guestID}
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Computes the score and upserts the single result per (quiz, identity); anonymous submitters without a guestId get one back on the result
// @Tags results
// @Accept json
// @Produce json
// @Param quizId query int true "quiz id"
// @Param body body SubmitResultRequest true "submitted answers"
// @Success 200 {object} util.Response{data=model.Result}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /results [post]
func (c *ResultController) Submit(ctx *gin.Context) {
	quizID, err := strconv.ParseUint(ctx.Query("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quizId")
		return
	}

	var req SubmitResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ResultService.Submit(uint(quizID), identityFrom(ctx, req.GuestID), req.UserAnswers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// Get godoc
// @Summary Fetch a stored result
// @Description Returns the score for (quiz, identity) with each question's correct answer for review
// @Tags results
// @Produce json
// @Param quizId query int true "quiz id"
// @Param guestId query string false "guest token (ignored when authenticated)"
// @Success 200 {object} util.Response{data=service.ResultReview}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /results [get]
func (c *ResultController) Get(ctx *gin.Context) {
	quizID, err := strconv.ParseUint(ctx.Query("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quizId")
		return
	}

	guestID := ctx.Query("guestId")
	identity := identityFrom(ctx, guestID)
	if identity.UserID == nil && identity.GuestID == "" {
		util.BadRequest(ctx, "guestId required for anonymous lookup")
		return
	}

	review, err := c.ResultService.Get(uint(quizID), identity)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrResultNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, review)
}
