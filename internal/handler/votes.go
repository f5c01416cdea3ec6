package handler

import (
	"net/http"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/ledger"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) postsVote(c *gin.Context) {
	postID, ok := uuidParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	h.vote(c, model.VoteTarget{Kind: model.TargetPost, ID: postID})
}

func (h *Handler) commentsVote(c *gin.Context) {
	if _, ok := uuidParam(c, "postID"); !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}
	commentID, ok := uuidParam(c, "commentID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	h.vote(c, model.VoteTarget{Kind: model.TargetComment, ID: commentID})
}

func (h *Handler) vote(c *gin.Context, target model.VoteTarget) {
	user := h.getUserFromRequest(c)

	var input dto.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	votes, err := h.services.Vote.Vote(c.Request.Context(), target, user.ID, input.Type)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoteResponse{
		Votes:  *votes,
		MyVote: ledger.Current(*votes, user.ID.String()),
	})
}
