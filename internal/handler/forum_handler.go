package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yugash007/nexel-api/internal/service"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
	"github.com/yugash007/nexel-api/pkg/response"
)

// ForumHandler wires HTTP endpoints to the forum service.
type ForumHandler struct {
	service *service.ForumService
}

// NewForumHandler creates a new handler.
func NewForumHandler(svc *service.ForumService) *ForumHandler {
	return &ForumHandler{service: svc}
}

// CreateThread godoc
// @Summary Start a discussion thread
// @Description Course participants only
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.CreateThreadRequest true "Thread payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses/{id}/threads [post]
func (h *ForumHandler) CreateThread(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid thread payload"))
		return
	}

	thread, err := h.service.CreateThread(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, thread)
}

// ListThreads godoc
// @Summary List a course's discussion threads
// @Description Newest first, with reply counts
// @Tags Forum
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/threads [get]
func (h *ForumHandler) ListThreads(c *gin.Context) {
	threads, err := h.service.ListThreads(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, threads, nil)
}

// GetThread godoc
// @Summary Get a discussion thread
// @Tags Forum
// @Produce json
// @Param id path string true "Thread ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /threads/{id} [get]
func (h *ForumHandler) GetThread(c *gin.Context) {
	thread, err := h.service.GetThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, thread, nil)
}

// CreateReply godoc
// @Summary Reply to a thread
// @Description Course participants only
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path string true "Thread ID"
// @Param payload body service.CreateReplyRequest true "Reply payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /threads/{id}/replies [post]
func (h *ForumHandler) CreateReply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reply payload"))
		return
	}

	reply, err := h.service.CreateReply(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reply)
}

// ListReplies godoc
// @Summary List a thread's replies
// @Description Oldest first
// @Tags Forum
// @Produce json
// @Param id path string true "Thread ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /threads/{id}/replies [get]
func (h *ForumHandler) ListReplies(c *gin.Context) {
	replies, err := h.service.ListReplies(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, replies, nil)
}
