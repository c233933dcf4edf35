package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mistake-journal/internal/service"
	appErrors "github.com/noah-isme/mistake-journal/pkg/errors"
	"github.com/noah-isme/mistake-journal/pkg/response"
)

// MistakeHandler routes the action selector to the matching operation.
type MistakeHandler struct {
	mistakes *service.MistakeService
}

// NewMistakeHandler constructs MistakeHandler.
func NewMistakeHandler(mistakes *service.MistakeService) *MistakeHandler {
	return &MistakeHandler{mistakes: mistakes}
}

// mutateRequest carries the id plus the writable record fields, accepted as
// JSON or form body.
type mutateRequest struct {
	ID int64 `json:"id" form:"id"`
	service.MistakeInput
}

// Dispatch handles /api. The switch is exhaustive over the Action constants;
// anything else is rejected.
func (h *MistakeHandler) Dispatch(c *gin.Context) {
	switch ActionFrom(c) {
	case ActionGetMistakes:
		h.getMistakes(c)
	case ActionAddMistake:
		h.addMistake(c)
	case ActionUpdateMistake:
		h.updateMistake(c)
	case ActionDeleteMistake:
		h.deleteMistake(c)
	case ActionGetStats:
		h.getStats(c)
	case ActionTestAuth:
		h.testAuth(c)
	default:
		response.FailMessage(c, http.StatusBadRequest, "Invalid action")
	}
}

func (h *MistakeHandler) getMistakes(c *gin.Context) {
	records, err := h.mistakes.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Mistakes retrieved successfully", gin.H{"mistakes": records})
}

func (h *MistakeHandler) addMistake(c *gin.Context) {
	var req mutateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, appErrors.Clone(appErrors.ErrValidation, "Invalid request payload"))
		return
	}
	rec, err := h.mistakes.Add(c.Request.Context(), req.MistakeInput)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Mistake added successfully", gin.H{"id": rec.ID})
}

func (h *MistakeHandler) updateMistake(c *gin.Context) {
	var req mutateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, appErrors.Clone(appErrors.ErrValidation, "Invalid request payload"))
		return
	}
	if err := h.mistakes.Update(c.Request.Context(), req.ID, req.MistakeInput); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Mistake updated successfully", nil)
}

func (h *MistakeHandler) deleteMistake(c *gin.Context) {
	var req mutateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, appErrors.Clone(appErrors.ErrValidation, "Invalid request payload"))
		return
	}
	if err := h.mistakes.Delete(c.Request.Context(), req.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Mistake deleted successfully", nil)
}

func (h *MistakeHandler) getStats(c *gin.Context) {
	stats, err := h.mistakes.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Statistics retrieved successfully", gin.H{"stats": stats})
}

func (h *MistakeHandler) testAuth(c *gin.Context) {
	// The token gate already ran; reaching here means the token is valid.
	response.OK(c, "Authentication successful", gin.H{"authenticated": true})
}
