package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	contactapp "github.com/safespace/backend/internal/application/contact"
)

// ContactService delivers contact form messages
type ContactService interface {
	Send(ctx context.Context, req contactapp.MessageRequest) error
}

// ContactHandler serves the public contact form
type ContactHandler struct {
	BaseHandler
	service ContactService
}

// NewContactHandler creates a contact handler
func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Send handles POST /contact
func (h *ContactHandler) Send(c *gin.Context) {
	var req contactapp.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.service.Send(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Message sent"})
}
