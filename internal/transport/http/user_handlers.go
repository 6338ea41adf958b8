package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sigmabread/breadchat-server/internal/core"
	"github.com/sigmabread/breadchat-server/internal/proto"
)

// UserHandlers provides HTTP handlers for user operations.
type UserHandlers struct {
	directory *core.Directory
	log       *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(directory *core.Directory, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		directory: directory,
		log:       logger,
	}
}

// List returns the public projection of every registered user.
// GET /api/users
func (h *UserHandlers) List(c *gin.Context) {
	users := h.directory.List()

	response := make([]proto.Profile, 0, len(users))
	for _, u := range users {
		response = append(response, profileFromUser(u))
	}

	c.JSON(http.StatusOK, response)
}
