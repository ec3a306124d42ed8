package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps a service-layer error to its HTTP envelope,
// falling back to 500 for errors outside the taxonomy.
func RespondAPIError(c *gin.Context, err error) {
	if ae := apierr.From(err); ae != nil {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
