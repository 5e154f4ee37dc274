package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/notifyhq/notify-api/pkg/apierror"
)

const ErrorWrongJSON = "Wrong JSON format provided"

// Response is the uniform envelope every endpoint answers with.
type Response struct {
	Status  bool        `json:"status"`
	Content interface{} `json:"content"`
}

// ErrorContent is the envelope content for failures. InvalidField is
// null when the error is not tied to a single input field; Content
// carries per-item errors for batch failures.
type ErrorContent struct {
	ErrorMsg     string      `json:"error_msg"`
	ErrorCode    int         `json:"error_code"`
	InvalidField *string     `json:"invalid_field"`
	Content      interface{} `json:"content,omitempty"`
}

func OK(c *gin.Context, content interface{}) {
	c.JSON(http.StatusOK, Response{Status: true, Content: content})
}

func Error(c *gin.Context, code int, msg, invalidField string) {
	var field *string
	if invalidField != "" {
		field = &invalidField
	}
	c.JSON(code, Response{
		Status: false,
		Content: ErrorContent{
			ErrorMsg:     msg,
			ErrorCode:    code,
			InvalidField: field,
		},
	})
}

// FromError converts a service error into the envelope: AppError and
// BatchError carry their own status; anything else is a 500.
func FromError(c *gin.Context, err error) {
	var aerr *apierror.AppError
	if errors.As(err, &aerr) {
		Error(c, aerr.Code, aerr.Message, aerr.Field)
		return
	}

	var berr *apierror.BatchError
	if errors.As(err, &berr) {
		c.JSON(http.StatusNotAcceptable, Response{
			Status: false,
			Content: ErrorContent{
				ErrorMsg:  berr.Message,
				ErrorCode: http.StatusNotAcceptable,
				Content:   berr.Items,
			},
		})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	Error(c, http.StatusInternalServerError, "internal server error", "")
}
