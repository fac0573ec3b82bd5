package rest

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/trait-inventory/internal/api/shared/constants"
	apierrors "github.com/feral-file/trait-inventory/internal/api/shared/errors"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondError maps err to its status code and body. Server side failures are logged.
func respondError(c *gin.Context, err error, message string) {
	status, apiErr := apierrors.FromDomainError(err)

	var rateLimitErr *domain.RateLimitError
	if errors.As(err, &rateLimitErr) {
		seconds := int(math.Ceil(rateLimitErr.RetryAfter.Seconds()))
		if seconds < constants.MIN_RETRY_AFTER_SECONDS {
			seconds = constants.MIN_RETRY_AFTER_SECONDS
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err,
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.JSON(status, apiErr)
}
