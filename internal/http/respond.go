package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/log"
)

// respondError is the single exit for handler failures: every error is
// normalized to the taxonomy and serialized as {"message": ...}. The
// wrapped cause is logged, never sent to the client.
func respondError(c *gin.Context, err error) {
	ae := apperror.FromError(err)
	if ae.Kind == apperror.KindInternal || ae.Kind == apperror.KindUnavailable {
		log.L().Error("request failed",
			zap.String("request_id", reqID(c)),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(ae.Status(), gin.H{"message": ae.Message})
}
