package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
)

const contextKeyResourceID = "resource_id"

// RequireIDParam parses the :id path parameter and stores it for GetResourceID.
// Ownership is checked by the services inside their transactions.
func RequireIDParam(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+resource+" ID")
			c.Abort()
			return
		}

		c.Set(contextKeyResourceID, id)
		c.Next()
	}
}

// GetResourceID returns the ID parsed by RequireIDParam
func GetResourceID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(contextKeyResourceID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
