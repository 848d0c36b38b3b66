package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"profile-service/internal/domain"
	resp "profile-service/internal/transport/http/response"
)

var errBusy = domain.NewError(domain.CodeServerBusy, "server busy")

// ConcurrencyLimit caps in-flight requests so the store pool is not oversubscribed.
// Requests beyond the cap are rejected immediately rather than queued.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			resp.Fail(c, errBusy)
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
