package auth

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"profile-service/internal/domain"
)

var authEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "auth_events_total", Help: "Auth flow outcomes by event"},
	[]string{"event", "outcome"},
)

func init() { prometheus.MustRegister(authEvents) }

// observe counts one flow outcome; failures are labelled by their error code.
func observe(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(domain.CodeOf(err)))
	}
	authEvents.WithLabelValues(event, outcome).Inc()
}
