package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated  prometheus.Counter
	UsersUpdated  prometheus.Counter
	UsersDeleted  prometheus.Counter
	EmailOutcomes *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userdir_users_created_total",
			Help: "Total number of users created in the directory",
		}),
		UsersUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userdir_users_updated_total",
			Help: "Total number of user updates (partial and full)",
		}),
		UsersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userdir_users_deleted_total",
			Help: "Total number of users deleted from the directory",
		}),
		EmailOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "userdir_email_outcomes_total",
			Help: "Welcome email task outcomes by terminal status",
		}, []string{"status"}),
	}
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncrementUsersUpdated increments the users updated counter by 1.
func (m *Metrics) IncrementUsersUpdated() {
	if m == nil {
		return
	}
	m.UsersUpdated.Inc()
}

// IncrementUsersDeleted increments the users deleted counter by 1.
func (m *Metrics) IncrementUsersDeleted() {
	if m == nil {
		return
	}
	m.UsersDeleted.Inc()
}

// ObserveEmailOutcome counts one terminal welcome-email status.
func (m *Metrics) ObserveEmailOutcome(status string) {
	if m == nil {
		return
	}
	m.EmailOutcomes.WithLabelValues(status).Inc()
}
