package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the user module.
type Metrics struct {
	UsersCreated    prometheus.Counter
	UsersUpdated    prometheus.Counter
	UsersDeleted    prometheus.Counter
	CreateConflicts prometheus.Counter
}

// New creates and registers all user metrics on the default registry.
// Call once per process; tests pass a nil *Metrics to services instead.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userbase_users_created_total",
			Help: "Total number of users created",
		}),
		UsersUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userbase_users_updated_total",
			Help: "Total number of user updates applied",
		}),
		UsersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userbase_users_deleted_total",
			Help: "Total number of users deleted",
		}),
		CreateConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userbase_user_create_conflicts_total",
			Help: "Total number of create attempts rejected for a taken email",
		}),
	}
}

// IncrementUsersCreated increments the created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

// IncrementUsersUpdated increments the updated counter by 1.
func (m *Metrics) IncrementUsersUpdated() {
	if m != nil {
		m.UsersUpdated.Inc()
	}
}

// IncrementUsersDeleted increments the deleted counter by 1.
func (m *Metrics) IncrementUsersDeleted() {
	if m != nil {
		m.UsersDeleted.Inc()
	}
}

// IncrementCreateConflicts increments the conflict counter by 1.
func (m *Metrics) IncrementCreateConflicts() {
	if m != nil {
		m.CreateConflicts.Inc()
	}
}
