package appointment

import (
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

const (
	PolicyFixed   = "fixed"
	PolicyService = "service"
)

// SessionPolicy decides how long a started session runs before it is
// completed automatically.
type SessionPolicy struct {
	Mode  string
	Fixed time.Duration
}

func DefaultSessionPolicy() SessionPolicy {
	return SessionPolicy{Mode: PolicyFixed, Fixed: time.Hour}
}

func (p SessionPolicy) Length(ap *models.Appointment) time.Duration {
	if p.Mode == PolicyService && ap.ServiceDurationMin > 0 {
		return time.Duration(ap.ServiceDurationMin) * time.Minute
	}
	if p.Fixed <= 0 {
		return time.Hour
	}
	return p.Fixed
}
