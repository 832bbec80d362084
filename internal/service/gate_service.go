package service

import (
	"context"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// Cooldown between consecutive generations, per plan. Paying users get the
// shorter window.
const (
	CooldownCreatorSeconds = 30
	CooldownFreeSeconds    = 45
)

// InputKind discriminates how the source content arrives.
const (
	InputKindText = "text"
	InputKindURL  = "url"
)

// GateService runs the admission checks that precede any backend dispatch:
// plan entitlement, cooldown and the monthly credit limit.
type GateService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
	// now is swappable for tests.
	now func() time.Time
}

// NewGateService creates a new GateService.
func NewGateService(userRepo repository.UserRepository, logger zerolog.Logger) *GateService {
	return &GateService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "GateService").Logger(),
		now:      time.Now,
	}
}

// ValidatePlan checks that the user's plan entitles them to the requested
// input kind. URL import is a Creator feature. Regenerations skip no
// entitlement checks; the kind of the original input still applies.
func (s *GateService) ValidatePlan(user *model.User, inputKind string) (bool, error) {
	isPaid := user.IsPaid()
	if inputKind == InputKindURL && !isPaid {
		return isPaid, ErrURLInputRequiresUpgrade
	}
	return isPaid, nil
}

// CheckCooldown reports whether the user may generate now and, if not, how
// many whole seconds remain. A user who has never generated is always allowed.
func (s *GateService) CheckCooldown(user *model.User) (bool, int) {
	if user.LastGenerateAt == nil {
		return true, 0
	}
	cooldown := CooldownFreeSeconds
	if user.IsPaid() {
		cooldown = CooldownCreatorSeconds
	}
	elapsed := int(s.now().Sub(*user.LastGenerateAt).Seconds())
	remaining := cooldown - elapsed
	if remaining <= 0 {
		return true, 0
	}
	return false, remaining
}

// CheckUsageLimit reads the rollover-corrected usage snapshot and reports
// whether the monthly credit limit is reached.
func (s *GateService) CheckUsageLimit(ctx context.Context, userID string) (limited bool, usage *model.UserUsage, err error) {
	usage, err = s.userRepo.GetUsage(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	return usage.UsageCount >= usage.UsageLimitMonthly, usage, nil
}
