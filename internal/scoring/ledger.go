package scoring

import "talent-workers/internal/models"

// TotalEarned is base plus every bonus component, before deductions.
func TotalEarned(base int, bonuses models.Bonuses) int {
	return base + bonuses.Sum()
}

// AvailablePoints floors at zero; over-deduction is absorbed, not reported.
func AvailablePoints(base int, bonuses models.Bonuses, deducted int) int {
	return max(0, TotalEarned(base, bonuses)-deducted)
}

// CanRedeem gates a service purchase against the available balance.
func CanRedeem(available, cost int) bool {
	return cost > 0 && cost <= available
}
