package quiz

import "github.com/rickcomics/myprotectivemasks/internal/domain"

// Thresholds against a per-role maximum of 6 (3 questions x weight 2).
const (
	// SingleThreshold marks a role as dominant.
	SingleThreshold = 4
	// MultipleThreshold is the fallback cutoff when no role dominates.
	MultipleThreshold = 3
)

// Score sums answer weights per role. Every role is present in the result,
// zero-filled if it collected nothing.
func Score(answers []domain.AnsweredQuestion) map[domain.Role]int {
	scores := make(map[domain.Role]int, len(domain.Roles))
	for _, role := range domain.Roles {
		scores[role] = 0
	}
	for _, a := range answers {
		scores[a.Role] += a.Weight
	}
	return scores
}

// DetermineRoles picks the detected roles from a score set. Roles scoring at
// least SingleThreshold win outright; if none do, every role scoring at least
// MultipleThreshold is returned; otherwise the neutral sentinel. Order is
// always the fixed role declaration order.
func DetermineRoles(scores map[domain.Role]int) []domain.Role {
	var detected []domain.Role
	for _, role := range domain.Roles {
		if scores[role] >= SingleThreshold {
			detected = append(detected, role)
		}
	}
	if len(detected) == 0 {
		for _, role := range domain.Roles {
			if scores[role] >= MultipleThreshold {
				detected = append(detected, role)
			}
		}
	}
	if len(detected) == 0 {
		return []domain.Role{domain.RoleNeutral}
	}
	return detected
}
