package service

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	consortiumModel "tutorat_backend/internals/features/consortiums/consortium/model"
)

// Tolerance on the sum of custom shares (must land on 100 within this).
const shareSumTolerance = 0.01

// RevenuePolicy is the distribution policy as carried by requests and stored
// on the consortium row (type + optional custom share map keyed by tutor id).
type RevenuePolicy struct {
	Type         string             `json:"type" validate:"required,oneof=equal proportional custom"`
	CustomShares map[string]float64 `json:"custom_shares,omitempty"`
}

// PolicyFromModel rebuilds the policy value from its two stored columns.
func PolicyFromModel(m *consortiumModel.ConsortiumModel) (RevenuePolicy, error) {
	p := RevenuePolicy{Type: m.ConsortiumPolicyType}
	if len(m.ConsortiumCustomShares) > 0 {
		if err := json.Unmarshal(m.ConsortiumCustomShares, &p.CustomShares); err != nil {
			return p, fmt.Errorf("corrupt custom shares on consortium %s: %w", m.ConsortiumID, err)
		}
	}
	return p, nil
}

// SharesToJSON serializes a custom share map for storage.
func SharesToJSON(shares map[string]float64) (datatypes.JSON, error) {
	if shares == nil {
		return nil, nil
	}
	b, err := json.Marshal(shares)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// CalculateRevenueShares computes the percentage share of every member under
// the given policy. Pure: no I/O, deterministic.
//
// equal and proportional both yield 100/N. proportional is a placeholder
// kept as an alias on purpose; changing it would silently move stored
// percentages of existing consortiums.
func CalculateRevenueShares(policy RevenuePolicy, memberIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	if len(memberIDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot compute shares for an empty member set")
	}

	shares := make(map[uuid.UUID]float64, len(memberIDs))

	switch policy.Type {
	case consortiumModel.PolicyEqual, consortiumModel.PolicyProportional:
		// Stored unrounded so the shares always sum to exactly 100.
		// Rounding is a presentation concern.
		per := 100.0 / float64(len(memberIDs))
		for _, id := range memberIDs {
			shares[id] = per
		}
	case consortiumModel.PolicyCustom:
		if policy.CustomShares == nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Custom policy requires custom shares")
		}
		// Entries for ids outside memberIDs are ignored here; coverage and
		// sum checks belong to ValidateRevenuePolicy.
		for _, id := range memberIDs {
			v, ok := policy.CustomShares[id.String()]
			if !ok {
				return nil, fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Missing custom share for tutor %s", id))
			}
			shares[id] = v
		}
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Unknown revenue policy type: %s", policy.Type))
	}

	return shares, nil
}

// ValidateRevenuePolicy guards a policy before it is persisted. A no-op for
// equal/proportional; for custom it requires exactly memberCount entries,
// each in (0,100], summing to 100 within tolerance.
func ValidateRevenuePolicy(policy RevenuePolicy, memberCount int) error {
	if policy.Type != consortiumModel.PolicyCustom {
		return nil
	}
	if policy.CustomShares == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Custom policy requires custom shares")
	}
	if len(policy.CustomShares) != memberCount {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Custom shares must cover exactly %d members, got %d entries",
				memberCount, len(policy.CustomShares)))
	}

	var sum float64
	for id, v := range policy.CustomShares {
		if v <= 0 || v > 100 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Share for tutor %s must be between 0 and 100", id))
		}
		sum += v
	}
	if math.Abs(sum-100) > shareSumTolerance {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Custom shares must sum to 100, got %.2f", sum))
	}
	return nil
}
