package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	consortiumModel "tutorat_backend/internals/features/consortiums/consortium/model"
)

func makeIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestCalculateRevenueShares_Equal(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 7} {
		ids := makeIDs(n)
		shares, err := CalculateRevenueShares(RevenuePolicy{Type: consortiumModel.PolicyEqual}, ids)
		require.NoError(t, err)
		require.Len(t, shares, n)

		expected := 100.0 / float64(n)
		var sum float64
		for _, id := range ids {
			require.Equal(t, expected, shares[id])
			sum += shares[id]
		}
		require.InDelta(t, 100, sum, 1e-9)
	}
}

func TestCalculateRevenueShares_ProportionalAliasesEqual(t *testing.T) {
	ids := makeIDs(4)
	equal, err := CalculateRevenueShares(RevenuePolicy{Type: consortiumModel.PolicyEqual}, ids)
	require.NoError(t, err)
	prop, err := CalculateRevenueShares(RevenuePolicy{Type: consortiumModel.PolicyProportional}, ids)
	require.NoError(t, err)
	require.Equal(t, equal, prop)
}

func TestCalculateRevenueShares_Custom(t *testing.T) {
	ids := makeIDs(3)
	policy := RevenuePolicy{
		Type: consortiumModel.PolicyCustom,
		CustomShares: map[string]float64{
			ids[0].String(): 50,
			ids[1].String(): 30,
			ids[2].String(): 20,
		},
	}

	shares, err := CalculateRevenueShares(policy, ids)
	require.NoError(t, err)
	require.Equal(t, 50.0, shares[ids[0]])
	require.Equal(t, 30.0, shares[ids[1]])
	require.Equal(t, 20.0, shares[ids[2]])
}

func TestCalculateRevenueShares_CustomIgnoresExtraEntries(t *testing.T) {
	ids := makeIDs(2)
	policy := RevenuePolicy{
		Type: consortiumModel.PolicyCustom,
		CustomShares: map[string]float64{
			ids[0].String():     60,
			ids[1].String():     40,
			uuid.New().String(): 99,
		},
	}

	shares, err := CalculateRevenueShares(policy, ids)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	require.Equal(t, 60.0, shares[ids[0]])
}

func TestCalculateRevenueShares_Failures(t *testing.T) {
	ids := makeIDs(2)

	cases := []struct {
		name   string
		policy RevenuePolicy
		ids    []uuid.UUID
	}{
		{"empty member set", RevenuePolicy{Type: consortiumModel.PolicyEqual}, nil},
		{"unknown policy type", RevenuePolicy{Type: "weighted"}, ids},
		{"custom without shares", RevenuePolicy{Type: consortiumModel.PolicyCustom}, ids},
		{
			"custom missing a member entry",
			RevenuePolicy{
				Type:         consortiumModel.PolicyCustom,
				CustomShares: map[string]float64{ids[0].String(): 100},
			},
			ids,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateRevenueShares(tc.policy, tc.ids)
			require.Error(t, err)

			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			require.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}

func TestValidateRevenuePolicy(t *testing.T) {
	ids := makeIDs(2)

	require.NoError(t, ValidateRevenuePolicy(RevenuePolicy{Type: consortiumModel.PolicyEqual}, 5))
	require.NoError(t, ValidateRevenuePolicy(RevenuePolicy{Type: consortiumModel.PolicyProportional}, 5))

	valid := RevenuePolicy{
		Type: consortiumModel.PolicyCustom,
		CustomShares: map[string]float64{
			ids[0].String(): 70,
			ids[1].String(): 30,
		},
	}
	require.NoError(t, ValidateRevenuePolicy(valid, 2))

	cases := []struct {
		name        string
		shares      map[string]float64
		memberCount int
	}{
		{"missing shares", nil, 2},
		{"entry count mismatch", map[string]float64{ids[0].String(): 100}, 2},
		{"sum above tolerance", map[string]float64{ids[0].String(): 70, ids[1].String(): 30.02}, 2},
		{"sum below tolerance", map[string]float64{ids[0].String(): 70, ids[1].String(): 29.98}, 2},
		{"zero share", map[string]float64{ids[0].String(): 0, ids[1].String(): 100}, 2},
		{"negative share", map[string]float64{ids[0].String(): -10, ids[1].String(): 110}, 2},
		{"share above 100", map[string]float64{ids[0].String(): 101}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRevenuePolicy(RevenuePolicy{
				Type:         consortiumModel.PolicyCustom,
				CustomShares: tc.shares,
			}, tc.memberCount)
			require.Error(t, err)

			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			require.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}

func TestValidateRevenuePolicy_ToleranceBoundary(t *testing.T) {
	ids := makeIDs(2)
	policy := RevenuePolicy{
		Type: consortiumModel.PolicyCustom,
		CustomShares: map[string]float64{
			ids[0].String(): 50,
			ids[1].String(): 50.005,
		},
	}
	require.NoError(t, ValidateRevenuePolicy(policy, 2))
}
