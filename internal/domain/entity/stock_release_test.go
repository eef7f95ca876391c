package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// Matriz completa de transiciones del flujo de liberación.
func TestReleaseStatusTransitions(t *testing.T) {
	allowed := map[entity.ReleaseStatus][]entity.ReleaseStatus{
		entity.ReleasePending:  {entity.ReleaseApproved, entity.ReleaseCancelled},
		entity.ReleaseApproved: {entity.ReleaseReleased, entity.ReleaseCancelled},
		entity.ReleaseReleased: {entity.ReleaseReceived, entity.ReleaseCompleted},
		entity.ReleaseReceived: {entity.ReleaseCompleted},
	}
	all := []entity.ReleaseStatus{
		entity.ReleasePending, entity.ReleaseApproved, entity.ReleaseReleased,
		entity.ReleaseReceived, entity.ReleaseCompleted, entity.ReleaseCancelled,
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestReleaseStatusTerminal(t *testing.T) {
	assert.True(t, entity.ReleaseCompleted.Terminal())
	assert.True(t, entity.ReleaseCancelled.Terminal())
	assert.False(t, entity.ReleasePending.Terminal())
	assert.False(t, entity.ReleaseReleased.Terminal())
}

func TestReleaseTypeRequiresDestination(t *testing.T) {
	assert.True(t, entity.ReleaseBranchTransfer.RequiresDestination())
	for _, rt := range []entity.ReleaseType{
		entity.ReleaseJobUsage, entity.ReleaseInternalUse, entity.ReleaseSample,
		entity.ReleasePromotion, entity.ReleaseDisposal, entity.ReleaseOther,
	} {
		assert.False(t, rt.RequiresDestination(), "%s", rt)
	}
}

// Cada propósito de liberación sale al libro con un tipo fijo.
func TestReleaseTypeMovementType(t *testing.T) {
	cases := map[entity.ReleaseType]entity.MovementType{
		entity.ReleaseJobUsage:       entity.MovementSales,
		entity.ReleaseBranchTransfer: entity.MovementTransferOut,
		entity.ReleaseDisposal:       entity.MovementDamaged,
		entity.ReleaseInternalUse:    entity.MovementAdjustmentOut,
		entity.ReleaseSample:         entity.MovementAdjustmentOut,
		entity.ReleasePromotion:      entity.MovementAdjustmentOut,
		entity.ReleaseOther:          entity.MovementAdjustmentOut,
	}
	for rt, want := range cases {
		assert.Equal(t, want, rt.MovementType(), "%s", rt)
		assert.Equal(t, int64(-1), rt.MovementType().Direction(), "toda liberación descuenta stock")
	}
}

func TestReleaseTypeValid(t *testing.T) {
	assert.True(t, entity.ReleaseJobUsage.Valid())
	assert.False(t, entity.ReleaseType("PRESTAMO").Valid())
}
