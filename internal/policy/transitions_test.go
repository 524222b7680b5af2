package policy

import (
	"testing"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": Lenient, "lenient": Lenient, " STRICT ": Strict} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("sometimes")
	assert.Error(t, err)
}

func TestLenientAcceptsAnyKnownStatus(t *testing.T) {
	tr := NewTransitions(Lenient)

	assert.NoError(t, tr.Check(models.OrderCompleted, models.OrderDraft))
	assert.NoError(t, tr.Check(models.OrderCancelled, models.OrderInProgress))
	assert.NoError(t, tr.CheckAssign(models.OrderCompleted))

	err := tr.Check(models.OrderDraft, "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStrictTable(t *testing.T) {
	tr := NewTransitions(Strict)

	allowed := [][2]models.OrderStatus{
		{models.OrderDraft, models.OrderPublished},
		{models.OrderPublished, models.OrderAssigned},
		{models.OrderAssigned, models.OrderInProgress},
		{models.OrderInProgress, models.OrderCompleted},
		{models.OrderInProgress, models.OrderOnHold},
		{models.OrderOnHold, models.OrderInProgress},
		{models.OrderDraft, models.OrderCancelled},
		{models.OrderCompleted, models.OrderCompleted},
	}
	for _, c := range allowed {
		assert.NoError(t, tr.Check(c[0], c[1]), "%s -> %s", c[0], c[1])
	}

	denied := [][2]models.OrderStatus{
		{models.OrderDraft, models.OrderCompleted},
		{models.OrderCompleted, models.OrderDraft},
		{models.OrderCancelled, models.OrderOnHold},
		{models.OrderInProgress, models.OrderDraft},
	}
	for _, c := range denied {
		err := tr.Check(c[0], c[1])
		assert.ErrorIs(t, err, apperr.ErrValidation, "%s -> %s", c[0], c[1])
	}
}

func TestStrictAssign(t *testing.T) {
	tr := NewTransitions(Strict)

	assert.NoError(t, tr.CheckAssign(models.OrderDraft))
	assert.NoError(t, tr.CheckAssign(models.OrderPublished))
	assert.NoError(t, tr.CheckAssign(models.OrderAssigned))
	assert.ErrorIs(t, tr.CheckAssign(models.OrderInProgress), apperr.ErrValidation)
	assert.ErrorIs(t, tr.CheckAssign(models.OrderCompleted), apperr.ErrValidation)
}
