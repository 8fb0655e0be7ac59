package utils

import (
	"testing"

	"cyberlearn/models"
	"cyberlearn/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrderIsOneBased(t *testing.T) {
	out := NormalizeOrder([]OrderUpdate{{ID: 9}, {ID: 4, Order: 7}, {ID: 2}})

	require.Len(t, out, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{out[0].Order, out[1].Order, out[2].Order})
	assert.Equal(t, uint(4), out[1].ID)
}

func TestPrepareOrder(t *testing.T) {
	items, err := PrepareOrder([]OrderUpdate{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, items[1].Order)

	_, err = PrepareOrder(nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = PrepareOrder([]OrderUpdate{{ID: 1, Order: 1}, {ID: 1, Order: 2}})
	assert.ErrorIs(t, err, ErrDuplicateOrderID)

	_, err = PrepareOrder([]OrderUpdate{{ID: 1, Order: 2}, {ID: 2, Order: 2}})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = PrepareOrder([]OrderUpdate{{ID: 1, Order: 1}, {ID: 2, Order: 0}})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestPersistOrderSwapsWithoutUniqueCollision(t *testing.T) {
	db := testutil.Setup(t)
	phase := testutil.CreatePhase(t, db, "Beginner", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Recon", 1)
	a := testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 10)
	b := testutil.CreateContent(t, db, module.ID, models.ContentTypeDocument, "Intro", 2, 5)
	c := testutil.CreateContent(t, db, module.ID, models.ContentTypeLab, "Practice", 3, 30)

	items, err := PrepareOrder([]OrderUpdate{{ID: c.ID, Section: "Intro"}, {ID: a.ID}, {ID: b.ID}})
	require.NoError(t, err)
	require.NoError(t, PersistOrder(db, &models.Content{}, map[string]interface{}{"module_id": module.ID}, items, true))

	var rows []models.Content
	require.NoError(t, db.Where("module_id = ?", module.ID).Order("sort_order asc").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, []uint{c.ID, a.ID, b.ID}, []uint{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.Equal(t, "Intro", rows[0].Section)
}

func TestPersistOrderRejectsForeignItems(t *testing.T) {
	db := testutil.Setup(t)
	phase := testutil.CreatePhase(t, db, "Beginner", 1)
	m1 := testutil.CreateModule(t, db, phase.ID, "Recon", 1)
	m2 := testutil.CreateModule(t, db, phase.ID, "Exploit", 2)
	a := testutil.CreateContent(t, db, m1.ID, models.ContentTypeVideo, "Intro", 1, 10)
	other := testutil.CreateContent(t, db, m2.ID, models.ContentTypeVideo, "Intro", 1, 10)

	items := []OrderUpdate{{ID: a.ID, Order: 2}, {ID: other.ID, Order: 1}}
	err := PersistOrder(db, &models.Content{}, map[string]interface{}{"module_id": m1.ID}, items, false)
	assert.ErrorIs(t, err, ErrUnknownOrderItem)

	var reloaded models.Content
	require.NoError(t, db.First(&reloaded, a.ID).Error)
	assert.Equal(t, 1, reloaded.Order)
}

func TestNextOrder(t *testing.T) {
	db := testutil.Setup(t)
	next, err := NextOrder(db, &models.Phase{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	testutil.CreatePhase(t, db, "Beginner", 4)
	next, err = NextOrder(db, &models.Phase{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, next)
}
