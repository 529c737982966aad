package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
)

func createInput(title string) entity.CreateItemInput {
	return entity.CreateItemInput{
		Title:      title,
		Category:   "outerwear",
		Type:       "Jacket",
		Size:       "M",
		Condition:  "good",
		PointValue: 25,
	}
}

func TestCreateItemStartsPending(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", 0)

	item, err := f.items.CreateItem(owner.ID, createInput("Blue Denim Jacket"))
	require.NoError(t, err)

	assert.Equal(t, entity.ModerationPending, item.ModerationState)
	assert.False(t, item.IsAvailable)

	// Not in the public catalog until approved.
	catalog, err := f.items.ListCatalog(entity.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestCatalogAfterApproval(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", 0)
	admin := f.addUser("admin", 0)

	item, err := f.items.CreateItem(owner.ID, createInput("Wool Coat"))
	require.NoError(t, err)

	_, err = f.moderation.Approve(admin.ID, item.ID)
	require.NoError(t, err)

	catalog, err := f.items.ListCatalog(entity.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, item.ID, catalog[0].ID)
	assert.True(t, catalog[0].IsAvailable)
}

func TestCatalogFilters(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", 0)
	f.addApprovedItem(owner.ID, "Blue Denim Jacket", 25)
	dress := f.addItem(owner.ID, "Red Summer Dress", 30, entity.ModerationApproved, true)
	f.store.items[dress.ID].Category = "dresses"

	byCategory, err := f.items.ListCatalog(entity.ItemFilter{Category: "dresses"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, dress.ID, byCategory[0].ID)

	bySearch, err := f.items.ListCatalog(entity.ItemFilter{Search: "denim"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Blue Denim Jacket", bySearch[0].Title)
}

func TestGetItemVisibility(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", 0)
	stranger := f.addUser("stranger", 0)
	pending := f.addItem(owner.ID, "Pending Scarf", 10, entity.ModerationPending, false)

	t.Run("owner sees own pending item", func(t *testing.T) {
		got, err := f.items.GetItem(owner.ID, false, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, pending.ID, got.ID)
	})

	t.Run("admin sees pending item", func(t *testing.T) {
		got, err := f.items.GetItem(stranger.ID, true, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, pending.ID, got.ID)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		_, err := f.items.GetItem(stranger.ID, false, pending.ID)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("approved item visible to anyone", func(t *testing.T) {
		approved := f.addApprovedItem(owner.ID, "Wool Coat", 25)
		got, err := f.items.GetItem(stranger.ID, false, approved.ID)
		require.NoError(t, err)
		assert.Equal(t, approved.ID, got.ID)
	})
}

func TestWithdrawAndRelist(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", 0)
	stranger := f.addUser("stranger", 0)
	item := f.addApprovedItem(owner.ID, "Wool Coat", 25)

	t.Run("stranger cannot withdraw", func(t *testing.T) {
		_, err := f.items.Withdraw(stranger.ID, item.ID)
		assert.ErrorIs(t, err, ErrNotItemOwner)
	})

	t.Run("withdraw takes item off the pool", func(t *testing.T) {
		got, err := f.items.Withdraw(owner.ID, item.ID)
		require.NoError(t, err)
		assert.False(t, got.IsAvailable)
		assert.False(t, f.item(item.ID).IsAvailable)
	})

	t.Run("withdraw twice is a no-op conflict", func(t *testing.T) {
		_, err := f.items.Withdraw(owner.ID, item.ID)
		assert.ErrorIs(t, err, ErrNoStateChange)
	})

	t.Run("relist restores availability", func(t *testing.T) {
		got, err := f.items.Relist(owner.ID, item.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAvailable)
	})

	t.Run("unapproved item cannot be relisted", func(t *testing.T) {
		pending := f.addItem(owner.ID, "Pending Scarf", 10, entity.ModerationPending, false)
		_, err := f.items.Relist(owner.ID, pending.ID)
		assert.ErrorIs(t, err, ErrItemNotApproved)
	})
}

func TestSetAvailabilityOwnerGuard(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", 0)
	former := f.addUser("former", 0)
	item := f.addItem(owner.ID, "Wool Coat", 25, entity.ModerationApproved, false)

	// The update re-checks ownership itself: a caller holding a stale
	// snapshot cannot relist an item that changed hands.
	applied, err := f.itemRepo.SetAvailability(item.ID, former.ID, true)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.False(t, f.item(item.ID).IsAvailable)

	applied, err = f.itemRepo.SetAvailability(item.ID, owner.ID, true)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, f.item(item.ID).IsAvailable)
}

func TestRelistAfterTransfer(t *testing.T) {
	f := newFixture()
	u1 := f.addUser("u1", 0)
	u2 := f.addUser("u2", 100)
	itemA := f.addApprovedItem(u1.ID, "Jacket A", 50)

	p, err := f.exchange.Propose(u2.ID, entity.CreateProposalInput{
		ItemID: itemA.ID.String(),
		Kind:   entity.KindRedeem,
	})
	require.NoError(t, err)
	_, err = f.exchange.Resolve(u1.ID, p.ID, "accept")
	require.NoError(t, err)

	// The former owner cannot touch the transferred item.
	_, err = f.items.Relist(u1.ID, itemA.ID)
	assert.ErrorIs(t, err, ErrNotItemOwner)
	assert.False(t, f.item(itemA.ID).IsAvailable)

	got, err := f.items.Relist(u2.ID, itemA.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAvailable)
}

func TestListMine(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", 0)
	other := f.addUser("other", 0)
	f.addItem(owner.ID, "Pending Scarf", 10, entity.ModerationPending, false)
	f.addApprovedItem(owner.ID, "Wool Coat", 25)
	f.addApprovedItem(other.ID, "Dress B", 40)

	mine, err := f.items.ListMine(owner.ID)
	require.NoError(t, err)
	// Own listing includes unapproved items, newest first.
	require.Len(t, mine, 2)
	assert.Equal(t, "Wool Coat", mine[0].Title)
	assert.Equal(t, "Pending Scarf", mine[1].Title)
}
