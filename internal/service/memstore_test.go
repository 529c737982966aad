package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	repo "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
)

// memStore is an in-memory double for the Postgres repositories. A single
// mutex stands in for the database transaction: RunSettlement holds it for
// the whole callback, so settlements serialize exactly like the row locks
// do in production.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	items     map[uuid.UUID]*entity.Item
	proposals map[uuid.UUID]*entity.SwapProposal
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]*entity.User),
		items:     make(map[uuid.UUID]*entity.Item),
		proposals: make(map[uuid.UUID]*entity.SwapProposal),
		clock:     time.Now(),
	}
}

// tick returns strictly increasing timestamps so ordering assertions are
// deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func copyItem(i *entity.Item) *entity.Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func copyProposal(p *entity.SwapProposal) *entity.SwapProposal {
	if p == nil {
		return nil
	}
	c := *p
	if p.OfferedItemID != nil {
		id := *p.OfferedItemID
		c.OfferedItemID = &id
	}
	return &c
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *memUserRepo) GetByID(id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyUser(r.s.users[id]), nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List() ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []entity.User
	for _, u := range r.s.users {
		users = append(users, *copyUser(u))
	}
	return users, nil
}

func (r *memUserRepo) AdjustPoints(id uuid.UUID, delta int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return adjustPoints(r.s, id, delta)
}

func adjustPoints(s *memStore, id uuid.UUID, delta int) (bool, error) {
	u, ok := s.users[id]
	if !ok || u.Points+delta < 0 {
		return false, nil
	}
	u.Points += delta
	return true, nil
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := copyItem(item)
	c.CreatedAt = r.s.tick()
	r.s.items[item.ID] = c
	return nil
}

func (r *memItemRepo) GetByID(id uuid.UUID) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyItem(r.s.items[id]), nil
}

func (r *memItemRepo) ListApproved(filter entity.ItemFilter) ([]entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []entity.Item
	for _, i := range r.s.items {
		if i.ModerationState != entity.ModerationApproved || !i.IsAvailable {
			continue
		}
		if filter.Category != "" && i.Category != filter.Category {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(i.Title), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(i.Description), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, *copyItem(i))
	}
	sortItemsDesc(items)
	return items, nil
}

func (r *memItemRepo) ListByOwner(ownerID uuid.UUID) ([]entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []entity.Item
	for _, i := range r.s.items {
		if i.OwnerID == ownerID {
			items = append(items, *copyItem(i))
		}
	}
	sortItemsDesc(items)
	return items, nil
}

func (r *memItemRepo) ListPendingModeration() ([]entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []entity.Item
	for _, i := range r.s.items {
		if i.ModerationState == entity.ModerationPending {
			items = append(items, *copyItem(i))
		}
	}
	sortItemsDesc(items)
	return items, nil
}

func sortItemsDesc(items []entity.Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})
}

func (r *memItemRepo) SetModeration(id uuid.UUID, state string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[id]
	if !ok || i.ModerationState != entity.ModerationPending {
		return false, nil
	}
	i.ModerationState = state
	i.IsAvailable = state == entity.ModerationApproved
	return true, nil
}

func (r *memItemRepo) SetAvailability(id, ownerID uuid.UUID, available bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[id]
	if !ok || i.OwnerID != ownerID || i.ModerationState != entity.ModerationApproved || i.IsAvailable == available {
		return false, nil
	}
	i.IsAvailable = available
	return true, nil
}

func (r *memItemRepo) RemoveCascade(id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return false, nil
	}
	delete(r.s.items, id)
	rejectPendingReferencing(r.s, []uuid.UUID{id}, uuid.Nil)
	return true, nil
}

func rejectPendingReferencing(s *memStore, itemIDs []uuid.UUID, except uuid.UUID) int64 {
	var n int64
	for _, p := range s.proposals {
		if p.Status != entity.ProposalPending || p.ID == except {
			continue
		}
		for _, id := range itemIDs {
			if p.ItemID == id || (p.OfferedItemID != nil && *p.OfferedItemID == id) {
				p.Status = entity.ProposalRejected
				n++
				break
			}
		}
	}
	return n
}

type memExchangeStore struct{ s *memStore }

func (e *memExchangeStore) CreateProposal(p *entity.SwapProposal) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	c := copyProposal(p)
	c.CreatedAt = e.s.tick()
	e.s.proposals[p.ID] = c
	return nil
}

func (e *memExchangeStore) GetProposalByID(id uuid.UUID) (*entity.SwapProposal, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return copyProposal(e.s.proposals[id]), nil
}

func (e *memExchangeStore) ListByRequester(requesterID uuid.UUID) ([]entity.SwapProposal, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	var out []entity.SwapProposal
	for _, p := range e.s.proposals {
		if p.RequesterID == requesterID {
			out = append(out, *copyProposal(p))
		}
	}
	sortProposalsDesc(out)
	return out, nil
}

func (e *memExchangeStore) ListTargetingOwner(ownerID uuid.UUID) ([]entity.SwapProposal, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	var out []entity.SwapProposal
	for _, p := range e.s.proposals {
		if item, ok := e.s.items[p.ItemID]; ok && item.OwnerID == ownerID {
			out = append(out, *copyProposal(p))
		}
	}
	sortProposalsDesc(out)
	return out, nil
}

func sortProposalsDesc(proposals []entity.SwapProposal) {
	sort.SliceStable(proposals, func(a, b int) bool {
		return proposals[a].CreatedAt.After(proposals[b].CreatedAt)
	})
}

func (e *memExchangeStore) RunSettlement(fn func(tx repo.SettlementTx) error) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return fn(&memTx{s: e.s})
}

// memTx runs with the store mutex already held.
type memTx struct{ s *memStore }

func (t *memTx) Proposal(id uuid.UUID) (*entity.SwapProposal, error) {
	return copyProposal(t.s.proposals[id]), nil
}

func (t *memTx) ItemForUpdate(id uuid.UUID) (*entity.Item, error) {
	return copyItem(t.s.items[id]), nil
}

func (t *memTx) UserForUpdate(id uuid.UUID) (*entity.User, error) {
	return copyUser(t.s.users[id]), nil
}

func (t *memTx) TransferItem(itemID, newOwnerID uuid.UUID) error {
	if i, ok := t.s.items[itemID]; ok {
		i.OwnerID = newOwnerID
		i.IsAvailable = false
	}
	return nil
}

func (t *memTx) AdjustPoints(userID uuid.UUID, delta int) (bool, error) {
	return adjustPoints(t.s, userID, delta)
}

func (t *memTx) SetProposalStatus(id uuid.UUID, from, to string) (bool, error) {
	p, ok := t.s.proposals[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (t *memTx) RejectPendingReferencing(itemIDs []uuid.UUID, except uuid.UUID) (int64, error) {
	return rejectPendingReferencing(t.s, itemIDs, except), nil
}

type memLogRepo struct{}

func (memLogRepo) SaveNotification(*entity.Notification) error   { return nil }
func (memLogRepo) SaveStatusHistory(*entity.StatusHistory) error { return nil }

// fixture wires every service against the shared in-memory store.
type fixture struct {
	store      *memStore
	userRepo   *memUserRepo
	itemRepo   *memItemRepo
	exchange   *ExchangeService
	items      *ItemService
	moderation *ModerationService
	ledger     *LedgerService
	auth       *AuthService
}

func newFixture() *fixture {
	s := newMemStore()
	userRepo := &memUserRepo{s}
	itemRepo := &memItemRepo{s}
	exStore := &memExchangeStore{s}
	logs := memLogRepo{}

	f := &fixture{store: s, userRepo: userRepo, itemRepo: itemRepo}
	f.ledger = NewLedgerService(userRepo)
	f.exchange = NewExchangeService(exStore, itemRepo, userRepo, logs)
	f.items = NewItemService(itemRepo)
	f.moderation = NewModerationService(itemRepo, logs)
	f.auth = NewAuthService(userRepo, f.ledger, "test-secret", 0)
	return f
}

func (f *fixture) addUser(name string, points int) *entity.User {
	u := &entity.User{
		ID:     uuid.New(),
		Name:   name,
		Email:  name + "@example.com",
		Points: points,
	}
	f.userRepo.Create(u)
	return u
}

func (f *fixture) addItem(ownerID uuid.UUID, title string, pointValue int, state string, available bool) *entity.Item {
	i := &entity.Item{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           title,
		Category:        "outerwear",
		Type:            "Jacket",
		Size:            "M",
		Condition:       "good",
		PointValue:      pointValue,
		ModerationState: state,
		IsAvailable:     available,
	}
	f.itemRepo.Create(i)
	return i
}

func (f *fixture) addApprovedItem(ownerID uuid.UUID, title string, pointValue int) *entity.Item {
	return f.addItem(ownerID, title, pointValue, entity.ModerationApproved, true)
}

func (f *fixture) item(id uuid.UUID) *entity.Item {
	i, _ := f.itemRepo.GetByID(id)
	return i
}

func (f *fixture) user(id uuid.UUID) *entity.User {
	u, _ := f.userRepo.GetByID(id)
	return u
}

func (f *fixture) proposal(id uuid.UUID) *entity.SwapProposal {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return copyProposal(f.store.proposals[id])
}
