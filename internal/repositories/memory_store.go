package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
)

// memState is one snapshot of every table. Rows are stored by value so a
// snapshot can be cloned without aliasing the committed state.
type memState struct {
	users         map[uuid.UUID]models.User
	leads         map[uuid.UUID]models.Lead
	packages      map[uuid.UUID]models.Package
	commissions   map[uuid.UUID]models.Commission
	policies      map[uuid.UUID]models.CommissionPolicy
	notifications map[uuid.UUID]models.Notification
	seq           map[models.Role]int64
}

func newMemState() *memState {
	return &memState{
		users:         map[uuid.UUID]models.User{},
		leads:         map[uuid.UUID]models.Lead{},
		packages:      map[uuid.UUID]models.Package{},
		commissions:   map[uuid.UUID]models.Commission{},
		policies:      map[uuid.UUID]models.CommissionPolicy{},
		notifications: map[uuid.UUID]models.Notification{},
		seq:           map[models.Role]int64{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memState) clone() *memState {
	return &memState{
		users:         cloneMap(s.users),
		leads:         cloneMap(s.leads),
		packages:      cloneMap(s.packages),
		commissions:   cloneMap(s.commissions),
		policies:      cloneMap(s.policies),
		notifications: cloneMap(s.notifications),
		seq:           cloneMap(s.seq),
	}
}

// MemoryStore keeps everything in process. Transactions are serialized and
// run against a private copy that replaces the committed state only when
// fn succeeds.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState()}
}

func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(memTx{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) Close() {}

type memTx struct {
	st *memState
}

func (t memTx) Users() UserRepository                 { return memUsers{t.st} }
func (t memTx) Leads() LeadRepository                 { return memLeads{t.st} }
func (t memTx) Packages() PackageRepository           { return memPackages{t.st} }
func (t memTx) Commissions() CommissionRepository     { return memCommissions{t.st} }
func (t memTx) Policies() PolicyRepository            { return memPolicies{t.st} }
func (t memTx) Notifications() NotificationRepository { return memNotifications{t.st} }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// newestFirst mirrors ORDER BY created_at DESC, id.
func newestFirst(ai, bi time.Time, aid, bid uuid.UUID) bool {
	if !ai.Equal(bi) {
		return ai.After(bi)
	}
	return aid.String() < bid.String()
}

func paginate[T any](all []T, page, pageSize int) []T {
	offset, limit := models.NormalizePage(page, pageSize)
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ---------- users ----------

type memUsers struct{ st *memState }

func copyUser(u models.User) *models.User {
	if u.BankDetails != nil {
		b := *u.BankDetails
		u.BankDetails = &b
	}
	return &u
}

func (r memUsers) Create(_ context.Context, u *models.User) error {
	u.Email = utils.NormalizeEmail(u.Email)
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return utils.ErrEmailExists
		}
		if strings.EqualFold(existing.UniqueID, u.UniqueID) {
			return utils.ErrUniqueIDExists
		}
	}
	u.RowVersion = 1
	r.st.users[u.ID] = *copyUser(*u)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	for _, u := range r.st.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r memUsers) GetByUniqueID(_ context.Context, uniqueID string) (*models.User, error) {
	for _, u := range r.st.users {
		if strings.EqualFold(u.UniqueID, uniqueID) {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r memUsers) NextUniqueID(_ context.Context, role models.Role) (string, error) {
	prefix := associateCodePrefix
	if role == models.RoleAdmin {
		prefix = adminCodePrefix
	}
	r.st.seq[role]++
	return FormatUniqueID(prefix, r.st.seq[role]), nil
}

func (r memUsers) List(_ context.Context, f models.UserFilter) ([]*models.User, int, error) {
	var all []*models.User
	for _, u := range r.st.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.State != nil && u.State() != *f.State {
			continue
		}
		if q := strings.TrimSpace(f.Search); q != "" &&
			!containsFold(u.Name, q) && !containsFold(u.Email, q) &&
			!containsFold(u.UniqueID, q) && !containsFold(u.Phone, q) {
			continue
		}
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].UniqueID < all[j].UniqueID
	})
	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r memUsers) UpdateIfVersion(_ context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	cur, ok := r.st.users[u.ID]
	if !ok || cur.RowVersion != expected {
		return updatedTag(0), nil
	}
	next := *copyUser(*u)
	// Identity columns are not writable through an update.
	next.Email, next.UniqueID, next.Role, next.CreatedAt = cur.Email, cur.UniqueID, cur.Role, cur.CreatedAt
	next.RowVersion = expected + 1
	next.UpdatedAt = time.Now().UTC()
	r.st.users[u.ID] = next
	return updatedTag(1), nil
}

func (r memUsers) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	get := func(ctx context.Context, id string) (*models.User, error) {
		uid, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		return r.GetByID(ctx, uid)
	}
	return WithRetry(ctx, defaultMaxRetries, id.String(), get, r.UpdateIfVersion, mutate)
}

// ---------- leads ----------

type memLeads struct{ st *memState }

func (r memLeads) Create(_ context.Context, l *models.Lead) error {
	l.RowVersion = 1
	r.st.leads[l.ID] = *l
	return nil
}

func (r memLeads) GetByID(_ context.Context, id uuid.UUID) (*models.Lead, error) {
	l, ok := r.st.leads[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r memLeads) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return r.GetByID(ctx, id)
}

func (r memLeads) List(_ context.Context, f models.LeadFilter) ([]*models.Lead, int, error) {
	var all []*models.Lead
	for _, l := range r.st.leads {
		if f.AssociateID != nil && l.AssociateID != *f.AssociateID {
			continue
		}
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		if q := strings.TrimSpace(f.Search); q != "" &&
			!containsFold(l.CustomerName, q) && !containsFold(l.Phone, q) && !containsFold(utils.Val(l.Email), q) {
			continue
		}
		l := l
		all = append(all, &l)
	}
	sort.Slice(all, func(i, j int) bool {
		return newestFirst(all[i].CreatedAt, all[j].CreatedAt, all[i].ID, all[j].ID)
	})
	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r memLeads) UpdateIfVersion(_ context.Context, l *models.Lead, expected int64) (pgconn.CommandTag, error) {
	cur, ok := r.st.leads[l.ID]
	if !ok || cur.RowVersion != expected {
		return updatedTag(0), nil
	}
	next := *l
	next.CreatedAt = cur.CreatedAt
	next.RowVersion = expected + 1
	next.UpdatedAt = time.Now().UTC()
	r.st.leads[l.ID] = next
	return updatedTag(1), nil
}

func (r memLeads) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.leads[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.st.leads, id)
	return nil
}

func (r memLeads) CountByStatus(_ context.Context, associateID *uuid.UUID) (map[models.LeadStatus]int, error) {
	out := make(map[models.LeadStatus]int, len(models.AllLeadStatuses))
	for _, l := range r.st.leads {
		if associateID != nil && l.AssociateID != *associateID {
			continue
		}
		out[l.Status]++
	}
	return out, nil
}

// ---------- packages ----------

type memPackages struct{ st *memState }

func (r memPackages) ownedBy(p models.Package, associateID *uuid.UUID) bool {
	if associateID == nil {
		return true
	}
	l, ok := r.st.leads[p.LeadID]
	return ok && l.AssociateID == *associateID
}

func (r memPackages) Create(_ context.Context, p *models.Package) error {
	for _, existing := range r.st.packages {
		if existing.LeadID == p.LeadID {
			return utils.ErrPackageExistsForLead
		}
	}
	p.RowVersion = 1
	r.st.packages[p.ID] = *p
	return nil
}

func (r memPackages) GetByID(_ context.Context, id uuid.UUID) (*models.Package, error) {
	p, ok := r.st.packages[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memPackages) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	return r.GetByID(ctx, id)
}

func (r memPackages) GetByLeadID(_ context.Context, leadID uuid.UUID) (*models.Package, error) {
	for _, p := range r.st.packages {
		if p.LeadID == leadID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memPackages) List(_ context.Context, f models.PackageFilter) ([]*models.Package, int, error) {
	var all []*models.Package
	for _, p := range r.st.packages {
		if !r.ownedBy(p, f.AssociateID) {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool {
		return newestFirst(all[i].CreatedAt, all[j].CreatedAt, all[i].ID, all[j].ID)
	})
	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r memPackages) UpdateIfVersion(_ context.Context, p *models.Package, expected int64) (pgconn.CommandTag, error) {
	cur, ok := r.st.packages[p.ID]
	if !ok || cur.RowVersion != expected {
		return updatedTag(0), nil
	}
	next := cur
	next.CommissionAmount = p.CommissionAmount
	next.FinalAmount = p.FinalAmount
	next.Status = p.Status
	next.AdminApproved = p.AdminApproved
	next.ApprovedAt = p.ApprovedAt
	next.RowVersion = expected + 1
	next.UpdatedAt = time.Now().UTC()
	r.st.packages[p.ID] = next
	return updatedTag(1), nil
}

func (r memPackages) CountByStatus(_ context.Context, associateID *uuid.UUID) (map[models.PackageStatus]int, error) {
	out := make(map[models.PackageStatus]int, len(models.AllPackageStatuses))
	for _, p := range r.st.packages {
		if r.ownedBy(p, associateID) {
			out[p.Status]++
		}
	}
	return out, nil
}

func (r memPackages) ListAwaitingPayment(_ context.Context) ([]*models.Package, error) {
	var out []*models.Package
	for _, p := range r.st.packages {
		if p.Status != models.PackageStatusApproved && p.Status != models.PackageStatusTripComplete {
			continue
		}
		if paidCommission(r.st, p.ID) != nil {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, bi := utils.Val(out[i].ApprovedAt), utils.Val(out[j].ApprovedAt)
		if !ai.Equal(bi) {
			return ai.Before(bi)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// ---------- commissions ----------

type memCommissions struct{ st *memState }

func paidCommission(st *memState, packageID uuid.UUID) *models.Commission {
	for _, c := range st.commissions {
		if c.PackageID == packageID && c.Status == models.CommissionStatusPaid {
			return &c
		}
	}
	return nil
}

func (r memCommissions) Create(_ context.Context, c *models.Commission) error {
	if c.Status == models.CommissionStatusPaid && paidCommission(r.st, c.PackageID) != nil {
		return utils.ErrPaidCommissionExists
	}
	c.RowVersion = 1
	r.st.commissions[c.ID] = *c
	return nil
}

func (r memCommissions) GetByID(_ context.Context, id uuid.UUID) (*models.Commission, error) {
	c, ok := r.st.commissions[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCommissions) GetPaidByPackageID(_ context.Context, packageID uuid.UUID) (*models.Commission, error) {
	return paidCommission(r.st, packageID), nil
}

func (r memCommissions) GetPendingByPackageID(_ context.Context, packageID uuid.UUID) (*models.Commission, error) {
	var latest *models.Commission
	for _, c := range r.st.commissions {
		if c.PackageID != packageID || c.Status != models.CommissionStatusPending {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			c := c
			latest = &c
		}
	}
	return latest, nil
}

func (r memCommissions) List(_ context.Context, f models.CommissionFilter) ([]*models.Commission, int, error) {
	var all []*models.Commission
	for _, c := range r.st.commissions {
		if f.AssociateID != nil && c.AssociateID != *f.AssociateID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		c := c
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		return newestFirst(all[i].CreatedAt, all[j].CreatedAt, all[i].ID, all[j].ID)
	})
	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r memCommissions) UpdateIfVersion(_ context.Context, c *models.Commission, expected int64) (pgconn.CommandTag, error) {
	cur, ok := r.st.commissions[c.ID]
	if !ok || cur.RowVersion != expected || cur.Status == models.CommissionStatusPaid {
		return updatedTag(0), nil
	}
	if c.Status == models.CommissionStatusPaid && paidCommission(r.st, c.PackageID) != nil {
		return nil, utils.ErrPaidCommissionExists
	}
	next := *c
	next.AssociateID, next.PackageID, next.LeadID, next.CreatedAt = cur.AssociateID, cur.PackageID, cur.LeadID, cur.CreatedAt
	next.RowVersion = expected + 1
	next.UpdatedAt = time.Now().UTC()
	r.st.commissions[c.ID] = next
	return updatedTag(1), nil
}

func (r memCommissions) Summary(_ context.Context, associateID *uuid.UUID) (*models.CommissionSummary, error) {
	var s models.CommissionSummary
	for _, c := range r.st.commissions {
		if c.Status != models.CommissionStatusPaid {
			continue
		}
		if associateID != nil && c.AssociateID != *associateID {
			continue
		}
		s.Paid = s.Paid.Add(c.Amount)
		s.PaidCount++
	}

	pkgs := memPackages(r)
	unpaid := decimal.Zero
	for _, p := range r.st.packages {
		if p.Status != models.PackageStatusApproved && p.Status != models.PackageStatusTripComplete {
			continue
		}
		if !pkgs.ownedBy(p, associateID) || paidCommission(r.st, p.ID) != nil {
			continue
		}
		unpaid = unpaid.Add(p.CommissionAmount)
		s.UnpaidCount++
	}
	s.Earned = s.Paid.Add(unpaid)
	s.Pending = unpaid
	return &s, nil
}

// ---------- policies ----------

type memPolicies struct{ st *memState }

func (r memPolicies) Create(_ context.Context, p *models.CommissionPolicy) error {
	for _, existing := range r.st.policies {
		if existing.PackageType == p.PackageType {
			return utils.ErrPolicyExists
		}
	}
	p.RowVersion = 1
	r.st.policies[p.ID] = *p
	return nil
}

func (r memPolicies) GetByType(_ context.Context, t models.PackageType) (*models.CommissionPolicy, error) {
	for _, p := range r.st.policies {
		if p.PackageType == t {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memPolicies) List(_ context.Context) ([]*models.CommissionPolicy, error) {
	var out []*models.CommissionPolicy
	for _, p := range r.st.policies {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PackageType < out[j].PackageType })
	return out, nil
}

func (r memPolicies) UpdateIfVersion(_ context.Context, p *models.CommissionPolicy, expected int64) (pgconn.CommandTag, error) {
	cur, ok := r.st.policies[p.ID]
	if !ok || cur.RowVersion != expected {
		return updatedTag(0), nil
	}
	cur.CommissionPercent = p.CommissionPercent
	cur.IsActive = p.IsActive
	cur.RowVersion = expected + 1
	cur.UpdatedAt = time.Now().UTC()
	r.st.policies[p.ID] = cur
	return updatedTag(1), nil
}

// ---------- notifications ----------

type memNotifications struct{ st *memState }

func (r memNotifications) Create(_ context.Context, n *models.Notification) error {
	r.st.notifications[n.ID] = *n
	return nil
}

func (r memNotifications) List(_ context.Context, s models.Session, unreadOnly bool, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.st.notifications {
		if !n.VisibleTo(s) || (unreadOnly && n.IsRead) {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return paginate(out, 1, limit), nil
}

func (r memNotifications) CountUnread(_ context.Context, s models.Session) (int, error) {
	n := 0
	for _, notif := range r.st.notifications {
		if notif.VisibleTo(s) && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r memNotifications) MarkRead(_ context.Context, id uuid.UUID, s models.Session) (bool, error) {
	n, ok := r.st.notifications[id]
	if !ok || !n.VisibleTo(s) {
		return false, nil
	}
	n.IsRead = true
	r.st.notifications[id] = n
	return true, nil
}

func (r memNotifications) MarkAllRead(_ context.Context, s models.Session) (int64, error) {
	var count int64
	for id, n := range r.st.notifications {
		if n.VisibleTo(s) && !n.IsRead {
			n.IsRead = true
			r.st.notifications[id] = n
			count++
		}
	}
	return count, nil
}
