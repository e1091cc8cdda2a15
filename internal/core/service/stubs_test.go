package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

// stubStore is an in-memory implementation of every repository port.
type stubStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*domain.User
	listings map[string]*domain.Listing
	saved    []domain.SavedListing
	messages []*domain.Message
	reports  map[string]*domain.Report
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[string]*domain.User),
		listings: make(map[string]*domain.Listing),
		reports:  make(map[string]*domain.Report),
	}
}

func (s *stubStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%03d", prefix, s.seq)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func cloneListing(l *domain.Listing) *domain.Listing {
	clone := *l
	clone.Amenities = append([]string(nil), l.Amenities...)
	clone.Images = append([]string(nil), l.Images...)
	return &clone
}

// userRepo, listingRepo, savedRepo, messageRepo and reportRepo expose the
// store through the individual ports so method names do not collide.
type (
	userRepo    struct{ *stubStore }
	listingRepo struct{ *stubStore }
	savedRepo   struct{ *stubStore }
	messageRepo struct{ *stubStore }
	reportRepo  struct{ *stubStore }
)

func (r userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(user)
	if c.ID == "" {
		c.ID = r.nextID("u")
	}
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r userRepo) UpdateProfile(_ context.Context, id string, name, image *string, at time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if image != nil {
		u.Image = *image
	}
	u.UpdatedAt = at
	return cloneUser(u), nil
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return nil
}

func (r userRepo) MarkEmailVerified(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerified = &at
	return nil
}

func (r userRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r listingRepo) Create(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = r.nextID("l")
	}
	r.listings[l.ID] = cloneListing(l)
	return nil
}

func (r listingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (r listingRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Listing
	for _, id := range ids {
		if l, ok := r.listings[id]; ok {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

// hasAllAmenities is the in-memory form of the $all amenities predicate.
func hasAllAmenities(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, a := range have {
		set[a] = struct{}{}
	}
	for _, a := range want {
		if _, ok := set[a]; !ok {
			return false
		}
	}
	return true
}

// Search mirrors the predicates the mongo repository builds.
func (r listingRepo) Search(_ context.Context, f ports.ListingFilter) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Listing
	for _, l := range r.listings {
		if f.OwnerID != "" {
			if l.OwnerID != f.OwnerID {
				continue
			}
		} else if !l.IsPublic() {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(l.Title), q) &&
				!strings.Contains(strings.ToLower(l.Description), q) &&
				!strings.Contains(strings.ToLower(l.Address), q) {
				continue
			}
		}
		if l.Price < f.MinPrice || l.Price > f.MaxPrice {
			continue
		}
		if f.Bedrooms != nil {
			if f.BedroomsAtLeast && l.Bedrooms < *f.Bedrooms {
				continue
			}
			if !f.BedroomsAtLeast && l.Bedrooms != *f.Bedrooms {
				continue
			}
		}
		if f.AvailableFrom != nil && l.AvailableFrom.After(*f.AvailableFrom) {
			continue
		}
		if f.AvailableUntil != nil && l.AvailableUntil.Before(*f.AvailableUntil) {
			continue
		}
		if !hasAllAmenities(l.Amenities, f.Amenities) {
			continue
		}
		out = append(out, cloneListing(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r listingRepo) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	r.listings[l.ID] = cloneListing(l)
	return nil
}

func (r listingRepo) SetPublished(_ context.Context, id string, published bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Published = published
	l.UpdatedAt = at
	return nil
}

func (r listingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r listingRepo) FindIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, l := range r.listings {
		if l.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r listingRepo) DeleteByOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.listings {
		if l.OwnerID == ownerID {
			delete(r.listings, id)
		}
	}
	return nil
}

func (r savedRepo) Save(_ context.Context, userID, listingID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.saved {
		if s.UserID == userID && s.ListingID == listingID {
			return nil
		}
	}
	r.saved = append(r.saved, domain.SavedListing{UserID: userID, ListingID: listingID, CreatedAt: at})
	return nil
}

func (r savedRepo) Remove(_ context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = filterSaved(r.saved, func(s domain.SavedListing) bool {
		return s.UserID == userID && s.ListingID == listingID
	})
	return nil
}

func (r savedRepo) SavedIDs(_ context.Context, userID string, listingIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(listingIDs))
	for _, id := range listingIDs {
		want[id] = true
	}
	out := make(map[string]bool)
	for _, s := range r.saved {
		if s.UserID == userID && want[s.ListingID] {
			out[s.ListingID] = true
		}
	}
	return out, nil
}

func (r savedRepo) ListByUser(_ context.Context, userID string) ([]domain.SavedListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SavedListing
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].UserID == userID {
			out = append(out, r.saved[i])
		}
	}
	return out, nil
}

func (r savedRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = filterSaved(r.saved, func(s domain.SavedListing) bool { return s.UserID == userID })
	return nil
}

func (r savedRepo) DeleteByListings(_ context.Context, listingIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]bool, len(listingIDs))
	for _, id := range listingIDs {
		drop[id] = true
	}
	r.saved = filterSaved(r.saved, func(s domain.SavedListing) bool { return drop[s.ListingID] })
	return nil
}

func filterSaved(in []domain.SavedListing, drop func(domain.SavedListing) bool) []domain.SavedListing {
	out := in[:0]
	for _, s := range in {
		if !drop(s) {
			out = append(out, s)
		}
	}
	return out
}

func between(m *domain.Message, a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

func (r messageRepo) Create(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = r.nextID("m")
	}
	c := *m
	r.messages = append(r.messages, &c)
	return nil
}

func (r messageRepo) CounterpartIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, m := range r.messages {
		if m.SenderID != userID && m.ReceiverID != userID {
			continue
		}
		other := m.Counterpart(userID)
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out, nil
}

func (r messageRepo) Latest(_ context.Context, a, b string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.Message
	for _, m := range r.messages {
		if !between(m, a, b) {
			continue
		}
		if latest == nil || m.CreatedAt.After(latest.CreatedAt) ||
			(m.CreatedAt.Equal(latest.CreatedAt) && m.ID > latest.ID) {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r messageRepo) CountUnread(_ context.Context, senderID, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (r messageRepo) CountUnreadFor(_ context.Context, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (r messageRepo) Thread(_ context.Context, a, b string, limit int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.messages {
		if between(m, a, b) {
			c := *m
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r messageRepo) MarkRead(_ context.Context, senderID, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r messageRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages[:0]
	for _, m := range r.messages {
		if m.SenderID != userID && m.ReceiverID != userID {
			out = append(out, m)
		}
	}
	r.messages = out
	return nil
}

func (r reportRepo) Create(_ context.Context, rep *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep.ID == "" {
		rep.ID = r.nextID("r")
	}
	c := *rep
	r.reports[c.ID] = &c
	return nil
}

func (r reportRepo) FindByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	c := *rep
	return &c, nil
}

func (r reportRepo) List(_ context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Report
	for _, rep := range r.reports {
		if status == "" || rep.Status == status {
			c := *rep
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r reportRepo) UpdateStatus(_ context.Context, id string, from, to domain.ReportStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return domain.ErrReportNotFound
	}
	if rep.Status != from {
		return domain.ErrInvalidReportTransition
	}
	rep.Status = to
	rep.UpdatedAt = at
	return nil
}

func (r reportRepo) DeleteByReporter(_ context.Context, reporterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rep := range r.reports {
		if rep.ReporterID == reporterID {
			delete(r.reports, id)
		}
	}
	return nil
}

func (r reportRepo) DeleteByListings(_ context.Context, listingIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]bool, len(listingIDs))
	for _, id := range listingIDs {
		drop[id] = true
	}
	for id, rep := range r.reports {
		if drop[rep.ListingID] {
			delete(r.reports, id)
		}
	}
	return nil
}

type stubTokens struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]string
	err    error
}

func newStubTokens() *stubTokens {
	return &stubTokens{tokens: make(map[string]string)}
}

func (t *stubTokens) Issue(_ context.Context, purpose ports.TokenPurpose, userID string, _ time.Duration) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return "", t.err
	}
	t.seq++
	token := fmt.Sprintf("tok-%d", t.seq)
	t.tokens[string(purpose)+":"+token] = userID
	return token, nil
}

func (t *stubTokens) Consume(_ context.Context, purpose ports.TokenPurpose, token string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := string(purpose) + ":" + token
	userID, ok := t.tokens[key]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(t.tokens, key)
	return userID, nil
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *stubNotifier) Enqueue(note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

func (n *stubNotifier) last() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return domain.Notification{}, false
	}
	return n.sent[len(n.sent)-1], true
}

type stubPublisher struct {
	mu        sync.Mutex
	published map[string][]*domain.Message
}

func (p *stubPublisher) Publish(userID string, m *domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.published == nil {
		p.published = make(map[string][]*domain.Message)
	}
	p.published[userID] = append(p.published[userID], m)
}

// fixture wires every service onto one stub store.
type fixture struct {
	store     *stubStore
	tokens    *stubTokens
	notifier  *stubNotifier
	publisher *stubPublisher

	auth       *AuthService
	users      *UserService
	listings   *ListingService
	messages   *MessageService
	moderation *ModerationService
}

func newFixture() *fixture {
	store := newStubStore()
	f := &fixture{
		store:     store,
		tokens:    newStubTokens(),
		notifier:  &stubNotifier{},
		publisher: &stubPublisher{},
	}

	cascade := NewCascade(userRepo{store}, listingRepo{store}, savedRepo{store}, messageRepo{store}, reportRepo{store})
	log := zerolog.Nop()
	f.auth = NewAuthService(userRepo{store}, f.tokens, f.notifier, "secret", time.Hour, "http://app.test/", log)
	f.users = NewUserService(userRepo{store}, cascade, log)
	f.listings = NewListingService(listingRepo{store}, savedRepo{store}, userRepo{store}, cascade, log)
	f.messages = NewMessageService(messageRepo{store}, userRepo{store}, listingRepo{store}, f.notifier, f.publisher, "http://app.test", log)
	f.moderation = NewModerationService(reportRepo{store}, listingRepo{store}, userRepo{store}, cascade, f.notifier, log)
	return f
}

// addUser stores a user directly and returns it as a caller.
func (f *fixture) addUser(id, name, role string) domain.Caller {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.users[id] = &domain.User{
		ID:    id,
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
		Role:  role,
	}
	return domain.Caller{UserID: id, Role: role}
}

// addListing stores a listing directly. created orders the feed.
func (f *fixture) addListing(l domain.Listing) *domain.Listing {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if l.AvailableFrom.IsZero() {
		l.AvailableFrom = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	if l.AvailableUntil.IsZero() {
		l.AvailableUntil = time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	}
	if l.Title == "" {
		l.Title = "Room " + l.ID
	}
	f.store.listings[l.ID] = cloneListing(&l)
	return &l
}

func (f *fixture) addMessage(id, from, to string, at time.Time, read bool) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.messages = append(f.store.messages, &domain.Message{
		ID:         id,
		Content:    "msg " + id,
		SenderID:   from,
		ReceiverID: to,
		Read:       read,
		CreatedAt:  at,
	})
}
