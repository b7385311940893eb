// Package local implements repository.Store over JSON snapshots in a kv namespace.
// The mock dataset and the simulated remote dataset are both built from it.
package local

import (
	"context"
	"log/slog"
	"slices"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/persistence/seed"
	"rewards/internal/util"
)

var errNotFound = repository.ErrNotFound

// Collection key suffixes under a namespace.
const (
	KeyUsers         = "users"
	KeySponsors      = "sponsors"
	KeyCatalog       = "catalog"
	KeyApplications  = "applications"
	KeyTransactions  = "transactions"
	KeyLogs          = "logs"
	KeyMessages      = "messages"
	KeyNotifications = "notifications"
)

type store struct {
	name      string
	namespace string
	kv        kv.Store
	logger    *slog.Logger

	users         *userRepository
	sponsors      *sponsorRepository
	catalog       *productRepository
	applications  *applicationRepository
	transactions  *transactionRepository
	auditLogs     *auditLogRepository
	messages      *messageRepository
	notifications *notificationRepository
}

// NewStore builds a dataset under namespace+"/" whose absent collections read as fixtures.
func NewStore(name, namespace string, backend kv.Store, fixtures func() *seed.Dataset, logger *slog.Logger) repository.Store {
	prefix := namespace + "/"
	s := &store{
		name:      name,
		namespace: prefix,
		kv:        backend,
		logger:    logger.With("component", "store."+name),
	}

	s.users = &userRepository{c: &collection[entity.User]{
		store: backend, key: prefix + KeyUsers,
		seed: func() []*entity.User { return fixtures().Users },
		id:   func(u *entity.User) string { return u.ID },
	}}
	s.sponsors = &sponsorRepository{c: &collection[entity.Sponsor]{
		store: backend, key: prefix + KeySponsors,
		seed: func() []*entity.Sponsor { return fixtures().Sponsors },
		id:   func(sp *entity.Sponsor) string { return sp.ID },
	}}
	s.catalog = &productRepository{c: &collection[entity.Product]{
		store: backend, key: prefix + KeyCatalog,
		seed: func() []*entity.Product { return fixtures().Products },
		id:   func(p *entity.Product) string { return p.ID },
	}}
	s.applications = &applicationRepository{c: &collection[entity.Application]{
		store: backend, key: prefix + KeyApplications,
		seed: func() []*entity.Application { return fixtures().Applications },
		id:   func(a *entity.Application) string { return a.ID },
	}}
	s.transactions = &transactionRepository{c: &collection[entity.Transaction]{
		store: backend, key: prefix + KeyTransactions,
		seed: func() []*entity.Transaction { return fixtures().Transactions },
		id:   func(t *entity.Transaction) string { return t.ID },
	}}
	s.auditLogs = &auditLogRepository{c: &collection[entity.AuditLog]{
		store: backend, key: prefix + KeyLogs,
		seed: func() []*entity.AuditLog { return fixtures().AuditLogs },
		id:   func(l *entity.AuditLog) string { return l.ID },
	}}
	s.messages = &messageRepository{c: &collection[entity.Message]{
		store: backend, key: prefix + KeyMessages,
		seed: func() []*entity.Message { return fixtures().Messages },
		id:   func(m *entity.Message) string { return m.ID },
	}}
	s.notifications = &notificationRepository{c: &collection[entity.Notification]{
		store: backend, key: prefix + KeyNotifications,
		seed: func() []*entity.Notification { return fixtures().Notifications },
		id:   func(n *entity.Notification) string { return n.ID },
	}}

	return s
}

func (s *store) Name() string { return s.name }

func (s *store) Users() repository.UserRepository                 { return s.users }
func (s *store) Sponsors() repository.SponsorRepository           { return s.sponsors }
func (s *store) Catalog() repository.ProductRepository            { return s.catalog }
func (s *store) Applications() repository.ApplicationRepository   { return s.applications }
func (s *store) Transactions() repository.TransactionRepository   { return s.transactions }
func (s *store) AuditLogs() repository.AuditLogRepository         { return s.auditLogs }
func (s *store) Messages() repository.MessageRepository           { return s.messages }
func (s *store) Notifications() repository.NotificationRepository { return s.notifications }

// Reset deletes every key in the namespace.
func (s *store) Reset(ctx context.Context) error {
	s.logger.Info("Resetting dataset", slog.String("namespace", s.namespace))

	return kv.DeletePrefix(ctx, s.kv, s.namespace)
}

type userRepository struct{ c *collection[entity.User] }

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	return r.c.load(ctx)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.c.findByID(ctx, id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	needle := util.NormalizeKey(username)

	return r.c.find(ctx, func(u *entity.User) bool { return util.NormalizeKey(u.Username) == needle })
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	needle := util.NormalizeKey(email)

	return r.c.find(ctx, func(u *entity.User) bool { return util.NormalizeKey(u.Email) == needle })
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.c.append(ctx, user)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.c.replace(ctx, user)
}

type sponsorRepository struct{ c *collection[entity.Sponsor] }

func (r *sponsorRepository) List(ctx context.Context) ([]*entity.Sponsor, error) {
	return r.c.load(ctx)
}

func (r *sponsorRepository) FindByID(ctx context.Context, id string) (*entity.Sponsor, error) {
	return r.c.findByID(ctx, id)
}

func (r *sponsorRepository) FindByName(ctx context.Context, name string) (*entity.Sponsor, error) {
	needle := util.NormalizeKey(name)

	return r.c.find(ctx, func(s *entity.Sponsor) bool { return util.NormalizeKey(s.Name) == needle })
}

func (r *sponsorRepository) Create(ctx context.Context, sponsor *entity.Sponsor) error {
	return r.c.append(ctx, sponsor)
}

func (r *sponsorRepository) Update(ctx context.Context, sponsor *entity.Sponsor) error {
	return r.c.replace(ctx, sponsor)
}

type productRepository struct{ c *collection[entity.Product] }

func (r *productRepository) List(ctx context.Context) ([]*entity.Product, error) {
	return r.c.load(ctx)
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.c.findByID(ctx, id)
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.c.append(ctx, product)
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.c.replace(ctx, product)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

type applicationRepository struct{ c *collection[entity.Application] }

func (r *applicationRepository) List(ctx context.Context) ([]*entity.Application, error) {
	return r.c.load(ctx)
}

func (r *applicationRepository) FindByID(ctx context.Context, id string) (*entity.Application, error) {
	return r.c.findByID(ctx, id)
}

func (r *applicationRepository) FindPendingByUser(ctx context.Context, userID string) (*entity.Application, error) {
	return r.c.find(ctx, func(a *entity.Application) bool { return a.UserID == userID && a.IsPending() })
}

func (r *applicationRepository) Create(ctx context.Context, app *entity.Application) error {
	return r.c.append(ctx, app)
}

func (r *applicationRepository) Update(ctx context.Context, app *entity.Application) error {
	return r.c.replace(ctx, app)
}

type transactionRepository struct{ c *collection[entity.Transaction] }

func (r *transactionRepository) List(ctx context.Context) ([]*entity.Transaction, error) {
	return r.c.load(ctx)
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	return r.c.filter(ctx, func(t *entity.Transaction) bool { return t.UserID == userID })
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.c.findByID(ctx, id)
}

func (r *transactionRepository) Insert(ctx context.Context, tx *entity.Transaction) error {
	return r.c.prepend(ctx, tx)
}

func (r *transactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	return r.c.replace(ctx, tx)
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

type auditLogRepository struct{ c *collection[entity.AuditLog] }

func (r *auditLogRepository) List(ctx context.Context) ([]*entity.AuditLog, error) {
	return r.c.load(ctx)
}

func (r *auditLogRepository) Append(ctx context.Context, log *entity.AuditLog) error {
	return r.c.prepend(ctx, log)
}

type messageRepository struct{ c *collection[entity.Message] }

func (r *messageRepository) List(ctx context.Context) ([]*entity.Message, error) {
	return r.c.load(ctx)
}

func (r *messageRepository) Create(ctx context.Context, msg *entity.Message) error {
	return r.c.append(ctx, msg)
}

type notificationRepository struct{ c *collection[entity.Notification] }

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	items, err := r.c.filter(ctx, func(n *entity.Notification) bool { return n.UserID == userID })
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b *entity.Notification) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return items, nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id string) (*entity.Notification, error) {
	return r.c.findByID(ctx, id)
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return r.c.prepend(ctx, n)
}

func (r *notificationRepository) Update(ctx context.Context, n *entity.Notification) error {
	return r.c.replace(ctx, n)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	items, err := r.c.load(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, n := range items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	return changed, r.c.save(ctx, items)
}
