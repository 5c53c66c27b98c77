// Package ledger is the append-only record of completed sales.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/model"
)

var (
	// ErrDuplicateSale means a sale id already exists.  Ids come from
	// Record, so this is always a caller bug.
	ErrDuplicateSale = errors.New("sale id already recorded")
	ErrSaleNotFound  = errors.New("sale not found")
)

// CreatedAtLayout matches the timestamps stored on every sale; the date
// prefix (first ten characters) is what ListByDatePrefix matches on.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// Repo is the persistence the ledger needs.  repository.SaleRepo
// satisfies it.
type Repo interface {
	All(ctx context.Context) ([]model.Sale, error)
	SaveAll(ctx context.Context, sales []model.Sale) error
}

// Order controls ListByIdentity output.
type Order int

const (
	Oldest Order = iota
	NewestFirst
)

// Ledger serializes read-modify-write cycles on the sales list.
type Ledger struct {
	mu     sync.Mutex
	repo   Repo
	prefix string
	now    func() time.Time
	log    *zap.Logger
}

// New returns a ledger generating ids as "<prefix>-<unix millis>".
func New(repo Repo, prefix string, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	if prefix == "" {
		prefix = "STAR"
	}
	return &Ledger{repo: repo, prefix: prefix, now: time.Now, log: log}
}

// WithClock swaps the time source; tests use it to pin ids and dates.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Append adds sale to the end of the list.  Existing entries are never
// rewritten.
func (l *Ledger) Append(ctx context.Context, sale model.Sale) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sales, err := l.repo.All(ctx)
	if err != nil {
		return err
	}
	for _, s := range sales {
		if s.ID == sale.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateSale, sale.ID)
		}
	}
	return l.repo.SaveAll(ctx, append(sales, sale))
}

// Draft is a sale before the ledger has given it an id and timestamp.
type Draft struct {
	Identity      string
	Items         []model.CartItem
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// Record stamps the draft with a fresh id and the current time and
// appends it.  When the millisecond id is taken the suffix is bumped
// until it is free.
func (l *Ledger) Record(ctx context.Context, d Draft) (model.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sales, err := l.repo.All(ctx)
	if err != nil {
		return model.Sale{}, err
	}
	taken := make(map[string]struct{}, len(sales))
	for _, s := range sales {
		taken[s.ID] = struct{}{}
	}

	now := l.now().UTC()
	suffix := now.UnixMilli()
	id := fmt.Sprintf("%s-%d", l.prefix, suffix)
	for {
		if _, dup := taken[id]; !dup {
			break
		}
		suffix++
		id = fmt.Sprintf("%s-%d", l.prefix, suffix)
	}

	items := make([]model.CartItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = it.Clone()
	}
	sale := model.Sale{
		ID:            id,
		Identity:      d.Identity,
		Items:         items,
		SubtotalCents: d.SubtotalCents,
		TaxCents:      d.TaxCents,
		TotalCents:    d.TotalCents,
		CreatedAt:     now.Format(CreatedAtLayout),
	}
	if err := l.repo.SaveAll(ctx, append(sales, sale)); err != nil {
		return model.Sale{}, err
	}
	l.log.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("identity", sale.Identity),
		zap.Int64("total_cents", sale.TotalCents),
	)
	return sale, nil
}

// ListAll returns every sale in insertion order.
func (l *Ledger) ListAll(ctx context.Context) ([]model.Sale, error) {
	return l.repo.All(ctx)
}

// ListByIdentity returns the sales made by or for identity.
func (l *Ledger) ListByIdentity(ctx context.Context, identity string, order Order) ([]model.Sale, error) {
	sales, err := l.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Sale, 0)
	for _, s := range sales {
		if s.Identity == identity {
			out = append(out, s)
		}
	}
	if order == NewestFirst {
		// CreatedAt sorts lexically; stable keeps insertion order on ties
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	}
	return out, nil
}

// ListByDatePrefix matches the start of CreatedAt, e.g. "2026-10-16".
func (l *Ledger) ListByDatePrefix(ctx context.Context, prefix string) ([]model.Sale, error) {
	sales, err := l.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Sale, 0)
	for _, s := range sales {
		if strings.HasPrefix(s.CreatedAt, prefix) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (model.Sale, error) {
	sales, err := l.repo.All(ctx)
	if err != nil {
		return model.Sale{}, err
	}
	for _, s := range sales {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Sale{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
}

// Summary holds the dashboard aggregates.
type Summary struct {
	SalesCount        int   `json:"salesCount"`
	RevenueCents      int64 `json:"revenueCents"`
	TodaySalesCount   int   `json:"todaySalesCount"`
	TodayRevenueCents int64 `json:"todayRevenueCents"`
	TicketsSold       int   `json:"ticketsSold"`
	ProductsSold      int   `json:"productsSold"`
}

// Summarize aggregates the whole ledger.  "Today" is the UTC date of
// today, matched against the CreatedAt prefix.
func (l *Ledger) Summarize(ctx context.Context, today time.Time) (Summary, error) {
	sales, err := l.repo.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	day := today.UTC().Format("2006-01-02")
	var sum Summary
	for _, s := range sales {
		sum.SalesCount++
		sum.RevenueCents += s.TotalCents
		sum.TicketsSold += s.TicketCount()
		sum.ProductsSold += s.ProductUnits()
		if strings.HasPrefix(s.CreatedAt, day) {
			sum.TodaySalesCount++
			sum.TodayRevenueCents += s.TotalCents
		}
	}
	return sum, nil
}
