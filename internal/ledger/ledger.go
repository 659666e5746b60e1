// Package ledger maintains the committed daily log of meal entries. The
// remote ledger service owns durable state; this package keeps a per-date
// replica cache, applies optimistic mutations against it with
// snapshot-rollback, and reconciles with the server after every mutation
// settles.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/mkowalik/dailybite/internal/domain"
)

// Backend is the remote ledger service contract.
type Backend interface {
	GetDailyLog(ctx context.Context, date string) (*domain.DailyLog, error)
	DeleteEntry(ctx context.Context, id string) error
	UpdateEntry(ctx context.Context, id string, patch domain.EntryPatch) error
	LogEntry(ctx context.Context, entry domain.NewEntry) (*domain.MealEntry, error)
	LogEntriesBulk(ctx context.Context, entries []domain.NewEntry) ([]domain.MealEntry, error)
}

// ProductResolver is the subset of the food catalog that commits need to
// register products for items that were never matched.
type ProductResolver interface {
	Create(ctx context.Context, dto domain.CreateProduct) (*domain.FoodProduct, error)
	GetByBarcode(ctx context.Context, code string) (*domain.FoodProduct, error)
}

// Ledger is the client-side nutrition ledger. Each date has an independent
// cache slot; there is no cross-date locking.
type Ledger struct {
	backend Backend
	catalog ProductResolver
	logger  *slog.Logger

	mu   sync.Mutex
	days map[string]*dayState
}

// dayState is the cache slot of one date. opMu serializes mutations for the
// date so optimistic writes apply in call order. gen increments on every
// local write so an in-flight read that started earlier cannot overwrite
// newer state.
type dayState struct {
	opMu sync.Mutex

	mu  sync.Mutex
	log *domain.DailyLog
	gen uint64
}

func New(backend Backend, catalog ProductResolver, logger *slog.Logger) *Ledger {
	return &Ledger{
		backend: backend,
		catalog: catalog,
		logger:  logger,
		days:    make(map[string]*dayState),
	}
}

// Fetch returns the daily log for a date, read-through cached. The returned
// log is a copy; mutating it does not affect the cache.
func (l *Ledger) Fetch(ctx context.Context, date string) (*domain.DailyLog, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: empty date", domain.ErrValidation)
	}

	day := l.day(date)

	day.mu.Lock()
	if day.log != nil {
		cached := cloneLog(day.log)
		day.mu.Unlock()
		return cached, nil
	}
	gen := day.gen
	day.mu.Unlock()

	fetched, err := l.backend.GetDailyLog(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily log %s: %w", date, err)
	}

	day.mu.Lock()
	defer day.mu.Unlock()
	if day.gen == gen {
		day.log = fetched
	}
	// A mutation superseded this read; its optimistic state wins over the
	// possibly stale response.
	if day.log != nil {
		return cloneLog(day.log), nil
	}
	return cloneLog(fetched), nil
}

// DeleteEntry removes an entry optimistically: the cached log loses the entry
// and its own macro values before the server call resolves. On failure the
// pre-mutation snapshot is restored; either way the date is reconciled
// against the server afterwards.
func (l *Ledger) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty entry id", domain.ErrValidation)
	}

	date, cached := l.dateOfEntry(id)
	if !cached {
		// Nothing cached to mutate; just forward the delete.
		if err := l.backend.DeleteEntry(ctx, id); err != nil {
			return fmt.Errorf("failed to delete entry %s: %w", id, err)
		}
		return nil
	}

	day := l.day(date)
	day.opMu.Lock()
	defer day.opMu.Unlock()

	day.mu.Lock()
	// The slot may have been invalidated or reconciled while this delete
	// waited on opMu; without the entry there is nothing to mutate or roll
	// back, so the delete is forwarded like an uncached one.
	if day.log == nil || entryIndex(day.log, id) < 0 {
		day.mu.Unlock()
		if err := l.backend.DeleteEntry(ctx, id); err != nil {
			return fmt.Errorf("failed to delete entry %s: %w", id, err)
		}
		return nil
	}
	snapshot := cloneLog(day.log)
	removeEntry(day.log, id)
	day.gen++
	day.mu.Unlock()

	err := l.backend.DeleteEntry(ctx, id)
	if err != nil {
		day.mu.Lock()
		day.log = snapshot
		day.gen++
		day.mu.Unlock()
	}

	// The optimistic write is provisional; settle against the server state
	// whether the delete succeeded or not.
	l.reconcile(ctx, date)

	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	return nil
}

// UpdateEntry changes an entry's amount or meal type. There is no optimistic
// local write; on success the affected date is refetched, or every cached
// date is dropped when the entry's date is unknown.
func (l *Ledger) UpdateEntry(ctx context.Context, id string, patch domain.EntryPatch) error {
	if id == "" {
		return fmt.Errorf("%w: empty entry id", domain.ErrValidation)
	}
	if patch.AmountGrams == nil && patch.MealType == nil {
		return fmt.Errorf("%w: empty patch", domain.ErrValidation)
	}
	if patch.AmountGrams != nil && *patch.AmountGrams <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if patch.MealType != nil && !patch.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", domain.ErrValidation, *patch.MealType)
	}

	date, cached := l.dateOfEntry(id)

	if err := l.backend.UpdateEntry(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to update entry %s: %w", id, err)
	}

	if cached {
		l.invalidate(date)
		l.reconcile(ctx, date)
	} else {
		l.invalidateAll()
	}
	return nil
}

// ItemResult is the per-item outcome of a commit.
type ItemResult struct {
	Name  string            `json:"name"`
	Entry *domain.MealEntry `json:"entry,omitempty"`
	Err   error             `json:"-"`
}

// Error returns the item failure as a string for transport.
func (r ItemResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Commit writes draft items into the ledger for one date and meal type. Items
// without a product id get a catalog product created first; when creation
// fails and the item carries a barcode, an existing product is looked up by
// barcode before the creation error is surfaced. A failed item produces no
// ledger entry and does not stop the remaining items; per-item outcomes are
// returned alongside an aggregate error.
func (l *Ledger) Commit(ctx context.Context, items []domain.DraftItem, mealType domain.MealType, date string) ([]ItemResult, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: empty date", domain.ErrValidation)
	}
	if !mealType.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", domain.ErrValidation, mealType)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing to commit", domain.ErrValidation)
	}

	results := make([]ItemResult, len(items))
	var payloads []domain.NewEntry
	var payloadIdx []int
	for i, item := range items {
		results[i].Name = item.Name
		payload, err := l.resolveItem(ctx, item, mealType, date)
		if err != nil {
			results[i].Err = err
			continue
		}
		payloads = append(payloads, *payload)
		payloadIdx = append(payloadIdx, i)
	}

	if len(payloads) > 0 {
		logged, err := l.logEntries(ctx, payloads)
		if err != nil {
			for _, i := range payloadIdx {
				results[i].Err = err
			}
		} else {
			for k, i := range payloadIdx {
				entry := logged[k]
				results[i].Entry = &entry
			}
			l.invalidate(date)
			l.reconcile(ctx, date)
		}
	}

	var merr *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return results, merr.ErrorOrNil()
}

func (l *Ledger) logEntries(ctx context.Context, entries []domain.NewEntry) ([]domain.MealEntry, error) {
	if len(entries) == 1 {
		entry, err := l.backend.LogEntry(ctx, entries[0])
		if err != nil {
			return nil, fmt.Errorf("failed to log entry: %w", err)
		}
		return []domain.MealEntry{*entry}, nil
	}

	logged, err := l.backend.LogEntriesBulk(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to log entries: %w", err)
	}
	if len(logged) != len(entries) {
		return nil, fmt.Errorf("%w: server returned %d entries for %d items", domain.ErrTransient, len(logged), len(entries))
	}
	return logged, nil
}

func (l *Ledger) resolveItem(ctx context.Context, item domain.DraftItem, mealType domain.MealType, date string) (*domain.NewEntry, error) {
	if item.QuantityGrams <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	productID := item.ProductID
	if productID == "" {
		product, err := l.createProduct(ctx, item)
		if err != nil {
			return nil, err
		}
		productID = product.ID
	}

	entry := &domain.NewEntry{
		ProductID:   productID,
		Date:        date,
		MealType:    mealType,
		AmountGrams: item.QuantityGrams,
		Kcal:        item.Kcal,
		Protein:     item.Protein,
		Fat:         item.Fat,
		Carbs:       item.Carbs,
	}
	if item.UnitMatched != "" && item.UnitMatched != domain.GramsLabel && item.QuantityUnitValue > 0 {
		entry.UnitLabel = item.UnitMatched
		entry.UnitQuantity = item.QuantityUnitValue
		entry.UnitGrams = item.QuantityGrams / item.QuantityUnitValue
	}
	return entry, nil
}

// createProduct registers a catalog product for an unmatched item. When the
// create collides (typically the barcode already exists) the existing product
// is used; otherwise the original creation error propagates.
func (l *Ledger) createProduct(ctx context.Context, item domain.DraftItem) (*domain.FoodProduct, error) {
	dto := domain.CreateProduct{
		Name:      item.Name,
		Barcode:   item.Barcode,
		Nutrition: densityOf(item),
	}

	product, err := l.catalog.Create(ctx, dto)
	if err == nil {
		return product, nil
	}

	if item.Barcode != "" {
		existing, lookupErr := l.catalog.GetByBarcode(ctx, item.Barcode)
		if lookupErr == nil {
			return existing, nil
		}
		l.logger.Debug("barcode fallback after failed create missed", "barcode", item.Barcode, "error", lookupErr)
	}
	return nil, fmt.Errorf("failed to create product %q: %w", item.Name, err)
}

// densityOf projects an item's current macros back to per-100g values.
func densityOf(item domain.DraftItem) domain.Nutrition {
	if item.QuantityGrams <= 0 {
		return domain.Nutrition{}
	}
	factor := 100 / item.QuantityGrams
	return domain.Nutrition{
		KcalPer100g:    item.Kcal * factor,
		ProteinPer100g: item.Protein * factor,
		FatPer100g:     item.Fat * factor,
		CarbsPer100g:   item.Carbs * factor,
	}
}

func (l *Ledger) day(date string) *dayState {
	l.mu.Lock()
	defer l.mu.Unlock()
	day, ok := l.days[date]
	if !ok {
		day = &dayState{}
		l.days[date] = day
	}
	return day
}

// dateOfEntry scans the cached dates for the entry id.
func (l *Ledger) dateOfEntry(id string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for date, day := range l.days {
		day.mu.Lock()
		found := day.log != nil && entryIndex(day.log, id) >= 0
		day.mu.Unlock()
		if found {
			return date, true
		}
	}
	return "", false
}

func (l *Ledger) invalidate(date string) {
	day := l.day(date)
	day.mu.Lock()
	day.log = nil
	day.gen++
	day.mu.Unlock()
}

func (l *Ledger) invalidateAll() {
	l.mu.Lock()
	days := make([]*dayState, 0, len(l.days))
	for _, day := range l.days {
		days = append(days, day)
	}
	l.mu.Unlock()

	for _, day := range days {
		day.mu.Lock()
		day.log = nil
		day.gen++
		day.mu.Unlock()
	}
}

// reconcile refetches a date from the server and installs the result unless
// yet another local write happened in between. Failures keep the current
// local state; the next mutation or fetch retries.
func (l *Ledger) reconcile(ctx context.Context, date string) {
	day := l.day(date)

	day.mu.Lock()
	gen := day.gen
	day.mu.Unlock()

	fetched, err := l.backend.GetDailyLog(ctx, date)
	if err != nil {
		l.logger.Warn("failed to reconcile daily log", "date", date, "error", err)
		return
	}

	day.mu.Lock()
	if day.gen == gen {
		day.log = fetched
	}
	day.mu.Unlock()
}

func entryIndex(log *domain.DailyLog, id string) int {
	for i := range log.Entries {
		if log.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// removeEntry drops the entry and decrements the four totals by the entry's
// own stored macros. Totals are not recomputed from scratch so entries the
// client never fully loaded stay accounted for.
func removeEntry(log *domain.DailyLog, id string) {
	i := entryIndex(log, id)
	if i < 0 {
		return
	}
	entry := log.Entries[i]
	log.Entries = append(log.Entries[:i], log.Entries[i+1:]...)
	log.TotalKcal -= entry.Kcal
	log.TotalProtein -= entry.Protein
	log.TotalFat -= entry.Fat
	log.TotalCarbs -= entry.Carbs
}

func cloneLog(log *domain.DailyLog) *domain.DailyLog {
	if log == nil {
		return nil
	}
	out := *log
	out.Entries = make([]domain.MealEntry, len(log.Entries))
	copy(out.Entries, log.Entries)
	return &out
}
