package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkowalik/dailybite/internal/domain"
)

// stubBackend is an in-memory ledger service. Per-method error hooks and
// blocking gates let tests observe optimistic state mid-flight.
type stubBackend struct {
	mu      sync.Mutex
	logs    map[string]*domain.DailyLog
	nextID  int
	deleted []string

	getCalls    int
	getErr      error
	deleteErr   error
	updateErr   error
	logErr      error
	bulkErr     error
	deleteGate  chan struct{} // when set, DeleteEntry blocks until closed
	bulkCalled  bool
	entryCalled bool
}

func newStubBackend() *stubBackend {
	return &stubBackend{logs: make(map[string]*domain.DailyLog)}
}

func (b *stubBackend) seed(date string, entries ...domain.MealEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	log := &domain.DailyLog{Date: date, Entries: entries}
	for _, e := range entries {
		log.TotalKcal += e.Kcal
		log.TotalProtein += e.Protein
		log.TotalFat += e.Fat
		log.TotalCarbs += e.Carbs
	}
	b.logs[date] = log
}

func (b *stubBackend) GetDailyLog(_ context.Context, date string) (*domain.DailyLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.getCalls++
	if b.getErr != nil {
		return nil, b.getErr
	}
	log, ok := b.logs[date]
	if !ok {
		return &domain.DailyLog{Date: date}, nil
	}
	out := *log
	out.Entries = append([]domain.MealEntry(nil), log.Entries...)
	return &out, nil
}

func (b *stubBackend) DeleteEntry(_ context.Context, id string) error {
	if b.deleteGate != nil {
		<-b.deleteGate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, id)
	for _, log := range b.logs {
		for i, e := range log.Entries {
			if e.ID == id {
				log.Entries = append(log.Entries[:i], log.Entries[i+1:]...)
				log.TotalKcal -= e.Kcal
				log.TotalProtein -= e.Protein
				log.TotalFat -= e.Fat
				log.TotalCarbs -= e.Carbs
				return nil
			}
		}
	}
	return fmt.Errorf("%w: entry %s", domain.ErrNotFound, id)
}

func (b *stubBackend) UpdateEntry(_ context.Context, id string, patch domain.EntryPatch) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updateErr != nil {
		return b.updateErr
	}
	for _, log := range b.logs {
		for i := range log.Entries {
			if log.Entries[i].ID == id {
				if patch.AmountGrams != nil {
					log.Entries[i].AmountGrams = *patch.AmountGrams
				}
				if patch.MealType != nil {
					log.Entries[i].MealType = *patch.MealType
				}
				return nil
			}
		}
	}
	return fmt.Errorf("%w: entry %s", domain.ErrNotFound, id)
}

func (b *stubBackend) LogEntry(_ context.Context, entry domain.NewEntry) (*domain.MealEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entryCalled = true
	if b.logErr != nil {
		return nil, b.logErr
	}
	return b.appendLocked(entry), nil
}

func (b *stubBackend) LogEntriesBulk(_ context.Context, entries []domain.NewEntry) ([]domain.MealEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bulkCalled = true
	if b.bulkErr != nil {
		return nil, b.bulkErr
	}
	out := make([]domain.MealEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *b.appendLocked(e))
	}
	return out, nil
}

func (b *stubBackend) appendLocked(entry domain.NewEntry) *domain.MealEntry {
	b.nextID++
	logged := domain.MealEntry{
		ID:          fmt.Sprintf("e%d", b.nextID),
		ProductID:   entry.ProductID,
		Date:        entry.Date,
		MealType:    entry.MealType,
		AmountGrams: entry.AmountGrams,
		Kcal:        entry.Kcal,
		Protein:     entry.Protein,
		Fat:         entry.Fat,
		Carbs:       entry.Carbs,
		UnitLabel:   entry.UnitLabel,
		UnitGrams:   entry.UnitGrams,
	}
	log, ok := b.logs[entry.Date]
	if !ok {
		log = &domain.DailyLog{Date: entry.Date}
		b.logs[entry.Date] = log
	}
	log.Entries = append(log.Entries, logged)
	log.TotalKcal += logged.Kcal
	log.TotalProtein += logged.Protein
	log.TotalFat += logged.Fat
	log.TotalCarbs += logged.Carbs
	return &logged
}

// stubResolver is an in-memory product catalog for commit tests.
type stubResolver struct {
	mu        sync.Mutex
	createErr error
	byBarcode map[string]*domain.FoodProduct
	created   []domain.CreateProduct
}

func (r *stubResolver) Create(_ context.Context, dto domain.CreateProduct) (*domain.FoodProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.created = append(r.created, dto)
	return &domain.FoodProduct{
		ID:        fmt.Sprintf("p%d", len(r.created)),
		Name:      dto.Name,
		Barcode:   dto.Barcode,
		Nutrition: dto.Nutrition,
	}, nil
}

func (r *stubResolver) GetByBarcode(_ context.Context, code string) (*domain.FoodProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byBarcode[code]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: barcode %s", domain.ErrNotFound, code)
}

const testDate = "2026-08-30"

func chickenEntry() domain.MealEntry {
	return domain.MealEntry{
		ID: "e-chicken", ProductID: "p-chicken", Date: testDate,
		MealType: domain.MealLunch, AmountGrams: 200,
		Kcal: 330, Protein: 62, Fat: 7.2,
	}
}

func riceEntry() domain.MealEntry {
	return domain.MealEntry{
		ID: "e-rice", ProductID: "p-rice", Date: testDate,
		MealType: domain.MealLunch, AmountGrams: 150,
		Kcal: 195, Protein: 4.1, Carbs: 42,
	}
}

func newTestLedger(backend *stubBackend, resolver *stubResolver) *Ledger {
	if resolver == nil {
		resolver = &stubResolver{}
	}
	return New(backend, resolver, slog.Default())
}

func TestFetchReadsThroughAndCaches(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry(), riceEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, log.Entries, 2)
	assert.Equal(t, 525.0, log.TotalKcal)
	assert.Equal(t, 1, backend.getCalls)

	_, err = l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.getCalls, "second fetch must hit the cache")
}

func TestFetchReturnsCopy(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	log.Entries[0].Kcal = 9999
	log.TotalKcal = 9999

	again, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 330.0, again.Entries[0].Kcal)
	assert.Equal(t, 330.0, again.TotalKcal)
}

func TestFetchEmptyDate(t *testing.T) {
	l := newTestLedger(newStubBackend(), nil)
	_, err := l.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteEntryRemovesFromCacheBeforeServerResolves(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry(), riceEntry())
	gate := make(chan struct{})
	backend.deleteGate = gate
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- l.DeleteEntry(ctx, "e-rice") }()

	// While the server call is blocked the cache must already reflect the
	// delete, with totals decremented by the entry's own macros.
	require.Eventually(t, func() bool {
		log, err := l.Fetch(ctx, testDate)
		require.NoError(t, err)
		return len(log.Entries) == 1
	}, time.Second, 5*time.Millisecond)

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, "e-chicken", log.Entries[0].ID)
	assert.InDelta(t, 330, log.TotalKcal, 1e-9)
	assert.InDelta(t, 62, log.TotalProtein, 1e-9)

	close(gate)
	require.NoError(t, <-done)

	// Settled state matches the server.
	log, err = l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, log.Entries, 1)
	assert.Equal(t, []string{"e-rice"}, backend.deleted)
}

func TestDeleteEntryRollsBackOnFailure(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry(), riceEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)

	backend.deleteErr = fmt.Errorf("%w: connection reset", domain.ErrTransient)
	err = l.DeleteEntry(ctx, "e-rice")
	assert.ErrorIs(t, err, domain.ErrTransient)

	// Rollback plus reconcile leaves the pre-mutation state.
	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, log.Entries, 2)
	assert.InDelta(t, 525, log.TotalKcal, 1e-9)
}

func TestDeleteEntryReconcilesWithServer(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry(), riceEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)

	// The server meanwhile gained an entry the client never saw; the
	// post-delete reconcile must pick it up.
	backend.mu.Lock()
	extra := domain.MealEntry{ID: "e-extra", Date: testDate, Kcal: 100}
	backend.logs[testDate].Entries = append(backend.logs[testDate].Entries, extra)
	backend.logs[testDate].TotalKcal += 100
	backend.mu.Unlock()

	require.NoError(t, l.DeleteEntry(ctx, "e-rice"))

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, log.Entries, 2)
	assert.InDelta(t, 430, log.TotalKcal, 1e-9) // chicken 330 + extra 100
}

func TestDeleteEntryUncachedForwards(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry())
	l := newTestLedger(backend, nil)

	require.NoError(t, l.DeleteEntry(context.Background(), "e-chicken"))
	assert.Equal(t, []string{"e-chicken"}, backend.deleted)
}

func TestStaleFetchCannotOverwriteOptimisticState(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry(), riceEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	// Prime the cache, then drop it so the next Fetch goes to the server.
	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)

	day := l.day(testDate)

	// Simulate a read that started before the optimistic write: capture the
	// generation, mutate, then try to install the stale response.
	day.mu.Lock()
	staleGen := day.gen
	stale := cloneLog(day.log)
	day.mu.Unlock()

	require.NoError(t, l.DeleteEntry(ctx, "e-rice"))

	day.mu.Lock()
	if day.gen == staleGen {
		day.log = stale
	}
	installed := day.gen == staleGen
	day.mu.Unlock()

	assert.False(t, installed, "optimistic write must bump the generation")

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, log.Entries, 1)
}

func TestUpdateEntryRefetchesDate(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)

	amount := 300.0
	require.NoError(t, l.UpdateEntry(ctx, "e-chicken", domain.EntryPatch{AmountGrams: &amount}))

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 300.0, log.Entries[0].AmountGrams)
}

func TestUpdateEntryUnknownDateInvalidatesAll(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry())
	backend.seed("2026-08-29", riceEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, "2026-08-29")
	require.NoError(t, err)
	callsAfterPrime := backend.getCalls

	// e-chicken is not cached (its date was never fetched), so the update
	// cannot target a date and every cached date is dropped.
	mt := domain.MealDinner
	require.NoError(t, l.UpdateEntry(ctx, "e-chicken", domain.EntryPatch{MealType: &mt}))

	_, err = l.Fetch(ctx, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, callsAfterPrime+1, backend.getCalls, "cache must have been invalidated")
}

func TestUpdateEntryValidation(t *testing.T) {
	l := newTestLedger(newStubBackend(), nil)
	ctx := context.Background()

	assert.ErrorIs(t, l.UpdateEntry(ctx, "e1", domain.EntryPatch{}), domain.ErrValidation)

	neg := -5.0
	assert.ErrorIs(t, l.UpdateEntry(ctx, "e1", domain.EntryPatch{AmountGrams: &neg}), domain.ErrValidation)

	bad := domain.MealType("brunch")
	assert.ErrorIs(t, l.UpdateEntry(ctx, "e1", domain.EntryPatch{MealType: &bad}), domain.ErrValidation)
}

func TestUpdateEntryFailureKeepsCache(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	callsAfterPrime := backend.getCalls

	backend.updateErr = fmt.Errorf("%w: 503", domain.ErrTransient)
	amount := 300.0
	assert.ErrorIs(t, l.UpdateEntry(ctx, "e-chicken", domain.EntryPatch{AmountGrams: &amount}), domain.ErrTransient)

	// No invalidation happened; the cache still serves.
	_, err = l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, callsAfterPrime, backend.getCalls)
}

func TestCommitMatchedItems(t *testing.T) {
	backend := newStubBackend()
	resolver := &stubResolver{}
	l := newTestLedger(backend, resolver)
	ctx := context.Background()

	items := []domain.DraftItem{
		{ProductID: "p-chicken", Name: "Grilled chicken", QuantityGrams: 200, QuantityUnitValue: 200, UnitMatched: "g", Kcal: 330},
		{ProductID: "p-rice", Name: "Cooked rice", QuantityGrams: 150, QuantityUnitValue: 150, UnitMatched: "g", Kcal: 195},
	}

	results, err := l.Commit(ctx, items, domain.MealLunch, testDate)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Entry)
	}
	assert.True(t, backend.bulkCalled, "multi-item commits go through the bulk endpoint")
	assert.Empty(t, resolver.created, "matched items need no product creation")

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, log.Entries, 2)
	assert.InDelta(t, 525, log.TotalKcal, 1e-9)
}

func TestCommitSingleItemUsesSingleEndpoint(t *testing.T) {
	backend := newStubBackend()
	l := newTestLedger(backend, nil)

	items := []domain.DraftItem{
		{ProductID: "p1", Name: "Apple", QuantityGrams: 100, Kcal: 52},
	}
	results, err := l.Commit(context.Background(), items, domain.MealSnack, testDate)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, backend.entryCalled)
	assert.False(t, backend.bulkCalled)
}

func TestCommitCreatesMissingProducts(t *testing.T) {
	backend := newStubBackend()
	resolver := &stubResolver{}
	l := newTestLedger(backend, resolver)

	items := []domain.DraftItem{
		{Name: "Homemade soup", QuantityGrams: 250, Kcal: 112.5, Protein: 5, Fat: 2.5, Carbs: 15},
	}
	results, err := l.Commit(context.Background(), items, domain.MealDinner, testDate)
	require.NoError(t, err)
	require.NotNil(t, results[0].Entry)

	require.Len(t, resolver.created, 1)
	dto := resolver.created[0]
	assert.Equal(t, "Homemade soup", dto.Name)
	// Macros projected back to per-100g.
	assert.InDelta(t, 45, dto.Nutrition.KcalPer100g, 1e-9)
	assert.InDelta(t, 2, dto.Nutrition.ProteinPer100g, 1e-9)
}

func TestCommitBarcodeFallbackAfterFailedCreate(t *testing.T) {
	backend := newStubBackend()
	resolver := &stubResolver{
		createErr: fmt.Errorf("%w: barcode registered", domain.ErrConflict),
		byBarcode: map[string]*domain.FoodProduct{
			"590": {ID: "p-existing", Name: "Oatmeal", Barcode: "590"},
		},
	}
	l := newTestLedger(backend, resolver)

	items := []domain.DraftItem{
		{Name: "Oatmeal", Barcode: "590", QuantityGrams: 50, Kcal: 184},
	}
	results, err := l.Commit(context.Background(), items, domain.MealBreakfast, testDate)
	require.NoError(t, err)
	require.NotNil(t, results[0].Entry)
	assert.Equal(t, "p-existing", results[0].Entry.ProductID)
}

func TestCommitCreateFailureWithoutBarcodePropagates(t *testing.T) {
	backend := newStubBackend()
	resolver := &stubResolver{createErr: fmt.Errorf("%w: 500", domain.ErrTransient)}
	l := newTestLedger(backend, resolver)

	items := []domain.DraftItem{
		{Name: "Mystery dish", QuantityGrams: 100, Kcal: 200},
	}
	results, err := l.Commit(context.Background(), items, domain.MealLunch, testDate)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.ErrorIs(t, results[0].Err, domain.ErrTransient)
	assert.Nil(t, results[0].Entry)
	assert.False(t, backend.entryCalled, "no ledger entry may be written for a failed item")
	assert.False(t, backend.bulkCalled)
}

func TestCommitBarcodeFallbackMissSurfacesOriginalError(t *testing.T) {
	backend := newStubBackend()
	resolver := &stubResolver{
		createErr: fmt.Errorf("%w: duplicate", domain.ErrConflict),
		byBarcode: map[string]*domain.FoodProduct{},
	}
	l := newTestLedger(backend, resolver)

	items := []domain.DraftItem{
		{Name: "Oatmeal", Barcode: "590", QuantityGrams: 50, Kcal: 184},
	}
	_, err := l.Commit(context.Background(), items, domain.MealBreakfast, testDate)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCommitPartialFailureReportsPerItem(t *testing.T) {
	backend := newStubBackend()
	resolver := &stubResolver{createErr: fmt.Errorf("%w: 500", domain.ErrTransient)}
	l := newTestLedger(backend, resolver)

	items := []domain.DraftItem{
		{ProductID: "p1", Name: "Apple", QuantityGrams: 100, Kcal: 52},
		{Name: "Mystery dish", QuantityGrams: 100, Kcal: 200},
	}
	results, err := l.Commit(context.Background(), items, domain.MealSnack, testDate)
	assert.Error(t, err)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Entry)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Entry)
}

func TestCommitUnitMetadata(t *testing.T) {
	backend := newStubBackend()
	l := newTestLedger(backend, nil)

	items := []domain.DraftItem{
		{ProductID: "p1", Name: "Bread", QuantityGrams: 90, QuantityUnitValue: 3, UnitMatched: "slice", Kcal: 240},
	}
	results, err := l.Commit(context.Background(), items, domain.MealBreakfast, testDate)
	require.NoError(t, err)
	entry := results[0].Entry
	assert.Equal(t, "slice", entry.UnitLabel)
	assert.InDelta(t, 30, entry.UnitGrams, 1e-9)
}

func TestCommitValidation(t *testing.T) {
	l := newTestLedger(newStubBackend(), nil)
	ctx := context.Background()

	_, err := l.Commit(ctx, nil, domain.MealLunch, testDate)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = l.Commit(ctx, []domain.DraftItem{{Name: "x", QuantityGrams: 1}}, "brunch", testDate)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = l.Commit(ctx, []domain.DraftItem{{Name: "x", QuantityGrams: 1}}, domain.MealLunch, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	results, err := l.Commit(ctx, []domain.DraftItem{{Name: "x", QuantityGrams: 0}}, domain.MealLunch, testDate)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, results[0].Err, domain.ErrValidation)
}

func TestDeleteEntrySurvivesInvalidationWhileQueued(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry(), riceEntry())
	gate := make(chan struct{})
	backend.deleteGate = gate
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)

	first := make(chan error, 1)
	go func() { first <- l.DeleteEntry(ctx, "e-chicken") }()

	// Wait for the first delete to mutate the cache and block in the backend.
	require.Eventually(t, func() bool {
		log, err := l.Fetch(ctx, testDate)
		require.NoError(t, err)
		return len(log.Entries) == 1
	}, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- l.DeleteEntry(ctx, "e-rice") }()
	// Give the second delete time to pass the cache scan and queue on the
	// per-date mutex behind the first.
	time.Sleep(20 * time.Millisecond)

	// An update on the same date empties the cache slot while the second
	// delete is queued; the reconcile after it is made to fail so the slot
	// stays empty when the queued delete finally runs.
	backend.mu.Lock()
	backend.getErr = fmt.Errorf("%w: 503", domain.ErrTransient)
	backend.mu.Unlock()
	amount := 300.0
	require.NoError(t, l.UpdateEntry(ctx, "e-rice", domain.EntryPatch{AmountGrams: &amount}))

	close(gate)
	require.NoError(t, <-first)
	require.NoError(t, <-second)
	assert.ElementsMatch(t, []string{"e-chicken", "e-rice"}, backend.deleted)
}

func TestOptimisticDeletesApplyInCallOrder(t *testing.T) {
	backend := newStubBackend()
	backend.seed(testDate, chickenEntry(), riceEntry())
	l := newTestLedger(backend, nil)
	ctx := context.Background()

	_, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range []string{"e-chicken", "e-rice"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = l.DeleteEntry(ctx, id)
		}(id)
	}
	wg.Wait()

	log, err := l.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.Empty(t, log.Entries)
	assert.InDelta(t, 0, log.TotalKcal, 1e-9)
	assert.ElementsMatch(t, []string{"e-chicken", "e-rice"}, backend.deleted)
}
