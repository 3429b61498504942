package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyseas/pointtracker/internal/domain"
)

func TestDataService_Put(t *testing.T) {
	testCases := []struct {
		name    string
		key     string
		body    string
		wantErr error
	}{
		{name: "array for cruises", key: domain.KeyCruises, body: ` [ {"id": "c1"} ] `},
		{name: "object for links", key: domain.KeyFveLinks, body: `{"c1": {"cruiseId": "c1"}}`},
		{name: "unknown key", key: "passwords", body: `[]`, wantErr: domain.ErrUnknownDataKey},
		{name: "object for list key", key: domain.KeyOffers, body: `{"id": "o1"}`, wantErr: domain.ErrInvalidRequest},
		{name: "array for links", key: domain.KeyFveLinks, body: `[]`, wantErr: domain.ErrInvalidRequest},
		{name: "malformed", key: domain.KeyBooked, body: `[{"id":`, wantErr: domain.ErrInvalidRequest},
		{name: "empty body", key: domain.KeyBooked, body: ``, wantErr: domain.ErrInvalidRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMockStore()
			svc := NewDataService(store, zerolog.Nop())

			err := svc.Put(context.Background(), tc.key, []byte(tc.body))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("error = %v, want %v", err, tc.wantErr)
				}
				if store.setCalls != 0 {
					t.Errorf("store written %d times on rejected input", store.setCalls)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := store.data[tc.key]; !ok {
				t.Errorf("key %s not stored", tc.key)
			}
		})
	}
}

func TestDataService_PutCompactsDocument(t *testing.T) {
	store := newMockStore()
	svc := NewDataService(store, zerolog.Nop())

	require.NoError(t, svc.Put(context.Background(), domain.KeyOffers, []byte("[\n  {\"id\": \"o1\"}\n]")))
	assert.Equal(t, `[{"id":"o1"}]`, store.data[domain.KeyOffers])
}

func TestDataService_Get(t *testing.T) {
	store := newMockStore()
	svc := NewDataService(store, zerolog.Nop())
	ctx := context.Background()

	raw, err := svc.Get(ctx, domain.KeyBooked)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	raw, err = svc.Get(ctx, domain.KeyFveLinks)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	require.NoError(t, svc.Put(ctx, domain.KeyBooked, []byte(`[{"id":"b1"}]`)))
	raw, err = svc.Get(ctx, domain.KeyBooked)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b1"}]`, string(raw))

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownDataKey)

	store.getErr = domain.ErrStoreUnavailable
	_, err = svc.Get(ctx, domain.KeyBooked)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestDataService_ImportFinancials(t *testing.T) {
	store := newMockStore()
	svc := NewDataService(store, zerolog.Nop())
	ctx := context.Background()

	imported, err := svc.ImportFinancials(ctx, []domain.FinancialRecord{
		{
			SourceType:  domain.SourceStatement,
			Description: "Casino Bar Ref #A12 Folio #77",
			PaymentText: "SeaPass",
			Amount:      decimal.RequireFromString("12.50"),
			Currency:    " usd ",
		},
		{ID: "keep-me", SourceType: domain.SourceReceipt, Venue: "Vitality Spa", Amount: decimal.NewFromInt(120)},
	})
	require.NoError(t, err)
	require.Len(t, imported, 2)

	first := imported[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, domain.PaymentSeaPass, first.PaymentMethod)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "A12", first.RefNumber)
	assert.Equal(t, "keep-me", imported[1].ID)
	assert.Equal(t, domain.CategorySpa, imported[1].Category)

	_, err = svc.ImportFinancials(ctx, []domain.FinancialRecord{{Amount: decimal.NewFromInt(5)}})
	require.NoError(t, err)

	stored := svc.Financials(ctx)
	require.Len(t, stored, 3)
	assert.Equal(t, first.ID, stored[0].ID)
	assert.True(t, SummarizeFinancials(stored).Total.Equal(decimal.RequireFromString("137.5")))

	store.setErr = domain.ErrStoreUnavailable
	_, err = svc.ImportFinancials(ctx, []domain.FinancialRecord{{}})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestDataService_ImportFinancials_KeepsUnreadableRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("storage failure", func(t *testing.T) {
		store := newMockStore()
		svc := NewDataService(store, zerolog.Nop())
		store.data[domain.KeyFinancials] = `[{"id":"keep","amount":"10"}]`
		store.getErr = domain.ErrStoreUnavailable

		_, err := svc.ImportFinancials(ctx, []domain.FinancialRecord{{Description: "Bar"}})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.Zero(t, store.setCalls)
		assert.Equal(t, `[{"id":"keep","amount":"10"}]`, store.data[domain.KeyFinancials])
	})

	t.Run("malformed document", func(t *testing.T) {
		store := newMockStore()
		svc := NewDataService(store, zerolog.Nop())
		const stored = `[{"id":"keep","amount":"10"},{"id":"bad","amount":{"x":1}}]`
		store.data[domain.KeyFinancials] = stored

		_, err := svc.ImportFinancials(ctx, []domain.FinancialRecord{{Description: "Bar"}})
		require.Error(t, err)
		assert.Zero(t, store.setCalls)
		assert.Equal(t, stored, store.data[domain.KeyFinancials])
	})
}

func TestDataService_Bookings(t *testing.T) {
	store := newMockStore()
	svc := NewDataService(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, domain.KeyBooked, []byte(`[
		{"id":"a","status":"completed","nights":7},
		{"id":"b","status":"booked","nights":4},
		{"id":"c","status":"cancelled"},
		{"id":"d","status":"completed","nights":3}
	]`)))

	completed, upcoming := svc.Bookings(ctx)
	require.Len(t, completed, 2)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "d", completed[1].ID)
	assert.Equal(t, "b", upcoming[0].ID)
}
