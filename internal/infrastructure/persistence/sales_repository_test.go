package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/payment"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestGormQuoteRepository_LoadLineItems(t *testing.T) {
	db := newTestDB(t)
	quotes := NewGormQuoteRepository(db)
	lines := NewGormQuoteLineItemRepository(db)
	ctx := context.Background()

	q := sales.NewQuote(sales.QuoteFields{QuoteNumber: "Q-1", AccountID: uuid.New(), QuoteStatusID: uuid.New(), QuoteDate: day(1)}, testActor, testActor)
	require.NoError(t, quotes.Add(ctx, q))

	second := sales.NewQuoteLineItem(sales.LineItemFields{
		QuoteID: q.ID, ProductID: uuid.New(), Quantity: 1,
		UnitPrice: decimal.RequireFromString("5.50"), OrdinalPosition: 2,
	}, testActor, testActor)
	first := sales.NewQuoteLineItem(sales.LineItemFields{
		QuoteID: q.ID, ProductID: uuid.New(), Quantity: 3,
		UnitPrice: decimal.RequireFromString("10.00"), DiscountPercent: decimal.NewFromInt(10), OrdinalPosition: 1,
	}, testActor, testActor)
	retired := sales.NewQuoteLineItem(sales.LineItemFields{
		QuoteID: q.ID, ProductID: uuid.New(), Quantity: 9, UnitPrice: decimal.NewFromInt(1),
	}, testActor, testActor)
	for _, li := range []*sales.QuoteLineItem{second, first, retired} {
		require.NoError(t, lines.Add(ctx, li))
	}
	retired.Retire(testActor)
	_, err := lines.Delete(ctx, retired)
	require.NoError(t, err)

	loaded, err := quotes.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.LineItems)

	require.NoError(t, quotes.LoadLineItems(ctx, loaded))
	require.Len(t, loaded.LineItems, 2)
	assert.Equal(t, first.ID, loaded.LineItems[0].ID)
	assert.Equal(t, second.ID, loaded.LineItems[1].ID)
	assert.Equal(t, "32.50", loaded.Total().StringFixed(2))
}

func TestGormQuoteRepository_Finders(t *testing.T) {
	repo := NewGormQuoteRepository(newTestDB(t))
	ctx := context.Background()

	accountID, statusID := uuid.New(), uuid.New()
	exp := day(30)
	q := sales.NewQuote(sales.QuoteFields{QuoteNumber: "Q-77", AccountID: accountID, QuoteStatusID: statusID, QuoteDate: day(2), ExpirationDate: &exp}, testActor, testActor)
	require.NoError(t, repo.Add(ctx, q))

	byStatus, err := repo.GetByStatusID(ctx, statusID)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.NotNil(t, byStatus[0].ExpirationDate)
	assert.True(t, exp.Equal(*byStatus[0].ExpirationDate))

	byAccount, err := repo.GetByAccountID(ctx, accountID)
	require.NoError(t, err)
	assert.Len(t, byAccount, 1)

	taken, err := repo.ExistsByQuoteNumber(ctx, "q-77", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestGormSalesOrderRepository_GetByOrderDateRange(t *testing.T) {
	repo := NewGormSalesOrderRepository(newTestDB(t))
	ctx := context.Background()

	for i, d := range []int{1, 5, 10, 15} {
		o := sales.NewSalesOrder(sales.SalesOrderFields{
			OrderNumber: "SO-" + string(rune('A'+i)), AccountID: uuid.New(), SalesOrderStatusID: uuid.New(),
			OrderDate: day(d), TotalAmount: decimal.RequireFromString("250.005"),
		}, testActor, testActor)
		require.NoError(t, repo.Add(ctx, o))
	}

	orders, err := repo.GetByOrderDateRange(ctx, day(5), day(10))
	require.NoError(t, err)
	require.Len(t, orders, 2, "both bounds are inclusive")
	assert.True(t, day(5).Equal(orders[0].OrderDate))
	assert.True(t, day(10).Equal(orders[1].OrderDate))
	assert.Equal(t, "250.01", orders[0].TotalAmount.StringFixed(2))

	sameDay, err := repo.GetByOrderDateRange(ctx, day(15), day(15))
	require.NoError(t, err)
	assert.Len(t, sameDay, 1)

	none, err := repo.GetByOrderDateRange(ctx, day(20), day(25))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormProductRepository_GetByName(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	p := sales.NewProduct(sales.ProductFields{Name: "Widget", SKU: "w-1", UnitPrice: decimal.RequireFromString("19.9900")}, testActor, testActor)
	require.NoError(t, repo.Add(ctx, p))

	got, err := repo.GetByName(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, "W-1", got.SKU)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.UnitPrice))
}

func TestGormCallRepository_GetByPersonID(t *testing.T) {
	repo := NewGormCallRepository(newTestDB(t))
	ctx := context.Background()

	personID := uuid.New()
	for _, d := range []int{3, 9, 6} {
		c := activity.NewCall(activity.CallFields{
			PersonID: personID, PhoneID: uuid.New(), Direction: activity.DirectionOutbound,
			CallDate: day(d), DurationSeconds: 60,
		}, testActor, testActor)
		require.NoError(t, repo.Add(ctx, c))
	}

	calls, err := repo.GetByPersonID(ctx, personID)
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.True(t, day(9).Equal(calls[0].CallDate), "most recent first")
	assert.True(t, day(3).Equal(calls[2].CallDate))
	assert.Equal(t, activity.DirectionOutbound, calls[0].Direction)
}

func TestGormActivityRepository_GetByAccountID(t *testing.T) {
	repo := NewGormActivityRepository(newTestDB(t))
	ctx := context.Background()

	accountID := uuid.New()
	done := day(8)
	a := activity.NewActivity(activity.Fields{
		Subject: "Kickoff", ActivityTypeID: uuid.New(), ActivityStatusID: uuid.New(),
		AccountID: &accountID, StartDate: day(7), CompletionDate: &done,
	}, testActor, testActor)
	require.NoError(t, repo.Add(ctx, a))
	require.NoError(t, repo.Add(ctx, activity.NewActivity(activity.Fields{
		Subject: "Unrelated", ActivityTypeID: uuid.New(), ActivityStatusID: uuid.New(), StartDate: day(1),
	}, testActor, testActor)))

	items, err := repo.GetByAccountID(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsCompleted())
	assert.Nil(t, items[0].PersonID)
}

func TestGormPaymentRepository_Finders(t *testing.T) {
	repo := NewGormPaymentRepository(newTestDB(t))
	ctx := context.Background()

	orderID, accountID := uuid.New(), uuid.New()
	for _, d := range []int{12, 4} {
		p := payment.NewPayment(payment.Fields{
			SalesOrderID: orderID, AccountID: accountID, PaymentMethodID: uuid.New(),
			Amount: decimal.RequireFromString("60.00"), PaymentDate: day(d),
		}, testActor, testActor)
		require.NoError(t, repo.Add(ctx, p))
	}

	byOrder, err := repo.GetBySalesOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, byOrder, 2)
	assert.True(t, day(4).Equal(byOrder[0].PaymentDate), "oldest first")
	assert.True(t, decimal.NewFromInt(60).Equal(byOrder[1].Amount))

	byAccount, err := repo.GetByAccountID(ctx, accountID)
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)
}
