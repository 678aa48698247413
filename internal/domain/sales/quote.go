package sales

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Quote is a priced offer to an account. Its line items are stored separately and loaded
// on demand through QuoteRepository.LoadLineItems.
type Quote struct {
	shared.BaseEntity
	QuoteNumber    string
	AccountID      uuid.UUID
	QuoteStatusID  uuid.UUID
	QuoteDate      time.Time
	ExpirationDate *time.Time
	Notes          string

	LineItems []QuoteLineItem
}

// QuoteFields are the caller-supplied attributes of a quote
type QuoteFields struct {
	QuoteNumber     string
	AccountID       uuid.UUID
	QuoteStatusID   uuid.UUID
	QuoteDate       time.Time
	ExpirationDate  *time.Time
	Notes           string
	OrdinalPosition int
}

// NewQuote creates a new active quote without line items
func NewQuote(f QuoteFields, createdBy, modifiedBy uuid.UUID) *Quote {
	q := &Quote{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	q.assign(f)
	return q
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (q *Quote) Apply(f QuoteFields, actor uuid.UUID) {
	q.assign(f)
	q.OrdinalPosition = f.OrdinalPosition
	q.Touch(actor)
}

// Total sums the loaded line items
func (q *Quote) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range q.LineItems {
		total = total.Add(q.LineItems[i].LineTotal())
	}
	return total
}

// IsExpired reports whether the quote has passed its expiration date at t
func (q *Quote) IsExpired(t time.Time) bool {
	return q.ExpirationDate != nil && t.After(*q.ExpirationDate)
}

func (q *Quote) assign(f QuoteFields) {
	q.QuoteNumber = strings.TrimSpace(f.QuoteNumber)
	q.AccountID = f.AccountID
	q.QuoteStatusID = f.QuoteStatusID
	q.QuoteDate = f.QuoteDate
	q.ExpirationDate = f.ExpirationDate
	q.Notes = f.Notes
}

// QuoteLineItem is one priced product line of a quote
type QuoteLineItem struct {
	shared.BaseEntity
	QuoteID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Notes           string
}

// LineItemFields are the caller-supplied attributes of a line item
type LineItemFields struct {
	QuoteID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Notes           string
	OrdinalPosition int
}

// NewQuoteLineItem creates a new active line item
func NewQuoteLineItem(f LineItemFields, createdBy, modifiedBy uuid.UUID) *QuoteLineItem {
	li := &QuoteLineItem{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	li.assign(f)
	return li
}

// Apply overwrites the caller-supplied attributes and stamps the actor.
// A line item never moves to another quote.
func (li *QuoteLineItem) Apply(f LineItemFields, actor uuid.UUID) {
	quoteID := li.QuoteID
	li.assign(f)
	li.QuoteID = quoteID
	li.OrdinalPosition = f.OrdinalPosition
	li.Touch(actor)
}

// LineTotal is quantity * unit price less the discount, rounded to cents
func (li *QuoteLineItem) LineTotal() decimal.Decimal {
	gross := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	discount := gross.Mul(li.DiscountPercent).Div(hundred)
	return gross.Sub(discount).Round(2)
}

func (li *QuoteLineItem) assign(f LineItemFields) {
	li.QuoteID = f.QuoteID
	li.ProductID = f.ProductID
	li.Quantity = f.Quantity
	li.UnitPrice = f.UnitPrice.Round(4)
	li.DiscountPercent = f.DiscountPercent.Round(2)
	li.Notes = f.Notes
}
