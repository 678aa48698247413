package router

import (
	"github.com/crm/backend/internal/interfaces/http/handler"
)

// Handlers are the API handlers mounted under /api/<version>
type Handlers struct {
	Lookups      *handler.LookupHandler
	Accounts     *handler.AccountHandler
	People       *handler.PersonHandler
	Companies    *handler.CompanyHandler
	Addresses    *handler.AddressHandler
	Phones       *handler.PhoneHandler
	Associations *handler.AssociationHandler
	Activities   *handler.ActivityHandler
	Calls        *handler.CallHandler
	Products     *handler.ProductHandler
	Quotes       *handler.QuoteHandler
	LineItems    *handler.LineItemHandler
	SalesOrders  *handler.SalesOrderHandler
	Payments     *handler.PaymentHandler
}

// Groups returns one domain group per resource
func (hs Handlers) Groups() []*DomainGroup {
	return []*DomainGroup{
		hs.lookupRoutes(),
		hs.accountRoutes(),
		hs.personRoutes(),
		hs.companyRoutes(),
		hs.addressRoutes(),
		hs.phoneRoutes(),
		hs.activityRoutes(),
		hs.callRoutes(),
		hs.productRoutes(),
		hs.quoteRoutes(),
		hs.lineItemRoutes(),
		hs.salesOrderRoutes(),
		hs.paymentRoutes(),
	}
}

func (hs Handlers) lookupRoutes() *DomainGroup {
	h := hs.Lookups
	g := NewDomainGroup("lookups", "/lookups")
	g.GET("", h.Kinds).
		GET("/:kind", h.List).
		POST("/:kind", h.Create).
		GET("/:kind/by-value/:value", h.GetByValue).
		GET("/:kind/by-position/:position", h.GetByOrdinalPosition).
		GET("/:kind/:id", h.GetByID).
		PUT("/:kind/:id", h.Update).
		DELETE("/:kind/:id", h.Delete)
	return g
}

func (hs Handlers) accountRoutes() *DomainGroup {
	h := hs.Accounts
	g := NewDomainGroup("accounts", "/accounts")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-status/:status", h.GetByStatus).
		GET("/by-type/:type", h.GetByType).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) personRoutes() *DomainGroup {
	h := hs.People
	g := NewDomainGroup("people", "/people")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-email", h.GetByEmail).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	links(g, "/phones", hs.Associations.PersonPhones())
	links(g, "/addresses", hs.Associations.PersonAddresses())
	return g
}

func (hs Handlers) companyRoutes() *DomainGroup {
	h := hs.Companies
	g := NewDomainGroup("companies", "/companies")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-name", h.GetByName).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	links(g, "/phones", hs.Associations.CompanyPhones())
	links(g, "/addresses", hs.Associations.CompanyAddresses())
	return g
}

// links mounts a junction under /:id of its owner
func links(g *DomainGroup, items string, l *handler.Links) {
	g.GET("/:id"+items, l.List).
		GET("/:id"+items+"/:"+l.ItemParam, l.Check).
		PUT("/:id"+items+"/:"+l.ItemParam, l.Add).
		DELETE("/:id"+items+"/:"+l.ItemParam, l.Remove)
}

func (hs Handlers) addressRoutes() *DomainGroup {
	h := hs.Addresses
	g := NewDomainGroup("addresses", "/addresses")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-type/:type", h.GetByType).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) phoneRoutes() *DomainGroup {
	h := hs.Phones
	g := NewDomainGroup("phones", "/phones")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-type/:type", h.GetByType).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) activityRoutes() *DomainGroup {
	h := hs.Activities
	g := NewDomainGroup("activities", "/activities")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-status/:status", h.GetByStatus).
		GET("/by-type/:type", h.GetByType).
		GET("/by-account/:accountId", h.GetByAccount).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) callRoutes() *DomainGroup {
	h := hs.Calls
	g := NewDomainGroup("calls", "/calls")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-person/:personId", h.GetByPerson).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) productRoutes() *DomainGroup {
	h := hs.Products
	g := NewDomainGroup("products", "/products")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-name", h.GetByName).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) quoteRoutes() *DomainGroup {
	h := hs.Quotes
	g := NewDomainGroup("quotes", "/quotes")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-status/:status", h.GetByStatus).
		GET("/by-account/:accountId", h.GetByAccount).
		GET("/:id", h.GetByID).
		GET("/:id/line-items", hs.LineItems.GetByQuote).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) lineItemRoutes() *DomainGroup {
	h := hs.LineItems
	g := NewDomainGroup("line-items", "/line-items")
	g.POST("", h.Create).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) salesOrderRoutes() *DomainGroup {
	h := hs.SalesOrders
	g := NewDomainGroup("sales-orders", "/sales-orders")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-status/:status", h.GetByStatus).
		GET("/by-date", h.GetByOrderDate).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}

func (hs Handlers) paymentRoutes() *DomainGroup {
	h := hs.Payments
	g := NewDomainGroup("payments", "/payments")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/by-sales-order/:salesOrderId", h.GetBySalesOrder).
		GET("/by-account/:accountId", h.GetByAccount).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	return g
}
