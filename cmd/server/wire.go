package main

import (
	accountapp "github.com/crm/backend/internal/application/account"
	activityapp "github.com/crm/backend/internal/application/activity"
	contactapp "github.com/crm/backend/internal/application/contact"
	lookupapp "github.com/crm/backend/internal/application/lookup"
	paymentapp "github.com/crm/backend/internal/application/payment"
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// buildHandlers wires repositories, services and handlers. lookups may wrap the gorm
// repository with a cache; every other repository talks to db directly.
func buildHandlers(db *gorm.DB, lookups lookup.Repository, events shared.EventPublisher, log *zap.Logger) router.Handlers {
	accounts := persistence.NewGormAccountRepository(db)
	people := persistence.NewGormPersonRepository(db)
	companies := persistence.NewGormCompanyRepository(db)
	addresses := persistence.NewGormAddressRepository(db)
	phones := persistence.NewGormPhoneRepository(db)
	personPhones := persistence.NewContactJunctionRepository(db, contact.PersonPhones)
	companyPhones := persistence.NewContactJunctionRepository(db, contact.CompanyPhones)
	personAddresses := persistence.NewContactJunctionRepository(db, contact.PersonAddresses)
	companyAddresses := persistence.NewContactJunctionRepository(db, contact.CompanyAddresses)
	activities := persistence.NewGormActivityRepository(db)
	calls := persistence.NewGormCallRepository(db)
	products := persistence.NewGormProductRepository(db)
	quotes := persistence.NewGormQuoteRepository(db)
	lineItems := persistence.NewGormQuoteLineItemRepository(db)
	orders := persistence.NewGormSalesOrderRepository(db)
	payments := persistence.NewGormPaymentRepository(db)

	// Contacts
	personService := contactapp.NewPersonService(people, contactapp.PersonServiceDeps{
		Phones:          phones,
		Addresses:       addresses,
		PersonPhones:    personPhones,
		PersonAddresses: personAddresses,
		Lookups:         lookups,
	}, events, log)
	companyService := contactapp.NewCompanyService(companies, contactapp.CompanyServiceDeps{
		Phones:           phones,
		Addresses:        addresses,
		CompanyPhones:    companyPhones,
		CompanyAddresses: companyAddresses,
		Lookups:          lookups,
	}, events, log)
	associationService := contactapp.NewAssociationService(contactapp.AssociationServiceDeps{
		People:           people,
		Companies:        companies,
		Phones:           phones,
		Addresses:        addresses,
		Lookups:          lookups,
		PersonPhones:     personPhones,
		CompanyPhones:    companyPhones,
		PersonAddresses:  personAddresses,
		CompanyAddresses: companyAddresses,
	}, events, log)

	// Sales
	quoteService := salesapp.NewQuoteService(quotes, products, accounts, lookups, events, log)
	orderService := salesapp.NewSalesOrderService(orders, quotes, accounts, lookups, events, log)

	return router.Handlers{
		Lookups:      handler.NewLookupHandler(lookupapp.NewLookupService(lookups, events, log)),
		Accounts:     handler.NewAccountHandler(accountapp.NewAccountService(accounts, lookups, companies, events, log)),
		People:       handler.NewPersonHandler(personService),
		Companies:    handler.NewCompanyHandler(companyService),
		Addresses:    handler.NewAddressHandler(contactapp.NewAddressService(addresses, lookups, events, log)),
		Phones:       handler.NewPhoneHandler(contactapp.NewPhoneService(phones, lookups, events, log)),
		Associations: handler.NewAssociationHandler(associationService),
		Activities:   handler.NewActivityHandler(activityapp.NewActivityService(activities, lookups, accounts, people, events, log)),
		Calls:        handler.NewCallHandler(activityapp.NewCallService(calls, activities, people, phones, events, log)),
		Products:     handler.NewProductHandler(salesapp.NewProductService(products, events, log)),
		Quotes:       handler.NewQuoteHandler(quoteService),
		LineItems:    handler.NewLineItemHandler(salesapp.NewLineItemService(lineItems, quotes, products, events, log)),
		SalesOrders:  handler.NewSalesOrderHandler(orderService),
		Payments:     handler.NewPaymentHandler(paymentapp.NewPaymentService(payments, orders, accounts, lookups, events, log)),
	}
}
