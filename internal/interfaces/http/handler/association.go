package handler

import (
	"context"

	contactapp "github.com/crm/backend/internal/application/contact"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssociationHandler handles the phone and address links of people and companies
type AssociationHandler struct {
	service *contactapp.AssociationService
}

// NewAssociationHandler creates a new AssociationHandler
func NewAssociationHandler(service *contactapp.AssociationService) *AssociationHandler {
	return &AssociationHandler{service: service}
}

// Links serves one junction. The owner is the :id path parameter and the
// linked record is ItemParam.
type Links struct {
	BaseHandler
	ItemParam string
	add       func(ctx context.Context, owner, item, actor uuid.UUID, correlationID string) (bool, error)
	remove    func(ctx context.Context, owner, item, actor uuid.UUID, correlationID string) (bool, error)
	check     func(ctx context.Context, owner, item uuid.UUID) (bool, error)
	list      func(ctx context.Context, owner uuid.UUID) (any, error)
}

// PersonPhones serves /people/:id/phones
func (h *AssociationHandler) PersonPhones() *Links {
	s := h.service
	return &Links{
		ItemParam: "phoneId",
		add: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.AddPhoneToPerson(ctx, contactapp.PersonPhoneCommand{PersonID: owner, PhoneID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		remove: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.RemovePhoneFromPerson(ctx, contactapp.PersonPhoneCommand{PersonID: owner, PhoneID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		check: s.IsPhoneAssociatedWithPerson,
		list: func(ctx context.Context, owner uuid.UUID) (any, error) {
			return s.GetPhonesForPerson(ctx, owner)
		},
	}
}

// CompanyPhones serves /companies/:id/phones
func (h *AssociationHandler) CompanyPhones() *Links {
	s := h.service
	return &Links{
		ItemParam: "phoneId",
		add: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.AddPhoneToCompany(ctx, contactapp.CompanyPhoneCommand{CompanyID: owner, PhoneID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		remove: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.RemovePhoneFromCompany(ctx, contactapp.CompanyPhoneCommand{CompanyID: owner, PhoneID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		check: s.IsPhoneAssociatedWithCompany,
		list: func(ctx context.Context, owner uuid.UUID) (any, error) {
			return s.GetPhonesForCompany(ctx, owner)
		},
	}
}

// PersonAddresses serves /people/:id/addresses
func (h *AssociationHandler) PersonAddresses() *Links {
	s := h.service
	return &Links{
		ItemParam: "addressId",
		add: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.AddAddressToPerson(ctx, contactapp.PersonAddressCommand{PersonID: owner, AddressID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		remove: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.RemoveAddressFromPerson(ctx, contactapp.PersonAddressCommand{PersonID: owner, AddressID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		check: s.IsAddressAssociatedWithPerson,
		list: func(ctx context.Context, owner uuid.UUID) (any, error) {
			return s.GetAddressesForPerson(ctx, owner)
		},
	}
}

// CompanyAddresses serves /companies/:id/addresses
func (h *AssociationHandler) CompanyAddresses() *Links {
	s := h.service
	return &Links{
		ItemParam: "addressId",
		add: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.AddAddressToCompany(ctx, contactapp.CompanyAddressCommand{CompanyID: owner, AddressID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		remove: func(ctx context.Context, owner, item, actor uuid.UUID, cid string) (bool, error) {
			return s.RemoveAddressFromCompany(ctx, contactapp.CompanyAddressCommand{CompanyID: owner, AddressID: item, ModifiedBy: actor, CorrelationID: cid})
		},
		check: s.IsAddressAssociatedWithCompany,
		list: func(ctx context.Context, owner uuid.UUID) (any, error) {
			return s.GetAddressesForCompany(ctx, owner)
		},
	}
}

func (l *Links) ids(c *gin.Context) (owner, item uuid.UUID, ok bool) {
	if owner, ok = l.ParamID(c, "id"); !ok {
		return
	}
	item, ok = l.ParamID(c, l.ItemParam)
	return
}

// Add handles PUT .../:id/<items>/:itemId
func (l *Links) Add(c *gin.Context) {
	actor, ok := l.Actor(c)
	if !ok {
		return
	}
	owner, item, ok := l.ids(c)
	if !ok {
		return
	}
	changed, err := l.add(c.Request.Context(), owner, item, actor, l.CorrelationID(c))
	l.Changed(c, changed, err)
}

// Remove handles DELETE .../:id/<items>/:itemId
func (l *Links) Remove(c *gin.Context) {
	actor, ok := l.Actor(c)
	if !ok {
		return
	}
	owner, item, ok := l.ids(c)
	if !ok {
		return
	}
	changed, err := l.remove(c.Request.Context(), owner, item, actor, l.CorrelationID(c))
	l.Changed(c, changed, err)
}

// Check handles GET .../:id/<items>/:itemId
func (l *Links) Check(c *gin.Context) {
	owner, item, ok := l.ids(c)
	if !ok {
		return
	}
	linked, err := l.check(c.Request.Context(), owner, item)
	if err != nil {
		l.HandleError(c, err)
		return
	}
	l.Success(c, dto.LinkStatus{Linked: linked})
}

// List handles GET .../:id/<items>
func (l *Links) List(c *gin.Context) {
	owner, ok := l.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := l.list(c.Request.Context(), owner)
	if err != nil {
		l.HandleError(c, err)
		return
	}
	l.Success(c, result)
}
