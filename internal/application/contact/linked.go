package contact

import (
	"context"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// linked loads the phones and addresses attached to a person or company
type linked struct {
	phones    contact.PhoneRepository
	addresses contact.AddressRepository
	lookups   lookup.Repository
}

// load follows the junctions from ownerID. The two junction walks run concurrently,
// then one batched lookup read resolves every type name.
func (l linked) load(ctx context.Context, phoneLinks, addressLinks shared.JunctionRepository, ownerID uuid.UUID) ([]PhoneSummary, []AddressSummary, error) {
	var phones []contact.Phone
	var addresses []contact.Address

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		phones, err = follow(gctx, phoneLinks, ownerID, l.phones.GetByIDs)
		return err
	})
	g.Go(func() error {
		var err error
		addresses, err = follow(gctx, addressLinks, ownerID, l.addresses.GetByIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	typeIDs := append(
		cqrs.DistinctIDs(phones, func(p *contact.Phone) *uuid.UUID { return cqrs.Ref(p.PhoneTypeID) }),
		cqrs.DistinctIDs(addresses, func(a *contact.Address) *uuid.UUID { return cqrs.Ref(a.AddressTypeID) })...,
	)
	names, err := cqrs.LookupNames(ctx, l.lookups, typeIDs)
	if err != nil {
		return nil, nil, err
	}
	return phoneSummaries(phones, names), addressSummaries(addresses, names), nil
}

// follow reads the active links of ownerID and loads the records on the other side
func follow[T any](ctx context.Context, links shared.JunctionRepository, ownerID uuid.UUID, load func(ctx context.Context, ids []uuid.UUID) ([]T, error)) ([]T, error) {
	rows, err := links.GetByFirstID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []T{}, nil
	}
	ids := cqrs.DistinctIDs(rows, func(j *shared.Junction) *uuid.UUID { return cqrs.Ref(j.SecondID) })
	return load(ctx, ids)
}

func phoneSummaries(items []contact.Phone, names map[uuid.UUID]string) []PhoneSummary {
	return cqrs.Map(items, func(p *contact.Phone) PhoneSummary {
		s := ToPhoneSummary(p)
		s.PhoneType = names[p.PhoneTypeID]
		return s
	})
}

func addressSummaries(items []contact.Address, names map[uuid.UUID]string) []AddressSummary {
	return cqrs.Map(items, func(a *contact.Address) AddressSummary {
		s := ToAddressSummary(a)
		s.AddressType = names[a.AddressTypeID]
		return s
	})
}
