package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testActor = uuid.MustParse("11111111-1111-1111-1111-111111111111")

type repos struct {
	people           *testutil.MockPersonRepository
	companies        *testutil.MockCompanyRepository
	phones           *testutil.MockPhoneRepository
	addresses        *testutil.MockAddressRepository
	lookups          *testutil.MockLookupRepository
	personPhones     *testutil.MockJunctionRepository
	personAddresses  *testutil.MockJunctionRepository
	companyPhones    *testutil.MockJunctionRepository
	companyAddresses *testutil.MockJunctionRepository
	events           *testutil.RecordingPublisher
}

func newRepos() *repos {
	return &repos{
		people:           new(testutil.MockPersonRepository),
		companies:        new(testutil.MockCompanyRepository),
		phones:           new(testutil.MockPhoneRepository),
		addresses:        new(testutil.MockAddressRepository),
		lookups:          new(testutil.MockLookupRepository),
		personPhones:     new(testutil.MockJunctionRepository),
		personAddresses:  new(testutil.MockJunctionRepository),
		companyPhones:    new(testutil.MockJunctionRepository),
		companyAddresses: new(testutil.MockJunctionRepository),
		events:           new(testutil.RecordingPublisher),
	}
}

func (r *repos) associations() *AssociationService {
	return NewAssociationService(AssociationServiceDeps{
		People:           r.people,
		Companies:        r.companies,
		Phones:           r.phones,
		Addresses:        r.addresses,
		Lookups:          r.lookups,
		PersonPhones:     r.personPhones,
		CompanyPhones:    r.companyPhones,
		PersonAddresses:  r.personAddresses,
		CompanyAddresses: r.companyAddresses,
	}, r.events, zap.NewNop())
}

func (r *repos) personService() *PersonService {
	return NewPersonService(r.people, PersonServiceDeps{
		Phones:          r.phones,
		Addresses:       r.addresses,
		PersonPhones:    r.personPhones,
		PersonAddresses: r.personAddresses,
		Lookups:         r.lookups,
	}, r.events, zap.NewNop())
}

func TestAddressService_Delete_Missing(t *testing.T) {
	r := newRepos()
	service := NewAddressService(r.addresses, r.lookups, r.events, zap.NewNop())
	missing := uuid.New()

	r.addresses.On("GetByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	deleted, err := service.Delete(context.Background(), DeleteCommand{ID: missing, ModifiedBy: testActor})

	require.NoError(t, err)
	assert.False(t, deleted)
	r.addresses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	r.addresses.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Empty(t, r.events.Events())
}

func TestAddressService_Create_UnknownType(t *testing.T) {
	r := newRepos()
	service := NewAddressService(r.addresses, r.lookups, r.events, zap.NewNop())
	typeID := uuid.New()

	r.lookups.On("Exists", mock.Anything, lookup.KindAddressType, typeID).Return(false, nil)

	_, err := service.Create(context.Background(), CreateAddressCommand{
		Line1: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
		AddressTypeID: typeID, CreatedBy: testActor, ModifiedBy: testActor,
	})

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	v, ok := ve.Field("address_type_id")
	require.True(t, ok)
	assert.Equal(t, "address_type_id references an unknown address type", v.Message)
}

func TestAssociationService_AddPhoneToPerson_Twice(t *testing.T) {
	r := newRepos()
	service := r.associations()
	personID, phoneID := uuid.New(), uuid.New()
	cmd := PersonPhoneCommand{PersonID: personID, PhoneID: phoneID, ModifiedBy: testActor}

	r.people.On("Exists", mock.Anything, personID).Return(true, nil)
	r.phones.On("Exists", mock.Anything, phoneID).Return(true, nil)
	r.personPhones.On("GetAnyByID", mock.Anything, personID, phoneID).Return(nil, shared.ErrNotFound).Once()
	r.personPhones.On("Add", mock.Anything, mock.AnythingOfType("*shared.Junction")).Return(nil).Once()

	first, err := service.AddPhoneToPerson(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, first)

	link := r.personPhones.Calls[1].Arguments.Get(1).(*shared.Junction)
	r.personPhones.On("GetAnyByID", mock.Anything, personID, phoneID).Return(link, nil).Once()

	second, err := service.AddPhoneToPerson(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, second)

	r.personPhones.AssertNumberOfCalls(t, "Add", 1)
	r.personPhones.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Len(t, r.events.Changes(), 1)
}

func TestAssociationService_AddPhoneToPerson_Reactivates(t *testing.T) {
	r := newRepos()
	service := r.associations()
	personID, phoneID := uuid.New(), uuid.New()
	retired := shared.NewJunction(personID, phoneID, testActor)
	retired.Retire(testActor)

	r.people.On("Exists", mock.Anything, personID).Return(true, nil)
	r.phones.On("Exists", mock.Anything, phoneID).Return(true, nil)
	r.personPhones.On("GetAnyByID", mock.Anything, personID, phoneID).Return(retired, nil)
	r.personPhones.On("Update", mock.Anything, retired).Return(nil)

	added, err := service.AddPhoneToPerson(context.Background(), PersonPhoneCommand{PersonID: personID, PhoneID: phoneID, ModifiedBy: testActor})

	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, retired.IsActive())
	r.personPhones.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAssociationService_AddAddressToCompany_UnknownCompany(t *testing.T) {
	r := newRepos()
	service := r.associations()
	companyID, addressID := uuid.New(), uuid.New()

	r.companies.On("Exists", mock.Anything, companyID).Return(false, nil)
	r.addresses.On("Exists", mock.Anything, addressID).Return(true, nil)

	_, err := service.AddAddressToCompany(context.Background(), CompanyAddressCommand{CompanyID: companyID, AddressID: addressID, ModifiedBy: testActor})

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	_, ok = ve.Field("company_id")
	assert.True(t, ok)
	r.companyAddresses.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAssociationService_RemovePhoneFromPerson(t *testing.T) {
	r := newRepos()
	service := r.associations()
	personID, phoneID := uuid.New(), uuid.New()
	link := shared.NewJunction(personID, phoneID, testActor)
	cmd := PersonPhoneCommand{PersonID: personID, PhoneID: phoneID, ModifiedBy: testActor}

	r.personPhones.On("GetByID", mock.Anything, personID, phoneID).Return(link, nil).Once()
	r.personPhones.On("Delete", mock.Anything, link).Return(true, nil).Once()
	r.personPhones.On("GetByID", mock.Anything, personID, phoneID).Return(nil, shared.ErrNotFound).Once()

	removed, err := service.RemovePhoneFromPerson(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, link.IsActive())

	removed, err = service.RemovePhoneFromPerson(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAssociationService_IsPhoneAssociatedWithPerson(t *testing.T) {
	r := newRepos()
	service := r.associations()
	personID, phoneID := uuid.New(), uuid.New()

	r.personPhones.On("GetByID", mock.Anything, personID, phoneID).Return(nil, shared.ErrNotFound)

	linked, err := service.IsPhoneAssociatedWithPerson(context.Background(), personID, phoneID)
	require.NoError(t, err)
	assert.False(t, linked)

	_, err = service.IsPhoneAssociatedWithPerson(context.Background(), uuid.Nil, phoneID)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestPersonService_GetByID_HydratesLinks(t *testing.T) {
	r := newRepos()
	service := r.personService()
	person := contact.NewPerson(contact.PersonFields{FirstName: "Ada", LastName: "Lovelace"}, testActor, testActor)
	mobile := lookup.Lookup{Kind: lookup.KindPhoneType, Value: "Mobile"}
	mobile.ID = uuid.New()
	phone := contact.NewPhone(contact.PhoneFields{AreaCode: 555, Number: "0100", PhoneTypeID: mobile.ID}, testActor, testActor)

	r.people.On("GetByID", mock.Anything, person.ID).Return(person, nil)
	r.personPhones.On("GetByFirstID", mock.Anything, person.ID).Return([]shared.Junction{*shared.NewJunction(person.ID, phone.ID, testActor)}, nil)
	r.personAddresses.On("GetByFirstID", mock.Anything, person.ID).Return([]shared.Junction{}, nil)
	r.phones.On("GetByIDs", mock.Anything, []uuid.UUID{phone.ID}).Return([]contact.Phone{*phone}, nil)
	r.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{mobile.ID}).Return([]lookup.Lookup{mobile}, nil)

	result, err := service.GetByID(context.Background(), GetByIDQuery{ID: person.ID})

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", result.FullName)
	require.Len(t, result.Phones, 1)
	assert.Equal(t, "(555) 0100", result.Phones[0].Formatted)
	assert.Equal(t, "Mobile", result.Phones[0].PhoneType)
	assert.Empty(t, result.Addresses)
	r.addresses.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestPersonService_Update_ReturnsLinks(t *testing.T) {
	r := newRepos()
	service := r.personService()
	person := contact.NewPerson(contact.PersonFields{FirstName: "Ada", LastName: "Lovelace"}, testActor, testActor)
	home := lookup.Lookup{Kind: lookup.KindAddressType, Value: "Home"}
	home.ID = uuid.New()
	address := contact.NewAddress(contact.AddressFields{
		Line1: "12 St James's Square", City: "London", PostalCode: "SW1Y 4JH", Country: "UK", AddressTypeID: home.ID,
	}, testActor, testActor)

	r.people.On("GetByID", mock.Anything, person.ID).Return(person, nil)
	r.people.On("Update", mock.Anything, person).Return(nil)
	r.personPhones.On("GetByFirstID", mock.Anything, person.ID).Return([]shared.Junction{}, nil)
	r.personAddresses.On("GetByFirstID", mock.Anything, person.ID).Return([]shared.Junction{*shared.NewJunction(person.ID, address.ID, testActor)}, nil)
	r.addresses.On("GetByIDs", mock.Anything, []uuid.UUID{address.ID}).Return([]contact.Address{*address}, nil)
	r.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{home.ID}).Return([]lookup.Lookup{home}, nil)

	result, err := service.Update(context.Background(), UpdatePersonCommand{
		ID: person.ID, FirstName: "Augusta", LastName: "King", ModifiedBy: testActor,
	})

	require.NoError(t, err)
	assert.Equal(t, "Augusta King", result.FullName)
	require.Len(t, result.Addresses, 1)
	assert.Equal(t, "Home", result.Addresses[0].AddressType)
	assert.Empty(t, result.Phones)
}

func TestPersonService_Create_DuplicateEmail(t *testing.T) {
	r := newRepos()
	service := r.personService()

	r.people.On("ExistsByEmail", mock.Anything, "ada@example.com", uuid.Nil).Return(true, nil)

	_, err := service.Create(context.Background(), CreatePersonCommand{
		FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ",
		CreatedBy: testActor, ModifiedBy: testActor,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestPersonService_Create_InvalidEmail(t *testing.T) {
	r := newRepos()
	service := r.personService()

	_, err := service.Create(context.Background(), CreatePersonCommand{
		FirstName: "Ada", LastName: "Lovelace", Email: "not-an-email",
		CreatedBy: testActor, ModifiedBy: testActor,
	})

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	_, ok = ve.Field("email")
	assert.True(t, ok)
}

func TestCompanyService_Update_DuplicateName(t *testing.T) {
	r := newRepos()
	service := NewCompanyService(r.companies, CompanyServiceDeps{
		Phones: r.phones, Addresses: r.addresses, Lookups: r.lookups,
		CompanyPhones: r.companyPhones, CompanyAddresses: r.companyAddresses,
	}, r.events, zap.NewNop())
	id := uuid.New()

	r.companies.On("ExistsByName", mock.Anything, "Initech", id).Return(true, nil)

	_, err := service.Update(context.Background(), UpdateCompanyCommand{ID: id, Name: "Initech", ModifiedBy: testActor})

	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	r.companies.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestPhoneService_Create_AreaCodeBounds(t *testing.T) {
	r := newRepos()
	service := NewPhoneService(r.phones, r.lookups, r.events, zap.NewNop())
	typeID := uuid.New()

	work := lookup.Lookup{Kind: lookup.KindPhoneType, Value: "Work"}
	work.ID = typeID
	r.lookups.On("Exists", mock.Anything, lookup.KindPhoneType, typeID).Return(true, nil)
	r.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{typeID}).Return([]lookup.Lookup{work}, nil)
	r.phones.On("Add", mock.Anything, mock.Anything).Return(nil)

	for _, code := range []int{100, 999} {
		created, err := service.Create(context.Background(), CreatePhoneCommand{
			AreaCode: code, Number: "0100", PhoneTypeID: typeID, CreatedBy: testActor, ModifiedBy: testActor,
		})
		require.NoError(t, err, "area code %d", code)
		assert.Equal(t, "Work", created.PhoneType)
	}
	for _, code := range []int{99, 1000} {
		_, err := service.Create(context.Background(), CreatePhoneCommand{
			AreaCode: code, Number: "0100", PhoneTypeID: typeID, CreatedBy: testActor, ModifiedBy: testActor,
		})
		ve, ok := shared.AsValidationError(err)
		require.True(t, ok, "area code %d", code)
		_, ok = ve.Field("area_code")
		assert.True(t, ok)
	}
	r.phones.AssertNumberOfCalls(t, "Add", 2)
}
