package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stonefield/radarpipe/internal/models"
)

// MemoryStore is an in-memory Store implementation. It backs dry-run
// imports (radarctl import --dry-run) and the pipeline tests, where the
// full import flow runs without a database.
//
// WithTx runs the callback against the same store without transactional
// isolation: a dry run has nothing durable to roll back.
type MemoryStore struct {
	mu sync.Mutex

	properties   []*models.Property
	contacts     []*models.Contact
	associations []*models.PropertyContact
	lists        []*models.CampaignList
	memberships  []*models.ListMembership
	runs         []*models.ImportRun

	nextID uint
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Properties() PropertyRepository { return (*memProperties)(s) }

func (s *MemoryStore) Contacts() ContactRepository { return (*memContacts)(s) }

func (s *MemoryStore) Associations() AssociationRepository { return (*memAssociations)(s) }

func (s *MemoryStore) Lists() ListRepository { return (*memLists)(s) }

func (s *MemoryStore) Runs() ImportRunRepository { return (*memRuns)(s) }

// WithTx runs fn against the same store. Nested scopes are permitted, as
// on the SQL store, but effects are applied eagerly with nothing to roll
// back.
func (s *MemoryStore) WithTx(_ context.Context, fn func(Store) error) error {
	return fn(s)
}

// PropertyCount returns the number of stored properties.
func (s *MemoryStore) PropertyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.properties)
}

// ContactCount returns the number of stored contacts.
func (s *MemoryStore) ContactCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

// AllAssociations returns copies of every stored association.
func (s *MemoryStore) AllAssociations() []models.PropertyContact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PropertyContact, 0, len(s.associations))
	for _, a := range s.associations {
		out = append(out, *a)
	}
	return out
}

// AllMemberships returns copies of every stored list membership.
func (s *MemoryStore) AllMemberships() []models.ListMembership {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ListMembership, 0, len(s.memberships))
	for _, m := range s.memberships {
		out = append(out, *m)
	}
	return out
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

// memProperties adapts MemoryStore to PropertyRepository.
type memProperties MemoryStore

func (r *memProperties) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memProperties) FindByAPN(_ context.Context, apn string) (*models.Property, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.properties {
		if p.APN != nil && *p.APN == apn {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProperties) FindByAddressZip(_ context.Context, address, zipCode string) (*models.Property, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.properties {
		if strings.EqualFold(p.Address, address) && strings.EqualFold(p.ZipCode, zipCode) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProperties) Create(_ context.Context, property *models.Property) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	property.ID = s.allocID()
	property.CreatedAt = time.Now()
	property.UpdatedAt = property.CreatedAt
	cp := *property
	s.properties = append(s.properties, &cp)
	return nil
}

func (r *memProperties) Update(_ context.Context, property *models.Property) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.properties {
		if p.ID == property.ID {
			property.UpdatedAt = time.Now()
			cp := *property
			s.properties[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memProperties) Count(_ context.Context) (int, error) {
	return r.store().PropertyCount(), nil
}

// memContacts adapts MemoryStore to ContactRepository.
type memContacts MemoryStore

func (r *memContacts) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memContacts) FindByPhone(_ context.Context, phone string) (*models.Contact, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memContacts) Create(_ context.Context, contact *models.Contact) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	contact.ID = s.allocID()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	cp := *contact
	s.contacts = append(s.contacts, &cp)
	return nil
}

func (r *memContacts) Update(_ context.Context, contact *models.Contact) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == contact.ID {
			contact.UpdatedAt = time.Now()
			cp := *contact
			s.contacts[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memContacts) Count(_ context.Context) (int, error) {
	return r.store().ContactCount(), nil
}

// memAssociations adapts MemoryStore to AssociationRepository.
type memAssociations MemoryStore

func (r *memAssociations) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memAssociations) FindByPropertyAndContact(_ context.Context, propertyID, contactID uint) (*models.PropertyContact, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.associations {
		if a.PropertyID == propertyID && a.ContactID == contactID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAssociations) Create(_ context.Context, assoc *models.PropertyContact) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	assoc.ID = s.allocID()
	assoc.CreatedAt = time.Now()
	assoc.UpdatedAt = assoc.CreatedAt
	cp := *assoc
	s.associations = append(s.associations, &cp)
	return nil
}

func (r *memAssociations) Update(_ context.Context, assoc *models.PropertyContact) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.associations {
		if a.ID == assoc.ID {
			assoc.UpdatedAt = time.Now()
			cp := *assoc
			s.associations[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memAssociations) ClearPrimaryExcept(_ context.Context, propertyID, exceptID uint) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.associations {
		if a.PropertyID == propertyID && a.ID != exceptID && a.IsPrimary {
			a.IsPrimary = false
			a.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *memAssociations) CountOrphans(_ context.Context) (int, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	propertyIDs := make(map[uint]struct{}, len(s.properties))
	for _, p := range s.properties {
		propertyIDs[p.ID] = struct{}{}
	}
	contactIDs := make(map[uint]struct{}, len(s.contacts))
	for _, c := range s.contacts {
		contactIDs[c.ID] = struct{}{}
	}

	orphans := 0
	for _, a := range s.associations {
		if _, ok := propertyIDs[a.PropertyID]; !ok {
			orphans++
			continue
		}
		if _, ok := contactIDs[a.ContactID]; !ok {
			orphans++
		}
	}
	return orphans, nil
}

// memLists adapts MemoryStore to ListRepository.
type memLists MemoryStore

func (r *memLists) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memLists) FindByName(_ context.Context, name string) (*models.CampaignList, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.Name == name {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLists) Create(_ context.Context, list *models.CampaignList) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	list.ID = s.allocID()
	list.CreatedAt = time.Now()
	cp := *list
	s.lists = append(s.lists, &cp)
	return nil
}

func (r *memLists) FindMembership(_ context.Context, listID, contactID uint) (*models.ListMembership, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.ListID == listID && m.ContactID == contactID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLists) CreateMembership(_ context.Context, membership *models.ListMembership) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	membership.ID = s.allocID()
	membership.CreatedAt = time.Now()
	membership.UpdatedAt = membership.CreatedAt
	cp := *membership
	s.memberships = append(s.memberships, &cp)
	return nil
}

func (r *memLists) UpdateMembership(_ context.Context, membership *models.ListMembership) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.memberships {
		if m.ID == membership.ID {
			membership.UpdatedAt = time.Now()
			cp := *membership
			s.memberships[i] = &cp
			return nil
		}
	}
	return nil
}

// memRuns adapts MemoryStore to ImportRunRepository.
type memRuns MemoryStore

func (r *memRuns) store() *MemoryStore { return (*MemoryStore)(r) }

func (r *memRuns) Create(_ context.Context, run *models.ImportRun) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	run.StartedAt = time.Now()
	cp := *run
	s.runs = append(s.runs, &cp)
	return nil
}

func (r *memRuns) Update(_ context.Context, run *models.ImportRun) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.runs {
		if existing.ID == run.ID {
			cp := *run
			s.runs[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memRuns) FindByID(_ context.Context, id uuid.UUID) (*models.ImportRun, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, run := range s.runs {
		if run.ID == id {
			cp := *run
			return &cp, nil
		}
	}
	return nil, nil
}
