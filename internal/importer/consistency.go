package importer

import (
	"context"
	"strings"

	"github.com/stonefield/radarpipe/internal/repository"
)

// ConsistencyReport compares what a CSV should have produced against what
// storage actually holds. Expected counts are deduplicated the same way
// the pipeline deduplicates (property key, canonical phone), so importing
// the file any number of times should satisfy the report.
type ConsistencyReport struct {
	ExpectedProperties   int  `json:"expected_properties"`
	ExpectedContacts     int  `json:"expected_contacts"`
	ActualProperties     int  `json:"actual_properties"`
	ActualContacts       int  `json:"actual_contacts"`
	OrphanedAssociations int  `json:"orphaned_associations"`
	Consistent           bool `json:"consistent"`
}

// CheckConsistency re-parses rows and verifies storage covers them: every
// distinct property key and every distinct contact phone must be
// represented, and no association may reference a missing property or
// contact. It reads storage but never mutates it.
//
// Storage may legitimately hold more records than the file expects (other
// imports), so the check is a lower bound, not an equality.
func CheckConsistency(ctx context.Context, store repository.Store, rows []Row) (*ConsistencyReport, error) {
	extractor := NewExtractor()

	propertyKeys := make(map[string]struct{})
	contactPhones := make(map[string]struct{})

	for _, row := range rows {
		extracted := extractor.Extract(row.Fields)

		propertyKeys[propertyKey(extracted.Property)] = struct{}{}
		if extracted.PrimaryContact != nil {
			contactPhones[extracted.PrimaryContact.Phone] = struct{}{}
		}
		if extracted.SecondaryContact != nil {
			contactPhones[extracted.SecondaryContact.Phone] = struct{}{}
		}
	}

	report := &ConsistencyReport{
		ExpectedProperties: len(propertyKeys),
		ExpectedContacts:   len(contactPhones),
	}

	var err error
	if report.ActualProperties, err = store.Properties().Count(ctx); err != nil {
		return nil, err
	}
	if report.ActualContacts, err = store.Contacts().Count(ctx); err != nil {
		return nil, err
	}
	if report.OrphanedAssociations, err = store.Associations().CountOrphans(ctx); err != nil {
		return nil, err
	}

	report.Consistent = report.ActualProperties >= report.ExpectedProperties &&
		report.ActualContacts >= report.ExpectedContacts &&
		report.OrphanedAssociations == 0

	return report, nil
}

// propertyKey mirrors the resolver's dedup key order: APN when present,
// otherwise lowercased address plus zip.
func propertyKey(p PropertyPayload) string {
	if p.APN != nil && *p.APN != "" {
		return "apn:" + *p.APN
	}
	return "addr:" + strings.ToLower(p.Address) + "|" + strings.ToLower(p.ZipCode)
}
