package transform

import (
	"log"
	"strings"

	"fleximart/internal/normalize"
	"fleximart/internal/quality"
	"fleximart/internal/schema"
	"fleximart/pkg/records"
)

// Customers cleans the raw customer records. Policy, in order:
//   - drop duplicate customer_id values, keeping the first occurrence
//   - drop rows without an email (counted as missing values handled)
//   - drop rows whose registration_date cannot be parsed (counted likewise)
//   - drop rows repeating an earlier row's email, case-insensitively, so the
//     destination's unique constraint cannot fail mid-load (counted as
//     duplicates removed)
//
// Emails are stored trimmed and lowercased. Phones are canonicalized to
// +91-XXXXXXXXXX where possible; an
// uncanonicalizable or absent phone becomes nil, which loads as SQL NULL.
func Customers(in []records.Record, qt *quality.Tracker) []schema.Customer {
	kept, removed := dedupFirst(in, "customer_id")
	seenEmail := make(map[string]struct{}, len(kept))
	emailDups := 0
	missing := 0

	out := make([]schema.Customer, 0, len(kept))
	for _, rec := range kept {
		if rec.Missing("email") {
			missing++
			continue
		}
		date, ok := normalize.Date(rec.Str("registration_date"))
		if !ok {
			missing++
			continue
		}
		email := strings.ToLower(strings.TrimSpace(rec.Str("email")))
		if _, dup := seenEmail[email]; dup {
			emailDups++
			continue
		}
		seenEmail[email] = struct{}{}

		var phone *string
		if p, ok := normalize.Phone(rec.Str("phone")); ok {
			phone = &p
		}
		out = append(out, schema.Customer{
			OldID:            rec.Str("customer_id"),
			FirstName:        strings.TrimSpace(rec.Str("first_name")),
			LastName:         strings.TrimSpace(rec.Str("last_name")),
			Email:            email,
			Phone:            phone,
			City:             strings.TrimSpace(rec.Str("city")),
			RegistrationDate: date,
		})
	}

	qt.RecordDuplicates(quality.TableCustomers, removed+emailDups)
	qt.RecordMissing(quality.TableCustomers, missing)
	log.Printf("transform: customers %d -> %d (duplicates=%d, missing=%d)",
		len(in), len(out), removed+emailDups, missing)
	return out
}
