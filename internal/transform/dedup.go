// Package transform cleans the raw record sets: deduplication by natural key,
// missing-value remediation (drop or impute, policy per table), and field
// normalization. Every drop or imputation is counted on the quality tracker;
// none of it is an error. Output order always preserves input order modulo
// dropped rows.
package transform

import (
	"github.com/zeebo/xxh3"

	"fleximart/pkg/records"
)

// dedupFirst keeps the first occurrence of each natural-key value, in input
// order, and reports how many records were removed. Keys are compared via
// their xxh3 hash; at batch sizes a 64-bit collision is not a realistic
// concern, and the seen-set stays allocation-free.
func dedupFirst(in []records.Record, key string) ([]records.Record, int) {
	seen := make(map[uint64]struct{}, len(in))
	kept := make([]records.Record, 0, len(in))
	removed := 0
	for _, rec := range in {
		h := xxh3.HashString(rec.Str(key))
		if _, dup := seen[h]; dup {
			removed++
			continue
		}
		seen[h] = struct{}{}
		kept = append(kept, rec)
	}
	return kept, removed
}
