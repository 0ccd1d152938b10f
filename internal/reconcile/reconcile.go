// Package reconcile diffs an edited order draft against its persisted line
// items, keyed by product identity.
package reconcile

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RemovedPolicy decides what happens to persisted line items whose product is
// no longer present in the draft.
type RemovedPolicy int

const (
	// DeleteRemoved deletes removed item records.
	DeleteRemoved RemovedPolicy = iota
	// KeepRemoved detaches removed items from the order but keeps their
	// records in storage.
	KeepRemoved
)

// ParsePolicy maps a config value ("delete" or "keep") to a RemovedPolicy.
// Anything other than "keep" selects DeleteRemoved.
func ParsePolicy(s string) RemovedPolicy {
	if s == "keep" {
		return KeepRemoved
	}
	return DeleteRemoved
}

func (p RemovedPolicy) String() string {
	if p == KeepRemoved {
		return "keep"
	}
	return "delete"
}

// Persisted is a line item as currently stored.
type Persisted struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
	Price     decimal.Decimal
	TaxExempt bool
}

// Draft is a line item as submitted. Price is the effective price; UnitPrice
// and Override record how it was derived.
type Draft struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
	Price     decimal.Decimal
	Override  bool
	TaxExempt bool
}

// Change pairs a persisted item id with its new values.
type Change struct {
	ID    uuid.UUID
	Draft Draft
}

// Plan is the result of a three-way diff.
type Plan struct {
	Added     []Draft
	Changed   []Change
	Unchanged []Persisted
	Removed   []Persisted
	Policy    RemovedPolicy
}

// Diff builds a reconciliation plan. Drafts with a nil product id are
// ignored; duplicate products in the draft are merged by summing quantities,
// with the last entry's pricing winning. Output order follows draft order for Added,
// Changed and Unchanged, and persisted order for Removed.
func Diff(existing []Persisted, draft []Draft, policy RemovedPolicy) Plan {
	merged, order := mergeDrafts(draft)

	byProduct := make(map[uuid.UUID]Persisted, len(existing))
	for _, p := range existing {
		if _, dup := byProduct[p.ProductID]; !dup {
			byProduct[p.ProductID] = p
		}
	}

	plan := Plan{Policy: policy}
	seen := make(map[uuid.UUID]bool, len(existing))
	for _, pid := range order {
		d := merged[pid]
		p, ok := byProduct[pid]
		if !ok {
			plan.Added = append(plan.Added, d)
			continue
		}
		seen[p.ID] = true
		if p.Quantity != d.Quantity || p.TaxExempt != d.TaxExempt || !samePrice(p.Price, d.Price) {
			plan.Changed = append(plan.Changed, Change{ID: p.ID, Draft: d})
		} else {
			plan.Unchanged = append(plan.Unchanged, p)
		}
	}

	for _, p := range existing {
		if !seen[p.ID] {
			plan.Removed = append(plan.Removed, p)
		}
	}
	return plan
}

// KeepIDs returns the persisted item ids that stay on the order: changed and
// unchanged items. Ids for Added items are not known until they are inserted.
func (p Plan) KeepIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Changed)+len(p.Unchanged))
	for _, c := range p.Changed {
		ids = append(ids, c.ID)
	}
	for _, u := range p.Unchanged {
		ids = append(ids, u.ID)
	}
	return ids
}

// DeleteIDs returns the ids of items to delete under DeleteRemoved.
func (p Plan) DeleteIDs() []uuid.UUID {
	if p.Policy == KeepRemoved {
		return nil
	}
	return removedIDs(p.Removed)
}

// DetachIDs returns the ids of items to detach under KeepRemoved.
func (p Plan) DetachIDs() []uuid.UUID {
	if p.Policy != KeepRemoved {
		return nil
	}
	return removedIDs(p.Removed)
}

// IsNoop reports whether applying the plan would not touch any line item.
func (p Plan) IsNoop() bool {
	return len(p.Added) == 0 && len(p.Changed) == 0 && len(p.Removed) == 0
}

func removedIDs(removed []Persisted) []uuid.UUID {
	ids := make([]uuid.UUID, len(removed))
	for i, r := range removed {
		ids[i] = r.ID
	}
	return ids
}

func mergeDrafts(draft []Draft) (map[uuid.UUID]Draft, []uuid.UUID) {
	merged := make(map[uuid.UUID]Draft, len(draft))
	var order []uuid.UUID
	for _, d := range draft {
		if d.ProductID == uuid.Nil {
			continue
		}
		cur, ok := merged[d.ProductID]
		if !ok {
			order = append(order, d.ProductID)
			merged[d.ProductID] = d
			continue
		}
		d.Quantity += cur.Quantity
		merged[d.ProductID] = d
	}
	return merged, order
}

func samePrice(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}
