package models

import "sort"

// MergeShiftPayments joins the primary shift collection with the payments
// collection into the unified view the coordinator publishes. Every shift
// yields exactly one ShiftView; shifts with a matching payment are marked
// paid. Payments without a matching shift belong to a shift outside the
// current filter window and are ignored.
//
// Ordering is stable: ascending by date, ties broken by shift id, so reloads
// with unchanged data produce an identical sequence.
func MergeShiftPayments(shifts []Shift, payments []Payment) []ShiftView {
	byShift := make(map[string]Payment, len(payments))
	for _, p := range payments {
		byShift[p.ShiftID] = p
	}

	views := make([]ShiftView, 0, len(shifts))
	for _, s := range shifts {
		view := ShiftView{Shift: s}
		if p, ok := byShift[s.ID]; ok {
			view.IsPaid = true
			view.PaymentID = p.ID
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].Date.Equal(views[j].Date) {
			return views[i].Date.Before(views[j].Date)
		}
		return views[i].ID < views[j].ID
	})

	return views
}
