// internal/table/paginate_test.go
//
// Edge-case tests for pagination metadata.  The empty-set and out-of-range
// behaviors are load-bearing compatibility rules, so they each get explicit
// cases.

package table

import "testing"

func intp(n int) *int { return &n }

func TestPaginate(t *testing.T) {
	cases := []struct {
		name                string
		total, page, per    int
		wantTotalPages      int
		wantNext, wantPrev  *int
	}{
		{"empty set", 0, 1, 10, 0, nil, nil},
		{"empty set ignores requested page", 0, 7, 10, 0, nil, nil},
		{"single page", 5, 1, 10, 1, nil, nil},
		{"first of two", 10, 1, 5, 2, intp(2), nil},
		{"middle of three", 25, 2, 10, 3, intp(3), intp(1)},
		{"last page", 10, 2, 5, 2, nil, nil},
		{"beyond last page", 10, 1000, 10000, 1, nil, nil},
		{"uneven remainder", 11, 1, 5, 3, intp(2), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(tc.total, tc.page, tc.per)

			// Requested window always echoes back unclamped.
			if got.CurrentPage != tc.page || got.ItemsPerPage != tc.per {
				t.Fatalf("window = (%d,%d), want (%d,%d)",
					got.CurrentPage, got.ItemsPerPage, tc.page, tc.per)
			}
			if got.TotalPages != tc.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tc.wantTotalPages)
			}
			if got.TotalRecords != tc.total {
				t.Errorf("TotalRecords = %d, want %d", got.TotalRecords, tc.total)
			}
			if !eqIntp(got.NextPage, tc.wantNext) {
				t.Errorf("NextPage = %v, want %v", fmtIntp(got.NextPage), fmtIntp(tc.wantNext))
			}
			if !eqIntp(got.PrevPage, tc.wantPrev) {
				t.Errorf("PrevPage = %v, want %v", fmtIntp(got.PrevPage), fmtIntp(tc.wantPrev))
			}
		})
	}
}

func eqIntp(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntp(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
