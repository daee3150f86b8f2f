package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/napatsri/sugartrack-server/internal/models"
)

// DefaultPageSize is the page size used when the caller supplies none
const DefaultPageSize = 12

// parseCalendarDate parses a sheet date cell. Record dates are written as
// "d/m/yyyy" without zero padding; appointment dates arrive from clients
// as "yyyy-mm-dd". Anything else reports false so a malformed cell never
// fails a listing.
func parseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return time.Time{}, false
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseClock parses a "HH:mm" or "HH:mm:ss" cell into an offset from
// midnight
func parseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// chronoKey builds the composite chronological sort key from a date cell
// and an optional time-of-day cell. A missing or malformed clock means
// midnight.
func chronoKey(dateCell, clockCell string) (time.Time, bool) {
	d, ok := parseCalendarDate(dateCell)
	if !ok {
		return time.Time{}, false
	}
	if clockCell != "" {
		if offset, ok := parseClock(clockCell); ok {
			d = d.Add(offset)
		}
	}
	return d, true
}

// sortRowsDesc stably sorts rows into reverse chronological order using
// the given key extractor. Rows whose key cannot be parsed sink to the
// end, keeping their relative order.
func sortRowsDesc(rows [][]string, key func(row []string) (time.Time, bool)) {
	type keyedRow struct {
		cells []string
		t     time.Time
		ok    bool
	}

	keyed := make([]keyedRow, len(rows))
	for i, row := range rows {
		t, ok := key(row)
		keyed[i] = keyedRow{cells: row, t: t, ok: ok}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.t.After(b.t)
	})

	for i := range keyed {
		rows[i] = keyed[i].cells
	}
}

// clampPage forces page into [1, totalPages]. Only the medication listing
// clamps; the sugar and appointment listings trust the caller's page.
func clampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// buildPagination computes the metadata for one page of a listing
func buildPagination(totalRecords, page, limit int) *models.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalRecords + limit - 1) / limit
	}

	p := &models.Pagination{
		CurrentPage:    page,
		TotalPages:     totalPages,
		TotalRecords:   totalRecords,
		RecordsPerPage: limit,
		HasNext:        page < totalPages,
		HasPrev:        page > 1,
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// pageBounds returns the half-open slice bounds for the requested page,
// clipped to the record count
func pageBounds(totalRecords, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start > totalRecords {
		start = totalRecords
	}
	end := start + limit
	if end > totalRecords {
		end = totalRecords
	}
	return start, end
}

// cell returns the column at index i, or empty when the row is short.
// Sheets drops trailing empty cells, so optional columns may be missing.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
