package handlers

import (
	"fmt"

	"concierge/services/listing"
)

func errUnknownSort(f listing.SortField) error {
	return fmt.Errorf("unknown sort field %q", f)
}

func errUnknownDirection(d listing.SortDirection) error {
	return fmt.Errorf("unknown sort direction %q", d)
}
