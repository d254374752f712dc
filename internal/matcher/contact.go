package matcher

import (
	"strings"

	"github.com/watchlist-screener/app/models"
)

// compareContact averages exact equality over the contact fields both
// sides carry. Phone and fax numbers arrive as bare digit strings, so
// string equality is the right test.
func compareContact(q, idx *models.Entity) (float64, int, bool) {
	if q.Contact == nil || idx.Contact == nil {
		return 0, 0, false
	}

	var sum float64
	fields := 0
	field := func(a, b string, fold bool) {
		if a == "" || b == "" {
			return
		}
		fields++
		if fold && strings.EqualFold(a, b) || !fold && a == b {
			sum++
		}
	}

	field(q.Contact.EmailAddress, idx.Contact.EmailAddress, true)
	field(q.Contact.PhoneNumber, idx.Contact.PhoneNumber, false)
	field(q.Contact.FaxNumber, idx.Contact.FaxNumber, false)

	if fields == 0 {
		return 0, 0, false
	}
	return sum / float64(fields), fields, true
}
