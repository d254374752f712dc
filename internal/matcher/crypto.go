package matcher

import (
	"strings"

	"github.com/watchlist-screener/app/models"
)

// compareCryptoAddresses is strict equality: a wallet address either
// belongs to the listed entity or it does not. When both sides name a
// currency it must agree too.
func compareCryptoAddresses(q, idx *models.Entity) (float64, bool) {
	if len(q.CryptoAddresses) == 0 || len(idx.CryptoAddresses) == 0 {
		return 0, false
	}

	compared := false
	for _, qc := range q.CryptoAddresses {
		if qc.Address == "" {
			continue
		}
		for _, ic := range idx.CryptoAddresses {
			if ic.Address == "" {
				continue
			}
			compared = true
			if !strings.EqualFold(qc.Address, ic.Address) {
				continue
			}
			if qc.Currency != "" && ic.Currency != "" && !strings.EqualFold(qc.Currency, ic.Currency) {
				continue
			}
			return 1.0, true
		}
	}
	return 0, compared
}
