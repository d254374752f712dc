package matcher

import (
	"time"

	"github.com/watchlist-screener/app/models"
)

// Dates below this combined score are treated as contradicting
// evidence rather than weak evidence and zero the whole piece.
const dateMatchFloor = 0.5

// lifespanRatioLimit bounds how far apart two recorded lifespans may be
// before the pair is considered illogical.
const lifespanRatioLimit = 1.21

const (
	dateWeightYear  = 0.4
	dateWeightMonth = 0.3
	dateWeightDay   = 0.3
)

// compareDatePair scores two dates by year, month, and day components.
// Month and day get typo allowances: "1" against "10", "11", or "12" is
// a likely dropped digit, doubled and transposed day digits likewise.
func compareDatePair(q, i time.Time) float64 {
	yearDiff := q.Year() - i.Year()
	if yearDiff < 0 {
		yearDiff = -yearDiff
	}
	yearScore := 0.2
	if yearDiff <= 5 {
		yearScore = 1.0 - 0.1*float64(yearDiff)
	}

	qm, im := int(q.Month()), int(i.Month())
	monthDiff := qm - im
	if monthDiff < 0 {
		monthDiff = -monthDiff
	}
	var monthScore float64
	switch {
	case monthDiff == 0:
		monthScore = 1.0
	case monthDiff == 1:
		monthScore = 0.5
	case (qm == 1 && im >= 10) || (im == 1 && qm >= 10):
		monthScore = 0.7
	}

	qd, id := q.Day(), i.Day()
	dayDiff := qd - id
	if dayDiff < 0 {
		dayDiff = -dayDiff
	}
	var dayScore float64
	if dayDiff <= 3 {
		dayScore = 1.0 - 0.25*float64(dayDiff)
	}
	if dayScore < 0.7 && (doubledDigit(qd, id) || transposedDigits(qd, id)) {
		dayScore = 0.7
	}

	return dateWeightYear*yearScore + dateWeightMonth*monthScore + dateWeightDay*dayScore
}

// doubledDigit reports day pairs like 1 and 11 or 2 and 22 where one
// side is the other's digit written twice.
func doubledDigit(a, b int) bool {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo >= 1 && lo <= 9 && hi == lo*11
}

// transposedDigits reports two-digit day pairs like 12 and 21.
func transposedDigits(a, b int) bool {
	if a < 10 || a > 31 || b < 10 || b > 31 || a == b {
		return false
	}
	return a/10 == b%10 && a%10 == b/10
}

// compareDates dispatches on entity type: persons compare birth and
// death, businesses and organizations compare created and dissolved,
// vessels and aircraft compare built dates.
func (sc *Scorer) compareDates(q, idx *models.Entity) (float64, int, bool) {
	var pairs [][2]*time.Time

	switch idx.Type {
	case models.EntityPerson:
		if q.Person != nil && idx.Person != nil {
			pairs = append(pairs,
				[2]*time.Time{q.Person.BirthDate, idx.Person.BirthDate},
				[2]*time.Time{q.Person.DeathDate, idx.Person.DeathDate},
			)
		}
	case models.EntityBusiness:
		if q.Business != nil && idx.Business != nil {
			pairs = append(pairs,
				[2]*time.Time{q.Business.CreatedDate, idx.Business.CreatedDate},
				[2]*time.Time{q.Business.DissolvedDate, idx.Business.DissolvedDate},
			)
		}
	case models.EntityOrganization:
		if q.Organization != nil && idx.Organization != nil {
			pairs = append(pairs,
				[2]*time.Time{q.Organization.CreatedDate, idx.Organization.CreatedDate},
				[2]*time.Time{q.Organization.DissolvedDate, idx.Organization.DissolvedDate},
			)
		}
	case models.EntityVessel:
		if q.Vessel != nil && idx.Vessel != nil {
			pairs = append(pairs, [2]*time.Time{q.Vessel.BuiltDate, idx.Vessel.BuiltDate})
		}
	case models.EntityAircraft:
		if q.Aircraft != nil && idx.Aircraft != nil {
			pairs = append(pairs, [2]*time.Time{q.Aircraft.BuiltDate, idx.Aircraft.BuiltDate})
		}
	}

	var sum float64
	fields := 0
	for _, p := range pairs {
		if p[0] == nil || p[1] == nil {
			continue
		}
		sum += compareDatePair(*p[0], *p[1])
		fields++
	}
	if fields == 0 {
		return 0, 0, false
	}

	score := sum / float64(fields)
	if idx.Type == models.EntityPerson && (illogicalLifespan(q.Person) || illogicalLifespan(idx.Person) || lifespansDiverge(q.Person, idx.Person)) {
		score *= 0.5
	}
	if score < dateMatchFloor {
		score = 0
	}
	return score, fields, true
}

func illogicalLifespan(p *models.Person) bool {
	if p == nil || p.BirthDate == nil || p.DeathDate == nil {
		return false
	}
	return p.DeathDate.Before(*p.BirthDate)
}

// lifespansDiverge reports lifespans that differ by more than the
// allowed ratio when both persons record birth and death.
func lifespansDiverge(q, i *models.Person) bool {
	if q == nil || i == nil {
		return false
	}
	if q.BirthDate == nil || q.DeathDate == nil || i.BirthDate == nil || i.DeathDate == nil {
		return false
	}
	qs := q.DeathDate.Sub(*q.BirthDate).Hours()
	is := i.DeathDate.Sub(*i.BirthDate).Hours()
	if qs <= 0 || is <= 0 {
		return false
	}
	ratio := qs / is
	if ratio < 1 {
		ratio = 1 / ratio
	}
	return ratio > lifespanRatioLimit
}
