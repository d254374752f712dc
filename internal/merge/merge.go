// Package merge folds partial entity records into complete ones. The
// EU and UK consolidated lists split a single listed party across many
// rows (one per name, one per address), so the parsers emit fragments
// and the merger reassembles them before normalization.
package merge

import (
	"strings"

	"github.com/watchlist-screener/app/models"
)

type groupKey struct {
	source   models.SourceList
	sourceID string
	typ      models.EntityType
}

// Merge groups entities by (source, sourceId, type) and folds each
// group into one record. Group order and in-group order follow first
// appearance, so a merged list is stable across refreshes of the same
// input.
func Merge(entities []*models.Entity) []*models.Entity {
	merged := make(map[groupKey]*models.Entity, len(entities))
	order := make([]groupKey, 0, len(entities))

	for _, e := range entities {
		if e == nil {
			continue
		}
		key := groupKey{source: e.Source, sourceID: e.SourceID, typ: e.Type}
		base, seen := merged[key]
		if !seen {
			merged[key] = e.Clone()
			order = append(order, key)
			continue
		}
		fold(base, e)
	}

	out := make([]*models.Entity, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

// fold merges one fragment into the accumulated base record. Scalars
// keep the first non-empty value; list fields union with dedup.
func fold(base, next *models.Entity) {
	if base.ID == "" {
		base.ID = next.ID
	}
	if base.Name == "" {
		base.Name = strings.TrimSpace(next.Name)
	} else if n := strings.TrimSpace(next.Name); n != "" && !strings.EqualFold(n, base.Name) {
		// A second primary name in the same group is an alias row.
		base.AltNames = MergeStrings(base.AltNames, []string{n})
	}

	base.AltNames = MergeStrings(base.AltNames, next.AltNames)
	base.Addresses = MergeAddresses(base.Addresses, next.Addresses)
	base.GovernmentIDs = MergeGovernmentIDs(base.GovernmentIDs, next.GovernmentIDs)
	base.CryptoAddresses = MergeCryptoAddresses(base.CryptoAddresses, next.CryptoAddresses)
	base.Affiliations = mergeAffiliations(base.Affiliations, next.Affiliations)
	base.HistoricalInfo = mergeHistorical(base.HistoricalInfo, next.HistoricalInfo)
	base.Programs = MergeStrings(base.Programs, next.Programs)
	base.Remarks = MergeStrings(base.Remarks, next.Remarks)

	foldDetails(base, next)
	foldContact(base, next)
	foldSanctions(base, next)
}

// MergeStrings unions two string lists, dropping blanks and duplicates
// under trimmed case-insensitive comparison. First appearance wins the
// spelling and the position.
func MergeStrings(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(src))
	out := make([]string, 0, len(dst)+len(src))
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	for _, s := range dst {
		add(s)
	}
	for _, s := range src {
		add(s)
	}
	return out
}

// MergeAddresses dedupes on (line1, line2) case-insensitively. When a
// later fragment repeats a street it may still carry sub-fields the
// first sighting lacked; those fill in.
func MergeAddresses(dst, src []models.Address) []models.Address {
	type key struct{ line1, line2 string }
	index := make(map[key]int, len(dst)+len(src))
	out := make([]models.Address, 0, len(dst)+len(src))

	add := func(a models.Address) {
		if a.Empty() {
			return
		}
		k := key{strings.ToLower(strings.TrimSpace(a.Line1)), strings.ToLower(strings.TrimSpace(a.Line2))}
		if i, ok := index[k]; ok {
			fillAddress(&out[i], a)
			return
		}
		index[k] = len(out)
		out = append(out, a)
	}
	for _, a := range dst {
		add(a)
	}
	for _, a := range src {
		add(a)
	}
	return out
}

func fillAddress(dst *models.Address, src models.Address) {
	if dst.City == "" {
		dst.City = src.City
	}
	if dst.State == "" {
		dst.State = src.State
	}
	if dst.PostalCode == "" {
		dst.PostalCode = src.PostalCode
	}
	if dst.Country == "" {
		dst.Country = src.Country
	}
}

// MergeGovernmentIDs dedupes on (type, country, identifier)
// case-insensitively.
func MergeGovernmentIDs(dst, src []models.GovernmentID) []models.GovernmentID {
	type key struct{ typ, country, id string }
	seen := make(map[key]struct{}, len(dst)+len(src))
	out := make([]models.GovernmentID, 0, len(dst)+len(src))

	add := func(g models.GovernmentID) {
		if strings.TrimSpace(g.Identifier) == "" {
			return
		}
		k := key{
			typ:     strings.ToLower(string(g.Type)),
			country: strings.ToLower(strings.TrimSpace(g.Country)),
			id:      strings.ToLower(strings.TrimSpace(g.Identifier)),
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, g)
	}
	for _, g := range dst {
		add(g)
	}
	for _, g := range src {
		add(g)
	}
	return out
}

// MergeCryptoAddresses dedupes on (currency, address) case-insensitively.
func MergeCryptoAddresses(dst, src []models.CryptoAddress) []models.CryptoAddress {
	type key struct{ currency, address string }
	seen := make(map[key]struct{}, len(dst)+len(src))
	out := make([]models.CryptoAddress, 0, len(dst)+len(src))

	add := func(c models.CryptoAddress) {
		if strings.TrimSpace(c.Address) == "" {
			return
		}
		k := key{
			currency: strings.ToLower(strings.TrimSpace(c.Currency)),
			address:  strings.ToLower(strings.TrimSpace(c.Address)),
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	for _, c := range dst {
		add(c)
	}
	for _, c := range src {
		add(c)
	}
	return out
}

func mergeAffiliations(dst, src []models.Affiliation) []models.Affiliation {
	type key struct{ name, typ string }
	seen := make(map[key]struct{}, len(dst)+len(src))
	out := make([]models.Affiliation, 0, len(dst)+len(src))

	add := func(a models.Affiliation) {
		if strings.TrimSpace(a.EntityName) == "" {
			return
		}
		k := key{
			name: strings.ToLower(strings.TrimSpace(a.EntityName)),
			typ:  strings.ToLower(strings.TrimSpace(a.Type)),
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	for _, a := range dst {
		add(a)
	}
	for _, a := range src {
		add(a)
	}
	return out
}

func mergeHistorical(dst, src []models.HistoricalInfo) []models.HistoricalInfo {
	type key struct{ typ, value string }
	seen := make(map[key]struct{}, len(dst)+len(src))
	out := make([]models.HistoricalInfo, 0, len(dst)+len(src))

	add := func(h models.HistoricalInfo) {
		if strings.TrimSpace(h.Value) == "" {
			return
		}
		k := key{
			typ:   strings.ToLower(strings.TrimSpace(h.Type)),
			value: strings.ToLower(strings.TrimSpace(h.Value)),
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, h)
	}
	for _, h := range dst {
		add(h)
	}
	for _, h := range src {
		add(h)
	}
	return out
}

func foldDetails(base, next *models.Entity) {
	switch base.Type {
	case models.EntityPerson:
		if next.Person == nil {
			return
		}
		if base.Person == nil {
			p := *next.Person
			p.Titles = append([]string(nil), next.Person.Titles...)
			base.Person = &p
			return
		}
		if base.Person.Gender == "" {
			base.Person.Gender = next.Person.Gender
		}
		if base.Person.BirthDate == nil {
			base.Person.BirthDate = next.Person.BirthDate
		}
		if base.Person.DeathDate == nil {
			base.Person.DeathDate = next.Person.DeathDate
		}
		base.Person.Titles = MergeStrings(base.Person.Titles, next.Person.Titles)

	case models.EntityBusiness:
		if next.Business == nil {
			return
		}
		if base.Business == nil {
			b := *next.Business
			base.Business = &b
			return
		}
		if base.Business.CreatedDate == nil {
			base.Business.CreatedDate = next.Business.CreatedDate
		}
		if base.Business.DissolvedDate == nil {
			base.Business.DissolvedDate = next.Business.DissolvedDate
		}

	case models.EntityOrganization:
		if next.Organization == nil {
			return
		}
		if base.Organization == nil {
			o := *next.Organization
			base.Organization = &o
			return
		}
		if base.Organization.CreatedDate == nil {
			base.Organization.CreatedDate = next.Organization.CreatedDate
		}
		if base.Organization.DissolvedDate == nil {
			base.Organization.DissolvedDate = next.Organization.DissolvedDate
		}

	case models.EntityVessel:
		if next.Vessel == nil {
			return
		}
		if base.Vessel == nil {
			v := *next.Vessel
			base.Vessel = &v
			return
		}
		fillVessel(base.Vessel, next.Vessel)

	case models.EntityAircraft:
		if next.Aircraft == nil {
			return
		}
		if base.Aircraft == nil {
			a := *next.Aircraft
			base.Aircraft = &a
			return
		}
		fillAircraft(base.Aircraft, next.Aircraft)
	}
}

func fillVessel(dst, src *models.Vessel) {
	if dst.IMONumber == "" {
		dst.IMONumber = src.IMONumber
	}
	if dst.CallSign == "" {
		dst.CallSign = src.CallSign
	}
	if dst.MMSI == "" {
		dst.MMSI = src.MMSI
	}
	if dst.Flag == "" {
		dst.Flag = src.Flag
	}
	if dst.Owner == "" {
		dst.Owner = src.Owner
	}
	if dst.Tonnage == 0 {
		dst.Tonnage = src.Tonnage
	}
	if dst.BuiltDate == nil {
		dst.BuiltDate = src.BuiltDate
	}
}

func fillAircraft(dst, src *models.Aircraft) {
	if dst.SerialNumber == "" {
		dst.SerialNumber = src.SerialNumber
	}
	if dst.ICAOCode == "" {
		dst.ICAOCode = src.ICAOCode
	}
	if dst.Model == "" {
		dst.Model = src.Model
	}
	if dst.Flag == "" {
		dst.Flag = src.Flag
	}
	if dst.BuiltDate == nil {
		dst.BuiltDate = src.BuiltDate
	}
}

func foldContact(base, next *models.Entity) {
	if next.Contact.Empty() {
		return
	}
	if base.Contact == nil {
		c := *next.Contact
		base.Contact = &c
		return
	}
	if base.Contact.EmailAddress == "" {
		base.Contact.EmailAddress = next.Contact.EmailAddress
	}
	if base.Contact.PhoneNumber == "" {
		base.Contact.PhoneNumber = next.Contact.PhoneNumber
	}
	if base.Contact.FaxNumber == "" {
		base.Contact.FaxNumber = next.Contact.FaxNumber
	}
}

func foldSanctions(base, next *models.Entity) {
	if next.SanctionsInfo == nil {
		return
	}
	if base.SanctionsInfo == nil {
		s := *next.SanctionsInfo
		base.SanctionsInfo = &s
		return
	}
	// The secondary-sanctions flag is sticky: any fragment carrying it
	// marks the whole record.
	if next.SanctionsInfo.Secondary {
		base.SanctionsInfo.Secondary = true
	}
	if base.SanctionsInfo.Description == "" {
		base.SanctionsInfo.Description = next.SanctionsInfo.Description
	}
}
