package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/watchlist-screener/app/models"
)

// EUParser reads the EU consolidated financial sanctions file. The
// export is semicolon-delimited with one row per (entity, alias,
// address, identification) combination, so every row becomes a fragment
// keyed by the logical id and the merger reassembles whole entities.
type EUParser struct {
	logger *zap.Logger
}

func NewEUParser(logger *zap.Logger) *EUParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EUParser{logger: logger}
}

// Parse emits entity fragments in file order.
func (p *EUParser) Parse(r io.Reader) ([]*models.Entity, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("eu csl: reading header: %w", err)
	}
	idx := headerIndex(header)

	var out []*models.Entity
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("eu csl: reading row: %w", err)
		}
		if e := p.parseRow(row, idx); e != nil {
			out = append(out, e)
		}
	}

	p.logger.Info("đã phân tích danh sách EU CSL", zap.Int("fragments", len(out)))
	return out, nil
}

func (p *EUParser) parseRow(row []string, idx map[string]int) *models.Entity {
	sourceID := column(row, idx, "entity_logicalid")
	if sourceID == "" {
		sourceID = column(row, idx, "entity_eu_referencenumber")
	}
	name := column(row, idx, "namealias_wholename")
	if sourceID == "" || name == "" {
		return nil
	}

	e := &models.Entity{
		ID:       entityID(models.SourceEUCSL, sourceID),
		SourceID: sourceID,
		Source:   models.SourceEUCSL,
		Name:     name,
		Programs: splitMulti(column(row, idx, "entity_regulationprogramme")),
	}

	switch strings.ToLower(column(row, idx, "entity_subjecttype")) {
	case "person", "p":
		e.Type = models.EntityPerson
		e.Person = &models.Person{
			Gender: column(row, idx, "namealias_gender"),
		}
		if dob := column(row, idx, "birthdate_birthdate"); dob != "" {
			e.Person.BirthDate = parseListDate(dob)
		} else if year := column(row, idx, "birthdate_year"); year != "" {
			e.Person.BirthDate = parseListDate(year)
		}
		if title := column(row, idx, "namealias_title"); title != "" {
			e.Person.Titles = []string{title}
		}
	default:
		// The EU file labels non-persons "enterprise".
		e.Type = models.EntityBusiness
		e.Business = &models.Business{}
	}

	addr := models.Address{
		Line1:      column(row, idx, "address_street"),
		Line2:      column(row, idx, "address_pobox"),
		City:       column(row, idx, "address_city"),
		State:      column(row, idx, "address_region"),
		PostalCode: column(row, idx, "address_zipcode"),
		Country:    column(row, idx, "address_countryiso2code"),
	}
	if addr.Country == "" {
		addr.Country = column(row, idx, "address_countrydescription")
	}
	if !addr.Empty() {
		e.Addresses = append(e.Addresses, addr)
	}

	if number := column(row, idx, "identification_number"); number != "" {
		e.GovernmentIDs = append(e.GovernmentIDs, models.GovernmentID{
			Type:       euIDType(column(row, idx, "identification_typecode")),
			Identifier: number,
			Country:    column(row, idx, "identification_countryiso2code"),
		})
	}
	if remark := column(row, idx, "entity_remark"); remark != "" {
		e.Remarks = []string{remark}
	}
	return e
}

func euIDType(code string) models.GovernmentIDType {
	switch strings.ToLower(code) {
	case "passport":
		return models.IDPassport
	case "id", "nationalid", "national identification card":
		return models.IDNational
	case "ssn", "taxid", "fiscal code":
		return models.IDTaxID
	case "regnumber", "registration":
		return models.IDRegistration
	default:
		return models.IDOther
	}
}

// UK ConList.csv column names.
const (
	ukColGroupID   = "group id"
	ukColGroupType = "group type"
	ukColDOB       = "dob"
	ukColRegime    = "regime"
	ukColPassport  = "passport number"
	ukColNINumber  = "ni number"
	ukColPosition  = "position"
	ukColPostal    = "post/zip code"
	ukColCountry   = "country"
)

// UKParser reads the OFSI consolidated list. Like the EU file, one
// listed party spans several rows (primary name plus aliases); rows are
// emitted as fragments for the merger. The file opens with a
// "Last Updated" line before the real header.
type UKParser struct {
	logger *zap.Logger
}

func NewUKParser(logger *zap.Logger) *UKParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UKParser{logger: logger}
}

// Parse emits entity fragments in file order.
func (p *UKParser) Parse(r io.Reader) ([]*models.Entity, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("uk csl: reading header: %w", err)
	}
	// Skip the date banner if present.
	if len(header) > 0 && strings.Contains(strings.ToLower(header[0]), "last updated") {
		header, err = reader.Read()
		if err != nil {
			return nil, fmt.Errorf("uk csl: reading header: %w", err)
		}
	}
	idx := headerIndex(header)

	var out []*models.Entity
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("uk csl: reading row: %w", err)
		}
		if e := p.parseRow(row, idx); e != nil {
			out = append(out, e)
		}
	}

	p.logger.Info("đã phân tích danh sách UK CSL", zap.Int("fragments", len(out)))
	return out, nil
}

func (p *UKParser) parseRow(row []string, idx map[string]int) *models.Entity {
	sourceID := column(row, idx, ukColGroupID)
	name := ukFullName(row, idx)
	if sourceID == "" || name == "" {
		return nil
	}

	e := &models.Entity{
		ID:       entityID(models.SourceUKCSL, sourceID),
		SourceID: sourceID,
		Source:   models.SourceUKCSL,
		Name:     name,
		Programs: splitMulti(column(row, idx, ukColRegime)),
	}

	switch strings.ToLower(column(row, idx, ukColGroupType)) {
	case "individual":
		e.Type = models.EntityPerson
		e.Person = &models.Person{}
		if dob := column(row, idx, ukColDOB); dob != "" {
			e.Person.BirthDate = parseListDate(dob)
		}
		if pos := column(row, idx, ukColPosition); pos != "" {
			e.Person.Titles = []string{pos}
		}
	case "ship":
		e.Type = models.EntityVessel
		e.Vessel = &models.Vessel{}
	default:
		e.Type = models.EntityBusiness
		e.Business = &models.Business{}
	}

	if passport := column(row, idx, ukColPassport); passport != "" {
		e.GovernmentIDs = append(e.GovernmentIDs, models.GovernmentID{
			Type: models.IDPassport, Identifier: passport,
		})
	}
	if ni := column(row, idx, ukColNINumber); ni != "" {
		e.GovernmentIDs = append(e.GovernmentIDs, models.GovernmentID{
			Type: models.IDNational, Identifier: ni, Country: "GB",
		})
	}

	addr := models.Address{
		Line1:      column(row, idx, "address 1"),
		Line2:      joinNonEmpty(column(row, idx, "address 2"), column(row, idx, "address 3"), column(row, idx, "address 4")),
		City:       column(row, idx, "address 5"),
		State:      column(row, idx, "address 6"),
		PostalCode: column(row, idx, ukColPostal),
		Country:    column(row, idx, ukColCountry),
	}
	if !addr.Empty() {
		e.Addresses = append(e.Addresses, addr)
	}

	if info := column(row, idx, "other information"); info != "" {
		e.Remarks = []string{info}
	}
	return e
}

// ukFullName assembles the split name columns; OFSI stores forenames in
// Name 1..5 and the surname in Name 6.
func ukFullName(row []string, idx map[string]int) string {
	parts := make([]string, 0, 6)
	for _, col := range []string{"name 1", "name 2", "name 3", "name 4", "name 5", "name 6"} {
		if v := column(row, idx, col); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
