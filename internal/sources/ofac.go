package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/watchlist-screener/app/models"
)

// sdn.csv column positions per the published OFAC file layout.
const (
	sdnColEntNum = iota
	sdnColName
	sdnColType
	sdnColProgram
	sdnColTitle
	sdnColCallSign
	sdnColVessType
	sdnColTonnage
	sdnColGRT
	sdnColVessFlag
	sdnColVessOwner
	sdnColRemarks
)

const (
	altColEntNum = 0
	altColType   = 2
	altColName   = 3

	addColEntNum  = 0
	addColAddress = 2
	addColCity    = 3
	addColCountry = 4
)

// OFACParser reads the OFAC SDN list: sdn.csv carries the entities,
// alt.csv the aliases, add.csv the addresses, joined on entity number.
// Structured facts OFAC buries in the remarks column (birth dates,
// passports, wallet addresses, linked parties) are lifted out into
// their fields.
type OFACParser struct {
	logger *zap.Logger

	dobPattern       *regexp.Regexp
	genderPattern    *regexp.Regexp
	passportPattern  *regexp.Regexp
	nationalPattern  *regexp.Regexp
	taxPattern       *regexp.Regexp
	cryptoPattern    *regexp.Regexp
	linkedToPattern  *regexp.Regexp
	imoPattern       *regexp.Regexp
	mmsiPattern      *regexp.Regexp
	secondaryPattern *regexp.Regexp
	emailPattern     *regexp.Regexp
	websitePattern   *regexp.Regexp
}

// NewOFACParser compiles the remarks extraction patterns once.
func NewOFACParser(logger *zap.Logger) *OFACParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OFACParser{
		logger: logger,

		dobPattern:       regexp.MustCompile(`DOB (\d{1,2} [A-Za-z]{3} \d{4}|[A-Za-z]{3} \d{4}|\d{4})`),
		genderPattern:    regexp.MustCompile(`Gender (Male|Female)`),
		passportPattern:  regexp.MustCompile(`Passport ([A-Za-z0-9-]+)(?: \(([^)]+)\))?`),
		nationalPattern:  regexp.MustCompile(`National ID No\.? ([A-Za-z0-9-]+)(?: \(([^)]+)\))?`),
		taxPattern:       regexp.MustCompile(`Tax ID No\.? ([A-Za-z0-9-]+)(?: \(([^)]+)\))?`),
		cryptoPattern:    regexp.MustCompile(`Digital Currency Address - ([0-9A-Z]{3,5}) ([A-Za-z0-9]+)`),
		linkedToPattern:  regexp.MustCompile(`Linked To: ([^;.]+)`),
		imoPattern:       regexp.MustCompile(`IMO (\d{7})`),
		mmsiPattern:      regexp.MustCompile(`MMSI (\d{9})`),
		secondaryPattern: regexp.MustCompile(`(?i)secondary sanctions risk`),
		emailPattern:     regexp.MustCompile(`Email Address ([^;\s]+@[^;\s]+)`),
		websitePattern:   regexp.MustCompile(`Website ([^;\s]+)`),
	}
}

// Parse joins the three SDN files into entity records, ordered as they
// appear in sdn.csv. Alias and address rows referencing an unknown
// entity number are skipped.
func (p *OFACParser) Parse(sdn, alt, add io.Reader) ([]*models.Entity, error) {
	byNum := make(map[string]*models.Entity)
	var order []string

	if err := p.eachRow(sdn, "sdn.csv", func(row []string) {
		e := p.parseSDNRow(row)
		if e == nil {
			return
		}
		if _, dup := byNum[e.SourceID]; dup {
			return
		}
		byNum[e.SourceID] = e
		order = append(order, e.SourceID)
	}); err != nil {
		return nil, err
	}

	if alt != nil {
		if err := p.eachRow(alt, "alt.csv", func(row []string) {
			p.applyAltRow(byNum, row)
		}); err != nil {
			return nil, err
		}
	}
	if add != nil {
		if err := p.eachRow(add, "add.csv", func(row []string) {
			p.applyAddressRow(byNum, row)
		}); err != nil {
			return nil, err
		}
	}

	out := make([]*models.Entity, 0, len(order))
	for _, num := range order {
		out = append(out, byNum[num])
	}
	p.logger.Info("đã phân tích danh sách OFAC SDN", zap.Int("entities", len(out)))
	return out, nil
}

func (p *OFACParser) eachRow(r io.Reader, file string, fn func(row []string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ofac: reading %s: %w", file, err)
		}
		fn(row)
	}
}

func (p *OFACParser) parseSDNRow(row []string) *models.Entity {
	if len(row) <= sdnColType {
		return nil
	}
	num := cleanField(row[sdnColEntNum])
	name := cleanField(row[sdnColName])
	if num == "" || name == "" {
		return nil
	}

	e := &models.Entity{
		ID:       entityID(models.SourceUSOFAC, num),
		SourceID: num,
		Source:   models.SourceUSOFAC,
		Name:     name,
		Programs: splitPrograms(field(row, sdnColProgram)),
	}

	switch strings.ToLower(field(row, sdnColType)) {
	case "individual":
		e.Type = models.EntityPerson
		e.Person = &models.Person{}
		if title := field(row, sdnColTitle); title != "" {
			e.Person.Titles = []string{title}
		}
	case "vessel":
		e.Type = models.EntityVessel
		e.Vessel = &models.Vessel{
			CallSign: field(row, sdnColCallSign),
			Flag:     field(row, sdnColVessFlag),
			Owner:    field(row, sdnColVessOwner),
		}
		if t, err := strconv.Atoi(field(row, sdnColTonnage)); err == nil {
			e.Vessel.Tonnage = t
		}
	case "aircraft":
		e.Type = models.EntityAircraft
		e.Aircraft = &models.Aircraft{}
	default:
		// OFAC leaves the type blank for companies.
		e.Type = models.EntityBusiness
		e.Business = &models.Business{}
	}

	if remarks := field(row, sdnColRemarks); remarks != "" {
		e.Remarks = []string{remarks}
		p.extractRemarks(e, remarks)
	}
	return e
}

// applyAltRow attaches an alias. OFAC distinguishes "a.k.a." (current
// alias) from "f.k.a." (former name); former names become historical
// info so the scorer can treat them as weaker evidence.
func (p *OFACParser) applyAltRow(byNum map[string]*models.Entity, row []string) {
	if len(row) <= altColName {
		return
	}
	e, ok := byNum[cleanField(row[altColEntNum])]
	if !ok {
		return
	}
	name := cleanField(row[altColName])
	if name == "" {
		return
	}

	altType := strings.ToLower(strings.ReplaceAll(cleanField(row[altColType]), ".", ""))
	if altType == "fka" {
		e.HistoricalInfo = append(e.HistoricalInfo, models.HistoricalInfo{Type: "former name", Value: name})
		return
	}
	e.AltNames = append(e.AltNames, name)
}

func (p *OFACParser) applyAddressRow(byNum map[string]*models.Entity, row []string) {
	if len(row) <= addColCity {
		return
	}
	e, ok := byNum[cleanField(row[addColEntNum])]
	if !ok {
		return
	}

	addr := models.Address{
		Line1:   cleanField(row[addColAddress]),
		Country: field(row, addColCountry),
	}
	// Column 3 packs "City, Province Postal" into one value.
	if cityBlock := cleanField(row[addColCity]); cityBlock != "" {
		addr.City, addr.State, addr.PostalCode = splitCityBlock(cityBlock)
	}
	if !addr.Empty() {
		e.Addresses = append(e.Addresses, addr)
	}
}

// extractRemarks pulls structured facts out of the free-text remarks.
func (p *OFACParser) extractRemarks(e *models.Entity, remarks string) {
	if e.Person != nil {
		if m := p.dobPattern.FindStringSubmatch(remarks); m != nil {
			e.Person.BirthDate = parseListDate(m[1])
		}
		if m := p.genderPattern.FindStringSubmatch(remarks); m != nil {
			e.Person.Gender = m[1]
		}
	}
	if e.Vessel != nil {
		if m := p.imoPattern.FindStringSubmatch(remarks); m != nil {
			e.Vessel.IMONumber = m[1]
		}
		if m := p.mmsiPattern.FindStringSubmatch(remarks); m != nil {
			e.Vessel.MMSI = m[1]
		}
	}

	for _, m := range p.passportPattern.FindAllStringSubmatch(remarks, -1) {
		e.GovernmentIDs = append(e.GovernmentIDs, models.GovernmentID{
			Type: models.IDPassport, Identifier: m[1], Country: m[2],
		})
	}
	for _, m := range p.nationalPattern.FindAllStringSubmatch(remarks, -1) {
		e.GovernmentIDs = append(e.GovernmentIDs, models.GovernmentID{
			Type: models.IDNational, Identifier: m[1], Country: m[2],
		})
	}
	for _, m := range p.taxPattern.FindAllStringSubmatch(remarks, -1) {
		e.GovernmentIDs = append(e.GovernmentIDs, models.GovernmentID{
			Type: models.IDTaxID, Identifier: m[1], Country: m[2],
		})
	}
	for _, m := range p.cryptoPattern.FindAllStringSubmatch(remarks, -1) {
		e.CryptoAddresses = append(e.CryptoAddresses, models.CryptoAddress{
			Currency: m[1], Address: m[2],
		})
	}
	for _, m := range p.linkedToPattern.FindAllStringSubmatch(remarks, -1) {
		e.Affiliations = append(e.Affiliations, models.Affiliation{
			EntityName: strings.TrimSpace(m[1]), Type: "linked to",
		})
	}
	if m := p.emailPattern.FindStringSubmatch(remarks); m != nil {
		if e.Contact == nil {
			e.Contact = &models.ContactInfo{}
		}
		e.Contact.EmailAddress = m[1]
	}
	if p.secondaryPattern.MatchString(remarks) {
		if e.SanctionsInfo == nil {
			e.SanctionsInfo = &models.SanctionsInfo{}
		}
		e.SanctionsInfo.Secondary = true
	}
}

// field is a bounds-safe positional column read.
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return cleanField(row[i])
}

// splitPrograms unpacks OFAC's "SDGT] [NPWMD] [IRGC" program packing.
func splitPrograms(raw string) []string {
	if raw == "" {
		return nil
	}
	raw = strings.NewReplacer("] [", ";", "[", "", "]", "").Replace(raw)
	return splitMulti(raw)
}

// splitCityBlock breaks "City, Province 12345" into its parts; a
// trailing all-digit token is taken as the postal code.
func splitCityBlock(block string) (city, state, postal string) {
	parts := strings.SplitN(block, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return city, "", ""
	}

	rest := strings.TrimSpace(parts[1])
	tokens := strings.Fields(rest)
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if _, err := strconv.Atoi(last); err == nil && len(last) >= 4 {
			postal = last
			tokens = tokens[:len(tokens)-1]
		}
	}
	state = strings.Join(tokens, " ")
	return city, state, postal
}
