package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/watchlist-screener/app/models"
)

// CSLParser reads the trade.gov consolidated screening list export.
// The file is header-indexed; multi-value cells pack their values with
// semicolons. Rows mirrored from the Treasury SDN list are skipped
// because the OFAC parser already covers them.
type CSLParser struct {
	logger *zap.Logger
}

func NewCSLParser(logger *zap.Logger) *CSLParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSLParser{logger: logger}
}

// Parse reads consolidated.csv into entity records.
func (p *CSLParser) Parse(r io.Reader) ([]*models.Entity, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csl: reading header: %w", err)
	}
	idx := headerIndex(header)

	var out []*models.Entity
	skippedSDN := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csl: reading row: %w", err)
		}

		if strings.Contains(column(row, idx, "source"), "Specially Designated Nationals") {
			skippedSDN++
			continue
		}
		if e := p.parseRow(row, idx); e != nil {
			out = append(out, e)
		}
	}

	p.logger.Info("đã phân tích danh sách US CSL",
		zap.Int("entities", len(out)),
		zap.Int("skipped_sdn_rows", skippedSDN),
	)
	return out, nil
}

func (p *CSLParser) parseRow(row []string, idx map[string]int) *models.Entity {
	name := column(row, idx, "name")
	if name == "" {
		return nil
	}
	sourceID := column(row, idx, "entity_number")
	if sourceID == "" {
		sourceID = column(row, idx, "_id")
	}
	if sourceID == "" {
		return nil
	}

	e := &models.Entity{
		ID:       entityID(models.SourceUSCSL, sourceID),
		SourceID: sourceID,
		Source:   models.SourceUSCSL,
		Name:     name,
		AltNames: splitMulti(column(row, idx, "alt_names")),
		Programs: splitMulti(column(row, idx, "programs")),
	}

	switch strings.ToLower(column(row, idx, "type")) {
	case "individual":
		e.Type = models.EntityPerson
		e.Person = &models.Person{}
		if title := column(row, idx, "title"); title != "" {
			e.Person.Titles = []string{title}
		}
		if dobs := splitMulti(column(row, idx, "dates_of_birth")); len(dobs) > 0 {
			e.Person.BirthDate = parseListDate(dobs[0])
		}
	case "vessel":
		e.Type = models.EntityVessel
		e.Vessel = &models.Vessel{
			CallSign: column(row, idx, "call_sign"),
			Flag:     column(row, idx, "vessel_flag"),
			Owner:    column(row, idx, "vessel_owner"),
		}
	case "aircraft":
		e.Type = models.EntityAircraft
		e.Aircraft = &models.Aircraft{}
	default:
		e.Type = models.EntityBusiness
		e.Business = &models.Business{}
	}

	for _, raw := range splitMulti(column(row, idx, "addresses")) {
		if addr := parseCSLAddress(raw); !addr.Empty() {
			e.Addresses = append(e.Addresses, addr)
		}
	}
	for _, raw := range splitMulti(column(row, idx, "ids")) {
		if gid, ok := parseCSLID(raw); ok {
			e.GovernmentIDs = append(e.GovernmentIDs, gid)
		}
	}
	if remarks := column(row, idx, "remarks"); remarks != "" {
		e.Remarks = []string{remarks}
	}
	return e
}

// parseCSLAddress splits a comma-packed address. The export is loose
// about components, so placement is positional best-effort: first part
// street, last part country, middle parts the city.
func parseCSLAddress(raw string) models.Address {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 0:
		return models.Address{}
	case 1:
		return models.Address{City: parts[0]}
	case 2:
		return models.Address{City: parts[0], Country: parts[1]}
	default:
		return models.Address{
			Line1:   parts[0],
			City:    strings.Join(parts[1:len(parts)-1], " "),
			Country: parts[len(parts)-1],
		}
	}
}

// parseCSLID reads an "Type, Number, Country, ..." identifier group.
func parseCSLID(raw string) (models.GovernmentID, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) < 2 {
		return models.GovernmentID{}, false
	}
	number := strings.TrimSpace(parts[1])
	if number == "" {
		return models.GovernmentID{}, false
	}

	gid := models.GovernmentID{
		Type:       cslIDType(strings.TrimSpace(parts[0])),
		Identifier: number,
	}
	if len(parts) > 2 {
		gid.Country = strings.TrimSpace(parts[2])
	}
	return gid, true
}

func cslIDType(label string) models.GovernmentIDType {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "passport"):
		return models.IDPassport
	case strings.Contains(l, "national"):
		return models.IDNational
	case strings.Contains(l, "tax"):
		return models.IDTaxID
	case strings.Contains(l, "driver"):
		return models.IDDriverLicense
	case strings.Contains(l, "registration"), strings.Contains(l, "registry"):
		return models.IDRegistration
	default:
		return models.IDOther
	}
}
