package models

import (
	"fmt"
	"time"
)

// EntityType phân loại đối tượng trong danh sách trừng phạt.
//
// EntityType classifies a listed party. Exactly one of the detail
// structs on Entity must be populated, and it must agree with Type.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityBusiness     EntityType = "business"
	EntityOrganization EntityType = "organization"
	EntityVessel       EntityType = "vessel"
	EntityAircraft     EntityType = "aircraft"
	EntityUnknown      EntityType = "unknown"
)

// SourceList identifies the sanctions list an entity came from.
type SourceList string

const (
	SourceUSOFAC SourceList = "us_ofac"
	SourceUSCSL  SourceList = "us_csl"
	SourceEUCSL  SourceList = "eu_csl"
	SourceUKCSL  SourceList = "uk_csl"
)

// GovernmentIDType is the kind of identity document attached to an entity.
type GovernmentIDType string

const (
	IDPassport      GovernmentIDType = "passport"
	IDTaxID         GovernmentIDType = "tax_id"
	IDDriverLicense GovernmentIDType = "driver_license"
	IDNational      GovernmentIDType = "national_id"
	IDRegistration  GovernmentIDType = "registration"
	IDOther         GovernmentIDType = "other"
)

// Entity is one screened party from a sanctions list, or a transient
// query built from a search request. Entities are treated as immutable
// once installed in the index; updates happen by replacing the whole
// index snapshot.
type Entity struct {
	ID       string     `json:"id"`
	SourceID string     `json:"source_id"`
	Name     string     `json:"name"`
	Type     EntityType `json:"type"`
	Source   SourceList `json:"source"`

	Person       *Person       `json:"person,omitempty"`
	Business     *Business     `json:"business,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
	Vessel       *Vessel       `json:"vessel,omitempty"`
	Aircraft     *Aircraft     `json:"aircraft,omitempty"`

	AltNames        []string         `json:"alt_names,omitempty"`
	Addresses       []Address        `json:"addresses,omitempty"`
	GovernmentIDs   []GovernmentID   `json:"government_ids,omitempty"`
	CryptoAddresses []CryptoAddress  `json:"crypto_addresses,omitempty"`
	Affiliations    []Affiliation    `json:"affiliations,omitempty"`
	Contact         *ContactInfo     `json:"contact,omitempty"`
	SanctionsInfo   *SanctionsInfo   `json:"sanctions_info,omitempty"`
	HistoricalInfo  []HistoricalInfo `json:"historical_info,omitempty"`
	Programs        []string         `json:"programs,omitempty"`
	Remarks         []string         `json:"remarks,omitempty"`

	// Prepared holds the precomputed matching fields. It is filled once
	// by the normalization pipeline and never serialized.
	Prepared *PreparedFields `json:"-"`
}

// Person chi tiết cá nhân
type Person struct {
	Gender    string     `json:"gender,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	DeathDate *time.Time `json:"death_date,omitempty"`
	Titles    []string   `json:"titles,omitempty"`
}

// Business chi tiết doanh nghiệp
type Business struct {
	CreatedDate   *time.Time `json:"created_date,omitempty"`
	DissolvedDate *time.Time `json:"dissolved_date,omitempty"`
}

// Organization chi tiết tổ chức phi thương mại
type Organization struct {
	CreatedDate   *time.Time `json:"created_date,omitempty"`
	DissolvedDate *time.Time `json:"dissolved_date,omitempty"`
}

// Vessel chi tiết tàu thuyền
type Vessel struct {
	IMONumber string     `json:"imo_number,omitempty"`
	CallSign  string     `json:"call_sign,omitempty"`
	MMSI      string     `json:"mmsi,omitempty"`
	Flag      string     `json:"flag,omitempty"`
	Owner     string     `json:"owner,omitempty"`
	Tonnage   int        `json:"tonnage,omitempty"`
	BuiltDate *time.Time `json:"built_date,omitempty"`
}

// Aircraft chi tiết máy bay
type Aircraft struct {
	SerialNumber string     `json:"serial_number,omitempty"`
	ICAOCode     string     `json:"icao_code,omitempty"`
	Model        string     `json:"model,omitempty"`
	Flag         string     `json:"flag,omitempty"`
	BuiltDate    *time.Time `json:"built_date,omitempty"`
}

// Address is one postal address attached to an entity. Fields hold
// normalized values after the entity passed through the pipeline.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Empty reports whether no address component is set.
func (a Address) Empty() bool {
	return a.Line1 == "" && a.Line2 == "" && a.City == "" &&
		a.State == "" && a.PostalCode == "" && a.Country == ""
}

// GovernmentID is an identity document: passport, national id, tax id...
type GovernmentID struct {
	Type       GovernmentIDType `json:"type"`
	Country    string           `json:"country,omitempty"`
	Identifier string           `json:"identifier"`
}

// CryptoAddress is a cryptocurrency wallet tied to an entity.
// Currency uses the ticker symbol (XBT, ETH, XMR...).
type CryptoAddress struct {
	Currency string `json:"currency,omitempty"`
	Address  string `json:"address"`
}

// Affiliation links an entity to a related party on the same list.
type Affiliation struct {
	EntityName string `json:"entity_name"`
	Type       string `json:"type"`
}

// ContactInfo thông tin liên hệ
type ContactInfo struct {
	EmailAddress string `json:"email_address,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	FaxNumber    string `json:"fax_number,omitempty"`
}

// Empty reports whether no contact field is set.
func (c *ContactInfo) Empty() bool {
	return c == nil || (c.EmailAddress == "" && c.PhoneNumber == "" && c.FaxNumber == "")
}

// SanctionsInfo carries the listing context of an entity. Program
// names themselves live on Entity.Programs.
type SanctionsInfo struct {
	Secondary   bool   `json:"secondary,omitempty"`
	Description string `json:"description,omitempty"`
}

// HistoricalInfo is a dated fact about an entity; former names,
// former flags, former vessel owners and similar.
type HistoricalInfo struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// PreparedFields caches everything the matcher needs so that scoring
// never re-normalizes. It is computed once per entity, either at index
// install time or when a query entity is built.
type PreparedFields struct {
	NormalizedName     string     `json:"normalized_name"`
	NormalizedAltNames []string   `json:"normalized_alt_names,omitempty"`
	NameTokens         []string   `json:"name_tokens,omitempty"`
	AltNameTokens      [][]string `json:"alt_name_tokens,omitempty"`
	NameCombinations   [][]string `json:"name_combinations,omitempty"`
	DetectedLanguage   string     `json:"detected_language,omitempty"`
	PhoneticClass      string     `json:"phonetic_class,omitempty"`
}

// IsValidType reports whether the entity carries a known type.
func (e *Entity) IsValidType() bool {
	switch e.Type {
	case EntityPerson, EntityBusiness, EntityOrganization, EntityVessel, EntityAircraft, EntityUnknown:
		return true
	}
	return false
}

// Validate checks the tagged-union invariant: the detail struct must
// agree with Type, and no foreign detail struct may be set.
func (e *Entity) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidEntity)
	}
	if !e.IsValidType() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEntity, e.Type)
	}

	details := map[EntityType]bool{
		EntityPerson:       e.Person != nil,
		EntityBusiness:     e.Business != nil,
		EntityOrganization: e.Organization != nil,
		EntityVessel:       e.Vessel != nil,
		EntityAircraft:     e.Aircraft != nil,
	}
	for typ, present := range details {
		if present && typ != e.Type {
			return fmt.Errorf("%w: %s details on %s entity %q", ErrInvalidEntity, typ, e.Type, e.ID)
		}
	}
	return nil
}

// IsPrepared reports whether the entity went through normalization.
func (e *Entity) IsPrepared() bool {
	return e.Prepared != nil
}

// Clone returns a deep copy. Normalization mutates the copy and leaves
// the receiver untouched, which keeps installed entities immutable.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e

	if e.Person != nil {
		p := *e.Person
		p.Titles = append([]string(nil), e.Person.Titles...)
		out.Person = &p
	}
	if e.Business != nil {
		b := *e.Business
		out.Business = &b
	}
	if e.Organization != nil {
		o := *e.Organization
		out.Organization = &o
	}
	if e.Vessel != nil {
		v := *e.Vessel
		out.Vessel = &v
	}
	if e.Aircraft != nil {
		a := *e.Aircraft
		out.Aircraft = &a
	}
	if e.Contact != nil {
		c := *e.Contact
		out.Contact = &c
	}
	if e.SanctionsInfo != nil {
		s := *e.SanctionsInfo
		out.SanctionsInfo = &s
	}

	out.AltNames = append([]string(nil), e.AltNames...)
	out.Addresses = append([]Address(nil), e.Addresses...)
	out.GovernmentIDs = append([]GovernmentID(nil), e.GovernmentIDs...)
	out.CryptoAddresses = append([]CryptoAddress(nil), e.CryptoAddresses...)
	out.Affiliations = append([]Affiliation(nil), e.Affiliations...)
	out.HistoricalInfo = append([]HistoricalInfo(nil), e.HistoricalInfo...)
	out.Programs = append([]string(nil), e.Programs...)
	out.Remarks = append([]string(nil), e.Remarks...)

	// Prepared fields are derived data; the clone recomputes them.
	out.Prepared = nil
	return &out
}
