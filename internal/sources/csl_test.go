package sources

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlist-screener/app/models"
)

const cslSample = `_id,entity_number,name,type,programs,alt_names,addresses,ids,dates_of_birth,title,source,call_sign,vessel_flag,vessel_owner,remarks
sdn-001,100,MIRRORED GUY,Individual,SDGT,,,,,,Specially Designated Nationals (SDN) - Treasury Department,,,,
el-001,,BEIJING AERO GROUP,Entity,EL,BAAC; BAIC GROUP,"No. 99 Fushi Road, Beijing, China; Shanghai","Registration Number, 110108000000, China",,,Entity List (EL) - Bureau of Industry and Security,,,,Listed for procurement concerns.
i-731,731,"AL-HASSAN, Omar",Individual,SDGT,,"Gaza, Palestinian","Passport, 4199523, Palestinian",1965-01-01; 1964-05-05,Commander,Nonproliferation Sanctions (ISN) - State Department,,,,
v-900,900,HAPPY TRADER,Vessel,DPRK3,,,,,,Nonproliferation Sanctions (ISN) - State Department,HT777,Comoros,Ocean Glory Shipping,
x-1,999,,Entity,EL,,,,,,Entity List (EL) - Bureau of Industry and Security,,,,
,,GHOST COMPANY,Entity,EL,,,,,,Entity List (EL) - Bureau of Industry and Security,,,,
`

func TestCSLParse(t *testing.T) {
	p := NewCSLParser(nil)

	out, err := p.Parse(strings.NewReader(cslSample))
	require.NoError(t, err)
	require.Len(t, out, 3, "dòng SDN mirror, dòng thiếu tên và dòng thiếu id đều bị bỏ")

	for _, e := range out {
		assert.NotEqual(t, "MIRRORED GUY", e.Name, "dòng trùng với SDN phải bị bỏ")
	}

	t.Run("entity with _id fallback", func(t *testing.T) {
		e := out[0]
		assert.Equal(t, "us_csl-el-001", e.ID)
		assert.Equal(t, "el-001", e.SourceID, "không có entity_number thì dùng _id")
		assert.Equal(t, models.SourceUSCSL, e.Source)
		assert.Equal(t, models.EntityBusiness, e.Type)
		require.NotNil(t, e.Business)
		assert.Equal(t, "BEIJING AERO GROUP", e.Name)
		assert.Equal(t, []string{"BAAC", "BAIC GROUP"}, e.AltNames)
		assert.Equal(t, []string{"EL"}, e.Programs)
		assert.Equal(t, []string{"Listed for procurement concerns."}, e.Remarks)

		require.Len(t, e.Addresses, 2)
		assert.Equal(t, models.Address{Line1: "No. 99 Fushi Road", City: "Beijing", Country: "China"}, e.Addresses[0])
		assert.Equal(t, models.Address{City: "Shanghai"}, e.Addresses[1])

		require.Len(t, e.GovernmentIDs, 1)
		assert.Equal(t, models.GovernmentID{
			Type:       models.IDRegistration,
			Identifier: "110108000000",
			Country:    "China",
		}, e.GovernmentIDs[0])
	})

	t.Run("individual prefers entity_number", func(t *testing.T) {
		e := out[1]
		assert.Equal(t, "us_csl-731", e.ID)
		assert.Equal(t, "731", e.SourceID)
		assert.Equal(t, models.EntityPerson, e.Type)
		require.NotNil(t, e.Person)
		assert.Equal(t, []string{"Commander"}, e.Person.Titles)
		require.NotNil(t, e.Person.BirthDate, "chỉ lấy ngày sinh đầu tiên")
		assert.Equal(t, "1965-01-01", e.Person.BirthDate.Format("2006-01-02"))

		require.Len(t, e.Addresses, 1)
		assert.Equal(t, models.Address{City: "Gaza", Country: "Palestinian"}, e.Addresses[0])

		require.Len(t, e.GovernmentIDs, 1)
		assert.Equal(t, models.GovernmentID{
			Type:       models.IDPassport,
			Identifier: "4199523",
			Country:    "Palestinian",
		}, e.GovernmentIDs[0])
	})

	t.Run("vessel columns", func(t *testing.T) {
		e := out[2]
		assert.Equal(t, models.EntityVessel, e.Type)
		require.NotNil(t, e.Vessel)
		assert.Equal(t, "HT777", e.Vessel.CallSign)
		assert.Equal(t, "Comoros", e.Vessel.Flag)
		assert.Equal(t, "Ocean Glory Shipping", e.Vessel.Owner)
	})
}

func TestParseCSLAddress(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Address
	}{
		{"city only", "Gaza", models.Address{City: "Gaza"}},
		{"city and country", "Tripoli, Libya", models.Address{City: "Tripoli", Country: "Libya"}},
		{"street city country", "1 Main St, Valletta, Malta", models.Address{Line1: "1 Main St", City: "Valletta", Country: "Malta"}},
		{
			"extra middle parts join into the city",
			"1 Main St, District 4, Ho Chi Minh City, Vietnam",
			models.Address{Line1: "1 Main St", City: "District 4 Ho Chi Minh City", Country: "Vietnam"},
		},
		{"whitespace trimmed", "  Minsk ,  Belarus ", models.Address{City: "Minsk", Country: "Belarus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCSLAddress(tt.raw))
		})
	}
}

func TestParseCSLID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.GovernmentID
		ok   bool
	}{
		{"passport", "Passport, K123456, Iran", models.GovernmentID{Type: models.IDPassport, Identifier: "K123456", Country: "Iran"}, true},
		{"national", "National ID No., 987654, Syria", models.GovernmentID{Type: models.IDNational, Identifier: "987654", Country: "Syria"}, true},
		{"tax id", "Tax ID No., 7707083893, Russia", models.GovernmentID{Type: models.IDTaxID, Identifier: "7707083893", Country: "Russia"}, true},
		{"driver license", "Driver's License No., D111, Mexico", models.GovernmentID{Type: models.IDDriverLicense, Identifier: "D111", Country: "Mexico"}, true},
		{"registry keyword", "Vessel Registry Identification, IMO 1234567", models.GovernmentID{Type: models.IDRegistration, Identifier: "IMO 1234567"}, true},
		{"unknown label", "Cedula No., 229999, Colombia", models.GovernmentID{Type: models.IDOther, Identifier: "229999", Country: "Colombia"}, true},
		{"no country part", "Passport, X1", models.GovernmentID{Type: models.IDPassport, Identifier: "X1"}, true},
		{"single part rejected", "Passport", models.GovernmentID{}, false},
		{"blank number rejected", "Passport, , Iran", models.GovernmentID{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCSLID(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
