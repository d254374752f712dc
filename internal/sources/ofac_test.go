package sources

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlist-screener/app/models"
)

const sdnSample = `22790,"MADURO MOROS, Nicolas",individual,VENEZUELA,President of the Republic,-0-,-0-,-0-,-0-,-0-,-0-,"DOB 23 Nov 1962; Gender Male; Passport A123456 (Venezuela); National ID No. 5892464 (Venezuela)."
22790,"MADURO MOROS, Nicolas DUPLICATE",individual,VENEZUELA,-0-,-0-,-0-,-0-,-0-,-0-,-0-,-0-
36963,GAZPROMBANK,-0-,RUSSIA-EO14024] [UKRAINE-EO13662,-0-,-0-,-0-,-0-,-0-,-0-,-0-,"Secondary sanctions risk: Ukraine-/Russia-Related Sanctions Regulations; Tax ID No. 7744001497 (Russia); Email Address info@gazprombank.ru; Digital Currency Address - XBT 12QtD5BFwRsdNsAZY76UVE1xyCGNTojH9h; Linked To: GAZPROM."
37428,OCEAN DREAM,vessel,DPRK4,-0-,HMZT8,Passenger Ship,5000,-0-,"Korea, North",-0-,"IMO 8133530; MMSI 445114000; Linked To: MARITIME ADMINISTRATION OF THE DPRK."
,NO NUMBER,-0-,SDGT,-0-,-0-,-0-,-0-,-0-,-0-,-0-,-0-
`

const altSample = `22790,1,aka,Nicolas MADURO,-0-
22790,2,f.k.a.,Nicolas MADURO GUERRA,-0-
99999,1,aka,Ghost Entity,-0-
36963,1,aka,-0-,-0-
`

const addSample = `22790,1,Miraflores Palace,"Caracas, Distrito Capital 1010",Venezuela
36963,2,16 Nametkina Street,"Moscow, 117420",Russia
99999,3,Nowhere Street,Ghost Town,Atlantis
`

func TestOFACParse(t *testing.T) {
	p := NewOFACParser(nil)

	out, err := p.Parse(
		strings.NewReader(sdnSample),
		strings.NewReader(altSample),
		strings.NewReader(addSample),
	)
	require.NoError(t, err)
	require.Len(t, out, 3, "dòng không số và dòng trùng số đều bị bỏ")

	// Thứ tự theo sdn.csv.
	assert.Equal(t, "22790", out[0].SourceID)
	assert.Equal(t, "36963", out[1].SourceID)
	assert.Equal(t, "37428", out[2].SourceID)

	t.Run("individual", func(t *testing.T) {
		e := out[0]
		assert.Equal(t, "us_ofac-22790", e.ID)
		assert.Equal(t, models.SourceUSOFAC, e.Source)
		assert.Equal(t, models.EntityPerson, e.Type)
		assert.Equal(t, "MADURO MOROS, Nicolas", e.Name, "bản ghi đầu tiên thắng khi trùng số")
		assert.Equal(t, []string{"VENEZUELA"}, e.Programs)

		require.NotNil(t, e.Person)
		assert.Equal(t, []string{"President of the Republic"}, e.Person.Titles)
		assert.Equal(t, "Male", e.Person.Gender)
		require.NotNil(t, e.Person.BirthDate)
		assert.Equal(t, "1962-11-23", e.Person.BirthDate.Format("2006-01-02"))

		require.Len(t, e.GovernmentIDs, 2)
		assert.Equal(t, models.GovernmentID{Type: models.IDPassport, Identifier: "A123456", Country: "Venezuela"}, e.GovernmentIDs[0])
		assert.Equal(t, models.GovernmentID{Type: models.IDNational, Identifier: "5892464", Country: "Venezuela"}, e.GovernmentIDs[1])

		assert.Equal(t, []string{"Nicolas MADURO"}, e.AltNames)
		assert.Equal(t, []models.HistoricalInfo{{Type: "former name", Value: "Nicolas MADURO GUERRA"}}, e.HistoricalInfo)

		require.Len(t, e.Addresses, 1)
		assert.Equal(t, models.Address{
			Line1:      "Miraflores Palace",
			City:       "Caracas",
			State:      "Distrito Capital",
			PostalCode: "1010",
			Country:    "Venezuela",
		}, e.Addresses[0])
	})

	t.Run("blank type means company", func(t *testing.T) {
		e := out[1]
		assert.Equal(t, models.EntityBusiness, e.Type)
		require.NotNil(t, e.Business)
		assert.Equal(t, []string{"RUSSIA-EO14024", "UKRAINE-EO13662"}, e.Programs)

		require.Len(t, e.GovernmentIDs, 1)
		assert.Equal(t, models.IDTaxID, e.GovernmentIDs[0].Type)
		assert.Equal(t, "7744001497", e.GovernmentIDs[0].Identifier)

		assert.Equal(t, []models.CryptoAddress{{Currency: "XBT", Address: "12QtD5BFwRsdNsAZY76UVE1xyCGNTojH9h"}}, e.CryptoAddresses)
		assert.Equal(t, []models.Affiliation{{EntityName: "GAZPROM", Type: "linked to"}}, e.Affiliations)

		require.NotNil(t, e.Contact)
		assert.Equal(t, "info@gazprombank.ru", e.Contact.EmailAddress)
		require.NotNil(t, e.SanctionsInfo)
		assert.True(t, e.SanctionsInfo.Secondary)

		require.Len(t, e.Addresses, 1)
		assert.Equal(t, "Moscow", e.Addresses[0].City)
		assert.Equal(t, "117420", e.Addresses[0].PostalCode)
		assert.Equal(t, "", e.Addresses[0].State)
	})

	t.Run("vessel registry from remarks", func(t *testing.T) {
		e := out[2]
		assert.Equal(t, models.EntityVessel, e.Type)
		require.NotNil(t, e.Vessel)
		assert.Equal(t, "HMZT8", e.Vessel.CallSign)
		assert.Equal(t, "Korea, North", e.Vessel.Flag)
		assert.Equal(t, "", e.Vessel.Owner)
		assert.Equal(t, 5000, e.Vessel.Tonnage)
		assert.Equal(t, "8133530", e.Vessel.IMONumber)
		assert.Equal(t, "445114000", e.Vessel.MMSI)
		assert.Equal(t, []models.Affiliation{{EntityName: "MARITIME ADMINISTRATION OF THE DPRK", Type: "linked to"}}, e.Affiliations)
	})
}

func TestOFACParseWithoutAltAndAddressFiles(t *testing.T) {
	p := NewOFACParser(nil)

	out, err := p.Parse(strings.NewReader(sdnSample), nil, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Empty(t, out[0].AltNames)
	assert.Empty(t, out[0].Addresses)
}

func TestOFACParseEmptyInput(t *testing.T) {
	p := NewOFACParser(nil)

	out, err := p.Parse(strings.NewReader(""), strings.NewReader(""), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, out)
}
