package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/models"
)

func newTestNormalizer(t *testing.T) *EntityNormalizer {
	t.Helper()
	n, err := NewEntityNormalizer(config.DefaultMatch(), zap.NewNop())
	require.NoError(t, err)
	return n
}

func maduroFixture() *models.Entity {
	return &models.Entity{
		ID:       "us_ofac-22790",
		SourceID: "22790",
		Name:     "MADURO MOROS, Nicolás",
		Type:     models.EntityPerson,
		Source:   models.SourceUSOFAC,
		Person:   &models.Person{Gender: "M"},
		AltNames: []string{"Nicolas MADURO", "Nicolás MADURO"},
		Addresses: []models.Address{
			{Line1: "Miraflores Palace", City: "CARACAS", Country: "VE"},
		},
		GovernmentIDs: []models.GovernmentID{
			{Type: models.IDPassport, Identifier: "a-123 456", Country: "ve"},
		},
		Contact: &models.ContactInfo{
			PhoneNumber:  "+58 (212) 555-0111",
			EmailAddress: " INFO@Example.COM ",
		},
	}
}

func TestNormalizePreparesEntity(t *testing.T) {
	n := newTestNormalizer(t)

	out, err := n.Normalize(maduroFixture())
	require.NoError(t, err)
	require.True(t, out.IsPrepared())

	p := out.Prepared
	assert.Equal(t, "nicolas maduro moros", p.NormalizedName, "listing order reversed, diacritics folded")
	assert.Equal(t, []string{"nicolas", "maduro", "moros"}, p.NameTokens)
	// Hai alias chỉ khác dấu nên gộp còn một.
	assert.Equal(t, []string{"nicolas maduro"}, p.NormalizedAltNames)
	require.Len(t, p.AltNameTokens, 1)
	assert.Equal(t, []string{"nicolas", "maduro"}, p.AltNameTokens[0])
	assert.Equal(t, "es", p.DetectedLanguage, "address country drives the language fallback")
	assert.Equal(t, "N242", p.PhoneticClass)
	require.NotEmpty(t, p.NameCombinations)
	assert.Equal(t, p.NameTokens, p.NameCombinations[0])

	assert.Equal(t, "male", out.Person.Gender)
	assert.Equal(t, "582125550111", out.Contact.PhoneNumber)
	assert.Equal(t, "info@example.com", out.Contact.EmailAddress)

	require.Len(t, out.Addresses, 1)
	assert.Equal(t, "miraflores palace", out.Addresses[0].Line1)
	assert.Equal(t, "caracas", out.Addresses[0].City)
	assert.Equal(t, "venezuela", out.Addresses[0].Country)

	require.Len(t, out.GovernmentIDs, 1)
	assert.Equal(t, "A123456", out.GovernmentIDs[0].Identifier)
	assert.Equal(t, "venezuela", out.GovernmentIDs[0].Country)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	n := newTestNormalizer(t)
	in := maduroFixture()

	_, err := n.Normalize(in)
	require.NoError(t, err)

	assert.Equal(t, "MADURO MOROS, Nicolás", in.Name)
	assert.Equal(t, "M", in.Person.Gender)
	assert.Equal(t, "VE", in.Addresses[0].Country)
	assert.Equal(t, "a-123 456", in.GovernmentIDs[0].Identifier)
	assert.Equal(t, "+58 (212) 555-0111", in.Contact.PhoneNumber)
	assert.False(t, in.IsPrepared())
}

// Chạy pipeline hai lần phải cho cùng một kết quả.
func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer(t)

	once, err := n.Normalize(maduroFixture())
	require.NoError(t, err)
	twice, err := n.Normalize(once)
	require.NoError(t, err)

	assert.Equal(t, once.Prepared, twice.Prepared)
	assert.Equal(t, once.Addresses, twice.Addresses)
	assert.Equal(t, once.GovernmentIDs, twice.GovernmentIDs)
	assert.Equal(t, once.Contact, twice.Contact)
	assert.Equal(t, once.Person.Gender, twice.Person.Gender)
}

func TestNormalizeRejectsInvalidEntities(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name   string
		entity *models.Entity
	}{
		{"missing type", &models.Entity{ID: "x", Name: "X"}},
		{"unknown type", &models.Entity{ID: "x", Name: "X", Type: "starship"}},
		{
			"detail struct disagrees with type",
			&models.Entity{ID: "x", Name: "X", Type: models.EntityPerson, Business: &models.Business{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.entity)
			assert.ErrorIs(t, err, models.ErrInvalidEntity)
		})
	}
}

func TestNormalizeNameSuffixStripping(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"stacked legal forms stripped", "Acme Trading Company Limited", []string{"acme", "trading"}},
		{"single legal-form token survives", "Limited", []string{"limited"}},
		{"gmbh stripped", "Müller Handel GmbH", []string{"muller", "handel"}},
		{"suffix in the middle stays", "Limited Horizons Group", []string{"limited", "horizons", "group"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := n.NormalizeName(tt.input, "")
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestNormalizeNameStopwords(t *testing.T) {
	n := newTestNormalizer(t)

	t.Run("english particles removed", func(t *testing.T) {
		tokens, lang := n.NormalizeName("Bank of the East", "")
		assert.Equal(t, "en", lang)
		assert.Equal(t, []string{"bank", "east"}, tokens)
	})

	t.Run("all-stopword name survives whole", func(t *testing.T) {
		tokens, _ := n.NormalizeName("The Of", "")
		assert.Equal(t, []string{"the", "of"}, tokens)
	})

	t.Run("country hint picks spanish set", func(t *testing.T) {
		tokens, lang := n.NormalizeName("Banco Central de Venezuela", "VE")
		assert.Equal(t, "es", lang)
		assert.NotContains(t, tokens, "de")
	})
}

func TestNormalizePhone(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"+58 (212) 555-0111", "582125550111"},
		{"011 44 20 7946 0958", "442079460958"},
		{"0044 20", "4420"},
		{"020-7946", "207946"},
		{"0", "0"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := n.NormalizePhone(tt.input); got != tt.expected {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeGender(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"M", "male"},
		{"male", "male"},
		{" Man ", "male"},
		{"F", "female"},
		{"GIRL", "female"},
		{"", ""},
		{"nonbinary", "unknown"},
	}
	for _, tt := range tests {
		if got := n.NormalizeGender(tt.input); got != tt.expected {
			t.Errorf("NormalizeGender(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"a-123 456", "A123456"},
		{" ab 12-34-56 c ", "AB123456C"},
		{"D00001923", "D00001923"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := n.NormalizeIdentifier(tt.input); got != tt.expected {
			t.Errorf("NormalizeIdentifier(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeAddressFields(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.NormalizeAddress(models.Address{
		Line1:      "123 Main St., Apt. #4",
		City:       "CARACAS",
		State:      "Distrito  Capital",
		PostalCode: " 1010 ",
		Country:    "Bolivarian Republic of Venezuela",
	})
	assert.Equal(t, models.Address{
		Line1:      "123 main st apt 4",
		City:       "caracas",
		State:      "distrito capital",
		PostalCode: "1010",
		Country:    "venezuela",
	}, got)
}
