package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchlist-screener/app/models"
)

func TestCompareContact(t *testing.T) {
	contact := func(email, phone, fax string) *models.Entity {
		return &models.Entity{Contact: &models.ContactInfo{
			EmailAddress: email,
			PhoneNumber:  phone,
			FaxNumber:    fax,
		}}
	}

	t.Run("email folds case", func(t *testing.T) {
		got, fields, compared := compareContact(
			contact("Info@GAZPROMBANK.ru", "", ""),
			contact("info@gazprombank.ru", "", ""),
		)
		assert.True(t, compared)
		assert.Equal(t, 1, fields)
		assert.InDelta(t, 1.0, got, 1e-12)
	})

	t.Run("mismatched phone halves the score", func(t *testing.T) {
		got, fields, compared := compareContact(
			contact("info@gazprombank.ru", "74959137474", ""),
			contact("info@gazprombank.ru", "74959130000", ""),
		)
		assert.True(t, compared)
		assert.Equal(t, 2, fields)
		assert.InDelta(t, 0.5, got, 1e-12)
	})

	t.Run("no overlapping fields", func(t *testing.T) {
		// Mỗi bên chỉ có một trường khác nhau: không có gì để so.
		_, fields, compared := compareContact(
			contact("info@gazprombank.ru", "", ""),
			contact("", "74959137474", ""),
		)
		assert.False(t, compared)
		assert.Zero(t, fields)
	})

	t.Run("nil contact", func(t *testing.T) {
		_, _, compared := compareContact(&models.Entity{}, contact("a@b.c", "", ""))
		assert.False(t, compared)
	})
}
