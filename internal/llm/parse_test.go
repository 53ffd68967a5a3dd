package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerifiedSite(t *testing.T) {
	assert.Equal(t, "https://acme.com/", parseVerifiedSite("https://acme.com/"))
	assert.Equal(t, "https://acme.com/", parseVerifiedSite(`"https://acme.com/"`))
	assert.Equal(t, "http://acme.kr", parseVerifiedSite("http://acme.kr\n"))
	assert.Equal(t, "", parseVerifiedSite("NOT_FOUND"))
	assert.Equal(t, "", parseVerifiedSite("The answer is NOT_FOUND."))
	assert.Equal(t, "", parseVerifiedSite(""))
	assert.Equal(t, "", parseVerifiedSite("acme.com looks right"))
}

func TestParseVerifiedSite_TrailingProse(t *testing.T) {
	got := parseVerifiedSite("https://acme.com/ is the official homepage")
	assert.Equal(t, "https://acme.com/", got)
}

func TestParseContactInfo_CleanJSON(t *testing.T) {
	info, err := parseContactInfo(`{
		"phone": "02-123-4567",
		"fax": "",
		"email": "info@acme.com",
		"address": "1 Main St, Springfield",
		"city": "Springfield",
		"state": "IL",
		"zip_code": "62701",
		"department_contacts": {"Sales": "02-123-4568", "HR": 123}
	}`)
	require.NoError(t, err)
	assert.Equal(t, "02-123-4567", info.Phone)
	assert.Equal(t, "info@acme.com", info.Email)
	assert.Equal(t, "Springfield", info.City)
	assert.Equal(t, "02-123-4568", info.DeptContacts["Sales"])
	// Non-string values are stringified, not dropped.
	assert.Equal(t, "123", info.DeptContacts["HR"])
}

func TestParseContactInfo_CodeFenced(t *testing.T) {
	info, err := parseContactInfo("```json\n{\"phone\": \"555-0100\", \"email\": \"\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", info.Phone)
	assert.Equal(t, "", info.Email)
}

func TestParseContactInfo_RepairsDamagedJSON(t *testing.T) {
	// Trailing comma — invalid JSON, repairable.
	info, err := parseContactInfo(`{"phone": "555-0100", "email": "x@y.com",}`)
	require.NoError(t, err)
	assert.Equal(t, "x@y.com", info.Email)
}

func TestParseContactInfo_MissingFieldsDefaultEmpty(t *testing.T) {
	info, err := parseContactInfo(`{"email": "a@b.co"}`)
	require.NoError(t, err)
	assert.Equal(t, "", info.Phone)
	assert.Equal(t, "", info.Address)
	assert.Nil(t, info.DeptContacts)
}

func TestParseContactInfo_Unparseable(t *testing.T) {
	_, err := parseContactInfo("I could not find any contact information.")
	require.Error(t, err)
}
