package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
)

// TestPatchDecoding decodes a body that sets one field, clears another and leaves the rest out.
func TestPatchDecoding(t *testing.T) {
	var p ContactPatch
	require.NoError(t, json.Unmarshal([]byte(`{"first_name": "Rudi", "birthday": null}`), &p))

	v, ok := p.FirstName.Get()
	assert.True(t, ok)
	assert.Equal(t, "Rudi", v)
	assert.True(t, p.Birthday.IsSet())
	assert.True(t, p.Birthday.IsNull())
	assert.False(t, p.LastName.IsSet())
	assert.False(t, p.AdditionalInfo.IsSet())
	assert.False(t, p.IsEmpty())

	var empty ContactPatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.IsEmpty())
}

// TestPatchEncoding expects that fields that were not provided are left out of the JSON.
func TestPatchEncoding(t *testing.T) {
	p := ContactPatch{PhoneNumber: Set("0815"), AdditionalInfo: Null[string]()}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"phone_number": "0815", "additional_info": null}`, string(data))
}

func TestPatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   ContactPatch
		problem string
	}{
		{"valid", ContactPatch{Email: Set("eva@example.com"), Birthday: Null[Date]()}, ""},
		{"required field cleared", ContactPatch{LastName: Null[string]()}, "last_name may not be null"},
		{"empty name", ContactPatch{FirstName: Set("")}, "first_name failed on required"},
		{"malformed email", ContactPatch{Email: Set("eva")}, "email failed on email"},
		{"long phone number", ContactPatch{PhoneNumber: Set(strings.Repeat("1", 21))}, "phone_number failed on max"},
		{"long additional info", ContactPatch{AdditionalInfo: Set(strings.Repeat("x", 256))}, "additional_info failed on max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.problem == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errs.EUNPROCESSABLE, errs.ErrorCode(err))
			assert.Contains(t, errs.ErrorMessage(err), tt.problem)
		})
	}
}

func TestPatchApply(t *testing.T) {
	birthday := NewDate(1969, time.March, 2)
	info := "met at work"
	c := Contact{ID: 5, FirstName: "Hans", LastName: "Wurst", Email: "hans@example.com",
		PhoneNumber: "0815", Birthday: &birthday, AdditionalInfo: &info}

	ContactPatch{
		PhoneNumber:    Set("81970"),
		Birthday:       Null[Date](),
		AdditionalInfo: Set("neighbour"),
	}.Apply(&c)

	assert.Equal(t, "Hans", c.FirstName)
	assert.Equal(t, "81970", c.PhoneNumber)
	assert.Nil(t, c.Birthday)
	require.NotNil(t, c.AdditionalInfo)
	assert.Equal(t, "neighbour", *c.AdditionalInfo)
}

func TestContactCreateValidate(t *testing.T) {
	valid := ContactCreate{FirstName: "Erika", LastName: "Mustermann", Email: "erika@example.com",
		PhoneNumber: "+49 0815 4711"}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.FirstName = strings.Repeat("E", 51)
	invalid.Email = ""
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, errs.ErrorMessage(err), "first_name failed on max")
	assert.Contains(t, errs.ErrorMessage(err), "email failed on required")
}

func TestContactCreateDecoding(t *testing.T) {
	var in ContactCreate
	err := json.Unmarshal([]byte(`{"first_name": "Erika", "birthday": "1969-03-02", "additional_info": null}`), &in)
	require.NoError(t, err)
	require.NotNil(t, in.Birthday)
	assert.Equal(t, NewDate(1969, time.March, 2), *in.Birthday)
	assert.Nil(t, in.AdditionalInfo)

	c := in.Contact(7)
	assert.Equal(t, int64(7), c.OwnerID)
	assert.Zero(t, c.ID)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("0057-07-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(57, time.July, 1), d)

	d, err = ParseDate("1969-03-02T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "1969-03-02", d.String())

	_, err = ParseDate("02.03.1969")
	assert.Error(t, err)

	var c ContactCreate
	assert.Error(t, json.Unmarshal([]byte(`{"birthday": "1969-02-30"}`), &c))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(1815, time.December, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(1815, time.December, 10), d)

	require.NoError(t, d.Scan([]byte("2000-02-29")))
	assert.Equal(t, NewDate(2000, time.February, 29), d)

	require.NoError(t, d.Scan("1974-07-01 00:00:00"))
	assert.Equal(t, NewDate(1974, time.July, 1), d)

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2000, time.February, 29).Value()
	require.NoError(t, err)
	assert.Equal(t, "2000-02-29", v)
}

func TestDateAddDays(t *testing.T) {
	assert.Equal(t, NewDate(2026, time.January, 4), NewDate(2025, time.December, 30).AddDays(5))
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 28).AddDays(2))
}

// TestContactEncoding expects that a missing birthday is encoded as null and that the owner is
// not revealed.
func TestContactEncoding(t *testing.T) {
	data, err := json.Marshal(Contact{ID: 3, OwnerID: 9, FirstName: "Carla"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 3, "first_name": "Carla", "last_name": "", "email": "", "phone_number": "",
		"birthday": null, "additional_info": null}`, string(data))
}
