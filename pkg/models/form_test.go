package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		form LandingForm
		want ValidationResult
	}{
		{"valid", LandingForm{Name: "Maria Silva", Email: "m@x.com", Phone: "(11) 98765-4321"}, ""},
		{"valid landline", LandingForm{Name: "Jo", Email: "jo@example.com.br", Phone: "1198765432"}, ""},
		{"missing name", LandingForm{Email: "m@x.com", Phone: "11987654321"}, MsgNameRequired},
		{"short name", LandingForm{Name: "A", Email: "m@x.com", Phone: "11987654321"}, MsgNameTooShort},
		{"blank name", LandingForm{Name: "   ", Email: "m@x.com", Phone: "11987654321"}, MsgNameTooShort},
		{"single emoji name", LandingForm{Name: "😀", Email: "m@x.com", Phone: "11987654321"}, ""},
		{"single accented letter", LandingForm{Name: "é", Email: "m@x.com", Phone: "11987654321"}, MsgNameTooShort},
		{"accented two letter name", LandingForm{Name: "Zé", Email: "m@x.com", Phone: "11987654321"}, ""},
		{"missing email", LandingForm{Name: "Maria", Phone: "11987654321"}, MsgEmailRequired},
		{"email without tld", LandingForm{Name: "Maria", Email: "foo@bar", Phone: "11987654321"}, MsgEmailInvalid},
		{"email with space", LandingForm{Name: "Maria", Email: "fo o@bar.com", Phone: "11987654321"}, MsgEmailInvalid},
		{"email with no-break space", LandingForm{Name: "Maria", Email: "a\u00a0b@x.com", Phone: "11987654321"}, MsgEmailInvalid},
		{"email with line separator", LandingForm{Name: "Maria", Email: "a@x\u2028y.com", Phone: "11987654321"}, MsgEmailInvalid},
		{"email with bom", LandingForm{Name: "Maria", Email: "a@x.\ufeffcom", Phone: "11987654321"}, MsgEmailInvalid},
		{"accented email", LandingForm{Name: "Maria", Email: "joão@exemplo.com.br", Phone: "11987654321"}, ""},
		{"missing phone", LandingForm{Name: "Maria", Email: "m@x.com"}, MsgPhoneRequired},
		{"phone without digits", LandingForm{Name: "Maria", Email: "m@x.com", Phone: "() -"}, MsgPhoneRequired},
		{"nine digit phone", LandingForm{Name: "Maria", Email: "m@x.com", Phone: "119876543"}, MsgPhoneLength},
		{"twelve digit phone", LandingForm{Name: "Maria", Email: "m@x.com", Phone: "551198765432"}, MsgPhoneLength},
		{"first failure wins", LandingForm{Name: "A", Email: "foo@bar", Phone: "1"}, MsgNameTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.form.Validate()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == "", got.OK())
		})
	}
}

func TestTrimmed(t *testing.T) {
	f := LandingForm{Name: "  Maria ", Email: " m@x.com\n", Phone: "\t119", Fbclid: " abc "}.Trimmed()
	assert.Equal(t, LandingForm{Name: "Maria", Email: "m@x.com", Phone: "119", Fbclid: "abc"}, f)
}

func TestLeadSubmissionJSON(t *testing.T) {
	form := LandingForm{Name: "Maria Silva", Email: "m@x.com", Phone: "(11) 98765-4321"}

	body, err := json.Marshal(NewLeadSubmission(form, "landing-live", "evt-1", "", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"nome": "Maria Silva",
		"email": "m@x.com",
		"telefone": "(11) 98765-4321",
		"origem": "landing-live",
		"formData": {"name": "Maria Silva", "email": "m@x.com", "phone": "(11) 98765-4321"},
		"eventId": "evt-1"
	}`, string(body))

	body, err = json.Marshal(NewLeadSubmission(form, "landing-live", "evt-1", "fb.1.1.2", "fb.1.3.xyz"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "fb.1.1.2", decoded["fbp"])
	assert.Equal(t, "fb.1.3.xyz", decoded["fbc"])
}
