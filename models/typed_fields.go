package models

// Well-known field names used by login-type ciphers.
const (
	FieldNameUser = "user"
	FieldNamePass = "pass"
	FieldNameTOTP = "totp"
	FieldNameURL  = "url"
	FieldNameNote = "note"
)

// TypedFields is a flat projection of the well-known login fields,
// convenient for UIs. Empty strings mean the field is absent.
type TypedFields struct {
	Username string
	Password string
	TOTP     string
	URL      string
	Note     string
}

// GetTypedFields projects the well-known field names into a [TypedFields]
// value. Password is read from the "pass" field; an earlier client
// mistakenly read it from "totp", which made the projection lose the
// password whenever a TOTP secret was set.
func (d CipherData) GetTypedFields() TypedFields {
	return TypedFields{
		Username: d.Fields[FieldNameUser].Value,
		Password: d.Fields[FieldNamePass].Value,
		TOTP:     d.Fields[FieldNameTOTP].Value,
		URL:      d.Fields[FieldNameURL].Value,
		Note:     d.Fields[FieldNameNote].Value,
	}
}

// SetTypedFields writes every non-empty field of typed into the fields map
// with type [FieldDefault]. Fields absent from typed are left untouched.
func (d *CipherData) SetTypedFields(typed TypedFields) {
	if d.Fields == nil {
		d.Fields = map[string]CipherField{}
	}
	set := func(name, value string) {
		if value != "" {
			d.Fields[name] = CipherField{Type: FieldDefault, Value: value}
		}
	}
	set(FieldNameUser, typed.Username)
	set(FieldNamePass, typed.Password)
	set(FieldNameTOTP, typed.TOTP)
	set(FieldNameURL, typed.URL)
	set(FieldNameNote, typed.Note)
}
