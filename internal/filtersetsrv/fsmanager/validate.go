package fsmanager

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

// Per-field rejection messages. These are part of the API contract; clients
// match on them.
const (
	msgUnknownField  = "Unknown field."
	msgRequiredField = "Missing data for required field."
	msgNullField     = "Field may not be null."
	msgNotString     = "Not a valid string."
	msgNotInteger    = "Not a valid integer."
	msgNotBoolean    = "Not a valid boolean."
	msgOwnerTypes    = "Must be one of: User, Dashboard."
	msgUpdateOwner   = "Must be one of: Dashboard."
	msgNameLength    = "Length must be between 1 and 500."
	msgDescLength    = "Length must be between 1 and 1000."
	msgJSONMetadata  = "Must be a JSON string containing a nativeFilters object."
)

// FieldErrors maps a payload field to its rejection messages. A non-empty map
// means the payload is invalid.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// createFields are the only fields a Create payload may carry. In particular
// a client-supplied id is rejected.
var createFields = map[string]bool{
	"name":          true,
	"description":   true,
	"json_metadata": true,
	"owner_type":    true,
	"owner_id":      true,
	"is_primary":    true,
}

var updateFields = createFields

// CreatePayload is a validated Create request body.
type CreatePayload struct {
	Name         string
	Description  *string
	JSONMetadata string
	OwnerType    fscommon.OwnerType
	OwnerID      *int64
	IsPrimary    bool
}

// UpdatePayload is a validated Update request body. Nil fields were absent.
type UpdatePayload struct {
	Name         *string
	Description  *string
	JSONMetadata *string
	OwnerType    *fscommon.OwnerType
	OwnerID      *int64
	IsPrimary    *bool
}

var validate = validator.New()

type createContract struct {
	Name        string  `validate:"required,max=500"`
	Description *string `validate:"omitempty,min=1,max=1000"`
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// validJSONMetadata reports whether s parses as a JSON object containing a
// nativeFilters object, with dataMask being an object when present. The
// contents are otherwise opaque.
func validJSONMetadata(s string) bool {
	if !gjson.Valid(s) {
		return false
	}
	parsed := gjson.Parse(s)
	if !parsed.IsObject() {
		return false
	}
	if nf := parsed.Get("nativeFilters"); !nf.Exists() || !nf.IsObject() {
		return false
	}
	if dm := parsed.Get("dataMask"); dm.Exists() && !dm.IsObject() {
		return false
	}
	return true
}

// ParseCreatePayload validates a Create request body. The returned payload is
// valid only when FieldErrors is empty.
func ParseCreatePayload(data []byte) (*CreatePayload, FieldErrors) {
	fe := FieldErrors{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		fe.add("_schema", "Invalid input type.")
		return nil, fe
	}

	for field := range raw {
		if !createFields[field] {
			fe.add(field, msgUnknownField)
		}
	}

	p := &CreatePayload{}

	if nameRaw, ok := raw["name"]; !ok {
		fe.add("name", msgRequiredField)
	} else if isNull(nameRaw) {
		fe.add("name", msgNullField)
	} else if err := json.Unmarshal(nameRaw, &p.Name); err != nil {
		fe.add("name", msgNotString)
	}

	if descRaw, ok := raw["description"]; ok && !isNull(descRaw) {
		var desc string
		if err := json.Unmarshal(descRaw, &desc); err != nil {
			fe.add("description", msgNotString)
		} else {
			p.Description = &desc
		}
	}

	if metaRaw, ok := raw["json_metadata"]; !ok {
		fe.add("json_metadata", msgRequiredField)
	} else if isNull(metaRaw) {
		fe.add("json_metadata", msgNullField)
	} else if err := json.Unmarshal(metaRaw, &p.JSONMetadata); err != nil {
		fe.add("json_metadata", msgNotString)
	} else if !validJSONMetadata(p.JSONMetadata) {
		fe.add("json_metadata", msgJSONMetadata)
	}

	if otRaw, ok := raw["owner_type"]; !ok {
		fe.add("owner_type", msgRequiredField)
	} else if isNull(otRaw) {
		fe.add("owner_type", msgNullField)
	} else {
		var ot string
		if err := json.Unmarshal(otRaw, &ot); err != nil {
			fe.add("owner_type", msgNotString)
		} else if !fscommon.OwnerType(ot).IsValid() {
			fe.add("owner_type", msgOwnerTypes)
		} else {
			p.OwnerType = fscommon.OwnerType(ot)
		}
	}

	if oidRaw, ok := raw["owner_id"]; ok && !isNull(oidRaw) {
		var oid int64
		if err := json.Unmarshal(oidRaw, &oid); err != nil {
			fe.add("owner_id", msgNotInteger)
		} else {
			p.OwnerID = &oid
		}
	}
	if p.OwnerType == fscommon.OwnerTypeUser && p.OwnerID == nil {
		fe.add("owner_id", msgRequiredField)
	}

	if ipRaw, ok := raw["is_primary"]; ok && !isNull(ipRaw) {
		if err := json.Unmarshal(ipRaw, &p.IsPrimary); err != nil {
			fe.add("is_primary", msgNotBoolean)
		}
	}

	if len(fe) == 0 {
		if err := validate.Struct(&createContract{Name: p.Name, Description: p.Description}); err != nil {
			addContractErrors(fe, err)
		}
	}

	if len(fe) > 0 {
		return nil, fe
	}
	return p, nil
}

// ParseUpdatePayload validates an Update request body. All fields are
// optional; unknown fields are rejected, a null description is rejected
// (absent and null are distinct on update), and owner_type may only move a
// filter set to dashboard ownership.
func ParseUpdatePayload(data []byte) (*UpdatePayload, FieldErrors) {
	fe := FieldErrors{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		fe.add("_schema", "Invalid input type.")
		return nil, fe
	}

	for field := range raw {
		if !updateFields[field] {
			fe.add(field, msgUnknownField)
		}
	}

	p := &UpdatePayload{}

	if nameRaw, ok := raw["name"]; ok {
		if isNull(nameRaw) {
			fe.add("name", msgNullField)
		} else {
			var name string
			if err := json.Unmarshal(nameRaw, &name); err != nil {
				fe.add("name", msgNotString)
			} else if len(name) < 1 || len(name) > 500 {
				fe.add("name", msgNameLength)
			} else {
				p.Name = &name
			}
		}
	}

	if descRaw, ok := raw["description"]; ok {
		if isNull(descRaw) {
			fe.add("description", msgNullField)
		} else {
			var desc string
			if err := json.Unmarshal(descRaw, &desc); err != nil {
				fe.add("description", msgNotString)
			} else if len(desc) < 1 || len(desc) > 1000 {
				fe.add("description", msgDescLength)
			} else {
				p.Description = &desc
			}
		}
	}

	if metaRaw, ok := raw["json_metadata"]; ok {
		if isNull(metaRaw) {
			fe.add("json_metadata", msgNullField)
		} else {
			var meta string
			if err := json.Unmarshal(metaRaw, &meta); err != nil {
				fe.add("json_metadata", msgNotString)
			} else if !validJSONMetadata(meta) {
				fe.add("json_metadata", msgJSONMetadata)
			} else {
				p.JSONMetadata = &meta
			}
		}
	}

	if otRaw, ok := raw["owner_type"]; ok {
		if isNull(otRaw) {
			fe.add("owner_type", msgNullField)
		} else {
			var ot string
			if err := json.Unmarshal(otRaw, &ot); err != nil {
				fe.add("owner_type", msgNotString)
			} else if fscommon.OwnerType(ot) != fscommon.OwnerTypeDashboard {
				// Re-owning to a specific user via update is not supported.
				fe.add("owner_type", msgUpdateOwner)
			} else {
				ownerType := fscommon.OwnerTypeDashboard
				p.OwnerType = &ownerType
			}
		}
	}

	if oidRaw, ok := raw["owner_id"]; ok && !isNull(oidRaw) {
		var oid int64
		if err := json.Unmarshal(oidRaw, &oid); err != nil {
			fe.add("owner_id", msgNotInteger)
		} else {
			p.OwnerID = &oid
		}
	}

	if ipRaw, ok := raw["is_primary"]; ok {
		if isNull(ipRaw) {
			fe.add("is_primary", msgNullField)
		} else {
			var ip bool
			if err := json.Unmarshal(ipRaw, &ip); err != nil {
				fe.add("is_primary", msgNotBoolean)
			} else {
				p.IsPrimary = &ip
			}
		}
	}

	if len(fe) > 0 {
		return nil, fe
	}
	return p, nil
}

func addContractErrors(fe FieldErrors, err error) {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		fe.add("_schema", "Invalid input type.")
		return
	}
	for _, e := range errs {
		switch e.StructField() {
		case "Name":
			if e.Tag() == "required" {
				fe.add("name", msgRequiredField)
			} else {
				fe.add("name", msgNameLength)
			}
		case "Description":
			fe.add("description", msgDescLength)
		}
	}
}
