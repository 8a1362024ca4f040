package validator

import (
	"fmt"

	"github.com/opheus2/form-schema-validator/pkg/result"
	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// Messages reported by the structural validator.
const (
	MsgFormMissing         = "Schema must include a form object."
	MsgPagesMissing        = "Form must include at least one page."
	MsgPageNotObject       = "Page must be an object."
	MsgPageKeyMissing      = "Page key is required."
	MsgSectionsNotList     = "Sections must be an array."
	MsgSectionNotObject    = "Section must be an object."
	MsgSectionKeyMissing   = "Section key is required."
	MsgFieldsNotList       = "Fields must be an array."
	MsgFieldNotObject      = "Field must be an object."
	MsgFieldKeyMissing     = "Field key is required."
	MsgFieldTypeInvalid    = "Field type is invalid or missing."
	MsgOptionsDataRequired = "Options field requires option_properties.data."
)

// StructuralValidator walks a raw schema document and records shape errors.
// It holds no state and is safe for concurrent use.
type StructuralValidator struct{}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{}
}

// Validate checks raw and returns every structural error found.
func (v *StructuralValidator) Validate(raw map[string]any) *result.Result {
	res := result.New()

	form, ok := raw["form"].(map[string]any)
	if !ok {
		res.Set("form", MsgFormMissing)
		return res
	}

	pages, ok := form["pages"].([]any)
	if !ok || len(pages) == 0 {
		res.Set("form.pages", MsgPagesMissing)
		return res
	}

	for pi, page := range pages {
		v.validatePage(res, page, fmt.Sprintf("form.pages[%d]", pi))
	}
	return res
}

func (v *StructuralValidator) validatePage(res *result.Result, raw any, path string) {
	page, ok := raw.(map[string]any)
	if !ok {
		res.Set(path, MsgPageNotObject)
		return
	}

	if !schema.Truthy(page["key"]) {
		res.Set(path+".key", MsgPageKeyMissing)
	}

	sections, ok := page["sections"].([]any)
	if !ok {
		res.Set(path+".sections", MsgSectionsNotList)
		return
	}

	for si, section := range sections {
		v.validateSection(res, section, fmt.Sprintf("%s.sections[%d]", path, si))
	}
}

func (v *StructuralValidator) validateSection(res *result.Result, raw any, path string) {
	section, ok := raw.(map[string]any)
	if !ok {
		res.Set(path, MsgSectionNotObject)
		return
	}

	if !schema.Truthy(section["key"]) {
		res.Set(path+".key", MsgSectionKeyMissing)
	}

	fields, ok := section["fields"].([]any)
	if !ok {
		res.Set(path+".fields", MsgFieldsNotList)
		return
	}

	for fi, field := range fields {
		v.validateField(res, field, fmt.Sprintf("%s.fields[%d]", path, fi))
	}
}

func (v *StructuralValidator) validateField(res *result.Result, raw any, path string) {
	field, ok := raw.(map[string]any)
	if !ok {
		res.Set(path, MsgFieldNotObject)
		return
	}

	if !schema.Truthy(field["key"]) {
		res.Set(path+".key", MsgFieldKeyMissing)
	}

	typ, _ := field["type"].(string)
	if !schema.FieldType(typ).Valid() {
		res.Set(path+".type", MsgFieldTypeInvalid)
	}

	if schema.FieldType(typ) == schema.FieldTypeOptions {
		props, _ := field["option_properties"].(map[string]any)
		data, _ := props["data"].([]any)
		if len(data) == 0 {
			res.Set(path+".option_properties.data", MsgOptionsDataRequired)
		}
	}
}
