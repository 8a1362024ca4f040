package schema

// FieldType identifies the kind of value a form field collects.
type FieldType string

const (
	FieldTypeShortText  FieldType = "short-text"
	FieldTypeText       FieldType = "text"
	FieldTypeMediumText FieldType = "medium-text"
	FieldTypeLongText   FieldType = "long-text"
	FieldTypeFile       FieldType = "file"
	FieldTypeImage      FieldType = "image"
	FieldTypeVideo      FieldType = "video"
	FieldTypeDocument   FieldType = "document"
	FieldTypeOptions    FieldType = "options"
	FieldTypeDate       FieldType = "date"
	FieldTypeTime       FieldType = "time"
	FieldTypeDateTime   FieldType = "datetime"
	FieldTypeNumber     FieldType = "number"
	FieldTypeBoolean    FieldType = "boolean"
	FieldTypeTag        FieldType = "tag"
	FieldTypeRating     FieldType = "rating"
	FieldTypeURL        FieldType = "url"
	FieldTypeEmail      FieldType = "email"
	FieldTypePhone      FieldType = "phone"
	FieldTypeAddress    FieldType = "address"
	FieldTypeCountry    FieldType = "country"
	FieldTypeDivider    FieldType = "divider"
	FieldTypeSpacing    FieldType = "spacing"
	FieldTypeHidden     FieldType = "hidden"
)

// AllFieldTypes lists every field type a schema may declare, in documentation order.
var AllFieldTypes = []FieldType{
	FieldTypeShortText, FieldTypeText, FieldTypeMediumText, FieldTypeLongText,
	FieldTypeFile, FieldTypeImage, FieldTypeVideo, FieldTypeDocument,
	FieldTypeOptions, FieldTypeDate, FieldTypeTime, FieldTypeDateTime,
	FieldTypeNumber, FieldTypeBoolean, FieldTypeTag, FieldTypeRating,
	FieldTypeURL, FieldTypeEmail, FieldTypePhone, FieldTypeAddress,
	FieldTypeCountry, FieldTypeDivider, FieldTypeSpacing, FieldTypeHidden,
}

var knownFieldTypes = func() map[FieldType]bool {
	m := make(map[FieldType]bool, len(AllFieldTypes))
	for _, t := range AllFieldTypes {
		m[t] = true
	}
	return m
}()

// Valid reports whether t is one of the closed set of field types.
func (t FieldType) Valid() bool {
	return knownFieldTypes[t]
}

// IsFile reports whether t collects uploads (file, image, video, document).
func (t FieldType) IsFile() bool {
	switch t {
	case FieldTypeFile, FieldTypeImage, FieldTypeVideo, FieldTypeDocument:
		return true
	}
	return false
}

// IsText reports whether t collects free text.
func (t FieldType) IsText() bool {
	switch t {
	case FieldTypeShortText, FieldTypeText, FieldTypeMediumText, FieldTypeLongText,
		FieldTypeAddress, FieldTypeCountry:
		return true
	}
	return false
}

// IsLayout reports whether t is a purely visual element without a submitted value.
func (t FieldType) IsLayout() bool {
	return t == FieldTypeDivider || t == FieldTypeSpacing
}

// OptionType is the presentation style of an options field.
type OptionType string

const (
	OptionTypeSelect      OptionType = "select"
	OptionTypeRadio       OptionType = "radio"
	OptionTypeMultiSelect OptionType = "multi-select"
	OptionTypeCheckbox    OptionType = "checkbox"
)

// Multiple reports whether the option style accepts a list of keys.
func (t OptionType) Multiple() bool {
	return t == OptionTypeMultiSelect || t == OptionTypeCheckbox
}

// Schema is the root of a form definition.
type Schema struct {
	Form Form `json:"form"`
}

// Form holds the ordered pages of a schema.
type Form struct {
	Pages []Page `json:"pages"`
}

// Page groups sections.
type Page struct {
	Key      string    `json:"key"`
	Sections []Section `json:"sections"`
}

// Section groups fields.
type Section struct {
	Key    string  `json:"key"`
	Fields []Field `json:"fields"`
}

// Field is a single submittable value together with its rules.
type Field struct {
	// Key identifies the value in the submission payload.
	Key string `json:"key"`

	// Type selects the implicit rules derived for the field.
	Type FieldType `json:"type"`

	// Required adds a leading required rule.
	Required bool `json:"required,omitempty"`

	// Constraints holds type specific limits (min_length, max, step, accept, ...).
	Constraints map[string]any `json:"constraints,omitempty"`

	// OptionProperties is set for options fields.
	OptionProperties *OptionProperties `json:"option_properties,omitempty"`

	// Validations are the explicit rules, evaluated in declared order.
	Validations []RuleSpec `json:"validations,omitempty"`

	// Path is the location of the field inside the schema,
	// e.g. form.pages[0].sections[1].fields[2].
	Path string `json:"-"`
}

// Constraint returns the raw constraint value and whether it is present.
func (f Field) Constraint(name string) (any, bool) {
	if f.Constraints == nil {
		return nil, false
	}
	v, ok := f.Constraints[name]
	return v, ok
}

// OptionProperties describes the choices of an options field.
type OptionProperties struct {
	Type      OptionType   `json:"type"`
	MaxSelect *int64       `json:"max_select,omitempty"`
	Data      []OptionItem `json:"data"`
}

// Keys returns the declared option keys in order.
func (o *OptionProperties) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, len(o.Data))
	for _, item := range o.Data {
		keys = append(keys, item.Key)
	}
	return keys
}

// OptionItem is one selectable choice.
type OptionItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RuleSpec is an explicit validation rule as authored in the schema.
type RuleSpec struct {
	Rule    string `json:"rule"`
	Params  []any  `json:"params,omitempty"`
	Message string `json:"message,omitempty"`
}

// Fields returns every field of the schema in document order
// (page, then section, then field).
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	var out []Field
	for _, page := range s.Form.Pages {
		for _, section := range page.Sections {
			out = append(out, section.Fields...)
		}
	}
	return out
}
