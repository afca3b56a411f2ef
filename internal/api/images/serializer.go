package images

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"image-api/internal/domain/media"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm/schema"
)

const (
	msgRequired   = "This field is required."
	msgNull       = "This field may not be null."
	msgBlank      = "This field may not be blank."
	msgNotString  = "Not a valid string."
	msgNotInteger = "A valid integer is required."
)

// ValidationErrors maps a wire field name to its error messages.
type ValidationErrors map[string][]string

func (e ValidationErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e[name], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationErrors) add(name, msg string) {
	e[name] = append(e[name], msg)
}

type getter func(img *media.Image) any

// setter decodes raw into f and returns the decoded value for rule checks.
type setter func(f *media.Fields, raw json.RawMessage) (any, error)

type field struct {
	name     string
	column   string
	readOnly bool
	required bool
	rules    string
	get      getter
	set      setter
}

var imageFields = []field{
	{
		name: "id", column: "id", readOnly: true,
		get: func(img *media.Image) any { return img.ID },
	},
	{
		name: "title", column: "title", required: true, rules: "required,max=255",
		get: func(img *media.Image) any { return img.Title },
		set: stringSetter(func(f *media.Fields, v *string) { f.Title = v }),
	},
	{
		name: "description", column: "description", rules: "max=2000",
		get: func(img *media.Image) any { return img.Description },
		set: stringSetter(func(f *media.Fields, v *string) { f.Description = v }),
	},
	{
		name: "image", column: "image", required: true, rules: "required,max=500",
		get: func(img *media.Image) any { return img.File },
		set: stringSetter(func(f *media.Fields, v *string) { f.File = v }),
	},
	{
		name: "content_type", column: "content_type",
		rules: "omitempty,oneof=image/jpeg image/png image/gif image/webp",
		get:   func(img *media.Image) any { return img.ContentType },
		set:   stringSetter(func(f *media.Fields, v *string) { f.ContentType = v }),
	},
	{
		name: "width", column: "width", rules: "min=0",
		get: func(img *media.Image) any { return img.Width },
		set: intSetter(func(f *media.Fields, v *int) { f.Width = v }),
	},
	{
		name: "height", column: "height", rules: "min=0",
		get: func(img *media.Image) any { return img.Height },
		set: intSetter(func(f *media.Fields, v *int) { f.Height = v }),
	},
	{
		name: "created_at", column: "created_at", readOnly: true,
		get: func(img *media.Image) any { return img.CreatedAt },
	},
	{
		name: "updated_at", column: "updated_at", readOnly: true,
		get: func(img *media.Image) any { return img.UpdatedAt },
	},
}

var (
	errNotString  = errors.New(msgNotString)
	errNotInteger = errors.New(msgNotInteger)
)

func stringSetter(assign func(f *media.Fields, v *string)) setter {
	return func(f *media.Fields, raw json.RawMessage) (any, error) {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errNotString
		}
		v = strings.TrimSpace(v)
		assign(f, &v)
		return v, nil
	}
}

func intSetter(assign func(f *media.Fields, v *int)) setter {
	return func(f *media.Fields, raw json.RawMessage) (any, error) {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errNotInteger
		}
		assign(f, &v)
		return v, nil
	}
}

// Serializer converts between the wire form of an Image and media.Fields.
type Serializer struct {
	fields   []field
	validate *validator.Validate
}

// NewSerializer builds the Image serializer and checks its field table
// against the GORM schema of media.Image.
func NewSerializer() (*Serializer, error) {
	return newSerializer(imageFields)
}

func newSerializer(fields []field) (*Serializer, error) {
	s := &Serializer{fields: fields, validate: validator.New()}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("image serializer: %w", err)
	}
	return s, nil
}

func (s *Serializer) check() error {
	sch, err := schema.Parse(&media.Image{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	seen := make(map[string]bool, len(s.fields))
	for _, f := range s.fields {
		if f.name == "" {
			return errors.New("field without a name")
		}
		if seen[f.name] {
			return fmt.Errorf("field %q declared twice", f.name)
		}
		seen[f.name] = true

		if _, ok := sch.FieldsByDBName[f.column]; !ok {
			return fmt.Errorf("field %q: no column %q on images", f.name, f.column)
		}
		if f.get == nil {
			return fmt.Errorf("field %q: missing getter", f.name)
		}
		if f.readOnly {
			if f.set != nil || f.required {
				return fmt.Errorf("field %q: read-only field cannot be written or required", f.name)
			}
			continue
		}
		if f.set == nil {
			return fmt.Errorf("field %q: missing setter", f.name)
		}
		if err := s.checkRules(f); err != nil {
			return err
		}
	}
	return nil
}

// checkRules runs the rule string once so a bad tag fails at startup.
func (s *Serializer) checkRules(f field) (err error) {
	if f.rules == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("field %q: bad rules %q: %v", f.name, f.rules, r)
		}
	}()
	_ = s.validate.Var(f.get(&media.Image{}), f.rules)
	return nil
}

// ToWire renders img using every field of the table.
func (s *Serializer) ToWire(img *media.Image) map[string]any {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		out[f.name] = f.get(img)
	}
	return out
}

func (s *Serializer) ToWireList(images []media.Image) []map[string]any {
	out := make([]map[string]any, 0, len(images))
	for i := range images {
		out = append(out, s.ToWire(&images[i]))
	}
	return out
}

// FromWire validates payload and returns the writable fields it carries.
// With partial set, absent required fields are not reported. Unknown and
// read-only keys are ignored.
func (s *Serializer) FromWire(payload map[string]json.RawMessage, partial bool) (media.Fields, error) {
	var fields media.Fields
	errs := ValidationErrors{}

	for _, f := range s.fields {
		if f.readOnly {
			continue
		}

		raw, ok := payload[f.name]
		if !ok {
			if f.required && !partial {
				errs.add(f.name, msgRequired)
			}
			continue
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			errs.add(f.name, msgNull)
			continue
		}

		value, err := f.set(&fields, raw)
		if err != nil {
			errs.add(f.name, err.Error())
			continue
		}

		if f.rules == "" {
			continue
		}
		if err := s.validate.Var(value, f.rules); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return media.Fields{}, fmt.Errorf("validate %s: %w", f.name, err)
			}
			for _, fe := range verrs {
				errs.add(f.name, ruleMessage(fe))
			}
		}
	}

	if len(errs) > 0 {
		return media.Fields{}, errs
	}
	return fields, nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgBlank
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
