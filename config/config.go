package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"crmimport/schema"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDateFormat = "date_format"
	KeyImports    = "imports"
)

// Config carries the injected import schemas. Field lists are configuration,
// not code, so the reconciliation engine stays domain-agnostic across the
// lead and fire-door import call sites.
type Config struct {
	// DateFormat is the Go layout applied to date-typed fields, an explicit
	// day/month/year contract rather than a locale guess.
	DateFormat string                `mapstructure:"date_format" validate:"required"`
	Imports    map[string]ImportKind `mapstructure:"imports"`
}

type ImportKind struct {
	Fields []FieldConfig `mapstructure:"fields"`
}

type FieldConfig struct {
	Key      string `mapstructure:"key"`
	Label    string `mapstructure:"label"`
	Required bool   `mapstructure:"required"`
	Type     string `mapstructure:"type"`
	Validate string `mapstructure:"validate"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# crmimport configuration
date_format: "02/01/2006"

imports:
  leads:
    fields:
      - key: contactName
        label: Contact Name
        required: true
      - key: email
        label: Email Address
        required: true
        validate: email
      - key: phone
        label: Phone
      - key: company
        label: Company
      - key: custom.source
        label: Lead Source
  fire_doors:
    fields:
      - key: doorRef
        label: Door Reference
        required: true
      - key: location
        label: Location
        required: true
      - key: rating
        label: Fire Rating
      - key: quantity
        label: Quantity
        type: number
      - key: surveyDate
        label: Survey Date
        type: date
      - key: certified
        label: Certified
        type: bool
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateImports(cfg.Imports); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDateFormat, "02/01/2006")
	v.SetDefault(KeyImports, map[string]any{})
}

func validateImports(imports map[string]ImportKind) error {
	validTypes := make(map[string]bool, 4)
	for _, fieldType := range schema.ValidTypes() {
		validTypes[fieldType] = true
	}

	for kind, spec := range imports {
		if strings.TrimSpace(kind) == "" {
			return fmt.Errorf("validation failed: import kind name must not be empty")
		}
		if len(spec.Fields) == 0 {
			return fmt.Errorf("validation failed: imports.%s requires at least one field", kind)
		}

		seen := make(map[string]struct{}, len(spec.Fields))
		for i, field := range spec.Fields {
			if strings.TrimSpace(field.Key) == "" {
				return fmt.Errorf("validation failed: imports.%s.fields[%d].key is required", kind, i)
			}
			if strings.TrimSpace(field.Label) == "" {
				return fmt.Errorf("validation failed: imports.%s.fields[%d].label is required", kind, i)
			}
			key := strings.ToLower(strings.TrimSpace(field.Key))
			if _, exists := seen[key]; exists {
				return fmt.Errorf("validation failed: imports.%s has duplicate field key %q", kind, field.Key)
			}
			seen[key] = struct{}{}

			fieldType := strings.ToLower(strings.TrimSpace(field.Type))
			if fieldType != "" && !validTypes[fieldType] {
				return fmt.Errorf(
					"validation failed: imports.%s.fields[%d].type %q is not supported (valid: %s)",
					kind, i, field.Type, strings.Join(schema.ValidTypes(), ", "),
				)
			}
		}
	}
	return nil
}

// FieldsFor resolves the expected fields of one configured import kind, in
// configured order.
func (c Config) FieldsFor(kind string) ([]schema.Field, error) {
	spec, ok := c.Imports[kind]
	if !ok {
		names := make([]string, 0, len(c.Imports))
		for name := range c.Imports {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown import kind %q (configured: %s)", kind, strings.Join(names, ", "))
	}

	fields := make([]schema.Field, 0, len(spec.Fields))
	for _, field := range spec.Fields {
		fields = append(fields, schema.Field{
			Key:      field.Key,
			Label:    field.Label,
			Required: field.Required,
			Type:     field.Type,
			Validate: field.Validate,
		})
	}
	return fields, nil
}
