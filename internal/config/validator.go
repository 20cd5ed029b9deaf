package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	azfleeterrors "github.com/steve-rackham/azfleet/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	// Resource group names allow alphanumerics, underscores, parentheses,
	// hyphens, and periods, up to 90 characters, not ending in a period.
	resourceGroupPattern = regexp.MustCompile(`^[-\w().]{0,89}[-\w()]$`)
	tagSelectorPattern   = regexp.MustCompile(`^[^=]+=.+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("resource_group", func(fl validator.FieldLevel) bool {
			return resourceGroupPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("tag_selector", func(fl validator.FieldLevel) bool {
			return tagSelectorPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the
// configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return azfleeterrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(cfg.Fleet.ResourceGroups))
	for i, rg := range cfg.Fleet.ResourceGroups {
		key := strings.ToLower(rg)
		if _, dup := seen[key]; dup {
			field := fmt.Sprintf("fleet.resource_groups[%d]", i)
			return azfleeterrors.NewValidationError(field, fmt.Sprintf("duplicate resource group %q", rg), nil)
		}
		seen[key] = struct{}{}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return azfleeterrors.NewValidationError(field, msg, err)
	}

	return azfleeterrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
