package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if err := validate.Struct(c.General); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
	}
	if err := validate.Struct(c.Trace); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "trace", "")...)
	}

	validationErrors = append(validationErrors, c.validateComponents()...)

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateComponents() ValidationErrors {
	var validationErrors ValidationErrors
	seenNames := make(map[string]bool)

	for i, comp := range c.Components {
		itemName := comp.Name
		if itemName == "" {
			itemName = fmt.Sprintf("component[%d]", i)
		}

		if err := validate.Struct(comp); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("component.%d", i), itemName)...)
		}

		if seenNames[comp.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate component name: %s", comp.Name),
			})
		}
		seenNames[comp.Name] = true
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
