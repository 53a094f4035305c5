// Package validation provides input validation for fmtool's files and records.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tags cover manifest
// items and registry file entries; the fluent Validator covers ad-hoc checks
// such as command flags and the app config.
//
// # Struct Tag Validation
//
//	type Item struct {
//	    PlanID string `json:"plan_id" validate:"required"`
//	    Object string `json:"object_name" validate:"required,ident"`
//	}
//	err := validation.Validate(item)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("lineage.path", path).FMName("fm", name)
//	err := v.Validate()
package validation
