// Package validation holds the field checks shared by clock, scheduler and
// score constructors. Every helper returns a *errors.ValidationError naming
// the module and field, or nil.
package validation
