// Package validator checks request and message structs against their
// `validate` tags.
package validator

type Validator interface {
	Validate(data any) error
}
