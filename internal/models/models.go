// package models defines the data model for the site pipelines
package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validator is implemented by every record that checks its own invariants.
type Validator interface {
	Validate() error // Validate checks if the record's data is valid and returns an error if not
}

// absoluteURL requires an http(s) URL with a host.
var absoluteURL = []validation.Rule{validation.Required, is.RequestURL}
