// templates/funcs.go
package templates

import "html/template"

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// {{ fieldError .Errors "email" }} yields "" when the field is clean.
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
	}
}
