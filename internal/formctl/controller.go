// Package formctl holds the explicit state behind the sign-up form: one value
// holder and one error holder per field, the submission state, and the last
// successful record rendered in the output region.
package formctl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dalemusser/userform/internal/userform"
	"go.uber.org/zap"
)

// State is the controller's position in the submission cycle.
type State int

const (
	// Editing is the initial state and the state after any edit.
	Editing State = iota
	// Validating is held only while Submit runs.
	Validating
	// Invalid means the last submission failed.
	Invalid
	// Valid means the last submission produced a record.
	Valid
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Validator is the contract the controller needs from the rule set.
type Validator interface {
	Validate(userform.UserInput) (userform.UserRecord, error)
}

// Result is the outcome of one submission: exactly one of Record or Errors
// is set.
type Result struct {
	Record *userform.UserRecord
	Errors userform.FieldErrors
}

// OK reports whether the submission produced a record.
func (r Result) OK() bool { return r.Record != nil }

// ErrUnknownField is returned by Set for a field the form does not have.
var ErrUnknownField = errors.New("formctl: unknown field")

// Controller is single-owner state for one form; it is not safe for
// concurrent use.
type Controller struct {
	v      Validator
	logger *zap.Logger

	values map[string]string
	errs   map[string]string
	state  State

	record *userform.UserRecord
	output string
}

// New creates a controller in the Editing state.
func New(v Validator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		v:      v,
		logger: logger,
		values: make(map[string]string, len(userform.Fields)),
		errs:   make(map[string]string, len(userform.Fields)),
		state:  Editing,
	}
}

// Set updates one field's value and returns the controller to Editing.
// Messages from the previous attempt stay until the next submit.
func (c *Controller) Set(field, value string) error {
	if !known(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.values[field] = value
	c.state = Editing
	return nil
}

// Input returns the current field values.
func (c *Controller) Input() userform.UserInput {
	return userform.UserInput{
		Name:     c.values[userform.FieldName],
		Email:    c.values[userform.FieldEmail],
		Password: c.values[userform.FieldPassword],
	}
}

// Value returns the current value of field.
func (c *Controller) Value(field string) string { return c.values[field] }

// SubmitInput replaces every field value with in and submits.
func (c *Controller) SubmitInput(in userform.UserInput) Result {
	c.values[userform.FieldName] = in.Name
	c.values[userform.FieldEmail] = in.Email
	c.values[userform.FieldPassword] = in.Password
	return c.Submit()
}

// Submit validates the current values. On success the normalized record
// replaces the output; on failure each failing field gets its message and
// the previous output is left in place.
func (c *Controller) Submit() Result {
	c.state = Validating

	rec, err := c.v.Validate(c.Input())
	clear(c.errs)

	if err != nil {
		var fe userform.FieldErrors
		if !errors.As(err, &fe) {
			// Non-field errors are shown against the first field.
			fe = userform.FieldErrors{{Field: userform.FieldName, Message: err.Error()}}
		}
		for _, e := range fe {
			c.errs[e.Field] = e.Message
		}
		c.state = Invalid
		c.logger.Debug("form submission invalid",
			zap.Int("errors", len(fe)),
			zap.String("state", c.state.String()))
		return Result{Errors: fe}
	}

	out, mErr := render(rec)
	if mErr != nil {
		c.logger.Error("render output failed", zap.Error(mErr))
	}
	c.record = &rec
	c.output = out
	c.state = Valid
	c.logger.Debug("form submission valid", zap.String("state", c.state.String()))

	r := rec
	return Result{Record: &r}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Error returns the message shown next to field, or "".
func (c *Controller) Error(field string) string { return c.errs[field] }

// Errors returns the messages from the last submission keyed by field.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

// Record returns the last successful record, if any.
func (c *Controller) Record() (userform.UserRecord, bool) {
	if c.record == nil {
		return userform.UserRecord{}, false
	}
	return *c.record, true
}

// Restore puts the output of an earlier success back into the output region,
// as when the page carries it across posts. It is ignored once this
// controller has produced a record of its own.
func (c *Controller) Restore(output string) {
	if c.record == nil {
		c.output = output
	}
}

// Output returns the pretty-printed JSON of the last successful record, or
// "" before the first success.
func (c *Controller) Output() string { return c.output }

// render serializes rec with a two-space indent. HTML characters are left
// as typed; the page template escapes them.
func render(rec userform.UserRecord) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func known(field string) bool {
	for _, f := range userform.Fields {
		if f == field {
			return true
		}
	}
	return false
}
