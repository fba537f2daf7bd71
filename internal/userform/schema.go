// Package userform validates and normalizes the user sign-up form.
//
// A Schema checks each field independently (name, then email, then password)
// and returns either a normalized UserRecord or a FieldErrors list holding the
// first failure of every field that failed:
//
//	s := userform.New()
//	rec, err := s.Validate(userform.UserInput{Name: "john doe", Email: "JOHN@ROCKETSEAT.COM.BR", Password: "abcdef"})
//	var fe userform.FieldErrors
//	if errors.As(err, &fe) {
//	    fmt.Println(fe.Get(userform.FieldEmail))
//	}
package userform

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultDomain is the suffix every accepted e-mail must end with.
const DefaultDomain = "@rocketseat.com.br"

// MinPasswordLen is the minimum password length, counted in characters.
const MinPasswordLen = 6

// UserInput holds the raw form values as typed by the user.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRecord is the validated, normalized result of a submission.
type UserRecord struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Schema is the rule set for the sign-up form. It is safe for concurrent use.
type Schema struct {
	domain   string
	messages Messages
	logger   *zap.Logger
	syntax   *validator.Validate
}

// Option configures a Schema.
type Option func(*Schema)

// WithDomain sets the required e-mail suffix (e.g. "@example.com").
// The suffix is matched against the lower-cased address, so it is lower-cased
// here too. An empty suffix keeps the default.
func WithDomain(suffix string) Option {
	return func(s *Schema) {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix != "" {
			s.domain = suffix
		}
	}
}

// WithMessages overrides entries of the message catalog.
func WithMessages(m Messages) Option {
	return func(s *Schema) {
		for k, v := range m {
			s.messages[k] = v
		}
	}
}

// WithLogger sets the logger used to record normalized submissions.
func WithLogger(l *zap.Logger) Option {
	return func(s *Schema) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Schema with the default domain and pt-BR messages.
func New(opts ...Option) *Schema {
	s := &Schema{
		domain:   DefaultDomain,
		messages: DefaultMessages(),
		logger:   zap.NewNop(),
		syntax:   validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Domain returns the configured e-mail suffix.
func (s *Schema) Domain() string { return s.domain }

// Validate checks in and returns either the normalized record and a nil error,
// or a zero record and a non-empty FieldErrors.
func (s *Schema) Validate(in UserInput) (UserRecord, error) {
	var (
		rec  UserRecord
		errs FieldErrors
	)

	if v, key := s.name(in.Name); key != "" {
		errs = append(errs, s.fail(FieldName, key))
	} else {
		rec.Name = v
	}

	if v, key := s.email(in.Email); key != "" {
		errs = append(errs, s.fail(FieldEmail, key))
	} else {
		rec.Email = v
	}

	if v, key := s.password(in.Password); key != "" {
		errs = append(errs, s.fail(FieldPassword, key))
	} else {
		rec.Password = v
	}

	if len(errs) > 0 {
		s.logger.Debug("user form rejected", zap.Strings("fields", fieldNames(errs)))
		return UserRecord{}, errs
	}

	s.logger.Debug("user form accepted",
		zap.String("name", rec.Name),
		zap.String("email", rec.Email),
		zap.String("password", "[REDACTED]"),
	)
	return rec, nil
}

func (s *Schema) fail(field, key string) FieldError {
	return FieldError{Field: field, Message: s.messages.Get(key)}
}

// Each rule returns the normalized value, or a message key on failure.

func (s *Schema) name(raw string) (string, string) {
	if strings.TrimSpace(raw) == "" {
		return "", MsgNameRequired
	}
	if !utf8.ValidString(raw) {
		return "", MsgNameInvalid
	}
	return CapitalizeWords(raw), ""
}

func (s *Schema) email(raw string) (string, string) {
	if raw == "" {
		return "", MsgEmailRequired
	}
	if err := s.syntax.Var(raw, "email"); err != nil {
		return "", MsgEmailFormat
	}
	v := NormalizeEmail(raw)
	if !strings.HasSuffix(v, s.domain) {
		return "", MsgEmailDomain
	}
	return v, ""
}

func (s *Schema) password(raw string) (string, string) {
	if utf8.RuneCountInString(raw) < MinPasswordLen {
		return "", MsgPasswordTooShort
	}
	return raw, ""
}

func fieldNames(errs FieldErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}
