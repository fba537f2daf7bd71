package userform

// Message keys used by the rule set.
const (
	MsgNameRequired     = "name_required"
	MsgNameInvalid      = "name_invalid"
	MsgEmailRequired    = "email_required"
	MsgEmailFormat      = "email_format"
	MsgEmailDomain      = "email_domain"
	MsgPasswordTooShort = "password_min"
)

// Messages maps a rule's message key to the text shown next to the field.
type Messages map[string]string

// DefaultMessages is the pt-BR catalog shown by the form.
func DefaultMessages() Messages {
	return Messages{
		MsgNameRequired:     "O nome é obrigatório",
		MsgNameInvalid:      "O nome contém caracteres inválidos",
		MsgEmailRequired:    "O e-mail é obrigatório",
		MsgEmailFormat:      "Formato de e-mail inválido",
		MsgEmailDomain:      "E-mail não pertence ao domínio permitido",
		MsgPasswordTooShort: "A senha precisa de no mínimo 6 caracteres",
	}
}

// Get returns the message for key, falling back to the default catalog and
// finally to the key itself.
func (m Messages) Get(key string) string {
	if msg, ok := m[key]; ok && msg != "" {
		return msg
	}
	if msg, ok := DefaultMessages()[key]; ok {
		return msg
	}
	return key
}
