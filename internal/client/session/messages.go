package session

import (
	"embed"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/atinyakov/TodoKeeper/internal/autherr"
)

//go:embed locales/*.toml
var locales embed.FS

var (
	msgEmailInUse    = &i18n.Message{ID: "EmailAlreadyInUse", Other: "That email address is already in use!"}
	msgInvalidEmail  = &i18n.Message{ID: "InvalidEmail", Other: "That email address is invalid!"}
	msgWeakPassword  = &i18n.Message{ID: "WeakPassword", Other: "Password should be at least 6 characters!"}
	msgUserDisabled  = &i18n.Message{ID: "UserDisabled", Other: "This account has been disabled!"}
	msgUserNotFound  = &i18n.Message{ID: "UserNotFound", Other: "No account found with this email!"}
	msgWrongPassword = &i18n.Message{ID: "WrongPassword", Other: "Incorrect password!"}
	msgResetSent     = &i18n.Message{ID: "ResetSent", Other: "Password reset email sent! Check your inbox."}

	titleSignUpError  = &i18n.Message{ID: "SignUpErrorTitle", Other: "Sign Up Error"}
	titleSignInError  = &i18n.Message{ID: "SignInErrorTitle", Other: "Sign In Error"}
	titleSignOutError = &i18n.Message{ID: "SignOutErrorTitle", Other: "Sign Out Error"}
	titleResetError   = &i18n.Message{ID: "ResetErrorTitle", Other: "Password Reset Error"}
	titleReset        = &i18n.Message{ID: "ResetTitle", Other: "Password Reset"}
)

// table maps provider codes of one operation to messages.
type table struct {
	fallback *i18n.Message
	codes    map[autherr.Code]*i18n.Message
}

var (
	signUpTable = table{
		fallback: &i18n.Message{ID: "SignUpFailed", Other: "An error occurred during sign up"},
		codes: map[autherr.Code]*i18n.Message{
			autherr.EmailAlreadyInUse: msgEmailInUse,
			autherr.InvalidEmail:      msgInvalidEmail,
			autherr.WeakPassword:      msgWeakPassword,
		},
	}
	signInTable = table{
		fallback: &i18n.Message{ID: "SignInFailed", Other: "An error occurred during sign in"},
		codes: map[autherr.Code]*i18n.Message{
			autherr.InvalidEmail:  msgInvalidEmail,
			autherr.UserDisabled:  msgUserDisabled,
			autherr.UserNotFound:  msgUserNotFound,
			autherr.WrongPassword: msgWrongPassword,
		},
	}
	signOutTable = table{
		fallback: &i18n.Message{ID: "SignOutFailed", Other: "An error occurred during sign out"},
	}
	resetTable = table{
		fallback: &i18n.Message{ID: "ResetFailed", Other: "An error occurred during password reset"},
		codes: map[autherr.Code]*i18n.Message{
			autherr.InvalidEmail: msgInvalidEmail,
			autherr.UserNotFound: msgUserNotFound,
		},
	}
)

// Messages renders user-facing texts in one language.
type Messages struct {
	localizer *i18n.Localizer
}

// NewMessages returns the texts for the BCP 47 tag lang. Languages without a
// catalog fall back to English.
func NewMessages(lang string) (*Messages, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("unknown language %q: %w", lang, err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	files, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read catalogs: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+f.Name()); err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", f.Name(), err)
		}
	}
	return &Messages{localizer: i18n.NewLocalizer(bundle, tag.String())}, nil
}

func english() *Messages {
	return &Messages{localizer: i18n.NewLocalizer(i18n.NewBundle(language.English), "en")}
}

func (m *Messages) text(msg *i18n.Message) string {
	s, err := m.localizer.Localize(&i18n.LocalizeConfig{DefaultMessage: msg})
	var notFound *i18n.MessageNotFoundErr
	if err != nil && !errors.As(err, &notFound) || s == "" {
		return msg.Other
	}
	return s
}

// lookup returns the message of the provider code carried by err, or the
// fallback of t.
func (m *Messages) lookup(t table, err error) string {
	if msg, ok := t.codes[autherr.CodeOf(err)]; ok {
		return m.text(msg)
	}
	return m.text(t.fallback)
}
