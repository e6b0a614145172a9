package session

import (
	"atm-simulator/internal/models"

	"github.com/google/uuid"
)

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenMainMenu
	ScreenBalance
	ScreenWithdraw
	ScreenTransfer
	ScreenChangePassword
	ScreenTerminated
)

var screenNames = [...]string{
	ScreenLogin:          "login",
	ScreenRegister:       "register",
	ScreenMainMenu:       "main_menu",
	ScreenBalance:        "balance",
	ScreenWithdraw:       "withdraw",
	ScreenTransfer:       "transfer",
	ScreenChangePassword: "change_password",
	ScreenTerminated:     "terminated",
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return "unknown"
	}
	return screenNames[s]
}

// Field names one input a screen collects.
type Field string

const (
	FieldAccount          Field = "account"
	FieldPassword         Field = "password"
	FieldIDCard           Field = "id_card"
	FieldName             Field = "name"
	FieldAmount           Field = "amount"
	FieldToAccount        Field = "to_account"
	FieldConfirmToAccount Field = "confirm_to_account"
	FieldOldPassword      Field = "old_password"
	FieldNewPassword      Field = "new_password"
	FieldConfirmPassword  Field = "confirm_password"
)

const welcomeStatus = "WELCOME!"

// Session is the state of the single interactive user. It is a value: the
// controller returns a new Session instead of mutating the one it was given.
type Session struct {
	ID               string
	CurrentAccountID string
	LoginAttempts    models.LoginAttempts
	Screen           Screen
	Status           string
	inputs           map[Field]string
}

// New starts an unauthenticated session on the login screen.
func New() Session {
	return Session{
		ID:     uuid.NewString(),
		Screen: ScreenLogin,
		Status: welcomeStatus,
	}
}

func (s Session) Authenticated() bool {
	return s.CurrentAccountID != ""
}

func (s Session) Terminated() bool {
	return s.Screen == ScreenTerminated
}

// Input returns the pending value of f, or "".
func (s Session) Input(f Field) string {
	return s.inputs[f]
}

// WithInputs returns a copy of s with values merged into its pending inputs.
func (s Session) WithInputs(values map[Field]string) Session {
	if len(values) == 0 {
		return s
	}
	next := make(map[Field]string, len(s.inputs)+len(values))
	for k, v := range s.inputs {
		next[k] = v
	}
	for k, v := range values {
		next[k] = v
	}
	s.inputs = next
	return s
}

// withoutInputs returns a copy of s with the given fields cleared, or all of
// them when none are named.
func (s Session) withoutInputs(fields ...Field) Session {
	if len(fields) == 0 {
		s.inputs = nil
		return s
	}
	next := make(map[Field]string, len(s.inputs))
	for k, v := range s.inputs {
		next[k] = v
	}
	for _, f := range fields {
		delete(next, f)
	}
	s.inputs = next
	return s
}

func (s Session) to(screen Screen, status string) Session {
	s.Screen = screen
	s.Status = status
	return s
}

// loggedOut is the state after ejecting the card.
func (s Session) loggedOut(status string) Session {
	s.CurrentAccountID = ""
	s.LoginAttempts = models.LoginAttempts{}
	return s.withoutInputs().to(ScreenLogin, status)
}
