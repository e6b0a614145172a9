package session

type ActionKind int

const (
	SubmitLogin ActionKind = iota
	ChooseRegister
	SubmitRegister
	SelectBalance
	SelectWithdraw
	SelectTransfer
	SelectChangePassword
	SubmitWithdraw
	SubmitTransfer
	SubmitChangePassword
	EjectCard
	RequestExit
	Back
)

var actionNames = [...]string{
	SubmitLogin:          "submit_login",
	ChooseRegister:       "choose_register",
	SubmitRegister:       "submit_register",
	SelectBalance:        "select_balance",
	SelectWithdraw:       "select_withdraw",
	SelectTransfer:       "select_transfer",
	SelectChangePassword: "select_change_password",
	SubmitWithdraw:       "submit_withdraw",
	SubmitTransfer:       "submit_transfer",
	SubmitChangePassword: "submit_change_password",
	EjectCard:            "eject_card",
	RequestExit:          "request_exit",
	Back:                 "back",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[k]
}

// Action is one discrete user action. Inputs carries the values collected
// for the current screen; they are merged into the session before the action
// runs.
type Action struct {
	Kind   ActionKind
	Inputs map[Field]string
}

var screenFields = map[Screen][]Field{
	ScreenLogin:          {FieldAccount, FieldPassword},
	ScreenRegister:       {FieldAccount, FieldPassword, FieldIDCard, FieldName},
	ScreenWithdraw:       {FieldAmount},
	ScreenTransfer:       {FieldToAccount, FieldConfirmToAccount, FieldAmount},
	ScreenChangePassword: {FieldOldPassword, FieldNewPassword, FieldConfirmPassword},
}

var screenActions = map[Screen][]ActionKind{
	ScreenLogin:          {SubmitLogin, ChooseRegister, RequestExit},
	ScreenRegister:       {SubmitRegister, Back},
	ScreenMainMenu:       {SelectBalance, SelectWithdraw, SelectTransfer, SelectChangePassword, EjectCard, RequestExit},
	ScreenBalance:        {Back},
	ScreenWithdraw:       {SubmitWithdraw, Back},
	ScreenTransfer:       {SubmitTransfer, Back},
	ScreenChangePassword: {SubmitChangePassword, Back},
}

// Fields lists the inputs the screen collects, in display order.
func Fields(screen Screen) []Field {
	return append([]Field(nil), screenFields[screen]...)
}

// Actions lists the actions the screen accepts, in menu order.
func Actions(screen Screen) []ActionKind {
	return append([]ActionKind(nil), screenActions[screen]...)
}

func allowed(screen Screen, kind ActionKind) bool {
	for _, k := range screenActions[screen] {
		if k == kind {
			return true
		}
	}
	return false
}
