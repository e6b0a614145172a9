package terminal

import (
	"atm-simulator/internal/models"
	"atm-simulator/internal/session"
	"atm-simulator/internal/utils"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var screenTitles = map[session.Screen]string{
	session.ScreenLogin:          "ATM - Login",
	session.ScreenRegister:       "ATM - Open an account",
	session.ScreenMainMenu:       "ATM - Main menu",
	session.ScreenBalance:        "ATM - Balance",
	session.ScreenWithdraw:       "ATM - Withdraw",
	session.ScreenTransfer:       "ATM - Transfer",
	session.ScreenChangePassword: "ATM - Change password",
}

var actionLabels = map[session.ActionKind]string{
	session.SubmitLogin:          "Log in",
	session.ChooseRegister:       "Open a new account",
	session.SubmitRegister:       "Register",
	session.SelectBalance:        "Balance",
	session.SelectWithdraw:       "Withdraw",
	session.SelectTransfer:       "Transfer",
	session.SelectChangePassword: "Change password",
	session.SubmitWithdraw:       "Withdraw",
	session.SubmitTransfer:       "Transfer",
	session.SubmitChangePassword: "Change password",
	session.EjectCard:            "Eject card",
	session.RequestExit:          "Exit",
	session.Back:                 "Back",
}

var fieldLabels = map[session.Field]string{
	session.FieldAccount:          "Account number (19 digits)",
	session.FieldPassword:         "Password (6 digits)",
	session.FieldIDCard:           "ID card number (18 characters)",
	session.FieldName:             "Name",
	session.FieldAmount:           "Amount",
	session.FieldToAccount:        "Recipient account",
	session.FieldConfirmToAccount: "Confirm recipient account",
	session.FieldOldPassword:      "Old password",
	session.FieldNewPassword:      "New password (6 digits)",
	session.FieldConfirmPassword:  "Confirm new password",
}

var secretFields = map[session.Field]bool{
	session.FieldPassword:        true,
	session.FieldOldPassword:     true,
	session.FieldNewPassword:     true,
	session.FieldConfirmPassword: true,
}

// Terminal renders the controller's screens as numbered menus on a line
// oriented stream. It holds no rules: every decision comes from the controller.
type Terminal struct {
	controller *session.Controller
	in         *bufio.Reader
	out        io.Writer
	secretFD   int
	hideInput  bool
}

// New builds a Terminal over in/out. When in is an interactive terminal,
// passwords are read without echo.
func New(controller *session.Controller, in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		controller: controller,
		in:         bufio.NewReader(in),
		out:        out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.secretFD = int(f.Fd())
		t.hideInput = true
	}
	return t
}

// Run drives s until the user exits, the input ends, or a fatal error occurs.
func (t *Terminal) Run(ctx context.Context, s session.Session) error {
	for !s.Terminated() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		t.render(ctx, s)

		action, err := t.readAction(s)
		if errors.Is(err, io.EOF) {
			utils.LogInfo("Terminal", "input closed, leaving")
			return nil
		}
		if err != nil {
			return err
		}

		next, err := t.controller.Handle(ctx, s, action)
		if err != nil {
			fmt.Fprintf(t.out, "\nFATAL: %s\n", next.Status)
			return err
		}
		s = next
	}
	fmt.Fprintf(t.out, "\n%s\n", s.Status)
	return nil
}

func (t *Terminal) render(ctx context.Context, s session.Session) {
	fmt.Fprintf(t.out, "\n==== %s ====\n", screenTitles[s.Screen])
	if s.Status != "" {
		fmt.Fprintf(t.out, "%s\n", s.Status)
	}

	switch s.Screen {
	case session.ScreenMainMenu, session.ScreenBalance, session.ScreenWithdraw:
		summary, err := t.controller.Summary(ctx, s)
		if err != nil {
			utils.LogWarning("Terminal", "account panel unavailable: %v", err)
			break
		}
		t.renderSummary(s.Screen, summary)
	}

	for i, kind := range session.Actions(s.Screen) {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, actionLabels[kind])
	}
}

func (t *Terminal) renderSummary(screen session.Screen, a *models.AccountSummary) {
	fmt.Fprintf(t.out, "Account: %s  Name: %s\n", a.ID, a.Name)
	fmt.Fprintf(t.out, "Balance: %s\n", a.Balance.Display())
	if screen == session.ScreenMainMenu {
		return
	}
	fmt.Fprintf(t.out, "Withdrawn today: %s\n", a.DailyWithdrawn.Display())
	fmt.Fprintf(t.out, "Single withdrawal limit: %s\n", a.SingleWithdrawalLimit.Display())
	fmt.Fprintf(t.out, "Daily withdrawal limit: %s\n", a.DailyWithdrawalLimit.Display())
	fmt.Fprintf(t.out, "Remaining today: %s\n", a.RemainingDaily.Display())
}

// readAction asks for a menu choice and then for the inputs of the current
// screen when the chosen action submits it.
func (t *Terminal) readAction(s session.Session) (session.Action, error) {
	actions := session.Actions(s.Screen)
	for {
		line, err := t.prompt("Choose")
		if err != nil {
			return session.Action{}, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(actions) {
			fmt.Fprintf(t.out, "Enter a number between 1 and %d\n", len(actions))
			continue
		}

		action := session.Action{Kind: actions[n-1]}
		if !submits(action.Kind) {
			return action, nil
		}
		action.Inputs = make(map[session.Field]string)
		for _, f := range session.Fields(s.Screen) {
			value, err := t.readField(f)
			if err != nil {
				return session.Action{}, err
			}
			action.Inputs[f] = value
		}
		return action, nil
	}
}

func (t *Terminal) readField(f session.Field) (string, error) {
	label := fieldLabels[f]
	if !secretFields[f] || !t.hideInput {
		return t.prompt(label)
	}
	fmt.Fprintf(t.out, "%s: ", label)
	secret, err := term.ReadPassword(t.secretFD)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f, err)
	}
	return string(secret), nil
}

func (t *Terminal) prompt(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func submits(kind session.ActionKind) bool {
	switch kind {
	case session.SubmitLogin, session.SubmitRegister, session.SubmitWithdraw,
		session.SubmitTransfer, session.SubmitChangePassword:
		return true
	}
	return false
}

// StartupStatus is the first message shown for a freshly loaded store.
func StartupStatus(emptyStore bool) string {
	if emptyStore {
		return "User data file not found, a new one will be created."
	}
	return "WELCOME!"
}
