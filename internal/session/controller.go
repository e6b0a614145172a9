package session

import (
	"atm-simulator/internal/models"
	"atm-simulator/internal/repository"
	"atm-simulator/internal/services"
	"atm-simulator/internal/utils"
	"context"
	"errors"
	"fmt"
	"time"
)

// Ledger is the subset of services.Ledger the controller drives.
type Ledger interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error)
	Login(ctx context.Context, req models.LoginRequest, attempts models.LoginAttempts) (models.LoginAttempts, error)
	Withdraw(ctx context.Context, req models.WithdrawRequest) (models.Money, error)
	Transfer(ctx context.Context, req models.TransferRequest) (models.Money, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
	Summary(accountID string) (*models.AccountSummary, error)
}

// Observer receives the outcome of every handled action.
type Observer interface {
	ObserveAction(action string, err error, elapsed time.Duration)
}

var ErrActionNotAllowed = errors.New("action is not available on this screen")

type Controller struct {
	ledger   Ledger
	observer Observer
	handlers map[ActionKind]handlerFunc
}

func NewController(ledger Ledger, observer Observer) *Controller {
	c := &Controller{ledger: ledger, observer: observer}
	c.handlers = map[ActionKind]handlerFunc{
		SubmitLogin:          c.submitLogin,
		ChooseRegister:       c.chooseRegister,
		SubmitRegister:       c.submitRegister,
		SelectBalance:        requireAuth(c.open(ScreenBalance, "")),
		SelectWithdraw:       requireAuth(c.open(ScreenWithdraw, "")),
		SelectTransfer:       requireAuth(c.open(ScreenTransfer, "")),
		SelectChangePassword: requireAuth(c.open(ScreenChangePassword, "")),
		SubmitWithdraw:       requireAuth(c.submitWithdraw),
		SubmitTransfer:       requireAuth(c.submitTransfer),
		SubmitChangePassword: requireAuth(c.submitChangePassword),
		EjectCard:            c.ejectCard,
		RequestExit:          c.requestExit,
		Back:                 c.back,
	}
	return c
}

// Handle applies a to s and returns the next session. Rejections by the
// ledger keep the screen and only set Status. The error is non-nil only for
// persistence failures, which the caller must treat as fatal; the returned
// session then carries the failure in Status.
func (c *Controller) Handle(ctx context.Context, s Session, a Action) (Session, error) {
	start := time.Now()
	utils.LogAction(s.ID, a.Kind.String(), s.Screen.String())

	handler, ok := c.handlers[a.Kind]
	if !ok || !allowed(s.Screen, a.Kind) {
		c.observe(s, a, ErrActionNotAllowed, start)
		s.Status = fmt.Sprintf("%s: %s", ErrActionNotAllowed, a.Kind)
		return s, nil
	}

	s = s.WithInputs(a.Inputs)
	next, err := handler(ctx, s)
	c.observe(s, a, err, start)
	if err != nil {
		next.Status = err.Error()
		if errors.Is(err, repository.ErrPersist) {
			utils.LogError("Session", "fatal persistence failure", err)
			return next, err
		}
	}
	return next, nil
}

// Summary returns the account panel for the authenticated account.
func (c *Controller) Summary(_ context.Context, s Session) (*models.AccountSummary, error) {
	if !s.Authenticated() {
		return nil, errors.New(loginRequiredStatus)
	}
	return c.ledger.Summary(s.CurrentAccountID)
}

func (c *Controller) observe(s Session, a Action, err error, start time.Time) {
	elapsed := time.Since(start)
	utils.LogOutcome(s.ID, a.Kind.String(), err, elapsed)
	if c.observer != nil {
		c.observer.ObserveAction(a.Kind.String(), err, elapsed)
	}
}

func (c *Controller) submitLogin(ctx context.Context, s Session) (Session, error) {
	req := models.LoginRequest{AccountID: s.Input(FieldAccount), Password: s.Input(FieldPassword)}
	attempts, err := c.ledger.Login(ctx, req, s.LoginAttempts)
	s.LoginAttempts = attempts
	if err != nil {
		return s, err
	}
	s.CurrentAccountID = req.AccountID
	return s.withoutInputs(FieldPassword).to(ScreenMainMenu, "Login successful!"), nil
}

func (c *Controller) chooseRegister(_ context.Context, s Session) (Session, error) {
	return s.to(ScreenRegister, "Please fill in the registration details"), nil
}

func (c *Controller) submitRegister(ctx context.Context, s Session) (Session, error) {
	account, err := c.ledger.Register(ctx, models.RegisterRequest{
		AccountID: s.Input(FieldAccount),
		Password:  s.Input(FieldPassword),
		IDCard:    s.Input(FieldIDCard),
		Name:      s.Input(FieldName),
	})
	if err != nil {
		return s, err
	}
	s.CurrentAccountID = account.ID
	s.LoginAttempts = models.LoginAttempts{}
	status := fmt.Sprintf("Account registered! Initial balance: %s", account.Balance.Display())
	return s.withoutInputs(FieldPassword, FieldIDCard, FieldName).to(ScreenMainMenu, status), nil
}

func (c *Controller) open(screen Screen, status string) handlerFunc {
	return func(_ context.Context, s Session) (Session, error) {
		return s.to(screen, status), nil
	}
}

func (c *Controller) submitWithdraw(ctx context.Context, s Session) (Session, error) {
	amount := s.Input(FieldAmount)
	if _, err := c.ledger.Withdraw(ctx, models.WithdrawRequest{AccountID: s.CurrentAccountID, Amount: amount}); err != nil {
		return s, err
	}
	s.Status = "Withdrawal successful: " + displayAmount(amount)
	return s.withoutInputs(FieldAmount), nil
}

func (c *Controller) submitTransfer(ctx context.Context, s Session) (Session, error) {
	amount := s.Input(FieldAmount)
	_, err := c.ledger.Transfer(ctx, models.TransferRequest{
		FromAccountID:      s.CurrentAccountID,
		ToAccountID:        s.Input(FieldToAccount),
		ConfirmToAccountID: s.Input(FieldConfirmToAccount),
		Amount:             amount,
	})
	if err != nil {
		return s, err
	}
	s.Status = "Transfer successful: " + displayAmount(amount)
	return s.withoutInputs(Fields(ScreenTransfer)...), nil
}

func (c *Controller) submitChangePassword(ctx context.Context, s Session) (Session, error) {
	err := c.ledger.ChangePassword(ctx, models.ChangePasswordRequest{
		AccountID:       s.CurrentAccountID,
		OldPassword:     s.Input(FieldOldPassword),
		NewPassword:     s.Input(FieldNewPassword),
		ConfirmPassword: s.Input(FieldConfirmPassword),
	})
	if err != nil {
		return s, err
	}
	s.Status = "Password changed successfully!"
	return s.withoutInputs(Fields(ScreenChangePassword)...), nil
}

func (c *Controller) ejectCard(_ context.Context, s Session) (Session, error) {
	return s.loggedOut("Card ejected, please take your card"), nil
}

func (c *Controller) requestExit(_ context.Context, s Session) (Session, error) {
	return s.withoutInputs().to(ScreenTerminated, "Goodbye"), nil
}

// back clears the current screen's inputs and returns to its parent screen.
func (c *Controller) back(_ context.Context, s Session) (Session, error) {
	s = s.withoutInputs(Fields(s.Screen)...)
	if s.Screen == ScreenRegister {
		return s.to(ScreenLogin, "Back to login"), nil
	}
	return s.to(ScreenMainMenu, "Back to main menu"), nil
}

// displayAmount renders an accepted amount the way the ledger parsed it.
func displayAmount(raw string) string {
	m, err := models.ParseMoney(raw)
	if err != nil {
		return raw
	}
	return m.Display()
}

var _ Ledger = (*services.Ledger)(nil)
