package services

import (
	"atm-simulator/internal/models"
	"atm-simulator/internal/repository"
	"atm-simulator/internal/utils"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	AccountIDLength  = 19
	IDCardLength     = 18
	PasswordLength   = 6
	MinNameLength    = 2
	MaxNameLength    = 20
	MaxLoginAttempts = 3

	dailyDateLayout = "2006-01-02"
	lockedTrue      = "true"
	lockedFalse     = "false"
)

var (
	WithdrawalUnit        = models.Units(100)
	InitialBalance        = models.Units(10000)
	SingleWithdrawalLimit = models.Units(2000)
	DailyWithdrawalLimit  = models.Units(5000)
)

// reader is satisfied by both *repository.Store and *repository.Tx.
type reader interface {
	Get(key string) string
	Has(key string) bool
	Keys(field string) []string
}

// Ledger holds the account rules on top of the flat store. Every mutating
// operation runs inside one Store.Update, so a rejected or unsaved operation
// leaves the store as it was.
type Ledger struct {
	store      *repository.Store
	auth       *AuthService
	now        func() time.Time
	resetDaily bool
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithDailyReset toggles starting the daily withdrawal counter from zero on a
// new calendar day. Disabled, the counter only ever grows.
func WithDailyReset(enabled bool) Option {
	return func(l *Ledger) { l.resetDaily = enabled }
}

func NewLedger(store *repository.Store, auth *AuthService, opts ...Option) *Ledger {
	l := &Ledger{
		store:      store,
		auth:       auth,
		now:        time.Now,
		resetDaily: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) AccountExists(accountID string) bool {
	return accountExists(l.store, accountID)
}

func accountExists(r reader, accountID string) bool {
	return accountID != "" && r.Has(repository.PasswordKey(accountID))
}

func (l *Ledger) FindAccountByIDCard(idCard string) string {
	return findAccountByIDCard(l.store, idCard)
}

func findAccountByIDCard(r reader, idCard string) string {
	if idCard == "" {
		return ""
	}
	for _, key := range r.Keys(repository.FieldIDCard) {
		if !strings.EqualFold(r.Get(key), idCard) {
			continue
		}
		if id, ok := repository.AccountIDFromKey(key, repository.FieldIDCard); ok {
			return id
		}
	}
	return ""
}

func (l *Ledger) Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error) {
	utils.LogInfo("Ledger", "register account %s", req.AccountID)

	name := strings.TrimSpace(req.Name)
	if req.AccountID == "" || req.Password == "" || req.IDCard == "" || name == "" {
		return nil, ErrEmptyField
	}
	if !isValidAccountID(req.AccountID) {
		return nil, ErrInvalidAccountFormat
	}

	var account *models.Account
	err := l.store.Update(ctx, func(tx *repository.Tx) error {
		if accountExists(tx, req.AccountID) {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, req.AccountID)
		}
		if !isValidIDCard(req.IDCard) {
			return ErrInvalidIDCardFormat
		}
		idCard := normalizeIDCard(req.IDCard)
		if owner := findAccountByIDCard(tx, idCard); owner != "" {
			return fmt.Errorf("%w %s", ErrDuplicateIDCard, owner)
		}
		if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
			return ErrInvalidNameLength
		}
		if !isStorableName(name) {
			return ErrInvalidNameCharacters
		}
		if !isDigits(req.Password, PasswordLength) {
			return ErrInvalidPasswordFormat
		}

		hash, err := l.auth.HashPassword(req.Password)
		if err != nil {
			return err
		}
		tx.Set(repository.PasswordKey(req.AccountID), hash)
		tx.Set(repository.BalanceKey(req.AccountID), InitialBalance.String())
		tx.Set(repository.DailyWithdrawalKey(req.AccountID), models.Money(0).String())
		tx.Set(repository.LockedKey(req.AccountID), lockedFalse)
		tx.Set(repository.IDCardKey(req.AccountID), idCard)
		tx.Set(repository.NameKey(req.AccountID), name)

		account = &models.Account{
			ID:      req.AccountID,
			Name:    name,
			IDCard:  idCard,
			Balance: InitialBalance,
		}
		return nil
	})
	if err != nil {
		utils.LogWarning("Ledger", "register %s rejected: %v", req.AccountID, err)
		return nil, err
	}

	utils.LogSuccess("Ledger", "account %s registered (balance %s)", account.ID, account.Balance.Display())
	return account, nil
}

// Login checks the password for req.AccountID. attempts is the caller's
// counter of consecutive failures; it restarts when the target account
// changes and after a success. The returned counter replaces the caller's.
// The failure that reaches MaxLoginAttempts locks the account and returns an
// error matching both ErrWrongPassword and ErrAccountLocked.
func (l *Ledger) Login(ctx context.Context, req models.LoginRequest, attempts models.LoginAttempts) (models.LoginAttempts, error) {
	if req.AccountID == "" {
		return attempts, ErrEmptyAccount
	}
	if !isValidAccountID(req.AccountID) {
		return attempts, ErrInvalidAccountFormat
	}
	if attempts.AccountID != req.AccountID {
		attempts = models.LoginAttempts{AccountID: req.AccountID}
	}

	var loginErr error
	err := l.store.Update(ctx, func(tx *repository.Tx) error {
		if !accountExists(tx, req.AccountID) {
			return ErrAccountNotFound
		}
		if tx.Get(repository.LockedKey(req.AccountID)) == lockedTrue {
			return ErrAccountLocked
		}

		ok, legacy := l.auth.CheckPassword(req.Password, tx.Get(repository.PasswordKey(req.AccountID)))
		if ok {
			attempts = models.LoginAttempts{AccountID: req.AccountID}
			if legacy {
				if hash, err := l.auth.HashPassword(req.Password); err == nil {
					tx.Set(repository.PasswordKey(req.AccountID), hash)
				}
			}
			return nil
		}

		attempts.Failures++
		if attempts.Failures >= MaxLoginAttempts {
			tx.Set(repository.LockedKey(req.AccountID), lockedTrue)
			loginErr = fmt.Errorf("%w %d times, %w", ErrWrongPassword, MaxLoginAttempts, ErrAccountLocked)
			return nil
		}
		return fmt.Errorf("%w, %d attempts left", ErrWrongPassword, MaxLoginAttempts-attempts.Failures)
	})
	if err != nil {
		utils.LogWarning("Ledger", "login %s rejected: %v", req.AccountID, err)
		return attempts, err
	}
	if loginErr != nil {
		utils.LogWarning("Ledger", "account %s locked after %d failed logins", req.AccountID, attempts.Failures)
		return attempts, loginErr
	}

	utils.LogSuccess("Ledger", "account %s logged in", req.AccountID)
	return attempts, nil
}

func (l *Ledger) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return ErrEmptyField
	}

	err := l.store.Update(ctx, func(tx *repository.Tx) error {
		if !accountExists(tx, req.AccountID) {
			return ErrAccountNotFound
		}
		if ok, _ := l.auth.CheckPassword(req.OldPassword, tx.Get(repository.PasswordKey(req.AccountID))); !ok {
			return ErrWrongOldPassword
		}
		if !isDigits(req.NewPassword, PasswordLength) {
			return ErrInvalidNewPasswordFormat
		}
		if req.NewPassword != req.ConfirmPassword {
			return ErrPasswordConfirmationMismatch
		}

		hash, err := l.auth.HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		tx.Set(repository.PasswordKey(req.AccountID), hash)
		return nil
	})
	if err != nil {
		utils.LogWarning("Ledger", "change password for %s rejected: %v", req.AccountID, err)
		return err
	}

	utils.LogSuccess("Ledger", "password changed for %s", req.AccountID)
	return nil
}

func (l *Ledger) Account(accountID string) (*models.Account, error) {
	return l.readAccount(l.store, accountID)
}

// Summary is Account plus the withdrawal limits and today's remaining allowance.
func (l *Ledger) Summary(accountID string) (*models.AccountSummary, error) {
	account, err := l.readAccount(l.store, accountID)
	if err != nil {
		return nil, err
	}
	remaining := DailyWithdrawalLimit - account.DailyWithdrawn
	if remaining < 0 {
		remaining = 0
	}
	return &models.AccountSummary{
		Account:               *account,
		SingleWithdrawalLimit: SingleWithdrawalLimit,
		DailyWithdrawalLimit:  DailyWithdrawalLimit,
		RemainingDaily:        remaining,
	}, nil
}

func (l *Ledger) readAccount(r reader, accountID string) (*models.Account, error) {
	if !accountExists(r, accountID) {
		return nil, ErrAccountNotFound
	}
	balance, err := readMoney(r, repository.BalanceKey(accountID))
	if err != nil {
		return nil, err
	}
	daily, err := l.dailyWithdrawn(r, accountID)
	if err != nil {
		return nil, err
	}
	return &models.Account{
		ID:             accountID,
		Name:           r.Get(repository.NameKey(accountID)),
		IDCard:         r.Get(repository.IDCardKey(accountID)),
		Balance:        balance,
		DailyWithdrawn: daily,
		Locked:         r.Get(repository.LockedKey(accountID)) == lockedTrue,
	}, nil
}

// dailyWithdrawn reads the counter, treating a counter from an earlier day as
// zero when the daily reset is on.
func (l *Ledger) dailyWithdrawn(r reader, accountID string) (models.Money, error) {
	if l.resetDaily && r.Get(repository.DailyWithdrawalDateKey(accountID)) != l.today() {
		return 0, nil
	}
	return readMoney(r, repository.DailyWithdrawalKey(accountID))
}

func (l *Ledger) today() string {
	return l.now().Format(dailyDateLayout)
}

func readMoney(r reader, key string) (models.Money, error) {
	raw := r.Get(key)
	if raw == "" {
		return 0, nil
	}
	m, err := models.ParseMoney(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupt value for %s: %w", key, err)
	}
	return m, nil
}

func isValidAccountID(id string) bool {
	return isDigits(id, AccountIDLength)
}

func isValidIDCard(idCard string) bool {
	if len(idCard) != IDCardLength || !isDigits(idCard[:IDCardLength-1], IDCardLength-1) {
		return false
	}
	last := idCard[IDCardLength-1]
	return isDigit(last) || last == 'X' || last == 'x'
}

// isStorableName rejects characters the line format cannot round-trip.
func isStorableName(name string) bool {
	for _, r := range name {
		if r == '"' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func normalizeIDCard(idCard string) string {
	return strings.ToUpper(idCard)
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
