package services

import (
	"atm-simulator/internal/models"
	"atm-simulator/internal/repository"
	"atm-simulator/internal/utils"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func (l *Ledger) Withdraw(ctx context.Context, req models.WithdrawRequest) (models.Money, error) {
	utils.LogInfo("Ledger", "withdraw %q from %s", req.Amount, req.AccountID)

	if strings.TrimSpace(req.Amount) == "" {
		return 0, ErrEmptyAmount
	}
	value, err := parseAmount(req.Amount)
	if err != nil {
		return 0, err
	}

	var newBalance, amount models.Money
	err = l.store.Update(ctx, func(tx *repository.Tx) error {
		if !accountExists(tx, req.AccountID) {
			return ErrAccountNotFound
		}
		balance, err := readMoney(tx, repository.BalanceKey(req.AccountID))
		if err != nil {
			return err
		}
		daily, err := l.dailyWithdrawn(tx, req.AccountID)
		if err != nil {
			return err
		}

		switch {
		case value.Sign() <= 0:
			return ErrNonPositiveAmount
		case !value.Mod(WithdrawalUnit.Decimal()).IsZero():
			return ErrNotMultipleOf100
		case value.GreaterThan(SingleWithdrawalLimit.Decimal()):
			return fmt.Errorf("%w of %s", ErrExceedsSingleLimit, SingleWithdrawalLimit.Display())
		}
		// Whole hundreds up to the single limit always fit.
		if amount, err = models.MoneyFromDecimal(value); err != nil {
			return ErrInvalidAmount
		}

		switch {
		case amount > balance:
			return ErrInsufficientBalance
		case daily+amount > DailyWithdrawalLimit:
			return ErrExceedsDailyLimit
		}

		newBalance = balance - amount
		tx.Set(repository.BalanceKey(req.AccountID), newBalance.String())
		tx.Set(repository.DailyWithdrawalKey(req.AccountID), (daily + amount).String())
		tx.Set(repository.DailyWithdrawalDateKey(req.AccountID), l.today())
		return nil
	})
	if err != nil {
		utils.LogWarning("Ledger", "withdraw from %s rejected: %v", req.AccountID, err)
		return 0, err
	}

	utils.LogSuccess("Ledger", "withdrew %s from %s (balance %s)", amount.Display(), req.AccountID, newBalance.Display())
	return newBalance, nil
}

// Transfers have no single or daily cap.
func (l *Ledger) Transfer(ctx context.Context, req models.TransferRequest) (models.Money, error) {
	utils.LogInfo("Ledger", "transfer %q from %s to %s", req.Amount, req.FromAccountID, req.ToAccountID)

	if req.ToAccountID == "" || req.ConfirmToAccountID == "" || strings.TrimSpace(req.Amount) == "" {
		return 0, ErrEmptyField
	}
	if req.ToAccountID != req.ConfirmToAccountID {
		return 0, ErrMismatchedConfirmation
	}

	var newBalance models.Money
	var amount models.Money
	err := l.store.Update(ctx, func(tx *repository.Tx) error {
		if !accountExists(tx, req.FromAccountID) {
			return ErrAccountNotFound
		}
		if !accountExists(tx, req.ToAccountID) {
			return ErrRecipientNotFound
		}
		if req.ToAccountID == req.FromAccountID {
			return ErrSelfTransfer
		}

		value, err := parseAmount(req.Amount)
		if err != nil {
			return err
		}
		balance, err := readMoney(tx, repository.BalanceKey(req.FromAccountID))
		if err != nil {
			return err
		}
		if value.Sign() <= 0 {
			return ErrNonPositiveAmount
		}
		if value.GreaterThan(balance.Decimal()) {
			return ErrInsufficientBalance
		}
		if amount, err = models.MoneyFromDecimal(value); err != nil {
			return ErrAmountTooPrecise
		}
		target, err := readMoney(tx, repository.BalanceKey(req.ToAccountID))
		if err != nil {
			return err
		}

		newBalance = balance - amount
		tx.Set(repository.BalanceKey(req.FromAccountID), newBalance.String())
		tx.Set(repository.BalanceKey(req.ToAccountID), (target + amount).String())
		return nil
	})
	if err != nil {
		utils.LogWarning("Ledger", "transfer from %s rejected: %v", req.FromAccountID, err)
		return 0, err
	}

	utils.LogSuccess("Ledger", "transferred %s from %s to %s", amount.Display(), req.FromAccountID, req.ToAccountID)
	return newBalance, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	value, err := models.ParseAmount(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return value, nil
}
