package services

import "errors"

// Validation errors. Each operation returns at most one, in its documented
// check order; the message is what the ATM shows.
var (
	ErrEmptyField            = errors.New("please fill in all fields")
	ErrInvalidAccountFormat  = errors.New("account number must be 19 digits")
	ErrDuplicateAccount      = errors.New("account already exists")
	ErrInvalidIDCardFormat   = errors.New("invalid id card number: 18 characters, 17 digits then a digit or X")
	ErrDuplicateIDCard       = errors.New("id card is already registered to account")
	ErrInvalidNameLength     = errors.New("name must be between 2 and 20 characters")
	ErrInvalidNameCharacters = errors.New("name must not contain quotes or control characters")
	ErrInvalidPasswordFormat = errors.New("password must be 6 digits")

	ErrEmptyAccount    = errors.New("account number must not be empty")
	ErrAccountNotFound = errors.New("account does not exist, please register first")
	ErrAccountLocked   = errors.New("account is locked, please contact the bank")
	ErrWrongPassword   = errors.New("wrong password")

	ErrEmptyAmount         = errors.New("amount must not be empty")
	ErrInvalidAmount       = errors.New("please enter a valid amount")
	ErrNonPositiveAmount   = errors.New("amount must be greater than 0")
	ErrNotMultipleOf100    = errors.New("amount must be a multiple of 100")
	ErrExceedsSingleLimit  = errors.New("amount exceeds the single withdrawal limit")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAmountTooPrecise    = errors.New("amount can have at most two decimal places")
	ErrExceedsDailyLimit   = errors.New("amount exceeds the daily withdrawal limit")

	ErrMismatchedConfirmation = errors.New("the two account numbers do not match")
	ErrRecipientNotFound      = errors.New("recipient account does not exist")
	ErrSelfTransfer           = errors.New("cannot transfer to your own account")

	ErrWrongOldPassword             = errors.New("old password is wrong")
	ErrInvalidNewPasswordFormat     = errors.New("new password must be 6 digits")
	ErrPasswordConfirmationMismatch = errors.New("the two new passwords do not match")
)
