package repository

import "strings"

// Field suffixes of the flat "<accountId>_<field>" key scheme.
const (
	FieldPassword            = "password"
	FieldBalance             = "balance"
	FieldDailyWithdrawal     = "daily_withdrawal"
	FieldDailyWithdrawalDate = "daily_withdrawal_date"
	FieldLocked              = "locked"
	FieldIDCard              = "idcard"
	FieldName                = "name"
)

func accountKey(accountID, field string) string {
	return accountID + "_" + field
}

func PasswordKey(accountID string) string { return accountKey(accountID, FieldPassword) }
func BalanceKey(accountID string) string { return accountKey(accountID, FieldBalance) }
func DailyWithdrawalKey(accountID string) string { return accountKey(accountID, FieldDailyWithdrawal) }
func LockedKey(accountID string) string { return accountKey(accountID, FieldLocked) }
func IDCardKey(accountID string) string { return accountKey(accountID, FieldIDCard) }
func NameKey(accountID string) string { return accountKey(accountID, FieldName) }

func DailyWithdrawalDateKey(accountID string) string {
	return accountKey(accountID, FieldDailyWithdrawalDate)
}

// AccountIDFromKey splits key into account id and field. ok is false when the
// key does not end with the given field suffix.
func AccountIDFromKey(key, field string) (string, bool) {
	suffix := "_" + field
	if !strings.HasSuffix(key, suffix) || len(key) == len(suffix) {
		return "", false
	}
	return strings.TrimSuffix(key, suffix), true
}
