package models

type WithdrawRequest struct {
	AccountID string
	Amount    string
}

type TransferRequest struct {
	FromAccountID      string
	ToAccountID        string
	ConfirmToAccountID string
	Amount             string
}
