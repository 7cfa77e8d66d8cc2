package domain

// ============================================================
// Accounts
// ============================================================

// Account is a named money pool with a non-negative balance, owned by one user.
type Account struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	UserID  string  `json:"userId"`
}

// AccountBalance is the projection returned by the balances listing.
type AccountBalance struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// CreateAccountRequest is the payload for POST /api/accounts/createAccount.
type CreateAccountRequest struct {
	Name    string   `json:"name"`
	Balance *float64 `json:"balance"`
}

// UpdateAccountRequest is the payload for PUT /api/accounts/updateAccount/{id}.
// Omitted fields keep their previous values.
type UpdateAccountRequest struct {
	Name    string   `json:"name,omitempty"`
	Balance *float64 `json:"balance,omitempty"`
}
