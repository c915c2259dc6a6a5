package dto

import "time"

type CreditPackageDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Credits        int     `json:"credits"`
	Price          float64 `json:"price"`
	PricePerCredit float64 `json:"price_per_credit"`
}

type CreditPackagesDTO struct {
	Packages []*CreditPackageDTO `json:"packages"`
}

type PurchaseReq struct {
	PackageID     string  `json:"package_id" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required,max=50"`
	PaymentToken  *string `json:"payment_token"`
}

type PurchaseDTO struct {
	TransactionID uint64  `json:"transaction_id"`
	CreditsAdded  int     `json:"credits_added"`
	NewBalance    int     `json:"new_balance"`
	AmountPaid    float64 `json:"amount_paid"`
	Currency      string  `json:"currency"`
}

type CreditBalanceDTO struct {
	Balance     int   `json:"balance"`
	TotalEarned int64 `json:"total_earned"`
	TotalSpent  int64 `json:"total_spent"`
}

type CreditHistoryQuery struct {
	PageQuery
	TransactionType string `form:"transaction_type" binding:"omitempty,oneof=purchase usage refund bonus"`
}

type CreditTransactionDTO struct {
	ID              uint64         `json:"id"`
	TransactionType string         `json:"transaction_type"`
	Credits         int            `json:"credits"`
	BalanceAfter    int            `json:"balance_after"`
	Description     *string        `json:"description"`
	ExtraData       map[string]any `json:"extra_data"`
	CreatedAt       time.Time      `json:"created_at"`
}

type CreditHistoryDTO struct {
	Transactions []*CreditTransactionDTO `json:"transactions"`
	Total        int64                   `json:"total"`
	Page         int                     `json:"page"`
	PageSize     int                     `json:"page_size"`
	HasMore      bool                    `json:"has_more"`
}

type DailyStatusDTO struct {
	CanClaim      bool       `json:"can_claim"`
	NextClaimAt   *time.Time `json:"next_claim_at"`
	LastClaimedAt *time.Time `json:"last_claimed_at"`
}

type DailyClaimDTO struct {
	Claimed     bool      `json:"claimed"`
	Amount      int       `json:"amount"`
	NextClaimAt time.Time `json:"next_claim_at"`
	NewBalance  int       `json:"new_balance"`
}
