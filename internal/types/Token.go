package types

// Token metadata for a whitelisted fungible token.
type Token struct {
	AccountID string `json:"account_id" yaml:"account_id"` // token contract account
	Symbol    string `json:"symbol" yaml:"symbol"`
	Decimals  int    `json:"decimals" yaml:"decimals"`
}
