package shares

import (
	"testing"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

const (
	testSeed    = types.SeedID("exchange.test@10")
	testAccount = "alice.test"
	otherUser   = "bob.test"
)

func testShareID() string {
	return types.ShareIDForSeed(testSeed)
}

func newTestLedger(t *testing.T) (*Ledger, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewLedger(store), store
}

// checkSupplyInvariant asserts that the sum of all balances equals the
// recorded total supply.
func checkSupplyInvariant(t *testing.T, ledger *Ledger, store *MemoryStore, shareID string) {
	t.Helper()
	sum := sdkmath.ZeroInt()
	for _, account := range store.Holders(shareID) {
		balance, err := ledger.Balance(shareID, account)
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		sum = sum.Add(balance)
	}
	supply, err := ledger.TotalSupply(shareID)
	if err != nil {
		t.Fatalf("total supply: %v", err)
	}
	if !sum.Equal(supply) {
		t.Fatalf("balance sum %s != total supply %s", sum, supply)
	}
}

func TestMintBurnConservesSupply(t *testing.T) {
	ledger, store := newTestLedger(t)
	shareID := testShareID()

	if _, err := ledger.Mint(shareID, testAccount, sdkmath.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ledger.Mint(shareID, otherUser, sdkmath.NewInt(40)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	checkSupplyInvariant(t, ledger, store, shareID)

	if _, err := ledger.Burn(shareID, testAccount, sdkmath.NewInt(30)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	checkSupplyInvariant(t, ledger, store, shareID)

	supply, _ := ledger.TotalSupply(shareID)
	if supply.Int64() != 110 {
		t.Fatalf("supply = %s, want 110", supply)
	}
}

func TestBurnOverBalanceFails(t *testing.T) {
	ledger, _ := newTestLedger(t)
	shareID := testShareID()

	if _, err := ledger.Mint(shareID, testAccount, sdkmath.NewInt(10)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	_, err := ledger.Burn(shareID, testAccount, sdkmath.NewInt(11))
	if err == nil {
		t.Fatal("burn over balance succeeded")
	}
}

func TestTransfer(t *testing.T) {
	ledger, store := newTestLedger(t)
	shareID := testShareID()

	if _, err := ledger.Mint(shareID, testAccount, sdkmath.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Transfer(shareID, testAccount, otherUser, sdkmath.NewInt(25)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	checkSupplyInvariant(t, ledger, store, shareID)

	from, _ := ledger.Balance(shareID, testAccount)
	to, _ := ledger.Balance(shareID, otherUser)
	if from.Int64() != 75 || to.Int64() != 25 {
		t.Fatalf("balances after transfer: %s / %s", from, to)
	}

	if err := ledger.Transfer(shareID, testAccount, testAccount, sdkmath.OneInt()); err != ErrSelfTransfer {
		t.Fatalf("self transfer: got %v, want ErrSelfTransfer", err)
	}
	if err := ledger.Transfer(shareID, otherUser, testAccount, sdkmath.NewInt(26)); err == nil {
		t.Fatal("transfer over balance succeeded")
	}
}

func TestSeedTotalUnderflowFailsClosed(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if err := ledger.AddSeedTotal(testSeed, sdkmath.NewInt(50)); err != nil {
		t.Fatalf("add seed total: %v", err)
	}
	if err := ledger.SubSeedTotal(testSeed, sdkmath.NewInt(51)); err == nil {
		t.Fatal("seed total underflow succeeded")
	}
	// The failed subtraction must not have moved the total.
	total, err := ledger.SeedTotal(testSeed)
	if err != nil {
		t.Fatalf("seed total: %v", err)
	}
	if total.Int64() != 50 {
		t.Fatalf("seed total = %s, want 50", total)
	}
}

func TestFirstDepositMintsOneToOne(t *testing.T) {
	ledger, _ := newTestLedger(t)

	shares, err := ledger.SharesForDeposit(testSeed, sdkmath.NewInt(1_000))
	if err != nil {
		t.Fatalf("shares for deposit: %v", err)
	}
	if shares.Int64() != 1_000 {
		t.Fatalf("first deposit shares = %s, want 1000", shares)
	}
}

// Two depositors, then the strategy auto-compounds without minting shares.
// The second depositor must receive proportionally fewer shares after the
// compound, and both entitlements must grow with the seed total.
func TestCompoundingRaisesEntitlementWithoutMinting(t *testing.T) {
	ledger, _ := newTestLedger(t)
	shareID := testShareID()

	// alice deposits 1_000000000000000000000000 (1N in yocto-style units,
	// scaled down for readability): here simply 1_000.
	if _, err := ledger.Mint(shareID, testAccount, sdkmath.NewInt(1_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.AddSeedTotal(testSeed, sdkmath.NewInt(1_000)); err != nil {
		t.Fatalf("add seed total: %v", err)
	}

	// bob deposits 3_000 at the same share price.
	minted, err := ledger.SharesForDeposit(testSeed, sdkmath.NewInt(3_000))
	if err != nil {
		t.Fatalf("shares for deposit: %v", err)
	}
	if minted.Int64() != 3_000 {
		t.Fatalf("bob shares = %s, want 3000", minted)
	}
	if _, err := ledger.Mint(shareID, otherUser, minted); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.AddSeedTotal(testSeed, sdkmath.NewInt(3_000)); err != nil {
		t.Fatalf("add seed total: %v", err)
	}

	aliceBefore, _ := ledger.Entitlement(testSeed, testAccount)
	bobBefore, _ := ledger.Entitlement(testSeed, otherUser)
	if aliceBefore.Int64() != 1_000 || bobBefore.Int64() != 3_000 {
		t.Fatalf("pre-compound entitlements: %s / %s", aliceBefore, bobBefore)
	}

	// A compound round stakes 400 more underlying without minting shares.
	if err := ledger.AddSeedTotal(testSeed, sdkmath.NewInt(400)); err != nil {
		t.Fatalf("add seed total: %v", err)
	}

	aliceAfter, _ := ledger.Entitlement(testSeed, testAccount)
	bobAfter, _ := ledger.Entitlement(testSeed, otherUser)
	if aliceAfter.Int64() != 1_100 {
		t.Fatalf("alice entitlement = %s, want 1100", aliceAfter)
	}
	if bobAfter.Int64() != 3_300 {
		t.Fatalf("bob entitlement = %s, want 3300", bobAfter)
	}
	if aliceAfter.LT(aliceBefore) || bobAfter.LT(bobBefore) {
		t.Fatal("entitlement decreased across a compound")
	}

	// A deposit after the compound buys shares at the higher price.
	minted, err = ledger.SharesForDeposit(testSeed, sdkmath.NewInt(1_100))
	if err != nil {
		t.Fatalf("shares for deposit: %v", err)
	}
	if minted.Int64() != 1_000 {
		t.Fatalf("post-compound deposit shares = %s, want 1000", minted)
	}
}

func TestSharesForAmountRoundTrip(t *testing.T) {
	ledger, _ := newTestLedger(t)
	shareID := testShareID()

	if _, err := ledger.Mint(shareID, testAccount, sdkmath.NewInt(700)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.AddSeedTotal(testSeed, sdkmath.NewInt(2_100)); err != nil {
		t.Fatalf("add seed total: %v", err)
	}

	// 700 shares over 2100 underlying: 300 underlying costs 100 shares.
	burn, err := ledger.SharesForAmount(testSeed, sdkmath.NewInt(300))
	if err != nil {
		t.Fatalf("shares for amount: %v", err)
	}
	if burn.Int64() != 100 {
		t.Fatalf("shares for 300 = %s, want 100", burn)
	}
}

func TestEntitlementZeroDegenerate(t *testing.T) {
	ledger, _ := newTestLedger(t)

	amount, err := ledger.Entitlement(testSeed, testAccount)
	if err != nil {
		t.Fatalf("entitlement: %v", err)
	}
	if !amount.IsZero() {
		t.Fatalf("entitlement on empty seed = %s, want 0", amount)
	}
}
