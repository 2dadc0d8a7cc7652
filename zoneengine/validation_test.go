package zoneengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

func TestValidateCreateZoneTagBoundary(t *testing.T) {
	key := genTestKey(t, 2048)

	name160 := strings.Repeat("a", 160)
	errs := ValidateCreateZone(&zonewire.CreateZoneCommand{
		EquityOwnerPublicKeys: []zonewire.PublicKey{key},
		Name:                  &name160,
	})
	require.True(t, errs.Ok())

	name161 := strings.Repeat("a", 161)
	errs = ValidateCreateZone(&zonewire.CreateZoneCommand{
		EquityOwnerPublicKeys: []zonewire.PublicKey{key},
		Name:                  &name161,
	})
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrTagLengthExceeded))
}

func TestValidateCreateZoneMetadataBoundary(t *testing.T) {
	key := genTestKey(t, 2048)

	meta1024 := make([]byte, 1024)
	errs := ValidateCreateZone(&zonewire.CreateZoneCommand{
		EquityOwnerPublicKeys: []zonewire.PublicKey{key},
		Metadata:              meta1024,
	})
	require.True(t, errs.Ok())

	meta1025 := make([]byte, 1025)
	errs = ValidateCreateZone(&zonewire.CreateZoneCommand{
		EquityOwnerPublicKeys: []zonewire.PublicKey{key},
		Metadata:              meta1025,
	})
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrMetadataLengthExceeded))
}

func TestValidatePublicKeyModulusBoundary(t *testing.T) {
	key2047 := genTestKey(t, 2047)
	errs := validatePublicKey(key2047)
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrInvalidPublicKeyLength))

	key2048 := genTestKey(t, 2048)
	errs = validatePublicKey(key2048)
	require.True(t, errs.Ok())
}

func TestValidateAddTransactionValueBoundary(t *testing.T) {
	zone, balances := twoAccountZone(t)

	errs := ValidateAddTransaction(zone, balances, zone.Members["0"].OwnerPublicKeys[0], &zonewire.AddTransactionCommand{
		ActingAs: "0",
		From:     "0",
		To:       "1",
		Value:    zonewire.NewDecimalFromInt64(0),
	})
	require.True(t, errs.Ok())

	neg, err := zonewire.ParseDecimal("-1")
	require.NoError(t, err)
	errs = ValidateAddTransaction(zone, balances, zone.Members["0"].OwnerPublicKeys[0], &zonewire.AddTransactionCommand{
		ActingAs: "0",
		From:     "0",
		To:       "1",
		Value:    neg,
	})
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrNegativeTransactionValue))
}

func TestValidateAddTransactionReflexiveRejected(t *testing.T) {
	zone, balances := twoAccountZone(t)

	errs := ValidateAddTransaction(zone, balances, zone.Members["1"].OwnerPublicKeys[0], &zonewire.AddTransactionCommand{
		ActingAs: "1",
		From:     "1",
		To:       "1",
		Value:    zonewire.NewDecimalFromInt64(1),
	})
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrReflexiveTransaction))
}

func TestValidateAddTransactionInsufficientBalanceNonEquity(t *testing.T) {
	zone, balances := twoAccountZone(t)
	balances["1"] = zonewire.NewDecimalFromInt64(10)

	errs := ValidateAddTransaction(zone, balances, zone.Members["1"].OwnerPublicKeys[0], &zonewire.AddTransactionCommand{
		ActingAs: "1",
		From:     "1",
		To:       "0",
		Value:    zonewire.NewDecimalFromInt64(11),
	})
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrInsufficientBalance))
}

func TestValidateAddTransactionEquityMayGoNegative(t *testing.T) {
	zone, balances := twoAccountZone(t)

	errs := ValidateAddTransaction(zone, balances, zone.Members["0"].OwnerPublicKeys[0], &zonewire.AddTransactionCommand{
		ActingAs: "0",
		From:     "0",
		To:       "1",
		Value:    zonewire.NewDecimalFromInt64(1_000_000),
	})
	require.True(t, errs.Ok())
}

// twoAccountZone builds a zone with equity account "0"/member "0" and a
// second member/account pair "1", both starting at zero balance.
func twoAccountZone(t *testing.T) (*zonewire.Zone, map[zonewire.AccountID]zonewire.Decimal) {
	t.Helper()
	key0 := genTestKey(t, 2048)
	key1 := genTestKey(t, 2048)

	zone := zonewire.NewZone("zone-1", "0", 1000, nil, nil)
	zone.Members["0"] = &zonewire.Member{ID: "0", OwnerPublicKeys: []zonewire.PublicKey{key0}}
	zone.Accounts["0"] = &zonewire.Account{ID: "0", OwnerMemberIDs: []zonewire.MemberID{"0"}}
	zone.Members["1"] = &zonewire.Member{ID: "1", OwnerPublicKeys: []zonewire.PublicKey{key1}}
	zone.Accounts["1"] = &zonewire.Account{ID: "1", OwnerMemberIDs: []zonewire.MemberID{"1"}}

	balances := map[zonewire.AccountID]zonewire.Decimal{
		"0": zonewire.Zero(),
		"1": zonewire.Zero(),
	}
	return zone, balances
}
