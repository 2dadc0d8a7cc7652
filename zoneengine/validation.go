package zoneengine

import (
	"crypto/rsa"
	"crypto/x509"
	"unicode/utf8"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// Validation is the pure, deterministic Validation Suite of spec.md section
// 4.2. Every function here accumulates independent checks into a single
// zonewire.ErrorList rather than stopping at the first failure; dependent
// checks (e.g. "the account this transaction references exists" gating
// "that account's balance is sufficient") short-circuit by construction,
// simply by not running the dependent check when its precondition failed.
//
// RSA/x509 is used directly from the standard library here: none of the
// teacher's or pack's cryptographic libraries (btcec, secp256k1) speak the
// RSA key family this spec requires, so there is no third-party candidate
// to prefer over crypto/rsa and crypto/x509.

func validateTag(name *string) zonewire.ErrorList {
	if name == nil {
		return nil
	}
	if utf8.RuneCountInString(*name) > zonewire.MaximumTagLength {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrTagLengthExceeded)}
	}
	return nil
}

func validateMetadata(metadata []byte) zonewire.ErrorList {
	if len(metadata) > zonewire.MaximumMetadataSize {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrMetadataLengthExceeded)}
	}
	return nil
}

// validatePublicKey parses pub as an RSA X.509 SubjectPublicKeyInfo and
// checks its modulus size, per spec.md section 4.2.
func validatePublicKey(pub zonewire.PublicKey) zonewire.ErrorList {
	key, err := x509.ParsePKIXPublicKey(pub)
	if err != nil {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrInvalidPublicKey)}
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrInvalidPublicKeyType)}
	}

	if rsaKey.N.BitLen() != zonewire.RequiredKeySize {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrInvalidPublicKeyLength)}
	}

	return nil
}

func validatePublicKeySet(keys []zonewire.PublicKey) zonewire.ErrorList {
	if len(keys) == 0 {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrNoPublicKeys)}
	}

	var errs zonewire.ErrorList
	for _, k := range keys {
		errs = errs.Combine(validatePublicKey(k))
	}
	return errs
}

func validateMemberIDSet(zone *zonewire.Zone, ids []zonewire.MemberID) zonewire.ErrorList {
	if len(ids) == 0 {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrNoMemberIds)}
	}

	var errs zonewire.ErrorList
	for _, id := range ids {
		if _, ok := zone.Members[id]; !ok {
			errs = errs.Combine(zonewire.ErrorList{zonewire.ErrRef(zonewire.ErrMemberDoesNotExist, string(id))})
		}
	}
	return errs
}

func validateZonePresent(zone *zonewire.Zone) zonewire.ErrorList {
	if zone == nil {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrZoneDoesNotExist)}
	}
	return nil
}

// ValidateCreateZone checks the equity owner's keys and the zone/equity
// account's optional tag and metadata fields.
func ValidateCreateZone(cmd *zonewire.CreateZoneCommand) zonewire.ErrorList {
	var errs zonewire.ErrorList
	errs = errs.Combine(validatePublicKeySet(cmd.EquityOwnerPublicKeys))
	errs = errs.Combine(validateTag(cmd.EquityOwnerName))
	errs = errs.Combine(validateMetadata(cmd.EquityOwnerMetadata))
	errs = errs.Combine(validateTag(cmd.Name))
	errs = errs.Combine(validateMetadata(cmd.Metadata))
	return errs
}

// ValidateChangeZoneName requires only a present zone and a well-formed tag.
func ValidateChangeZoneName(zone *zonewire.Zone, cmd *zonewire.ChangeZoneNameCommand) zonewire.ErrorList {
	var errs zonewire.ErrorList
	errs = errs.Combine(validateZonePresent(zone))
	errs = errs.Combine(validateTag(cmd.Name))
	return errs
}

// ValidateCreateMember requires a present zone and well-formed keys/tag/metadata.
func ValidateCreateMember(zone *zonewire.Zone, cmd *zonewire.CreateMemberCommand) zonewire.ErrorList {
	var errs zonewire.ErrorList
	errs = errs.Combine(validateZonePresent(zone))
	errs = errs.Combine(validatePublicKeySet(cmd.OwnerPublicKeys))
	errs = errs.Combine(validateTag(cmd.Name))
	errs = errs.Combine(validateMetadata(cmd.Metadata))
	return errs
}

// ValidateUpdateMember requires the caller to own the member being updated
// (spec.md section 4.2's authorisation rule), in addition to well-formed
// fields and referential integrity of the (unchanged) id.
func ValidateUpdateMember(zone *zonewire.Zone, caller zonewire.PublicKey, cmd *zonewire.UpdateMemberCommand) zonewire.ErrorList {
	var errs zonewire.ErrorList
	errs = errs.Combine(validateZonePresent(zone))
	errs = errs.Combine(validatePublicKeySet(cmd.Member.OwnerPublicKeys))
	errs = errs.Combine(validateTag(cmd.Member.Name))
	errs = errs.Combine(validateMetadata(cmd.Member.Metadata))
	if !errs.Ok() {
		return errs
	}

	existing, ok := zone.Members[cmd.Member.ID]
	if !ok {
		return zonewire.ErrorList{zonewire.ErrRef(zonewire.ErrMemberDoesNotExist, string(cmd.Member.ID))}
	}
	if !existing.OwnsKey(caller) {
		return zonewire.ErrorList{zonewire.Err(zonewire.ErrMemberKeyMismatch)}
	}
	return nil
}

// ValidateCreateAccount requires a present zone and referentially valid,
// non-empty owner set.
func ValidateCreateAccount(zone *zonewire.Zone, cmd *zonewire.CreateAccountCommand) zonewire.ErrorList {
	var errs zonewire.ErrorList
	errs = errs.Combine(validateZonePresent(zone))
	if !errs.Ok() {
		return errs
	}
	errs = errs.Combine(validateMemberIDSet(zone, cmd.OwnerMemberIDs))
	errs = errs.Combine(validateTag(cmd.Name))
	errs = errs.Combine(validateMetadata(cmd.Metadata))
	return errs
}

// ValidateUpdateAccount requires actingAs to be one of the account's
// owners and the caller to own actingAs (spec.md section 4.2).
func ValidateUpdateAccount(zone *zonewire.Zone, caller zonewire.PublicKey, cmd *zonewire.UpdateAccountCommand) zonewire.ErrorList {
	var errs zonewire.ErrorList
	errs = errs.Combine(validateZonePresent(zone))
	if !errs.Ok() {
		return errs
	}
	errs = errs.Combine(validateMemberIDSet(zone, cmd.Account.OwnerMemberIDs))
	errs = errs.Combine(validateTag(cmd.Account.Name))
	errs = errs.Combine(validateMetadata(cmd.Account.Metadata))
	if !errs.Ok() {
		return errs
	}

	existing, ok := zone.Accounts[cmd.Account.ID]
	if !ok {
		return zonewire.ErrorList{zonewire.ErrRef(zonewire.ErrAccountDoesNotExist, string(cmd.Account.ID))}
	}

	actingMember, ok := zone.Members[cmd.ActingAs]
	if !ok {
		return zonewire.ErrorList{zonewire.ErrRef(zonewire.ErrMemberDoesNotExist, string(cmd.ActingAs))}
	}
	if !actingMember.OwnsKey(caller) {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrMemberKeyMismatch)})
	}
	if !existing.OwnedByMember(cmd.ActingAs) {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrAccountOwnerMismatch)})
	}
	return errs
}

// ValidateAddTransaction implements the transaction rules of spec.md
// section 4.2: distinct accounts, non-negative value, debit authorisation,
// and (for non-equity debitors) sufficient balance.
func ValidateAddTransaction(zone *zonewire.Zone, balances map[zonewire.AccountID]zonewire.Decimal, caller zonewire.PublicKey, cmd *zonewire.AddTransactionCommand) zonewire.ErrorList {
	var errs zonewire.ErrorList
	errs = errs.Combine(validateZonePresent(zone))
	errs = errs.Combine(validateTag(cmd.Description))
	errs = errs.Combine(validateMetadata(cmd.Metadata))
	if !errs.Ok() {
		return errs
	}

	if cmd.From == cmd.To {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrReflexiveTransaction)})
	}

	fromAccount, fromExists := zone.Accounts[cmd.From]
	if !fromExists {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrSourceAccountDoesNotExist)})
	}
	if _, toExists := zone.Accounts[cmd.To]; !toExists {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrDestinationAccountDoesNotExist)})
	}

	if cmd.Value.Sign() < 0 {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrNegativeTransactionValue)})
	}

	actingMember, ok := zone.Members[cmd.ActingAs]
	if !ok {
		errs = errs.Combine(zonewire.ErrorList{zonewire.ErrRef(zonewire.ErrMemberDoesNotExist, string(cmd.ActingAs))})
	} else if !actingMember.OwnsKey(caller) {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrMemberKeyMismatch)})
	}
	if fromExists && !fromAccount.OwnedByMember(cmd.ActingAs) {
		errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrAccountOwnerMismatch)})
	}

	if !errs.Ok() {
		return errs
	}

	if cmd.From != zone.EquityAccountID {
		remaining := balances[cmd.From].Sub(cmd.Value)
		if remaining.Sign() < 0 {
			errs = errs.Combine(zonewire.ErrorList{zonewire.Err(zonewire.ErrInsufficientBalance)})
		}
	}

	return errs
}
