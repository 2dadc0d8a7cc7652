package zoneengine

import (
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// Effects is everything a single command dispatch produces besides the
// mutated ZoneState: the response to send to the caller, the notification
// to fan out to other connected clients, and (only when both are nil) a
// "nothing happened" no-op. Modelled as plain data rather than callbacks,
// per spec.md section 9's note on breaking the persistence-callback cycle:
// the applier stays pure and effects are emitted, not invoked in place.
type Effects struct {
	// Response, if non-nil, is sent to the command's reply_to/correlation_id.
	Response zonewire.Message

	// Event, if non-nil, must be persisted before Response/Notification
	// are delivered (spec.md section 4.1 step 3).
	Event zonewire.Message

	// Notification, if non-nil, is broadcast after persistence succeeds to
	// every connected client except ExcludeFromNotification (if set).
	Notification zonewire.Message

	// ExcludeFromNotification is the handle that should not receive its
	// own echo of Notification (the command's own author, when they are
	// also a connected client).
	ExcludeFromNotification zonewire.ClientHandle
}

// Handle runs the Command Handler's full dispatch contract for one command:
// validate, check redelivery idempotence, and compute the event/response/
// notification triple. It does not mutate state or perform IO — persisting
// Event and applying it via Apply is the caller's (validator.go's)
// responsibility, matching spec.md section 4.1's three-step contract.
func Handle(state *ZoneState, env *zonewire.ZoneCommandEnvelope, now int64) (*Effects, zonewire.ErrorList) {
	switch cmd := env.Command.(type) {
	case *zonewire.CreateZoneCommand:
		return handleCreateZone(state, env, cmd, now)
	case *zonewire.JoinZoneCommand:
		return handleJoinZone(state, env)
	case *zonewire.QuitZoneCommand:
		return handleQuitZone(state, env)
	case *zonewire.ChangeZoneNameCommand:
		return handleChangeZoneName(state, cmd)
	case *zonewire.CreateMemberCommand:
		return handleCreateMember(state, cmd)
	case *zonewire.UpdateMemberCommand:
		return handleUpdateMember(state, env, cmd)
	case *zonewire.CreateAccountCommand:
		return handleCreateAccount(state, cmd)
	case *zonewire.UpdateAccountCommand:
		return handleUpdateAccount(state, env, cmd)
	case *zonewire.AddTransactionCommand:
		return handleAddTransaction(state, env, cmd, now)
	default:
		return nil, zonewire.ErrorList{zonewire.Err(zonewire.ErrZoneDoesNotExist)}
	}
}

func handleCreateZone(state *ZoneState, env *zonewire.ZoneCommandEnvelope, cmd *zonewire.CreateZoneCommand, now int64) (*Effects, zonewire.ErrorList) {
	if errs := ValidateCreateZone(cmd); !errs.Ok() {
		return nil, errs
	}

	if state.Zone != nil {
		// Redelivery idempotence: zone already exists, respond with it.
		return &Effects{Response: &zonewire.CreateZoneResponse{Zone: *state.Zone}}, nil
	}

	created := cmd.Created
	if created == 0 {
		created = now
	}

	zone := zonewire.NewZone(env.ZoneID, "0", created, cmd.Name, cmd.Metadata)
	zone.Members["0"] = &zonewire.Member{
		ID:              "0",
		OwnerPublicKeys: cmd.EquityOwnerPublicKeys,
		Name:            cmd.EquityOwnerName,
		Metadata:        cmd.EquityOwnerMetadata,
	}
	zone.Accounts["0"] = &zonewire.Account{
		ID:             "0",
		OwnerMemberIDs: []zonewire.MemberID{"0"},
		Name:           cmd.EquityOwnerName,
		Metadata:       cmd.EquityOwnerMetadata,
	}

	return &Effects{
		Event:    &zonewire.ZoneCreatedEvent{Zone: *zone},
		Response: &zonewire.CreateZoneResponse{Zone: *zone},
	}, nil
}

func handleJoinZone(state *ZoneState, env *zonewire.ZoneCommandEnvelope) (*Effects, zonewire.ErrorList) {
	if errs := validateZonePresent(state.Zone); !errs.Ok() {
		return nil, errs
	}

	if _, already := state.ConnectedClients[env.ReplyTo]; already {
		return &Effects{Response: &zonewire.JoinZoneResponse{
			Zone:             *state.Zone,
			ConnectedClients: cloneConnectedClients(state),
		}}, nil
	}

	connected := cloneConnectedClients(state)

	return &Effects{
		Event:                   &zonewire.ClientJoinedEvent{Handle: env.ReplyTo},
		Response:                &zonewire.JoinZoneResponse{Zone: *state.Zone, ConnectedClients: connected},
		Notification:            &zonewire.ClientJoinedNotification{ClientIdentity: string(env.ReplyTo), PublicKey: env.PublicKey},
		ExcludeFromNotification: env.ReplyTo,
	}, nil
}

func handleQuitZone(state *ZoneState, env *zonewire.ZoneCommandEnvelope) (*Effects, zonewire.ErrorList) {
	if errs := validateZonePresent(state.Zone); !errs.Ok() {
		return nil, errs
	}

	if _, present := state.ConnectedClients[env.ReplyTo]; !present {
		return &Effects{Response: &zonewire.QuitZoneResponse{}}, nil
	}

	pub := state.ConnectedClients[env.ReplyTo]
	return &Effects{
		Event:                   &zonewire.ClientQuitEvent{Handle: env.ReplyTo},
		Response:                &zonewire.QuitZoneResponse{},
		Notification:            &zonewire.ClientQuitNotification{ClientIdentity: string(env.ReplyTo), PublicKey: pub},
		ExcludeFromNotification: env.ReplyTo,
	}, nil
}

func handleChangeZoneName(state *ZoneState, cmd *zonewire.ChangeZoneNameCommand) (*Effects, zonewire.ErrorList) {
	if errs := ValidateChangeZoneName(state.Zone, cmd); !errs.Ok() {
		return nil, errs
	}

	if equalOptionalString(state.Zone.Name, cmd.Name) {
		return &Effects{Response: &zonewire.ChangeZoneNameResponse{}}, nil
	}

	return &Effects{
		Event:        &zonewire.ZoneNameChangedEvent{Name: cmd.Name},
		Response:     &zonewire.ChangeZoneNameResponse{},
		Notification: &zonewire.ZoneNameChangedNotification{Name: cmd.Name},
	}, nil
}

func handleCreateMember(state *ZoneState, cmd *zonewire.CreateMemberCommand) (*Effects, zonewire.ErrorList) {
	if errs := ValidateCreateMember(state.Zone, cmd); !errs.Ok() {
		return nil, errs
	}

	member := zonewire.Member{
		ID:              state.nextMemberID(),
		OwnerPublicKeys: cmd.OwnerPublicKeys,
		Name:            cmd.Name,
		Metadata:        cmd.Metadata,
	}

	return &Effects{
		Event:        &zonewire.MemberCreatedEvent{Member: member},
		Response:     &zonewire.CreateMemberResponse{Member: member},
		Notification: &zonewire.MemberCreatedNotification{Member: member},
	}, nil
}

func handleUpdateMember(state *ZoneState, env *zonewire.ZoneCommandEnvelope, cmd *zonewire.UpdateMemberCommand) (*Effects, zonewire.ErrorList) {
	if errs := ValidateUpdateMember(state.Zone, env.PublicKey, cmd); !errs.Ok() {
		return nil, errs
	}

	existing := state.Zone.Members[cmd.Member.ID]
	if existing.Equal(&cmd.Member) {
		return &Effects{Response: &zonewire.UpdateMemberResponse{}}, nil
	}

	return &Effects{
		Event:        &zonewire.MemberUpdatedEvent{Member: cmd.Member},
		Response:     &zonewire.UpdateMemberResponse{},
		Notification: &zonewire.MemberUpdatedNotification{Member: cmd.Member},
	}, nil
}

func handleCreateAccount(state *ZoneState, cmd *zonewire.CreateAccountCommand) (*Effects, zonewire.ErrorList) {
	if errs := ValidateCreateAccount(state.Zone, cmd); !errs.Ok() {
		return nil, errs
	}

	account := zonewire.Account{
		ID:             state.nextAccountID(),
		OwnerMemberIDs: cmd.OwnerMemberIDs,
		Name:           cmd.Name,
		Metadata:       cmd.Metadata,
	}

	return &Effects{
		Event:        &zonewire.AccountCreatedEvent{Account: account},
		Response:     &zonewire.CreateAccountResponse{Account: account},
		Notification: &zonewire.AccountCreatedNotification{Account: account},
	}, nil
}

func handleUpdateAccount(state *ZoneState, env *zonewire.ZoneCommandEnvelope, cmd *zonewire.UpdateAccountCommand) (*Effects, zonewire.ErrorList) {
	if errs := ValidateUpdateAccount(state.Zone, env.PublicKey, cmd); !errs.Ok() {
		return nil, errs
	}

	existing := state.Zone.Accounts[cmd.Account.ID]
	if existing.Equal(&cmd.Account) {
		return &Effects{Response: &zonewire.UpdateAccountResponse{}}, nil
	}

	actingAs := cmd.ActingAs
	return &Effects{
		Event:        &zonewire.AccountUpdatedEvent{ActingAs: &actingAs, Account: cmd.Account},
		Response:     &zonewire.UpdateAccountResponse{},
		Notification: &zonewire.AccountUpdatedNotification{ActingAs: cmd.ActingAs, Account: cmd.Account},
	}, nil
}

func handleAddTransaction(state *ZoneState, env *zonewire.ZoneCommandEnvelope, cmd *zonewire.AddTransactionCommand, now int64) (*Effects, zonewire.ErrorList) {
	if errs := ValidateAddTransaction(state.Zone, state.Balances, env.PublicKey, cmd); !errs.Ok() {
		return nil, errs
	}

	txn := zonewire.Transaction{
		ID:          state.nextTransactionID(),
		From:        cmd.From,
		To:          cmd.To,
		Value:       cmd.Value,
		Creator:     cmd.ActingAs,
		Created:     now,
		Description: cmd.Description,
		Metadata:    cmd.Metadata,
	}

	return &Effects{
		Event:        &zonewire.TransactionAddedEvent{Transaction: txn},
		Response:     &zonewire.AddTransactionResponse{Transaction: txn},
		Notification: &zonewire.TransactionAddedNotification{Transaction: txn},
	}, nil
}

func cloneConnectedClients(state *ZoneState) map[zonewire.ClientHandle]zonewire.PublicKey {
	out := make(map[zonewire.ClientHandle]zonewire.PublicKey, len(state.ConnectedClients))
	for h, pub := range state.ConnectedClients {
		out[h] = pub
	}
	return out
}

func equalOptionalString(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b
}
