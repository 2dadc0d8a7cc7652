package zonewire

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) PublicKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	return PublicKey(der)
}

// roundTrip writes msg with WriteMessage and reads it back with ReadMessage,
// returning the decoded Message for the caller to assert field equality on.
// This is the wire-level half of spec.md section 8's round-trip law;
// command/event/notification/response envelope framing is exercised
// separately in zonedb/db_test.go, whose Append/Replay go through
// EncodeEventEnvelope/DecodeEventEnvelope.
func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()
	var buf bytes.Buffer
	_, err := WriteMessage(&buf, msg)
	require.NoError(t, err)

	decoded, err := ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, msg.MsgType(), decoded.MsgType())
	return decoded
}

func TestRoundTripCreateZoneCommand(t *testing.T) {
	key := testKey(t)
	name := "Dave's Game"
	ownerName := "Dave"
	cmd := &CreateZoneCommand{
		EquityOwnerPublicKeys: []PublicKey{key},
		EquityOwnerName:       &ownerName,
		Name:                  &name,
		Metadata:              []byte("hello"),
		Created:               1514156286183,
	}

	decoded := roundTrip(t, cmd).(*CreateZoneCommand)
	require.Equal(t, cmd.EquityOwnerPublicKeys, decoded.EquityOwnerPublicKeys)
	require.Equal(t, *cmd.EquityOwnerName, *decoded.EquityOwnerName)
	require.Equal(t, *cmd.Name, *decoded.Name)
	require.Equal(t, cmd.Metadata, decoded.Metadata)
	require.Equal(t, cmd.Created, decoded.Created)
}

func TestRoundTripCreateZoneCommandNilOptionals(t *testing.T) {
	key := testKey(t)
	cmd := &CreateZoneCommand{
		EquityOwnerPublicKeys: []PublicKey{key},
		Created:               0,
	}

	decoded := roundTrip(t, cmd).(*CreateZoneCommand)
	require.Nil(t, decoded.Name)
	require.Nil(t, decoded.Metadata)
	require.Nil(t, decoded.EquityOwnerName)
}

func TestRoundTripJoinZoneCommand(t *testing.T) {
	roundTrip(t, &JoinZoneCommand{})
	roundTrip(t, &QuitZoneCommand{})
}

func TestRoundTripAddTransactionCommand(t *testing.T) {
	value, err := ParseDecimal("5000000000000000000000")
	require.NoError(t, err)
	desc := "Jenny's Lottery Win"
	cmd := &AddTransactionCommand{
		ActingAs:    "0",
		From:        "0",
		To:          "1",
		Value:       value,
		Description: &desc,
	}

	decoded := roundTrip(t, cmd).(*AddTransactionCommand)
	require.Equal(t, cmd.ActingAs, decoded.ActingAs)
	require.Equal(t, cmd.From, decoded.From)
	require.Equal(t, cmd.To, decoded.To)
	require.Equal(t, 0, cmd.Value.Cmp(decoded.Value))
	require.Equal(t, *cmd.Description, *decoded.Description)
}

func TestRoundTripZoneCreatedEvent(t *testing.T) {
	key := testKey(t)
	zone := NewZone("zone-1", "0", 1514156286183, nil, nil)
	zone.Members["0"] = &Member{ID: "0", OwnerPublicKeys: []PublicKey{key}}
	ev := &ZoneCreatedEvent{Zone: *zone}

	decoded := roundTrip(t, ev).(*ZoneCreatedEvent)
	require.Equal(t, ev.Zone.ID, decoded.Zone.ID)
	require.Equal(t, ev.Zone.EquityAccountID, decoded.Zone.EquityAccountID)
	require.Len(t, decoded.Zone.Members, len(ev.Zone.Members))
	require.Len(t, decoded.Zone.Accounts, len(ev.Zone.Accounts))
}

func TestRoundTripTransactionAddedEvent(t *testing.T) {
	value := NewDecimalFromInt64(42)
	ev := &TransactionAddedEvent{
		Transaction: Transaction{ID: "0", Creator: "0", From: "0", To: "1", Value: value},
	}

	decoded := roundTrip(t, ev).(*TransactionAddedEvent)
	require.Equal(t, ev.Transaction.ID, decoded.Transaction.ID)
	require.Equal(t, 0, ev.Transaction.Value.Cmp(decoded.Transaction.Value))
}

func TestRoundTripErrorResponse(t *testing.T) {
	errs := ErrorList{Err(ErrTagLengthExceeded), Err(ErrInsufficientBalance)}
	resp := &ErrorResponse{Errors: errs}

	decoded := roundTrip(t, resp).(*ErrorResponse)
	require.Equal(t, len(errs), len(decoded.Errors))
}

func TestReadMessageUnknownType(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteMessage(&buf, &JoinZoneCommand{})
	require.NoError(t, err)

	raw := buf.Bytes()
	raw[1] = 0xff // corrupt the low byte of the 2-byte type tag

	_, err = ReadMessage(bytes.NewReader(raw))
	require.Error(t, err)
}
