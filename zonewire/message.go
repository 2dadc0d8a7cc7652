package zonewire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxMessagePayload bounds a single encoded message, guarding against a
// corrupt or hostile length prefix requesting an unbounded allocation.
// Mirrors lnwire.MaxMessagePayload.
const MaxMessagePayload = 1 << 20 // 1 MiB

// MessageType tags the payload carried inside a command/event/notification/
// response envelope, mirroring lnwire.MessageType.
type MessageType uint16

const (
	MsgCreateZoneCommand MessageType = iota + 1
	MsgJoinZoneCommand
	MsgQuitZoneCommand
	MsgChangeZoneNameCommand
	MsgCreateMemberCommand
	MsgUpdateMemberCommand
	MsgCreateAccountCommand
	MsgUpdateAccountCommand
	MsgAddTransactionCommand

	MsgZoneCreatedEvent
	MsgClientJoinedEvent
	MsgClientQuitEvent
	MsgZoneNameChangedEvent
	MsgMemberCreatedEvent
	MsgMemberUpdatedEvent
	MsgAccountCreatedEvent
	MsgAccountUpdatedEvent
	MsgTransactionAddedEvent

	MsgClientJoinedNotification
	MsgClientQuitNotification
	MsgZoneNameChangedNotification
	MsgMemberCreatedNotification
	MsgMemberUpdatedNotification
	MsgAccountCreatedNotification
	MsgAccountUpdatedNotification
	MsgTransactionAddedNotification

	MsgCreateZoneResponse
	MsgJoinZoneResponse
	MsgQuitZoneResponse
	MsgChangeZoneNameResponse
	MsgCreateMemberResponse
	MsgUpdateMemberResponse
	MsgCreateAccountResponse
	MsgUpdateAccountResponse
	MsgAddTransactionResponse
	MsgErrorResponse
)

var messageTypeNames = map[MessageType]string{
	MsgCreateZoneCommand:     "CreateZoneCommand",
	MsgJoinZoneCommand:       "JoinZoneCommand",
	MsgQuitZoneCommand:       "QuitZoneCommand",
	MsgChangeZoneNameCommand: "ChangeZoneNameCommand",
	MsgCreateMemberCommand:   "CreateMemberCommand",
	MsgUpdateMemberCommand:   "UpdateMemberCommand",
	MsgCreateAccountCommand:  "CreateAccountCommand",
	MsgUpdateAccountCommand:  "UpdateAccountCommand",
	MsgAddTransactionCommand: "AddTransactionCommand",

	MsgZoneCreatedEvent:      "ZoneCreatedEvent",
	MsgClientJoinedEvent:     "ClientJoinedEvent",
	MsgClientQuitEvent:       "ClientQuitEvent",
	MsgZoneNameChangedEvent:  "ZoneNameChangedEvent",
	MsgMemberCreatedEvent:    "MemberCreatedEvent",
	MsgMemberUpdatedEvent:    "MemberUpdatedEvent",
	MsgAccountCreatedEvent:   "AccountCreatedEvent",
	MsgAccountUpdatedEvent:   "AccountUpdatedEvent",
	MsgTransactionAddedEvent: "TransactionAddedEvent",

	MsgClientJoinedNotification:     "ClientJoinedNotification",
	MsgClientQuitNotification:       "ClientQuitNotification",
	MsgZoneNameChangedNotification:  "ZoneNameChangedNotification",
	MsgMemberCreatedNotification:    "MemberCreatedNotification",
	MsgMemberUpdatedNotification:    "MemberUpdatedNotification",
	MsgAccountCreatedNotification:   "AccountCreatedNotification",
	MsgAccountUpdatedNotification:   "AccountUpdatedNotification",
	MsgTransactionAddedNotification: "TransactionAddedNotification",

	MsgCreateZoneResponse:     "CreateZoneResponse",
	MsgJoinZoneResponse:       "JoinZoneResponse",
	MsgQuitZoneResponse:       "QuitZoneResponse",
	MsgChangeZoneNameResponse: "ChangeZoneNameResponse",
	MsgCreateMemberResponse:   "CreateMemberResponse",
	MsgUpdateMemberResponse:   "UpdateMemberResponse",
	MsgCreateAccountResponse:  "CreateAccountResponse",
	MsgUpdateAccountResponse:  "UpdateAccountResponse",
	MsgAddTransactionResponse: "AddTransactionResponse",
	MsgErrorResponse:          "ErrorResponse",
}

func (t MessageType) String() string {
	if s, ok := messageTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("UnknownMessageType(%d)", uint16(t))
}

// UnknownMessageError is returned when a message type tag has no registered
// payload type. Mirrors lnwire.UnknownMessage.
type UnknownMessageError struct {
	Type MessageType
}

func (e *UnknownMessageError) Error() string {
	return fmt.Sprintf("zonewire: unknown message type %d", e.Type)
}

// Message is any command/event/notification/response payload.
type Message interface {
	MsgType() MessageType
	Encode(w io.Writer) error
	Decode(r io.Reader) error
}

func makeEmptyMessage(t MessageType) (Message, error) {
	switch t {
	case MsgCreateZoneCommand:
		return &CreateZoneCommand{}, nil
	case MsgJoinZoneCommand:
		return &JoinZoneCommand{}, nil
	case MsgQuitZoneCommand:
		return &QuitZoneCommand{}, nil
	case MsgChangeZoneNameCommand:
		return &ChangeZoneNameCommand{}, nil
	case MsgCreateMemberCommand:
		return &CreateMemberCommand{}, nil
	case MsgUpdateMemberCommand:
		return &UpdateMemberCommand{}, nil
	case MsgCreateAccountCommand:
		return &CreateAccountCommand{}, nil
	case MsgUpdateAccountCommand:
		return &UpdateAccountCommand{}, nil
	case MsgAddTransactionCommand:
		return &AddTransactionCommand{}, nil

	case MsgZoneCreatedEvent:
		return &ZoneCreatedEvent{}, nil
	case MsgClientJoinedEvent:
		return &ClientJoinedEvent{}, nil
	case MsgClientQuitEvent:
		return &ClientQuitEvent{}, nil
	case MsgZoneNameChangedEvent:
		return &ZoneNameChangedEvent{}, nil
	case MsgMemberCreatedEvent:
		return &MemberCreatedEvent{}, nil
	case MsgMemberUpdatedEvent:
		return &MemberUpdatedEvent{}, nil
	case MsgAccountCreatedEvent:
		return &AccountCreatedEvent{}, nil
	case MsgAccountUpdatedEvent:
		return &AccountUpdatedEvent{}, nil
	case MsgTransactionAddedEvent:
		return &TransactionAddedEvent{}, nil

	case MsgClientJoinedNotification:
		return &ClientJoinedNotification{}, nil
	case MsgClientQuitNotification:
		return &ClientQuitNotification{}, nil
	case MsgZoneNameChangedNotification:
		return &ZoneNameChangedNotification{}, nil
	case MsgMemberCreatedNotification:
		return &MemberCreatedNotification{}, nil
	case MsgMemberUpdatedNotification:
		return &MemberUpdatedNotification{}, nil
	case MsgAccountCreatedNotification:
		return &AccountCreatedNotification{}, nil
	case MsgAccountUpdatedNotification:
		return &AccountUpdatedNotification{}, nil
	case MsgTransactionAddedNotification:
		return &TransactionAddedNotification{}, nil

	case MsgCreateZoneResponse:
		return &CreateZoneResponse{}, nil
	case MsgJoinZoneResponse:
		return &JoinZoneResponse{}, nil
	case MsgQuitZoneResponse:
		return &QuitZoneResponse{}, nil
	case MsgChangeZoneNameResponse:
		return &ChangeZoneNameResponse{}, nil
	case MsgCreateMemberResponse:
		return &CreateMemberResponse{}, nil
	case MsgUpdateMemberResponse:
		return &UpdateMemberResponse{}, nil
	case MsgCreateAccountResponse:
		return &CreateAccountResponse{}, nil
	case MsgUpdateAccountResponse:
		return &UpdateAccountResponse{}, nil
	case MsgAddTransactionResponse:
		return &AddTransactionResponse{}, nil
	case MsgErrorResponse:
		return &ErrorResponse{}, nil
	default:
		return nil, &UnknownMessageError{Type: t}
	}
}

// WriteMessage frames msg as [2-byte type][4-byte length][payload] onto w.
// Mirrors lnwire.WriteMessage.
func WriteMessage(w io.Writer, msg Message) (int, error) {
	var payload bytes.Buffer
	if err := msg.Encode(&payload); err != nil {
		return 0, err
	}
	if payload.Len() > MaxMessagePayload {
		return 0, fmt.Errorf("zonewire: message payload too large: %d bytes", payload.Len())
	}

	var header [6]byte
	binary.BigEndian.PutUint16(header[0:2], uint16(msg.MsgType()))
	binary.BigEndian.PutUint32(header[2:6], uint32(payload.Len()))

	n, err := w.Write(header[:])
	if err != nil {
		return n, err
	}
	m, err := w.Write(payload.Bytes())
	return n + m, err
}

// ReadMessage reads a message framed by WriteMessage from r.
func ReadMessage(r io.Reader) (Message, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	msgType := MessageType(binary.BigEndian.Uint16(header[0:2]))
	length := binary.BigEndian.Uint32(header[2:6])
	if length > MaxMessagePayload {
		return nil, fmt.Errorf("zonewire: message payload too large: %d bytes", length)
	}

	msg, err := makeEmptyMessage(msgType)
	if err != nil {
		return nil, err
	}

	payload := io.LimitReader(r, int64(length))
	if err := msg.Decode(payload); err != nil {
		return nil, err
	}

	return msg, nil
}
