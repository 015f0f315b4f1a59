// Package messenger provides the Messenger platform wire layer: inbound
// event classification, outbound payload shapes, webhook signature
// verification, and the send API client.
package messenger

import "encoding/json"

// Envelope is the webhook delivery body posted by the platform.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the messaging events delivered for one page.
type Entry struct {
	ID        string     `json:"id"`
	Time      int64      `json:"time"`
	Messaging []RawEvent `json:"messaging"`
}

// Principal identifies one side of a conversation.
type Principal struct {
	ID string `json:"id"`
}

// RawEvent is one loosely-structured messaging record from the wire.
// Exactly one of the optional payload fields is expected to be populated;
// Classify converts it into a typed Event.
type RawEvent struct {
	Sender         Principal              `json:"sender"`
	Recipient      Principal              `json:"recipient"`
	Timestamp      int64                  `json:"timestamp"`
	Optin          *OptinPayload          `json:"optin,omitempty"`
	Message        *MessagePayload        `json:"message,omitempty"`
	Delivery       *DeliveryPayload       `json:"delivery,omitempty"`
	Postback       *PostbackPayload       `json:"postback,omitempty"`
	Read           *ReadPayload           `json:"read,omitempty"`
	AccountLinking *AccountLinkingPayload `json:"account_linking,omitempty"`
}

// OptinPayload carries the authentication pass-through parameter.
type OptinPayload struct {
	Ref string `json:"ref"`
}

// MessagePayload is the wire shape of a received message.
type MessagePayload struct {
	MID         string           `json:"mid"`
	Text        string           `json:"text,omitempty"`
	QuickReply  *QuickReplyReply `json:"quick_reply,omitempty"`
	Attachments []Attachment     `json:"attachments,omitempty"`
	IsEcho      bool             `json:"is_echo,omitempty"`
}

// QuickReplyReply carries the payload code of a tapped quick reply.
type QuickReplyReply struct {
	Payload string `json:"payload"`
}

// Attachment is a non-text message part (image, audio, file, ...).
type Attachment struct {
	Type    string          `json:"type,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DeliveryPayload confirms messages delivered up to a watermark.
type DeliveryPayload struct {
	MIDs      []string `json:"mids,omitempty"`
	Watermark int64    `json:"watermark"`
	Seq       int64    `json:"seq,omitempty"`
}

// PostbackPayload carries the payload of a tapped postback button.
type PostbackPayload struct {
	Payload string `json:"payload"`
}

// ReadPayload confirms messages read up to a watermark.
type ReadPayload struct {
	Watermark int64 `json:"watermark"`
	Seq       int64 `json:"seq,omitempty"`
}

// AccountLinkingPayload reports the outcome of an account link flow.
type AccountLinkingPayload struct {
	Status            string `json:"status"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
}

// Event is one classified inbound event. The variant set is closed;
// downstream code type-switches exhaustively over it.
type Event interface {
	// Type returns the event kind for logs and metrics.
	Type() string
}

// Meta carries the addressing fields common to every event kind.
type Meta struct {
	SenderID    string
	RecipientID string
	Timestamp   int64
}

// OptinEvent is an authentication callback.
type OptinEvent struct {
	Meta
	Ref string
}

// MessageEvent is a received message (text, attachment, or quick-reply tap).
type MessageEvent struct {
	Meta
	MessageID         string
	Text              string
	QuickReplyPayload string
	Attachments       []Attachment
	IsEcho            bool
}

// DeliveryEvent is a delivery receipt.
type DeliveryEvent struct {
	Meta
	MessageIDs []string
	Watermark  int64
}

// PostbackEvent is a tapped postback button.
type PostbackEvent struct {
	Meta
	Payload string
}

// ReadEvent is a read receipt.
type ReadEvent struct {
	Meta
	Watermark int64
}

// AccountLinkEvent reports an account link or unlink.
type AccountLinkEvent struct {
	Meta
	Status            string
	AuthorizationCode string
}

// UnknownEvent is a record with no recognized discriminating field.
// Callers log and drop it.
type UnknownEvent struct {
	Meta
}

func (OptinEvent) Type() string       { return "optin" }
func (MessageEvent) Type() string     { return "message" }
func (DeliveryEvent) Type() string    { return "delivery" }
func (PostbackEvent) Type() string    { return "postback" }
func (ReadEvent) Type() string        { return "read" }
func (AccountLinkEvent) Type() string { return "account_link" }
func (UnknownEvent) Type() string     { return "unknown" }

// HasAttachments reports whether the message carries any attachment.
func (e MessageEvent) HasAttachments() bool {
	return len(e.Attachments) > 0
}

// Classify converts one raw messaging record into exactly one Event
// variant. Dispatch is first-match-wins in a fixed order: optin, message,
// delivery, postback, read, account linking. Records matching none of
// these map to UnknownEvent.
func Classify(raw RawEvent) Event {
	meta := Meta{
		SenderID:    raw.Sender.ID,
		RecipientID: raw.Recipient.ID,
		Timestamp:   raw.Timestamp,
	}

	switch {
	case raw.Optin != nil:
		return OptinEvent{Meta: meta, Ref: raw.Optin.Ref}
	case raw.Message != nil:
		ev := MessageEvent{
			Meta:        meta,
			MessageID:   raw.Message.MID,
			Text:        raw.Message.Text,
			Attachments: raw.Message.Attachments,
			IsEcho:      raw.Message.IsEcho,
		}
		if raw.Message.QuickReply != nil {
			ev.QuickReplyPayload = raw.Message.QuickReply.Payload
		}
		return ev
	case raw.Delivery != nil:
		return DeliveryEvent{Meta: meta, MessageIDs: raw.Delivery.MIDs, Watermark: raw.Delivery.Watermark}
	case raw.Postback != nil:
		return PostbackEvent{Meta: meta, Payload: raw.Postback.Payload}
	case raw.Read != nil:
		return ReadEvent{Meta: meta, Watermark: raw.Read.Watermark}
	case raw.AccountLinking != nil:
		return AccountLinkEvent{
			Meta:              meta,
			Status:            raw.AccountLinking.Status,
			AuthorizationCode: raw.AccountLinking.AuthorizationCode,
		}
	default:
		return UnknownEvent{Meta: meta}
	}
}
