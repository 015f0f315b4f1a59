package messenger

// Sender actions are ephemeral UI signals with no persisted content.
const (
	ActionTypingOn  = "typing_on"
	ActionTypingOff = "typing_off"
	ActionMarkSeen  = "mark_seen"
)

// Template types accepted by the send API.
const (
	templateGeneric = "generic"
	templateList    = "list"
)

// SendRequest is one composed reply payload addressed to exactly one
// recipient. It is constructed fresh per inbound event and handed to
// Client.Send; there is no lifecycle beyond the single call.
type SendRequest struct {
	Recipient    Principal   `json:"recipient"`
	Message      *OutMessage `json:"message,omitempty"`
	SenderAction string      `json:"sender_action,omitempty"`
}

// OutMessage is the message portion of a send request.
type OutMessage struct {
	Text         string              `json:"text,omitempty"`
	QuickReplies []QuickReply        `json:"quick_replies,omitempty"`
	Attachment   *TemplateAttachment `json:"attachment,omitempty"`
}

// QuickReply is one tappable option rendered under a message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// TemplateAttachment wraps a structured template payload.
type TemplateAttachment struct {
	Type    string          `json:"type"`
	Payload TemplatePayload `json:"payload"`
}

// TemplatePayload is the body of a generic or list template.
type TemplatePayload struct {
	TemplateType    string    `json:"template_type"`
	TopElementStyle string    `json:"top_element_style,omitempty"`
	Elements        []Element `json:"elements"`
}

// Element is one card of a template.
type Element struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ItemURL  string   `json:"item_url,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is a tappable action on a template element.
type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// NewText builds a plain text reply.
func NewText(recipientID, text string) *SendRequest {
	return &SendRequest{
		Recipient: Principal{ID: recipientID},
		Message:   &OutMessage{Text: text},
	}
}

// NewSenderAction builds a typing indicator or read marker.
func NewSenderAction(recipientID, action string) *SendRequest {
	return &SendRequest{
		Recipient:    Principal{ID: recipientID},
		SenderAction: action,
	}
}

// NewQuickReplyMenu builds a text message with tappable quick replies.
func NewQuickReplyMenu(recipientID, text string, replies []QuickReply) *SendRequest {
	return &SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &OutMessage{
			Text:         text,
			QuickReplies: replies,
		},
	}
}

// NewGenericTemplate builds a carousel of generic template cards.
func NewGenericTemplate(recipientID string, elements []Element) *SendRequest {
	return &SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &OutMessage{
			Attachment: &TemplateAttachment{
				Type: "template",
				Payload: TemplatePayload{
					TemplateType: templateGeneric,
					Elements:     elements,
				},
			},
		},
	}
}

// NewListTemplate builds a vertical list template.
func NewListTemplate(recipientID string, elements []Element) *SendRequest {
	return &SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &OutMessage{
			Attachment: &TemplateAttachment{
				Type: "template",
				Payload: TemplatePayload{
					TemplateType:    templateList,
					TopElementStyle: "compact",
					Elements:        elements,
				},
			},
		},
	}
}

// PayloadType returns the payload shape for logs and metrics.
func (r *SendRequest) PayloadType() string {
	switch {
	case r.SenderAction != "":
		return "sender_action"
	case r.Message == nil:
		return "empty"
	case r.Message.Attachment != nil:
		return r.Message.Attachment.Payload.TemplateType + "_template"
	case len(r.Message.QuickReplies) > 0:
		return "quick_reply"
	default:
		return "text"
	}
}
