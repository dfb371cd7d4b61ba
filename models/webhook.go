package models

// UAZAPI message types the bot distinguishes.
const (
	MessageTypeText           = "text"
	MessageTypeButtonResponse = "ButtonsResponseMessage"
	MessageTypeListResponse   = "ListResponseMessage"
)

// WebhookPayload is the envelope UAZAPI posts to the webhook endpoint.
type WebhookPayload struct {
	Instance string         `json:"instance"`
	Event    string         `json:"event"`
	Message  WebhookMessage `json:"message"`
}

// WebhookMessage is one inbound WhatsApp message.
type WebhookMessage struct {
	ID        string       `json:"id"`
	ChatID    string       `json:"chatid"`   // "<phone>@s.whatsapp.net"
	SenderID  string       `json:"senderid"` // same shape as ChatID
	Text      string       `json:"text"`
	FromMe    bool         `json:"fromMe"`
	Timestamp int64        `json:"timestamp"`
	PushName  string       `json:"pushname"`
	Type      string       `json:"type"`
	Vote      string       `json:"vote,omitempty"` // button reply payload
	Content   *ListContent `json:"content,omitempty"`
}

// ListContent carries a list-menu reply.
type ListContent struct {
	Response ListResponse `json:"Response"`
}

type ListResponse struct {
	SelectedDisplayText string `json:"SelectedDisplayText"`
}

// Body returns the effective text of the message, resolving button and
// list replies to their selected value.
func (m WebhookMessage) Body() string {
	switch m.Type {
	case MessageTypeButtonResponse:
		if m.Vote != "" {
			return m.Vote
		}
	case MessageTypeListResponse:
		if m.Content != nil && m.Content.Response.SelectedDisplayText != "" {
			return m.Content.Response.SelectedDisplayText
		}
	}
	return m.Text
}

// HistoryMessage is one entry returned by the message history lookup.
type HistoryMessage struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatid"`
	Text      string `json:"text"`
	FromMe    bool   `json:"fromMe"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
}
