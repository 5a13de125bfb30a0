package line

import "fmt"

// Message is one outbound message in a push request. Concrete types marshal
// to the LINE message object wire shapes.
type Message interface {
	messageType() string
}

// TextMessage is a plain text push message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (TextMessage) messageType() string { return "text" }

// NewTextMessage builds a text message.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// TemplateAction is a single button on a template message.
type TemplateAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URI   string `json:"uri,omitempty"`
	Text  string `json:"text,omitempty"`
}

// ButtonsTemplate is the buttons template body.
type ButtonsTemplate struct {
	Type    string           `json:"type"`
	Title   string           `json:"title"`
	Text    string           `json:"text"`
	Actions []TemplateAction `json:"actions"`
}

// TemplateMessage carries a buttons template.
type TemplateMessage struct {
	Type     string          `json:"type"`
	AltText  string          `json:"altText"`
	Template ButtonsTemplate `json:"template"`
}

func (TemplateMessage) messageType() string { return "template" }

// NewMenuMessage builds the reply menu sent on inbound text messages, linking
// the LIFF ticket form.
func NewMenuMessage(displayName, liffID string) TemplateMessage {
	return TemplateMessage{
		Type:    "template",
		AltText: "IT Support Menu",
		Template: ButtonsTemplate{
			Type:  "buttons",
			Title: "IT Repair System",
			Text:  fmt.Sprintf("สวัสดีคุณ %s !\nเลือกสิ่งที่คุณต้องการ", displayName),
			Actions: []TemplateAction{
				{
					Type:  "uri",
					Label: "🎫 สร้าง Ticket ใหม่",
					URI:   fmt.Sprintf("line://liff/%s", liffID),
				},
				{
					Type:  "message",
					Label: "📋 ดูสถานะ Ticket",
					Text:  "ดูสถานะของฉัน",
				},
			},
		},
	}
}

// NewWelcomeMessage builds the greeting sent when a user follows the bot.
func NewWelcomeMessage() TextMessage {
	return NewTextMessage("ยินดีต้อนรับสู่ IT Repair System! 🎉\nคลิก \"สร้าง Ticket\" เพื่อแจ้งปัญหา IT")
}
