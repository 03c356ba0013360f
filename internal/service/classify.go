package service

import "strings"

// MessageKind is the notification treatment a message gets.
type MessageKind int

const (
	// KindNormal shows the sender's name and the message text.
	KindNormal MessageKind = iota
	// KindMaskedInquiry hides the sender's identity in the visible notification.
	KindMaskedInquiry
)

func (k MessageKind) String() string {
	if k == KindMaskedInquiry {
		return "masked_inquiry"
	}
	return "normal"
}

// VehicleInquiryMarker prefixes messages sent after scanning someone's car.
const VehicleInquiryMarker = "📋 Vehicle Inquiry"

// Classify decides how a message is presented in the notification.
func Classify(text string) MessageKind {
	if strings.HasPrefix(strings.TrimSpace(text), VehicleInquiryMarker) {
		return KindMaskedInquiry
	}
	return KindNormal
}
