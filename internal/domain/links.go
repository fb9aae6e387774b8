package domain

import (
	"net/url"
	"strings"
)

// Contact defaults used when a location does not name its own
const (
	DefaultWhatsappNumber    = "923191490380"
	DefaultWhatsappCommunity = "https://whatsapp.com/channel/0029VbBlHMN5Ejy4nOt2gZ1P"

	RequestLocationMessage = "Assalam o Alaikum, please add my location to the Ramadan timetable."
)

// SupportURL returns the WhatsApp chat link for the location's support number
func (l Location) SupportURL() string {
	return whatsappURL(l.WhatsappNumber, "")
}

// CommunityURL returns the location's WhatsApp community, or the default one
func (l Location) CommunityURL() string {
	if c := strings.TrimSpace(l.WhatsappCommunity); c != "" {
		return c
	}
	return DefaultWhatsappCommunity
}

// RequestLocationURL returns a chat link asking the app team to add a location
func RequestLocationURL() string {
	return whatsappURL(DefaultWhatsappNumber, RequestLocationMessage)
}

func whatsappURL(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		digits = DefaultWhatsappNumber
	}

	u := "https://wa.me/" + digits
	if text != "" {
		u += "?text=" + url.QueryEscape(text)
	}
	return u
}
