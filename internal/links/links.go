// Package links builds the deep links the page points at.
package links

import (
	"net/url"
	"strings"
	"unicode"
)

const chatBase = "https://wa.me/"

// Chat returns a chat deep link for contactID. Every non-digit is dropped
// from contactID; message is attached only when non-empty.
func Chat(contactID, message string) string {
	link := chatBase + digits(contactID)
	if message == "" {
		return link
	}
	return link + "?text=" + encodeComponent(message)
}

// Tel returns a tel: URI with all whitespace removed from phone.
func Tel(phone string) string {
	return "tel:" + strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

// Mail returns a mailto: URI.
func Mail(email string) string {
	return "mailto:" + strings.TrimSpace(email)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// encodeComponent escapes s for a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
