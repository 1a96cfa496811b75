// Package whatsapp builds click-to-chat deep links. Nothing is sent; the link
// opens WhatsApp with the message pre-filled.
package whatsapp

import (
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// Digits strips everything but 0-9 from a phone number, the form wa.me expects
// (international format without + or separators).
func Digits(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link returns https://wa.me/<digits>?text=<escaped message>. With no usable
// digits the link opens the chat picker instead of a specific number.
func Link(number, message string) string {
	link := baseURL + Digits(number)
	if message == "" {
		return link
	}
	return link + "?text=" + url.QueryEscape(message)
}
