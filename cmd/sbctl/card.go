package main

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"studentz/pkg/client"
)

const cardWidth = 46

// renderCard prints a text ID card. Cards stay valid until the year after now.
func renderCard(w io.Writer, m client.Member, now time.Time) error {
	joined := m.CreatedAt
	if joined.IsZero() {
		joined = now
	}
	joined = joined.Local()

	badge := "ACTIVE"
	if m.Status == client.StatusPendingSync {
		badge = "PENDING SYNC"
	}
	phone := m.WhatsApp
	if phone != "" {
		phone = "+91 " + phone
	}
	photo := "no"
	if m.Photo != "" {
		photo = "on file"
	}

	border := "+" + strings.Repeat("-", cardWidth) + "+"
	lines := []string{
		border,
		center("STUDENTZ BANGALORE"),
		center("COMMUNITY MEMBER ID"),
		center("[ " + m.MemberID + " ]"),
		border,
		row("NAME", m.Name),
		row("COLLEGE", m.College),
		row("WHATSAPP", phone),
		row("EMAIL", m.Email),
		row("PHOTO", photo),
		row("STATUS", badge),
		border,
		row("JOINED", fmt.Sprintf("%d/%d/%d", joined.Day(), int(joined.Month()), joined.Year())),
		row("VALID TILL", fmt.Sprint(now.Year()+1)),
		border,
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func center(s string) string {
	s = clip(s, cardWidth)
	n := utf8.RuneCountInString(s)
	left := (cardWidth - n) / 2
	return "|" + strings.Repeat(" ", left) + s + strings.Repeat(" ", cardWidth-n-left) + "|"
}

func row(label, value string) string {
	s := clip(fmt.Sprintf(" %-11s %s", label+":", value), cardWidth)
	return "|" + s + strings.Repeat(" ", cardWidth-utf8.RuneCountInString(s)) + "|"
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
