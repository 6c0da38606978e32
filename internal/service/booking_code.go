package service

import (
	"crypto/rand"
	"time"
)

// codeAlphabet excludes easily confused characters (0/O, 1/I/L) so the
// code stays shareable over the phone or a paper ticket.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateBookingCode produces a human-shareable booking code of the
// form TIX-20240131203000-K7Q2MH: a UTC timestamp for operator
// friendliness plus a random suffix for collision resistance under
// concurrent issuance.  Uniqueness is still verified inside the
// persistence transaction; callers regenerate on ErrDuplicateCode.
func GenerateBookingCode(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble;
		// fall back to the timestamp nanos to stay operational.
		nanos := now.UnixNano()
		for i := range buf {
			buf[i] = codeAlphabet[int(nanos>>uint(i*5))%len(codeAlphabet)]
		}
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "TIX-" + now.UTC().Format("20060102150405") + "-" + string(buf)
}
