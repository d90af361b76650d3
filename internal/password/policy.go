// Package password implements the identity-derived password policy and the
// credential hasher.
package password

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

const alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// requiredCaps derives the uppercase candidates from the last three
// characters of the surname. A surname shorter than three characters
// degrades to the whole surname.
func requiredCaps(lastName string) []rune {
	runes := []rune(strings.ToLower(lastName))
	if len(runes) > 3 {
		runes = runes[len(runes)-3:]
	}
	caps := make([]rune, len(runes))
	for i, r := range runes {
		caps[i] = unicode.ToUpper(r)
	}
	return caps
}

func lastTwo(s string) string {
	runes := []rune(s)
	if len(runes) > 2 {
		runes = runes[len(runes)-2:]
	}
	return string(runes)
}

// Validate checks a candidate password against the rules derived from the
// holder's identity: at least one uppercase letter drawn from the surname
// tail, the last two digits of the national ID, and the last two digits of
// the phone number. Checks run in that fixed order and only the first
// failing reason is returned.
func Validate(password, lastName, nationalID, phone string) (bool, string) {
	caps := requiredCaps(lastName)

	var hasCap bool
	for _, c := range caps {
		if strings.ContainsRune(password, c) {
			hasCap = true
			break
		}
	}

	if !hasCap {
		labels := make([]string, len(caps))
		for i, c := range caps {
			labels[i] = string(c)
		}
		return false, fmt.Sprintf("password must include one uppercase letter from: %s", strings.Join(labels, ", "))
	}

	if idTail := lastTwo(nationalID); !strings.Contains(password, idTail) {
		return false, fmt.Sprintf("password must include the last 2 digits of your national ID: %s", idTail)
	}

	if phoneTail := lastTwo(phone); !strings.Contains(password, phoneTail) {
		return false, fmt.Sprintf("password must include the last 2 digits of your phone: %s", phoneTail)
	}

	return true, "OK"
}

// Generate builds a password that satisfies Validate by construction: one
// uppercase letter from the surname tail, the ID and phone digit tails, four
// random alphanumerics, shuffled. Not a secret-grade generator; OTP codes
// and reset tokens use crypto/rand instead.
func Generate(lastName, nationalID, phone string) string {
	caps := requiredCaps(lastName)

	base := []rune{caps[rand.Intn(len(caps))]}
	base = append(base, []rune(lastTwo(nationalID))...)
	base = append(base, []rune(lastTwo(phone))...)
	for i := 0; i < 4; i++ {
		base = append(base, rune(alphanumerics[rand.Intn(len(alphanumerics))]))
	}

	rand.Shuffle(len(base), func(i, j int) {
		base[i], base[j] = base[j], base[i]
	})

	return string(base)
}
