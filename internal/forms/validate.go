// Package forms holds the editor's field rules and the summary generation
// flow of the personal details form.
package forms

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Check is the outcome of a field rule. Message is empty when Valid.
type Check struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")

var domainTypos = map[string]string{
	"gmail.om":   "gmail.com",
	"gmail.co":   "gmail.com",
	"gmai.com":   "gmail.com",
	"gmial.com":  "gmail.com",
	"yahoo.co":   "yahoo.com",
	"yaho.com":   "yahoo.com",
	"outlok.com": "outlook.com",
	"hotmai.com": "hotmail.com",
}

// ValidateEmail applies strict syntax, suggests a fix for common domain
// typos and requires a TLD of at least two characters.
func ValidateEmail(email string) Check {
	if email == "" {
		return Check{Message: "Email is required"}
	}
	if !emailPattern.MatchString(email) {
		return Check{Message: "Please enter a valid email address"}
	}
	local, domain, _ := strings.Cut(email, "@")
	if fix, ok := domainTypos[strings.ToLower(domain)]; ok {
		return Check{Message: fmt.Sprintf("Did you mean %s@%s?", local, fix)}
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 || len(labels[len(labels)-1]) < 2 {
		return Check{Message: "Email domain is invalid"}
	}
	return Check{Valid: true}
}

// PasswordCheck reports which strength rules a password meets.
type PasswordCheck struct {
	Check
	Strength  int  `json:"strength"`
	Length    bool `json:"length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Number    bool `json:"number"`
	Special   bool `json:"special"`
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// ValidatePassword needs 8+ characters with upper, lower, digit and special.
// Strength counts the rules met; a fully valid password scores 5.
func ValidatePassword(password string) PasswordCheck {
	if password == "" {
		return PasswordCheck{Check: Check{Message: "Password is required"}}
	}
	pc := PasswordCheck{
		Length:    utf8.RuneCountInString(password) >= 8,
		Uppercase: upperRe.MatchString(password),
		Lowercase: lowerRe.MatchString(password),
		Number:    digitRe.MatchString(password),
		Special:   specialRe.MatchString(password),
	}
	var missing []string
	for _, rule := range []struct {
		ok   bool
		text string
	}{
		{pc.Length, "At least 8 characters"},
		{pc.Uppercase, "One uppercase letter"},
		{pc.Lowercase, "One lowercase letter"},
		{pc.Number, "One number"},
		{pc.Special, "One special character"},
	} {
		if rule.ok {
			pc.Strength++
		} else {
			missing = append(missing, rule.text)
		}
	}
	if len(missing) > 0 {
		pc.Message = "Password must contain: " + strings.Join(missing, ", ")
		return pc
	}
	pc.Valid = true
	pc.Message = "Password is strong"
	return pc
}

// StrengthLabel names a strength score.
func StrengthLabel(strength int) string {
	switch {
	case strength <= 0:
		return ""
	case strength == 1:
		return "Very Weak"
	case strength == 2:
		return "Weak"
	case strength == 3:
		return "Fair"
	case strength == 4:
		return "Good"
	default:
		return "Strong"
	}
}

var namePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

func ValidateName(name string) Check {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return Check{Message: "Name is required"}
	case n < 2:
		return Check{Message: "Name must be at least 2 characters"}
	case n > 50:
		return Check{Message: "Name must be less than 50 characters"}
	case !namePattern.MatchString(trimmed):
		return Check{Message: "Name can only contain letters, spaces, hyphens, and apostrophes"}
	}
	return Check{Valid: true}
}

func ValidatePasswordMatch(password, confirm string) Check {
	if confirm == "" {
		return Check{Message: "Please confirm your password"}
	}
	if password != confirm {
		return Check{Message: "Passwords do not match"}
	}
	return Check{Valid: true}
}
