// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jeranaias/chatterm/internal/session"
	"github.com/jeranaias/chatterm/internal/util"
)

// Intent labels returned in the "intent" field of a chat reply.
const (
	IntentGreeting    = "greeting"
	IntentGoodbye     = "goodbye"
	IntentTime        = "time"
	IntentDate        = "date"
	IntentEmail       = "email"
	IntentEmailRecall = "email_recall"
	IntentCalculation = "calculation"
	IntentHelp        = "help"
	IntentIdentity    = "identity"
	IntentUnknown     = "unknown"
)

// echoLimit bounds how much of the user's text the fallback reply repeats.
const echoLimit = 80

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	calcPattern  = regexp.MustCompile(`(?i)^(?:what\s+is|what's|calculate|compute)?\s*(-?\d+(?:\.\d+)?)\s*([-+*/x×])\s*(-?\d+(?:\.\d+)?)\s*=?\s*$`)
	splitPattern = regexp.MustCompile(`[?!]+|\.(?:\s+|$)|,\s+|\s+and\s+`)
)

// Reply is the responder's answer to one message.
type Reply struct {
	Text   string
	Intent string
	// Email is set when the message contained an address to remember.
	Email string
}

// Responder produces rule-based replies. The zero value is not usable; call
// NewResponder.
type Responder struct {
	now func() time.Time
}

// NewResponder creates a responder using the wall clock.
func NewResponder() *Responder {
	return &Responder{now: time.Now}
}

// Respond answers message in the context of state. Messages containing
// several questions are split and answered in order; the reply intent is the
// first recognized one.
func (r *Responder) Respond(state session.State, message string) Reply {
	parts := splitQuestions(message)
	if len(parts) == 0 {
		parts = []string{strings.TrimSpace(message)}
	}

	email := state.Email
	var (
		texts    []string
		intent   string
		captured string
	)
	for _, part := range parts {
		text, partIntent, found := r.answer(part, email, state.LastIntent)
		if found != "" {
			email = found
			captured = found
		}
		texts = append(texts, text)
		if intent == "" && partIntent != IntentUnknown {
			intent = partIntent
		}
	}
	if intent == "" {
		intent = IntentUnknown
	}

	return Reply{Text: strings.Join(texts, " "), Intent: intent, Email: captured}
}

// answer handles a single question.
func (r *Responder) answer(part, email, lastIntent string) (text, intent, captured string) {
	lower := strings.ToLower(part)
	words := wordSet(lower)

	if addr := emailPattern.FindString(part); addr != "" {
		return fmt.Sprintf("Thanks! I'll remember your email address: %s", addr), IntentEmail, addr
	}

	if strings.Contains(lower, "my email") || strings.Contains(lower, "my e-mail") {
		if email == "" {
			return "You haven't told me your email address yet.", IntentEmailRecall, ""
		}
		return fmt.Sprintf("Your email address is %s.", email), IntentEmailRecall, ""
	}

	if m := calcPattern.FindStringSubmatch(strings.TrimSpace(part)); m != nil {
		return calculate(m[1], m[2], m[3]), IntentCalculation, ""
	}

	now := r.now()
	switch {
	case words["time"] || words["hour"]:
		return fmt.Sprintf("It is %s.", now.Format("15:04")), IntentTime, ""
	case words["date"] || words["today"] || (words["day"] && words["what"]):
		return fmt.Sprintf("Today is %s.", now.Format("Monday, January 2, 2006")), IntentDate, ""
	case words["help"] || strings.Contains(lower, "what can you do"):
		return "I can tell you the time or the date, do simple arithmetic like 12 * 7, " +
			"and remember your email address.", IntentHelp, ""
	case strings.Contains(lower, "who are you") || strings.Contains(lower, "your name"):
		return "I'm a small assistant running on the development server.", IntentIdentity, ""
	case words["bye"] || words["goodbye"] || words["farewell"] || strings.Contains(lower, "see you"):
		return fmt.Sprintf("Goodbye! Have a good %s.", partOfDay(now)), IntentGoodbye, ""
	case words["hello"] || words["hi"] || words["hey"] || words["bonjour"] ||
		strings.Contains(lower, "good morning") || strings.Contains(lower, "good evening"):
		if lastIntent == IntentGreeting {
			return "Hello again! What can I do for you?", IntentGreeting, ""
		}
		return "Hello! How can I help you today?", IntentGreeting, ""
	}

	return fmt.Sprintf("I'm not sure how to answer %q. Try asking for the time, the date, or a sum like 12 * 7.",
		util.TruncateRunes(strings.TrimSpace(part), echoLimit)), IntentUnknown, ""
}

// calculate evaluates a single binary operation.
func calculate(left, op, right string) string {
	a, err := strconv.ParseFloat(left, 64)
	if err != nil {
		return "I couldn't read that number."
	}
	b, err := strconv.ParseFloat(right, 64)
	if err != nil {
		return "I couldn't read that number."
	}

	var v float64
	switch op {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "*", "x", "X", "×":
		v = a * b
	case "/":
		if b == 0 {
			return "I can't divide by zero."
		}
		v = a / b
	}
	return fmt.Sprintf("%s %s %s = %s", left, op, right, strconv.FormatFloat(v, 'f', -1, 64))
}

// partOfDay names the time of day for a farewell.
func partOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 18:
		return "afternoon"
	case h >= 18 && h < 22:
		return "evening"
	default:
		return "night"
	}
}

// splitQuestions breaks a message on sentence punctuation and "and".
func splitQuestions(message string) []string {
	var parts []string
	for _, p := range splitPattern.Split(message, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func wordSet(s string) map[string]bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
