package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bz888/loanchat/internal/domain"
)

const defaultLimit = 500000

var amountPattern = regexp.MustCompile(`\d[\d,]*`)

// conversation is the scripted loan workflow of one chat session.
type conversation struct {
	id       string
	stage    domain.Stage
	customer *domain.Customer
	amount   float64
	tenure   int
	letter   string
}

func newConversation(id string) *conversation {
	return &conversation{id: id, stage: domain.StageGreeting, tenure: 36}
}

func (c *conversation) reply(text string) domain.ChatReply {
	return domain.ChatReply{Response: text, Stage: c.stage, SessionID: c.id}
}

func (c *conversation) handleMessage(msg string) domain.ChatReply {
	lower := strings.ToLower(strings.TrimSpace(msg))

	switch c.stage {
	case domain.StageGreeting:
		if c.customer != nil {
			c.stage = domain.StageSales
			return c.reply(fmt.Sprintf("Hi %s! I see you're logged in. Let's begin your loan application.\nPlease tell me how much loan amount you are looking for.", c.customer.Name))
		}
		if containsAny(lower, "not interested", "don't want") {
			return c.reply("I understand. Feel free to reach out anytime you're interested in applying for a loan. Have a great day!")
		}
		if containsAny(lower, "yes", "yeah", "sure", "ok", "apply", "loan", "interested", "i need") {
			c.stage = domain.StageSales
			return c.reply("Great! Let's begin your loan application.\nPlease tell me how much loan amount you are looking for.")
		}
		if containsAny(lower, "no", "nope") {
			return c.reply("I understand. Feel free to reach out anytime you're interested in applying for a loan. Have a great day!")
		}
		return c.reply("Hello! I'm your loan assistant.\nWould you like to apply for a personal loan today? (Yes/No)")

	case domain.StageSales:
		amount, ok := parseAmount(lower)
		if !ok {
			return c.reply("Please tell me the loan amount in rupees, for example 250000.")
		}
		c.amount = amount
		c.stage = domain.StagePanSlip
		r := c.reply(fmt.Sprintf("Noted, ₹%.0f over %d months. Let's verify your KYC.\nPlease upload your PAN Card.", c.amount, c.tenure))
		r.AwaitingPan = true
		return r

	case domain.StagePanSlip:
		r := c.reply("Please upload your PAN Card document to continue. Text input is not accepted in this stage.")
		r.AwaitingPan = true
		return r

	case domain.StageAadhaarSlip:
		r := c.reply("Please upload your Aadhaar Card document to continue. Text input is not accepted in this stage.")
		r.AwaitingAadhaar = true
		return r

	case domain.StageSalarySlip:
		r := c.reply("Please upload your latest salary slip to continue.")
		r.AwaitingSalarySlip = true
		return r

	case domain.StageUnderwriting:
		c.stage = domain.StageSanction
		return c.reply(fmt.Sprintf("Congratulations! Your loan of ₹%.0f is approved. Reply with anything to generate your sanction letter.", c.amount))

	case domain.StageSanction:
		c.letter = fmt.Sprintf("sanction_%s.txt", shortID(c.id))
		c.stage = domain.StageComplete
		r := c.reply("Your sanction letter is ready. Download it below.")
		r.File = c.letter
		return r

	case domain.StageComplete:
		return c.reply("Your application is complete. Start a new conversation to apply again.")
	}
	return c.reply("I didn't understand, could you rephrase?")
}

// handleUpload advances the KYC stages. ok is false when no document is
// expected at the current stage.
func (c *conversation) handleUpload(doc domain.DocumentKind, filename string) (domain.ChatReply, bool) {
	switch {
	case c.stage == domain.StagePanSlip && doc == domain.DocumentPan:
		c.stage = domain.StageAadhaarSlip
		r := c.reply(fmt.Sprintf("PAN Card %s verified. Please upload your Aadhaar Card.", filename))
		r.AwaitingAadhaar = true
		return r, true

	case c.stage == domain.StageAadhaarSlip && doc == domain.DocumentAadhaar:
		if c.amount > 2*c.limit() {
			c.stage = domain.StageComplete
			return c.reply(fmt.Sprintf("Aadhaar verified. Unfortunately ₹%.0f is more than twice your pre-approved limit of ₹%.0f, so we cannot approve this application.", c.amount, c.limit())), true
		}
		if c.amount > c.limit() {
			c.stage = domain.StageSalarySlip
			r := c.reply(fmt.Sprintf("Aadhaar verified. The amount exceeds your pre-approved limit of ₹%.0f, so please upload your latest salary slip.", c.limit()))
			r.AwaitingSalarySlip = true
			return r, true
		}
		c.stage = domain.StageUnderwriting
		return c.reply("Aadhaar verified. Your application is now in underwriting. Send any message to check the result."), true

	case c.stage == domain.StageSalarySlip && doc == domain.DocumentSalarySlip:
		c.stage = domain.StageUnderwriting
		return c.reply("Salary slip received. Your application is now in underwriting. Send any message to check the result."), true
	}
	return domain.ChatReply{}, false
}

func (c *conversation) limit() float64 {
	if c.customer != nil && c.customer.PreapprovedLimit > 0 {
		return c.customer.PreapprovedLimit
	}
	return defaultLimit
}

func (c *conversation) letterText() string {
	name := "Customer"
	if c.customer != nil {
		name = c.customer.Name
	}
	return fmt.Sprintf("SANCTION LETTER\n\nDear %s,\n\nWe are pleased to sanction a personal loan of ₹%.0f for %d months.\n\nReference: %s\n",
		name, c.amount, c.tenure, c.id)
}

func parseAmount(s string) (float64, bool) {
	m := amountPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	switch {
	case strings.Contains(s, "lakh"):
		v *= 100000
	case strings.Contains(s, "crore"):
		v *= 10000000
	}
	return v, true
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
