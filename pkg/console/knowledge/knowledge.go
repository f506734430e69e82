// Package knowledge holds the static background content the assistant
// answers from, and formats it into a single prompt-ready block.
package knowledge

import "strings"

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Base is the structured knowledge object for one organization.
type Base struct {
	Overview string `json:"overview"`
	FAQs     []FAQ  `json:"faqs,omitempty"`
	Products string `json:"products,omitempty"`
	Support  string `json:"support,omitempty"`
}

// Section headers are fixed; downstream prompts anchor on them.
const (
	headerOrganization = "# Organization"
	headerFAQ          = "# FAQ"
	headerProducts     = "# Products"
	headerSupport      = "# Support"
)

// Prompt serializes the knowledge base into one block suitable for a
// system prompt. Empty sections are omitted.
func (b Base) Prompt() string {
	var out strings.Builder
	section := func(header, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(header)
		out.WriteString("\n")
		out.WriteString(strings.TrimSpace(body))
	}

	section(headerOrganization, b.Overview)

	if len(b.FAQs) > 0 {
		var faq strings.Builder
		for i, qa := range b.FAQs {
			if i > 0 {
				faq.WriteString("\n")
			}
			faq.WriteString("Q: ")
			faq.WriteString(strings.TrimSpace(qa.Question))
			faq.WriteString("\nA: ")
			faq.WriteString(strings.TrimSpace(qa.Answer))
		}
		section(headerFAQ, faq.String())
	}

	section(headerProducts, b.Products)
	section(headerSupport, b.Support)
	return out.String()
}

// Default returns the demo organization content shipped with the
// reference integration.
func Default() Base {
	return Base{
		Overview: "Harborview Coffee Roasters is a specialty roaster operating " +
			"three cafes and an online store. The voice assistant answers " +
			"questions about products, orders, and store hours.",
		FAQs: []FAQ{
			{
				Question: "What are your store hours?",
				Answer:   "All cafes are open 7am-6pm Monday through Saturday and 8am-4pm on Sunday.",
			},
			{
				Question: "Do you ship internationally?",
				Answer:   "We ship whole-bean coffee to the US and Canada. Other destinations are not supported yet.",
			},
			{
				Question: "How do I reset my subscription schedule?",
				Answer:   "Open your account page, choose Subscriptions, and pick a new delivery cadence. Changes apply from the next billing cycle.",
			},
		},
		Products: "Single-origin whole-bean coffees (rotating seasonal list), " +
			"three signature blends, cold brew concentrate, and brewing equipment.",
		Support: "Order issues are handled by email within one business day. " +
			"The assistant can look up order status but cannot issue refunds; " +
			"refunds always go through a human agent.",
	}
}
