// Package webhook implements the dialog platform fulfillment endpoint: it
// decodes Dialogflow ES shaped requests, dispatches on the intent name and
// answers with localized text.
package webhook

import (
	"strings"

	"github.com/wolfman30/restaurant-webhook/internal/slots"
)

// Request is the fulfillment payload sent by the dialog platform.
type Request struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries the matched intent and its slot values.
type QueryResult struct {
	QueryText    string       `json:"queryText"`
	LanguageCode string       `json:"languageCode"`
	Intent       Intent       `json:"intent"`
	Parameters   slots.Params `json:"parameters"`
}

// Intent identifies what the user asked for.
type Intent struct {
	DisplayName string `json:"displayName"`
}

// Response is the fulfillment reply.
type Response struct {
	FulfillmentText     string    `json:"fulfillmentText"`
	FulfillmentMessages []Message `json:"fulfillmentMessages,omitempty"`
}

// Message is one chat bubble.
type Message struct {
	Text MessageText `json:"text"`
}

// MessageText holds the lines of a chat bubble.
type MessageText struct {
	Text []string `json:"text"`
}

// TextResponse is a single-bubble reply.
func TextResponse(text string) Response {
	return Response{FulfillmentText: text}
}

// MultiResponse sends each line as its own bubble; FulfillmentText joins them
// for clients that only read the plain text.
func MultiResponse(lines ...string) Response {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	resp := Response{FulfillmentText: strings.Join(kept, "\n")}
	for _, line := range kept {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, Message{Text: MessageText{Text: []string{line}}})
	}
	return resp
}
