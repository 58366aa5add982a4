package services

import (
	"encoding/json"
	"os"
	"strconv"

	"blackbird-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioGateway delivers the same template contract through Twilio's content
// API. The external template name is the content SID of the approved
// WhatsApp template and the positional parameters become content variables
// keyed "1", "2", ...
type TwilioGateway struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioGateway() *TwilioGateway {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioGateway{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}
}

func (g *TwilioGateway) SendTemplate(phone, templateName, languageCode string, bodyParameters []string) SendResult {
	to := utils.DigitsOnly(phone)
	if to == "" {
		return SendResult{Success: false, Detail: "empty recipient phone"}
	}

	vars := make(map[string]string, len(bodyParameters))
	for i, p := range bodyParameters {
		vars[strconv.Itoa(i+1)] = p
	}
	encoded, err := json.Marshal(vars)
	if err != nil {
		return SendResult{Success: false, Detail: err.Error()}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + to)
	params.SetFrom("whatsapp:" + g.from)
	params.SetContentSid(templateName)
	params.SetContentVariables(string(encoded))

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return SendResult{Success: false, Detail: err.Error()}
	}
	if resp.Sid != nil {
		return SendResult{Success: true, Detail: *resp.Sid}
	}
	return SendResult{Success: true}
}
