package redsys

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Notification is the decoded Ds_MerchantParameters payload of an inbound
// webhook. Field tags double as the wire names for the mockwebhook tool.
type Notification struct {
	Date              string `json:"Ds_Date,omitempty"`
	Hour              string `json:"Ds_Hour,omitempty"`
	Amount            string `json:"Ds_Amount"`
	Currency          string `json:"Ds_Currency"`
	Order             string `json:"Ds_Order"`
	MerchantCode      string `json:"Ds_MerchantCode"`
	Terminal          string `json:"Ds_Terminal"`
	Response          string `json:"Ds_Response"`
	AuthorisationCode string `json:"Ds_AuthorisationCode,omitempty"`
	TransactionType   string `json:"Ds_TransactionType,omitempty"`
	SecurePayment     string `json:"Ds_SecurePayment,omitempty"`
}

// RawNotification keeps the exact base64 string as received: verification must
// run over those bytes, never over a re-serialized copy.
type RawNotification struct {
	Params    string
	Signature string
	Decoded   Notification
}

// ParseNotification extracts the three gateway form fields and decodes the
// parameter payload. The order code used later for key derivation comes from
// the decoded payload itself (yan kanal yok).
func ParseNotification(form url.Values) (RawNotification, error) {
	params := form.Get("Ds_MerchantParameters")
	sig := form.Get("Ds_Signature")
	if params == "" || sig == "" {
		return RawNotification{}, fmt.Errorf("%w: missing form fields", ErrMalformedPayload)
	}

	raw, err := base64.StdEncoding.DecodeString(params)
	if err != nil {
		return RawNotification{}, fmt.Errorf("%w: bad base64: %v", ErrMalformedPayload, err)
	}

	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return RawNotification{}, fmt.Errorf("%w: bad json: %v", ErrMalformedPayload, err)
	}
	if n.Order == "" || n.Response == "" {
		return RawNotification{}, fmt.Errorf("%w: missing Ds_Order or Ds_Response", ErrMalformedPayload)
	}

	return RawNotification{Params: params, Signature: sig, Decoded: n}, nil
}

// ResponseCode parses Ds_Response into its numeric value.
func (n Notification) ResponseCode() (int, error) {
	code, err := strconv.Atoi(n.Response)
	if err != nil {
		return 0, fmt.Errorf("%w: Ds_Response %q", ErrMalformedPayload, n.Response)
	}
	return code, nil
}

// Authorized: 0..99 bandı gateway'in onay aralığı.
func (n Notification) Authorized() bool {
	code, err := n.ResponseCode()
	return err == nil && code >= 0 && code <= 99
}

// ConfirmationAccepted reports the 900 ack code the gateway sends for
// capture/refund operations.
func (n Notification) ConfirmationAccepted() bool {
	code, err := n.ResponseCode()
	return err == nil && code == 900
}
