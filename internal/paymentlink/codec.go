// Package paymentlink encodes and decodes Zelle enrollment deep links.
//
// A link carries a base64 JSON document in its `data` query parameter:
//
//	https://enroll.zellepay.com/qr-codes?data=<base64({"name":..,"action":"payment","token":..})>
//
// Encode is deterministic, so re-encoding a decoded link reproduces the same
// URL byte for byte.
package paymentlink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	BaseURL       = "https://enroll.zellepay.com/qr-codes"
	DataParam     = "data"
	ActionPayment = "payment"
)

var (
	ErrMalformedURL   = errors.New("paymentlink: malformed url")
	ErrInvalidBase64  = errors.New("paymentlink: invalid base64")
	ErrInvalidJSON    = errors.New("paymentlink: invalid json")
	ErrSchemaMismatch = errors.New("paymentlink: schema mismatch")
)

// Payload is the document embedded in a Zelle link. Token is the recipient's
// enrolled email or phone.
type Payload struct {
	Name   string `json:"name"`
	Action string `json:"action"`
	Token  string `json:"token"`
}

func NewPayload(name, token string) Payload {
	return Payload{Name: name, Action: ActionPayment, Token: token}
}

func (p Payload) validate() error {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Action == "" {
		missing = append(missing, "action")
	}
	if p.Token == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// Encode builds the deep link for p.
func Encode(p Payload) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	q := url.Values{}
	q.Set(DataParam, base64.StdEncoding.EncodeToString(raw))
	return BaseURL + "?" + q.Encode(), nil
}

// Decode extracts the payload from a deep link. Errors wrap one of
// ErrMalformedURL, ErrInvalidBase64, ErrInvalidJSON or ErrSchemaMismatch.
func Decode(rawURL string) (Payload, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	data := u.Query().Get(DataParam)
	if data == "" {
		return Payload{}, fmt.Errorf("%w: no %q parameter", ErrMalformedURL, DataParam)
	}

	raw, err := decodeBase64(data)
	if err != nil {
		return Payload{}, err
	}

	if !json.Valid(raw) {
		return Payload{}, ErrInvalidJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Payload{}, fmt.Errorf("%w: payload is not an object", ErrSchemaMismatch)
	}

	var p Payload
	required := []struct {
		key string
		dst *string
	}{
		{"name", &p.Name},
		{"action", &p.Action},
		{"token", &p.Token},
	}
	for _, f := range required {
		v, ok := fields[f.key]
		if !ok {
			return Payload{}, fmt.Errorf("%w: missing %s", ErrSchemaMismatch, f.key)
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return Payload{}, fmt.Errorf("%w: %s is not a string", ErrSchemaMismatch, f.key)
		}
	}
	if err := p.validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// decodeBase64 accepts the standard alphabet (padded or not) and the URL-safe
// one. Links pasted without escaping lose '+' to the query decoder, so spaces
// are read back as '+'.
func decodeBase64(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "+")
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, ErrInvalidBase64
}
