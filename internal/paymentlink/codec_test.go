package paymentlink

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkWithData(data string) string {
	return BaseURL + "?data=" + url.QueryEscape(data)
}

func TestRoundTrip(t *testing.T) {
	payloads := []Payload{
		NewPayload("Lincoln High Band Boosters", "band@lincolnboosters.org"),
		NewPayload("Soccer & Friends <Varsity>", "+1 (555) 010-2000"),
		NewPayload("Équipe de natation", "natation@example.fr"),
		{Name: "x", Action: "donate", Token: "y"},
	}

	for _, p := range payloads {
		t.Run(p.Name, func(t *testing.T) {
			link, err := Encode(p)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(link, BaseURL+"?data="))

			got, err := Decode(link)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	p := NewPayload("Drama Club", "drama@example.org")

	first, err := Encode(p)
	require.NoError(t, err)
	second, err := Encode(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	decoded, err := Decode(first)
	require.NoError(t, err)
	again, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestEncodeRejectsIncompletePayload(t *testing.T) {
	_, err := Encode(Payload{Name: "Band", Action: ActionPayment})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeToleratesUnescapedBase64(t *testing.T) {
	// "??>" encodes to "Pz8+", the '+' turns into a space when left unescaped
	raw := `{"name":"??>","action":"payment","token":"t"}`
	data := base64.StdEncoding.EncodeToString([]byte(raw))
	require.Contains(t, data, "+")

	got, err := Decode(BaseURL + "?data=" + data)
	require.NoError(t, err)
	assert.Equal(t, "??>", got.Name)
}

func TestDecodeAcceptsUnpaddedBase64(t *testing.T) {
	raw := `{"name":"Band","action":"payment","token":"ab"}`
	data := base64.RawStdEncoding.EncodeToString([]byte(raw))

	got, err := Decode(linkWithData(data))
	require.NoError(t, err)
	assert.Equal(t, NewPayload("Band", "ab"), got)
}

func TestDecodeErrors(t *testing.T) {
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name string
		link string
		want error
	}{
		{name: "no data parameter", link: BaseURL, want: ErrMalformedURL},
		{name: "empty data parameter", link: BaseURL + "?data=", want: ErrMalformedURL},
		{name: "unparseable url", link: "http://[::1", want: ErrMalformedURL},
		{name: "not base64", link: linkWithData("***not-base64***"), want: ErrInvalidBase64},
		{name: "not json", link: linkWithData(b64("name=Band")), want: ErrInvalidJSON},
		{name: "json array", link: linkWithData(b64(`["Band"]`)), want: ErrSchemaMismatch},
		{name: "missing token", link: linkWithData(b64(`{"name":"Band","action":"payment"}`)), want: ErrSchemaMismatch},
		{name: "empty name", link: linkWithData(b64(`{"name":"","action":"payment","token":"t"}`)), want: ErrSchemaMismatch},
		{name: "numeric token", link: linkWithData(b64(`{"name":"Band","action":"payment","token":5}`)), want: ErrSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.link)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeReportsFirstMissingField(t *testing.T) {
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		payload string
		want    string
	}{
		{`{}`, "missing name"},
		{`{"token":"t"}`, "missing name"},
		{`{"name":"Band"}`, "missing action"},
		{`{"name":"Band","action":"payment"}`, "missing token"},
		{`{"name":5}`, "name is not a string"},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			// Repeat so a map-ordered walk would show up as a flaky message.
			for i := 0; i < 20; i++ {
				_, err := Decode(linkWithData(b64(tt.payload)))
				require.ErrorIs(t, err, ErrSchemaMismatch)
				assert.Equal(t, ErrSchemaMismatch.Error()+": "+tt.want, err.Error())
			}
		})
	}
}
