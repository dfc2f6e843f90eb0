package boardingpass

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePass(departure time.Time) Pass {
	return Pass{
		TicketID:         42,
		AirlineName:      "AIRX",
		FlightNum:        100,
		DepartureAirport: "JFK",
		ArrivalAirport:   "LAX",
		DepartureTime:    departure,
		SeatClassID:      2,
		Passenger:        "a@x.com",
		IssuedAt:         departure.Add(-48 * time.Hour),
	}
}

func upcomingPass() Pass {
	return samplePass(time.Now().Add(72 * time.Hour).Truncate(time.Second))
}

func TestEncodeVerify(t *testing.T) {
	g := NewGenerator("pass-secret", 256)
	want := upcomingPass()

	token, err := g.Encode(want)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "compact JWS has three segments")

	p, err := g.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, p.TicketID)
	assert.Equal(t, "AIRX", p.AirlineName)
	assert.Equal(t, "a@x.com", p.Passenger)
	assert.True(t, want.DepartureTime.Equal(p.DepartureTime))
	assert.True(t, want.IssuedAt.Equal(p.IssuedAt))
}

func TestEncode_HS256Claims(t *testing.T) {
	g := NewGenerator("pass-secret", 256)
	pass := upcomingPass()

	token, err := g.Encode(pass)
	require.NoError(t, err)

	claims := &Claims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Method.Alg())
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, pass.DepartureTime.Add(24*time.Hour).Equal(claims.ExpiresAt.Time))
}

func TestVerify_Rejects(t *testing.T) {
	g := NewGenerator("pass-secret", 256)
	token, err := g.Encode(upcomingPass())
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Pass: upcomingPass()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		gen   *Generator
	}{
		{"Wrong Secret", token, NewGenerator("other-secret", 256)},
		{"Tampered Payload", "x" + token, g},
		{"Unsigned", noneToken, g},
		{"Not A Token", "abc", g},
		{"Empty", "", g},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.gen.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestVerify_ExpiredAfterDeparture(t *testing.T) {
	g := NewGenerator("pass-secret", 256)
	token, err := g.Encode(samplePass(time.Now().Add(-48 * time.Hour)))
	require.NoError(t, err)

	_, err = g.Verify(token)
	assert.ErrorIs(t, err, ErrPassExpired)
}

func TestPNG(t *testing.T) {
	g := NewGenerator("pass-secret", 0)

	png, err := g.PNG(upcomingPass())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
