package boardingpass

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skip2/go-qrcode"
)

const issuer = "air-reservation"

// validAfterDeparture is how long a scanned pass is still accepted
const validAfterDeparture = 24 * time.Hour

var (
	// ErrInvalidSignature is returned when a scanned pass was not issued by us
	ErrInvalidSignature = errors.New("invalid boarding pass signature")

	// ErrPassExpired is returned for a genuine pass whose flight is long gone
	ErrPassExpired = errors.New("boarding pass expired")
)

// Pass is the data printed into the QR code
type Pass struct {
	TicketID         int       `json:"ticket_id"`
	AirlineName      string    `json:"airline_name"`
	FlightNum        int       `json:"flight_num"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	SeatClassID      int       `json:"seat_class_id"`
	Passenger        string    `json:"passenger"`
	IssuedAt         time.Time `json:"-"`
}

// Claims carries a pass inside an HS256 token
type Claims struct {
	Pass
	jwt.RegisteredClaims
}

// Generator signs passes and renders them as QR PNGs
type Generator struct {
	secret []byte
	size   int
}

// NewGenerator creates a generator. size is the PNG edge in pixels.
func NewGenerator(secret string, size int) *Generator {
	if size <= 0 {
		size = 256
	}
	return &Generator{secret: []byte(secret), size: size}
}

// Encode signs the pass. It stays valid until a day after departure.
func (g *Generator) Encode(p Pass) (string, error) {
	claims := Claims{
		Pass: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(p.TicketID),
			ExpiresAt: jwt.NewNumericDate(p.DepartureTime.Add(validAfterDeparture)),
		},
	}
	if !p.IssuedAt.IsZero() {
		claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(p.IssuedAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign boarding pass: %w", err)
	}
	return signed, nil
}

// Verify checks the signature of an encoded pass and decodes it
func (g *Generator) Verify(tokenString string) (*Pass, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrPassExpired
		}
		return nil, ErrInvalidSignature
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	pass := claims.Pass
	if claims.RegisteredClaims.IssuedAt != nil {
		pass.IssuedAt = claims.RegisteredClaims.IssuedAt.Time
	}
	return &pass, nil
}

// PNG renders the signed pass as a QR code image
func (g *Generator) PNG(p Pass) ([]byte, error) {
	token, err := g.Encode(p)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(token, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
