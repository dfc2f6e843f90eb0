package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/utils"
	"github.com/skyline/air-reservation/pkg/jwt"
	"github.com/skyline/air-reservation/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers principals, checks credentials and manages sessions
type AuthService struct {
	customers  *database.CustomerRepository
	agents     *database.BookingAgentRepository
	staff      *database.AirlineStaffRepository
	airlines   *database.AirlineRepository
	sessions   *database.SessionRepository
	jwtService *jwt.Service
	emails     *validator.EmailValidator
	phones     *validator.PhoneValidator
	bcryptCost int
	logger     *logrus.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	customers *database.CustomerRepository,
	agents *database.BookingAgentRepository,
	staff *database.AirlineStaffRepository,
	airlines *database.AirlineRepository,
	sessions *database.SessionRepository,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		customers:  customers,
		agents:     agents,
		staff:      staff,
		airlines:   airlines,
		sessions:   sessions,
		jwtService: jwtService,
		emails:     validator.NewEmailValidator(),
		phones:     validator.NewPhoneValidator(),
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterCustomer creates a customer account
func (s *AuthService) RegisterCustomer(ctx context.Context, req *models.CustomerRegistrationRequest) error {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		return validationError("Email, name, and password are required.")
	}

	email, err := s.emails.Validate(req.Email)
	if err != nil {
		return validationError("Please enter a valid email address.")
	}

	phone, err := s.phones.Validate(req.PhoneNumber)
	if err != nil {
		return validationError("Please enter a valid phone number.")
	}

	passportExpiration, err := parseOptionalDate(req.PassportExpiration)
	if err != nil {
		return err
	}
	dateOfBirth, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return err
	}

	exists, err := s.customers.Exists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return conflictError("Customer already exists.")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}

	customer := &models.Customer{
		Email:              email,
		Name:               strings.TrimSpace(req.Name),
		PasswordHash:       hash,
		BuildingNumber:     optionalString(req.BuildingNumber),
		Street:             optionalString(req.Street),
		City:               optionalString(req.City),
		State:              optionalString(req.State),
		PhoneNumber:        optionalString(phone),
		PassportNumber:     optionalString(req.PassportNumber),
		PassportExpiration: passportExpiration,
		PassportCountry:    optionalString(req.PassportCountry),
		DateOfBirth:        dateOfBirth,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return conflictError("Customer already exists.")
		}
		return err
	}

	s.logger.WithField("email", email).Info("Customer registered")
	return nil
}

// RegisterAgent creates a booking agent account
func (s *AuthService) RegisterAgent(ctx context.Context, req *models.AgentRegistrationRequest) error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return validationError("Email and password are required.")
	}

	email, err := s.emails.Validate(req.Email)
	if err != nil {
		return validationError("Please enter a valid email address.")
	}

	exists, err := s.agents.Exists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return conflictError("Booking agent already exists.")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}

	if err := s.agents.Create(ctx, &models.BookingAgent{Email: email, PasswordHash: hash}); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return conflictError("Booking agent already exists.")
		}
		return err
	}

	s.logger.WithField("email", email).Info("Booking agent registered")
	return nil
}

// ListAirlines returns the airlines a staff member can sign up for
func (s *AuthService) ListAirlines(ctx context.Context) ([]string, error) {
	return s.airlines.ListNames(ctx)
}

// RegisterStaff creates a staff account after checking the airline's
// registration code
func (s *AuthService) RegisterStaff(ctx context.Context, req *models.StaffSignupRequest) error {
	username := strings.TrimSpace(req.Username)
	airlineName := strings.TrimSpace(req.AirlineName)
	if username == "" || req.Password == "" || airlineName == "" {
		return validationError("Username, password, and airline are required.")
	}

	role := models.StaffRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = models.StaffRoleAdmin
	}
	if !role.Valid() {
		return validationError("Role must be admin, operator, or both.")
	}

	dateOfBirth, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return err
	}

	airline, err := s.airlines.GetByName(ctx, airlineName)
	if err != nil {
		return err
	}
	if airline == nil {
		return validationError("Selected airline does not exist. Please choose from the list.")
	}

	if !utils.RegistrationCodeMatches(req.RegCode, airline.StaffRegHash) {
		s.logger.WithFields(logrus.Fields{
			"username": username,
			"airline":  airlineName,
		}).Warn("Staff signup with invalid registration code")
		return forbiddenError("Invalid registration code.", "/register/staff")
	}

	exists, err := s.staff.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return conflictError("Staff user already exists.")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}

	member := &models.AirlineStaff{
		Username:     username,
		PasswordHash: hash,
		FirstName:    optionalString(req.FirstName),
		LastName:     optionalString(req.LastName),
		DateOfBirth:  dateOfBirth,
		AirlineName:  airline.AirlineName,
		Role:         role,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return conflictError("Staff user already exists.")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"username": username,
		"airline":  airline.AirlineName,
		"role":     role,
	}).Info("Airline staff registered")
	return nil
}

// Login checks credentials for the requested principal kind and opens a session
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, client models.ClientInfo) (*models.LoginResponse, error) {
	if !req.UserType.Valid() {
		return nil, validationError("Please choose customer, agent, or staff.")
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, validationError("Login and password are required.")
	}

	principal, passwordHash, err := s.lookupPrincipal(ctx, req.UserType, identifier)
	if err != nil {
		return nil, err
	}
	if principal == nil || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		s.logger.WithFields(logrus.Fields{
			"user_type": req.UserType,
			"ip":        client.IPAddress,
		}).Warn("Failed login attempt")
		return nil, &Error{Kind: ErrInvalidCredentials, Message: "Invalid credentials.", Redirect: "/login"}
	}

	sessionID := uuid.New()
	token, expiresAt, err := s.jwtService.GenerateSessionToken(sessionID, *principal)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:            sessionID,
		PrincipalType: req.UserType,
		PrincipalID:   principal.ID,
		AirlineName:   optionalString(principal.AirlineName),
		IPAddress:     optionalString(client.IPAddress),
		DeviceType:    optionalString(client.DeviceType),
		UserAgent:     optionalString(client.UserAgent),
		CreatedAt:     s.now(),
		ExpiresAt:     expiresAt,
	}
	if principal.StaffRole != "" {
		role := models.StaffRole(principal.StaffRole)
		session.StaffRole = &role
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_type":  req.UserType,
		"user_id":    principal.ID,
		"session_id": sessionID,
		"device":     client.DeviceType,
	}).Info("User logged in")

	return &models.LoginResponse{
		Token:       token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		UserType:    req.UserType,
		UserID:      principal.ID,
		AirlineName: principal.AirlineName,
		StaffRole:   models.StaffRole(principal.StaffRole),
		Redirect:    "/" + string(req.UserType),
	}, nil
}

// lookupPrincipal returns nil when no account matches
func (s *AuthService) lookupPrincipal(ctx context.Context, userType models.PrincipalType, identifier string) (*jwt.Principal, string, error) {
	switch userType {
	case models.PrincipalCustomer:
		customer, err := s.customers.GetByEmail(ctx, s.emails.Normalize(identifier))
		if err != nil || customer == nil {
			return nil, "", err
		}
		return &jwt.Principal{Type: string(userType), ID: customer.Email}, customer.PasswordHash, nil
	case models.PrincipalAgent:
		agent, err := s.agents.GetByEmail(ctx, s.emails.Normalize(identifier))
		if err != nil || agent == nil {
			return nil, "", err
		}
		return &jwt.Principal{Type: string(userType), ID: agent.Email}, agent.PasswordHash, nil
	default:
		member, err := s.staff.GetByUsername(ctx, identifier)
		if err != nil || member == nil {
			return nil, "", err
		}
		return &jwt.Principal{
			Type:        string(userType),
			ID:          member.Username,
			AirlineName: member.AirlineName,
			StaffRole:   string(member.Role),
		}, member.PasswordHash, nil
	}
}

// Logout revokes the session behind a token. Unparseable tokens are ignored
// since there is nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ExtractClaims(token)
	if err != nil || claims.SessionID == uuid.Nil {
		s.logger.WithError(err).Debug("Logout with unreadable token")
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.SessionID, s.now()); err != nil {
		return err
	}
	s.logger.WithField("session_id", claims.SessionID).Info("User logged out")
	return nil
}

// Authenticate resolves a bearer token to its active session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.jwtService.ValidateSessionToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, jwt.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive(s.now()) {
		return nil, fmt.Errorf("%w: session is not active", ErrUnauthenticated)
	}
	if string(session.PrincipalType) != claims.PrincipalType || session.PrincipalID != claims.PrincipalID {
		return nil, fmt.Errorf("%w: token does not match session", ErrUnauthenticated)
	}
	return session, nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", validationError("Password must be at most 72 bytes.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
