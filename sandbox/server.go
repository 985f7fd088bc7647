// Package sandbox is an in-memory stand-in for the Cariya backend so the
// client can be developed and demoed without the production deployment. It
// serves the same endpoints with the same payload shapes and detail-message
// errors, plus real token issuance the production server still lacks.
package sandbox

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tobiusaolo/Cariya-wallet/logger"
	"github.com/tobiusaolo/Cariya-wallet/models"
	"github.com/tobiusaolo/Cariya-wallet/validate"
)

const tokenTTL = 24 * time.Hour

// legacyToken is accepted by the auth middleware so clients running in
// compat-token mode (registration responses carry no token) still work.
const legacyToken = "dummy-token"

// Server is the sandbox API server.
type Server struct {
	state  *state
	secret []byte
	engine *gin.Engine
}

// New builds a sandbox server with a fresh per-process signing secret.
func New() *Server {
	s := &Server{
		state:  newState(),
		secret: []byte(uuid.NewString()),
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.POST("/register", s.handleRegister)
	engine.POST("/login", s.handleLogin)
	engine.GET("/donor-view", s.handleDonorView)

	users := engine.Group("/users", s.authMiddleware)
	users.GET("/:id", s.handleGetUser)
	users.PUT("/:id", s.handleUpdateProfile)
	users.GET("/:id/savings", s.handleGetSavings)
	users.GET("/:id/savings/statements", s.handleGetStatements)
	users.POST("/:id/savings", s.handleAddSavings)
	users.GET("/:id/compliance", s.handleGetCompliance)
	users.POST("/:id/activities", s.handleAddActivity)

	s.engine = engine
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	logger.Get().Info("sandbox server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

func (s *Server) issueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		Issuer:    "cariya-sandbox",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authMiddleware accepts a sandbox-issued JWT or the legacy placeholder
// token. The production backend enforces nothing here; the sandbox is
// deliberately stricter so client auth handling gets exercised.
func (s *Server) authMiddleware(c *gin.Context) {
	token := extractBearer(c.Request)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Missing or invalid token"})
		return
	}
	if token == legacyToken {
		c.Next()
		return
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}
	c.Next()
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func respondErr(c *gin.Context, err error) {
	var he *httpErr
	if errors.As(err, &he) {
		c.JSON(he.status, gin.H{"detail": he.detail})
		return
	}
	logger.Get().Error("sandbox internal error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

type registerRequest struct {
	models.Registration
	Password string `json:"password,omitempty"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	req.MobileNumber = validate.NormalizePhone(req.MobileNumber)
	if err := validate.Registration(req.Registration); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	id, err := s.state.register(req.Registration, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	logger.Get().Info("sandbox user registered", zap.String("user_id", id))
	c.JSON(http.StatusOK, models.RegisterResponse{
		Message:     "User registered successfully",
		GeneratedID: id,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	id, err := s.state.login(validate.NormalizePhone(req.MobileNumber), req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	token, err := s.issueToken(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token, UserID: id})
}

func (s *Server) handleGetUser(c *gin.Context) {
	snap, err := s.state.snapshot(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var form models.Registration
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	form.MobileNumber = validate.NormalizePhone(form.MobileNumber)
	if err := s.state.updateProfile(c.Param("id"), form); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func (s *Server) handleGetSavings(c *gin.Context) {
	overview, _, err := s.state.savings(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleGetStatements(c *gin.Context) {
	_, statements, err := s.state.savings(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, statements)
}

func (s *Server) handleAddSavings(c *gin.Context) {
	var entry models.SavingsEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	resp, err := s.state.addSavings(c.Param("id"), entry)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetCompliance(c *gin.Context) {
	resp, err := s.state.compliance(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAddActivity(c *gin.Context) {
	var activity models.MonthlyActivity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	resp, err := s.state.addActivity(c.Param("id"), activity)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDonorView(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.donorView())
}
