package handlers

import (
	"net/http"
	"strings"
	"time"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Vendors   repositories.VendorRepository
	JWTSecret []byte
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	vendor, hash, err := h.Vendors.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"vendor_id": vendor.ID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "token signing failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed, "vendor": vendor})
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "name, email and a password of at least 8 characters are required", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "password hashing failed", err)
		return
	}

	vendor, err := h.Vendors.Create(c.Request.Context(), req.Name, req.Email, string(hash))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
}
