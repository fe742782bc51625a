package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"lms/internal/config"
	"lms/internal/models"
	"lms/internal/repository"
	"lms/internal/services"
)

const resetCodeTTL = 15 * time.Minute

type AuthHandler struct {
	users  repository.UserRepository
	resets repository.PasswordResetRepository
	mailer services.EmailSender
	cfg    *config.Config
	v      *validator.Validate
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, mailer services.EmailSender) *AuthHandler {
	return &AuthHandler{
		users:  repository.NewUserRepository(db),
		resets: repository.NewPasswordResetRepository(db),
		mailer: mailer,
		cfg:    cfg,
		v:      validator.New(),
	}
}

// @Tags Auth
// @Summary Sign up
// @Accept json
// @Produce json
// @Param body body models.SignupRequest true "Signup request"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeJSONMessage(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         models.RoleStudent,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			writeJSONMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("Signup error: %v", err)
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSONMessage(w, http.StatusCreated, "Account created successfully")
}

// @Tags Auth
// @Summary Sign in
// @Accept json
// @Produce json
// @Param body body models.SigninRequest true "Signin request"
// @Success 200 {object} models.SigninResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/signin [post]
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// Same response whether the email is unknown or the password is wrong
	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeJSONMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	expiresIn := h.cfg.JWTExpiresInSeconds
	if expiresIn <= 0 {
		expiresIn = 86400
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  string(u.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(models.SigninResponse{
		Message:     "Login successful",
		AccessToken: signed,
		ExpiresIn:   expiresIn,
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
	})
}

// @Tags Auth
// @Summary Request a password reset code
// @Accept json
// @Produce json
// @Param body body models.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	// Trim before validating so a padded address is not rejected
	req.Email = strings.TrimSpace(req.Email)
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// Always return the same message to avoid account enumeration
	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONMessage(w, http.StatusOK, "If that email exists, a reset code has been sent.")
		return
	}

	code, codeHash, err := generateResetCode()
	if err != nil {
		log.Printf("Forgot password: code generation failed: %v", err)
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	prt := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: codeHash,
		ExpiresAt: time.Now().UTC().Add(resetCodeTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.resets.Replace(r.Context(), prt); err != nil {
		log.Printf("Forgot password: failed to persist token: %v", err)
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	subject := "Your Password Reset Code"
	body := services.BuildResetCodeEmail(u.Name, code)
	if err := h.mailer.Send(u.Email, subject, body); err != nil {
		// The token row stays; the user can retry and supersede it
		log.Printf("Forgot password: failed to send email: %v", err)
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSONMessage(w, http.StatusOK, "If that email exists, a reset code has been sent.")
}

// @Tags Auth
// @Summary Verify a password reset code
// @Accept json
// @Produce json
// @Param body body models.VerifyResetCodeRequest true "Verify reset code request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/verify-reset-code [post]
func (h *AuthHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyResetCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONMessage(w, http.StatusBadRequest, "Invalid code")
		return
	}

	codeHash := hashResetCode(req.Code)

	// The code is not consumed here; the reset step re-checks it
	if _, err := h.resets.GetValidByUserAndHash(r.Context(), u.ID, codeHash); err == nil {
		writeJSONMessage(w, http.StatusOK, "Code verified")
		return
	} else if err.Error() != "reset token not found" {
		log.Printf("Verify reset code: lookup failed: %v", err)
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	// No valid token; tell expired apart from plain wrong
	if _, err := h.resets.GetByUserAndHash(r.Context(), u.ID, codeHash); err == nil {
		writeJSONMessage(w, http.StatusBadRequest, "Code has expired. Please request a new one.")
		return
	}

	writeJSONMessage(w, http.StatusBadRequest, "Invalid code. Please check and try again.")
}

// @Tags Auth
// @Summary Reset password with a verified code
// @Accept json
// @Produce json
// @Param body body models.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if len(req.NewPassword) < 8 {
		writeJSONMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	codeHash := hashResetCode(req.Code)

	token, err := h.resets.GetValidByUserAndHash(r.Context(), u.ID, codeHash)
	if err != nil {
		writeJSONMessage(w, http.StatusBadRequest, "Invalid or expired code")
		return
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if err := h.users.UpdatePasswordHash(r.Context(), u.ID, string(pwHash)); err != nil {
		log.Printf("Reset password: failed to update password: %v", err)
		writeJSONMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if err := h.resets.DeleteByID(r.Context(), token.ID); err != nil {
		log.Printf("Reset password: failed to delete consumed token: %v", err)
	}

	writeJSONMessage(w, http.StatusOK, "Password updated successfully")
}

// generateResetCode draws a uniform 6-digit code and returns it with its
// sha256 hex digest. Only the digest is persisted.
func generateResetCode() (code string, codeHash string, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", "", err
	}
	code = fmt.Sprintf("%06d", n.Int64()+100000)
	return code, hashResetCode(code), nil
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
