package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vidtube/pkg/jwt"
	"vidtube/pkg/logger"
	"vidtube/pkg/models"
	"vidtube/pkg/response"
	"vidtube/pkg/s3"
	"vidtube/services/user/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	userRepo   repository.UserRepository
	jwtService *jwt.Service
	s3Client   s3.Store
	logger     *logger.Logger
}

func NewUserHandler(userRepo repository.UserRepository, jwtService *jwt.Service, s3Client s3.Store, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userRepo:   userRepo,
		jwtService: jwtService,
		s3Client:   s3Client,
		logger:     logger,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// saveTemp writes an uploaded file to a local temp path. The media client
// removes the temp file after the upload attempt, success or not.
func saveTemp(c *gin.Context, file *multipart.FileHeader) (string, error) {
	path := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

func (h *UserHandler) issueTokens(c *gin.Context, user *models.User) (string, string, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email, user.Username, user.FullName)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}
	if err := h.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return "", "", err
	}

	c.SetCookie("accessToken", accessToken, 0, "/", "", true, true)
	c.SetCookie("refreshToken", refreshToken, 0, "/", "", true, true)
	return accessToken, refreshToken, nil
}

// Register godoc
// @Summary      Register a new user
// @Description  Register with full name, email, username, password, a required avatar file and an optional cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullName formData string true "Full name"
// @Param        email formData string true "E-mail"
// @Param        username formData string true "Username"
// @Param        password formData string true "Password"
// @Param        avatar formData file true "Avatar image"
// @Param        coverImage formData file false "Cover image"
// @Success      201  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Failure      409  {object}  response.APIError
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	fullName := strings.TrimSpace(c.PostForm("fullName"))
	email := strings.TrimSpace(c.PostForm("email"))
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(password) == "" {
		response.Error(c, http.StatusBadRequest, "Fill all required fields")
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Avatar is required")
		return
	}

	avatarPath, err := saveTemp(c, avatarFile)
	if err != nil {
		h.logger.Error("Failed to stage avatar upload: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to process avatar")
		return
	}
	avatar, err := h.s3Client.UploadLocalFile(avatarPath, "avatars")
	if err != nil {
		h.logger.Error("Failed to upload avatar: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to upload avatar")
		return
	}

	var cover *s3.UploadResult
	if coverFile, err := c.FormFile("coverImage"); err == nil {
		coverPath, err := saveTemp(c, coverFile)
		if err != nil {
			h.cleanupAssets(avatar)
			h.logger.Error("Failed to stage cover image upload: %v", err)
			response.Error(c, http.StatusInternalServerError, "Failed to process cover image")
			return
		}
		cover, err = h.s3Client.UploadLocalFile(coverPath, "covers")
		if err != nil {
			h.cleanupAssets(avatar)
			h.logger.Error("Failed to upload cover image: %v", err)
			response.Error(c, http.StatusInternalServerError, "Failed to upload cover image")
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to process registration")
		return
	}

	user := &models.User{
		Username:  strings.ToLower(username),
		Email:     strings.ToLower(email),
		FullName:  fullName,
		Password:  string(hashedPassword),
		AvatarKey: avatar.Key,
		AvatarURL: avatar.URL,
	}
	if cover != nil {
		user.CoverImageKey = cover.Key
		user.CoverImageURL = cover.URL
	}

	// Uniqueness is enforced by the database indexes; a duplicate surfaces
	// here as a conflict instead of racing a prior existence check.
	if err := h.userRepo.Create(user); err != nil {
		h.cleanupAssets(avatar, cover)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Error(c, http.StatusConflict, "User with this username or email already exists")
			return
		}
		h.logger.Error("Failed to create user: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	response.Success(c, http.StatusCreated, user, "User created successfully")
}

func (h *UserHandler) cleanupAssets(assets ...*s3.UploadResult) {
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		if err := h.s3Client.DeleteFile(asset.Key); err != nil {
			h.logger.Warn("Failed to clean up uploaded asset %s: %v", asset.Key, err)
		}
	}
}

// Login godoc
// @Summary      Login with username or email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  response.APIResponse
// @Failure      401  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if strings.TrimSpace(identifier) == "" {
		response.Error(c, http.StatusBadRequest, "Username or email required")
		return
	}

	user, err := h.userRepo.GetByUsernameOrEmail(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "User does not exist")
			return
		}
		h.logger.Error("Failed to look up user: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		response.Error(c, http.StatusUnauthorized, "Incorrect credentials")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.Error("Failed to issue tokens: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "User logged in successfully")
}

// Logout godoc
// @Summary      Logout and invalidate the stored refresh token
// @Tags         users
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.userRepo.UpdateRefreshToken(userID, ""); err != nil {
		h.logger.Error("Failed to clear refresh token: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to log out")
		return
	}

	c.SetCookie("accessToken", "", -1, "/", "", true, true)
	c.SetCookie("refreshToken", "", -1, "/", "", true, true)
	response.Success(c, http.StatusOK, gin.H{}, "User logged out successfully")
}

// RefreshToken godoc
// @Summary      Rotate the session token pair
// @Description  Validates the refresh token from cookie or body against the stored copy and issues a new pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse
// @Failure      401  {object}  response.APIError
// @Router       /users/refresh-token [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	incoming, _ := c.Cookie("refreshToken")
	if incoming == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			incoming = body.RefreshToken
		}
	}
	if incoming == "" {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(incoming)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// Rotation: a token that no longer matches the stored copy has been
	// used or superseded.
	if user.RefreshToken != incoming {
		response.Error(c, http.StatusUnauthorized, "Used or expired refresh token")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.Error("Failed to rotate tokens: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to refresh tokens")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "Access token refreshed")
}

// ChangePassword godoc
// @Summary      Change password after verifying the old one
// @Tags         users
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Router       /users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		response.Error(c, http.StatusBadRequest, "Incorrect password")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if err := h.userRepo.UpdatePassword(userID, string(hashedPassword)); err != nil {
		h.logger.Error("Failed to update password: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

// GetCurrentUser godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse
// @Router       /users/current [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.userRepo.GetByID(c.GetString("user_id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}
	response.Success(c, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount godoc
// @Summary      Update full name and/or email
// @Tags         users
// @Security     BearerAuth
// @Param        request body UpdateAccountRequest true "Fields to update"
// @Success      200  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Failure      409  {object}  response.APIError
// @Router       /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" && req.Email == "" {
		response.Error(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	user, err := h.userRepo.UpdateAccount(userID, req.FullName, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Error(c, http.StatusConflict, "E-mail already in use")
			return
		}
		h.logger.Error("Failed to update account: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update account")
		return
	}

	response.Success(c, http.StatusOK, user, "Account updated successfully")
}

// UpdateAvatar godoc
// @Summary      Replace the avatar image
// @Tags         users
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Param        avatar formData file true "Avatar image"
// @Success      200  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Router       /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", "avatars",
		func(u *models.User) string { return u.AvatarKey },
		h.userRepo.UpdateAvatar,
	)
}

// UpdateCoverImage godoc
// @Summary      Replace the cover image
// @Tags         users
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Param        coverImage formData file true "Cover image"
// @Success      200  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Router       /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", "covers",
		func(u *models.User) string { return u.CoverImageKey },
		h.userRepo.UpdateCoverImage,
	)
}

// updateImage replaces a user-owned media asset. The old remote asset is
// deleted only after the database write succeeds so a failed write never
// orphans the asset still referenced by the row.
func (h *UserHandler) updateImage(c *gin.Context, field, keyPrefix string,
	oldKey func(*models.User) string,
	update func(userID, key, url string) (*models.User, error),
) {
	userID := c.GetString("user_id")

	file, err := c.FormFile(field)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Missing "+field+" file")
		return
	}

	current, err := h.userRepo.GetByID(userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}
	previousKey := oldKey(current)

	path, err := saveTemp(c, file)
	if err != nil {
		h.logger.Error("Failed to stage %s upload: %v", field, err)
		response.Error(c, http.StatusInternalServerError, "Failed to process file")
		return
	}
	uploaded, err := h.s3Client.UploadLocalFile(path, keyPrefix)
	if err != nil {
		h.logger.Error("Failed to upload %s: %v", field, err)
		response.Error(c, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	user, err := update(userID, uploaded.Key, uploaded.URL)
	if err != nil {
		h.cleanupAssets(uploaded)
		h.logger.Error("Failed to update %s: %v", field, err)
		response.Error(c, http.StatusInternalServerError, "Failed to update "+field)
		return
	}

	if previousKey != "" {
		if err := h.s3Client.DeleteFile(previousKey); err != nil {
			h.logger.Warn("Failed to delete previous %s asset %s: %v", field, previousKey, err)
		}
	}

	response.Success(c, http.StatusOK, user, "File updated successfully")
}

// GetChannelProfile godoc
// @Summary      Get a channel profile by username
// @Description  Subscriber counts and the viewer's isSubscribed flag are computed in a single query
// @Tags         users
// @Param        username path string true "Channel username"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIError
// @Router       /users/c/{username} [get]
func (h *UserHandler) GetChannelProfile(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		response.Error(c, http.StatusBadRequest, "Username missing")
		return
	}

	profile, err := h.userRepo.GetChannelProfile(username, c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "No channel found")
			return
		}
		h.logger.Error("Failed to fetch channel profile: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch channel")
		return
	}

	response.Success(c, http.StatusOK, profile, "Channel fetched successfully")
}

// GetWatchHistory godoc
// @Summary      Get the viewer's watch history, most recent first
// @Tags         users
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {object}  response.APIResponse
// @Router       /users/history [get]
func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := parsePagination(c)

	history, err := h.userRepo.GetWatchHistory(userID, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("Failed to fetch watch history: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch watch history")
		return
	}

	response.Success(c, http.StatusOK, history, "Watch history fetched successfully")
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 10
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
