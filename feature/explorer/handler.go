package explorer

import (
	"errors"
	"strconv"
	"strings"

	"r2-explorer/core/logger"
	"r2-explorer/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPresignExpiry is used when expires_in is omitted.
const DefaultPresignExpiry = 3600

// SaveAccountRequest is the body of account create and update calls.
type SaveAccountRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AccountID       string `json:"account_id"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

// ValidateRequest is the body of a credential validation call.
type ValidateRequest struct {
	AccountID       string `json:"account_id"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

// CreateBucketRequest is the body of a bucket creation call.
type CreateBucketRequest struct {
	Name string `json:"name"`
}

// CreateFolderRequest is the body of a folder creation call.
type CreateFolderRequest struct {
	Path string `json:"path"`
}

// DeleteObjectsRequest is the body of a batch delete call.
type DeleteObjectsRequest struct {
	Keys []string `json:"keys"`
}

// Handler handles HTTP requests for accounts, buckets and objects.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the explorer routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	accounts := app.Group("/accounts")
	accounts.Get("/", h.HandleGetAccounts)
	accounts.Post("/", h.HandleCreateAccount)
	accounts.Post("/validate", h.HandleValidateCredentials)
	accounts.Put("/:id", h.HandleSaveAccount)
	accounts.Delete("/:id", h.HandleDeleteAccount)

	buckets := accounts.Group("/:id/buckets")
	buckets.Get("/", h.HandleListBuckets)
	buckets.Post("/", h.HandleCreateBucket)
	buckets.Get("/:bucket", h.HandleGetBucketInfo)
	buckets.Delete("/:bucket", h.HandleDeleteBucket)

	objects := buckets.Group("/:bucket")
	objects.Get("/objects", h.HandleListObjects)
	objects.Delete("/objects", h.HandleDeleteObjects)
	objects.Post("/folders", h.HandleCreateFolder)
	objects.Get("/presign", h.HandlePresign)
	objects.Get("/object", h.HandleGetObject)
	objects.Put("/object", h.HandlePutObject)
	objects.Delete("/object", h.HandleDeleteObject)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrAccountNotFound),
		storage.IsBucketNotFound(err),
		storage.IsObjectNotFound(err):
		return fiber.StatusNotFound
	case storage.IsCredentials(err):
		return fiber.StatusUnauthorized
	case storage.IsNetwork(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// HandleGetAccounts lists stored accounts.
// @Summary List Accounts
// @Description Lists stored accounts. Secrets are never returned.
// @Tags accounts
// @Produce json
// @Success 200 {array} credentials.AccountInfo
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts [get]
func (h *Handler) HandleGetAccounts(c *fiber.Ctx) error {
	accounts, err := h.service.GetAccounts(c.Context())
	if err != nil {
		return h.fail(c, "Failed to list accounts", err)
	}
	return c.JSON(accounts)
}

// HandleCreateAccount stores a new account, generating an id when none is given.
// @Summary Create Account
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body SaveAccountRequest true "Account"
// @Success 201 {object} map[string]string "Created account id"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts [post]
func (h *Handler) HandleCreateAccount(c *fiber.Ctx) error {
	var req SaveAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return h.saveAccount(c, req, fiber.StatusCreated)
}

// HandleSaveAccount inserts or replaces the account at :id.
// @Summary Save Account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body SaveAccountRequest true "Account"
// @Success 200 {object} map[string]string "Saved account id"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts/{id} [put]
func (h *Handler) HandleSaveAccount(c *fiber.Ctx) error {
	var req SaveAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.ID = c.Params("id")
	return h.saveAccount(c, req, fiber.StatusOK)
}

func (h *Handler) saveAccount(c *fiber.Ctx, req SaveAccountRequest, status int) error {
	if req.AccountID == "" || req.AccessKeyID == "" || req.SecretAccessKey == "" {
		return badRequest(c, "account_id, access_key_id and secret_access_key are required")
	}
	err := h.service.SaveAccount(c.Context(), req.ID, req.Name, req.AccountID, req.AccessKeyID, req.SecretAccessKey)
	if err != nil {
		return h.fail(c, "Failed to save account", err)
	}
	return c.Status(status).JSON(fiber.Map{"id": req.ID})
}

// HandleDeleteAccount removes an account.
// @Summary Delete Account
// @Tags accounts
// @Param id path string true "Account ID"
// @Success 204
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts/{id} [delete]
func (h *Handler) HandleDeleteAccount(c *fiber.Ctx) error {
	if err := h.service.DeleteAccount(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, "Failed to delete account", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleValidateCredentials probes credentials with a bucket listing.
// @Summary Validate Credentials
// @Tags accounts
// @Accept json
// @Produce json
// @Param credentials body ValidateRequest true "Credentials"
// @Success 200 {object} map[string]bool "Valid"
// @Failure 401 {object} map[string]string "Rejected"
// @Failure 502 {object} map[string]string "Endpoint unreachable"
// @Router /accounts/validate [post]
func (h *Handler) HandleValidateCredentials(c *fiber.Ctx) error {
	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	valid, err := h.service.ValidateCredentials(c.Context(), req.AccountID, req.AccessKeyID, req.SecretAccessKey)
	if err != nil {
		return h.fail(c, "Credential validation failed", err)
	}
	return c.JSON(fiber.Map{"valid": valid})
}

// HandleListBuckets lists the buckets of an account.
// @Summary List Buckets
// @Tags buckets
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {array} storage.BucketInfo
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts/{id}/buckets [get]
func (h *Handler) HandleListBuckets(c *fiber.Ctx) error {
	buckets, err := h.service.ListBuckets(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to list buckets", err)
	}
	return c.JSON(buckets)
}

// HandleCreateBucket creates a bucket.
// @Summary Create Bucket
// @Tags buckets
// @Accept json
// @Param id path string true "Account ID"
// @Param bucket body CreateBucketRequest true "Bucket"
// @Success 201
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts/{id}/buckets [post]
func (h *Handler) HandleCreateBucket(c *fiber.Ctx) error {
	var req CreateBucketRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return badRequest(c, "name is required")
	}
	if err := h.service.CreateBucket(c.Context(), c.Params("id"), req.Name); err != nil {
		return h.fail(c, "Failed to create bucket", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// HandleGetBucketInfo checks that a bucket exists.
// @Summary Get Bucket Info
// @Tags buckets
// @Produce json
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Success 200 {object} storage.BucketInfo
// @Failure 404 {object} map[string]string "Bucket not found"
// @Failure 502 {object} map[string]string "Endpoint unreachable"
// @Router /accounts/{id}/buckets/{bucket} [get]
func (h *Handler) HandleGetBucketInfo(c *fiber.Ctx) error {
	info, err := h.service.GetBucketInfo(c.Context(), c.Params("id"), c.Params("bucket"))
	if err != nil {
		return h.fail(c, "Failed to get bucket info", err)
	}
	return c.JSON(info)
}

// HandleDeleteBucket deletes an empty bucket.
// @Summary Delete Bucket
// @Tags buckets
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Success 204
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts/{id}/buckets/{bucket} [delete]
func (h *Handler) HandleDeleteBucket(c *fiber.Ctx) error {
	if err := h.service.DeleteBucket(c.Context(), c.Params("id"), c.Params("bucket")); err != nil {
		return h.fail(c, "Failed to delete bucket", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListObjects lists one folder level of a bucket.
// @Summary List Objects
// @Tags objects
// @Produce json
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Param prefix query string false "Folder prefix"
// @Success 200 {array} storage.ObjectInfo
// @Failure 404 {object} map[string]string "Bucket not found"
// @Router /accounts/{id}/buckets/{bucket}/objects [get]
func (h *Handler) HandleListObjects(c *fiber.Ctx) error {
	objects, err := h.service.ListObjects(c.Context(), c.Params("id"), c.Params("bucket"), c.Query("prefix"))
	if err != nil {
		return h.fail(c, "Failed to list objects", err)
	}
	return c.JSON(objects)
}

// HandleDeleteObjects deletes many keys.
// @Summary Delete Objects
// @Tags objects
// @Accept json
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Param keys body DeleteObjectsRequest true "Keys"
// @Success 204
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts/{id}/buckets/{bucket}/objects [delete]
func (h *Handler) HandleDeleteObjects(c *fiber.Ctx) error {
	var req DeleteObjectsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.service.DeleteObjects(c.Context(), c.Params("id"), c.Params("bucket"), req.Keys); err != nil {
		return h.fail(c, "Failed to delete objects", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCreateFolder writes a folder marker.
// @Summary Create Folder
// @Tags objects
// @Accept json
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Param folder body CreateFolderRequest true "Folder"
// @Success 201
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /accounts/{id}/buckets/{bucket}/folders [post]
func (h *Handler) HandleCreateFolder(c *fiber.Ctx) error {
	var req CreateFolderRequest
	if err := c.BodyParser(&req); err != nil || strings.Trim(req.Path, "/") == "" {
		return badRequest(c, "path is required")
	}
	if err := h.service.CreateFolder(c.Context(), c.Params("id"), c.Params("bucket"), req.Path); err != nil {
		return h.fail(c, "Failed to create folder", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// HandlePresign issues a presigned download URL.
// @Summary Presign Download
// @Tags objects
// @Produce json
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Param key query string true "Object key"
// @Param expires_in query int false "Validity in seconds" default(3600) minimum(1) maximum(604800)
// @Success 200 {object} map[string]string "URL"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /accounts/{id}/buckets/{bucket}/presign [get]
func (h *Handler) HandlePresign(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return badRequest(c, "key is required")
	}
	expiresIn := uint64(DefaultPresignExpiry)
	if raw := c.Query("expires_in"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(c, "expires_in must be a whole number of seconds")
		}
		expiresIn = parsed
	}
	if expiresIn == 0 || expiresIn > storage.MaxPresignExpiry {
		return badRequest(c, "expires_in must be between 1 and 604800")
	}
	url, err := h.service.GetPresignedURL(c.Context(), c.Params("id"), c.Params("bucket"), key, expiresIn)
	if err != nil {
		return h.fail(c, "Failed to presign", err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleGetObject downloads an object.
// @Summary Download Object
// @Tags objects
// @Produce octet-stream
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Param key query string true "Object key"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Object not found"
// @Router /accounts/{id}/buckets/{bucket}/object [get]
func (h *Handler) HandleGetObject(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return badRequest(c, "key is required")
	}
	data, err := h.service.GetObject(c.Context(), c.Params("id"), c.Params("bucket"), key)
	if err != nil {
		return h.fail(c, "Failed to download object", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}

// HandlePutObject uploads the raw request body as one object.
// @Summary Upload Object
// @Tags objects
// @Accept octet-stream
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Param key query string true "Object key"
// @Success 201
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /accounts/{id}/buckets/{bucket}/object [put]
func (h *Handler) HandlePutObject(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return badRequest(c, "key is required")
	}
	contentType := c.Get(fiber.HeaderContentType)
	if contentType == fiber.MIMEOctetStream {
		contentType = ""
	}
	// Body is only valid during the handler; PutObject reads it synchronously.
	if err := h.service.PutObject(c.Context(), c.Params("id"), c.Params("bucket"), key, c.Body(), contentType); err != nil {
		return h.fail(c, "Failed to upload object", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// HandleDeleteObject deletes one object.
// @Summary Delete Object
// @Tags objects
// @Param id path string true "Account ID"
// @Param bucket path string true "Bucket"
// @Param key query string true "Object key"
// @Success 204
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /accounts/{id}/buckets/{bucket}/object [delete]
func (h *Handler) HandleDeleteObject(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return badRequest(c, "key is required")
	}
	if err := h.service.DeleteObject(c.Context(), c.Params("id"), c.Params("bucket"), key); err != nil {
		return h.fail(c, "Failed to delete object", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
