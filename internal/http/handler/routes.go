package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"filedrop/internal/service"
)

// uploadResponse is the wire format for a successful upload. ExpiresAt is
// epoch milliseconds.
type uploadResponse struct {
	Message   string `json:"message"`
	ID        string `json:"id"`
	FileURL   string `json:"fileUrl"`
	QRData    string `json:"qrData"`
	ExpiresAt int64  `json:"expiresAt"`
}

// RegisterRoutes attaches the sharing HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.ShareService, maxUploadBytes int64) {
	app.Post("/upload", UploadFile(svc, maxUploadBytes))
	app.Get("/meta/:id", GetFileMeta(svc))
	app.Post("/download/:id", DownloadFile(svc))
	app.Get("/health", Health(svc))
	app.Get("/healthz", LivenessProbe())
}

// UploadFile handles multipart uploads (field name: file, optional field:
// password) and returns the share link plus QR code.
//
// @Summary Upload a file
// @Accept multipart/form-data
// @Param file formData file true "file to share"
// @Param password formData string false "optional shared password"
// @Success 200 {object} uploadResponse
// @Router /upload [post]
func UploadFile(svc service.ShareService, maxUploadBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "file is required")
		}
		if maxUploadBytes > 0 && fh.Size > maxUploadBytes {
			return writeError(c, fiber.StatusBadRequest, "file exceeds the maximum allowed size")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Upload(c.UserContext(), f, fh.Filename, c.FormValue("password"), fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}

		return c.JSON(uploadResponse{
			Message:   "File uploaded successfully",
			ID:        res.Record.ID,
			FileURL:   res.FileURL,
			QRData:    res.QRData,
			ExpiresAt: res.Record.ExpiresAt.UnixMilli(),
		})
	}
}

// GetFileMeta returns display-safe fields for client-side rendering of the
// download page. Never-existed and already-swept ids both yield 404.
//
// @Summary File metadata
// @Param id path string true "share id"
// @Success 200 {object} service.FileMeta
// @Router /meta/{id} [get]
func GetFileMeta(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meta, err := svc.Meta(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrIDRequired) {
				return writeError(c, fiber.StatusNotFound, "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(meta)
	}
}

// DownloadFile validates expiry and password, then streams the stored bytes
// with the original filename as the suggested save name.
//
// @Summary Download a shared file
// @Accept x-www-form-urlencoded
// @Param id path string true "share id"
// @Param password formData string false "shared password if protected"
// @Success 200 {file} binary
// @Router /download/{id} [post]
func DownloadFile(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, rec, err := svc.Download(c.UserContext(), c.Params("id"), c.FormValue("password"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusNotFound, "file not found")
			case errors.Is(err, service.ErrExpired):
				return writeError(c, fiber.StatusGone, "file link expired")
			case errors.Is(err, service.ErrUnauthorized):
				return writeError(c, fiber.StatusUnauthorized, "invalid password")
			default:
				return writeError(c, fiber.StatusInternalServerError, "internal server error")
			}
		}

		c.Attachment(rec.OriginalName)
		if rec.Size > 0 {
			return c.SendStream(rc, int(rec.Size))
		}
		return c.SendStream(rc)
	}
}

// Health reports liveness plus the current number of live records.
//
// @Summary Health check
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func Health(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stored, err := svc.Count(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "record store unavailable")
		}
		return c.JSON(fiber.Map{"ok": true, "stored": stored})
	}
}

// LivenessProbe is a bare liveness endpoint for orchestration probes.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
