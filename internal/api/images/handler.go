package images

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"image-api/internal/domain/media"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// subjectKey is where the auth middleware stores the caller's token subject.
const subjectKey = "subject"

// Handler exposes CRUD routes for the Image resource.
type Handler struct {
	repo media.Repository
	ser  *Serializer
	log  *zap.Logger
}

func NewHandler(repo media.Repository, ser *Serializer, log *zap.Logger) *Handler {
	return &Handler{repo: repo, ser: ser, log: log}
}

// GET /images/
func (h *Handler) List(c *gin.Context) {
	images, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list images", err)
		return
	}

	c.JSON(http.StatusOK, h.ser.ToWireList(images))
}

// GET /images/:id/
func (h *Handler) Retrieve(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	img, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get image", err)
		return
	}

	c.JSON(http.StatusOK, h.ser.ToWire(img))
}

// POST /images/
func (h *Handler) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	fields, err := h.ser.FromWire(payload, false)
	if err != nil {
		h.fail(c, "validate image", err)
		return
	}

	img, err := h.repo.Create(c.Request.Context(), fields)
	if err != nil {
		h.fail(c, "create image", err)
		return
	}

	h.log.Info("image created", zap.Uint("id", img.ID), zap.String("subject", c.GetString(subjectKey)))
	c.JSON(http.StatusCreated, h.ser.ToWire(img))
}

// PUT /images/:id/ replaces every writable field.
func (h *Handler) Update(c *gin.Context) {
	h.update(c, false)
}

// PATCH /images/:id/ changes only the supplied fields.
func (h *Handler) PartialUpdate(c *gin.Context) {
	h.update(c, true)
}

func (h *Handler) update(c *gin.Context, partial bool) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// a missing record wins over a bad payload
	if _, err := h.repo.Get(ctx, id); err != nil {
		h.fail(c, "get image", err)
		return
	}

	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	fields, err := h.ser.FromWire(payload, partial)
	if err != nil {
		h.fail(c, "validate image", err)
		return
	}

	img, err := h.repo.Update(ctx, id, fields)
	if err != nil {
		h.fail(c, "update image", err)
		return
	}

	c.JSON(http.StatusOK, h.ser.ToWire(img))
}

// DELETE /images/:id/
func (h *Handler) Delete(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete image", err)
		return
	}

	h.log.Info("image deleted", zap.Uint("id", id), zap.String("subject", c.GetString(subjectKey)))
	c.Status(http.StatusNoContent)
}

// imageID parses the :id param. Anything that is not a positive integer
// within the signed bigint range cannot name a record, so it is reported as
// not found.
func imageID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil || id == 0 {
		notFound(c)
		return 0, false
	}
	return uint(id), true
}

func bindPayload(c *gin.Context) (map[string]json.RawMessage, bool) {
	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
		return nil, false
	}
	if payload == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid data. Expected a JSON object."})
		return nil, false
	}
	return payload, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

// fail maps err onto the HTTP error taxonomy.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, verrs)
	case errors.Is(err, media.ErrNotFound):
		notFound(c)
	default:
		h.log.Error("failed to "+op, zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
