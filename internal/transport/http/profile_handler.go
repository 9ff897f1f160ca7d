package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/media"
	"github.com/njprem/Voyara_APP_BackEnd/internal/metrics"
	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	log      zerolog.Logger
}

func RegisterProfile(e *echo.Echo, profiles *service.ProfileService, sessions *service.SessionManager, log zerolog.Logger) {
	handler := &ProfileHandler{profiles: profiles, log: log}

	group := e.Group("/api/profile", LoadSession(sessions, log), RequireSession())
	group.GET("", handler.getProfile)
	group.POST("", handler.updateProfile)
	group.POST("/avatar", handler.uploadAvatar)
}

func (h *ProfileHandler) getProfile(c echo.Context) error {
	profile, err := h.profiles.GetProfile(c.Request().Context(), ownerID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Data("profile", profile))
}

func (h *ProfileHandler) updateProfile(c echo.Context) error {
	var req domain.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.IsEmpty() {
		return c.JSON(http.StatusBadRequest, util.Error("nothing to update"))
	}
	profile, err := h.profiles.UpdateProfile(c.Request().Context(), ownerID(c), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Success(profile))
}

func (h *ProfileHandler) uploadAvatar(c echo.Context) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return writeError(c, h.log, service.ErrAvatarRequired)
	}
	crop, err := parseCrop(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read uploaded file"))
	}
	defer file.Close()

	profile, err := h.profiles.UploadAvatar(c.Request().Context(), ownerID(c), media.Upload{
		Reader:      file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	}, crop)
	metrics.ObserveAvatarUpload(err)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, util.Success(profile))
}

type cropError string

func (e cropError) Error() string { return string(e) }

// parseCrop reads crop_x, crop_y, crop_width and crop_height. All four must
// be present for a crop; none means center crop.
func parseCrop(c echo.Context) (*media.Crop, error) {
	fields := []string{"crop_x", "crop_y", "crop_width", "crop_height"}
	values := make([]int, len(fields))
	present := 0
	for i, name := range fields {
		raw := strings.TrimSpace(c.FormValue(name))
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return nil, cropError(name + " must be a non-negative number")
		}
		values[i] = int(f)
		present++
	}
	switch present {
	case 0:
		return nil, nil
	case len(fields):
		return &media.Crop{X: values[0], Y: values[1], Width: values[2], Height: values[3]}, nil
	default:
		return nil, cropError("crop_x, crop_y, crop_width and crop_height must be sent together")
	}
}
