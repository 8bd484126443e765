package handlers

import (
	"net/http"
	"strconv"

	"rentalhub/internal/common"
	"rentalhub/internal/models"
	"rentalhub/internal/services"

	"github.com/labstack/echo/v4"
)

const maxImageSize = 5 << 20

// PropertyHandlers handles HTTP requests for properties
type PropertyHandlers struct {
	propertyService services.PropertyService
}

// NewPropertyHandlers creates a new property handlers instance
func NewPropertyHandlers(propertyService services.PropertyService) *PropertyHandlers {
	return &PropertyHandlers{propertyService: propertyService}
}

// parseFilter reads location, type, status, minPrice and maxPrice.
func parseFilter(c echo.Context) (models.PropertyFilter, error) {
	filter := models.PropertyFilter{Location: c.QueryParam("location")}

	if v := c.QueryParam("type"); v != "" {
		t := models.PropertyType(v)
		if !t.Valid() {
			return filter, common.Validation("type must be one of apartment, house, condo, studio, villa, other")
		}
		filter.Type = &t
	}
	if v := c.QueryParam("status"); v != "" {
		s := models.PropertyStatus(v)
		if !s.Valid() {
			return filter, common.Validation("status must be one of available, booked, inactive")
		}
		filter.Status = &s
	}

	var err error
	if filter.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, common.Validation("%s must be a number", name)
	}
	return &f, nil
}

// ListProperties serves the public listing. Admins see every status unless
// they filter by one.
func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	caller, _ := common.CurrentUser(c)

	properties, err := h.propertyService.List(c.Request().Context(), caller, filter)
	if err != nil {
		return err
	}
	return common.SendList(c, properties)
}

func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	property, err := h.propertyService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, property)
}

func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var property models.Property
	if err := bind(c, &property); err != nil {
		return err
	}

	if err := h.propertyService.Create(c.Request().Context(), caller, &property); err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, &property)
}

func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req models.PropertyUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	property, err := h.propertyService.Update(c.Request().Context(), caller, id, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, property)
}

func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.propertyService.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return common.SendMessage(c, "Property deleted successfully")
}

// AgentProperties lists the calling agent's properties in every status.
func (h *PropertyHandlers) AgentProperties(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	properties, err := h.propertyService.AgentProperties(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return common.SendList(c, properties)
}

// UploadImage accepts a multipart "image" file for the property.
func (h *PropertyHandlers) UploadImage(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.Validation("image file is required")
	}
	if file.Size > maxImageSize {
		return common.Validation("image cannot exceed 5MB")
	}
	src, err := file.Open()
	if err != nil {
		return common.Validation("image file could not be read")
	}
	defer src.Close()

	images, err := h.propertyService.UploadImage(c.Request().Context(), caller, id, file.Filename, src, file.Size)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, images)
}

// ImageURLs returns presigned download URLs in display order.
func (h *PropertyHandlers) ImageURLs(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	urls, err := h.propertyService.ImageURLs(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return common.SendList(c, urls)
}
