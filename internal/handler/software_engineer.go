package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/software-engineers/internal/errs"
	"github.com/deppfellow/software-engineers/internal/model"
	"github.com/deppfellow/software-engineers/internal/server"
	"github.com/deppfellow/software-engineers/internal/service"
)

const softwareEngineerNotFoundCode = "SOFTWARE_ENGINEER_NOT_FOUND"

type SoftwareEngineerHandler struct {
	Handler
	service *service.SoftwareEngineerService
}

func NewSoftwareEngineerHandler(s *server.Server, svc *service.SoftwareEngineerService) *SoftwareEngineerHandler {
	return &SoftwareEngineerHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *SoftwareEngineerHandler) GetSoftwareEngineers(c echo.Context, _ *ListSoftwareEngineersRequest) ([]model.SoftwareEngineer, error) {
	return h.service.GetAllSoftwareEngineers(c.Request().Context())
}

func (h *SoftwareEngineerHandler) GetSoftwareEngineerByID(c echo.Context, req *SoftwareEngineerIDRequest) (model.SoftwareEngineer, error) {
	engineer, err := h.service.GetSoftwareEngineerByID(c.Request().Context(), req.ID)
	if err != nil {
		return model.SoftwareEngineer{}, mapNotFound(err)
	}
	return engineer, nil
}

// CreateSoftwareEngineer returns the URL of the new record for the Location header.
func (h *SoftwareEngineerHandler) CreateSoftwareEngineer(c echo.Context, req *CreateSoftwareEngineerRequest) (string, error) {
	saved, err := h.service.InsertSoftwareEngineer(c.Request().Context(), req.toModel())
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Request().URL.Path, "/"), saved.ID), nil
}

func (h *SoftwareEngineerHandler) UpdateSoftwareEngineer(c echo.Context, req *UpdateSoftwareEngineerRequest) (model.SoftwareEngineer, error) {
	updated, err := h.service.UpdateSoftwareEngineerByID(c.Request().Context(), req.PathID, req.toModel())
	if err != nil {
		return model.SoftwareEngineer{}, mapNotFound(err)
	}
	return updated, nil
}

func (h *SoftwareEngineerHandler) DeleteSoftwareEngineer(c echo.Context, req *SoftwareEngineerIDRequest) error {
	return h.service.DeleteSoftwareEngineerByID(c.Request().Context(), req.ID)
}

func mapNotFound(err error) error {
	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		code := softwareEngineerNotFoundCode
		return errs.NewNotFoundError(fmt.Sprintf("Software engineer with id %d not found", notFound.ID), true, &code)
	}
	return err
}
