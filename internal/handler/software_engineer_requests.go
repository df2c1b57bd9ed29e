package handler

import (
	"github.com/deppfellow/software-engineers/internal/model"
	"github.com/deppfellow/software-engineers/internal/validation"
)

type ListSoftwareEngineersRequest struct{}

func (r *ListSoftwareEngineersRequest) Validate() error {
	return nil
}

// SoftwareEngineerIDRequest carries the :id path parameter. A value that
// is not an int64 fails binding with 400.
type SoftwareEngineerIDRequest struct {
	ID int64 `param:"id" json:"-"`
}

func (r *SoftwareEngineerIDRequest) Validate() error {
	return validation.Struct(r)
}

// SoftwareEngineerBody is the JSON representation accepted on create and
// update. The id, when sent, is ignored: ids are assigned by the store.
type SoftwareEngineerBody struct {
	ID        *int64 `json:"id"`
	Name      string `json:"name"`
	TechStack string `json:"techStack"`
}

func (b SoftwareEngineerBody) toModel() model.SoftwareEngineer {
	return model.SoftwareEngineer{
		Name:      b.Name,
		TechStack: b.TechStack,
	}
}

type CreateSoftwareEngineerRequest struct {
	SoftwareEngineerBody
}

func (r *CreateSoftwareEngineerRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateSoftwareEngineerRequest struct {
	PathID int64 `param:"id" json:"-"`
	SoftwareEngineerBody
}

func (r *UpdateSoftwareEngineerRequest) Validate() error {
	return validation.Struct(r)
}
