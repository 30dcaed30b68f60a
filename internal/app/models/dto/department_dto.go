package dto

import "github.com/yigit/campusrecords/internal/app/models"

// CreateDepartmentRequest is the body of POST /api/departments
type CreateDepartmentRequest struct {
	Name        string `json:"name" example:"College of Information and Communications Technology"`
	Code        string `json:"code" example:"CICT"`
	Description string `json:"description" example:"Computing programs"`
	HeadName    string `json:"head_name" example:"Dr. Maria Santos"`
	HeadEmail   string `json:"head_email" example:"msantos@school.edu.ph"`
	HeadContact string `json:"head_contact" example:"09171234567"`
	Status      string `json:"status" example:"active" enums:"active,inactive"`
}

// ToModel builds the department to be checked by the guard. Status defaults to active.
func (r *CreateDepartmentRequest) ToModel() *models.Department {
	status := models.Status(r.Status)
	if status == "" {
		status = models.StatusActive
	}
	return &models.Department{
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		HeadName:    r.HeadName,
		HeadEmail:   r.HeadEmail,
		HeadContact: r.HeadContact,
		Status:      status,
	}
}

// UpdateDepartmentRequest is the body of PUT /api/departments/{id}. Only supplied fields change.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	HeadName    *string `json:"head_name,omitempty"`
	HeadEmail   *string `json:"head_email,omitempty"`
	HeadContact *string `json:"head_contact,omitempty"`
	Status      *string `json:"status,omitempty" enums:"active,inactive"`
}

// ApplyTo merges the supplied fields into d
func (r *UpdateDepartmentRequest) ApplyTo(d *models.Department) {
	setString(&d.Name, r.Name)
	setString(&d.Code, r.Code)
	setString(&d.Description, r.Description)
	setString(&d.HeadName, r.HeadName)
	setString(&d.HeadEmail, r.HeadEmail)
	setString(&d.HeadContact, r.HeadContact)
	if r.Status != nil {
		d.Status = models.Status(*r.Status)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
