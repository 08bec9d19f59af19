package controller

import "github.com/ikkim/gamecatalog-backend/internal/app/service"

// Publishers and developers take the same request bodies.

type CreateCompanyRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Country string `json:"country" binding:"max=100"`
}

type UpdateCompanyRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Country *string `json:"country" binding:"omitempty,max=100"`
}

func (r CreateCompanyRequest) input() service.CompanyInput {
	return service.CompanyInput{Name: r.Name, Country: r.Country}
}

func (r UpdateCompanyRequest) patch() service.CompanyPatch {
	return service.CompanyPatch{Name: r.Name, Country: r.Country}
}
