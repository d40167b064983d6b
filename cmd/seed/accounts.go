package main

import (
	"context"
	"errors"
	"fmt"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"
)

const demoPassword = "volunteer123"

var demoVolunteers = []model.VolunteerRegistration{
	{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Skills: "technology",
		Bio: "Web Developer & Graphic Designer"},
	{FirstName: "Emily", LastName: "Chen", Email: "emily.chen@example.com", Skills: "creative",
		Bio: "Graphic design and social media for good causes."},
}

var demoOrganizations = []model.OrganizationRegistration{
	{OrgName: "EcoAction Environmental Group", Email: "team@ecoaction.example.org", Phone: "(555) 123-4567",
		OrgType: "nonprofit", Description: "Local climate action and clean-up campaigns.", Website: "https://ecoaction.example.org"},
	{OrgName: "Hope House Community Center", Email: "hello@hopehouse.example.org", Phone: "(555) 987-6543",
		OrgType: "community", Description: "After-school programs and a weekly food pantry."},
}

// seedAccounts registers the demo accounts, skipping any that already exist.
func seedAccounts(ctx context.Context, auth *service.AuthService) error {
	for _, v := range demoVolunteers {
		v.Password, v.TermsAccepted = demoPassword, true
		a, err := auth.RegisterVolunteer(ctx, v)
		if err := skipExisting(v.Email, err); err != nil {
			return fmt.Errorf("volunteer %s: %w", v.Email, err)
		}
		if a != nil {
			logger.Info("seed: volunteer created", "email", a.Email, "id", a.ID)
		}
	}
	for _, o := range demoOrganizations {
		o.Password, o.TermsAccepted = demoPassword, true
		a, err := auth.RegisterOrganization(ctx, o)
		if err := skipExisting(o.Email, err); err != nil {
			return fmt.Errorf("organization %s: %w", o.Email, err)
		}
		if a != nil {
			logger.Info("seed: organization created", "email", a.Email, "id", a.ID)
		}
	}
	return nil
}

func skipExisting(email string, err error) error {
	if errors.Is(err, service.ErrEmailTaken) {
		logger.Info("seed: account already exists, skipping", "email", email)
		return nil
	}
	return err
}
