package Controllers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"InspectionPro/Models"
	"InspectionPro/email"
)

// CompanyController handles company and team management endpoints
type CompanyController struct {
	DB *gorm.DB
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(db *gorm.DB) *CompanyController {
	return &CompanyController{DB: db}
}

// GetUserCompanies lists companies the authenticated user belongs to
func (c *CompanyController) GetUserCompanies(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
	}

	var companies []Models.Company
	err := c.DB.
		Joins("JOIN company_members ON company_members.company_id = companies.id").
		Where("company_members.user_id = ? AND company_members.is_active = ? AND company_members.deleted_at IS NULL", user.ID, true).
		Find(&companies).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve companies"})
	}

	return ctx.JSON(companies)
}

// GetCompany retrieves a single company by ID
func (c *CompanyController) GetCompany(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var company Models.Company
	if result := c.DB.First(&company, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
	}

	return ctx.JSON(company)
}

// CreateCompany creates a company and makes the caller its owner
func (c *CompanyController) CreateCompany(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
	}

	var input Models.Company
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Company name is required"})
	}

	company := Models.Company{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		member := Models.CompanyMember{
			CompanyID: company.ID,
			UserID:    user.ID,
			Role:      Models.RoleOwner,
			IsActive:  true,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create company"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(company)
}

// UpdateCompany updates company profile fields
func (c *CompanyController) UpdateCompany(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var company Models.Company
	if result := c.DB.First(&company, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
	}

	var input Models.Company
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&company).Updates(Models.Company{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	})

	return ctx.JSON(company)
}

// GetMembers lists active members of a company
func (c *CompanyController) GetMembers(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var members []Models.CompanyMember
	result := c.DB.Preload("User").Where("company_id = ?", id).Find(&members)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve members"})
	}

	return ctx.JSON(members)
}

// UpdateMemberRole changes a member's role within the company
func (c *CompanyController) UpdateMemberRole(ctx *fiber.Ctx) error {
	memberID, err := strconv.Atoi(ctx.Params("memberId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member ID"})
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Role != Models.RoleOwner && input.Role != Models.RoleAdmin && input.Role != Models.RoleInspector {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}

	var member Models.CompanyMember
	if result := c.DB.First(&member, memberID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	if err := c.DB.Model(&member).Update("role", input.Role).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update member role"})
	}

	// Keep the user's login permission aligned with their highest role
	c.DB.Model(&Models.User{}).Where("id = ?", member.UserID).
		Update("permission", Models.RolePermission(input.Role))

	return ctx.JSON(member)
}

// RemoveMember deactivates a member
func (c *CompanyController) RemoveMember(ctx *fiber.Ctx) error {
	memberID, err := strconv.Atoi(ctx.Params("memberId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member ID"})
	}

	var member Models.CompanyMember
	if result := c.DB.First(&member, memberID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	if member.Role == Models.RoleOwner {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The company owner cannot be removed"})
	}

	if err := c.DB.Model(&member).Update("is_active", false).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove member"})
	}

	return ctx.JSON(fiber.Map{"removed": true})
}

// InviteMember creates a pending invitation and emails the invite link
func (c *CompanyController) InviteMember(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
	}

	var input struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Email == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required"})
	}
	if input.Role == "" {
		input.Role = Models.RoleInspector
	}

	var company Models.Company
	if result := c.DB.First(&company, companyID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
	}

	invitation := Models.CompanyInvitation{
		CompanyID: uint(companyID),
		Email:     input.Email,
		Role:      input.Role,
		Token:     uuid.NewString(),
		InvitedBy: user.ID,
		ExpiresAt: time.Now().AddDate(0, 0, 7),
	}
	if err := c.DB.Create(&invitation).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invitation"})
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}
	acceptURL := fmt.Sprintf("%s/invitations/accept?token=%s", baseURL, invitation.Token)

	if err := email.SendInvitation(email.ConfigFromEnv(), company, invitation, acceptURL); err != nil {
		// The invitation stays valid; the link can be resent
		log.Printf("Error sending invitation email to %s: %v", invitation.Email, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(invitation)
}

// GetPendingInvitations lists unaccepted, unexpired invitations
func (c *CompanyController) GetPendingInvitations(ctx *fiber.Ctx) error {
	companyID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var invitations []Models.CompanyInvitation
	result := c.DB.Where("company_id = ? AND accepted = ? AND expires_at > ?", companyID, false, time.Now()).
		Find(&invitations)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve invitations"})
	}

	return ctx.JSON(invitations)
}

// CancelInvitation deletes a pending invitation
func (c *CompanyController) CancelInvitation(ctx *fiber.Ctx) error {
	invitationID, err := strconv.Atoi(ctx.Params("invitationId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invitation ID"})
	}

	result := c.DB.Delete(&Models.CompanyInvitation{}, invitationID)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel invitation"})
	}

	return ctx.JSON(fiber.Map{"cancelled": true})
}

// AcceptInvitation redeems an invitation token for the authenticated user
func (c *CompanyController) AcceptInvitation(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
	}

	token := ctx.Query("token")
	if token == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invitation token is required"})
	}

	var invitation Models.CompanyInvitation
	err := c.DB.Where("token = ? AND accepted = ?", token, false).First(&invitation).Error
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invitation not found"})
	}
	if time.Now().After(invitation.ExpiresAt) {
		return ctx.Status(fiber.StatusGone).JSON(fiber.Map{"error": "Invitation has expired"})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		member := Models.CompanyMember{
			CompanyID: invitation.CompanyID,
			UserID:    user.ID,
			Role:      invitation.Role,
			IsActive:  true,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&invitation).Update("accepted", true).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to accept invitation"})
	}

	return ctx.JSON(fiber.Map{"company_id": invitation.CompanyID, "role": invitation.Role})
}

// UploadLogo stores the company logo, resized for report headers
func (c *CompanyController) UploadLogo(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var company Models.Company
	if result := c.DB.First(&company, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
	}

	fileHeader, err := ctx.FormFile("logo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Logo file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read logo file"})
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is not a valid image"})
	}

	resized := imaging.Fit(img, 512, 512, imaging.Lanczos)

	if err := os.MkdirAll("CompanyLogos", 0755); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store logo"})
	}
	outputPath := fmt.Sprintf("CompanyLogos/%d.png", company.ID)
	if err := imaging.Save(resized, outputPath); err != nil {
		log.Printf("Error saving logo for company %d: %v", company.ID, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store logo"})
	}

	logoURL := "/" + outputPath
	if err := c.DB.Model(&company).Update("logo_url", logoURL).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update company"})
	}

	return ctx.JSON(fiber.Map{"logo_url": logoURL})
}

// RemoveLogo clears the company logo
func (c *CompanyController) RemoveLogo(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var company Models.Company
	if result := c.DB.First(&company, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
	}

	if err := c.DB.Model(&company).Update("logo_url", "").Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update company"})
	}

	return ctx.JSON(fiber.Map{"removed": true})
}
