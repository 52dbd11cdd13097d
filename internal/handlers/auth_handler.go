package handlers

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"BidVault/internal/database"
	"BidVault/internal/models"
	"BidVault/internal/services"
)

var emailService *services.EmailService

func InitEmailService() {
	emailService = services.NewEmailService()
	log.Println("Email service initialized")
}

type SignupRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName          string       `json:"full_name"`
	Bio               string       `json:"bio"`
	YearsExperience   *int         `json:"years_experience" validate:"omitempty,gte=0"`
	CompletedProjects *int         `json:"completed_projects" validate:"omitempty,gte=0"`
	Skills            []SkillInput `json:"skills" validate:"omitempty,dive"`
}

type SkillInput struct {
	Name        string `json:"name" validate:"required"`
	Proficiency string `json:"proficiency" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// GenerateUserTag creates a unique handle from the full name
func GenerateUserTag(fullName string) string {
	base := strings.ToLower(strings.ReplaceAll(fullName, " ", ""))
	if len(base) > 12 {
		base = base[:12]
	}
	tag := fmt.Sprintf("@%s%d", base, rand.Intn(9999))

	// Regenerate on collision
	var count int64
	database.DB.Model(&models.User{}).Where("user_tag = ?", tag).Count(&count)
	if count > 0 {
		tag = fmt.Sprintf("@%s%d", base, rand.Intn(999999))
	}
	return tag
}

// Signup registers a new user
func Signup(c *fiber.Ctx) error {
	req := new(SignupRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email is already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process password",
		})
	}

	user := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		UserTag:  GenerateUserTag(req.FullName),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	token, err := generateJWT(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"token":   token,
		"user": fiber.Map{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"user_tag":  user.UserTag,
		},
	})
}

// Login authenticates a user and returns a JWT
func Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if user.IsSuspended {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is suspended",
		})
	}

	token, err := generateJWT(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"user_tag":  user.UserTag,
			"balance":   user.Balance,
		},
	})
}

// GetProfile returns the authenticated user's profile with skills
func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := database.DB.Preload("Skills").First(&user, userID).Error; err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// UpdateProfile updates the contributor profile consumed by the selection
// scorer (skills, experience, completed projects).
func UpdateProfile(c *fiber.Ctx) error {
	req := new(UpdateProfileRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return serviceError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.FullName != "" {
			user.FullName = req.FullName
		}
		if req.Bio != "" {
			user.Bio = req.Bio
		}
		if req.YearsExperience != nil {
			user.YearsExperience = *req.YearsExperience
		}
		if req.CompletedProjects != nil {
			user.CompletedProjects = *req.CompletedProjects
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		if req.Skills != nil {
			if err := tx.Where("user_id = ?", userID).Delete(&models.UserSkill{}).Error; err != nil {
				return err
			}
			for _, s := range req.Skills {
				proficiency := models.SkillProficiency(s.Proficiency)
				if proficiency == "" {
					proficiency = models.ProficiencyBeginner
				}
				skill := models.UserSkill{
					UserID:      userID,
					Name:        s.Name,
					Proficiency: proficiency,
				}
				if err := tx.Create(&skill).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return serviceError(c, err)
	}

	database.DB.Preload("Skills").First(&user, userID)
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func generateJWT(userID uint, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(userID),
		"email":   email,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
