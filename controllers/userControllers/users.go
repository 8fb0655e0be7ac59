package userController

import (
	"strings"

	"cyberlearn/database"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	userValidator "cyberlearn/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// ListUsers returns users filtered by ?role= and ?search= (username, email or names)
func ListUsers(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	db := database.Database.Db.Model(&models.User{})
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		db = db.Where("role = ?", role)
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		db = db.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}

	var users []models.User
	if err := db.Order("id asc").Offset(p.Offset()).Limit(p.Limit).Find(&users).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", fiber.Map{
		"items":      users,
		"pagination": p.Meta(total),
	})
}

func GetUser(c *fiber.Ctx) error {
	id := c.Locals("targetUserId").(uint)

	var user models.User
	if err := database.Database.Db.First(&user, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", user)
}

func UpdateUser(c *fiber.Ctx) error {
	id := c.Locals("targetUserId").(uint)
	reqData := c.Locals("validatedUser").(*userValidator.UpdateUserRequest)

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}

	updates := map[string]interface{}{}
	if reqData.FirstName != nil {
		updates["first_name"] = *reqData.FirstName
	}
	if reqData.LastName != nil {
		updates["last_name"] = *reqData.LastName
	}
	if reqData.Role != nil {
		updates["role"] = *reqData.Role
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return middleware.DBErrorResponse(c, err, "User")
		}
	}
	if err := db.First(&user, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
}

// DeactivateUser is the soft delete of a user account
func DeactivateUser(c *fiber.Ctx) error {
	id := c.Locals("targetUserId").(uint)

	if self, _ := middleware.CurrentUserID(c); self == id {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot deactivate your own account!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}
	if err := db.Model(&user).Update("is_active", false).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}
	user.IsActive = false

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deactivated successfully.", user)
}
