package services

import (
	"github.com/lumichat/videobridge/pkg/internal/database"
	"github.com/lumichat/videobridge/pkg/internal/models"
)

func GetAccount(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

// ResolveDisplayName picks the account attribute configured as the
// conference display name, falling back to the username when the
// attribute is unknown or empty.
func ResolveDisplayName(account models.Account, field string) string {
	if len(field) == 0 {
		return account.Name
	}

	var attributes map[string]any
	models.FitStruct(account, &attributes)
	if value, ok := attributes[field].(string); ok && len(value) > 0 {
		return value
	}
	return account.Name
}
